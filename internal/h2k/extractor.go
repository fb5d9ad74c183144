// =============================================================================
// H2K to HPXML Translator - Attribute Extractor
// =============================================================================
//
// This module reads house-level values out of a validated Document. Each
// getter picks its fields out by exact path and returns a typed record.
//
// FAILURE POLICY:
//   Extraction is fail-fast. The first missing field or out-of-domain code
//   aborts the getter, which returns a zero record (or nil slice) together
//   with the error. Getters share no state, so a failure in one never
//   affects records returned by another.
//
// =============================================================================

package h2k

import (
	"github.com/canmet-energy/h2k-hpxml/internal/codes"
)

// Extractor reads typed records from a Document. It holds no state besides
// the document and may be used repeatedly.
type Extractor struct {
	doc *Document
}

// NewExtractor creates an Extractor over a loaded document.
func NewExtractor(doc *Document) *Extractor {
	return &Extractor{doc: doc}
}

func (e *Extractor) reader() *fieldReader {
	return newReader(e.doc.Root, "")
}

// =============================================================================
// IDENTIFICATION
// =============================================================================

// Version reads Application/Version.
func (e *Extractor) Version() (Version, error) {
	r := e.reader()
	v := Version{
		Major: r.int("Application/Version", "major"),
		Minor: r.int("Application/Version", "minor"),
	}
	if r.has("Application/Version/Labels/English") {
		v.Label = r.text("Application/Version/Labels/English")
	}
	if r.err != nil {
		return Version{}, r.err
	}
	return v, nil
}

// FileID reads the file identification string.
func (e *Extractor) FileID() (string, error) {
	r := e.reader()
	id := r.text("ProgramInformation/File/Identification")
	return id, r.err
}

// Climate reads the weather station.
func (e *Extractor) Climate() (Climate, error) {
	r := e.reader()
	c := Climate{
		Province:          r.text("ProgramInformation/Weather/Region/English"),
		City:              r.text("ProgramInformation/Weather/Location/English"),
		DepthOfFrost:      r.float("ProgramInformation/Weather", "depthOfFrost"),
		HeatingDegreeDays: r.float("ProgramInformation/Weather", "heatingDegreeDay"),
	}
	if r.err != nil {
		return Climate{}, r.err
	}
	return c, nil
}

// =============================================================================
// HOUSE SPECIFICATIONS
// =============================================================================

const specs = "House/Specifications"

// Specifications reads the coded house descriptors.
func (e *Extractor) Specifications() (Specifications, error) {
	r := e.reader()
	s := Specifications{
		HouseType:       r.coded(specs + "/HouseType"),
		PlanShape:       r.coded(specs + "/PlanShape"),
		Storeys:         r.coded(specs + "/Storeys"),
		FacingDirection: r.coded(specs + "/FacingDirection"),
		ThermalMass:     r.coded(specs + "/ThermalMass"),
	}
	if r.err != nil {
		return Specifications{}, r.err
	}
	return s, nil
}

// Vintage resolves the year the house was built.
func (e *Extractor) Vintage() (int, error) {
	r := e.reader()
	code := r.int(specs+"/YearBuilt", "code")
	if r.err != nil {
		return 0, r.err
	}
	explicit := ""
	if code == codes.ExplicitYearCode {
		explicit = r.str(specs+"/YearBuilt", "value")
		if r.err != nil {
			return 0, r.err
		}
	}
	return codes.VintageYear(code, explicit)
}

// HeatedFloorArea reads the conditioned floor area in square metres.
func (e *Extractor) HeatedFloorArea() (HeatedFloorArea, error) {
	r := e.reader()
	a := HeatedFloorArea{
		AboveGrade: r.float(specs+"/HeatedFloorArea", "aboveGrade"),
		BelowGrade: r.float(specs+"/HeatedFloorArea", "belowGrade"),
	}
	if r.err != nil {
		return HeatedFloorArea{}, r.err
	}
	return a, nil
}

// RoofCavity reads the attic description.
func (e *Extractor) RoofCavity() (RoofCavity, error) {
	r := e.reader()
	const cavity = specs + "/RoofCavity"
	c := RoofCavity{
		VentilationRate: r.float(cavity, "ventilationRate"),
		Volume:          r.float(cavity, "volume"),
		GableEndArea:    r.float(cavity+"/GableEnds", "area"),
		GableEnds:       readCavityFace(r, cavity+"/GableEnds"),
	}
	if r.has(cavity + "/SlopedRoof") {
		face := readCavityFace(r, cavity+"/SlopedRoof")
		c.SlopedRoof = &face
	}
	if r.err != nil {
		return RoofCavity{}, r.err
	}
	return c, nil
}

func readCavityFace(r *fieldReader, path string) CavityFace {
	return CavityFace{
		Sheathing: MaterialRef{
			Code:  r.int(path+"/SheatingMaterial", "code"),
			Value: r.float(path+"/SheatingMaterial", "value"),
		},
		Exterior: MaterialRef{
			Code:  r.int(path+"/ExteriorMaterial", "code"),
			Value: r.float(path+"/ExteriorMaterial", "value"),
		},
	}
}

// SurfaceColours reads wall and roof absorptivity.
func (e *Extractor) SurfaceColours() (SurfaceColours, error) {
	r := e.reader()
	c := SurfaceColours{
		WallAbsorptivity: r.float(specs+"/WallColour", "value"),
		RoofAbsorptivity: r.float(specs+"/RoofColour", "value"),
	}
	if r.err != nil {
		return SurfaceColours{}, r.err
	}
	return c, nil
}

// =============================================================================
// TEMPERATURES
// =============================================================================

const temps = "House/Temperatures"

// MainFloorSetpoints reads the main floor thermostat settings.
func (e *Extractor) MainFloorSetpoints() (MainFloorSetpoints, error) {
	r := e.reader()
	s := MainFloorSetpoints{
		DaytimeHeating:           r.float(temps+"/MainFloors", "daytimeHeatingSetPoint"),
		NighttimeHeating:         r.float(temps+"/MainFloors", "nighttimeHeatingSetPoint"),
		NighttimeSetbackDuration: r.float(temps+"/MainFloors", "nighttimeSetbackDuration"),
		Cooling:                  r.float(temps+"/MainFloors", "coolingSetPoint"),
	}
	if r.err != nil {
		return MainFloorSetpoints{}, r.err
	}
	return s, nil
}

// AllowableTempRise resolves the main floor allowable temperature rise.
func (e *Extractor) AllowableTempRise() (float64, error) {
	r := e.reader()
	code := r.int(temps+"/MainFloors/AllowableRise", "code")
	if r.err != nil {
		return 0, r.err
	}
	return codes.AllowableRise(code)
}

func (e *Extractor) BasementSetpoints() (BasementSetpoints, error) {
	r := e.reader()
	const p = temps + "/Basement"
	s := BasementSetpoints{
		Heated:             r.bool(p, "heated"),
		Cooled:             r.bool(p, "cooled"),
		SeparateThermostat: r.bool(p, "separateThermostat"),
		BasementUnit:       r.bool(p, "basementUnit"),
		HeatingSetPoint:    r.float(p, "heatingSetPoint"),
	}
	if r.err != nil {
		return BasementSetpoints{}, r.err
	}
	return s, nil
}

func (e *Extractor) EquipmentSetpoints() (EquipmentSetpoints, error) {
	r := e.reader()
	s := EquipmentSetpoints{
		Heating: r.float(temps+"/Equipment", "heatingSetPoint"),
		Cooling: r.float(temps+"/Equipment", "coolingSetPoint"),
	}
	if r.err != nil {
		return EquipmentSetpoints{}, r.err
	}
	return s, nil
}

func (e *Extractor) CrawlspaceSetpoints() (CrawlspaceSetpoints, error) {
	r := e.reader()
	s := CrawlspaceSetpoints{
		Heated:          r.bool(temps+"/Crawlspace", "heated"),
		HeatingSetPoint: r.float(temps+"/Crawlspace", "heatingSetPoint"),
	}
	if r.err != nil {
		return CrawlspaceSetpoints{}, r.err
	}
	return s, nil
}

// =============================================================================
// LOADS AND AIR
// =============================================================================

// BaseLoads reads occupancy and the base load summary.
func (e *Extractor) BaseLoads() (BaseLoads, error) {
	r := e.reader()
	const p = "House/BaseLoads"
	occupants := func(group string) Occupants {
		return Occupants{
			Count:  r.int(p+"/Occupancy/"+group, "occupants"),
			AtHome: r.float(p+"/Occupancy/"+group, "atHome"),
		}
	}
	b := BaseLoads{
		BasementFractionOfInternalGains: r.float(p, "basementFractionOfInternalGains"),
		Adults:                          occupants("Adults"),
		Children:                        occupants("Children"),
		Infants:                         occupants("Infants"),
		ElectricalAppliances:            r.float(p+"/Summary", "electricalAppliances"),
		ExteriorUse:                     r.float(p+"/Summary", "exteriorUse"),
		HotWaterLoad:                    r.float(p+"/Summary", "hotWaterLoad"),
		Lighting:                        r.float(p+"/Summary", "lighting"),
		OtherElectric:                   r.float(p+"/Summary", "otherElectric"),
	}
	if r.err != nil {
		return BaseLoads{}, r.err
	}
	return b, nil
}

// Infiltration reads the blower door test and site exposure.
func (e *Extractor) Infiltration() (Infiltration, error) {
	r := e.reader()
	const p = "House/NaturalAirInfiltration/Specifications"
	i := Infiltration{
		HouseVolume:   r.float(p+"/House", "volume"),
		AirChangeRate: r.float(p+"/BlowerTest", "airChangeRate"),
		LeakageArea:   r.float(p+"/BlowerTest", "leakageArea"),
		Terrain:       r.coded(p + "/BuildingSite/Terrain"),
		WallShielding: r.coded(p + "/LocalShielding/Walls"),
		FlueShielding: r.coded(p + "/LocalShielding/Flue"),
	}
	if r.err != nil {
		return Infiltration{}, r.err
	}
	return i, nil
}

// Rooms reads the room counts.
func (e *Extractor) Rooms() (Rooms, error) {
	r := e.reader()
	const p = "House/Ventilation/Rooms"
	rooms := Rooms{
		Bathrooms:      r.int(p, "bathrooms"),
		Bedrooms:       r.int(p, "bedrooms"),
		Living:         r.int(p, "living"),
		OtherHabitable: r.int(p, "otherHabitable"),
		Utility:        r.int(p, "utility"),
	}
	if r.err != nil {
		return Rooms{}, r.err
	}
	return rooms, nil
}

// VentilationSummary reads the whole-house air distribution settings.
func (e *Extractor) VentilationSummary() (VentilationSummary, error) {
	r := e.reader()
	const p = "House/Ventilation/WholeHouse"
	v := VentilationSummary{
		AirDistributionType:     r.coded(p + "/AirDistributionType"),
		AirDistributionFanPower: r.coded(p + "/AirDistributionFanPower"),
		OperationSchedule: Schedule{
			Code:  r.int(p+"/OperationSchedule", "code"),
			Value: r.float(p+"/OperationSchedule", "value"),
		},
	}
	if r.err != nil {
		return VentilationSummary{}, r.err
	}
	return v, nil
}
