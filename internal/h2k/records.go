// =============================================================================
// H2K to HPXML Translator - Component Records
// =============================================================================
//
// This module defines the flat, typed records the extractor produces. There
// is one record type per component kind. Nested components (windows, doors,
// floor headers, skylights, drain water heat recovery units) carry a
// ParentRef back to their container instead of being owned by it.
//
// UNITS:
//   Every value is in the document's own SI units: metres, square metres,
//   millimetres for window dimensions, RSI for thermal resistance, kW,
//   litres and degrees Celsius. Conversion happens in the hpxml package.
//
// OPTIONAL PARTS:
//   Parts that may be absent from a component are pointers (PonyWall,
//   Dimensions, InteriorInsulation, ExteriorInsulation, Backup). Nil means
//   absent; no sentinel values are used.
//
// =============================================================================

package h2k

// =============================================================================
// PARENT LINKS
// =============================================================================

// ParentKind is the kind of container a nested component belongs to.
type ParentKind int

const (
	ParentWall ParentKind = iota + 1
	ParentDoor
	ParentBasement
	ParentCeiling
	ParentHotWater
)

func (k ParentKind) String() string {
	switch k {
	case ParentWall:
		return "wall"
	case ParentDoor:
		return "door"
	case ParentBasement:
		return "basement"
	case ParentCeiling:
		return "ceiling"
	case ParentHotWater:
		return "hotwater"
	default:
		return "unknown"
	}
}

// ParentRef links a nested component to the record of its container.
type ParentRef struct {
	Kind  ParentKind
	ID    string
	Label string
}

// CodedValue is an H2K code with its English label.
type CodedValue struct {
	Code  int
	Label string
}

// =============================================================================
// HOUSE-LEVEL RECORDS
// =============================================================================

// Version is the H2K revision that wrote the file.
type Version struct {
	Major, Minor int
	Label        string
}

// Climate is the weather station the house is simulated against.
type Climate struct {
	Province          string
	City              string
	DepthOfFrost      float64
	HeatingDegreeDays float64
}

// Specifications describes the house as a whole.
type Specifications struct {
	HouseType       CodedValue
	PlanShape       CodedValue
	Storeys         CodedValue
	FacingDirection CodedValue
	ThermalMass     CodedValue
}

// HeatedFloorArea is in square metres.
type HeatedFloorArea struct {
	AboveGrade float64
	BelowGrade float64
}

// Total returns the conditioned floor area.
func (a HeatedFloorArea) Total() float64 { return a.AboveGrade + a.BelowGrade }

// MaterialRef points at a library material by code and RSI value.
type MaterialRef struct {
	Code  int
	Value float64
}

// CavityFace is one exterior face of the roof cavity.
type CavityFace struct {
	Sheathing MaterialRef
	Exterior  MaterialRef
}

// RoofCavity describes the attic space.
type RoofCavity struct {
	VentilationRate float64
	Volume          float64
	GableEndArea    float64
	GableEnds       CavityFace
	SlopedRoof      *CavityFace
}

// SurfaceColours holds the solar absorptivity of the walls and roof.
type SurfaceColours struct {
	WallAbsorptivity float64
	RoofAbsorptivity float64
}

// MainFloorSetpoints are thermostat settings in degrees Celsius.
type MainFloorSetpoints struct {
	DaytimeHeating           float64
	NighttimeHeating         float64
	NighttimeSetbackDuration float64
	Cooling                  float64
}

type BasementSetpoints struct {
	Heated             bool
	Cooled             bool
	SeparateThermostat bool
	BasementUnit       bool
	HeatingSetPoint    float64
}

type EquipmentSetpoints struct {
	Heating float64
	Cooling float64
}

type CrawlspaceSetpoints struct {
	Heated          bool
	HeatingSetPoint float64
}

// Occupants is one occupancy group.
type Occupants struct {
	Count  int
	AtHome float64
}

// BaseLoads are the non-HVAC internal loads.
type BaseLoads struct {
	BasementFractionOfInternalGains float64

	Adults, Children, Infants Occupants

	ElectricalAppliances float64
	ExteriorUse          float64
	HotWaterLoad         float64
	Lighting             float64
	OtherElectric        float64
}

// Infiltration is the blower door result and the site exposure.
type Infiltration struct {
	HouseVolume   float64
	AirChangeRate float64
	LeakageArea   float64
	Terrain       CodedValue
	WallShielding CodedValue
	FlueShielding CodedValue
}

// Rooms counts rooms by use.
type Rooms struct {
	Bathrooms      int
	Bedrooms       int
	Living         int
	OtherHabitable int
	Utility        int
}

// Schedule is a coded operating schedule with its value.
type Schedule struct {
	Code  int
	Value float64
}

// VentilationSummary describes the whole-house air distribution.
type VentilationSummary struct {
	AirDistributionType     CodedValue
	AirDistributionFanPower CodedValue
	OperationSchedule       Schedule
}

// =============================================================================
// ENVELOPE RECORDS
// =============================================================================

// Wall is an above-grade wall.
type Wall struct {
	ID                    string
	Label                 string
	AdjacentEnclosedSpace bool
	Corners               int
	Intersections         int
	TypeRef               string
	NominalInsulation     float64
	RValue                float64
	Height                float64
	Perimeter             float64
	FacingDirection       CodedValue
}

// Window is a window in a wall, door or basement, or a skylight in a ceiling.
// Height and Width are in millimetres.
type Window struct {
	Parent ParentRef

	ID                    string
	Label                 string
	Number                int
	EnergyRating          float64
	SHGC                  float64
	FrameHeight           float64
	FrameAreaFraction     float64
	EdgeOfGlassFraction   float64
	CentreOfGlassFraction float64
	EnergyStar            bool
	TypeRef               string
	RValue                float64
	Height                float64
	Width                 float64
	HeaderHeight          float64
	OverhangWidth         float64
	Tilt                  TiltAngle
	Curtain               float64
	ShutterRValue         float64
	FacingDirection       CodedValue
}

// TiltAngle is a coded tilt with its angle in degrees.
type TiltAngle struct {
	Code  int
	Value float64
	Label string
}

// Door is a door in a wall or basement. Dimensions are in metres.
type Door struct {
	Parent ParentRef

	ID         string
	Label      string
	RValue     float64
	EnergyStar bool
	Type       string
	Height     float64
	Width      float64
}

// Area returns the door area in square metres.
func (d Door) Area() float64 { return d.Height * d.Width }

// FloorHeader is the rim joist band of a wall or basement.
type FloorHeader struct {
	Parent ParentRef

	ID                string
	Label             string
	TypeRef           string
	NominalInsulation float64
	RValue            float64
	Height            float64
	Perimeter         float64
}

// Ceiling is a ceiling below an attic or a cathedral/flat roof.
type Ceiling struct {
	ID                string
	Label             string
	Type              string
	TypeRef           string
	NominalInsulation float64
	RValue            float64
	Area              float64
	HeelHeight        float64
	Length            float64
	SlopeCode         int
	SlopeValue        float64
}

// Floor is an exposed floor over unconditioned space.
type Floor struct {
	ID                string
	Label             string
	TypeRef           string
	NominalInsulation float64
	RValue            float64
	Area              float64
	Length            float64
}

// =============================================================================
// BASEMENT RECORDS
// =============================================================================

// Basement is a below-grade foundation.
type Basement struct {
	ID                      string
	Label                   string
	IsExposedSurface        bool
	ExposedSurfacePerimeter float64

	Configuration   Configuration
	OpeningUpstairs Schedule
	RoomType        CodedValue

	Floor BasementFloor
	Wall  BasementWall
}

// Configuration is the H2K foundation configuration code, e.g. "BCCB".
type Configuration struct {
	Type    string
	Subtype string
	Overlap float64
}

// SlabInsulation is an RSI pair for a slab layer.
type SlabInsulation struct {
	RValue  float64
	Nominal float64
}

// Dimensions are the sides of a rectangular floor, in metres.
type Dimensions struct {
	Length float64
	Width  float64
}

// BasementFloor describes the slab. For rectangular floors Area and
// Perimeter are derived from Dimensions; otherwise they are read as given
// and Dimensions is nil.
type BasementFloor struct {
	IsBelowFrostline   bool
	HasIntegralFooting bool
	Heated             bool
	AddedToSlab        SlabInsulation
	FloorsAbove        SlabInsulation

	IsRectangular bool
	Dimensions    *Dimensions
	Area          float64
	Perimeter     float64
}

// BasementWall describes the foundation wall.
type BasementWall struct {
	Corners        int
	Height         float64
	Depth          float64
	PonyWallHeight float64

	PonyWall           *PonyWall
	InteriorInsulation *AddedInsulation
	ExteriorInsulation *AddedInsulation
}

// PonyWall is the framed wall above the foundation wall.
type PonyWall struct {
	NominalRSI float64
	RSI        float64
}

// AddedInsulation is insulation added to a foundation wall face.
type AddedInsulation struct {
	Nominal  float64
	Sections []CompositeSection
}

// CompositeSection is one part of a composite insulation layer. The
// percentages of all sections of a layer sum to 100.
type CompositeSection struct {
	Percentage float64
	RSI        float64
}

// =============================================================================
// SYSTEM RECORDS
// =============================================================================

// Duct is one cold-air duct of an HRV.
type Duct struct {
	Length     float64
	Diameter   float64
	Insulation float64
	Sealing    CodedValue
	Type       CodedValue
}

// HRV is a heat recovery ventilator.
type HRV struct {
	SupplyFlowrate        float64
	ExhaustFlowrate       float64
	FanPower1             float64
	FanPower2             float64
	IsDefaultFanpower     bool
	IsEnergyStar          bool
	IsHVICertified        bool
	IsSupplemental        bool
	TemperatureCondition1 float64
	TemperatureCondition2 float64
	LowTempVentReduction  float64
	Efficiency1           float64
	Efficiency2           float64
	PreheaterCapacity     float64
	CoolingEfficiency     float64
	Supply                Duct
	Exhaust               Duct
}

// Ventilator is an exhaust or supply fan, or a clothes dryer.
type Ventilator struct {
	// Kind is the element name: BaseVentilator or Dryer.
	Kind string

	SupplyFlowrate    float64
	ExhaustFlowrate   float64
	FanPower          float64
	IsDefaultFanpower bool
	IsEnergyStar      bool
	IsHVICertified    bool
	IsSupplemental    bool
	VentilatorType    CodedValue
	OperationSchedule Schedule
}

// HotWaterRole distinguishes the two water heaters H2K allows.
type HotWaterRole string

const (
	RolePrimary   HotWaterRole = "Primary"
	RoleSecondary HotWaterRole = "Secondary"
)

// HotWaterSystem is one water heater.
type HotWaterSystem struct {
	ID           string
	Label        string
	Role         HotWaterRole
	EnergySource string
	TankType     string
	TankVolume   float64
	EnergyFactor float64
	TankLocation string
}

// DrainWaterHeatRecovery is a DWHR unit attached to a water heater.
type DrainWaterHeatRecovery struct {
	Parent ParentRef
	Role   HotWaterRole

	DailyShowers      float64
	Effectiveness     float64
	PreheatShowerTank bool
	ShowerLength      float64
	EfficiencyCode    int
	ShowerTemperature string
	ShowerHead        string
}

// HeatingSystem is a space heating appliance. CapacityKW is the output
// capacity; Efficiency is a percentage (or COP for heat pumps).
type HeatingSystem struct {
	// Kind is the H2K element name: Baseboards, Furnace, Boiler, AirHeatPump...
	Kind        string
	Fuel        string
	CapacityKW  float64
	Efficiency  float64
	SteadyState bool
}

// Heating is the house's heating plant. Backup is set only when a heat pump
// is primary and the Type1 system backs it up.
type Heating struct {
	Primary HeatingSystem
	Backup  *HeatingSystem
}

// CoolingSystem is a central or room air conditioner.
type CoolingSystem struct {
	TypeCode   int
	CapacityKW float64
	Efficiency float64
	IsCOP      bool
}
