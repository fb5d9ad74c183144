// =============================================================================
// H2K to HPXML Translator - Argument Mapper
// =============================================================================
//
// This module turns extracted H2K records into BuildResidentialHPXML
// arguments. It is the only place where H2K vocabulary, codes and units meet
// HPXML's.
//
// MAPPING PIPELINE:
//   1. Envelope: air leakage, rooms, storeys, floor area, ceilings, doors,
//      orientation and window areas per facade
//   2. Systems: thermostat setpoints, cooling, primary water heater and
//      primary heating
//   3. Merge the staged arguments into the template
//
// Nothing is written to the template unless every step succeeds. Keys the
// mapper does not produce keep their template values.
//
// =============================================================================

package hpxml

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/canmet-energy/h2k-hpxml/internal/codes"
	"github.com/canmet-energy/h2k-hpxml/internal/h2k"
	"github.com/canmet-energy/h2k-hpxml/internal/types"
	"github.com/canmet-energy/h2k-hpxml/internal/units"
)

// Source is the subset of the extractor the mapper reads from.
type Source interface {
	Infiltration() (h2k.Infiltration, error)
	Rooms() (h2k.Rooms, error)
	Specifications() (h2k.Specifications, error)
	HeatedFloorArea() (h2k.HeatedFloorArea, error)
	Ceilings() ([]h2k.Ceiling, error)
	Doors() ([]h2k.Door, error)
	Windows() ([]h2k.Window, error)
	MainFloorSetpoints() (h2k.MainFloorSetpoints, error)
	CoolingSystems() ([]h2k.CoolingSystem, error)
	HotWater() ([]h2k.HotWaterSystem, error)
	HeatingSystems() (*h2k.Heating, error)
}

// NoticeUnhandled marks an input the mapper recognised but cannot express.
const NoticeUnhandled = "unhandled-configuration"

// Notice is a non-fatal finding reported alongside a successful mapping.
type Notice struct {
	Code    string
	Message string
}

// Result is the outcome of a successful mapping.
type Result struct {
	// Arguments lists the argument names written, in the order they were
	// produced.
	Arguments []string

	Notices []Notice
}

// Mapper writes building arguments into a workflow template.
type Mapper struct {
	logger *slog.Logger
}

// NewMapper creates a mapper that reports notices to logger.
func NewMapper(logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{logger: logger}
}

// staged collects arguments before they are committed to the template.
type staged struct {
	names  []string
	values map[string]any
}

func (s *staged) set(name string, v any) {
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = v
}

// Apply updates the BuildResidentialHPXML step of tmpl from src.
//
// PARAMETERS:
//   - tmpl: The workflow to edit. Other steps are left untouched.
//   - src: Where the house description is read from.
//
// RETURNS:
//   - The names of the arguments written and any notices.
//   - The first extraction or mapping error. On error the template is
//     unchanged.
func (m *Mapper) Apply(tmpl *Template, src Source) (*Result, error) {
	args, err := tmpl.Arguments(BuildMeasure)
	if err != nil {
		return nil, err
	}

	out := &staged{values: map[string]any{}}
	res := &Result{}

	if err := m.envelope(out, src); err != nil {
		return nil, err
	}
	if err := m.systems(out, res, src); err != nil {
		return nil, err
	}

	for _, name := range out.names {
		args[name] = out.values[name]
	}
	res.Arguments = out.names

	m.logger.Debug("mapped building arguments", "measure", BuildMeasure, "arguments", len(out.names))
	return res, nil
}

// =============================================================================
// ENVELOPE
// =============================================================================

func (m *Mapper) envelope(out *staged, src Source) error {
	inf, err := src.Infiltration()
	if err != nil {
		return err
	}
	out.set("air_leakage_value", units.Round(inf.AirChangeRate, 1))

	rooms, err := src.Rooms()
	if err != nil {
		return err
	}
	out.set("geometry_unit_num_bedrooms", rooms.Bedrooms)

	spec, err := src.Specifications()
	if err != nil {
		return err
	}
	floors, err := codes.FloorsAboveGrade(spec.Storeys.Code)
	if err != nil {
		return err
	}
	out.set("geometry_unit_num_floors_above_grade", floors)

	area, err := src.HeatedFloorArea()
	if err != nil {
		return err
	}
	out.set("geometry_unit_cfa", units.Round(units.M2ToFt2(area.Total()), 1))

	if err := m.ceilings(out, src); err != nil {
		return err
	}
	if err := m.doors(out, src); err != nil {
		return err
	}
	return m.windows(out, src, spec.FacingDirection.Code)
}

func (m *Mapper) ceilings(out *staged, src Source) error {
	ceilings, err := src.Ceilings()
	if err != nil {
		return err
	}

	parts := make([]conductance, 0, len(ceilings))
	for _, c := range ceilings {
		parts = append(parts, conductance{area: c.Area, r: c.RValue})
	}
	r, err := blendR("ceiling_assembly_r", parts)
	if err != nil {
		return err
	}
	out.set("ceiling_assembly_r", units.Round(r, 1))

	// Only the first ceiling sets the roof pitch.
	pitch, err := codes.RoofPitch(ceilings[0].SlopeCode)
	if err != nil {
		return err
	}
	if pitch != "" {
		out.set("geometry_roof_pitch", pitch)
	}
	return nil
}

func (m *Mapper) doors(out *staged, src Source) error {
	doors, err := src.Doors()
	if err != nil {
		return err
	}

	var parts []conductance
	total := 0.0
	for _, d := range doors {
		if d.Parent.Kind != h2k.ParentWall {
			continue
		}
		parts = append(parts, conductance{area: d.Area(), r: d.RValue})
		total += d.Area()
	}
	r, err := blendR("door_rvalue", parts)
	if err != nil {
		return err
	}
	out.set("door_area", units.Round(total, 1))
	out.set("door_rvalue", units.Round(r, 2))
	return nil
}

func (m *Mapper) windows(out *staged, src Source, front int) error {
	f, err := facadesFor(front)
	if err != nil {
		return err
	}
	out.set("geometry_unit_orientation", (front-1)*45)

	windows, err := src.Windows()
	if err != nil {
		return err
	}

	areas := map[Facade]float64{}
	for _, w := range windows {
		if w.Parent.Kind != h2k.ParentWall {
			continue
		}
		facade, ok := f.facadeOf(w.FacingDirection.Code)
		if !ok {
			return fmt.Errorf("window %s: %w", w.ID, &types.InvalidCodeError{
				Field: "Window/FacingDirection@code",
				Code:  strconv.Itoa(w.FacingDirection.Code),
			})
		}
		areas[facade] += units.Round(units.WindowAreaM2(w.Height, w.Width), 1)
	}

	out.set("window_area_front", units.Round(areas[Front], 1))
	out.set("window_area_back", units.Round(areas[Back], 1))
	out.set("window_area_left", units.Round(areas[Left], 1))
	out.set("window_area_right", units.Round(areas[Right], 1))
	return nil
}

// =============================================================================
// SYSTEMS
// =============================================================================

func (m *Mapper) systems(out *staged, res *Result, src Source) error {
	set, err := src.MainFloorSetpoints()
	if err != nil {
		return err
	}
	heat := fahrenheit(set.DaytimeHeating)
	cool := fahrenheit(set.Cooling)
	out.set("hvac_control_heating_weekday_setpoint", heat)
	out.set("hvac_control_heating_weekend_setpoint", heat)
	out.set("hvac_control_cooling_weekday_setpoint", cool)
	out.set("hvac_control_cooling_weekend_setpoint", cool)

	if err := m.cooling(out, src); err != nil {
		return err
	}
	if err := m.hotWater(out, src); err != nil {
		return err
	}
	return m.heating(out, res, src)
}

// cooling writes the last air conditioner listed.
func (m *Mapper) cooling(out *staged, src Source) error {
	systems, err := src.CoolingSystems()
	if err != nil {
		return err
	}
	for _, c := range systems {
		kind, err := codes.CoolingSystemType(c.TypeCode)
		if err != nil {
			return err
		}
		effType := "SEER"
		if c.IsCOP {
			effType = "EER"
		}
		out.set("cooling_system_cooling_capacity", units.Round(units.KWToBtuPerHour(c.CapacityKW), 1))
		out.set("cooling_system_cooling_efficiency", c.Efficiency)
		out.set("cooling_system_cooling_efficiency_type", effType)
		out.set("cooling_system_type", kind)
	}
	return nil
}

// hotWater writes the first primary water heater. Secondary heaters are not
// represented.
func (m *Mapper) hotWater(out *staged, src Source) error {
	systems, err := src.HotWater()
	if err != nil {
		return err
	}
	for _, w := range systems {
		if w.Role != h2k.RolePrimary {
			continue
		}
		fuel, err := codes.Fuel(w.EnergySource)
		if err != nil {
			return err
		}
		kind, err := codes.WaterHeaterType(w.TankType)
		if err != nil {
			return err
		}
		out.set("water_heater_efficiency", w.EnergyFactor)
		out.set("water_heater_efficiency_type", "EnergyFactor")
		out.set("water_heater_fuel_type", fuel)
		out.set("water_heater_tank_volume", units.Round(units.LitresToGallons(w.TankVolume), 0))
		out.set("water_heater_type", kind)
		return nil
	}
	m.logger.Debug("no primary water heater; keeping template values")
	return nil
}

func (m *Mapper) heating(out *staged, res *Result, src Source) error {
	heating, err := src.HeatingSystems()
	if err != nil {
		return err
	}

	if heating.Backup != nil {
		n := Notice{
			Code: NoticeUnhandled,
			Message: fmt.Sprintf("heat pump %s with %s backup is not mapped; heating arguments keep their template values",
				heating.Primary.Kind, heating.Backup.Kind),
		}
		res.Notices = append(res.Notices, n)
		m.logger.Warn(n.Message, "notice", n.Code)
		return nil
	}

	p := heating.Primary
	fuel, err := codes.Fuel(p.Fuel)
	if err != nil {
		return err
	}
	kind, err := codes.HeatingSystemType(p.Kind)
	if err != nil {
		return err
	}
	out.set("heating_system_fuel", fuel)
	out.set("heating_system_heating_capacity", units.Round(units.KWToBtuPerHour(p.CapacityKW), 1))
	out.set("heating_system_heating_efficiency", p.Efficiency)
	out.set("heating_system_type", kind)
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// conductance is one surface of an area-weighted R-value blend.
type conductance struct {
	area float64
	r    float64
}

// blendR returns the R-value of surfaces in parallel: total area over the
// sum of area/R.
func blendR(field string, parts []conductance) (float64, error) {
	area, ua := 0.0, 0.0
	for _, p := range parts {
		if p.r <= 0 {
			return 0, &types.InvalidValueError{
				Field:  field,
				Value:  strconv.FormatFloat(p.r, 'g', -1, 64),
				Reason: "R-value must be positive",
			}
		}
		area += p.area
		ua += p.area / p.r
	}
	if ua == 0 {
		return 0, &types.InvalidValueError{Field: field, Reason: "no surface conductance to blend"}
	}
	return area / ua, nil
}

// fahrenheit formats a Celsius setpoint the way the measure expects it.
func fahrenheit(c float64) string {
	return strconv.FormatFloat(units.Round(units.CelsiusToFahrenheit(c), 1), 'f', 1, 64)
}
