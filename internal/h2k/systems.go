package h2k

import (
	"github.com/canmet-energy/h2k-hpxml/internal/xmltree"
)

// =============================================================================
// VENTILATION
// =============================================================================

const ventilation = "House/Ventilation"

// HRVs returns every heat recovery ventilator.
func (e *Extractor) HRVs() ([]HRV, error) {
	var out []HRV
	for _, n := range e.doc.Root.FindAll(ventilation + "/WholeHouseVentilatorList/Hrv") {
		r := newReader(n, "hrv")
		h := HRV{
			SupplyFlowrate:        r.float("", "supplyFlowrate"),
			ExhaustFlowrate:       r.float("", "exhaustFlowrate"),
			FanPower1:             r.float("", "fanPower1"),
			FanPower2:             r.float("", "fanPower2"),
			IsDefaultFanpower:     r.bool("", "isDefaultFanpower"),
			IsEnergyStar:          r.bool("", "isEnergyStar"),
			IsHVICertified:        r.bool("", "isHomeVentilatingInstituteCertified"),
			IsSupplemental:        r.bool("", "isSupplemental"),
			TemperatureCondition1: r.float("", "temperatureCondition1"),
			TemperatureCondition2: r.float("", "temperatureCondition2"),
			LowTempVentReduction:  r.float("", "lowTempVentReduction"),
			Efficiency1:           r.float("", "efficiency1"),
			Efficiency2:           r.float("", "efficiency2"),
			PreheaterCapacity:     r.float("", "preheaterCapacity"),
			CoolingEfficiency:     r.float("", "coolingEfficiency"),
			Supply:                readDuct(r, "ColdAirDucts/Supply"),
			Exhaust:               readDuct(r, "ColdAirDucts/Exhaust"),
		}
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, h)
	}
	return out, nil
}

func readDuct(r *fieldReader, path string) Duct {
	return Duct{
		Length:     r.float(path, "length"),
		Diameter:   r.float(path, "diameter"),
		Insulation: r.float(path, "insulation"),
		Sealing:    r.coded(path + "/Sealing"),
		Type:       r.coded(path + "/Type"),
	}
}

// WholeHouseVentilators returns the non-HRV whole-house fans.
func (e *Extractor) WholeHouseVentilators() ([]Ventilator, error) {
	list := e.doc.Root.Find(ventilation + "/WholeHouseVentilatorList")
	return readVentilators(list.ChildrenNamed("BaseVentilator"))
}

// SupplementalVentilators returns every fan and dryer in the supplemental
// ventilator list, in document order.
func (e *Extractor) SupplementalVentilators() ([]Ventilator, error) {
	list := e.doc.Root.Find(ventilation + "/SupplementalVentilatorList")
	if list == nil {
		return nil, nil
	}
	var nodes []*xmltree.Node
	for _, c := range list.Children {
		if c.Name == "BaseVentilator" || c.Name == "Dryer" {
			nodes = append(nodes, c)
		}
	}
	return readVentilators(nodes)
}

func readVentilators(nodes []*xmltree.Node) ([]Ventilator, error) {
	var out []Ventilator
	for _, n := range nodes {
		r := newReader(n, n.Name)
		v := Ventilator{
			Kind:              n.Name,
			SupplyFlowrate:    r.float("", "supplyFlowrate"),
			ExhaustFlowrate:   r.float("", "exhaustFlowrate"),
			FanPower:          r.float("", "fanPower1"),
			IsDefaultFanpower: r.bool("", "isDefaultFanpower"),
			IsEnergyStar:      r.bool("", "isEnergyStar"),
			IsHVICertified:    r.bool("", "isHomeVentilatingInstituteCertified"),
			IsSupplemental:    r.bool("", "isSupplemental"),
			VentilatorType:    r.coded("VentilatorType"),
			OperationSchedule: Schedule{
				Code:  r.int("OperationSchedule", "code"),
				Value: r.float("OperationSchedule", "value"),
			},
		}
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, v)
	}
	return out, nil
}

// =============================================================================
// HOT WATER
// =============================================================================

var hotWaterRoles = []HotWaterRole{RolePrimary, RoleSecondary}

// HotWater returns the primary and secondary water heaters of every HotWater
// component. A missing secondary is simply skipped.
func (e *Extractor) HotWater() ([]HotWaterSystem, error) {
	var out []HotWaterSystem
	for _, n := range e.doc.Root.FindAll(components + "/HotWater") {
		for _, role := range hotWaterRoles {
			sys := n.Child(string(role))
			if sys == nil {
				continue
			}
			r := newReader(n, identify("hot water", n))
			p := string(role)
			h := HotWaterSystem{
				ID:           r.str("", "id"),
				Label:        r.text("Label"),
				Role:         role,
				EnergySource: r.text(p + "/EnergySource/English"),
				TankType:     r.text(p + "/TankType/English"),
				TankVolume:   r.float(p+"/TankVolume", "value"),
				EnergyFactor: r.float(p+"/EnergyFactor", "value"),
				TankLocation: r.text(p + "/TankLocation/English"),
			}
			if r.err != nil {
				return nil, r.err
			}
			out = append(out, h)
		}
	}
	return out, nil
}

// DrainWaterHeatRecovery returns the DWHR units attached to any water heater.
func (e *Extractor) DrainWaterHeatRecovery() ([]DrainWaterHeatRecovery, error) {
	var out []DrainWaterHeatRecovery
	for _, n := range e.doc.Root.FindAll(components + "/HotWater") {
		parent := parentOf(ParentHotWater, n)
		for _, role := range hotWaterRoles {
			unit := n.Find(string(role) + "/DrainWaterHeatRecovery")
			if unit == nil {
				continue
			}
			r := newReader(unit, identify("hot water", n))
			d := DrainWaterHeatRecovery{
				Parent:            parent,
				Role:              role,
				DailyShowers:      r.float("", "dailyShowers"),
				Effectiveness:     r.float("", "effectivenessAt9.5"),
				PreheatShowerTank: r.bool("", "preheatShowerTank"),
				ShowerLength:      r.float("", "showerLength"),
				EfficiencyCode:    r.int("Efficiency", "code"),
				ShowerTemperature: r.text("ShowerTemperature/English"),
				ShowerHead:        r.text("ShowerHead/English"),
			}
			if r.err != nil {
				return nil, r.err
			}
			out = append(out, d)
		}
	}
	return out, nil
}

// =============================================================================
// HEATING AND COOLING
// =============================================================================

const heatingCooling = "House/HeatingCooling"

var heatPumpKinds = map[string]bool{
	"AirHeatPump":    true,
	"GroundHeatPump": true,
	"WaterHeatPump":  true,
}

// HeatingSystems reads the heating plant. The Type1 system is primary unless
// Type2 holds a heat pump, in which case the heat pump is primary and the
// Type1 system becomes its backup.
func (e *Extractor) HeatingSystems() (*Heating, error) {
	r := e.reader()
	type1 := r.child(heatingCooling + "/Type1")
	if r.err != nil {
		return nil, r.err
	}
	if len(type1.Children) == 0 {
		r.missing(heatingCooling+"/Type1/Baseboards", "")
		return nil, r.err
	}

	base, err := readHeatingSystem(type1.Children[0])
	if err != nil {
		return nil, err
	}

	var pump *xmltree.Node
	if type2 := e.doc.Root.Find(heatingCooling + "/Type2"); type2 != nil {
		for _, c := range type2.Children {
			if heatPumpKinds[c.Name] {
				pump = c
				break
			}
		}
	}
	if pump == nil {
		return &Heating{Primary: base}, nil
	}

	primary, err := readHeatingSystem(pump)
	if err != nil {
		return nil, err
	}
	return &Heating{Primary: primary, Backup: &base}, nil
}

func readHeatingSystem(n *xmltree.Node) (HeatingSystem, error) {
	r := newReader(n, n.Name)
	h := HeatingSystem{Kind: n.Name}

	switch {
	case n.Name == "Baseboards" || heatPumpKinds[n.Name]:
		h.Fuel = "Electricity"
	default:
		h.Fuel = r.text("Equipment/EnergySource/English")
	}

	h.CapacityKW = r.float("Specifications/OutputCapacity", "value")
	if heatPumpKinds[n.Name] {
		h.Efficiency = r.float("Specifications/HeatingEfficiency", "value")
	} else {
		h.Efficiency = r.float("Specifications/Efficiency", "value")
		h.SteadyState = r.bool("Specifications/Efficiency", "isSteadyState")
	}

	if r.err != nil {
		return HeatingSystem{}, r.err
	}
	return h, nil
}

// CoolingSystems returns the air conditioner in Type2, if there is one.
func (e *Extractor) CoolingSystems() ([]CoolingSystem, error) {
	var out []CoolingSystem
	for _, n := range e.doc.Root.FindAll(heatingCooling + "/Type2/AirConditioning") {
		r := newReader(n, "air conditioner")
		c := CoolingSystem{
			TypeCode:   r.int("Equipment/CentralType", "code"),
			CapacityKW: r.float("Specifications/RatedCapacity", "value"),
			Efficiency: r.float("Specifications/Efficiency", "value"),
			IsCOP:      r.bool("Specifications/Efficiency", "isCop"),
		}
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, c)
	}
	return out, nil
}
