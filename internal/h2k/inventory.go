package h2k

// Inventory is every record the extractor can produce for one house.
type Inventory struct {
	FileID  string
	Version Version

	Walls                   []Wall
	Windows                 []Window
	Doors                   []Door
	FloorHeaders            []FloorHeader
	Ceilings                []Ceiling
	Skylights               []Window
	Floors                  []Floor
	Basements               []Basement
	HRVs                    []HRV
	WholeHouseVentilators   []Ventilator
	SupplementalVentilators []Ventilator
	HotWater                []HotWaterSystem
	DrainWaterHeatRecovery  []DrainWaterHeatRecovery
	Heating                 *Heating
	Cooling                 []CoolingSystem
}

// KindCount pairs a component kind with the number of records of that kind.
type KindCount struct {
	Kind  string
	Count int
}

// Counts lists the record count of each repeated kind, in a fixed order.
func (inv *Inventory) Counts() []KindCount {
	return []KindCount{
		{"walls", len(inv.Walls)},
		{"windows", len(inv.Windows)},
		{"doors", len(inv.Doors)},
		{"floor headers", len(inv.FloorHeaders)},
		{"ceilings", len(inv.Ceilings)},
		{"skylights", len(inv.Skylights)},
		{"floors", len(inv.Floors)},
		{"basements", len(inv.Basements)},
		{"hrvs", len(inv.HRVs)},
		{"whole house ventilators", len(inv.WholeHouseVentilators)},
		{"supplemental ventilators", len(inv.SupplementalVentilators)},
		{"hot water systems", len(inv.HotWater)},
		{"drain water heat recovery", len(inv.DrainWaterHeatRecovery)},
		{"cooling systems", len(inv.Cooling)},
	}
}

// Collect runs every getter and gathers the results. It stops at the first
// error.
func (e *Extractor) Collect() (*Inventory, error) {
	inv := &Inventory{}
	var err error

	steps := []func() error{
		func() error { inv.FileID, err = e.FileID(); return err },
		func() error { inv.Version, err = e.Version(); return err },
		func() error { inv.Walls, err = e.Walls(); return err },
		func() error { inv.Windows, err = e.Windows(); return err },
		func() error { inv.Doors, err = e.Doors(); return err },
		func() error { inv.FloorHeaders, err = e.FloorHeaders(); return err },
		func() error { inv.Ceilings, err = e.Ceilings(); return err },
		func() error { inv.Skylights, err = e.Skylights(); return err },
		func() error { inv.Floors, err = e.Floors(); return err },
		func() error { inv.Basements, err = e.Basements(); return err },
		func() error { inv.HRVs, err = e.HRVs(); return err },
		func() error { inv.WholeHouseVentilators, err = e.WholeHouseVentilators(); return err },
		func() error { inv.SupplementalVentilators, err = e.SupplementalVentilators(); return err },
		func() error { inv.HotWater, err = e.HotWater(); return err },
		func() error { inv.DrainWaterHeatRecovery, err = e.DrainWaterHeatRecovery(); return err },
		func() error { inv.Heating, err = e.HeatingSystems(); return err },
		func() error { inv.Cooling, err = e.CoolingSystems(); return err },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return inv, nil
}
