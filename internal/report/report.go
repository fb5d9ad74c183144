// =============================================================================
// H2K to HPXML Translator - Extraction Report
// =============================================================================
//
// This module writes everything the extractor read from a house file to an
// XLSX workbook, so an energy advisor can check the inputs of a translation
// without reading the XML.
//
// WORKBOOK STRUCTURE:
//   | Sheet        | Rows                                               |
//   |--------------|----------------------------------------------------|
//   | Summary      | File id, H2K version, one count per component kind |
//   | Walls        | One per wall                                       |
//   | Windows      | One per wall, door or basement window              |
//   | Doors        | One per door                                       |
//   | FloorHeaders | One per floor header                               |
//   | Ceilings     | One per ceiling                                    |
//   | Skylights    | One per skylight                                   |
//   | Floors       | One per exposed floor                              |
//   | Basements    | One per basement                                   |
//   | HotWater     | One per water heater                               |
//
// Every sheet starts with a bold header row. Values are in the house file's
// own SI units.
//
// =============================================================================

package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/canmet-energy/h2k-hpxml/internal/h2k"
	"github.com/canmet-energy/h2k-hpxml/pkg/utils"
)

// =============================================================================
// SHEET DEFINITIONS
// =============================================================================

// table is one worksheet: a header and its rows.
type table struct {
	name   string
	header []any
	rows   [][]any
}

func parentCells(p h2k.ParentRef) []any {
	return []any{p.Kind.String(), p.ID, p.Label}
}

func summaryTable(inv *h2k.Inventory) table {
	t := table{name: "Summary", header: []any{"Item", "Value"}}
	t.rows = append(t.rows,
		[]any{"File", inv.FileID},
		[]any{"H2K version", inv.Version.String()},
	)
	for _, kc := range inv.Counts() {
		t.rows = append(t.rows, []any{kc.Kind, kc.Count})
	}
	return t
}

func wallsTable(walls []h2k.Wall) table {
	t := table{name: "Walls", header: []any{"ID", "Label", "Type", "Nominal RSI", "RSI", "Height (m)", "Perimeter (m)", "Corners", "Facing"}}
	for _, w := range walls {
		t.rows = append(t.rows, []any{w.ID, w.Label, w.TypeRef, w.NominalInsulation, w.RValue, w.Height, w.Perimeter, w.Corners, w.FacingDirection.Label})
	}
	return t
}

func windowsTable(name string, windows []h2k.Window) table {
	t := table{name: name, header: []any{"Parent kind", "Parent ID", "Parent label", "ID", "Label", "SHGC", "RSI", "Height (mm)", "Width (mm)", "Tilt", "Facing code", "Facing"}}
	for _, w := range windows {
		row := parentCells(w.Parent)
		row = append(row, w.ID, w.Label, w.SHGC, w.RValue, w.Height, w.Width, w.Tilt.Value, w.FacingDirection.Code, w.FacingDirection.Label)
		t.rows = append(t.rows, row)
	}
	return t
}

func doorsTable(doors []h2k.Door) table {
	t := table{name: "Doors", header: []any{"Parent kind", "Parent ID", "Parent label", "ID", "Label", "Type", "RSI", "Height (m)", "Width (m)", "Area (m2)"}}
	for _, d := range doors {
		row := parentCells(d.Parent)
		row = append(row, d.ID, d.Label, d.Type, d.RValue, d.Height, d.Width, d.Area())
		t.rows = append(t.rows, row)
	}
	return t
}

func headersTable(headers []h2k.FloorHeader) table {
	t := table{name: "FloorHeaders", header: []any{"Parent kind", "Parent ID", "Parent label", "ID", "Label", "Nominal RSI", "RSI", "Height (m)", "Perimeter (m)"}}
	for _, h := range headers {
		row := parentCells(h.Parent)
		row = append(row, h.ID, h.Label, h.NominalInsulation, h.RValue, h.Height, h.Perimeter)
		t.rows = append(t.rows, row)
	}
	return t
}

func ceilingsTable(ceilings []h2k.Ceiling) table {
	t := table{name: "Ceilings", header: []any{"ID", "Label", "Type", "Nominal RSI", "RSI", "Area (m2)", "Length (m)", "Heel height (m)", "Slope code"}}
	for _, c := range ceilings {
		t.rows = append(t.rows, []any{c.ID, c.Label, c.Type, c.NominalInsulation, c.RValue, c.Area, c.Length, c.HeelHeight, c.SlopeCode})
	}
	return t
}

func floorsTable(floors []h2k.Floor) table {
	t := table{name: "Floors", header: []any{"ID", "Label", "Nominal RSI", "RSI", "Area (m2)", "Length (m)"}}
	for _, f := range floors {
		t.rows = append(t.rows, []any{f.ID, f.Label, f.NominalInsulation, f.RValue, f.Area, f.Length})
	}
	return t
}

func basementsTable(basements []h2k.Basement) table {
	t := table{name: "Basements", header: []any{"ID", "Label", "Configuration", "Rectangular", "Floor area (m2)", "Perimeter (m)", "Wall height (m)", "Depth (m)", "Pony wall RSI", "Interior sections", "Exterior sections"}}
	for _, b := range basements {
		var pony any
		if b.Wall.PonyWall != nil {
			pony = b.Wall.PonyWall.RSI
		}
		t.rows = append(t.rows, []any{
			b.ID, b.Label, b.Configuration.Type, b.Floor.IsRectangular, b.Floor.Area, b.Floor.Perimeter,
			b.Wall.Height, b.Wall.Depth, pony,
			describeSections(b.Wall.InteriorInsulation), describeSections(b.Wall.ExteriorInsulation),
		})
	}
	return t
}

func hotWaterTable(systems []h2k.HotWaterSystem) table {
	t := table{name: "HotWater", header: []any{"ID", "Label", "Role", "Energy source", "Tank type", "Volume (L)", "Energy factor", "Location"}}
	for _, h := range systems {
		t.rows = append(t.rows, []any{h.ID, h.Label, string(h.Role), h.EnergySource, h.TankType, h.TankVolume, h.EnergyFactor, h.TankLocation})
	}
	return t
}

// describeSections renders a composite layer as "30% @ 1.9; 70% @ 2.3".
func describeSections(ins *h2k.AddedInsulation) string {
	if ins == nil {
		return ""
	}
	s := ""
	for i, sec := range ins.Sections {
		if i > 0 {
			s += "; "
		}
		s += fmt.Sprintf("%g%% @ %g", sec.Percentage, sec.RSI)
	}
	return s
}

// =============================================================================
// WORKBOOK GENERATION
// =============================================================================

// WriteInventory writes an extraction workbook.
//
// PARAMETERS:
//   - path: The .xlsx file to create or replace.
//   - inv: The records to write.
//
// RETURNS:
//   - An error if the workbook cannot be built or written. The file is
//     replaced atomically.
func WriteInventory(path string, inv *h2k.Inventory) error {
	tables := []table{
		summaryTable(inv),
		wallsTable(inv.Walls),
		windowsTable("Windows", inv.Windows),
		doorsTable(inv.Doors),
		headersTable(inv.FloorHeaders),
		ceilingsTable(inv.Ceilings),
		windowsTable("Skylights", inv.Skylights),
		floorsTable(inv.Floors),
		basementsTable(inv.Basements),
		hotWaterTable(inv.HotWater),
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	first := f.GetSheetName(0)
	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName(first, t.name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", t.name, err)
			}
		} else if _, err := f.NewSheet(t.name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", t.name, err)
		}
		if err := writeTable(f, t, bold); err != nil {
			return err
		}
	}

	return utils.WriteFileAtomic(path, func(w io.Writer) error {
		return f.Write(w)
	})
}

func writeTable(f *excelize.File, t table, headerStyle int) error {
	if err := f.SetSheetRow(t.name, "A1", &t.header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", t.name, err)
	}
	if err := f.SetRowStyle(t.name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", t.name, err)
	}
	for i, row := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", t.name, i+1, err)
		}
	}
	return nil
}
