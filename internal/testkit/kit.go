// Package testkit provides grid builders and canned spreadsheet
// fixtures for exercising the ingestion heuristics.
package testkit

import (
	"drawdock/domain/sheet"
)

// GridBuilder assembles a sheet.Grid row by row. Cells are given as
// untyped values: strings become text cells, numbers become numeric
// cells, nil becomes an empty cell.
type GridBuilder struct {
	headers []string
	rows    [][]sheet.Cell
	bold    map[int]bool
}

// NewGrid starts a builder with the given header row
func NewGrid(headers ...string) *GridBuilder {
	return &GridBuilder{headers: headers, bold: make(map[int]bool)}
}

// Row appends a data row
func (b *GridBuilder) Row(cells ...interface{}) *GridBuilder {
	row := make([]sheet.Cell, len(cells))
	for i, v := range cells {
		row[i] = toCell(v)
	}
	b.rows = append(b.rows, row)
	return b
}

// BoldRow appends a data row rendered bold in the style grid
func (b *GridBuilder) BoldRow(cells ...interface{}) *GridBuilder {
	b.Row(cells...)
	b.bold[len(b.rows)-1] = true
	return b
}

// BlankRow appends a fully empty row
func (b *GridBuilder) BlankRow() *GridBuilder {
	row := make([]sheet.Cell, len(b.headers))
	for i := range row {
		row[i] = sheet.Empty()
	}
	b.rows = append(b.rows, row)
	return b
}

// Build returns the grid and a matching style grid
func (b *GridBuilder) Build() (*sheet.Grid, sheet.StyleGrid) {
	grid := &sheet.Grid{Headers: b.headers, Rows: b.rows}

	// Style grid index 0 is the header row
	styles := make(sheet.StyleGrid, len(b.rows)+1)
	for i := range styles {
		styles[i] = make([]*sheet.CellStyle, len(b.headers))
	}
	for rowIdx := range b.bold {
		for col := range styles[rowIdx+1] {
			styles[rowIdx+1][col] = &sheet.CellStyle{Bold: true}
		}
	}
	return grid, styles
}

func toCell(v interface{}) sheet.Cell {
	switch t := v.(type) {
	case nil:
		return sheet.Empty()
	case string:
		if t == "" {
			return sheet.Empty()
		}
		return sheet.Text(t)
	case int:
		return sheet.Number(float64(t))
	case float64:
		return sheet.Number(t)
	default:
		return sheet.Empty()
	}
}

// StandardBudgetSheet is a clean builder budget export: keyword
// headers, enough numeric rows to satisfy the amount-column gate, a
// grand total row
func StandardBudgetSheet() (*sheet.Grid, sheet.StyleGrid) {
	return NewGrid("Cost Code", "Description", "Budgeted Amount").
		Row("01-100", "Site Work", 15000.0).
		Row("02-200", "Foundation", 42500.0).
		Row("03-300", "Framing", 88000.0).
		Row("04-400", "Roofing", 23750.0).
		Row("05-500", "Plumbing", 31200.0).
		Row("06-600", "Electrical", 12400.0).
		Row("07-700", "Insulation", 9800.0).
		Row("08-800", "Drywall", 27300.0).
		Row("09-900", "Flooring", 18650.0).
		Row("10-100", "Paint", 7500.0).
		Row("11-110", "Cabinets", 21000.0).
		Row("12-120", "Landscaping", 5400.0).
		BoldRow("", "Total Budget", 302500.0).
		Build()
}

// MessyBudgetSheet mimics a real bank export: preamble rows above an
// in-body header row, a gap before the total, and closing cost rows
// below the budget data
func MessyBudgetSheet() (*sheet.Grid, sheet.StyleGrid) {
	return NewGrid("", "", "").
		Row("Red Cedar Homes", nil, nil).
		Row("Lot 14 Construction Budget", nil, nil).
		BlankRow().
		BoldRow("Category", "Notes", "Amount").
		Row("Site Work", "cleared 3/12", 15000.0).
		Row("Foundation", "", 42500.0).
		Row("Framing", "", 88000.0).
		Row("Electrical", "", 27300.0).
		Row("Insulation", "", 9800.0).
		Row("Drywall", "", 12400.0).
		Row("Plumbing", "", 31200.0).
		Row("Paint", "", 7500.0).
		Row("Flooring", "", 18650.0).
		Row("Cabinets", "", 21000.0).
		BlankRow().
		BoldRow("Total", "", 273350.0).
		BlankRow().
		Row("Interest Reserve", "", 8500.0).
		Row("Closing Costs", "", 4200.0).
		Build()
}
