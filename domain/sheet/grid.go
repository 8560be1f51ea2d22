// Package sheet holds the decoded, in-memory representation of one
// spreadsheet worksheet: a grid of typed cell values plus an optional
// parallel grid of per-cell formatting flags. Decoders produce these
// structures once per import; everything downstream treats them as
// immutable.
package sheet

import (
	"strconv"
	"strings"
)

// CellKind discriminates the value carried by a Cell
type CellKind int

const (
	KindEmpty CellKind = iota
	KindText
	KindNumber
)

// Cell is a single decoded spreadsheet cell. Exactly one of Text or
// Number is meaningful, selected by Kind.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// Empty returns an empty cell
func Empty() Cell {
	return Cell{Kind: KindEmpty}
}

// Text returns a text cell, normalizing pure whitespace to empty
func Text(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Empty()
	}
	return Cell{Kind: KindText, Text: s}
}

// Number returns a numeric cell
func Number(v float64) Cell {
	return Cell{Kind: KindNumber, Number: v}
}

// IsEmpty checks whether the cell carries no value
func (c Cell) IsEmpty() bool {
	return c.Kind == KindEmpty
}

// String renders the cell value as the decoder saw it
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Grid is one decoded worksheet: the header row split off from the data
// rows. Ragged data rows are conceptually padded with empty cells to the
// header width; At handles the padding so callers never index out of range.
type Grid struct {
	Headers []string
	Rows    [][]Cell
}

// ColumnCount returns the width of the grid (the header row width)
func (g *Grid) ColumnCount() int {
	return len(g.Headers)
}

// RowCount returns the number of data rows
func (g *Grid) RowCount() int {
	return len(g.Rows)
}

// At returns the cell at (row, col), treating out-of-range positions on
// ragged rows as empty
func (g *Grid) At(row, col int) Cell {
	if row < 0 || row >= len(g.Rows) {
		return Empty()
	}
	r := g.Rows[row]
	if col < 0 || col >= len(r) {
		return Empty()
	}
	return r[col]
}

// Column returns up to limit cells from one column, in row order.
// limit <= 0 means all rows.
func (g *Grid) Column(col, limit int) []Cell {
	n := len(g.Rows)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Cell, n)
	for i := 0; i < n; i++ {
		out[i] = g.At(i, col)
	}
	return out
}

// CellStyle carries the formatting flags the decoder extracts per cell
type CellStyle struct {
	Bold         bool
	BorderTop    bool
	BorderBottom bool
	BorderLeft   bool
	BorderRight  bool
}

// StyleGrid parallels a Grid's cells with optional formatting flags.
// Unlike Grid.Rows, row index 0 corresponds to the header row, so style
// lookups for data row i read StyleGrid row i+1. A nil entry (or a short
// row) means the source format carried no styling for that cell.
type StyleGrid [][]*CellStyle

// DataCell returns the style for data row i (0-indexed, header excluded),
// or nil when absent
func (s StyleGrid) DataCell(row, col int) *CellStyle {
	styleRow := row + 1
	if s == nil || styleRow < 0 || styleRow >= len(s) {
		return nil
	}
	r := s[styleRow]
	if col < 0 || col >= len(r) {
		return nil
	}
	return r[col]
}
