package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawdock/domain/ingest"
	"drawdock/internal/testkit"
)

func TestDetectRowBoundariesEmptySheet(t *testing.T) {
	engine := NewEngine()
	_, err := engine.DetectRowBoundariesWithAnalysis(nil, twoColumnMappings(), nil)
	assert.Error(t, err)
}

// The labeled-total stop: three data rows, then a row whose category
// reads "Total Budget". The running sum (450) sits below the noise
// floor so only the classifier's total label can end the range.
func TestDetectRowBoundariesStopsAtLabeledTotal(t *testing.T) {
	engine := NewEngine()
	grid, styles := testkit.NewGrid("Category", "Amount").
		Row("Site Work", 100.0).
		Row("Foundation", 200.0).
		Row("Framing", 150.0).
		Row("Total Budget", 450.0).
		Build()

	result, err := engine.DetectRowBoundariesWithAnalysis(grid.Rows, twoColumnMappings(), styles)
	require.NoError(t, err)

	assert.Equal(t, 0, result.StartRow)
	assert.Equal(t, 2, result.EndRow, "range must end on the row before the total")
	assert.Equal(t, ingest.LabelTotal, result.Analysis[3].Classification.Label)
	assert.InDelta(t, float64(DataRowConfidence), result.Confidence, 0.001,
		"confidence reflects only the three data rows")
}

// The amount-only stop: no keyword, no styling, but the row's amount
// lands on the running sum past the noise floor.
func TestDetectRowBoundariesStopsOnRunningSum(t *testing.T) {
	engine := NewEngine()
	grid, styles := testkit.NewGrid("Category", "Amount").
		Row("Site Work", 500.0).
		Row("Foundation", 700.0).
		Row("Framing", 900.0).
		Row("Project", 2100.0).
		Row("Stray note", 50.0).
		Build()

	result, err := engine.DetectRowBoundariesWithAnalysis(grid.Rows, twoColumnMappings(), styles)
	require.NoError(t, err)

	assert.Equal(t, 0, result.StartRow)
	assert.Equal(t, 2, result.EndRow, "sum-matching row must terminate the range")
}

func TestDetectRowBoundariesMessySheet(t *testing.T) {
	engine := NewEngine()
	grid, styles := testkit.MessyBudgetSheet()

	mappings := engine.DetectColumnMappings(grid.Headers, grid.Rows)
	result, err := engine.DetectRowBoundariesWithAnalysis(grid.Rows, mappings, styles)
	require.NoError(t, err)

	// Preamble rows classify as data, so the range opens at the top;
	// it must end on the last budget line, before the total and the
	// closing cost rows.
	assert.Equal(t, 0, result.StartRow)
	assert.Equal(t, 13, result.EndRow)
	assert.Equal(t, ingest.LabelHeader, result.Analysis[3].Classification.Label)
	assert.Equal(t, ingest.LabelTotal, result.Analysis[15].Classification.Label)
}

func TestDetectRowBoundariesTrailingBlanksExcluded(t *testing.T) {
	engine := NewEngine()
	grid, styles := testkit.NewGrid("Category", "Amount").
		Row("Site Work", 100.0).
		Row("Foundation", 200.0).
		BlankRow().
		BlankRow().
		Build()

	result, err := engine.DetectRowBoundariesWithAnalysis(grid.Rows, twoColumnMappings(), styles)
	require.NoError(t, err)

	assert.Equal(t, 1, result.EndRow, "trailing blank rows never extend the range")
}

func TestDetectRowBoundariesIdempotent(t *testing.T) {
	engine := NewEngine()
	grid, styles := testkit.MessyBudgetSheet()
	mappings := engine.DetectColumnMappings(grid.Headers, grid.Rows)

	first, err := engine.DetectRowBoundariesWithAnalysis(grid.Rows, mappings, styles)
	require.NoError(t, err)
	second, err := engine.DetectRowBoundariesWithAnalysis(grid.Rows, mappings, styles)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical input must produce identical boundaries")
}

// End to end on the clean export: keyword mapping puts the category on
// the Description column (it outranks "cost code"), the grand total
// row classifies total and ends the range, and all twelve budget lines
// extract.
func TestEndToEndStandardBudgetSheet(t *testing.T) {
	engine := NewEngine()
	grid, styles := testkit.StandardBudgetSheet()

	mappings := engine.DetectColumnMappings(grid.Headers, grid.Rows)
	require.Equal(t, ingest.RoleIgnore, mappings[0].Role)
	require.Equal(t, ingest.RoleCategory, mappings[1].Role)
	require.Equal(t, ingest.RoleAmount, mappings[2].Role)
	assert.Equal(t, ConfidenceKeywordMatch, mappings[1].Confidence)
	assert.Equal(t, ConfidenceKeywordMatch, mappings[2].Confidence)

	result, err := engine.DetectRowBoundariesWithAnalysis(grid.Rows, mappings, styles)
	require.NoError(t, err)
	assert.Equal(t, 0, result.StartRow)
	assert.Equal(t, 11, result.EndRow)
	assert.Equal(t, ingest.LabelTotal, result.Analysis[12].Classification.Label,
		"the grand total row must classify total, not empty")

	items, stats, err := engine.PackageExtraction(grid, mappings, result.Range(), ingest.ImportBudget)
	require.NoError(t, err)
	assert.Len(t, items, 12)
	assert.Equal(t, "Site Work", items[0].Category)
	assert.InDelta(t, 302500.0, stats.TotalAmount, 0.001)
	assert.Equal(t, 12, stats.RowsKept)
	assert.Equal(t, 0, stats.RowsSkipped)
}
