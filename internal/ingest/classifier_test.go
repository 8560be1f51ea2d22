package ingest

import (
	"testing"

	"drawdock/domain/ingest"
	"drawdock/internal/testkit"
)

func twoColumnMappings() []ingest.ColumnMapping {
	return []ingest.ColumnMapping{
		{Index: 0, Role: ingest.RoleCategory, Confidence: ConfidenceKeywordMatch},
		{Index: 1, Role: ingest.RoleAmount, Confidence: ConfidenceKeywordMatch},
	}
}

func threeColumnMappings() []ingest.ColumnMapping {
	return []ingest.ColumnMapping{
		{Index: 0, Role: ingest.RoleCategory, Confidence: ConfidenceCategoryPattern},
		{Index: 1, Role: ingest.RoleIgnore},
		{Index: 2, Role: ingest.RoleAmount, Confidence: ConfidenceAmountPattern},
	}
}

func countLabel(classes []ingest.RowClassification, label ingest.RowLabel) int {
	n := 0
	for _, c := range classes {
		if c.Label == label {
			n++
		}
	}
	return n
}

func findLabel(classes []ingest.RowClassification, label ingest.RowLabel) int {
	for _, c := range classes {
		if c.Label == label {
			return c.RowIndex
		}
	}
	return -1
}

func TestExtractRowSignalsBasics(t *testing.T) {
	engine := NewEngine()
	grid, styles := testkit.NewGrid("Category", "Amount").
		Row("Site Work", 15000.0).
		BlankRow().
		BoldRow("Total", 15000.0).
		Build()

	signals, err := engine.ExtractRowSignals(grid.Rows, twoColumnMappings(), styles)
	if err != nil {
		t.Fatalf("ExtractRowSignals: %v", err)
	}

	if !signals[0].HasCategory || !signals[0].HasAmount {
		t.Error("row 0 should have category and amount")
	}
	if signals[1].HasCategory {
		t.Error("blank row should have no category")
	}
	if !signals[2].HasTotalKeyword {
		t.Error("row 2 should carry the total keyword")
	}
	if !signals[2].IsBold {
		t.Error("row 2 should be bold")
	}
}

func TestExtractRowSignalsRunningSumMatch(t *testing.T) {
	engine := NewEngine()
	grid, styles := testkit.NewGrid("Category", "Amount").
		Row("Site Work", 500.0).
		Row("Foundation", 700.0).
		Row("Framing", 900.0).
		Row("Subtotal Line", 2100.0).
		Build()

	signals, err := engine.ExtractRowSignals(grid.Rows, twoColumnMappings(), styles)
	if err != nil {
		t.Fatalf("ExtractRowSignals: %v", err)
	}

	if signals[2].AmountMatchesSum {
		t.Error("row 2: running sum 1200 differs from 900 well past tolerance")
	}
	if !signals[3].AmountMatchesSum {
		t.Error("row 3 amount equals the running sum of prior rows, match expected")
	}
}

func TestExtractRowSignalsSumBelowNoiseFloor(t *testing.T) {
	engine := NewEngine()
	grid, styles := testkit.NewGrid("Category", "Amount").
		Row("A", 100.0).
		Row("B", 200.0).
		Row("C", 150.0).
		Row("Final", 450.0).
		Build()

	signals, err := engine.ExtractRowSignals(grid.Rows, twoColumnMappings(), styles)
	if err != nil {
		t.Fatalf("ExtractRowSignals: %v", err)
	}
	if signals[3].AmountMatchesSum {
		t.Error("running sum 450 is below the noise floor, no match allowed")
	}
}

func TestExtractRowSignalsGaps(t *testing.T) {
	engine := NewEngine()
	grid, styles := testkit.NewGrid("Category", "Amount").
		Row("A", 100.0).
		BlankRow().
		BlankRow().
		Row("B", 200.0).
		BlankRow().
		Row("C", 300.0).
		Build()

	signals, err := engine.ExtractRowSignals(grid.Rows, twoColumnMappings(), styles)
	if err != nil {
		t.Fatalf("ExtractRowSignals: %v", err)
	}

	if !signals[0].PrecedesGap {
		t.Error("row 0 precedes two blank rows")
	}
	if !signals[3].FollowsGap {
		t.Error("row 3 follows two blank rows")
	}
	if signals[5].FollowsGap {
		t.Error("row 5 follows a single blank row, below the gap minimum")
	}
}

func TestClassifyRowsSingleHeader(t *testing.T) {
	engine := NewEngine()
	grid, styles := testkit.MessyBudgetSheet()

	mappings := threeColumnMappings()
	signals, err := engine.ExtractRowSignals(grid.Rows, mappings, styles)
	if err != nil {
		t.Fatalf("ExtractRowSignals: %v", err)
	}
	classes := engine.ClassifyRows(signals)

	if n := countLabel(classes, ingest.LabelHeader); n != 1 {
		t.Fatalf("header rows = %d, want exactly 1", n)
	}
	if idx := findLabel(classes, ingest.LabelHeader); idx != 3 {
		t.Errorf("header row index = %d, want 3", idx)
	}
	if n := countLabel(classes, ingest.LabelTotal); n != 1 {
		t.Errorf("total rows = %d, want exactly 1", n)
	}
	if idx := findLabel(classes, ingest.LabelTotal); idx != 15 {
		t.Errorf("total row index = %d, want 15", idx)
	}
	if n := countLabel(classes, ingest.LabelClosing); n > 1 {
		t.Errorf("closing rows = %d, want at most 1", n)
	}
	if idx := findLabel(classes, ingest.LabelClosing); idx != 17 {
		t.Errorf("closing row index = %d, want 17 (first qualifying row wins)", idx)
	}
}

func TestClassifyRowsEmptyAndData(t *testing.T) {
	engine := NewEngine()
	grid, styles := testkit.NewGrid("Category", "Amount").
		Row("Site Work", 15000.0).
		BlankRow().
		Row("Framing", 88000.0).
		Build()

	signals, err := engine.ExtractRowSignals(grid.Rows, twoColumnMappings(), styles)
	if err != nil {
		t.Fatalf("ExtractRowSignals: %v", err)
	}
	classes := engine.ClassifyRows(signals)

	if classes[0].Label != ingest.LabelData || classes[0].Confidence != DataRowConfidence {
		t.Errorf("row 0 = %s/%d, want data/%d", classes[0].Label, classes[0].Confidence, DataRowConfidence)
	}
	if classes[1].Label != ingest.LabelEmpty || classes[1].Confidence != EmptyRowConfidence {
		t.Errorf("row 1 = %s/%d, want empty/%d", classes[1].Label, classes[1].Confidence, EmptyRowConfidence)
	}
}

func TestClassifyRowsProximityPenaltyDemotes(t *testing.T) {
	engine := NewEngine()

	// Two qualifying total candidates: a bold sum-less label row right
	// under the header, and the genuine total further down. The
	// penalty must rank the distant one first.
	grid, styles := testkit.NewGrid("", "").
		BoldRow("Category", "Amount").
		BoldRow("Total committed", 999999.0).
		Row("Site Work", 500.0).
		Row("Foundation", 700.0).
		Row("Framing", 900.0).
		Row("Plumbing", 400.0).
		Row("Electrical", 300.0).
		BoldRow("Total", 2800.0).
		Build()

	signals, err := engine.ExtractRowSignals(grid.Rows, twoColumnMappings(), styles)
	if err != nil {
		t.Fatalf("ExtractRowSignals: %v", err)
	}
	classes := engine.ClassifyRows(signals)

	headerIdx := findLabel(classes, ingest.LabelHeader)
	if headerIdx != 0 {
		t.Fatalf("header row index = %d, want 0", headerIdx)
	}
	totalIdx := findLabel(classes, ingest.LabelTotal)
	if totalIdx != 7 {
		t.Errorf("total row index = %d, want 7 (distant total outranks near label row)", totalIdx)
	}
}

func TestClassifyRowsConfidenceCapped(t *testing.T) {
	sig := ingest.RowSignals{
		RowIndex:         6,
		CategoryText:     "grand total",
		HasCategory:      true,
		Amount:           5000,
		HasAmount:        true,
		HasTotalKeyword:  true,
		AmountMatchesSum: true,
		IsBold:           true,
		PrecedesGap:      true,
	}
	s := scoreRow(sig)
	if s.total <= MaxConfidence {
		t.Fatalf("total score = %d, expected raw score above the cap for this test", s.total)
	}
	if got := capConfidence(s.total); got != MaxConfidence {
		t.Errorf("capConfidence(%d) = %d, want %d", s.total, got, MaxConfidence)
	}
}

// Label rows above the header must not become total/closing: selection
// only searches below the header.
func TestClassifyRowsSpecialRowsOnlyBelowHeader(t *testing.T) {
	engine := NewEngine()
	grid, styles := testkit.NewGrid("", "").
		Row("Total project summary", nil).
		BlankRow().
		BlankRow().
		BoldRow("Category", "Amount").
		Row("Site Work", 500.0).
		Row("Foundation", 700.0).
		Build()

	signals, err := engine.ExtractRowSignals(grid.Rows, twoColumnMappings(), styles)
	if err != nil {
		t.Fatalf("ExtractRowSignals: %v", err)
	}
	classes := engine.ClassifyRows(signals)

	headerIdx := findLabel(classes, ingest.LabelHeader)
	if headerIdx != 3 {
		t.Fatalf("header row index = %d, want 3", headerIdx)
	}
	if classes[0].Label == ingest.LabelTotal {
		t.Error("a total keyword above the header must stay data")
	}
}
