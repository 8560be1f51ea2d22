// Package ingest defines the result types produced by the spreadsheet
// ingestion heuristics: column role mappings, per-row signal bundles and
// classifications, and the resolved data row range. All of these are
// derived fresh per import attempt and never persisted as-is; only the
// user-approved final extraction leaves this layer.
package ingest

// ColumnRole is the role the mapper assigns to one spreadsheet column
type ColumnRole string

const (
	RoleCategory   ColumnRole = "category"
	RoleAmount     ColumnRole = "amount"
	RoleIgnore     ColumnRole = "ignore"
	RoleUnassigned ColumnRole = "unassigned"
)

// ColumnMapping records the detected role of a single column.
// Across a full mapping at most one column holds RoleCategory and at
// most one holds RoleAmount.
type ColumnMapping struct {
	Index      int        `json:"index"`
	Name       string     `json:"name"`
	Role       ColumnRole `json:"role"`
	Confidence float64    `json:"confidence"`
}

// ColumnContentProfile summarizes the statistical shape of a sampled
// column. Ephemeral; used only to gate and rank role assignment.
type ColumnContentProfile struct {
	ValidCount       int // non-empty values in the sample
	NumericCount     int // values parsing as numbers (placeholders included)
	TextCount        int
	CurrencyCount    int
	DateCount        int
	PlaceholderCount int // dash-only "no value" markers
	RealNumberCount  int // non-zero, non-placeholder numerics
	DistinctCount    int

	IsNumeric      bool
	IsText         bool
	HasRealNumbers bool
}

// RowSignals is the per-row signal bundle the classifier scores against
type RowSignals struct {
	RowIndex     int     `json:"row_index"`
	CategoryText string  `json:"category_text"`
	Amount       float64 `json:"amount"`
	HasCategory  bool    `json:"has_category"`
	HasAmount    bool    `json:"has_amount"`

	HasHeaderKeyword    bool `json:"has_header_keyword"`
	HasTotalKeyword     bool `json:"has_total_keyword"`
	HasClosingKeyword   bool `json:"has_closing_keyword"`
	ClosingKeywordScore int  `json:"closing_keyword_score"`

	IsBold bool `json:"is_bold"`

	TextCellCount        int  `json:"text_cell_count"`
	IsMultiColumnTextRow bool `json:"is_multi_column_text_row"`

	FollowsGap       bool `json:"follows_gap"`
	PrecedesGap      bool `json:"precedes_gap"`
	AmountMatchesSum bool `json:"amount_matches_sum"`
}

// RowLabel is the final class the classifier assigns to a row
type RowLabel string

const (
	LabelHeader  RowLabel = "header"
	LabelData    RowLabel = "data"
	LabelTotal   RowLabel = "total"
	LabelClosing RowLabel = "closing"
	LabelEmpty   RowLabel = "empty"
	LabelUnknown RowLabel = "unknown"
)

// RowClassification labels one row. At most one row per grid carries
// LabelHeader, LabelTotal or LabelClosing (single-best selection).
type RowClassification struct {
	RowIndex   int      `json:"row_index"`
	Label      RowLabel `json:"label"`
	Confidence int      `json:"confidence"` // 0..100
}

// RowAnalysis pairs the raw signals with the resulting classification
// for UI display and override
type RowAnalysis struct {
	Signals        RowSignals        `json:"signals"`
	Classification RowClassification `json:"classification"`
}

// RowRange is the inclusive, 0-indexed span of actual budget data rows
// (header row excluded from the index space)
type RowRange struct {
	StartRow int `json:"start_row"`
	EndRow   int `json:"end_row"`
}

// Contains reports whether row falls inside the range
func (r RowRange) Contains(row int) bool {
	return row >= r.StartRow && row <= r.EndRow
}

// BoundaryResult is the full output of row boundary detection
type BoundaryResult struct {
	StartRow   int           `json:"start_row"`
	EndRow     int           `json:"end_row"`
	Analysis   []RowAnalysis `json:"analysis"`
	Confidence float64       `json:"confidence"` // 0..100, mean over data rows
}

// Range returns the detected span as a RowRange
func (b BoundaryResult) Range() RowRange {
	return RowRange{StartRow: b.StartRow, EndRow: b.EndRow}
}

// ImportType selects the validity filter applied when packaging the
// final extraction
type ImportType string

const (
	// ImportBudget keeps every row with a category; a $0 budget line is valid
	ImportBudget ImportType = "budget"
	// ImportDraw keeps only rows with a category and a strictly positive amount
	ImportDraw ImportType = "draw"
)

// LineItem is one packaged row of the final extraction: the two mapped
// columns only
type LineItem struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// ImportStats aggregates what the packager kept and dropped
type ImportStats struct {
	RowsInRange    int     `json:"rows_in_range"`
	RowsKept       int     `json:"rows_kept"`
	RowsSkipped    int     `json:"rows_skipped"`
	TotalAmount    float64 `json:"total_amount"`
	MeanAmount     float64 `json:"mean_amount"`
	StdDevAmount   float64 `json:"std_dev_amount"`
	ZeroAmountRows int     `json:"zero_amount_rows"`
}
