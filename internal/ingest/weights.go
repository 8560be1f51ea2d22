package ingest

// weights.go
//
// Centralizes the empirically tuned weights and thresholds of the
// ingestion heuristics. The values were calibrated against a corpus of
// real builder budget spreadsheets; they are load-bearing constants,
// not incidental defaults, and changing one shifts the balance between
// the competing row/column candidates everywhere.

// ============================================================================
// Column content profiling
// ============================================================================

const (
	// ProfileSampleSize caps how many values of a column are inspected.
	ProfileSampleSize = 30

	// TypeDominanceRatio is the share of valid (non-empty) values a type
	// must reach before the column counts as that type.
	TypeDominanceRatio = 0.4

	// MinRealNumbers is the floor for HasRealNumbers. Deliberately much
	// higher than the dominance ratio: a column of dashes with a few
	// stray figures must not qualify as an amount column.
	MinRealNumbers = 10

	// MinCategoryDistinct is the distinct-value bar for the pattern
	// fallback when no header matches a category keyword.
	MinCategoryDistinct = 3
)

// Column mapping confidences
const (
	ConfidenceKeywordMatch    = 0.95
	ConfidenceCategoryPattern = 0.75
	ConfidenceAmountPattern   = 0.7
)

// ============================================================================
// Row signals
// ============================================================================

const (
	// HeaderPrefixSlack is how many characters longer than a header
	// vocabulary term the category text may be for a prefix match.
	HeaderPrefixSlack = 5

	// GapScanWindow and GapMinBlankRows define the blank-neighbor gap
	// signal: scanning up to GapScanWindow rows away, at least
	// GapMinBlankRows consecutive rows without a category value.
	GapScanWindow   = 3
	GapMinBlankRows = 2

	// MultiColumnTextMin is the count of non-numeric, non-empty cells
	// that marks a row as a likely header/label row.
	MultiColumnTextMin = 3
)

// Closing-cost keyword tiers
const (
	ClosingWeightStrong = 40
	ClosingWeightMedium = 25
	ClosingWeightWeak   = 15
)

// ============================================================================
// Row classification scores
// ============================================================================

// Header score contributions
const (
	HeaderKeywordScore      = 50
	HeaderBoldNoAmountScore = 20
	HeaderNoAmountScore     = 10
	HeaderAfterGapScore     = 15
	HeaderEarlyRowScore     = 25
	HeaderMultiColumnScore  = 45
	HeaderLateRowPenalty    = 40 // subtracted past HeaderLateRowIndex
	HeaderAfterGapMaxIndex  = 5
	HeaderEarlyRowMaxIndex  = 3
	HeaderLateRowIndex      = 5
)

// Total score contributions
const (
	TotalKeywordScore     = 40
	TotalSumMatchScore    = 50
	TotalBoldAmountScore  = 20
	TotalPrecedesGapScore = 10
)

// Closing score contributions
const (
	ClosingBoldScore = 10
)

// Selection thresholds and proximity penalties. The penalties only
// demote candidates in the ranking; qualification is judged on the raw
// score, so a genuine total sitting right under the header still wins
// when nothing else qualifies.
const (
	HeaderScoreThreshold  = 50 // must be exceeded, not merely met
	TotalScoreThreshold   = 40
	ClosingScoreThreshold = 35

	HeaderProximityRows     = 5
	TotalProximityPenalty   = 25
	ClosingProximityPenalty = 30
)

// Provisional confidence for unexceptional rows
const (
	DataRowConfidence  = 50
	EmptyRowConfidence = 100
	MaxConfidence      = 100
)

// ============================================================================
// Running-sum total detection
// ============================================================================

// Config carries the two knobs of the amount-matches-running-sum
// heuristic. The defaults mirror the tuned production values; they are
// configurable for parity experiments, not for casual re-derivation.
type Config struct {
	// SumTolerance is the relative tolerance when comparing a row's
	// amount against the running sum of prior data rows.
	SumTolerance float64

	// SumNoiseFloor is the minimum running sum before a match is
	// considered meaningful at all. Tiny sheets produce small sums that
	// collide with ordinary line items far too often.
	SumNoiseFloor float64
}

// DefaultConfig returns the production tuning
func DefaultConfig() Config {
	return Config{
		SumTolerance:  0.10,
		SumNoiseFloor: 1000,
	}
}
