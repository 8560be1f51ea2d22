// Package ingest implements the spreadsheet ingestion heuristics: given
// an arbitrary human-authored budget or draw sheet, detect which column
// holds the line-item category and which the dollar amount, classify
// every row (header, data, total, closing cost, empty), and resolve the
// contiguous row range that constitutes actual budget data.
//
// The pipeline is pure and stateless: Grid and StyleGrid in, mappings,
// per-row analysis and a row range out. Re-running it on identical
// input produces identical output; every ambiguous choice resolves
// first-encountered-wins. Confidence scores ride along on every result
// because the surrounding product keeps a human in the loop: low
// confidence is surfaced, never fatal.
package ingest

import (
	"strings"

	"drawdock/domain/ingest"
	"drawdock/domain/sheet"
	"drawdock/internal/errors"
)

// Engine runs the ingestion heuristics with a fixed configuration and
// vocabulary. The zero-cost way to get one is NewEngine with the
// defaults; construction is cheap enough to do per import.
type Engine struct {
	config Config
	vocab  Vocabulary
}

// NewEngine creates an engine with the default tuning
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultConfig(), DefaultVocabulary())
}

// NewEngineWithConfig creates an engine with explicit tuning
func NewEngineWithConfig(config Config, vocab Vocabulary) *Engine {
	return &Engine{config: config, vocab: vocab}
}

// DetectColumnMappings assigns each column one of category, amount or
// ignore. Keyword header matches win, and the vocabulary lists are
// ordered by priority: each keyword is tried in turn across all columns
// left to right, so a higher-priority term in a later column beats a
// lower-priority term in an earlier one. Statistical content profiles
// break the tie when headers are unhelpful, and gate keyword matches
// for the amount role so a misleading header over an empty column is
// never selected. Row samples are optional; without them the content
// gate has no evidence and keyword matches stand on their own.
func (e *Engine) DetectColumnMappings(headers []string, rows [][]sheet.Cell) []ingest.ColumnMapping {
	mappings := make([]ingest.ColumnMapping, len(headers))
	for i, name := range headers {
		mappings[i] = ingest.ColumnMapping{
			Index: i,
			Name:  name,
			Role:  ingest.RoleIgnore,
		}
	}

	hasSamples := len(rows) > 0
	grid := &sheet.Grid{Headers: headers, Rows: rows}
	profiles := make([]ingest.ColumnContentProfile, len(headers))
	if hasSamples {
		for i := range headers {
			profiles[i] = ProfileColumn(grid.Column(i, ProfileSampleSize))
		}
	}

	// Category first: a keyword header in vocabulary priority order,
	// else the first text-dominant column with enough distinct values.
	categoryIdx := -1
	for _, term := range e.vocab.CategoryHeaders {
		for i, name := range headers {
			if strings.Contains(strings.ToLower(name), term) {
				categoryIdx = i
				mappings[i].Role = ingest.RoleCategory
				mappings[i].Confidence = ConfidenceKeywordMatch
				break
			}
		}
		if categoryIdx >= 0 {
			break
		}
	}
	if categoryIdx < 0 && hasSamples {
		for i := range headers {
			p := profiles[i]
			if p.IsText && !p.IsNumeric && p.DistinctCount > MinCategoryDistinct {
				categoryIdx = i
				mappings[i].Role = ingest.RoleCategory
				mappings[i].Confidence = ConfidenceCategoryPattern
				break
			}
		}
	}

	// Amount next, over the remaining columns. Keyword matches must be
	// backed by real numeric content when samples exist.
	amountIdx := -1
	for _, term := range e.vocab.AmountHeaders {
		for i, name := range headers {
			if i == categoryIdx {
				continue
			}
			if !strings.Contains(strings.ToLower(name), term) {
				continue
			}
			if hasSamples && !profiles[i].HasRealNumbers {
				continue
			}
			amountIdx = i
			mappings[i].Role = ingest.RoleAmount
			mappings[i].Confidence = ConfidenceKeywordMatch
			break
		}
		if amountIdx >= 0 {
			break
		}
	}
	if amountIdx < 0 && hasSamples {
		start := 0
		if categoryIdx >= 0 {
			start = categoryIdx + 1
		}
		for i := start; i < len(headers); i++ {
			if i == categoryIdx || !profiles[i].HasRealNumbers {
				continue
			}
			amountIdx = i
			mappings[i].Role = ingest.RoleAmount
			mappings[i].Confidence = ConfidenceAmountPattern
			break
		}
	}

	return mappings
}

// resolveRoles extracts the category and amount column indices from a
// mapping, failing hard when either role is unassigned. Downstream
// extraction cannot proceed without both; the caller surfaces this to
// the operator for manual column selection.
func resolveRoles(mappings []ingest.ColumnMapping) (categoryIdx, amountIdx int, err error) {
	categoryIdx, amountIdx = -1, -1
	for _, m := range mappings {
		switch m.Role {
		case ingest.RoleCategory:
			if categoryIdx < 0 {
				categoryIdx = m.Index
			}
		case ingest.RoleAmount:
			if amountIdx < 0 {
				amountIdx = m.Index
			}
		}
	}
	if categoryIdx < 0 {
		return 0, 0, errors.NoCategoryColumn()
	}
	if amountIdx < 0 {
		return 0, 0, errors.NoAmountColumn()
	}
	return categoryIdx, amountIdx, nil
}
