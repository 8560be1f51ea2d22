package ingest

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the keyword lists driving header-text matching and
// row scoring. The built-in defaults cover the spreadsheet dialects
// seen across builder budgets; lenders with unusual templates can
// extend them from a YAML file without touching the weights.
type Vocabulary struct {
	// Column header keywords
	CategoryHeaders []string `yaml:"category_headers"`
	AmountHeaders   []string `yaml:"amount_headers"`

	// Row-level keywords
	HeaderRowTerms []string `yaml:"header_row_terms"`
	TotalTerms     []string `yaml:"total_terms"`

	// Closing-cost vocabulary, in descending specificity
	ClosingStrong []string `yaml:"closing_strong"`
	ClosingMedium []string `yaml:"closing_medium"`
	ClosingWeak   []string `yaml:"closing_weak"`
}

// DefaultVocabulary returns the built-in keyword lists
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		CategoryHeaders: []string{
			"category", "description", "line item", "item", "cost code",
			"division", "trade", "scope", "nahb", "expense", "type", "name",
			"work", "task", "phase",
		},
		AmountHeaders: []string{
			"budget", "contract", "cost", "draw", "funded", "requested",
			"disbursement", "payment", "total", "amount", "price", "value",
		},
		HeaderRowTerms: []string{
			"item", "description", "budget", "amount", "rough", "final",
			"column", "category", "cost", "code", "qty", "quantity",
		},
		TotalTerms: []string{
			"total", "subtotal", "grand total", "sum", "totals",
		},
		// "closing cost" also covers the plural under containment matching
		ClosingStrong: []string{
			"interest", "realtor", "closing cost",
		},
		ClosingMedium: []string{
			"finance", "loan fee", "points", "origination", "discount points",
		},
		ClosingWeak: []string{
			"title", "escrow", "recording", "appraisal fee",
			"inspection fee", "prepaid",
		},
	}
}

// LoadVocabulary reads a YAML vocabulary file and merges it over the
// defaults. Lists present in the file replace the corresponding default
// list; missing lists keep their defaults.
func LoadVocabulary(path string) (Vocabulary, error) {
	vocab := DefaultVocabulary()

	data, err := os.ReadFile(path)
	if err != nil {
		return vocab, err
	}

	var override Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return vocab, err
	}

	if len(override.CategoryHeaders) > 0 {
		vocab.CategoryHeaders = override.CategoryHeaders
	}
	if len(override.AmountHeaders) > 0 {
		vocab.AmountHeaders = override.AmountHeaders
	}
	if len(override.HeaderRowTerms) > 0 {
		vocab.HeaderRowTerms = override.HeaderRowTerms
	}
	if len(override.TotalTerms) > 0 {
		vocab.TotalTerms = override.TotalTerms
	}
	if len(override.ClosingStrong) > 0 {
		vocab.ClosingStrong = override.ClosingStrong
	}
	if len(override.ClosingMedium) > 0 {
		vocab.ClosingMedium = override.ClosingMedium
	}
	if len(override.ClosingWeak) > 0 {
		vocab.ClosingWeak = override.ClosingWeak
	}

	return vocab, nil
}

// containsAny reports whether text contains any term of the list.
// Matching is case-insensitive; callers pass pre-lowered text.
func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// matchesHeaderTerm reports whether the category text names a header
// term: either exactly, or as a prefix with at most HeaderPrefixSlack
// trailing characters ("amounts", "item #").
func matchesHeaderTerm(text string, terms []string) bool {
	for _, term := range terms {
		if text == term {
			return true
		}
		if strings.HasPrefix(text, term) && len(text)-len(term) <= HeaderPrefixSlack {
			return true
		}
	}
	return false
}

// closingScore sums the tier weights of every closing-cost term the
// category text contains. Overlapping terms ("points" inside "discount
// points") intentionally both count; specificity stacking is part of
// the tuning.
func (v Vocabulary) closingScore(text string) int {
	score := 0
	for _, term := range v.ClosingStrong {
		if strings.Contains(text, term) {
			score += ClosingWeightStrong
		}
	}
	for _, term := range v.ClosingMedium {
		if strings.Contains(text, term) {
			score += ClosingWeightMedium
		}
	}
	for _, term := range v.ClosingWeak {
		if strings.Contains(text, term) {
			score += ClosingWeightWeak
		}
	}
	return score
}
