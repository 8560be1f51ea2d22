package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"drawdock/domain/ingest"
	"drawdock/domain/sheet"
)

// Value shape patterns. Builder spreadsheets write amounts every way
// imaginable: "$1,200.50", "(500)", "-500", "1200". Dates show up in
// columns that look numeric at a glance, and a lone dash is the
// near-universal marker for "no value this draw".
var (
	currencyPattern = regexp.MustCompile(`^\(?\s*-?\s*\$?\s*(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?\s*\)?$`)
	datePattern     = regexp.MustCompile(`^\d{1,4}[/-]\d{1,2}[/-]\d{1,4}$`)
	dashPattern     = regexp.MustCompile(`^-+$`)
)

// ProfileColumn inspects a sample of one column's values and classifies
// its statistical shape. Samples are capped at ProfileSampleSize rows;
// callers pass whatever they have and the cap is applied here.
func ProfileColumn(values []sheet.Cell) ingest.ColumnContentProfile {
	if len(values) > ProfileSampleSize {
		values = values[:ProfileSampleSize]
	}

	profile := ingest.ColumnContentProfile{}
	distinct := make(map[string]bool)

	for _, cell := range values {
		if cell.IsEmpty() {
			continue
		}
		profile.ValidCount++
		distinct[cell.String()] = true

		switch cell.Kind {
		case sheet.KindNumber:
			profile.NumericCount++
			if cell.Number != 0 {
				profile.RealNumberCount++
			}
		case sheet.KindText:
			text := strings.TrimSpace(cell.Text)
			switch {
			case dashPattern.MatchString(text):
				// Placeholder for "no value": numeric for type purposes,
				// never a real number.
				profile.NumericCount++
				profile.PlaceholderCount++
			case currencyPattern.MatchString(text):
				profile.NumericCount++
				profile.CurrencyCount++
				if math.Abs(parseAmountText(text)) > 0 {
					profile.RealNumberCount++
				}
			case datePattern.MatchString(text):
				profile.DateCount++
			default:
				profile.TextCount++
			}
		}
	}

	profile.DistinctCount = len(distinct)

	// A type claims the column once it covers 40% of the valid sample
	// (at least one value). HasRealNumbers holds to a higher, absolute
	// bar so placeholder-heavy columns with a few stray figures never
	// pass as amounts.
	dominance := int(math.Max(TypeDominanceRatio*float64(profile.ValidCount), 1))
	profile.IsNumeric = profile.NumericCount >= dominance
	profile.IsText = profile.TextCount >= dominance
	profile.HasRealNumbers = profile.RealNumberCount >= MinRealNumbers

	return profile
}

// parseAmountText leniently parses a monetary string: currency symbols,
// thousands commas, accounting parentheses and stray whitespace are
// stripped; anything unparseable resolves to 0. Spreadsheet data is
// dirty and a bad cell must never abort an import.
func parseAmountText(text string) float64 {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return 0
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "("), ")")
		negative = true
	}

	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	if negative {
		value = -value
	}
	return value
}

// cellAmount resolves a cell to its monetary value under the same
// lenient rules
func cellAmount(cell sheet.Cell) float64 {
	switch cell.Kind {
	case sheet.KindNumber:
		return cell.Number
	case sheet.KindText:
		return parseAmountText(cell.Text)
	default:
		return 0
	}
}

// looksNumeric reports whether a cell's rendering parses as a number
// after stripping currency symbols, percent signs and commas. Used for
// the text-cell density signal, which is looser than the profile rules.
func looksNumeric(cell sheet.Cell) bool {
	if cell.Kind == sheet.KindNumber {
		return true
	}
	text := strings.TrimSpace(cell.String())
	if text == "" {
		return false
	}
	text = strings.ReplaceAll(text, "$", "")
	text = strings.ReplaceAll(text, "%", "")
	text = strings.ReplaceAll(text, ",", "")
	text = strings.TrimSpace(text)
	_, err := strconv.ParseFloat(text, 64)
	return err == nil
}
