package ingest

import (
	"math"
	"strings"

	"drawdock/domain/ingest"
	"drawdock/domain/sheet"
)

// ExtractRowSignals computes the per-row signal bundle the classifier
// scores against. Two passes: cell-local signals first, then the
// signals needing full-row context (blank-neighbor gaps and the
// running-sum proximity match).
func (e *Engine) ExtractRowSignals(rows [][]sheet.Cell, mappings []ingest.ColumnMapping, styles sheet.StyleGrid) ([]ingest.RowSignals, error) {
	categoryIdx, amountIdx, err := resolveRoles(mappings)
	if err != nil {
		return nil, err
	}

	grid := &sheet.Grid{Rows: rows}
	signals := make([]ingest.RowSignals, len(rows))

	for i := range rows {
		categoryText := strings.ToLower(strings.TrimSpace(grid.At(i, categoryIdx).String()))
		amount := cellAmount(grid.At(i, amountIdx))

		sig := ingest.RowSignals{
			RowIndex:     i,
			CategoryText: categoryText,
			Amount:       amount,
			HasCategory:  categoryText != "",
			HasAmount:    amount != 0,
		}

		if sig.HasCategory {
			sig.HasHeaderKeyword = matchesHeaderTerm(categoryText, e.vocab.HeaderRowTerms)
			sig.HasTotalKeyword = containsAny(categoryText, e.vocab.TotalTerms)
			sig.ClosingKeywordScore = e.vocab.closingScore(categoryText)
			sig.HasClosingKeyword = sig.ClosingKeywordScore > 0
		}

		if style := styles.DataCell(i, categoryIdx); style != nil {
			sig.IsBold = style.Bold
		}

		for col := range rows[i] {
			cell := grid.At(i, col)
			if !cell.IsEmpty() && !looksNumeric(cell) {
				sig.TextCellCount++
			}
		}
		sig.IsMultiColumnTextRow = sig.TextCellCount >= MultiColumnTextMin

		signals[i] = sig
	}

	// Second pass: gaps need neighboring rows' category presence, the
	// sum match needs everything above the current row.
	runningSum := 0.0
	for i := range signals {
		signals[i].FollowsGap = hasBlankRun(signals, i, -1)
		signals[i].PrecedesGap = hasBlankRun(signals, i, +1)

		amount := signals[i].Amount
		if amount > 0 && runningSum > e.config.SumNoiseFloor &&
			math.Abs(runningSum-amount) <= e.config.SumTolerance*amount {
			signals[i].AmountMatchesSum = true
		}

		// The sum only accumulates real line items: category present,
		// positive amount.
		if signals[i].HasCategory && amount > 0 {
			runningSum += math.Abs(amount)
		}
	}

	return signals, nil
}

// hasBlankRun reports whether, scanning up to GapScanWindow rows in the
// given direction, at least GapMinBlankRows consecutive rows lack a
// category value before a row that has one (or the grid boundary).
func hasBlankRun(signals []ingest.RowSignals, from, direction int) bool {
	blanks := 0
	for step := 1; step <= GapScanWindow; step++ {
		j := from + direction*step
		if j < 0 || j >= len(signals) {
			break
		}
		if signals[j].HasCategory {
			break
		}
		blanks++
	}
	return blanks >= GapMinBlankRows
}
