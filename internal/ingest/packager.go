package ingest

import (
	"strings"

	"gonum.org/v1/gonum/stat"

	"drawdock/domain/ingest"
	"drawdock/domain/sheet"
	"drawdock/internal/errors"
)

// PackageExtraction emits the final extraction for the downstream
// funding workflow: only the two mapped columns, only rows inside the
// (possibly user-overridden) range, filtered by import type. Budget
// imports keep every row with a category (a $0 budget line is a valid
// line item). Draw imports additionally require a strictly positive
// amount, since a draw against nothing funds nothing.
func (e *Engine) PackageExtraction(grid *sheet.Grid, mappings []ingest.ColumnMapping, rng ingest.RowRange, importType ingest.ImportType) ([]ingest.LineItem, ingest.ImportStats, error) {
	if grid.RowCount() == 0 {
		return nil, ingest.ImportStats{}, errors.EmptySheet()
	}
	categoryIdx, amountIdx, err := resolveRoles(mappings)
	if err != nil {
		return nil, ingest.ImportStats{}, err
	}

	var items []ingest.LineItem
	stats := ingest.ImportStats{}
	var amounts []float64

	for i := rng.StartRow; i <= rng.EndRow && i < grid.RowCount(); i++ {
		stats.RowsInRange++

		category := strings.TrimSpace(grid.At(i, categoryIdx).String())
		amount := cellAmount(grid.At(i, amountIdx))

		if !rowIsValid(category, amount, importType) {
			stats.RowsSkipped++
			continue
		}

		items = append(items, ingest.LineItem{Category: category, Amount: amount})
		stats.RowsKept++
		stats.TotalAmount += amount
		amounts = append(amounts, amount)
		if amount == 0 {
			stats.ZeroAmountRows++
		}
	}

	if len(amounts) > 0 {
		stats.MeanAmount = stat.Mean(amounts, nil)
		if len(amounts) > 1 {
			stats.StdDevAmount = stat.StdDev(amounts, nil)
		}
	}

	return items, stats, nil
}

// rowIsValid applies the import-type-specific validity filter
func rowIsValid(category string, amount float64, importType ingest.ImportType) bool {
	if category == "" {
		return false
	}
	if importType == ingest.ImportDraw {
		return amount > 0
	}
	return true
}
