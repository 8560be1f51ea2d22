package ingest

import (
	"math"

	"github.com/montanaflynn/stats"

	"drawdock/domain/ingest"
	"drawdock/domain/sheet"
	"drawdock/internal/errors"
)

// AnalyzeRows runs signal extraction and classification in one call,
// returning the paired analysis per row for UI review and override.
func (e *Engine) AnalyzeRows(rows [][]sheet.Cell, mappings []ingest.ColumnMapping, styles sheet.StyleGrid) ([]ingest.RowAnalysis, error) {
	signals, err := e.ExtractRowSignals(rows, mappings, styles)
	if err != nil {
		return nil, err
	}
	classes := e.ClassifyRows(signals)

	analysis := make([]ingest.RowAnalysis, len(rows))
	for i := range rows {
		analysis[i] = ingest.RowAnalysis{
			Signals:        signals[i],
			Classification: classes[i],
		}
	}
	return analysis, nil
}

// DetectRowBoundariesWithAnalysis resolves the contiguous data row
// range: from the first data row forward until a classified total or
// closing row, or until a row's amount lands within tolerance of the
// running sum; the second stop catches unlabeled totals the
// classifier missed. Aggregate confidence is the mean confidence of
// the data rows inside the final range.
func (e *Engine) DetectRowBoundariesWithAnalysis(rows [][]sheet.Cell, mappings []ingest.ColumnMapping, styles sheet.StyleGrid) (ingest.BoundaryResult, error) {
	if len(rows) == 0 {
		return ingest.BoundaryResult{}, errors.EmptySheet()
	}

	analysis, err := e.AnalyzeRows(rows, mappings, styles)
	if err != nil {
		return ingest.BoundaryResult{}, err
	}

	startRow := 0
	for _, ra := range analysis {
		if ra.Classification.Label == ingest.LabelData {
			startRow = ra.Classification.RowIndex
			break
		}
	}

	endRow := startRow
	runningSum := 0.0
	for i := startRow; i < len(analysis); i++ {
		label := analysis[i].Classification.Label
		if label == ingest.LabelTotal || label == ingest.LabelClosing {
			break
		}

		amount := analysis[i].Signals.Amount
		if amount > 0 && runningSum > e.config.SumNoiseFloor &&
			math.Abs(runningSum-amount) <= e.config.SumTolerance*amount {
			break
		}

		// Only data rows extend the range; trailing blanks and label
		// rows never drag endRow past the last real line item.
		if label == ingest.LabelData {
			endRow = i
			runningSum += math.Abs(amount)
		}
	}

	confidences := []float64{}
	for i := startRow; i <= endRow && i < len(analysis); i++ {
		if analysis[i].Classification.Label == ingest.LabelData {
			confidences = append(confidences, float64(analysis[i].Classification.Confidence))
		}
	}
	confidence := float64(DataRowConfidence)
	if len(confidences) > 0 {
		if mean, err := stats.Mean(confidences); err == nil {
			confidence = mean
		}
	}

	return ingest.BoundaryResult{
		StartRow:   startRow,
		EndRow:     endRow,
		Analysis:   analysis,
		Confidence: confidence,
	}, nil
}
