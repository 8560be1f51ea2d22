package ingest

import (
	"drawdock/domain/ingest"
)

// rowScores carries the three raw candidate-class scores for one row
type rowScores struct {
	header  int
	total   int
	closing int
}

// ClassifyRows converts per-row signals into final labels. Rows without
// a category are empty; everything else starts as data and the three
// special classes are filled by single-best selection: exactly one
// header at most, then at most one total and one closing row searched
// only below the chosen header.
func (e *Engine) ClassifyRows(signals []ingest.RowSignals) []ingest.RowClassification {
	classes := make([]ingest.RowClassification, len(signals))
	scores := make([]rowScores, len(signals))

	for i, sig := range signals {
		classes[i] = ingest.RowClassification{RowIndex: i}

		if !sig.HasCategory {
			classes[i].Label = ingest.LabelEmpty
			classes[i].Confidence = EmptyRowConfidence
			continue
		}

		classes[i].Label = ingest.LabelData
		classes[i].Confidence = DataRowConfidence
		scores[i] = scoreRow(sig)
	}

	// Phase 1: the header. Greedy argmax over every candidate row; the
	// winner must clear the threshold strictly or no header is labeled.
	headerIdx := -1
	bestHeader := HeaderScoreThreshold
	for i := range signals {
		if classes[i].Label != ingest.LabelData {
			continue
		}
		if scores[i].header > bestHeader {
			bestHeader = scores[i].header
			headerIdx = i
		}
	}
	if headerIdx >= 0 {
		classes[headerIdx].Label = ingest.LabelHeader
		classes[headerIdx].Confidence = capConfidence(scores[headerIdx].header)
	}

	// Phase 2: total and closing, restricted to rows after the header
	// (from the top when none was found). Candidates qualify on the raw
	// score; the proximity penalty only demotes them in the ranking so
	// bold label rows clustered under the header lose ties without
	// genuinely close totals being disqualified.
	searchFrom := 0
	if headerIdx >= 0 {
		searchFrom = headerIdx + 1
	}

	totalIdx := e.selectBest(classes, scores, searchFrom, headerIdx, candidateTotal)
	if totalIdx >= 0 {
		classes[totalIdx].Label = ingest.LabelTotal
		classes[totalIdx].Confidence = capConfidence(scores[totalIdx].total)
	}

	closingIdx := e.selectBest(classes, scores, searchFrom, headerIdx, candidateClosing)
	if closingIdx >= 0 {
		classes[closingIdx].Label = ingest.LabelClosing
		classes[closingIdx].Confidence = capConfidence(scores[closingIdx].closing)
	}

	return classes
}

// scoreRow computes the three raw weighted-sum scores for a non-empty
// row. The individual weights live in weights.go.
func scoreRow(sig ingest.RowSignals) rowScores {
	var s rowScores

	if sig.HasHeaderKeyword {
		s.header += HeaderKeywordScore
	}
	if sig.IsBold && !sig.HasAmount {
		s.header += HeaderBoldNoAmountScore
	}
	if !sig.HasAmount && sig.HasCategory {
		s.header += HeaderNoAmountScore
	}
	if sig.FollowsGap && sig.RowIndex < HeaderAfterGapMaxIndex {
		s.header += HeaderAfterGapScore
	}
	if sig.RowIndex < HeaderEarlyRowMaxIndex {
		s.header += HeaderEarlyRowScore
	}
	if sig.IsMultiColumnTextRow && !sig.HasAmount {
		s.header += HeaderMultiColumnScore
	}
	if sig.RowIndex > HeaderLateRowIndex {
		s.header -= HeaderLateRowPenalty
	}

	if sig.HasTotalKeyword {
		s.total += TotalKeywordScore
	}
	if sig.AmountMatchesSum {
		s.total += TotalSumMatchScore
	}
	if sig.IsBold && sig.HasAmount {
		s.total += TotalBoldAmountScore
	}
	if sig.PrecedesGap {
		s.total += TotalPrecedesGapScore
	}

	s.closing = sig.ClosingKeywordScore
	if sig.IsBold {
		s.closing += ClosingBoldScore
	}

	return s
}

// candidate extracts one class's raw score, threshold and proximity
// penalty from a row's scores
type candidate func(rowScores) (raw, threshold, penalty int)

func candidateTotal(s rowScores) (int, int, int) {
	return s.total, TotalScoreThreshold, TotalProximityPenalty
}

func candidateClosing(s rowScores) (int, int, int) {
	return s.closing, ClosingScoreThreshold, ClosingProximityPenalty
}

// selectBest runs single-best selection for one special class over the
// rows still labeled data from searchFrom onward. Ties keep the first
// candidate encountered so output stays reproducible.
func (e *Engine) selectBest(classes []ingest.RowClassification, scores []rowScores, searchFrom, headerIdx int, pick candidate) int {
	bestIdx := -1
	bestRank := 0
	for i := searchFrom; i < len(classes); i++ {
		if classes[i].Label != ingest.LabelData {
			continue
		}
		raw, threshold, penalty := pick(scores[i])
		if raw < threshold {
			continue
		}
		rank := raw
		if headerIdx >= 0 && i-headerIdx <= HeaderProximityRows {
			rank -= penalty
		}
		if bestIdx < 0 || rank > bestRank {
			bestIdx = i
			bestRank = rank
		}
	}
	return bestIdx
}

func capConfidence(score int) int {
	if score > MaxConfidence {
		return MaxConfidence
	}
	return score
}
