package support

import (
	"sort"

	"github.com/GF0201/CWKGQA/pkg/contract"
)

// Sample is one per-question row for run-level aggregation. When RawAnswer
// is empty, RawPrediction is parsed through the contract parser as a
// fallback for rows produced by older pipelines.
type Sample struct {
	ID              string   `json:"id"`
	RawAnswer       string   `json:"raw_answer,omitempty"`
	RawPrediction   string   `json:"raw_prediction,omitempty"`
	EvidenceLineIDs []int    `json:"evidence_line_ids,omitempty"`
	Retrieved       []Triple `json:"retrieved_triples,omitempty"`
}

// Summary aggregates coverage over a run. Rows whose coverage is nil
// (unscoreable) are excluded from every statistic.
type Summary struct {
	N              int      `json:"n"`
	KeyTokensK     int      `json:"key_tokens_k"`
	CoverageMean   float64  `json:"coverage_mean"`
	CoverageMedian float64  `json:"coverage_median"`
	SupportRate    float64  `json:"support_rate_ge_0_5"`
	FailureCaseIDs []string `json:"failure_case_ids"`
}

// Summarize computes run-level coverage statistics for a list of samples.
func Summarize(samples []Sample, keyTokensK int) Summary {
	var coverages []float64
	failureIDs := []string{}

	for _, s := range samples {
		rawAnswer := s.RawAnswer
		evidenceIDs := s.EvidenceLineIDs
		if rawAnswer == "" && s.RawPrediction != "" {
			parsed := contract.Parse(s.RawPrediction, len(s.Retrieved))
			rawAnswer = parsed.RawAnswer
			if len(evidenceIDs) == 0 {
				evidenceIDs = parsed.EvidenceLineIDs
			}
		}

		res := Compute(rawAnswer, evidenceIDs, s.Retrieved, keyTokensK)
		if res.Coverage == nil {
			continue
		}
		coverages = append(coverages, *res.Coverage)
		if *res.Coverage < 0.5 {
			failureIDs = append(failureIDs, s.ID)
		}
	}

	n := len(coverages)
	if n == 0 {
		return Summary{KeyTokensK: keyTokensK, FailureCaseIDs: failureIDs}
	}

	sorted := append([]float64(nil), coverages...)
	sort.Float64s(sorted)

	var sum float64
	supported := 0
	for _, c := range coverages {
		sum += c
		if c >= 0.5 {
			supported++
		}
	}

	return Summary{
		N:              n,
		KeyTokensK:     keyTokensK,
		CoverageMean:   sum / float64(n),
		CoverageMedian: sorted[n/2],
		SupportRate:    float64(supported) / float64(n),
		FailureCaseIDs: failureIDs,
	}
}
