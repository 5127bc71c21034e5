package fusion

import "math"

// Sigmoid squashes a raw classifier margin into (0,1).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Blend fuses rule scores with model scores over the union of their labels:
// fused = alpha*rule + (1-alpha)*model. A label missing from one source
// contributes 0 from that source. When the model map is empty the rule
// scores pass through unchanged, so pure rule mode is exact, not a blend
// against zeros.
func Blend(ruleScores, modelScores map[string]float64, alpha float64) map[string]float64 {
	if len(modelScores) == 0 {
		out := make(map[string]float64, len(ruleScores))
		for label, s := range ruleScores {
			out[label] = s
		}
		return out
	}

	fused := make(map[string]float64, len(ruleScores)+len(modelScores))
	for label, r := range ruleScores {
		fused[label] = alpha * r
	}
	for label, m := range modelScores {
		fused[label] += (1.0 - alpha) * m
	}
	return fused
}
