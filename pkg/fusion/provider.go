// Package fusion blends rule-derived intent scores with the output of an
// optional trained classifier. The classifier is modeled as a capability
// interface so the intent engine behaves identically whether or not a model
// is available (pure rule mode uses the null provider).
package fusion

// ScoreProvider supplies per-label decision scores for a question. Scores
// are raw classifier margins; the caller squashes them with Sigmoid before
// blending. Implementations must be safe for concurrent use.
type ScoreProvider interface {
	// Scores returns a label→margin map for the question, or nil when no
	// scores are available.
	Scores(question string) map[string]float64
}

// NoopProvider is the null provider used when no trained model is loaded.
type NoopProvider struct{}

// Scores always returns nil.
func (NoopProvider) Scores(string) map[string]float64 { return nil }

// MarginProvider adapts a margin-based classifier exposed as a decision
// function aligned to a fixed label order.
type MarginProvider struct {
	// LabelOrder gives the label for each position of the decision vector.
	LabelOrder []string

	// DecisionFunc computes per-label margins for a question. A short or nil
	// result yields scores only for the labels it covers.
	DecisionFunc func(question string) []float64
}

// Scores maps the decision vector onto LabelOrder.
func (p MarginProvider) Scores(question string) map[string]float64 {
	if p.DecisionFunc == nil || len(p.LabelOrder) == 0 {
		return nil
	}
	margins := p.DecisionFunc(question)
	if len(margins) == 0 {
		return nil
	}
	scores := make(map[string]float64, len(margins))
	for i, label := range p.LabelOrder {
		if i >= len(margins) {
			break
		}
		scores[label] = margins[i]
	}
	return scores
}
