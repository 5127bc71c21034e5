// Package metrics exposes Prometheus instrumentation for intent prediction
// and answer enforcement. Consumers embed this library in long-running
// processes and scrape the default registry; the batch CLI can serve the
// registry on demand.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	intentPredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answerguard_intent_predictions_total",
			Help: "Intent predictions by outcome (predicted, unknown, empty_question).",
		},
		[]string{"outcome"},
	)

	intentAmbiguousTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "answerguard_intent_ambiguous_total",
			Help: "Predictions flagged as ambiguous.",
		},
	)

	intentMultiIntentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "answerguard_intent_multi_intent_total",
			Help: "Predictions flagged as multi-intent.",
		},
	)

	enforcementActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answerguard_enforcement_actions_total",
			Help: "Enforcement decisions by policy and action.",
		},
		[]string{"policy", "action"},
	)

	evidenceCoverage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "answerguard_evidence_coverage",
			Help:    "Computed evidence coverage scores (unscoreable answers excluded).",
			Buckets: prometheus.LinearBuckets(0.0, 0.1, 11),
		},
	)

	enforcementDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "answerguard_enforcement_duration_seconds",
			Help:    "Wall time of a full parse/score/enforce evaluation.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// RecordIntentPrediction counts one prediction with the given outcome label.
func RecordIntentPrediction(outcome string) {
	intentPredictionsTotal.WithLabelValues(outcome).Inc()
}

// RecordAmbiguous counts a prediction flagged as ambiguous.
func RecordAmbiguous() {
	intentAmbiguousTotal.Inc()
}

// RecordMultiIntent counts a prediction flagged as multi-intent.
func RecordMultiIntent() {
	intentMultiIntentTotal.Inc()
}

// RecordEnforcementAction counts one enforcement decision.
func RecordEnforcementAction(policy, action string) {
	enforcementActionsTotal.WithLabelValues(policy, action).Inc()
}

// RecordCoverage observes a computed (non-nil) coverage score.
func RecordCoverage(coverage float64) {
	evidenceCoverage.Observe(coverage)
}

// RecordEnforcementEvaluation observes the latency of one evaluation.
func RecordEnforcementEvaluation(seconds float64) {
	enforcementDuration.Observe(seconds)
}
