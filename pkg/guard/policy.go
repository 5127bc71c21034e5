// Package guard enforces the answer-grounding contract on raw model output.
// It couples the contract parser and evidence-support scorer with a small
// deterministic state machine that decides whether an answer is accepted,
// forced to the UNKNOWN sentinel, or regenerated exactly once before
// finalizing.
package guard

import (
	"fmt"
	"strings"

	"github.com/GF0201/CWKGQA/pkg/contract"
	"github.com/GF0201/CWKGQA/pkg/observability/logging"
	"github.com/GF0201/CWKGQA/pkg/observability/metrics"
	"github.com/GF0201/CWKGQA/pkg/support"
)

// Policy selects the enforcement behavior for violating answers.
type Policy string

const (
	// PolicyForceUnknown forces violating answers straight to UNKNOWN.
	PolicyForceUnknown Policy = "force_unknown_if_support_lt_0.5"

	// PolicyRetryOnce regenerates a violating answer once; if the retry
	// still violates (or regeneration fails), the answer is forced to
	// UNKNOWN.
	PolicyRetryOnce Policy = "retry_once_if_support_lt_0.5_else_force_unknown"
)

// Action is the terminal outcome of one enforcement pass.
type Action string

const (
	ActionNone                  Action = "none"
	ActionForceUnknown          Action = "force_unknown"
	ActionRetryResolved         Action = "retry_resolved"
	ActionRetryThenForceUnknown Action = "retry_then_force_unknown"
)

// UnknownAnswer is the sentinel final answer for ungrounded responses.
const UnknownAnswer = "UNKNOWN"

// SupportThreshold is the minimum coverage for an answer to count as
// grounded. It is a fixed invariant of the contract, not a tunable.
const SupportThreshold = 0.5

// RegenerateFunc produces a second raw model response for the same
// question. The engine calls it at most once per enforcement pass and
// treats any error, panic, or empty output as a failed regeneration.
type RegenerateFunc func() (string, error)

// Decision records the outcome of one enforcement pass. It is created once
// per model response and never revisited.
type Decision struct {
	Action         Action   `json:"action"`
	FinalAnswer    string   `json:"final_answer"`
	RetryAttempted bool     `json:"retry_attempted"`
	// SupportBeforeRetry is the first coverage score; nil when the first
	// answer was unscoreable.
	SupportBeforeRetry *float64 `json:"support_before_retry"`
	// SupportAfterRetry is the retried coverage score; nil when no retry
	// ran or regeneration failed before scoring.
	SupportAfterRetry *float64 `json:"support_after_retry"`
}

// isViolation treats an unscoreable answer (nil coverage) as ungrounded:
// "cannot assess" must never pass for "sufficient".
func isViolation(res support.Result) bool {
	return res.Coverage == nil || *res.Coverage < SupportThreshold
}

// Enforce runs the enforcement state machine for one parsed and scored
// response. items are the evidence triples shown to the model; they are
// needed again to re-score a regenerated answer. The regenerate callback is
// invoked at most once, only under PolicyRetryOnce, and only on violation.
func (e *Engine) Enforce(
	parsed contract.ParsedContract,
	sup support.Result,
	policy Policy,
	regenerate RegenerateFunc,
	items []support.Triple,
) Decision {
	decision := Decision{
		Action:             ActionNone,
		FinalAnswer:        parsed.RawAnswer,
		SupportBeforeRetry: sup.Coverage,
	}

	if !isViolation(sup) {
		return decision
	}

	switch normalizePolicy(policy) {
	case PolicyForceUnknown:
		decision.Action = ActionForceUnknown
		decision.FinalAnswer = UnknownAnswer
		logging.Infof("Enforcement: support violation, forcing %s", UnknownAnswer)

	case PolicyRetryOnce:
		decision.RetryAttempted = true
		retryRaw, err := callRegenerate(regenerate)
		if err != nil || strings.TrimSpace(retryRaw) == "" {
			decision.Action = ActionRetryThenForceUnknown
			decision.FinalAnswer = UnknownAnswer
			logging.Warnf("Enforcement: regeneration failed (%v), forcing %s", err, UnknownAnswer)
			break
		}

		retryParsed := contract.Parse(retryRaw, len(items))
		retrySup := support.Compute(retryParsed.RawAnswer, retryParsed.EvidenceLineIDs, items, e.keyTokensK)
		decision.SupportAfterRetry = retrySup.Coverage

		if isViolation(retrySup) {
			decision.Action = ActionRetryThenForceUnknown
			decision.FinalAnswer = UnknownAnswer
		} else {
			decision.Action = ActionRetryResolved
			decision.FinalAnswer = retryParsed.RawAnswer
		}
		logging.Infof("Enforcement: retry finished, action=%s", decision.Action)

	default:
		// Unknown policy names accept the answer untouched; the caller
		// opted out of enforcement.
		logging.Warnf("Enforcement: unrecognized policy %q, accepting answer", policy)
	}

	return decision
}

// normalizePolicy maps the empty policy to the conservative default.
func normalizePolicy(policy Policy) Policy {
	if strings.TrimSpace(string(policy)) == "" {
		return PolicyForceUnknown
	}
	return policy
}

// callRegenerate shields the state machine from a misbehaving callback:
// a nil callback or a panic is reported as a failed regeneration.
func callRegenerate(regenerate RegenerateFunc) (raw string, err error) {
	if regenerate == nil {
		return "", fmt.Errorf("no regenerate callback provided")
	}
	defer func() {
		if r := recover(); r != nil {
			raw = ""
			err = fmt.Errorf("regenerate panicked: %v", r)
		}
	}()
	return regenerate()
}

// recordDecision updates metrics for a finished enforcement pass.
func recordDecision(policy Policy, decision Decision) {
	metrics.RecordEnforcementAction(string(normalizePolicy(policy)), string(decision.Action))
	if decision.SupportBeforeRetry != nil {
		metrics.RecordCoverage(*decision.SupportBeforeRetry)
	}
	if decision.SupportAfterRetry != nil {
		metrics.RecordCoverage(*decision.SupportAfterRetry)
	}
}
