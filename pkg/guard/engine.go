package guard

import (
	"time"

	"github.com/GF0201/CWKGQA/pkg/config"
	"github.com/GF0201/CWKGQA/pkg/contract"
	"github.com/GF0201/CWKGQA/pkg/observability/metrics"
	"github.com/GF0201/CWKGQA/pkg/support"
)

// Engine runs the full per-response guardrail pipeline:
// parse → score → enforce. It holds only read-only tunables, so one Engine
// serves concurrent evaluations.
type Engine struct {
	keyTokensK int
}

// NewEngine builds an Engine from validated configuration.
func NewEngine(cfg *config.EngineConfig) *Engine {
	k := cfg.Enforcement.KeyTokensK
	if k < 1 {
		k = config.DefaultKeyTokensK
	}
	return &Engine{keyTokensK: k}
}

// Evaluation is the JSON-serializable record of one guarded response.
type Evaluation struct {
	Parsed   contract.ParsedContract `json:"parsed"`
	Support  support.Result          `json:"support"`
	Decision Decision                `json:"decision"`
}

// Evaluate parses rawText against the contract, scores it against the
// evidence it cites, and applies the enforcement policy. The valid citation
// range is [1, len(items)]: the items actually shown to the model for this
// response are the single source of truth for range checking.
func (e *Engine) Evaluate(
	rawText string,
	items []support.Triple,
	policy Policy,
	regenerate RegenerateFunc,
) Evaluation {
	start := time.Now()
	defer func() {
		metrics.RecordEnforcementEvaluation(time.Since(start).Seconds())
	}()

	parsed := contract.Parse(rawText, len(items))
	sup := support.Compute(parsed.RawAnswer, parsed.EvidenceLineIDs, items, e.keyTokensK)
	decision := e.Enforce(parsed, sup, policy, regenerate, items)
	recordDecision(policy, decision)

	return Evaluation{
		Parsed:   parsed,
		Support:  sup,
		Decision: decision,
	}
}
