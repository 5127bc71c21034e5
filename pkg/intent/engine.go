// Package intent implements the rule-based multi-label intent engine for
// knowledge-graph question answering. Scoring is deterministic and
// auditable: identical configuration and question always produce identical
// predictions, and the effective configuration is fingerprinted at
// construction.
package intent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/GF0201/CWKGQA/pkg/audit"
	"github.com/GF0201/CWKGQA/pkg/config"
	"github.com/GF0201/CWKGQA/pkg/fusion"
	"github.com/GF0201/CWKGQA/pkg/observability/logging"
	"github.com/GF0201/CWKGQA/pkg/observability/metrics"
)

// Engine scores questions against the configured rule set, optionally fuses
// a trained classifier's scores, and flags multi-intent and ambiguous
// questions. All state is read-only after construction, so a single Engine
// may serve concurrent predictions.
type Engine struct {
	rules       []compiledRule
	thresholds  config.Thresholds
	alpha       float64
	conflicts   map[string]bool
	templates   map[string]string
	provider    fusion.ScoreProvider
	fingerprint string
}

// NewEngine builds an Engine from validated configuration. provider may be
// nil; pure rule mode is used then.
func NewEngine(cfg *config.EngineConfig, provider fusion.ScoreProvider) (*Engine, error) {
	rules, err := compileRules(cfg.Rules)
	if err != nil {
		return nil, err
	}

	conflicts := make(map[string]bool, 2*len(cfg.ConflictMatrix))
	for _, pair := range cfg.ConflictMatrix {
		if len(pair) != 2 {
			continue
		}
		conflicts[conflictKey(pair[0], pair[1])] = true
		conflicts[conflictKey(pair[1], pair[0])] = true
	}

	fingerprint, err := audit.Fingerprint(map[string]interface{}{
		"rules":                   cfg.Rules,
		"taxonomy":                cfg.IntentLabels,
		"thresholds":              cfg.Thresholds,
		"conflict_matrix":         cfg.ConflictMatrix,
		"clarification_templates": cfg.ClarificationTemplates,
		"model_fusion":            cfg.ModelFusion,
	})
	if err != nil {
		return nil, fmt.Errorf("fingerprint config: %w", err)
	}

	if provider == nil {
		provider = fusion.NoopProvider{}
	}

	logging.Infof("Intent engine ready: rules=%d, fingerprint=%s", len(rules), fingerprint[:12])
	return &Engine{
		rules:       rules,
		thresholds:  cfg.Thresholds,
		alpha:       cfg.ModelFusion.AlphaRule,
		conflicts:   conflicts,
		templates:   cfg.ClarificationTemplates,
		provider:    provider,
		fingerprint: fingerprint,
	}, nil
}

func conflictKey(a, b string) string { return a + "\x00" + b }

// Predict scores a single question. An empty or whitespace question yields
// an empty prediction; a question that matches nothing yields the UNKNOWN
// sentinel at score 0.
//
// Ordering is deterministic: labels sort by descending normalized score,
// ties broken by first-seen order (rule-table order for rule labels, then
// sorted label name for model-only labels).
func (e *Engine) Predict(question string) Prediction {
	q := strings.TrimSpace(question)
	if q == "" {
		metrics.RecordIntentPrediction("empty_question")
		return Prediction{Intents: []Intent{}}
	}

	rawScores := make(map[string]float64)
	triggered := make(map[string][]TriggeredRule)
	firstSeen := make(map[string]int)

	for _, r := range e.rules {
		if !r.fires(q) {
			continue
		}
		if _, ok := firstSeen[r.Label]; !ok {
			firstSeen[r.Label] = len(firstSeen)
		}
		rawScores[r.Label] += r.Weight
		triggered[r.Label] = append(triggered[r.Label], TriggeredRule{RuleID: r.ID, Weight: r.Weight})
		logging.Debugf("Rule %q fired for label %q (weight=%.2f)", r.ID, r.Label, r.Weight)
	}

	modelScores := e.modelScores(q)
	for _, label := range sortedKeys(modelScores) {
		if _, ok := firstSeen[label]; !ok {
			firstSeen[label] = len(firstSeen)
		}
	}

	if len(rawScores) == 0 && len(modelScores) == 0 {
		metrics.RecordIntentPrediction("unknown")
		return Prediction{
			Intents: []Intent{{
				Label:                  UnknownLabel,
				Score:                  0.0,
				EvidenceRulesTriggered: []TriggeredRule{},
			}},
		}
	}

	fused := fusion.Blend(rawScores, modelScores, e.alpha)

	// Normalize so the best label scores 1.0 for this question.
	maxScore := 0.0
	for _, s := range fused {
		if s > maxScore {
			maxScore = s
		}
	}
	normalized := make(map[string]float64, len(fused))
	for label, s := range fused {
		if maxScore > 0 {
			normalized[label] = s / maxScore
		} else {
			normalized[label] = 0.0
		}
	}

	labels := make([]string, 0, len(normalized))
	for label := range normalized {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		si, sj := normalized[labels[i]], normalized[labels[j]]
		if si != sj {
			return si > sj
		}
		return firstSeen[labels[i]] < firstSeen[labels[j]]
	})

	intents := make([]Intent, 0, len(labels))
	for _, label := range labels {
		rulesForLabel := triggered[label]
		if rulesForLabel == nil {
			rulesForLabel = []TriggeredRule{}
		}
		intents = append(intents, Intent{
			Label:                  label,
			Score:                  normalized[label],
			EvidenceRulesTriggered: rulesForLabel,
		})
	}

	isMulti, isAmbiguous := e.decideMultiAndAmbiguous(intents)

	pred := Prediction{
		Intents:       intents,
		IsMultiIntent: isMulti,
		IsAmbiguous:   isAmbiguous,
	}
	if isAmbiguous {
		pred.ClarificationQuestion, pred.ClarificationOptions = e.makeClarification(intents)
	}

	metrics.RecordIntentPrediction("predicted")
	if isMulti {
		metrics.RecordMultiIntent()
	}
	if isAmbiguous {
		metrics.RecordAmbiguous()
	}
	return pred
}

// modelScores asks the provider for margins and squashes them to (0,1).
// Provider failures degrade to pure rule mode.
func (e *Engine) modelScores(question string) map[string]float64 {
	defer func() {
		if r := recover(); r != nil {
			logging.Warnf("Score provider panicked, falling back to rules: %v", r)
		}
	}()
	margins := e.provider.Scores(question)
	if len(margins) == 0 {
		return nil
	}
	scores := make(map[string]float64, len(margins))
	for label, m := range margins {
		scores[label] = fusion.Sigmoid(m)
	}
	return scores
}

func (e *Engine) decideMultiAndAmbiguous(intents []Intent) (isMulti, isAmbiguous bool) {
	if len(intents) == 0 {
		return false, false
	}

	active := 0
	for _, it := range intents {
		if it.Score >= e.thresholds.MultiLabelThreshold {
			active++
		}
	}
	isMulti = active >= 2

	top1 := intents[0]
	if len(intents) > 1 {
		top2 := intents[1]
		if top1.Score-top2.Score <= e.thresholds.AmbiguousMargin {
			isAmbiguous = true
		}
		if e.conflicts[conflictKey(top1.Label, top2.Label)] &&
			top1.Score-top2.Score <= e.thresholds.AmbiguousMargin {
			isAmbiguous = true
		}
	}
	if top1.Score < e.thresholds.MinConfidence {
		isAmbiguous = true
	}

	return isMulti, isAmbiguous
}

// makeClarification synthesizes a clarification question for the top
// candidates. Lookup order: "<top1>_vs_<top2>", then the reversed key, then
// the generic template with {candidates} substituted. Without any matching
// template both returns are nil.
func (e *Engine) makeClarification(intents []Intent) (*string, []string) {
	candidates := make([]string, 0, 3)
	for _, it := range intents {
		if it.Score > 0 {
			candidates = append(candidates, it.Label)
		}
		if len(candidates) == 3 {
			break
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	var question string
	if len(candidates) >= 2 {
		if tmpl, ok := e.templates[candidates[0]+"_vs_"+candidates[1]]; ok {
			question = tmpl
		} else if tmpl, ok := e.templates[candidates[1]+"_vs_"+candidates[0]]; ok {
			question = tmpl
		}
	}
	if question == "" {
		generic, ok := e.templates["generic"]
		if !ok || generic == "" {
			return nil, nil
		}
		question = strings.ReplaceAll(generic, "{candidates}", strings.Join(candidates, ", "))
	}

	return &question, candidates
}

// AuditInfo returns the thresholds and configuration fingerprint in effect,
// suitable for embedding in run manifests.
func (e *Engine) AuditInfo() AuditInfo {
	return AuditInfo{
		Thresholds: ThresholdInfo{
			MultiLabelThreshold: e.thresholds.MultiLabelThreshold,
			AmbiguousMargin:     e.thresholds.AmbiguousMargin,
			MinConfidence:       e.thresholds.MinConfidence,
		},
		ConfigFingerprint: e.fingerprint,
	}
}

// Fingerprint returns the SHA-256 fingerprint of the effective
// configuration.
func (e *Engine) Fingerprint() string { return e.fingerprint }

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
