package config

import (
	"fmt"
	"regexp"
)

// validateConfigStructure checks structural invariants after parsing so the
// engines can assume a well-formed, compilable configuration.
func validateConfigStructure(cfg *EngineConfig) error {
	seenIDs := make(map[string]bool, len(cfg.Rules))
	for i, rule := range cfg.Rules {
		if rule.ID == "" {
			return fmt.Errorf("rule[%d]: missing id", i)
		}
		if seenIDs[rule.ID] {
			return fmt.Errorf("rule %q: duplicate id", rule.ID)
		}
		seenIDs[rule.ID] = true
		if rule.Label == "" {
			return fmt.Errorf("rule %q: missing label", rule.ID)
		}
		if rule.Weight <= 0 {
			return fmt.Errorf("rule %q: weight must be positive, got %v", rule.ID, rule.Weight)
		}
		if len(rule.Keywords) == 0 && len(rule.Patterns) == 0 && len(rule.Regex) == 0 {
			return fmt.Errorf("rule %q: needs at least one keyword, pattern, or regex", rule.ID)
		}
		for _, expr := range rule.Regex {
			if _, err := regexp.Compile(expr); err != nil {
				return fmt.Errorf("rule %q: invalid regex %q: %w", rule.ID, expr, err)
			}
		}
	}

	for i, pair := range cfg.ConflictMatrix {
		if len(pair) != 2 {
			return fmt.Errorf("conflict_matrix[%d]: expected exactly 2 labels, got %d", i, len(pair))
		}
		if pair[0] == "" || pair[1] == "" {
			return fmt.Errorf("conflict_matrix[%d]: empty label", i)
		}
	}

	th := cfg.Thresholds
	for name, v := range map[string]float64{
		"multi_label_threshold": th.MultiLabelThreshold,
		"ambiguous_margin":      th.AmbiguousMargin,
		"min_confidence":        th.MinConfidence,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("thresholds.%s: must be in [0,1], got %v", name, v)
		}
	}

	if a := cfg.ModelFusion.AlphaRule; a < 0 || a > 1 {
		return fmt.Errorf("model_fusion.alpha_rule: must be in [0,1], got %v", a)
	}
	if k := cfg.Enforcement.KeyTokensK; k < 1 {
		return fmt.Errorf("enforcement.key_tokens_k: must be >= 1, got %d", k)
	}

	return nil
}
