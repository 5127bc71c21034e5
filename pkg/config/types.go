package config

// EngineConfig is the effective configuration for intent prediction and
// answer enforcement. It is loaded once, validated, and treated as read-only
// afterwards; every engine holds it by reference and never mutates it.
type EngineConfig struct {
	// Rules is the weighted rule table driving intent scoring.
	Rules []RuleConfig `yaml:"rules" json:"rules"`

	// IntentLabels is the label taxonomy. It documents each label and feeds
	// self-tests; prediction itself only needs the rule table.
	IntentLabels []TaxonomyEntry `yaml:"intent_labels" json:"intent_labels"`

	// Thresholds controls multi-intent and ambiguity decisions.
	Thresholds Thresholds `yaml:"thresholds" json:"thresholds"`

	// ConflictMatrix lists label pairs that are mutually exclusive in
	// principle. Pairs are unordered: [A, B] and [B, A] are equivalent.
	ConflictMatrix [][]string `yaml:"conflict_matrix" json:"conflict_matrix"`

	// ClarificationTemplates maps "<labelA>_vs_<labelB>" keys (or "generic")
	// to clarification question templates. The generic template may contain
	// a "{candidates}" placeholder.
	ClarificationTemplates map[string]string `yaml:"clarification_templates" json:"clarification_templates"`

	// ModelFusion configures blending of rule scores with an optional
	// trained classifier.
	ModelFusion ModelFusionConfig `yaml:"model_fusion" json:"model_fusion"`

	// Enforcement configures evidence-support scoring.
	Enforcement EnforcementConfig `yaml:"enforcement" json:"enforcement"`
}

// RuleConfig is one declarative matching rule. A rule fires on a question if
// any keyword or pattern occurs as a substring, or any regex matches.
type RuleConfig struct {
	ID       string   `yaml:"id" json:"id"`
	Label    string   `yaml:"label" json:"label"`
	Weight   float64  `yaml:"weight" json:"weight"`
	Keywords []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Patterns []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	Regex    []string `yaml:"regex,omitempty" json:"regex,omitempty"`
}

// TaxonomyEntry documents a single intent label.
type TaxonomyEntry struct {
	Name             string   `yaml:"name" json:"name"`
	Definition       string   `yaml:"definition,omitempty" json:"definition,omitempty"`
	Examples         []string `yaml:"examples,omitempty" json:"examples,omitempty"`
	NegativeExamples []string `yaml:"negative_examples,omitempty" json:"negative_examples,omitempty"`
}

// Thresholds holds the intent decision thresholds.
type Thresholds struct {
	// MultiLabelThreshold is the normalized score a label must reach to count
	// toward the multi-intent decision. Default 0.6.
	MultiLabelThreshold float64 `yaml:"multi_label_threshold" json:"multi_label_threshold"`

	// AmbiguousMargin is the maximum top1-top2 gap treated as ambiguous.
	// Default 0.15.
	AmbiguousMargin float64 `yaml:"ambiguous_margin" json:"ambiguous_margin"`

	// MinConfidence is the minimum top-1 score below which the prediction is
	// ambiguous regardless of the margin. Default 0.4.
	MinConfidence float64 `yaml:"min_confidence" json:"min_confidence"`
}

// ModelFusionConfig controls rule/model score blending:
// fused = alpha_rule*rule + (1-alpha_rule)*model.
type ModelFusionConfig struct {
	// AlphaRule is the rule-score weight. Default 0.5.
	AlphaRule float64 `yaml:"alpha_rule" json:"alpha_rule"`
}

// EnforcementConfig controls evidence-support scoring.
type EnforcementConfig struct {
	// KeyTokensK is how many leading answer tokens are checked against the
	// cited evidence. Default 5.
	KeyTokensK int `yaml:"key_tokens_k" json:"key_tokens_k"`
}

// Default threshold values applied when the YAML omits them.
const (
	DefaultMultiLabelThreshold = 0.6
	DefaultAmbiguousMargin     = 0.15
	DefaultMinConfidence       = 0.4
	DefaultAlphaRule           = 0.5
	DefaultKeyTokensK          = 5
)

// applyDefaults fills zero-valued tunables with their defaults.
func (c *EngineConfig) applyDefaults() {
	if c.Thresholds.MultiLabelThreshold == 0 {
		c.Thresholds.MultiLabelThreshold = DefaultMultiLabelThreshold
	}
	if c.Thresholds.AmbiguousMargin == 0 {
		c.Thresholds.AmbiguousMargin = DefaultAmbiguousMargin
	}
	if c.Thresholds.MinConfidence == 0 {
		c.Thresholds.MinConfidence = DefaultMinConfidence
	}
	if c.ModelFusion.AlphaRule == 0 {
		c.ModelFusion.AlphaRule = DefaultAlphaRule
	}
	if c.Enforcement.KeyTokensK == 0 {
		c.Enforcement.KeyTokensK = DefaultKeyTokensK
	}
	for i := range c.Rules {
		if c.Rules[i].Weight == 0 {
			c.Rules[i].Weight = 1.0
		}
	}
}
