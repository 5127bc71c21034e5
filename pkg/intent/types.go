package intent

// UnknownLabel is the sentinel emitted when neither rules nor the model
// produced any signal for a non-empty question.
const UnknownLabel = "UNKNOWN"

// TriggeredRule records one rule that contributed to a label's score.
type TriggeredRule struct {
	RuleID string  `json:"rule_id"`
	Weight float64 `json:"weight"`
}

// Intent is one scored label in a prediction, with the rules that fired for
// it. Score is normalized to [0,1] within the prediction.
type Intent struct {
	Label                  string          `json:"label"`
	Score                  float64         `json:"score"`
	EvidenceRulesTriggered []TriggeredRule `json:"evidence_rules_triggered"`
}

// Prediction is the multi-label output for a single question. Intents are
// sorted by descending score; the maximum score is 1.0 unless every signal
// was zero. All fields are plain data and JSON-serializable.
type Prediction struct {
	Intents               []Intent `json:"intents"`
	IsMultiIntent         bool     `json:"is_multi_intent"`
	IsAmbiguous           bool     `json:"is_ambiguous"`
	ClarificationQuestion *string  `json:"clarification_question"`
	ClarificationOptions  []string `json:"clarification_options"`
}

// AuditInfo ties a prediction run to the exact configuration that produced
// it.
type AuditInfo struct {
	Thresholds        ThresholdInfo `json:"thresholds"`
	ConfigFingerprint string        `json:"config_fingerprint_intent"`
}

// ThresholdInfo echoes the decision thresholds in effect.
type ThresholdInfo struct {
	MultiLabelThreshold float64 `json:"multi_label_threshold"`
	AmbiguousMargin     float64 `json:"ambiguous_margin"`
	MinConfidence       float64 `json:"min_confidence"`
}
