package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
rules:
  - id: fact_what_is
    label: FACT_LOOKUP
    weight: 1.0
    keywords: ["what is", "what does"]
  - id: aggregate_count
    label: AGGREGATION
    weight: 0.8
    regex: ['(?i)how many']
intent_labels:
  - name: FACT_LOOKUP
    definition: "Single-fact lookup about one entity."
  - name: AGGREGATION
thresholds:
  multi_label_threshold: 0.7
  ambiguous_margin: 0.1
  min_confidence: 0.3
conflict_matrix:
  - [AGGREGATION, LIST_QUERY]
clarification_templates:
  generic: "Which do you mean: {candidates}?"
model_fusion:
  alpha_rule: 0.6
enforcement:
  key_tokens_k: 4
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse_ValidConfig(t *testing.T) {
	cfg, err := Parse(writeConfig(t, validYAML))
	require.NoError(t, err)

	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, "fact_what_is", cfg.Rules[0].ID)
	assert.Equal(t, "FACT_LOOKUP", cfg.Rules[0].Label)
	assert.Equal(t, []string{"what is", "what does"}, cfg.Rules[0].Keywords)
	assert.Equal(t, 0.7, cfg.Thresholds.MultiLabelThreshold)
	assert.Equal(t, 0.1, cfg.Thresholds.AmbiguousMargin)
	assert.Equal(t, 0.3, cfg.Thresholds.MinConfidence)
	assert.Equal(t, 0.6, cfg.ModelFusion.AlphaRule)
	assert.Equal(t, 4, cfg.Enforcement.KeyTokensK)
	require.Len(t, cfg.ConflictMatrix, 1)
	assert.Equal(t, []string{"AGGREGATION", "LIST_QUERY"}, cfg.ConflictMatrix[0])
	assert.Contains(t, cfg.ClarificationTemplates, "generic")
}

func TestParse_DefaultsApplied(t *testing.T) {
	minimal := `
rules:
  - id: r1
    label: FACT_LOOKUP
    keywords: ["what is"]
`
	cfg, err := Parse(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, DefaultMultiLabelThreshold, cfg.Thresholds.MultiLabelThreshold)
	assert.Equal(t, DefaultAmbiguousMargin, cfg.Thresholds.AmbiguousMargin)
	assert.Equal(t, DefaultMinConfidence, cfg.Thresholds.MinConfidence)
	assert.Equal(t, DefaultAlphaRule, cfg.ModelFusion.AlphaRule)
	assert.Equal(t, DefaultKeyTokensK, cfg.Enforcement.KeyTokensK)
	assert.Equal(t, 1.0, cfg.Rules[0].Weight, "omitted rule weight defaults to 1.0")
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse(writeConfig(t, "rules:\n  - id: [broken"))
	assert.Error(t, err)
}

func TestParse_ValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing rule id",
			yaml:    "rules:\n  - label: X\n    keywords: [a]\n",
			wantErr: "missing id",
		},
		{
			name: "duplicate rule id",
			yaml: `rules:
  - id: r1
    label: X
    keywords: [a]
  - id: r1
    label: Y
    keywords: [b]
`,
			wantErr: "duplicate id",
		},
		{
			name:    "missing label",
			yaml:    "rules:\n  - id: r1\n    keywords: [a]\n",
			wantErr: "missing label",
		},
		{
			name:    "negative weight",
			yaml:    "rules:\n  - id: r1\n    label: X\n    weight: -0.5\n    keywords: [a]\n",
			wantErr: "weight must be positive",
		},
		{
			name:    "no matchers",
			yaml:    "rules:\n  - id: r1\n    label: X\n    weight: 1.0\n",
			wantErr: "at least one keyword",
		},
		{
			name:    "invalid regex",
			yaml:    "rules:\n  - id: r1\n    label: X\n    regex: ['[unclosed']\n",
			wantErr: "invalid regex",
		},
		{
			name:    "conflict pair too long",
			yaml:    "conflict_matrix:\n  - [A, B, C]\n",
			wantErr: "exactly 2 labels",
		},
		{
			name:    "conflict pair empty label",
			yaml:    "conflict_matrix:\n  - [A, '']\n",
			wantErr: "empty label",
		},
		{
			name:    "threshold out of range",
			yaml:    "thresholds:\n  min_confidence: 1.5\n",
			wantErr: "must be in [0,1]",
		},
		{
			name:    "alpha out of range",
			yaml:    "model_fusion:\n  alpha_rule: -0.1\n",
			wantErr: "must be in [0,1]",
		},
		{
			name:    "key tokens below one",
			yaml:    "enforcement:\n  key_tokens_k: -3\n",
			wantErr: "must be >= 1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(writeConfig(t, tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadCachesAndGetReturnsIt(t *testing.T) {
	path := writeConfig(t, validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Same(t, cfg, Get())

	// Load is once-only: a second call ignores the new path.
	again, err := Load(writeConfig(t, "rules: []\n"))
	require.NoError(t, err)
	assert.Same(t, cfg, again)
}

func TestReplaceSwapsCachedConfig(t *testing.T) {
	fresh := &EngineConfig{}
	fresh.applyDefaults()
	Replace(fresh)
	assert.Same(t, fresh, Get())
}
