package support

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Individual/Group", "individualgroup"},
		{"strips ascii punctuation", "I/G bit, means: group!", "ig bit means group"},
		{"strips cjk punctuation", "以太网（Ethernet）：局域网。", "以太网ethernet局域网"},
		{"collapses whitespace", "  a \t b\n c  ", "a b c"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestMixedSegmentation_WordLevel(t *testing.T) {
	assert.Equal(t, []string{"individual", "group", "bit"}, MixedSegmentation("individual group bit"))
	assert.Empty(t, MixedSegmentation("   "))
}

func TestMixedSegmentation_CharacterLevelForCJK(t *testing.T) {
	assert.Equal(t, []string{"以", "太", "网"}, MixedSegmentation("以太网"))
}

func TestMixedSegmentation_MixedTextUsesCharacterLevel(t *testing.T) {
	// One ideograph switches the whole string to character tokens; latin
	// letters become single-character tokens too.
	got := MixedSegmentation("mac地址")
	assert.Equal(t, []string{"m", "a", "c", "地", "址"}, got)
}
