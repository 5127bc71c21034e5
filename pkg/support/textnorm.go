package support

import (
	"strings"
	"unicode"
)

// asciiPunct mirrors the usual ASCII punctuation set; cjkPunct covers the
// common full-width punctuation seen in KGQA answers.
const (
	asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	cjkPunct   = "，。！？【】（）《》“”、：；"
)

// Normalize case-folds the text, strips ASCII and CJK punctuation, and
// collapses runs of whitespace into single spaces.
func Normalize(s string) string {
	lowered := strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if strings.ContainsRune(asciiPunct, r) || strings.ContainsRune(cjkPunct, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// MixedSegmentation tokenizes normalized text. If the text contains any CJK
// ideograph the whole string is split into individual non-space characters,
// because CJK answers carry meaning at the character level; otherwise it is
// split on whitespace.
func MixedSegmentation(text string) []string {
	hasCJK := false
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			hasCJK = true
			break
		}
	}

	if !hasCJK {
		return strings.Fields(text)
	}

	var tokens []string
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		tokens = append(tokens, string(r))
	}
	return tokens
}
