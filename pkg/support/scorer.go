// Package support scores how well an answer is grounded in the evidence it
// cites. Coverage is the fraction of the answer's leading content tokens
// that appear as substrings of the cited evidence text.
//
// A nil Coverage means grounding could not be assessed at all (empty answer,
// nothing cited, or no evidence supplied). That is a different condition
// from a computed coverage of 0.0 and callers must treat it as insufficient
// support, never as a zero score.
package support

import "strings"

// Triple is one retrieved knowledge-graph evidence item.
type Triple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// Result holds the coverage computation for a single answer.
type Result struct {
	Coverage      *float64 `json:"coverage"`
	SupportGE05   bool     `json:"support_ge_0_5"`
	KeyTokens     []string `json:"key_tokens"`
	CoveredTokens []string `json:"covered_tokens"`
	MissingTokens []string `json:"missing_tokens"`
}

func unscoreable() Result {
	return Result{
		Coverage:      nil,
		SupportGE05:   false,
		KeyTokens:     []string{},
		CoveredTokens: []string{},
		MissingTokens: []string{},
	}
}

// Compute scores the answer against the evidence lines it cites.
// evidenceLineIDs are 1-based indices into items; ids outside the slice are
// skipped. keyTokensK bounds how many leading answer tokens are checked.
// Compute is pure: it is called with identical semantics before and after a
// regeneration retry.
func Compute(answer string, evidenceLineIDs []int, items []Triple, keyTokensK int) Result {
	if answer == "" || len(evidenceLineIDs) == 0 || len(items) == 0 {
		return unscoreable()
	}

	ansTokens := MixedSegmentation(Normalize(answer))
	if keyTokensK < 0 {
		keyTokensK = 0
	}
	if keyTokensK > len(ansTokens) {
		keyTokensK = len(ansTokens)
	}
	keyTokens := ansTokens[:keyTokensK]
	if len(keyTokens) == 0 {
		return unscoreable()
	}

	var ctxParts []string
	for _, id := range evidenceLineIDs {
		j := id - 1
		if j < 0 || j >= len(items) {
			continue
		}
		t := items[j]
		ctxParts = append(ctxParts, t.Subject+" "+t.Predicate+" "+t.Object)
	}

	normCtx := ""
	if len(ctxParts) > 0 {
		normCtx = Normalize(strings.Join(ctxParts, " "))
	}

	covered := []string{}
	missing := []string{}
	if normCtx == "" {
		missing = append(missing, keyTokens...)
	} else {
		for _, tok := range keyTokens {
			if tok != "" && strings.Contains(normCtx, tok) {
				covered = append(covered, tok)
			} else {
				missing = append(missing, tok)
			}
		}
	}

	coverage := float64(len(covered)) / float64(len(keyTokens))
	return Result{
		Coverage:      &coverage,
		SupportGE05:   coverage >= 0.5,
		KeyTokens:     keyTokens,
		CoveredTokens: covered,
		MissingTokens: missing,
	}
}
