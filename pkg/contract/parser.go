// Package contract parses the two-line ANSWER/EVIDENCE output format that
// generation models are instructed to follow:
//
//	ANSWER: <free text>
//	EVIDENCE: <1,2,...>
//
// Malformed input never produces an error; it degrades to boolean flags on
// the ParsedContract so callers can aggregate failure statistics directly.
package contract

import (
	"sort"
	"strconv"
	"strings"
)

const (
	answerPrefix   = "ANSWER:"
	evidencePrefix = "EVIDENCE:"
)

// ParsedContract is the normalized result of parsing one model response.
type ParsedContract struct {
	// RawAnswer is the content of the first ANSWER: line, or the whole
	// trimmed input when no such line exists.
	RawAnswer string `json:"raw_answer"`

	// EvidenceLineIDs holds the deduplicated, ascending 1-based citation
	// indices that fall inside [1, retrievedK].
	EvidenceLineIDs []int `json:"evidence_line_ids"`

	HasAnswerLine        bool `json:"has_answer_line"`
	HasEvidenceLine      bool `json:"has_evidence_line"`
	EvidenceEmpty        bool `json:"evidence_empty"`
	EvidenceOutOfRange   bool `json:"evidence_out_of_range"`
	EvidenceHasDuplicate bool `json:"evidence_has_duplicate"`
}

// Parse extracts the answer and evidence citations from raw model text.
// retrievedK is the number of evidence items that were shown to the model;
// it defines the valid citation range [1, retrievedK]. Out-of-range indices
// are dropped, not clamped, and flagged via EvidenceOutOfRange.
func Parse(rawText string, retrievedK int) ParsedContract {
	raw := strings.TrimSpace(rawText)
	if raw == "" {
		return ParsedContract{
			RawAnswer:       "",
			EvidenceLineIDs: []int{},
			EvidenceEmpty:   true,
		}
	}

	var lines []string
	for _, ln := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(ln); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	parsed := ParsedContract{
		RawAnswer:       raw,
		EvidenceLineIDs: []int{},
	}

	// First ANSWER: line wins; only its content feeds downstream scoring.
	for _, ln := range lines {
		if strings.HasPrefix(strings.ToUpper(ln), answerPrefix) {
			parsed.HasAnswerLine = true
			parsed.RawAnswer = strings.TrimSpace(ln[len(answerPrefix):])
			break
		}
	}

	// First EVIDENCE: line wins; comma-separated 1-based indices, accepting
	// the full-width comma. Non-integer tokens are ignored without a flag.
	for _, ln := range lines {
		if !strings.HasPrefix(strings.ToUpper(ln), evidencePrefix) {
			continue
		}
		parsed.HasEvidenceLine = true
		payload := strings.TrimSpace(ln[len(evidencePrefix):])
		if payload == "" {
			parsed.EvidenceEmpty = true
			break
		}

		maxID := retrievedK
		if maxID < 0 {
			maxID = 0
		}

		var seenRaw []int
		valid := make(map[int]bool)
		for _, tok := range strings.Split(strings.ReplaceAll(payload, "，", ","), ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			idx, err := strconv.Atoi(tok)
			if err != nil {
				continue
			}
			seenRaw = append(seenRaw, idx)
			if idx < 1 || idx > maxID {
				parsed.EvidenceOutOfRange = true
				continue
			}
			valid[idx] = true
		}

		distinct := make(map[int]bool, len(seenRaw))
		for _, idx := range seenRaw {
			distinct[idx] = true
		}
		if len(seenRaw) != len(distinct) {
			parsed.EvidenceHasDuplicate = true
		}

		for idx := range valid {
			parsed.EvidenceLineIDs = append(parsed.EvidenceLineIDs, idx)
		}
		sort.Ints(parsed.EvidenceLineIDs)
		break
	}

	return parsed
}
