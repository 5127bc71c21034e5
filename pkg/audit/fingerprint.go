// Package audit produces reproducibility fingerprints for engine
// configurations. Two runs with byte-identical effective configuration yield
// the same fingerprint, so a pair of run manifests can be proven identical
// without diffing the raw config files.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// CanonicalJSON serializes v deterministically: object keys sorted, compact
// separators, insertion order irrelevant. The value is round-tripped through
// a generic decode so struct field order and map iteration order cannot leak
// into the bytes.
func CanonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	// encoding/json emits map keys in sorted order with no extra whitespace,
	// which is exactly the canonical form.
	out, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return out, nil
}

// Fingerprint returns the SHA-256 hex digest of the canonical serialization
// of v.
func Fingerprint(v interface{}) (string, error) {
	canonical, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
