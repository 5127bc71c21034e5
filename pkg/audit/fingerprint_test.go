package audit

import (
	"strings"
	"testing"
)

func TestCanonicalJSON_SortsKeys(t *testing.T) {
	a := map[string]interface{}{"zebra": 1, "alpha": 2, "mid": 3}

	out, err := CanonicalJSON(a)
	if err != nil {
		t.Fatalf("CanonicalJSON failed: %v", err)
	}
	want := `{"alpha":2,"mid":3,"zebra":1}`
	if string(out) != want {
		t.Errorf("canonical form = %s, want %s", out, want)
	}
}

func TestCanonicalJSON_NestedMaps(t *testing.T) {
	v := map[string]interface{}{
		"outer": map[string]interface{}{"b": []int{1, 2}, "a": "x"},
	}

	out, err := CanonicalJSON(v)
	if err != nil {
		t.Fatalf("CanonicalJSON failed: %v", err)
	}
	want := `{"outer":{"a":"x","b":[1,2]}}`
	if string(out) != want {
		t.Errorf("canonical form = %s, want %s", out, want)
	}
}

func TestFingerprint_Stable(t *testing.T) {
	v := map[string]interface{}{
		"rules":      []string{"r1", "r2"},
		"thresholds": map[string]float64{"margin": 0.15, "multi": 0.6},
	}

	first, err := Fingerprint(v)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	for i := 0; i < 50; i++ {
		got, err := Fingerprint(v)
		if err != nil {
			t.Fatalf("Fingerprint failed: %v", err)
		}
		if got != first {
			t.Fatalf("run %d: fingerprint drifted: %s vs %s", i, got, first)
		}
	}
	if len(first) != 64 || strings.ToLower(first) != first {
		t.Errorf("expected lowercase sha256 hex, got %q", first)
	}
}

type fingerprintFixture struct {
	Beta  float64 `json:"beta"`
	Alpha float64 `json:"alpha"`
}

func TestFingerprint_StructAndMapAgree(t *testing.T) {
	// Struct field order must not leak into the digest.
	fromStruct, err := Fingerprint(fingerprintFixture{Beta: 2.0, Alpha: 1.0})
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	fromMap, err := Fingerprint(map[string]float64{"alpha": 1.0, "beta": 2.0})
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	if fromStruct != fromMap {
		t.Errorf("struct and map digests differ: %s vs %s", fromStruct, fromMap)
	}
}

func TestFingerprint_SensitiveToValues(t *testing.T) {
	a, err := Fingerprint(map[string]float64{"margin": 0.15})
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	b, err := Fingerprint(map[string]float64{"margin": 0.2})
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	if a == b {
		t.Error("different values must yield different fingerprints")
	}
}

func TestFingerprint_UnserializableValue(t *testing.T) {
	if _, err := Fingerprint(map[string]interface{}{"fn": func() {}}); err == nil {
		t.Error("expected an error for an unserializable value")
	}
}
