package fusion

import (
	"math"
	"testing"
)

func TestSigmoid(t *testing.T) {
	if got := Sigmoid(0); got != 0.5 {
		t.Errorf("Sigmoid(0) = %v, want 0.5", got)
	}
	if got := Sigmoid(20); got < 0.999 {
		t.Errorf("Sigmoid(20) = %v, want near 1", got)
	}
	if got := Sigmoid(-20); got > 0.001 {
		t.Errorf("Sigmoid(-20) = %v, want near 0", got)
	}
	// Symmetry: sigmoid(x) + sigmoid(-x) == 1.
	for _, x := range []float64{0.3, 1.7, 5.0} {
		if diff := math.Abs(Sigmoid(x) + Sigmoid(-x) - 1.0); diff > 1e-12 {
			t.Errorf("sigmoid symmetry broken at x=%v (diff %v)", x, diff)
		}
	}
}

func TestBlend_EmptyModelPassesRulesThrough(t *testing.T) {
	rules := map[string]float64{"A": 1.5, "B": 0.8}

	fused := Blend(rules, nil, 0.5)

	if len(fused) != 2 || fused["A"] != 1.5 || fused["B"] != 0.8 {
		t.Errorf("expected exact rule passthrough, got %v", fused)
	}
	// Passthrough must copy, not alias.
	fused["A"] = 0
	if rules["A"] != 1.5 {
		t.Error("Blend must not share the input map")
	}
}

func TestBlend_Union(t *testing.T) {
	rules := map[string]float64{"A": 1.0}
	model := map[string]float64{"A": 0.8, "B": 0.6}

	fused := Blend(rules, model, 0.5)

	if got, want := fused["A"], 0.5*1.0+0.5*0.8; math.Abs(got-want) > 1e-12 {
		t.Errorf("fused[A] = %v, want %v", got, want)
	}
	if got, want := fused["B"], 0.5*0.6; math.Abs(got-want) > 1e-12 {
		t.Errorf("fused[B] = %v, want %v", got, want)
	}
}

func TestBlend_AlphaExtremes(t *testing.T) {
	rules := map[string]float64{"A": 1.0}
	model := map[string]float64{"A": 0.2}

	if got := Blend(rules, model, 1.0)["A"]; got != 1.0 {
		t.Errorf("alpha=1 must ignore the model, got %v", got)
	}
	if got := Blend(rules, model, 0.0)["A"]; got != 0.2 {
		t.Errorf("alpha=0 must ignore the rules, got %v", got)
	}
}
