package eval

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"lowercases and splits", "Chlorophyll Absorbs LIGHT", []string{"chlorophyll", "absorbs", "light"}},
		{"punctuation dropped", "light, water & CO2!", []string{"light", "water", "co2"}},
		{"empty", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("got %v, want %v", got, tt.expected)
				}
			}
		})
	}
}

func TestRougeL(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		reference string
		f1        float64
	}{
		{"identical text", "plants absorb light energy", "plants absorb light energy", 1.0},
		{"case and punctuation invariant", "Plants absorb light!", "plants absorb light", 1.0},
		{"disjoint text", "medieval castle siege", "plants absorb light", 0.0},
		{"empty candidate", "", "plants absorb light", 0.0},
		{"empty reference", "plants absorb light", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RougeL(tt.candidate, tt.reference)
			if !almostEqual(got.F1, tt.f1) {
				t.Errorf("F1 got %v, want %v", got.F1, tt.f1)
			}
		})
	}
}

func TestRougeL_PrecisionRecallAsymmetry(t *testing.T) {
	// candidate is a strict prefix of the reference: perfect precision,
	// partial recall
	got := RougeL("plants absorb", "plants absorb light energy")
	if !almostEqual(got.Precision, 1.0) {
		t.Errorf("precision got %v, want 1.0", got.Precision)
	}
	if !almostEqual(got.Recall, 0.5) {
		t.Errorf("recall got %v, want 0.5", got.Recall)
	}
	if got.F1 <= 0 || got.F1 >= 1 {
		t.Errorf("F1 should sit strictly between the extremes, got %v", got.F1)
	}
}

func TestRougeL_OrderSensitivity(t *testing.T) {
	inOrder := RougeL("light absorbs plants", "plants absorb light")
	same := RougeL("plants absorb light", "plants absorb light")
	if inOrder.F1 >= same.F1 {
		t.Errorf("scrambled word order must score below identical order: %v >= %v", inOrder.F1, same.F1)
	}
}
