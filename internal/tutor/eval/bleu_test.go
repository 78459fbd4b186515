package eval

import "testing"

func TestBleu(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		reference string
		expected  float64
	}{
		{"identical text", "plants absorb light energy", "plants absorb light energy", 1.0},
		{"disjoint text", "medieval castle siege", "plants absorb light", 0.0},
		{"empty candidate", "", "plants absorb light", 0.0},
		{"empty reference", "plants absorb light", "", 0.0},
		{"single shared word", "light", "light", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bleu(tt.candidate, tt.reference)
			if !almostEqual(got, tt.expected) {
				t.Errorf("Bleu(%q, %q) = %v; want %v", tt.candidate, tt.reference, got, tt.expected)
			}
		})
	}
}

func TestBleu_PartialOverlapIsBetween(t *testing.T) {
	got := Bleu("plants absorb sunlight for growth", "plants absorb light energy")
	if got <= 0 || got >= 1 {
		t.Errorf("partial overlap must score strictly between 0 and 1, got %v", got)
	}
}

func TestBleu_BrevityPenalty(t *testing.T) {
	// both candidates are fully contained in the reference; the shorter one
	// must pay the brevity penalty
	short := Bleu("plants absorb", "plants absorb light energy from the sun")
	long := Bleu("plants absorb light energy", "plants absorb light energy from the sun")
	if short >= long {
		t.Errorf("shorter candidate should score lower: short=%v long=%v", short, long)
	}
}

func TestBleu_SmoothingOnlyAboveUnigram(t *testing.T) {
	// shared unigrams but no shared bigrams: smoothing keeps the score
	// positive instead of collapsing it to zero
	got := Bleu("light plants absorb", "plants light")
	if got <= 0 {
		t.Errorf("bigram smoothing should keep the score positive, got %v", got)
	}
	if got >= 1 {
		t.Errorf("smoothed score must stay below 1, got %v", got)
	}
}
