package matching

import "testing"

func TestCombineDefaults(t *testing.T) {
	// 80*0.7 + 60*0.3 = 74.0
	got := Combine(80, 60, DefaultCVWeight, DefaultPersonalityWeight)
	if got.Combined != 74.0 {
		t.Fatalf("expected 74.0, got %v", got.Combined)
	}
	if got.CVMatch != 80 || got.Personality != 60 {
		t.Fatalf("inputs not carried through: %+v", got)
	}
	if got.Weights.CV != 0.7 || got.Weights.Personality != 0.3 {
		t.Fatalf("unexpected weights: %+v", got.Weights)
	}
}

func TestCombineRenormalizesWeights(t *testing.T) {
	// 0.8 + 0.4 = 1.2, renormalized to 2/3 and 1/3:
	// 80*2/3 + 60*1/3 = 73.333... -> 73.3
	got := Combine(80, 60, 0.8, 0.4)
	if got.Combined != 73.3 {
		t.Fatalf("expected 73.3, got %v", got.Combined)
	}
	sum := got.Weights.CV + got.Weights.Personality
	if sum < 0.999 || sum > 1.001 {
		t.Fatalf("weights not renormalized: %+v", got.Weights)
	}
}

func TestCombineNonPositiveWeightsUseDefaults(t *testing.T) {
	got := Combine(100, 0, 0, 0)
	if got.Combined != 70.0 {
		t.Fatalf("expected 70.0 from default 0.7/0.3, got %v", got.Combined)
	}
}

func TestCombineStaysInRange(t *testing.T) {
	if got := Combine(100, 100, 0.7, 0.3); got.Combined != 100 {
		t.Fatalf("expected 100, got %v", got.Combined)
	}
	if got := Combine(0, 0, 0.7, 0.3); got.Combined != 0 {
		t.Fatalf("expected 0, got %v", got.Combined)
	}
}
