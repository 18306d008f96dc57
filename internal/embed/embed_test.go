package embed

import (
	"math"
	"testing"
)

func TestCosineSimilarity_Identical(t *testing.T) {
	v := []float64{0.5, -1.2, 3.3, 0.01}
	got := CosineSimilarity(v, v)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("CosineSimilarity(v, v) = %v, want 1.0", got)
	}
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}
	if got := CosineSimilarity(a, b); math.Abs(got) > 1e-9 {
		t.Errorf("CosineSimilarity(a, b) = %v, want 0.0", got)
	}
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{-1, -2, -3}
	if got := CosineSimilarity(a, b); math.Abs(got+1.0) > 1e-9 {
		t.Errorf("CosineSimilarity(a, -a) = %v, want -1.0", got)
	}
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	a := []float64{0, 0, 0}
	b := []float64{1, 2, 3}

	if got := CosineSimilarity(a, b); got != 0.0 {
		t.Errorf("zero vector similarity = %v, want 0.0", got)
	}
	if got := CosineSimilarity(b, a); got != 0.0 {
		t.Errorf("zero vector similarity = %v, want 0.0", got)
	}
	if got := CosineSimilarity(a, a); got != 0.0 {
		t.Errorf("zero/zero similarity = %v, want 0.0", got)
	}
}

func TestCosineSimilarity_MismatchedLengths(t *testing.T) {
	a := []float64{1, 2}
	b := []float64{1, 2, 3}
	if got := CosineSimilarity(a, b); got != 0.0 {
		t.Errorf("mismatched lengths similarity = %v, want 0.0", got)
	}
}

func TestCosineSimilarity_Empty(t *testing.T) {
	if got := CosineSimilarity(nil, nil); got != 0.0 {
		t.Errorf("empty similarity = %v, want 0.0", got)
	}
}
