package testutil

import (
	"math"
	"testing"
)

// RequireNear fails t if got and want differ by more than eps.
func RequireNear(t *testing.T, got, want, eps float64) {
	t.Helper()

	if math.IsNaN(got) {
		t.Fatalf("got NaN, want %v", want)
	}

	if diff := math.Abs(got - want); diff > eps {
		t.Fatalf("got %v, want %v (diff %v > eps %v)", got, want, diff, eps)
	}
}

// RequireFinite fails t if any value is NaN or Inf.
func RequireFinite(t *testing.T, values ...float64) {
	t.Helper()

	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("value %d: non-finite %v", i, v)
		}
	}
}

// RequireNoError fails t if err is non-nil.
func RequireNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
