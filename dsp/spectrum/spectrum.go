// Package spectrum provides helpers for working with packed one-sided
// real-FFT output (alternating re/im pairs, see the rfft package).
package spectrum

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// SplitPacked de-interleaves a packed spectrum into separate real and
// imaginary slices. packed must have even length 2*B; re and im must each
// have length B.
func SplitPacked(re, im, packed []float64) error {
	if len(packed)%2 != 0 {
		return fmt.Errorf("spectrum: packed length must be even: %d", len(packed))
	}

	bins := len(packed) / 2
	if len(re) != bins || len(im) != bins {
		return fmt.Errorf("spectrum: part lengths must be %d: re=%d im=%d", bins, len(re), len(im))
	}

	for i := range bins {
		re[i] = packed[2*i]
		im[i] = packed[2*i+1]
	}

	return nil
}

// PowerFromParts computes |X[k]|^2 = re[k]^2 + im[k]^2 into dst.
//
// This is the zero-allocation fast path for callers that already have real
// and imaginary parts in separate slices. All three slices must have the
// same length. Uses SIMD-optimized implementations when available.
func PowerFromParts(dst, re, im []float64) {
	vecmath.Power(dst, re, im)
}

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
//
// All three slices must have the same length. Uses SIMD-optimized
// implementations when available.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}
