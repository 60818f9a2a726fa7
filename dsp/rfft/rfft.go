// Package rfft provides a narrow forward real-FFT boundary for
// power-spectrum pipelines.
//
// The output uses a packed one-sided layout: for a transform of size N the
// destination holds [re0, im0, re1, im1, ..., re(N/2-1), im(N/2-1)]. For
// real input im0 is always 0. The Nyquist bin is not emitted; consumers of
// this layout accumulate bins 1..N/2-1 and never read it.
//
// The [Transform] interface lets callers swap in any conforming FFT backend
// without touching pipeline logic. [FFT] is the default implementation.
package rfft

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Errors returned by transform construction and invocation.
var (
	ErrInvalidSize = errors.New("rfft: size must be even and >= 4")
	ErrLengthSrc   = errors.New("rfft: src length must equal transform size")
	ErrLengthDst   = errors.New("rfft: dst length must equal transform size")
)

// Transform is a forward real-to-complex spectral transform with packed
// one-sided output. Implementations own their scratch state and are not
// safe for concurrent use.
type Transform interface {
	// Size returns the transform length N.
	Size() int

	// Forward computes the packed one-sided spectrum of src into dst.
	// Both slices must have length Size().
	Forward(dst, src []float64) error
}

// FFT is the default [Transform], backed by an algo-fft complex plan with
// preallocated scratch. Constructed once, reused on every call; Forward
// performs no allocation.
type FFT struct {
	size int
	plan *algofft.Plan[complex128]

	in  []complex128
	out []complex128
}

// New creates a forward real FFT of the given size. The size must be even
// and at least 4 (algo-fft additionally requires a supported factorization;
// powers of two always work).
func New(size int) (*FFT, error) {
	if size < 4 || size%2 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("rfft: failed to create FFT plan: %w", err)
	}

	return &FFT{
		size: size,
		plan: plan,
		in:   make([]complex128, size),
		out:  make([]complex128, size),
	}, nil
}

// Size returns the transform length N.
func (f *FFT) Size() int {
	return f.size
}

// Forward computes the packed one-sided spectrum of src into dst.
func (f *FFT) Forward(dst, src []float64) error {
	if len(src) != f.size {
		return fmt.Errorf("%w: got %d, want %d", ErrLengthSrc, len(src), f.size)
	}

	if len(dst) != f.size {
		return fmt.Errorf("%w: got %d, want %d", ErrLengthDst, len(dst), f.size)
	}

	for i, v := range src {
		f.in[i] = complex(v, 0)
	}

	if err := f.plan.Forward(f.out, f.in); err != nil {
		return fmt.Errorf("rfft: forward transform failed: %w", err)
	}

	half := f.size / 2
	for i := range half {
		dst[2*i] = real(f.out[i])
		dst[2*i+1] = imag(f.out[i])
	}

	return nil
}
