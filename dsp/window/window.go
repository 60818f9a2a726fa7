package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeFlatTop
)

// String returns a human-readable name for the window type.
func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "Rectangular"
	case TypeHann:
		return "Hann"
	case TypeHamming:
		return "Hamming"
	case TypeBlackman:
		return "Blackman"
	case TypeFlatTop:
		return "FlatTop"
	default:
		return "Unknown"
	}
}

// Cosine-sum coefficients. The window value at normalized position x is
// sum_k c[k] * cos(k * 2*pi*x), evaluated over x in [0,1].
var (
	hannCoeffs     = []float64{0.5, -0.5}
	hammingCoeffs  = []float64{0.54, -0.46}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
	flatTopCoeffs  = []float64{0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368}
)

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
//
// The symmetric form (default) satisfies w[i] == w[length-1-i] and peaks
// at the buffer midpoint.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		x := samplePosition(i, length, cfg.periodic)
		out[i] = evalWindow(t, x)
	}

	return out
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHann, size, opts...), validateLength(size)
}

// Hamming returns Hamming window coefficients.
func Hamming(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHamming, size, opts...), validateLength(size)
}

// Blackman returns Blackman window coefficients.
func Blackman(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeBlackman, size, opts...), validateLength(size)
}

// ApplyCoefficients multiplies samples with coefficients and returns a new slice.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, errMismatchedLength
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out, nil
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// CoherentGain returns sum(w[n]) / N, the DC (amplitude) gain of the window.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	return sum / float64(len(coeffs)), nil
}

// PowerGain returns sum(w[n]^2) / N, the incoherent (power) gain of the
// window. A broadband signal keeps this fraction of its mean-square value
// after windowing.
func PowerGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sumSq := 0.0
	for _, c := range coeffs {
		sumSq += c * c
	}

	return sumSq / float64(len(coeffs)), nil
}

// EquivalentNoiseBandwidth returns the ENBW in bins for a window.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	sumSquares := 0.0

	for _, c := range coeffs {
		sum += c
		sumSquares += c * c
	}

	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return float64(len(coeffs)) * sumSquares / (sum * sum), nil
}

func evalWindow(t Type, x float64) float64 {
	if x < 0 {
		x = 0
	}

	if x > 1 {
		x = 1
	}

	switch t {
	case TypeRectangular:
		return 1
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		return cosineFromCoeffs(x, blackmanCoeffs)
	case TypeFlatTop:
		return cosineFromCoeffs(x, flatTopCoeffs)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}
