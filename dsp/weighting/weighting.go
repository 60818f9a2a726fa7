package weighting

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-spl/dsp/core"
)

// IEC 61672 analog prototype pole frequencies (Hz).
const (
	f1 = 20.598997 // double pole for A, B, C
	f2 = 107.65265 // single pole for A only
	f3 = 158.48932 // single pole for B only
	f4 = 737.86223 // single pole for A only
	f5 = 12194.217 // double pole for A, B, C
)

// referenceFreq is the normalization frequency at which every curve is 0 dB.
const referenceFreq = 1000.0

// Type identifies a frequency weighting curve.
type Type int

const (
	// TypeA is the A-weighting curve per IEC 61672.
	// It approximates the 40-phon equal-loudness contour and is the most
	// widely used weighting for noise measurements.
	TypeA Type = iota

	// TypeB is the B-weighting curve per IEC 61672.
	// It approximates the 70-phon equal-loudness contour and is rarely
	// used in modern practice.
	TypeB

	// TypeC is the C-weighting curve per IEC 61672.
	// It approximates the 100-phon equal-loudness contour and is used
	// for peak measurements and C-A difference calculations.
	TypeC

	// TypeZ is the Z-weighting (zero-weighting) per IEC 61672.
	// It applies no frequency weighting (unity gain at all frequencies).
	TypeZ
)

// String returns a human-readable name for the weighting type.
func (t Type) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeB:
		return "B"
	case TypeC:
		return "C"
	case TypeZ:
		return "Z"
	default:
		return "Unknown"
	}
}

// Magnitude returns the linear amplitude response of the weighting curve at
// freqHz, normalized so that the response at 1 kHz is exactly 1.0.
//
// Non-positive frequencies return 0 for A, B and C (all carry zeros at DC)
// and 1 for Z.
func Magnitude(t Type, freqHz float64) float64 {
	if t == TypeZ {
		return 1
	}

	if freqHz <= 0 {
		return 0
	}

	return rawMagnitude(t, freqHz) / rawMagnitude(t, referenceFreq)
}

// MagnitudeDB returns the weighting response at freqHz in dB re 1 kHz.
// Frequencies at or below 0 Hz yield -Inf for A, B and C.
func MagnitudeDB(t Type, freqHz float64) float64 {
	return core.LinearToDB(Magnitude(t, freqHz))
}

// PowerTable samples the squared (power-domain) weighting response at the
// bin centers of a real FFT of the given size. The returned table has
// fftSize/2 entries; entry i corresponds to the bin at
// i*sampleRate/fftSize Hz. Entry 0 is always 0: the DC bin carries no
// perceptual information and is excluded from energy accumulation.
func PowerTable(t Type, fftSize int, sampleRate float64) ([]float64, error) {
	if err := validateTable(fftSize, sampleRate); err != nil {
		return nil, err
	}

	binHz := sampleRate / float64(fftSize)

	out := make([]float64, fftSize/2)
	for i := 1; i < len(out); i++ {
		m := Magnitude(t, float64(i)*binHz)
		out[i] = m * m
	}

	return out, nil
}

// rawMagnitude evaluates the unnormalized analog prototype magnitude.
//
// The prototypes from IEC 61672, with omega_i = 2*pi*f_i, reduce to the
// classic closed forms over frequency (constant gain factors cancel in the
// 1 kHz normalization):
//
//	R_A(f) = f5^2*f^4 / ((f^2+f1^2) * sqrt((f^2+f2^2)*(f^2+f4^2)) * (f^2+f5^2))
//	R_B(f) = f5^2*f^3 / ((f^2+f1^2) * sqrt(f^2+f3^2) * (f^2+f5^2))
//	R_C(f) = f5^2*f^2 / ((f^2+f1^2) * (f^2+f5^2))
func rawMagnitude(t Type, f float64) float64 {
	f2v := f * f

	den := (f2v + f1*f1) * (f2v + f5*f5)

	switch t {
	case TypeA:
		return f5 * f5 * f2v * f2v / (den * math.Sqrt((f2v+f2*f2)*(f2v+f4*f4)))
	case TypeB:
		return f5 * f5 * f2v * f / (den * math.Sqrt(f2v+f3*f3))
	case TypeC:
		return f5 * f5 * f2v / den
	default:
		return 1
	}
}

func validateTable(fftSize int, sampleRate float64) error {
	if fftSize < 4 || fftSize%2 != 0 {
		return fmt.Errorf("weighting: fft size must be even and >= 4: %d", fftSize)
	}

	if sampleRate <= 0 {
		return fmt.Errorf("weighting: sample rate must be positive: %f", sampleRate)
	}

	return nil
}
