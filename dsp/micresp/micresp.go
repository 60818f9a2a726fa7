// Package micresp builds microphone-correction coefficient tables from a
// measured frequency response.
//
// A measurement microphone is never perfectly flat. Given a handful of
// measured response anchors (frequency, deviation in dB from the 1 kHz
// reference), this package interpolates the curve across the bins of a real
// FFT and returns the inverse response in the power domain, ready to be
// multiplied onto squared bin magnitudes. A capsule that reads +2 dB hot at
// some frequency gets its bin energy attenuated by 10^(-2*2/20) there.
package micresp

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-spl/dsp/core"
)

// Point is one measured response anchor: the microphone's deviation from
// flat, in dB, at a given frequency.
type Point struct {
	FreqHz float64
	GainDB float64
}

// Flat returns a unity correction table for a real FFT of the given size.
// Entry 0 is 0, matching the DC-bin exclusion convention of the weighting
// tables.
func Flat(fftSize int) ([]float64, error) {
	if err := validateSize(fftSize); err != nil {
		return nil, err
	}

	out := make([]float64, fftSize/2)
	for i := 1; i < len(out); i++ {
		out[i] = 1
	}

	return out, nil
}

// PowerTable interpolates the measured response at the bin centers of a
// real FFT and returns the pre-squared inverse correction factors. The
// returned table has fftSize/2 entries; entry i corresponds to the bin at
// i*sampleRate/fftSize Hz and entry 0 is always 0.
//
// Interpolation is linear in dB over log frequency, the usual presentation
// of microphone calibration sheets. Bins below the first anchor or above
// the last hold the respective edge value.
func PowerTable(points []Point, fftSize int, sampleRate float64) ([]float64, error) {
	if err := validateSize(fftSize); err != nil {
		return nil, err
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("micresp: sample rate must be positive: %f", sampleRate)
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("micresp: at least one response point required")
	}

	for i, p := range points {
		if p.FreqHz <= 0 {
			return nil, fmt.Errorf("micresp: response frequency must be positive at index %d: %f", i, p.FreqHz)
		}

		if i > 0 && p.FreqHz <= points[i-1].FreqHz {
			return nil, fmt.Errorf("micresp: response frequencies must be strictly increasing at index %d", i)
		}
	}

	logF := make([]float64, len(points))
	gain := make([]float64, len(points))

	for i, p := range points {
		logF[i] = math.Log10(p.FreqHz)
		gain[i] = p.GainDB
	}

	binHz := sampleRate / float64(fftSize)

	out := make([]float64, fftSize/2)
	for i := 1; i < len(out); i++ {
		db := interpolate(logF, gain, math.Log10(float64(i)*binHz))

		// Invert: correction cancels the response. Pre-square for the
		// power domain.
		lin := core.DBToLinear(-db)
		out[i] = lin * lin
	}

	return out, nil
}

// interpolate evaluates piecewise-linear interpolation with edge clamping.
// x must be strictly increasing.
func interpolate(x, y []float64, q float64) float64 {
	if q <= x[0] {
		return y[0]
	}

	if q >= x[len(x)-1] {
		return y[len(y)-1]
	}

	j := sort.SearchFloat64s(x, q)
	x0, x1 := x[j-1], x[j]
	t := (q - x0) / (x1 - x0)

	return y[j-1] + t*(y[j]-y[j-1])
}

func validateSize(fftSize int) error {
	if fftSize < 4 || fftSize%2 != 0 {
		return fmt.Errorf("micresp: fft size must be even and >= 4: %d", fftSize)
	}

	return nil
}
