package testutil

import (
	"math"
	"math/rand"
)

// ADCSine generates a deterministic sine wave encoded as unsigned ADC codes
// around the given midpoint. Values are rounded and clamped at zero.
func ADCSine(freqHz, sampleRate, midpoint, amplitude float64, length int) []uint32 {
	out := make([]uint32, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		v := midpoint + amplitude*math.Sin(step*float64(i))
		if v < 0 {
			v = 0
		}

		out[i] = uint32(math.Round(v))
	}

	return out
}

// ADCConstant generates a constant-code buffer (pure DC).
func ADCConstant(code uint32, length int) []uint32 {
	out := make([]uint32, length)
	for i := range out {
		out[i] = code
	}

	return out
}

// ADCNoise generates deterministic uniform noise as unsigned ADC codes
// around the given midpoint.
func ADCNoise(seed int64, midpoint, amplitude float64, length int) []uint32 {
	out := make([]uint32, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		v := midpoint + (rng.Float64()*2-1)*amplitude
		if v < 0 {
			v = 0
		}

		out[i] = uint32(math.Round(v))
	}

	return out
}

// Offset returns a copy of buf with the given code added to every sample.
func Offset(buf []uint32, code uint32) []uint32 {
	out := make([]uint32, len(buf))
	for i, v := range buf {
		out[i] = v + code
	}

	return out
}

// DeterministicSine generates a deterministic float sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}
