package spl

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-spl/dsp/core"
	"github.com/cwbudde/algo-spl/dsp/micresp"
	"github.com/cwbudde/algo-spl/dsp/rfft"
	"github.com/cwbudde/algo-spl/dsp/spectrum"
	"github.com/cwbudde/algo-spl/dsp/weighting"
	"github.com/cwbudde/algo-spl/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// referencePressure is 20 µPa, the standard SPL reference pressure.
const referencePressure = 20e-6

// Meter computes a smoothed, frequency-weighted SPL reading from raw ADC
// sample buffers. All coefficient tables and working buffers are sized for
// the configured block size at construction and never resized.
type Meter struct {
	cfg MeterConfig

	transform    rfft.Transform
	windowCoeffs []float64 // N entries
	binWeights   []float64 // N/2 entries, power domain, entry 0 is 0

	// Working buffers, reused across calls.
	centered []float64 // N
	packed   []float64 // N
	re       []float64 // N/2
	im       []float64 // N/2
	power    []float64 // N/2

	latestLevel   float64
	smoothedLevel float64
}

// NewMeter creates an SPL meter with the given options. It performs all
// one-time setup: window generation, weighting and correction tables, and
// the FFT plan.
func NewMeter(opts ...MeterOption) (*Meter, error) {
	cfg := ApplyMeterOptions(opts...)

	n := cfg.BlockSize

	weights, err := weighting.PowerTable(cfg.Weighting, n, cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	var correction []float64
	if len(cfg.MicResponse) > 0 {
		correction, err = micresp.PowerTable(cfg.MicResponse, n, cfg.SampleRate)
	} else {
		correction, err = micresp.Flat(n)
	}

	if err != nil {
		return nil, err
	}

	binWeights := make([]float64, n/2)
	vecmath.MulBlock(binWeights, weights, correction)

	transform := cfg.Transform
	if transform == nil {
		transform, err = rfft.New(n)
		if err != nil {
			return nil, err
		}
	} else if transform.Size() != n {
		return nil, fmt.Errorf("spl: transform size %d does not match block size %d", transform.Size(), n)
	}

	return &Meter{
		cfg:          cfg,
		transform:    transform,
		windowCoeffs: window.Generate(cfg.Window, n),
		binWeights:   binWeights,
		centered:     make([]float64, n),
		packed:       make([]float64, n),
		re:           make([]float64, n/2),
		im:           make([]float64, n/2),
		power:        make([]float64, n/2),
	}, nil
}

// Process runs the full pipeline on one buffer of raw ADC codes. The buffer
// must hold exactly BlockSize samples; any other length is rejected without
// touching meter state. The caller keeps ownership of the buffer.
func (m *Meter) Process(samples []uint32) error {
	n := m.cfg.BlockSize
	if len(samples) != n {
		return fmt.Errorf("spl: buffer length must be %d: got %d", n, len(samples))
	}

	// Dynamic DC offset: the per-buffer mean tracks hardware bias drift
	// better than a fixed midpoint.
	var sum uint64
	for _, s := range samples {
		sum += uint64(s)
	}

	offset := float64(sum) / float64(n)

	for i, s := range samples {
		m.centered[i] = float64(s) - offset
	}

	if err := window.ApplyCoefficientsInPlace(m.centered, m.windowCoeffs); err != nil {
		return err
	}

	if err := m.transform.Forward(m.packed, m.centered); err != nil {
		return err
	}

	if err := spectrum.SplitPacked(m.re, m.im, m.packed); err != nil {
		return err
	}

	spectrum.PowerFromParts(m.power, m.re, m.im)
	vecmath.MulBlockInPlace(m.power, m.binWeights)

	// Bin 0 carries the residual DC component and no perceptual
	// information; its weight is 0 and it is skipped here as well.
	totalEnergy := 0.0
	for _, p := range m.power[1:] {
		totalEnergy += p
	}

	m.latestLevel = m.levelFromEnergy(totalEnergy)

	alpha := m.cfg.SmoothingFactor
	m.smoothedLevel = alpha*m.latestLevel + (1-alpha)*m.smoothedLevel

	return nil
}

// Latest returns the instantaneous level of the most recent buffer.
func (m *Meter) Latest() float64 {
	return m.latestLevel
}

// Smoothed returns the exponentially smoothed level. It is zero before the
// first Process call.
func (m *Meter) Smoothed() float64 {
	return m.smoothedLevel
}

// Reset clears the instantaneous and smoothed levels.
func (m *Meter) Reset() {
	m.latestLevel = 0
	m.smoothedLevel = 0
}

// BlockSize returns the configured buffer size N.
func (m *Meter) BlockSize() int {
	return m.cfg.BlockSize
}

// BinCount returns the number of one-sided spectrum bins (N/2).
func (m *Meter) BinCount() int {
	return m.cfg.BlockSize / 2
}

// levelFromEnergy converts accumulated weighted spectral energy to dB SPL.
//
// Non-positive energy is the degenerate silence case and maps to 0, not an
// error. The factor 2 restores the energy of the one-sided spectrum; the
// division by N² undoes the unnormalized forward FFT and the block length.
func (m *Meter) levelFromEnergy(energy float64) float64 {
	if energy <= 0 {
		return 0
	}

	n := float64(m.cfg.BlockSize)
	meanSquare := 2 * energy / (n * n)

	rmsADC := math.Sqrt(meanSquare)
	rmsVolts := rmsADC / m.cfg.ADCFullScale * m.cfg.ADCReferenceVolts
	pascals := rmsVolts / core.DBToLinear(m.cfg.MicSensitivityDBV)

	return 20*math.Log10(pascals/referencePressure) + m.cfg.CalibrationOffsetDB
}
