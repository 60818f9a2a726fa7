package spl

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spl/dsp/micresp"
	"github.com/cwbudde/algo-spl/dsp/weighting"
	"github.com/cwbudde/algo-spl/internal/testutil"
)

const (
	testMidpoint = 2048.0
	testRate     = 16000.0
	testBlock    = 256
)

func newTestMeter(t *testing.T, opts ...MeterOption) *Meter {
	t.Helper()

	m, err := NewMeter(opts...)
	if err != nil {
		t.Fatalf("NewMeter: %v", err)
	}

	return m
}

func TestAccessorsBeforeFirstProcess(t *testing.T) {
	m := newTestMeter(t)

	if m.Latest() != 0 || m.Smoothed() != 0 {
		t.Fatalf("fresh meter levels = (%v, %v), want (0, 0)", m.Latest(), m.Smoothed())
	}

	if m.BlockSize() != testBlock || m.BinCount() != testBlock/2 {
		t.Fatalf("sizes = (%d, %d), want (%d, %d)", m.BlockSize(), m.BinCount(), testBlock, testBlock/2)
	}
}

func TestSilenceIsExactlyZero(t *testing.T) {
	m := newTestMeter(t)

	for _, code := range []uint32{0, 1, 2048, 4095} {
		buf := testutil.ADCConstant(code, testBlock)

		testutil.RequireNoError(t, m.Process(buf))

		if got := m.Latest(); got != 0 {
			t.Fatalf("constant buffer %d: latest = %v, want exactly 0", code, got)
		}
	}
}

func TestDCOffsetInvariance(t *testing.T) {
	base := testutil.ADCSine(1000, testRate, 1000, 400, testBlock)
	shifted := testutil.Offset(base, 500)

	m1 := newTestMeter(t)
	m2 := newTestMeter(t)

	testutil.RequireNoError(t, m1.Process(base))
	testutil.RequireNoError(t, m2.Process(shifted))

	testutil.RequireNear(t, m2.Latest(), m1.Latest(), 1e-9)
}

func TestWrongLengthRejectedWithoutStateChange(t *testing.T) {
	m := newTestMeter(t)

	buf := testutil.ADCSine(1000, testRate, testMidpoint, 500, testBlock)
	testutil.RequireNoError(t, m.Process(buf))

	latest, smoothed := m.Latest(), m.Smoothed()

	if err := m.Process(buf[:testBlock-1]); err == nil {
		t.Fatal("short buffer accepted")
	}

	if err := m.Process(append(buf, 0)); err == nil {
		t.Fatal("long buffer accepted")
	}

	if m.Latest() != latest || m.Smoothed() != smoothed {
		t.Fatal("rejected buffer mutated meter state")
	}
}

func TestSmoothingConvergence(t *testing.T) {
	const alpha = 0.1

	m := newTestMeter(t, WithSmoothing(alpha))
	buf := testutil.ADCSine(1000, testRate, testMidpoint, 500, testBlock)

	testutil.RequireNoError(t, m.Process(buf))

	level := m.Latest()
	if level <= 0 {
		t.Fatalf("instantaneous level = %v, want > 0", level)
	}

	// First step from zero: smoothed = alpha * level.
	testutil.RequireNear(t, m.Smoothed(), alpha*level, 1e-9)

	// The error to the (constant) instantaneous level decays by (1-alpha)
	// per step, so after k steps smoothed = level*(1 - (1-alpha)^k).
	prev := m.Smoothed()
	for k := 2; k <= 40; k++ {
		testutil.RequireNoError(t, m.Process(buf))

		want := level * (1 - math.Pow(1-alpha, float64(k)))
		testutil.RequireNear(t, m.Smoothed(), want, 1e-6)

		if m.Smoothed() <= prev {
			t.Fatalf("step %d: smoothed %v not increasing toward %v", k, m.Smoothed(), level)
		}

		prev = m.Smoothed()
	}

	if prev >= level {
		t.Fatalf("smoothed %v overshot target %v", prev, level)
	}
}

func TestIdempotentSilenceDecay(t *testing.T) {
	m := newTestMeter(t)

	loud := testutil.ADCSine(1000, testRate, testMidpoint, 800, testBlock)
	testutil.RequireNoError(t, m.Process(loud))

	quiet := testutil.ADCConstant(uint32(testMidpoint), testBlock)
	prev := m.Smoothed()

	for range 200 {
		testutil.RequireNoError(t, m.Process(quiet))

		s := m.Smoothed()
		testutil.RequireFinite(t, s, m.Latest())

		if s < 0 {
			t.Fatalf("smoothed went negative: %v", s)
		}

		if s > prev {
			t.Fatalf("smoothed increased during silence: %v > %v", s, prev)
		}

		prev = s
	}

	if prev > 1e-6 {
		t.Fatalf("smoothed did not decay toward 0: %v", prev)
	}
}

func TestMonotonicEnergyToLevel(t *testing.T) {
	amps := []float64{50, 100, 200, 400, 800}

	var prev float64 = math.Inf(-1)

	for _, amp := range amps {
		m := newTestMeter(t)
		buf := testutil.ADCSine(1000, testRate, testMidpoint, amp, testBlock)

		testutil.RequireNoError(t, m.Process(buf))

		if m.Latest() <= prev {
			t.Fatalf("amplitude %v: level %v not above previous %v", amp, m.Latest(), prev)
		}

		prev = m.Latest()
	}
}

func TestNoiseBuffersProduceFiniteLevels(t *testing.T) {
	m := newTestMeter(t)

	for seed := int64(1); seed <= 20; seed++ {
		buf := testutil.ADCNoise(seed, testMidpoint, 400, testBlock)

		testutil.RequireNoError(t, m.Process(buf))
		testutil.RequireFinite(t, m.Latest(), m.Smoothed())

		if m.Latest() <= 0 {
			t.Fatalf("seed %d: noise level = %v, want > 0", seed, m.Latest())
		}
	}
}

// End-to-end scale check against the hand-computed conversion chain.
// With Z-weighting, flat mic response and a sine landing exactly on a bin,
// the windowed RMS in ADC units is amp*sqrt(powerGain/2) with the Hann
// power gain of 3/8.
func TestRoundTripScale(t *testing.T) {
	const (
		amp    = 500.0
		freq   = 1000.0 // bin 16 at 16 kHz / 256
		offset = -30.0
	)

	m := newTestMeter(t,
		WithWeighting(weighting.TypeZ),
		WithCalibrationOffset(offset),
	)

	buf := testutil.ADCSine(freq, testRate, testMidpoint, amp, testBlock)
	testutil.RequireNoError(t, m.Process(buf))

	rmsADC := amp * math.Sqrt(3.0/8.0/2.0)
	rmsVolts := rmsADC / 4096 * 3.3
	pascals := rmsVolts / math.Pow(10, -38.0/20.0)
	want := 20*math.Log10(pascals/20e-6) + offset

	testutil.RequireNear(t, m.Latest(), want, 0.25)
}

func TestAWeightingAttenuatesLowFrequencies(t *testing.T) {
	level := func(t *testing.T, freq float64, w weighting.Type) float64 {
		t.Helper()

		m := newTestMeter(t, WithWeighting(w))
		buf := testutil.ADCSine(freq, testRate, testMidpoint, 500, testBlock)

		testutil.RequireNoError(t, m.Process(buf))

		return m.Latest()
	}

	// At the 1 kHz normalization point A and Z agree.
	testutil.RequireNear(t, level(t, 1000, weighting.TypeA), level(t, 1000, weighting.TypeZ), 0.1)

	// At 125 Hz the A-curve sits roughly 16 dB below flat.
	zLow := level(t, 125, weighting.TypeZ)
	aLow := level(t, 125, weighting.TypeA)

	if aLow >= zLow-10 {
		t.Fatalf("A-weighted 125 Hz level %v not well below flat level %v", aLow, zLow)
	}
}

func TestMicResponseCorrection(t *testing.T) {
	buf := testutil.ADCSine(1000, testRate, testMidpoint, 500, testBlock)

	flat := newTestMeter(t, WithWeighting(weighting.TypeZ))
	testutil.RequireNoError(t, flat.Process(buf))

	// A capsule reading 6 dB low everywhere gets boosted by 6 dB.
	cold := newTestMeter(t,
		WithWeighting(weighting.TypeZ),
		WithMicResponse([]micresp.Point{
			{FreqHz: 100, GainDB: -6},
			{FreqHz: 8000, GainDB: -6},
		}),
	)
	testutil.RequireNoError(t, cold.Process(buf))

	testutil.RequireNear(t, cold.Latest(), flat.Latest()+6, 0.05)
}

func TestCalibrationOffsetShiftsLinearly(t *testing.T) {
	buf := testutil.ADCSine(1000, testRate, testMidpoint, 500, testBlock)

	a := newTestMeter(t, WithCalibrationOffset(0))
	b := newTestMeter(t, WithCalibrationOffset(-12.5))

	testutil.RequireNoError(t, a.Process(buf))
	testutil.RequireNoError(t, b.Process(buf))

	testutil.RequireNear(t, b.Latest(), a.Latest()-12.5, 1e-9)
}

func TestReset(t *testing.T) {
	m := newTestMeter(t)

	buf := testutil.ADCSine(1000, testRate, testMidpoint, 500, testBlock)
	testutil.RequireNoError(t, m.Process(buf))

	if m.Smoothed() == 0 {
		t.Fatal("smoothed still zero after processing")
	}

	m.Reset()

	if m.Latest() != 0 || m.Smoothed() != 0 {
		t.Fatalf("after Reset levels = (%v, %v), want (0, 0)", m.Latest(), m.Smoothed())
	}
}

type failingTransform struct {
	size int
	err  error
}

func (f *failingTransform) Size() int { return f.size }

func (f *failingTransform) Forward(dst, src []float64) error { return f.err }

func TestTransformSizeMismatchRejected(t *testing.T) {
	_, err := NewMeter(WithTransform(&failingTransform{size: 128}))
	if err == nil {
		t.Fatal("mismatched transform size accepted")
	}
}

func TestTransformErrorLeavesStateIntact(t *testing.T) {
	sentinel := errors.New("backend failure")

	m := newTestMeter(t, WithTransform(&failingTransform{size: testBlock, err: sentinel}))

	buf := testutil.ADCSine(1000, testRate, testMidpoint, 500, testBlock)

	err := m.Process(buf)
	if !errors.Is(err, sentinel) {
		t.Fatalf("error = %v, want sentinel", err)
	}

	if m.Latest() != 0 || m.Smoothed() != 0 {
		t.Fatal("failed Process mutated meter state")
	}
}

func TestNewMeterRejectsInvalidTables(t *testing.T) {
	unsorted := []micresp.Point{
		{FreqHz: 2000, GainDB: 0},
		{FreqHz: 1000, GainDB: 0},
	}

	if _, err := NewMeter(WithMicResponse(unsorted)); err == nil {
		t.Fatal("unsorted mic response accepted")
	}
}
