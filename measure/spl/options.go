package spl

import (
	"github.com/cwbudde/algo-spl/dsp/core"
	"github.com/cwbudde/algo-spl/dsp/micresp"
	"github.com/cwbudde/algo-spl/dsp/rfft"
	"github.com/cwbudde/algo-spl/dsp/weighting"
	"github.com/cwbudde/algo-spl/dsp/window"
)

// MeterConfig defines configuration for the SPL meter. The defaults match
// the reference hardware: a 12-bit ADC at 3.3 V sampling a -38 dBV/Pa
// microphone at 16 kHz in 256-sample blocks.
type MeterConfig struct {
	core.ProcessorConfig

	// ADCFullScale is the maximum ADC code (resolution), e.g. 4096 for a
	// 12-bit converter.
	ADCFullScale float64

	// ADCReferenceVolts is the converter's reference voltage.
	ADCReferenceVolts float64

	// MicSensitivityDBV is the microphone sensitivity in dBV per Pascal.
	MicSensitivityDBV float64

	// SmoothingFactor is the EMA coefficient in (0, 1]. Smaller values
	// give a slower, more stable reading.
	SmoothingFactor float64

	// CalibrationOffsetDB is added to every instantaneous level. It is
	// determined empirically against a reference sound level meter.
	CalibrationOffsetDB float64

	// Weighting selects the perceptual weighting curve.
	Weighting weighting.Type

	// Window selects the analysis window.
	Window window.Type

	// MicResponse holds the measured microphone response anchors. Nil
	// means a flat response (no correction).
	MicResponse []micresp.Point

	// Transform overrides the FFT backend. Nil selects the default
	// algo-fft implementation. Its size must match BlockSize.
	Transform rfft.Transform
}

// MeterOption mutates a MeterConfig.
type MeterOption func(*MeterConfig)

// DefaultMeterConfig returns the reference hardware configuration.
func DefaultMeterConfig() MeterConfig {
	return MeterConfig{
		ProcessorConfig:     core.DefaultProcessorConfig(),
		ADCFullScale:        4096,
		ADCReferenceVolts:   3.3,
		MicSensitivityDBV:   -38,
		SmoothingFactor:     0.1,
		CalibrationOffsetDB: -30,
		Weighting:           weighting.TypeA,
		Window:              window.TypeHann,
	}
}

// WithSampleRate sets the acquisition sample rate. It must match the rate
// the coefficient tables are generated for, which NewMeter guarantees by
// deriving the tables from the final config.
func WithSampleRate(sampleRate float64) MeterOption {
	return func(cfg *MeterConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the buffer size N. Changing it regenerates the window,
// the weighting tables and the transform on construction.
func WithBlockSize(blockSize int) MeterOption {
	return func(cfg *MeterConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithADCFullScale sets the maximum ADC code.
func WithADCFullScale(fullScale float64) MeterOption {
	return func(cfg *MeterConfig) {
		if fullScale > 0 {
			cfg.ADCFullScale = fullScale
		}
	}
}

// WithADCReference sets the ADC reference voltage.
func WithADCReference(volts float64) MeterOption {
	return func(cfg *MeterConfig) {
		if volts > 0 {
			cfg.ADCReferenceVolts = volts
		}
	}
}

// WithMicSensitivity sets the microphone sensitivity in dBV per Pascal.
func WithMicSensitivity(dbvPerPa float64) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.MicSensitivityDBV = dbvPerPa
	}
}

// WithSmoothing sets the EMA smoothing factor. Values outside (0, 1] keep
// the default.
func WithSmoothing(alpha float64) MeterOption {
	return func(cfg *MeterConfig) {
		if alpha > 0 && alpha <= 1 {
			cfg.SmoothingFactor = alpha
		}
	}
}

// WithCalibrationOffset sets the empirical calibration offset in dB.
func WithCalibrationOffset(db float64) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.CalibrationOffsetDB = db
	}
}

// WithWeighting selects the perceptual weighting curve.
func WithWeighting(t weighting.Type) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.Weighting = t
	}
}

// WithWindow selects the analysis window.
func WithWindow(t window.Type) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.Window = t
	}
}

// WithMicResponse sets the measured microphone response anchors used to
// build the correction table.
func WithMicResponse(points []micresp.Point) MeterOption {
	copied := append([]micresp.Point(nil), points...)

	return func(cfg *MeterConfig) {
		cfg.MicResponse = copied
	}
}

// WithTransform swaps in a custom FFT backend. Its size must match the
// configured block size.
func WithTransform(t rfft.Transform) MeterOption {
	return func(cfg *MeterConfig) {
		cfg.Transform = t
	}
}

// ApplyMeterOptions applies zero or more options to the default config.
func ApplyMeterOptions(opts ...MeterOption) MeterConfig {
	cfg := DefaultMeterConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
