// Package spl implements a frequency-weighted sound pressure level meter
// over raw ADC sample buffers.
//
// The meter consumes fixed-size buffers of unsigned ADC codes and maintains
// a smoothed, calibrated SPL reading in dB. Each buffer runs through a
// fixed pipeline:
//
//  1. dynamic DC-offset removal (per-buffer arithmetic mean),
//  2. windowing (Hann by default),
//  3. forward real FFT into a packed one-sided spectrum,
//  4. per-bin power weighting (IEC 61672 curve times microphone
//     correction), accumulated over bins 1..N/2-1,
//  5. conversion of the accumulated energy to dB SPL through the ADC
//     reference voltage, microphone sensitivity and the 20 µPa reference
//     pressure, plus an empirical calibration offset,
//  6. exponential smoothing of the resulting level.
//
// Processing a buffer is a bounded, allocation-free computation. A Meter
// owns its working buffers and is not safe for concurrent use; callers
// driving it from multiple goroutines must serialize access.
package spl
