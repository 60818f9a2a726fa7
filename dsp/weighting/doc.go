// Package weighting provides A, B, C, and Z frequency weighting curves
// per IEC 61672, evaluated in the frequency domain.
//
// Frequency weighting curves shape the magnitude response of a signal to
// approximate the frequency-dependent sensitivity of human hearing.
// The standard defines four curves:
//
//   - A-weighting: approximates the 40-phon equal-loudness contour.
//     Most widely used for noise measurements (e.g., dBA readings).
//   - B-weighting: approximates the 70-phon equal-loudness contour.
//     Rarely used in modern practice.
//   - C-weighting: approximates the 100-phon equal-loudness contour.
//     Used for peak measurements and C-A difference calculations.
//   - Z-weighting (zero-weighting): unity gain at all frequencies, a flat
//     reference defined in IEC 61672:2003 to replace the unweighted
//     "Linear" designation.
//
// All curves are normalized to 0 dB at the 1 kHz reference frequency.
//
// Unlike a time-domain filter cascade, this package evaluates the analog
// prototype magnitude directly at arbitrary frequencies. [PowerTable]
// samples the squared magnitude at the bin centers of a real FFT, producing
// the pre-squared coefficient table a power-spectrum pipeline multiplies
// bin energies with.
package weighting
