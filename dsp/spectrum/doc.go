// Package spectrum computes magnitude spectra and spectrograms of real
// signals for before/after inspection of processed regions.
//
// Frames are windowed, transformed with algo-fft and reduced to single-sided
// amplitude spectra, scaled so that a full-scale sinusoid centered on a bin
// reads 1.0 regardless of window choice.
package spectrum
