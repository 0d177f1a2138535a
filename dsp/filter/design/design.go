package design

import (
	"fmt"
	"math"

	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/filter/biquad"
)

// MaxNormalized is the largest normalized frequency handed to a designer.
// Requests at or above Nyquist are clamped to it.
const MaxNormalized = 1 - 1e-6

// MinNormalized is the smallest normalized frequency handed to a designer.
const MinNormalized = 1e-9

// NormalizeFrequency converts freqHz to the Nyquist-normalized range and
// clamps it into [MinNormalized, MaxNormalized]. Non-positive or non-finite
// frequencies and sample rates are rejected.
func NormalizeFrequency(freqHz float64, sampleRate int) (float64, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("design: sample rate must be > 0: %d: %w", sampleRate, core.ErrInvalidParameter)
	}
	if freqHz <= 0 || !core.IsFinite(freqHz) {
		return 0, fmt.Errorf("design: frequency must be > 0 and finite: %f: %w", freqHz, core.ErrInvalidParameter)
	}

	wn := freqHz / (float64(sampleRate) / 2)
	return core.Clamp(wn, MinNormalized, MaxNormalized), nil
}

// bilinear maps the analog polynomial c0*s^2 + c1*s + c2 to the digital
// d0 + d1*z^-1 + d2*z^-2 with s = 2(1-z^-1)/(1+z^-1), i.e. a unit sample
// rate. Unlike a normalized transform it keeps the d0 scale so numerator and
// denominator can be divided by the same a0.
func bilinear(c [3]float64) [3]float64 {
	const k = 2.0
	return [3]float64{
		c[0]*k*k + c[1]*k + c[2],
		-2*c[0]*k*k + 2*c[2],
		c[0]*k*k - c[1]*k + c[2],
	}
}

// prewarp returns the analog corner that lands on wn after the bilinear transform.
func prewarp(wn float64) float64 {
	return 2 * math.Tan(math.Pi*wn/2)
}

// ButterworthLowpass2 designs a 2nd-order Butterworth lowpass at normalized
// corner wn. The response is -3 dB at wn and unity at DC.
func ButterworthLowpass2(wn float64) biquad.Coefficients {
	if !validNormalized(wn) {
		return biquad.Coefficients{}
	}

	wc := prewarp(wn)
	num := bilinear([3]float64{0, 0, wc * wc})
	den := bilinear([3]float64{1, math.Sqrt2 * wc, wc * wc})
	return normalizeBiquad(num[0], num[1], num[2], den[0], den[1], den[2])
}

// ButterworthHighpass2 designs a 2nd-order Butterworth highpass at normalized
// corner wn. The response is -3 dB at wn and unity at Nyquist.
func ButterworthHighpass2(wn float64) biquad.Coefficients {
	if !validNormalized(wn) {
		return biquad.Coefficients{}
	}

	wc := prewarp(wn)
	num := bilinear([3]float64{1, 0, 0})
	den := bilinear([3]float64{1, math.Sqrt2 * wc, wc * wc})
	return normalizeBiquad(num[0], num[1], num[2], den[0], den[1], den[2])
}

// Peak designs a resonant peaking filter with unity gain at normalized
// centre w0 and -3 dB points bw apart (bw also normalized to Nyquist).
// Gain away from the band falls to zero at DC and Nyquist.
func Peak(w0, bw float64) biquad.Coefficients {
	if !validNormalized(w0) || !validNormalized(bw) {
		return biquad.Coefficients{}
	}

	beta := math.Tan(math.Pi * bw / 2)
	g := 1 / (1 + beta)

	b0 := 1 - g
	b1 := 0.0
	b2 := -(1 - g)
	a1 := -2 * g * math.Cos(math.Pi*w0)
	a2 := 2*g - 1

	return normalizeBiquad(b0, b1, b2, 1, a1, a2)
}

// HighShelf designs a cookbook high shelf at normalized corner wn with
// gainDB of boost above it and slope set by q. Gain at DC is unity.
func HighShelf(wn, gainDB, q float64) biquad.Coefficients {
	if !validNormalized(wn) || !core.IsFinite(gainDB) || q <= 0 || !core.IsFinite(q) {
		return biquad.Coefficients{}
	}

	a := math.Pow(10, gainDB/40)
	w0 := math.Pi * wn
	cosW := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	sq := 2 * math.Sqrt(a) * alpha

	b0 := a * ((a + 1) + (a-1)*cosW + sq)
	b1 := -2 * a * ((a - 1) + (a+1)*cosW)
	b2 := a * ((a + 1) + (a-1)*cosW - sq)
	a0 := (a + 1) - (a-1)*cosW + sq
	a1 := 2 * ((a - 1) - (a+1)*cosW)
	a2 := (a + 1) - (a-1)*cosW - sq

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

func validNormalized(wn float64) bool {
	return wn > 0 && wn < 1 && core.IsFinite(wn)
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || !core.IsFinite(a0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
