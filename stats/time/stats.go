// Package time summarizes the level of a block of samples.
package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/regionfx/dsp/spectrum"
)

// Levels holds time-domain level statistics of a block. dB fields use
// spectrum.FloorDB for silence so the struct always serializes to JSON.
type Levels struct {
	Length        int     `json:"length"`
	DC            float64 `json:"dc"`
	RMS           float64 `json:"rms"`
	RMSDB         float64 `json:"rms_db"`
	Peak          float64 `json:"peak"`
	PeakDB        float64 `json:"peak_db"`
	CrestFactor   float64 `json:"crest_factor"`
	CrestFactorDB float64 `json:"crest_factor_db"`
	ZeroCrossings int     `json:"zero_crossings"`
}

// Calculate computes all level statistics in a single pass.
func Calculate(signal []float64) Levels {
	n := len(signal)
	if n == 0 {
		return Levels{RMSDB: spectrum.FloorDB, PeakDB: spectrum.FloorDB}
	}

	var (
		sum, c        float64
		sumSq         float64
		zeroCrossings int
	)
	for i, x := range signal {
		// Kahan summation for the mean.
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t

		sumSq += x * x
		if i > 0 && signal[i-1]*x < 0 {
			zeroCrossings++
		}
	}

	rms := math.Sqrt(sumSq / float64(n))
	peak := vecmath.MaxAbs(signal)
	out := Levels{
		Length:        n,
		DC:            sum / float64(n),
		RMS:           rms,
		RMSDB:         spectrum.AmplitudeToDB(rms),
		Peak:          peak,
		PeakDB:        spectrum.AmplitudeToDB(peak),
		ZeroCrossings: zeroCrossings,
	}
	if rms > 0 {
		out.CrestFactor = peak / rms
		out.CrestFactorDB = 20 * math.Log10(out.CrestFactor)
	}
	return out
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}
	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return vecmath.MaxAbs(signal)
}

// CrestFactor returns peak / RMS, or 0 for silence.
func CrestFactor(signal []float64) float64 {
	r := RMS(signal)
	if r == 0 {
		return 0
	}
	return Peak(signal) / r
}
