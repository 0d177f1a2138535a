// Package frequency describes the shape of an amplitude spectrum.
package frequency

import (
	"math"

	"github.com/cwbudde/regionfx/dsp/spectrum"
)

// DefaultRolloff is the energy fraction used by Describe.
const DefaultRolloff = 0.85

// Shape holds spectral shape descriptors.
type Shape struct {
	Centroid float64 `json:"centroid_hz"`
	Rolloff  float64 `json:"rolloff_hz"`
	Flatness float64 `json:"flatness"`
}

// Describe computes the shape of s.
func Describe(s spectrum.Spectrum) Shape {
	return Shape{
		Centroid: Centroid(s.Magnitude, s.Frequencies),
		Rolloff:  Rolloff(s.Magnitude, s.Frequencies, DefaultRolloff),
		Flatness: Flatness(s.Magnitude),
	}
}

// Centroid returns sum(f_i * |X_i|) / sum(|X_i|) in Hz.
func Centroid(magnitude, freqs []float64) float64 {
	n := min(len(magnitude), len(freqs))
	var sum, weighted float64
	for i := 0; i < n; i++ {
		sum += magnitude[i]
		weighted += freqs[i] * magnitude[i]
	}
	if sum == 0 {
		return 0
	}
	return weighted / sum
}

// Rolloff returns the frequency below which percent of the spectral energy
// lies.
func Rolloff(magnitude, freqs []float64, percent float64) float64 {
	n := min(len(magnitude), len(freqs))
	if n == 0 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += magnitude[i] * magnitude[i]
	}
	if total == 0 {
		return 0
	}
	threshold := percent * total
	cum := 0.0
	for i := 0; i < n; i++ {
		cum += magnitude[i] * magnitude[i]
		if cum >= threshold {
			return freqs[i]
		}
	}
	return freqs[n-1]
}

// Flatness returns the Wiener entropy of bins 1..N-1 in [0, 1]. Any zero bin
// makes the geometric mean, and so the flatness, zero.
func Flatness(magnitude []float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}
	bins := magnitude[1:]
	var sumLin, sumLog float64
	for _, v := range bins {
		if v <= 0 {
			return 0
		}
		sumLin += v
		sumLog += math.Log(v)
	}
	mean := sumLin / float64(len(bins))
	return math.Exp(sumLog/float64(len(bins))) / mean
}
