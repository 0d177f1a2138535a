// Package testutil holds deterministic fixtures and assertions shared by the
// package tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/regionfx/dsp/signal"
)

// DeterministicSine generates a sine wave of the given length.
func DeterministicSine(freqHz float64, sampleRate int, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / float64(sampleRate)
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// ToneSignal wraps DeterministicSine in a signal.Signal lasting seconds.
func ToneSignal(freqHz float64, sampleRate int, amplitude, seconds float64) signal.Signal {
	n := signal.SampleIndex(seconds, sampleRate)
	return signal.Signal{SampleRate: sampleRate, Samples: DeterministicSine(freqHz, sampleRate, amplitude, n)}
}
