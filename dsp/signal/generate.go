package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/regionfx/dsp/core"
)

// Sine returns n samples of a sine wave at freqHz.
func Sine(freqHz, amplitude float64, sampleRate, n int) (Signal, error) {
	if n < 0 {
		return Signal{}, fmt.Errorf("signal: sine samples must be >= 0: %d: %w", n, core.ErrInvalidParameter)
	}
	if sampleRate <= 0 {
		return Signal{}, fmt.Errorf("signal: sine sample rate must be > 0: %d: %w", sampleRate, core.ErrInvalidParameter)
	}
	if !core.IsFinite(freqHz) || !core.IsFinite(amplitude) {
		return Signal{}, fmt.Errorf("signal: sine frequency and amplitude must be finite: %w", core.ErrInvalidParameter)
	}

	out := make([]float64, n)
	step := 2 * math.Pi * freqHz / float64(sampleRate)
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return Signal{SampleRate: sampleRate, Samples: out}, nil
}

// WhiteNoise returns n samples of deterministic white noise in [-amplitude, amplitude].
func WhiteNoise(amplitude float64, seed int64, sampleRate, n int) (Signal, error) {
	if n < 0 {
		return Signal{}, fmt.Errorf("signal: noise samples must be >= 0: %d: %w", n, core.ErrInvalidParameter)
	}
	if sampleRate <= 0 {
		return Signal{}, fmt.Errorf("signal: noise sample rate must be > 0: %d: %w", sampleRate, core.ErrInvalidParameter)
	}
	if amplitude < 0 || !core.IsFinite(amplitude) {
		return Signal{}, fmt.Errorf("signal: noise amplitude must be >= 0: %f: %w", amplitude, core.ErrInvalidParameter)
	}

	out := make([]float64, n)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = amplitude * (2*rng.Float64() - 1)
	}
	return Signal{SampleRate: sampleRate, Samples: out}, nil
}

// Silence returns n zero samples.
func Silence(sampleRate, n int) Signal {
	if n < 0 {
		n = 0
	}
	return Signal{SampleRate: sampleRate, Samples: make([]float64, n)}
}
