package signal

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/regionfx/dsp/core"
)

// ErrInvalidSignal reports a signal with a non-positive sample rate or
// non-finite samples.
var ErrInvalidSignal = errors.New("invalid signal")

// Signal is a mono sample sequence in [-1, 1] at a fixed sample rate.
type Signal struct {
	SampleRate int
	Samples    []float64
}

// New returns a Signal after validating its sample rate and samples.
func New(sampleRate int, samples []float64) (Signal, error) {
	s := Signal{SampleRate: sampleRate, Samples: samples}
	if err := s.Validate(); err != nil {
		return Signal{}, err
	}
	return s, nil
}

// Validate checks the sample rate and that every sample is finite.
func (s Signal) Validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("signal: sample rate must be > 0: %d: %w", s.SampleRate, ErrInvalidSignal)
	}
	if !core.AllFinite(s.Samples) {
		return fmt.Errorf("signal: samples must be finite: %w", ErrInvalidSignal)
	}
	return nil
}

// Len returns the number of samples.
func (s Signal) Len() int { return len(s.Samples) }

// Duration returns the playback length of the signal.
func (s Signal) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(s.Samples)) / float64(s.SampleRate) * float64(time.Second))
}

// Clone returns a deep copy.
func (s Signal) Clone() Signal {
	return Signal{SampleRate: s.SampleRate, Samples: core.Clone(s.Samples)}
}

// SampleIndex converts a time in seconds to a sample index as round(seconds*sampleRate).
// The result is not clamped.
func SampleIndex(seconds float64, sampleRate int) int {
	return int(math.Round(seconds * float64(sampleRate)))
}
