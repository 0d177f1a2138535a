package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/window"
)

// Spectrogram holds short-time amplitude frames in dB, restricted to a
// frequency band.
type Spectrogram struct {
	SampleRate  int         `json:"sample_rate"`
	FFTSize     int         `json:"fft_size"`
	Hop         int         `json:"hop"`
	Times       []float64   `json:"times_s"`
	Frequencies []float64   `json:"frequencies_hz"`
	LevelsDB    [][]float64 `json:"levels_db"`
}

// SpectrogramOptions selects frame geometry and the reported band. A zero
// MaxHz means Nyquist.
type SpectrogramOptions struct {
	FFTSize int
	Hop     int
	Window  window.Type
	MinHz   float64
	MaxHz   float64
}

// DefaultSpectrogramOptions returns 2048-point Hann frames with 50% overlap
// over the full band.
func DefaultSpectrogramOptions() SpectrogramOptions {
	return SpectrogramOptions{
		FFTSize: DefaultFFTSize,
		Hop:     DefaultFFTSize / 2,
		Window:  window.TypeHann,
	}
}

// NewSpectrogram frames samples and returns per-frame band levels. Times are
// frame centers in seconds from the first sample.
func NewSpectrogram(samples []float64, sampleRate int, opts SpectrogramOptions) (Spectrogram, error) {
	if err := validate(sampleRate, opts.FFTSize); err != nil {
		return Spectrogram{}, err
	}
	if opts.Hop <= 0 || opts.Hop > opts.FFTSize {
		return Spectrogram{}, fmt.Errorf("spectrum: hop must be in (0, %d]: %d: %w", opts.FFTSize, opts.Hop, core.ErrInvalidParameter)
	}
	if opts.MinHz < 0 || (opts.MaxHz != 0 && opts.MaxHz < opts.MinHz) {
		return Spectrogram{}, fmt.Errorf("spectrum: invalid band [%g, %g]: %w", opts.MinHz, opts.MaxHz, core.ErrInvalidParameter)
	}

	f, err := newFramer(opts.FFTSize, opts.Window)
	if err != nil {
		return Spectrogram{}, err
	}

	lo, hi := bandBins(opts.MinHz, opts.MaxHz, opts.FFTSize, sampleRate)
	out := Spectrogram{
		SampleRate:  sampleRate,
		FFTSize:     opts.FFTSize,
		Hop:         opts.Hop,
		Frequencies: frequencies(lo, hi, opts.FFTSize, sampleRate),
	}
	if len(samples) == 0 {
		return out, nil
	}

	amp := make([]float64, f.bins())
	for start := 0; start < len(samples); start += opts.Hop {
		end := min(start+opts.FFTSize, len(samples))
		if err := f.frame(amp, samples[start:end]); err != nil {
			return Spectrogram{}, err
		}
		row := make([]float64, hi-lo)
		for k := range row {
			row[k] = AmplitudeToDB(amp[lo+k])
		}
		out.LevelsDB = append(out.LevelsDB, row)
		out.Times = append(out.Times, (float64(start)+float64(opts.FFTSize)/2)/float64(sampleRate))
		if end == len(samples) {
			break
		}
	}
	return out, nil
}

// bandBins returns the half-open bin range covering [minHz, maxHz].
func bandBins(minHz, maxHz float64, fftSize, sampleRate int) (int, int) {
	bins := fftSize/2 + 1
	res := float64(sampleRate) / float64(fftSize)
	lo := int(math.Ceil(minHz / res))
	hi := bins
	if maxHz > 0 {
		hi = min(int(math.Floor(maxHz/res))+1, bins)
	}
	lo = min(max(lo, 0), hi)
	return lo, hi
}
