package spatial

import (
	"fmt"
	"math"

	"github.com/cwbudde/regionfx/dsp/core"
)

const (
	defaultChorusDepthMs = 15.0
	defaultChorusRateHz  = 0.5
	defaultChorusMix     = 0.5
)

// ChorusParams configures the delay-line chorus.
type ChorusParams struct {
	DepthMs float64
	RateHz  float64
	Mix     float64
}

// DefaultChorusParams returns 15 ms depth, 0.5 Hz rate and an even mix.
func DefaultChorusParams() ChorusParams {
	return ChorusParams{
		DepthMs: defaultChorusDepthMs,
		RateHz:  defaultChorusRateHz,
		Mix:     defaultChorusMix,
	}
}

// Validate reports the first out-of-range parameter.
func (p ChorusParams) Validate() error {
	if p.DepthMs < 0 || !core.IsFinite(p.DepthMs) {
		return fmt.Errorf("chorus depth must be >= 0 ms: %f: %w", p.DepthMs, core.ErrInvalidParameter)
	}
	if p.RateHz < 0 || !core.IsFinite(p.RateHz) {
		return fmt.Errorf("chorus rate must be >= 0 Hz: %f: %w", p.RateHz, core.ErrInvalidParameter)
	}
	if p.Mix < 0 || p.Mix > 1 || !core.IsFinite(p.Mix) {
		return fmt.Errorf("chorus mix must be in [0,1]: %f: %w", p.Mix, core.ErrInvalidParameter)
	}
	return nil
}

// modulation returns depth*(sin(2*pi*rate*i/sr)+1)/2, the delay in samples
// at index i.
func (p ChorusParams) modulation(i int, depthSamples, sampleRate float64) float64 {
	return depthSamples * (math.Sin(2*math.Pi*p.RateHz*float64(i)/sampleRate) + 1) / 2
}

// ModulationCurve returns the per-sample delay, in samples, used by Chorus.
func ModulationCurve(n int, p ChorusParams, sampleRate int) []float64 {
	depth := float64(sampleRate) * p.DepthMs / 1000
	out := make([]float64, n)
	for i := range out {
		out[i] = p.modulation(i, depth, float64(sampleRate))
	}
	return out
}

// Chorus mixes every sample with the input delayed by the rounded modulation
// curve, (1-mix)*x[i] + mix*x[i-d]. Samples whose delayed index falls before
// the start of x are passed through dry. The result is peak-normalized and x
// is not modified.
func Chorus(x []float64, p ChorusParams, sampleRate int, opts ...core.ProcessorOption) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("chorus sample rate must be > 0: %d: %w", sampleRate, core.ErrInvalidParameter)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	out := make([]float64, len(x))
	depth := float64(sampleRate) * p.DepthMs / 1000
	sr := float64(sampleRate)
	cfg := core.ApplyProcessorOptions(opts...)

	forChunks(cfg, len(x), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			d := i - int(math.Round(p.modulation(i, depth, sr)))
			if d < 0 {
				out[i] = x[i]
				continue
			}
			out[i] = x[i]*(1-p.Mix) + x[d]*p.Mix
		}
	})

	core.PeakNormalize(out)
	return out, nil
}
