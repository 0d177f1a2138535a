package spatial

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/regionfx/dsp/core"
)

const (
	defaultReverbDelayMs = 50.0
	defaultReverbDecay   = 0.5
	defaultReverbEchoes  = 5
)

// ReverbParams configures the echo reverb.
type ReverbParams struct {
	DelayMs float64
	Decay   float64
	Echoes  int
}

// DefaultReverbParams returns 50 ms spacing, 0.5 decay and 5 echoes.
func DefaultReverbParams() ReverbParams {
	return ReverbParams{
		DelayMs: defaultReverbDelayMs,
		Decay:   defaultReverbDecay,
		Echoes:  defaultReverbEchoes,
	}
}

// Validate reports the first out-of-range parameter.
func (p ReverbParams) Validate() error {
	if p.DelayMs <= 0 || !core.IsFinite(p.DelayMs) {
		return fmt.Errorf("reverb delay must be > 0 ms: %f: %w", p.DelayMs, core.ErrInvalidParameter)
	}
	if p.Decay < 0 || !core.IsFinite(p.Decay) {
		return fmt.Errorf("reverb decay must be >= 0 and finite: %f: %w", p.Decay, core.ErrInvalidParameter)
	}
	if p.Echoes < 0 {
		return fmt.Errorf("reverb echoes must be >= 0: %d: %w", p.Echoes, core.ErrInvalidParameter)
	}
	return nil
}

// DelaySamples returns round(sampleRate*DelayMs/1000).
func (p ReverbParams) DelaySamples(sampleRate int) int {
	return int(math.Round(float64(sampleRate) * p.DelayMs / 1000))
}

// Reverb adds Echoes delayed copies of x, the i-th scaled by Decay^i and
// shifted by i*delay samples, onto a copy of x, then peak-normalizes the
// result. x is not modified.
func Reverb(x []float64, p ReverbParams, sampleRate int, opts ...core.ProcessorOption) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("reverb sample rate must be > 0: %d: %w", sampleRate, core.ErrInvalidParameter)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	out := core.Clone(x)
	delay := p.DelaySamples(sampleRate)
	if delay > 0 && p.Echoes > 0 && p.Decay != 0 {
		taps := reverbTaps(p, delay, len(x))
		cfg := core.ApplyProcessorOptions(opts...)
		forChunks(cfg, len(x), func(lo, hi int) {
			accumulateEchoes(out[lo:hi], x, lo, taps)
		})
	}

	core.PeakNormalize(out)
	return out, nil
}

type echoTap struct {
	offset int
	gain   float64
}

// reverbTaps lists the echoes that land inside a buffer of length n.
func reverbTaps(p ReverbParams, delay, n int) []echoTap {
	if n <= 1 || delay <= 0 {
		return nil
	}
	count := min(p.Echoes, (n-1)/delay)
	taps := make([]echoTap, 0, count)
	for i := 1; i <= count; i++ {
		offset := i * delay
		if offset >= n || offset <= 0 {
			break
		}
		taps = append(taps, echoTap{offset: offset, gain: math.Pow(p.Decay, float64(i))})
	}
	return taps
}

// accumulateEchoes adds every tap into dst, which holds out[lo:lo+len(dst)].
// Taps are applied in ascending order, matching the serial sum.
func accumulateEchoes(dst, x []float64, lo int, taps []echoTap) {
	scratch := make([]float64, len(dst))
	hi := lo + len(dst)
	for _, tap := range taps {
		start := lo
		if start < tap.offset {
			start = tap.offset
		}
		if start >= hi {
			continue
		}
		src := x[start-tap.offset : hi-tap.offset]
		tmp := scratch[:len(src)]
		vecmath.ScaleBlock(tmp, src, tap.gain)
		vecmath.AddBlockInPlace(dst[start-lo:], tmp)
	}
}
