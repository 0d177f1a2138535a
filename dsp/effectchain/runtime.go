package effectchain

import (
	"fmt"

	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/effects/dynamics"
	"github.com/cwbudde/regionfx/dsp/effects/spatial"
	"github.com/cwbudde/regionfx/dsp/filter/bank"
)

// Apply runs the effect named by d over samples and returns a new slice of
// the same length. samples is not modified.
func Apply(d Descriptor, samples []float64, sampleRate int, opts ...core.ProcessorOption) ([]float64, error) {
	if d == nil {
		return nil, fmt.Errorf("effectchain: nil descriptor: %w", core.ErrInvalidParameter)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	switch fx := d.(type) {
	case LowShelf:
		return bank.LowShelf(samples, fx.GainDB, fx.CutoffHz, sampleRate)
	case MidPeak:
		return bank.MidPeak(samples, fx.GainDB, fx.CenterHz, fx.BandwidthHz, sampleRate)
	case HighShelf:
		out, err := bank.HighShelf(samples, fx.GainDB, fx.CutoffHz, sampleRate)
		if err != nil || fx.Compressor == nil {
			return out, err
		}
		return dynamics.Compress(out, fx.Compressor.Params(), sampleRate)
	case Compressor:
		return dynamics.Compress(samples, fx.Params(), sampleRate)
	case Reverb:
		return spatial.Reverb(samples, fx.Params(), sampleRate, opts...)
	case Chorus:
		return spatial.Chorus(samples, fx.Params(), sampleRate, opts...)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownEffect, d)
	}
}
