package region

import (
	"fmt"

	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/dither"
	"github.com/cwbudde/regionfx/dsp/effectchain"
	"github.com/cwbudde/regionfx/dsp/signal"
)

// Track is the reassembled full-length result of one region edit.
type Track struct {
	signal.Signal

	// PCM holds the fixed-point codes of Samples at BitDepth.
	PCM      []int
	BitDepth int

	// Region is the clamped region that was processed.
	Region Region
	// Peak is the absolute peak of the spliced track before normalization.
	Peak float64
	// Silent is set when the spliced track was all zero and normalization
	// was skipped.
	Silent bool
}

// Processor runs region edits. The zero value is not usable; use New.
type Processor struct {
	cfg       []core.ProcessorOption
	quantizer *dither.Quantizer
}

// Option configures a Processor.
type Option func(*Processor)

// WithProcessorOptions forwards worker settings to the parallel effects.
func WithProcessorOptions(opts ...core.ProcessorOption) Option {
	return func(p *Processor) { p.cfg = append(p.cfg, opts...) }
}

// WithQuantizer replaces the default 16-bit quantizer.
func WithQuantizer(q *dither.Quantizer) Option {
	return func(p *Processor) {
		if q != nil {
			p.quantizer = q
		}
	}
}

// New returns a Processor quantizing to 16 bits without dither.
func New(opts ...Option) *Processor {
	q, err := dither.NewQuantizer()
	if err != nil {
		panic("region: default quantizer: " + err.Error())
	}
	p := &Processor{quantizer: q}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// BitDepth returns the output bit depth.
func (p *Processor) BitDepth() int { return p.quantizer.BitDepth() }

// Process applies d to r of sig and returns the normalized, quantized track.
// sig is never modified. Parameter and region errors are reported before
// any sample buffer is allocated.
func (p *Processor) Process(sig signal.Signal, r Region, d effectchain.Descriptor) (*Track, error) {
	if err := sig.Validate(); err != nil {
		return nil, fmt.Errorf("region: %w", err)
	}
	clamped, err := r.Clamp(sig.Len())
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("region: nil effect: %w", core.ErrInvalidParameter)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("region: %s: %w", d.Kind(), err)
	}

	processed, err := effectchain.Apply(d, sig.Samples[clamped.Start:clamped.End], sig.SampleRate, p.cfg...)
	if err != nil {
		return nil, fmt.Errorf("region: %s: %w", d.Kind(), err)
	}
	if len(processed) != clamped.Len() {
		return nil, fmt.Errorf("region: %s returned %d samples for a %d-sample region", d.Kind(), len(processed), clamped.Len())
	}

	out := core.Clone(sig.Samples)
	copy(out[clamped.Start:clamped.End], processed)
	peak, silent := core.PeakNormalize(out)

	return &Track{
		Signal:   signal.Signal{SampleRate: sig.SampleRate, Samples: out},
		PCM:      p.quantizer.QuantizeAll(out),
		BitDepth: p.quantizer.BitDepth(),
		Region:   clamped,
		Peak:     peak,
		Silent:   silent,
	}, nil
}

// ProcessSeconds converts [start, end) seconds to a region and calls Process.
func (p *Processor) ProcessSeconds(sig signal.Signal, start, end float64, d effectchain.Descriptor) (*Track, error) {
	r, err := FromSeconds(start, end, sig.SampleRate)
	if err != nil {
		return nil, err
	}
	return p.Process(sig, r, d)
}
