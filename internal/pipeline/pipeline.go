// Package pipeline applies an ordered list of region effects to an audio
// file.
//
// Each step decodes its input, processes one region, and re-encodes the
// whole track to the destination. The first step reads the source; every
// later step reads the destination written by its predecessor, so effects
// accumulate, normalization drift included. Steps never run in parallel.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/effectchain"
	"github.com/cwbudde/regionfx/dsp/region"
	"github.com/cwbudde/regionfx/internal/analysis"
	"github.com/cwbudde/regionfx/internal/codec"
	"github.com/cwbudde/regionfx/internal/logging"
	"github.com/cwbudde/regionfx/internal/observe"
)

// ErrNoSteps is returned when Run is called with an empty effect list.
var ErrNoSteps = errors.New("pipeline: no effects requested")

// Step is one effect applied to [StartSeconds, EndSeconds) of the track.
// With OpenEnd set, EndSeconds is ignored and the region runs to the end of
// the decoded track.
type Step struct {
	Effect       effectchain.Descriptor
	StartSeconds float64
	EndSeconds   float64
	OpenEnd      bool
}

func (s Step) bounds() (float64, float64) {
	if s.OpenEnd {
		return s.StartSeconds, s.StartSeconds
	}
	return s.StartSeconds, s.EndSeconds
}

func (s Step) kind() effectchain.Kind {
	if s.Effect == nil {
		return 0
	}
	return s.Effect.Kind()
}

// StepError reports the step that aborted a run. Index is 1-based.
type StepError struct {
	Index int
	Kind  effectchain.Kind
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// StepResult describes one applied step.
type StepResult struct {
	Index    int
	Kind     effectchain.Kind
	Region   region.Region
	Peak     float64
	Silent   bool
	Warnings []string
	Elapsed  time.Duration
	Analysis *analysis.Report
}

// Result summarizes a run. On failure it still lists the steps that
// completed; Output then holds the last successful step's output, or nothing
// if Applied is zero.
type Result struct {
	Output     string
	Applied    int
	SampleRate int
	Samples    int
	Steps      []StepResult
}

// Pipeline runs effect lists through a codec bridge.
type Pipeline struct {
	bridge    codec.Bridge
	processor *region.Processor
	logger    *slog.Logger
	metrics   *observe.Metrics
	analysis  *analysis.Options
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger; the default discards.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics sets the metric instruments; the default records nothing.
func WithMetrics(m *observe.Metrics) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithProcessor replaces the default 16-bit region processor.
func WithProcessor(rp *region.Processor) Option {
	return func(p *Pipeline) {
		if rp != nil {
			p.processor = rp
		}
	}
}

// WithAnalysis captures a before/after report for every step.
func WithAnalysis(opts analysis.Options) Option {
	return func(p *Pipeline) { p.analysis = &opts }
}

// New returns a Pipeline using bridge for all file access.
func New(bridge codec.Bridge, opts ...Option) *Pipeline {
	p := &Pipeline{
		bridge:    bridge,
		processor: region.New(),
		logger:    logging.NewNop(),
		metrics:   observe.Noop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.logger = logging.NewComponentLogger(p.logger, "pipeline")
	return p
}

// Validate checks every step's region bounds and parameters without
// touching any file.
func Validate(steps []Step) error {
	if len(steps) == 0 {
		return ErrNoSteps
	}
	for i, s := range steps {
		if s.Effect == nil {
			return &StepError{Index: i + 1, Err: fmt.Errorf("nil effect: %w", core.ErrInvalidParameter)}
		}
		start, end := s.bounds()
		if _, err := region.FromSeconds(start, end, 1); err != nil {
			return &StepError{Index: i + 1, Kind: s.kind(), Err: err}
		}
		if err := s.Effect.Validate(); err != nil {
			return &StepError{Index: i + 1, Kind: s.kind(), Err: err}
		}
	}
	return nil
}

// Run applies steps in order, reading source for the first step and dest for
// the rest. All steps are validated before the first decode. The first
// failure aborts the run with a *StepError.
func (p *Pipeline) Run(ctx context.Context, source, dest string, steps []Step) (*Result, error) {
	res := &Result{}
	if err := Validate(steps); err != nil {
		return res, err
	}

	started := time.Now()
	input := source
	for i, step := range steps {
		stepStart := time.Now()
		sr, err := p.runStep(ctx, i+1, step, input, dest)
		if err != nil {
			kind := step.kind()
			p.metrics.RecordStep(ctx, kind.String(), observe.StatusError, time.Since(stepStart).Seconds(), 0)
			p.logger.Error("step failed",
				slog.Int(logging.FieldStep, i+1),
				slog.String(logging.FieldEffect, kind.String()),
				slog.Any("error", err),
			)
			return res, &StepError{Index: i + 1, Kind: kind, Err: err}
		}
		res.Steps = append(res.Steps, sr.StepResult)
		res.Applied++
		res.Output = dest
		res.SampleRate = sr.sampleRate
		res.Samples = sr.samples
		input = dest
	}

	p.logger.Info("run complete",
		slog.String(logging.FieldSource, source),
		slog.String(logging.FieldOutput, dest),
		slog.Int("steps", res.Applied),
		slog.Duration(logging.FieldDuration, time.Since(started)),
	)
	return res, nil
}

type stepOutcome struct {
	StepResult
	sampleRate int
	samples    int
}

func (p *Pipeline) runStep(ctx context.Context, index int, step Step, input, dest string) (*stepOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kind := step.Effect.Kind()
	started := time.Now()

	t0 := time.Now()
	sig, err := p.bridge.Decode(ctx, input)
	if err != nil {
		return nil, err
	}
	p.metrics.RecordCodec(ctx, "decode", time.Since(t0).Seconds())

	start, end := step.bounds()
	r, err := region.FromSeconds(start, end, sig.SampleRate)
	if err != nil {
		return nil, err
	}
	if step.OpenEnd {
		r.End = max(r.Start, sig.Len())
	}
	p.logger.Info("step start",
		slog.Int(logging.FieldStep, index),
		slog.String(logging.FieldEffect, kind.String()),
		slog.Int(logging.FieldStartSample, r.Start),
		slog.Int(logging.FieldEndSample, r.End),
	)

	track, err := p.processor.Process(sig, r, step.Effect)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t0 = time.Now()
	if err := p.bridge.Encode(ctx, dest, track.SampleRate, track.PCM, track.BitDepth); err != nil {
		return nil, err
	}
	p.metrics.RecordCodec(ctx, "encode", time.Since(t0).Seconds())

	out := &stepOutcome{
		StepResult: StepResult{
			Index:  index,
			Kind:   kind,
			Region: track.Region,
			Peak:   track.Peak,
			Silent: track.Silent,
		},
		sampleRate: track.SampleRate,
		samples:    track.Len(),
	}
	if track.Silent {
		out.Warnings = append(out.Warnings, core.ErrSilentSignal.Error())
		p.metrics.RecordSilent(ctx, kind.String())
		p.logger.Warn("silent output, normalization skipped",
			slog.Int(logging.FieldStep, index),
			slog.String(logging.FieldEffect, kind.String()),
			slog.String(logging.FieldWarning, core.ErrSilentSignal.Error()),
		)
	}

	if p.analysis != nil {
		rep, err := analysis.Capture(sig, track.Signal, track.Region, kind, *p.analysis)
		if err != nil {
			// The output is already written; a failed capture only costs the report.
			out.Warnings = append(out.Warnings, "analysis: "+err.Error())
			p.logger.Warn("analysis capture failed", slog.Int(logging.FieldStep, index), slog.Any("error", err))
		} else {
			out.Analysis = rep
		}
	}

	out.Elapsed = time.Since(started)
	p.metrics.RecordStep(ctx, kind.String(), observe.StatusOK, out.Elapsed.Seconds(), track.Region.Len())
	p.logger.Info("step done",
		slog.Int(logging.FieldStep, index),
		slog.String(logging.FieldEffect, kind.String()),
		slog.Float64(logging.FieldPeak, track.Peak),
		slog.Duration(logging.FieldDuration, out.Elapsed),
	)
	return out, nil
}
