// Package analysis captures before/after views of a processed region: a
// decimated waveform around the region, level statistics, amplitude
// spectra and an optional band-limited spectrogram. Reports are plain
// JSON-serializable values meant for external plotting.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/effectchain"
	"github.com/cwbudde/regionfx/dsp/region"
	"github.com/cwbudde/regionfx/dsp/signal"
	"github.com/cwbudde/regionfx/dsp/spectrum"
	"github.com/cwbudde/regionfx/dsp/window"
	"github.com/cwbudde/regionfx/measure/loudness"
	"github.com/cwbudde/regionfx/stats/frequency"
	timestats "github.com/cwbudde/regionfx/stats/time"
)

// ErrMismatch reports before/after signals that cannot be compared.
var ErrMismatch = errors.New("analysis: signals differ in rate or length")

// Options controls the captured views.
type Options struct {
	// PadSeconds of context are shown on each side of the region.
	PadSeconds float64
	// MaxPoints bounds the decimated waveform length.
	MaxPoints int
	FFTSize   int
	Window    window.Type
	// Spectrogram enables the band-limited spectrogram of the padded view.
	Spectrogram bool
}

// DefaultOptions returns ±5 s of context, at most 1000 waveform points and
// 2048-point Hann spectra with a spectrogram.
func DefaultOptions() Options {
	return Options{
		PadSeconds:  5,
		MaxPoints:   1000,
		FFTSize:     spectrum.DefaultFFTSize,
		Window:      window.TypeHann,
		Spectrogram: true,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	switch {
	case !core.IsFinite(o.PadSeconds) || o.PadSeconds < 0:
		return fmt.Errorf("analysis: pad seconds must be >= 0: %v: %w", o.PadSeconds, core.ErrInvalidParameter)
	case o.MaxPoints < 2:
		return fmt.Errorf("analysis: max points must be >= 2: %d: %w", o.MaxPoints, core.ErrInvalidParameter)
	case o.FFTSize < spectrum.MinFFTSize || o.FFTSize&(o.FFTSize-1) != 0:
		return fmt.Errorf("analysis: fft size must be a power of two >= %d: %d: %w", spectrum.MinFFTSize, o.FFTSize, core.ErrInvalidParameter)
	}
	return nil
}

// View is a sample span with its bounds in seconds.
type View struct {
	StartSample  int     `json:"start_sample"`
	EndSample    int     `json:"end_sample"`
	StartSeconds float64 `json:"start_s"`
	EndSeconds   float64 `json:"end_s"`
}

// Waveform is a stride-decimated excerpt normalized by the peak of the full
// signal.
type Waveform struct {
	Step    int       `json:"step"`
	Times   []float64 `json:"times_s"`
	Samples []float64 `json:"samples"`
}

// Snapshot is one side of a comparison.
type Snapshot struct {
	Waveform    Waveform              `json:"waveform"`
	Levels      timestats.Levels      `json:"levels"`
	Spectrum    spectrum.Spectrum     `json:"spectrum"`
	Shape       frequency.Shape       `json:"shape"`
	BandLevelDB float64               `json:"band_level_db"`
	Loudness    loudness.Result       `json:"loudness"`
	Spectrogram *spectrum.Spectrogram `json:"spectrogram,omitempty"`
}

// Report compares a region before and after one effect.
type Report struct {
	Effect     string   `json:"effect"`
	Label      string   `json:"label"`
	Band       Band     `json:"band"`
	Region     View     `json:"region"`
	View       View     `json:"view"`
	Before     Snapshot `json:"before"`
	After      Snapshot `json:"after"`
	BandGainDB float64  `json:"band_gain_db"`

	// LoudnessChangeLU is the integrated loudness difference after - before.
	LoudnessChangeLU float64 `json:"loudness_change_lu"`
}

// Capture builds a report for region r of before and after. after must be
// the full-length result of processing before.
func Capture(before, after signal.Signal, r region.Region, kind effectchain.Kind, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := before.Validate(); err != nil {
		return nil, fmt.Errorf("analysis: before: %w", err)
	}
	if err := after.Validate(); err != nil {
		return nil, fmt.Errorf("analysis: after: %w", err)
	}
	if before.SampleRate != after.SampleRate || before.Len() != after.Len() {
		return nil, fmt.Errorf("%w: %d Hz/%d vs %d Hz/%d", ErrMismatch,
			before.SampleRate, before.Len(), after.SampleRate, after.Len())
	}

	r, err := r.Clamp(before.Len())
	if err != nil {
		return nil, err
	}

	sr := before.SampleRate
	band := BandFor(kind)
	pad := signal.SampleIndex(opts.PadSeconds, sr)
	view := span(max(r.Start-pad, 0), min(r.End+pad, before.Len()), sr)

	rep := &Report{
		Effect: kind.String(),
		Label:  kind.Label(),
		Band:   band,
		Region: span(r.Start, r.End, sr),
		View:   view,
	}
	if rep.Before, err = snapshot(before, r, view, band, opts); err != nil {
		return nil, fmt.Errorf("analysis: before: %w", err)
	}
	if rep.After, err = snapshot(after, r, view, band, opts); err != nil {
		return nil, fmt.Errorf("analysis: after: %w", err)
	}
	rep.BandGainDB = rep.After.BandLevelDB - rep.Before.BandLevelDB
	rep.LoudnessChangeLU = rep.After.Loudness.IntegratedLUFS - rep.Before.Loudness.IntegratedLUFS
	return rep, nil
}

func span(start, end, sr int) View {
	return View{
		StartSample:  start,
		EndSample:    end,
		StartSeconds: float64(start) / float64(sr),
		EndSeconds:   float64(end) / float64(sr),
	}
}

func snapshot(sig signal.Signal, r region.Region, view View, band Band, opts Options) (Snapshot, error) {
	segment := sig.Samples[r.Start:r.End]

	spec, err := spectrum.Analyze(segment, sig.SampleRate, opts.FFTSize, opts.Window)
	if err != nil {
		return Snapshot{}, err
	}

	lufs, err := loudness.Measure(segment, sig.SampleRate)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Waveform:    Decimate(sig, view.StartSample, view.EndSample, opts.MaxPoints),
		Levels:      timestats.Calculate(segment),
		Spectrum:    spec,
		Shape:       frequency.Describe(spec),
		BandLevelDB: spectrum.AmplitudeToDB(spec.BandLevel(band.MinHz, band.MaxHz)),
		Loudness:    lufs,
	}

	if opts.Spectrogram {
		sgOpts := spectrum.SpectrogramOptions{
			FFTSize: opts.FFTSize,
			Hop:     opts.FFTSize / 2,
			Window:  opts.Window,
			MinHz:   band.MinHz,
			MaxHz:   band.MaxHz,
		}
		sg, err := spectrum.NewSpectrogram(sig.Samples[view.StartSample:view.EndSample], sig.SampleRate, sgOpts)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Spectrogram = &sg
	}
	return snap, nil
}

// Decimate returns every step-th sample of sig in [start, end), with step
// chosen so that at most maxPoints remain. Samples are divided by the peak of
// the whole signal; a silent signal stays zero.
func Decimate(sig signal.Signal, start, end, maxPoints int) Waveform {
	n := end - start
	if n <= 0 || maxPoints <= 0 {
		return Waveform{Step: 1}
	}
	step := 1
	if n > maxPoints {
		step = int(math.Ceil(float64(n) / float64(maxPoints)))
	}

	scale := 1.0
	if peak := core.Peak(sig.Samples); peak > 0 {
		scale = 1 / peak
	}

	count := (n + step - 1) / step
	w := Waveform{
		Step:    step,
		Times:   make([]float64, count),
		Samples: make([]float64, count),
	}
	for i := range count {
		idx := start + i*step
		w.Times[i] = float64(idx) / float64(sig.SampleRate)
		w.Samples[i] = sig.Samples[idx] * scale
	}
	return w
}
