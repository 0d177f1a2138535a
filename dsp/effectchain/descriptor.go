package effectchain

import (
	"fmt"

	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/effects/dynamics"
	"github.com/cwbudde/regionfx/dsp/effects/spatial"
)

// Descriptor is an immutable effect description consumed by the region
// processor.
type Descriptor interface {
	Kind() Kind
	Validate() error
}

// LowShelf boosts content below CutoffHz.
type LowShelf struct {
	GainDB   float64
	CutoffHz float64
}

// MidPeak boosts a band of BandwidthHz around CenterHz.
type MidPeak struct {
	GainDB      float64
	CenterHz    float64
	BandwidthHz float64
}

// HighShelf boosts content above CutoffHz. A non-nil Compressor is applied
// to the boosted region afterwards.
type HighShelf struct {
	GainDB     float64
	CutoffHz   float64
	Compressor *Compressor
}

// Compressor is a feed-forward peak compressor.
type Compressor struct {
	ThresholdDB float64
	Ratio       float64
	AttackMs    float64
	ReleaseMs   float64
	MakeupDB    float64
}

// Reverb is an echo-train reverb.
type Reverb struct {
	DelayMs float64
	Decay   float64
	Echoes  int
}

// Chorus is a single-voice modulated-delay chorus.
type Chorus struct {
	DepthMs float64
	RateHz  float64
	Mix     float64
}

func (LowShelf) Kind() Kind   { return KindLowShelf }
func (MidPeak) Kind() Kind    { return KindMidPeak }
func (HighShelf) Kind() Kind  { return KindHighShelf }
func (Compressor) Kind() Kind { return KindCompressor }
func (Reverb) Kind() Kind     { return KindReverb }
func (Chorus) Kind() Kind     { return KindChorus }

func (d LowShelf) Validate() error {
	return validateBoost("low shelf", d.GainDB, d.CutoffHz)
}

func (d MidPeak) Validate() error {
	if err := validateBoost("mid peak", d.GainDB, d.CenterHz); err != nil {
		return err
	}
	if d.BandwidthHz <= 0 || !core.IsFinite(d.BandwidthHz) {
		return fmt.Errorf("effectchain: mid peak bandwidth must be > 0: %f: %w", d.BandwidthHz, core.ErrInvalidParameter)
	}
	return nil
}

func (d HighShelf) Validate() error {
	if err := validateBoost("high shelf", d.GainDB, d.CutoffHz); err != nil {
		return err
	}
	if d.Compressor != nil {
		return d.Compressor.Validate()
	}
	return nil
}

func (d Compressor) Validate() error { return d.Params().Validate() }
func (d Reverb) Validate() error     { return d.Params().Validate() }
func (d Chorus) Validate() error     { return d.Params().Validate() }

// Params converts the descriptor to the dynamics processor parameters.
func (d Compressor) Params() dynamics.CompressorParams {
	return dynamics.CompressorParams{
		ThresholdDB: d.ThresholdDB,
		Ratio:       d.Ratio,
		AttackMs:    d.AttackMs,
		ReleaseMs:   d.ReleaseMs,
		MakeupDB:    d.MakeupDB,
	}
}

// Params converts the descriptor to the spatial reverb parameters.
func (d Reverb) Params() spatial.ReverbParams {
	return spatial.ReverbParams{DelayMs: d.DelayMs, Decay: d.Decay, Echoes: d.Echoes}
}

// Params converts the descriptor to the spatial chorus parameters.
func (d Chorus) Params() spatial.ChorusParams {
	return spatial.ChorusParams{DepthMs: d.DepthMs, RateHz: d.RateHz, Mix: d.Mix}
}

func validateBoost(name string, gainDB, freqHz float64) error {
	if !core.IsFinite(gainDB) {
		return fmt.Errorf("effectchain: %s gain must be finite: %f: %w", name, gainDB, core.ErrInvalidParameter)
	}
	if freqHz <= 0 || !core.IsFinite(freqHz) {
		return fmt.Errorf("effectchain: %s frequency must be > 0: %f: %w", name, freqHz, core.ErrInvalidParameter)
	}
	return nil
}

// Defaults for each descriptor.
var (
	DefaultLowShelf  = LowShelf{GainDB: 10, CutoffHz: 150}
	DefaultMidPeak   = MidPeak{GainDB: 10, CenterHz: 1000, BandwidthHz: 1000}
	DefaultHighShelf = HighShelf{GainDB: 10, CutoffHz: 4000}
)

// DefaultCompressor mirrors dynamics.DefaultCompressorParams.
func DefaultCompressor() Compressor {
	p := dynamics.DefaultCompressorParams()
	return Compressor{ThresholdDB: p.ThresholdDB, Ratio: p.Ratio, AttackMs: p.AttackMs, ReleaseMs: p.ReleaseMs, MakeupDB: p.MakeupDB}
}

// DefaultReverb mirrors spatial.DefaultReverbParams.
func DefaultReverb() Reverb {
	p := spatial.DefaultReverbParams()
	return Reverb{DelayMs: p.DelayMs, Decay: p.Decay, Echoes: p.Echoes}
}

// DefaultChorus mirrors spatial.DefaultChorusParams.
func DefaultChorus() Chorus {
	p := spatial.DefaultChorusParams()
	return Chorus{DepthMs: p.DepthMs, RateHz: p.RateHz, Mix: p.Mix}
}
