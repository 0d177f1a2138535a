package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/regionfx/dsp/core"
)

const (
	defaultCompressorThresholdDB = -20.0
	defaultCompressorRatio       = 4.0
	defaultCompressorAttackMs    = 10.0
	defaultCompressorReleaseMs   = 100.0
	defaultCompressorMakeupDB    = 0.0

	minCompressorRatio = 1.0
)

// CompressorParams configures a Compressor.
type CompressorParams struct {
	ThresholdDB float64
	Ratio       float64
	AttackMs    float64
	ReleaseMs   float64
	MakeupDB    float64
}

// DefaultCompressorParams returns -20 dB threshold, 4:1, 10 ms attack,
// 100 ms release and no makeup gain.
func DefaultCompressorParams() CompressorParams {
	return CompressorParams{
		ThresholdDB: defaultCompressorThresholdDB,
		Ratio:       defaultCompressorRatio,
		AttackMs:    defaultCompressorAttackMs,
		ReleaseMs:   defaultCompressorReleaseMs,
		MakeupDB:    defaultCompressorMakeupDB,
	}
}

// Validate reports the first out-of-range parameter.
func (p CompressorParams) Validate() error {
	if !core.IsFinite(p.ThresholdDB) {
		return fmt.Errorf("compressor threshold must be finite: %f: %w", p.ThresholdDB, core.ErrInvalidParameter)
	}
	if p.Ratio <= minCompressorRatio || !core.IsFinite(p.Ratio) {
		return fmt.Errorf("compressor ratio must be > %.0f: %f: %w", minCompressorRatio, p.Ratio, core.ErrInvalidParameter)
	}
	if p.AttackMs < 0 || !core.IsFinite(p.AttackMs) {
		return fmt.Errorf("compressor attack must be >= 0 ms: %f: %w", p.AttackMs, core.ErrInvalidParameter)
	}
	if p.ReleaseMs < 0 || !core.IsFinite(p.ReleaseMs) {
		return fmt.Errorf("compressor release must be >= 0 ms: %f: %w", p.ReleaseMs, core.ErrInvalidParameter)
	}
	if !core.IsFinite(p.MakeupDB) {
		return fmt.Errorf("compressor makeup gain must be finite: %f: %w", p.MakeupDB, core.ErrInvalidParameter)
	}
	return nil
}

// Compressor is a hard-knee peak compressor with one-pole attack/release
// smoothing of the gain. It holds only derived constants, so a single value
// can be shared by concurrent callers.
type Compressor struct {
	params     CompressorParams
	sampleRate int

	threshold    float64
	makeup       float64
	attackCoeff  float64
	releaseCoeff float64
}

// NewCompressor validates p and derives the linear thresholds and smoothing
// coefficients for sampleRate.
func NewCompressor(sampleRate int, p CompressorParams) (*Compressor, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("compressor sample rate must be > 0: %d: %w", sampleRate, core.ErrInvalidParameter)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &Compressor{
		params:       p,
		sampleRate:   sampleRate,
		threshold:    core.DBToLinear(p.ThresholdDB),
		makeup:       core.DBToLinear(p.MakeupDB),
		attackCoeff:  timeCoeff(p.AttackMs, sampleRate),
		releaseCoeff: timeCoeff(p.ReleaseMs, sampleRate),
	}, nil
}

// timeCoeff returns exp(-1/(sampleRate*ms/1000)); 0 ms yields 0, an
// instantaneous response.
func timeCoeff(ms float64, sampleRate int) float64 {
	if ms <= 0 {
		return 0
	}
	return math.Exp(-1 / (float64(sampleRate) * ms / 1000))
}

// Params returns the parameters the compressor was built with.
func (c *Compressor) Params() CompressorParams { return c.params }

// SampleRate returns the sample rate in Hz.
func (c *Compressor) SampleRate() int { return c.sampleRate }

// AttackCoeff returns the attack smoothing coefficient.
func (c *Compressor) AttackCoeff() float64 { return c.attackCoeff }

// ReleaseCoeff returns the release smoothing coefficient.
func (c *Compressor) ReleaseCoeff() float64 { return c.releaseCoeff }

// TargetGain returns the static gain for an absolute sample level: 1 at or
// below threshold, (T + (level-T)/ratio)/level above it.
func (c *Compressor) TargetGain(level float64) float64 {
	if level <= c.threshold {
		return 1
	}
	return (c.threshold + (level-c.threshold)/c.params.Ratio) / level
}

// Process compresses x into a new slice. The envelope starts at unity gain.
func (c *Compressor) Process(x []float64) []float64 {
	out := make([]float64, len(x))
	env := newEnvelope(c.attackCoeff, c.releaseCoeff)
	for i, s := range x {
		g := env.step(c.TargetGain(math.Abs(s)))
		out[i] = s * g * c.makeup
	}
	return out
}

// GainTrace returns the smoothed gain applied to every sample of x, without
// makeup gain. It is the same fold Process performs.
func (c *Compressor) GainTrace(x []float64) []float64 {
	out := make([]float64, len(x))
	env := newEnvelope(c.attackCoeff, c.releaseCoeff)
	for i, s := range x {
		out[i] = env.step(c.TargetGain(math.Abs(s)))
	}
	return out
}

// Compress is a convenience wrapper building a Compressor and processing x once.
func Compress(x []float64, p CompressorParams, sampleRate int) ([]float64, error) {
	c, err := NewCompressor(sampleRate, p)
	if err != nil {
		return nil, err
	}
	return c.Process(x), nil
}
