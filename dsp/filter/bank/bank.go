package bank

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/filter/biquad"
	"github.com/cwbudde/regionfx/dsp/filter/design"
)

// Shape names the filter topology behind a Boost.
type Shape int

const (
	// ShapeLowShelf boosts content below the corner via a Butterworth lowpass.
	ShapeLowShelf Shape = iota
	// ShapeHighShelf boosts content above the corner via a Butterworth highpass.
	ShapeHighShelf
	// ShapeMidPeak boosts a band around the centre via a resonant peak.
	ShapeMidPeak
)

func (s Shape) String() string {
	switch s {
	case ShapeLowShelf:
		return "lowshelf"
	case ShapeHighShelf:
		return "highshelf"
	case ShapeMidPeak:
		return "midpeak"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Boost is a designed additive-blend filter. A Boost is immutable after
// construction and safe for concurrent use; every Apply runs a fresh chain.
type Boost struct {
	shape  Shape
	coeffs biquad.Coefficients
	gain   float64
}

// NewLowShelf designs a low-shelf boost of gainDB at cutoffHz.
func NewLowShelf(gainDB, cutoffHz float64, sampleRate int) (*Boost, error) {
	wn, err := boostPrelude("low shelf", gainDB, cutoffHz, sampleRate)
	if err != nil {
		return nil, err
	}
	return newBoost(ShapeLowShelf, design.ButterworthLowpass2(wn), gainDB)
}

// NewHighShelf designs a high-shelf boost of gainDB at cutoffHz.
func NewHighShelf(gainDB, cutoffHz float64, sampleRate int) (*Boost, error) {
	wn, err := boostPrelude("high shelf", gainDB, cutoffHz, sampleRate)
	if err != nil {
		return nil, err
	}
	return newBoost(ShapeHighShelf, design.ButterworthHighpass2(wn), gainDB)
}

// NewMidPeak designs a mid-band boost of gainDB centred on centerHz with a
// -3 dB width of bandwidthHz. The bandwidth is normalized like the centre.
func NewMidPeak(gainDB, centerHz, bandwidthHz float64, sampleRate int) (*Boost, error) {
	w0, err := boostPrelude("mid peak", gainDB, centerHz, sampleRate)
	if err != nil {
		return nil, err
	}
	if bandwidthHz <= 0 || !core.IsFinite(bandwidthHz) {
		return nil, fmt.Errorf("bank: mid peak bandwidth must be > 0: %f: %w", bandwidthHz, core.ErrInvalidParameter)
	}
	bw, err := design.NormalizeFrequency(bandwidthHz, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("bank: mid peak bandwidth: %w", err)
	}
	return newBoost(ShapeMidPeak, design.Peak(w0, bw), gainDB)
}

func boostPrelude(name string, gainDB, freqHz float64, sampleRate int) (float64, error) {
	if !core.IsFinite(gainDB) {
		return 0, fmt.Errorf("bank: %s gain must be finite: %f: %w", name, gainDB, core.ErrInvalidParameter)
	}
	wn, err := design.NormalizeFrequency(freqHz, sampleRate)
	if err != nil {
		return 0, fmt.Errorf("bank: %s frequency: %w", name, err)
	}
	return wn, nil
}

func newBoost(shape Shape, c biquad.Coefficients, gainDB float64) (*Boost, error) {
	if c.IsZero() {
		return nil, fmt.Errorf("bank: %s design produced no coefficients: %w", shape, core.ErrInvalidParameter)
	}
	return &Boost{shape: shape, coeffs: c, gain: core.DBToLinear(gainDB)}, nil
}

// Shape returns the filter topology.
func (b *Boost) Shape() Shape { return b.shape }

// Coefficients returns the designed section.
func (b *Boost) Coefficients() biquad.Coefficients { return b.coeffs }

// Gain returns the linear blend gain.
func (b *Boost) Gain() float64 { return b.gain }

// Apply returns x + gain*filter(x). x is not modified and the result has the
// same length.
func (b *Boost) Apply(x []float64) []float64 {
	wet := biquad.NewChain([]biquad.Coefficients{b.coeffs}).Filter(x)
	vecmath.ScaleBlockInPlace(wet, b.gain)
	vecmath.AddBlockInPlace(wet, x)
	return wet
}

// LowShelf applies a low-shelf boost to samples.
func LowShelf(samples []float64, gainDB, cutoffHz float64, sampleRate int) ([]float64, error) {
	b, err := NewLowShelf(gainDB, cutoffHz, sampleRate)
	if err != nil {
		return nil, err
	}
	return b.Apply(samples), nil
}

// HighShelf applies a high-shelf boost to samples.
func HighShelf(samples []float64, gainDB, cutoffHz float64, sampleRate int) ([]float64, error) {
	b, err := NewHighShelf(gainDB, cutoffHz, sampleRate)
	if err != nil {
		return nil, err
	}
	return b.Apply(samples), nil
}

// MidPeak applies a mid-band boost to samples.
func MidPeak(samples []float64, gainDB, centerHz, bandwidthHz float64, sampleRate int) ([]float64, error) {
	b, err := NewMidPeak(gainDB, centerHz, bandwidthHz, sampleRate)
	if err != nil {
		return nil, err
	}
	return b.Apply(samples), nil
}
