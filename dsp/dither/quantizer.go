package dither

import (
	"math"
	"math/rand/v2"
)

// Quantizer maps samples in [-1, +1] to signed integer codes.
type Quantizer struct {
	bitDepth   int
	ditherType DitherType
	limit      bool
	rng        *rand.Rand

	// derived from bitDepth
	scale   float64
	limitLo int
	limitHi int
}

// NewQuantizer creates a Quantizer. The default configuration is 16-bit,
// no dither and limiting enabled.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	q := &Quantizer{
		bitDepth:   cfg.bitDepth,
		ditherType: cfg.ditherType,
		limit:      cfg.limit,
		rng:        cfg.rng,
	}
	if q.rng == nil && q.ditherType != DitherNone {
		q.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	q.scale = math.Exp2(float64(q.bitDepth-1)) - 1
	q.limitHi = int(q.scale)
	q.limitLo = -q.limitHi - 1
	return q, nil
}

// BitDepth returns the configured bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// Scale returns the full-scale multiplier, 2^(bits-1)-1.
func (q *Quantizer) Scale() float64 { return q.scale }

// DecodeScale returns the divisor that maps codes back to [-1, 1), 2^(bits-1).
func (q *Quantizer) DecodeScale() float64 { return q.scale + 1 }

// ProcessInteger quantizes one sample.
func (q *Quantizer) ProcessInteger(input float64) int {
	scaled := q.scale * input
	if q.ditherType == DitherTriangular {
		scaled += q.rng.Float64() - q.rng.Float64()
	}

	result := int(math.Round(scaled))
	if q.limit {
		result = max(q.limitLo, min(q.limitHi, result))
	}
	return result
}

// Quantize writes the codes for src into dst, which must be at least as long.
func (q *Quantizer) Quantize(dst []int, src []float64) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1]
	for i, v := range src {
		dst[i] = q.ProcessInteger(v)
	}
}

// QuantizeAll returns the codes for src in a new slice.
func (q *Quantizer) QuantizeAll(src []float64) []int {
	out := make([]int, len(src))
	q.Quantize(out, src)
	return out
}
