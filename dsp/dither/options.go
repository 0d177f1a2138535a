package dither

import (
	"fmt"
	"math/rand/v2"

	"github.com/cwbudde/regionfx/dsp/core"
)

const (
	defaultBitDepth   = 16
	defaultDitherType = DitherNone
	defaultLimit      = true
	minBitDepth       = 2
	maxBitDepth       = 32
)

type config struct {
	bitDepth   int
	ditherType DitherType
	limit      bool
	rng        *rand.Rand
}

func defaultConfig() config {
	return config{
		bitDepth:   defaultBitDepth,
		ditherType: defaultDitherType,
		limit:      defaultLimit,
	}
}

// Option configures a [Quantizer].
type Option func(*config) error

// WithBitDepth sets the target bit depth (2–32, default 16).
func WithBitDepth(bits int) Option {
	return func(cfg *config) error {
		if bits < minBitDepth || bits > maxBitDepth {
			return fmt.Errorf("dither: bit depth must be in [%d, %d]: %d: %w", minBitDepth, maxBitDepth, bits, core.ErrInvalidParameter)
		}
		cfg.bitDepth = bits
		return nil
	}
}

// WithDitherType sets the dither noise PDF (default [DitherNone]).
func WithDitherType(dt DitherType) Option {
	return func(cfg *config) error {
		if !dt.Valid() {
			return fmt.Errorf("dither: invalid dither type: %d: %w", dt, core.ErrInvalidParameter)
		}
		cfg.ditherType = dt
		return nil
	}
}

// WithLimit enables or disables output limiting to the bit-depth range (default true).
func WithLimit(enabled bool) Option {
	return func(cfg *config) error {
		cfg.limit = enabled
		return nil
	}
}

// WithRNG sets the random source used for dither noise.
func WithRNG(rng *rand.Rand) Option {
	return func(cfg *config) error {
		cfg.rng = rng
		return nil
	}
}
