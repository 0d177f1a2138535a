// Package window generates the tapering windows applied before spectral
// analysis of a processed region.
package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

// Types lists every window in declaration order.
var Types = []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman}

var typeNames = map[Type]string{
	TypeRectangular: "rectangular",
	TypeHann:        "hann",
	TypeHamming:     "hamming",
	TypeBlackman:    "blackman",
}

// String returns the lowercase window name.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("window(%d)", int(t))
}

// ParseType resolves a window name as written in config files.
func ParseType(name string) (Type, error) {
	for t, s := range typeNames {
		if s == name {
			return t, nil
		}
	}
	return TypeRectangular, fmt.Errorf("unknown window type %q", name)
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic generates the DFT-even variant, which is what frame-based
// spectral analysis expects.
func WithPeriodic() Option {
	return func(c *config) { c.periodic = true }
}

// Generate returns length coefficients of window t. Non-positive lengths
// yield nil.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic))
	}
	return out
}

// Apply multiplies buf in-place by window t.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}
	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// CoherentGain returns the mean of coeffs, used to undo the amplitude loss
// of a window on a spectrum. It is zero for empty input.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	return sum / float64(len(coeffs))
}

// ENBW returns the equivalent noise bandwidth of coeffs in bins.
func ENBW(coeffs []float64) float64 {
	var sum, sumSq float64
	for _, c := range coeffs {
		sum += c
		sumSq += c * c
	}
	if sum == 0 {
		return 0
	}
	return float64(len(coeffs)) * sumSq / (sum * sum)
}

// ScallopLossDB returns the gain, in dB, of a tone half a bin off center
// relative to a bin-centered tone. It is negative for every window.
func ScallopLossDB(coeffs []float64) float64 {
	n := len(coeffs)
	var sum, re, im float64
	for i, c := range coeffs {
		phase := math.Pi * float64(i) / float64(n)
		sum += c
		re += c * math.Cos(phase)
		im -= c * math.Sin(phase)
	}
	if sum == 0 {
		return 0
	}
	return 20 * math.Log10(math.Hypot(re, im)/math.Abs(sum))
}

func evalWindow(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return cosineSum(x, 0.5, 0.5)
	case TypeHamming:
		return cosineSum(x, 0.54, 0.46)
	case TypeBlackman:
		return cosineSum(x, 0.42, 0.5, 0.08)
	default:
		return 1
	}
}

// cosineSum evaluates a0 - a1 cos(2πx) + a2 cos(4πx) - ...
func cosineSum(x float64, coeffs ...float64) float64 {
	phase := 2 * math.Pi * x
	sum := 0.0
	sign := 1.0
	for k, c := range coeffs {
		sum += sign * c * math.Cos(float64(k)*phase)
		sign = -sign
	}
	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}
	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}
	return float64(n) / den
}
