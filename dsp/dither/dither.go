// Package dither converts normalized float samples to fixed-point PCM.
//
// The default [Quantizer] rounds to the nearest 16-bit code with full-scale
// limiting and no dither noise, so round-trips are deterministic. Triangular
// dither can be enabled for perceptual use.
package dither

import "fmt"

// DitherType selects the probability distribution used for dither noise.
type DitherType int

const (
	// DitherNone applies no dither (plain rounding).
	DitherNone DitherType = iota
	// DitherTriangular uses a triangular PDF (TPDF) of one LSB peak.
	DitherTriangular
)

var ditherNames = [...]string{"none", "triangular"}

func (dt DitherType) String() string {
	if dt.Valid() {
		return ditherNames[dt]
	}
	return fmt.Sprintf("DitherType(%d)", int(dt))
}

// Valid reports whether dt is a known dither type.
func (dt DitherType) Valid() bool {
	return dt >= DitherNone && dt <= DitherTriangular
}

// ParseDitherType resolves a dither name as written in config files.
// "tpdf" is accepted for [DitherTriangular].
func ParseDitherType(name string) (DitherType, error) {
	if name == "tpdf" {
		return DitherTriangular, nil
	}
	for i, n := range ditherNames {
		if n == name {
			return DitherType(i), nil
		}
	}
	return DitherNone, fmt.Errorf("dither: unknown dither type %q", name)
}
