package region

import (
	"errors"
	"fmt"

	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/signal"
)

// ErrInvalidRegion reports a region whose start lies after its end or whose
// bounds are not finite.
var ErrInvalidRegion = errors.New("invalid region")

// Region is the half-open sample interval [Start, End).
type Region struct {
	Start int
	End   int
}

// FromSeconds converts a time range to sample indices with
// round(seconds*sampleRate). Bounds are not clamped here.
func FromSeconds(start, end float64, sampleRate int) (Region, error) {
	if !core.IsFinite(start) || !core.IsFinite(end) {
		return Region{}, fmt.Errorf("region: bounds must be finite: [%v, %v): %w", start, end, ErrInvalidRegion)
	}
	if start > end {
		return Region{}, fmt.Errorf("region: start %vs after end %vs: %w", start, end, ErrInvalidRegion)
	}
	if sampleRate <= 0 {
		return Region{}, fmt.Errorf("region: sample rate must be > 0: %d: %w", sampleRate, core.ErrInvalidParameter)
	}
	return Region{
		Start: signal.SampleIndex(start, sampleRate),
		End:   signal.SampleIndex(end, sampleRate),
	}, nil
}

// Clamp limits both bounds to [0, n]. A region that still has Start > End
// is rejected.
func (r Region) Clamp(n int) (Region, error) {
	c := Region{Start: clampInt(r.Start, 0, n), End: clampInt(r.End, 0, n)}
	if c.Start > c.End {
		return Region{}, fmt.Errorf("region: start %d after end %d: %w", r.Start, r.End, ErrInvalidRegion)
	}
	return c, nil
}

// Len returns End-Start.
func (r Region) Len() int { return r.End - r.Start }

// Empty reports whether the region covers no samples.
func (r Region) Empty() bool { return r.End <= r.Start }

// Contains reports whether sample index i lies inside the region.
func (r Region) Contains(i int) bool { return i >= r.Start && i < r.End }

func (r Region) String() string { return fmt.Sprintf("[%d, %d)", r.Start, r.End) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
