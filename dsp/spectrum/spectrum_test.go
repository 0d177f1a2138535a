package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/window"
	"github.com/cwbudde/regionfx/internal/testutil"
)

func TestMagnitude(t *testing.T) {
	mag := Magnitude([]complex128{3 + 4i, -1 - 1i, 0})
	if len(mag) != 3 {
		t.Fatalf("len = %d", len(mag))
	}
	if math.Abs(mag[0]-5) > 1e-12 || math.Abs(mag[1]-math.Sqrt2) > 1e-12 || mag[2] != 0 {
		t.Fatalf("unexpected magnitudes %v", mag)
	}
	if Magnitude(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestAnalyzeBinCenteredSine(t *testing.T) {
	const (
		sr   = 8192
		size = 1024
		freq = 1000.0
		amp  = 0.5
	)
	x := testutil.DeterministicSine(freq, sr, amp, 4*size)

	tests := []window.Type{window.TypeHann, window.TypeHamming, window.TypeBlackman, window.TypeRectangular}
	for _, w := range tests {
		t.Run(w.String(), func(t *testing.T) {
			s, err := Analyze(x, sr, size, w)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if len(s.Magnitude) != size/2+1 || len(s.Frequencies) != size/2+1 {
				t.Fatalf("bins = %d/%d", len(s.Magnitude), len(s.Frequencies))
			}
			if s.Frames != 7 {
				t.Fatalf("frames = %d, want 7", s.Frames)
			}
			if got := s.PeakFrequency(); got != freq {
				t.Fatalf("peak frequency = %v, want %v", got, freq)
			}
			if got := s.Magnitude[125]; math.Abs(got-amp) > 1e-6 {
				t.Fatalf("amplitude = %v, want %v", got, amp)
			}
		})
	}
}

func TestAnalyzeShortInputZeroPads(t *testing.T) {
	s, err := Analyze([]float64{1, 1, 1}, 8000, 64, window.TypeRectangular)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if s.Frames != 1 {
		t.Fatalf("frames = %d", s.Frames)
	}
	testutil.RequireFinite(t, s.Magnitude)

	empty, err := Analyze(nil, 8000, 64, window.TypeHann)
	if err != nil {
		t.Fatalf("Analyze(nil): %v", err)
	}
	for _, v := range empty.Magnitude {
		if v != 0 {
			t.Fatalf("expected silent spectrum, got %v", empty.Magnitude)
		}
	}
}

func TestBandLevel(t *testing.T) {
	x := testutil.DeterministicSine(1000, 8192, 1, 8192)
	s, err := Analyze(x, 8192, 1024, window.TypeHann)
	if err != nil {
		t.Fatal(err)
	}
	in := s.BandLevel(900, 1100)
	out := s.BandLevel(3000, 4000)
	if in <= 10*out {
		t.Fatalf("band levels in=%v out=%v", in, out)
	}
	if s.BandLevel(5000, 6000) != 0 {
		t.Fatal("expected zero level above Nyquist")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		sr   int
		size int
	}{
		{"zero rate", 0, 1024},
		{"tiny", 8000, 8},
		{"not pow2", 8000, 1000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Analyze([]float64{1}, tc.sr, tc.size, window.TypeHann); !errors.Is(err, core.ErrInvalidParameter) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestAmplitudeToDB(t *testing.T) {
	if AmplitudeToDB(0) != FloorDB || AmplitudeToDB(1e-12) != FloorDB {
		t.Fatal("expected floor for silence")
	}
	if math.Abs(AmplitudeToDB(0.1)+20) > 1e-12 {
		t.Fatalf("AmplitudeToDB(0.1) = %v", AmplitudeToDB(0.1))
	}
}
