package window

import (
	"math"
	"testing"
)

func TestGenerateSymmetricEndpoints(t *testing.T) {
	tests := []struct {
		typ      Type
		wantEdge float64
		wantPeak float64
	}{
		{TypeRectangular, 1, 1},
		{TypeHann, 0, 1},
		{TypeHamming, 0.08, 1},
		{TypeBlackman, 0, 1},
	}
	for _, tc := range tests {
		t.Run(tc.typ.String(), func(t *testing.T) {
			w := Generate(tc.typ, 9)
			if len(w) != 9 {
				t.Fatalf("len = %d", len(w))
			}
			if math.Abs(w[0]-tc.wantEdge) > 1e-12 || math.Abs(w[8]-tc.wantEdge) > 1e-12 {
				t.Fatalf("edges = %v, %v, want %v", w[0], w[8], tc.wantEdge)
			}
			if math.Abs(w[4]-tc.wantPeak) > 1e-12 {
				t.Fatalf("center = %v, want %v", w[4], tc.wantPeak)
			}
			for i := range w {
				if math.Abs(w[i]-w[len(w)-1-i]) > 1e-12 {
					t.Fatalf("asymmetric at %d", i)
				}
			}
		})
	}
}

func TestPeriodicHann(t *testing.T) {
	w := Generate(TypeHann, 8, WithPeriodic())
	if w[0] != 0 {
		t.Fatalf("w[0] = %v", w[0])
	}
	if math.Abs(w[4]-1) > 1e-12 {
		t.Fatalf("w[4] = %v, want 1", w[4])
	}
	if got := CoherentGain(w); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("coherent gain = %v, want 0.5", got)
	}
}

func TestApplyInPlace(t *testing.T) {
	buf := []float64{2, 2, 2, 2, 2}
	Apply(TypeHann, buf)
	want := Generate(TypeHann, 5)
	for i := range buf {
		if math.Abs(buf[i]-2*want[i]) > 1e-12 {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], 2*want[i])
		}
	}
}

func TestEdgeCases(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Fatal("expected nil for zero length")
	}
	if w := Generate(TypeHann, 1); len(w) != 1 || w[0] != 0 {
		t.Fatalf("single-point hann = %v", w)
	}
	if CoherentGain(nil) != 0 {
		t.Fatal("expected zero gain for empty window")
	}
	Apply(TypeHann, nil)
}

func TestParseType(t *testing.T) {
	for typ, name := range typeNames {
		got, err := ParseType(name)
		if err != nil || got != typ {
			t.Fatalf("ParseType(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseType("kaiser"); err == nil {
		t.Fatal("expected error for unknown window")
	}
}

func TestSpectralFigures(t *testing.T) {
	tests := []struct {
		typ      Type
		enbw     float64
		scallop  float64
		tolEnbw  float64
		tolScall float64
	}{
		{TypeRectangular, 1, -3.92, 1e-12, 0.01},
		{TypeHann, 1.5, -1.42, 1e-9, 0.01},
		{TypeHamming, 1.363, -1.75, 1e-3, 0.01},
		{TypeBlackman, 1.727, -1.10, 1e-3, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			w := Generate(tt.typ, 1024, WithPeriodic())
			if got := ENBW(w); math.Abs(got-tt.enbw) > tt.tolEnbw {
				t.Fatalf("ENBW = %f, want %f", got, tt.enbw)
			}
			if got := ScallopLossDB(w); math.Abs(got-tt.scallop) > tt.tolScall {
				t.Fatalf("scallop = %f dB, want %f", got, tt.scallop)
			}
		})
	}
	if ENBW(nil) != 0 || ScallopLossDB(nil) != 0 {
		t.Fatal("expected zero figures for empty window")
	}
}
