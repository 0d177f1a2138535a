package spatial

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/internal/testutil"
)

func referenceReverb(x []float64, p ReverbParams, sr int) []float64 {
	out := append([]float64(nil), x...)
	d := int(math.Round(float64(sr) * p.DelayMs / 1000))
	for i := 1; i <= p.Echoes; i++ {
		g := math.Pow(p.Decay, float64(i))
		for n := i * d; n < len(x); n++ {
			out[n] += g * x[n-i*d]
		}
	}
	peak := 0.0
	for _, v := range out {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak > 0 {
		for n := range out {
			out[n] /= peak
		}
	}
	return out
}

func TestReverbImpulse(t *testing.T) {
	const sr = 1000
	x := testutil.Impulse(40, 0)
	p := ReverbParams{DelayMs: 10, Decay: 0.5, Echoes: 3}

	out, err := Reverb(x, p, sr)
	if err != nil {
		t.Fatal(err)
	}
	want := make([]float64, 40)
	want[0], want[10], want[20], want[30] = 1, 0.5, 0.25, 0.125
	testutil.RequireSliceNearlyEqual(t, out, want, 1e-15)
	if x[10] != 0 {
		t.Fatal("Reverb modified its input")
	}
}

func TestReverbMatchesReference(t *testing.T) {
	const sr = 8000
	x := testutil.DeterministicNoise(5, 0.5, 6000)
	p := ReverbParams{DelayMs: 7.3, Decay: 0.7, Echoes: 6}

	out, err := Reverb(x, p, sr)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, out, referenceReverb(x, p, sr), 1e-12)
}

func TestReverbIndependentOfWorkerCount(t *testing.T) {
	const sr = 44100
	x := testutil.DeterministicNoise(9, 0.8, 30000)
	p := DefaultReverbParams()

	serial, err := Reverb(x, p, sr, core.WithWorkers(1))
	if err != nil {
		t.Fatal(err)
	}
	for _, workers := range []int{2, 3, 7} {
		par, err := Reverb(x, p, sr, core.WithWorkers(workers), core.WithParallelThreshold(0))
		if err != nil {
			t.Fatal(err)
		}
		testutil.RequireSliceNearlyEqual(t, par, serial, 0)
	}
}

func TestReverbZeroEchoesIsIdentity(t *testing.T) {
	x := testutil.DeterministicSine(440, 44100, 0.5, 2000)
	p := DefaultReverbParams()
	p.Echoes = 0

	out, err := Reverb(x, p, 44100)
	if err != nil {
		t.Fatal(err)
	}
	want := append([]float64(nil), x...)
	core.PeakNormalize(want)
	testutil.RequireSliceNearlyEqual(t, out, want, 0)
}

func TestReverbSilentInput(t *testing.T) {
	out, err := Reverb(make([]float64, 100), DefaultReverbParams(), 44100)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestReverbEchoesBeyondBuffer(t *testing.T) {
	x := testutil.Impulse(10, 0)
	out, err := Reverb(x, ReverbParams{DelayMs: 1000, Decay: 0.5, Echoes: 1 << 30}, 1000)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, out, x, 0)
}

func TestReverbHugeEchoCount(t *testing.T) {
	x := testutil.Impulse(1000, 0)
	out, err := Reverb(x, ReverbParams{DelayMs: 100, Decay: 0.5, Echoes: 1_000_000_000}, 1000)
	if err != nil {
		t.Fatal(err)
	}
	// Echoes at 100, 200, ... 900; later ones fall past the end.
	for i := 1; i <= 9; i++ {
		if want := math.Pow(0.5, float64(i)); math.Abs(out[i*100]-want) > 1e-12 {
			t.Fatalf("out[%d] = %v, want %v", i*100, out[i*100], want)
		}
	}
	if got := len(reverbTaps(ReverbParams{Decay: 0.5, Echoes: 1_000_000_000}, 100, 1000)); got != 9 {
		t.Fatalf("taps = %d, want 9", got)
	}
}

func TestReverbInvalid(t *testing.T) {
	tests := []struct {
		name string
		p    ReverbParams
		sr   int
	}{
		{"zero delay", ReverbParams{DelayMs: 0, Decay: 0.5, Echoes: 1}, 44100},
		{"negative decay", ReverbParams{DelayMs: 10, Decay: -0.1, Echoes: 1}, 44100},
		{"negative echoes", ReverbParams{DelayMs: 10, Decay: 0.5, Echoes: -1}, 44100},
		{"nan decay", ReverbParams{DelayMs: 10, Decay: math.NaN(), Echoes: 1}, 44100},
		{"zero rate", DefaultReverbParams(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Reverb([]float64{1}, tt.p, tt.sr); !errors.Is(err, core.ErrInvalidParameter) {
				t.Fatalf("err = %v, want ErrInvalidParameter", err)
			}
		})
	}
}
