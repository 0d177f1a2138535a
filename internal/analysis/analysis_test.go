package analysis

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/effectchain"
	"github.com/cwbudde/regionfx/dsp/region"
	"github.com/cwbudde/regionfx/dsp/signal"
	"github.com/cwbudde/regionfx/internal/testutil"
)

func testOptions() Options {
	o := DefaultOptions()
	o.PadSeconds = 1
	o.FFTSize = 1024
	return o
}

func boosted(sig signal.Signal, r region.Region, gain float64) signal.Signal {
	out := sig.Clone()
	for i := r.Start; i < r.End; i++ {
		out.Samples[i] *= gain
	}
	return out
}

func TestCapture(t *testing.T) {
	const sr = 8000
	before := testutil.ToneSignal(1000, sr, 0.5, 4)
	r := region.Region{Start: 12000, End: 20000}
	after := boosted(before, r, 2)

	rep, err := Capture(before, after, r, effectchain.KindMidPeak, testOptions())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	if rep.Effect != "midpeak" || rep.Band != BandMids {
		t.Fatalf("effect/band = %q/%+v", rep.Effect, rep.Band)
	}
	if rep.Region.StartSeconds != 1.5 || rep.Region.EndSeconds != 2.5 {
		t.Fatalf("region = %+v", rep.Region)
	}
	if rep.View.StartSample != 4000 || rep.View.EndSample != 28000 {
		t.Fatalf("view = %+v", rep.View)
	}
	if n := len(rep.Before.Waveform.Samples); n == 0 || n > 1000 {
		t.Fatalf("waveform points = %d", n)
	}
	if math.Abs(rep.BandGainDB-20*math.Log10(2)) > 1e-6 {
		t.Fatalf("band gain = %v dB", rep.BandGainDB)
	}
	if math.Abs(rep.LoudnessChangeLU-20*math.Log10(2)) > 1e-6 {
		t.Fatalf("loudness change = %v LU", rep.LoudnessChangeLU)
	}
	if math.Abs(rep.After.Levels.Peak-1) > 1e-9 || math.Abs(rep.Before.Levels.Peak-0.5) > 1e-9 {
		t.Fatalf("peaks = %v/%v", rep.Before.Levels.Peak, rep.After.Levels.Peak)
	}
	if got := rep.Before.Spectrum.PeakFrequency(); got != 1000 {
		t.Fatalf("peak frequency = %v", got)
	}

	sg := rep.After.Spectrogram
	if sg == nil || len(sg.LevelsDB) == 0 {
		t.Fatal("missing spectrogram")
	}
	for _, f := range sg.Frequencies {
		if f < BandMids.MinHz || f > BandMids.MaxHz {
			t.Fatalf("spectrogram bin %v Hz outside band", f)
		}
	}
}

func TestCaptureWithoutSpectrogram(t *testing.T) {
	sig := testutil.ToneSignal(440, 8000, 0.3, 1)
	opts := testOptions()
	opts.Spectrogram = false

	rep, err := Capture(sig, sig, region.Region{Start: 0, End: 4000}, effectchain.KindReverb, opts)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Before.Spectrogram != nil || rep.After.Spectrogram != nil {
		t.Fatal("spectrogram captured while disabled")
	}
	if rep.Band != BandFull || rep.BandGainDB != 0 {
		t.Fatalf("band=%+v gain=%v", rep.Band, rep.BandGainDB)
	}
}

func TestCaptureClampsRegion(t *testing.T) {
	sig := testutil.ToneSignal(440, 8000, 0.3, 1)
	rep, err := Capture(sig, sig, region.Region{Start: -100, End: 1 << 20}, effectchain.KindChorus, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Region.StartSample != 0 || rep.Region.EndSample != 8000 {
		t.Fatalf("region = %+v", rep.Region)
	}
}

func TestCaptureErrors(t *testing.T) {
	sig := testutil.ToneSignal(440, 8000, 0.3, 1)
	short := signal.Signal{SampleRate: 8000, Samples: sig.Samples[:100]}
	r := region.Region{Start: 0, End: 50}

	if _, err := Capture(sig, short, r, effectchain.KindLowShelf, testOptions()); !errors.Is(err, ErrMismatch) {
		t.Fatalf("length mismatch: err = %v", err)
	}

	bad := testOptions()
	bad.FFTSize = 1000
	if _, err := Capture(sig, sig, r, effectchain.KindLowShelf, bad); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("bad fft size: err = %v", err)
	}

	bad = testOptions()
	bad.MaxPoints = 1
	if _, err := Capture(sig, sig, r, effectchain.KindLowShelf, bad); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("bad max points: err = %v", err)
	}

	if _, err := Capture(sig, sig, region.Region{Start: 10, End: 5}, effectchain.KindLowShelf, testOptions()); !errors.Is(err, region.ErrInvalidRegion) {
		t.Fatalf("inverted region: err = %v", err)
	}
}

func TestSilentReportMarshals(t *testing.T) {
	sig := signal.Silence(8000, 8000)
	rep, err := Capture(sig, sig, region.Region{Start: 1000, End: 2000}, effectchain.KindHighShelf, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back["effect"] != "highshelf" {
		t.Fatalf("effect = %v", back["effect"])
	}
}

func TestDecimate(t *testing.T) {
	samples := make([]float64, 3000)
	for i := range samples {
		samples[i] = float64(i%4) - 1.5
	}
	sig := signal.Signal{SampleRate: 1000, Samples: samples}

	tests := []struct {
		name       string
		start, end int
		maxPoints  int
		wantStep   int
		wantCount  int
	}{
		{"fits", 0, 500, 1000, 1, 500},
		{"exact", 0, 1000, 1000, 1, 1000},
		{"stride", 200, 2701, 1000, 3, 834},
		{"empty", 10, 10, 1000, 1, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := Decimate(sig, tc.start, tc.end, tc.maxPoints)
			if w.Step != tc.wantStep || len(w.Samples) != tc.wantCount || len(w.Times) != tc.wantCount {
				t.Fatalf("step=%d count=%d, want %d/%d", w.Step, len(w.Samples), tc.wantStep, tc.wantCount)
			}
			if tc.wantCount == 0 {
				return
			}
			if w.Times[0] != float64(tc.start)/1000 {
				t.Fatalf("first time = %v", w.Times[0])
			}
			testutil.RequirePeakAtMost(t, w.Samples, 1)
		})
	}
}

func TestBandFor(t *testing.T) {
	want := map[effectchain.Kind]Band{
		effectchain.KindLowShelf:   BandBass,
		effectchain.KindMidPeak:    BandMids,
		effectchain.KindHighShelf:  BandHighs,
		effectchain.KindCompressor: BandFull,
	}
	for k, b := range want {
		if got := BandFor(k); got != b {
			t.Fatalf("BandFor(%s) = %+v, want %+v", k, got, b)
		}
	}
}
