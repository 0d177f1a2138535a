package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/effectchain"
	"github.com/cwbudde/regionfx/dsp/region"
	"github.com/cwbudde/regionfx/dsp/signal"
	"github.com/cwbudde/regionfx/internal/analysis"
	"github.com/cwbudde/regionfx/internal/codec"
	"github.com/cwbudde/regionfx/internal/logging"
	"github.com/cwbudde/regionfx/internal/observe"
	"github.com/cwbudde/regionfx/internal/testutil"
)

// memBridge keeps decoded tracks in memory and records every call.
type memBridge struct {
	mu           sync.Mutex
	files        map[string]signal.Signal
	calls        []string
	encodes      int
	failEncodeAt int
}

func newMemBridge(files map[string]signal.Signal) *memBridge {
	return &memBridge{files: files}
}

func (b *memBridge) Decode(_ context.Context, path string) (signal.Signal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, "decode "+path)
	sig, ok := b.files[path]
	if !ok {
		return signal.Signal{}, fmt.Errorf("%w: %s: no such file", codec.ErrDecode, path)
	}
	return sig.Clone(), nil
}

func (b *memBridge) Encode(_ context.Context, path string, sampleRate int, pcm []int, bitDepth int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, "encode "+path)
	b.encodes++
	if b.failEncodeAt > 0 && b.encodes == b.failEncodeAt {
		return fmt.Errorf("%w: %s: disk full", codec.ErrEncode, path)
	}
	scale := math.Ldexp(1, bitDepth-1)
	samples := make([]float64, len(pcm))
	for i, v := range pcm {
		samples[i] = float64(v) / scale
	}
	b.files[path] = signal.Signal{SampleRate: sampleRate, Samples: samples}
	return nil
}

func (b *memBridge) callLog() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func toneBridge() *memBridge {
	return newMemBridge(map[string]signal.Signal{
		"in.wav": testutil.ToneSignal(440, 8000, 0.5, 1),
	})
}

func requireCalls(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("calls = %v, want %v", got, want)
	}
}

func TestRunChainsSteps(t *testing.T) {
	b := toneBridge()
	p := New(b)

	steps := []Step{
		{Effect: effectchain.DefaultReverb(), StartSeconds: 0, EndSeconds: 0.5},
		{Effect: effectchain.LowShelf{GainDB: 6, CutoffHz: 200}, StartSeconds: 0.25, EndSeconds: 0.75},
	}
	res, err := p.Run(context.Background(), "in.wav", "out.wav", steps)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	requireCalls(t, b.callLog(), []string{
		"decode in.wav", "encode out.wav",
		"decode out.wav", "encode out.wav",
	})
	if res.Applied != 2 || res.Output != "out.wav" {
		t.Fatalf("Applied=%d Output=%q", res.Applied, res.Output)
	}
	if res.SampleRate != 8000 || res.Samples != 8000 {
		t.Fatalf("SampleRate=%d Samples=%d", res.SampleRate, res.Samples)
	}
	if got := res.Steps[1].Region; got != (region.Region{Start: 2000, End: 6000}) {
		t.Fatalf("step 2 region = %v", got)
	}
	if res.Steps[0].Index != 1 || res.Steps[1].Kind != effectchain.KindLowShelf {
		t.Fatalf("unexpected step results %+v", res.Steps)
	}

	out := b.files["out.wav"]
	if out.Len() != 8000 {
		t.Fatalf("output length = %d", out.Len())
	}
	testutil.RequirePeakAtMost(t, out.Samples, 1)
	if peak := core.Peak(out.Samples); peak < 0.999 {
		t.Fatalf("output peak = %f, want normalized", peak)
	}

	src := b.files["in.wav"]
	if peak := core.Peak(src.Samples); math.Abs(peak-0.5) > 1e-3 {
		t.Fatalf("source modified: peak %f", peak)
	}
}

func TestRunClampsRegionToTrack(t *testing.T) {
	b := toneBridge()
	res, err := New(b).Run(context.Background(), "in.wav", "out.wav", []Step{
		{Effect: effectchain.DefaultChorus(), StartSeconds: 0.5, EndSeconds: 30},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := res.Steps[0].Region; got != (region.Region{Start: 4000, End: 8000}) {
		t.Fatalf("region = %v", got)
	}
}

func TestRunOpenEnd(t *testing.T) {
	b := toneBridge()
	res, err := New(b).Run(context.Background(), "in.wav", "out.wav", []Step{
		{Effect: effectchain.DefaultHighShelf, StartSeconds: 0.75, OpenEnd: true},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := res.Steps[0].Region; got != (region.Region{Start: 6000, End: 8000}) {
		t.Fatalf("region = %v", got)
	}
}

func TestRunValidatesBeforeDecoding(t *testing.T) {
	tests := []struct {
		name    string
		steps   []Step
		wantErr error
		index   int
	}{
		{"no steps", nil, ErrNoSteps, 0},
		{
			"reversed region in later step",
			[]Step{
				{Effect: effectchain.DefaultLowShelf, StartSeconds: 0, EndSeconds: 1},
				{Effect: effectchain.DefaultReverb(), StartSeconds: 0.8, EndSeconds: 0.2},
			},
			region.ErrInvalidRegion, 2,
		},
		{
			"non-finite bound",
			[]Step{{Effect: effectchain.DefaultChorus(), StartSeconds: math.NaN(), EndSeconds: 1}},
			region.ErrInvalidRegion, 1,
		},
		{
			"bad parameter",
			[]Step{
				{Effect: effectchain.DefaultMidPeak, StartSeconds: 0, EndSeconds: 1},
				{Effect: effectchain.LowShelf{GainDB: 6}, StartSeconds: 0, EndSeconds: 1},
			},
			core.ErrInvalidParameter, 2,
		},
		{
			"nil effect",
			[]Step{{StartSeconds: 0, EndSeconds: 1}},
			core.ErrInvalidParameter, 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := toneBridge()
			res, err := New(b).Run(context.Background(), "in.wav", "out.wav", tt.steps)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if calls := b.callLog(); len(calls) != 0 {
				t.Fatalf("bridge touched before validation: %v", calls)
			}
			if res.Applied != 0 {
				t.Fatalf("Applied = %d", res.Applied)
			}
			if tt.index > 0 {
				var se *StepError
				if !errors.As(err, &se) || se.Index != tt.index {
					t.Fatalf("want StepError at %d, got %v", tt.index, err)
				}
			}
		})
	}
}

func TestRunAbortsOnFirstFailure(t *testing.T) {
	b := toneBridge()
	b.failEncodeAt = 2

	steps := []Step{
		{Effect: effectchain.DefaultLowShelf, StartSeconds: 0, EndSeconds: 0.5},
		{Effect: effectchain.DefaultReverb(), StartSeconds: 0, EndSeconds: 0.5},
		{Effect: effectchain.DefaultChorus(), StartSeconds: 0, EndSeconds: 0.5},
	}
	res, err := New(b).Run(context.Background(), "in.wav", "out.wav", steps)
	if !errors.Is(err, codec.ErrEncode) {
		t.Fatalf("err = %v, want ErrEncode", err)
	}
	var se *StepError
	if !errors.As(err, &se) || se.Index != 2 || se.Kind != effectchain.KindReverb {
		t.Fatalf("unexpected step error %v", err)
	}
	if !strings.Contains(err.Error(), "step 2 (reverb)") {
		t.Fatalf("error text %q", err.Error())
	}
	if res.Applied != 1 || res.Output != "out.wav" {
		t.Fatalf("Applied=%d Output=%q", res.Applied, res.Output)
	}
	if _, ok := b.files["out.wav"]; !ok {
		t.Fatal("output of the successful step is missing")
	}
	requireCalls(t, b.callLog(), []string{
		"decode in.wav", "encode out.wav",
		"decode out.wav", "encode out.wav",
	})
}

func TestRunDecodeFailure(t *testing.T) {
	b := newMemBridge(map[string]signal.Signal{})
	res, err := New(b).Run(context.Background(), "missing.mp3", "out.wav", []Step{
		{Effect: effectchain.DefaultHighShelf, StartSeconds: 0, EndSeconds: 1},
	})
	if !errors.Is(err, codec.ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
	if res.Output != "" || res.Applied != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if b.encodes != 0 {
		t.Fatalf("encodes = %d", b.encodes)
	}
}

func TestRunCanceled(t *testing.T) {
	b := toneBridge()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(b).Run(ctx, "in.wav", "out.wav", []Step{
		{Effect: effectchain.DefaultCompressor(), StartSeconds: 0, EndSeconds: 1},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls := b.callLog(); len(calls) != 0 {
		t.Fatalf("calls = %v", calls)
	}
}

func TestRunSilentTrack(t *testing.T) {
	b := newMemBridge(map[string]signal.Signal{"in.wav": signal.Silence(8000, 4000)})
	mp, reader := observe.NewManualProvider()
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	res, err := New(b, WithMetrics(m)).Run(context.Background(), "in.wav", "out.wav", []Step{
		{Effect: effectchain.DefaultLowShelf, StartSeconds: 0, EndSeconds: 0.5},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	st := res.Steps[0]
	if !st.Silent || len(st.Warnings) != 1 || !strings.Contains(st.Warnings[0], "silent") {
		t.Fatalf("unexpected step result %+v", st)
	}
	for _, v := range b.files["out.wav"].Samples {
		if v != 0 {
			t.Fatalf("silent output has sample %f", v)
		}
	}

	points, err := observe.Collect(context.Background(), reader)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !hasPoint(points, "regionfx.steps.silent", "effect=lowshelf", 1) {
		t.Fatalf("silent step not counted: %+v", points)
	}
}

func TestRunRecordsMetrics(t *testing.T) {
	b := toneBridge()
	b.failEncodeAt = 2
	mp, reader := observe.NewManualProvider()
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	_, _ = New(b, WithMetrics(m)).Run(context.Background(), "in.wav", "out.wav", []Step{
		{Effect: effectchain.DefaultReverb(), StartSeconds: 0, EndSeconds: 0.5},
		{Effect: effectchain.DefaultChorus(), StartSeconds: 0, EndSeconds: 0.5},
	})

	points, err := observe.Collect(context.Background(), reader)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	for _, want := range []struct {
		name, attrs string
		count       int64
	}{
		{"regionfx.steps", "effect=reverb,status=ok", 1},
		{"regionfx.steps", "effect=chorus,status=error", 1},
		{"regionfx.samples.processed", "effect=reverb", 4000},
		{"regionfx.codec.duration", "op=decode", 2},
		{"regionfx.codec.duration", "op=encode", 1},
	} {
		if !hasPoint(points, want.name, want.attrs, want.count) {
			t.Errorf("missing %s{%s}=%d in %+v", want.name, want.attrs, want.count, points)
		}
	}
}

func hasPoint(points []observe.Point, name, attrs string, count int64) bool {
	for _, p := range points {
		if p.Name == name && p.Attributes == attrs && p.Count == count {
			return true
		}
	}
	return false
}

func TestRunCapturesAnalysis(t *testing.T) {
	b := toneBridge()
	opts := analysis.DefaultOptions()
	opts.Spectrogram = false
	opts.FFTSize = 1024

	res, err := New(b, WithAnalysis(opts)).Run(context.Background(), "in.wav", "out.wav", []Step{
		{Effect: effectchain.DefaultMidPeak, StartSeconds: 0.25, EndSeconds: 0.75},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	rep := res.Steps[0].Analysis
	if rep == nil {
		t.Fatal("analysis report missing")
	}
	if rep.Effect != "midpeak" || rep.Band != analysis.BandMids {
		t.Fatalf("effect=%q band=%+v", rep.Effect, rep.Band)
	}
	if rep.Region.StartSample != 2000 || rep.Region.EndSample != 6000 {
		t.Fatalf("region view %+v", rep.Region)
	}
}

func TestRunLogsSteps(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	_, err = New(toneBridge(), WithLogger(logger)).Run(context.Background(), "in.wav", "out.wav", []Step{
		{Effect: effectchain.DefaultCompressor(), StartSeconds: 0, EndSeconds: 1},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"msg":"step done"`, `"component":"pipeline"`, `"effect":"compressor"`, `"msg":"run complete"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}
