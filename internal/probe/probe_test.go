package probe

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "mp3", "codec_type": "audio", "sample_rate": "44100", "channels": 2, "duration": "12.500000"}
  ],
  "format": {"filename": "in.mp3", "duration": "12.512000", "format_name": "mp3"}
}`

func TestParseResult(t *testing.T) {
	res, err := parseResult([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("parseResult: %v", err)
	}
	if got := res.DurationSeconds(); got != 12.512 {
		t.Fatalf("DurationSeconds = %v, want 12.512", got)
	}
	if res.AudioStreamCount() != 1 {
		t.Fatalf("AudioStreamCount = %d", res.AudioStreamCount())
	}
}

func TestDurationFallsBackToStream(t *testing.T) {
	res := Result{
		Format:  Format{Duration: "N/A"},
		Streams: []Stream{{CodecType: "audio", Duration: "3.25"}, {CodecType: "video", Duration: "9"}},
	}
	if got := res.DurationSeconds(); got != 3.25 {
		t.Fatalf("DurationSeconds = %v, want 3.25", got)
	}
}

func TestParseResultInvalid(t *testing.T) {
	if _, err := parseResult([]byte("{")); !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
}

func TestInspectArgs(t *testing.T) {
	args := inspectArgs("song.mp3")
	if args[len(args)-1] != "song.mp3" || args[len(args)-2] != "--" {
		t.Fatalf("unexpected args %v", args)
	}
}

// TestHelperProcess is re-executed as a fake ffprobe.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("REGIONFX_HELPER_PROCESS") != "1" {
		return
	}
	if os.Getenv("REGIONFX_HELPER_FAIL") == "1" {
		os.Stderr.WriteString("boom")
		os.Exit(1)
	}
	os.Stdout.WriteString(sampleJSON)
	os.Exit(0)
}

func fakeCommand(fail bool) func(context.Context, string, ...string) *exec.Cmd {
	return func(ctx context.Context, _ string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--"}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append(os.Environ(), "REGIONFX_HELPER_PROCESS=1")
		if fail {
			cmd.Env = append(cmd.Env, "REGIONFX_HELPER_FAIL=1")
		}
		return cmd
	}
}

func TestFFprobeDuration(t *testing.T) {
	orig := commandContext
	t.Cleanup(func() { commandContext = orig })

	commandContext = fakeCommand(false)
	d, err := FFprobe{}.Duration(context.Background(), "in.mp3")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if d != 12.512 {
		t.Fatalf("Duration = %v, want 12.512", d)
	}

	commandContext = fakeCommand(true)
	if _, err := (FFprobe{Binary: "ffprobe"}).Duration(context.Background(), "in.mp3"); !errors.Is(err, ErrFetch) {
		t.Fatalf("failing probe: err = %v, want ErrFetch", err)
	}

	if _, err := (FFprobe{}).Duration(context.Background(), " "); !errors.Is(err, ErrFetch) {
		t.Fatalf("empty source: err = %v", err)
	}
}

func TestStatic(t *testing.T) {
	p := Static{"a": 2}
	if d, err := p.Duration(context.Background(), "a"); err != nil || d != 2 {
		t.Fatalf("Duration(a) = %v, %v", d, err)
	}
	if _, err := p.Duration(context.Background(), "b"); !errors.Is(err, ErrFetch) {
		t.Fatalf("Duration(b) err = %v", err)
	}
}
