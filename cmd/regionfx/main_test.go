package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/regionfx/dsp/region"
	"github.com/cwbudde/regionfx/internal/codec"
)

type cliTestEnv struct {
	dir        string
	configPath string
	source     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Chdir(dir)

	configPath := filepath.Join(dir, "regionfx-test.toml")
	cfg := "[paths]\nwork_dir = " + quote(filepath.Join(dir, "work")) + "\n\n[logging]\nlevel = \"error\"\n"
	if err := os.WriteFile(configPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	source := filepath.Join(dir, "in.wav")
	pcm := make([]int, 8000)
	for i := range pcm {
		pcm[i] = int(math.Round(16000 * math.Sin(2*math.Pi*440*float64(i)/8000)))
	}
	if err := (codec.WAV{}).Encode(context.Background(), source, 8000, pcm, 16); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return &cliTestEnv{dir: dir, configPath: configPath, source: source}
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestApplyWritesOutputAndAnalysis(t *testing.T) {
	env := setupCLITestEnv(t)
	dest := filepath.Join(env.dir, "out", "result.wav")
	reportPath := filepath.Join(env.dir, "report.json")

	out, _, err := runCLI(t, env.configPath, "apply", env.source, dest,
		"--effect", "bass@0-0:00.5:gain_db=6",
		"-e", "reverb@0.25-",
		"--analysis", reportPath,
		"--metrics",
	)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	requireContains(t, out, "Bass Boost")
	requireContains(t, out, "Reverb")
	requireContains(t, out, "Wrote "+dest+" (2 of 2 effects)")
	requireContains(t, out, "regionfx.steps")

	sig, err := (codec.WAV{}).Decode(context.Background(), dest)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if sig.SampleRate != 8000 || sig.Len() != 8000 {
		t.Fatalf("output %d Hz, %d samples", sig.SampleRate, sig.Len())
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var reports []map[string]any
	if err := json.Unmarshal(data, &reports); err != nil {
		t.Fatalf("report json: %v", err)
	}
	if len(reports) != 2 || reports[0]["effect"] != "lowshelf" || reports[1]["effect"] != "reverb" {
		t.Fatalf("unexpected reports: %d entries", len(reports))
	}
}

func TestApplyJSONSummary(t *testing.T) {
	env := setupCLITestEnv(t)
	dest := filepath.Join(env.dir, "out.wav")

	requestPath := filepath.Join(env.dir, "effects.json")
	body := `{"effects": [{"effect_type": 6, "start_seconds": "0:00.5", "end_seconds": 30}]}`
	if err := os.WriteFile(requestPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write request: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "apply", env.source, dest, "--request", requestPath, "--json")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	var summary applySummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("summary json: %v\n%s", err, out)
	}
	if summary.Applied != 1 || summary.Output != dest || len(summary.Steps) != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	st := summary.Steps[0]
	if st.Effect != "chorus" || st.StartSample != 4000 || st.EndSample != 8000 {
		t.Fatalf("unexpected step %+v", st)
	}
}

func TestApplyRejectsInvalidRegionBeforeWriting(t *testing.T) {
	env := setupCLITestEnv(t)
	dest := filepath.Join(env.dir, "out.wav")

	_, _, err := runCLI(t, env.configPath, "apply", env.source, dest,
		"--effect", "mids@0-0:01",
		"--effect", "highs@0:05-0:01",
	)
	if !errors.Is(err, region.ErrInvalidRegion) {
		t.Fatalf("err = %v, want ErrInvalidRegion", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("destination written despite invalid request: %v", statErr)
	}
}

func TestApplyRequiresEffects(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env.configPath, "apply", env.source, filepath.Join(env.dir, "out.wav"))
	if err == nil || !strings.Contains(err.Error(), "no effects") {
		t.Fatalf("err = %v", err)
	}
}

func TestEffectsCommand(t *testing.T) {
	out, _, err := runCLI(t, "", "effects")
	if err != nil {
		t.Fatalf("effects: %v", err)
	}
	for _, want := range []string{"Bass Boost", "+10 dB below 150 Hz", "gain_db", "Chorus", "echoes"} {
		requireContains(t, out, want)
	}

	out, _, err = runCLI(t, "", "effects", "--json")
	if err != nil {
		t.Fatalf("effects --json: %v", err)
	}
	var infos []effectInfo
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("effects json: %v", err)
	}
	if len(infos) != 6 || infos[2].Name != "highshelf" {
		t.Fatalf("unexpected effects %+v", infos)
	}
}

func TestWindowsCommand(t *testing.T) {
	out, _, err := runCLI(t, "", "windows", "hann", "--size", "1024")
	if err != nil {
		t.Fatalf("windows: %v", err)
	}
	requireContains(t, out, "hann")
	requireContains(t, out, "1.5000")

	if _, _, err := runCLI(t, "", "windows", "kaiser"); err == nil {
		t.Fatal("expected error for unknown window")
	}
}

func TestConfigCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	requireContains(t, out, "[processing]")
	requireContains(t, out, "bit_depth = 16")
	requireContains(t, out, "work")

	out, _, err = runCLI(t, env.configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(env.dir, "init", "config.toml")
	out, _, err = runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote default configuration")
	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config exists")
	}

	out, _, err = runCLI(t, target, "config", "validate")
	if err != nil {
		t.Fatalf("validate written config: %v", err)
	}
	requireContains(t, out, target)
}

func TestProbeReportsToolFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	cfg := "[tools]\nffprobe = " + quote(filepath.Join(env.dir, "missing-ffprobe")) + "\n"
	if err := os.WriteFile(env.configPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err := runCLI(t, env.configPath, "probe", env.source)
	if err == nil || !strings.Contains(err.Error(), "ffprobe") {
		t.Fatalf("err = %v", err)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[processing]\nbit_depth = 12\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := runCLI(t, env.configPath, "config"); err == nil {
		t.Fatal("expected validation error")
	}
}
