// Package probe looks up media durations through an external probing tool.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// ErrFetch is returned when a duration cannot be obtained for a source.
var ErrFetch = errors.New("duration fetch failed")

// DurationProbe reports the duration of a source in seconds.
type DurationProbe interface {
	Duration(ctx context.Context, source string) (float64, error)
}

var commandContext = exec.CommandContext

// FFprobe queries durations with ffprobe's JSON output.
type FFprobe struct {
	// Binary is the ffprobe executable; empty means "ffprobe" on PATH.
	Binary string
}

// Result is the subset of ffprobe JSON the probe reads.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes one stream of the container.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Duration   string `json:"duration"`
}

// Format captures container-level metadata.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// DurationSeconds returns the container duration, falling back to the
// longest audio stream, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	if d := parseFloat(r.Format.Duration); d > 0 {
		return d
	}
	longest := 0.0
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, "audio") {
			longest = math.Max(longest, parseFloat(s.Duration))
		}
	}
	return longest
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	count := 0
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, "audio") {
			count++
		}
	}
	return count
}

// Inspect runs ffprobe against source and decodes its JSON report.
func (p FFprobe) Inspect(ctx context.Context, source string) (Result, error) {
	binary := strings.TrimSpace(p.Binary)
	if binary == "" {
		binary = "ffprobe"
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return Result{}, fmt.Errorf("ffprobe inspect: empty source: %w", ErrFetch)
	}

	cmd := commandContext(ctx, binary, inspectArgs(source)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s: %w", err, strings.TrimSpace(string(output)), ErrFetch)
	}
	return parseResult(output)
}

// Duration implements DurationProbe.
func (p FFprobe) Duration(ctx context.Context, source string) (float64, error) {
	res, err := p.Inspect(ctx, source)
	if err != nil {
		return 0, err
	}
	d := res.DurationSeconds()
	if d <= 0 {
		return 0, fmt.Errorf("ffprobe: no duration reported for %s: %w", source, ErrFetch)
	}
	return d, nil
}

func inspectArgs(source string) []string {
	return []string{"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", source}
}

func parseResult(output []byte) (Result, error) {
	var res Result
	if err := json.Unmarshal(output, &res); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w: %w", err, ErrFetch)
	}
	return res, nil
}

func parseFloat(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" || value == "N/A" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Static is a DurationProbe returning fixed durations, keyed by source.
// Sources without an entry fail with ErrFetch.
type Static map[string]float64

// Duration implements DurationProbe.
func (s Static) Duration(_ context.Context, source string) (float64, error) {
	d, ok := s[source]
	if !ok || d <= 0 {
		return 0, fmt.Errorf("static probe: %s: %w", source, ErrFetch)
	}
	return d, nil
}
