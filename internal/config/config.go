package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/dither"
	"github.com/cwbudde/regionfx/dsp/window"
	"github.com/cwbudde/regionfx/internal/analysis"
)

// Tools names the external executables.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Paths contains working directories.
type Paths struct {
	WorkDir string `toml:"work_dir"`
}

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Processing controls the effect runtime and output quantization.
type Processing struct {
	// Workers bounds parallel chunks for reverb and chorus; 0 means GOMAXPROCS.
	Workers           int    `toml:"workers"`
	ParallelThreshold int    `toml:"parallel_threshold"`
	BitDepth          int    `toml:"bit_depth"`
	Dither            string `toml:"dither"`
}

// Analysis controls before/after report capture.
type Analysis struct {
	Enabled     bool    `toml:"enabled"`
	PadSeconds  float64 `toml:"pad_seconds"`
	MaxPoints   int     `toml:"max_points"`
	FFTSize     int     `toml:"fft_size"`
	Window      string  `toml:"window"`
	Spectrogram bool    `toml:"spectrogram"`
}

// Config encapsulates all regionfx settings.
type Config struct {
	Tools      Tools      `toml:"tools"`
	Paths      Paths      `toml:"paths"`
	Logging    Logging    `toml:"logging"`
	Processing Processing `toml:"processing"`
	Analysis   Analysis   `toml:"analysis"`
}

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/regionfx/config.toml")
}

// Load locates, parses, and validates a configuration file.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("regionfx.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// ProcessorOptions returns the worker settings for the effect runtime.
func (c *Config) ProcessorOptions() []core.ProcessorOption {
	opts := []core.ProcessorOption{core.WithParallelThreshold(c.Processing.ParallelThreshold)}
	if c.Processing.Workers > 0 {
		opts = append(opts, core.WithWorkers(c.Processing.Workers))
	}
	return opts
}

// Quantizer builds the output quantizer.
func (c *Config) Quantizer() (*dither.Quantizer, error) {
	dt, err := dither.ParseDitherType(c.Processing.Dither)
	if err != nil {
		return nil, fmt.Errorf("processing.dither: %w", err)
	}
	return dither.NewQuantizer(dither.WithBitDepth(c.Processing.BitDepth), dither.WithDitherType(dt))
}

// AnalysisOptions converts the [analysis] section.
func (c *Config) AnalysisOptions() (analysis.Options, error) {
	w, err := window.ParseType(c.Analysis.Window)
	if err != nil {
		return analysis.Options{}, fmt.Errorf("analysis.window: %w", err)
	}
	opts := analysis.Options{
		PadSeconds:  c.Analysis.PadSeconds,
		MaxPoints:   c.Analysis.MaxPoints,
		FFTSize:     c.Analysis.FFTSize,
		Window:      w,
		Spectrogram: c.Analysis.Spectrogram,
	}
	return opts, opts.Validate()
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
