package config

import (
	"os"
	"path/filepath"

	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/spectrum"
)

const (
	defaultFFmpeg    = "ffmpeg"
	defaultFFprobe   = "ffprobe"
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
	defaultBitDepth  = 16
	defaultDither    = "none"
	defaultWindow    = "hann"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Tools: Tools{
			FFmpeg:  defaultFFmpeg,
			FFprobe: defaultFFprobe,
		},
		Paths: Paths{
			WorkDir: filepath.Join(os.TempDir(), "regionfx"),
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Processing: Processing{
			Workers:           0,
			ParallelThreshold: core.DefaultParallelThreshold,
			BitDepth:          defaultBitDepth,
			Dither:            defaultDither,
		},
		Analysis: Analysis{
			Enabled:     false,
			PadSeconds:  5,
			MaxPoints:   1000,
			FFTSize:     spectrum.DefaultFFTSize,
			Window:      defaultWindow,
			Spectrogram: true,
		},
	}
}
