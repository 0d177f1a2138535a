package config

import (
	"errors"
	"fmt"

	"github.com/cwbudde/regionfx/dsp/dither"
	"github.com/cwbudde/regionfx/dsp/window"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateProcessing(); err != nil {
		return err
	}
	return c.validateAnalysis()
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json: %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateProcessing() error {
	p := c.Processing
	if p.Workers < 0 {
		return errors.New("processing.workers must be >= 0")
	}
	if p.ParallelThreshold < 0 {
		return errors.New("processing.parallel_threshold must be >= 0")
	}
	switch p.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("processing.bit_depth must be 16, 24 or 32: %d", p.BitDepth)
	}
	if _, err := dither.ParseDitherType(p.Dither); err != nil {
		return fmt.Errorf("processing.dither: %w", err)
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if _, err := window.ParseType(c.Analysis.Window); err != nil {
		return fmt.Errorf("analysis.window: %w", err)
	}
	_, err := c.AnalysisOptions()
	return err
}
