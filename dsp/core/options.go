package core

import "runtime"

// DefaultParallelThreshold is the buffer length below which processors that
// can fan out over workers stay on the calling goroutine.
const DefaultParallelThreshold = 1 << 16

// ProcessorConfig defines execution settings shared by block processors.
type ProcessorConfig struct {
	// Workers bounds the number of goroutines used by parallel processors.
	// Values < 1 mean one worker per CPU.
	Workers int
	// ParallelThreshold is the minimum buffer length that triggers fan-out.
	ParallelThreshold int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns one worker per CPU and the default threshold.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		Workers:           runtime.GOMAXPROCS(0),
		ParallelThreshold: DefaultParallelThreshold,
	}
}

// WithWorkers sets the worker bound. Values < 1 are ignored.
func WithWorkers(n int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if n > 0 {
			cfg.Workers = n
		}
	}
}

// WithParallelThreshold sets the fan-out threshold. Negative values are ignored.
func WithParallelThreshold(samples int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if samples >= 0 {
			cfg.ParallelThreshold = samples
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Chunks splits [0, n) into at most cfg.Workers contiguous ranges. It returns a
// single range when n is below the parallel threshold.
func (cfg ProcessorConfig) Chunks(n int) [][2]int {
	if n <= 0 {
		return nil
	}
	workers := cfg.Workers
	if workers < 1 || n < cfg.ParallelThreshold {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	size := (n + workers - 1) / workers
	out := make([][2]int, 0, workers)
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, [2]int{lo, hi})
	}
	return out
}
