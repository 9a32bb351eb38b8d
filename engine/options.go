package engine

import "github.com/cwbudde/algo-iqspec/internal/logging"

// DefaultProgressEvery is the number of blocks between progress callbacks.
const DefaultProgressEvery = 100

// ProgressFunc observes a run. blocks is the number of blocks emitted so far;
// total is the caller's estimate, or 0 when unknown.
type ProgressFunc func(blocks, total int64)

// RunConfig holds the settings of one Run.
type RunConfig struct {
	Workers        int
	ProgressEvery  int64
	EstimatedTotal int64
	Progress       ProgressFunc
	Logger         logging.Logger
}

// Option mutates a RunConfig.
type Option func(*RunConfig)

// DefaultRunConfig returns a sequential run without progress reporting.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Workers:       1,
		ProgressEvery: DefaultProgressEvery,
		Logger:        logging.Nop(),
	}
}

// WithWorkers computes up to n blocks concurrently. n <= 1 keeps the run
// sequential; negative values are rejected by Run.
func WithWorkers(n int) Option {
	return func(cfg *RunConfig) { cfg.Workers = n }
}

// WithProgress installs a progress callback, invoked every ProgressEvery
// blocks and once at the end of the run.
func WithProgress(fn ProgressFunc) Option {
	return func(cfg *RunConfig) { cfg.Progress = fn }
}

// WithProgressEvery sets the progress interval in blocks.
func WithProgressEvery(blocks int64) Option {
	return func(cfg *RunConfig) { cfg.ProgressEvery = blocks }
}

// WithEstimatedTotal passes a predicted block count through to the progress
// callback. It never bounds the read loop.
func WithEstimatedTotal(blocks int64) Option {
	return func(cfg *RunConfig) { cfg.EstimatedTotal = blocks }
}

// WithLogger sets the logger for run-level debug events.
func WithLogger(l logging.Logger) Option {
	return func(cfg *RunConfig) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) RunConfig {
	cfg := DefaultRunConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (cfg RunConfig) validate() error {
	if cfg.Workers < 0 {
		return invalidf("workers must be >= 0: %d", cfg.Workers)
	}
	if cfg.ProgressEvery <= 0 {
		return invalidf("progress interval must be > 0: %d", cfg.ProgressEvery)
	}
	return nil
}
