// Package config holds the iqspec runtime configuration, loaded through viper
// from defaults, an optional iqspec.yaml, IQSPEC_* environment variables and
// command-line flags.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/cwbudde/algo-iqspec/dsp/window"
	"github.com/cwbudde/algo-iqspec/engine"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "IQSPEC"

// Power output types.
const (
	PowerSum  = "sum"
	PowerRaw  = "raw"
	PowerBoth = "both"
)

// Config represents the application configuration.
type Config struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// OutputDir is where output files are created. Empty means the current
	// directory.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Workers is the number of blocks computed concurrently. 0 uses one
	// worker per CPU; 1 is sequential.
	Workers       int   `mapstructure:"workers" yaml:"workers"`
	ProgressEvery int64 `mapstructure:"progress_every" yaml:"progress_every"`

	// Summary writes a YAML run summary next to each output.
	Summary bool `mapstructure:"summary" yaml:"summary"`

	Spectrogram SpectrogramConfig `mapstructure:"spectrogram" yaml:"spectrogram"`
	Power       PowerConfig       `mapstructure:"power" yaml:"power"`
}

// SpectrogramConfig contains spectrogram settings.
type SpectrogramConfig struct {
	Window string `mapstructure:"window" yaml:"window"`
	Layout string `mapstructure:"layout" yaml:"layout"`
	Header bool   `mapstructure:"header" yaml:"header"`
}

// PowerConfig contains power mode settings.
type PowerConfig struct {
	OutputType string `mapstructure:"output_type" yaml:"output_type"`
}

// SetDefaults registers default values for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("output_dir", "")
	v.SetDefault("workers", 1)
	v.SetDefault("progress_every", engine.DefaultProgressEvery)
	v.SetDefault("summary", false)

	v.SetDefault("spectrogram.window", "hann")
	v.SetDefault("spectrogram.layout", string(engine.LayoutReal))
	v.SetDefault("spectrogram.header", true)

	v.SetDefault("power.output_type", PowerSum)
}

// Default returns the configuration produced by SetDefaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, _ := Load(v)
	return cfg
}

// Load decodes the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func Validate(cfg *Config) error {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error: %q", cfg.LogLevel)
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json: %q", cfg.LogFormat)
	}

	if cfg.Workers < 0 {
		return fmt.Errorf("workers cannot be negative: %d", cfg.Workers)
	}

	if cfg.ProgressEvery <= 0 {
		return fmt.Errorf("progress interval must be positive: %d", cfg.ProgressEvery)
	}

	if _, err := window.ParseType(cfg.Spectrogram.Window); err != nil {
		return fmt.Errorf("spectrogram window: %w", err)
	}

	if _, err := engine.ParseLayout(cfg.Spectrogram.Layout); err != nil {
		return fmt.Errorf("spectrogram layout: %w", err)
	}

	switch cfg.Power.OutputType {
	case PowerSum, PowerRaw, PowerBoth:
	default:
		return fmt.Errorf("power output type must be sum, raw or both: %q", cfg.Power.OutputType)
	}

	return nil
}

// EffectiveWorkers resolves Workers == 0 to the CPU count.
func (c *Config) EffectiveWorkers() int {
	if c.Workers == 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}
