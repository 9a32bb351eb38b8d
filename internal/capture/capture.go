// Package capture resolves everything a run needs from an input path: the
// metadata gqrx encodes in its capture file names, the samples-per-block
// parameter, and the names of the files each mode writes.
package capture

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/algo-iqspec/dsp/iq"
)

var (
	// ErrNoMetadata reports a file name that does not follow the gqrx
	// capture naming scheme.
	ErrNoMetadata = errors.New("capture: file name carries no capture metadata")

	// ErrNoBlockSize reports that samples-per-block was neither given nor
	// derivable from the file name.
	ErrNoBlockSize = errors.New("capture: samples per block not given and not in file name")
)

const timestampLayout = "20060102_150405"

// Metadata is the information gqrx encodes in a capture file name:
//
//	gqrx_YYYYMMDD_HHMMSS_<centerHz>_<sampleRate>_fc_<object>.raw
type Metadata struct {
	Prefix     string    `yaml:"prefix"`
	Start      time.Time `yaml:"start"`
	CenterHz   int64     `yaml:"center_hz"`
	SampleRate int64     `yaml:"sample_rate"`
	Object     string    `yaml:"object,omitempty"`
}

// ParseName extracts capture metadata from the base name of path. The object
// name may itself contain underscores.
func ParseName(path string) (Metadata, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	fields := strings.Split(name, "_")
	if len(fields) < 5 {
		return Metadata{}, fmt.Errorf("%w: %q", ErrNoMetadata, name)
	}

	start, err := time.Parse(timestampLayout, fields[1]+"_"+fields[2])
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: timestamp: %w", ErrNoMetadata, err)
	}
	center, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: center frequency: %w", ErrNoMetadata, err)
	}
	rate, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil || rate <= 0 {
		return Metadata{}, fmt.Errorf("%w: sample rate %q", ErrNoMetadata, fields[4])
	}

	m := Metadata{Prefix: fields[0], Start: start, CenterHz: center, SampleRate: rate}
	rest := fields[5:]
	if len(rest) > 0 && rest[0] == "fc" {
		rest = rest[1:]
	}
	m.Object = strings.Join(rest, "_")

	return m, nil
}

// FormatName is the inverse of ParseName: it returns the base file name,
// with a .raw extension, that gqrx would give a capture with metadata m.
// An empty prefix defaults to "gqrx".
func FormatName(m Metadata) string {
	prefix := m.Prefix
	if prefix == "" {
		prefix = "gqrx"
	}
	name := fmt.Sprintf("%s_%s_%d_%d_fc", prefix, m.Start.Format(timestampLayout), m.CenterHz, m.SampleRate)
	if m.Object != "" {
		name += "_" + m.Object
	}
	return name + ".raw"
}

// RunConfig is the identity of one run: the block size and the base name
// outputs are derived from.
type RunConfig struct {
	Input           string    `yaml:"input"`
	Base            string    `yaml:"base"`
	SamplesPerBlock int       `yaml:"samples_per_block"`
	Metadata        *Metadata `yaml:"metadata,omitempty"`
}

// NewRunConfig resolves the run identity of input. An explicit block size
// (> 0) wins over the sample rate encoded in the file name.
func NewRunConfig(input string, explicit int) (RunConfig, error) {
	rc := RunConfig{
		Input: input,
		Base:  strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)),
	}
	if meta, err := ParseName(input); err == nil {
		rc.Metadata = &meta
	}

	switch {
	case explicit != 0:
		rc.SamplesPerBlock = explicit
	case rc.Metadata != nil:
		if rc.Metadata.SampleRate > math.MaxInt32 {
			return rc, fmt.Errorf("capture: sample rate %d too large for a block size", rc.Metadata.SampleRate)
		}
		rc.SamplesPerBlock = int(rc.Metadata.SampleRate)
	default:
		return rc, fmt.Errorf("%w: %s", ErrNoBlockSize, input)
	}

	if err := iq.ValidateSamplesPerBlock(rc.SamplesPerBlock); err != nil {
		return rc, err
	}
	return rc, nil
}

// SampleRate returns the capture sample rate in Hz, or 0 when unknown.
func (rc RunConfig) SampleRate() float64 {
	if rc.Metadata == nil {
		return 0
	}
	return float64(rc.Metadata.SampleRate)
}

// Output identifies one output file kind.
type Output int

const (
	Waterfall Output = iota
	AmplitudeSum
	PowerRaw
	PowerSum
	PowerSpectrum
	IntegratedSpectrum
	Spectrogram
)

var outputNames = map[Output]struct{ prefix, ext string }{
	Waterfall:          {"waterfall_", ".f32"},
	AmplitudeSum:       {"amplitude_", ".dat"},
	PowerRaw:           {"power_", ".f32"},
	PowerSum:           {"power_", ".dat"},
	PowerSpectrum:      {"power_spectrum_", ".f32"},
	IntegratedSpectrum: {"integrated_power_spectrum_", ".dat"},
	Spectrogram:        {"spectrogram_", ".f32"},
}

// OutputName returns the file name of an output kind for this run.
func (rc RunConfig) OutputName(o Output) string {
	n, ok := outputNames[o]
	if !ok {
		return fmt.Sprintf("output%d_%s", int(o), rc.Base)
	}
	return n.prefix + rc.Base + n.ext
}
