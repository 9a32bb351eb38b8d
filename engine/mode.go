package engine

import (
	"fmt"
	"strings"
)

// Mode names an analysis performed on every block.
type Mode int

const (
	// ModeAmplitude streams sqrt(I²+Q²) per sample.
	ModeAmplitude Mode = iota + 1
	// ModePower streams I²+Q² per sample.
	ModePower
	// ModePowerSum writes Σ(I²+Q²) per block as a text line.
	ModePowerSum
	// ModePowerBoth writes the raw power stream and the per-block sums in
	// one pass.
	ModePowerBoth
	// ModeAmplitudeSum writes the mean amplitude per block as a text line.
	ModeAmplitudeSum
	// ModePowerSpectrum streams |FFT(block)|² for every bin.
	ModePowerSpectrum
	// ModeIntegrated writes the time-averaged squared half-complex-to-real
	// transform once at the end of the run.
	ModeIntegrated
	// ModeSpectrogram streams windowed dB spectrum rows of N/2+1 bins.
	ModeSpectrogram
)

var modeNames = []struct {
	mode Mode
	name string
}{
	{ModeAmplitude, "amplitude"},
	{ModePower, "power"},
	{ModePowerSum, "power-sum"},
	{ModePowerBoth, "power-both"},
	{ModeAmplitudeSum, "amplitude-sum"},
	{ModePowerSpectrum, "power-spectrum"},
	{ModeIntegrated, "integrated"},
	{ModeSpectrogram, "spectrogram"},
}

func (m Mode) String() string {
	for _, e := range modeNames {
		if e.mode == m {
			return e.name
		}
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Modes lists every analysis mode in declaration order.
func Modes() []Mode {
	out := make([]Mode, len(modeNames))
	for i, e := range modeNames {
		out[i] = e.mode
	}
	return out
}

// ParseMode maps a mode name back to its Mode.
func ParseMode(name string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, e := range modeNames {
		if e.name == key {
			return e.mode, nil
		}
	}
	return 0, invalidf("unknown mode %q", name)
}
