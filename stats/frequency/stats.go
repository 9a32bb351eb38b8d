// Package frequency summarizes a power spectrum produced by the block engine:
// where the peak sits, how much power the spectrum carries, and how flat it is.
package frequency

import (
	"math"

	"github.com/cwbudde/algo-iqspec/dsp/interp"
)

// Stats holds statistics computed from a linear power spectrum.
type Stats struct {
	BinCount int
	DC       float64 // bin 0 power
	DC_dB    float64
	Total    float64 // sum of bin powers
	Total_dB float64
	Mean     float64
	Mean_dB  float64
	Max      float64
	MaxBin   int
	Min      float64
	MinBin   int
	// PeakBin is MaxBin refined by parabolic interpolation over its
	// neighbours, in [0, BinCount).
	PeakBin float64
	// PeakOffset is the frequency of PeakBin relative to the capture's center
	// frequency in Hz, mapped according to the Axis used. Zero when no sample
	// rate is known.
	PeakOffset float64
	Flatness   float64 // spectral flatness (Wiener entropy), 0..1
}

// toDB converts a linear power value to decibels.
// Returns -Inf for non-positive values.
func toDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(v)
}

// Axis maps bin indices to baseband frequencies.
type Axis int

const (
	// AxisWrapped is the unshifted DFT layout: index i >= n/2 is the
	// negative frequency (i-n)*rate/n.
	AxisWrapped Axis = iota
	// AxisLinear maps index i to (i-n/2)*rate/n, from -rate/2 upwards. The
	// integrated spectrum's plotting tools read their .dat files this way.
	AxisLinear
)

// Offset returns the baseband frequency in Hz of a fractional bin position
// of an n-point spectrum.
func (a Axis) Offset(pos float64, n int, sampleRate float64) float64 {
	if a == AxisLinear {
		if n <= 0 || sampleRate <= 0 {
			return 0
		}
		return (pos - float64(n)/2) * sampleRate / float64(n)
	}
	return PositionOffset(pos, n, sampleRate)
}

// Option configures Calculate.
type Option func(*config)

type config struct {
	axis Axis
}

// WithAxis selects the bin-to-frequency mapping. The default is AxisWrapped.
func WithAxis(a Axis) Option {
	return func(c *config) {
		c.axis = a
	}
}

// BinOffset returns the baseband frequency of bin i of an n-point complex
// DFT in Hz. Bins at or above n/2 wrap to negative frequencies, the way an
// unshifted transform of I/Q data lays them out.
func BinOffset(i, n int, sampleRate float64) float64 {
	return PositionOffset(float64(i), n, sampleRate)
}

// PositionOffset is BinOffset for a fractional bin position.
func PositionOffset(pos float64, n int, sampleRate float64) float64 {
	if n <= 0 || sampleRate <= 0 {
		return 0
	}
	if pos >= float64(n)/2 {
		pos -= float64(n)
	}
	return pos * sampleRate / float64(n)
}

// Calculate computes spectrum statistics from a linear power spectrum of an
// n-point complex transform, n = len(power). sampleRate may be 0 when it is
// unknown, in which case PeakOffset stays 0.
func Calculate(power []float64, sampleRate float64, opts ...Option) Stats {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}


	n := len(power)
	if n == 0 {
		return Stats{
			DC_dB:    math.Inf(-1),
			Total_dB: math.Inf(-1),
			Mean_dB:  math.Inf(-1),
		}
	}

	var s Stats
	s.BinCount = n
	s.DC = power[0]
	s.DC_dB = toDB(s.DC)

	s.Min = power[0]
	s.Max = power[0]
	for i, v := range power {
		s.Total += v
		if v > s.Max {
			s.Max = v
			s.MaxBin = i
		}
		if v < s.Min {
			s.Min = v
			s.MinBin = i
		}
	}
	s.Total_dB = toDB(s.Total)
	s.Mean = s.Total / float64(n)
	s.Mean_dB = toDB(s.Mean)
	s.PeakBin, _ = interp.CircularPeak(power, s.MaxBin)
	s.PeakOffset = cfg.axis.Offset(s.PeakBin, n, sampleRate)
	s.Flatness = Flatness(power)

	return s
}

// Flatness returns the spectral flatness (Wiener entropy) in the range 0..1.
//
// Flatness = exp(mean(log(P_i))) / mean(P_i)
//
// DC bin (index 0) is excluded from the computation. If any considered bin
// is zero, 0 is returned.
func Flatness(power []float64) float64 {
	n := len(power)
	if n < 2 {
		return 0
	}

	nBins := float64(n - 1)
	sumLin := 0.0
	sumLog := 0.0
	for _, v := range power[1:] {
		if v <= 0 {
			return 0
		}
		sumLin += v
		sumLog += math.Log(v)
	}

	meanLin := sumLin / nBins
	if meanLin == 0 {
		return 0
	}
	return math.Exp(sumLog/nBins) / meanLin
}
