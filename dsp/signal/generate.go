// Package signal synthesizes interleaved I/Q test captures: complex tones at
// fixed offsets from the center frequency plus optional uniform noise.
package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrInvalidConfig is returned by NewGenerator for unusable options.
var ErrInvalidConfig = errors.New("signal: invalid generator config")

// Tone is a complex exponential OffsetHz away from the center frequency.
// Negative offsets place the tone below the center.
type Tone struct {
	OffsetHz  float64
	Amplitude float64
}

// Generator produces phase-continuous I/Q samples. Successive Fill calls
// continue where the previous one stopped, so a capture may be written in
// blocks of any size.
type Generator struct {
	sampleRate float64
	seed       int64
	noise      float64
	tones      []Tone

	step  []float64
	phase []float64
	rng   *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSampleRate sets the complex sample rate in Hz.
func WithSampleRate(rate float64) Option {
	return func(g *Generator) {
		g.sampleRate = rate
	}
}

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithTone adds a tone.
func WithTone(offsetHz, amplitude float64) Option {
	return func(g *Generator) {
		g.tones = append(g.tones, Tone{OffsetHz: offsetHz, Amplitude: amplitude})
	}
}

// WithNoise sets the peak amplitude of the uniform noise added to both the
// I and the Q component.
func WithNoise(amplitude float64) Option {
	return func(g *Generator) {
		g.noise = amplitude
	}
}

// NewGenerator creates a configured generator. The sample rate defaults to
// 2.4 MHz. Tone offsets must lie within the Nyquist band [-rate/2, rate/2].
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		sampleRate: 2_400_000,
		seed:       1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	if g.sampleRate <= 0 || math.IsNaN(g.sampleRate) || math.IsInf(g.sampleRate, 0) {
		return nil, fmt.Errorf("%w: sample rate must be > 0: %g", ErrInvalidConfig, g.sampleRate)
	}
	if g.noise < 0 || math.IsNaN(g.noise) {
		return nil, fmt.Errorf("%w: noise amplitude must be >= 0: %g", ErrInvalidConfig, g.noise)
	}
	nyquist := g.sampleRate / 2
	for _, t := range g.tones {
		if math.IsNaN(t.OffsetHz) || math.Abs(t.OffsetHz) > nyquist {
			return nil, fmt.Errorf("%w: tone offset %g Hz outside +-%g Hz", ErrInvalidConfig, t.OffsetHz, nyquist)
		}
		if t.Amplitude < 0 || math.IsNaN(t.Amplitude) {
			return nil, fmt.Errorf("%w: tone amplitude must be >= 0: %g", ErrInvalidConfig, t.Amplitude)
		}
	}

	g.step = make([]float64, len(g.tones))
	g.phase = make([]float64, len(g.tones))
	for i, t := range g.tones {
		g.step[i] = 2 * math.Pi * t.OffsetHz / g.sampleRate
	}
	g.Reset()
	return g, nil
}

// SampleRate returns the configured sample rate in Hz.
func (g *Generator) SampleRate() float64 { return g.sampleRate }

// Seed returns the noise seed.
func (g *Generator) Seed() int64 { return g.seed }

// Tones returns a copy of the configured tones.
func (g *Generator) Tones() []Tone {
	return append([]Tone(nil), g.tones...)
}

// Reset rewinds all tone phases to zero and reseeds the noise source.
func (g *Generator) Reset() {
	for i := range g.phase {
		g.phase[i] = 0
	}
	g.rng = rand.New(rand.NewSource(g.seed))
}

// Fill overwrites block with len(block)/2 interleaved I/Q samples.
func (g *Generator) Fill(block []float32) error {
	if len(block)%2 != 0 {
		return fmt.Errorf("signal: block length must be even: %d", len(block))
	}

	for k := 0; k < len(block); k += 2 {
		var re, im float64
		for i, t := range g.tones {
			s, c := math.Sincos(g.phase[i])
			re += t.Amplitude * c
			im += t.Amplitude * s

			g.phase[i] += g.step[i]
			if g.phase[i] > math.Pi {
				g.phase[i] -= 2 * math.Pi
			} else if g.phase[i] < -math.Pi {
				g.phase[i] += 2 * math.Pi
			}
		}
		if g.noise > 0 {
			re += (g.rng.Float64()*2 - 1) * g.noise
			im += (g.rng.Float64()*2 - 1) * g.noise
		}
		block[k] = float32(re)
		block[k+1] = float32(im)
	}
	return nil
}
