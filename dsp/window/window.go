package window

import (
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

// Metadata holds spectral properties of a window type.
type Metadata struct {
	Name            string
	ENBW            float64
	HighestSidelobe float64
	CoherentGain    float64
}

var metadataByType = map[Type]Metadata{
	TypeRectangular: {Name: "Rectangular", ENBW: 1, HighestSidelobe: -13.3, CoherentGain: 1},
	TypeHann:        {Name: "Hann", ENBW: 1.5, HighestSidelobe: -31.5, CoherentGain: 0.5},
	TypeHamming:     {Name: "Hamming", ENBW: 1.3628, HighestSidelobe: -42.7, CoherentGain: 0.54},
	TypeBlackman:    {Name: "Blackman", ENBW: 1.7268, HighestSidelobe: -58.1, CoherentGain: 0.42},
}

var (
	hannCoeffs     = []float64{0.5, -0.5}
	hammingCoeffs  = []float64{0.54, -0.46}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
//
// The symmetric form, the default, divides the phase by N-1 so that both end
// points are zero for Hann.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic))
	}

	return out
}

// Generate32 returns single-precision window coefficients, computed in double
// precision and rounded once.
func Generate32(t Type, length int, opts ...Option) []float32 {
	w := Generate(t, length, opts...)
	if w == nil {
		return nil
	}

	out := make([]float32, len(w))
	for i, v := range w {
		out[i] = float32(v)
	}

	return out
}

// Hann returns symmetric Hann coefficients w[i] = 0.5*(1 - cos(2πi/(N-1))).
func Hann(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHann, size, opts...), validateLength(size)
}

// Info returns static metadata for a window type.
func Info(t Type) Metadata {
	if m, ok := metadataByType[t]; ok {
		return m
	}

	return Metadata{}
}

// ParseType resolves a window name such as "hann" or "blackman".
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rectangular", "rect", "none":
		return TypeRectangular, nil
	case "hann", "hanning":
		return TypeHann, nil
	case "hamming":
		return TypeHamming, nil
	case "blackman":
		return TypeBlackman, nil
	default:
		return 0, unknownType(name)
	}
}

// Apply multiplies buf in place by precomputed coefficients.
func Apply(buf, coeffs []float64) error {
	if len(buf) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(buf, coeffs)

	return nil
}

// ApplyComplex weights both components of every complex sample by the
// matching coefficient.
func ApplyComplex(samples []complex64, coeffs []float32) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	for i, c := range coeffs {
		samples[i] = complex(real(samples[i])*c, imag(samples[i])*c)
	}

	return nil
}

// EquivalentNoiseBandwidth returns the ENBW in bins for a window.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	sumSquares := 0.0

	for _, c := range coeffs {
		sum += c
		sumSquares += c * c
	}

	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return float64(len(coeffs)) * sumSquares / (sum * sum), nil
}

func evalWindow(t Type, x float64) float64 {
	switch t {
	case TypeRectangular:
		return 1
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		return cosineFromCoeffs(x, blackmanCoeffs)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	// Blackman's end points land a few ulps below zero.
	return math.Max(0, sum)
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}
