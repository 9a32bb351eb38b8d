package iq

import "math"

// Power returns I²+Q² in single precision.
func Power(i, q float32) float32 {
	return i*i + q*q
}

// Amplitude returns sqrt(I²+Q²) in single precision.
func Amplitude(i, q float32) float32 {
	return float32(math.Sqrt(float64(i*i + q*q)))
}

// PowerBlock writes I²+Q² for every sample of an interleaved block into dst.
// len(block) must be 2*len(dst).
func PowerBlock(dst, block []float32) {
	checkInterleaved(len(dst), len(block))
	for k := range dst {
		dst[k] = Power(block[2*k], block[2*k+1])
	}
}

// AmplitudeBlock writes sqrt(I²+Q²) for every sample of an interleaved block
// into dst. len(block) must be 2*len(dst).
func AmplitudeBlock(dst, block []float32) {
	checkInterleaved(len(dst), len(block))
	for k := range dst {
		dst[k] = Amplitude(block[2*k], block[2*k+1])
	}
}

// SumPower returns Σ(I²+Q²) over an interleaved block. Each term is the same
// single-precision value PowerBlock produces; the sum is carried in float64.
func SumPower(block []float32) float64 {
	sum := 0.0
	for k := 0; k+1 < len(block); k += 2 {
		sum += float64(Power(block[k], block[k+1]))
	}
	return sum
}

// MeanAmplitude returns Σ sqrt(I²+Q²) / N over an interleaved block of N
// samples.
func MeanAmplitude(block []float32) float64 {
	n := len(block) / 2
	if n == 0 {
		return 0
	}

	sum := 0.0
	for k := 0; k < n; k++ {
		sum += math.Sqrt(float64(Power(block[2*k], block[2*k+1])))
	}

	return sum / float64(n)
}

// ToComplex packs an interleaved block into complex samples I + jQ.
// len(block) must be 2*len(dst).
func ToComplex(dst []complex64, block []float32) {
	checkInterleaved(len(dst), len(block))
	for k := range dst {
		dst[k] = complex(block[2*k], block[2*k+1])
	}
}

// RealToComplex copies real values into dst with a zero imaginary part,
// rounding to single precision.
func RealToComplex[F float32 | float64](dst []complex64, values []F) {
	if len(dst) != len(values) {
		panic(errMismatchedBlock)
	}
	for k, v := range values {
		dst[k] = complex(float32(v), 0)
	}
}

func checkInterleaved(samples, floats int) {
	if floats != 2*samples {
		panic(errMismatchedBlock)
	}
}
