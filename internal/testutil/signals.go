package testutil

import (
	"encoding/binary"
	"math"
	"math/rand"
)

// IQNoise generates an interleaved block of uniform I/Q noise with a fixed
// seed, 2*samples values long.
func IQNoise(seed int64, amplitude float32, samples int) []float32 {
	out := make([]float32, 2*samples)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float32()*2 - 1) * amplitude
	}
	return out
}

// IQTone generates an interleaved complex exponential that completes cycles
// full turns over samples.
func IQTone(cycles float64, amplitude float32, samples int) []float32 {
	out := make([]float32, 2*samples)
	step := 2 * math.Pi * cycles / float64(samples)
	for k := 0; k < samples; k++ {
		out[2*k] = amplitude * float32(math.Cos(step*float64(k)))
		out[2*k+1] = amplitude * float32(math.Sin(step*float64(k)))
	}
	return out
}

// IQImpulse generates an interleaved block with I[pos] = 1 and all else zero.
func IQImpulse(samples, pos int) []float32 {
	out := make([]float32, 2*samples)
	if pos >= 0 && pos < samples {
		out[2*pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float32, length int) []float32 {
	out := make([]float32, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Stream concatenates float32 blocks into a little-endian byte stream, the
// on-disk format of a capture.
func Stream(blocks ...[]float32) []byte {
	var b []byte
	for _, blk := range blocks {
		for _, v := range blk {
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
		}
	}
	return b
}

// DecodeStream is the inverse of Stream.
func DecodeStream(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}
