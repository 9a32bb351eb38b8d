package spectrum

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// DBEpsilon is added to linear power before taking the logarithm so that
// empty bins map to a finite floor (-100 dB) instead of -Inf.
const DBEpsilon = 1e-10

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// PowerInto computes |X[k]|^2 in double precision into dst.
//
// Scratch buffers are pooled internally, so in steady state this does not
// allocate. dst and bins must have the same length.
func PowerInto(dst []float64, bins []complex64) {
	if len(dst) != len(bins) {
		panic(errMismatchedLength)
	}
	if len(bins) == 0 {
		return
	}

	re, im, buf := getScratch(len(bins))
	for i, c := range bins {
		re[i] = float64(real(c))
		im[i] = float64(imag(c))
	}

	vecmath.Power(dst, re, im)
	putScratch(buf)
}

// PowerDB32 computes 10*log10(|X[k]|^2 + DBEpsilon) for the first len(dst)
// bins. Passing a dst of length N/2+1 yields the non-negative-frequency half.
func PowerDB32(dst []float32, bins []complex64) {
	if len(dst) > len(bins) {
		panic(errMismatchedLength)
	}
	for i := range dst {
		re := float64(real(bins[i]))
		im := float64(imag(bins[i]))
		dst[i] = float32(10 * math.Log10(re*re+im*im+DBEpsilon))
	}
}

// RealPower squares real-valued transform output into dst.
func RealPower(dst []float64, values []float32) {
	if len(dst) != len(values) {
		panic(errMismatchedLength)
	}
	for i, v := range values {
		x := float64(v)
		dst[i] = x * x
	}
}

// HalfLen returns the number of non-negative-frequency bins, N/2+1, of an
// N-point transform.
func HalfLen(n int) int {
	return n/2 + 1
}
