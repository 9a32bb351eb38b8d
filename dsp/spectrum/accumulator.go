package spectrum

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

var errMismatchedLength = errors.New("spectrum: slices must have the same length")

// Accumulator sums per-bin power across blocks and reports the mean.
//
// It is owned by a single goroutine; callers that compute blocks in parallel
// must serialize Add.
type Accumulator struct {
	sum    []float64
	blocks int64
}

// NewAccumulator returns a zeroed accumulator with the given bin count.
func NewAccumulator(bins int) (*Accumulator, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("spectrum: accumulator needs > 0 bins: %d", bins)
	}
	return &Accumulator{sum: make([]float64, bins)}, nil
}

// Add accumulates one block's per-bin power.
func (a *Accumulator) Add(power []float64) error {
	if len(power) != len(a.sum) {
		return fmt.Errorf("%w: power=%d bins=%d", errMismatchedLength, len(power), len(a.sum))
	}

	vecmath.AddBlockInPlace(a.sum, power)
	a.blocks++

	return nil
}

// Mean returns the per-bin sums divided by the number of blocks. With no
// blocks added it returns all zeros.
func (a *Accumulator) Mean() []float64 {
	out := make([]float64, len(a.sum))
	if a.blocks == 0 {
		return out
	}

	vecmath.ScaleBlock(out, a.sum, 1/float64(a.blocks))

	return out
}
