package engine

import (
	"fmt"

	"github.com/cwbudde/algo-iqspec/dsp/iq"
	"github.com/cwbudde/algo-iqspec/dsp/transform"
)

// Frame carries the result of one block from a Kernel to its Reducer.
type Frame struct {
	// Index is the zero-based block number.
	Index int64
	// Values holds per-sample or per-bin output that is streamed as is.
	Values []float32
	// Power holds the per-bin contribution to a spectrum accumulator.
	Power []float64
	// Scalar holds a per-block summary value.
	Scalar float64
}

func (f *Frame) values(n int) []float32 {
	if cap(f.Values) < n {
		f.Values = make([]float32, n)
	}
	f.Values = f.Values[:n]
	return f.Values
}

func (f *Frame) power(n int) []float64 {
	if cap(f.Power) < n {
		f.Power = make([]float64, n)
	}
	f.Power = f.Power[:n]
	return f.Power
}

// Kernel computes a Frame from one block. A Kernel owns its scratch buffers
// and transform plan and is used by one goroutine at a time.
type Kernel interface {
	Compute(block []float32, f *Frame) error
	Close() error
}

// Reducer is one analysis mode. Run calls Start once, Emit once per block in
// strictly increasing block order, and Finish once after the last block.
type Reducer interface {
	Mode() Mode
	SamplesPerBlock() int
	// BlockLen is the number of float32 values consumed per block.
	BlockLen() int
	NewKernel() (Kernel, error)
	Start() error
	Emit(f *Frame) error
	Finish() error
}

// FloatSink receives streamed float32 output.
type FloatSink interface {
	Name() string
	WriteFloat32s(values []float32) error
	Flush() error
}

// HeaderSink is a FloatSink that can also write an int32 stream header.
type HeaderSink interface {
	FloatSink
	WriteInt32(v int32) error
}

// LineSink receives "<index>\t<value>" text output.
type LineSink interface {
	Name() string
	WriteLine(index int64, value float64) error
	Flush() error
}

// backendReporter is implemented by kernels that own a transform plan.
type backendReporter interface {
	Backend() transform.Backend
}

func validateBlock(n int) error {
	if err := iq.ValidateSamplesPerBlock(n); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	return nil
}

func flush(s interface {
	Name() string
	Flush() error
},
) error {
	return sinkError(s.Name(), s.Flush())
}
