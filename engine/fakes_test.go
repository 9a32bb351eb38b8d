package engine

import "errors"

var errDiskFull = errors.New("disk full")

// floatRecorder is an in-memory HeaderSink.
type floatRecorder struct {
	name    string
	header  []int32
	values  []float32
	writes  int
	failAt  int // fail the failAt-th write (1-based); 0 never fails
	flushed bool
}

func (r *floatRecorder) Name() string { return r.name }

func (r *floatRecorder) WriteFloat32s(values []float32) error {
	r.writes++
	if r.failAt > 0 && r.writes >= r.failAt {
		return errDiskFull
	}
	r.values = append(r.values, values...)
	return nil
}

func (r *floatRecorder) WriteInt32(v int32) error {
	r.header = append(r.header, v)
	return nil
}

func (r *floatRecorder) Flush() error {
	r.flushed = true
	return nil
}

type line struct {
	index int64
	value float64
}

// lineRecorder is an in-memory LineSink.
type lineRecorder struct {
	name     string
	lines    []line
	flushErr error
}

func (r *lineRecorder) Name() string { return r.name }

func (r *lineRecorder) WriteLine(index int64, value float64) error {
	r.lines = append(r.lines, line{index, value})
	return nil
}

func (r *lineRecorder) Flush() error { return r.flushErr }

func (r *lineRecorder) values() []float64 {
	out := make([]float64, len(r.lines))
	for i, l := range r.lines {
		out[i] = l.value
	}
	return out
}
