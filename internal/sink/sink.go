// Package sink implements the buffered output writers the engine emits into:
// raw little-endian float32 streams and "<index>\t<value>" text lines.
package sink

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const defaultBufferSize = 1 << 16

var errNilWriter = errors.New("sink: nil writer")

// Binary writes float32 values as little-endian bytes.
type Binary struct {
	name  string
	w     *bufio.Writer
	buf   []byte
	count int64
}

// NewBinary wraps w in a buffered float32 writer. name identifies the sink
// in error reports.
func NewBinary(name string, w io.Writer) (*Binary, error) {
	if w == nil {
		return nil, errNilWriter
	}
	return &Binary{name: name, w: bufio.NewWriterSize(w, defaultBufferSize)}, nil
}

// Name returns the sink name.
func (b *Binary) Name() string { return b.name }

// Count returns the number of float32 values written so far.
func (b *Binary) Count() int64 { return b.count }

// WriteFloat32s appends values to the stream.
func (b *Binary) WriteFloat32s(values []float32) error {
	need := 4 * len(values)
	if cap(b.buf) < need {
		b.buf = make([]byte, need)
	}
	buf := b.buf[:need]
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	if _, err := b.w.Write(buf); err != nil {
		return err
	}
	b.count += int64(len(values))
	return nil
}

// WriteInt32 writes a little-endian int32, used for stream headers.
func (b *Binary) WriteInt32(v int32) error {
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(v))
	_, err := b.w.Write(hdr[:])
	return err
}

// Flush writes any buffered data to the underlying writer.
func (b *Binary) Flush() error {
	return b.w.Flush()
}

// Format selects the value notation of a Text sink.
type Format int

const (
	// Fixed prints values like %f.
	Fixed Format = iota
	// Exponent prints values like %e.
	Exponent
)

// Text writes one "<index>\t<value>" line per call.
type Text struct {
	name   string
	w      *bufio.Writer
	format string
	lines  int64
}

// NewText wraps w in a buffered line writer.
func NewText(name string, w io.Writer, format Format) (*Text, error) {
	if w == nil {
		return nil, errNilWriter
	}
	f := "%d\t%f\n"
	if format == Exponent {
		f = "%d\t%e\n"
	}
	return &Text{name: name, w: bufio.NewWriterSize(w, defaultBufferSize), format: f}, nil
}

// Name returns the sink name.
func (t *Text) Name() string { return t.name }

// Lines returns the number of lines written so far.
func (t *Text) Lines() int64 { return t.lines }

// WriteLine writes a single index/value line.
func (t *Text) WriteLine(index int64, value float64) error {
	if _, err := fmt.Fprintf(t.w, t.format, index, value); err != nil {
		return err
	}
	t.lines++
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (t *Text) Flush() error {
	return t.w.Flush()
}
