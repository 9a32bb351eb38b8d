package iq

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	// BytesPerFloat is the on-disk size of one I or Q component.
	BytesPerFloat = 4
	// MinSamplesPerBlock is the smallest block the transform modes accept.
	MinSamplesPerBlock = 2
)

// Reader pulls fixed-size blocks of float32 values from a byte stream.
//
// The returned block slice is owned by the Reader and overwritten by the next
// call to Next. Use ReadInto to fill caller-owned memory instead.
type Reader struct {
	r       io.Reader
	size    int
	raw     []byte
	block   []float32
	blocks  int64
	dropped int
	done    bool
}

// NewReader returns a Reader that yields blocks of floatsPerBlock values.
func NewReader(r io.Reader, floatsPerBlock int) (*Reader, error) {
	if r == nil {
		return nil, errNilReader
	}
	if floatsPerBlock <= 0 {
		return nil, fmt.Errorf("iq: floats per block must be > 0: %d", floatsPerBlock)
	}

	return &Reader{
		r:     r,
		size:  floatsPerBlock,
		raw:   make([]byte, floatsPerBlock*BytesPerFloat),
		block: make([]float32, floatsPerBlock),
	}, nil
}

// BlockLen returns the number of float32 values per block.
func (r *Reader) BlockLen() int { return r.size }

// Blocks returns the number of full blocks read so far.
func (r *Reader) Blocks() int64 { return r.blocks }

// Dropped returns how many float32 values of the trailing partial block were
// discarded. It is only meaningful after Next has returned io.EOF.
func (r *Reader) Dropped() int { return r.dropped }

// Next reads the next full block.
func (r *Reader) Next() ([]float32, error) {
	if err := r.ReadInto(r.block); err != nil {
		return nil, err
	}
	return r.block, nil
}

// ReadInto reads the next full block into dst, which must hold BlockLen values.
// It returns io.EOF once fewer than BlockLen values remain.
func (r *Reader) ReadInto(dst []float32) error {
	if len(dst) != r.size {
		return fmt.Errorf("iq: block buffer holds %d values, want %d", len(dst), r.size)
	}
	if r.done {
		return io.EOF
	}

	n, err := io.ReadFull(r.r, r.raw)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		r.done = true
		r.dropped = n / BytesPerFloat
		return io.EOF
	default:
		return fmt.Errorf("iq: read block %d: %w", r.blocks, err)
	}

	Decode(dst, r.raw)
	r.blocks++

	return nil
}

// Decode converts little-endian float32 bytes into dst. len(src) must be
// 4*len(dst).
func Decode(dst []float32, src []byte) {
	if len(dst) == 0 {
		return
	}
	_ = src[len(dst)*BytesPerFloat-1]
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*BytesPerFloat:]))
	}
}

// AppendFloat32s appends the little-endian encoding of values to b.
func AppendFloat32s(b []byte, values ...float32) []byte {
	for _, v := range values {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

// EstimateBlocks predicts how many full blocks a stream of sizeBytes holds and
// how many float32 values trail the last one. The prediction is for progress
// reporting only; the block loop always runs until a short read.
func EstimateBlocks(sizeBytes int64, floatsPerBlock int) (blocks, trailing int64) {
	if sizeBytes <= 0 || floatsPerBlock <= 0 {
		return 0, 0
	}
	floats := sizeBytes / BytesPerFloat
	per := int64(floatsPerBlock)
	return floats / per, floats % per
}
