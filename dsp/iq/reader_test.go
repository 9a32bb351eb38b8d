package iq

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/cwbudde/algo-iqspec/internal/testutil"
)

func TestReaderDropsTrailingPartialBlock(t *testing.T) {
	const n = 4
	for _, r := range []int{1, 3, 7} {
		stream := testutil.Stream(
			testutil.IQNoise(1, 1, n),
			testutil.IQNoise(2, 1, n),
			testutil.IQNoise(3, 1, n),
			make([]float32, r),
		)

		rd, err := NewReader(bytes.NewReader(stream), 2*n)
		if err != nil {
			t.Fatalf("NewReader: %v", err)
		}

		blocks := 0
		for {
			_, err := rd.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Fatalf("r=%d: unexpected error: %v", r, err)
			}
			blocks++
		}

		if blocks != 3 {
			t.Fatalf("r=%d: blocks = %d, want 3", r, blocks)
		}
		if rd.Dropped() != r {
			t.Fatalf("r=%d: Dropped = %d", r, rd.Dropped())
		}
		if rd.Blocks() != 3 {
			t.Fatalf("r=%d: Blocks = %d, want 3", r, rd.Blocks())
		}
	}
}

func TestReaderEmptyStream(t *testing.T) {
	rd, err := NewReader(bytes.NewReader(nil), 4)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	if _, err := rd.Next(); !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("Next error = %v, want EOF", err)
	}
	// Sticky after the first short read.
	if _, err := rd.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("second Next error = %v, want EOF", err)
	}
}

func TestReaderDecodesLittleEndian(t *testing.T) {
	want := []float32{3, 4, 0, 0}
	rd, err := NewReader(bytes.NewReader(testutil.Stream(want)), 4)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	got, err := rd.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	testutil.RequireFloat32sNearlyEqual(t, got, want, 0)
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestReaderPropagatesIOError(t *testing.T) {
	boom := errors.New("disk on fire")
	rd, err := NewReader(failingReader{boom}, 4)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	_, err = rd.Next()
	if !errors.Is(err, boom) {
		t.Fatalf("Next error = %v, want wrapped %v", err, boom)
	}
	if errors.Is(err, io.EOF) {
		t.Fatal("I/O failure must not look like end of stream")
	}
}

func TestValidateSamplesPerBlock(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		if err := ValidateSamplesPerBlock(n); !errors.Is(err, ErrBlockSize) {
			t.Fatalf("n=%d: err = %v, want ErrBlockSize", n, err)
		}
	}
	if err := ValidateSamplesPerBlock(MinSamplesPerBlock); err != nil {
		t.Fatalf("n=%d: %v", MinSamplesPerBlock, err)
	}
}

func TestReadIntoLengthMismatch(t *testing.T) {
	rd, _ := NewReader(bytes.NewReader(make([]byte, 64)), 4)
	if err := rd.ReadInto(make([]float32, 3)); err == nil {
		t.Fatal("expected error for mismatched buffer")
	}
}

func TestEstimateBlocks(t *testing.T) {
	tests := []struct {
		size          int64
		per           int
		blocks, trail int64
	}{
		{0, 4, 0, 0},
		{64, 4, 4, 0},
		{68, 4, 4, 1},
		{70, 4, 4, 1},
		{64, 0, 0, 0},
	}
	for _, tc := range tests {
		b, r := EstimateBlocks(tc.size, tc.per)
		if b != tc.blocks || r != tc.trail {
			t.Fatalf("EstimateBlocks(%d,%d) = %d,%d want %d,%d", tc.size, tc.per, b, r, tc.blocks, tc.trail)
		}
	}
}

func TestAppendFloat32sMatchesDecode(t *testing.T) {
	in := []float32{0.25, -1, 1e-7}
	b := AppendFloat32s(nil, in...)
	out := make([]float32, len(in))
	Decode(out, b)
	testutil.RequireFloat32sNearlyEqual(t, out, in, 0)
}
