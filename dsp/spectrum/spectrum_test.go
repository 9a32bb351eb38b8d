package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-iqspec/internal/testutil"
)

func TestPowerInto(t *testing.T) {
	bins := []complex64{3 + 4i, -1 - 1i, 0, 0.5}

	p64 := make([]float64, len(bins))
	PowerInto(p64, bins)
	testutil.RequireSliceNearlyEqual(t, p64, []float64{25, 2, 0, 0.25}, 1e-12)

	// Reused scratch must not leak values between calls of different size.
	p1 := make([]float64, 1)
	PowerInto(p1, bins[1:2])
	testutil.RequireSliceNearlyEqual(t, p1, []float64{2}, 1e-12)
}

func TestPowerDB32UsesEpsilonFloor(t *testing.T) {
	bins := []complex64{0, 10, 1i, 99}
	db := make([]float32, 3)
	PowerDB32(db, bins)

	want := []float64{-100, 20, 0}
	testutil.RequireSliceNearlyEqual(t, testutil.Widen(db), want, 1e-4)
	for i, v := range db {
		if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) {
			t.Fatalf("db[%d] = %v", i, v)
		}
	}
}

func TestRealPower(t *testing.T) {
	dst := make([]float64, 3)
	RealPower(dst, []float32{-2, 0, 0.5})
	testutil.RequireSliceNearlyEqual(t, dst, []float64{4, 0, 0.25}, 0)
}

func TestHalfLen(t *testing.T) {
	tests := map[int]int{2: 2, 3: 2, 4: 3, 1800: 901}
	for n, want := range tests {
		if got := HalfLen(n); got != want {
			t.Fatalf("HalfLen(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestPowerIntoPanicsOnMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	PowerInto(make([]float64, 2), make([]complex64, 3))
}
