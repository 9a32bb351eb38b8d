package frequency

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b, tol float64) bool {
	if math.IsInf(a, -1) && math.IsInf(b, -1) {
		return true
	}
	return math.Abs(a-b) <= tol
}

// makeSingleBinSpectrum creates a spectrum of given length with a single
// non-zero bin at the specified index.
func makeSingleBinSpectrum(n, bin int, power float64) []float64 {
	p := make([]float64, n)
	if bin >= 0 && bin < n {
		p[bin] = power
	}
	return p
}

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil, 48000)
	if s.BinCount != 0 {
		t.Fatalf("expected BinCount=0, got %d", s.BinCount)
	}
	if !math.IsInf(s.DC_dB, -1) || !math.IsInf(s.Total_dB, -1) || !math.IsInf(s.Mean_dB, -1) {
		t.Fatalf("expected -Inf dB fields, got %+v", s)
	}
}

func TestCalculateSingleBin(t *testing.T) {
	s := Calculate(makeSingleBinSpectrum(8, 2, 64), 8000)

	if s.MaxBin != 2 || s.Max != 64 {
		t.Fatalf("peak: got bin=%d value=%g, want bin=2 value=64", s.MaxBin, s.Max)
	}
	if s.Total != 64 || s.Mean != 8 {
		t.Fatalf("Total/Mean: got=%g/%g want=64/8", s.Total, s.Mean)
	}
	if !almostEqual(s.PeakOffset, 2000, tolerance) {
		t.Fatalf("PeakOffset: got=%g want=2000", s.PeakOffset)
	}
	if s.Flatness != 0 {
		t.Fatalf("Flatness: got=%g want=0", s.Flatness)
	}
}

func TestCalculateUnknownRate(t *testing.T) {
	s := Calculate(makeSingleBinSpectrum(8, 3, 1), 0)
	if s.PeakOffset != 0 {
		t.Fatalf("PeakOffset without sample rate: got=%g want=0", s.PeakOffset)
	}
}

func TestCalculateDB(t *testing.T) {
	s := Calculate([]float64{100, 0, 0, 0}, 0)
	if !almostEqual(s.DC_dB, 20, tolerance) {
		t.Fatalf("DC_dB: got=%g want=20", s.DC_dB)
	}
	if !almostEqual(s.Mean_dB, 10*math.Log10(25), tolerance) {
		t.Fatalf("Mean_dB: got=%g want=%g", s.Mean_dB, 10*math.Log10(25))
	}
}

func TestBinOffset(t *testing.T) {
	tests := []struct {
		i, n int
		rate float64
		want float64
	}{
		{0, 8, 8000, 0},
		{1, 8, 8000, 1000},
		{3, 8, 8000, 3000},
		{4, 8, 8000, -4000},
		{7, 8, 8000, -1000},
		{2, 5, 5000, 2000},
		{3, 5, 5000, -2000},
		{1, 8, 0, 0},
	}
	for _, tc := range tests {
		got := BinOffset(tc.i, tc.n, tc.rate)
		if !almostEqual(got, tc.want, tolerance) {
			t.Fatalf("BinOffset(%d,%d,%g): got=%g want=%g", tc.i, tc.n, tc.rate, got, tc.want)
		}
	}
}

func TestFlatness(t *testing.T) {
	if f := Flatness([]float64{9, 2, 2, 2}); !almostEqual(f, 1, tolerance) {
		t.Fatalf("flat spectrum: got=%g want=1", f)
	}
	if f := Flatness([]float64{1}); f != 0 {
		t.Fatalf("single bin: got=%g want=0", f)
	}
	f := Flatness([]float64{0, 1, 4})
	want := 2.0 / 2.5
	if !almostEqual(f, want, tolerance) {
		t.Fatalf("two bins: got=%g want=%g", f, want)
	}
}

func TestCalculateRefinedPeak(t *testing.T) {
	s := Calculate([]float64{0, 1, 4, 2, 0, 0, 0, 0}, 8000)
	if s.MaxBin != 2 {
		t.Fatalf("MaxBin: got=%d want=2", s.MaxBin)
	}
	if !almostEqual(s.PeakBin, 2.1, tolerance) {
		t.Fatalf("PeakBin: got=%g want=2.1", s.PeakBin)
	}
	if !almostEqual(s.PeakOffset, 2100, 1e-6) {
		t.Fatalf("PeakOffset: got=%g want=2100", s.PeakOffset)
	}
}

func TestPositionOffsetWraps(t *testing.T) {
	if got := PositionOffset(7.5, 8, 8000); !almostEqual(got, -500, tolerance) {
		t.Fatalf("PositionOffset(7.5): got=%g want=-500", got)
	}
}

func TestCalculateLinearAxis(t *testing.T) {
	// Peak at index 2 of 8 bins at 8 kHz: -2 kHz on the linear axis,
	// +2 kHz when the spectrum is read as an unshifted DFT.
	power := makeSingleBinSpectrum(8, 2, 64)

	wrapped := Calculate(power, 8000)
	if !almostEqual(wrapped.PeakOffset, 2000, tolerance) {
		t.Fatalf("wrapped PeakOffset: got=%g want=2000", wrapped.PeakOffset)
	}

	linear := Calculate(power, 8000, WithAxis(AxisLinear))
	if !almostEqual(linear.PeakOffset, -2000, tolerance) {
		t.Fatalf("linear PeakOffset: got=%g want=-2000", linear.PeakOffset)
	}

	if got := AxisLinear.Offset(7, 8, 8000); !almostEqual(got, 3000, tolerance) {
		t.Fatalf("AxisLinear.Offset(7): got=%g want=3000", got)
	}
	if got := AxisLinear.Offset(0, 8, 0); got != 0 {
		t.Fatalf("AxisLinear.Offset without rate: got=%g want=0", got)
	}
}
