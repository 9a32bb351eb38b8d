package window

import (
	"math"
	"testing"
)

func TestGenerateAllTypes(t *testing.T) {
	types := []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman}

	for _, typ := range types {
		t.Run(Info(typ).Name, func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || v < 0 || v > 1 {
					t.Fatalf("coefficient[%d] outside [0,1]: %v", i, v)
				}
			}
		})
	}
}

func TestHannMatchesClosedForm(t *testing.T) {
	for _, n := range []int{2, 3, 8, 1001} {
		w, err := Hann(n)
		if err != nil {
			t.Fatalf("Hann(%d): %v", n, err)
		}

		for i, v := range w {
			want := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
			if math.Abs(v-want) > 1e-12 {
				t.Fatalf("n=%d i=%d: got %v want %v", n, i, v, want)
			}
		}

		if w[0] != 0 || w[n-1] != 0 {
			t.Fatalf("n=%d: end points %v %v, want exact 0", n, w[0], w[n-1])
		}
	}
}

func TestHannSingleSample(t *testing.T) {
	w := Generate(TypeHann, 1)
	if len(w) != 1 || w[0] != 0 {
		t.Fatalf("Generate(Hann,1) = %v, want [0]", w)
	}
}

func TestHannInvalidSize(t *testing.T) {
	if _, err := Hann(0); err == nil {
		t.Fatal("expected error for size 0")
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	a := Generate(TypeHann, 16)
	b := Generate(TypeHann, 16, WithPeriodic())

	if a[15] != 0 {
		t.Fatalf("symmetric end = %v, want 0", a[15])
	}
	if b[15] == 0 {
		t.Fatal("periodic end should be non-zero")
	}
}

func TestGenerate32MatchesGenerate(t *testing.T) {
	w64 := Generate(TypeHann, 33)
	w32 := Generate32(TypeHann, 33)
	for i := range w64 {
		if w32[i] != float32(w64[i]) {
			t.Fatalf("i=%d: %v vs %v", i, w32[i], w64[i])
		}
	}
	if Generate32(TypeHann, 0) != nil {
		t.Fatal("expected nil for zero length")
	}
}

func TestApplyVariants(t *testing.T) {
	coeffs := []float64{0, 0.5, 1}
	buf := []float64{2, 2, 2}
	if err := Apply(buf, coeffs); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if buf[0] != 0 || buf[1] != 1 || buf[2] != 2 {
		t.Fatalf("Apply = %v", buf)
	}

	c32 := []float32{0, 0.5, 1}
	cs := []complex64{1 + 1i, 2 - 2i, 3 + 3i}
	if err := ApplyComplex(cs, c32); err != nil {
		t.Fatalf("ApplyComplex: %v", err)
	}
	if cs[0] != 0 || cs[1] != 1-1i || cs[2] != 3+3i {
		t.Fatalf("ApplyComplex = %v", cs)
	}

	if err := Apply(buf, coeffs[:2]); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if err := ApplyComplex(cs, c32[:2]); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestParseType(t *testing.T) {
	tests := map[string]Type{
		"hann":        TypeHann,
		" Hanning ":   TypeHann,
		"hamming":     TypeHamming,
		"BLACKMAN":    TypeBlackman,
		"rectangular": TypeRectangular,
		"none":        TypeRectangular,
	}
	for name, want := range tests {
		got, err := ParseType(name)
		if err != nil || got != want {
			t.Fatalf("ParseType(%q) = %v, %v; want %v", name, got, err, want)
		}
	}

	if _, err := ParseType("kaiser"); err == nil {
		t.Fatal("expected error for unsupported window")
	}
}

func TestEquivalentNoiseBandwidthMatchesInfo(t *testing.T) {
	w := Generate(TypeHann, 4096, WithPeriodic())
	enbw, err := EquivalentNoiseBandwidth(w)
	if err != nil {
		t.Fatalf("ENBW: %v", err)
	}
	if math.Abs(enbw-Info(TypeHann).ENBW) > 1e-3 {
		t.Fatalf("ENBW = %v, want %v", enbw, Info(TypeHann).ENBW)
	}

	if _, err := EquivalentNoiseBandwidth(nil); err == nil {
		t.Fatal("expected error for empty coefficients")
	}
}
