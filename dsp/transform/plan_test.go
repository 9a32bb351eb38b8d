package transform

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/mjibson/go-dsp/fft"

	"github.com/cwbudde/algo-iqspec/internal/testutil"
)

func complexBlock(seed int64, n int) []complex64 {
	raw := testutil.IQNoise(seed, 1, n)
	out := make([]complex64, n)
	for k := range out {
		out[k] = complex(raw[2*k], raw[2*k+1])
	}
	return out
}

func reference(in []complex64) []complex128 {
	wide := make([]complex128, len(in))
	for i, v := range in {
		wide[i] = complex128(v)
	}
	return fft.FFT(wide)
}

func requireSpectrumNear(t *testing.T, got []complex64, want []complex128, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(want))
	}
	scale := 1.0
	for _, w := range want {
		scale = math.Max(scale, cmplx.Abs(w))
	}
	for k := range got {
		if d := cmplx.Abs(complex128(got[k]) - want[k]); d > tol*scale {
			t.Fatalf("bin %d: got %v want %v (diff %g)", k, got[k], want[k], d)
		}
	}
}

func TestForwardMatchesReference(t *testing.T) {
	for _, backend := range []Backend{"", BackendGonum} {
		for _, n := range []int{2, 3, 4, 5, 8, 12, 17, 64, 100, 1024} {
			p, err := NewPlan(n, WithBackend(backend))
			if err != nil {
				t.Fatalf("NewPlan(%d, %q): %v", n, backend, err)
			}

			in := complexBlock(int64(n), n)
			out := make([]complex64, n)
			if err := p.Forward(out, in); err != nil {
				t.Fatalf("Forward(%d): %v", n, err)
			}

			requireSpectrumNear(t, out, reference(in), 1e-5)
			_ = p.Close()
		}
	}
}

func TestForwardImpulseIsFlat(t *testing.T) {
	p, err := NewPlan(4)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	defer p.Close()

	in := []complex64{1, 0, 0, 0}
	out := make([]complex64, 4)
	if err := p.Forward(out, in); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	for k, v := range out {
		if pow := real(v)*real(v) + imag(v)*imag(v); math.Abs(float64(pow)-1) > 1e-6 {
			t.Fatalf("bin %d power = %v, want 1", k, pow)
		}
	}
}

func TestForwardIsUnscaled(t *testing.T) {
	const n = 16
	p, err := NewPlan(n)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	defer p.Close()

	in := make([]complex64, n)
	for i := range in {
		in[i] = 1
	}
	out := make([]complex64, n)
	if err := p.Forward(out, in); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	if math.Abs(float64(real(out[0]))-n) > 1e-5 {
		t.Fatalf("DC bin = %v, want %d", out[0], n)
	}
	for k := 1; k < n; k++ {
		if cmplx.Abs(complex128(out[k])) > 1e-5 {
			t.Fatalf("bin %d = %v, want 0", k, out[k])
		}
	}
}

func halfComplexToRealDirect(src []complex64, n int) []float64 {
	out := make([]float64, n)
	for m := 0; m < n; m++ {
		sum := float64(real(src[0]))
		for k := 1; k < (n+1)/2; k++ {
			ph := 2 * math.Pi * float64(k*m) / float64(n)
			sum += 2 * real(complex128(src[k])*cmplx.Exp(complex(0, ph)))
		}
		if n%2 == 0 {
			sign := 1.0
			if m%2 == 1 {
				sign = -1
			}
			sum += float64(real(src[n/2])) * sign
		}
		out[m] = sum
	}
	return out
}

func TestHalfComplexToRealMatchesDirectSum(t *testing.T) {
	for _, backend := range []Backend{"", BackendGonum} {
		for _, n := range []int{2, 3, 4, 7, 8, 30, 64} {
			p, err := NewPlan(n, WithBackend(backend))
			if err != nil {
				t.Fatalf("NewPlan(%d): %v", n, err)
			}

			src := complexBlock(int64(100+n), n)
			dst := make([]float32, n)
			if err := p.HalfComplexToReal(dst, src); err != nil {
				t.Fatalf("HalfComplexToReal(%d): %v", n, err)
			}

			want := halfComplexToRealDirect(src, n)
			testutil.RequireSliceNearlyEqual(t, testutil.Widen(dst), want, 1e-4*float64(n))
			_ = p.Close()
		}
	}
}

func TestHalfComplexToRealIgnoresUpperBins(t *testing.T) {
	const n = 8
	p, err := NewPlan(n)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	defer p.Close()

	a := complexBlock(5, n)
	b := append([]complex64(nil), a...)
	for k := n/2 + 1; k < n; k++ {
		b[k] = 99 - 7i
	}
	// Imaginary DC and Nyquist parts do not contribute either.
	b[0] = complex(real(a[0]), 42)
	b[n/2] = complex(real(a[n/2]), -42)

	da := make([]float32, n)
	db := make([]float32, n)
	if err := p.HalfComplexToReal(da, a); err != nil {
		t.Fatal(err)
	}
	if err := p.HalfComplexToReal(db, b); err != nil {
		t.Fatal(err)
	}
	testutil.RequireFloat32sNearlyEqual(t, db, da, 1e-6)
}

func TestPlanErrors(t *testing.T) {
	if _, err := NewPlan(1); err == nil {
		t.Fatal("expected error for length 1")
	}
	if _, err := NewPlan(MaxLength + 1); !errors.Is(err, ErrAllocation) {
		t.Fatalf("err = %v, want ErrAllocation", err)
	}

	p, err := NewPlan(8)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if err := p.Forward(make([]complex64, 4), make([]complex64, 8)); err == nil {
		t.Fatal("expected size error")
	}

	_ = p.Close()
	if err := p.Forward(make([]complex64, 8), make([]complex64, 8)); err == nil {
		t.Fatal("expected error after Close")
	}
	if err := p.HalfComplexToReal(make([]float32, 8), make([]complex64, 8)); err == nil {
		t.Fatal("expected error after Close")
	}
}

func TestBackendSelection(t *testing.T) {
	p, err := NewPlan(1024)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	defer p.Close()
	if p.Backend() != BackendAlgoFFT {
		t.Fatalf("Backend = %q, want %q", p.Backend(), BackendAlgoFFT)
	}

	g, err := NewPlan(1024, WithBackend(BackendGonum))
	if err != nil {
		t.Fatalf("NewPlan gonum: %v", err)
	}
	defer g.Close()
	if g.Backend() != BackendGonum || g.Len() != 1024 {
		t.Fatalf("Backend = %q Len = %d", g.Backend(), g.Len())
	}
}
