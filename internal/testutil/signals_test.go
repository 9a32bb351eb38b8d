package testutil

import (
	"math"
	"testing"
)

func TestIQNoiseReproducible(t *testing.T) {
	a := IQNoise(7, 0.5, 64)
	b := IQNoise(7, 0.5, 64)
	if len(a) != 128 {
		t.Fatalf("len = %d, want 128", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
		if a[i] < -0.5 || a[i] > 0.5 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}
}

func TestIQToneUnitMagnitude(t *testing.T) {
	s := IQTone(3, 1, 32)
	for k := 0; k < 32; k++ {
		m := math.Hypot(float64(s[2*k]), float64(s[2*k+1]))
		if math.Abs(m-1) > 1e-6 {
			t.Fatalf("sample %d magnitude = %v, want 1", k, m)
		}
	}
}

func TestIQImpulse(t *testing.T) {
	s := IQImpulse(4, 2)
	want := []float32{0, 0, 0, 0, 1, 0, 0, 0}
	for i := range want {
		if s[i] != want[i] {
			t.Fatalf("s[%d] = %v, want %v", i, s[i], want[i])
		}
	}
}

func TestStreamRoundTrip(t *testing.T) {
	in := []float32{1.5, -2, 3.25}
	b := Stream(in[:2], in[2:])
	if len(b) != 12 {
		t.Fatalf("len = %d, want 12", len(b))
	}
	out := DecodeStream(b)
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], in[i])
		}
	}
}
