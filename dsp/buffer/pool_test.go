package buffer

import "testing"

func TestPoolGetLength(t *testing.T) {
	p := NewPool(16)

	b := p.Get()
	if len(b.Values()) != 16 {
		t.Fatalf("len = %d, want 16", len(b.Values()))
	}
	b.Index = 7
	p.Put(b)

	b2 := p.Get()
	if len(b2.Values()) != 16 || b2.Index != 0 {
		t.Fatalf("reused block: len=%d Index=%d", len(b2.Values()), b2.Index)
	}
	p.Put(b2)
}

func TestPoolPutNilSafe(_ *testing.T) {
	p := NewPool(4)
	p.Put(nil) // must not panic
}
