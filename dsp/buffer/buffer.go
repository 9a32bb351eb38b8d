package buffer

// Block wraps a float32 slice holding one block of samples together with the
// block's zero-based position in the stream.
type Block struct {
	Index  int64
	values []float32
}

// New returns a zero-filled Block of the given length.
func New(length int) *Block {
	if length < 0 {
		length = 0
	}
	return &Block{values: make([]float32, length)}
}

// Values returns the underlying slice.
func (b *Block) Values() []float32 {
	return b.values
}

// Resize sets the length to n, reusing existing capacity when possible.
// Elements beyond the previous length are zeroed.
func (b *Block) Resize(n int) {
	if n < 0 {
		n = 0
	}
	oldLen := len(b.values)
	if n <= cap(b.values) {
		b.values = b.values[:n]
	} else {
		s := make([]float32, n)
		copy(s, b.values)
		b.values = s
	}
	if n > oldLen {
		clear(b.values[oldLen:n])
	}
}
