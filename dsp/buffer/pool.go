package buffer

import "sync"

// Pool provides sync.Pool-based Block reuse.
type Pool struct {
	length int
	pool   sync.Pool
}

// NewPool returns a Pool handing out blocks of the given length.
func NewPool(length int) *Pool {
	return &Pool{
		length: length,
		pool: sync.Pool{
			New: func() any {
				return New(length)
			},
		},
	}
}

// Get returns a Block of the pool's length. Its contents are unspecified;
// callers overwrite every value before use. Return it via Put when done.
func (p *Pool) Get() *Block {
	b := p.pool.Get().(*Block)
	b.Resize(p.length)
	b.Index = 0
	return b
}

// Put returns a Block to the pool for reuse.
// The caller must not use the block after calling Put.
func (p *Pool) Put(b *Block) {
	if b == nil {
		return
	}
	p.pool.Put(b)
}
