package transform

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// MaxLength bounds the transform length so buffer sizing cannot overflow.
const MaxLength = 1 << 28

// Backend names the FFT implementation behind a Plan.
type Backend string

const (
	BackendAlgoFFT Backend = "algo-fft"
	BackendGonum   Backend = "gonum"
)

// Option configures plan creation.
type Option func(*planConfig)

type planConfig struct {
	backend Backend
}

// WithBackend forces a specific backend instead of algo-fft with fallback.
func WithBackend(b Backend) Option {
	return func(c *planConfig) {
		c.backend = b
	}
}

// Plan is a reusable forward transform of fixed length.
type Plan struct {
	n       int
	backend Backend

	fast *algofft.Plan[complex64]
	slow *fourier.CmplxFFT

	wideIn  []complex128
	wideOut []complex128

	herm    []complex64
	hermOut []complex64
}

// NewPlan allocates a transform plan and its scratch buffers for length n.
func NewPlan(n int, opts ...Option) (p *Plan, err error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: %d", errLength, n)
	}
	if n > MaxLength {
		return nil, fmt.Errorf("%w: length %d exceeds %d", ErrAllocation, n, MaxLength)
	}

	var cfg planConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = fmt.Errorf("%w: length %d: %v", ErrAllocation, n, r)
		}
	}()

	p = &Plan{
		n:       n,
		herm:    make([]complex64, n),
		hermOut: make([]complex64, n),
	}

	if cfg.backend != BackendGonum {
		fast, ferr := algofft.NewPlanT[complex64](n)
		switch {
		case ferr == nil:
			p.fast = fast
			p.backend = BackendAlgoFFT
			return p, nil
		case cfg.backend == BackendAlgoFFT:
			return nil, fmt.Errorf("%w: algo-fft length %d: %w", ErrAllocation, n, ferr)
		}
	}

	p.slow = fourier.NewCmplxFFT(n)
	p.wideIn = make([]complex128, n)
	p.wideOut = make([]complex128, n)
	p.backend = BackendGonum

	return p, nil
}

// Len returns the transform length.
func (p *Plan) Len() int { return p.n }

// Backend reports which implementation executes the plan.
func (p *Plan) Backend() Backend { return p.backend }

// Forward computes the unscaled forward DFT
//
//	X[k] = Σ x[n]·exp(-2πi·k·n/N)
//
// of src into dst. Both slices must have the plan length and must not alias.
func (p *Plan) Forward(dst, src []complex64) error {
	if p.fast == nil && p.slow == nil {
		return errClosed
	}
	if len(dst) != p.n || len(src) != p.n {
		return fmt.Errorf("%w: dst=%d src=%d plan=%d", errSize, len(dst), len(src), p.n)
	}

	if p.fast != nil {
		if err := p.fast.Forward(dst, src); err != nil {
			return fmt.Errorf("transform: forward: %w", err)
		}
		return nil
	}

	for i, v := range src {
		p.wideIn[i] = complex128(v)
	}
	p.slow.Coefficients(p.wideOut, p.wideIn)
	for i, v := range p.wideOut {
		dst[i] = complex64(v)
	}

	return nil
}

// HalfComplexToReal treats src[0..N/2] as the non-negative-frequency half of
// a Hermitian spectrum and writes the N real samples of its unscaled inverse
// transform into dst. Bins above N/2 in src are ignored, as are the imaginary
// parts of the DC bin and, for even N, the Nyquist bin.
//
// The result equals
//
//	x[m] = Re(X[0]) + 2·Σ_{k=1}^{⌈N/2⌉-1} Re(X[k]·exp(+2πi·k·m/N)) + Re(X[N/2])·(-1)^m
//
// where the last term is present only for even N.
func (p *Plan) HalfComplexToReal(dst []float32, src []complex64) error {
	if p.fast == nil && p.slow == nil {
		return errClosed
	}
	if len(dst) != p.n || len(src) < p.n/2+1 {
		return fmt.Errorf("%w: dst=%d src=%d plan=%d", errSize, len(dst), len(src), p.n)
	}

	// Conjugate of the Hermitian extension: the forward transform of conj(H)
	// is the conjugate of the backward transform of H, whose real part is
	// what we want.
	n := p.n
	g := p.herm
	g[0] = complex(real(src[0]), 0)
	for k := 1; k < (n+1)/2; k++ {
		g[k] = conj64(src[k])
		g[n-k] = src[k]
	}
	if n%2 == 0 {
		g[n/2] = complex(real(src[n/2]), 0)
	}

	if err := p.Forward(p.hermOut, g); err != nil {
		return err
	}

	for i, v := range p.hermOut {
		dst[i] = real(v)
	}

	return nil
}

// Close releases the plan and its buffers. Further use returns an error.
func (p *Plan) Close() error {
	if p == nil {
		return nil
	}
	p.fast = nil
	p.slow = nil
	p.wideIn = nil
	p.wideOut = nil
	p.herm = nil
	p.hermOut = nil
	return nil
}

func conj64(c complex64) complex64 {
	return complex(real(c), -imag(c))
}
