package engine

import (
	"math"
	"strings"

	"github.com/cwbudde/algo-iqspec/dsp/iq"
	"github.com/cwbudde/algo-iqspec/dsp/spectrum"
	"github.com/cwbudde/algo-iqspec/dsp/transform"
	"github.com/cwbudde/algo-iqspec/dsp/window"
)

// Layout selects how the spectrogram interprets the input stream.
type Layout string

const (
	// LayoutReal consumes N raw float32 values per block and treats them as
	// real samples, so each block spans N/2 interleaved I/Q pairs.
	LayoutReal Layout = "real"
	// LayoutIQ consumes N complex samples (2N floats) per block.
	LayoutIQ Layout = "iq"
)

// ParseLayout maps "real" or "iq" to a Layout.
func ParseLayout(name string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(name))); l {
	case LayoutReal, LayoutIQ:
		return l, nil
	default:
		return "", invalidf("unknown spectrogram layout %q", name)
	}
}

// SpectrogramOption configures a spectrogram run.
type SpectrogramOption func(*spectrogramConfig)

type spectrogramConfig struct {
	layout   Layout
	window   window.Type
	header   bool
	planOpts []transform.Option
}

// WithLayout selects the input layout. The default is LayoutReal.
func WithLayout(l Layout) SpectrogramOption {
	return func(c *spectrogramConfig) { c.layout = l }
}

// WithWindow selects the taper applied before the transform. The default
// is window.TypeHann.
func WithWindow(t window.Type) SpectrogramOption {
	return func(c *spectrogramConfig) { c.window = t }
}

// WithHeader controls whether the output starts with samples-per-block as a
// little-endian int32. It is on by default.
func WithHeader(enabled bool) SpectrogramOption {
	return func(c *spectrogramConfig) { c.header = enabled }
}

// WithPlanOptions forwards options to the transform plan.
func WithPlanOptions(opts ...transform.Option) SpectrogramOption {
	return func(c *spectrogramConfig) { c.planOpts = append(c.planOpts, opts...) }
}

// SpectrogramReducer streams one row of N/2+1 dB values per block.
type SpectrogramReducer struct {
	n          int
	out        HeaderSink
	cfg        spectrogramConfig
	coeffs     []float32
	realCoeffs []float64
}

// NewSpectrogram returns the spectrogram mode writing rows into out.
func NewSpectrogram(samplesPerBlock int, out HeaderSink, opts ...SpectrogramOption) (*SpectrogramReducer, error) {
	if err := validateBlock(samplesPerBlock); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, invalidf("%s: missing output sink", ModeSpectrogram)
	}
	if samplesPerBlock > math.MaxInt32 {
		return nil, invalidf("samples per block does not fit the row header: %d", samplesPerBlock)
	}

	cfg := spectrogramConfig{layout: LayoutReal, window: window.TypeHann, header: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.layout != LayoutReal && cfg.layout != LayoutIQ {
		return nil, invalidf("unknown spectrogram layout %q", cfg.layout)
	}

	r := &SpectrogramReducer{n: samplesPerBlock, out: out, cfg: cfg}
	if cfg.layout == LayoutIQ {
		r.coeffs = window.Generate32(cfg.window, samplesPerBlock)
	} else {
		r.realCoeffs = window.Generate(cfg.window, samplesPerBlock)
	}
	return r, nil
}

func (r *SpectrogramReducer) Mode() Mode           { return ModeSpectrogram }
func (r *SpectrogramReducer) SamplesPerBlock() int { return r.n }

// Layout reports the configured input layout.
func (r *SpectrogramReducer) Layout() Layout { return r.cfg.layout }

// RowLen is the number of dB values per row, N/2+1.
func (r *SpectrogramReducer) RowLen() int { return spectrum.HalfLen(r.n) }

func (r *SpectrogramReducer) BlockLen() int {
	if r.cfg.layout == LayoutIQ {
		return 2 * r.n
	}
	return r.n
}

func (r *SpectrogramReducer) Start() error {
	if !r.cfg.header {
		return nil
	}
	return sinkError(r.out.Name(), r.out.WriteInt32(int32(r.n)))
}

func (r *SpectrogramReducer) NewKernel() (Kernel, error) {
	k, err := newFFTKernel(r.n, r.cfg.planOpts)
	if err != nil {
		return nil, err
	}
	sk := &spectrogramKernel{
		fftKernel:  k,
		layout:     r.cfg.layout,
		coeffs:     r.coeffs,
		realCoeffs: r.realCoeffs,
		rowLen:     r.RowLen(),
	}
	if r.cfg.layout == LayoutReal {
		sk.tapered = make([]float64, r.n)
	}
	return sk, nil
}

func (r *SpectrogramReducer) Emit(f *Frame) error {
	return sinkError(r.out.Name(), r.out.WriteFloat32s(f.Values))
}

func (r *SpectrogramReducer) Finish() error { return flush(r.out) }

type spectrogramKernel struct {
	*fftKernel
	layout     Layout
	coeffs     []float32
	realCoeffs []float64
	tapered    []float64
	rowLen     int
}

func (k *spectrogramKernel) Compute(block []float32, f *Frame) error {
	if k.layout == LayoutIQ {
		iq.ToComplex(k.in, block)
		if err := window.ApplyComplex(k.in, k.coeffs); err != nil {
			return err
		}
	} else {
		for i, v := range block {
			k.tapered[i] = float64(v)
		}
		if err := window.Apply(k.tapered, k.realCoeffs); err != nil {
			return err
		}
		iq.RealToComplex(k.in, k.tapered)
	}

	if err := k.plan.Forward(k.out, k.in); err != nil {
		return err
	}
	spectrum.PowerDB32(f.values(k.rowLen), k.out)
	return nil
}
