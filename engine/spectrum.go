package engine

import (
	"github.com/cwbudde/algo-iqspec/dsp/iq"
	"github.com/cwbudde/algo-iqspec/dsp/spectrum"
	"github.com/cwbudde/algo-iqspec/dsp/transform"
)

// PowerSpectrumReducer streams |FFT(block)|² for all N bins of every block.
type PowerSpectrumReducer struct {
	n        int
	out      FloatSink
	planOpts []transform.Option
}

// NewPowerSpectrum returns the power-spectrum mode writing into out.
func NewPowerSpectrum(samplesPerBlock int, out FloatSink, opts ...transform.Option) (*PowerSpectrumReducer, error) {
	if err := validateBlock(samplesPerBlock); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, invalidf("%s: missing output sink", ModePowerSpectrum)
	}
	return &PowerSpectrumReducer{n: samplesPerBlock, out: out, planOpts: opts}, nil
}

func (r *PowerSpectrumReducer) Mode() Mode           { return ModePowerSpectrum }
func (r *PowerSpectrumReducer) SamplesPerBlock() int { return r.n }
func (r *PowerSpectrumReducer) BlockLen() int        { return 2 * r.n }
func (r *PowerSpectrumReducer) Start() error         { return nil }

func (r *PowerSpectrumReducer) NewKernel() (Kernel, error) {
	k, err := newFFTKernel(r.n, r.planOpts)
	if err != nil {
		return nil, err
	}
	return &powerSpectrumKernel{fftKernel: k, power: make([]float64, r.n)}, nil
}

func (r *PowerSpectrumReducer) Emit(f *Frame) error {
	return sinkError(r.out.Name(), r.out.WriteFloat32s(f.Values))
}

func (r *PowerSpectrumReducer) Finish() error { return flush(r.out) }

// IntegratedReducer averages the squared half-complex-to-real transform of
// every block and writes one "<bin>\t<value>" line per bin at the end.
type IntegratedReducer struct {
	n        int
	out      LineSink
	acc      *spectrum.Accumulator
	planOpts []transform.Option
	mean     []float64
}

// NewIntegrated returns the integrated power spectrum mode writing into out.
func NewIntegrated(samplesPerBlock int, out LineSink, opts ...transform.Option) (*IntegratedReducer, error) {
	if err := validateBlock(samplesPerBlock); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, invalidf("%s: missing output sink", ModeIntegrated)
	}
	acc, err := spectrum.NewAccumulator(samplesPerBlock)
	if err != nil {
		return nil, invalidf("%v", err)
	}
	return &IntegratedReducer{n: samplesPerBlock, out: out, acc: acc, planOpts: opts}, nil
}

func (r *IntegratedReducer) Mode() Mode           { return ModeIntegrated }
func (r *IntegratedReducer) SamplesPerBlock() int { return r.n }
func (r *IntegratedReducer) BlockLen() int        { return 2 * r.n }
func (r *IntegratedReducer) Start() error         { return nil }

func (r *IntegratedReducer) NewKernel() (Kernel, error) {
	k, err := newFFTKernel(r.n, r.planOpts)
	if err != nil {
		return nil, err
	}
	return &integratedKernel{fftKernel: k, real: make([]float32, r.n)}, nil
}

func (r *IntegratedReducer) Emit(f *Frame) error {
	return r.acc.Add(f.Power)
}

// Finish divides the accumulated spectrum by the block count and writes it.
// With zero blocks every bin is written as 0.
func (r *IntegratedReducer) Finish() error {
	r.mean = r.acc.Mean()
	for i, v := range r.mean {
		if err := r.out.WriteLine(int64(i), v); err != nil {
			return sinkError(r.out.Name(), err)
		}
	}
	return flush(r.out)
}

// Spectrum returns the averaged spectrum once Finish has run.
func (r *IntegratedReducer) Spectrum() []float64 {
	return r.mean
}

// fftKernel owns a transform plan and its complex scratch.
type fftKernel struct {
	plan *transform.Plan
	in   []complex64
	out  []complex64
}

func newFFTKernel(n int, opts []transform.Option) (*fftKernel, error) {
	plan, err := transform.NewPlan(n, opts...)
	if err != nil {
		return nil, planError(n, err)
	}
	return &fftKernel{
		plan: plan,
		in:   make([]complex64, plan.Len()),
		out:  make([]complex64, plan.Len()),
	}, nil
}

func (k *fftKernel) Backend() transform.Backend { return k.plan.Backend() }

func (k *fftKernel) Close() error { return k.plan.Close() }

type powerSpectrumKernel struct {
	*fftKernel
	power []float64
}

func (k *powerSpectrumKernel) Compute(block []float32, f *Frame) error {
	iq.ToComplex(k.in, block)
	if err := k.plan.Forward(k.out, k.in); err != nil {
		return err
	}
	spectrum.PowerInto(k.power, k.out)
	values := f.values(len(k.power))
	for i, p := range k.power {
		values[i] = float32(p)
	}
	return nil
}

type integratedKernel struct {
	*fftKernel
	real []float32
}

func (k *integratedKernel) Compute(block []float32, f *Frame) error {
	iq.ToComplex(k.in, block)
	if err := k.plan.HalfComplexToReal(k.real, k.in); err != nil {
		return err
	}
	spectrum.RealPower(f.power(len(k.real)), k.real)
	return nil
}
