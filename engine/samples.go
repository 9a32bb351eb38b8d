package engine

import (
	"github.com/cwbudde/algo-iqspec/dsp/iq"
	timestats "github.com/cwbudde/algo-iqspec/stats/time"
)

// SampleReducer covers the modes that work on individual samples without a
// transform: streamed amplitude or power, per-block sums, or both at once.
type SampleReducer struct {
	mode   Mode
	n      int
	raw    FloatSink
	sum    LineSink
	series timestats.StreamingStats
}

// NewAmplitude streams sqrt(I²+Q²) for every sample into out.
func NewAmplitude(samplesPerBlock int, out FloatSink) (*SampleReducer, error) {
	return newSampleReducer(ModeAmplitude, samplesPerBlock, out, nil)
}

// NewPower streams I²+Q² for every sample into out.
func NewPower(samplesPerBlock int, out FloatSink) (*SampleReducer, error) {
	return newSampleReducer(ModePower, samplesPerBlock, out, nil)
}

// NewPowerSum writes Σ(I²+Q²) of every block as one line.
func NewPowerSum(samplesPerBlock int, out LineSink) (*SampleReducer, error) {
	return newSampleReducer(ModePowerSum, samplesPerBlock, nil, out)
}

// NewPowerBoth writes the raw power stream and the per-block sums in one pass.
// The sum of block k is the float64 sum of exactly the values streamed for
// block k.
func NewPowerBoth(samplesPerBlock int, raw FloatSink, sum LineSink) (*SampleReducer, error) {
	return newSampleReducer(ModePowerBoth, samplesPerBlock, raw, sum)
}

// NewAmplitudeSum writes Σ sqrt(I²+Q²)/N of every block as one line.
func NewAmplitudeSum(samplesPerBlock int, out LineSink) (*SampleReducer, error) {
	return newSampleReducer(ModeAmplitudeSum, samplesPerBlock, nil, out)
}

func newSampleReducer(mode Mode, n int, raw FloatSink, sum LineSink) (*SampleReducer, error) {
	if err := validateBlock(n); err != nil {
		return nil, err
	}
	switch mode {
	case ModeAmplitude, ModePower:
		if raw == nil {
			return nil, invalidf("%s: missing output sink", mode)
		}
	case ModePowerSum, ModeAmplitudeSum:
		if sum == nil {
			return nil, invalidf("%s: missing output sink", mode)
		}
	case ModePowerBoth:
		if raw == nil || sum == nil {
			return nil, invalidf("%s: needs both a raw and a sum sink", mode)
		}
	}
	return &SampleReducer{mode: mode, n: n, raw: raw, sum: sum}, nil
}

func (r *SampleReducer) Mode() Mode           { return r.mode }
func (r *SampleReducer) SamplesPerBlock() int { return r.n }
func (r *SampleReducer) BlockLen() int        { return 2 * r.n }

// Start clears the series statistics of a previous run.
func (r *SampleReducer) Start() error {
	r.series.Reset()
	return nil
}

// Series returns statistics over the per-block values written to the line
// sink. It is empty for the purely streaming modes.
func (r *SampleReducer) Series() timestats.Stats {
	return r.series.Result()
}

func (r *SampleReducer) NewKernel() (Kernel, error) {
	return &sampleKernel{mode: r.mode, n: r.n}, nil
}

func (r *SampleReducer) Emit(f *Frame) error {
	if r.raw != nil {
		if err := r.raw.WriteFloat32s(f.Values); err != nil {
			return sinkError(r.raw.Name(), err)
		}
	}
	if r.sum != nil {
		if err := r.sum.WriteLine(f.Index, f.Scalar); err != nil {
			return sinkError(r.sum.Name(), err)
		}
		r.series.Add(f.Scalar)
	}
	return nil
}

func (r *SampleReducer) Finish() error {
	if r.raw != nil {
		if err := flush(r.raw); err != nil {
			return err
		}
	}
	if r.sum != nil {
		return flush(r.sum)
	}
	return nil
}

type sampleKernel struct {
	mode Mode
	n    int
}

func (k *sampleKernel) Compute(block []float32, f *Frame) error {
	switch k.mode {
	case ModeAmplitude:
		iq.AmplitudeBlock(f.values(k.n), block)
	case ModePower:
		iq.PowerBlock(f.values(k.n), block)
	case ModePowerSum:
		f.Scalar = iq.SumPower(block)
	case ModePowerBoth:
		raw := f.values(k.n)
		iq.PowerBlock(raw, block)
		sum := 0.0
		for _, v := range raw {
			sum += float64(v)
		}
		f.Scalar = sum
	case ModeAmplitudeSum:
		f.Scalar = iq.MeanAmplitude(block)
	}
	return nil
}

func (k *sampleKernel) Close() error { return nil }
