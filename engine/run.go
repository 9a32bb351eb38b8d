package engine

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sourcegraph/conc/stream"

	"github.com/cwbudde/algo-iqspec/dsp/buffer"
	"github.com/cwbudde/algo-iqspec/dsp/iq"
	"github.com/cwbudde/algo-iqspec/internal/logging"
)

// Stats describes a finished run.
type Stats struct {
	Mode            Mode
	SamplesPerBlock int
	Blocks          int64
	// DroppedFloats counts the trailing float32 values that did not fill a
	// whole block.
	DroppedFloats int
	Workers       int
	Backend       string
	Elapsed       time.Duration
}

// Run reads blocks from in until the stream runs short and drives r over
// them. A short read is the only way a run ends without error; the trailing
// partial block is dropped and reported in Stats.
func Run(in io.Reader, r Reducer, opts ...Option) (Stats, error) {
	cfg := ApplyOptions(opts...)
	if err := cfg.validate(); err != nil {
		return Stats{}, err
	}
	if r == nil {
		return Stats{}, invalidf("nil reducer")
	}
	if in == nil {
		return Stats{}, invalidf("nil input")
	}

	workers := max(cfg.Workers, 1)
	stats := Stats{Mode: r.Mode(), SamplesPerBlock: r.SamplesPerBlock(), Workers: workers}

	log := cfg.Logger.WithFields(logging.Fields{
		"mode":              r.Mode().String(),
		"samples_per_block": r.SamplesPerBlock(),
		"workers":           workers,
	})
	log.Debug("run started", logging.Fields{"estimated_blocks": cfg.EstimatedTotal})

	start := time.Now()
	kernels, err := newKernels(r, workers)
	if err != nil {
		return stats, err
	}
	defer closeKernels(kernels)

	rd, err := iq.NewReader(in, r.BlockLen())
	if err != nil {
		return stats, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}

	if b, ok := kernels[0].(backendReporter); ok {
		stats.Backend = string(b.Backend())
		log.Debug("transform plan ready", logging.Fields{"backend": stats.Backend})
	}

	if err := r.Start(); err != nil {
		return stats, err
	}

	p := progress{cfg: cfg}
	if workers == 1 {
		stats.Blocks, err = runSequential(rd, r, kernels[0], &p)
	} else {
		stats.Blocks, err = runParallel(rd, r, kernels, &p)
	}
	stats.DroppedFloats = rd.Dropped()
	stats.Elapsed = time.Since(start)
	if err != nil {
		return stats, err
	}

	if err := r.Finish(); err != nil {
		return stats, err
	}
	p.done(stats.Blocks)

	log.Debug("run finished", logging.Fields{
		"blocks":         stats.Blocks,
		"dropped_floats": stats.DroppedFloats,
		"elapsed":        stats.Elapsed.String(),
	})
	return stats, nil
}

func newKernels(r Reducer, n int) ([]Kernel, error) {
	kernels := make([]Kernel, 0, n)
	for range n {
		k, err := r.NewKernel()
		if err != nil {
			closeKernels(kernels)
			return nil, err
		}
		kernels = append(kernels, k)
	}
	return kernels, nil
}

func closeKernels(kernels []Kernel) {
	for _, k := range kernels {
		_ = k.Close()
	}
}

func runSequential(rd *iq.Reader, r Reducer, k Kernel, p *progress) (int64, error) {
	var (
		f      Frame
		blocks int64
	)
	for {
		block, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return blocks, nil
		}
		if err != nil {
			return blocks, err
		}

		f.Index = rd.Blocks() - 1
		if err := k.Compute(block, &f); err != nil {
			return blocks, fmt.Errorf("engine: block %d: %w", f.Index, err)
		}
		if err := r.Emit(&f); err != nil {
			return blocks, err
		}
		blocks++
		p.tick(blocks)
	}
}

// runParallel computes blocks on up to len(kernels) goroutines. The stream
// runs callbacks one at a time in submission order, so Emit sees blocks in
// order and never concurrently.
func runParallel(rd *iq.Reader, r Reducer, kernels []Kernel, p *progress) (int64, error) {
	idle := make(chan Kernel, len(kernels))
	for _, k := range kernels {
		idle <- k
	}
	blocks := buffer.NewPool(rd.BlockLen())
	frames := sync.Pool{New: func() any { return new(Frame) }}

	var (
		failure firstError
		emitted int64
	)

	s := stream.New().WithMaxGoroutines(len(kernels))
	for failure.get() == nil {
		b := blocks.Get()
		if err := rd.ReadInto(b.Values()); err != nil {
			blocks.Put(b)
			if !errors.Is(err, io.EOF) {
				failure.set(err)
			}
			break
		}
		b.Index = rd.Blocks() - 1

		s.Go(func() stream.Callback {
			k := <-idle
			f := frames.Get().(*Frame)
			f.Index = b.Index
			err := k.Compute(b.Values(), f)
			idle <- k
			blocks.Put(b)

			return func() {
				defer frames.Put(f)
				if err != nil {
					failure.set(fmt.Errorf("engine: block %d: %w", f.Index, err))
					return
				}
				if failure.get() != nil {
					return
				}
				if err := r.Emit(f); err != nil {
					failure.set(err)
					return
				}
				emitted++
				p.tick(emitted)
			}
		})
	}
	s.Wait()

	return emitted, failure.get()
}

type firstError struct {
	mu  sync.Mutex
	err error
}

func (e *firstError) set(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		e.err = err
	}
}

func (e *firstError) get() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

type progress struct {
	cfg  RunConfig
	last int64
}

func (p *progress) tick(blocks int64) {
	if p.cfg.Progress == nil || blocks%p.cfg.ProgressEvery != 0 {
		return
	}
	p.last = blocks
	p.cfg.Progress(blocks, p.cfg.EstimatedTotal)
}

func (p *progress) done(blocks int64) {
	if p.cfg.Progress == nil || (p.last == blocks && blocks > 0) {
		return
	}
	p.cfg.Progress(blocks, p.cfg.EstimatedTotal)
}
