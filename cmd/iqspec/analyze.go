package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-iqspec/dsp/iq"
	"github.com/cwbudde/algo-iqspec/dsp/window"
	"github.com/cwbudde/algo-iqspec/engine"
	"github.com/cwbudde/algo-iqspec/internal/capture"
	"github.com/cwbudde/algo-iqspec/internal/config"
	"github.com/cwbudde/algo-iqspec/internal/logging"
	"github.com/cwbudde/algo-iqspec/internal/report"
	"github.com/cwbudde/algo-iqspec/internal/sink"
)

const inputBufferSize = 1 << 20

const runArgs = "<input_file> [samples_per_block]"

// plan is a configured reducer together with the files it writes into.
type plan struct {
	reducer engine.Reducer
	outputs []output
	files   []afero.File
}

// output is one created file and the sink writing into it.
type output struct {
	path   string
	binary *sink.Binary
	text   *sink.Text
}

func (o output) summary() report.Output {
	s := report.Output{Path: o.path}
	if o.binary != nil {
		s.Values = o.binary.Count()
	}
	if o.text != nil {
		s.Lines = o.text.Lines()
	}
	return s
}

func (p *plan) close() error {
	var errs []error
	for _, f := range p.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.files = nil
	return errors.Join(errs...)
}

// discard closes and removes every file created so far. Used when the
// reducer cannot be built, so a rejected run leaves no empty outputs.
func (p *plan) discard(fs afero.Fs) error {
	errs := []error{p.close()}
	for _, o := range p.outputs {
		if err := fs.Remove(o.path); err != nil {
			errs = append(errs, err)
		}
	}
	p.outputs = nil
	return errors.Join(errs...)
}

func (p *plan) summaries() []report.Output {
	out := make([]report.Output, len(p.outputs))
	for i, o := range p.outputs {
		out[i] = o.summary()
	}
	return out
}

// outputs opens sinks for a run. Every created file is tracked in p so the
// caller can close them on all paths.
type outputs struct {
	files *capture.Files
	rc    capture.RunConfig
	p     *plan
}

func (o *outputs) create(kind capture.Output) (*output, afero.File, error) {
	name := o.rc.OutputName(kind)
	f, err := o.files.Create(name)
	if err != nil {
		return nil, nil, err
	}
	o.p.files = append(o.p.files, f)
	o.p.outputs = append(o.p.outputs, output{path: o.files.Path(name)})
	return &o.p.outputs[len(o.p.outputs)-1], f, nil
}

func (o *outputs) binary(kind capture.Output) (*sink.Binary, error) {
	out, f, err := o.create(kind)
	if err != nil {
		return nil, err
	}
	out.binary, err = sink.NewBinary(out.path, f)
	return out.binary, err
}

func (o *outputs) text(kind capture.Output, format sink.Format) (*sink.Text, error) {
	out, f, err := o.create(kind)
	if err != nil {
		return nil, err
	}
	out.text, err = sink.NewText(out.path, f, format)
	return out.text, err
}

// builder creates the reducer of one subcommand.
type builder func(o *outputs, rc capture.RunConfig) (engine.Reducer, error)

func (a *app) runCommand(use, short string, build builder) *cobra.Command {
	return &cobra.Command{
		Use:   use + " " + runArgs,
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.analyze(args, build)
		},
	}
}

func (a *app) amplitudeCommand() *cobra.Command {
	return a.runCommand("amplitude", "Stream sqrt(I²+Q²) of every sample as float32",
		func(o *outputs, rc capture.RunConfig) (engine.Reducer, error) {
			out, err := o.binary(capture.Waterfall)
			if err != nil {
				return nil, err
			}
			return engine.NewAmplitude(rc.SamplesPerBlock, out)
		})
}

func (a *app) amplitudeSumCommand() *cobra.Command {
	return a.runCommand("amplitude-sum", "Write the mean amplitude of every block as text",
		func(o *outputs, rc capture.RunConfig) (engine.Reducer, error) {
			out, err := o.text(capture.AmplitudeSum, sink.Fixed)
			if err != nil {
				return nil, err
			}
			return engine.NewAmplitudeSum(rc.SamplesPerBlock, out)
		})
}

func (a *app) powerCommand() *cobra.Command {
	cmd := a.runCommand("power", "Write per-sample power, per-block power sums, or both",
		func(o *outputs, rc capture.RunConfig) (engine.Reducer, error) {
			switch a.cfg.Power.OutputType {
			case config.PowerRaw:
				raw, err := o.binary(capture.PowerRaw)
				if err != nil {
					return nil, err
				}
				return engine.NewPower(rc.SamplesPerBlock, raw)
			case config.PowerBoth:
				raw, err := o.binary(capture.PowerRaw)
				if err != nil {
					return nil, err
				}
				sum, err := o.text(capture.PowerSum, sink.Fixed)
				if err != nil {
					return nil, err
				}
				return engine.NewPowerBoth(rc.SamplesPerBlock, raw, sum)
			default:
				sum, err := o.text(capture.PowerSum, sink.Fixed)
				if err != nil {
					return nil, err
				}
				return engine.NewPowerSum(rc.SamplesPerBlock, sum)
			}
		})
	cmd.Flags().String("output-type", config.PowerSum, "output type (sum, raw, both)")
	a.bindFlags(cmd.Flags(), map[string]string{"output-type": "power.output_type"})
	return cmd
}

func (a *app) powerSpectrumCommand() *cobra.Command {
	return a.runCommand("power-spectrum", "Stream |FFT|² of every block as float32",
		func(o *outputs, rc capture.RunConfig) (engine.Reducer, error) {
			out, err := o.binary(capture.PowerSpectrum)
			if err != nil {
				return nil, err
			}
			return engine.NewPowerSpectrum(rc.SamplesPerBlock, out)
		})
}

func (a *app) integratedCommand() *cobra.Command {
	return a.runCommand("integrated", "Write the time-averaged power spectrum as text",
		func(o *outputs, rc capture.RunConfig) (engine.Reducer, error) {
			out, err := o.text(capture.IntegratedSpectrum, sink.Exponent)
			if err != nil {
				return nil, err
			}
			return engine.NewIntegrated(rc.SamplesPerBlock, out)
		})
}

func (a *app) spectrogramCommand() *cobra.Command {
	cmd := a.runCommand("spectrogram", "Stream windowed dB spectrum rows as float32",
		func(o *outputs, rc capture.RunConfig) (engine.Reducer, error) {
			sc := a.cfg.Spectrogram
			wt, err := window.ParseType(sc.Window)
			if err != nil {
				return nil, err
			}
			layout, err := engine.ParseLayout(sc.Layout)
			if err != nil {
				return nil, err
			}
			out, err := o.binary(capture.Spectrogram)
			if err != nil {
				return nil, err
			}
			return engine.NewSpectrogram(rc.SamplesPerBlock, out,
				engine.WithWindow(wt),
				engine.WithLayout(layout),
				engine.WithHeader(sc.Header),
			)
		})
	f := cmd.Flags()
	f.String("window", "hann", "window function (hann, hamming, blackman, rectangular)")
	f.String("layout", string(engine.LayoutReal), "input layout (real: N floats per block, iq: N samples per block)")
	f.Bool("header", true, "start the output with samples_per_block as int32")
	a.bindFlags(f, map[string]string{
		"window": "spectrogram.window",
		"layout": "spectrogram.layout",
		"header": "spectrogram.header",
	})
	return cmd
}

// runConfig resolves the input path and block size from positional args.
func runConfig(args []string) (capture.RunConfig, error) {
	explicit := 0
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return capture.RunConfig{}, fmt.Errorf("%w: samples_per_block %q is not an integer",
				engine.ErrInvalidParameter, args[1])
		}
		if n == 0 {
			return capture.RunConfig{}, fmt.Errorf("%w: samples_per_block must be >= 2: 0", engine.ErrInvalidParameter)
		}
		explicit = n
	}
	return capture.NewRunConfig(args[0], explicit)
}

func (a *app) analyze(args []string, build builder) (err error) {
	rc, err := runConfig(args)
	if err != nil {
		return err
	}

	files := capture.NewFiles(a.fs, a.cfg.OutputDir)
	in, size, err := files.Open(rc.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	p := &plan{}
	defer func() {
		if cerr := p.close(); cerr != nil && err == nil {
			err = fmt.Errorf("close outputs: %w", cerr)
		}
	}()

	r, err := build(&outputs{files: files, rc: rc, p: p}, rc)
	if err != nil {
		if derr := p.discard(files.Fs); derr != nil {
			a.log.Error(derr, "Could not remove outputs")
		}
		return err
	}
	p.reducer = r

	estimated, trailing := iq.EstimateBlocks(size, r.BlockLen())
	log := a.log.WithFields(logging.Fields{
		"input":             rc.Input,
		"mode":              r.Mode().String(),
		"samples_per_block": rc.SamplesPerBlock,
	})
	log.Info("Starting analysis", logging.Fields{
		"bytes":            size,
		"estimated_blocks": estimated,
		"trailing_floats":  trailing,
	})

	opts := []engine.Option{
		engine.WithWorkers(a.cfg.EffectiveWorkers()),
		engine.WithProgressEvery(a.cfg.ProgressEvery),
		engine.WithEstimatedTotal(estimated),
		engine.WithLogger(log),
	}
	if a.progress {
		opts = append(opts, engine.WithProgress(report.NewProgress(a.stderr, r.Mode()).Func()))
	}

	stats, err := engine.Run(bufio.NewReaderSize(in, inputBufferSize), r, opts...)
	if err != nil {
		var sinkErr *engine.SinkError
		if errors.As(err, &sinkErr) {
			log.Error(err, "Output failed", logging.Fields{"sink": sinkErr.Sink})
		}
		return err
	}

	log.Info("Analysis finished", logging.Fields{
		"blocks":         stats.Blocks,
		"dropped_floats": stats.DroppedFloats,
		"elapsed":        stats.Elapsed.String(),
	})
	if stats.DroppedFloats > 0 {
		log.Debug("Trailing partial block dropped", logging.Fields{"floats": stats.DroppedFloats})
	}

	for _, out := range p.outputs {
		fmt.Fprintf(a.stdout, "%s: %s blocks -> %s\n", r.Mode(), report.Number(stats.Blocks), out.path)
	}

	if a.cfg.Summary {
		return a.writeSummary(files, rc, stats, p)
	}
	return nil
}

func (a *app) writeSummary(files *capture.Files, rc capture.RunConfig, stats engine.Stats, p *plan) error {
	s := report.NewSummary(rc, stats, p.summaries())
	switch r := p.reducer.(type) {
	case *engine.SampleReducer:
		s.WithSeries(r.Series())
	case *engine.IntegratedReducer:
		s.WithSpectrum(r.Spectrum(), rc.SampleRate())
	}

	data, err := s.YAML()
	if err != nil {
		return err
	}
	name := report.SummaryName(rc.OutputName(primaryOutput(stats.Mode)))
	if err := files.WriteFile(name, data); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	a.log.Debug("Summary written", logging.Fields{"path": files.Path(name)})
	return nil
}

func primaryOutput(m engine.Mode) capture.Output {
	switch m {
	case engine.ModeAmplitude:
		return capture.Waterfall
	case engine.ModeAmplitudeSum:
		return capture.AmplitudeSum
	case engine.ModePower:
		return capture.PowerRaw
	case engine.ModePowerSpectrum:
		return capture.PowerSpectrum
	case engine.ModeIntegrated:
		return capture.IntegratedSpectrum
	case engine.ModeSpectrogram:
		return capture.Spectrogram
	default:
		return capture.PowerSum
	}
}
