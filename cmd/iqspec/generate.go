package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-iqspec/dsp/buffer"
	"github.com/cwbudde/algo-iqspec/dsp/signal"
	"github.com/cwbudde/algo-iqspec/internal/capture"
	"github.com/cwbudde/algo-iqspec/internal/logging"
	"github.com/cwbudde/algo-iqspec/internal/report"
	"github.com/cwbudde/algo-iqspec/internal/sink"
)

// generateChunk is the number of I/Q samples synthesized per write.
const generateChunk = 1 << 16

type generateOptions struct {
	rate    int64
	center  int64
	seconds float64
	tones   []string
	noise   float64
	seed    int64
	object  string
	start   string
}

func (a *app) generateCommand() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate [output_file]",
		Short: "Write a synthetic I/Q capture of tones and noise",
		Long: `generate writes interleaved float32 I/Q samples holding complex tones at
fixed offsets from the center frequency plus optional uniform noise.

Without an output file the capture is named the way gqrx names its
recordings, so the analysis commands can derive samples_per_block from it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.generate(args, opts)
		},
	}

	f := cmd.Flags()
	f.Int64Var(&opts.rate, "rate", 2_400_000, "sample rate in Hz")
	f.Int64Var(&opts.center, "center", 1_420_405_752, "center frequency in Hz, recorded in the file name")
	f.Float64Var(&opts.seconds, "seconds", 1, "capture duration")
	f.StringArrayVar(&opts.tones, "tone", nil, "tone as offset_hz[:amplitude] (repeatable)")
	f.Float64Var(&opts.noise, "noise", 0, "peak amplitude of uniform noise on I and Q")
	f.Int64Var(&opts.seed, "seed", 1, "noise seed")
	f.StringVar(&opts.object, "object", "synthetic", "observed object, recorded in the file name")
	f.StringVar(&opts.start, "start", "", "start time as YYYYMMDD_HHMMSS (default now, UTC)")
	return cmd
}

// parseTone parses "offset[:amplitude]". The amplitude defaults to 1.
func parseTone(s string) (signal.Tone, error) {
	offset, amp, hasAmp := strings.Cut(s, ":")
	t := signal.Tone{Amplitude: 1}

	var err error
	if t.OffsetHz, err = strconv.ParseFloat(strings.TrimSpace(offset), 64); err != nil {
		return t, fmt.Errorf("tone %q: offset: %w", s, err)
	}
	if hasAmp {
		if t.Amplitude, err = strconv.ParseFloat(strings.TrimSpace(amp), 64); err != nil {
			return t, fmt.Errorf("tone %q: amplitude: %w", s, err)
		}
	}
	return t, nil
}

func (a *app) generate(args []string, opts generateOptions) (err error) {
	if opts.seconds <= 0 || math.IsNaN(opts.seconds) || math.IsInf(opts.seconds, 0) {
		return fmt.Errorf("seconds must be > 0: %g", opts.seconds)
	}

	start := time.Now().UTC().Truncate(time.Second)
	if opts.start != "" {
		start, err = time.Parse("20060102_150405", opts.start)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
	}

	genOpts := []signal.Option{
		signal.WithSampleRate(float64(opts.rate)),
		signal.WithNoise(opts.noise),
		signal.WithSeed(opts.seed),
	}
	for _, s := range opts.tones {
		t, err := parseTone(s)
		if err != nil {
			return err
		}
		genOpts = append(genOpts, signal.WithTone(t.OffsetHz, t.Amplitude))
	}
	gen, err := signal.NewGenerator(genOpts...)
	if err != nil {
		return err
	}

	name := capture.FormatName(capture.Metadata{
		Start:      start,
		CenterHz:   opts.center,
		SampleRate: opts.rate,
		Object:     opts.object,
	})
	if len(args) > 0 {
		name = args[0]
	}

	files := capture.NewFiles(a.fs, a.cfg.OutputDir)
	f, err := files.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	path := files.Path(name)
	out, err := sink.NewBinary(path, f)
	if err != nil {
		return err
	}

	total := int64(math.Round(opts.seconds * float64(opts.rate)))
	log := a.log.WithFields(logging.Fields{"output": path})
	log.Info("Generating capture", logging.Fields{
		"samples": total,
		"tones":   len(opts.tones),
		"noise":   opts.noise,
	})

	block := buffer.New(2 * generateChunk)
	for left := total; left > 0; {
		n := min(left, generateChunk)
		block.Resize(2 * int(n))
		if err := gen.Fill(block.Values()); err != nil {
			return err
		}
		if err := out.WriteFloat32s(block.Values()); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		left -= n
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}

	fmt.Fprintf(a.stdout, "generate: %s samples -> %s\n", report.Number(total), path)
	return nil
}
