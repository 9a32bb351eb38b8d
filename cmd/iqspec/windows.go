package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-iqspec/dsp/window"
)

var windowNames = []string{"rectangular", "hann", "hamming", "blackman"}

func (a *app) windowsCommand() *cobra.Command {
	var (
		size     int
		periodic bool
	)

	cmd := &cobra.Command{
		Use:   "windows [window-name ...]",
		Short: "Print spectral properties of the spectrogram window functions",
		RunE: func(_ *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = windowNames
			}
			if size < 2 {
				return fmt.Errorf("window size must be >= 2: %d", size)
			}
			var opts []window.Option
			if periodic {
				opts = append(opts, window.WithPeriodic())
			}
			return a.printWindows(names, size, opts)
		},
	}
	cmd.Flags().IntVar(&size, "size", 1024, "window length in samples")
	cmd.Flags().BoolVar(&periodic, "periodic", false, "use periodic (FFT) form instead of symmetric")
	return cmd
}

func (a *app) printWindows(names []string, size int, opts []window.Option) error {
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Window\tSize\tCoherent Gain\tENBW [bins]\tSidelobe [dB]\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "------\t----\t-------------\t-----------\t-------------\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, name := range names {
		t, err := window.ParseType(name)
		if err != nil {
			return err
		}
		coeffs := window.Generate(t, size, opts...)
		enbw, err := window.EquivalentNoiseBandwidth(coeffs)
		if err != nil {
			return err
		}
		sum := 0.0
		for _, c := range coeffs {
			sum += c
		}
		meta := window.Info(t)

		if _, err := fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.4f\t%.1f\n",
			meta.Name, size, sum/float64(size), enbw, meta.HighestSidelobe); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return tw.Flush()
}
