package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-iqspec/dsp/iq"
	"github.com/cwbudde/algo-iqspec/internal/capture"
	"github.com/cwbudde/algo-iqspec/internal/report"
)

// captureInfo is what "iqspec info" reports about one input.
type captureInfo struct {
	Input           string            `yaml:"input"`
	Bytes           int64             `yaml:"bytes"`
	Samples         int64             `yaml:"samples"`
	SamplesPerBlock int               `yaml:"samples_per_block"`
	Blocks          int64             `yaml:"blocks"`
	TrailingFloats  int64             `yaml:"trailing_floats"`
	SpectrogramRows int64             `yaml:"spectrogram_rows"`
	Duration        string            `yaml:"duration,omitempty"`
	Capture         *capture.Metadata `yaml:"capture,omitempty"`
}

func (a *app) infoCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info " + runArgs,
		Short: "Print capture metadata and the predicted block layout",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			info, err := a.captureInfo(args)
			if err != nil {
				return err
			}
			switch format {
			case "yaml":
				out, err := yaml.Marshal(info)
				if err != nil {
					return err
				}
				_, err = a.stdout.Write(out)
				return err
			case "table":
				return a.printInfoTable(info)
			default:
				return fmt.Errorf("unknown output format %q (table, yaml)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format (table, yaml)")
	return cmd
}

func (a *app) captureInfo(args []string) (*captureInfo, error) {
	rc, err := runConfig(args)
	if err != nil {
		return nil, err
	}

	in, size, err := capture.NewFiles(a.fs, "").Open(rc.Input)
	if err != nil {
		return nil, err
	}
	_ = in.Close()

	n := rc.SamplesPerBlock
	blocks, trailing := iq.EstimateBlocks(size, 2*n)
	rows, _ := iq.EstimateBlocks(size, n)

	info := &captureInfo{
		Input:           rc.Input,
		Bytes:           size,
		Samples:         size / (2 * iq.BytesPerFloat),
		SamplesPerBlock: n,
		Blocks:          blocks,
		TrailingFloats:  trailing,
		SpectrogramRows: rows,
		Capture:         rc.Metadata,
	}
	if rate := rc.SampleRate(); rate > 0 {
		d := time.Duration(float64(info.Samples) / rate * float64(time.Second))
		info.Duration = d.Round(time.Millisecond).String()
	}
	return info, nil
}

func (a *app) printInfoTable(info *captureInfo) error {
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Input", info.Input},
		{"Size [bytes]", report.Number(info.Bytes)},
		{"I/Q samples", report.Number(info.Samples)},
		{"Samples per block", report.Number(int64(info.SamplesPerBlock))},
		{"Full blocks", report.Number(info.Blocks)},
		{"Trailing floats", report.Number(info.TrailingFloats)},
		{"Spectrogram rows (real layout)", report.Number(info.SpectrogramRows)},
	}
	if m := info.Capture; m != nil {
		rows = append(rows,
			[2]string{"Start", m.Start.Format(time.RFC3339)},
			[2]string{"Center [Hz]", report.Number(m.CenterHz)},
			[2]string{"Sample rate [Hz]", report.Number(m.SampleRate)},
			[2]string{"Object", m.Object},
			[2]string{"Duration", info.Duration},
		)
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1]); err != nil {
			return fmt.Errorf("write table: %w", err)
		}
	}
	return tw.Flush()
}
