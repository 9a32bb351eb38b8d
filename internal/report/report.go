// Package report renders run summaries as YAML and human-readable progress
// lines.
package report

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-iqspec/engine"
	"github.com/cwbudde/algo-iqspec/internal/capture"
	frequencystats "github.com/cwbudde/algo-iqspec/stats/frequency"
	timestats "github.com/cwbudde/algo-iqspec/stats/time"
)

// Summary describes one completed run.
type Summary struct {
	Mode            string            `yaml:"mode"`
	Input           string            `yaml:"input"`
	SamplesPerBlock int               `yaml:"samples_per_block"`
	Blocks          int64             `yaml:"blocks"`
	DroppedFloats   int               `yaml:"dropped_floats"`
	Workers         int               `yaml:"workers"`
	Backend         string            `yaml:"backend,omitempty"`
	Elapsed         string            `yaml:"elapsed"`
	Outputs         []Output          `yaml:"outputs"`
	Capture         *capture.Metadata `yaml:"capture,omitempty"`
	Series          *SeriesSummary    `yaml:"series,omitempty"`
	Spectrum        *SpectrumSummary  `yaml:"spectrum,omitempty"`
}

// Output is one file a run wrote. Binary outputs report float32 values
// (headers excluded), text outputs report lines.
type Output struct {
	Path   string `yaml:"path"`
	Values int64  `yaml:"values,omitempty"`
	Lines  int64  `yaml:"lines,omitempty"`
}

// SeriesSummary condenses the per-block values of the sum modes.
type SeriesSummary struct {
	Mean     float64 `yaml:"mean"`
	StdDev   float64 `yaml:"stddev"`
	Min      float64 `yaml:"min"`
	MinBlock int64   `yaml:"min_block"`
	Max      float64 `yaml:"max"`
	MaxBlock int64   `yaml:"max_block"`
}

// SpectrumSummary condenses the integrated power spectrum.
type SpectrumSummary struct {
	PeakBin      int     `yaml:"peak_bin"`
	PeakPosition float64 `yaml:"peak_position"`
	PeakPower    float64 `yaml:"peak_power"`
	// PeakOffsetHz is (PeakPosition-N/2)*rate/N.
	PeakOffsetHz float64 `yaml:"peak_offset_hz"`
	PeakHz       float64 `yaml:"peak_hz,omitempty"`
	TotalPower   float64 `yaml:"total_power"`
	MeanPower    float64 `yaml:"mean_power"`
	MeanPowerDB  float64 `yaml:"mean_power_db"`
	Flatness     float64 `yaml:"flatness"`
}

// NewSummary builds the summary common to every mode.
func NewSummary(rc capture.RunConfig, stats engine.Stats, outputs []Output) *Summary {
	return &Summary{
		Mode:            stats.Mode.String(),
		Input:           rc.Input,
		SamplesPerBlock: stats.SamplesPerBlock,
		Blocks:          stats.Blocks,
		DroppedFloats:   stats.DroppedFloats,
		Workers:         stats.Workers,
		Backend:         stats.Backend,
		Elapsed:         stats.Elapsed.Round(time.Millisecond).String(),
		Outputs:         outputs,
		Capture:         rc.Metadata,
	}
}

// WithSeries attaches per-block series statistics. Empty series are skipped.
func (s *Summary) WithSeries(st timestats.Stats) *Summary {
	if st.Count == 0 {
		return s
	}
	s.Series = &SeriesSummary{
		Mean:     st.Mean,
		StdDev:   st.StdDev,
		Min:      st.Min,
		MinBlock: st.MinPos,
		Max:      st.Max,
		MaxBlock: st.MaxPos,
	}
	return s
}

// WithSpectrum attaches statistics of an integrated power spectrum. Bin i
// is read as offset (i-N/2)*rate/N from the center frequency, the axis the
// .dat plotting tools use. When the capture metadata is known the absolute
// peak frequency is filled in.
func (s *Summary) WithSpectrum(power []float64, sampleRate float64) *Summary {
	if len(power) == 0 || s.Blocks == 0 {
		return s
	}
	st := frequencystats.Calculate(power, sampleRate, frequencystats.WithAxis(frequencystats.AxisLinear))
	s.Spectrum = &SpectrumSummary{
		PeakBin:      st.MaxBin,
		PeakPosition: st.PeakBin,
		PeakPower:    st.Max,
		PeakOffsetHz: st.PeakOffset,
		TotalPower:   st.Total,
		MeanPower:    st.Mean,
		MeanPowerDB:  st.Mean_dB,
		Flatness:     st.Flatness,
	}
	if s.Capture != nil {
		s.Spectrum.PeakHz = float64(s.Capture.CenterHz) + st.PeakOffset
	}
	return s
}

// YAML encodes the summary.
func (s *Summary) YAML() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("report: encode summary: %w", err)
	}
	return out, nil
}

// SummaryName returns the sidecar file name for an output.
func SummaryName(output string) string {
	return output + ".summary.yaml"
}

// Progress prints "<mode>: 12,345 / 20,000 blocks (61.7%)" style lines.
type Progress struct {
	w    io.Writer
	mode string
	p    *message.Printer
}

// NewProgress returns a progress printer for w.
func NewProgress(w io.Writer, mode engine.Mode) *Progress {
	return &Progress{w: w, mode: mode.String(), p: message.NewPrinter(language.English)}
}

// Update prints one progress line. total may be 0 when unknown.
func (p *Progress) Update(blocks, total int64) {
	if total > 0 {
		pct := 100 * float64(blocks) / float64(total)
		p.p.Fprintf(p.w, "%s: %d / %d blocks (%.1f%%)\n", p.mode, blocks, total, pct)
		return
	}
	p.p.Fprintf(p.w, "%s: %d blocks\n", p.mode, blocks)
}

// Func adapts Update to engine.ProgressFunc.
func (p *Progress) Func() engine.ProgressFunc {
	return p.Update
}

// Number formats an integer with English digit grouping.
func Number(v int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", v)
}
