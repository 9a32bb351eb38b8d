package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-iqspec/engine"
	"github.com/cwbudde/algo-iqspec/internal/capture"
	timestats "github.com/cwbudde/algo-iqspec/stats/time"
)

func TestSummaryYAML(t *testing.T) {
	rc, err := capture.NewRunConfig("gqrx_20250404_084805_1419390700_8_fc_sun.raw", 0)
	require.NoError(t, err)

	stats := engine.Stats{
		Mode:            engine.ModeIntegrated,
		SamplesPerBlock: 8,
		Blocks:          12,
		DroppedFloats:   3,
		Workers:         1,
		Backend:         "algo-fft",
		Elapsed:         1500 * time.Millisecond,
	}
	power := []float64{1, 1, 9, 1, 1, 1, 1, 1}
	outputs := []Output{{Path: rc.OutputName(capture.IntegratedSpectrum), Lines: 8}}
	s := NewSummary(rc, stats, outputs).
		WithSpectrum(power, rc.SampleRate())

	data, err := s.YAML()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "integrated", got["mode"])
	assert.Equal(t, 12, got["blocks"])
	assert.Equal(t, 3, got["dropped_floats"])
	assert.Equal(t, "1.5s", got["elapsed"])

	outs, ok := got["outputs"].([]any)
	require.True(t, ok)
	require.Len(t, outs, 1)
	out := outs[0].(map[string]any)
	assert.Equal(t, 8, out["lines"])
	assert.NotContains(t, out, "values")

	sp, ok := got["spectrum"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2, sp["peak_bin"])
	assert.InDelta(t, 2.0, sp["peak_position"], 1e-12)
	// Index 2 of 8 at 8 Hz sits 2 Hz below the center on the plotting axis.
	assert.InDelta(t, -2.0, sp["peak_offset_hz"], 1e-9)
	assert.InDelta(t, 1419390698.0, sp["peak_hz"], 1e-3)
	assert.InDelta(t, 16.0, sp["total_power"], 1e-12)
	assert.NotContains(t, got, "series")
}

func TestSummarySeries(t *testing.T) {
	rc, err := capture.NewRunConfig("plain.raw", 4)
	require.NoError(t, err)

	s := NewSummary(rc, engine.Stats{Mode: engine.ModePowerSum, Blocks: 3}, nil).
		WithSeries(timestats.Calculate([]float64{4, 1, 7}))
	require.NotNil(t, s.Series)
	assert.EqualValues(t, 2, s.Series.MaxBlock)
	assert.EqualValues(t, 1, s.Series.MinBlock)
	assert.InDelta(t, 4, s.Series.Mean, 1e-12)
	assert.Nil(t, s.Capture)

	empty := NewSummary(rc, engine.Stats{}, nil).WithSeries(timestats.Stats{})
	assert.Nil(t, empty.Series)
}

func TestProgressLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, engine.ModeSpectrogram)

	p.Func()(12345, 20000)
	p.Update(7, 0)

	assert.Equal(t, "spectrogram: 12,345 / 20,000 blocks (61.7%)\nspectrogram: 7 blocks\n", buf.String())
}

func TestNumberAndSummaryName(t *testing.T) {
	assert.Equal(t, "1,800,000", Number(1800000))
	assert.Equal(t, "power_x.dat.summary.yaml", SummaryName("power_x.dat"))
}
