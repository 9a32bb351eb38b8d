// Package time summarizes per-block scalar series such as the per-block
// power sums and mean amplitudes emitted by the block engine.
package time

import "math"

// Stats holds summary statistics of a scalar series indexed by block.
type Stats struct {
	Count    int64
	Mean     float64
	Mean_dB  float64
	StdDev   float64
	Variance float64
	Max      float64
	MaxPos   int64
	Min      float64
	MinPos   int64
	Sum      float64
}

// powerTodB converts a linear power value to decibels.
// Returns -Inf for non-positive values.
func powerTodB(value float64) float64 {
	if value <= 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(value)
}

func emptyStats() Stats {
	return Stats{Mean_dB: math.Inf(-1)}
}

// Calculate computes the statistics of a complete series in one pass.
func Calculate(series []float64) Stats {
	var s StreamingStats
	for _, v := range series {
		s.Add(v)
	}
	return s.Result()
}

// StreamingStats accumulates series statistics one value at a time using
// Welford's update, so the whole series never has to be held in memory.
type StreamingStats struct {
	n       int64
	mean    float64
	m2      float64
	sum     float64
	maxVal  float64
	maxPos  int64
	minVal  float64
	minPos  int64
	hasData bool
}

// Add appends one value to the running statistics. Its position is the
// number of values added before it.
func (s *StreamingStats) Add(x float64) {
	pos := s.n
	s.n++

	delta := x - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (x - s.mean)
	s.sum += x

	if !s.hasData {
		s.maxVal, s.maxPos = x, pos
		s.minVal, s.minPos = x, pos
		s.hasData = true
		return
	}
	if x > s.maxVal {
		s.maxVal, s.maxPos = x, pos
	}
	if x < s.minVal {
		s.minVal, s.minPos = x, pos
	}
}

// Result computes the final statistics from accumulated data.
// Variance is the population variance.
func (s *StreamingStats) Result() Stats {
	if s.n == 0 {
		return emptyStats()
	}

	variance := s.m2 / float64(s.n)
	return Stats{
		Count:    s.n,
		Mean:     s.mean,
		Mean_dB:  powerTodB(s.mean),
		StdDev:   math.Sqrt(variance),
		Variance: variance,
		Max:      s.maxVal,
		MaxPos:   s.maxPos,
		Min:      s.minVal,
		MinPos:   s.minPos,
		Sum:      s.sum,
	}
}

// Reset clears all accumulated data, allowing the StreamingStats to be reused.
func (s *StreamingStats) Reset() {
	*s = StreamingStats{}
}
