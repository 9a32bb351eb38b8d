package time_test

import (
	"fmt"

	timestats "github.com/cwbudde/algo-iqspec/stats/time"
)

func ExampleCalculate() {
	s := timestats.Calculate([]float64{25, 0, 50})
	fmt.Printf("mean=%.0f max=%.0f@%d min=%.0f@%d\n", s.Mean, s.Max, s.MaxPos, s.Min, s.MinPos)

	// Output:
	// mean=25 max=50@2 min=0@1
}

func ExampleStreamingStats() {
	var st timestats.StreamingStats
	for _, v := range []float64{1, 2, 3} {
		st.Add(v)
	}
	r := st.Result()
	fmt.Printf("count=%d sum=%.0f\n", r.Count, r.Sum)

	// Output:
	// count=3 sum=6
}
