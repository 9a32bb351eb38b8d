package spectrum

import "fmt"

func ExampleAccumulator() {
	acc, _ := NewAccumulator(2)
	_ = acc.Add([]float64{1, 4})
	_ = acc.Add([]float64{3, 0})
	fmt.Println(acc.Mean())
	// Output:
	// [2 2]
}
