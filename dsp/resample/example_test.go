package resample_test

import (
	"fmt"

	"github.com/hearlab/imusession/dsp/resample"
)

func ExampleDecimate() {
	in := make([]float64, 1000)

	out, _ := resample.Decimate(in, 4)
	fmt.Printf("in=%d out=%d\n", len(in), len(out))
	// Output:
	// in=1000 out=250
}

func ExampleToLength() {
	in := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	out, _ := resample.ToLength(in, 4)
	fmt.Printf("out=%v\n", out)
	// Output:
	// out=[0 3 6 9]
}
