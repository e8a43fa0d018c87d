package resample

import (
	"math"
	"testing"
)

func TestDecimateValidation(t *testing.T) {
	if _, err := Decimate(nil, 2); err == nil {
		t.Fatal("expected error for empty input")
	}

	if _, err := Decimate([]float64{1, 2, 3}, 0); err == nil {
		t.Fatal("expected error for factor=0")
	}
}

func TestDecimateLength(t *testing.T) {
	tests := []struct {
		n      int
		factor int
		want   int
	}{
		{1000, 4, 250},
		{1010, 4, 252},
		{7, 2, 3},
		{16, 16, 1},
		{5, 1, 5},
	}
	for _, tc := range tests {
		in := make([]float64, tc.n)

		out, err := Decimate(in, tc.factor)
		if err != nil {
			t.Fatalf("Decimate(n=%d, factor=%d) error = %v", tc.n, tc.factor, err)
		}

		if len(out) != tc.want {
			t.Fatalf("Decimate(n=%d, factor=%d) len = %d, want %d", tc.n, tc.factor, len(out), tc.want)
		}
	}
}

func TestDecimateFactorOneCopies(t *testing.T) {
	in := []float64{1, 2, 3, 4}

	out, err := Decimate(in, 1)
	if err != nil {
		t.Fatalf("Decimate() error = %v", err)
	}

	out[0] = 99
	if in[0] != 1 {
		t.Fatal("Decimate(factor=1) must not alias the input")
	}
}

func TestDecimatePreservesDC(t *testing.T) {
	in := make([]float64, 512)
	for i := range in {
		in[i] = 3.5
	}

	out, err := Decimate(in, 4)
	if err != nil {
		t.Fatalf("Decimate() error = %v", err)
	}

	// Away from the edges the unit-DC-gain filter must pass a constant
	// through unchanged.
	for i := 16; i < len(out)-16; i++ {
		if diff := math.Abs(out[i] - 3.5); diff > 1e-9 {
			t.Fatalf("sample %d = %g, want 3.5", i, out[i])
		}
	}
}

func TestDecimateSuppressesAliasBand(t *testing.T) {
	const factor = 4

	in := make([]float64, 2048)
	for i := range in {
		// Tone well above the post-decimation Nyquist.
		in[i] = math.Sin(2 * math.Pi * 0.4 * float64(i))
	}

	out, err := Decimate(in, factor)
	if err != nil {
		t.Fatalf("Decimate() error = %v", err)
	}

	if r := rms(out[32 : len(out)-32]); r > 0.05 {
		t.Fatalf("alias-band rms = %g, want < 0.05", r)
	}
}

func TestToLengthValidation(t *testing.T) {
	if _, err := ToLength(nil, 10); err == nil {
		t.Fatal("expected error for empty input")
	}

	if _, err := ToLength([]float64{1, 2}, 0); err == nil {
		t.Fatal("expected error for n=0")
	}
}

func TestToLengthLinearExact(t *testing.T) {
	in := make([]float64, 1010)
	for i := range in {
		in[i] = 2 * float64(i)
	}

	out, err := ToLength(in, 1000)
	if err != nil {
		t.Fatalf("ToLength() error = %v", err)
	}

	if len(out) != 1000 {
		t.Fatalf("len(out) = %d, want 1000", len(out))
	}

	// Hermite interpolation reproduces a linear ramp exactly, endpoints
	// included.
	step := 2 * float64(len(in)-1) / float64(len(out)-1)
	for i, v := range out {
		want := float64(i) * step
		if diff := math.Abs(v - want); diff > 1e-9 {
			t.Fatalf("out[%d] = %g, want %g", i, v, want)
		}
	}
}

func TestToLengthUpAndDown(t *testing.T) {
	in := sine(5, 200, 400)

	for _, n := range []int{100, 399, 400, 401, 800} {
		out, err := ToLength(in, n)
		if err != nil {
			t.Fatalf("ToLength(n=%d) error = %v", n, err)
		}

		if len(out) != n {
			t.Fatalf("ToLength(n=%d) len = %d", n, len(out))
		}

		if out[0] != in[0] || out[n-1] != in[len(in)-1] {
			t.Fatalf("ToLength(n=%d) endpoints not preserved", n)
		}
	}
}

func TestToLengthSingleSample(t *testing.T) {
	out, err := ToLength([]float64{7}, 4)
	if err != nil {
		t.Fatalf("ToLength() error = %v", err)
	}

	for _, v := range out {
		if v != 7 {
			t.Fatalf("out = %v, want all 7", out)
		}
	}
}

func sine(freq, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range n {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}

	return out
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	var s float64
	for _, v := range x {
		s += v * v
	}

	return math.Sqrt(s / float64(len(x)))
}
