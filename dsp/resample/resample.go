package resample

import (
	"errors"
	"math"
)

var (
	// ErrInvalidFactor indicates a decimation factor < 1.
	ErrInvalidFactor = errors.New("resample: decimation factor must be >= 1")
	// ErrInvalidLength indicates a target length < 1.
	ErrInvalidLength = errors.New("resample: target length must be >= 1")
	// ErrEmptyInput indicates an empty input series.
	ErrEmptyInput = errors.New("resample: empty input")
)

type config struct {
	tapsPerBranch int
	cutoffScale   float64
	kaiserBeta    float64
}

// Option configures the decimation anti-aliasing filter.
type Option func(*config)

// WithTapsPerBranch overrides the FIR taps designed per decimation branch.
func WithTapsPerBranch(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.tapsPerBranch = n
		}
	}
}

// WithCutoffScale overrides normalized cutoff scaling in range (0, 1].
// 1.0 equals the theoretical anti-aliasing cutoff.
func WithCutoffScale(v float64) Option {
	return func(cfg *config) {
		if v > 0 && v <= 1 {
			cfg.cutoffScale = v
		}
	}
}

// WithKaiserBeta overrides the Kaiser window beta parameter.
func WithKaiserBeta(beta float64) Option {
	return func(cfg *config) {
		if beta >= 0 {
			cfg.kaiserBeta = beta
		}
	}
}

func defaultConfig() config {
	return config{
		tapsPerBranch: 8,
		cutoffScale:   0.92,
		kaiserBeta:    7.5,
	}
}

// Decimate reduces a series by an integer factor.
//
// The input is filtered with a zero-phase-centered Kaiser-windowed sinc
// low-pass at the new Nyquist frequency, then every factor-th sample is
// kept starting at index 0. The output length is exactly len(in)/factor
// (integer division). A factor of 1 returns a copy of the input.
func Decimate(in []float64, factor int, opts ...Option) ([]float64, error) {
	if len(in) == 0 {
		return nil, ErrEmptyInput
	}

	if factor < 1 {
		return nil, ErrInvalidFactor
	}

	if factor == 1 {
		out := make([]float64, len(in))
		copy(out, in)

		return out, nil
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	taps := designLowpass(factor, cfg)
	half := len(taps) / 2

	n := len(in) / factor
	out := make([]float64, n)

	for i := range n {
		center := i * factor

		var y float64

		for k, c := range taps {
			idx := center + k - half
			if idx < 0 || idx >= len(in) {
				continue
			}

			y += c * in[idx]
		}

		out[i] = y
	}

	return out, nil
}

// ToLength interpolates a series onto n uniformly spaced positions
// spanning the same interval, preserving the first and last sample.
//
// Interpolation is 4-point Hermite, which reproduces constant and linear
// inputs exactly. n may be smaller or larger than len(in); callers that
// shrink a series drastically should Decimate instead to avoid aliasing.
func ToLength(in []float64, n int) ([]float64, error) {
	if len(in) == 0 {
		return nil, ErrEmptyInput
	}

	if n < 1 {
		return nil, ErrInvalidLength
	}

	out := make([]float64, n)

	if len(in) == 1 || n == 1 {
		for i := range out {
			out[i] = in[0]
		}

		return out, nil
	}

	step := float64(len(in)-1) / float64(n-1)

	for i := range n {
		pos := float64(i) * step

		j := int(pos)
		if j >= len(in)-1 {
			j = len(in) - 2
		}

		frac := pos - float64(j)
		out[i] = hermite4(frac, sampleAt(in, j-1), in[j], in[j+1], sampleAt(in, j+2))
	}

	return out, nil
}

// designLowpass returns a symmetric Kaiser-windowed sinc FIR with cutoff at
// the post-decimation Nyquist frequency. The tap count is odd so the filter
// has an exact center and introduces no group delay at the kept samples.
func designLowpass(factor int, cfg config) []float64 {
	nTaps := cfg.tapsPerBranch*factor + 1

	fc := (0.5 / float64(factor)) * cfg.cutoffScale

	taps := make([]float64, nTaps)
	center := 0.5 * float64(nTaps-1)

	for n := range nTaps {
		t := float64(n) - center
		taps[n] = 2 * fc * sinc(2*fc*t) * kaiserWindow(n, nTaps, cfg.kaiserBeta)
	}

	var sum float64
	for _, v := range taps {
		sum += v
	}

	// Normalize to unit DC gain so constant inputs pass unchanged.
	for i := range taps {
		taps[i] /= sum
	}

	return taps
}

// hermite4 computes cubic 4-point interpolation from x0 to x1 at t in [0,1]
// using neighbor points xm1 and x2.
func hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)

	return ((c3*t+c2)*t+c1)*t + c0
}

// sampleAt reads in[i], extending the series linearly beyond its ends so
// the Hermite kernel stays exact for linear inputs at the boundaries.
func sampleAt(in []float64, i int) float64 {
	if i < 0 {
		return 2*in[0] - in[1]
	}

	if i >= len(in) {
		last := len(in) - 1

		return 2*in[last] - in[last-1]
	}

	return in[i]
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	pix := math.Pi * x

	return math.Sin(pix) / pix
}

func kaiserWindow(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}

	t := 2*float64(i)/float64(n-1) - 1
	a := math.Sqrt(math.Max(0, 1-t*t))

	return i0(beta*a) / i0(beta)
}

func i0(x float64) float64 {
	// Power series approximation.
	sum := 1.0
	term := 1.0

	x2 := (x * x) / 4
	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)

		sum += term
		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
