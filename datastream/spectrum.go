package datastream

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// ErrAxisRange indicates a spectrum request for an axis the stream does not
// have.
var ErrAxisRange = errors.New("datastream: axis out of range")

// PowerSpectrum computes the single-sided power spectrum of one axis.
//
// The series is Hann-windowed, zero-padded to the next power of two and
// transformed; the returned slices hold the bin frequencies in Hz and the
// squared magnitudes for bins 0..N/2. Useful for spot-checking dominant
// movement frequencies and sensor noise floors.
func (d *Datastream) PowerSpectrum(axis int) (freqs, power []float64, err error) {
	if axis < 0 || axis >= len(d.cols) {
		return nil, nil, fmt.Errorf("%w: %d of %d", ErrAxisRange, axis, len(d.cols))
	}

	series := d.cols[axis]
	fftSize := nextPowerOf2(len(series))

	in := make([]complex128, fftSize)
	for i, v := range series {
		in[i] = complex(v*hann(i, len(series)), 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, nil, fmt.Errorf("datastream: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, nil, fmt.Errorf("datastream: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	power = make([]float64, bins)
	vecmath.Power(power, re, im)

	freqs = make([]float64, bins)

	binHz := d.samplingRateHz / float64(fftSize)
	for i := range freqs {
		freqs[i] = float64(i) * binHz
	}

	return freqs, power, nil
}

func hann(i, n int) float64 {
	if n <= 1 {
		return 1
	}

	return 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
