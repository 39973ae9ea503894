package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/swingsim/internal/sim"
)

// PowerSpectrum returns |X_k| for the first half of the spectrum of data
// after removing its mean and zero padding to a power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	n := 1
	for n < len(data) {
		n *= 2
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod estimates the oscillation period of the angle from the
// strongest non-DC FFT bin. ok is false when the series is too short or
// never moves.
func DominantPeriod(ts *sim.TimeSeries) (period float64, ok bool) {
	if ts == nil || ts.Len() < 4 {
		return 0, false
	}

	ps := PowerSpectrum(ts.Angles)
	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 || maxPower == 0 {
		return 0, false
	}

	n := float64(2 * len(ps))
	freq := float64(maxIdx) / (n * ts.Params.Dt)
	return 1 / freq, true
}

// ZeroCrossingPeriod averages the time between the first and last sign
// change of the angle. Two crossings make one period.
func ZeroCrossingPeriod(ts *sim.TimeSeries) (period float64, ok bool) {
	if ts == nil {
		return 0, false
	}

	first, last := -1.0, -1.0
	crossings := 0
	for i := 1; i < ts.Len(); i++ {
		if ts.Angles[i]*ts.Angles[i-1] >= 0 {
			continue
		}
		if first < 0 {
			first = ts.Times[i]
		}
		last = ts.Times[i]
		crossings++
	}
	if crossings < 2 {
		return 0, false
	}
	return 2 * (last - first) / float64(crossings-1), true
}
