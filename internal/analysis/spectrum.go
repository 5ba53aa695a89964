package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

var (
	ErrShortSeries = errors.New("analysis: series too short")
	ErrBadInterval = errors.New("analysis: sample interval must be positive")
)

const minSpectrumLen = 4

// Spectrum returns the one-sided power spectrum of series sampled every dt
// seconds. The mean is removed and a Hann window applied first; freqs are Hz.
func Spectrum(series []float64, dt float64) (freqs, power []float64, err error) {
	if len(series) < minSpectrumLen {
		return nil, nil, ErrShortSeries
	}
	if dt <= 0 || math.IsNaN(dt) {
		return nil, nil, ErrBadInterval
	}

	n := len(series)
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	x := make([]float64, n)
	for i, v := range series {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	spectrum := fft.FFTReal(x)
	bins := n/2 + 1
	freqs = make([]float64, bins)
	power = make([]float64, bins)
	for k := 0; k < bins; k++ {
		freqs[k] = float64(k) / (float64(n) * dt)
		mag := cmplx.Abs(spectrum[k])
		power[k] = mag * mag
	}
	return freqs, power, nil
}

// DominantFrequency is the frequency of the strongest bin above DC. A flat
// series returns 0.
func DominantFrequency(series []float64, dt float64) (float64, error) {
	freqs, power, err := Spectrum(series, dt)
	if err != nil {
		return 0, err
	}

	best, bestPower := 0, 0.0
	for k := 1; k < len(power); k++ {
		if power[k] > bestPower {
			best, bestPower = k, power[k]
		}
	}
	if best == 0 {
		return 0, nil
	}
	return freqs[best], nil
}
