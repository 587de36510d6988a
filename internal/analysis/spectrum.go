// Package analysis provides frequency-domain summaries of recorded
// series, used by the analyze command to recover oscillation periods
// from a finished run.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns magnitudes for the positive-frequency half of
// the series' spectrum. Input is Hann-windowed and zero-padded to a
// power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	n := 1
	for n < len(data) {
		n *= 2
	}
	buf := make([]float64, n)
	for i, v := range data {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(len(data)-1)))
		buf[i] = v * window
	}

	spectrum := fft.FFTReal(buf)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency finds the strongest non-DC bin and converts it to
// hertz given the sampling step. Returns 0 when no clear peak exists.
func DominantFrequency(ps []float64, dt float64, padded int) float64 {
	if len(ps) < 2 || dt <= 0 || padded == 0 {
		return 0
	}
	maxIdx, maxPower := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 {
		return 0
	}
	return float64(maxIdx) / (float64(padded) * dt)
}

// PaddedLength reports the power-of-two length PowerSpectrum will use
// for a series of the given length.
func PaddedLength(n int) int {
	if n < 2 {
		return 0
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
