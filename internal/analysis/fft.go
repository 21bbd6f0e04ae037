package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// Spectrum is a one-sided power spectrum. Power[k] belongs to frequency
// k*Resolution.
type Spectrum struct {
	Power      []float64
	Resolution float64
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// PowerSpectrum removes the mean of series, zero pads it to a power of two
// and returns |X_k|²/n for k = 0..n/2.
func PowerSpectrum(series []float64, sampleRate float64) Spectrum {
	if len(series) == 0 || sampleRate <= 0 {
		return Spectrum{}
	}

	n := nextPow2(len(series))
	mean := stat.Mean(series, nil)
	padded := make([]float64, n)
	for i, v := range series {
		padded[i] = v - mean
	}

	coeffs := fft.FFTReal(padded)
	power := make([]float64, n/2+1)
	for k := range power {
		a := cmplx.Abs(coeffs[k])
		power[k] = a * a / float64(n)
	}

	return Spectrum{Power: power, Resolution: sampleRate / float64(n)}
}

func (s Spectrum) Frequency(k int) float64 { return float64(k) * s.Resolution }

// Dominant returns the strongest non-DC bin. A flat spectrum gives 0, 0.
func (s Spectrum) Dominant() (freq, power float64) {
	idx := 0
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > power {
			power = s.Power[k]
			idx = k
		}
	}
	return s.Frequency(idx), power
}

// Band returns the bins whose frequency is at most maxFreq.
func (s Spectrum) Band(maxFreq float64) []float64 {
	if s.Resolution == 0 {
		return nil
	}
	k := int(maxFreq/s.Resolution) + 1
	if k > len(s.Power) {
		k = len(s.Power)
	}
	return s.Power[:k]
}
