package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

var ErrTooShort = errors.New("analysis: signal too short")

// DominantFrequency estimates the strongest spectral peak of x in Hz. The
// analysis frame is the largest power of two not exceeding len(x) (capped at
// 65536), Hann-windowed, and the peak bin is refined with parabolic
// interpolation on the log magnitude.
func DominantFrequency(x []float32, sampleRate int) (float64, error) {
	n := 1
	for n*2 <= len(x) && n < 1<<16 {
		n *= 2
	}
	if n < 256 || sampleRate <= 0 {
		return 0, ErrTooShort
	}

	plan, err := algofft.NewPlanReal64(n)
	if err != nil {
		return 0, err
	}
	buf := make([]float64, n)
	start := len(x) - n
	for i := range buf {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		buf[i] = float64(x[start+i]) * w
	}
	spec := make([]complex128, n/2+1)
	plan.Forward(spec, buf)

	best := 1
	bestMag := 0.0
	for k := 1; k < n/2; k++ {
		if m := cmplx.Abs(spec[k]); m > bestMag {
			bestMag = m
			best = k
		}
	}
	if bestMag == 0 {
		return 0, nil
	}

	a := linToDB(cmplx.Abs(spec[best-1]))
	b := linToDB(bestMag)
	c := linToDB(cmplx.Abs(spec[best+1]))
	offset := 0.0
	if den := a - 2*b + c; den != 0 {
		offset = 0.5 * (a - c) / den
	}
	return (float64(best) + offset) * float64(sampleRate) / float64(n), nil
}

// CentsBetween returns the distance from ref to f in cents.
func CentsBetween(f, ref float64) float64 {
	if f <= 0 || ref <= 0 {
		return math.NaN()
	}
	return 1200 * math.Log2(f/ref)
}

func linToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}
