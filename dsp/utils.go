package dsp

import "github.com/cwbudde/algo-approx"

func pow10(x float32) float32 {
	const ln10 = 2.30258509299404568402
	return approx.FastExp(x * ln10)
}

// DecayCoeff is the per-sample gain that attenuates by 60 dB over seconds.
func DecayCoeff(seconds, sampleRate float32) float32 {
	if seconds <= 0 || sampleRate <= 0 {
		return 0
	}
	return segmentCoeff(seconds, sampleRate)
}
