package analysis

import "math"

// Report summarizes a rendered buffer.
type Report struct {
	SampleRate   int     `json:"sample_rate"`
	Frames       int     `json:"frames"`
	Peak         float64 `json:"peak"`
	RMS          float64 `json:"rms"`
	DominantHz   float64 `json:"dominant_hz"`
	DecayDBPerS  float64 `json:"decay_db_per_s"`
	ClippedCount int     `json:"clipped_count"`
}

// Analyze computes level, pitch and decay figures for x.
func Analyze(x []float32, sampleRate int) Report {
	r := Report{SampleRate: sampleRate, Frames: len(x)}
	for _, s := range x {
		a := math.Abs(float64(s))
		r.Peak = max(r.Peak, a)
		if a >= 1 {
			r.ClippedCount++
		}
	}
	r.RMS = RMS(x)
	if f, err := DominantFrequency(x, sampleRate); err == nil {
		r.DominantHz = f
	}
	hop := sampleRate / 100
	r.DecayDBPerS = DecayDBPerS(Envelope(x, 2*hop, hop), 0.01)
	return r
}

// RMS returns the root mean square of x.
func RMS(x []float32) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(x)))
}

// Envelope returns the RMS of frames of the given length every hop samples.
func Envelope(x []float32, frame int, hop int) []float64 {
	if frame <= 0 || hop <= 0 || len(x) < frame {
		return nil
	}
	n := 1 + (len(x)-frame)/hop
	out := make([]float64, n)
	for i := range out {
		start := i * hop
		out[i] = RMS(x[start : start+frame])
	}
	return out
}

// DecayDBPerS fits a line to the envelope in dB from its peak down to 60 dB
// below it. It returns NaN when there is not enough decay to fit.
func DecayDBPerS(env []float64, hopSec float64) float64 {
	if len(env) < 8 || hopSec <= 0 {
		return math.NaN()
	}
	peak := math.Inf(-1)
	peakIdx := 0
	for i, v := range env {
		if db := linToDB(v); db > peak {
			peak = db
			peakIdx = i
		}
	}
	start := peakIdx + 1
	end := len(env)
	for i := start; i < len(env); i++ {
		if linToDB(env[i]) < peak-60 {
			end = i
			break
		}
	}
	if end-start < 6 {
		return math.NaN()
	}

	var sx, sy, sxx, sxy float64
	n := float64(end - start)
	for i := start; i < end; i++ {
		x := float64(i-start) * hopSec
		y := linToDB(env[i])
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}
	den := n*sxx - sx*sx
	if math.Abs(den) < 1e-12 {
		return math.NaN()
	}
	return (n*sxy - sx*sy) / den
}
