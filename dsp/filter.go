package dsp

import (
	"math"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// Biquad implements a second-order IIR filter (no heap allocations in Process)
type Biquad struct {
	b0, b1, b2 float32
	a1, a2     float32

	x1, x2 float32
	y1, y2 float32
}

// NewLowpass creates a lowpass biquad filter.
func NewLowpass(cutoff, sampleRate, q float32) *Biquad {
	b := &Biquad{}
	b.SetLowpass(cutoff, sampleRate, q)
	return b
}

// SetLowpass recomputes the coefficients for an RBJ lowpass, keeping the
// filter state. Cutoff is clamped below Nyquist.
func (b *Biquad) SetLowpass(cutoff, sampleRate, q float32) {
	if q <= 0 {
		q = 0.707
	}
	cutoff = min(max(cutoff, 10), 0.45*sampleRate)
	w0 := 2.0 * math.Pi * float64(cutoff) / float64(sampleRate)
	alpha := math.Sin(w0) / (2.0 * float64(q))
	cosw0 := math.Cos(w0)

	a0 := 1.0 + alpha
	b.b0 = float32((1.0 - cosw0) / 2.0 / a0)
	b.b1 = float32((1.0 - cosw0) / a0)
	b.b2 = b.b0
	b.a1 = float32(-2.0 * cosw0 / a0)
	b.a2 = float32((1.0 - alpha) / a0)
}

// Process processes one sample through the biquad filter
func (b *Biquad) Process(input float32) float32 {
	// Direct Form I
	output := b.b0*input + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
	output = float32(dspcore.FlushDenormals(float64(output)))

	b.x2 = b.x1
	b.x1 = input
	b.y2 = b.y1
	b.y1 = output

	return output
}

// Reset clears the filter state
func (b *Biquad) Reset() {
	b.x1, b.x2 = 0, 0
	b.y1, b.y2 = 0, 0
}

// DCBlocker is the one-zero, one-pole highpass y = x - x1 + R*y1.
type DCBlocker struct {
	R      float32
	x1, y1 float32
}

// NewDCBlocker places the highpass corner near cutoff Hz.
func NewDCBlocker(cutoff, sampleRate float32) DCBlocker {
	r := 1 - 2*math.Pi*cutoff/sampleRate
	return DCBlocker{R: min(max(r, 0), 0.9999)}
}

func (d *DCBlocker) Process(x float32) float32 {
	y := x - d.x1 + d.R*d.y1
	y = float32(dspcore.FlushDenormals(float64(y)))
	d.x1 = x
	d.y1 = y
	return y
}

func (d *DCBlocker) Reset() { d.x1, d.y1 = 0, 0 }

// OnePole is a one-pole lowpass y += (1-c)(x-y). Coeff 0 passes the input
// through, coefficients close to 1 smooth heavily.
type OnePole struct {
	Coeff float32
	state float32
}

func (p *OnePole) Process(x float32) float32 {
	p.state = (1.0-p.Coeff)*x + p.Coeff*p.state
	p.state = float32(dspcore.FlushDenormals(float64(p.state)))
	return p.state
}

func (p *OnePole) Reset() { p.state = 0 }
