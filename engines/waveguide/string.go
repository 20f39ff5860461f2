package waveguide

import (
	"github.com/cwbudde/algo-voices/dsp"
)

// String is a digital waveguide string whose pitch may change every sample,
// so it can follow a glide. The delay line is sized once for the lowest
// supported frequency.
type String struct {
	sampleRate float32
	minFreq    float32
	maxFreq    float32

	delay       *dsp.DelayLine
	freq        float32
	delayLength float32

	reflection       float32
	baseReflection   float32
	damperReflection float32
	damperEngaged    bool

	loop dsp.OnePole

	dispersionCoeff float32
	dispersionX1    float32
	dispersionY1    float32
	dispersionX2    float32
	dispersionY2    float32
}

// NewString creates a string that can be tuned down to minFreq.
func NewString(sampleRate int, minFreq float32) *String {
	sr := float32(sampleRate)
	if minFreq <= 0 {
		minFreq = 20
	}
	s := &String{
		sampleRate:       sr,
		minFreq:          minFreq,
		maxFreq:          sr / 4,
		delay:            dsp.NewDelayLine(int(sr/minFreq) + 8),
		reflection:       0.9995,
		baseReflection:   0.9995,
		damperReflection: 0.9,
	}
	s.SetFrequency(220)
	return s
}

// SetFrequency retunes the string. The loop filter's phase delay is taken
// out of the delay line so the pitch stays in tune at any brightness.
func (s *String) SetFrequency(f float32) {
	if f == s.freq {
		return
	}
	s.freq = f
	f = min(max(f, s.minFreq), s.maxFreq)
	c := s.loop.Coeff
	s.delayLength = max(s.sampleRate/f-c/(1-c), 2)
}

// Frequency is the last frequency passed to SetFrequency.
func (s *String) Frequency() float32 { return s.freq }

// Period is the current loop length in samples.
func (s *String) Period() float32 { return s.delayLength }

// Process renders one sample from the string and advances the simulation.
func (s *String) Process() float32 {
	delayed := s.delay.ReadCubic(s.delayLength)
	dispersed := s.processDispersion(delayed)
	s.delay.Write(s.loop.Process(dispersed) * s.reflection)
	return delayed
}

// ExciteAtPosition adds a triangular displacement at a fractional string
// position in [0,1].
func (s *String) ExciteAtPosition(force float32, strikePos float32) {
	strikePos = min(max(strikePos, 0.01), 0.99)
	period := int(s.delayLength)
	base := int(float32(period) * strikePos)
	width := int(float32(period) * (0.04 + 0.22*strikePos))
	width = min(max(width, 4), period-1)

	for i := 0; i < width; i++ {
		amp := force * (float32(i)/float32(width-1) - 0.5) * 2.0
		s.delay.Add(1+(base+i)%period, amp)
	}
}

// InjectForceAtPosition injects a single-sample force at a fractional string
// position.
func (s *String) InjectForceAtPosition(force float32, strikePos float32) {
	strikePos = min(max(strikePos, 0.01), 0.99)
	period := int(s.delayLength)
	s.delay.Add(1+int(float32(period)*strikePos)%period, force)
}

// SetLoopLoss sets the per-period gain and the loop lowpass amount.
func (s *String) SetLoopLoss(gain float32, highFreqDamping float32) {
	gain = min(max(gain, 0.0001), 1)
	s.baseReflection = gain
	if !s.damperEngaged {
		s.reflection = gain
	}
	s.loop.Coeff = min(max(highFreqDamping, 0), 0.99)
	f := s.freq
	s.freq = 0
	s.SetFrequency(f)
}

// SetDamperReflection sets the per-period gain while the damper is down.
func (s *String) SetDamperReflection(gain float32) {
	s.damperReflection = min(max(gain, 0), 1)
	if s.damperEngaged {
		s.reflection = s.damperReflection
	}
}

// SetDamper toggles the damper for release behavior.
func (s *String) SetDamper(engaged bool) {
	s.damperEngaged = engaged
	if engaged {
		s.reflection = s.damperReflection
		return
	}
	s.reflection = s.baseReflection
}

// SetDispersion maps an inharmonicity amount [0,1] to the allpass
// coefficient.
func (s *String) SetDispersion(amount float32) {
	s.dispersionCoeff = -0.85 * min(max(amount, 0), 1)
}

// Reset silences the string.
func (s *String) Reset() {
	s.delay.Reset()
	s.loop.Reset()
	s.dispersionX1, s.dispersionY1 = 0, 0
	s.dispersionX2, s.dispersionY2 = 0, 0
}

func (s *String) processDispersion(input float32) float32 {
	a := s.dispersionCoeff
	if a == 0.0 {
		return input
	}
	y := -a*input + s.dispersionX1 + a*s.dispersionY1
	s.dispersionX1 = input
	s.dispersionY1 = y

	z := -a*y + s.dispersionX2 + a*s.dispersionY2
	s.dispersionX2 = y
	s.dispersionY2 = z
	return z
}
