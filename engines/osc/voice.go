package osc

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-voices/dsp"
	"github.com/cwbudde/algo-voices/voices"
)

// Filter cutoff follows the played pitch.
const (
	keyTracking = 6
	filterQ     = 0.9
)

// Voice is a band-limited sawtooth through a key-tracked lowpass, shaped by
// an ADSR envelope. The envelope controls arrive as [0,1] actions.
type Voice struct {
	sampleRate float32
	phase      float32
	velocity   float32

	env    *dsp.ADSR
	filter *dsp.Biquad
	cutoff float32

	attack  float32
	decay   float32
	sustain float32
	release float32
}

// NewVoice creates a voice. The seed picks the free-running start phase, so
// stacked voices do not start phase-aligned.
func NewVoice(sampleRate int, seed uint32) *Voice {
	sr := float32(sampleRate)
	v := &Voice{
		sampleRate: sr,
		phase:      0.5 + 0.5*dsp.NewNoise(seed).Next(),
		filter:     dsp.NewLowpass(sr*0.45, sr, filterQ),
		attack:     0.05,
		decay:      0.3,
		sustain:    0.7,
		release:    0.2,
	}
	v.env = dsp.NewADSR(sr, 0, 0, 0, 0)
	v.applyEnvelope()
	return v
}

// Factory returns a payload factory for a voices.Manager.
func Factory(sampleRate int) voices.PayloadFactory {
	logrus.WithFields(logrus.Fields{
		"function":    "osc.Factory",
		"sample_rate": sampleRate,
	}).Debug("Using oscillator voices")
	return func(i int) voices.Payload { return NewVoice(sampleRate, uint32(i)+1) }
}

// Seconds maps a [0,1] control onto an envelope time with a squared taper.
func Seconds(x, maxSeconds float32) float32 {
	return 0.001 + x*x*maxSeconds
}

func (v *Voice) applyEnvelope() {
	v.env.Set(Seconds(v.attack, 2), Seconds(v.decay, 4), v.sustain, Seconds(v.release, 4))
}

func (v *Voice) NoteOn(freq, velocity float32) {
	if !v.env.Active() {
		v.filter.Reset()
	}
	v.velocity = velocity
	v.setCutoff(freq)
	v.env.Gate(0.25 + 0.75*velocity)
}

func (v *Voice) NoteOff() { v.env.Release() }

func (v *Voice) Active() bool { return v.env.Active() }

func (v *Voice) Action(a voices.Action) {
	switch a.Tag {
	case voices.ActionAttack:
		v.attack = a.Value
	case voices.ActionDecay:
		v.decay = a.Value
	case voices.ActionSustain:
		v.sustain = a.Value
	case voices.ActionRelease:
		v.release = a.Value
	default:
		return
	}
	v.applyEnvelope()
}

func (v *Voice) setCutoff(freq float32) {
	c := freq * keyTracking * (0.5 + v.velocity)
	if c == v.cutoff {
		return
	}
	v.cutoff = c
	v.filter.SetLowpass(c, v.sampleRate, filterQ)
}

func (v *Voice) Process(freq, out []float32) {
	if len(freq) > 0 {
		v.setCutoff(freq[0])
	}
	for i := range out {
		dt := min(freq[i]/v.sampleRate, 0.5)
		saw := 2*v.phase - 1 - polyBLEP(v.phase, dt)
		v.phase += dt
		if v.phase >= 1 {
			v.phase -= 1
		}
		out[i] = v.filter.Process(saw) * v.env.Next()
	}
}

// polyBLEP is the two-sample polynomial correction for a unit step at phase
// zero, t in [0,1).
func polyBLEP(t, dt float32) float32 {
	switch {
	case dt <= 0:
		return 0
	case t < dt:
		t /= dt
		return t + t - t*t - 1
	case t > 1-dt:
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}
