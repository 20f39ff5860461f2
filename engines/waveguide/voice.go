package waveguide

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-voices/dsp"
	"github.com/cwbudde/algo-voices/voices"
)

const (
	hammerCoupling   = 0.02
	silenceThreshold = 1e-4

	// The hammer pushes the string one way only and the loop keeps the
	// offset, so the output is highpassed just above DC.
	dcCutoff = 10

	// MinFrequency is the lowest pitch a voice can follow.
	MinFrequency = 20
)

// Voice is a struck-string payload: a hammer exciting a waveguide string,
// with a damper that comes down on release.
type Voice struct {
	sampleRate float32
	str        *String
	hammer     *Hammer
	dc         dsp.DCBlocker
	strikePos  float32
	gain       float32

	// Control values in [0,1] as received from envelope actions.
	attack  float32
	decay   float32
	sustain float32
	release float32

	gate       bool
	last       float32
	level      float32
	levelCoeff float32
	lossFreq   float32
}

// NewVoice creates a string voice with the default envelope controls.
func NewVoice(sampleRate int) *Voice {
	v := &Voice{
		sampleRate: float32(sampleRate),
		str:        NewString(sampleRate, MinFrequency),
		hammer:     NewHammer(sampleRate),
		dc:         dsp.NewDCBlocker(dcCutoff, float32(sampleRate)),
		strikePos:  0.18,
		gain:       0.8,
		attack:     0.7,
		decay:      0.4,
		sustain:    0.7,
		release:    0.1,
		levelCoeff: dsp.DecayCoeff(0.05, float32(sampleRate)),
	}
	v.applyControls()
	return v
}

// Factory returns a payload factory for a voices.Manager.
func Factory(sampleRate int) voices.PayloadFactory {
	logrus.WithFields(logrus.Fields{
		"function":    "waveguide.Factory",
		"sample_rate": sampleRate,
	}).Debug("Using waveguide string voices")
	return func(int) voices.Payload { return NewVoice(sampleRate) }
}

// ringSeconds is the T60 of a held string.
func (v *Voice) ringSeconds() float32 { return 0.5 + 19.5*v.decay }

// damperSeconds is the T60 once the damper is down.
func (v *Voice) damperSeconds() float32 { return 0.02 + 1.98*v.release }

func (v *Voice) applyControls() {
	v.hammer.SetHardness(0.5 + 0.7*v.attack)
	v.lossFreq = 0
	v.updateLoss()
}

// updateLoss converts the T60 controls into per-period gains for the
// current pitch.
func (v *Voice) updateLoss() {
	f := v.str.Frequency()
	if f == v.lossFreq || f <= 0 {
		return
	}
	v.lossFreq = f
	period := v.str.Period()
	v.str.SetLoopLoss(dsp.DecayCoeff(v.ringSeconds()/period, v.sampleRate), 0.6*(1-v.sustain))
	v.str.SetDamperReflection(dsp.DecayCoeff(v.damperSeconds()/period, v.sampleRate))
}

func (v *Voice) NoteOn(freq, velocity float32) {
	if !v.Active() {
		// Drop the inaudible residue of the previous note.
		v.str.Reset()
		v.dc.Reset()
		v.last = 0
	}
	v.str.SetFrequency(freq)
	v.updateLoss()
	v.str.SetDamper(false)
	v.hammer.Strike(velocity)
	v.str.ExciteAtPosition(0.4*velocity, v.strikePos)
	v.gate = true
	v.level = max(v.level, velocity)
}

func (v *Voice) NoteOff() {
	v.gate = false
	v.str.SetDamper(true)
}

func (v *Voice) Active() bool {
	return v.gate || v.hammer.InContact() || v.level > silenceThreshold
}

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
	v.applyControls()
}

func (v *Voice) Process(freq, out []float32) {
	if len(freq) > 0 {
		v.str.SetFrequency(freq[0])
		v.updateLoss()
	}
	for i := range out {
		v.str.SetFrequency(freq[i])
		if v.hammer.InContact() {
			f := v.hammer.Step(v.last)
			v.str.InjectForceAtPosition(f*hammerCoupling, v.strikePos)
		}
		y := v.str.Process()
		v.last = y
		y = v.dc.Process(y) * v.gain
		out[i] = y
		if y < 0 {
			y = -y
		}
		v.level = max(y, v.level*v.levelCoeff)
	}
}
