package waveguide

import "math"

// Hammer is a nonlinear felt-hammer contact model with bounded contact
// duration. It is re-armed in place on every strike.
type Hammer struct {
	sampleRate float32
	mass       float32
	stiffness  float32
	exponent   float32
	damping    float32
	hardness   float32

	contactMaxSamples int
	contactMinSamples int
	contactSamples    int
	inContact         bool

	pos float32
	vel float32
}

// NewHammer creates a resting hammer.
func NewHammer(sampleRate int) *Hammer {
	return &Hammer{
		sampleRate: float32(sampleRate),
		mass:       0.010,
		hardness:   1,
	}
}

// SetHardness scales felt hardness for subsequent strikes, clamped to
// [0.5, 1.2].
func (h *Hammer) SetHardness(scale float32) {
	h.hardness = min(max(scale, 0.5), 1.2)
}

// Strike arms the hammer for a note at velocity in [0,1].
func (h *Hammer) Strike(velocity float32) {
	v := min(max(velocity, 1.0/127.0), 1)
	h.stiffness = 1.1e6 * (0.5 + 2.5*v) * h.hardness
	h.exponent = 2.3 * (0.90 + 0.10*h.hardness)
	h.damping = 0.10 + 0.20*v
	h.contactMaxSamples = int(h.sampleRate * (0.0040 - 0.0030*v))
	h.contactMinSamples = int(h.sampleRate * 0.00025)
	h.contactSamples = 0
	h.inContact = true
	h.pos = 0.00012
	h.vel = 0.6 + 3.0*v
}

// InContact reports whether the hammer is still touching the string.
func (h *Hammer) InContact() bool {
	return h.inContact
}

// Step advances the contact model and returns the contact force.
func (h *Hammer) Step(stringDisp float32) float32 {
	if !h.inContact {
		return 0
	}

	dt := 1.0 / h.sampleRate
	indentation := h.pos - stringDisp

	force := float32(0.0)
	if indentation > 0 {
		indPow := float32(math.Pow(float64(indentation), float64(h.exponent)))
		force = h.stiffness * indPow * (1.0 + h.damping*max(h.vel, 0))
	}
	if math.IsNaN(float64(force)) || math.IsInf(float64(force), 0) {
		h.inContact = false
		return 0
	}

	h.vel += -force / h.mass * dt
	h.pos += h.vel * dt

	h.contactSamples++
	if h.contactSamples >= h.contactMaxSamples {
		h.inContact = false
	}
	if h.contactSamples > h.contactMinSamples && indentation <= 0 && h.vel <= 0 {
		h.inContact = false
	}
	return force
}
