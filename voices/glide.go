package voices

import "math"

// MaxGlideSeconds is the glide duration at portamento 1.
const MaxGlideSeconds = 1.0

// glideSteps converts a portamento setting into a number of audio steps.
func glideSteps(portamento float32, sampleRate float64) int {
	return int(math.Round(float64(portamento) * MaxGlideSeconds * sampleRate))
}

// Glide ramps a frequency exponentially from a start pitch to a target pitch
// over a fixed number of steps. The ramp length does not depend on the size
// of the jump.
type Glide struct {
	current float64
	target  float64
	ratio   float64
	steps   int
	hold    bool
}

// Snap jumps to f without gliding.
func (g *Glide) Snap(f float32) {
	g.current = float64(f)
	g.target = g.current
	g.ratio = 1
	g.steps = 0
	g.hold = false
}

// Retune glides from the current frequency to f.
func (g *Glide) Retune(f float32, steps int) {
	g.RetuneFrom(float32(g.current), f, steps)
}

// RetuneFrom glides from `from` to `to` over steps calls to Next. The first
// call after a retune returns `from`, the last one returns `to` exactly.
func (g *Glide) RetuneFrom(from, to float32, steps int) {
	if steps <= 0 || from <= 0 || to <= 0 || from == to {
		g.Snap(to)
		return
	}
	g.current = float64(from)
	g.target = float64(to)
	g.ratio = math.Pow(g.target/g.current, 1/float64(steps))
	g.steps = steps
	g.hold = true
}

// Next advances one step and returns the new frequency.
func (g *Glide) Next() float32 {
	switch {
	case g.hold:
		g.hold = false
	case g.steps == 1:
		g.steps = 0
		g.current = g.target
	case g.steps > 1:
		g.steps--
		g.current *= g.ratio
	}
	return float32(g.current)
}

func (g *Glide) Current() float32 { return float32(g.current) }
func (g *Glide) Target() float32  { return float32(g.target) }

// Gliding reports whether the ramp has not yet reached its target.
func (g *Glide) Gliding() bool { return g.hold || g.steps > 0 }
