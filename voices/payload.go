package voices

// Payload is the engine-specific body of a voice. The manager owns pitch,
// volume and slot assignment; the payload only turns a frequency trajectory
// into samples. Every method is called from the render context and must not
// allocate or block.
type Payload interface {
	// NoteOn starts (or restarts) the envelope at freq.
	NoteOn(freq, velocity float32)
	// NoteOff starts the release.
	NoteOff()
	// Process renders len(out) samples. freq holds the per-sample frequency
	// and has the same length as out. Process overwrites out.
	Process(freq, out []float32)
	// Action receives every setting and envelope action the manager applies.
	Action(a Action)
	// Active reports whether the payload still produces sound, e.g. during a
	// release tail after NoteOff.
	Active() bool
}

// PayloadFactory builds the payload for the slot with the given index.
type PayloadFactory func(index int) Payload

// Silence is a payload that renders zeros. It is the default when no
// factory is configured, which keeps the manager usable for allocation-only
// work such as UI state.
type Silence struct{}

func (Silence) NoteOn(float32, float32) {}
func (Silence) NoteOff()                {}
func (Silence) Action(Action)           {}
func (Silence) Active() bool            { return false }

func (Silence) Process(_, out []float32) {
	clear(out)
}

// Constant renders a fixed level while its note is held. Handy as a
// reference payload for measuring the mix.
type Constant struct {
	Level float32
	on    bool
}

func (c *Constant) NoteOn(float32, float32) { c.on = true }
func (c *Constant) NoteOff()                { c.on = false }
func (c *Constant) Action(Action)           {}
func (c *Constant) Active() bool            { return c.on }

func (c *Constant) Process(_, out []float32) {
	v := float32(0)
	if c.on {
		v = c.Level
	}
	for i := range out {
		out[i] = v
	}
}
