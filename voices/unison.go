package voices

import "fmt"

// unisonAllocator stacks a detuned cluster on the top key. Each cluster
// voice has a fixed rank, so the frequency order of the cluster never
// changes between notes.
type unisonAllocator struct {
	p        *pool
	keys     *keyTracker
	size     int
	sounding bool
	// ratio is the random ratio shared by the whole cluster for the current
	// trigger.
	ratio float32
}

func newUnisonAllocator(p *pool, keyLimit int) *unisonAllocator {
	return &unisonAllocator{
		p:     p,
		keys:  newKeyTracker(keyLimit),
		size:  unisonSize(len(p.voices)),
		ratio: 1,
	}
}

func (a *unisonAllocator) rank(i int) int { return i - a.size/2 }

func (a *unisonAllocator) noteOn(note int, velocity float32) bool {
	if a.keys.find(note) >= 0 {
		a.noteOff(note)
	}
	overlapping := a.keys.len() > 0
	if a.keys.press(note, velocity) < 0 {
		return false
	}
	a.sound(note, velocity, overlapping)
	return true
}

func (a *unisonAllocator) noteOff(note int) {
	i := a.keys.find(note)
	if i < 0 {
		return
	}
	wasTop := i == a.keys.len()-1
	a.keys.remove(i)
	if !wasTop {
		return
	}
	if t := a.keys.top(); t != nil {
		a.sound(t.note, t.velocity, true)
		return
	}
	a.silence()
}

func (a *unisonAllocator) sound(note int, velocity float32, overlapping bool) {
	steps := a.p.glideSteps()
	legato := a.p.settings.Legato && overlapping
	a.ratio = randomRatio(&a.p.rng, a.p.settings.Rand)
	for i := 0; i < a.size; i++ {
		v := &a.p.voices[i]
		wasOn := v.triggered
		v.tune(note, a.ratio*unisonRatio(a.rank(i), a.p.settings.Detune), steps, a.p.settings.Retrig)
		if wasOn && legato {
			v.key = note
			v.velocity = velocity
			continue
		}
		v.trigger(note, velocity, 1)
	}
	a.sounding = true
}

func (a *unisonAllocator) silence() {
	for i := 0; i < a.size; i++ {
		a.p.voices[i].release()
	}
	a.sounding = false
}

func (a *unisonAllocator) settingChanged(tag ActionTag) {
	if tag != ActionDetune || !a.sounding {
		return
	}
	steps := a.p.glideSteps()
	for i := 0; i < a.size; i++ {
		v := &a.p.voices[i]
		v.tune(v.note, a.ratio*unisonRatio(a.rank(i), a.p.settings.Detune), steps, false)
	}
}

func (a *unisonAllocator) releaseAll() {
	a.silence()
	a.keys.clear()
}

func (a *unisonAllocator) heldKeys() int { return a.keys.len() }

func (a *unisonAllocator) validate() error {
	slots := make([]int, len(a.p.voices))
	for i := range slots {
		slots[i] = i
	}
	if err := a.p.validateOwnership(slots); err != nil {
		return err
	}
	n := a.p.triggeredCount()
	if a.sounding && n != a.size {
		return fmt.Errorf("unison cluster of %d has %d triggered voices", a.size, n)
	}
	if !a.sounding && n != 0 {
		return fmt.Errorf("%d voices triggered with no key held", n)
	}
	for i := a.size; i < len(a.p.voices); i++ {
		if a.p.voices[i].triggered {
			return fmt.Errorf("reserved voice %d is triggered", i)
		}
	}
	return nil
}
