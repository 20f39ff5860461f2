package voices

import "fmt"

// monoAllocator sounds only the top of the key stack, on the first voice of
// the pool plus its sub voices. Releasing the top key returns to the key
// below it in press order.
type monoAllocator struct {
	p        *pool
	keys     *keyTracker
	sounding int
}

func newMonoAllocator(p *pool, keyLimit int) *monoAllocator {
	return &monoAllocator{p: p, keys: newKeyTracker(keyLimit)}
}

func (a *monoAllocator) noteOn(note int, velocity float32) bool {
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

func (a *monoAllocator) noteOff(note int) {
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
	a.silence(0)
}

// sound moves the voice group to note. With legato enabled a note that
// overlaps a held one only retunes; otherwise the payload restarts.
func (a *monoAllocator) sound(note int, velocity float32, overlapping bool) {
	w := a.p.groupWidth(len(a.p.voices))
	steps := a.p.glideSteps()
	legato := a.p.settings.Legato && overlapping
	for m := 0; m < w; m++ {
		off, vol := a.p.groupVoice(m, w)
		v := &a.p.voices[m]
		wasOn := v.triggered
		v.tune(note+off, randomRatio(&a.p.rng, a.p.settings.Rand), steps, a.p.settings.Retrig)
		if wasOn && legato {
			v.key = note
			v.velocity = velocity
			v.volume = vol
			continue
		}
		v.trigger(note, velocity, vol)
	}
	a.silence(w)
}

// silence releases the group voices from index `from` on and makes the
// first `from` voices the sounding group.
func (a *monoAllocator) silence(from int) {
	for m := from; m < a.sounding; m++ {
		a.p.voices[m].release()
	}
	a.sounding = from
}

func (a *monoAllocator) settingChanged(tag ActionTag) {
	if tag != ActionSub {
		return
	}
	t := a.keys.top()
	if t == nil {
		return
	}
	w := a.p.groupWidth(len(a.p.voices))
	for m := 1; m < w; m++ {
		off, vol := a.p.groupVoice(m, w)
		v := &a.p.voices[m]
		if v.triggered {
			v.volume = vol
			continue
		}
		v.start(t.note, t.note+off, t.velocity, vol, randomRatio(&a.p.rng, a.p.settings.Rand), 0)
	}
	a.silence(w)
}

func (a *monoAllocator) releaseAll() {
	a.silence(0)
	a.keys.clear()
}

func (a *monoAllocator) heldKeys() int { return a.keys.len() }

func (a *monoAllocator) validate() error {
	slots := make([]int, len(a.p.voices))
	for i := range slots {
		slots[i] = i
	}
	if err := a.p.validateOwnership(slots); err != nil {
		return err
	}
	t := a.keys.top()
	for i := range a.p.voices {
		v := &a.p.voices[i]
		if !v.triggered {
			continue
		}
		if i >= a.sounding {
			return fmt.Errorf("voice %d triggered outside the mono group", i)
		}
		if t == nil || v.key != t.note {
			return fmt.Errorf("voice %d not sounding the top key", i)
		}
	}
	return nil
}
