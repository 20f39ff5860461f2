package voices

import "fmt"

// polyAllocator gives every held key its own voice group out of a region of
// the pool. When the region is full, the oldest voiced key is stolen and
// kept as pending; releasing a key hands its slots to the most recently
// stolen key.
type polyAllocator struct {
	p     *pool
	slots []int
	// free is ordered by release time, oldest first.
	free []int
	keys *keyTracker
	// offset transposes every voice of this region, in semitones.
	offset int
}

func newPolyAllocator(p *pool, slots []int, keyLimit int) *polyAllocator {
	a := &polyAllocator{
		p:     p,
		slots: slots,
		free:  make([]int, 0, len(slots)),
		keys:  newKeyTracker(keyLimit),
	}
	a.free = append(a.free, slots...)
	return a
}

func (a *polyAllocator) noteOn(note int, velocity float32) bool {
	if a.keys.find(note) >= 0 {
		a.noteOff(note)
	}
	i := a.keys.press(note, velocity)
	if i < 0 {
		return false
	}
	w := a.p.groupWidth(len(a.slots))
	for len(a.free) < w {
		j := a.keys.oldestVoiced(i)
		if j < 0 {
			break
		}
		a.detach(j)
	}
	a.assign(i, w)
	a.snapBack()
	return true
}

func (a *polyAllocator) noteOff(note int) {
	i := a.keys.find(note)
	if i < 0 {
		return
	}
	k := a.keys.remove(i)
	for _, s := range k.slots[:k.n] {
		a.p.voices[s].release()
		a.free = append(a.free, s)
	}
	a.snapBack()
}

// detach releases the voices of key i and leaves the key pending.
func (a *polyAllocator) detach(i int) {
	k := a.keys.at(i)
	for _, s := range k.slots[:k.n] {
		a.p.voices[s].release()
		a.free = append(a.free, s)
	}
	a.keys.markPending(i)
}

// assign gives key i a group of w free slots. The caller guarantees that
// enough slots are free. Free slots are released, so they snap to the new
// pitch; portamento only applies to retunes of sounding voices.
func (a *polyAllocator) assign(i, w int) {
	k := a.keys.at(i)
	steps := a.p.glideSteps()
	for m := 0; m < w && len(a.free) > 0; m++ {
		off, vol := a.p.groupVoice(m, w)
		note := k.note + a.offset + off
		s := a.takeFree(note)
		ratio := randomRatio(&a.p.rng, a.p.settings.Rand)
		a.p.voices[s].start(k.note, note, k.velocity, vol, ratio, steps)
		k.slots[m] = s
		k.n = m + 1
	}
}

// takeFree removes a slot from the free list: the most recent slot that
// last played note, otherwise the slot released longest ago.
func (a *polyAllocator) takeFree(note int) int {
	at := 0
	for i := len(a.free) - 1; i >= 0; i-- {
		if a.p.voices[a.free[i]].lastNote == note {
			at = i
			break
		}
	}
	s := a.free[at]
	copy(a.free[at:], a.free[at+1:])
	a.free = a.free[:len(a.free)-1]
	return s
}

// snapBack revoices pending keys, most recently stolen first, while a full
// group of slots is free.
func (a *polyAllocator) snapBack() {
	w := a.p.groupWidth(len(a.slots))
	if w == 0 {
		return
	}
	for len(a.free) >= w {
		j := a.keys.latestPending()
		if j < 0 {
			return
		}
		a.assign(j, w)
	}
}

func (a *polyAllocator) settingChanged(tag ActionTag) {
	if tag == ActionSub {
		a.resizeGroups()
	}
}

// resizeGroups drops sub voices when sub is disabled and rescales their
// volume otherwise. Keys that gain sub voices get them on their next press.
func (a *polyAllocator) resizeGroups() {
	sub := a.p.settings.Sub
	for i := 0; i < a.keys.len(); i++ {
		k := a.keys.at(i)
		if k.n <= 1 {
			continue
		}
		if sub == 0 {
			for _, s := range k.slots[1:k.n] {
				a.p.voices[s].release()
				a.free = append(a.free, s)
			}
			k.n = 1
			continue
		}
		for m := 1; m < k.n; m++ {
			a.p.voices[k.slots[m]].volume = subVolume(sub, m, k.n-1)
		}
	}
	a.snapBack()
}

// retune moves every sounding voice to its key's pitch plus the current
// offset, keeping its random ratio.
func (a *polyAllocator) retune() {
	steps := a.p.glideSteps()
	for i := 0; i < a.keys.len(); i++ {
		k := a.keys.at(i)
		for m, s := range k.slots[:k.n] {
			off, _ := a.p.groupVoice(m, k.n)
			v := &a.p.voices[s]
			v.tune(k.note+a.offset+off, v.ratio, steps, false)
		}
	}
}

func (a *polyAllocator) releaseAll() {
	for i := 0; i < a.keys.len(); i++ {
		k := a.keys.at(i)
		a.p.releaseSlots(k.slots[:k.n])
	}
	a.keys.clear()
	a.free = append(a.free[:0], a.slots...)
}

func (a *polyAllocator) heldKeys() int { return a.keys.len() }

func (a *polyAllocator) validate() error {
	if err := a.p.validateOwnership(a.slots); err != nil {
		return err
	}
	seen := make(map[int]int, len(a.slots))
	for _, s := range a.free {
		seen[s]++
		if a.p.voices[s].triggered {
			return fmt.Errorf("free voice %d is triggered", s)
		}
	}
	for i := 0; i < a.keys.len(); i++ {
		k := a.keys.at(i)
		for _, s := range k.slots[:k.n] {
			seen[s]++
			v := &a.p.voices[s]
			if !v.triggered || v.key != k.note {
				return fmt.Errorf("voice %d not sounding for key %d", s, k.note)
			}
		}
	}
	for _, s := range a.slots {
		if seen[s] != 1 {
			return fmt.Errorf("voice %d referenced %d times", s, seen[s])
		}
	}
	return nil
}
