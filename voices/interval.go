package voices

// intervalAllocator runs two poly regions side by side. Channel 0 plays the
// key itself, channel 1 plays it transposed by the interval setting. Both
// are keyed by the same note, so one release frees both.
type intervalAllocator struct {
	ch [2]*polyAllocator
}

func newIntervalAllocator(p *pool, keyLimit int) *intervalAllocator {
	n := len(p.voices)
	half := (n + 1) / 2
	slots := make([]int, n)
	for i := range slots {
		slots[i] = i
	}
	a := &intervalAllocator{}
	a.ch[0] = newPolyAllocator(p, slots[:half], keyLimit)
	a.ch[1] = newPolyAllocator(p, slots[half:], keyLimit)
	a.ch[1].offset = p.settings.Interval
	return a
}

func (a *intervalAllocator) noteOn(note int, velocity float32) bool {
	ok := a.ch[0].noteOn(note, velocity)
	a.ch[1].noteOn(note, velocity)
	return ok
}

func (a *intervalAllocator) noteOff(note int) {
	a.ch[0].noteOff(note)
	a.ch[1].noteOff(note)
}

func (a *intervalAllocator) settingChanged(tag ActionTag) {
	if tag == ActionInterval {
		a.ch[1].offset = a.ch[1].p.settings.Interval
		a.ch[1].retune()
		return
	}
	a.ch[0].settingChanged(tag)
	a.ch[1].settingChanged(tag)
}

func (a *intervalAllocator) releaseAll() {
	a.ch[0].releaseAll()
	a.ch[1].releaseAll()
}

func (a *intervalAllocator) heldKeys() int { return a.ch[0].heldKeys() }

func (a *intervalAllocator) validate() error {
	if err := a.ch[0].validate(); err != nil {
		return err
	}
	return a.ch[1].validate()
}
