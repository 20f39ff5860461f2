package voices

import "fmt"

// allocator is one play-mode discipline. Exactly one allocator owns the pool
// at a time; the manager releases everything before handing over.
type allocator interface {
	// noteOn reports false when the press was dropped by the held-key limit.
	noteOn(note int, velocity float32) bool
	noteOff(note int)
	// settingChanged is called after the pool settings were updated.
	settingChanged(tag ActionTag)
	releaseAll()
	heldKeys() int
	validate() error
}

// pool is the state shared by all allocators: the voices and the settings
// they are tuned with.
type pool struct {
	voices     []Voice
	settings   Settings
	subVoices  int
	sampleRate float64
	rng        xorshift32
}

func (p *pool) glideSteps() int {
	return glideSteps(p.settings.Portamento, p.sampleRate)
}

// groupWidth is the number of slots a key claims out of a region of size
// avail: the main voice plus the sub voices while sub is enabled.
func (p *pool) groupWidth(avail int) int {
	w := 1
	if p.settings.Sub > 0 {
		w += p.subVoices
	}
	return min(w, avail)
}

// groupVoice returns the note offset and volume of member k of a key group.
func (p *pool) groupVoice(k, width int) (offset int, volume float32) {
	if k == 0 {
		return 0, 1
	}
	return -12, subVolume(p.settings.Sub, k, width-1)
}

// releaseSlots releases every voice in slots.
func (p *pool) releaseSlots(slots []int) {
	for _, s := range slots {
		p.voices[s].release()
	}
}

func (p *pool) triggeredCount() int {
	n := 0
	for i := range p.voices {
		if p.voices[i].triggered {
			n++
		}
	}
	return n
}

// validateOwnership checks that every triggered voice in slots is owned by
// a key and that no voice outside slots sounds.
func (p *pool) validateOwnership(slots []int) error {
	if n := p.triggeredCount(); n > len(p.voices) {
		return fmt.Errorf("%d voices triggered in a pool of %d", n, len(p.voices))
	}
	for _, s := range slots {
		v := &p.voices[s]
		if v.triggered && v.key < 0 {
			return fmt.Errorf("voice %d triggered without an owning key", s)
		}
		if !v.triggered && v.key >= 0 {
			return fmt.Errorf("released voice %d still owned by key %d", s, v.key)
		}
	}
	return nil
}
