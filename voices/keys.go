package voices

// MaxSubVoices bounds the number of sub voices a key can claim.
const MaxSubVoices = 4

const maxGroup = 1 + MaxSubVoices

// keyRecord is one held key. slots[:n] are the voices it owns; n == 0 means
// the key is pending (stolen or never voiced) and waits for a free slot.
type keyRecord struct {
	note     int
	velocity float32
	slots    [maxGroup]int
	n        int
	pendSeq  uint64
}

func (k *keyRecord) pending() bool { return k.n == 0 }

// keyTracker is the press-ordered stack of held keys. Storage is allocated
// once; presses beyond the limit are dropped.
type keyTracker struct {
	keys  []keyRecord
	limit int
	seq   uint64
}

func newKeyTracker(limit int) *keyTracker {
	return &keyTracker{keys: make([]keyRecord, 0, limit), limit: limit}
}

func (t *keyTracker) len() int { return len(t.keys) }

func (t *keyTracker) at(i int) *keyRecord { return &t.keys[i] }

// press pushes note on top of the stack. It returns -1 when the stack is
// full.
func (t *keyTracker) press(note int, velocity float32) int {
	if len(t.keys) >= t.limit {
		return -1
	}
	t.keys = append(t.keys, keyRecord{note: note, velocity: velocity})
	i := len(t.keys) - 1
	t.markPending(i)
	return i
}

func (t *keyTracker) find(note int) int {
	for i := range t.keys {
		if t.keys[i].note == note {
			return i
		}
	}
	return -1
}

// remove deletes the key at i, keeping the order of the others.
func (t *keyTracker) remove(i int) keyRecord {
	k := t.keys[i]
	copy(t.keys[i:], t.keys[i+1:])
	t.keys = t.keys[:len(t.keys)-1]
	return k
}

// top is the most recently pressed key still held.
func (t *keyTracker) top() *keyRecord {
	if len(t.keys) == 0 {
		return nil
	}
	return &t.keys[len(t.keys)-1]
}

// markPending detaches every slot from the key at i.
func (t *keyTracker) markPending(i int) {
	t.seq++
	t.keys[i].n = 0
	t.keys[i].pendSeq = t.seq
}

// oldestVoiced returns the earliest pressed key that owns a voice, skipping
// except, or -1.
func (t *keyTracker) oldestVoiced(except int) int {
	for i := range t.keys {
		if i != except && !t.keys[i].pending() {
			return i
		}
	}
	return -1
}

// latestPending returns the key that became pending most recently, or -1.
func (t *keyTracker) latestPending() int {
	best := -1
	for i := range t.keys {
		if !t.keys[i].pending() {
			continue
		}
		if best < 0 || t.keys[i].pendSeq > t.keys[best].pendSeq {
			best = i
		}
	}
	return best
}

func (t *keyTracker) clear() {
	t.keys = t.keys[:0]
}
