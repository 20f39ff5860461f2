package voices

// Voice is one slot of the fixed pool. Its index never changes; the
// allocator in control reassigns its key, pitch and volume.
type Voice struct {
	index     int
	note      int
	lastNote  int
	key       int
	velocity  float32
	triggered bool
	volume    float32
	ratio     float32

	glide   Glide
	payload Payload

	freqBuf []float32
	outBuf  []float32
}

func newVoice(index, blockSize int, p Payload) Voice {
	return Voice{
		index:    index,
		note:     -1,
		lastNote: -1,
		key:      -1,
		volume:   1,
		ratio:    1,
		payload:  p,
		freqBuf:  make([]float32, blockSize),
		outBuf:   make([]float32, blockSize),
	}
}

func (v *Voice) Index() int { return v.index }

// Note is the note the voice sounds (or last sounded). Sub and interval
// voices sound a different note than the key that owns them.
func (v *Voice) Note() int { return v.note }

// Key is the owning key's note number, -1 when the voice is free.
func (v *Voice) Key() int { return v.key }

func (v *Voice) Velocity() float32 { return v.velocity }

// Frequency is the currently sounding frequency, mid-glide included.
func (v *Voice) Frequency() float32 { return v.glide.Current() }

func (v *Voice) TargetFrequency() float32 { return v.glide.Target() }

func (v *Voice) Volume() float32 { return v.volume }

func (v *Voice) IsTriggered() bool { return v.triggered }

func (v *Voice) Payload() Payload { return v.payload }

// Next advances the glide by one audio step and returns the new frequency.
func (v *Voice) Next() float32 { return v.glide.Next() }

// tune sets the voice pitch to note*ratio. A sounding voice glides over
// steps; a silent one snaps. With fromTarget the glide starts at the
// previous target instead of the sounding pitch.
func (v *Voice) tune(note int, ratio float32, steps int, fromTarget bool) {
	v.note = note
	v.lastNote = note
	v.ratio = ratio
	f := NoteFreq(note) * ratio
	switch {
	case !v.triggered:
		v.glide.Snap(f)
	case fromTarget:
		v.glide.RetuneFrom(v.glide.Target(), f, steps)
	default:
		v.glide.Retune(f, steps)
	}
}

// trigger marks the voice as sounding for key and starts the payload.
func (v *Voice) trigger(key int, velocity, volume float32) {
	v.key = key
	v.velocity = velocity
	v.volume = volume
	v.triggered = true
	v.payload.NoteOn(v.glide.Target(), velocity)
}

// start tunes and triggers in one step, always restarting the payload.
func (v *Voice) start(key, note int, velocity, volume, ratio float32, steps int) {
	v.tune(note, ratio, steps, false)
	v.trigger(key, velocity, volume)
}

// release frees the voice and lets the payload ring out.
func (v *Voice) release() {
	if !v.triggered {
		return
	}
	v.triggered = false
	v.key = -1
	v.payload.NoteOff()
}

// audible reports whether the voice contributes to the mix this block.
func (v *Voice) audible() bool {
	return v.triggered || v.payload.Active()
}

// render fills outBuf[:n] with the payload output for the next n steps.
func (v *Voice) render(n int) []float32 {
	freq := v.freqBuf[:n]
	for i := range freq {
		freq[i] = v.glide.Next()
	}
	out := v.outBuf[:n]
	v.payload.Process(freq, out)
	return out
}

// VoiceInfo is a value snapshot of a voice for observers outside the
// render context.
type VoiceInfo struct {
	Index     int
	Note      int
	Key       int
	Frequency float32
	Target    float32
	Volume    float32
	Velocity  float32
	Triggered bool
}

func (v *Voice) info() VoiceInfo {
	return VoiceInfo{
		Index:     v.index,
		Note:      v.note,
		Key:       v.key,
		Frequency: v.glide.Current(),
		Target:    v.glide.Target(),
		Volume:    v.volume,
		Velocity:  v.velocity,
		Triggered: v.triggered,
	}
}
