package voices

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
)

// KeysPerVoice bounds the held-key stack: at most KeysPerVoice keys per
// voice are tracked, further presses are dropped.
const KeysPerVoice = 12

var (
	ErrInvalidVoiceCount = errors.New("voices: voice count must be positive")
	ErrInvalidSampleRate = errors.New("voices: sample rate must be positive")
	ErrInvalidBlockSize  = errors.New("voices: block size must be positive")
	ErrInvalidSubVoices  = errors.New("voices: sub voice count out of range")
)

// Options configures a Manager. Zero fields take the documented defaults.
type Options struct {
	// Voices is the pool size N.
	Voices int
	// SampleRate in Hz, used for glide timing. Default 48000.
	SampleRate float64
	// BlockSize is the largest block Process renders at once. Default 256.
	BlockSize int
	// SubVoices is the number of sub voices per key while sub is enabled,
	// 1..MaxSubVoices. Default 2.
	SubVoices int
	// NewPayload builds the payload of each slot. Default Silence.
	NewPayload PayloadFactory
	// Seed seeds the random detune generator.
	Seed uint32
}

// Stats counts what the manager has applied since construction.
type Stats struct {
	Applied     uint64
	DroppedKeys uint64
}

// Manager owns the voice pool and dispatches key events and settings to the
// allocator of the current play mode. All methods except Sender and Queue
// belong to the render context.
type Manager struct {
	pool

	queue  *Queue
	sender *Sender

	allocs    [numPlayModes]allocator
	blockSize int
	stats     Stats
}

// NewManager builds a manager with a pool of opts.Voices voices in poly mode.
func NewManager(opts Options) (*Manager, error) {
	if opts.Voices <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidVoiceCount, opts.Voices)
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = 48000
	}
	if opts.SampleRate < 0 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidSampleRate, opts.SampleRate)
	}
	if opts.BlockSize == 0 {
		opts.BlockSize = 256
	}
	if opts.BlockSize < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBlockSize, opts.BlockSize)
	}
	if opts.SubVoices == 0 {
		opts.SubVoices = 2
	}
	if opts.SubVoices < 0 || opts.SubVoices > MaxSubVoices {
		return nil, fmt.Errorf("%w: got %d, want 1..%d", ErrInvalidSubVoices, opts.SubVoices, MaxSubVoices)
	}
	if opts.NewPayload == nil {
		opts.NewPayload = func(int) Payload { return Silence{} }
	}

	m := &Manager{
		pool: pool{
			voices:     make([]Voice, opts.Voices),
			settings:   DefaultSettings(),
			subVoices:  opts.SubVoices,
			sampleRate: opts.SampleRate,
			rng:        newXorshift32(opts.Seed),
		},
		blockSize: opts.BlockSize,
	}
	for i := range m.voices {
		m.voices[i] = newVoice(i, opts.BlockSize, opts.NewPayload(i))
	}

	limit := KeysPerVoice * opts.Voices
	slots := make([]int, opts.Voices)
	for i := range slots {
		slots[i] = i
	}
	m.allocs[PlayModePoly] = newPolyAllocator(&m.pool, slots, limit)
	m.allocs[PlayModeMono] = newMonoAllocator(&m.pool, limit)
	m.allocs[PlayModeUnison] = newUnisonAllocator(&m.pool, limit)
	m.allocs[PlayModeInterval] = newIntervalAllocator(&m.pool, limit)

	m.queue = NewQueue()
	m.sender = NewSender(m.queue)

	logrus.WithFields(logrus.Fields{
		"function":    "NewManager",
		"voices":      opts.Voices,
		"sample_rate": opts.SampleRate,
		"block_size":  opts.BlockSize,
		"sub_voices":  opts.SubVoices,
	}).Debug("Voice manager created")

	return m, nil
}

// Sender returns the producer handle of the manager's action channel. It is
// safe to use from any goroutine.
func (m *Manager) Sender() *Sender { return m.sender }

func (m *Manager) Queue() *Queue { return m.queue }

func (m *Manager) active() allocator { return m.allocs[m.settings.PlayMode] }

// Apply applies one action immediately. Values are clamped the same way the
// Sender clamps them; unrepairable actions are ignored.
func (m *Manager) Apply(a Action) {
	a, _, ok := clampAction(a)
	if !ok {
		return
	}
	m.stats.Applied++

	switch a.Tag {
	case ActionNoteOn:
		if !m.active().noteOn(a.Note, a.Value) {
			m.stats.DroppedKeys++
		}
	case ActionNoteOff:
		m.active().noteOff(a.Note)
	case ActionAllNotesOff:
		m.active().releaseAll()
	default:
		m.applySetting(a)
	}

	if debugChecks {
		if err := m.validate(); err != nil {
			panic(fmt.Sprintf("voices: after %s: %v", a, err))
		}
	}
}

func (m *Manager) applySetting(a Action) {
	s := &m.settings
	switch a.Tag {
	case ActionPlayMode:
		if mode := a.Mode(); mode != s.PlayMode {
			m.active().releaseAll()
			s.PlayMode = mode
			// The new allocator may have missed setting changes.
			m.active().settingChanged(ActionInterval)
		}
	case ActionSub:
		s.Sub = a.Value
	case ActionRand:
		s.Rand = a.Value
	case ActionDetune:
		s.Detune = a.Value
	case ActionInterval:
		s.Interval = a.Int()
	case ActionPortamento:
		s.Portamento = a.Value
	case ActionLegato:
		s.Legato = a.Bool()
	case ActionRetrig:
		s.Retrig = a.Bool()
	}
	if a.Tag != ActionPlayMode {
		m.active().settingChanged(a.Tag)
	}
	for i := range m.voices {
		m.voices[i].payload.Action(a)
	}
}

// NoteOn presses note. Velocity is in [0,1].
func (m *Manager) NoteOn(note int, velocity float32) { m.Apply(NoteOnAction(note, velocity)) }

func (m *Manager) NoteOff(note int) { m.Apply(NoteOffAction(note)) }

// AllNotesOff releases every voice and forgets every held key.
func (m *Manager) AllNotesOff() { m.Apply(AllNotesOffAction()) }

// HandleMessage applies a decoded MIDI note message. Other messages are
// ignored and reported as false.
func (m *Manager) HandleMessage(msg midi.Message) bool {
	a, ok := EventFromMessage(msg)
	if ok {
		m.Apply(a)
	}
	return ok
}

// Drain applies every queued action in FIFO order.
func (m *Manager) Drain() int {
	return m.queue.Drain(m.Apply)
}

// Process drains the action channel and then renders len(out) samples of
// the mixed pool into out. Longer buffers are rendered in BlockSize chunks.
func (m *Manager) Process(out []float32) {
	m.Drain()
	for len(out) > 0 {
		n := min(len(out), m.blockSize)
		m.renderBlock(out[:n])
		out = out[n:]
	}
}

// renderBlock sums every audible voice scaled by its volume and normalizes
// by the number of triggered voices.
func (m *Manager) renderBlock(out []float32) {
	clear(out)
	norm := float32(1) / float32(max(1, m.triggeredCount()))
	for i := range m.voices {
		v := &m.voices[i]
		if !v.audible() {
			continue
		}
		g := v.volume * norm
		for j, s := range v.render(len(out)) {
			out[j] += s * g
		}
	}
}

// Voice returns slot i. The pointer stays valid for the manager's lifetime.
func (m *Manager) Voice(i int) *Voice { return &m.voices[i] }

func (m *Manager) VoiceCount() int { return len(m.voices) }

// Voices appends a snapshot of every slot to dst.
func (m *Manager) Voices(dst []VoiceInfo) []VoiceInfo {
	for i := range m.voices {
		dst = append(dst, m.voices[i].info())
	}
	return dst
}

// TriggeredVoices appends a snapshot of every sounding voice with non-zero
// volume to dst, in pool order.
func (m *Manager) TriggeredVoices(dst []VoiceInfo) []VoiceInfo {
	for i := range m.voices {
		v := &m.voices[i]
		if v.triggered && v.volume != 0 {
			dst = append(dst, v.info())
		}
	}
	return dst
}

func (m *Manager) PlayMode() PlayMode { return m.settings.PlayMode }

func (m *Manager) Settings() Settings { return m.settings }

func (m *Manager) Stats() Stats { return m.stats }

// HeldKeys is the number of keys tracked by the current allocator.
func (m *Manager) HeldKeys() int { return m.active().heldKeys() }

func (m *Manager) SampleRate() float64 { return m.sampleRate }

func (m *Manager) BlockSize() int { return m.blockSize }

// validate checks the pool invariants of the current allocator.
func (m *Manager) validate() error {
	if n := m.triggeredCount(); n > len(m.voices) {
		return fmt.Errorf("%d triggered voices in a pool of %d", n, len(m.voices))
	}
	return m.active().validate()
}
