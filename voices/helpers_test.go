package voices

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordingPayload remembers every hook call it receives.
type recordingPayload struct {
	noteOns  int
	noteOffs int
	lastFreq float32
	lastVel  float32
	on       bool
	actions  map[ActionTag]float32
}

func newRecordingPayload(int) Payload {
	return &recordingPayload{actions: map[ActionTag]float32{}}
}

func (r *recordingPayload) NoteOn(freq, velocity float32) {
	r.noteOns++
	r.lastFreq = freq
	r.lastVel = velocity
	r.on = true
}

func (r *recordingPayload) NoteOff() {
	r.noteOffs++
	r.on = false
}

func (r *recordingPayload) Process(_, out []float32) {
	v := float32(0)
	if r.on {
		v = 1
	}
	for i := range out {
		out[i] = v
	}
}

func (r *recordingPayload) Action(a Action) { r.actions[a.Tag] = a.Value }
func (r *recordingPayload) Active() bool    { return r.on }

func newTestManager(t *testing.T, voices int) *Manager {
	t.Helper()
	m, err := NewManager(Options{Voices: voices, SampleRate: 48000, NewPayload: newRecordingPayload, Seed: 1})
	require.NoError(t, err)
	return m
}

func setMode(t *testing.T, m *Manager, mode PlayMode) {
	t.Helper()
	require.True(t, m.Sender().SetPlayMode(mode))
	m.Drain()
	require.Equal(t, mode, m.PlayMode())
}

func triggered(m *Manager) []VoiceInfo {
	return m.TriggeredVoices(nil)
}

func triggeredNotes(m *Manager) []int {
	var notes []int
	for _, v := range triggered(m) {
		notes = append(notes, v.Note)
	}
	sort.Ints(notes)
	return notes
}

func triggeredVolumes(m *Manager) []float64 {
	var vols []float64
	for _, v := range triggered(m) {
		vols = append(vols, float64(v.Volume))
	}
	sort.Float64s(vols)
	return vols
}

// orderByFrequency returns the indices of the triggered voices sorted by
// frequency, ties broken by pool order.
func orderByFrequency(m *Manager) []int {
	vs := triggered(m)
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].Frequency < vs[j].Frequency })
	idx := make([]int, len(vs))
	for i, v := range vs {
		idx[i] = v.Index
	}
	return idx
}

func voiceForNote(t *testing.T, m *Manager, note int) int {
	t.Helper()
	for _, v := range triggered(m) {
		if v.Note == note {
			return v.Index
		}
	}
	t.Fatalf("no triggered voice plays note %d", note)
	return -1
}

func press(m *Manager, notes ...int) {
	for _, n := range notes {
		m.NoteOn(n, 1)
	}
}

func release(m *Manager, notes ...int) {
	for _, n := range notes {
		m.NoteOff(n)
	}
}
