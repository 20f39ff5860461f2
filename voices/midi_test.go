package voices

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
)

func TestNoteFreq(t *testing.T) {
	if got := NoteFreq(69); got != 440 {
		t.Fatalf("expected A4 at 440Hz: got=%f", got)
	}
	if got := NoteFreq(81); math.Abs(float64(got)-880) > 1e-3 {
		t.Fatalf("expected A5 at 880Hz: got=%f", got)
	}
	if got := NoteFreq(-12); math.Abs(float64(got)-float64(NoteFreq(0))/2) > 1e-4 {
		t.Fatalf("expected extrapolation below note 0: got=%f", got)
	}
}

func TestNoteName(t *testing.T) {
	cases := map[int]string{0: "C-2", 60: "C3", 69: "A3", 127: "G8", 128: "---"}
	for n, want := range cases {
		assert.Equal(t, want, NoteName(n), "note %d", n)
	}
}

func TestRatioFromSemitones(t *testing.T) {
	assert.Equal(t, float32(1), ratioFromSemitones(0))
	assert.InDelta(t, 2, ratioFromSemitones(12), 1e-2)
	assert.InDelta(t, 0.5, ratioFromSemitones(-12), 1e-2)
}

func TestEventFromMessage(t *testing.T) {
	a, ok := EventFromMessage(midi.NoteOn(0, 60, 127))
	require.True(t, ok)
	assert.Equal(t, NoteOnAction(60, 1), a)

	a, ok = EventFromMessage(midi.NoteOff(3, 61))
	require.True(t, ok)
	assert.Equal(t, NoteOffAction(61), a)

	a, ok = EventFromMessage(midi.NoteOn(0, 62, 0))
	require.True(t, ok)
	assert.Equal(t, ActionNoteOff, a.Tag)

	_, ok = EventFromMessage(midi.ControlChange(0, 7, 100))
	assert.False(t, ok)
}

func TestManagerHandleMessage(t *testing.T) {
	m := newTestManager(t, 4)
	require.True(t, m.HandleMessage(midi.NoteOn(0, 60, 64)))
	vs := triggered(m)
	require.Len(t, vs, 1)
	assert.InDelta(t, 64.0/127.0, vs[0].Velocity, 1e-6)

	require.True(t, m.HandleMessage(midi.NoteOff(0, 60)))
	assert.Empty(t, triggered(m))
	assert.False(t, m.HandleMessage(midi.Pitchbend(0, 100)))
}
