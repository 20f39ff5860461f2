package voices

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGlideStepsFromPortamento(t *testing.T) {
	if got := glideSteps(0, 48000); got != 0 {
		t.Fatalf("expected no steps at portamento 0: got=%d", got)
	}
	if got := glideSteps(1, 100); got != 100 {
		t.Fatalf("expected one second of steps: got=%d want=100", got)
	}
	if got := glideSteps(0.5, 48000); got != 24000 {
		t.Fatalf("expected half a second of steps: got=%d want=24000", got)
	}
}

func TestGlideSnapWithoutSteps(t *testing.T) {
	var g Glide
	g.Snap(100)
	g.Retune(200, 0)
	if g.Gliding() {
		t.Fatalf("expected zero-step retune to snap")
	}
	if got := g.Next(); got != 200 {
		t.Fatalf("expected snapped frequency: got=%f want=200", got)
	}
}

func TestGlideReachesTargetRegardlessOfJump(t *testing.T) {
	for _, to := range []float32{110, 220, 880, 4000} {
		var g Glide
		g.Snap(440)
		g.Retune(to, 64)
		if got := g.Next(); got != 440 {
			t.Fatalf("expected first step to hold the start pitch: got=%f", got)
		}
		for i := 0; i < 64; i++ {
			g.Next()
		}
		if g.Gliding() {
			t.Fatalf("expected glide to %f to finish after 64 steps", to)
		}
		if g.Current() != to {
			t.Fatalf("expected exact target: got=%f want=%f", g.Current(), to)
		}
	}
}

func TestGlideIsMonotonicDownwards(t *testing.T) {
	var g Glide
	g.Snap(880)
	g.Retune(220, 200)
	prev := g.Next()
	for i := 0; i < 200; i++ {
		f := g.Next()
		if f >= prev {
			t.Fatalf("expected strictly decreasing frequency at step %d: got=%f prev=%f", i, f, prev)
		}
		prev = f
	}
	if prev != 220 {
		t.Fatalf("expected to land on target: got=%f", prev)
	}
}

func TestGlideIsExponential(t *testing.T) {
	var g Glide
	g.Snap(100)
	g.Retune(400, 100)
	g.Next()
	for i := 0; i < 50; i++ {
		g.Next()
	}
	// Half way through a two-octave glide sits one octave up.
	if math.Abs(float64(g.Current())-200) > 0.01 {
		t.Fatalf("expected geometric midpoint: got=%f want=200", g.Current())
	}
}

func TestPortamentoZeroSnapsOnFirstStep(t *testing.T) {
	m, err := NewManager(Options{Voices: 6, SampleRate: 100})
	require.NoError(t, err)
	setMode(t, m, PlayModeMono)
	m.Sender().SetPortamento(0)
	m.Drain()

	press(m, 50)
	v := m.Voice(voiceForNote(t, m, 50))
	v.Next()
	require.InDelta(t, NoteFreq(50), v.Frequency(), 0.01)

	press(m, 62)
	v.Next()
	require.InDelta(t, NoteFreq(62), v.Frequency(), 0.01)
}

func TestPortamentoFullTakesOneSecond(t *testing.T) {
	const sampleRate = 100
	m, err := NewManager(Options{Voices: 6, SampleRate: sampleRate})
	require.NoError(t, err)
	setMode(t, m, PlayModeMono)
	m.Sender().SetPortamento(1)
	m.Drain()

	press(m, 50, 62)
	v := m.Voice(voiceForNote(t, m, 62))

	f := NoteFreq(50)
	v.Next()
	require.Equal(t, f, v.Frequency(), "first step holds the start frequency")
	for i := 0; i < sampleRate; i++ {
		v.Next()
		f2 := v.Frequency()
		require.Greater(t, f2, f, "step %d", i)
		f = f2
	}
	require.InDelta(t, NoteFreq(62), v.Frequency(), 0.01)
}
