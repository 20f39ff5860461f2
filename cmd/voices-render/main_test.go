package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/cwbudde/algo-voices/analysis"
	"github.com/cwbudde/algo-voices/internal/wavio"
	"github.com/cwbudde/algo-voices/voices"
)

func TestDemoScoreIsOrderedAndBalanced(t *testing.T) {
	s := demoScore(48000)
	require.NotEmpty(t, s)

	held := map[int]int{}
	modes := map[voices.PlayMode]bool{}
	for i, ev := range s {
		if i > 0 && ev.frame < s[i-1].frame {
			t.Fatalf("score not ordered at %d: %d < %d", i, ev.frame, s[i-1].frame)
		}
		switch ev.action.Tag {
		case voices.ActionNoteOn:
			held[ev.action.Note]++
		case voices.ActionNoteOff:
			held[ev.action.Note]--
			require.GreaterOrEqual(t, held[ev.action.Note], 0, "note-off before note-on for %d", ev.action.Note)
		case voices.ActionPlayMode:
			modes[ev.action.Mode()] = true
		}
	}
	for note, n := range held {
		assert.Zero(t, n, "note %d left hanging", note)
	}
	assert.Len(t, modes, 4)
}

func TestRenderAppliesEventsAtFrames(t *testing.T) {
	m, err := voices.NewManager(voices.Options{
		Voices:     2,
		BlockSize:  64,
		NewPayload: func(int) voices.Payload { return &voices.Constant{Level: 1} },
	})
	require.NoError(t, err)

	events := score{
		{frame: 100, action: voices.NoteOnAction(60, 1)},
		{frame: 300, action: voices.NoteOffAction(60)},
	}
	out := render(m, events, 500)
	require.Len(t, out, 500)
	assert.Zero(t, out[99])
	assert.Equal(t, float32(1), out[100])
	assert.Equal(t, float32(1), out[299])
	assert.Zero(t, out[300])
	assert.Zero(t, out[499])
	assert.Equal(t, 0, m.HeldKeys())
}

func TestLoadSMF(t *testing.T) {
	s := smf.New()
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 127))
	tr.Add(0, midi.NoteOn(0, 64, 64))
	tr.Add(960, midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOn(0, 64, 0))
	tr.Close(0)
	require.NoError(t, s.Add(tr))

	path := filepath.Join(t.TempDir(), "phrase.mid")
	require.NoError(t, s.WriteFile(path))

	events, err := loadSMF(path, 48000)
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, voices.NoteOnAction(60, 1), events[0].action)
	assert.Equal(t, 0, events[0].frame)
	assert.Equal(t, voices.ActionNoteOn, events[1].action.Tag)
	assert.Equal(t, voices.NoteOffAction(60), events[2].action)
	// 960 ticks at the default 120 BPM is half a second.
	assert.InDelta(t, 24000, events[2].frame, 10)
	// Velocity zero is a note-off.
	assert.Equal(t, voices.NoteOffAction(64), events[3].action)
}

func TestLoadSMFMissingFile(t *testing.T) {
	_, err := loadSMF(filepath.Join(t.TempDir(), "none.mid"), 48000)
	require.Error(t, err)
}

func TestRunWritesWAVAndReport(t *testing.T) {
	dir := t.TempDir()
	opts := renderOptions{
		output:     filepath.Join(dir, "out.wav"),
		reportPath: filepath.Join(dir, "report.json"),
		engine:     "osc",
		sampleRate: 8000,
		blockSize:  128,
		voices:     4,
		tail:       0.5,
	}
	report, err := run(opts)
	require.NoError(t, err)
	assert.Greater(t, report.Frames, 8000)
	assert.Greater(t, report.Peak, 0.0)

	_, err = os.Stat(opts.output)
	require.NoError(t, err)

	b, err := os.ReadFile(opts.reportPath)
	require.NoError(t, err)
	var got analysis.Report
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, report.Frames, got.Frames)
	assert.Equal(t, 8000, got.SampleRate)
}

func TestRunRejectsUnknownEngineAndMode(t *testing.T) {
	dir := t.TempDir()
	base := renderOptions{output: filepath.Join(dir, "x.wav"), sampleRate: 8000, voices: 2, blockSize: 64}

	bad := base
	bad.engine = "fm"
	_, err := run(bad)
	require.Error(t, err)

	bad = base
	bad.mode = "chord"
	_, err = run(bad)
	require.Error(t, err)
}

func TestRunWithRoomKeepsReverbTail(t *testing.T) {
	dir := t.TempDir()
	opts := renderOptions{
		output:     filepath.Join(dir, "room.wav"),
		engine:     "osc",
		sampleRate: 8000,
		blockSize:  128,
		voices:     2,
		tail:       0.25,
		roomWet:    0.3,
	}
	report, err := run(opts)
	require.NoError(t, err)

	got, sr, err := wavio.ReadMono(opts.output)
	require.NoError(t, err)
	assert.Equal(t, 8000, sr)
	// The synthetic room rings for one second.
	assert.Equal(t, report.Frames+8000-1, len(got))
}
