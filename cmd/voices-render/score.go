package main

import (
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/cwbudde/algo-voices/voices"
)

// timedAction is an action scheduled at an absolute frame.
type timedAction struct {
	frame  int
	action voices.Action
}

// score is a frame-ordered list of actions.
type score []timedAction

func (s score) sorted() score {
	sort.SliceStable(s, func(i, j int) bool { return s[i].frame < s[j].frame })
	return s
}

// lastFrame is the frame of the final action, or 0 for an empty score.
func (s score) lastFrame() int {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].frame
}

// loadSMF reads note events from every track of a Standard MIDI File.
func loadSMF(path string, sampleRate int) (score, error) {
	var out score
	rd := smf.ReadTracks(path).Do(func(te smf.TrackEvent) {
		a, ok := voices.EventFromMessage(midi.Message(te.Message))
		if !ok {
			return
		}
		frame := int(te.AbsMicroSeconds * int64(sampleRate) / 1_000_000)
		out = append(out, timedAction{frame: frame, action: a})
	})
	if err := rd.Error(); err != nil {
		return nil, fmt.Errorf("read midi %s: %w", path, err)
	}
	return out.sorted(), nil
}

type demoNote struct {
	at, length float64
	note       int
	velocity   float32
}

// demoScore plays a short phrase once per play mode, switching settings in
// between so every allocator is heard.
func demoScore(sampleRate int) score {
	sec := func(t float64) int { return int(t * float64(sampleRate)) }
	var s score
	add := func(t float64, a voices.Action) {
		s = append(s, timedAction{frame: sec(t), action: a})
	}
	phrase := []demoNote{
		{0.0, 0.9, 60, 0.8},
		{0.25, 0.65, 64, 0.7},
		{0.5, 0.4, 67, 0.7},
		{1.0, 0.3, 72, 0.9},
		{1.25, 0.3, 71, 0.6},
		{1.5, 0.8, 67, 0.7},
	}
	sections := []struct {
		settings []voices.Action
	}{
		{[]voices.Action{voices.PlayModeAction(voices.PlayModePoly), voices.SubAction(0.3)}},
		{[]voices.Action{voices.PlayModeAction(voices.PlayModeMono), voices.SubAction(0), voices.PortamentoAction(0.08), voices.LegatoAction(true)}},
		{[]voices.Action{voices.PlayModeAction(voices.PlayModeUnison), voices.DetuneAction(0.15), voices.RandAction(0.2)}},
		{[]voices.Action{voices.PlayModeAction(voices.PlayModeInterval), voices.IntervalAction(7), voices.PortamentoAction(0)}},
	}
	const sectionLength = 2.75
	for i, section := range sections {
		t0 := float64(i) * sectionLength
		for _, a := range section.settings {
			add(t0, a)
		}
		for _, n := range phrase {
			add(t0+n.at, voices.NoteOnAction(n.note, n.velocity))
			add(t0+n.at+n.length, voices.NoteOffAction(n.note))
		}
	}
	return s.sorted()
}
