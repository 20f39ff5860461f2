package voices

import (
	"fmt"
	"math"
)

// ActionTag identifies what an Action changes.
type ActionTag uint8

const (
	ActionNone ActionTag = iota
	ActionNoteOn
	ActionNoteOff
	ActionAllNotesOff

	ActionPlayMode
	ActionSub
	ActionRand
	ActionDetune
	ActionInterval
	ActionPortamento
	ActionLegato
	ActionRetrig

	// Envelope tags are not interpreted by the manager; they are forwarded
	// to every voice payload.
	ActionAttack
	ActionDecay
	ActionSustain
	ActionRelease
)

var actionTagNames = map[ActionTag]string{
	ActionNone:        "none",
	ActionNoteOn:      "note_on",
	ActionNoteOff:     "note_off",
	ActionAllNotesOff: "all_notes_off",
	ActionPlayMode:    "play_mode",
	ActionSub:         "sub",
	ActionRand:        "rand",
	ActionDetune:      "detune",
	ActionInterval:    "interval",
	ActionPortamento:  "portamento",
	ActionLegato:      "legato",
	ActionRetrig:      "retrig",
	ActionAttack:      "attack",
	ActionDecay:       "decay",
	ActionSustain:     "sustain",
	ActionRelease:     "release",
}

func (t ActionTag) String() string {
	if n, ok := actionTagNames[t]; ok {
		return n
	}
	return fmt.Sprintf("ActionTag(%d)", uint8(t))
}

// IsNote reports whether the tag carries a key event rather than a setting.
func (t ActionTag) IsNote() bool {
	return t == ActionNoteOn || t == ActionNoteOff || t == ActionAllNotesOff
}

// Action is one message on the action channel: a key event or a
// configuration change. Note is only meaningful for key events; Value holds
// the velocity for note-on and the setting value otherwise (booleans as 0/1,
// play modes and intervals as whole numbers).
type Action struct {
	Tag   ActionTag
	Note  int
	Value float32
}

// Bool returns the value of a boolean setting action.
func (a Action) Bool() bool { return a.Value != 0 }

// Int returns the value of an integer setting action.
func (a Action) Int() int { return int(math.Round(float64(a.Value))) }

// Mode returns the value of a play-mode action.
func (a Action) Mode() PlayMode { return PlayMode(a.Int()) }

func (a Action) String() string {
	if a.Tag == ActionNoteOn || a.Tag == ActionNoteOff {
		return fmt.Sprintf("%s(%d, %.3f)", a.Tag, a.Note, a.Value)
	}
	return fmt.Sprintf("%s(%g)", a.Tag, a.Value)
}

func NoteOnAction(note int, velocity float32) Action {
	return Action{Tag: ActionNoteOn, Note: note, Value: velocity}
}

func NoteOffAction(note int) Action {
	return Action{Tag: ActionNoteOff, Note: note}
}

func AllNotesOffAction() Action { return Action{Tag: ActionAllNotesOff} }

func PlayModeAction(m PlayMode) Action {
	return Action{Tag: ActionPlayMode, Value: float32(m)}
}

func SubAction(v float32) Action        { return Action{Tag: ActionSub, Value: v} }
func RandAction(v float32) Action       { return Action{Tag: ActionRand, Value: v} }
func DetuneAction(v float32) Action     { return Action{Tag: ActionDetune, Value: v} }
func PortamentoAction(v float32) Action { return Action{Tag: ActionPortamento, Value: v} }
func AttackAction(v float32) Action     { return Action{Tag: ActionAttack, Value: v} }
func DecayAction(v float32) Action      { return Action{Tag: ActionDecay, Value: v} }
func SustainAction(v float32) Action    { return Action{Tag: ActionSustain, Value: v} }
func ReleaseAction(v float32) Action    { return Action{Tag: ActionRelease, Value: v} }

func IntervalAction(semitones int) Action {
	return Action{Tag: ActionInterval, Value: float32(semitones)}
}

func LegatoAction(on bool) Action { return Action{Tag: ActionLegato, Value: boolValue(on)} }
func RetrigAction(on bool) Action { return Action{Tag: ActionRetrig, Value: boolValue(on)} }

func boolValue(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// clampAction forces the action's payload into the range the allocators
// accept. ok is false when the action cannot be repaired (unknown tag or a
// note outside 0..127) and must be dropped.
func clampAction(a Action) (out Action, changed bool, ok bool) {
	out = a
	switch a.Tag {
	case ActionNoteOn, ActionNoteOff:
		if a.Note < 0 || a.Note >= NumNotes {
			return a, false, false
		}
		if a.Tag == ActionNoteOn {
			out.Value = clampUnit(a.Value)
		} else {
			out.Value = 0
		}
	case ActionAllNotesOff:
		out.Note, out.Value = 0, 0
	case ActionPlayMode:
		m := a.Mode()
		if !m.Valid() {
			return a, false, false
		}
		out.Value = float32(m)
	case ActionInterval:
		out.Value = float32(clampInt(a.Int(), MinInterval, MaxInterval))
	case ActionLegato, ActionRetrig:
		out.Value = boolValue(a.Bool())
	case ActionSub, ActionRand, ActionDetune, ActionPortamento,
		ActionAttack, ActionDecay, ActionSustain, ActionRelease:
		out.Value = clampUnit(a.Value)
	default:
		return a, false, false
	}
	return out, out != a, true
}
