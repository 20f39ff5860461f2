package voices

import (
	"fmt"
	"strings"
)

// PlayMode selects how key presses are mapped onto voice slots.
type PlayMode int

const (
	PlayModePoly PlayMode = iota
	PlayModeMono
	PlayModeUnison
	PlayModeInterval

	numPlayModes
)

var playModeNames = [numPlayModes]string{"poly", "mono", "unison", "interval"}

func (m PlayMode) String() string {
	if m < 0 || m >= numPlayModes {
		return fmt.Sprintf("PlayMode(%d)", int(m))
	}
	return playModeNames[m]
}

// Valid reports whether m names one of the four allocation disciplines.
func (m PlayMode) Valid() bool {
	return m >= 0 && m < numPlayModes
}

// ParsePlayMode parses a mode name as printed by PlayMode.String.
func ParsePlayMode(s string) (PlayMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range playModeNames {
		if n == name {
			return PlayMode(i), nil
		}
	}
	return PlayModePoly, fmt.Errorf("unknown play mode %q (expected poly, mono, unison or interval)", s)
}

// Ranges accepted by the setters. Values outside are clamped before they
// reach the allocators.
const (
	MinInterval = -12
	MaxInterval = 12
)

// Settings holds the mode-independent voice configuration.
type Settings struct {
	PlayMode PlayMode
	// Sub is the sub-oscillator depth in [0,1]. Zero disables the sub voices.
	Sub float32
	// Rand is the random-detune depth in [0,1] applied per trigger.
	Rand float32
	// Detune is the unison spread in [0,1], in semitones per rank.
	Detune float32
	// Interval is the second channel's offset in semitones for interval mode.
	Interval int
	// Portamento in [0,1] maps linearly onto [0, MaxGlideSeconds].
	Portamento float32
	Legato     bool
	Retrig     bool
}

// DefaultSettings returns the power-on configuration.
func DefaultSettings() Settings {
	return Settings{
		PlayMode:   PlayModePoly,
		Sub:        0,
		Rand:       0,
		Detune:     0,
		Interval:   0,
		Portamento: 0,
		Legato:     false,
		Retrig:     false,
	}
}

// Clamped returns a copy of s with every field forced into its valid range.
func (s Settings) Clamped() Settings {
	if !s.PlayMode.Valid() {
		s.PlayMode = PlayModePoly
	}
	s.Sub = clampUnit(s.Sub)
	s.Rand = clampUnit(s.Rand)
	s.Detune = clampUnit(s.Detune)
	s.Portamento = clampUnit(s.Portamento)
	s.Interval = clampInt(s.Interval, MinInterval, MaxInterval)
	return s
}

// Actions returns the setting actions that reproduce s on a manager.
func (s Settings) Actions() []Action {
	return []Action{
		PlayModeAction(s.PlayMode),
		SubAction(s.Sub),
		RandAction(s.Rand),
		DetuneAction(s.Detune),
		IntervalAction(s.Interval),
		PortamentoAction(s.Portamento),
		LegatoAction(s.Legato),
		RetrigAction(s.Retrig),
	}
}

func clampUnit(x float32) float32 {
	if x != x || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
