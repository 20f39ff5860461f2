package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-voices/engines"
	"github.com/cwbudde/algo-voices/voices"
)

// Envelope holds the four envelope controls, each in [0,1].
type Envelope struct {
	Attack  float32
	Decay   float32
	Sustain float32
	Release float32
}

// Preset is a complete voice configuration.
type Preset struct {
	Engine   string
	Settings voices.Settings
	Envelope Envelope
}

// Default returns the power-on preset.
func Default() *Preset {
	return &Preset{
		Engine:   "waveguide",
		Settings: voices.DefaultSettings(),
		Envelope: Envelope{Attack: 0.05, Decay: 0.3, Sustain: 0.7, Release: 0.2},
	}
}

// Actions returns the actions that reproduce p on a manager, settings first.
func (p *Preset) Actions() []voices.Action {
	return append(p.Settings.Actions(),
		voices.AttackAction(p.Envelope.Attack),
		voices.DecayAction(p.Envelope.Decay),
		voices.SustainAction(p.Envelope.Sustain),
		voices.ReleaseAction(p.Envelope.Release),
	)
}

// File is the JSON schema for voice presets. Absent fields keep their
// defaults.
type File struct {
	Engine     string   `json:"engine,omitempty"`
	PlayMode   string   `json:"play_mode,omitempty"`
	Sub        *float32 `json:"sub,omitempty"`
	Rand       *float32 `json:"rand,omitempty"`
	Detune     *float32 `json:"detune,omitempty"`
	Interval   *int     `json:"interval,omitempty"`
	Portamento *float32 `json:"portamento,omitempty"`
	Legato     *bool    `json:"legato,omitempty"`
	Retrig     *bool    `json:"retrig,omitempty"`
	Attack     *float32 `json:"attack,omitempty"`
	Decay      *float32 `json:"decay,omitempty"`
	Sustain    *float32 `json:"sustain,omitempty"`
	Release    *float32 `json:"release,omitempty"`
}

// LoadJSON loads a preset JSON file and applies it on top of the defaults.
func LoadJSON(path string) (*Preset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse preset %s: %w", path, err)
	}

	p := Default()
	if err := ApplyFile(p, &f); err != nil {
		return nil, fmt.Errorf("preset %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "preset.LoadJSON",
		"path":      path,
		"engine":    p.Engine,
		"play_mode": p.Settings.PlayMode.String(),
	}).Info("Loaded preset")
	return p, nil
}

// ApplyFile applies a parsed preset file onto an existing preset. Values
// are validated, not clamped.
func ApplyFile(dst *Preset, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination preset")
	}
	if f == nil {
		return nil
	}

	if f.Engine != "" {
		name := strings.ToLower(strings.TrimSpace(f.Engine))
		if !slices.Contains(engines.Names, name) {
			return fmt.Errorf("unknown engine %q (expected one of %s)", f.Engine, strings.Join(engines.Names, ", "))
		}
		dst.Engine = name
	}
	if f.PlayMode != "" {
		m, err := voices.ParsePlayMode(f.PlayMode)
		if err != nil {
			return err
		}
		dst.Settings.PlayMode = m
	}

	units := []struct {
		name string
		src  *float32
		dst  *float32
	}{
		{"sub", f.Sub, &dst.Settings.Sub},
		{"rand", f.Rand, &dst.Settings.Rand},
		{"detune", f.Detune, &dst.Settings.Detune},
		{"portamento", f.Portamento, &dst.Settings.Portamento},
		{"attack", f.Attack, &dst.Envelope.Attack},
		{"decay", f.Decay, &dst.Envelope.Decay},
		{"sustain", f.Sustain, &dst.Envelope.Sustain},
		{"release", f.Release, &dst.Envelope.Release},
	}
	for _, u := range units {
		if u.src == nil {
			continue
		}
		if *u.src < 0 || *u.src > 1 {
			return fmt.Errorf("%s must be in [0,1]", u.name)
		}
		*u.dst = *u.src
	}

	if f.Interval != nil {
		if *f.Interval < voices.MinInterval || *f.Interval > voices.MaxInterval {
			return fmt.Errorf("interval must be in [%d,%d]", voices.MinInterval, voices.MaxInterval)
		}
		dst.Settings.Interval = *f.Interval
	}
	if f.Legato != nil {
		dst.Settings.Legato = *f.Legato
	}
	if f.Retrig != nil {
		dst.Settings.Retrig = *f.Retrig
	}
	return nil
}

// ToFile converts p into its JSON schema with every field present.
func ToFile(p *Preset) File {
	s := p.Settings
	e := p.Envelope
	return File{
		Engine:     p.Engine,
		PlayMode:   s.PlayMode.String(),
		Sub:        &s.Sub,
		Rand:       &s.Rand,
		Detune:     &s.Detune,
		Interval:   &s.Interval,
		Portamento: &s.Portamento,
		Legato:     &s.Legato,
		Retrig:     &s.Retrig,
		Attack:     &e.Attack,
		Decay:      &e.Decay,
		Sustain:    &e.Sustain,
		Release:    &e.Release,
	}
}

// SaveJSON writes p as indented JSON.
func SaveJSON(path string, p *Preset) error {
	b, err := json.MarshalIndent(ToFile(p), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"function": "preset.SaveJSON",
		"path":     path,
	}).Debug("Saved preset")
	return nil
}
