package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-voices/voices"
)

func writePreset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preset.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	return path
}

func TestLoadJSONAppliesFields(t *testing.T) {
	path := writePreset(t, `{
  "engine": "osc",
  "play_mode": "unison",
  "sub": 0.5,
  "rand": 0.25,
  "detune": 0.1,
  "interval": 7,
  "portamento": 0.3,
  "legato": true,
  "retrig": true,
  "attack": 0.2,
  "release": 0.9
}`)

	p, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	want := voices.Settings{
		PlayMode:   voices.PlayModeUnison,
		Sub:        0.5,
		Rand:       0.25,
		Detune:     0.1,
		Interval:   7,
		Portamento: 0.3,
		Legato:     true,
		Retrig:     true,
	}
	if p.Settings != want {
		t.Fatalf("settings mismatch: got=%+v want=%+v", p.Settings, want)
	}
	if p.Engine != "osc" {
		t.Fatalf("engine mismatch: %q", p.Engine)
	}
	def := Default().Envelope
	assert.Equal(t, Envelope{Attack: 0.2, Decay: def.Decay, Sustain: def.Sustain, Release: 0.9}, p.Envelope)
}

func TestLoadJSONEmptyKeepsDefaults(t *testing.T) {
	p, err := LoadJSON(writePreset(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestLoadJSONRejectsInvalidRanges(t *testing.T) {
	cases := map[string]string{
		"sub":        `{"sub": 1.5}`,
		"rand":       `{"rand": -0.1}`,
		"portamento": `{"portamento": 2}`,
		"sustain":    `{"sustain": -1}`,
		"interval":   `{"interval": 13}`,
		"play_mode":  `{"play_mode": "chord"}`,
		"engine":     `{"engine": "fm"}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadJSON(writePreset(t, content)); err == nil {
				t.Fatalf("expected error for %s", content)
			}
		})
	}
}

func TestLoadJSONErrorNamesField(t *testing.T) {
	_, err := LoadJSON(writePreset(t, `{"sub": 1.5}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sub must be in [0,1]")
}

func TestLoadJSONRejectsMalformed(t *testing.T) {
	_, err := LoadJSON(writePreset(t, `{"sub": `))
	require.Error(t, err)
	_, err = LoadJSON(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestSaveJSONRoundTrip(t *testing.T) {
	p := Default()
	p.Engine = "osc"
	p.Settings.PlayMode = voices.PlayModeInterval
	p.Settings.Interval = -5
	p.Settings.Legato = true
	p.Envelope.Decay = 0.8

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, SaveJSON(path, p))
	got, err := LoadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestActionsReproducePreset(t *testing.T) {
	p := Default()
	p.Settings.PlayMode = voices.PlayModeMono
	p.Settings.Portamento = 0.4
	p.Envelope.Attack = 0.6

	m, err := voices.NewManager(voices.Options{Voices: 4})
	require.NoError(t, err)
	for _, a := range p.Actions() {
		m.Apply(a)
	}
	assert.Equal(t, p.Settings, m.Settings())

	last := p.Actions()[len(p.Actions())-1]
	assert.Equal(t, voices.ActionRelease, last.Tag)
}
