package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ALGOVOICES_CONFIG", "")
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 48000, c.Audio.SampleRate)
	assert.Equal(t, 256, c.Audio.BlockSize)
	assert.Equal(t, 8, c.Audio.Voices)
	assert.Equal(t, "waveguide", c.Engine.Name)
	assert.Equal(t, "", c.Preset.Path)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "voices.toml")
	content := `
[audio]
sample_rate = 44100
voices = 16

[engine]
name = "osc"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("ALGOVOICES_AUDIO_VOICES", "4")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 44100, c.Audio.SampleRate)
	assert.Equal(t, 4, c.Audio.Voices)
	assert.Equal(t, "osc", c.Engine.Name)
	assert.Equal(t, 256, c.Audio.BlockSize)
}

func TestLoadConfigFromEnvPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o644))
	t.Setenv("ALGOVOICES_CONFIG", path)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	good := Config{
		Audio: AudioConfig{SampleRate: 48000, BlockSize: 64, Voices: 2},
		Log:   LogConfig{Level: "warn"},
	}
	require.NoError(t, good.Validate())

	bad := good
	bad.Audio.Voices = 0
	require.Error(t, bad.Validate())

	bad = good
	bad.Log.Level = "loud"
	require.Error(t, bad.Validate())
}
