package engines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-voices/engines/osc"
	"github.com/cwbudde/algo-voices/engines/waveguide"
	"github.com/cwbudde/algo-voices/voices"
)

func TestFactoryByName(t *testing.T) {
	f, err := Factory("waveguide", 48000)
	require.NoError(t, err)
	assert.IsType(t, &waveguide.Voice{}, f(0))

	f, err = Factory(" OSC ", 48000)
	require.NoError(t, err)
	assert.IsType(t, &osc.Voice{}, f(3))

	f, err = Factory("silence", 48000)
	require.NoError(t, err)
	assert.IsType(t, voices.Silence{}, f(0))

	_, err = Factory("fm", 48000)
	require.Error(t, err)
}

func TestEveryEngineRendersThroughManager(t *testing.T) {
	for _, name := range []string{"waveguide", "osc"} {
		t.Run(name, func(t *testing.T) {
			f, err := Factory(name, 48000)
			require.NoError(t, err)
			m, err := voices.NewManager(voices.Options{Voices: 4, SampleRate: 48000, NewPayload: f})
			require.NoError(t, err)

			m.NoteOn(60, 0.8)
			m.NoteOn(64, 0.8)
			out := make([]float32, 4800)
			m.Process(out)

			peak := float32(0)
			for _, s := range out {
				peak = max(peak, s, -s)
			}
			assert.Greater(t, peak, float32(1e-3))
			assert.Len(t, m.TriggeredVoices(nil), 2)
		})
	}
}
