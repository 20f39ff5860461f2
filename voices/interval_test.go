package voices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntervalManager(t *testing.T, interval int) *Manager {
	t.Helper()
	m := newTestManager(t, 6)
	m.Sender().SetPlayMode(PlayModeInterval)
	m.Sender().SetInterval(interval)
	m.Drain()
	require.Equal(t, PlayModeInterval, m.PlayMode())
	return m
}

func TestIntervalTwoVoicesPerNote(t *testing.T) {
	m := newIntervalManager(t, 1)
	press(m, 50)
	assert.Equal(t, []int{50, 51}, triggeredNotes(m))
	press(m, 60)
	assert.Equal(t, []int{50, 51, 60, 61}, triggeredNotes(m))
}

func TestIntervalStealsLikePoly(t *testing.T) {
	m := newIntervalManager(t, 1)
	press(m, 50, 60, 70, 80)
	assert.Equal(t, []int{60, 61, 70, 71, 80, 81}, triggeredNotes(m))

	release(m, 70)
	assert.Equal(t, []int{50, 51, 60, 61, 80, 81}, triggeredNotes(m))
	require.NoError(t, m.validate())
}

func TestIntervalBaseAndIntervalKeys(t *testing.T) {
	m := newIntervalManager(t, 1)
	press(m, 50, 51)
	assert.Equal(t, []int{50, 51, 51, 52}, triggeredNotes(m))

	release(m, 50)
	assert.Equal(t, []int{51, 52}, triggeredNotes(m))
}

func TestIntervalChangeRetunesHeldVoices(t *testing.T) {
	m := newIntervalManager(t, 1)
	press(m, 50)

	m.Sender().SetInterval(2)
	m.Drain()
	assert.Equal(t, []int{50, 52}, triggeredNotes(m))

	press(m, 60)
	assert.Equal(t, []int{50, 52, 60, 62}, triggeredNotes(m))

	release(m, 50)
	assert.Equal(t, []int{60, 62}, triggeredNotes(m))
	release(m, 60)
	assert.Empty(t, triggered(m))
}

func TestIntervalSetBeforeModeSwitch(t *testing.T) {
	m := newTestManager(t, 6)
	m.Sender().SetInterval(-5)
	m.Sender().SetPlayMode(PlayModeInterval)
	m.Drain()

	press(m, 60)
	assert.Equal(t, []int{55, 60}, triggeredNotes(m))
}

func TestIntervalSingleVoicePool(t *testing.T) {
	m := newTestManager(t, 1)
	setMode(t, m, PlayModeInterval)
	press(m, 60, 61)
	assert.Equal(t, []int{61}, triggeredNotes(m))
	release(m, 61)
	assert.Equal(t, []int{60}, triggeredNotes(m))
	require.NoError(t, m.validate())
}
