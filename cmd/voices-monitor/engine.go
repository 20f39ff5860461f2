package main

import (
	"context"
	"time"

	"github.com/cwbudde/algo-voices/voices"
)

// snapshot is the render goroutine's view of the manager, published after
// each block. The UI never touches the manager directly.
type snapshot struct {
	Voices   []voices.VoiceInfo
	Settings voices.Settings
	Held     int
	Peak     float32
	Stats    voices.Stats
}

func takeSnapshot(m *voices.Manager, peak float32) snapshot {
	return snapshot{
		Voices:   m.TriggeredVoices(nil),
		Settings: m.Settings(),
		Held:     m.HeldKeys(),
		Peak:     peak,
		Stats:    m.Stats(),
	}
}

// publish replaces any unread snapshot so the UI always sees the newest.
func publish(ch chan snapshot, s snapshot) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// renderLoop owns the manager: it renders one block per block period until
// ctx is cancelled. Without an audio device the blocks are discarded after
// metering.
func renderLoop(ctx context.Context, m *voices.Manager, out chan snapshot) {
	buf := make([]float32, m.BlockSize())
	period := time.Duration(float64(time.Second) * float64(len(buf)) / m.SampleRate())
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Process(buf)
			var peak float32
			for _, s := range buf {
				peak = max(peak, s, -s)
			}
			publish(out, takeSnapshot(m, peak))
		}
	}
}
