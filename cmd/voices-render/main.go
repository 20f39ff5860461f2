package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-voices/analysis"
	"github.com/cwbudde/algo-voices/engines"
	"github.com/cwbudde/algo-voices/internal/config"
	"github.com/cwbudde/algo-voices/internal/wavio"
	"github.com/cwbudde/algo-voices/preset"
	"github.com/cwbudde/algo-voices/room"
	"github.com/cwbudde/algo-voices/voices"
)

type renderOptions struct {
	midiPath   string
	output     string
	reportPath string
	engine     string
	presetPath string
	mode       string
	sampleRate int
	outRate    int
	blockSize  int
	voices     int
	tail       float64
	roomWet    float32
	irPath     string

	// configEngine applies when neither -engine nor a preset names one.
	configEngine string
}

func main() {
	configPath := flag.String("config", "", "TOML config file (default $ALGOVOICES_CONFIG or ~/.config/algo-voices/config.toml)")
	midiPath := flag.String("midi", "", "Standard MIDI File to render (default: built-in demo phrase)")
	output := flag.String("output", "voices.wav", "Output WAV file path")
	reportPath := flag.String("report", "", "Write the analysis report as JSON to this path")
	engine := flag.String("engine", "", "Voice engine: waveguide, osc or silence (overrides config)")
	presetPath := flag.String("preset", "", "Preset JSON file (overrides config)")
	mode := flag.String("mode", "", "Play mode: poly, mono, unison or interval (overrides preset)")
	sampleRate := flag.Int("sample-rate", 0, "Render sample rate in Hz (overrides config)")
	outRate := flag.Int("out-rate", 0, "Resample the output to this rate in Hz (default: render rate)")
	voiceCount := flag.Int("voices", 0, "Voice pool size (overrides config)")
	tail := flag.Float64("tail", 2.0, "Seconds rendered after the last event")
	roomWet := flag.Float64("room", 0, "Room reverb wet share in [0,1] (0 disables)")
	irPath := flag.String("ir", "", "Impulse response WAV for -room (default: synthetic room)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn or error (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyLogLevel()

	opts := renderOptions{
		midiPath:     *midiPath,
		output:       *output,
		reportPath:   *reportPath,
		engine:       *engine,
		presetPath:   firstNonEmpty(*presetPath, cfg.Preset.Path),
		mode:         *mode,
		sampleRate:   firstPositive(*sampleRate, cfg.Audio.SampleRate),
		outRate:      *outRate,
		blockSize:    cfg.Audio.BlockSize,
		voices:       firstPositive(*voiceCount, cfg.Audio.Voices),
		tail:         *tail,
		roomWet:      float32(*roomWet),
		irPath:       *irPath,
		configEngine: cfg.Engine.Name,
	}

	report, err := run(opts)
	if err != nil {
		logrus.WithError(err).Error("Render failed")
		os.Exit(1)
	}
	fmt.Printf("Successfully wrote %s (%d frames, peak %.3f, dominant %.1f Hz)\n",
		opts.output, report.Frames, report.Peak, report.DominantHz)
}

// run renders the score described by opts into a WAV file and returns the
// analysis report of the rendered signal.
func run(opts renderOptions) (analysis.Report, error) {
	p := preset.Default()
	if opts.configEngine != "" {
		p.Engine = opts.configEngine
	}
	if opts.presetPath != "" {
		loaded, err := preset.LoadJSON(opts.presetPath)
		if err != nil {
			return analysis.Report{}, err
		}
		p = loaded
	}
	if opts.engine != "" {
		p.Engine = opts.engine
	}
	if opts.mode != "" {
		m, err := voices.ParsePlayMode(opts.mode)
		if err != nil {
			return analysis.Report{}, err
		}
		p.Settings.PlayMode = m
	}

	factory, err := engines.Factory(p.Engine, opts.sampleRate)
	if err != nil {
		return analysis.Report{}, err
	}
	m, err := voices.NewManager(voices.Options{
		Voices:     opts.voices,
		SampleRate: float64(opts.sampleRate),
		BlockSize:  opts.blockSize,
		NewPayload: factory,
	})
	if err != nil {
		return analysis.Report{}, err
	}
	m.Sender().SendAll(p.Actions())

	var events score
	if opts.midiPath != "" {
		events, err = loadSMF(opts.midiPath, opts.sampleRate)
		if err != nil {
			return analysis.Report{}, err
		}
	} else {
		events = demoScore(opts.sampleRate)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "run",
		"engine":      p.Engine,
		"play_mode":   p.Settings.PlayMode.String(),
		"voices":      opts.voices,
		"sample_rate": opts.sampleRate,
		"events":      len(events),
	}).Info("Rendering")

	total := events.lastFrame() + int(opts.tail*float64(opts.sampleRate))
	out := render(m, events, total)

	report := analysis.Analyze(out, opts.sampleRate)
	logrus.WithFields(logrus.Fields{
		"function":       "run",
		"frames":         report.Frames,
		"peak":           report.Peak,
		"rms":            report.RMS,
		"dominant_hz":    report.DominantHz,
		"decay_db_per_s": report.DecayDBPerS,
		"clipped":        report.ClippedCount,
		"applied":        m.Stats().Applied,
		"dropped_keys":   m.Stats().DroppedKeys,
	}).Info("Render finished")

	if opts.roomWet > 0 {
		out, err = applyRoom(out, opts)
		if err != nil {
			return report, err
		}
	}

	if g := wavio.Normalize(out, 0.99); g != 1 {
		logrus.WithFields(logrus.Fields{
			"function": "run",
			"gain":     g,
		}).Warn("Output clipped, normalized")
	}

	rate := opts.sampleRate
	if opts.outRate > 0 && opts.outRate != rate {
		out, err = wavio.Resample(out, rate, opts.outRate)
		if err != nil {
			return report, err
		}
		rate = opts.outRate
	}
	if err := wavio.WriteMono(opts.output, out, rate); err != nil {
		return report, fmt.Errorf("write %s: %w", opts.output, err)
	}

	if opts.reportPath != "" {
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return report, err
		}
		if err := os.WriteFile(opts.reportPath, append(b, '\n'), 0o644); err != nil {
			return report, err
		}
	}
	return report, nil
}

// render pushes every scheduled action through the manager's action channel
// exactly at its frame, splitting blocks at event boundaries.
func render(m *voices.Manager, events score, total int) []float32 {
	out := make([]float32, total)
	s := m.Sender()
	pos, next := 0, 0
	for pos < total {
		for next < len(events) && events[next].frame <= pos {
			s.Send(events[next].action)
			next++
		}
		end := total
		if next < len(events) {
			end = min(end, events[next].frame)
		}
		m.Process(out[pos:end])
		pos = end
	}
	return out
}

// applyRoom runs the rendered signal through a room response, keeping the
// reverb tail.
func applyRoom(x []float32, opts renderOptions) ([]float32, error) {
	var ir []float32
	var err error
	if opts.irPath != "" {
		ir, err = room.LoadIR(opts.irPath, opts.sampleRate)
	} else {
		ir, err = room.GenerateIR(room.DefaultConfig(opts.sampleRate))
	}
	if err != nil {
		return nil, err
	}
	c, err := room.NewConvolver(ir, room.DefaultPartSize)
	if err != nil {
		return nil, err
	}
	c.SetMix(opts.roomWet)
	logrus.WithFields(logrus.Fields{
		"function": "applyRoom",
		"ir":       opts.irPath,
		"ir_len":   len(ir),
		"wet":      opts.roomWet,
	}).Debug("Applying room")
	return c.Apply(x, c.TailLength())
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
