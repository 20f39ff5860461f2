package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-voices/engines"
	"github.com/cwbudde/algo-voices/internal/config"
	"github.com/cwbudde/algo-voices/preset"
	"github.com/cwbudde/algo-voices/voices"
)

func main() {
	configPath := flag.String("config", "", "TOML config file (default $ALGOVOICES_CONFIG or ~/.config/algo-voices/config.toml)")
	engine := flag.String("engine", "", "Voice engine: waveguide, osc or silence (overrides config)")
	presetPath := flag.String("preset", "", "Preset JSON file (overrides config)")
	voiceCount := flag.Int("voices", 0, "Voice pool size (overrides config)")
	logFile := flag.String("log-file", "", "Write logs to this file (default: discard while the UI runs)")
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
	if *voiceCount > 0 {
		cfg.Audio.Voices = *voiceCount
	}
	if *presetPath != "" {
		cfg.Preset.Path = *presetPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyLogLevel()

	logrus.SetOutput(io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logrus.SetOutput(f)
	}

	if err := run(cfg, *engine); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, engine string) error {
	p := preset.Default()
	p.Engine = cfg.Engine.Name
	if cfg.Preset.Path != "" {
		loaded, err := preset.LoadJSON(cfg.Preset.Path)
		if err != nil {
			return err
		}
		p = loaded
	}
	if engine != "" {
		p.Engine = engine
	}

	factory, err := engines.Factory(p.Engine, cfg.Audio.SampleRate)
	if err != nil {
		return err
	}
	m, err := voices.NewManager(voices.Options{
		Voices:     cfg.Audio.Voices,
		SampleRate: float64(cfg.Audio.SampleRate),
		BlockSize:  cfg.Audio.BlockSize,
		NewPayload: factory,
	})
	if err != nil {
		return err
	}
	m.Sender().SendAll(p.Actions())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	snapshots := make(chan snapshot, 1)
	go renderLoop(ctx, m, snapshots)

	logrus.WithFields(logrus.Fields{
		"function": "run",
		"engine":   p.Engine,
		"voices":   cfg.Audio.Voices,
	}).Info("Monitor started")

	ui := newModel(m.Sender(), snapshots, cfg.Audio.Voices, p.Settings)
	_, err = tea.NewProgram(ui, tea.WithAltScreen()).Run()
	return err
}
