package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ALGOVOICES_AUDIO_VOICES.
const EnvPrefix = "ALGOVOICES"

// Config holds command configuration.
type Config struct {
	Audio  AudioConfig  `mapstructure:"audio"`
	Engine EngineConfig `mapstructure:"engine"`
	Preset PresetConfig `mapstructure:"preset"`
	Log    LogConfig    `mapstructure:"log"`
}

// AudioConfig holds render settings.
type AudioConfig struct {
	SampleRate int `mapstructure:"sample_rate"`
	BlockSize  int `mapstructure:"block_size"`
	Voices     int `mapstructure:"voices"`
}

// EngineConfig selects the voice payload.
type EngineConfig struct {
	Name string `mapstructure:"name"`
}

// PresetConfig points at an optional preset JSON file.
type PresetConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from defaults, a TOML file and env. The file is
// path when given, else $ALGOVOICES_CONFIG, else config.toml in
// ~/.config/algo-voices if present. An explicitly named file must exist.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("audio.sample_rate", 48000)
	v.SetDefault("audio.block_size", 256)
	v.SetDefault("audio.voices", 8)
	v.SetDefault("engine.name", "waveguide")
	v.SetDefault("preset.path", "")
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	explicit := path
	if explicit == "" {
		explicit = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "algo-voices"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if explicit != "" {
			return Config{}, fmt.Errorf("read config %s: %w", explicit, err)
		}
		logrus.WithFields(logrus.Fields{
			"function": "config.Load",
		}).Debug("No config file found, using defaults")
	} else {
		logrus.WithFields(logrus.Fields{
			"function": "config.Load",
			"path":     v.ConfigFileUsed(),
		}).Debug("Loaded config file")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks ranges that the render path relies on.
func (c Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be > 0, got %d", c.Audio.SampleRate)
	}
	if c.Audio.BlockSize <= 0 {
		return fmt.Errorf("audio.block_size must be > 0, got %d", c.Audio.BlockSize)
	}
	if c.Audio.Voices <= 0 {
		return fmt.Errorf("audio.voices must be > 0, got %d", c.Audio.Voices)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// ApplyLogLevel sets the global logrus level from the config.
func (c Config) ApplyLogLevel() {
	if lvl, err := logrus.ParseLevel(c.Log.Level); err == nil {
		logrus.SetLevel(lvl)
	}
}
