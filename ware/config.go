package ware

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/itzKiwiSky/KAPLAYware-sub000/transition"
)

// Config is the tunable part of a session, loaded from ware.yaml.
type Config struct {
	Lives           int                `yaml:"lives"`
	BossEvery       int                `yaml:"bossEvery"`
	BPM             float64            `yaml:"bpm"`
	SpeedCap        float64            `yaml:"speedCap"`
	SpeedUpMin      float64            `yaml:"speedUpMin"`
	SpeedUpMax      float64            `yaml:"speedUpMax"`
	SpeedUpEveryMin int                `yaml:"speedUpEveryMin"`
	SpeedUpEveryMax int                `yaml:"speedUpEveryMax"`
	BombBeats       int                `yaml:"bombBeats"`
	FinishGrace     float64            `yaml:"finishGrace"`
	PrepBeats       int                `yaml:"prepBeats"`
	StageFallback   map[string]float64 `yaml:"stageFallback"`
}

func DefaultConfig() Config {
	fallback := make(map[string]float64)
	for n, d := range transition.DefaultConfig().Fallback {
		fallback[string(n)] = d
	}
	return Config{
		Lives:           4,
		BossEvery:       10,
		BPM:             140,
		SpeedCap:        1.6,
		SpeedUpMin:      0.05,
		SpeedUpMax:      0.08,
		SpeedUpEveryMin: 3,
		SpeedUpEveryMax: 6,
		BombBeats:       3,
		FinishGrace:     0.2,
		PrepBeats:       3,
		StageFallback:   fallback,
	}
}

var ErrInvalidConfig = errors.New("ware: invalid config")

// ParseConfig decodes yaml over the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("ware: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Lives < 1:
		return fmt.Errorf("%w: lives must be positive", ErrInvalidConfig)
	case c.BossEvery < 1:
		return fmt.Errorf("%w: bossEvery must be positive", ErrInvalidConfig)
	case c.BPM <= 0:
		return fmt.Errorf("%w: bpm must be positive", ErrInvalidConfig)
	case c.SpeedCap < 1:
		return fmt.Errorf("%w: speedCap below 1", ErrInvalidConfig)
	case c.SpeedUpMin < 0 || c.SpeedUpMax < c.SpeedUpMin:
		return fmt.Errorf("%w: speed-up range", ErrInvalidConfig)
	case c.SpeedUpEveryMin < 1 || c.SpeedUpEveryMax < c.SpeedUpEveryMin:
		return fmt.Errorf("%w: speed-up cadence", ErrInvalidConfig)
	case c.BombBeats < 1:
		return fmt.Errorf("%w: bombBeats must be positive", ErrInvalidConfig)
	}
	return nil
}

// Transition builds the stage runner's config.
func (c Config) Transition() transition.Config {
	tc := transition.DefaultConfig()
	tc.BPM = c.BPM
	tc.PrepBeats = c.PrepBeats
	for name, d := range c.StageFallback {
		tc.Fallback[transition.Name(name)] = d
	}
	return tc
}

// DevOverrides force parts of a session for content authors.
type DevOverrides struct {
	Microgame  string
	Difficulty int
	Speed      float64
}

// DevOverridesFromEnv reads DEV_MICROGAME, DEV_DIFFICULTY and DEV_SPEED after
// loading the given .env files (".env" when none). Missing files are fine.
func DevOverridesFromEnv(files ...string) (DevOverrides, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return DevOverrides{}, fmt.Errorf("ware: load env: %w", err)
	}

	o := DevOverrides{Microgame: os.Getenv("DEV_MICROGAME")}
	if v := os.Getenv("DEV_DIFFICULTY"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 1 || d > 3 {
			return DevOverrides{}, fmt.Errorf("ware: DEV_DIFFICULTY %q: want 1-3", v)
		}
		o.Difficulty = d
	}
	if v := os.Getenv("DEV_SPEED"); v != "" {
		s, err := strconv.ParseFloat(v, 64)
		if err != nil || s <= 0 {
			return DevOverrides{}, fmt.Errorf("ware: DEV_SPEED %q: want a positive number", v)
		}
		o.Speed = s
	}
	return o, nil
}

// Options turns the overrides into engine options.
func (o DevOverrides) Options() []Option {
	var opts []Option
	if o.Microgame != "" {
		opts = append(opts, WithForcedMicrogame(o.Microgame))
	}
	if o.Difficulty > 0 {
		opts = append(opts, WithDifficulty(o.Difficulty))
	}
	if o.Speed > 0 {
		opts = append(opts, WithSpeed(o.Speed))
	}
	return opts
}
