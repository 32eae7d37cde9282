// Package config loads mower settings from YAML and MOWER_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/lawnmower/garden"
	"github.com/katalvlaran/lawnmower/metrics"
	"github.com/katalvlaran/lawnmower/pace"
)

const (
	// EnvPrefix marks environment overrides, e.g. MOWER_PACE_DELAY=20ms.
	EnvPrefix = "MOWER_"

	// DefaultPaceDelay applies to the timer and rate modes when no delay is set.
	DefaultPaceDelay = 50 * time.Millisecond

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full settings tree.
type Config struct {
	Log     Log     `koanf:"log"`
	Pace    Pace    `koanf:"pace"`
	Metrics Metrics `koanf:"metrics"`
	Random  Random  `koanf:"random"`
}

// Log selects level and encoding.
type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Pace selects how moves are slowed down.
type Pace struct {
	Mode  pace.Mode     `koanf:"mode"`
	Delay time.Duration `koanf:"delay"`
}

// Metrics configures the Prometheus collectors.
type Metrics struct {
	Namespace string `koanf:"namespace"`
	// Textfile, when set, receives the registry in text exposition format
	// after each command.
	Textfile string `koanf:"textfile"`
}

// Random drives garden generation.
type Random struct {
	ObstaclePercent int   `koanf:"obstacle_percent"`
	Seed            int64 `koanf:"seed"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log:     Log{Level: "info", Format: "console"},
		Pace:    Pace{Mode: pace.ModeNone},
		Metrics: Metrics{Namespace: metrics.DefaultNamespace},
		Random:  Random{ObstaclePercent: garden.DefaultObstaclePercent},
	}
}

// Load builds a Config.
//
// Precedence (highest to lowest):
//  1. MOWER_* environment variables (MOWER_PACE_DELAY -> pace.delay)
//  2. the YAML file at path, when path is not empty
//  3. Default()
//
// Keys absent from both sources keep their default, so an explicit zero
// (random.obstacle_percent: 0) is honoured.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if err = k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envKey maps MOWER_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// applyDefaults fills values that were set but left empty.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	if cfg.Pace.Mode == "" {
		cfg.Pace.Mode = def.Pace.Mode
	}
	if cfg.Pace.Mode != pace.ModeNone && cfg.Pace.Delay == 0 {
		cfg.Pace.Delay = DefaultPaceDelay
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = def.Metrics.Namespace
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log.format must be json or console, got %q", ErrInvalid, c.Log.Format)
	}
	switch c.Pace.Mode {
	case pace.ModeNone, pace.ModeTimer, pace.ModeRate:
	default:
		return fmt.Errorf("%w: pace.mode must be none, timer or rate, got %q", ErrInvalid, c.Pace.Mode)
	}
	if c.Pace.Delay < 0 {
		return fmt.Errorf("%w: pace.delay must not be negative", ErrInvalid)
	}
	if p := c.Random.ObstaclePercent; p < 0 || p > 100 {
		return fmt.Errorf("%w: random.obstacle_percent must be in [0,100], got %d", ErrInvalid, p)
	}
	return nil
}

// Pacer returns the pacer selected by the pace section.
func (c *Config) Pacer() pace.Pacer {
	return pace.ForMode(c.Pace.Mode, c.Pace.Delay)
}
