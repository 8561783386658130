// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/kv"
)

// Default values.
const (
	DefaultBackend       = kv.KindFile
	DefaultTheme         = "classic"
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
	DefaultStatsInterval = time.Second
)

// DefaultPresets are the quick-add texts offered in the TUI.
func DefaultPresets() []string {
	return []string{"Buy groceries", "Call Mom", "Plan the week", "30 min workout", "Read 20 pages"}
}

// Themes lists the accepted theme names.
var Themes = []string{"classic", "neon", "mono"}

// LogFormats lists the accepted log formats.
var LogFormats = []string{"text", "json", "logfmt"}

// Config holds the full configuration for tada.
type Config struct {
	// Storage
	Dir     string  `toml:"dir"`
	Backend kv.Kind `toml:"backend"`
	Key     string  `toml:"key"`

	// Presentation
	Theme         string   `toml:"theme"`
	Presets       []string `toml:"presets"`
	StatsInterval Duration `toml:"stats_interval"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Duration is a time.Duration that decodes from strings like "500ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns a config with every field at its default. Dir is left
// empty and resolved to the working directory when the config is finalized.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	cfg.Backend = DefaultBackend
	cfg.Key = store.DefaultKey
	cfg.Theme = DefaultTheme
	cfg.Presets = DefaultPresets()
	cfg.StatsInterval = Duration{DefaultStatsInterval}
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch c.Backend {
	case kv.KindFile, kv.KindSQLite, kv.KindMemory:
	default:
		return fmt.Errorf("backend: unknown value %q (want file or sqlite)", c.Backend)
	}
	if strings.TrimSpace(c.Key) == "" {
		return fmt.Errorf("key: must not be empty")
	}
	if !contains(Themes, c.Theme) {
		return fmt.Errorf("theme: unknown value %q (want one of %s)", c.Theme, strings.Join(Themes, ", "))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if !contains(LogFormats, c.LogFormat) {
		return fmt.Errorf("log_format: unknown value %q (want one of %s)", c.LogFormat, strings.Join(LogFormats, ", "))
	}
	if c.StatsInterval.Duration <= 0 {
		return fmt.Errorf("stats_interval: must be positive, got %s", c.StatsInterval)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
