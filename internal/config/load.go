package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Makepad-fr/tada/internal/store/kv"
)

// ProjectFileName is looked up in the working directory.
const ProjectFileName = ".tada.toml"

// Sources locates the layers Load reads. The zero value means "use the
// process environment and the standard locations".
type Sources struct {
	UserFile    string
	ProjectFile string
	Getenv      func(string) string
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file ($XDG_CONFIG_HOME/tada/config.toml)
// 3. Project config file (.tada.toml in the working directory)
// 4. Environment variables
//
// Command-line flags are applied by the caller on top of the result.
func Load(src Sources) (*Config, error) {
	if src.Getenv == nil {
		src.Getenv = os.Getenv
	}
	if src.UserFile == "" {
		src.UserFile = userConfigFile()
	}
	if src.ProjectFile == "" {
		src.ProjectFile = ProjectFileName
	}

	cfg := Default()
	for _, path := range []string{src.UserFile, src.ProjectFile} {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}
	loadFromEnv(cfg, src.Getenv)
	return cfg, nil
}

// loadConfigFile decodes path over cfg. A missing file is not an error.
func loadConfigFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("TADA_DIR"); v != "" {
		cfg.Dir = v
	}
	if v := getenv("TADA_BACKEND"); v != "" {
		cfg.Backend = kv.Kind(strings.ToLower(v))
	}
	if v := getenv("TADA_KEY"); v != "" {
		cfg.Key = v
	}
	if v := getenv("TADA_THEME"); v != "" {
		cfg.Theme = strings.ToLower(v)
	}
	if v := getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := getenv("TADA_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
}

func userConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tada", "config.toml")
}

// Finalize expands ~ in Dir and falls back to the working directory, which
// is where the file backend has always kept its data.
func (c *Config) Finalize() error {
	c.Dir = expandPath(c.Dir)
	if c.Dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		c.Dir = wd
	}
	return nil
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
