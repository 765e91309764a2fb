package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type TUIConfig struct {
	// Theme is "auto", "light" or "dark".
	Theme string `yaml:"theme,omitempty"`
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `yaml:"glyphs,omitempty"`
}

type Config struct {
	// ServerURL is the base URL of the task-management API.
	ServerURL string `yaml:"serverUrl"`

	// RequestTimeout bounds every remote call. Zero means the default.
	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty"`

	// DefaultRole preselects the login role ("user" or "admin").
	DefaultRole string `yaml:"defaultRole,omitempty"`

	// RememberSession persists the session token in the local state store
	// so a new process can resume without logging in again.
	RememberSession bool `yaml:"rememberSession,omitempty"`

	LogLevel string `yaml:"logLevel,omitempty"`

	TUI TUIConfig `yaml:"tui,omitempty"`
}

func Default() *Config {
	return &Config{
		ServerURL:       "http://localhost:8080/api",
		RequestTimeout:  10 * time.Second,
		DefaultRole:     "user",
		RememberSession: true,
	}
}

// Dir returns the taskdeck config directory.
// TASKDECK_CONFIG_DIR overrides it (keeps unit tests from touching ~/.taskdeck).
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("TASKDECK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskdeck"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the optional YAML config. A missing file yields defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TASKDECK_SERVER")); v != "" {
		cfg.ServerURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKDECK_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
}
