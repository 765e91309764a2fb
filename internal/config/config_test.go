package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL == "" {
		t.Fatalf("no default server URL")
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if !cfg.RememberSession {
		t.Fatalf("sessions should be remembered by default")
	}
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("serverUrl: https://tasks.example.com/api\nrequestTimeout: 5s\ndefaultRole: admin\ntui:\n  theme: dark\n  glyphs: ascii\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "https://tasks.example.com/api" {
		t.Fatalf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.DefaultRole != "admin" {
		t.Fatalf("DefaultRole = %q", cfg.DefaultRole)
	}
	if cfg.TUI.Theme != "dark" || cfg.TUI.Glyphs != "ascii" {
		t.Fatalf("TUI = %+v", cfg.TUI)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("serverUrl: https://from-file.example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKDECK_SERVER", "https://from-env.example.com")
	t.Setenv("TASKDECK_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "https://from-env.example.com" {
		t.Fatalf("ServerURL = %q, env must win", cfg.ServerURL)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestDirHonorsOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKDECK_CONFIG_DIR", dir)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if got != dir {
		t.Fatalf("Dir = %q, want %q", got, dir)
	}
}
