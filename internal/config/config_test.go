package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Practice.Tool != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[practice]
tool = "tmux"
delay-ms = 250
seed = 42

[stats]
curve-window = 3

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.Tool == nil || *cfg.Practice.Tool != "tmux" {
		t.Fatalf("unexpected tool: %v", cfg.Practice.Tool)
	}
	if cfg.Practice.DelayMs == nil || *cfg.Practice.DelayMs != 250 {
		t.Fatalf("unexpected delay: %v", cfg.Practice.DelayMs)
	}
	if cfg.Practice.Seed == nil || *cfg.Practice.Seed != 42 {
		t.Fatalf("unexpected seed: %v", cfg.Practice.Seed)
	}
	if cfg.Practice.CatalogDir != nil {
		t.Fatalf("expected catalog dir to stay unset")
	}
	if cfg.Stats.CurveWindow == nil || *cfg.Stats.CurveWindow != 3 {
		t.Fatalf("unexpected curve window: %v", cfg.Stats.CurveWindow)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "practice.lang") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(DefaultConfigTemplate), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("template should decode: %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "tuikeys", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultCatalogDir(); got != filepath.Join("/cfg", "tuikeys", "shortcuts") {
		t.Fatalf("unexpected catalog dir: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "tuikeys", "tuikeys.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/data", "tuikeys", "tuikeys.log") {
		t.Fatalf("unexpected log path: %s", got)
	}
}
