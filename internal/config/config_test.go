package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	empty := t.TempDir()
	t.Setenv(EnvPrefix+"_CONFIG_PATH", empty)
	t.Setenv(EnvPrefix+"_CLAUDE_DIR", "/data/claude")
	t.Setenv(EnvPrefix+"_LOG_LEVEL", "debug")
	t.Setenv(EnvPrefix+"_STATS", "false")
	t.Setenv(EnvPrefix+"_STATS_TIMEOUT", "750ms")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	if cfg.ClaudeDir != "/data/claude" {
		t.Errorf("Expected ClaudeDir from env, got %s", cfg.ClaudeDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel debug, got %q", cfg.LogLevel)
	}
	if cfg.Stats {
		t.Error("Expected stats to be disabled by env")
	}
	if cfg.StatsTimeout != 750*time.Millisecond {
		t.Errorf("Expected stats timeout from env, got %v", cfg.StatsTimeout)
	}
	if cfg.HistoryFile() != filepath.Join("/data/claude", "history.jsonl") {
		t.Errorf("Unexpected history file %s", cfg.HistoryFile())
	}
	if cfg.ProjectsDir() != filepath.Join("/data/claude", "projects") {
		t.Errorf("Unexpected projects dir %s", cfg.ProjectsDir())
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "export_dir: /exports\nlog_level: warn\n"
	if err := os.WriteFile(filepath.Join(dir, ".claude-browse.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPrefix+"_CONFIG_PATH", dir)

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}
	if cfg.ExportDir != "/exports" {
		t.Errorf("Expected export dir from file, got %s", cfg.ExportDir)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected log level from file, got %s", cfg.LogLevel)
	}
	if cfg.StatsTimeout != 3*time.Second {
		t.Errorf("Expected default stats timeout, got %v", cfg.StatsTimeout)
	}
}

func TestOverrideExpandsHome(t *testing.T) {
	homedir.DisableCache = true
	defer func() { homedir.DisableCache = false }()
	t.Setenv("HOME", "/home/tester")
	cfg := &Config{ClaudeDir: "/a", ExportDir: ".", LogFile: "/tmp/x.log"}

	if err := cfg.Override("~/claude", "", "info"); err != nil {
		t.Fatalf("Override() error: %v", err)
	}
	if cfg.ClaudeDir != "/home/tester/claude" {
		t.Errorf("Expected expanded ClaudeDir, got %s", cfg.ClaudeDir)
	}
	if cfg.ExportDir != "." {
		t.Errorf("Empty override should keep ExportDir, got %s", cfg.ExportDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel info, got %s", cfg.LogLevel)
	}
}
