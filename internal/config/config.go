// Package config resolves runtime settings from the environment, an optional
// ~/.claude-browse.yaml file and command-line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "CLAUDE_BROWSE"
	configName = ".claude-browse" // .yaml is implicit

	KeyClaudeDir = "claude_dir"
	KeyExportDir = "export_dir"
	KeyLogLevel  = "log_level"
	KeyLogFile   = "log_file"
	KeyStats     = "stats"

	KeyStatsTimeout = "stats_timeout"
)

// Config holds the resolved settings
type Config struct {
	ClaudeDir string // Root of the Claude data directory (history.jsonl, projects/)
	ExportDir string
	LogLevel  string // Empty disables the debug log
	LogFile   string
	Stats     bool // Enrich session statistics with DuckDB

	// StatsTimeout bounds the enrichment query; history is shown without
	// statistics when it expires
	StatsTimeout time.Duration
}

// Load reads settings. Config file lookup honours CLAUDE_BROWSE_CONFIG_PATH,
// then the home directory, then the working directory.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault(KeyClaudeDir, "~/.claude")
	v.SetDefault(KeyExportDir, ".")
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFile, defaultLogFile())
	v.SetDefault(KeyStats, true)
	v.SetDefault(KeyStatsTimeout, "3s")

	v.SetConfigName(configName)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if override := os.Getenv(EnvPrefix + "_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		ClaudeDir: v.GetString(KeyClaudeDir),
		ExportDir: v.GetString(KeyExportDir),
		LogLevel:  v.GetString(KeyLogLevel),
		LogFile:   v.GetString(KeyLogFile),
		Stats:     v.GetBool(KeyStats),

		StatsTimeout: v.GetDuration(KeyStatsTimeout),
	}
	if err := cfg.expand(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Override applies non-empty command-line values
func (c *Config) Override(claudeDir, exportDir, logLevel string) error {
	if claudeDir != "" {
		c.ClaudeDir = claudeDir
	}
	if exportDir != "" {
		c.ExportDir = exportDir
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	return c.expand()
}

// HistoryFile returns the path of the prompt history log
func (c *Config) HistoryFile() string {
	return filepath.Join(c.ClaudeDir, "history.jsonl")
}

// ProjectsDir returns the directory holding per-project session files
func (c *Config) ProjectsDir() string {
	return filepath.Join(c.ClaudeDir, "projects")
}

func (c *Config) expand() error {
	for _, p := range []*string{&c.ClaudeDir, &c.ExportDir, &c.LogFile} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand path %s: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "claude-browse.log")
	}
	return filepath.Join(dir, "claude-browse", "debug.log")
}
