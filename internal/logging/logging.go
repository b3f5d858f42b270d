// Package logging builds the diagnostic logger. Output goes to a side-channel
// file so it never interferes with the terminal UI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a logger for level writing to path. An empty level returns a
// logger that discards everything. The returned closer must be called on exit.
func New(level, path string) (*log.Logger, io.Closer, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return Discard(), nopCloser{}, nil
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "claude-browse",
	})
	return logger, f, nil
}

// Discard returns a logger that drops all output
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
