package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")

	logger, closer, err := New("debug", path)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	logger.Debug("history loaded", "sessions", 3)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected log file: %v", err)
	}
	if !strings.Contains(string(data), "history loaded") || !strings.Contains(string(data), "sessions=3") {
		t.Errorf("Unexpected log output: %s", data)
	}
}

func TestNewWithoutLevelDiscards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	logger, closer, err := New("", path)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer closer.Close()
	logger.Error("dropped")

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no log file to be created, stat err = %v", err)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, _, err := New("chatty", filepath.Join(t.TempDir(), "x.log")); err == nil {
		t.Error("Expected an error for an unknown level")
	}
}
