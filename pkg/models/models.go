package models

import (
	"path/filepath"
	"strings"
	"time"
)

// HistoryEntry is one prompt record from the history log
type HistoryEntry struct {
	SessionID   string
	ProjectPath string
	Display     string
	Timestamp   time.Time
}

// SessionSummary represents a Claude Code session as shown in the browser
type SessionSummary struct {
	ID           string
	ProjectPath  string
	ProjectName  string
	StartedAt    time.Time
	LastActive   time.Time
	MessageCount int
	Preview      string // Most recent prompt text
	FirstPrompt  string
}

// ProjectGroup represents a project with its sessions, newest first
type ProjectGroup struct {
	Path     string
	Name     string
	Sessions []SessionSummary
}

// LastActive returns the most recent activity across the group's sessions
func (g ProjectGroup) LastActive() time.Time {
	var latest time.Time
	for _, s := range g.Sessions {
		if s.LastActive.After(latest) {
			latest = s.LastActive
		}
	}
	return latest
}

// ChatMessage is one user or assistant turn of a session
type ChatMessage struct {
	UUID      string
	Role      string
	Text      string
	Timestamp time.Time
	Model     string
	Tools     []string // Tool invocations summarised as "name: input"
}

// SessionDetail is a fully loaded session
type SessionDetail struct {
	Summary   SessionSummary
	Slug      string
	GitBranch string
	CWD       string
	Messages  []ChatMessage
}

// StartedAt returns the timestamp of the first message, falling back to the summary
func (d SessionDetail) StartedAt() time.Time {
	for _, m := range d.Messages {
		if !m.Timestamp.IsZero() {
			return m.Timestamp
		}
	}
	return d.Summary.StartedAt
}

// EndedAt returns the timestamp of the last message, falling back to the summary
func (d SessionDetail) EndedAt() time.Time {
	for i := len(d.Messages) - 1; i >= 0; i-- {
		if !d.Messages[i].Timestamp.IsZero() {
			return d.Messages[i].Timestamp
		}
	}
	return d.Summary.LastActive
}

// NormalizeProjectPath returns the grouping key for a project path
func NormalizeProjectPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	if len(cleaned) > 1 {
		cleaned = strings.TrimRight(cleaned, string(filepath.Separator))
	}
	return cleaned
}

// ProjectName derives a display name from a project path
func ProjectName(path string) string {
	if path == "" {
		return "Unknown"
	}
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return path
	}
	return name
}
