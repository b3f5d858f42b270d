package sessions

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/strrl/claude-browse/internal/errs"
)

var projectDirReplacer = strings.NewReplacer("/", "-", "\\", "-", ".", "-", "_", "-", ":", "-")

// EncodeProjectDir returns the directory name Claude Code uses for a project
// path under ~/.claude/projects. The encoding is lossy.
func EncodeProjectDir(projectPath string) string {
	return projectDirReplacer.Replace(projectPath)
}

// SessionFile returns the expected location of a session's JSONL file
func SessionFile(projectsDir, projectPath, sessionID string) string {
	return filepath.Join(projectsDir, EncodeProjectDir(projectPath), sessionID+".jsonl")
}

// FindSessionFile locates a session file, falling back to a scan of every
// project directory when the encoded project path does not match.
func FindSessionFile(projectsDir, projectPath, sessionID string) (string, error) {
	expected := SessionFile(projectsDir, projectPath, sessionID)
	if _, err := os.Stat(expected); err == nil {
		return expected, nil
	}

	matches, err := filepath.Glob(filepath.Join(projectsDir, "*", sessionID+".jsonl"))
	if err != nil {
		return "", &errs.IOError{Op: "glob", Path: projectsDir, Err: err}
	}
	if len(matches) == 0 {
		return "", &errs.NotFoundError{SessionID: sessionID}
	}
	return matches[0], nil
}
