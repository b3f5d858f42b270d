package sessions

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// ClaudeBinary locates the claude executable, checking PATH first and then
// the common installation locations.
func ClaudeBinary() string {
	if path, err := exec.LookPath("claude"); err == nil {
		return path
	}

	candidates := []string{"/usr/local/bin/claude", "/opt/homebrew/bin/claude"}
	if home, err := homedir.Dir(); err == nil {
		candidates = append([]string{filepath.Join(home, ".claude", "local", "claude")}, candidates...)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return "claude"
}

// ResumeCommand builds the command that resumes a session in its project
// directory
func ResumeCommand(sessionID, projectPath string) *exec.Cmd {
	cmd := exec.Command(ClaudeBinary(), "--resume", sessionID)
	if projectPath != "" {
		if info, err := os.Stat(projectPath); err == nil && info.IsDir() {
			cmd.Dir = projectPath
		}
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// ExecuteClaudeResume runs claude --resume for the session
func ExecuteClaudeResume(sessionID, projectPath string) error {
	if err := ResumeCommand(sessionID, projectPath).Run(); err != nil {
		return fmt.Errorf("failed to resume session %s: %w", sessionID, err)
	}
	return nil
}
