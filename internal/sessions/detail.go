package sessions

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/muesli/reflow/truncate"
	"github.com/strrl/claude-browse/internal/errs"
	"github.com/strrl/claude-browse/pkg/models"
)

// sessionLine mirrors one line of a session JSONL file
type sessionLine struct {
	Type      string          `json:"type"`
	UUID      string          `json:"uuid"`
	Timestamp string          `json:"timestamp"`
	CWD       string          `json:"cwd"`
	Slug      string          `json:"slug"`
	GitBranch string          `json:"gitBranch"`
	IsMeta    bool            `json:"isMeta"`
	Message   json.RawMessage `json:"message"`
}

type messageBody struct {
	Role    string          `json:"role"`
	Model   string          `json:"model"`
	Content json.RawMessage `json:"content"`
}

type contentBlock struct {
	Type  string                 `json:"type"`
	Text  string                 `json:"text"`
	Name  string                 `json:"name"`
	Input map[string]interface{} `json:"input"`
}

// ReadSessionFile loads a session file into a detail value. summary seeds
// the metadata the file does not carry.
func ReadSessionFile(path string, summary models.SessionSummary) (models.SessionDetail, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.SessionDetail{}, nil, &errs.NotFoundError{SessionID: summary.ID}
		}
		return models.SessionDetail{}, nil, &errs.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	return parseSession(f, path, summary)
}

func parseSession(r io.Reader, source string, summary models.SessionSummary) (models.SessionDetail, []error, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	detail := models.SessionDetail{Summary: summary}
	var (
		warnings []error
		lineNum  int
	)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry sessionLine
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			warnings = append(warnings, &errs.ParseError{Source: source, Line: lineNum, Err: err})
			continue
		}
		if entry.Type == "" {
			warnings = append(warnings, &errs.ParseError{Source: source, Line: lineNum, Err: errors.New("missing type field")})
			continue
		}

		if detail.Slug == "" && entry.Slug != "" {
			detail.Slug = entry.Slug
		}
		if detail.GitBranch == "" && entry.GitBranch != "" {
			detail.GitBranch = entry.GitBranch
		}
		if detail.CWD == "" && entry.CWD != "" {
			detail.CWD = entry.CWD
		}

		if entry.Type != "user" && entry.Type != "assistant" {
			continue
		}
		if entry.IsMeta || len(entry.Message) == 0 {
			continue
		}

		msg, err := decodeMessage(entry)
		if err != nil {
			warnings = append(warnings, &errs.ParseError{Source: source, Line: lineNum, Err: err})
			continue
		}
		if msg.Text == "" && len(msg.Tools) == 0 {
			continue
		}
		detail.Messages = append(detail.Messages, msg)
	}
	if err := scanner.Err(); err != nil {
		return detail, warnings, &errs.IOError{Op: "read", Path: source, Err: err}
	}

	detail.Summary.MessageCount = len(detail.Messages)
	if start := detail.StartedAt(); !start.IsZero() {
		detail.Summary.StartedAt = start
	}
	return detail, warnings, nil
}

func decodeMessage(entry sessionLine) (models.ChatMessage, error) {
	var body messageBody
	if err := json.Unmarshal(entry.Message, &body); err != nil {
		return models.ChatMessage{}, fmt.Errorf("invalid message: %w", err)
	}

	msg := models.ChatMessage{
		UUID:      entry.UUID,
		Role:      body.Role,
		Model:     body.Model,
		Timestamp: parseTimestamp(entry.Timestamp),
	}
	if msg.Role == "" {
		msg.Role = entry.Type
	}

	if len(body.Content) == 0 {
		return msg, nil
	}

	// Content is either a plain string or an array of typed blocks
	var text string
	if err := json.Unmarshal(body.Content, &text); err == nil {
		msg.Text = cleanText(text)
		return msg, nil
	}

	var blocks []contentBlock
	if err := json.Unmarshal(body.Content, &blocks); err != nil {
		return models.ChatMessage{}, fmt.Errorf("invalid content: %w", err)
	}

	var parts []string
	for _, b := range blocks {
		switch b.Type {
		case "text":
			if t := cleanText(b.Text); t != "" && !strings.Contains(t, "<system-reminder>") {
				parts = append(parts, t)
			}
		case "tool_use":
			msg.Tools = append(msg.Tools, summarizeToolUse(b))
		}
	}
	msg.Text = strings.Join(parts, "\n")
	return msg, nil
}

// summarizeToolUse renders a tool call as "name: input"
func summarizeToolUse(b contentBlock) string {
	name := b.Name
	if name == "" {
		name = "unknown"
	}

	var input string
	if cmd, ok := b.Input["command"].(string); ok {
		input = truncate.StringWithTail(collapseSpace(cmd), 60, "...")
	} else if path, ok := b.Input["file_path"].(string); ok {
		input = filepath.Base(path)
	} else if pattern, ok := b.Input["pattern"].(string); ok {
		input = truncate.StringWithTail(pattern, 40, "...")
	} else if len(b.Input) > 0 {
		raw, _ := json.Marshal(b.Input)
		input = truncate.StringWithTail(string(raw), 60, "...")
	}

	if input == "" {
		return name
	}
	return name + ": " + input
}

// cleanText strips slash-command markup that Claude Code stores inline
func cleanText(s string) string {
	for _, tag := range []string{"command-name", "command-message"} {
		open, close := "<"+tag+">", "</"+tag+">"
		for {
			start := strings.Index(s, open)
			if start < 0 {
				break
			}
			end := strings.Index(s[start:], close)
			if end < 0 {
				break
			}
			s = s[:start] + s[start+end+len(close):]
		}
	}
	return strings.TrimSpace(s)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.Local()
}
