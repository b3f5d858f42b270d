package sessions

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/strrl/claude-browse/internal/errs"
	"github.com/strrl/claude-browse/pkg/models"
)

const maxLineSize = 16 * 1024 * 1024

// historyLine mirrors one line of ~/.claude/history.jsonl
type historyLine struct {
	Display   string `json:"display"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	Project   string `json:"project"`
	SessionID string `json:"sessionId"`
}

// ReadHistory reads the history log. Malformed lines are skipped and
// returned as warnings; only failure to read the file itself is an error.
func ReadHistory(path string) ([]models.HistoryEntry, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &errs.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	return parseHistory(f, path)
}

func parseHistory(r io.Reader, source string) ([]models.HistoryEntry, []error, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		entries  []models.HistoryEntry
		warnings []error
		lineNum  int
	)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var raw historyLine
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			warnings = append(warnings, &errs.ParseError{Source: source, Line: lineNum, Err: err})
			continue
		}
		// Older history lines predate session ids and cannot be opened
		if raw.SessionID == "" {
			continue
		}

		entries = append(entries, models.HistoryEntry{
			SessionID:   raw.SessionID,
			ProjectPath: models.NormalizeProjectPath(raw.Project),
			Display:     raw.Display,
			Timestamp:   time.UnixMilli(raw.Timestamp).Local(),
		})
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			warnings = append(warnings, &errs.ParseError{Source: source, Line: lineNum + 1, Err: err})
			return entries, warnings, nil
		}
		return entries, warnings, &errs.IOError{Op: "read", Path: source, Err: err}
	}
	return entries, warnings, nil
}

// GroupHistory folds history entries into project groups. Sessions are
// deduplicated, sorted newest first, and groups ordered by their newest
// session.
func GroupHistory(entries []models.HistoryEntry) []models.ProjectGroup {
	sessions := make(map[string]*models.SessionSummary)
	var order []string

	for _, e := range entries {
		s, ok := sessions[e.SessionID]
		if !ok {
			s = &models.SessionSummary{
				ID:          e.SessionID,
				ProjectPath: e.ProjectPath,
				ProjectName: models.ProjectName(e.ProjectPath),
				StartedAt:   e.Timestamp,
				LastActive:  e.Timestamp,
			}
			sessions[e.SessionID] = s
			order = append(order, e.SessionID)
		}
		s.MessageCount++
		text := strings.TrimSpace(e.Display)
		if e.Timestamp.Before(s.StartedAt) {
			s.StartedAt = e.Timestamp
			if text != "" {
				s.FirstPrompt = text
			}
		}
		if s.FirstPrompt == "" {
			s.FirstPrompt = text
		}
		if !e.Timestamp.Before(s.LastActive) {
			s.LastActive = e.Timestamp
			if text != "" {
				s.Preview = text
			}
		}
		if s.Preview == "" {
			s.Preview = text
		}
	}

	groups := make(map[string]*models.ProjectGroup)
	var groupOrder []string
	for _, id := range order {
		s := *sessions[id]
		g, ok := groups[s.ProjectPath]
		if !ok {
			g = &models.ProjectGroup{Path: s.ProjectPath, Name: s.ProjectName}
			groups[s.ProjectPath] = g
			groupOrder = append(groupOrder, s.ProjectPath)
		}
		g.Sessions = append(g.Sessions, s)
	}

	result := make([]models.ProjectGroup, 0, len(groups))
	for _, path := range groupOrder {
		g := groups[path]
		SortSessions(g.Sessions)
		result = append(result, *g)
	}
	SortGroups(result)
	return result
}

// SortSessions orders sessions most recently active first
func SortSessions(s []models.SessionSummary) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].LastActive.After(s[j].LastActive)
	})
}

// SortGroups orders groups by their most recent session
func SortGroups(g []models.ProjectGroup) {
	sort.SliceStable(g, func(i, j int) bool {
		return g[i].LastActive().After(g[j].LastActive())
	})
}
