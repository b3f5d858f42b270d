package sessions

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/strrl/claude-browse/internal/db"
	"github.com/strrl/claude-browse/pkg/models"
)

// SessionStats aggregates a session file
type SessionStats struct {
	MessageCount int
	StartedAt    time.Time
	LastActivity time.Time
}

type statsResult struct {
	stats map[string]SessionStats
	err   error
}

// FetchSessionStats aggregates every session file under projectsDir in one
// DuckDB pass. Unparseable lines are ignored by read_json.
func FetchSessionStats(ctx context.Context, database *sql.DB, projectsDir string) (map[string]SessionStats, error) {
	globPattern := filepath.Join(projectsDir, "**", "*.jsonl")

	statsQuery := fmt.Sprintf(`
		SELECT
			CAST(sessionId AS VARCHAR) as session_id,
			COUNT(*) FILTER (WHERE type IN ('user', 'assistant')) as message_count,
			MIN(timestamp) as started_at,
			MAX(timestamp) as last_activity
		FROM read_json(%s,
			format = 'newline_delimited',
			union_by_name = true,
			ignore_errors = true
		)
		WHERE sessionId IS NOT NULL
		GROUP BY sessionId
	`, db.QuoteLiteral(globPattern))

	resultChan := make(chan statsResult, 1)
	go func() {
		stats, err := queryStats(ctx, database, statsQuery)
		resultChan <- statsResult{stats: stats, err: err}
	}()

	select {
	case result := <-resultChan:
		return result.stats, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func queryStats(ctx context.Context, database *sql.DB, query string) (map[string]SessionStats, error) {
	rows, err := database.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute stats query: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]SessionStats)
	for rows.Next() {
		var (
			sessionID     string
			count         int
			started, last sql.NullString
		)
		if err := rows.Scan(&sessionID, &count, &started, &last); err != nil {
			continue
		}
		stats[sessionID] = SessionStats{
			MessageCount: count,
			StartedAt:    parseStatsTime(started),
			LastActivity: parseStatsTime(last),
		}
	}
	return stats, rows.Err()
}

func parseStatsTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999", "2006-01-02 15:04:05.999999999-07"} {
		if t, err := time.Parse(layout, s.String); err == nil {
			return t.Local()
		}
	}
	return time.Time{}
}

// ApplyStats merges aggregated statistics into the groups and restores the
// newest-first ordering.
func ApplyStats(groups []models.ProjectGroup, stats map[string]SessionStats) {
	if len(stats) == 0 {
		return
	}
	for gi := range groups {
		sessions := groups[gi].Sessions
		for si := range sessions {
			st, ok := stats[sessions[si].ID]
			if !ok {
				continue
			}
			s := &sessions[si]
			if st.MessageCount > 0 {
				s.MessageCount = st.MessageCount
			}
			if !st.StartedAt.IsZero() && (s.StartedAt.IsZero() || st.StartedAt.Before(s.StartedAt)) {
				s.StartedAt = st.StartedAt
			}
			if st.LastActivity.After(s.LastActive) {
				s.LastActive = st.LastActivity
			}
		}
		SortSessions(sessions)
	}
	SortGroups(groups)
}
