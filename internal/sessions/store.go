// Package sessions reads Claude Code's on-disk history and session files.
package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/strrl/claude-browse/internal/db"
	"github.com/strrl/claude-browse/internal/errs"
	"github.com/strrl/claude-browse/internal/logging"
	"github.com/strrl/claude-browse/pkg/models"
)

// Index is the result of listing projects
type Index struct {
	Groups  []models.ProjectGroup
	Skipped int // Malformed records skipped while reading
}

// SessionCount returns the number of sessions across all groups
func (i Index) SessionCount() int {
	n := 0
	for _, g := range i.Groups {
		n += len(g.Sessions)
	}
	return n
}

// DefaultStatsTimeout bounds the enrichment query when Options leaves it unset
const DefaultStatsTimeout = 3 * time.Second

// Options configures a Store
type Options struct {
	HistoryFile  string
	ProjectsDir  string
	Stats        bool          // Enrich summaries with DuckDB aggregates
	StatsTimeout time.Duration // Zero means DefaultStatsTimeout
	Logger       *log.Logger
}

// Store is the file-backed history provider
type Store struct {
	opts Options
	log  *log.Logger
}

// NewStore creates a store; a nil logger is replaced by a discarding one
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{opts: opts, log: logger}
}

// ListProjects reads the history log and groups its sessions by project
func (s *Store) ListProjects(ctx context.Context) (Index, error) {
	if err := ctx.Err(); err != nil {
		return Index{}, err
	}

	entries, warnings, err := ReadHistory(s.opts.HistoryFile)
	if err != nil {
		return Index{}, err
	}
	for _, w := range warnings {
		s.log.Warn("skipping history record", "err", w)
	}

	groups := GroupHistory(entries)
	if s.opts.Stats && len(groups) > 0 {
		s.enrich(ctx, groups)
	}

	s.log.Debug("history loaded", "entries", len(entries), "projects", len(groups), "skipped", len(warnings))
	return Index{Groups: groups, Skipped: len(warnings)}, nil
}

// enrich applies DuckDB statistics to groups. Any failure, including an
// expired deadline, leaves the history-derived values in place.
func (s *Store) enrich(ctx context.Context, groups []models.ProjectGroup) {
	timeout := s.opts.StatsTimeout
	if timeout == 0 {
		timeout = DefaultStatsTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		s.log.Warn("session statistics skipped", "err", err)
		return
	}
	database, err := db.Shared()
	if err != nil {
		s.log.Warn("session statistics unavailable", "err", err)
		return
	}
	stats, err := FetchSessionStats(ctx, database, s.opts.ProjectsDir)
	if err != nil {
		s.log.Warn("session statistics query failed", "err", err)
		return
	}
	ApplyStats(groups, stats)
}

// LoadSessionDetail reads the messages of one session
func (s *Store) LoadSessionDetail(ctx context.Context, summary models.SessionSummary) (models.SessionDetail, error) {
	if err := ctx.Err(); err != nil {
		return models.SessionDetail{}, err
	}

	path, err := FindSessionFile(s.opts.ProjectsDir, summary.ProjectPath, summary.ID)
	if err != nil {
		return models.SessionDetail{}, err
	}

	detail, warnings, err := ReadSessionFile(path, summary)
	if err != nil {
		return models.SessionDetail{}, err
	}
	for _, w := range warnings {
		s.log.Warn("skipping session record", "session", summary.ID, "err", w)
	}
	if err := ctx.Err(); err != nil {
		return models.SessionDetail{}, err
	}

	s.log.Debug("session loaded", "session", summary.ID, "messages", len(detail.Messages), "path", path)
	return detail, nil
}

// FindSession looks a session up by id or id prefix
func (s *Store) FindSession(ctx context.Context, id string) (models.SessionSummary, error) {
	index, err := s.ListProjects(ctx)
	if err != nil {
		return models.SessionSummary{}, err
	}

	var found []models.SessionSummary
	for _, g := range index.Groups {
		for _, sess := range g.Sessions {
			if sess.ID == id {
				return sess, nil
			}
			if len(id) >= 4 && len(sess.ID) > len(id) && sess.ID[:len(id)] == id {
				found = append(found, sess)
			}
		}
	}
	switch len(found) {
	case 0:
		return models.SessionSummary{}, &errs.NotFoundError{SessionID: id}
	case 1:
		return found[0], nil
	default:
		return models.SessionSummary{}, fmt.Errorf("session prefix %q is ambiguous (%d matches)", id, len(found))
	}
}
