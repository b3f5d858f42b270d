// Package search evaluates structured filters and free-text queries against
// session summaries.
package search

import (
	"sort"
	"strings"
	"time"

	"github.com/strrl/claude-browse/pkg/models"
)

// Corpus holds the lower-cased message bodies of sessions loaded for detail.
// It is immutable; With returns an extended copy.
type Corpus struct {
	bodies map[string][]string
}

// With returns a corpus that also indexes the given session bodies
func (c Corpus) With(sessionID string, bodies []string) Corpus {
	next := make(map[string][]string, len(c.bodies)+1)
	for id, b := range c.bodies {
		next[id] = b
	}
	lowered := make([]string, 0, len(bodies))
	for _, b := range bodies {
		if b != "" {
			lowered = append(lowered, strings.ToLower(b))
		}
	}
	next[sessionID] = lowered
	return Corpus{bodies: next}
}

// MatchSession reports whether any searchable field of s contains query.
// projectHit is true when the project name itself matched.
func MatchSession(query string, s models.SessionSummary, corpus Corpus) (matched, projectHit bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true, false
	}
	if strings.Contains(strings.ToLower(s.ProjectName), q) {
		return true, true
	}
	if strings.Contains(strings.ToLower(s.Preview), q) {
		return true, false
	}
	for _, body := range corpus.bodies[s.ID] {
		if strings.Contains(body, q) {
			return true, false
		}
	}
	return false, false
}

// Search returns the sessions matching query, project-name hits first and
// most recently active first within each group. An empty query returns the
// input unchanged.
func Search(query string, sessions []models.SessionSummary, corpus Corpus) []models.SessionSummary {
	if strings.TrimSpace(query) == "" {
		return sessions
	}

	type hit struct {
		session models.SessionSummary
		project bool
	}
	var hits []hit
	for _, s := range sessions {
		if ok, project := MatchSession(query, s, corpus); ok {
			hits = append(hits, hit{session: s, project: project})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].project != hits[j].project {
			return hits[i].project
		}
		return hits[i].session.LastActive.After(hits[j].session.LastActive)
	})

	results := make([]models.SessionSummary, len(hits))
	for i, h := range hits {
		results[i] = h.session
	}
	return results
}

// Predicate combines filter and query by intersection. It returns nil when
// neither is active so callers can skip evaluation entirely.
func Predicate(criteria FilterCriteria, query string, corpus Corpus, now time.Time) func(models.SessionSummary) bool {
	filterActive := !criteria.IsZero()
	searchActive := strings.TrimSpace(query) != ""
	if !filterActive && !searchActive {
		return nil
	}
	return func(s models.SessionSummary) bool {
		if filterActive && !Matches(s, criteria, now) {
			return false
		}
		if searchActive {
			ok, _ := MatchSession(query, s, corpus)
			return ok
		}
		return true
	}
}
