// Package app is the state machine of the session browser: a Model value
// and a pure Update function mapping (Model, Msg) to (Model, Command).
package app

import (
	"strings"
	"time"

	"github.com/strrl/claude-browse/internal/export"
	"github.com/strrl/claude-browse/internal/search"
	"github.com/strrl/claude-browse/internal/tree"
	"github.com/strrl/claude-browse/pkg/models"
)

const pageSize = 10

// StatusLevel grades a status line
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusWarn
	StatusError
)

// Status is the transient message shown in the footer
type Status struct {
	Text  string
	Level StatusLevel
}

// ExportDialog holds the export dialog fields
type ExportDialog struct {
	Target models.SessionSummary
	Format export.Format
	Busy   bool
	Result string // Path written by the last export
}

// Model is the whole application state. It is a value; Update returns a
// new one and never mutates slices or maps reachable from its argument.
type Model struct {
	Tree     tree.Tree
	Filter   search.FilterCriteria
	Query    string
	Mode     ViewMode
	Selected int // Index into Tree.VisibleRows()

	// Detail view
	DetailSession models.SessionSummary
	Detail        *models.SessionDetail // nil until loaded; treated as immutable
	Pending       string                // Session id of the in-flight detail load
	Generation    uint64
	Scroll        int // Index of the focused message

	FilterFocus FilterField
	Export      ExportDialog
	Status      Status
	Loading     bool
	Corpus      search.Corpus

	helpReturn     ViewMode
	narrowed       bool
	savedExpansion map[string]bool
	clock          func() time.Time
}

// New returns the initial model. It starts in the loading state; the caller
// issues LoadHistoryCmd to fill it.
func New(clock func() time.Time) Model {
	if clock == nil {
		clock = time.Now
	}
	return Model{
		Tree:    tree.Build(nil),
		Loading: true,
		clock:   clock,
	}
}

// Init returns the command that performs the initial history load
func (m Model) Init() Command {
	return LoadHistoryCmd{}
}

// Now returns the model's wall clock time
func (m Model) Now() time.Time {
	if m.clock == nil {
		return time.Now()
	}
	return m.clock()
}

// Narrowed reports whether a filter or search query is active
func (m Model) Narrowed() bool {
	return !m.Filter.IsZero() || strings.TrimSpace(m.Query) != ""
}

// SelectedNode returns the node under the cursor
func (m Model) SelectedNode() (tree.Node, bool) {
	return m.Tree.At(m.Selected)
}

// SelectedSession returns the session under the cursor, if the cursor is on
// a session row
func (m Model) SelectedSession() (models.SessionSummary, bool) {
	n, ok := m.Tree.At(m.Selected)
	if !ok || n.IsProject() {
		return models.SessionSummary{}, false
	}
	return n.Session, true
}

// FocusedMessage returns the detail message under the cursor
func (m Model) FocusedMessage() (models.ChatMessage, bool) {
	if m.Detail == nil || m.Scroll < 0 || m.Scroll >= len(m.Detail.Messages) {
		return models.ChatMessage{}, false
	}
	return m.Detail.Messages[m.Scroll], true
}

// SearchResults ranks the sessions matching the active query within the
// active filter
func (m Model) SearchResults() []models.SessionSummary {
	if strings.TrimSpace(m.Query) == "" {
		return nil
	}
	now := m.Now()
	var candidates []models.SessionSummary
	for _, s := range m.Tree.Sessions() {
		if search.Matches(s, m.Filter, now) {
			candidates = append(candidates, s)
		}
	}
	return search.Search(m.Query, candidates, m.Corpus)
}

// applyNarrowing re-evaluates the filter and query against the tree. When
// expand is set, projects with matches are expanded; the expansion from
// before narrowing is restored once nothing is active.
func (m Model) applyNarrowing(expand bool) Model {
	prev := m.Tree.NodeAt(m.Selected)
	active := m.Narrowed()

	if active && !m.narrowed {
		m.savedExpansion = m.Tree.ExpandedPaths()
		m.narrowed = true
	}

	m.Tree = m.Tree.WithMatch(search.Predicate(m.Filter, m.Query, m.Corpus, m.Now()))
	switch {
	case active && expand:
		m.Tree = m.Tree.ExpandMatching()
	case !active && m.narrowed:
		m.Tree = m.Tree.RestoreExpanded(m.savedExpansion)
		m.narrowed = false
		m.savedExpansion = nil
	}

	m.Selected = m.reselect(prev)
	return m
}

// reselect keeps the cursor on node prev when it is still visible, on its
// project when it is hidden, and clamps otherwise.
func (m Model) reselect(prev int) int {
	if prev >= 0 && prev < m.Tree.NodeCount() {
		if r := m.Tree.RowOf(prev); r >= 0 {
			return r
		}
		if n := m.Tree.Node(prev); !n.IsProject() {
			if r := m.Tree.RowOf(n.Parent); r >= 0 {
				return r
			}
		}
	}
	return m.clamp(m.Selected)
}

func (m Model) clamp(row int) int {
	n := m.Tree.Len()
	if n == 0 || row < 0 {
		return 0
	}
	if row >= n {
		return n - 1
	}
	return row
}

// rowForKey finds the visible row of a session id or project path
func (m Model) rowForKey(sessionID, projectPath string) int {
	for r, row := range m.Tree.VisibleRows() {
		n := m.Tree.Node(row.Node)
		if sessionID != "" && !n.IsProject() && n.Session.ID == sessionID {
			return r
		}
		if sessionID == "" && n.IsProject() && n.Path == projectPath {
			return r
		}
	}
	return -1
}
