// Package tree holds the collapsible project/session index shown in the
// session list. Nodes live in a flat arena addressed by index; the visible
// rows are re-derived from expansion flags and the active match predicate.
package tree

import "github.com/strrl/claude-browse/pkg/models"

// Kind distinguishes project nodes from session nodes
type Kind int

const (
	KindProject Kind = iota
	KindSession
)

// Node is one entry of the arena. Sessions directly follow their project.
type Node struct {
	Kind    Kind
	Parent  int // index of the project node, -1 for projects
	Name    string
	Path    string
	Session models.SessionSummary // set for KindSession

	first int
	count int
}

// IsProject reports whether the node is a project node
func (n Node) IsProject() bool { return n.Kind == KindProject }

// SessionCount returns the number of sessions under a project node
func (n Node) SessionCount() int { return n.count }

// Row is one visible entry referencing a node by index
type Row struct {
	Node  int
	Depth int
}

// Match decides whether a session passes the active filter and search
type Match func(models.SessionSummary) bool

// Tree is a value: mutators return a new Tree and leave the receiver intact.
type Tree struct {
	nodes    []Node
	projects []int
	expanded []bool
	match    Match
	rows     []Row
}

// Build creates a tree with one collapsed project node per group
func Build(groups []models.ProjectGroup) Tree {
	size := len(groups)
	for _, g := range groups {
		size += len(g.Sessions)
	}

	t := Tree{
		nodes:    make([]Node, 0, size),
		projects: make([]int, 0, len(groups)),
		expanded: make([]bool, size),
	}
	for _, g := range groups {
		p := len(t.nodes)
		t.projects = append(t.projects, p)
		t.nodes = append(t.nodes, Node{
			Kind:   KindProject,
			Parent: -1,
			Name:   g.Name,
			Path:   g.Path,
			first:  p + 1,
			count:  len(g.Sessions),
		})
		for _, s := range g.Sessions {
			t.nodes = append(t.nodes, Node{
				Kind:    KindSession,
				Parent:  p,
				Name:    s.ProjectName,
				Path:    s.ProjectPath,
				Session: s,
			})
		}
	}
	return t.derive()
}

// VisibleRows returns the flattened rows. The slice must not be modified.
func (t Tree) VisibleRows() []Row { return t.rows }

// Len returns the number of visible rows
func (t Tree) Len() int { return len(t.rows) }

// NodeCount returns the arena size
func (t Tree) NodeCount() int { return len(t.nodes) }

// Node returns the node at arena index i
func (t Tree) Node(i int) Node { return t.nodes[i] }

// At returns the node shown at a visible row
func (t Tree) At(row int) (Node, bool) {
	if row < 0 || row >= len(t.rows) {
		return Node{}, false
	}
	return t.nodes[t.rows[row].Node], true
}

// NodeAt returns the arena index shown at a visible row, or -1
func (t Tree) NodeAt(row int) int {
	if row < 0 || row >= len(t.rows) {
		return -1
	}
	return t.rows[row].Node
}

// RowOf returns the visible row showing node i, or -1 when hidden
func (t Tree) RowOf(i int) int {
	for r, row := range t.rows {
		if row.Node == i {
			return r
		}
	}
	return -1
}

// IsExpanded reports the expansion flag of a project node
func (t Tree) IsExpanded(i int) bool {
	return i >= 0 && i < len(t.expanded) && t.expanded[i]
}

// Sessions returns every session in arena order
func (t Tree) Sessions() []models.SessionSummary {
	out := make([]models.SessionSummary, 0, len(t.nodes)-len(t.projects))
	for _, n := range t.nodes {
		if n.Kind == KindSession {
			out = append(out, n.Session)
		}
	}
	return out
}

// MatchCount returns how many sessions of project node p pass the predicate
func (t Tree) MatchCount(p int) int {
	n := t.nodes[p]
	if n.Kind != KindProject {
		return 0
	}
	if t.match == nil {
		return n.count
	}
	count := 0
	for c := n.first; c < n.first+n.count; c++ {
		if t.match(t.nodes[c].Session) {
			count++
		}
	}
	return count
}

// Toggle flips the expansion of the project at row; no-op for session rows
func (t Tree) Toggle(row int) Tree {
	p, ok := t.projectAt(row)
	if !ok {
		return t
	}
	return t.setExpanded(func(flags []bool) { flags[p] = !flags[p] })
}

// Expand expands the project at row; no-op for session rows
func (t Tree) Expand(row int) Tree {
	p, ok := t.projectAt(row)
	if !ok || t.expanded[p] {
		return t
	}
	return t.setExpanded(func(flags []bool) { flags[p] = true })
}

// Collapse collapses the project at row; no-op for session rows
func (t Tree) Collapse(row int) Tree {
	p, ok := t.projectAt(row)
	if !ok || !t.expanded[p] {
		return t
	}
	return t.setExpanded(func(flags []bool) { flags[p] = false })
}

// ExpandAll expands every project
func (t Tree) ExpandAll() Tree {
	return t.setExpanded(func(flags []bool) {
		for _, p := range t.projects {
			flags[p] = true
		}
	})
}

// CollapseAll collapses every project
func (t Tree) CollapseAll() Tree {
	return t.setExpanded(func(flags []bool) {
		for _, p := range t.projects {
			flags[p] = false
		}
	})
}

// ExpandMatching expands exactly the projects that have a matching session
func (t Tree) ExpandMatching() Tree {
	return t.setExpanded(func(flags []bool) {
		for _, p := range t.projects {
			flags[p] = t.MatchCount(p) > 0
		}
	})
}

// WithMatch installs the session predicate; nil shows every session
func (t Tree) WithMatch(m Match) Tree {
	t.match = m
	return t.derive()
}

// ExpandedPaths snapshots the expansion state keyed by project path
func (t Tree) ExpandedPaths() map[string]bool {
	paths := make(map[string]bool)
	for _, p := range t.projects {
		if t.expanded[p] {
			paths[t.nodes[p].Path] = true
		}
	}
	return paths
}

// RestoreExpanded expands exactly the projects whose path is in paths
func (t Tree) RestoreExpanded(paths map[string]bool) Tree {
	return t.setExpanded(func(flags []bool) {
		for _, p := range t.projects {
			flags[p] = paths[t.nodes[p].Path]
		}
	})
}

func (t Tree) projectAt(row int) (int, bool) {
	i := t.NodeAt(row)
	if i < 0 || t.nodes[i].Kind != KindProject {
		return 0, false
	}
	return i, true
}

func (t Tree) setExpanded(fn func(flags []bool)) Tree {
	flags := make([]bool, len(t.expanded))
	copy(flags, t.expanded)
	fn(flags)
	t.expanded = flags
	return t.derive()
}

func (t Tree) derive() Tree {
	rows := make([]Row, 0, len(t.projects))
	for _, p := range t.projects {
		rows = append(rows, Row{Node: p, Depth: 0})
		if !t.expanded[p] {
			continue
		}
		n := t.nodes[p]
		for c := n.first; c < n.first+n.count; c++ {
			if t.match == nil || t.match(t.nodes[c].Session) {
				rows = append(rows, Row{Node: c, Depth: 1})
			}
		}
	}
	t.rows = rows
	return t
}
