package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/strrl/claude-browse/internal/errs"
	"github.com/strrl/claude-browse/internal/search"
	"github.com/strrl/claude-browse/internal/tree"
	"github.com/strrl/claude-browse/pkg/models"
)

// Update applies msg to m. It performs no I/O; side effects are returned as
// a Command. Messages that mean nothing in the current mode return m
// unchanged and a nil Command.
func Update(m Model, msg Msg) (Model, Command) {
	switch msg := msg.(type) {
	case ActionMsg:
		next, cmd, ok := m.handleAction(msg.Action)
		if !ok {
			return m, nil
		}
		return next, cmd
	case InputMsg:
		next, ok := m.handleInput(msg.Text)
		if !ok {
			return m, nil
		}
		return next, nil
	case OpenSessionMsg:
		if msg.Session.ID == "" {
			return m, nil
		}
		m.Status = Status{}
		return m.openDetail(msg.Session)
	case HistoryLoadedMsg:
		return m.historyLoaded(msg), nil
	case DetailLoadedMsg:
		return m.detailLoaded(msg), nil
	case ExportDoneMsg:
		return m.exportDone(msg), nil
	case CopyDoneMsg:
		return m.copyDone(msg), nil
	}
	return m, nil
}

func (m Model) handleAction(a Action) (Model, Command, bool) {
	m.Status = Status{}

	switch a {
	case ActionQuit:
		return m, QuitCmd{}, true
	case ActionHelp:
		return m.toggleHelp(), nil, true
	}

	switch m.Mode {
	case ModeSessionList:
		return m.updateList(a)
	case ModeSessionDetail:
		return m.updateDetail(a)
	case ModeSearch:
		return m.updateSearch(a)
	case ModeFilter:
		return m.updateFilter(a)
	case ModeHelp:
		if a == ActionBack {
			next, cmd := m.toList()
			return next, cmd, true
		}
	case ModeExport:
		return m.updateExport(a)
	}
	return m, nil, false
}

func (m Model) updateList(a Action) (Model, Command, bool) {
	switch a {
	case ActionMoveUp, ActionMoveDown, ActionPageUp, ActionPageDown, ActionTop, ActionBottom:
		return m.move(a), nil, true

	case ActionEnter:
		node, ok := m.SelectedNode()
		if !ok {
			return m, nil, false
		}
		if node.IsProject() {
			m.Tree = m.Tree.Toggle(m.Selected)
			return m, nil, true
		}
		next, cmd := m.openDetail(node.Session)
		return next, cmd, true

	case ActionToggle, ActionExpand, ActionCollapse:
		node, ok := m.SelectedNode()
		if !ok || !node.IsProject() {
			return m, nil, false
		}
		switch a {
		case ActionToggle:
			m.Tree = m.Tree.Toggle(m.Selected)
		case ActionExpand:
			m.Tree = m.Tree.Expand(m.Selected)
		default:
			m.Tree = m.Tree.Collapse(m.Selected)
		}
		return m, nil, true

	case ActionExpandAll:
		prev := m.Tree.NodeAt(m.Selected)
		m.Tree = m.Tree.ExpandAll()
		m.Selected = m.reselect(prev)
		return m, nil, true

	case ActionCollapseAll:
		prev := m.Tree.NodeAt(m.Selected)
		m.Tree = m.Tree.CollapseAll()
		m.Selected = m.reselect(prev)
		return m, nil, true

	case ActionStartSearch:
		return m.enter(ModeSearch), nil, true

	case ActionStartFilter:
		return m.enter(ModeFilter), nil, true

	case ActionStartExport:
		s, ok := m.SelectedSession()
		if !ok {
			m.Status = Status{Text: "Select a session to export", Level: StatusWarn}
			return m, nil, true
		}
		return m.startExport(s), nil, true

	case ActionBack:
		if !m.Narrowed() {
			return m, nil, false
		}
		m.Filter = search.FilterCriteria{}
		m.Query = ""
		return m.applyNarrowing(false), nil, true

	case ActionCopy:
		s, ok := m.SelectedSession()
		if !ok {
			return m, nil, false
		}
		return m, CopyCmd{Text: s.ID, What: "session id"}, true

	case ActionResume:
		s, ok := m.SelectedSession()
		if !ok {
			return m, nil, false
		}
		return m, ResumeCmd{Session: s}, true

	case ActionReload:
		if m.Loading {
			return m, nil, false
		}
		m.Loading = true
		return m, LoadHistoryCmd{}, true
	}
	return m, nil, false
}

func (m Model) updateDetail(a Action) (Model, Command, bool) {
	switch a {
	case ActionBack:
		next, cmd := m.toList()
		return next, cmd, true

	case ActionMoveUp, ActionMoveDown, ActionPageUp, ActionPageDown, ActionTop, ActionBottom:
		if m.Detail == nil {
			return m, nil, false
		}
		m.Scroll = step(a, m.Scroll, len(m.Detail.Messages))
		return m, nil, true

	case ActionCopy, ActionCopyWithMeta:
		msg, ok := m.FocusedMessage()
		if !ok {
			m.Status = Status{Text: "Nothing to copy", Level: StatusWarn}
			return m, nil, true
		}
		if a == ActionCopyWithMeta {
			return m, CopyCmd{Text: FormatWithMeta(msg), What: "message with metadata"}, true
		}
		return m, CopyCmd{Text: MessageText(msg), What: "message"}, true

	case ActionStartExport:
		return m.startExport(m.DetailSession), nil, true

	case ActionResume:
		return m, ResumeCmd{Session: m.DetailSession}, true
	}
	return m, nil, false
}

func (m Model) updateSearch(a Action) (Model, Command, bool) {
	switch a {
	case ActionBack:
		m.Query = ""
		m = m.applyNarrowing(false)
		next, cmd := m.toList()
		return next, cmd, true

	case ActionEnter:
		next, cmd := m.toList()
		if results := next.SearchResults(); len(results) > 0 {
			if r := next.rowForKey(results[0].ID, ""); r >= 0 {
				next.Selected = r
			}
			next.Status = Status{Text: fmt.Sprintf("%d matching sessions", len(results))}
		} else if next.Query != "" {
			next.Status = Status{Text: "No matching sessions", Level: StatusWarn}
		}
		return next, cmd, true

	case ActionBackspace:
		if m.Query == "" {
			return m, nil, false
		}
		m.Query = dropLastRune(m.Query)
		return m.applyNarrowing(true), nil, true

	case ActionMoveUp, ActionMoveDown, ActionPageUp, ActionPageDown:
		return m.move(a), nil, true
	}
	return m, nil, false
}

func (m Model) updateFilter(a Action) (Model, Command, bool) {
	switch a {
	case ActionBack:
		m.Filter = search.FilterCriteria{}
		m = m.applyNarrowing(false)
		next, cmd := m.toList()
		return next, cmd, true

	case ActionEnter:
		next, cmd := m.toList()
		return next, cmd, true

	case ActionNextField:
		m.FilterFocus = m.FilterFocus.Next()
		return m, nil, true

	case ActionClearFilter:
		m.Filter = search.FilterCriteria{}
		return m.applyNarrowing(false), nil, true

	case ActionPresetNext, ActionPresetPrev:
		if m.FilterFocus != FieldDateRange {
			return m, nil, false
		}
		if a == ActionPresetNext {
			m.Filter.Date = m.Filter.Date.Next()
		} else {
			m.Filter.Date = m.Filter.Date.Prev()
		}
		return m.applyNarrowing(true), nil, true

	case ActionBackspace:
		if m.FilterFocus != FieldProject || m.Filter.Project == "" {
			return m, nil, false
		}
		m.Filter.Project = dropLastRune(m.Filter.Project)
		return m.applyNarrowing(true), nil, true
	}
	return m, nil, false
}

func (m Model) updateExport(a Action) (Model, Command, bool) {
	switch a {
	case ActionBack:
		next, cmd := m.toList()
		return next, cmd, true

	case ActionToggleFormat, ActionMoveDown, ActionMoveUp:
		if m.Export.Busy {
			return m, nil, false
		}
		m.Export.Format = m.Export.Format.Next()
		m.Export.Result = ""
		return m, nil, true

	case ActionEnter:
		if m.Export.Busy {
			return m, nil, false
		}
		m.Export.Busy = true
		m.Export.Result = ""
		cmd := ExportCmd{Session: m.Export.Target, Format: m.Export.Format}
		if m.Detail != nil && m.Detail.Summary.ID == m.Export.Target.ID {
			cmd.Detail = m.Detail
		}
		return m, cmd, true
	}
	return m, nil, false
}

func (m Model) handleInput(text string) (Model, bool) {
	if text == "" {
		return m, false
	}
	m.Status = Status{}

	switch {
	case m.Mode == ModeSearch:
		m.Query += text
		return m.applyNarrowing(true), true
	case m.Mode == ModeFilter && m.FilterFocus == FieldProject:
		m.Filter.Project += text
		return m.applyNarrowing(true), true
	}
	return m, false
}

func (m Model) openDetail(s models.SessionSummary) (Model, Command) {
	m.Generation++
	m = m.enter(ModeSessionDetail)
	m.DetailSession = s
	m.Detail = nil
	m.Pending = s.ID
	m.Scroll = 0
	return m, LoadDetailCmd{Generation: m.Generation, Session: s}
}

func (m Model) startExport(target models.SessionSummary) Model {
	m = m.enter(ModeExport)
	m.Export.Target = target
	return m
}

func (m Model) historyLoaded(msg HistoryLoadedMsg) Model {
	reload := !m.Loading || m.Tree.NodeCount() > 0
	m.Loading = false
	if msg.Err != nil {
		m.Status = Status{Text: errs.Describe(msg.Err), Level: StatusError}
		return m
	}

	var keyID, keyPath string
	if n, ok := m.SelectedNode(); ok {
		if n.IsProject() {
			keyPath = n.Path
		} else {
			keyID = n.Session.ID
		}
	}
	expanded := m.Tree.ExpandedPaths()
	if m.narrowed {
		expanded = m.savedExpansion
		m.narrowed = false
		m.savedExpansion = nil
	}

	m.Tree = tree.Build(msg.Groups).RestoreExpanded(expanded)
	m.Selected = 0
	m = m.applyNarrowing(true)
	if r := m.rowForKey(keyID, keyPath); r >= 0 {
		m.Selected = r
	}

	sessions := len(m.Tree.Sessions())
	switch {
	case msg.Skipped > 0:
		m.Status = Status{Text: fmt.Sprintf("Skipped %d malformed history records", msg.Skipped), Level: StatusWarn}
	case reload:
		m.Status = Status{Text: fmt.Sprintf("Reloaded %d sessions", sessions)}
	}
	return m
}

func (m Model) detailLoaded(msg DetailLoadedMsg) Model {
	if msg.Generation != m.Generation || msg.SessionID != m.Pending {
		return m
	}
	m.Pending = ""
	if msg.Err != nil {
		m.Status = Status{Text: errs.Describe(msg.Err), Level: StatusError}
		return m
	}

	detail := msg.Detail
	m.Detail = &detail
	m.Scroll = 0

	bodies := make([]string, 0, len(detail.Messages))
	for _, cm := range detail.Messages {
		bodies = append(bodies, cm.Text)
	}
	m.Corpus = m.Corpus.With(msg.SessionID, bodies)
	if m.Narrowed() {
		m = m.applyNarrowing(false)
	}
	return m
}

func (m Model) exportDone(msg ExportDoneMsg) Model {
	m.Export.Busy = false
	if msg.Err != nil {
		m.Status = Status{Text: errs.Describe(msg.Err), Level: StatusError}
		return m
	}
	m.Export.Result = msg.Path
	m.Status = Status{Text: "Exported to " + msg.Path}
	return m
}

func (m Model) copyDone(msg CopyDoneMsg) Model {
	if msg.Err != nil {
		m.Status = Status{Text: errs.Describe(msg.Err), Level: StatusError}
		return m
	}
	m.Status = Status{Text: "Copied " + msg.What}
	return m
}

func (m Model) move(a Action) Model {
	m.Selected = step(a, m.Selected, m.Tree.Len())
	return m
}

// step moves a cursor within [0, n-1] without wrapping
func step(a Action, cur, n int) int {
	if n == 0 {
		return 0
	}
	switch a {
	case ActionMoveUp:
		cur--
	case ActionMoveDown:
		cur++
	case ActionPageUp:
		cur -= pageSize
	case ActionPageDown:
		cur += pageSize
	case ActionTop:
		cur = 0
	case ActionBottom:
		cur = n - 1
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

// MessageText renders a message for the clipboard
func MessageText(msg models.ChatMessage) string {
	parts := make([]string, 0, 1+len(msg.Tools))
	if msg.Text != "" {
		parts = append(parts, msg.Text)
	}
	for _, tool := range msg.Tools {
		parts = append(parts, "[tool] "+tool)
	}
	return strings.Join(parts, "\n")
}

// FormatWithMeta prefixes a message with its role and timestamp
func FormatWithMeta(msg models.ChatMessage) string {
	header := msg.Role
	if !msg.Timestamp.IsZero() {
		header += " " + msg.Timestamp.Format("2006-01-02 15:04:05")
	}
	return header + "\n" + MessageText(msg)
}

func dropLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
