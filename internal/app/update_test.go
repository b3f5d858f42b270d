package app

import (
	"errors"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/strrl/claude-browse/internal/errs"
	"github.com/strrl/claude-browse/internal/export"
	"github.com/strrl/claude-browse/internal/search"
	"github.com/strrl/claude-browse/internal/tree"
	"github.com/strrl/claude-browse/pkg/models"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func summary(id, project, preview string, ago time.Duration) models.SessionSummary {
	return models.SessionSummary{
		ID:          id,
		ProjectPath: "/work/" + project,
		ProjectName: project,
		StartedAt:   testNow.Add(-ago - time.Minute),
		LastActive:  testNow.Add(-ago),
		Preview:     preview,
	}
}

func testGroups() []models.ProjectGroup {
	return []models.ProjectGroup{
		{
			Path: "/work/proj-a",
			Name: "proj-a",
			Sessions: []models.SessionSummary{
				summary("a1", "proj-a", "refactor the parser", time.Hour),
				summary("a2", "proj-a", "add tests", 2*time.Hour),
			},
		},
		{
			Path: "/work/proj-b",
			Name: "proj-b",
			Sessions: []models.SessionSummary{
				summary("b1", "proj-b", "fix login", 3*time.Hour),
			},
		},
	}
}

func testDetail(s models.SessionSummary, texts ...string) models.SessionDetail {
	d := models.SessionDetail{Summary: s}
	for i, text := range texts {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		d.Messages = append(d.Messages, models.ChatMessage{
			Role:      role,
			Text:      text,
			Timestamp: s.StartedAt.Add(time.Duration(i) * time.Second),
		})
	}
	return d
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	m := New(fixedClock)
	m, cmd := Update(m, HistoryLoadedMsg{Groups: testGroups()})
	if cmd != nil {
		t.Fatalf("Expected no command after history load, got %T", cmd)
	}
	return m
}

func press(m Model, actions ...Action) (Model, Command) {
	var cmd Command
	for _, a := range actions {
		m, cmd = Update(m, ActionMsg{Action: a})
	}
	return m, cmd
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = Update(m, InputMsg{Text: string(r)})
	}
	return m
}

func sessionRows(m Model) []string {
	var ids []string
	for _, row := range m.Tree.VisibleRows() {
		if n := m.Tree.Node(row.Node); !n.IsProject() {
			ids = append(ids, n.Session.ID)
		}
	}
	return ids
}

func TestInitAndHistoryLoad(t *testing.T) {
	m := New(fixedClock)
	if !m.Loading {
		t.Errorf("Expected a fresh model to be loading")
	}
	if _, ok := m.Init().(LoadHistoryCmd); !ok {
		t.Errorf("Expected Init to request the history load")
	}

	m, _ = Update(m, HistoryLoadedMsg{Groups: testGroups(), Skipped: 2})
	if m.Loading {
		t.Errorf("Expected loading to finish")
	}
	if m.Tree.Len() != 2 {
		t.Errorf("Expected 2 project rows, got %d", m.Tree.Len())
	}
	if m.Mode != ModeSessionList {
		t.Errorf("Expected SessionList, got %v", m.Mode)
	}
	if m.Status.Level != StatusWarn || !strings.Contains(m.Status.Text, "2") {
		t.Errorf("Expected a single skipped-records warning, got %+v", m.Status)
	}
}

func TestHistoryLoadError(t *testing.T) {
	m := New(fixedClock)
	m, _ = Update(m, HistoryLoadedMsg{Err: &errs.IOError{Op: "open", Path: "/x/history.jsonl", Err: errors.New("boom")}})

	if m.Loading {
		t.Errorf("Expected loading to finish on error")
	}
	if m.Status.Level != StatusError {
		t.Errorf("Expected an error status, got %+v", m.Status)
	}
	if m.Mode != ModeSessionList {
		t.Errorf("Errors must not change the mode, got %v", m.Mode)
	}
}

func TestEnterExpandsProject(t *testing.T) {
	m := loadedModel(t)

	m, cmd := press(m, ActionEnter)
	if cmd != nil {
		t.Errorf("Expanding a project should not issue a command, got %T", cmd)
	}
	if m.Tree.Len() != 4 {
		t.Fatalf("Expected 4 rows after expanding proj-a, got %d", m.Tree.Len())
	}
	wantDepth := []int{0, 1, 1, 0}
	for i, row := range m.Tree.VisibleRows() {
		if row.Depth != wantDepth[i] {
			t.Errorf("Row %d: expected depth %d, got %d", i, wantDepth[i], row.Depth)
		}
	}

	m, _ = press(m, ActionEnter)
	if m.Tree.Len() != 2 {
		t.Errorf("Expected Enter to collapse proj-a again, got %d rows", m.Tree.Len())
	}
}

func TestExpandCollapseOnlyAffectProjects(t *testing.T) {
	m := loadedModel(t)
	m, _ = press(m, ActionExpand, ActionMoveDown)

	before := m.Tree.Len()
	m, cmd := press(m, ActionCollapse)
	if cmd != nil || m.Tree.Len() != before {
		t.Errorf("Collapse on a session row should be a no-op")
	}

	m, _ = press(m, ActionMoveUp, ActionCollapse)
	if m.Tree.Len() != 2 {
		t.Errorf("Expected proj-a collapsed, got %d rows", m.Tree.Len())
	}
}

func TestExpandAllCollapseAll(t *testing.T) {
	m := loadedModel(t)
	initial := m.Tree.VisibleRows()

	m, _ = press(m, ActionExpandAll)
	if m.Tree.Len() != 5 {
		t.Errorf("Expected 5 rows with everything expanded, got %d", m.Tree.Len())
	}

	m, _ = press(m, ActionBottom, ActionCollapseAll)
	if !reflect.DeepEqual(m.Tree.VisibleRows(), initial) {
		t.Errorf("Collapse all should restore the initial rows")
	}
	if n, _ := m.SelectedNode(); n.Name != "proj-b" {
		t.Errorf("Expected the cursor to fall back to the session's project, got %q", n.Name)
	}
}

func TestNavigationIsClamped(t *testing.T) {
	m := loadedModel(t)

	tests := []struct {
		name    string
		actions []Action
		want    int
	}{
		{"up at top", []Action{ActionMoveUp}, 0},
		{"down once", []Action{ActionMoveDown}, 1},
		{"down past end", []Action{ActionMoveDown, ActionMoveDown, ActionMoveDown}, 1},
		{"page down", []Action{ActionPageDown}, 1},
		{"bottom then top", []Action{ActionBottom, ActionTop}, 0},
		{"page up", []Action{ActionBottom, ActionPageUp}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := press(m, tt.actions...)
			if got.Selected != tt.want {
				t.Errorf("Expected selection %d, got %d", tt.want, got.Selected)
			}
		})
	}
}

func TestSelectionStaysInRange(t *testing.T) {
	actions := []Action{
		ActionMoveUp, ActionMoveDown, ActionPageUp, ActionPageDown, ActionTop,
		ActionBottom, ActionToggle, ActionExpand, ActionCollapse, ActionExpandAll,
		ActionCollapseAll, ActionBack,
	}
	rng := rand.New(rand.NewSource(7))
	m := loadedModel(t)

	for i := 0; i < 500; i++ {
		m, _ = press(m, actions[rng.Intn(len(actions))])
		if m.Mode != ModeSessionList {
			t.Fatalf("Step %d: left the session list unexpectedly (%v)", i, m.Mode)
		}
		if m.Selected < 0 || m.Selected >= m.Tree.Len() {
			t.Fatalf("Step %d: selection %d outside [0, %d)", i, m.Selected, m.Tree.Len())
		}
	}
}

func TestSearchNarrowsToMatchingSession(t *testing.T) {
	m := loadedModel(t)

	m, _ = press(m, ActionStartSearch)
	if m.Mode != ModeSearch {
		t.Fatalf("Expected Search mode, got %v", m.Mode)
	}
	m = typeText(m, "refactor")

	if got := sessionRows(m); !reflect.DeepEqual(got, []string{"a1"}) {
		t.Errorf("Expected only a1 visible, got %v", got)
	}
	if m.Tree.Len() != 3 {
		t.Errorf("Expected both projects plus one session, got %d rows", m.Tree.Len())
	}

	m, _ = press(m, ActionEnter)
	if m.Mode != ModeSessionList {
		t.Errorf("Expected Enter to return to the list, got %v", m.Mode)
	}
	if s, ok := m.SelectedSession(); !ok || s.ID != "a1" {
		t.Errorf("Expected the cursor on the best match, got %+v", s)
	}
	if m.Query != "refactor" {
		t.Errorf("Expected the query to stay active, got %q", m.Query)
	}

	m, _ = press(m, ActionBack)
	if m.Query != "" || m.Tree.Len() != 2 {
		t.Errorf("Expected Esc in the list to clear the search, got query %q and %d rows", m.Query, m.Tree.Len())
	}
}

func TestSearchEscClearsQuery(t *testing.T) {
	m := loadedModel(t)
	m, _ = press(m, ActionEnter)
	before := m.Tree.VisibleRows()

	m, _ = press(m, ActionStartSearch)
	m = typeText(m, "nothing-matches")
	if len(sessionRows(m)) != 0 {
		t.Errorf("Expected no session rows for a non-matching query")
	}
	if m.Tree.Len() != 2 {
		t.Errorf("Project rows must remain visible, got %d rows", m.Tree.Len())
	}

	m, _ = press(m, ActionBack)
	if m.Mode != ModeSessionList || m.Query != "" {
		t.Errorf("Expected Esc to clear the query and return to the list")
	}
	if !reflect.DeepEqual(m.Tree.VisibleRows(), before) {
		t.Errorf("Expected the rows from before the search to be restored")
	}
}

func TestSearchBackspace(t *testing.T) {
	m := loadedModel(t)
	m, _ = press(m, ActionStartSearch)
	m = typeText(m, "fixé")

	m, _ = press(m, ActionBackspace)
	if m.Query != "fix" {
		t.Errorf("Expected the last rune removed, got %q", m.Query)
	}
	if got := sessionRows(m); !reflect.DeepEqual(got, []string{"b1"}) {
		t.Errorf("Expected b1 to match %q, got %v", m.Query, got)
	}
}

func TestFilterEscRestoresRows(t *testing.T) {
	m := loadedModel(t)
	m, _ = press(m, ActionEnter)
	before := m.Tree.VisibleRows()

	m, _ = press(m, ActionStartFilter)
	if m.Mode != ModeFilter || m.FilterFocus != FieldDateRange {
		t.Fatalf("Expected Filter mode with the date field focused")
	}
	m, _ = press(m, ActionNextField)
	if !m.TextEntry() {
		t.Fatalf("Expected the project field to take text")
	}
	m = typeText(m, "katha")

	if m.Filter.Project != "katha" {
		t.Errorf("Expected project filter %q, got %q", "katha", m.Filter.Project)
	}
	if len(sessionRows(m)) != 0 || m.Tree.Len() != 2 {
		t.Errorf("Expected only project rows under the katha filter, got %d rows", m.Tree.Len())
	}

	m, _ = press(m, ActionBack)
	if m.Mode != ModeSessionList {
		t.Errorf("Expected SessionList after Esc, got %v", m.Mode)
	}
	if !m.Filter.IsZero() {
		t.Errorf("Expected the filter cleared, got %+v", m.Filter)
	}
	if !reflect.DeepEqual(m.Tree.VisibleRows(), before) {
		t.Errorf("Expected the full row set restored")
	}
}

func TestFilterDatePresets(t *testing.T) {
	m := loadedModel(t)
	m, _ = press(m, ActionStartFilter, ActionPresetNext)

	if m.Filter.Date != search.PresetToday {
		t.Fatalf("Expected Today, got %v", m.Filter.Date)
	}
	if got := sessionRows(m); len(got) != 3 {
		t.Errorf("Expected every session from today visible, got %v", got)
	}

	m, _ = press(m, ActionPresetPrev, ActionPresetPrev)
	if m.Filter.Date != search.PresetLast30Days {
		t.Errorf("Expected presets to cycle backwards, got %v", m.Filter.Date)
	}

	m, _ = press(m, ActionClearFilter)
	if !m.Filter.IsZero() || m.Tree.Len() != 2 {
		t.Errorf("Expected clear to drop the filter and restore the rows")
	}

	m, _ = press(m, ActionPresetNext, ActionEnter)
	if m.Mode != ModeSessionList || m.Filter.Date != search.PresetToday {
		t.Errorf("Expected Enter to keep the filter, got %v / %v", m.Mode, m.Filter.Date)
	}
}

func TestFilterAndSearchIntersect(t *testing.T) {
	m := loadedModel(t)
	m, _ = press(m, ActionStartFilter, ActionNextField)
	m = typeText(m, "proj-b")
	m, _ = press(m, ActionEnter, ActionStartSearch)
	m = typeText(m, "refactor")

	if got := sessionRows(m); len(got) != 0 {
		t.Errorf("Expected the intersection to be empty, got %v", got)
	}
	if len(m.SearchResults()) != 0 {
		t.Errorf("Expected no search results inside the proj-b filter")
	}
}

func TestDetailLoad(t *testing.T) {
	m := loadedModel(t)
	m, _ = press(m, ActionEnter, ActionMoveDown)

	m, cmd := press(m, ActionEnter)
	load, ok := cmd.(LoadDetailCmd)
	if !ok {
		t.Fatalf("Expected LoadDetailCmd, got %T", cmd)
	}
	if m.Mode != ModeSessionDetail || m.Pending != "a1" {
		t.Errorf("Expected a pending detail for a1, got mode %v pending %q", m.Mode, m.Pending)
	}

	a1 := load.Session
	m, _ = Update(m, DetailLoadedMsg{
		Generation: load.Generation,
		SessionID:  "a1",
		Detail:     testDetail(a1, "one", "two", "three"),
	})
	if m.Detail == nil || len(m.Detail.Messages) != 3 {
		t.Fatalf("Expected the detail to be loaded")
	}
	if m.Pending != "" {
		t.Errorf("Expected no pending load, got %q", m.Pending)
	}

	m, _ = press(m, ActionMoveDown, ActionMoveDown, ActionMoveDown)
	if m.Scroll != 2 {
		t.Errorf("Expected scroll clamped at the last message, got %d", m.Scroll)
	}

	m, _ = press(m, ActionBack)
	if m.Mode != ModeSessionList || m.Scroll != 0 || m.Detail != nil {
		t.Errorf("Expected leaving detail to drop the scroll offset and the detail")
	}
}

func TestStaleDetailIsDiscarded(t *testing.T) {
	m := loadedModel(t)
	groups := testGroups()
	x, y := groups[0].Sessions[0], groups[0].Sessions[1]

	m, cmdX := Update(m, OpenSessionMsg{Session: x})
	m, cmdY := Update(m, OpenSessionMsg{Session: y})
	loadX := cmdX.(LoadDetailCmd)
	loadY := cmdY.(LoadDetailCmd)
	if loadX.Generation == loadY.Generation {
		t.Fatalf("Expected a new generation for the superseding load")
	}

	m, _ = Update(m, DetailLoadedMsg{Generation: loadX.Generation, SessionID: x.ID, Detail: testDetail(x, "from x")})
	if m.Detail != nil {
		t.Errorf("Expected the late result for X to be discarded")
	}
	if m.Pending != y.ID {
		t.Errorf("Expected Y still pending, got %q", m.Pending)
	}

	m, _ = Update(m, DetailLoadedMsg{Generation: loadY.Generation, SessionID: y.ID, Detail: testDetail(y, "from y")})
	if m.Detail == nil || m.Detail.Summary.ID != y.ID {
		t.Fatalf("Expected Y's detail, got %+v", m.Detail)
	}

	m, _ = Update(m, DetailLoadedMsg{Generation: loadX.Generation, SessionID: x.ID, Detail: testDetail(x, "from x")})
	if m.Detail.Summary.ID != y.ID {
		t.Errorf("A result arriving after Y's must not replace it")
	}
}

func TestLeavingDetailCancelsPendingLoad(t *testing.T) {
	m := loadedModel(t)
	x := testGroups()[0].Sessions[0]

	m, cmd := Update(m, OpenSessionMsg{Session: x})
	load := cmd.(LoadDetailCmd)

	m, cmd = press(m, ActionBack)
	cancel, ok := cmd.(CancelDetailCmd)
	if !ok || cancel.Generation != load.Generation {
		t.Fatalf("Expected CancelDetailCmd for generation %d, got %#v", load.Generation, cmd)
	}

	m, _ = Update(m, DetailLoadedMsg{Generation: load.Generation, SessionID: x.ID, Detail: testDetail(x, "late")})
	if m.Detail != nil || m.Mode != ModeSessionList {
		t.Errorf("A result for an abandoned load must be ignored")
	}
}

func TestDetailErrorKeepsMode(t *testing.T) {
	m := loadedModel(t)
	x := testGroups()[1].Sessions[0]

	m, cmd := Update(m, OpenSessionMsg{Session: x})
	load := cmd.(LoadDetailCmd)
	m, _ = Update(m, DetailLoadedMsg{
		Generation: load.Generation,
		SessionID:  x.ID,
		Err:        &errs.NotFoundError{SessionID: x.ID},
	})

	if m.Mode != ModeSessionDetail {
		t.Errorf("Errors must not change the mode, got %v", m.Mode)
	}
	if m.Status.Level != StatusError || !strings.Contains(m.Status.Text, "no longer exists") {
		t.Errorf("Expected a not-found status, got %+v", m.Status)
	}
	if m.Pending != "" {
		t.Errorf("Expected the failed load to clear the pending state")
	}
}

func TestLoadedBodiesBecomeSearchable(t *testing.T) {
	m := loadedModel(t)
	x := testGroups()[0].Sessions[1]

	m, cmd := Update(m, OpenSessionMsg{Session: x})
	load := cmd.(LoadDetailCmd)
	m, _ = Update(m, DetailLoadedMsg{Generation: load.Generation, SessionID: x.ID, Detail: testDetail(x, "rewrite the Tokenizer")})
	m, _ = press(m, ActionBack, ActionStartSearch)
	m = typeText(m, "tokenizer")

	if got := sessionRows(m); !reflect.DeepEqual(got, []string{"a2"}) {
		t.Errorf("Expected the loaded message body to match, got %v", got)
	}
}

func TestCopy(t *testing.T) {
	m := loadedModel(t)
	x := testGroups()[0].Sessions[0]
	m, cmd := Update(m, OpenSessionMsg{Session: x})
	load := cmd.(LoadDetailCmd)
	m, _ = Update(m, DetailLoadedMsg{Generation: load.Generation, SessionID: x.ID, Detail: testDetail(x, "hello")})

	_, cmd = press(m, ActionCopy)
	if c, ok := cmd.(CopyCmd); !ok || c.Text != "hello" {
		t.Errorf("Expected the message text copied, got %#v", cmd)
	}

	_, cmd = press(m, ActionCopyWithMeta)
	c, ok := cmd.(CopyCmd)
	if !ok || !strings.HasPrefix(c.Text, "user 2025-06-15 10:59:00\n") {
		t.Errorf("Expected role and timestamp header, got %#v", cmd)
	}

	m, _ = Update(m, CopyDoneMsg{What: "message", Err: &errs.ClipboardError{Err: errs.ErrClipboardUnavailable}})
	if m.Mode != ModeSessionDetail || m.Status.Level != StatusError {
		t.Errorf("Expected a clipboard error status in detail mode, got %v %+v", m.Mode, m.Status)
	}

	m, _ = Update(m, CopyDoneMsg{What: "message"})
	if m.Status.Text != "Copied message" {
		t.Errorf("Expected a copy confirmation, got %q", m.Status.Text)
	}
}

func TestCopySessionIDFromList(t *testing.T) {
	m := loadedModel(t)
	if _, cmd := press(m, ActionCopy); cmd != nil {
		t.Errorf("Copy on a project row should be a no-op, got %#v", cmd)
	}

	m, _ = press(m, ActionEnter, ActionMoveDown)
	_, cmd := press(m, ActionCopy)
	if c, ok := cmd.(CopyCmd); !ok || c.Text != "a1" {
		t.Errorf("Expected the session id copied, got %#v", cmd)
	}
}

func TestExportDialog(t *testing.T) {
	m := loadedModel(t)

	m, _ = press(m, ActionStartExport)
	if m.Mode != ModeSessionList || m.Status.Level != StatusWarn {
		t.Errorf("Export on a project row should only warn, got %v %+v", m.Mode, m.Status)
	}

	m, _ = press(m, ActionEnter, ActionMoveDown, ActionStartExport)
	if m.Mode != ModeExport || m.Export.Target.ID != "a1" {
		t.Fatalf("Expected the export dialog for a1, got %v %+v", m.Mode, m.Export)
	}
	if m.Export.Format != export.FormatMarkdown {
		t.Errorf("Expected Markdown by default, got %v", m.Export.Format)
	}

	m, _ = press(m, ActionToggleFormat)
	m, cmd := press(m, ActionEnter)
	ec, ok := cmd.(ExportCmd)
	if !ok || ec.Format != export.FormatJSON || ec.Session.ID != "a1" {
		t.Fatalf("Expected a JSON ExportCmd for a1, got %#v", cmd)
	}
	if !m.Export.Busy {
		t.Errorf("Expected the dialog to be busy while writing")
	}
	if _, cmd := press(m, ActionEnter); cmd != nil {
		t.Errorf("A second confirm while busy should be ignored")
	}

	m, _ = Update(m, ExportDoneMsg{Err: &errs.ExportError{Format: "json", Path: "/ro/x.json", Err: errors.New("read-only file system")}})
	if m.Mode != ModeExport || m.Export.Busy || m.Status.Level != StatusError {
		t.Errorf("Expected the export error surfaced in the dialog, got %v %+v", m.Mode, m.Status)
	}

	m, _ = Update(m, ExportDoneMsg{Path: "/tmp/x.json"})
	if m.Export.Result != "/tmp/x.json" {
		t.Errorf("Expected the written path recorded, got %q", m.Export.Result)
	}

	m, _ = press(m, ActionBack, ActionStartExport)
	if m.Export.Format != export.FormatMarkdown || m.Export.Result != "" {
		t.Errorf("Entering Export must reset the dialog, got %+v", m.Export)
	}
}

func TestExportFromDetailReusesLoadedDetail(t *testing.T) {
	m := loadedModel(t)
	x := testGroups()[0].Sessions[0]
	m, cmd := Update(m, OpenSessionMsg{Session: x})
	load := cmd.(LoadDetailCmd)
	m, _ = Update(m, DetailLoadedMsg{Generation: load.Generation, SessionID: x.ID, Detail: testDetail(x, "hi")})

	m, _ = press(m, ActionStartExport)
	_, cmd = press(m, ActionEnter)
	ec, ok := cmd.(ExportCmd)
	if !ok || ec.Detail == nil || ec.Detail.Summary.ID != x.ID {
		t.Errorf("Expected the loaded detail passed along, got %#v", cmd)
	}
}

func TestHelpToggle(t *testing.T) {
	m := loadedModel(t)
	x := testGroups()[0].Sessions[0]
	m, _ = Update(m, OpenSessionMsg{Session: x})

	m, _ = press(m, ActionHelp)
	if m.Mode != ModeHelp {
		t.Fatalf("Expected Help, got %v", m.Mode)
	}
	m, _ = press(m, ActionHelp)
	if m.Mode != ModeSessionDetail {
		t.Errorf("Expected ? to return to the previous mode, got %v", m.Mode)
	}

	m, _ = press(m, ActionHelp, ActionBack)
	if m.Mode != ModeSessionList {
		t.Errorf("Expected Esc in Help to go to the list, got %v", m.Mode)
	}
}

func TestEscFromEveryModeReturnsToList(t *testing.T) {
	base := loadedModel(t)
	base, _ = press(base, ActionEnter, ActionMoveDown)

	tests := []struct {
		name  string
		enter []Action
	}{
		{"detail", []Action{ActionEnter}},
		{"search", []Action{ActionStartSearch}},
		{"filter", []Action{ActionStartFilter}},
		{"help", []Action{ActionHelp}},
		{"export", []Action{ActionStartExport}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := press(base, tt.enter...)
			if m.Mode == ModeSessionList {
				t.Fatalf("Expected to leave the list")
			}
			m, _ = press(m, ActionBack)
			if m.Mode != ModeSessionList {
				t.Errorf("Expected SessionList, got %v", m.Mode)
			}
		})
	}
}

func TestUnrecognizedMessagesAreNoOps(t *testing.T) {
	m := loadedModel(t)
	m, _ = press(m, ActionHelp)
	m.Status = Status{Text: "keep me"}

	tests := []struct {
		name string
		msg  Msg
	}{
		{"move in help", ActionMsg{Action: ActionMoveDown}},
		{"copy in help", ActionMsg{Action: ActionCopy}},
		{"typing in help", InputMsg{Text: "x"}},
		{"none", ActionMsg{Action: ActionNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cmd := Update(m, tt.msg)
			if cmd != nil {
				t.Errorf("Expected no command, got %#v", cmd)
			}
			if got.Mode != m.Mode || got.Selected != m.Selected || got.Status != m.Status {
				t.Errorf("Expected the model unchanged")
			}
		})
	}
}

func TestReloadPreservesExpansionAndSelection(t *testing.T) {
	m := loadedModel(t)
	m, _ = press(m, ActionEnter, ActionMoveDown, ActionMoveDown)

	m, cmd := press(m, ActionReload)
	if _, ok := cmd.(LoadHistoryCmd); !ok || !m.Loading {
		t.Fatalf("Expected a history reload, got %#v", cmd)
	}
	if _, cmd := press(m, ActionReload); cmd != nil {
		t.Errorf("A reload while loading should be ignored")
	}

	m, _ = Update(m, HistoryLoadedMsg{Groups: testGroups()})
	if m.Tree.Len() != 4 {
		t.Errorf("Expected proj-a to stay expanded, got %d rows", m.Tree.Len())
	}
	if s, ok := m.SelectedSession(); !ok || s.ID != "a2" {
		t.Errorf("Expected the cursor to stay on a2, got %+v", s)
	}
	if !strings.HasPrefix(m.Status.Text, "Reloaded 3") {
		t.Errorf("Expected a reload status, got %q", m.Status.Text)
	}
}

func TestResumeAndQuit(t *testing.T) {
	m := loadedModel(t)
	if _, cmd := press(m, ActionQuit); cmd != (QuitCmd{}) {
		t.Errorf("Expected QuitCmd, got %#v", cmd)
	}

	m, _ = press(m, ActionEnter, ActionMoveDown)
	_, cmd := press(m, ActionResume)
	if r, ok := cmd.(ResumeCmd); !ok || r.Session.ID != "a1" {
		t.Errorf("Expected ResumeCmd for a1, got %#v", cmd)
	}
}

func TestUpdateDoesNotMutateInput(t *testing.T) {
	m := loadedModel(t)
	before := m.Tree.VisibleRows()
	snapshot := append([]tree.Row(nil), before...)

	_, _ = press(m, ActionExpandAll)
	_, _ = Update(m, ActionMsg{Action: ActionStartSearch})
	next, _ := press(m, ActionStartSearch)
	_ = typeText(next, "refactor")

	if !reflect.DeepEqual(m.Tree.VisibleRows(), snapshot) {
		t.Errorf("Update must leave its input model untouched")
	}
}
