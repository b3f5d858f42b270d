package app

import (
	"github.com/strrl/claude-browse/internal/export"
	"github.com/strrl/claude-browse/pkg/models"
)

// Msg is an input to Update. The set of messages is closed.
type Msg interface{ isMsg() }

// Action is a keyboard intent, already resolved for the current mode
type Action int

const (
	ActionNone Action = iota
	ActionMoveUp
	ActionMoveDown
	ActionPageUp
	ActionPageDown
	ActionTop
	ActionBottom
	ActionEnter
	ActionBack
	ActionToggle
	ActionExpand
	ActionCollapse
	ActionExpandAll
	ActionCollapseAll
	ActionStartSearch
	ActionStartFilter
	ActionStartExport
	ActionHelp
	ActionQuit
	ActionNextField
	ActionClearFilter
	ActionPresetNext
	ActionPresetPrev
	ActionBackspace
	ActionToggleFormat
	ActionCopy
	ActionCopyWithMeta
	ActionResume
	ActionReload
)

// ActionMsg carries a keyboard intent
type ActionMsg struct {
	Action Action
}

// InputMsg carries typed text for the search box or the project filter
type InputMsg struct {
	Text string
}

// OpenSessionMsg requests the detail view of a session directly, superseding
// any pending detail load
type OpenSessionMsg struct {
	Session models.SessionSummary
}

// HistoryLoadedMsg is sent when the history index has been read
type HistoryLoadedMsg struct {
	Groups  []models.ProjectGroup
	Skipped int
	Err     error
}

// DetailLoadedMsg is sent when a session detail load finishes
type DetailLoadedMsg struct {
	Generation uint64
	SessionID  string
	Detail     models.SessionDetail
	Err        error
}

// ExportDoneMsg is sent when an export file has been written
type ExportDoneMsg struct {
	Path string
	Err  error
}

// CopyDoneMsg is sent when a clipboard copy finishes
type CopyDoneMsg struct {
	What string
	Err  error
}

func (ActionMsg) isMsg()        {}
func (InputMsg) isMsg()         {}
func (OpenSessionMsg) isMsg()   {}
func (HistoryLoadedMsg) isMsg() {}
func (DetailLoadedMsg) isMsg()  {}
func (ExportDoneMsg) isMsg()    {}
func (CopyDoneMsg) isMsg()      {}

// Command is a side effect requested by Update. The shell executes it and
// reports the outcome with a follow-up Msg.
type Command interface{ isCommand() }

// LoadHistoryCmd reads the history index; answered by HistoryLoadedMsg
type LoadHistoryCmd struct{}

// LoadDetailCmd reads one session; answered by DetailLoadedMsg
type LoadDetailCmd struct {
	Generation uint64
	Session    models.SessionSummary
}

// CancelDetailCmd abandons the detail load of a generation
type CancelDetailCmd struct {
	Generation uint64
}

// ExportCmd writes an export file; answered by ExportDoneMsg. Detail is set
// when the session is already loaded.
type ExportCmd struct {
	Session models.SessionSummary
	Format  export.Format
	Detail  *models.SessionDetail
}

// CopyCmd copies text to the clipboard; answered by CopyDoneMsg
type CopyCmd struct {
	Text string
	What string
}

// ResumeCmd exits and resumes the session with the claude CLI
type ResumeCmd struct {
	Session models.SessionSummary
}

// QuitCmd exits the program
type QuitCmd struct{}

func (LoadHistoryCmd) isCommand()  {}
func (LoadDetailCmd) isCommand()   {}
func (CancelDetailCmd) isCommand() {}
func (ExportCmd) isCommand()       {}
func (CopyCmd) isCommand()         {}
func (ResumeCmd) isCommand()       {}
func (QuitCmd) isCommand()         {}
