package app

// ViewMode is the active screen. Exactly one is active at a time.
type ViewMode int

const (
	ModeSessionList ViewMode = iota
	ModeSessionDetail
	ModeSearch
	ModeFilter
	ModeHelp
	ModeExport
)

var modeNames = []string{"Sessions", "Detail", "Search", "Filter", "Help", "Export"}

func (v ViewMode) String() string {
	if v < 0 || int(v) >= len(modeNames) {
		return "Unknown"
	}
	return modeNames[v]
}

// FilterField is the filter dialog field with input focus
type FilterField int

const (
	FieldDateRange FilterField = iota
	FieldProject
)

// Next cycles focus to the other field
func (f FilterField) Next() FilterField {
	if f == FieldDateRange {
		return FieldProject
	}
	return FieldDateRange
}

// TextEntry reports whether printable keys are text input rather than
// commands in the current mode.
func (m Model) TextEntry() bool {
	switch m.Mode {
	case ModeSearch:
		return true
	case ModeFilter:
		return m.FilterFocus == FieldProject
	}
	return false
}

// enter switches to mode next. Leaving SessionDetail drops the scroll offset
// and entering Export resets the dialog.
func (m Model) enter(next ViewMode) Model {
	if m.Mode == next {
		return m
	}
	if m.Mode == ModeSessionDetail {
		m.Scroll = 0
	}
	switch next {
	case ModeExport:
		m.Export = ExportDialog{}
	case ModeFilter:
		m.FilterFocus = FieldDateRange
	}
	m.Mode = next
	return m
}

// toList returns to SessionList, dropping any loaded or pending detail. A
// pending load is invalidated by bumping the generation.
func (m Model) toList() (Model, Command) {
	var cmd Command
	if m.Pending != "" {
		cmd = CancelDetailCmd{Generation: m.Generation}
	}
	if m.Pending != "" || m.Detail != nil {
		m.Generation++
	}
	m.Pending = ""
	m.Detail = nil
	m = m.enter(ModeSessionList)
	m.Scroll = 0
	return m, cmd
}

// toggleHelp opens Help, or closes it back to the mode it was opened from
func (m Model) toggleHelp() Model {
	if m.Mode == ModeHelp {
		m.Mode = m.helpReturn
		return m
	}
	m.helpReturn = m.Mode
	return m.enter(ModeHelp)
}
