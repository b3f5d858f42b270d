package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/strrl/claude-browse/internal/app"
)

// KeyMap holds the key bindings of every mode
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Enter       key.Binding
	Back        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
	Toggle      key.Binding
	Expand      key.Binding
	Collapse    key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Search      key.Binding
	Filter      key.Binding
	Export      key.Binding
	Help        key.Binding
	Copy        key.Binding
	CopyMeta    key.Binding
	Resume      key.Binding
	Reload      key.Binding

	// Dialogs
	NextField   key.Binding
	ClearFilter key.Binding
	ClearInput  key.Binding // Clears the filter while typing in the project field
	PresetNext  key.Binding
	PresetPrev  key.Binding
	Format      key.Binding
	Backspace   key.Binding
	ArrowUp     key.Binding
	ArrowDown   key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:         key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "fold")),
		Expand:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Collapse:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Export:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		CopyMeta:    key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy with metadata")),
		Resume:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		Reload:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),

		NextField:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		ClearFilter: key.NewBinding(key.WithKeys("c", "ctrl+l"), key.WithHelp("c", "clear")),
		ClearInput:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		PresetNext:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next range")),
		PresetPrev:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous range")),
		Format:      key.NewBinding(key.WithKeys("tab", "up", "down", "k", "j"), key.WithHelp("tab", "format")),
		Backspace:   key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete")),
		ArrowUp:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		ArrowDown:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
	}
}

type binding struct {
	key    key.Binding
	action app.Action
}

func (k KeyMap) listBindings() []binding {
	return []binding{
		{k.Up, app.ActionMoveUp},
		{k.Down, app.ActionMoveDown},
		{k.PageUp, app.ActionPageUp},
		{k.PageDown, app.ActionPageDown},
		{k.Top, app.ActionTop},
		{k.Bottom, app.ActionBottom},
		{k.Enter, app.ActionEnter},
		{k.Back, app.ActionBack},
		{k.Quit, app.ActionQuit},
		{k.Toggle, app.ActionToggle},
		{k.Expand, app.ActionExpand},
		{k.Collapse, app.ActionCollapse},
		{k.ExpandAll, app.ActionExpandAll},
		{k.CollapseAll, app.ActionCollapseAll},
		{k.Search, app.ActionStartSearch},
		{k.Filter, app.ActionStartFilter},
		{k.Export, app.ActionStartExport},
		{k.Copy, app.ActionCopy},
		{k.Resume, app.ActionResume},
		{k.Reload, app.ActionReload},
	}
}

func (k KeyMap) detailBindings() []binding {
	return []binding{
		{k.Up, app.ActionMoveUp},
		{k.Down, app.ActionMoveDown},
		{k.PageUp, app.ActionPageUp},
		{k.PageDown, app.ActionPageDown},
		{k.Top, app.ActionTop},
		{k.Bottom, app.ActionBottom},
		{k.Back, app.ActionBack},
		{k.Quit, app.ActionBack},
		{k.Collapse, app.ActionBack},
		{k.Copy, app.ActionCopy},
		{k.CopyMeta, app.ActionCopyWithMeta},
		{k.Export, app.ActionStartExport},
		{k.Resume, app.ActionResume},
	}
}

func (k KeyMap) searchBindings() []binding {
	return []binding{
		{k.Back, app.ActionBack},
		{k.Enter, app.ActionEnter},
		{k.Backspace, app.ActionBackspace},
		{k.ArrowUp, app.ActionMoveUp},
		{k.ArrowDown, app.ActionMoveDown},
	}
}

func (k KeyMap) filterBindings(focus app.FilterField) []binding {
	common := []binding{
		{k.Back, app.ActionBack},
		{k.Enter, app.ActionEnter},
		{k.NextField, app.ActionNextField},
	}
	if focus == app.FieldProject {
		return append(common,
			binding{k.Backspace, app.ActionBackspace},
			binding{k.ClearInput, app.ActionClearFilter},
		)
	}
	return append(common,
		binding{k.PresetNext, app.ActionPresetNext},
		binding{k.PresetPrev, app.ActionPresetPrev},
		binding{k.ClearFilter, app.ActionClearFilter},
		binding{k.Quit, app.ActionBack},
	)
}

func (k KeyMap) exportBindings() []binding {
	return []binding{
		{k.Back, app.ActionBack},
		{k.Quit, app.ActionBack},
		{k.Enter, app.ActionEnter},
		{k.Format, app.ActionToggleFormat},
	}
}

func (k KeyMap) helpBindings() []binding {
	return []binding{
		{k.Back, app.ActionBack},
		{k.Quit, app.ActionBack},
	}
}

func (k KeyMap) bindings(m app.Model) []binding {
	switch m.Mode {
	case app.ModeSessionDetail:
		return k.detailBindings()
	case app.ModeSearch:
		return k.searchBindings()
	case app.ModeFilter:
		return k.filterBindings(m.FilterFocus)
	case app.ModeExport:
		return k.exportBindings()
	case app.ModeHelp:
		return k.helpBindings()
	}
	return k.listBindings()
}

// Translate resolves a key press to a reducer message for the current
// mode. It returns nil for keys with no meaning there.
func (k KeyMap) Translate(m app.Model, msg tea.KeyMsg) app.Msg {
	if key.Matches(msg, k.ForceQuit) {
		return app.ActionMsg{Action: app.ActionQuit}
	}
	if !m.TextEntry() && key.Matches(msg, k.Help) {
		return app.ActionMsg{Action: app.ActionHelp}
	}

	for _, b := range k.bindings(m) {
		if key.Matches(msg, b.key) {
			return app.ActionMsg{Action: b.action}
		}
	}

	if m.TextEntry() {
		switch msg.Type {
		case tea.KeyRunes:
			return app.InputMsg{Text: string(msg.Runes)}
		case tea.KeySpace:
			return app.InputMsg{Text: " "}
		}
	}
	return nil
}

// modeHelp adapts the key map to help.KeyMap for one mode
type modeHelp struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h modeHelp) ShortHelp() []key.Binding  { return h.short }
func (h modeHelp) FullHelp() [][]key.Binding { return h.full }

// HelpFor returns the bindings shown in the footer and help screen
func (k KeyMap) HelpFor(m app.Model) help.KeyMap {
	switch m.Mode {
	case app.ModeSessionDetail:
		return modeHelp{short: []key.Binding{k.Up, k.Down, k.Copy, k.CopyMeta, k.Export, k.Resume, k.Back, k.Help}}
	case app.ModeSearch:
		return modeHelp{short: []key.Binding{k.ArrowUp, k.ArrowDown, k.Enter, k.Back}}
	case app.ModeFilter:
		if m.FilterFocus == app.FieldProject {
			return modeHelp{short: []key.Binding{k.NextField, k.ClearInput, k.Enter, k.Back}}
		}
		return modeHelp{short: []key.Binding{k.PresetPrev, k.PresetNext, k.NextField, k.ClearFilter, k.Enter, k.Back}}
	case app.ModeExport:
		return modeHelp{short: []key.Binding{k.Format, k.Enter, k.Back}}
	case app.ModeHelp:
		return modeHelp{
			short: []key.Binding{k.Help, k.Back},
			full: [][]key.Binding{
				{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
				{k.Enter, k.Toggle, k.Expand, k.Collapse, k.ExpandAll, k.CollapseAll},
				{k.Search, k.Filter, k.Export, k.Copy, k.CopyMeta},
				{k.Resume, k.Reload, k.Help, k.Back, k.Quit},
			},
		}
	}
	return modeHelp{short: []key.Binding{k.Up, k.Down, k.Enter, k.Search, k.Filter, k.Export, k.Resume, k.Help, k.Quit}}
}
