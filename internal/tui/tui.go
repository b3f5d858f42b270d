// Package tui is the bubbletea shell around the app state machine: it turns
// key presses into reducer messages, runs the returned commands in the
// background, and renders the model.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/strrl/claude-browse/internal/app"
	"github.com/strrl/claude-browse/internal/clipboard"
	"github.com/strrl/claude-browse/internal/logging"
	"github.com/strrl/claude-browse/pkg/models"
)

// Options configures the browser
type Options struct {
	Provider  Provider
	Clipboard clipboard.Sink
	ExportDir string
	Logger    *log.Logger
	Clock     func() time.Time
}

// App is the bubbletea model
type App struct {
	state app.Model
	keys  KeyMap

	help     help.Model
	viewport viewport.Model
	search   textinput.Model
	project  textinput.Model
	loading  LoadingIndicator
	spinning bool

	provider  Provider
	clipboard clipboard.Sink
	exportDir string
	exec      *Executor
	log       *log.Logger

	// Line offset of every message in the rendered detail
	offsets []int

	resume *models.SessionSummary
	width  int
	height int
	ready  bool
}

// New creates the browser model. Background requests derive from ctx.
func New(ctx context.Context, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search projects, previews and loaded messages"

	project := textinput.New()
	project.Prompt = ""
	project.Placeholder = "any project"

	return &App{
		state:     app.New(opts.Clock),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		search:    search,
		project:   project,
		loading:   NewLoadingIndicator().SetMessage("Loading history..."),
		provider:  opts.Provider,
		clipboard: opts.Clipboard,
		exportDir: opts.ExportDir,
		exec:      NewExecutor(ctx),
		log:       logger,
	}
}

// State returns the current application state
func (a *App) State() app.Model {
	return a.state
}

// Selected returns the session chosen for resuming, if any
func (a *App) Selected() *models.SessionSummary {
	return a.resume
}

func (a *App) Init() tea.Cmd {
	a.spinning = true
	return tea.Batch(a.runCommand(a.state.Init()), a.loading.Tick())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		if !a.ready {
			a.viewport = viewport.New(msg.Width, a.detailHeight())
			a.ready = true
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = a.detailHeight()
		}
		a.syncWidgets()
		return a, nil

	case tea.KeyMsg:
		m := a.keys.Translate(a.state, msg)
		if m == nil {
			return a, nil
		}
		return a, a.dispatch(m)

	case resultMsg:
		if !a.exec.Current(msg.slot, msg.requestID) {
			a.log.Debug("superseded result", "slot", msg.slot, "request", msg.requestID)
		}
		a.exec.Finish(msg.slot, msg.requestID)
		return a, a.dispatch(msg.msg)

	case app.Msg:
		return a, a.dispatch(msg)

	case spinner.TickMsg:
		if !a.busy() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.loading, cmd = a.loading.Update(msg)
		return a, cmd
	}

	return a, nil
}

// dispatch feeds msg through the reducer and runs the resulting command
func (a *App) dispatch(msg app.Msg) tea.Cmd {
	next, cmd := app.Update(a.state, msg)
	a.state = next
	a.syncWidgets()

	cmds := []tea.Cmd{a.runCommand(cmd)}
	if a.busy() && !a.spinning {
		a.spinning = true
		cmds = append(cmds, a.loading.Tick())
	}
	return tea.Batch(cmds...)
}

func (a *App) busy() bool {
	return a.state.Loading || a.state.Pending != "" || a.state.Export.Busy
}

// syncWidgets mirrors the model into the bubbles widgets used for rendering
func (a *App) syncWidgets() {
	switch {
	case a.state.Loading:
		a.loading = a.loading.SetMessage("Loading history...")
	case a.state.Pending != "":
		a.loading = a.loading.SetMessage("Loading session...")
	case a.state.Export.Busy:
		a.loading = a.loading.SetMessage("Exporting...")
	}

	a.search.SetValue(a.state.Query)
	a.search.CursorEnd()
	if a.state.Mode == app.ModeSearch {
		a.search.Focus()
	} else {
		a.search.Blur()
	}

	a.project.SetValue(a.state.Filter.Project)
	a.project.CursorEnd()
	if a.state.Mode == app.ModeFilter && a.state.FilterFocus == app.FieldProject {
		a.project.Focus()
	} else {
		a.project.Blur()
	}

	if a.ready && a.state.Mode == app.ModeSessionDetail {
		a.viewport.Height = a.detailHeight()
		a.renderDetail()
	}
}

// renderDetail fills the viewport and scrolls the focused message into view
func (a *App) renderDetail() {
	content, offsets := renderMessages(a.state.Detail, a.state.Scroll, a.width)
	a.offsets = offsets
	a.viewport.SetContent(content)

	if a.state.Scroll >= len(offsets) {
		a.viewport.GotoTop()
		return
	}
	top := offsets[a.state.Scroll]
	if top < a.viewport.YOffset || top >= a.viewport.YOffset+a.viewport.Height {
		a.viewport.SetYOffset(top)
	}
}

// Run starts the browser and blocks until it exits. It returns the session
// chosen for resuming, or nil.
func Run(ctx context.Context, opts Options) (*models.SessionSummary, error) {
	a := New(ctx, opts)
	defer a.exec.Close()

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return nil, err
	}
	return a.Selected(), nil
}
