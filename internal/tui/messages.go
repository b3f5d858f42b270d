package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/strrl/claude-browse/internal/app"
	"github.com/strrl/claude-browse/internal/clipboard"
	"github.com/strrl/claude-browse/internal/errs"
	"github.com/strrl/claude-browse/internal/export"
	"github.com/strrl/claude-browse/internal/sessions"
	"github.com/strrl/claude-browse/pkg/models"
)

// Provider supplies history and session details
type Provider interface {
	ListProjects(ctx context.Context) (sessions.Index, error)
	LoadSessionDetail(ctx context.Context, summary models.SessionSummary) (models.SessionDetail, error)
}

// resultMsg carries the outcome of a background request back to the
// event loop
type resultMsg struct {
	slot      string
	requestID string
	msg       app.Msg
}

// runCommand turns a reducer command into a bubbletea command. Commands that
// need no background work are handled in place.
func (a *App) runCommand(cmd app.Command) tea.Cmd {
	switch c := cmd.(type) {
	case nil:
		return nil

	case app.LoadHistoryCmd:
		ctx, id := a.exec.Start(slotHistory)
		a.log.Debug("loading history", "request", id)
		return loadHistoryCmd(ctx, a.provider, id)

	case app.LoadDetailCmd:
		ctx, id := a.exec.Start(slotDetail)
		a.log.Debug("loading session", "session", c.Session.ID, "generation", c.Generation, "request", id)
		return loadDetailCmd(ctx, a.provider, c, id)

	case app.CancelDetailCmd:
		a.log.Debug("cancelling session load", "generation", c.Generation)
		a.exec.Cancel(slotDetail)
		return nil

	case app.ExportCmd:
		ctx, id := a.exec.Start(slotExport)
		a.log.Debug("exporting session", "session", c.Session.ID, "format", c.Format, "request", id)
		return exportCmd(ctx, a.provider, a.exportDir, c, id)

	case app.CopyCmd:
		return copyCmd(a.clipboard, c)

	case app.ResumeCmd:
		s := c.Session
		a.resume = &s
		a.exec.CancelAll()
		return tea.Quit

	case app.QuitCmd:
		a.exec.CancelAll()
		return tea.Quit
	}

	a.log.Warn("unhandled command", "command", cmd)
	return nil
}

// loadHistoryCmd reads the history index asynchronously
func loadHistoryCmd(ctx context.Context, p Provider, requestID string) tea.Cmd {
	return func() tea.Msg {
		index, err := p.ListProjects(ctx)
		return resultMsg{
			slot:      slotHistory,
			requestID: requestID,
			msg:       app.HistoryLoadedMsg{Groups: index.Groups, Skipped: index.Skipped, Err: err},
		}
	}
}

// loadDetailCmd reads one session asynchronously
func loadDetailCmd(ctx context.Context, p Provider, c app.LoadDetailCmd, requestID string) tea.Cmd {
	return func() tea.Msg {
		detail, err := p.LoadSessionDetail(ctx, c.Session)
		return resultMsg{
			slot:      slotDetail,
			requestID: requestID,
			msg: app.DetailLoadedMsg{
				Generation: c.Generation,
				SessionID:  c.Session.ID,
				Detail:     detail,
				Err:        err,
			},
		}
	}
}

// exportCmd loads the session when needed and writes the export file
func exportCmd(ctx context.Context, p Provider, dir string, c app.ExportCmd, requestID string) tea.Cmd {
	return func() tea.Msg {
		done := func(path string, err error) tea.Msg {
			return resultMsg{slot: slotExport, requestID: requestID, msg: app.ExportDoneMsg{Path: path, Err: err}}
		}

		var detail models.SessionDetail
		if c.Detail != nil {
			detail = *c.Detail
		} else {
			d, err := p.LoadSessionDetail(ctx, c.Session)
			if err != nil {
				return done("", err)
			}
			detail = d
		}

		if err := ctx.Err(); err != nil {
			return done("", err)
		}
		path, err := export.WriteFile(dir, detail, c.Format)
		return done(path, err)
	}
}

// copyCmd places text on the clipboard
func copyCmd(sink clipboard.Sink, c app.CopyCmd) tea.Cmd {
	return func() tea.Msg {
		if sink == nil {
			return app.CopyDoneMsg{What: c.What, Err: &errs.ClipboardError{Err: errs.ErrClipboardUnavailable}}
		}
		return app.CopyDoneMsg{What: c.What, Err: sink.Copy(c.Text)}
	}
}
