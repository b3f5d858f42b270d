package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/strrl/claude-browse/internal/app"
	"github.com/strrl/claude-browse/pkg/models"
)

const wrapWidth = 100

var showLimit int

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [project] [session-id]",
		Short: "Show projects, sessions, or messages without TUI",
		Long: `Show projects, sessions, or messages in a non-interactive format.
Without arguments: lists all projects
With project name: lists all sessions in that project
With project name and session ID: shows the messages of that session`,
		Args: cobra.MaximumNArgs(2),
		RunE: runShow,
	}
	cmd.Flags().IntVar(&showLimit, "limit", 0, "Show at most this many sessions or messages (0 for all)")
	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	index, err := rt.store.ListProjects(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if index.Skipped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %d malformed history records\n", index.Skipped)
	}

	out := cmd.OutOrStdout()
	switch len(args) {
	case 0:
		return showProjects(out, index.Groups)
	case 1:
		group, err := findProject(index.Groups, args[0])
		if err != nil {
			return err
		}
		return showSessions(out, group)
	default:
		group, err := findProject(index.Groups, args[0])
		if err != nil {
			return err
		}
		summary, ok := findInProject(group, args[1])
		if !ok {
			return sessionNotFound(out, group, args[1])
		}
		detail, err := rt.store.LoadSessionDetail(cmd.Context(), summary)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		return showMessages(out, detail)
	}
}

func findProject(groups []models.ProjectGroup, name string) (models.ProjectGroup, error) {
	for _, g := range groups {
		if g.Name == name || g.Path == name {
			return g, nil
		}
	}
	return models.ProjectGroup{}, fmt.Errorf("project '%s' not found", name)
}

func findInProject(group models.ProjectGroup, id string) (models.SessionSummary, bool) {
	for _, s := range group.Sessions {
		if s.ID == id || (len(id) >= 4 && strings.HasPrefix(s.ID, id)) {
			return s, true
		}
	}
	return models.SessionSummary{}, false
}

func showProjects(out io.Writer, groups []models.ProjectGroup) error {
	if len(groups) == 0 {
		fmt.Fprintln(out, "No projects found")
		return nil
	}

	tbl := uitable.New()
	tbl.MaxColWidth = 60
	tbl.AddRow("PROJECT", "SESSIONS", "LAST ACTIVE", "PATH")
	for _, g := range groups {
		tbl.AddRow(g.Name, len(g.Sessions), g.LastActive().Local().Format("2006-01-02 15:04"), g.Path)
	}
	_, err := fmt.Fprintln(out, tbl)
	return err
}

func showSessions(out io.Writer, group models.ProjectGroup) error {
	if len(group.Sessions) == 0 {
		fmt.Fprintf(out, "No sessions found for project '%s'\n", group.Name)
		return nil
	}

	fmt.Fprintf(out, "Sessions for project '%s' (%s)\n\n", group.Name, group.Path)

	tbl := uitable.New()
	tbl.AddRow("SESSION", "LAST ACTIVE", "MESSAGES", "PREVIEW")
	for i, s := range group.Sessions {
		if showLimit > 0 && i >= showLimit {
			break
		}
		preview := strings.Join(strings.Fields(s.Preview), " ")
		tbl.AddRow(s.ID, s.LastActive.Local().Format("2006-01-02 15:04"), s.MessageCount, truncate.StringWithTail(preview, 60, "..."))
	}
	_, err := fmt.Fprintln(out, tbl)
	return err
}

func showMessages(out io.Writer, detail models.SessionDetail) error {
	if len(detail.Messages) == 0 {
		fmt.Fprintf(out, "No messages found for session '%s'\n", detail.Summary.ID)
		return nil
	}

	fmt.Fprintf(out, "Messages for session '%s' in project '%s':\n", detail.Summary.ID, detail.Summary.ProjectName)
	fmt.Fprintln(out, "================================================")

	for i, msg := range detail.Messages {
		if showLimit > 0 && i >= showLimit {
			fmt.Fprintf(out, "\n(showing first %d of %d messages)\n", showLimit, len(detail.Messages))
			break
		}
		fmt.Fprintf(out, "\n%s\n", wordwrap.String(app.FormatWithMeta(msg), wrapWidth))
	}
	return nil
}

func sessionNotFound(out io.Writer, group models.ProjectGroup, id string) error {
	fmt.Fprintf(out, "Session '%s' not found in project '%s'\n", id, group.Name)
	fmt.Fprintf(out, "\nAvailable sessions in this project:\n")
	for i, s := range group.Sessions {
		if i >= 10 {
			fmt.Fprintf(out, "... and %d more sessions\n", len(group.Sessions)-10)
			break
		}
		fmt.Fprintf(out, "  - %s (Last activity: %s)\n", s.ID, s.LastActive.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
