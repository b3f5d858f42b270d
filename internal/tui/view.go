package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/strrl/claude-browse/internal/app"
	"github.com/strrl/claude-browse/internal/export"
	"github.com/strrl/claude-browse/internal/search"
	"github.com/strrl/claude-browse/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("63")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	projectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	sessionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	assistantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	focusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212"))

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)

	statusStyles = map[app.StatusLevel]lipgloss.Style{
		app.StatusInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		app.StatusWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		app.StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// chrome is the number of lines taken by the header and footer
const chrome = 3

const (
	previewMinWidth = 80 // Narrower terminals show the list alone
	previewMaxLines = 10 // Prompt lines shown in the preview pane
)

func (a *App) View() string {
	if !a.ready {
		return "\n  Initializing..."
	}
	if a.state.Loading && a.state.Tree.NodeCount() == 0 {
		return LoadingOverlay(a.width, a.height, a.loading)
	}

	var body string
	switch a.state.Mode {
	case app.ModeSessionDetail:
		body = a.renderDetailView()
	case app.ModeHelp:
		body = a.renderHelp()
	case app.ModeExport:
		body = a.renderExport()
	case app.ModeSearch:
		bar := a.search.View()
		body = lipgloss.JoinVertical(lipgloss.Left, bar, a.renderList(a.bodyHeight()-1))
	case app.ModeFilter:
		panel := a.renderFilter()
		body = lipgloss.JoinVertical(lipgloss.Left, panel, a.renderList(a.bodyHeight()-lipgloss.Height(panel)))
	default:
		body = a.renderList(a.bodyHeight())
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), body, a.renderFooter())
}

func (a *App) bodyHeight() int {
	h := a.height - chrome
	if h < 1 {
		return 1
	}
	return h
}

func (a *App) detailHeight() int {
	// Minus the session header line
	h := a.bodyHeight() - 2
	if h < 1 {
		return 1
	}
	return h
}

func (a *App) renderHeader() string {
	title := "Claude Browse - " + a.state.Mode.String()
	if a.state.Mode == app.ModeSessionDetail {
		title = "Claude Browse - " + a.state.DetailSession.ProjectName
	}

	var badges []string
	if !a.state.Filter.IsZero() {
		badges = append(badges, filterBadge(a.state.Filter))
	}
	if q := strings.TrimSpace(a.state.Query); q != "" && a.state.Mode != app.ModeSearch {
		badges = append(badges, fmt.Sprintf("search: %q", q))
	}
	if a.spinning && a.busy() && a.state.Tree.NodeCount() > 0 {
		badges = append(badges, a.loading.View())
	}

	header := titleStyle.Render(title)
	if len(badges) > 0 {
		header += " " + dimStyle.Render(strings.Join(badges, " • "))
	}
	return header
}

func filterBadge(f search.FilterCriteria) string {
	var parts []string
	if f.Date != search.PresetAll {
		parts = append(parts, f.Date.String())
	}
	if p := strings.TrimSpace(f.Project); p != "" {
		parts = append(parts, "project~"+p)
	}
	return "filter: " + strings.Join(parts, ", ")
}

func (a *App) renderFooter() string {
	status := ""
	if a.state.Status.Text != "" {
		status = statusStyles[a.state.Status.Level].Render(a.state.Status.Text)
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, a.help.View(a.keys.HelpFor(a.state)))
}

// renderList places the preview pane beside the tree when the terminal is
// wide enough
func (a *App) renderList(height int) string {
	if a.width < previewMinWidth {
		return a.renderTree(a.width, height)
	}
	treeWidth := a.width * 55 / 100
	previewWidth := a.width - treeWidth - 1

	left := lipgloss.NewStyle().Width(treeWidth).Render(a.renderTree(treeWidth, height))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", a.renderPreview(previewWidth, height))
}

// renderTree renders the visible rows in a window that keeps the cursor
// on screen
func (a *App) renderTree(width, height int) string {
	rows := a.state.Tree.VisibleRows()
	if len(rows) == 0 {
		return dimStyle.Render("  No sessions found")
	}
	if height < 1 {
		height = 1
	}

	start := 0
	if a.state.Selected >= height {
		start = a.state.Selected - height + 1
	}
	end := start + height
	if end > len(rows) {
		end = len(rows)
	}

	narrowed := a.state.Narrowed()
	var s strings.Builder
	for r := start; r < end; r++ {
		row := rows[r]
		node := a.state.Tree.Node(row.Node)
		cursor := "  "
		if r == a.state.Selected {
			cursor = "> "
		}

		var line string
		if node.IsProject() {
			marker := "▸"
			if a.state.Tree.IsExpanded(row.Node) {
				marker = "▾"
			}
			count := fmt.Sprintf("(%d)", node.SessionCount())
			if narrowed {
				count = fmt.Sprintf("(%d/%d)", a.state.Tree.MatchCount(row.Node), node.SessionCount())
			}
			line = fmt.Sprintf("%s%s %s %s", cursor, marker, node.Name, dimStyle.Render(count))
		} else {
			line = cursor + strings.Repeat("  ", row.Depth) + sessionLine(node.Session)
		}
		line = truncate.StringWithTail(line, uint(max(width, 10)), "…")

		switch {
		case r == a.state.Selected:
			line = selectedStyle.Render(line)
		case node.IsProject():
			line = projectStyle.Render(line)
		default:
			line = sessionStyle.Render(line)
		}
		s.WriteString(line)
		if r < end-1 {
			s.WriteString("\n")
		}
	}
	return s.String()
}

func (a *App) renderPreview(width, height int) string {
	inner := max(width-4, 10)
	field := func(label, value string) string {
		return dimStyle.Render(label) + value
	}

	lines := []string{headerStyle.Render("Preview"), ""}
	node, ok := a.state.SelectedNode()
	switch {
	case !ok:
		lines = append(lines, dimStyle.Render("No session selected"))
	case node.IsProject():
		count := fmt.Sprintf("%d", node.SessionCount())
		if a.state.Narrowed() {
			count = fmt.Sprintf("%d of %d match", a.state.Tree.MatchCount(a.state.Tree.NodeAt(a.state.Selected)), node.SessionCount())
		}
		lines = append(lines,
			field("Project:  ", projectStyle.Render(node.Name)),
			field("Path:     ", node.Path),
			field("Sessions: ", count),
		)
	default:
		s := node.Session
		lines = append(lines,
			field("Project:  ", projectStyle.Render(s.ProjectName)),
			field("Date:     ", s.LastActive.Local().Format("2006-01-02 15:04")),
			field("Messages: ", fmt.Sprintf("%d", s.MessageCount)),
			field("Session:  ", s.ID),
			"",
			dimStyle.Render(strings.Repeat("─", inner)),
			"",
			dimStyle.Italic(true).Render("First message:"),
		)

		prompt := s.FirstPrompt
		if prompt == "" {
			prompt = s.Preview
		}
		wrapped := strings.Split(wordwrap.String(prompt, inner), "\n")
		if len(wrapped) > previewMaxLines {
			rest := len(wrapped) - previewMaxLines
			wrapped = append(wrapped[:previewMaxLines], "", dimStyle.Render(fmt.Sprintf("... (%d more lines)", rest)))
		}
		lines = append(lines, wrapped...)
	}

	content := height - 2
	if content < 1 {
		content = 1
	}
	if len(lines) > content {
		lines = lines[:content]
	}
	for i, l := range lines {
		lines[i] = truncate.StringWithTail(l, uint(inner), "…")
	}
	return previewStyle.Width(width - 2).Height(content).Render(strings.Join(lines, "\n"))
}

func sessionLine(s models.SessionSummary) string {
	preview := strings.Join(strings.Fields(s.Preview), " ")
	if preview == "" {
		preview = "(no prompt)"
	}
	return fmt.Sprintf("%s %4d  %s",
		s.LastActive.Local().Format("01-02 15:04"),
		s.MessageCount,
		preview)
}

func (a *App) renderFilter() string {
	dateLabel := "Date range: "
	projectLabel := "Project:    "
	date := "◂ " + a.state.Filter.Date.String() + " ▸"
	if a.state.FilterFocus == app.FieldDateRange {
		dateLabel = focusBarStyle.Render(dateLabel)
		date = selectedStyle.Render(date)
	} else {
		projectLabel = focusBarStyle.Render(projectLabel)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Filter"),
		dateLabel+date,
		projectLabel+a.project.View(),
		"",
	)
}

func (a *App) renderDetailView() string {
	s := a.state.DetailSession
	meta := fmt.Sprintf("%s • %s • %d messages",
		s.ID, s.LastActive.Local().Format("2006-01-02 15:04"), s.MessageCount)

	var body string
	switch {
	case a.state.Pending != "":
		body = a.loading.View()
	case a.state.Detail == nil:
		body = dimStyle.Render("Session could not be loaded")
	default:
		d := a.state.Detail
		if d.GitBranch != "" {
			meta += " • " + d.GitBranch
		}
		meta = fmt.Sprintf("%s (%d/%d)", meta, a.state.Scroll+1, max(len(d.Messages), 1))
		body = a.viewport.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		dimStyle.Render(truncate.StringWithTail(meta, uint(max(a.width, 10)), "…")),
		"",
		body,
	)
}

// renderMessages lays out the conversation for the viewport. It returns the
// first line of each message alongside the content.
func renderMessages(d *models.SessionDetail, focus, width int) (string, []int) {
	if d == nil {
		return "", nil
	}
	if len(d.Messages) == 0 {
		return dimStyle.Italic(true).Render("No messages found"), nil
	}

	wrapWidth := width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	var (
		s       strings.Builder
		offsets = make([]int, 0, len(d.Messages))
		line    int
	)
	for i, msg := range d.Messages {
		offsets = append(offsets, line)

		bar := "  "
		if i == focus {
			bar = focusBarStyle.Render("┃ ")
		}

		role := userStyle.Render("User")
		if msg.Role == "assistant" {
			role = assistantStyle.Render("Assistant")
		}
		heading := role
		if !msg.Timestamp.IsZero() {
			heading += dimStyle.Render(" " + msg.Timestamp.Local().Format("15:04:05"))
		}
		if msg.Model != "" {
			heading += dimStyle.Render(" " + msg.Model)
		}

		lines := []string{heading}
		text := wordwrap.String(app.MessageText(msg), wrapWidth)
		lines = append(lines, strings.Split(text, "\n")...)

		for _, l := range lines {
			s.WriteString(bar + l + "\n")
			line++
		}
		if i < len(d.Messages)-1 {
			s.WriteString("\n")
			line++
		}
	}
	return s.String(), offsets
}

func (a *App) renderHelp() string {
	keys := a.keys.HelpFor(a.state)
	body := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Keyboard shortcuts"),
		"",
		a.help.FullHelpView(keys.FullHelp()),
		"",
		dimStyle.Render("Search matches project names, prompts and the messages of sessions you have opened."),
		dimStyle.Render("Filters and search combine; project rows always stay listed."),
	)
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func (a *App) renderExport() string {
	d := a.state.Export
	target := d.Target.ProjectName + " • " + d.Target.ID

	var formats []string
	for f := export.FormatMarkdown; f <= export.FormatYAML; f++ {
		label := "( ) " + f.String()
		if f == d.Format {
			label = selectedStyle.Render("(•) " + f.String())
		}
		formats = append(formats, label)
	}

	lines := []string{
		headerStyle.Render("Export session"),
		"",
		dimStyle.Render(target),
		"",
		strings.Join(formats, "   "),
		"",
		dimStyle.Render("Directory: " + a.exportDir),
	}
	switch {
	case d.Busy:
		lines = append(lines, "", a.loading.View())
	case d.Result != "":
		lines = append(lines, "", statusStyles[app.StatusInfo].Render("Written to "+d.Result))
	}

	dialog := dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(a.width, a.bodyHeight(), lipgloss.Center, lipgloss.Center, dialog)
}
