package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/strrl/claude-browse/pkg/models"
)

const dateLayout = "2006-01-02 15:04"

// MarkdownFormatter exports sessions as Markdown
type MarkdownFormatter struct{}

// Format writes the session as a Markdown document
func (f *MarkdownFormatter) Format(detail models.SessionDetail, w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Session: %s\n\n", detail.Summary.ProjectName)
	fmt.Fprintf(&b, "- **Project**: %s\n", detail.Summary.ProjectPath)

	start, end := detail.StartedAt(), detail.EndedAt()
	switch {
	case start.IsZero():
	case end.IsZero() || end.Equal(start):
		fmt.Fprintf(&b, "- **Date**: %s\n", start.Format(dateLayout))
	default:
		fmt.Fprintf(&b, "- **Date**: %s - %s\n", start.Format(dateLayout), end.Format(dateLayout))
	}
	fmt.Fprintf(&b, "- **Messages**: %d\n", len(detail.Messages))
	if detail.Slug != "" {
		fmt.Fprintf(&b, "- **Slug**: %s\n", detail.Slug)
	}
	if detail.GitBranch != "" {
		fmt.Fprintf(&b, "- **Branch**: %s\n", detail.GitBranch)
	}
	b.WriteString("\n---\n\n")

	for _, msg := range detail.Messages {
		fmt.Fprintf(&b, "## %s\n\n", roleHeading(msg.Role))
		if msg.Text != "" {
			b.WriteString(msg.Text)
			b.WriteString("\n\n")
		}
		for _, tool := range msg.Tools {
			fmt.Fprintf(&b, "- `%s`\n", tool)
		}
		if len(msg.Tools) > 0 {
			b.WriteString("\n")
		}
		b.WriteString("---\n\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Extension returns the file extension for this format
func (f *MarkdownFormatter) Extension() string {
	return "md"
}

func roleHeading(role string) string {
	switch role {
	case "user":
		return "User"
	case "assistant":
		return "Assistant"
	case "":
		return "Unknown"
	default:
		return strings.ToUpper(role[:1]) + role[1:]
	}
}
