package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/strrl/claude-browse/pkg/models"
)

// sessionDocument is the structured export shared by JSON and YAML
type sessionDocument struct {
	ID           string            `json:"id" yaml:"id"`
	Project      string            `json:"project" yaml:"project"`
	ProjectName  string            `json:"project_name" yaml:"project_name"`
	Slug         string            `json:"slug,omitempty" yaml:"slug,omitempty"`
	GitBranch    string            `json:"git_branch,omitempty" yaml:"git_branch,omitempty"`
	StartedAt    *time.Time        `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	EndedAt      *time.Time        `json:"ended_at,omitempty" yaml:"ended_at,omitempty"`
	MessageCount int               `json:"message_count" yaml:"message_count"`
	Messages     []messageDocument `json:"messages" yaml:"messages"`
}

type messageDocument struct {
	Role      string     `json:"role" yaml:"role"`
	Content   string     `json:"content" yaml:"content"`
	Tools     []string   `json:"tools,omitempty" yaml:"tools,omitempty"`
	Model     string     `json:"model,omitempty" yaml:"model,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

func newDocument(detail models.SessionDetail) sessionDocument {
	doc := sessionDocument{
		ID:           detail.Summary.ID,
		Project:      detail.Summary.ProjectPath,
		ProjectName:  detail.Summary.ProjectName,
		Slug:         detail.Slug,
		GitBranch:    detail.GitBranch,
		StartedAt:    timePtr(detail.StartedAt()),
		EndedAt:      timePtr(detail.EndedAt()),
		MessageCount: len(detail.Messages),
		Messages:     make([]messageDocument, 0, len(detail.Messages)),
	}
	for _, m := range detail.Messages {
		doc.Messages = append(doc.Messages, messageDocument{
			Role:      m.Role,
			Content:   m.Text,
			Tools:     m.Tools,
			Model:     m.Model,
			Timestamp: timePtr(m.Timestamp),
		})
	}
	return doc
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	utc := t.UTC()
	return &utc
}

// JSONFormatter exports sessions as indented JSON
type JSONFormatter struct{}

// Format writes the session as a JSON document
func (f *JSONFormatter) Format(detail models.SessionDetail, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newDocument(detail))
}

// Extension returns the file extension for this format
func (f *JSONFormatter) Extension() string {
	return "json"
}
