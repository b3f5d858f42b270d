// Package export renders loaded sessions as Markdown, JSON or YAML and
// writes them to disk.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/strrl/claude-browse/pkg/models"
)

// Format selects an export encoding
type Format int

const (
	FormatMarkdown Format = iota
	FormatJSON
	FormatYAML
)

var formatNames = []string{"Markdown", "JSON", "YAML"}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "Unknown"
	}
	return formatNames[f]
}

// Next cycles to the following format
func (f Format) Next() Format {
	return Format((int(f) + 1) % len(formatNames))
}

// ParseFormat maps a command-line name to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yml", "yaml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported format: %s (supported: md, json, yaml)", name)
	}
}

// Formatter encodes a session detail
type Formatter interface {
	Format(detail models.SessionDetail, w io.Writer) error
	Extension() string
}

// New returns the formatter for format
func New(format Format) (Formatter, error) {
	switch format {
	case FormatMarkdown:
		return &MarkdownFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}
}
