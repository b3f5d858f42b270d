package export

import (
	"io"

	"github.com/strrl/claude-browse/pkg/models"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter exports sessions in YAML format
type YAMLFormatter struct{}

// Format writes the session as a YAML document
func (f *YAMLFormatter) Format(detail models.SessionDetail, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(newDocument(detail))
}

// Extension returns the file extension for this format
func (f *YAMLFormatter) Extension() string {
	return "yaml"
}
