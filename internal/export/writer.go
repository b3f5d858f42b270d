package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/strrl/claude-browse/internal/errs"
	"github.com/strrl/claude-browse/pkg/models"
)

const maxSuffix = 999

// Filename builds {project}_{YYYYMMDD_HHMM}_{id8}.{ext}
func Filename(detail models.SessionDetail, ext string) string {
	project := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, detail.Summary.ProjectName)
	if project == "" {
		project = "session"
	}

	date := "unknown"
	if start := detail.StartedAt(); !start.IsZero() {
		date = start.Format("20060102_1504")
	}

	id := detail.Summary.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s_%s_%s.%s", project, date, id, ext)
}

// WriteFile formats detail and writes it into dir under a unique name,
// returning the path written.
func WriteFile(dir string, detail models.SessionDetail, format Format) (string, error) {
	formatter, err := New(format)
	if err != nil {
		return "", &errs.ExportError{Format: format.String(), Err: err}
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", &errs.ExportError{Format: format.String(), Path: dir, Err: err}
	}
	if !info.IsDir() {
		return "", &errs.ExportError{Format: format.String(), Path: dir, Err: fmt.Errorf("not a directory")}
	}

	var buf bytes.Buffer
	if err := formatter.Format(detail, &buf); err != nil {
		return "", &errs.ExportError{Format: format.String(), Err: err}
	}

	base := filepath.Join(dir, Filename(detail, formatter.Extension()))
	path, err := createUnique(base, buf.Bytes())
	if err != nil {
		return "", &errs.ExportError{Format: format.String(), Path: base, Err: err}
	}
	return path, nil
}

// createUnique writes data to base, or base_1 .. base_999 when taken.
// Existing files are never overwritten.
func createUnique(base string, data []byte) (string, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 0; i <= maxSuffix; i++ {
		path := base
		if i > 0 {
			path = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", err
		}
		return path, f.Close()
	}

	path := fmt.Sprintf("%s_%d%s", stem, time.Now().Unix(), ext)
	return path, os.WriteFile(path, data, 0o644)
}
