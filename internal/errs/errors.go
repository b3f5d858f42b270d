// Package errs defines the error types surfaced by the session browser.
package errs

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrClipboardUnavailable is returned when no clipboard backend can be used
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// IOError represents a file that is missing or unreadable
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a malformed record
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NotFoundError represents a session that is no longer present on disk
type NotFoundError struct {
	SessionID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session %s not found", e.SessionID)
}

// ClipboardError represents a failed copy
type ClipboardError struct {
	Err error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("copy to clipboard: %v", e.Err)
}

func (e *ClipboardError) Unwrap() error {
	return e.Err
}

// ExportError represents a failed export write
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("export %s to %s: %v", e.Format, e.Path, e.Err)
	}
	return fmt.Sprintf("export %s: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is or wraps a NotFoundError or fs.ErrNotExist
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
}

// Describe returns a one-line message suitable for the status bar
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var (
		nf  *NotFoundError
		ioe *IOError
		pe  *ParseError
		ce  *ClipboardError
		ee  *ExportError
	)
	switch {
	case errors.As(err, &nf):
		return fmt.Sprintf("Session %s no longer exists", shortID(nf.SessionID))
	case errors.Is(err, ErrClipboardUnavailable):
		return "Clipboard is not available on this system"
	case errors.As(err, &ce):
		return fmt.Sprintf("Copy failed: %v", ce.Err)
	case errors.As(err, &ee):
		if errors.Is(ee.Err, fs.ErrPermission) {
			return fmt.Sprintf("Export failed: permission denied for %s", ee.Path)
		}
		return fmt.Sprintf("Export failed: %v", ee.Err)
	case errors.As(err, &pe):
		return fmt.Sprintf("Could not parse %s", pe.Source)
	case errors.As(err, &ioe):
		if errors.Is(ioe.Err, fs.ErrNotExist) {
			return fmt.Sprintf("File not found: %s", ioe.Path)
		}
		if errors.Is(ioe.Err, fs.ErrPermission) {
			return fmt.Sprintf("Permission denied: %s", ioe.Path)
		}
		return fmt.Sprintf("Could not read %s", ioe.Path)
	}
	return err.Error()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
