// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
	"github.com/strrl/claude-browse/internal/errs"
)

// Sink receives copied text
type Sink interface {
	Copy(text string) error
}

// System writes to the OS clipboard through xclip/xsel/wl-copy, pbcopy or
// the Windows API.
type System struct {
	write       func(string) error
	unsupported func() bool
}

// NewSystem returns the OS clipboard sink
func NewSystem() *System {
	return &System{
		write:       clipboard.WriteAll,
		unsupported: func() bool { return clipboard.Unsupported },
	}
}

// Copy places text on the clipboard
func (s *System) Copy(text string) error {
	if s.unsupported() {
		return &errs.ClipboardError{Err: errs.ErrClipboardUnavailable}
	}
	if err := s.write(text); err != nil {
		return &errs.ClipboardError{Err: err}
	}
	return nil
}
