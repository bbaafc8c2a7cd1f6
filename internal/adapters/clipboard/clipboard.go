// Package clipboard adapts the platform clipboard to the grid's clipboard port.
package clipboard

import (
	"fmt"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/evanschultz/tabula/internal/app"
)

// System reads and writes the operating system clipboard.
type System struct {
	read        func() (string, error)
	write       func(string) error
	unsupported bool
}

// NewSystem constructs the platform clipboard adapter.
func NewSystem() *System {
	return &System{
		read:        clipboard.ReadAll,
		write:       clipboard.WriteAll,
		unsupported: clipboard.Unsupported,
	}
}

// Available reports whether a platform clipboard utility was found.
func (s *System) Available() bool {
	return !s.unsupported
}

// ReadText returns the clipboard text.
func (s *System) ReadText() (string, error) {
	if s.unsupported {
		return "", app.ErrClipboardUnavailable
	}
	text, err := s.read()
	if err != nil {
		return "", fmt.Errorf("%w: %v", app.ErrClipboardUnavailable, err)
	}
	return text, nil
}

// WriteText replaces the clipboard text. NUL bytes are stripped.
func (s *System) WriteText(text string) error {
	if s.unsupported {
		return app.ErrClipboardUnavailable
	}
	if err := s.write(strings.ReplaceAll(text, "\x00", "")); err != nil {
		return fmt.Errorf("%w: %v", app.ErrClipboardUnavailable, err)
	}
	return nil
}

// Buffer is a process-local clipboard used when no platform clipboard exists.
type Buffer struct {
	mu   sync.Mutex
	text string
}

// ReadText returns the buffered text.
func (b *Buffer) ReadText() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text, nil
}

// WriteText replaces the buffered text.
func (b *Buffer) WriteText(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
	return nil
}

// Fallback returns the system clipboard when available and a Buffer otherwise.
func Fallback() app.Clipboard {
	if sys := NewSystem(); sys.Available() {
		return sys
	}
	return &Buffer{}
}
