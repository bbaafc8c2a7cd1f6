package clipboard

import (
	"errors"
	"testing"

	"github.com/evanschultz/tabula/internal/app"
)

func TestSystemReadWrite(t *testing.T) {
	var stored string
	sys := &System{
		read:  func() (string, error) { return stored, nil },
		write: func(text string) error { stored = text; return nil },
	}
	if err := sys.WriteText("a\x00b"); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	got, err := sys.ReadText()
	if err != nil {
		t.Fatalf("ReadText() error = %v", err)
	}
	if got != "ab" {
		t.Fatalf("ReadText() = %q, want NUL stripped", got)
	}
}

func TestSystemErrorsWrapUnavailable(t *testing.T) {
	boom := errors.New("xclip missing")
	sys := &System{
		read:  func() (string, error) { return "", boom },
		write: func(string) error { return boom },
	}
	if _, err := sys.ReadText(); !errors.Is(err, app.ErrClipboardUnavailable) {
		t.Fatalf("expected ErrClipboardUnavailable, got %v", err)
	}
	if err := sys.WriteText("x"); !errors.Is(err, app.ErrClipboardUnavailable) {
		t.Fatalf("expected ErrClipboardUnavailable, got %v", err)
	}

	unsupported := &System{unsupported: true}
	if unsupported.Available() {
		t.Fatal("expected unsupported clipboard to be unavailable")
	}
	if err := unsupported.WriteText("x"); !errors.Is(err, app.ErrClipboardUnavailable) {
		t.Fatalf("expected ErrClipboardUnavailable, got %v", err)
	}
}

func TestBuffer(t *testing.T) {
	var cb app.Clipboard = &Buffer{}
	if err := cb.WriteText("x\ty"); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	got, err := cb.ReadText()
	if err != nil || got != "x\ty" {
		t.Fatalf("ReadText() = %q, %v", got, err)
	}
}

func TestFallbackReturnsClipboard(t *testing.T) {
	if Fallback() == nil {
		t.Fatal("expected a clipboard")
	}
}
