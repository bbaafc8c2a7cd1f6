package tui

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/evanschultz/tabula/internal/app"
)

// SaveFunc persists the grid. It runs on the update loop, so it may read the
// store without further locking.
type SaveFunc func(ctx context.Context) error

type Option func(*Model)

func WithSheetName(name string) Option {
	return func(m *Model) {
		m.sheetName = name
	}
}

func WithSaveFunc(save SaveFunc) Option {
	return func(m *Model) {
		m.save = save
	}
}

func WithClipboard(cb app.Clipboard) Option {
	return func(m *Model) {
		m.clipboard = cb
	}
}

func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keyConfig = cfg
	}
}

func WithColumnWidth(width int) Option {
	return func(m *Model) {
		if width >= minColumnWidth {
			m.colWidth = width
		}
	}
}

func WithActivityLog(activity *ActivityLog) Option {
	return func(m *Model) {
		m.activity = activity
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}
