package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/evanschultz/tabula/internal/domain"
)

// Store represents the grid store contract: an ordered column list and
// per-column value arrays that all share one row count.
type Store interface {
	ColumnOrder() []string
	RowCount() int
	Column(key string) ([]any, bool)
	Get(key string, row int) (any, bool)
	Set(key string, row int, value any)
	InsertRow(index int, defaults map[string]any)
	// DeleteRows removes rows in [start, end).
	DeleteRows(start, end int)
	InsertColumn(index int, key string, values []any)
	DeleteColumn(key string)
	RenameColumn(oldKey, newKey string)
	SwapColumns(i, j int)
	SwapRows(i, j int)
}

// KeyNamer supplies unique column keys for inserted and renamed columns.
// Returning "" cancels the operation.
type KeyNamer interface {
	UniqueKey(base string, taken func(string) bool) string
}

// KeyNamerFunc adapts a function to KeyNamer.
type KeyNamerFunc func(base string, taken func(string) bool) string

// UniqueKey calls f.
func (f KeyNamerFunc) UniqueKey(base string, taken func(string) bool) string {
	return f(base, taken)
}

// DefaultKeyNamer keeps a free base key and otherwise generates col-N keys.
type DefaultKeyNamer struct{}

// UniqueKey returns base when free, else the first free col-N.
func (DefaultKeyNamer) UniqueKey(base string, taken func(string) bool) string {
	base = strings.TrimSpace(base)
	if base != "" && !taken(base) {
		return base
	}
	for i := 0; ; i++ {
		key := fmt.Sprintf("col-%d", i)
		if !taken(key) {
			return key
		}
	}
}

// Observer receives notifications after selection changes and completed grid mutations.
type Observer interface {
	SelectionChanged(sel domain.Selection, ok bool)
	GridChanged(ev domain.ChangeEvent)
}

// Clipboard reads and writes platform clipboard text.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// SheetRepository persists sheet snapshots by name.
type SheetRepository interface {
	SaveSheet(context.Context, domain.Sheet) error
	LoadSheet(context.Context, string) (domain.Sheet, error)
	ListSheets(context.Context) ([]string, error)
	DeleteSheet(context.Context, string) error
}
