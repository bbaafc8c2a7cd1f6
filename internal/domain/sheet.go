package domain

import (
	"fmt"
	"strings"
	"time"
)

// Sheet represents a persisted snapshot of one grid.
type Sheet struct {
	Name      string
	Columns   []SheetColumn
	RowIDs    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SheetColumn represents one column of a sheet snapshot in display order.
type SheetColumn struct {
	Key    string
	Values []any
}

// NewSheet constructs an empty sheet.
func NewSheet(name string, now time.Time) (Sheet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Sheet{}, ErrInvalidSheetName
	}
	return Sheet{
		Name:      name,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// RowCount returns the number of rows in the snapshot.
func (s Sheet) RowCount() int {
	return len(s.RowIDs)
}

// ColumnOrder returns the column keys in display order.
func (s Sheet) ColumnOrder() []string {
	out := make([]string, 0, len(s.Columns))
	for _, col := range s.Columns {
		out = append(out, col.Key)
	}
	return out
}

// Validate checks key uniqueness and that every column matches the row-identity count.
func (s Sheet) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrInvalidSheetName
	}
	seen := make(map[string]struct{}, len(s.Columns))
	for _, col := range s.Columns {
		if strings.TrimSpace(col.Key) == "" {
			return ErrInvalidKey
		}
		if _, ok := seen[col.Key]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, col.Key)
		}
		seen[col.Key] = struct{}{}
		if len(col.Values) != len(s.RowIDs) {
			if len(s.RowIDs) == 0 {
				return ErrRowIdentityMissing
			}
			return fmt.Errorf("%w: column %q has %d values, want %d", ErrRaggedColumns, col.Key, len(col.Values), len(s.RowIDs))
		}
	}
	return nil
}
