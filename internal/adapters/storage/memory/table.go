// Package memory provides the in-process grid store.
package memory

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/evanschultz/tabula/internal/domain"
	"github.com/google/uuid"
)

// Table stores ordered columns of equal-length value arrays plus one identity per row.
type Table struct {
	order   []string
	columns map[string][]any
	rowIDs  []string
	newID   func() string
}

// Option configures a Table.
type Option func(*Table)

// WithIDGenerator sets the row identity generator.
func WithIDGenerator(gen func() string) Option {
	return func(t *Table) {
		if gen != nil {
			t.newID = gen
		}
	}
}

// New constructs an empty table.
func New(opts ...Option) *Table {
	t := &Table{
		columns: map[string][]any{},
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// NewTable constructs a table from column keys and values, generating row identities.
func NewTable(order []string, columns map[string][]any, opts ...Option) (*Table, error) {
	t := New(opts...)
	rows := -1
	for _, key := range order {
		if strings.TrimSpace(key) == "" {
			return nil, domain.ErrInvalidKey
		}
		if _, ok := t.columns[key]; ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateKey, key)
		}
		values := columns[key]
		if rows >= 0 && len(values) != rows {
			return nil, fmt.Errorf("%w: column %q has %d values, want %d", domain.ErrRaggedColumns, key, len(values), rows)
		}
		rows = len(values)
		t.order = append(t.order, key)
		t.columns[key] = slices.Clone(values)
	}
	for range max(rows, 0) {
		t.rowIDs = append(t.rowIDs, t.newID())
	}
	return t, nil
}

// FromSheet constructs a table holding a copy of a sheet snapshot.
func FromSheet(sheet domain.Sheet, opts ...Option) (*Table, error) {
	if err := sheet.Validate(); err != nil {
		return nil, err
	}
	t := New(opts...)
	for _, col := range sheet.Columns {
		t.order = append(t.order, col.Key)
		t.columns[col.Key] = slices.Clone(col.Values)
	}
	t.rowIDs = slices.Clone(sheet.RowIDs)
	return t, nil
}

// Sheet returns a snapshot copy of the table.
func (t *Table) Sheet(name string, now time.Time) domain.Sheet {
	out := domain.Sheet{
		Name:      strings.TrimSpace(name),
		RowIDs:    slices.Clone(t.rowIDs),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	for _, key := range t.order {
		out.Columns = append(out.Columns, domain.SheetColumn{Key: key, Values: slices.Clone(t.columns[key])})
	}
	return out
}

// RowIDs returns a copy of the row identity sequence.
func (t *Table) RowIDs() []string {
	return slices.Clone(t.rowIDs)
}

// ColumnOrder returns the column keys in display order.
func (t *Table) ColumnOrder() []string {
	return slices.Clone(t.order)
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.rowIDs)
}

// Column returns a copy of a column's values.
func (t *Table) Column(key string) ([]any, bool) {
	values, ok := t.columns[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(values), true
}

// Get returns one cell value.
func (t *Table) Get(key string, row int) (any, bool) {
	values, ok := t.columns[key]
	if !ok || row < 0 || row >= len(values) {
		return nil, false
	}
	return values[row], true
}

// Set writes one cell value; unknown columns and rows are ignored.
func (t *Table) Set(key string, row int, value any) {
	values, ok := t.columns[key]
	if !ok || row < 0 || row >= len(values) {
		return
	}
	values[row] = value
}

// InsertRow inserts one row at index using defaults keyed by column.
func (t *Table) InsertRow(index int, defaults map[string]any) {
	index = domain.Clamp(index, 0, len(t.rowIDs))
	for key, values := range t.columns {
		t.columns[key] = slices.Insert(values, index, defaults[key])
	}
	t.rowIDs = slices.Insert(t.rowIDs, index, t.newID())
}

// DeleteRows removes rows in [start, end).
func (t *Table) DeleteRows(start, end int) {
	start = domain.Clamp(start, 0, len(t.rowIDs))
	end = domain.Clamp(end, start, len(t.rowIDs))
	if start == end {
		return
	}
	for key, values := range t.columns {
		t.columns[key] = slices.Delete(values, start, end)
	}
	t.rowIDs = slices.Delete(t.rowIDs, start, end)
}

// InsertColumn inserts a column at index. Values are padded or cut to the row count.
func (t *Table) InsertColumn(index int, key string, values []any) {
	if _, ok := t.columns[key]; ok {
		return
	}
	col := make([]any, len(t.rowIDs))
	copy(col, values)
	t.columns[key] = col
	t.order = slices.Insert(t.order, domain.Clamp(index, 0, len(t.order)), key)
}

// DeleteColumn removes a column and its values.
func (t *Table) DeleteColumn(key string) {
	delete(t.columns, key)
	t.order = slices.DeleteFunc(t.order, func(k string) bool { return k == key })
}

// RenameColumn moves a column's values and order slot to newKey.
func (t *Table) RenameColumn(oldKey, newKey string) {
	if oldKey == newKey {
		return
	}
	if _, exists := t.columns[newKey]; exists {
		return
	}
	values, ok := t.columns[oldKey]
	if !ok {
		return
	}
	delete(t.columns, oldKey)
	t.columns[newKey] = values
	if i := slices.Index(t.order, oldKey); i >= 0 {
		t.order[i] = newKey
	}
}

// SwapColumns swaps two display positions.
func (t *Table) SwapColumns(i, j int) {
	if i < 0 || j < 0 || i >= len(t.order) || j >= len(t.order) {
		return
	}
	t.order[i], t.order[j] = t.order[j], t.order[i]
}

// SwapRows swaps two rows in every column and in the identity sequence.
func (t *Table) SwapRows(i, j int) {
	if i < 0 || j < 0 || i >= len(t.rowIDs) || j >= len(t.rowIDs) {
		return
	}
	for _, values := range t.columns {
		values[i], values[j] = values[j], values[i]
	}
	t.rowIDs[i], t.rowIDs[j] = t.rowIDs[j], t.rowIDs[i]
}
