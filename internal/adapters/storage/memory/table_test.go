package memory

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/evanschultz/tabula/internal/domain"
)

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("r%d", n)
	})
}

func TestNewTableValidation(t *testing.T) {
	if _, err := NewTable([]string{"a", "a"}, map[string][]any{"a": {1.0}}); !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
	if _, err := NewTable([]string{" "}, nil); err != domain.ErrInvalidKey {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	_, err := NewTable([]string{"a", "b"}, map[string][]any{"a": {1.0, 2.0}, "b": {"x"}})
	if !errors.Is(err, domain.ErrRaggedColumns) {
		t.Fatalf("expected ErrRaggedColumns, got %v", err)
	}
}

func TestTableRowOperations(t *testing.T) {
	tbl, err := NewTable([]string{"a", "b"}, map[string][]any{"a": {"x", "y"}, "b": {1.0, 2.0}}, sequentialIDs())
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	if got := tbl.RowIDs(); !reflect.DeepEqual(got, []string{"r1", "r2"}) {
		t.Fatalf("RowIDs() = %v", got)
	}

	tbl.InsertRow(1, map[string]any{"a": "", "b": 0.0})
	if got, _ := tbl.Column("a"); !reflect.DeepEqual(got, []any{"x", "", "y"}) {
		t.Fatalf("after InsertRow a = %v", got)
	}
	if got := tbl.RowIDs(); !reflect.DeepEqual(got, []string{"r1", "r3", "r2"}) {
		t.Fatalf("after InsertRow ids = %v", got)
	}

	tbl.SwapRows(0, 2)
	if got, _ := tbl.Column("b"); !reflect.DeepEqual(got, []any{2.0, 0.0, 1.0}) {
		t.Fatalf("after SwapRows b = %v", got)
	}

	tbl.DeleteRows(0, 2)
	if tbl.RowCount() != 1 {
		t.Fatalf("expected 1 row, got %d", tbl.RowCount())
	}
	if v, ok := tbl.Get("a", 0); !ok || v != "x" {
		t.Fatalf("Get(a,0) = %v, %v", v, ok)
	}
	if _, ok := tbl.Get("a", 5); ok {
		t.Fatal("expected out-of-range Get to fail")
	}
}

func TestTableColumnOperations(t *testing.T) {
	tbl, err := NewTable([]string{"a"}, map[string][]any{"a": {"x", "y"}}, sequentialIDs())
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	tbl.InsertColumn(0, "n", []any{1.0})
	if got := tbl.ColumnOrder(); !reflect.DeepEqual(got, []string{"n", "a"}) {
		t.Fatalf("ColumnOrder() = %v", got)
	}
	if got, _ := tbl.Column("n"); !reflect.DeepEqual(got, []any{1.0, nil}) {
		t.Fatalf("expected padded column, got %v", got)
	}

	tbl.SwapColumns(0, 1)
	tbl.RenameColumn("a", "b")
	if got := tbl.ColumnOrder(); !reflect.DeepEqual(got, []string{"b", "n"}) {
		t.Fatalf("ColumnOrder() = %v", got)
	}
	if _, ok := tbl.Column("a"); ok {
		t.Fatal("expected old key to be gone")
	}

	tbl.RenameColumn("b", "n")
	if got := tbl.ColumnOrder(); !reflect.DeepEqual(got, []string{"b", "n"}) {
		t.Fatalf("rename onto existing key changed order: %v", got)
	}

	tbl.DeleteColumn("b")
	if got := tbl.ColumnOrder(); !reflect.DeepEqual(got, []string{"n"}) {
		t.Fatalf("ColumnOrder() = %v", got)
	}
}

func TestTableColumnReturnsCopy(t *testing.T) {
	tbl, err := NewTable([]string{"a"}, map[string][]any{"a": {"x"}})
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	values, _ := tbl.Column("a")
	values[0] = "mutated"
	if v, _ := tbl.Get("a", 0); v != "x" {
		t.Fatalf("expected store to be unaffected, got %v", v)
	}
}

func TestTableSheetRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tbl, err := NewTable([]string{"a", "b"}, map[string][]any{"a": {"x", "y"}, "b": {true, false}}, sequentialIDs())
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	sheet := tbl.Sheet(" main ", now)
	if sheet.Name != "main" || sheet.RowCount() != 2 {
		t.Fatalf("unexpected sheet %+v", sheet)
	}
	back, err := FromSheet(sheet)
	if err != nil {
		t.Fatalf("FromSheet() error = %v", err)
	}
	if !reflect.DeepEqual(back.RowIDs(), tbl.RowIDs()) || !reflect.DeepEqual(back.ColumnOrder(), tbl.ColumnOrder()) {
		t.Fatal("expected identical order and row ids")
	}
	sheet.Columns[0].Values[0] = "changed"
	if v, _ := back.Get("a", 0); v != "x" {
		t.Fatalf("expected FromSheet to copy values, got %v", v)
	}
}
