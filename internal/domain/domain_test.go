package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestSelectionBounds(t *testing.T) {
	sel := Selection{Start: Coord{Col: 3, Row: 1}, End: Coord{Col: 1, Row: 4}}
	if got := sel.TopLeft(); got != (Coord{Col: 1, Row: 1}) {
		t.Fatalf("TopLeft() = %+v", got)
	}
	if got := sel.BottomRight(); got != (Coord{Col: 3, Row: 4}) {
		t.Fatalf("BottomRight() = %+v", got)
	}
	if sel.Width() != 3 || sel.Height() != 4 {
		t.Fatalf("unexpected size %dx%d", sel.Width(), sel.Height())
	}
	if !sel.Contains(Coord{Col: 2, Row: 2}) || sel.Contains(Coord{Col: 0, Row: 2}) {
		t.Fatal("Contains() mismatch")
	}
	if !sel.ContainsCol(1) || sel.ContainsCol(4) || !sel.ContainsRow(4) || sel.ContainsRow(0) {
		t.Fatal("ContainsCol()/ContainsRow() mismatch")
	}
	if sel.IsSingle() || !SingleCell(Coord{}).IsSingle() {
		t.Fatal("IsSingle() mismatch")
	}
}

func TestSelectionClamp(t *testing.T) {
	sel := Selection{Start: Coord{Col: -2, Row: 9}, End: Coord{Col: 7, Row: -1}}
	got := sel.Clamp(4, 5)
	want := Selection{Start: Coord{Col: 0, Row: 5}, End: Coord{Col: 4, Row: 0}}
	if got != want {
		t.Fatalf("Clamp() = %+v, want %+v", got, want)
	}
}

func TestCoordAxis(t *testing.T) {
	c := Coord{Col: 2, Row: 5}
	if c.Get(AxisCol) != 2 || c.Get(AxisRow) != 5 {
		t.Fatalf("Get() mismatch for %+v", c)
	}
	if got := c.With(AxisRow, 9); got != (Coord{Col: 2, Row: 9}) {
		t.Fatalf("With() = %+v", got)
	}
	if AxisCol.Other() != AxisRow || AxisRow.Other() != AxisCol {
		t.Fatal("Other() mismatch")
	}
}

func TestParseColumnType(t *testing.T) {
	cases := map[string]ColumnType{
		"number":  ColumnTypeNumber,
		" Float ": ColumnTypeNumber,
		"":        ColumnTypeString,
		"text":    ColumnTypeString,
		"bool":    ColumnTypeBoolean,
	}
	for raw, want := range cases {
		got, err := ParseColumnType(raw)
		if err != nil {
			t.Fatalf("ParseColumnType(%q) error = %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseColumnType(%q) = %v, want %v", raw, got, want)
		}
	}
	if _, err := ParseColumnType("date"); !errors.Is(err, ErrUnknownColumnType) {
		t.Fatalf("expected ErrUnknownColumnType, got %v", err)
	}
	if (ColumnTypeNumber | 1<<9).Basic() != ColumnTypeNumber {
		t.Fatal("expected extension bits to be masked")
	}
}

func TestPolicyLookups(t *testing.T) {
	p := DefaultPolicy()
	p.DefaultValue = nil
	p.Types = map[string]ColumnType{"n": ColumnTypeNumber, "b": ColumnTypeBoolean}
	p.Precisions = map[string]int{"n": -1}
	p.DefaultValues = map[string]any{"s": "dash"}
	p.ReadonlyFunc = func(key string) bool { return key == "id" }

	if p.TypeOf("n") != ColumnTypeNumber || p.TypeOf("other") != ColumnTypeString {
		t.Fatal("TypeOf() mismatch")
	}
	if p.PrecisionOf("n") != -1 || p.PrecisionOf("other") != 2 {
		t.Fatal("PrecisionOf() mismatch")
	}
	if p.DefaultFor("n") != 0.0 || p.DefaultFor("b") != false || p.DefaultFor("s") != "dash" {
		t.Fatal("DefaultFor() mismatch")
	}
	if !p.IsReadonly("id") || p.IsReadonly("n") {
		t.Fatal("IsReadonly() mismatch")
	}
}

func TestPolicyRenameColumnMovesOverrides(t *testing.T) {
	p := DefaultPolicy()
	p.Types = map[string]ColumnType{"a": ColumnTypeNumber}
	p.Precisions = map[string]int{"a": 0}
	p.DefaultValues = map[string]any{"a": 1.0}
	p.ReadonlyColumns = []string{"a"}
	clone := p.Clone()

	p.RenameColumn("a", "b")
	if p.TypeOf("b") != ColumnTypeNumber || p.PrecisionOf("b") != 0 || p.DefaultFor("b") != 1.0 || !p.IsReadonly("b") {
		t.Fatalf("expected overrides to move to new key, got %+v", p)
	}
	if p.IsReadonly("a") || p.TypeOf("a") != ColumnTypeString {
		t.Fatal("expected old key overrides to be removed")
	}
	if !clone.IsReadonly("a") || clone.TypeOf("a") != ColumnTypeNumber {
		t.Fatal("expected clone to be independent of rename")
	}
}

func TestParseNumberPrefix(t *testing.T) {
	cases := map[string]float64{
		"3.14159":   3.14159,
		"  -2.5e1x": -25,
		".5":        0.5,
		"7.":        7,
		"12abc":     12,
		"Infinity":  math.Inf(1),
		"1,5":       1,
	}
	for raw, want := range cases {
		if got := ParseNumberPrefix(raw); got != want {
			t.Fatalf("ParseNumberPrefix(%q) = %v, want %v", raw, got, want)
		}
	}
	for _, raw := range []string{"abc", "", "-", ".", "e5"} {
		if got := ParseNumberPrefix(raw); !math.IsNaN(got) {
			t.Fatalf("ParseNumberPrefix(%q) = %v, want NaN", raw, got)
		}
	}
}

func TestRoundToIdempotent(t *testing.T) {
	values := []float64{0, 1.005, -1.005, 3.14159, 15, 149.5, -0.5, 123456.789, 1e-9, 2.675}
	for _, v := range values {
		for p := -1; p <= 2; p++ {
			once := RoundTo(v, p)
			if twice := RoundTo(once, p); twice != once {
				t.Fatalf("RoundTo(RoundTo(%v,%d)) = %v, want %v", v, p, twice, once)
			}
		}
	}
	if got := RoundTo(3.14159, 2); got != 3.14 {
		t.Fatalf("RoundTo(3.14159, 2) = %v", got)
	}
	if got := RoundTo(15, -1); got != 20 {
		t.Fatalf("RoundTo(15, -1) = %v", got)
	}
	if got := RoundTo(-2.5, 0); got != -2 {
		t.Fatalf("RoundTo(-2.5, 0) = %v, want half-up -2", got)
	}
}

func TestCoerce(t *testing.T) {
	if got := Coerce(ColumnTypeNumber, 2, "3.14159", 0.0); got != 3.14 {
		t.Fatalf("Coerce(number) = %v", got)
	}
	if got := Coerce(ColumnTypeNumber, 2, "abc", 0.0); got != 0.0 {
		t.Fatalf("Coerce(number, abc) = %v, want default", got)
	}
	if got := Coerce(ColumnTypeNumber, 2, "-Infinity", 9.0); got != 9.0 {
		t.Fatalf("Coerce(number, -Infinity) = %v, want default", got)
	}
	if got := Coerce(ColumnTypeBoolean, 0, "yes", false); got != true {
		t.Fatalf("Coerce(boolean, yes) = %v", got)
	}
	if got := Coerce(ColumnTypeBoolean, 0, "maybe", true); got != true {
		t.Fatalf("Coerce(boolean, maybe) = %v, want default", got)
	}
	if got := Coerce(ColumnTypeString, 0, " raw ", ""); got != " raw " {
		t.Fatalf("Coerce(string) = %q", got)
	}
}

func TestAcceptsNumericEntry(t *testing.T) {
	for _, raw := range []string{"1", "-", ".", ","} {
		if !AcceptsNumericEntry(raw) {
			t.Fatalf("AcceptsNumericEntry(%q) = false", raw)
		}
	}
	for _, raw := range []string{"a", "", "Z"} {
		if AcceptsNumericEntry(raw) {
			t.Fatalf("AcceptsNumericEntry(%q) = true", raw)
		}
	}
}

func TestFormatCell(t *testing.T) {
	if got := FormatCell(ColumnTypeNumber, 2, 3.1); got != "3.10" {
		t.Fatalf("FormatCell(number) = %q", got)
	}
	if got := FormatCell(ColumnTypeNumber, -1, 20.0); got != "20" {
		t.Fatalf("FormatCell(number, -1) = %q", got)
	}
	if got := FormatCell(ColumnTypeNumber, 1, "n/a"); got != "n/a" {
		t.Fatalf("FormatCell(number, string) = %q", got)
	}
	if got := FormatCell(ColumnTypeString, 0, "  padded  "); got != "padded" {
		t.Fatalf("FormatCell(string) = %q", got)
	}
	if got := FormatCell(ColumnTypeBoolean, 0, true); got != "true" {
		t.Fatalf("FormatCell(boolean) = %q", got)
	}
	if got := FormatCell(ColumnTypeString, 0, nil); got != "" {
		t.Fatalf("FormatCell(nil) = %q", got)
	}
}

func TestNewSheetAndValidate(t *testing.T) {
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	if _, err := NewSheet("  ", now); err != ErrInvalidSheetName {
		t.Fatalf("expected ErrInvalidSheetName, got %v", err)
	}
	s, err := NewSheet(" budget ", now)
	if err != nil {
		t.Fatalf("NewSheet() error = %v", err)
	}
	if s.Name != "budget" {
		t.Fatalf("unexpected name %q", s.Name)
	}
	s.RowIDs = []string{"r1", "r2"}
	s.Columns = []SheetColumn{{Key: "a", Values: []any{"x", "y"}}, {Key: "b", Values: []any{1.0, 2.0}}}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := s.ColumnOrder(); len(got) != 2 || got[1] != "b" {
		t.Fatalf("ColumnOrder() = %v", got)
	}

	dup := s
	dup.Columns = append([]SheetColumn(nil), s.Columns...)
	dup.Columns[1].Key = "a"
	if err := dup.Validate(); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	ragged := s
	ragged.Columns = []SheetColumn{{Key: "a", Values: []any{"x"}}}
	if err := ragged.Validate(); !errors.Is(err, ErrRaggedColumns) {
		t.Fatalf("expected ErrRaggedColumns, got %v", err)
	}

	missing := s
	missing.RowIDs = nil
	if err := missing.Validate(); err != ErrRowIdentityMissing {
		t.Fatalf("expected ErrRowIdentityMissing, got %v", err)
	}
}
