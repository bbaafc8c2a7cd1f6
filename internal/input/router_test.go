package input

import (
	"reflect"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/tabula/internal/adapters/clipboard"
	"github.com/evanschultz/tabula/internal/adapters/storage/memory"
	"github.com/evanschultz/tabula/internal/app"
	"github.com/evanschultz/tabula/internal/domain"
)

func newTestRouter(t *testing.T, policy domain.Policy, opts ...RouterOption) (*Router, *memory.Table) {
	t.Helper()
	tbl, err := memory.NewTable([]string{"A", "B", "N"}, map[string][]any{
		"A": {"a0", "a1", "a2"},
		"B": {"b0", "b1", "b2"},
		"N": {1.0, 2.0, 3.0},
	})
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	policy.Types = map[string]domain.ColumnType{"N": domain.ColumnTypeNumber}
	return NewRouter(app.NewGrid(tbl, policy), opts...), tbl
}

func press(code rune, mod tea.KeyMod) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code, Mod: mod}
}

func typed(ch rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: ch, Text: string(ch)}
}

func rect(c1, r1, c2, r2 int) domain.Selection {
	return domain.Selection{Start: domain.Coord{Col: c1, Row: r1}, End: domain.Coord{Col: c2, Row: r2}}
}

func assertSelection(t *testing.T, r *Router, want domain.Selection) {
	t.Helper()
	got, ok := r.Grid().Selection()
	if !ok {
		t.Fatalf("expected selection %+v, got none", want)
	}
	if got != want {
		t.Fatalf("selection = %+v, want %+v", got, want)
	}
}

func TestHandleKeyIgnoredWithoutSelection(t *testing.T) {
	r, _ := newTestRouter(t, domain.DefaultPolicy())
	if out := r.HandleKey(press(tea.KeyDown, 0)); out.Handled {
		t.Fatal("expected key to be ignored without a selection")
	}
	if r.Grid().HasSelection() {
		t.Fatal("expected no selection")
	}
}

func TestHandleKeyNavigation(t *testing.T) {
	r, _ := newTestRouter(t, domain.DefaultPolicy())
	r.Grid().SelectCell(1, 1)

	r.HandleKey(press(tea.KeyRight, 0))
	assertSelection(t, r, rect(2, 1, 2, 1))
	r.HandleKey(press(tea.KeyRight, 0))
	assertSelection(t, r, rect(2, 1, 2, 1))

	r.HandleKey(press(tea.KeyLeft, tea.ModShift))
	r.HandleKey(press(tea.KeyDown, tea.ModShift))
	assertSelection(t, r, rect(2, 1, 1, 2))

	r.HandleKey(press(tea.KeyUp, tea.ModAlt))
	assertSelection(t, r, rect(2, 0, 1, 1))

	r.HandleKey(press(tea.KeyEscape, 0))
	assertSelection(t, r, rect(1, 1, 1, 1))

	r.Grid().SelectCell(2, 2)
	r.HandleKey(press(tea.KeyTab, 0))
	assertSelection(t, r, rect(0, 0, 0, 0))
	r.HandleKey(press(tea.KeyTab, tea.ModShift))
	assertSelection(t, r, rect(2, 2, 2, 2))

	r.HandleKey(press(tea.KeyEnter, 0))
	assertSelection(t, r, rect(0, 0, 0, 0))
	r.HandleKey(press(tea.KeyEnter, tea.ModShift))
	assertSelection(t, r, rect(2, 2, 2, 2))
}

func TestHandleKeySelectionShortcuts(t *testing.T) {
	r, _ := newTestRouter(t, domain.DefaultPolicy())
	r.Grid().SelectCell(1, 1)

	r.HandleKey(press('a', tea.ModCtrl))
	assertSelection(t, r, rect(0, 0, 2, 2))

	r.Grid().SelectCell(1, 1)
	r.HandleKey(press(tea.KeySpace, tea.ModCtrl))
	assertSelection(t, r, rect(0, 1, 2, 1))

	r.Grid().SelectCell(1, 1)
	r.HandleKey(press(tea.KeySpace, tea.ModCtrl|tea.ModShift))
	assertSelection(t, r, rect(1, 0, 1, 2))
}

func TestHandleKeyStartsEdit(t *testing.T) {
	r, tbl := newTestRouter(t, domain.DefaultPolicy())
	r.Grid().SelectCell(0, 1)

	out := r.HandleKey(typed('x'))
	if !out.Handled || !out.Edit || out.Seed != "x" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if v, _ := tbl.Get("A", 1); v != "x" {
		t.Fatalf("cell = %#v, want x", v)
	}
	if c, ok := r.Grid().EditedCell(); !ok || c != (domain.Coord{Col: 0, Row: 1}) {
		t.Fatalf("edited cell = %+v, %t", c, ok)
	}
}

func TestHandleKeyEditFilters(t *testing.T) {
	r, tbl := newTestRouter(t, domain.DefaultPolicy())
	r.Grid().SelectCell(2, 0)

	if out := r.HandleKey(typed('a')); out.Edit {
		t.Fatal("numeric column should reject letter entry")
	}
	if v, _ := tbl.Get("N", 0); v != 1.0 {
		t.Fatalf("cell = %#v, want unchanged", v)
	}
	if out := r.HandleKey(typed('?')); out.Handled {
		t.Fatal("punctuation outside the entry set should not be handled")
	}
	if out := r.HandleKey(tea.KeyPressMsg{Code: 'x', Text: "x", Mod: tea.ModAlt}); out.Edit {
		t.Fatal("alt-modified keys should not start an edit")
	}

	out := r.HandleKey(typed('7'))
	if !out.Edit {
		t.Fatalf("expected numeric entry to start an edit, got %+v", out)
	}
	if v, _ := tbl.Get("N", 0); v != 7.0 {
		t.Fatalf("cell = %#v, want 7", v)
	}
}

func TestHandleKeyStructuralEdits(t *testing.T) {
	r, tbl := newTestRouter(t, domain.DefaultPolicy())
	r.Grid().SelectCell(0, 0)

	r.HandleKey(press(tea.KeyEnter, tea.ModCtrl))
	if tbl.RowCount() != 4 {
		t.Fatalf("row count = %d, want 4", tbl.RowCount())
	}
	assertSelection(t, r, rect(0, 1, 0, 1))

	r.HandleKey(press(tea.KeyDelete, tea.ModCtrl))
	if tbl.RowCount() != 3 {
		t.Fatalf("row count = %d, want 3", tbl.RowCount())
	}

	r.HandleKey(press(tea.KeyEnter, tea.ModCtrl|tea.ModShift))
	if got := tbl.ColumnOrder(); !reflect.DeepEqual(got, []string{"A", "col-0", "B", "N"}) {
		t.Fatalf("order = %v", got)
	}

	r.HandleKey(press(tea.KeyDelete, tea.ModCtrl|tea.ModShift))
	if got := tbl.ColumnOrder(); !reflect.DeepEqual(got, []string{"A", "B", "N"}) {
		t.Fatalf("order = %v", got)
	}

	r.Grid().SelectCell(0, 0)
	r.HandleKey(press(tea.KeyRight, tea.ModCtrl))
	if got := tbl.ColumnOrder(); !reflect.DeepEqual(got, []string{"B", "A", "N"}) {
		t.Fatalf("order = %v", got)
	}
	assertSelection(t, r, rect(1, 0, 1, 0))

	r.HandleKey(press(tea.KeyDown, tea.ModCtrl))
	if v, _ := tbl.Get("A", 1); v != "a0" {
		t.Fatalf("A[1] = %#v, want a0", v)
	}
	assertSelection(t, r, rect(1, 1, 1, 1))

	r.HandleKey(press(tea.KeyDelete, 0))
	if v, _ := tbl.Get("A", 1); v != "" {
		t.Fatalf("A[1] = %#v, want reset", v)
	}
}

func TestHandleKeyDisabledGridDeclines(t *testing.T) {
	policy := domain.DefaultPolicy()
	policy.Editable = false
	r, tbl := newTestRouter(t, policy)
	r.Grid().SelectCell(0, 0)

	r.HandleKey(press(tea.KeyEnter, tea.ModCtrl))
	r.HandleKey(press(tea.KeyDelete, 0))
	if out := r.HandleKey(typed('z')); out.Edit {
		t.Fatal("expected edit to be declined")
	}
	if tbl.RowCount() != 3 {
		t.Fatalf("row count = %d, want 3", tbl.RowCount())
	}
	if v, _ := tbl.Get("A", 0); v != "a0" {
		t.Fatalf("A[0] = %#v, want a0", v)
	}
}

func TestColumnPrompts(t *testing.T) {
	r, tbl := newTestRouter(t, domain.DefaultPolicy(), WithColumnPrompts(true))
	r.Grid().SelectCell(0, 2)

	out := r.HandleKey(tea.KeyPressMsg{Code: 'r', Mod: tea.ModAlt})
	if out.Prompt != PromptRenameColumn || r.PendingPrompt() != PromptRenameColumn {
		t.Fatalf("expected rename prompt, got %+v", out)
	}
	key, ok := r.CompletePrompt("name")
	if !ok || key != "name" {
		t.Fatalf("CompletePrompt() = %q, %t", key, ok)
	}
	if got := tbl.ColumnOrder(); !reflect.DeepEqual(got, []string{"name", "B", "N"}) {
		t.Fatalf("order = %v", got)
	}

	out = r.HandleKey(press(tea.KeyEnter, tea.ModCtrl|tea.ModShift))
	if out.Prompt != PromptInsertColumn {
		t.Fatalf("expected insert prompt, got %+v", out)
	}
	if _, ok := r.CompletePrompt(""); ok {
		t.Fatal("empty name should cancel")
	}
	if r.PendingPrompt() != PromptNone || len(tbl.ColumnOrder()) != 3 {
		t.Fatal("cancelled prompt should not insert")
	}

	r.HandleKey(press(tea.KeyEnter, tea.ModCtrl|tea.ModShift))
	if key, ok := r.CompletePrompt("B"); !ok || key != "col-0" {
		t.Fatalf("CompletePrompt() = %q, %t, want generated key", key, ok)
	}
}

func TestRenamePromptSkippedForReadonlyColumn(t *testing.T) {
	policy := domain.DefaultPolicy()
	policy.ReadonlyColumns = []string{"A"}
	r, _ := newTestRouter(t, policy, WithColumnPrompts(true))
	r.Grid().SelectCell(0, 0)

	out := r.HandleKey(tea.KeyPressMsg{Code: 'r', Mod: tea.ModAlt})
	if !out.Handled || out.Prompt != PromptNone {
		t.Fatalf("expected no prompt for readonly column, got %+v", out)
	}
}

func TestCopyPasteThroughClipboard(t *testing.T) {
	buf := &clipboard.Buffer{}
	r, tbl := newTestRouter(t, domain.DefaultPolicy(), WithClipboard(buf))
	r.Grid().SetSelection(rect(0, 0, 1, 1))

	if out := r.HandleKey(press('c', tea.ModCtrl)); out.Err != nil {
		t.Fatalf("copy error = %v", out.Err)
	}
	text, _ := buf.ReadText()
	if text != "a0\tb0\na1\tb1" {
		t.Fatalf("clipboard = %q", text)
	}

	r.Grid().SelectCell(1, 2)
	if out := r.HandleKey(press('v', tea.ModCtrl)); out.Err != nil {
		t.Fatalf("paste error = %v", out.Err)
	}
	if tbl.RowCount() != 4 {
		t.Fatalf("row count = %d, want 4", tbl.RowCount())
	}
	if v, _ := tbl.Get("N", 3); v != 0.0 && v != "" {
		t.Fatalf("N[3] = %#v", v)
	}
	if v, _ := tbl.Get("B", 3); v != "a1" {
		t.Fatalf("B[3] = %#v, want a1", v)
	}
	assertSelection(t, r, rect(1, 2, 2, 3))
}

func TestCopyWithoutClipboardIsUnhandled(t *testing.T) {
	r, _ := newTestRouter(t, domain.DefaultPolicy())
	r.Grid().SelectCell(0, 0)
	if out := r.HandleKey(press('c', tea.ModCtrl)); out.Handled {
		t.Fatal("expected copy to be unhandled without a clipboard")
	}
}

func TestHandlePaste(t *testing.T) {
	r, tbl := newTestRouter(t, domain.DefaultPolicy())
	if out := r.HandlePaste(tea.PasteMsg{Content: "x"}); out.Handled {
		t.Fatal("paste without selection should be ignored")
	}
	r.Grid().SelectCell(0, 0)
	if out := r.HandlePaste(tea.PasteMsg{Content: "x\ty\n\"multi\nline\"\tz\n"}); !out.Handled {
		t.Fatal("expected paste to apply")
	}
	if v, _ := tbl.Get("A", 1); v != "multi\nline" {
		t.Fatalf("A[1] = %#v", v)
	}
	if v, _ := tbl.Get("B", 1); v != "z" {
		t.Fatalf("B[1] = %#v", v)
	}
}

func TestMouseDragSelectsRectangle(t *testing.T) {
	r, _ := newTestRouter(t, domain.DefaultPolicy())
	left := tea.Mouse{Button: tea.MouseLeft}

	r.MouseDown(domain.Coord{Col: 0, Row: 0}, left)
	if r.Grid().HasSelection() {
		t.Fatal("press alone should not select")
	}
	r.MouseMotion(domain.Coord{Col: 1, Row: 1}, left)
	assertSelection(t, r, rect(0, 0, 1, 1))
	r.MouseMotion(domain.Coord{Col: 2, Row: 2}, tea.Mouse{Button: tea.MouseNone})
	assertSelection(t, r, rect(0, 0, 1, 1))
	r.MouseUp(domain.Coord{Col: 2, Row: 1})
	assertSelection(t, r, rect(0, 0, 2, 1))
	if r.Grid().Dragging() {
		t.Fatal("expected drag to end")
	}
	if out := r.MouseMotion(domain.Coord{Col: 0, Row: 0}, left); out.Handled {
		t.Fatal("motion after release should be ignored")
	}

	r.MouseDown(domain.Coord{Col: 2, Row: 2}, tea.Mouse{Button: tea.MouseLeft, Mod: tea.ModShift})
	assertSelection(t, r, rect(0, 0, 2, 2))
}

func TestMouseClickOutside(t *testing.T) {
	r, _ := newTestRouter(t, domain.DefaultPolicy())
	r.Grid().SelectCell(1, 1)

	out := r.MouseDown(domain.Coord{Col: 2, Row: 2}, tea.Mouse{Button: tea.MouseRight})
	if !out.Menu || out.MenuTarget != (Target{Col: 2, Row: 2, HasRow: true}) {
		t.Fatalf("expected menu outcome, got %+v", out)
	}
	assertSelection(t, r, rect(2, 2, 2, 2))

	r.MouseDownOutside()
	if !r.Grid().HasSelection() {
		t.Fatal("click outside with an open menu must not deselect")
	}
	r.CloseMenu()
	r.MouseDownOutside()
	if r.Grid().HasSelection() {
		t.Fatal("expected click outside to deselect")
	}
}

func TestRightClickInsideSelectionKeepsIt(t *testing.T) {
	r, _ := newTestRouter(t, domain.DefaultPolicy())
	r.Grid().SetSelection(rect(0, 0, 2, 2))
	r.MouseDown(domain.Coord{Col: 1, Row: 1}, tea.Mouse{Button: tea.MouseRight})
	assertSelection(t, r, rect(0, 0, 2, 2))
}

func TestHeaderDownSelectsColumn(t *testing.T) {
	r, _ := newTestRouter(t, domain.DefaultPolicy())
	r.HeaderDown(1, tea.Mouse{Button: tea.MouseLeft})
	assertSelection(t, r, rect(1, 0, 1, 2))
}

func TestRebind(t *testing.T) {
	keys := NewKeyMap()
	keys.Rebind(CommandCopy, "ctrl+y", " ")
	keys.Rebind(CommandPaste)
	if got := keys.Lookup(press('y', tea.ModCtrl)); got != CommandCopy {
		t.Fatalf("Lookup(ctrl+y) = %q", got)
	}
	if got := keys.Lookup(press('c', tea.ModCtrl)); got != CommandNone {
		t.Fatalf("Lookup(ctrl+c) = %q, want unbound", got)
	}
	if got := keys.Lookup(press('v', tea.ModCtrl)); got != CommandPaste {
		t.Fatalf("Lookup(ctrl+v) = %q", got)
	}
	if keys.Hint(CommandCopy) != "ctrl+y" {
		t.Fatalf("Hint() = %q", keys.Hint(CommandCopy))
	}
	if len(keys.FullHelp()) != 4 || len(keys.ShortHelp()) == 0 {
		t.Fatal("expected help groups")
	}
}
