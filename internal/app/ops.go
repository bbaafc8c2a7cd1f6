package app

import (
	"github.com/evanschultz/tabula/internal/domain"
)

// InsertColumnAt inserts a generated column at index and selects it.
func (g *Grid) InsertColumnAt(index int) (string, bool) {
	return g.InsertColumnNamed(index, "")
}

// InsertColumnNamed inserts a column at index, asking the key namer for a unique key near base.
func (g *Grid) InsertColumnNamed(index int, base string) (string, bool) {
	const op = "insert column"
	if !g.canEditColumns(op) {
		return "", false
	}
	if index < 0 || index > g.LastCol()+1 {
		g.decline(op, "out of range", "index", index)
		return "", false
	}
	key := g.namer.UniqueKey(base, g.taken)
	if key == "" || g.taken(key) {
		g.decline(op, "no unique key", "key", key)
		return "", false
	}
	def := g.policy.DefaultFor(key)
	values := make([]any, g.store.RowCount())
	for i := range values {
		values[i] = def
	}
	g.store.InsertColumn(index, key, values)
	g.SelectColumn(index)
	g.emit(domain.ChangeInsertColumn, g.fullColumns(index, index), key)
	return key, true
}

// InsertColumn inserts a column right of the anchor's column.
func (g *Grid) InsertColumn() (string, bool) {
	return g.InsertColumnAfterSelection("")
}

// InsertColumnAfterSelection inserts a column named near base right of the anchor's column.
func (g *Grid) InsertColumnAfterSelection(base string) (string, bool) {
	if !g.canEditColumns("insert column") {
		return "", false
	}
	anchor, ok := g.anchorColumn()
	if !ok {
		g.decline("insert column", "no selection")
		return "", false
	}
	return g.InsertColumnNamed(anchor+1, base)
}

// PushColumn appends a generated column after the last column.
func (g *Grid) PushColumn() (string, bool) {
	return g.InsertColumnAt(g.LastCol() + 1)
}

// DeleteColumns removes every non-readonly column in the selection's column span.
func (g *Grid) DeleteColumns() []string {
	const op = "delete columns"
	if !g.canEditColumns(op) {
		return nil
	}
	if !g.hasSel {
		g.decline(op, "no selection")
		return nil
	}
	tl, br := g.sel.TopLeft(), g.sel.BottomRight()
	order := g.store.ColumnOrder()
	var removed []string
	for i := tl.Col; i <= br.Col && i < len(order); i++ {
		if g.policy.IsReadonly(order[i]) {
			continue
		}
		removed = append(removed, order[i])
	}
	if len(removed) == 0 {
		g.decline(op, "only readonly columns selected")
		return nil
	}
	for _, key := range removed {
		g.store.DeleteColumn(key)
	}
	g.reconcile()
	g.emit(domain.ChangeDeleteColumns, g.fullColumns(tl.Col, tl.Col), removed...)
	return removed
}

// MoveColumn swaps the anchor's column with its neighbour in direction dir and follows it.
func (g *Grid) MoveColumn(dir int) bool {
	const op = "move column"
	if !g.canEditColumns(op) {
		return false
	}
	sel, ok := g.ConstrainToColumn()
	if !ok {
		g.decline(op, "no selection")
		return false
	}
	from := sel.Start.Col
	to := from + dir
	if to < 0 || to > g.LastCol() {
		g.decline(op, "out of range", "to", to)
		return false
	}
	g.store.SwapColumns(from, to)
	g.set(domain.Selection{
		Start: domain.Coord{Col: to, Row: sel.Start.Row},
		End:   domain.Coord{Col: to, Row: sel.End.Row},
	})
	order := g.store.ColumnOrder()
	g.emit(domain.ChangeMoveColumn, g.fullColumns(min(from, to), max(from, to)), order[to], order[from])
	return true
}

// RenameColumn gives the column at index a generated key.
func (g *Grid) RenameColumn(index int) (string, bool) {
	return g.RenameColumnNamed(index, "")
}

// RenameColumnNamed renames the column at index to a unique key near base,
// carrying its values and per-column policy along.
func (g *Grid) RenameColumnNamed(index int, base string) (string, bool) {
	const op = "rename column"
	if !g.canEditColumns(op) {
		return "", false
	}
	oldKey, ok := g.ColumnKey(index)
	if !ok {
		g.decline(op, "out of range", "index", index)
		return "", false
	}
	if g.policy.IsReadonly(oldKey) {
		g.decline(op, "readonly column", "key", oldKey)
		return "", false
	}
	newKey := g.namer.UniqueKey(base, g.taken)
	if newKey == "" || g.taken(newKey) {
		g.decline(op, "no unique key", "key", newKey)
		return "", false
	}
	g.store.RenameColumn(oldKey, newKey)
	g.policy.RenameColumn(oldKey, newKey)
	g.emit(domain.ChangeRenameColumn, g.fullColumns(index, index), oldKey, newKey)
	return newKey, true
}

// RenameSelectedColumn renames the anchor's column to a unique key near base.
// The selection is constrained to that column only when the rename goes ahead.
func (g *Grid) RenameSelectedColumn(base string) (string, bool) {
	anchor, ok := g.anchorColumn()
	if !ok {
		g.decline("rename column", "no selection")
		return "", false
	}
	key, ok := g.RenameColumnNamed(anchor, base)
	if ok {
		g.ConstrainToColumn()
	}
	return key, ok
}

// anchorColumn returns the column of the selection anchor.
func (g *Grid) anchorColumn() (int, bool) {
	sel, ok := g.Selection()
	if !ok {
		return 0, false
	}
	return sel.Start.Col, true
}

// PushRow appends a row of default values without touching the selection.
func (g *Grid) PushRow() bool {
	const op = "push row"
	if !g.canEditRows(op) {
		return false
	}
	index := g.store.RowCount()
	g.store.InsertRow(index, g.rowDefaults())
	g.emit(domain.ChangeInsertRow, g.fullRows(index, index))
	return true
}

// InsertRowAt inserts a row of default values at index and moves the selection onto it.
func (g *Grid) InsertRowAt(index int) bool {
	const op = "insert row"
	if !g.canEditRows(op) {
		return false
	}
	if index < 0 || index > g.store.RowCount() {
		g.decline(op, "out of range", "index", index)
		return false
	}
	g.store.InsertRow(index, g.rowDefaults())
	if g.hasSel {
		sel := g.sel
		sel.Start.Row, sel.End.Row = index, index
		g.set(sel)
	}
	g.emit(domain.ChangeInsertRow, g.fullRows(index, index))
	return true
}

// InsertRow inserts a row below the focus row.
func (g *Grid) InsertRow() bool {
	if !g.hasSel {
		g.decline("insert row", "no selection")
		return false
	}
	return g.InsertRowAt(g.sel.End.Row + 1)
}

// DeleteRows removes the selection's row span from every column.
func (g *Grid) DeleteRows() bool {
	const op = "delete rows"
	if !g.canEditRows(op) {
		return false
	}
	if !g.hasSel {
		g.decline(op, "no selection")
		return false
	}
	start, end := g.sel.TopLeft().Row, g.sel.BottomRight().Row
	g.store.DeleteRows(start, end+1)
	switch {
	case g.empty():
		g.Deselect()
	case g.LastRow() < end:
		g.SelectLastRow()
	default:
		g.reconcile()
	}
	g.emit(domain.ChangeDeleteRows, g.fullRows(start, start))
	return true
}

// MoveRowAt swaps row index with its neighbour in direction dir.
// A selection on that row follows it.
func (g *Grid) MoveRowAt(index, dir int) bool {
	const op = "move row"
	if !g.canEditRows(op) {
		return false
	}
	to := index + dir
	if index < 0 || index > g.LastRow() || to < 0 || to > g.LastRow() {
		g.decline(op, "out of range", "index", index, "to", to)
		return false
	}
	g.store.SwapRows(index, to)
	if g.hasSel && g.sel.Start.Row == index && g.sel.End.Row == index {
		sel := g.sel
		sel.Start.Row, sel.End.Row = to, to
		g.set(sel)
	}
	g.emit(domain.ChangeMoveRow, g.fullRows(min(index, to), max(index, to)))
	return true
}

// MoveRow swaps the anchor's row with its neighbour in direction dir.
func (g *Grid) MoveRow(dir int) bool {
	if !g.canEditRows("move row") {
		return false
	}
	sel, ok := g.ConstrainToRow()
	if !ok {
		g.decline("move row", "no selection")
		return false
	}
	return g.MoveRowAt(sel.Start.Row, dir)
}
