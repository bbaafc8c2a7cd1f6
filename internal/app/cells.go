package app

import (
	"fmt"

	"github.com/evanschultz/tabula/internal/cliptext"
	"github.com/evanschultz/tabula/internal/domain"
)

// ResetCells writes each column's default into every selected cell of non-readonly columns.
func (g *Grid) ResetCells() bool {
	const op = "reset cells"
	if !g.canEdit(op) {
		return false
	}
	if !g.hasSel {
		g.decline(op, "no selection")
		return false
	}
	sel := g.sel
	tl, br := sel.TopLeft(), sel.BottomRight()
	order := g.store.ColumnOrder()
	var keys []string
	for col := tl.Col; col <= br.Col && col < len(order); col++ {
		key := order[col]
		if g.policy.IsReadonly(key) {
			continue
		}
		if _, ok := g.store.Column(key); !ok {
			continue
		}
		def := g.policy.DefaultFor(key)
		for row := tl.Row; row <= br.Row; row++ {
			g.store.Set(key, row, def)
		}
		keys = append(keys, key)
	}
	g.emit(domain.ChangeResetCells, sel, keys...)
	return true
}

// SetCellValue coerces raw per the column type and writes it.
// Readonly columns and out-of-range cells are left untouched.
func (g *Grid) SetCellValue(col, row int, raw string) bool {
	const op = "set cell"
	if !g.canEdit(op) {
		return false
	}
	if !g.inBounds(domain.Coord{Col: col, Row: row}) {
		g.decline(op, "out of range", "col", col, "row", row)
		return false
	}
	key, _ := g.ColumnKey(col)
	if g.policy.IsReadonly(key) {
		g.decline(op, "readonly column", "key", key)
		return false
	}
	if _, ok := g.store.Column(key); !ok {
		g.decline(op, "column has no values", "key", key)
		return false
	}
	g.store.Set(key, row, g.coerce(key, raw))
	g.emit(domain.ChangeSetCell, domain.SingleCell(domain.Coord{Col: col, Row: row}), key)
	return true
}

// coerce converts raw text with the column's type, precision, and default.
func (g *Grid) coerce(key, raw string) any {
	return domain.Coerce(g.policy.TypeOf(key), g.policy.PrecisionOf(key), raw, g.policy.DefaultFor(key))
}

// EditSelected starts editing the single selected cell with ch as its initial content.
// Numeric columns only accept entry text containing one of "-0123456789.,".
func (g *Grid) EditSelected(ch string) bool {
	const op = "edit selected"
	if !g.canEdit(op) {
		return false
	}
	if g.hasEdited {
		g.decline(op, "cell already in edit")
		return false
	}
	sel, ok := g.SingleSelection()
	if !ok {
		g.decline(op, "no selection")
		return false
	}
	c := sel.End
	key, _ := g.ColumnKey(c.Col)
	if g.policy.IsReadonly(key) {
		g.decline(op, "readonly column", "key", key)
		return false
	}
	if g.policy.TypeOf(key).Basic() == domain.ColumnTypeNumber && !domain.AcceptsNumericEntry(ch) {
		g.decline(op, "not numeric entry", "key", key)
		return false
	}
	if !g.SetCellValue(c.Col, c.Row, ch) {
		return false
	}
	return g.SetEditedCell(c)
}

// CommitEdit writes raw into the edited cell and leaves edit mode.
func (g *Grid) CommitEdit(raw string) bool {
	if !g.hasEdited {
		g.decline("commit edit", "no cell in edit")
		return false
	}
	c := g.edited
	g.hasEdited = false
	return g.SetCellValue(c.Col, c.Row, raw)
}

// CancelEdit leaves edit mode without writing.
func (g *Grid) CancelEdit() {
	g.hasEdited = false
}

// RestoreCellValue writes v into a cell as-is, without coercion. Hosts use it
// to put back a value read before a cancelled edit.
func (g *Grid) RestoreCellValue(col, row int, v any) bool {
	const op = "restore cell"
	if !g.canEdit(op) {
		return false
	}
	if !g.inBounds(domain.Coord{Col: col, Row: row}) {
		g.decline(op, "out of range", "col", col, "row", row)
		return false
	}
	key, _ := g.ColumnKey(col)
	if g.policy.IsReadonly(key) {
		g.decline(op, "readonly column", "key", key)
		return false
	}
	if _, ok := g.store.Column(key); !ok {
		g.decline(op, "column has no values", "key", key)
		return false
	}
	g.store.Set(key, row, v)
	g.emit(domain.ChangeSetCell, domain.SingleCell(domain.Coord{Col: col, Row: row}), key)
	return true
}

// Copy serializes the selected rectangle in clipboard text format.
func (g *Grid) Copy() (string, bool) {
	if !g.hasSel {
		return "", false
	}
	return cliptext.Encode(g.Cells(g.sel)), true
}

// Cells formats every cell of rect as clipboard text. Missing columns or values are empty.
func (g *Grid) Cells(rect domain.Selection) [][]string {
	tl, br := rect.TopLeft(), rect.BottomRight()
	order := g.store.ColumnOrder()
	rows := make([][]string, 0, br.Row-tl.Row+1)
	for row := tl.Row; row <= br.Row; row++ {
		cells := make([]string, 0, br.Col-tl.Col+1)
		for col := tl.Col; col <= br.Col; col++ {
			if col < 0 || col >= len(order) {
				cells = append(cells, "")
				continue
			}
			key := order[col]
			v, ok := g.store.Get(key, row)
			if !ok {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, domain.FormatCell(g.policy.TypeOf(key), g.policy.PrecisionOf(key), v))
		}
		rows = append(rows, cells)
	}
	return rows
}

// CopyTo writes the selection to cb.
func (g *Grid) CopyTo(cb Clipboard) error {
	text, ok := g.Copy()
	if !ok {
		return ErrNoSelection
	}
	if cb == nil {
		return ErrClipboardUnavailable
	}
	if err := cb.WriteText(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Paste writes clipboard text starting at the selection's top-left corner.
// Columns past the last column are dropped; rows past the last row are appended
// when row adding is enabled and truncated otherwise. The pasted rectangle becomes the selection.
func (g *Grid) Paste(text string) bool {
	const op = "paste"
	if !g.canEdit(op) {
		return false
	}
	if !g.hasSel {
		g.decline(op, "no selection")
		return false
	}
	rows := cliptext.Parse(text)
	if len(rows) == 0 {
		g.decline(op, "empty clipboard")
		return false
	}
	tl := g.sel.TopLeft()
	lastCol := min(tl.Col+cliptext.Width(rows)-1, g.LastCol())
	height := len(rows)
	if missing := tl.Row + height - g.store.RowCount(); missing > 0 {
		if g.policy.AllowAddRows {
			defaults := g.rowDefaults()
			for range missing {
				g.store.InsertRow(g.store.RowCount(), defaults)
			}
		} else {
			height = g.store.RowCount() - tl.Row
		}
	}

	order := g.store.ColumnOrder()
	var keys []string
	for col := tl.Col; col <= lastCol; col++ {
		key := order[col]
		if g.policy.IsReadonly(key) {
			continue
		}
		if _, ok := g.store.Column(key); !ok {
			continue
		}
		j := col - tl.Col
		for i := range height {
			if j >= len(rows[i]) {
				continue
			}
			g.store.Set(key, tl.Row+i, g.coerce(key, rows[i][j]))
		}
		keys = append(keys, key)
	}

	rect := domain.Selection{Start: tl, End: domain.Coord{Col: lastCol, Row: tl.Row + height - 1}}
	g.set(rect)
	g.emit(domain.ChangePaste, rect, keys...)
	return true
}

// PasteFrom reads cb and pastes its text.
func (g *Grid) PasteFrom(cb Clipboard) error {
	if !g.policy.Editable {
		return ErrNotEditable
	}
	if !g.hasSel {
		return ErrNoSelection
	}
	if cb == nil {
		return ErrClipboardUnavailable
	}
	text, err := cb.ReadText()
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}
	g.Paste(text)
	return nil
}
