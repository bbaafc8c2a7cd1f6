package app

import (
	"github.com/charmbracelet/log"
	"github.com/evanschultz/tabula/internal/domain"
)

// Selector holds the rectangular selection, the edited cell, and the drag anchor.
// Every mutator silently declines out-of-range input.
type Selector struct {
	store    Store
	policy   domain.Policy
	observer Observer
	logger   *log.Logger

	sel    domain.Selection
	hasSel bool

	edited    domain.Coord
	hasEdited bool

	anchor    domain.Coord
	hasAnchor bool
}

// LastCol returns the index of the last column, or -1 for no columns.
func (s *Selector) LastCol() int {
	return len(s.store.ColumnOrder()) - 1
}

// LastRow returns the index of the last row, or -1 for no rows.
func (s *Selector) LastRow() int {
	return s.store.RowCount() - 1
}

// Selection returns the current selection.
func (s *Selector) Selection() (domain.Selection, bool) {
	return s.sel, s.hasSel
}

// EditedCell returns the cell currently in edit.
func (s *Selector) EditedCell() (domain.Coord, bool) {
	return s.edited, s.hasEdited
}

// TopLeft returns the minimum corner of the selection.
func (s *Selector) TopLeft() (domain.Coord, bool) {
	return s.sel.TopLeft(), s.hasSel
}

// BottomRight returns the maximum corner of the selection.
func (s *Selector) BottomRight() (domain.Coord, bool) {
	return s.sel.BottomRight(), s.hasSel
}

// Dragging reports whether a mouse drag anchor is active.
func (s *Selector) Dragging() bool {
	return s.hasAnchor
}

// empty reports whether the grid has no cells.
func (s *Selector) empty() bool {
	return s.LastCol() < 0 || s.LastRow() < 0
}

// inBounds reports whether c addresses an existing cell.
func (s *Selector) inBounds(c domain.Coord) bool {
	return c.Col >= 0 && c.Col <= s.LastCol() && c.Row >= 0 && c.Row <= s.LastRow()
}

// set stores sel clamped to bounds, ends any edit, and notifies on a real change.
func (s *Selector) set(sel domain.Selection) {
	if s.empty() {
		s.Deselect()
		return
	}
	sel = sel.Clamp(s.LastCol(), s.LastRow())
	changed := !s.hasSel || s.sel != sel
	s.sel = sel
	s.hasSel = true
	s.hasEdited = false
	if changed && s.observer != nil {
		s.observer.SelectionChanged(sel, true)
	}
}

// reconcile clamps the selection and edited cell after the grid shrinks.
func (s *Selector) reconcile() {
	if !s.hasSel {
		return
	}
	if s.empty() {
		s.Deselect()
		return
	}
	if s.hasEdited && !s.inBounds(s.edited) {
		s.hasEdited = false
	}
	if clamped := s.sel.Clamp(s.LastCol(), s.LastRow()); clamped != s.sel {
		s.set(clamped)
	}
}

// decline logs a silently rejected operation.
func (s *Selector) decline(op, reason string, kv ...any) {
	s.logger.Debug(op+" declined", append([]any{"reason", reason}, kv...)...)
}

// SelectCell selects the single cell at (col,row).
func (s *Selector) SelectCell(col, row int) {
	c := domain.Coord{Col: col, Row: row}
	if !s.inBounds(c) {
		s.decline("select cell", "out of range", "col", col, "row", row)
		return
	}
	s.set(domain.SingleCell(c))
}

// SelectColumn selects every row of column col.
func (s *Selector) SelectColumn(col int) {
	if s.empty() || col < 0 || col > s.LastCol() {
		s.decline("select column", "out of range", "col", col)
		return
	}
	s.set(domain.Selection{
		Start: domain.Coord{Col: col, Row: 0},
		End:   domain.Coord{Col: col, Row: s.LastRow()},
	})
}

// SelectRow selects the full row under the focus.
func (s *Selector) SelectRow() {
	if !s.hasSel {
		return
	}
	s.SelectRowAt(s.sel.End.Row)
}

// SelectRowAt selects every column of row.
func (s *Selector) SelectRowAt(row int) {
	if s.empty() || row < 0 || row > s.LastRow() {
		s.decline("select row", "out of range", "row", row)
		return
	}
	s.set(domain.Selection{
		Start: domain.Coord{Col: 0, Row: row},
		End:   domain.Coord{Col: s.LastCol(), Row: row},
	})
}

// SelectLastRow selects the last row.
func (s *Selector) SelectLastRow() {
	s.SelectRowAt(s.LastRow())
}

// SelectAll selects the whole grid.
func (s *Selector) SelectAll() {
	if s.empty() {
		return
	}
	s.set(domain.Selection{
		Start: domain.Coord{},
		End:   domain.Coord{Col: s.LastCol(), Row: s.LastRow()},
	})
}

// SetSelection replaces the selection, clamping it to bounds.
func (s *Selector) SetSelection(sel domain.Selection) {
	s.set(sel)
}

// Deselect clears the selection, the edited cell, and the drag anchor.
func (s *Selector) Deselect() {
	had := s.hasSel
	s.hasSel = false
	s.hasEdited = false
	s.hasAnchor = false
	s.sel = domain.Selection{}
	if had && s.observer != nil {
		s.observer.SelectionChanged(domain.Selection{}, false)
	}
}

// Extend moves only the focus by the delta, keeping the anchor.
func (s *Selector) Extend(colDelta, rowDelta int) {
	if !s.hasSel {
		return
	}
	s.set(domain.Selection{
		Start: s.sel.Start,
		End:   domain.Coord{Col: s.sel.End.Col + colDelta, Row: s.sel.End.Row + rowDelta},
	})
}

// Move shifts the selection by the delta. With collapse the selection first
// collapses to its focus; otherwise both corners move and clamp independently.
func (s *Selector) Move(colDelta, rowDelta int, collapse bool) {
	if !s.hasSel {
		return
	}
	if collapse {
		s.set(domain.SingleCell(domain.Coord{Col: s.sel.End.Col + colDelta, Row: s.sel.End.Row + rowDelta}))
		return
	}
	s.set(domain.Selection{
		Start: domain.Coord{Col: s.sel.Start.Col + colDelta, Row: s.sel.Start.Row + rowDelta},
		End:   domain.Coord{Col: s.sel.End.Col + colDelta, Row: s.sel.End.Row + rowDelta},
	})
}

// Step collapses to the focus and moves it by dist along axis, wrapping past
// either edge into the neighbouring line of the other axis.
func (s *Selector) Step(axis domain.Axis, dist int) {
	if !s.hasSel || s.empty() {
		return
	}
	s.set(domain.SingleCell(s.wrap(s.sel.End, axis, dist, 0)))
}

// wrap performs one wrapping step; the other axis is flipped at most once.
func (s *Selector) wrap(c domain.Coord, axis domain.Axis, dist, depth int) domain.Coord {
	limit := s.LastRow()
	if axis == domain.AxisCol {
		limit = s.LastCol()
	}
	target := c.Get(axis) + dist
	switch {
	case target < 0:
		target = limit
		if depth < 1 {
			c = s.wrap(c, axis.Other(), -1, depth+1)
		}
	case target > limit:
		target = 0
		if depth < 1 {
			c = s.wrap(c, axis.Other(), 1, depth+1)
		}
	}
	return c.With(axis, target)
}

// ConstrainToColumn collapses the column span to the anchor's column.
func (s *Selector) ConstrainToColumn() (domain.Selection, bool) {
	if !s.hasSel {
		return domain.Selection{}, false
	}
	sel := s.sel
	sel.End.Col = sel.Start.Col
	s.set(sel)
	return s.sel, true
}

// ConstrainToRow collapses the row span to the anchor's row.
func (s *Selector) ConstrainToRow() (domain.Selection, bool) {
	if !s.hasSel {
		return domain.Selection{}, false
	}
	sel := s.sel
	sel.End.Row = sel.Start.Row
	s.set(sel)
	return s.sel, true
}

// SingleSelection collapses the selection to its focus and ends any edit.
func (s *Selector) SingleSelection() (domain.Selection, bool) {
	if !s.hasSel {
		return domain.Selection{}, false
	}
	s.set(domain.SingleCell(s.sel.End))
	return s.sel, true
}

// SetEditedCell marks c as the cell in edit and selects it. It declines when
// the grid is not editable or the column is readonly.
func (s *Selector) SetEditedCell(c domain.Coord) bool {
	if !s.policy.Editable {
		s.decline("edit cell", "grid not editable")
		return false
	}
	if !s.inBounds(c) {
		s.decline("edit cell", "out of range", "col", c.Col, "row", c.Row)
		return false
	}
	if s.IsColumnReadonly(c.Col) {
		s.decline("edit cell", "readonly column", "col", c.Col)
		return false
	}
	s.set(domain.SingleCell(c))
	s.edited = c
	s.hasEdited = true
	return true
}

// SelectionStart handles a primary press on (col,row). A shift press extends the
// current selection; otherwise the cell becomes the drag anchor.
func (s *Selector) SelectionStart(col, row int, shift bool) {
	c := domain.Coord{Col: col, Row: row}
	if !s.inBounds(c) {
		return
	}
	if s.hasEdited && s.edited == c {
		return
	}
	if shift && s.hasSel {
		s.set(domain.Selection{Start: s.sel.Start, End: c})
		return
	}
	s.anchor = c
	s.hasAnchor = true
	s.hasEdited = false
}

// SelectionMove updates the drag rectangle while only the primary button is held.
func (s *Selector) SelectionMove(col, row int, primaryHeld, shift bool) {
	if !primaryHeld || shift {
		return
	}
	c := domain.Coord{Col: col, Row: row}
	if !s.inBounds(c) {
		return
	}
	s.dragTo(c)
}

// SelectionEnd finalizes the drag rectangle and clears the anchor.
func (s *Selector) SelectionEnd(col, row int) {
	if c := (domain.Coord{Col: col, Row: row}); s.inBounds(c) {
		s.dragTo(c)
	}
	s.hasAnchor = false
}

// dragTo spans the selection from the anchor to c, or starts an anchor at c.
func (s *Selector) dragTo(c domain.Coord) {
	if !s.hasAnchor {
		s.anchor = c
		s.hasAnchor = true
		return
	}
	s.set(domain.Selection{Start: s.anchor, End: c})
}

// IsColumnSelected reports whether col lies in the selection's column span.
func (s *Selector) IsColumnSelected(col int) bool {
	return s.hasSel && s.sel.ContainsCol(col)
}

// IsRowSelected reports whether row lies in the selection's row span.
func (s *Selector) IsRowSelected(row int) bool {
	return s.hasSel && s.sel.ContainsRow(row)
}

// IsSelected reports whether the cell lies in the selection.
func (s *Selector) IsSelected(col, row int) bool {
	return s.hasSel && s.sel.Contains(domain.Coord{Col: col, Row: row})
}

// IsEditedCell reports whether (col,row) is the cell in edit.
func (s *Selector) IsEditedCell(col, row int) bool {
	return s.hasEdited && s.edited == domain.Coord{Col: col, Row: row}
}

// IsColumnReadonly reports whether the column at display index col is readonly.
func (s *Selector) IsColumnReadonly(col int) bool {
	order := s.store.ColumnOrder()
	if col < 0 || col >= len(order) {
		return false
	}
	return s.policy.IsReadonly(order[col])
}

// HasSelection reports whether a selection or edited cell exists.
func (s *Selector) HasSelection() bool {
	return s.hasSel || s.hasEdited
}

// HasNoSelection reports whether neither a selection nor an edited cell exists.
func (s *Selector) HasNoSelection() bool {
	return !s.HasSelection()
}
