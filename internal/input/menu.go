package input

// Target identifies what a context menu was opened on: a cell when HasRow is
// set, otherwise the header of column Col.
type Target struct {
	Col    int
	Row    int
	HasRow bool
}

// MenuItem is one context-menu entry.
type MenuItem struct {
	Label   string
	Hint    string
	Enabled bool
	Command Command
}

// ContextMenu lists the items for t in display order. Column and row editing
// items require an editable grid and the matching add flag; selection items
// are always present. Readonly targets disable delete and rename.
func (r *Router) ContextMenu(t Target) []MenuItem {
	policy := r.grid.Policy()
	key, _ := r.grid.ColumnKey(t.Col)
	readonly := policy.IsReadonly(key)
	item := func(label string, cmd Command, enabled bool) MenuItem {
		return MenuItem{Label: label, Hint: r.keys.Hint(cmd), Enabled: enabled, Command: cmd}
	}

	items := make([]MenuItem, 0, 12)
	if policy.Editable && policy.AllowAddCols {
		items = append(items,
			item("Move Column Right", CommandMoveColumnRight, true),
			item("Move Column Left", CommandMoveColumnLeft, true),
			item("Insert Column", CommandInsertColumn, true),
			item("Delete Column", CommandDeleteColumns, !readonly),
			item("Rename Column", CommandRenameColumn, !readonly),
		)
	}
	if policy.Editable && policy.AllowAddRows {
		items = append(items,
			item("Move Row Up", CommandMoveRowUp, t.HasRow),
			item("Move Row Down", CommandMoveRowDown, t.HasRow),
			item("Insert Row", CommandInsertRow, true),
			item("Delete Row", CommandDeleteRows, t.HasRow),
		)
	}
	items = append(items,
		item("Select All", CommandSelectAll, true),
		item("Select Row", CommandSelectRow, t.HasRow),
		item("Select Column", CommandSelectColumn, true),
	)
	return items
}

// ChooseMenuItem runs cmd for the menu target and closes the menu. Column
// commands first select the target cell, or the whole column for a header
// target, so they act on the clicked column rather than the prior selection.
func (r *Router) ChooseMenuItem(t Target, cmd Command) Outcome {
	r.menuOpen = false
	g := r.grid
	focus := func() {
		if t.HasRow {
			g.SelectCell(t.Col, t.Row)
			return
		}
		g.SelectColumn(t.Col)
	}
	switch cmd {
	case CommandMoveColumnLeft, CommandMoveColumnRight, CommandInsertColumn, CommandDeleteColumns, CommandRenameColumn:
		focus()
		return r.Execute(cmd)
	case CommandMoveRowUp:
		if !t.HasRow {
			return handled(false)
		}
		return handled(g.MoveRowAt(t.Row, -1))
	case CommandMoveRowDown:
		if !t.HasRow {
			return handled(false)
		}
		return handled(g.MoveRowAt(t.Row, 1))
	case CommandInsertRow:
		if t.HasRow {
			return handled(g.InsertRowAt(t.Row + 1))
		}
		return handled(g.PushRow())
	case CommandDeleteRows:
		if !t.HasRow {
			return handled(false)
		}
		g.SelectCell(t.Col, t.Row)
		return handled(g.DeleteRows())
	case CommandSelectRow:
		if !t.HasRow {
			return handled(false)
		}
		g.SelectRowAt(t.Row)
		return handled(true)
	case CommandSelectColumn:
		g.SelectColumn(t.Col)
		return handled(true)
	default:
		return r.Execute(cmd)
	}
}
