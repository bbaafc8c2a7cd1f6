package input

import (
	"github.com/evanschultz/tabula/internal/domain"
)

// Command names one grid action reachable from a key or a context-menu item.
type Command string

// Grid commands.
const (
	CommandNone            Command = ""
	CommandMoveLeft        Command = "move-left"
	CommandMoveRight       Command = "move-right"
	CommandMoveUp          Command = "move-up"
	CommandMoveDown        Command = "move-down"
	CommandExtendLeft      Command = "extend-left"
	CommandExtendRight     Command = "extend-right"
	CommandExtendUp        Command = "extend-up"
	CommandExtendDown      Command = "extend-down"
	CommandSlideLeft       Command = "slide-left"
	CommandSlideRight      Command = "slide-right"
	CommandSlideUp         Command = "slide-up"
	CommandSlideDown       Command = "slide-down"
	CommandNextRow         Command = "next-row"
	CommandPrevRow         Command = "prev-row"
	CommandNextColumn      Command = "next-column"
	CommandPrevColumn      Command = "prev-column"
	CommandSingleSelection Command = "single-selection"
	CommandSelectAll       Command = "select-all"
	CommandSelectRow       Command = "select-row"
	CommandSelectColumn    Command = "select-column"
	CommandMoveColumnLeft  Command = "move-column-left"
	CommandMoveColumnRight Command = "move-column-right"
	CommandMoveRowUp       Command = "move-row-up"
	CommandMoveRowDown     Command = "move-row-down"
	CommandInsertRow       Command = "insert-row"
	CommandInsertColumn    Command = "insert-column"
	CommandDeleteRows      Command = "delete-rows"
	CommandDeleteColumns   Command = "delete-columns"
	CommandRenameColumn    Command = "rename-column"
	CommandResetCells      Command = "reset-cells"
	CommandCopy            Command = "copy"
	CommandPaste           Command = "paste"
)

// Prompt asks the host for a column name before a command can finish.
type Prompt int

// Prompt kinds.
const (
	PromptNone Prompt = iota
	PromptRenameColumn
	PromptInsertColumn
)

// Outcome reports what a routed event did and what the host must do next.
type Outcome struct {
	Handled bool
	// Edit is set when a cell edit began; Seed is the cell's initial text.
	Edit bool
	Seed string
	// Prompt is set when the host should collect a column name and call
	// Router.CompletePrompt.
	Prompt Prompt
	// Menu is set when a context menu should open for MenuTarget.
	Menu       bool
	MenuTarget Target
	// Err carries clipboard failures from copy and paste.
	Err error
}

func handled(ok bool) Outcome {
	return Outcome{Handled: ok}
}

// Execute runs cmd against the grid.
func (r *Router) Execute(cmd Command) Outcome {
	g := r.grid
	switch cmd {
	case CommandMoveLeft:
		g.Move(-1, 0, true)
	case CommandMoveRight:
		g.Move(1, 0, true)
	case CommandMoveUp:
		g.Move(0, -1, true)
	case CommandMoveDown:
		g.Move(0, 1, true)
	case CommandExtendLeft:
		g.Extend(-1, 0)
	case CommandExtendRight:
		g.Extend(1, 0)
	case CommandExtendUp:
		g.Extend(0, -1)
	case CommandExtendDown:
		g.Extend(0, 1)
	case CommandSlideLeft:
		g.Move(-1, 0, false)
	case CommandSlideRight:
		g.Move(1, 0, false)
	case CommandSlideUp:
		g.Move(0, -1, false)
	case CommandSlideDown:
		g.Move(0, 1, false)
	case CommandNextRow:
		g.Step(domain.AxisRow, 1)
	case CommandPrevRow:
		g.Step(domain.AxisRow, -1)
	case CommandNextColumn:
		g.Step(domain.AxisCol, 1)
	case CommandPrevColumn:
		g.Step(domain.AxisCol, -1)
	case CommandSingleSelection:
		g.SingleSelection()
	case CommandSelectAll:
		g.SelectAll()
	case CommandSelectRow:
		g.SelectRow()
	case CommandSelectColumn:
		sel, ok := g.Selection()
		if !ok {
			return handled(false)
		}
		g.SelectColumn(sel.End.Col)
	case CommandMoveColumnLeft:
		g.MoveColumn(-1)
	case CommandMoveColumnRight:
		g.MoveColumn(1)
	case CommandMoveRowUp:
		g.MoveRow(-1)
	case CommandMoveRowDown:
		g.MoveRow(1)
	case CommandInsertRow:
		g.InsertRow()
	case CommandInsertColumn:
		if r.promptNames {
			return r.requestPrompt(PromptInsertColumn)
		}
		g.InsertColumn()
	case CommandDeleteRows:
		g.DeleteRows()
	case CommandDeleteColumns:
		g.DeleteColumns()
	case CommandRenameColumn:
		if r.promptNames {
			return r.requestPrompt(PromptRenameColumn)
		}
		g.RenameSelectedColumn("")
	case CommandResetCells:
		g.ResetCells()
	case CommandCopy:
		if r.clipboard == nil {
			return handled(false)
		}
		return Outcome{Handled: true, Err: g.CopyTo(r.clipboard)}
	case CommandPaste:
		if r.clipboard == nil {
			return handled(false)
		}
		return Outcome{Handled: true, Err: g.PasteFrom(r.clipboard)}
	default:
		return handled(false)
	}
	return handled(true)
}

// requestPrompt defers a naming command to the host when the grid would accept it.
func (r *Router) requestPrompt(p Prompt) Outcome {
	policy := r.grid.Policy()
	if !policy.Editable || !policy.AllowAddCols || !r.grid.HasSelection() {
		return handled(true)
	}
	if p == PromptRenameColumn {
		sel, _ := r.grid.Selection()
		if r.grid.IsColumnReadonly(sel.Start.Col) {
			return handled(true)
		}
	}
	r.pending = p
	return Outcome{Handled: true, Prompt: p}
}

// PendingPrompt returns the prompt awaiting a name, if any.
func (r *Router) PendingPrompt() Prompt {
	return r.pending
}

// CompletePrompt finishes the pending naming command with name. An empty name
// cancels, matching a dismissed prompt.
func (r *Router) CompletePrompt(name string) (string, bool) {
	p := r.pending
	r.pending = PromptNone
	if name == "" {
		return "", false
	}
	switch p {
	case PromptRenameColumn:
		return r.grid.RenameSelectedColumn(name)
	case PromptInsertColumn:
		return r.grid.InsertColumnAfterSelection(name)
	default:
		return "", false
	}
}

// CancelPrompt drops the pending naming command.
func (r *Router) CancelPrompt() {
	r.pending = PromptNone
}
