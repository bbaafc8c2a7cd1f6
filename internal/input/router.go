package input

import (
	"regexp"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"
	"github.com/evanschultz/tabula/internal/app"
	"github.com/evanschultz/tabula/internal/domain"
)

// editEntryPattern matches the single keys that begin a cell edit.
var editEntryPattern = regexp.MustCompile(`^[-a-zA-Z0-9.,]$`)

// Router translates terminal key, mouse and paste messages into grid calls.
// It keeps the context-menu flag that suppresses click-outside deselection.
type Router struct {
	grid        *app.Grid
	keys        KeyMap
	clipboard   app.Clipboard
	logger      *log.Logger
	promptNames bool
	pending     Prompt
	menuOpen    bool
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithKeyMap replaces the default key map.
func WithKeyMap(keys KeyMap) RouterOption {
	return func(r *Router) {
		r.keys = keys
	}
}

// WithClipboard sets the clipboard used by the copy and paste commands.
func WithClipboard(cb app.Clipboard) RouterOption {
	return func(r *Router) {
		r.clipboard = cb
	}
}

// WithColumnPrompts makes insert-column and rename-column ask the host for a
// name instead of generating one.
func WithColumnPrompts(enabled bool) RouterOption {
	return func(r *Router) {
		r.promptNames = enabled
	}
}

// WithRouterLogger sets the logger for routed-event diagnostics.
func WithRouterLogger(logger *log.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRouter constructs a router over grid.
func NewRouter(grid *app.Grid, opts ...RouterOption) *Router {
	r := &Router{
		grid:   grid,
		keys:   NewKeyMap(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Grid returns the routed grid.
func (r *Router) Grid() *app.Grid {
	return r.grid
}

// Keys returns the active key map.
func (r *Router) Keys() KeyMap {
	return r.keys
}

// HandleKey routes one key press. Keys are ignored while nothing is selected.
func (r *Router) HandleKey(msg tea.KeyPressMsg) Outcome {
	if !r.grid.HasSelection() {
		return handled(false)
	}
	if cmd := r.keys.Lookup(msg); cmd != CommandNone {
		r.logger.Debug("key routed", "key", msg.String(), "command", string(cmd))
		return r.Execute(cmd)
	}
	k := msg.Key()
	if k.Mod.Contains(tea.ModCtrl) || k.Mod.Contains(tea.ModAlt) || k.Mod.Contains(tea.ModMeta) || k.Mod.Contains(tea.ModSuper) {
		return handled(false)
	}
	if !editEntryPattern.MatchString(k.Text) {
		return handled(false)
	}
	if !r.grid.EditSelected(k.Text) {
		return handled(true)
	}
	return Outcome{Handled: true, Edit: true, Seed: k.Text}
}

// HandlePaste pastes bracketed-paste content at the selection.
func (r *Router) HandlePaste(msg tea.PasteMsg) Outcome {
	if !r.grid.HasSelection() {
		return handled(false)
	}
	return handled(r.grid.Paste(msg.Content))
}

// MouseDown handles a press on cell c. A right press opens the context menu
// for the cell, selecting it first when it lies outside the selection.
func (r *Router) MouseDown(c domain.Coord, m tea.Mouse) Outcome {
	switch m.Button {
	case tea.MouseLeft:
		r.menuOpen = false
		r.grid.SelectionStart(c.Col, c.Row, m.Mod.Contains(tea.ModShift))
		return handled(true)
	case tea.MouseRight:
		return r.OpenMenu(Target{Col: c.Col, Row: c.Row, HasRow: true})
	default:
		return handled(false)
	}
}

// MouseMotion handles pointer motion over cell c.
func (r *Router) MouseMotion(c domain.Coord, m tea.Mouse) Outcome {
	if !r.grid.Dragging() {
		return handled(false)
	}
	r.grid.SelectionMove(c.Col, c.Row, m.Button == tea.MouseLeft, m.Mod.Contains(tea.ModShift))
	return handled(true)
}

// MouseUp finalizes a drag on cell c.
func (r *Router) MouseUp(c domain.Coord) Outcome {
	if !r.grid.Dragging() {
		return handled(false)
	}
	r.grid.SelectionEnd(c.Col, c.Row)
	return handled(true)
}

// HeaderDown handles a press on column header col.
func (r *Router) HeaderDown(col int, m tea.Mouse) Outcome {
	switch m.Button {
	case tea.MouseLeft:
		r.menuOpen = false
		r.grid.SelectColumn(col)
		return handled(true)
	case tea.MouseRight:
		return r.OpenMenu(Target{Col: col})
	default:
		return handled(false)
	}
}

// MouseDownOutside handles a press outside the grid. It deselects unless a
// context menu is open.
func (r *Router) MouseDownOutside() Outcome {
	if r.menuOpen {
		return handled(false)
	}
	r.grid.Deselect()
	return handled(true)
}

// OpenMenu marks the context menu open for t.
func (r *Router) OpenMenu(t Target) Outcome {
	if _, ok := r.grid.ColumnKey(t.Col); !ok {
		return handled(false)
	}
	if t.HasRow && !r.grid.IsSelected(t.Col, t.Row) {
		r.grid.SelectCell(t.Col, t.Row)
	}
	r.menuOpen = true
	return Outcome{Handled: true, Menu: true, MenuTarget: t}
}

// CloseMenu clears the context-menu flag.
func (r *Router) CloseMenu() {
	r.menuOpen = false
}

// MenuOpen reports whether a context menu interaction is in progress.
func (r *Router) MenuOpen() bool {
	return r.menuOpen
}
