package tui

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/log"
	"github.com/evanschultz/tabula/internal/app"
	"github.com/evanschultz/tabula/internal/domain"
	"github.com/evanschultz/tabula/internal/input"
	"github.com/mattn/go-runewidth"
)

const (
	minColumnWidth     = 3
	defaultColumnWidth = 12
	// headerY is the screen row of the column headers; cell rows follow it.
	headerY = 1
	rowsTop = 2
	// footerLines covers the status line and the bordered help footer.
	footerLines = 3
)

// inputMode identifies which component currently owns key input.
type inputMode int

const (
	modeNone inputMode = iota
	modeEdit
	modePrompt
	modeMenu
	modeHelp
)

// menuState holds an open context menu and the screen cell it was opened at.
type menuState struct {
	target input.Target
	items  []input.MenuItem
	index  int
	x      int
	y      int
}

// hitKind classifies a mouse position.
type hitKind int

const (
	hitOutside hitKind = iota
	hitHeader
	hitCell
)

// editSnapshot is the focus cell as it was before a key press could start an edit.
type editSnapshot struct {
	value any
	ok    bool
	dirty bool
}

// hit is the grid element under a mouse position.
type hit struct {
	kind  hitKind
	coord domain.Coord
}

// Model hosts one grid in a terminal program.
type Model struct {
	grid   *app.Grid
	router *input.Router
	logger *log.Logger

	sheetName string
	clipboard app.Clipboard
	keyConfig KeyConfig
	save      SaveFunc
	activity  *ActivityLog

	ready     bool
	width     int
	height    int
	status    string
	quitArmed bool

	help     help.Model
	keys     keyMap
	mode     inputMode
	markdown *markdownRenderer

	editor   textinput.Model
	editPrev editSnapshot
	prompt   textinput.Model
	menu     menuState

	colWidth  int
	offsetCol int
	offsetRow int
}

// NewModel constructs a model over grid. The first cell is selected when the
// grid has any.
func NewModel(grid *app.Grid, opts ...Option) Model {
	m := Model{
		grid:      grid,
		logger:    log.Default(),
		sheetName: "default",
		status:    "ready",
		help:      help.New(),
		keys:      newKeyMap(),
		markdown:  &markdownRenderer{},
		colWidth:  defaultColumnWidth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.keys.applyConfig(m.keyConfig)
	gridKeys := input.NewKeyMap()
	applyGridConfig(&gridKeys, m.keyConfig)
	routerOpts := []input.RouterOption{
		input.WithKeyMap(gridKeys),
		input.WithColumnPrompts(true),
		input.WithRouterLogger(m.logger),
	}
	if m.clipboard != nil {
		routerOpts = append(routerOpts, input.WithClipboard(m.clipboard))
	}
	m.router = input.NewRouter(grid, routerOpts...)

	m.editor = newModalInput("", "", "", 0)
	m.prompt = newModalInput("column: ", "name", "", 64)
	m.selectFirstCell()
	return m
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.scrollToFocus()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.PasteMsg:
		return m.handlePaste(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg.Mouse())

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg.Mouse())

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg.Mouse())

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg.Mouse())

	default:
		var cmd tea.Cmd
		switch m.mode {
		case modeEdit:
			m.editor, cmd = m.editor.Update(msg)
		case modePrompt:
			m.prompt, cmd = m.prompt.Update(msg)
		}
		return m, cmd
	}
}

// handleKey routes one key press by mode.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		if m.activity.Dirty() && !m.quitArmed {
			m.quitArmed = true
			m.status = "unsaved changes: press " + m.keys.quit.Help().Key + " again to quit"
			return m, nil
		}
		return m, tea.Quit
	}
	m.quitArmed = false

	switch m.mode {
	case modeHelp:
		if key.Matches(msg, m.keys.toggleHelp) || key.Matches(msg, m.keys.cancel) {
			m.mode = modeNone
		}
		return m, nil
	case modePrompt:
		return m.handlePromptKey(msg)
	case modeEdit:
		return m.handleEditKey(msg)
	case modeMenu:
		return m.handleMenuKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.save):
		m.saveNow()
		return m, nil
	case key.Matches(msg, m.keys.toggleHelp):
		m.mode = modeHelp
		return m, nil
	}

	if !m.grid.HasSelection() {
		m.selectFirstCell()
		m.scrollToFocus()
		return m, nil
	}

	cmd := m.router.Keys().Lookup(msg)
	prev := m.focusSnapshot()
	out := m.router.HandleKey(msg)
	if out.Err == nil && out.Handled {
		switch cmd {
		case input.CommandCopy:
			m.status = "copied"
		case input.CommandPaste:
			m.status = "pasted"
		}
	}
	return m.applyOutcome(out, prev)
}

// applyOutcome follows up on a routed event.
func (m Model) applyOutcome(out input.Outcome, prev editSnapshot) (tea.Model, tea.Cmd) {
	if out.Err != nil {
		m.status = errorStatus(out.Err)
		m.logger.Warn("grid command failed", "err", out.Err)
	}
	var cmd tea.Cmd
	switch {
	case out.Edit:
		cmd = m.startEdit(out.Seed, prev)
	case out.Prompt != input.PromptNone:
		cmd = m.startPrompt(out.Prompt)
	}
	m.scrollToFocus()
	return m, cmd
}

// errorStatus formats err for the status line.
func errorStatus(err error) string {
	if errors.Is(err, app.ErrClipboardUnavailable) {
		return "clipboard unavailable"
	}
	return "error: " + err.Error()
}

// handlePaste pastes bracketed-paste content into the editor or the grid.
func (m Model) handlePaste(msg tea.PasteMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeEdit:
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	case modePrompt:
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	case modeNone:
		if out := m.router.HandlePaste(msg); out.Handled {
			m.status = "pasted"
		}
		m.scrollToFocus()
	}
	return m, nil
}

// startEdit opens the cell editor seeded with seed. prev is restored on cancel.
func (m *Model) startEdit(seed string, prev editSnapshot) tea.Cmd {
	m.mode = modeEdit
	m.editPrev = prev
	m.editor.SetWidth(max(1, m.colWidth-1))
	m.editor.SetValue(seed)
	m.editor.CursorEnd()
	return m.editor.Focus()
}

// handleEditKey handles keys while the cell editor is open.
func (m Model) handleEditKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.cancelEdit()
		return m, nil
	case key.Matches(msg, m.keys.commit):
		m.commitEdit()
		m.grid.Step(domain.AxisRow, 1)
		m.scrollToFocus()
		return m, nil
	case key.Matches(msg, m.keys.commitNext):
		m.commitEdit()
		m.grid.Step(domain.AxisCol, 1)
		m.scrollToFocus()
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// commitEdit writes the editor value into the edited cell.
func (m *Model) commitEdit() {
	m.mode = modeNone
	m.editor.Blur()
	if _, ok := m.grid.EditedCell(); ok {
		m.grid.CommitEdit(m.editor.Value())
	}
}

// cancelEdit closes the editor and restores the value and dirty state the
// cell had before the edit began.
func (m *Model) cancelEdit() {
	m.mode = modeNone
	m.editor.Blur()
	c, ok := m.grid.EditedCell()
	if !ok {
		return
	}
	m.grid.CancelEdit()
	if !m.editPrev.ok {
		return
	}
	k, _ := m.grid.ColumnKey(c.Col)
	if cur, _ := m.grid.Store().Get(k, c.Row); !reflect.DeepEqual(cur, m.editPrev.value) {
		m.grid.RestoreCellValue(c.Col, c.Row, m.editPrev.value)
	}
	m.activity.Restore(m.editPrev.dirty)
}

// startPrompt opens the column-name prompt for p.
func (m *Model) startPrompt(p input.Prompt) tea.Cmd {
	m.mode = modePrompt
	m.prompt.SetValue("")
	switch p {
	case input.PromptRenameColumn:
		m.prompt.Prompt = "rename column: "
		if sel, ok := m.grid.Selection(); ok {
			if name, ok := m.grid.ColumnKey(sel.Start.Col); ok {
				m.prompt.SetValue(name)
				m.prompt.CursorEnd()
			}
		}
	default:
		m.prompt.Prompt = "new column: "
	}
	return m.prompt.Focus()
}

// handlePromptKey handles keys while the column-name prompt is open.
func (m Model) handlePromptKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.router.CancelPrompt()
		m.mode = modeNone
		m.prompt.Blur()
		m.status = "cancelled"
		return m, nil
	case key.Matches(msg, m.keys.menuChoose):
		name := strings.TrimSpace(m.prompt.Value())
		m.mode = modeNone
		m.prompt.Blur()
		if got, ok := m.router.CompletePrompt(name); ok {
			m.status = fmt.Sprintf("column %q", got)
		} else {
			m.status = "column unchanged"
		}
		m.scrollToFocus()
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// openMenu shows the context menu for t at screen position x,y.
func (m *Model) openMenu(t input.Target, x, y int) {
	items := m.router.ContextMenu(t)
	m.menu = menuState{target: t, items: items, x: x, y: y}
	m.menu.index = nextEnabled(items, -1, 1)
	m.mode = modeMenu
}

// closeMenu hides the context menu.
func (m *Model) closeMenu() {
	m.router.CloseMenu()
	m.mode = modeNone
}

// nextEnabled returns the next enabled item index after from in direction dir, wrapping.
func nextEnabled(items []input.MenuItem, from, dir int) int {
	n := len(items)
	for step := 1; step <= n; step++ {
		idx := ((from+dir*step)%n + n) % n
		if items[idx].Enabled {
			return idx
		}
	}
	return -1
}

// handleMenuKey handles keys while the context menu is open.
func (m Model) handleMenuKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.closeMenu()
	case key.Matches(msg, m.keys.menuUp):
		if idx := nextEnabled(m.menu.items, m.menu.index, -1); idx >= 0 {
			m.menu.index = idx
		}
	case key.Matches(msg, m.keys.menuDown):
		if idx := nextEnabled(m.menu.items, m.menu.index, 1); idx >= 0 {
			m.menu.index = idx
		}
	case key.Matches(msg, m.keys.menuChoose):
		return m.chooseMenuItem()
	}
	return m, nil
}

// chooseMenuItem runs the highlighted menu item.
func (m Model) chooseMenuItem() (tea.Model, tea.Cmd) {
	if m.menu.index < 0 || m.menu.index >= len(m.menu.items) {
		m.closeMenu()
		return m, nil
	}
	item := m.menu.items[m.menu.index]
	if !item.Enabled {
		return m, nil
	}
	m.mode = modeNone
	out := m.router.ChooseMenuItem(m.menu.target, item.Command)
	return m.applyOutcome(out, editSnapshot{})
}

// saveNow runs the save callback.
func (m *Model) saveNow() {
	if m.save == nil {
		m.status = "saving is not configured"
		return
	}
	if err := m.save(context.Background()); err != nil {
		m.status = "save failed: " + err.Error()
		m.logger.Error("save failed", "sheet", m.sheetName, "err", err)
		return
	}
	m.activity.MarkSaved()
	m.status = "saved " + m.sheetName
	m.logger.Info("sheet saved", "sheet", m.sheetName)
}

// handleMouseClick handles a button press.
func (m Model) handleMouseClick(mouse tea.Mouse) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeHelp, modePrompt:
		return m, nil
	case modeMenu:
		idx, inside := m.menuItemAt(mouse.X, mouse.Y)
		if inside {
			if idx >= 0 && mouse.Button == tea.MouseLeft {
				m.menu.index = idx
				return m.chooseMenuItem()
			}
			return m, nil
		}
		// The router still reports the menu as open, so a press outside the
		// grid closes the menu without clearing the selection.
		m.mode = modeNone
	}

	h := m.hitTest(mouse.X, mouse.Y)
	if m.mode == modeEdit {
		if h.kind == hitCell && m.grid.IsEditedCell(h.coord.Col, h.coord.Row) {
			return m, nil
		}
		m.commitEdit()
	}

	var out input.Outcome
	switch h.kind {
	case hitCell:
		out = m.router.MouseDown(h.coord, mouse)
	case hitHeader:
		out = m.router.HeaderDown(h.coord.Col, mouse)
	default:
		m.router.MouseDownOutside()
		m.router.CloseMenu()
		return m, nil
	}
	if out.Menu {
		m.openMenu(out.MenuTarget, mouse.X, mouse.Y)
	}
	return m, nil
}

// handleMouseMotion extends a drag selection.
func (m Model) handleMouseMotion(mouse tea.Mouse) (tea.Model, tea.Cmd) {
	if m.mode != modeNone || !m.grid.Dragging() {
		return m, nil
	}
	c, ok := m.cellNear(mouse.X, mouse.Y)
	if !ok {
		return m, nil
	}
	m.router.MouseMotion(c, mouse)
	m.scrollToFocus()
	return m, nil
}

// handleMouseRelease ends a drag selection.
func (m Model) handleMouseRelease(mouse tea.Mouse) (tea.Model, tea.Cmd) {
	if !m.grid.Dragging() {
		return m, nil
	}
	if c, ok := m.cellNear(mouse.X, mouse.Y); ok {
		m.router.MouseUp(c)
	}
	return m, nil
}

// handleMouseWheel scrolls the viewport without moving the selection.
func (m Model) handleMouseWheel(mouse tea.Mouse) (tea.Model, tea.Cmd) {
	store := m.grid.Store()
	switch mouse.Button {
	case tea.MouseWheelUp:
		m.offsetRow -= 3
	case tea.MouseWheelDown:
		m.offsetRow += 3
	case tea.MouseWheelLeft:
		m.offsetCol--
	case tea.MouseWheelRight:
		m.offsetCol++
	}
	m.offsetRow = clamp(m.offsetRow, 0, max(0, store.RowCount()-m.visibleRows()))
	m.offsetCol = clamp(m.offsetCol, 0, max(0, len(store.ColumnOrder())-m.visibleColumns()))
	return m, nil
}

// selectFirstCell selects the top-left cell when nothing is selected.
func (m *Model) selectFirstCell() {
	if m.grid.HasSelection() {
		return
	}
	store := m.grid.Store()
	if store.RowCount() > 0 && len(store.ColumnOrder()) > 0 {
		m.grid.SelectCell(0, 0)
	}
}

// focusSnapshot captures the stored value of the focus cell and the dirty flag.
func (m Model) focusSnapshot() editSnapshot {
	snap := editSnapshot{dirty: m.activity.Dirty()}
	sel, ok := m.grid.Selection()
	if !ok {
		return snap
	}
	k, ok := m.grid.ColumnKey(sel.End.Col)
	if !ok {
		return snap
	}
	snap.value, snap.ok = m.grid.Store().Get(k, sel.End.Row)
	return snap
}

// gutterWidth returns the width of the row-number gutter including its trailing space.
func (m Model) gutterWidth() int {
	digits := len(fmt.Sprint(m.grid.Store().RowCount()))
	return max(3, digits) + 1
}

// cellStride is the screen width of one column including its separator.
func (m Model) cellStride() int {
	return m.colWidth + 1
}

// visibleRows returns how many data rows fit on screen.
func (m Model) visibleRows() int {
	return max(1, m.height-rowsTop-footerLines)
}

// visibleColumns returns how many columns fit on screen.
func (m Model) visibleColumns() int {
	return max(1, (m.width-m.gutterWidth())/m.cellStride())
}

// hitTest maps a screen position to a header, a cell, or the outside area.
func (m Model) hitTest(x, y int) hit {
	store := m.grid.Store()
	gutter := m.gutterWidth()
	if x < gutter {
		return hit{kind: hitOutside}
	}
	slot := (x - gutter) / m.cellStride()
	if slot >= m.visibleColumns() {
		return hit{kind: hitOutside}
	}
	col := m.offsetCol + slot
	if col >= len(store.ColumnOrder()) {
		return hit{kind: hitOutside}
	}
	if y == headerY {
		return hit{kind: hitHeader, coord: domain.Coord{Col: col}}
	}
	if y < rowsTop || y >= rowsTop+m.visibleRows() {
		return hit{kind: hitOutside}
	}
	row := m.offsetRow + y - rowsTop
	if row >= store.RowCount() {
		return hit{kind: hitOutside}
	}
	return hit{kind: hitCell, coord: domain.Coord{Col: col, Row: row}}
}

// cellNear maps a screen position to the nearest cell, clamping to the grid.
func (m Model) cellNear(x, y int) (domain.Coord, bool) {
	store := m.grid.Store()
	cols, rows := len(store.ColumnOrder()), store.RowCount()
	if cols == 0 || rows == 0 {
		return domain.Coord{}, false
	}
	col := m.offsetCol + max(0, x-m.gutterWidth())/m.cellStride()
	row := m.offsetRow + y - rowsTop
	return domain.Coord{Col: clamp(col, 0, cols-1), Row: clamp(row, 0, rows-1)}, true
}

// scrollToFocus moves the viewport so the focus cell is visible.
func (m *Model) scrollToFocus() {
	store := m.grid.Store()
	vr, vc := m.visibleRows(), m.visibleColumns()
	if sel, ok := m.grid.Selection(); ok {
		focus := sel.End
		if focus.Row < m.offsetRow {
			m.offsetRow = focus.Row
		}
		if focus.Row >= m.offsetRow+vr {
			m.offsetRow = focus.Row - vr + 1
		}
		if focus.Col < m.offsetCol {
			m.offsetCol = focus.Col
		}
		if focus.Col >= m.offsetCol+vc {
			m.offsetCol = focus.Col - vc + 1
		}
	}
	m.offsetRow = clamp(m.offsetRow, 0, max(0, store.RowCount()-vr))
	m.offsetCol = clamp(m.offsetCol, 0, max(0, len(store.ColumnOrder())-vc))
}

// View handles view.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}

	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)
	dirtyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	store := m.grid.Store()
	title := titleStyle.Render("tabula") + "  " + m.sheetName
	title += statusStyle.Render(fmt.Sprintf("  %d cols × %d rows", len(store.ColumnOrder()), store.RowCount()))
	if !m.grid.Policy().Editable {
		title += statusStyle.Render("  [read-only]")
	}
	if m.activity.Dirty() {
		title += dirtyStyle.Render("  ● modified")
	}

	body := []string{title}
	body = append(body, m.renderGrid()...)
	content := fitLines(strings.Join(body, "\n"), rowsTop+m.visibleRows())

	statusLine := statusStyle.Render(m.status)
	if m.mode == modePrompt {
		statusLine = m.prompt.View()
	} else if entry, ok := m.activity.Last(); ok && (m.status == "" || m.status == "ready") {
		statusLine = statusStyle.Render(entry.Summary + " " + entry.Target)
	}

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(helpKeys{grid: m.router.Keys(), host: m.keys}))

	fullContent := content + "\n" + statusLine + "\n" + helpLine
	switch m.mode {
	case modeMenu:
		box := m.renderMenu()
		left, top := m.menuOrigin(box)
		fullContent = overlayAt(fullContent, box, left, top, max(1, m.width), max(1, m.height))
	case modeHelp:
		overlay := m.renderHelpOverlay(m.width - 8)
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, m.height))
	}

	v := tea.NewView(fullContent)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// renderGrid renders the header line and the visible rows.
func (m Model) renderGrid() []string {
	accent := lipgloss.Color("62")
	dim := lipgloss.Color("239")
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	headerSelectedStyle := headerStyle.Background(accent)
	gutterStyle := lipgloss.NewStyle().Foreground(dim)
	cellStyle := lipgloss.NewStyle()
	readonlyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle := lipgloss.NewStyle().Background(lipgloss.Color("237"))
	focusStyle := lipgloss.NewStyle().Reverse(true)

	store := m.grid.Store()
	policy := m.grid.Policy()
	order := store.ColumnOrder()
	gutter := m.gutterWidth()
	w := m.colWidth
	firstCol := m.offsetCol
	lastCol := min(len(order), firstCol+m.visibleColumns())
	sel, hasSel := m.grid.Selection()

	header := strings.Repeat(" ", gutter)
	cells := make([]string, 0, lastCol-firstCol)
	for col := firstCol; col < lastCol; col++ {
		text := runewidth.FillRight(runewidth.Truncate(order[col], w, "…"), w)
		style := headerStyle
		if m.grid.IsColumnSelected(col) {
			style = headerSelectedStyle
		}
		cells = append(cells, style.Render(text))
	}
	lines := []string{header + strings.Join(cells, " ")}

	lastRow := min(store.RowCount(), m.offsetRow+m.visibleRows())
	for row := m.offsetRow; row < lastRow; row++ {
		label := gutterStyle.Render(runewidth.FillLeft(fmt.Sprint(row+1), gutter-1)) + " "
		cells = cells[:0]
		for col := firstCol; col < lastCol; col++ {
			k := order[col]
			if m.mode == modeEdit && m.grid.IsEditedCell(col, row) {
				cells = append(cells, lipgloss.NewStyle().Width(w).MaxWidth(w).MaxHeight(1).Render(m.editor.View()))
				continue
			}
			v, _ := store.Get(k, row)
			typ := policy.TypeOf(k)
			text := runewidth.Truncate(domain.FormatCell(typ, policy.PrecisionOf(k), v), w, "…")
			if typ.Basic() == domain.ColumnTypeNumber {
				text = runewidth.FillLeft(text, w)
			} else {
				text = runewidth.FillRight(text, w)
			}
			style := cellStyle
			switch {
			case hasSel && sel.End == (domain.Coord{Col: col, Row: row}):
				style = focusStyle
			case m.grid.IsSelected(col, row):
				style = selectedStyle
			case policy.IsReadonly(k):
				style = readonlyStyle
			}
			cells = append(cells, style.Render(text))
		}
		lines = append(lines, label+strings.Join(cells, " "))
	}
	return lines
}

// renderMenu renders the context menu box.
func (m Model) renderMenu() string {
	dim := lipgloss.Color("239")
	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	disabledStyle := lipgloss.NewStyle().Foreground(dim)
	activeStyle := lipgloss.NewStyle().Reverse(true)
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	labelW, hintW := 0, 0
	for _, item := range m.menu.items {
		labelW = max(labelW, runewidth.StringWidth(item.Label))
		hintW = max(hintW, runewidth.StringWidth(item.Hint))
	}
	lines := make([]string, 0, len(m.menu.items))
	for idx, item := range m.menu.items {
		label := runewidth.FillRight(item.Label, labelW)
		hint := runewidth.FillLeft(item.Hint, hintW)
		switch {
		case !item.Enabled:
			lines = append(lines, disabledStyle.Render(label+"  "+hint))
		case idx == m.menu.index:
			lines = append(lines, activeStyle.Render(label+"  "+hint))
		default:
			lines = append(lines, itemStyle.Render(label)+"  "+hintStyle.Render(hint))
		}
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// menuOrigin places the menu box just below its anchor, kept on screen.
func (m Model) menuOrigin(box string) (int, int) {
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	return clamp(m.menu.x, 0, max(0, m.width-w)), clamp(m.menu.y+1, 0, max(0, m.height-h))
}

// menuItemAt returns the menu item under x,y and whether the point lies inside the menu box.
func (m Model) menuItemAt(x, y int) (int, bool) {
	box := m.renderMenu()
	left, top := m.menuOrigin(box)
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	if x < left || x >= left+w || y < top || y >= top+h {
		return -1, false
	}
	idx := y - top - 1
	if idx < 0 || idx >= len(m.menu.items) {
		return -1, true
	}
	return idx, true
}

// renderHelpOverlay renders the help document in a bordered box.
func (m Model) renderHelpOverlay(maxWidth int) string {
	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	width := clamp(maxWidth, 40, 100)

	doc := m.markdown.render(helpMarkdown(helpKeys{grid: m.router.Keys(), host: m.keys}), width-4)
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("tabula help"),
		fitLines(doc, max(1, m.height-6)),
		lipgloss.NewStyle().Foreground(muted).Render("press " + m.keys.toggleHelp.Help().Key + " or esc to close"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// clamp clamps v into [minV, maxV].
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay over base.
func overlayOnContent(base, overlay string, width, height int) string {
	centered := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
	return overlayAt(base, centered, 0, 0, width, height)
}

// overlayAt draws overlay over base with its top-left corner at x,y.
func overlayAt(base, overlay string, x, y, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	overlayLayer := lipgloss.NewLayer(overlay).X(x).Y(y).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}
