package input

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
)

// binding pairs a key binding with the command it triggers.
type binding struct {
	key     key.Binding
	command Command
}

// KeyMap holds the grid key bindings in match order. Modified keys come
// before their plain forms so "ctrl+enter" never falls through to "enter".
type KeyMap struct {
	bindings []binding
}

// NewKeyMap constructs the default grid key map.
func NewKeyMap() KeyMap {
	nb := func(cmd Command, help, desc string, keys ...string) binding {
		return binding{
			key:     key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc)),
			command: cmd,
		}
	}
	return KeyMap{bindings: []binding{
		nb(CommandMoveColumnLeft, "ctrl+←", "move column left", "ctrl+left"),
		nb(CommandMoveColumnRight, "ctrl+→", "move column right", "ctrl+right"),
		nb(CommandMoveRowUp, "ctrl+↑", "move row up", "ctrl+up"),
		nb(CommandMoveRowDown, "ctrl+↓", "move row down", "ctrl+down"),
		nb(CommandExtendLeft, "shift+←", "extend left", "shift+left"),
		nb(CommandExtendRight, "shift+→", "extend right", "shift+right"),
		nb(CommandExtendUp, "shift+↑", "extend up", "shift+up"),
		nb(CommandExtendDown, "shift+↓", "extend down", "shift+down"),
		nb(CommandSlideLeft, "alt+←", "slide left", "alt+left"),
		nb(CommandSlideRight, "alt+→", "slide right", "alt+right"),
		nb(CommandSlideUp, "alt+↑", "slide up", "alt+up"),
		nb(CommandSlideDown, "alt+↓", "slide down", "alt+down"),
		nb(CommandMoveLeft, "←", "left", "left"),
		nb(CommandMoveRight, "→", "right", "right"),
		nb(CommandMoveUp, "↑", "up", "up"),
		nb(CommandMoveDown, "↓", "down", "down"),
		nb(CommandDeleteColumns, "ctrl+shift+del", "delete columns", "ctrl+shift+delete"),
		nb(CommandDeleteRows, "ctrl+del", "delete rows", "ctrl+delete"),
		nb(CommandResetCells, "del", "reset cells", "delete", "backspace"),
		nb(CommandInsertColumn, "ctrl+shift+enter", "insert column", "ctrl+shift+enter"),
		nb(CommandInsertRow, "ctrl+enter", "insert row", "ctrl+enter"),
		nb(CommandPrevRow, "shift+enter", "previous row", "shift+enter"),
		nb(CommandNextRow, "enter", "next row", "enter"),
		nb(CommandSingleSelection, "esc", "single cell", "esc"),
		nb(CommandPrevColumn, "shift+tab", "previous column", "shift+tab"),
		nb(CommandNextColumn, "tab", "next column", "tab"),
		nb(CommandSelectAll, "ctrl+a", "select all", "ctrl+a"),
		nb(CommandSelectColumn, "ctrl+shift+space", "select column", "ctrl+shift+space"),
		nb(CommandSelectRow, "ctrl+space", "select row", "ctrl+space", "ctrl+@"),
		nb(CommandRenameColumn, "alt+r", "rename column", "alt+r"),
		nb(CommandCopy, "ctrl+c", "copy", "ctrl+c"),
		nb(CommandPaste, "ctrl+v", "paste", "ctrl+v"),
	}}
}

// Rebind replaces the keys of cmd. Blank keys leave the binding unchanged.
func (k *KeyMap) Rebind(cmd Command, keys ...string) {
	cleaned := make([]string, 0, len(keys))
	for _, raw := range keys {
		if v := strings.TrimSpace(strings.ToLower(raw)); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return
	}
	for i := range k.bindings {
		if k.bindings[i].command != cmd {
			continue
		}
		desc := k.bindings[i].key.Help().Desc
		k.bindings[i].key = key.NewBinding(key.WithKeys(cleaned...), key.WithHelp(cleaned[0], desc))
	}
}

// Lookup returns the first command whose binding matches the key event.
func (k KeyMap) Lookup(msg fmt.Stringer) Command {
	for _, b := range k.bindings {
		if key.Matches(msg, b.key) {
			return b.command
		}
	}
	return CommandNone
}

// Binding returns the key binding for cmd.
func (k KeyMap) Binding(cmd Command) (key.Binding, bool) {
	for _, b := range k.bindings {
		if b.command == cmd {
			return b.key, true
		}
	}
	return key.Binding{}, false
}

// ShortHelp returns the bindings shown in the compact help footer.
func (k KeyMap) ShortHelp() []key.Binding {
	out := make([]key.Binding, 0, 6)
	for _, cmd := range []Command{CommandNextRow, CommandNextColumn, CommandSelectAll, CommandResetCells, CommandCopy, CommandPaste} {
		if b, ok := k.Binding(cmd); ok {
			out = append(out, b)
		}
	}
	return out
}

// FullHelp groups every binding for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	groups := [][]Command{
		{CommandMoveLeft, CommandMoveRight, CommandMoveUp, CommandMoveDown, CommandNextRow, CommandPrevRow, CommandNextColumn, CommandPrevColumn},
		{CommandExtendLeft, CommandExtendRight, CommandExtendUp, CommandExtendDown, CommandSlideLeft, CommandSlideRight, CommandSlideUp, CommandSlideDown},
		{CommandSingleSelection, CommandSelectAll, CommandSelectRow, CommandSelectColumn, CommandCopy, CommandPaste, CommandResetCells},
		{CommandInsertRow, CommandInsertColumn, CommandDeleteRows, CommandDeleteColumns, CommandMoveColumnLeft, CommandMoveColumnRight, CommandMoveRowUp, CommandMoveRowDown, CommandRenameColumn},
	}
	out := make([][]key.Binding, 0, len(groups))
	for _, group := range groups {
		row := make([]key.Binding, 0, len(group))
		for _, cmd := range group {
			if b, ok := k.Binding(cmd); ok {
				row = append(row, b)
			}
		}
		out = append(out, row)
	}
	return out
}

// Hint returns the help key for cmd, used as a menu item's key hint.
func (k KeyMap) Hint(cmd Command) string {
	if b, ok := k.Binding(cmd); ok {
		return b.Help().Key
	}
	return ""
}
