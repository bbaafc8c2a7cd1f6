package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
	"github.com/evanschultz/tabula/internal/input"
)

// KeyConfig holds user overrides for host and clipboard bindings. Blank
// fields keep the defaults.
type KeyConfig struct {
	Quit  string
	Save  string
	Help  string
	Copy  string
	Paste string
}

// keyMap represents the host-level bindings that sit outside the grid router.
type keyMap struct {
	quit       key.Binding
	save       key.Binding
	toggleHelp key.Binding
	menuUp     key.Binding
	menuDown   key.Binding
	menuChoose key.Binding
	cancel     key.Binding
	commit     key.Binding
	commitNext key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		menuUp:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "previous item")),
		menuDown:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "next item")),
		menuChoose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		commit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit and go down")),
		commitNext: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "commit and go right")),
	}
}

// applyConfig rebinds host keys from cfg.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.quit, cfg.Quit, "ctrl+q", "quit")
	configureBinding(&k.save, cfg.Save, "ctrl+s", "save")
	configureBinding(&k.toggleHelp, cfg.Help, "?", "help")
}

// applyGridConfig rebinds the clipboard commands of the grid key map.
func applyGridConfig(grid *input.KeyMap, cfg KeyConfig) {
	if strings.TrimSpace(cfg.Copy) != "" {
		keys, _ := parseBindingKeys(cfg.Copy, "ctrl+c")
		grid.Rebind(input.CommandCopy, keys...)
	}
	if strings.TrimSpace(cfg.Paste) != "" {
		keys, _ := parseBindingKeys(cfg.Paste, "ctrl+v")
		grid.Rebind(input.CommandPaste, keys...)
	}
}

// configureBinding replaces keys and help text on b.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, help := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// parseBindingKeys turns a configured key string into matcher keys and help text.
// Single uppercase letters also match their shift+ form.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	if strings.EqualFold(raw, "space") || raw == " " {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		if unicode.IsUpper(r) {
			return []string{raw, "shift+" + string(unicode.ToLower(r))}, raw
		}
		return []string{raw}, raw
	}
	return []string{strings.ToLower(raw)}, raw
}

// helpKeys joins grid and host bindings for the help bubble.
type helpKeys struct {
	grid input.KeyMap
	host keyMap
}

// ShortHelp handles short help.
func (h helpKeys) ShortHelp() []key.Binding {
	out := h.grid.ShortHelp()
	return append(out, h.host.save, h.host.toggleHelp, h.host.quit)
}

// FullHelp handles full help.
func (h helpKeys) FullHelp() [][]key.Binding {
	out := h.grid.FullHelp()
	return append(out, []key.Binding{h.host.save, h.host.toggleHelp, h.host.quit, h.host.commit, h.host.commitNext, h.host.cancel})
}
