package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders markdown for terminal views and recreates the renderer when wrap width changes.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render converts markdown input into ANSI-styled terminal text with the requested wrap width.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrapWidth := max(width, 24)
	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}

// helpMarkdown builds the help document from the active bindings.
func helpMarkdown(keys helpKeys) string {
	var b strings.Builder
	b.WriteString("# Keys\n\n")
	b.WriteString("| key | action |\n|---|---|\n")
	for _, group := range keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			if h.Key == "" {
				continue
			}
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\n# Mouse\n\n")
	b.WriteString("- click a cell to select it; shift+click extends from the anchor\n")
	b.WriteString("- drag to select a rectangle\n")
	b.WriteString("- click a header to select its column\n")
	b.WriteString("- right-click for the context menu\n")
	b.WriteString("- click outside the grid to clear the selection\n")
	b.WriteString("\n# Editing\n\n")
	b.WriteString("Typing a letter, digit, `-`, `.` or `,` starts editing the focused cell. ")
	b.WriteString("Numeric columns only accept digits, sign and separators.\n")
	return b.String()
}
