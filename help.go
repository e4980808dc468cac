package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// keysMarkdown builds the shortcut and command reference
func keysMarkdown(keymap []KeyBinding) string {
	var b strings.Builder
	b.WriteString("# sbrowser keys\n\n")
	b.WriteString("| Key | Action |\n|---|---|\n")
	for _, kb := range keymap {
		help := kb.Binding.Help()
		fmt.Fprintf(&b, "| `%s` | %s |\n", help.Key, help.Desc)
	}

	b.WriteString("\n## Commands\n\n")
	b.WriteString("| Command | Action |\n|---|---|\n")
	for _, builtin := range builtins {
		fmt.Fprintf(&b, "| `%s` | %s |\n", strings.Join(builtin.Aliases, "`, `"), builtin.Description)
	}
	fmt.Fprintf(&b, "| `%s <url or words>` | Open a URL, or search for the words |\n", tagOpen)
	fmt.Fprintf(&b, "| `%s` | Toggle a bookmark on the current page |\n", tagBookmark)
	return b.String()
}

// renderKeys renders the reference for the terminal. The raw markdown is
// returned when glamour cannot render.
func renderKeys(keymap []KeyBinding, width int) string {
	md := keysMarkdown(keymap)
	if width <= 4 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
