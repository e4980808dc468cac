package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors and styles for the UI.
type Theme struct {
	// Palette, overridable from the settings file
	Window    lipgloss.Color
	EntryBG   lipgloss.Color
	EntryText lipgloss.Color
	TabBG     lipgloss.Color

	Warning lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
	Accent  lipgloss.Color

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Page        lipgloss.Style
	Entry       lipgloss.Style

	Completion         lipgloss.Style
	CompletionSelected lipgloss.Style
}

// Built-in palette, used for any color the settings leave out
var (
	defaultWindow    = lipgloss.Color("#11051E")
	defaultEntryBG   = lipgloss.Color("#271D30")
	defaultEntryText = lipgloss.Color("#01FAFA")
	defaultTabBG     = lipgloss.Color("#373702")
)

// NewTheme builds the theme from the settings colors. s may be nil.
func NewTheme(s *Settings) *Theme {
	window, entryBG, entryText, tabBG := defaultWindow, defaultEntryBG, defaultEntryText, defaultTabBG
	if s != nil {
		window = rgbColor(s.Window, window)
		entryBG = rgbColor(s.EntryBG, entryBG)
		entryText = rgbColor(s.EntryText, entryText)
		tabBG = rgbColor(s.TabBG, tabBG)
	}

	accent := lipgloss.Color("#F4DB53")

	return &Theme{
		Window:    window,
		EntryBG:   entryBG,
		EntryText: entryText,
		TabBG:     tabBG,

		Warning: lipgloss.Color("#F4DB53"),
		Error:   lipgloss.Color("#F54545"),
		Success: lipgloss.Color("#5FD75F"),
		Accent:  accent,

		TabActive: lipgloss.NewStyle().
			Background(tabBG).
			Foreground(accent).
			Bold(true).
			Padding(0, 1),
		TabInactive: lipgloss.NewStyle().
			Background(window).
			Foreground(entryText).
			Padding(0, 1),
		Page: lipgloss.NewStyle().
			Background(window).
			Foreground(entryText),
		Entry: lipgloss.NewStyle().
			Background(entryBG).
			Foreground(entryText),

		Completion: lipgloss.NewStyle().
			Background(entryBG).
			Foreground(entryText).
			Padding(0, 1),
		CompletionSelected: lipgloss.NewStyle().
			Background(entryText).
			Foreground(entryBG).
			Padding(0, 1),
	}
}

// rgbColor converts a validated RGB triple, falling back when it is unset
func rgbColor(rgb []int, fallback lipgloss.Color) lipgloss.Color {
	if len(rgb) != 3 {
		return fallback
	}
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2]))
}
