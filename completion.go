package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// BuildCandidates concatenates builtins, bookmarks and history in that order.
// Each source keeps its own order; nothing is sorted or deduplicated, so an
// entry in both bookmarks and history shows up twice.
func BuildCandidates(builtins, bookmarks, history []string) []string {
	out := make([]string, 0, len(builtins)+len(bookmarks)+len(history))
	out = append(out, builtins...)
	out = append(out, bookmarks...)
	out = append(out, history...)
	return out
}

// FilterCandidates keeps the candidates containing prefix, case-sensitively,
// in their original order.
func FilterCandidates(prefix string, candidates []string) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if strings.Contains(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// withTag formats stored targets the way the command line shows them
func withTag(tag string, targets []string) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, tag+" "+t)
	}
	return out
}

const maxCompletionRows = 8

// CompletionDialog renders the filtered candidates under the command line
type CompletionDialog struct {
	options  []string
	selected int
	visible  bool
	width    int
}

// NewCompletionDialog creates a hidden dialog
func NewCompletionDialog() CompletionDialog {
	return CompletionDialog{selected: -1}
}

// SetOptions replaces the options and clears the selection
func (c *CompletionDialog) SetOptions(options []string) {
	c.options = options
	c.selected = -1
}

// Options returns the current options
func (c CompletionDialog) Options() []string {
	return c.options
}

func (c *CompletionDialog) Show() {
	c.visible = true
}

func (c *CompletionDialog) Hide() {
	c.visible = false
	c.selected = -1
}

// Visible reports whether the dialog is shown and has something to show
func (c CompletionDialog) Visible() bool {
	return c.visible && len(c.options) > 0
}

func (c *CompletionDialog) SetWidth(width int) {
	c.width = width
}

// SelectNext moves the selection down, stopping at the last option
func (c *CompletionDialog) SelectNext() {
	if len(c.options) == 0 {
		return
	}
	if c.selected < len(c.options)-1 {
		c.selected++
	}
}

// SelectPrev moves the selection up, stopping at the first option
func (c *CompletionDialog) SelectPrev() {
	if c.selected > 0 {
		c.selected--
	}
}

// GetSelected returns the selected option or "" when nothing is selected
func (c CompletionDialog) GetSelected() string {
	if c.selected < 0 || c.selected >= len(c.options) {
		return ""
	}
	return c.options[c.selected]
}

// View renders a window of options around the selection
func (c CompletionDialog) View(theme *Theme) string {
	if !c.Visible() {
		return ""
	}

	start := 0
	if c.selected >= maxCompletionRows {
		start = c.selected - maxCompletionRows + 1
	}
	end := start + maxCompletionRows
	if end > len(c.options) {
		end = len(c.options)
	}

	width := c.width
	if width <= 2 {
		width = 80
	}

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		text := truncate.StringWithTail(c.options[i], uint(width-2), "…")
		style := theme.Completion
		if i == c.selected {
			style = theme.CompletionSelected
		}
		rows = append(rows, style.Width(width).Render(text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
