package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// StatusComponent is the status bar above the command line
type StatusComponent struct {
	Width int
	theme *Theme

	mode       string
	location   string
	bookmarked bool
	tab        int
	tabs       int
}

// NewStatusComponent creates a status bar in browse mode
func NewStatusComponent(theme *Theme) StatusComponent {
	return StatusComponent{theme: theme, mode: "BROWSE"}
}

// SetWidth updates the width of the status component
func (s *StatusComponent) SetWidth(width int) {
	s.Width = width
}

func (s *StatusComponent) SetMode(mode string) {
	s.mode = strings.ToUpper(mode)
}

// SetPage records what the active tab shows. tab is zero based.
func (s *StatusComponent) SetPage(location string, bookmarked bool, tab, tabs int) {
	s.location = location
	s.bookmarked = bookmarked
	s.tab = tab
	s.tabs = tabs
}

// View renders the status component
func (s StatusComponent) View() string {
	left := s.renderLeftSection()
	right := s.renderRightSection()

	// The location gets whatever the two ends leave over
	room := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	middle := ""
	if room > 1 && s.location != "" {
		middle = truncate.StringWithTail(s.location, uint(room), "…")
	}

	spacing := s.Width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}
	line := left + " " + middle + strings.Repeat(" ", spacing-1) + right

	return lipgloss.NewStyle().
		Foreground(s.theme.EntryText).
		Width(s.Width).
		MaxWidth(s.Width).
		Render(line)
}

// renderLeftSection renders the mode indicator
func (s StatusComponent) renderLeftSection() string {
	return lipgloss.NewStyle().Bold(true).Foreground(s.theme.Accent).Render(" " + s.mode)
}

// renderRightSection renders the bookmark mark and the tab counter
func (s StatusComponent) renderRightSection() string {
	mark := " "
	if s.bookmarked {
		mark = lipgloss.NewStyle().Foreground(s.theme.Warning).Render("★")
	}
	return fmt.Sprintf("%s [%d/%d] ", mark, s.tab+1, s.tabs)
}
