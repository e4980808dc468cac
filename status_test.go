package main

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestStatusComponentView(t *testing.T) {
	s := NewStatusComponent(NewTheme(nil))
	s.SetWidth(60)
	s.SetPage("https://a.com", false, 1, 3)

	view := s.View()
	assert.Contains(t, view, "BROWSE")
	assert.Contains(t, view, "https://a.com")
	assert.Contains(t, view, "[2/3]")
	assert.NotContains(t, view, "★")
	assert.Equal(t, 60, lipgloss.Width(view))

	s.SetMode("command")
	s.SetPage("https://a.com", true, 0, 1)
	view = s.View()
	assert.Contains(t, view, "COMMAND")
	assert.Contains(t, view, "★")
}

func TestStatusComponentTruncatesLocation(t *testing.T) {
	s := NewStatusComponent(NewTheme(nil))
	s.SetWidth(40)
	s.SetPage("https://example.org/"+strings.Repeat("x", 100), false, 0, 1)

	view := s.View()
	assert.Contains(t, view, "…")
	assert.LessOrEqual(t, lipgloss.Width(view), 40)
}

func TestNewThemeColors(t *testing.T) {
	theme := NewTheme(&Settings{Window: []int{1, 2, 255}})
	assert.Equal(t, lipgloss.Color("#0102FF"), theme.Window)
	assert.Equal(t, lipgloss.Color("#271D30"), theme.EntryBG)

	defaults := NewTheme(nil)
	assert.Equal(t, lipgloss.Color("#11051E"), defaults.Window)
	assert.Equal(t, lipgloss.Color("#01FAFA"), defaults.EntryText)
}
