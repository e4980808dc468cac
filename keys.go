package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding ties a shortcut to the event it fires
type KeyBinding struct {
	Event   Event
	Binding key.Binding
}

// DefaultKeyMap returns the browsing shortcuts in display order
func DefaultKeyMap() []KeyBinding {
	bind := func(event Event, help string, keys ...string) KeyBinding {
		return KeyBinding{
			Event:   event,
			Binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help)),
		}
	}
	return []KeyBinding{
		bind(EventOpenSearch, "open url or search", "o"),
		bind(EventBookmarkSearch, "search bookmarks", "b"),
		bind(EventCmdSearch, "command line", ":"),
		bind(EventEscape, "close command line", "esc"),
		bind(EventClearHistory, "clear history", "H"),
		bind(EventToggleBookmark, "toggle bookmark", "ctrl+b"),
		bind(EventRefresh, "reload page and settings", "ctrl+r"),
		bind(EventBack, "back", "ctrl+p"),
		bind(EventForward, "forward", "ctrl+f"),
		bind(EventHome, "home", "ctrl+g"),
		bind(EventCopyLink, "copy link", "ctrl+l"),
		bind(EventNewTab, "new tab", "ctrl+t"),
		bind(EventCloseTab, "close tab", "ctrl+w"),
		bind(EventFocusLeft, "previous tab", "ctrl+left"),
		bind(EventFocusRight, "next tab", "ctrl+right"),
	}
}

// eventForKey returns the event bound to msg
func eventForKey(keymap []KeyBinding, msg tea.KeyMsg) (Event, bool) {
	for _, kb := range keymap {
		if key.Matches(msg, kb.Binding) {
			return kb.Event, true
		}
	}
	return "", false
}
