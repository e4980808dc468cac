package main

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

const newTabLabel = "New Tab"

// TabSession is one page-viewing slot
type TabSession struct {
	ID     string
	Label  string
	engine Engine
}

// Engine returns the tab's location handle
func (t *TabSession) Engine() Engine {
	return t.engine
}

// Info returns a snapshot of the tab for display
func (t *TabSession) Info() TabInfo {
	return TabInfo{ID: t.ID, Label: t.Label, Location: t.engine.CurrentURL()}
}

// TabInfo is a read-only view of a tab
type TabInfo struct {
	ID       string
	Label    string
	Location string
	Active   bool
}

// SessionManager owns the ordered tabs and the active index. It always holds
// at least one tab once constructed.
type SessionManager struct {
	sessions  []*TabSession
	active    int
	home      string
	newEngine EngineFactory
}

// NewSessionManager creates a manager with one tab at home
func NewSessionManager(home string, factory EngineFactory) *SessionManager {
	if factory == nil {
		factory = func() Engine { return NewMemoryEngine() }
	}
	m := &SessionManager{home: home, newEngine: factory}
	m.CreateSession(home)
	return m
}

// SetHome changes the location used for replacement and new tabs
func (m *SessionManager) SetHome(home string) {
	m.home = home
}

// CreateSession appends a tab loading initialLocation, makes it active and
// returns its id.
func (m *SessionManager) CreateSession(initialLocation string) string {
	tab := &TabSession{
		ID:     uuid.NewString(),
		Label:  newTabLabel,
		engine: m.newEngine(),
	}
	if initialLocation != "" {
		tab.engine.Load(initialLocation)
	}
	m.sessions = append(m.sessions, tab)
	m.active = len(m.sessions) - 1
	slog.Debug("tab created", "id", tab.ID, "count", len(m.sessions))
	return tab.ID
}

// CloseActive closes the active tab
func (m *SessionManager) CloseActive() {
	m.closeAt(m.active)
}

// CloseSession closes the tab with id. Unknown ids are ignored.
func (m *SessionManager) CloseSession(id string) bool {
	for i, tab := range m.sessions {
		if tab.ID == id {
			m.closeAt(i)
			return true
		}
	}
	return false
}

// CloseAt closes the tab at index. Out of range indexes are ignored.
func (m *SessionManager) CloseAt(index int) bool {
	if index < 0 || index >= len(m.sessions) {
		return false
	}
	m.closeAt(index)
	return true
}

// closeAt removes the tab at index. Closing the active tab activates the tab
// that slides into its place, or the new last tab. Closing another tab keeps
// focus on the same tab. An emptied manager gets a fresh home tab.
func (m *SessionManager) closeAt(index int) {
	tab := m.sessions[index]
	if closer, ok := tab.engine.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			slog.Warn("failed to close engine", "id", tab.ID, "error", err)
		}
	}

	m.sessions = append(m.sessions[:index], m.sessions[index+1:]...)

	switch {
	case len(m.sessions) == 0:
		m.active = 0
		m.CreateSession(m.home)
	case index < m.active:
		m.active--
	case m.active >= len(m.sessions):
		m.active = len(m.sessions) - 1
	}
	slog.Debug("tab closed", "id", tab.ID, "count", len(m.sessions), "active", m.active)
}

// FocusPrevious moves focus one tab left. It does nothing on the first tab.
func (m *SessionManager) FocusPrevious() bool {
	if m.active <= 0 {
		return false
	}
	m.active--
	return true
}

// FocusNext moves focus one tab right. It does nothing on the last tab.
func (m *SessionManager) FocusNext() bool {
	if m.active >= len(m.sessions)-1 {
		return false
	}
	m.active++
	return true
}

// Focus activates the tab at index
func (m *SessionManager) Focus(index int) bool {
	if index < 0 || index >= len(m.sessions) {
		return false
	}
	m.active = index
	return true
}

// NavigateActive loads url in the active tab and labels the tab with it
func (m *SessionManager) NavigateActive(url string) {
	tab := m.Active()
	tab.engine.Load(url)
	tab.Label = url
}

// ActiveLocation returns the active tab's current location
func (m *SessionManager) ActiveLocation() string {
	return m.Active().engine.CurrentURL()
}

// Reload reloads the active tab
func (m *SessionManager) Reload() {
	m.Active().engine.Reload()
}

// Back goes back in the active tab
func (m *SessionManager) Back() {
	m.Active().engine.Back()
}

// Forward goes forward in the active tab
func (m *SessionManager) Forward() {
	m.Active().engine.Forward()
}

// GoHome loads home in the active tab and resets its label
func (m *SessionManager) GoHome(home string) {
	tab := m.Active()
	tab.engine.Load(home)
	tab.Label = newTabLabel
}

// Active returns the active tab
func (m *SessionManager) Active() *TabSession {
	return m.sessions[m.active]
}

// ActiveIndex returns the index of the active tab
func (m *SessionManager) ActiveIndex() int {
	return m.active
}

// Len returns the number of tabs
func (m *SessionManager) Len() int {
	return len(m.sessions)
}

// Sessions returns a view of every tab in order
func (m *SessionManager) Sessions() []TabInfo {
	out := make([]TabInfo, 0, len(m.sessions))
	for i, tab := range m.sessions {
		info := tab.Info()
		info.Active = i == m.active
		out = append(out, info)
	}
	return out
}

// Restore replaces every tab with the given ones. An empty list leaves the
// manager untouched.
func (m *SessionManager) Restore(tabs []TabInfo, active int) {
	if len(tabs) == 0 {
		return
	}
	for _, tab := range m.sessions {
		if closer, ok := tab.engine.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("failed to close engine", "id", tab.ID, "error", err)
			}
		}
	}
	m.sessions = nil
	for _, info := range tabs {
		m.CreateSession(info.Location)
		if info.Label != "" {
			m.sessions[len(m.sessions)-1].Label = info.Label
		}
	}
	if !m.Focus(active) {
		m.active = len(m.sessions) - 1
	}
}
