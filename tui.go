package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	maxTabLabelWidth = 24
	toastTick        = 500 * time.Millisecond
)

// noticeQueue collects router notices until the UI shows them
type noticeQueue struct {
	mu    sync.Mutex
	items []Notice
}

func newNoticeQueue() *noticeQueue {
	return &noticeQueue{}
}

// Notify implements Notifier
func (q *noticeQueue) Notify(n Notice) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, n)
}

// Drain returns and forgets the queued notices
func (q *noticeQueue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// quitSignal is the Host of the terminal shell. The model turns a shutdown
// request into tea.Quit after the current event.
type quitSignal struct {
	requested atomic.Bool
}

func newQuitSignal() *quitSignal {
	return &quitSignal{}
}

// Shutdown implements Host
func (q *quitSignal) Shutdown() {
	q.requested.Store(true)
}

// Requested reports whether shutdown was asked for
func (q *quitSignal) Requested() bool {
	return q.requested.Load()
}

type toastTickMsg struct{}

// TUIModel is the bubbletea model of the browser shell
type TUIModel struct {
	router      *Router
	keymap      []KeyBinding
	theme       *Theme
	commandLine *CommandLineComponent
	completions CompletionDialog
	status      StatusComponent
	notices     *noticeQueue
	host        *quitSignal
	ticking     bool

	width  int
	height int
}

// NewTUIModel creates the model around a router
func NewTUIModel(router *Router, notices *noticeQueue, host *quitSignal, theme *Theme) *TUIModel {
	if theme == nil {
		theme = NewTheme(nil)
	}
	return &TUIModel{
		router:      router,
		keymap:      DefaultKeyMap(),
		theme:       theme,
		commandLine: NewCommandLineComponent(theme),
		completions: NewCompletionDialog(),
		status:      NewStatusComponent(theme),
		notices:     notices,
		host:        host,
	}
}

// Init implements bubbletea.Model
func (m TUIModel) Init() tea.Cmd {
	return nil
}

// Update implements bubbletea.Model
func (m TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.commandLine.SetWidth(msg.Width)
		m.completions.SetWidth(msg.Width)
		m.status.SetWidth(msg.Width)
		return m, nil

	case toastTickMsg:
		m.commandLine.Update()
		if len(m.commandLine.Toasts()) == 0 {
			m.ticking = false
			return m, nil
		}
		return m, tickToasts()

	case commandReadyMsg:
		cmd := m.router.Submit(msg.command)
		m.completions.Hide()
		slog.Debug("command dispatched", "kind", cmd.Kind)
		return m.afterRouter()

	case commandCancelledMsg:
		m.router.Cancel()
		m.completions.Hide()
		return m, nil

	case commandTextChangedMsg:
		m.updateCompletions()
		return m, nil

	case navigateCompletionMsg:
		if msg.direction > 0 {
			m.completions.SelectNext()
		} else {
			m.completions.SelectPrev()
		}
		return m, nil

	case acceptCompletionMsg:
		m.acceptCompletion()
		return m, nil
	}
	return m, nil
}

func (m TUIModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.router.Quit()
		return m.afterRouter()
	}

	if m.commandLine.IsInCommandMode() {
		// Enter on a highlighted completion submits that completion
		if msg.Type == tea.KeyEnter {
			if selected := m.completions.GetSelected(); selected != "" {
				m.commandLine.SetCommand(selected)
			}
		}
		if cmd, handled := m.commandLine.HandleKey(msg); handled {
			return m, cmd
		}
	}

	event, ok := eventForKey(m.keymap, msg)
	if !ok {
		return m, nil
	}
	return m.handleEvent(event)
}

// handleEvent runs a shortcut through the router and mirrors the resulting
// router state in the command line.
func (m TUIModel) handleEvent(event Event) (tea.Model, tea.Cmd) {
	slog.Debug("shortcut", "event", event)
	before := m.router.Overlay()
	m.router.HandleEvent(event)

	// Only an overlay this event opened is mirrored. A rejected open leaves
	// the previous one in place.
	if overlay := m.router.Overlay(); overlay != nil && overlay != before && !m.commandLine.IsInCommandMode() {
		m.commandLine.Open(overlay.Prefill)
		m.updateCompletions()
	}
	if m.router.State() == RouterIdle && m.commandLine.IsInCommandMode() {
		m.commandLine.Close()
		m.completions.Hide()
	}
	return m.afterRouter()
}

// afterRouter shows queued notices and honours a shutdown request
func (m TUIModel) afterRouter() (tea.Model, tea.Cmd) {
	if m.host != nil && m.host.Requested() {
		return m, tea.Quit
	}
	if m.notices == nil {
		return m, nil
	}
	notices := m.notices.Drain()
	for _, n := range notices {
		m.commandLine.AddToast(n.Message, n.Level)
	}
	if len(notices) > 0 && !m.ticking {
		m.ticking = true
		return m, tickToasts()
	}
	return m, nil
}

func tickToasts() tea.Cmd {
	return tea.Tick(toastTick, func(time.Time) tea.Msg { return toastTickMsg{} })
}

// updateCompletions refilters the overlay candidates for the typed text
func (m *TUIModel) updateCompletions() {
	options := m.router.Filter(m.commandLine.GetCommand())
	m.completions.SetOptions(options)
	if len(options) == 0 {
		m.completions.Hide()
		return
	}
	m.completions.Show()
}

// acceptCompletion copies the highlighted candidate, or the first one, into
// the command line.
func (m *TUIModel) acceptCompletion() {
	selected := m.completions.GetSelected()
	if selected == "" {
		options := m.completions.Options()
		if len(options) == 0 {
			return
		}
		selected = options[0]
	}
	m.commandLine.SetCommand(selected)
	m.updateCompletions()
}

// View implements bubbletea.Model
func (m TUIModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	tabs := m.router.Tabs()
	location := tabs.ActiveLocation()
	m.status.SetPage(location, m.router.IsBookmarked(location), tabs.ActiveIndex(), tabs.Len())
	if m.commandLine.IsInCommandMode() {
		m.status.SetMode("command")
	} else {
		m.status.SetMode("browse")
	}

	tabBar := m.renderTabBar()
	statusBar := m.status.View()
	commandLine := m.commandLine.View()
	dialog := m.completions.View(m.theme)

	pageHeight := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar) - 1
	if dialog != "" {
		pageHeight -= lipgloss.Height(dialog)
	}
	if pageHeight < 0 {
		pageHeight = 0
	}

	parts := []string{tabBar, m.renderPage(pageHeight)}
	if dialog != "" {
		parts = append(parts, dialog)
	}
	parts = append(parts, statusBar, commandLine)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m TUIModel) renderTabBar() string {
	tabs := m.router.Tabs().Sessions()
	cells := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		label := truncate.StringWithTail(tab.Label, maxTabLabelWidth, "…")
		style := m.theme.TabInactive
		if tab.Active {
			style = m.theme.TabActive
		}
		cells = append(cells, style.Render(label))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	return truncate.String(bar, uint(m.width))
}

func (m TUIModel) renderPage(height int) string {
	tabs := m.router.Tabs()
	location := tabs.ActiveLocation()
	if location == "" {
		location = "about:blank"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", tabs.Active().Label)
	fmt.Fprintf(&b, "  %s\n", location)
	fmt.Fprintf(&b, "\n  tab %d of %d", tabs.ActiveIndex()+1, tabs.Len())
	return m.theme.Page.Width(m.width).Height(height).Render(b.String())
}
