package main

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/afittestide/sbrowser/storage"
)

// RouterState is the modal state of the command router
type RouterState int

const (
	RouterIdle RouterState = iota
	RouterOverlayOpen
)

func (s RouterState) String() string {
	if s == RouterOverlayOpen {
		return "overlay-open"
	}
	return "idle"
}

// OverlayMode selects the prefill of the command line overlay
type OverlayMode int

const (
	OverlayOpen OverlayMode = iota
	OverlayBookmark
	OverlayCommand
)

// Prefill returns the text the overlay starts with
func (m OverlayMode) Prefill() string {
	switch m {
	case OverlayOpen:
		return tagOpen + " "
	case OverlayBookmark:
		return tagBookmark + " "
	default:
		return ":"
	}
}

// SearchOverlayState is the open overlay. It lives until submit or cancel.
type SearchOverlayState struct {
	Mode       OverlayMode
	Prefill    string
	Candidates []string
}

// ErrOverlayOpen is returned when an overlay is requested while one is open
var ErrOverlayOpen = errors.New("overlay already open")

// NoticeLevel grades a user-facing notice
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient message for the user
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Notifier shows notices to the user
type Notifier interface {
	Notify(Notice)
}

// Clipboard receives copied links
type Clipboard interface {
	WriteAll(text string) error
}

// SnapshotSaver persists the tab layout in the background
type SnapshotSaver interface {
	QueueSnapshot(tabs []TabInfo, active int)
}

// Host owns the window and ends the process
type Host interface {
	Shutdown()
}

// Event names a shortcut delivered by the key dispatcher
type Event string

const (
	EventOpenSearch     Event = "open-search"
	EventBookmarkSearch Event = "bookmark-search"
	EventCmdSearch      Event = "cmd-search"
	EventEscape         Event = "escape"
	EventToggleBookmark Event = "toggle-bookmark"
	EventRefresh        Event = "refresh"
	EventBack           Event = "back"
	EventForward        Event = "forward"
	EventHome           Event = "home"
	EventCopyLink       Event = "copy-link"
	EventNewTab         Event = "new-tab"
	EventCloseTab       Event = "close-tab"
	EventFocusLeft      Event = "focus-left"
	EventFocusRight     Event = "focus-right"
	EventClearHistory   Event = "clear-history"
)

// RouterConfig carries the router's collaborators. Notifier, Clipboard,
// Snapshots and Host may be nil.
type RouterConfig struct {
	Tabs      *SessionManager
	History   *storage.LineLog
	Bookmarks *storage.LineLog
	Settings  SettingsSource
	ConfigDir string
	Notifier  Notifier
	Clipboard Clipboard
	Snapshots SnapshotSaver
	Host      Host
}

// Router interprets submitted command lines and shortcut events and routes
// them to the tabs and the two logs.
type Router struct {
	mu sync.Mutex

	state   RouterState
	overlay *SearchOverlayState

	tabs      *SessionManager
	history   *storage.LineLog
	bookmarks *storage.LineLog

	historyEntries  []string
	bookmarkEntries []string

	settings  SettingsSource
	configDir string
	parser    *CommandParser

	notifier  Notifier
	clipboard Clipboard
	snapshots SnapshotSaver
	host      Host
}

// NewRouter creates an idle router and loads both logs
func NewRouter(cfg RouterConfig) *Router {
	r := &Router{
		state:     RouterIdle,
		tabs:      cfg.Tabs,
		history:   cfg.History,
		bookmarks: cfg.Bookmarks,
		settings:  cfg.Settings,
		configDir: cfg.ConfigDir,
		notifier:  cfg.Notifier,
		clipboard: cfg.Clipboard,
		snapshots: cfg.Snapshots,
		host:      cfg.Host,
	}
	r.applySettings()
	r.historyEntries = r.reload(r.history)
	r.bookmarkEntries = r.reload(r.bookmarks)
	return r
}

// State returns the current modal state
func (r *Router) State() RouterState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Overlay returns the open overlay, or nil when idle
func (r *Router) Overlay() *SearchOverlayState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlay
}

// History returns a copy of the in-memory history
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.historyEntries)
}

// Bookmarks returns a copy of the in-memory bookmarks
func (r *Router) Bookmarks() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.bookmarkEntries)
}

// IsBookmarked reports whether location is in the bookmarks
func (r *Router) IsBookmarked(location string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return location != "" && slices.Contains(r.bookmarkEntries, location)
}

// Tabs returns the session manager the router drives
func (r *Router) Tabs() *SessionManager {
	return r.tabs
}

// OpenOverlay moves to OverlayOpen with fresh candidates for mode
func (r *Router) OpenOverlay(mode OverlayMode) (*SearchOverlayState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == RouterOverlayOpen {
		return nil, ErrOverlayOpen
	}

	r.overlay = &SearchOverlayState{
		Mode:    mode,
		Prefill: mode.Prefill(),
		Candidates: BuildCandidates(
			BuiltinCompletions(),
			withTag(tagBookmark, r.bookmarkEntries),
			withTag(tagOpen, r.historyEntries),
		),
	}
	r.state = RouterOverlayOpen
	slog.Debug("overlay opened", "mode", mode, "candidates", len(r.overlay.Candidates))
	return r.overlay, nil
}

// Filter narrows the open overlay's candidates to those containing text
func (r *Router) Filter(text string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overlay == nil {
		return nil
	}
	return FilterCandidates(text, r.overlay.Candidates)
}

// Cancel closes the overlay without dispatching anything
func (r *Router) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeOverlay()
}

// Submit parses text, dispatches the result and leaves the router idle
// whatever the outcome of the store operations. It only applies to an open
// overlay; an idle router ignores it.
func (r *Router) Submit(text string) Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != RouterOverlayOpen {
		slog.Debug("submit without overlay ignored", "raw", text)
		return Command{Kind: CommandNone, Raw: text}
	}
	cmd := r.parser.Parse(text)
	r.closeOverlay()
	slog.Debug("command submitted", "kind", cmd.Kind, "raw", text)
	r.dispatch(cmd)
	return cmd
}

func (r *Router) closeOverlay() {
	r.overlay = nil
	r.state = RouterIdle
}

func (r *Router) dispatch(cmd Command) {
	switch cmd.Kind {
	case CommandNavigate, CommandLiteralSearch:
		r.tabs.NavigateActive(cmd.URL)
		r.recordHistory(cmd.URL)
		r.queueSnapshot()
	case CommandToggleBookmark:
		r.toggleBookmark()
	case CommandQuit:
		r.queueSnapshot()
		if r.host != nil {
			r.host.Shutdown()
		}
	case CommandClearHistory:
		r.clearHistory()
	case CommandNewTab:
		r.tabs.CreateSession(r.home())
		r.queueSnapshot()
	case CommandNone:
	}
}

// recordHistory appends target unless it is already in the history
func (r *Router) recordHistory(target string) {
	if slices.Contains(r.historyEntries, target) {
		return
	}
	if err := r.history.Append(target); err != nil {
		r.warnWrite("history", err)
		r.historyEntries = append(r.historyEntries, target)
		return
	}
	r.historyEntries = r.reload(r.history)
}

func (r *Router) toggleBookmark() {
	location := r.tabs.ActiveLocation()
	if location == "" {
		r.notify(NoticeInfo, "nothing to bookmark")
		return
	}

	if !slices.Contains(r.bookmarkEntries, location) {
		if err := r.bookmarks.Append(location); err != nil {
			r.warnWrite("bookmark", err)
			r.bookmarkEntries = append(r.bookmarkEntries, location)
			return
		}
		r.bookmarkEntries = r.reload(r.bookmarks)
		r.notify(NoticeSuccess, "bookmarked "+location)
		return
	}

	remaining := slices.DeleteFunc(slices.Clone(r.bookmarkEntries), func(s string) bool {
		return s == location
	})
	if err := r.bookmarks.Rewrite(remaining); err != nil {
		r.warnWrite("bookmark", err)
		r.bookmarkEntries = remaining
		return
	}
	r.bookmarkEntries = r.reload(r.bookmarks)
	r.notify(NoticeInfo, "removed bookmark "+location)
}

func (r *Router) clearHistory() {
	if err := r.history.Rewrite(nil); err != nil {
		r.warnWrite("history", err)
		r.historyEntries = nil
		return
	}
	r.historyEntries = r.reload(r.history)
	r.notify(NoticeInfo, "history cleared")
}

// reload reads a log, substituting an empty collection when it is unreadable
func (r *Router) reload(log *storage.LineLog) []string {
	if log == nil {
		return nil
	}
	lines, err := log.Load()
	if err != nil {
		slog.Warn("failed to load log, using empty collection", "path", log.Path(), "error", err)
		return nil
	}
	return lines
}

func (r *Router) warnWrite(store string, err error) {
	slog.Warn("failed to persist "+store, "error", err)
	r.notify(NoticeWarning, fmt.Sprintf("%s not saved: %v", store, err))
}

func (r *Router) notify(level NoticeLevel, message string) {
	if r.notifier == nil {
		return
	}
	r.notifier.Notify(Notice{Level: level, Message: message})
}

func (r *Router) queueSnapshot() {
	if r.snapshots == nil {
		return
	}
	r.snapshots.QueueSnapshot(r.tabs.Sessions(), r.tabs.ActiveIndex())
}

func (r *Router) home() string {
	return r.settings.Settings().HomeLocation(r.configDir)
}

// applySettings rebuilds everything derived from the current settings
func (r *Router) applySettings() {
	s := r.settings.Settings()
	r.parser = NewCommandParser(s.SearchEngine, s.StrictScheme)
	r.tabs.SetHome(s.HomeLocation(r.configDir))
}

// HandleEvent runs the handler for a named shortcut. Unknown events are
// ignored.
func (r *Router) HandleEvent(event Event) {
	handler, ok := r.Handlers()[event]
	if !ok {
		slog.Debug("unhandled event", "event", event)
		return
	}
	handler()
}

// Handlers returns one handler per named event
func (r *Router) Handlers() map[Event]func() {
	return map[Event]func(){
		EventOpenSearch:     func() { r.openFromShortcut(OverlayOpen) },
		EventBookmarkSearch: func() { r.openFromShortcut(OverlayBookmark) },
		EventCmdSearch:      func() { r.openFromShortcut(OverlayCommand) },
		EventEscape:         r.Cancel,
		EventToggleBookmark: r.ToggleBookmark,
		EventRefresh:        r.Refresh,
		EventBack:           r.Back,
		EventForward:        r.Forward,
		EventHome:           r.GoHome,
		EventCopyLink:       r.CopyLink,
		EventNewTab:         r.NewTab,
		EventCloseTab:       r.CloseTab,
		EventFocusLeft:      r.FocusLeft,
		EventFocusRight:     r.FocusRight,
		EventClearHistory:   r.ClearHistory,
	}
}

func (r *Router) openFromShortcut(mode OverlayMode) {
	if _, err := r.OpenOverlay(mode); err != nil {
		slog.Debug("overlay not opened", "mode", mode, "error", err)
	}
}

// Quit saves the tab layout and asks the host to shut down. Any open overlay
// is dropped.
func (r *Router) Quit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeOverlay()
	r.dispatch(Command{Kind: CommandQuit})
}

// ToggleBookmark adds or removes the active location from the bookmarks
func (r *Router) ToggleBookmark() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toggleBookmark()
}

// ClearHistory empties the history log
func (r *Router) ClearHistory() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearHistory()
}

// Refresh reloads the active tab and re-reads the settings. A settings file
// that no longer loads keeps the previous values.
func (r *Router) Refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tabs.Reload()
	if err := r.settings.Reload(); err != nil {
		slog.Warn("failed to reload settings", "error", err)
		r.notify(NoticeWarning, fmt.Sprintf("settings not reloaded: %v", err))
		return
	}
	r.applySettings()
}

func (r *Router) Back() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tabs.Back()
}

func (r *Router) Forward() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tabs.Forward()
}

// GoHome loads the home location in the active tab
func (r *Router) GoHome() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tabs.GoHome(r.home())
	r.queueSnapshot()
}

// CopyLink puts the active location on the clipboard
func (r *Router) CopyLink() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.clipboard == nil {
		return
	}
	location := r.tabs.ActiveLocation()
	if err := r.clipboard.WriteAll(location); err != nil {
		slog.Warn("failed to copy link", "error", err)
		r.notify(NoticeWarning, fmt.Sprintf("copy failed: %v", err))
		return
	}
	r.notify(NoticeSuccess, "copied "+location)
}

// NewTab opens a tab at the home location
func (r *Router) NewTab() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tabs.CreateSession(r.home())
	r.queueSnapshot()
}

// CloseTab closes the active tab
func (r *Router) CloseTab() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tabs.CloseActive()
	r.queueSnapshot()
}

func (r *Router) FocusLeft() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tabs.FocusPrevious()
}

func (r *Router) FocusRight() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tabs.FocusNext()
}
