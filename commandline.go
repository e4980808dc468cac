package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

const toastTimeout = 3 * time.Second

// Toast is a transient notice shown in the command line row
type Toast struct {
	ID      string
	Message string
	Level   NoticeLevel
	Created time.Time
	Timeout time.Duration
}

// CommandLine messages for TUI coordination
type (
	commandReadyMsg       struct{ command string }
	commandCancelledMsg   struct{}
	commandTextChangedMsg struct{}                // Signals completion update needed
	navigateCompletionMsg struct{ direction int } // -1 for up, +1 for down
	acceptCompletionMsg   struct{}                // Tab pressed
)

// CommandLineMode represents the state of the command line
type CommandLineMode int

const (
	CommandLineIdle CommandLineMode = iota
	CommandLineCommand
)

// CommandLineComponent is the overlay input on the bottom row. When no
// command is being typed it shows the latest toast.
type CommandLineComponent struct {
	mode      CommandLineMode
	toasts    []Toast
	command   string
	cursorPos int // byte offset into command
	width     int
	theme     *Theme
}

// NewCommandLineComponent creates an idle command line
func NewCommandLineComponent(theme *Theme) *CommandLineComponent {
	return &CommandLineComponent{
		mode:  CommandLineIdle,
		theme: theme,
	}
}

// AddToast adds a notice that expires after the toast timeout
func (cl *CommandLineComponent) AddToast(message string, level NoticeLevel) {
	cl.toasts = append(cl.toasts, Toast{
		ID:      uuid.NewString(),
		Message: message,
		Level:   level,
		Created: time.Now(),
		Timeout: toastTimeout,
	})
}

// ClearToasts removes all existing toast notifications
func (cl *CommandLineComponent) ClearToasts() {
	cl.toasts = nil
}

// Toasts returns the live toasts, oldest first
func (cl *CommandLineComponent) Toasts() []Toast {
	return cl.toasts
}

// Open enters command mode with the overlay prefill
func (cl *CommandLineComponent) Open(prefill string) {
	cl.mode = CommandLineCommand
	cl.command = prefill
	cl.cursorPos = len(prefill)
}

// Close returns to idle and drops the typed text
func (cl *CommandLineComponent) Close() {
	cl.mode = CommandLineIdle
	cl.command = ""
	cl.cursorPos = 0
}

// IsInCommandMode returns true if in command mode
func (cl *CommandLineComponent) IsInCommandMode() bool {
	return cl.mode == CommandLineCommand
}

// SetCommand replaces the typed text and moves the cursor to its end
func (cl *CommandLineComponent) SetCommand(cmd string) {
	cl.command = cmd
	cl.cursorPos = len(cmd)
}

// GetCommand returns the current command
func (cl *CommandLineComponent) GetCommand() string {
	return cl.command
}

// InsertRune inserts a character at cursor position
func (cl *CommandLineComponent) InsertRune(r rune) {
	if cl.mode != CommandLineCommand {
		return
	}
	s := string(r)
	cl.command = cl.command[:cl.cursorPos] + s + cl.command[cl.cursorPos:]
	cl.cursorPos += len(s)
}

// DeleteCharBackward deletes character before cursor (backspace)
func (cl *CommandLineComponent) DeleteCharBackward() {
	if cl.mode != CommandLineCommand || cl.cursorPos == 0 {
		return
	}
	runes := []rune(cl.command[:cl.cursorPos])
	before := string(runes[:len(runes)-1])
	cl.command = before + cl.command[cl.cursorPos:]
	cl.cursorPos = len(before)
}

// DeleteCharForward deletes character at cursor (delete key)
func (cl *CommandLineComponent) DeleteCharForward() {
	if cl.mode != CommandLineCommand || cl.cursorPos >= len(cl.command) {
		return
	}
	rest := []rune(cl.command[cl.cursorPos:])
	cl.command = cl.command[:cl.cursorPos] + string(rest[1:])
}

// MoveCursorLeft moves cursor one character left
func (cl *CommandLineComponent) MoveCursorLeft() {
	if cl.cursorPos == 0 {
		return
	}
	runes := []rune(cl.command[:cl.cursorPos])
	cl.cursorPos -= len(string(runes[len(runes)-1]))
}

// MoveCursorRight moves cursor one character right
func (cl *CommandLineComponent) MoveCursorRight() {
	if cl.cursorPos >= len(cl.command) {
		return
	}
	runes := []rune(cl.command[cl.cursorPos:])
	cl.cursorPos += len(string(runes[0]))
}

// SetWidth sets the width for rendering
func (cl *CommandLineComponent) SetWidth(width int) {
	cl.width = width
}

// Update removes expired toasts
func (cl *CommandLineComponent) Update() {
	now := time.Now()
	active := cl.toasts[:0]
	for _, toast := range cl.toasts {
		if now.Sub(toast.Created) < toast.Timeout {
			active = append(active, toast)
		}
	}
	cl.toasts = active
}

// View renders the command line
func (cl *CommandLineComponent) View() string {
	if cl.mode == CommandLineCommand {
		cursorStyle := lipgloss.NewStyle().Reverse(true)
		var text string
		if cl.cursorPos < len(cl.command) {
			rest := []rune(cl.command[cl.cursorPos:])
			text = cl.command[:cl.cursorPos] + cursorStyle.Render(string(rest[0])) + string(rest[1:])
		} else {
			text = cl.command + cursorStyle.Render(" ")
		}
		return cl.theme.Entry.Width(cl.width).Render(text)
	}

	if len(cl.toasts) > 0 {
		toast := cl.toasts[len(cl.toasts)-1]
		style := lipgloss.NewStyle().Padding(0, 1)
		switch toast.Level {
		case NoticeSuccess:
			style = style.Foreground(cl.theme.Success)
		case NoticeWarning:
			style = style.Foreground(cl.theme.Warning)
		case NoticeError:
			style = style.Foreground(cl.theme.Error)
		}
		return style.Render(toast.Message)
	}

	return ""
}

// HandleKey handles keyboard input while a command is being typed
func (cl *CommandLineComponent) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if !cl.IsInCommandMode() {
		return nil, false
	}

	switch msg.String() {
	case "esc":
		cl.Close()
		return func() tea.Msg { return commandCancelledMsg{} }, true

	case "enter":
		cmdText := cl.GetCommand()
		cl.Close()
		return func() tea.Msg { return commandReadyMsg{command: cmdText} }, true

	case "backspace":
		if cl.cursorPos == 0 {
			cl.Close()
			return func() tea.Msg { return commandCancelledMsg{} }, true
		}
		cl.DeleteCharBackward()
		return func() tea.Msg { return commandTextChangedMsg{} }, true

	case "delete":
		cl.DeleteCharForward()
		return func() tea.Msg { return commandTextChangedMsg{} }, true

	case "left":
		cl.MoveCursorLeft()
		return nil, true

	case "right":
		cl.MoveCursorRight()
		return nil, true

	case "home", "ctrl+a":
		cl.cursorPos = 0
		return nil, true

	case "end", "ctrl+e":
		cl.cursorPos = len(cl.command)
		return nil, true

	case "tab":
		return func() tea.Msg { return acceptCompletionMsg{} }, true

	case "down", "ctrl+n":
		return func() tea.Msg { return navigateCompletionMsg{direction: 1} }, true

	case "up", "shift+tab", "ctrl+p":
		return func() tea.Msg { return navigateCompletionMsg{direction: -1} }, true

	case "space", " ":
		cl.InsertRune(' ')
		return func() tea.Msg { return commandTextChangedMsg{} }, true

	default:
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 {
			for _, r := range msg.Runes {
				cl.InsertRune(r)
			}
			return func() tea.Msg { return commandTextChangedMsg{} }, true
		}
		// Swallow everything else so shortcuts do not fire while typing
		return nil, true
	}
}
