package main

import (
	"net/url"
	"strings"
)

// Command line tags
const (
	tagOpen     = ":open"
	tagBookmark = ":bookmark"
)

// CommandKind identifies the variant held by a Command
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandNavigate
	CommandLiteralSearch
	CommandToggleBookmark
	CommandQuit
	CommandClearHistory
	CommandNewTab
)

func (k CommandKind) String() string {
	switch k {
	case CommandNavigate:
		return "navigate"
	case CommandLiteralSearch:
		return "search"
	case CommandToggleBookmark:
		return "toggle-bookmark"
	case CommandQuit:
		return "quit"
	case CommandClearHistory:
		return "clear-history"
	case CommandNewTab:
		return "new-tab"
	default:
		return "none"
	}
}

// Command is a parsed command line. It is never modified after parsing.
type Command struct {
	Kind CommandKind

	// URL is the resolved navigation string for Navigate and LiteralSearch
	URL string

	// Query is the raw search text for LiteralSearch
	Query string

	// Raw is the submitted line
	Raw string
}

// Navigates reports whether the command loads URL in the active tab
func (c Command) Navigates() bool {
	return c.Kind == CommandNavigate || c.Kind == CommandLiteralSearch
}

// Builtin is a control command with its accepted spellings
type Builtin struct {
	Kind        CommandKind
	Aliases     []string // the long ":cmd" form is last
	Description string
}

// LongForm returns the ":cmd ..." spelling shown in completions
func (b Builtin) LongForm() string {
	return b.Aliases[len(b.Aliases)-1]
}

// builtins is checked in order, before any tag handling
var builtins = []Builtin{
	{Kind: CommandQuit, Aliases: []string{":q", ":cmd q"}, Description: "Quit the browser"},
	{Kind: CommandClearHistory, Aliases: []string{":clear_history", ":cmd clear_history"}, Description: "Clear navigation history"},
	{Kind: CommandNewTab, Aliases: []string{":new_tab", ":cmd new_tab"}, Description: "Open a new tab at the home page"},
}

// BuiltinCompletions returns the long form of every builtin in table order
func BuiltinCompletions() []string {
	out := make([]string, 0, len(builtins))
	for _, b := range builtins {
		out = append(out, b.LongForm())
	}
	return out
}

// CommandParser turns a submitted line into a Command
type CommandParser struct {
	searchEngine string
	strictScheme bool
	navTags      []string
}

// NewCommandParser creates a parser that wraps queries into
// searchEngine + "/search?q=". With strictScheme set, only targets with an
// http, https or file scheme are literal URLs; otherwise any target containing
// "http" is.
func NewCommandParser(searchEngine string, strictScheme bool) *CommandParser {
	return &CommandParser{
		searchEngine: searchEngine,
		strictScheme: strictScheme,
		navTags:      []string{tagOpen},
	}
}

// Parse interprets line. Lines that reduce to nothing yield CommandNone.
func (p *CommandParser) Parse(line string) Command {
	if strings.TrimSpace(line) == "" {
		return Command{Kind: CommandNone, Raw: line}
	}

	for _, b := range builtins {
		for _, alias := range b.Aliases {
			if line == alias {
				return Command{Kind: b.Kind, Raw: line}
			}
		}
	}

	target := line
	tokens := strings.Fields(line)
	first := tokens[0]

	if first == tagBookmark {
		// The toggle always applies to the active tab's location
		return Command{Kind: CommandToggleBookmark, Raw: line}
	}

	for _, tag := range p.navTags {
		if first == tag {
			target = stripTag(line, tag)
			break
		}
	}

	if strings.TrimSpace(target) == "" {
		return Command{Kind: CommandNone, Raw: line}
	}

	if p.isLiteralURL(target) {
		return Command{Kind: CommandNavigate, URL: target, Raw: line}
	}
	return Command{
		Kind:  CommandLiteralSearch,
		URL:   p.SearchURL(target),
		Query: target,
		Raw:   line,
	}
}

// SearchURL wraps query into the configured search engine template
func (p *CommandParser) SearchURL(query string) string {
	return p.searchEngine + "/search?q=" + query
}

func (p *CommandParser) isLiteralURL(target string) bool {
	if !p.strictScheme {
		return strings.Contains(target, "http")
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "file":
		return true
	}
	return false
}

// stripTag removes the leading tag and exactly one following space
func stripTag(line, tag string) string {
	rest := strings.TrimLeft(line, " \t")
	rest = strings.TrimPrefix(rest, tag)
	if strings.HasPrefix(rest, " ") || strings.HasPrefix(rest, "\t") {
		rest = rest[1:]
	}
	return rest
}
