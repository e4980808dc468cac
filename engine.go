package main

// Engine is the page-rendering handle behind one tab. The core only loads
// locations and moves through the engine's own history; how a page is
// fetched or drawn is the engine's business.
type Engine interface {
	Load(url string)
	Reload()
	Back()
	Forward()
	CurrentURL() string
}

// EngineFactory creates the engine for a new tab
type EngineFactory func() Engine

// MemoryEngine tracks locations with a back/forward stack and renders
// nothing. It backs the terminal shell.
type MemoryEngine struct {
	entries []string
	pos     int
	reloads int
	closed  bool
}

// NewMemoryEngine creates an engine with empty history
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{pos: -1}
}

// Load pushes url, dropping any forward entries
func (e *MemoryEngine) Load(url string) {
	if e.pos < len(e.entries)-1 {
		e.entries = e.entries[:e.pos+1]
	}
	e.entries = append(e.entries, url)
	e.pos = len(e.entries) - 1
}

// Reload counts a reload of the current entry
func (e *MemoryEngine) Reload() {
	if e.pos >= 0 {
		e.reloads++
	}
}

// Back moves one entry back if possible
func (e *MemoryEngine) Back() {
	if e.pos > 0 {
		e.pos--
	}
}

// Forward moves one entry forward if possible
func (e *MemoryEngine) Forward() {
	if e.pos < len(e.entries)-1 {
		e.pos++
	}
}

// CurrentURL returns the current entry or "" before the first load
func (e *MemoryEngine) CurrentURL() string {
	if e.pos < 0 || e.pos >= len(e.entries) {
		return ""
	}
	return e.entries[e.pos]
}

// Reloads returns how many times the current page was reloaded
func (e *MemoryEngine) Reloads() int {
	return e.reloads
}

// Close releases the engine
func (e *MemoryEngine) Close() error {
	e.closed = true
	return nil
}

// Closed reports whether Close was called
func (e *MemoryEngine) Closed() bool {
	return e.closed
}
