package storage

import "fmt"

// ReadError is returned when a log file exists but cannot be read.
// Callers treat the log as empty and keep going.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("store read error: %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError is returned when an append or rewrite fails.
type WriteError struct {
	Path string
	Op   string // "append", "rewrite", "create"
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("store write error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
