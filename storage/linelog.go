package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LineLog is an append-only, newline-delimited text store. Each line holds one
// raw target string. Removal is done by rewriting the whole file, which costs
// O(n) per call; the logs are small enough for that to be fine.
//
// Embedded newlines in a line are not escaped and are unsupported.
type LineLog struct {
	path string
	mu   sync.Mutex // serializes Append/Rewrite on this log
}

// NewLineLog returns a log backed by path. The path is fixed for the lifetime
// of the log.
func NewLineLog(path string) *LineLog {
	return &LineLog{path: path}
}

// Path returns the backing file location
func (l *LineLog) Path() string {
	return l.path
}

// EnsureExists creates the parent directory and an empty log file if missing
func (l *LineLog) EnsureExists() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return &WriteError{Path: l.path, Op: "create", Err: err}
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &WriteError{Path: l.path, Op: "create", Err: err}
	}
	return f.Close()
}

// Load returns every line in file order. A missing file is an empty log.
func (l *LineLog) Load() ([]string, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, &ReadError{Path: l.path, Err: err}
	}

	// Lines have no length limit, so split what was read instead of scanning
	lines := make([]string, 0)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Append writes line at the end of the log. Duplicate checks are the
// caller's job.
func (l *LineLog) Append(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &WriteError{Path: l.path, Op: "append", Err: err}
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return &WriteError{Path: l.path, Op: "append", Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: l.path, Op: "append", Err: err}
	}
	slog.Debug("log appended", "path", l.path)
	return nil
}

// Rewrite replaces the whole log with lines. The new content is written to a
// temp file in the same directory and renamed over the log, so a concurrent
// Load sees either the old or the new content.
func (l *LineLog) Rewrite(lines []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), "."+filepath.Base(l.path)+".*")
	if err != nil {
		return &WriteError{Path: l.path, Op: "rewrite", Err: err}
	}
	tmpPath := tmp.Name()
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return &WriteError{Path: l.path, Op: "rewrite", Err: err}
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: l.path, Op: "rewrite", Err: err}
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: l.path, Op: "rewrite", Err: err}
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: l.path, Op: "rewrite", Err: fmt.Errorf("failed to replace log: %w", err)}
	}

	slog.Debug("log rewritten", "path", l.path, "lines", len(lines))
	return nil
}
