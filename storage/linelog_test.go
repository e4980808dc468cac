package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog(t *testing.T) *LineLog {
	t.Helper()
	return NewLineLog(filepath.Join(t.TempDir(), "sbrowser", ".history"))
}

func TestLineLog_LoadMissingIsEmpty(t *testing.T) {
	log := newTestLog(t)

	lines, err := log.Load()
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestLineLog_EnsureExists(t *testing.T) {
	log := newTestLog(t)

	require.NoError(t, log.EnsureExists())
	_, err := os.Stat(log.Path())
	require.NoError(t, err)

	// Existing content survives a second call
	require.NoError(t, log.Append("https://a.com"))
	require.NoError(t, log.EnsureExists())
	lines, err := log.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com"}, lines)
}

func TestLineLog_AppendAndLoad(t *testing.T) {
	log := newTestLog(t)
	require.NoError(t, log.EnsureExists())

	targets := []string{"https://a.com", "https://duckduckgo.com/search?q=go", "https://b.org"}
	for _, target := range targets {
		require.NoError(t, log.Append(target))
	}

	lines, err := log.Load()
	require.NoError(t, err)
	assert.Equal(t, targets, lines)

	data, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	assert.Equal(t, strings.Join(targets, "\n")+"\n", string(data))
}

func TestLineLog_AppendIncludesLineExactlyOnce(t *testing.T) {
	log := newTestLog(t)
	require.NoError(t, log.EnsureExists())
	require.NoError(t, log.Append("https://x.com"))
	require.NoError(t, log.Append("https://y.com"))

	lines, err := log.Load()
	require.NoError(t, err)

	count := 0
	for _, line := range lines {
		if line == "https://y.com" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestLineLog_LongLine(t *testing.T) {
	log := newTestLog(t)
	require.NoError(t, log.EnsureExists())

	long := "data:text/html," + strings.Repeat("a", 1100*1024)
	require.NoError(t, log.Append("https://a.com"))
	require.NoError(t, log.Append(long))
	require.NoError(t, log.Append("https://b.com"))

	lines, err := log.Load()
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "https://a.com", lines[0])
	assert.Equal(t, long, lines[1])
	assert.Equal(t, "https://b.com", lines[2])
}

func TestLineLog_LoadTrimsCarriageReturns(t *testing.T) {
	log := newTestLog(t)
	require.NoError(t, log.EnsureExists())
	require.NoError(t, os.WriteFile(log.Path(), []byte("https://a.com\r\n\r\n\nhttps://b.com"), 0o644))

	lines, err := log.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, lines)
}

func TestLineLog_Rewrite(t *testing.T) {
	tests := []struct {
		name    string
		initial []string
		rewrite []string
	}{
		{name: "remove middle", initial: []string{"a", "b", "c"}, rewrite: []string{"a", "c"}},
		{name: "truncate", initial: []string{"a", "b"}, rewrite: []string{}},
		{name: "reorder", initial: []string{"a", "b"}, rewrite: []string{"b", "a"}},
		{name: "from empty", initial: nil, rewrite: []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := newTestLog(t)
			require.NoError(t, log.EnsureExists())
			for _, line := range tt.initial {
				require.NoError(t, log.Append(line))
			}

			require.NoError(t, log.Rewrite(tt.rewrite))

			lines, err := log.Load()
			require.NoError(t, err)
			assert.Equal(t, tt.rewrite, lines)

			// No temp files left behind
			entries, err := os.ReadDir(filepath.Dir(log.Path()))
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestLineLog_LoadUnreadable(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be cannot be read as a log
	path := filepath.Join(dir, ".bookmark")
	require.NoError(t, os.Mkdir(path, 0o755))

	_, err := NewLineLog(path).Load()
	require.Error(t, err)

	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, path, readErr.Path)
}

func TestLineLog_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".bookmark")
	require.NoError(t, os.Mkdir(path, 0o755))
	log := NewLineLog(path)

	err := log.Append("https://x.com")
	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "append", writeErr.Op)

	err = log.Rewrite([]string{"https://x.com"})
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "rewrite", writeErr.Op)
}

func TestLineLog_ConcurrentAppendAndRewrite(t *testing.T) {
	log := newTestLog(t)
	require.NoError(t, log.EnsureExists())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, log.Append(fmt.Sprintf("https://site-%d.com", i)))
		}(i)
		go func() {
			defer wg.Done()
			lines, err := log.Load()
			if assert.NoError(t, err) {
				assert.NoError(t, log.Rewrite(lines))
			}
		}()
	}
	wg.Wait()

	lines, err := log.Load()
	require.NoError(t, err)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "https://site-"), "partial line %q", line)
		assert.True(t, strings.HasSuffix(line, ".com"), "partial line %q", line)
	}
}
