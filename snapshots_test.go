package main

import (
	"path/filepath"
	"testing"

	"github.com/afittestide/sbrowser/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(t *testing.T) (*SnapshotWorker, *storage.DB) {
	t.Helper()
	db, err := storage.InitDB(filepath.Join(t.TempDir(), "sbrowser.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	worker, err := NewSnapshotWorker(db, 3)
	require.NoError(t, err)
	t.Cleanup(worker.Close)
	return worker, db
}

func TestNewSnapshotWorkerRequiresDB(t *testing.T) {
	_, err := NewSnapshotWorker(nil, 3)
	assert.Error(t, err)
}

func TestSnapshotWorkerRoundTrip(t *testing.T) {
	worker, _ := newTestWorker(t)

	tabs, _, err := worker.Latest()
	require.NoError(t, err)
	assert.Nil(t, tabs)

	worker.QueueSnapshot([]TabInfo{
		{ID: "a", Label: newTabLabel, Location: testHome},
		{ID: "b", Label: "https://b.com", Location: "https://b.com", Active: true},
	}, 1)
	worker.Flush()

	tabs, active, err := worker.Latest()
	require.NoError(t, err)
	assert.Equal(t, 1, active)
	assert.Equal(t, []TabInfo{
		{Label: newTabLabel, Location: testHome},
		{Label: "https://b.com", Location: "https://b.com"},
	}, tabs)
}

func TestSnapshotWorkerKeepsLimit(t *testing.T) {
	worker, db := newTestWorker(t)
	for i := 0; i < 6; i++ {
		worker.QueueSnapshot([]TabInfo{{Label: fmtLoc(i), Location: fmtLoc(i)}}, 0)
	}
	worker.Flush()

	count, err := storage.NewSnapshotStore(db, 3).CountSnapshots()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	tabs, _, err := worker.Latest()
	require.NoError(t, err)
	assert.Equal(t, fmtLoc(5), tabs[0].Location)
}

func TestSnapshotWorkerCloseDrainsQueue(t *testing.T) {
	worker, db := newTestWorker(t)
	worker.QueueSnapshot([]TabInfo{{Location: "https://a.com"}}, 0)
	worker.Close()

	// Stopped workers ignore new snapshots
	worker.QueueSnapshot([]TabInfo{{Location: "https://late.com"}}, 0)
	worker.Close()

	snap, err := storage.NewSnapshotStore(db, 3).LatestSnapshot()
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "https://a.com", snap.Tabs[0].Location)
}

func TestRestoreTabs(t *testing.T) {
	worker, _ := newTestWorker(t)
	m, _ := newTestManager(t)

	// Nothing saved leaves the home tab
	restoreTabs(m, worker)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, testHome, m.ActiveLocation())

	worker.QueueSnapshot([]TabInfo{
		{Label: "A", Location: "https://a.com"},
		{Label: "B", Location: "https://b.com"},
	}, 0)
	worker.Flush()

	restoreTabs(m, worker)
	require.Equal(t, 2, m.Len())
	assert.Equal(t, 0, m.ActiveIndex())
	assert.Equal(t, "https://a.com", m.ActiveLocation())
	assert.Equal(t, "B", m.Sessions()[1].Label)
}
