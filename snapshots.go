package main

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/afittestide/sbrowser/storage"
)

const snapshotQueueSize = 100

// SnapshotWorker saves tab snapshots on a background goroutine so the UI
// never waits on sqlite.
type SnapshotWorker struct {
	store     *storage.SnapshotStore
	saveChan  chan *storage.Snapshot
	stopChan  chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup // in-flight saves
}

// NewSnapshotWorker starts the save worker
func NewSnapshotWorker(db *storage.DB, keep int) (*SnapshotWorker, error) {
	if db == nil {
		return nil, fmt.Errorf("storage not initialized")
	}
	w := &SnapshotWorker{
		store:    storage.NewSnapshotStore(db, keep),
		saveChan: make(chan *storage.Snapshot, snapshotQueueSize),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.saveWorker()
	return w, nil
}

func (w *SnapshotWorker) saveWorker() {
	defer close(w.done)
	for {
		select {
		case snap := <-w.saveChan:
			w.save(snap)
		case <-w.stopChan:
			// Drain remaining saves
			for len(w.saveChan) > 0 {
				w.save(<-w.saveChan)
			}
			return
		}
	}
}

func (w *SnapshotWorker) save(snap *storage.Snapshot) {
	defer w.wg.Done()
	if err := w.store.SaveSnapshot(snap); err != nil {
		slog.Warn("failed to save snapshot", "error", err)
	}
}

// QueueSnapshot converts the tabs and queues them for saving. A full queue
// drops the snapshot.
func (w *SnapshotWorker) QueueSnapshot(tabs []TabInfo, active int) {
	snap := &storage.Snapshot{
		CreatedAt:   time.Now(),
		ActiveIndex: active,
		Tabs:        make([]storage.SnapshotTab, 0, len(tabs)),
	}
	for i, tab := range tabs {
		snap.Tabs = append(snap.Tabs, storage.SnapshotTab{
			Position: i,
			Label:    tab.Label,
			Location: tab.Location,
		})
	}

	select {
	case <-w.stopChan:
		slog.Debug("snapshot worker stopped, skipping save")
		return
	default:
	}

	w.wg.Add(1)
	select {
	case w.saveChan <- snap:
	default:
		w.wg.Done()
		slog.Warn("snapshot channel full, skipping save")
	}
}

// Flush waits for all queued snapshots to be written
func (w *SnapshotWorker) Flush() {
	w.wg.Wait()
}

// Latest returns the most recent snapshot as tab views, or nil when none
// was saved.
func (w *SnapshotWorker) Latest() ([]TabInfo, int, error) {
	snap, err := w.store.LatestSnapshot()
	if err != nil || snap == nil {
		return nil, 0, err
	}
	tabs := make([]TabInfo, 0, len(snap.Tabs))
	for _, tab := range snap.Tabs {
		tabs = append(tabs, TabInfo{Label: tab.Label, Location: tab.Location})
	}
	return tabs, snap.ActiveIndex, nil
}

// Close stops the worker after it writes what is queued
func (w *SnapshotWorker) Close() {
	w.closeOnce.Do(func() {
		close(w.stopChan)
		select {
		case <-w.done:
			slog.Debug("snapshot worker closed gracefully")
		case <-time.After(2 * time.Second):
			slog.Warn("snapshot worker close timed out, some saves may be lost")
		}
	})
}

// restoreTabs replaces the manager's tabs with the latest snapshot
func restoreTabs(tabs *SessionManager, worker *SnapshotWorker) {
	saved, active, err := worker.Latest()
	if err != nil {
		slog.Warn("failed to load tab snapshot", "error", err)
		return
	}
	if len(saved) == 0 {
		return
	}
	tabs.Restore(saved, active)
	slog.Info("restored tabs", "count", len(saved), "active", active)
}
