package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SnapshotStore persists tab snapshots
type SnapshotStore struct {
	db   *DB
	keep int
}

// NewSnapshotStore creates a snapshot store that retains at most keep
// snapshots. keep <= 0 retains everything.
func NewSnapshotStore(db *DB, keep int) *SnapshotStore {
	return &SnapshotStore{db: db, keep: keep}
}

// SaveSnapshot writes a snapshot and its tabs in one transaction
func (s *SnapshotStore) SaveSnapshot(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("cannot save nil snapshot")
	}
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}

	tx, err := s.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO snapshots (id, created_at, active_index)
		VALUES (?, ?, ?)`,
		snap.ID,
		snap.CreatedAt.UnixNano(),
		snap.ActiveIndex,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM snapshot_tabs WHERE snapshot_id = ?", snap.ID); err != nil {
		return fmt.Errorf("failed to delete old snapshot tabs: %w", err)
	}

	for i, tab := range snap.Tabs {
		_, err = tx.Exec(`
			INSERT INTO snapshot_tabs (snapshot_id, position, label, location)
			VALUES (?, ?, ?, ?)`,
			snap.ID, i, tab.Label, tab.Location,
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot tab %d: %w", i, err)
		}
	}

	if s.keep > 0 {
		_, err = tx.Exec(`
			DELETE FROM snapshots
			WHERE id NOT IN (
				SELECT id FROM snapshots
				ORDER BY created_at DESC, rowid DESC
				LIMIT ?
			)`,
			s.keep,
		)
		if err != nil {
			return fmt.Errorf("failed to prune snapshots: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Debug("snapshot saved", "id", snap.ID, "tabs", len(snap.Tabs))
	return nil
}

// LatestSnapshot returns the most recent snapshot, or nil if none was saved
func (s *SnapshotStore) LatestSnapshot() (*Snapshot, error) {
	var snap Snapshot
	var createdAt int64

	err := s.db.conn.QueryRow(`
		SELECT id, created_at, active_index
		FROM snapshots
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1`,
	).Scan(&snap.ID, &createdAt, &snap.ActiveIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	snap.CreatedAt = time.Unix(0, createdAt)

	rows, err := s.db.conn.Query(`
		SELECT position, label, location
		FROM snapshot_tabs
		WHERE snapshot_id = ?
		ORDER BY position`,
		snap.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot tabs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tab SnapshotTab
		if err := rows.Scan(&tab.Position, &tab.Label, &tab.Location); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot tab: %w", err)
		}
		snap.Tabs = append(snap.Tabs, tab)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot tabs: %w", err)
	}

	return &snap, nil
}

// CountSnapshots returns how many snapshots are retained
func (s *SnapshotStore) CountSnapshots() (int, error) {
	var n int
	if err := s.db.conn.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}
