package storage

import "time"

// Schema version for migrations
const SchemaVersion = 1

// Snapshot is the persisted set of open tabs at one point in time
type Snapshot struct {
	ID          string
	CreatedAt   time.Time
	ActiveIndex int
	Tabs        []SnapshotTab
}

// SnapshotTab is one tab inside a snapshot
type SnapshotTab struct {
	Position int
	Label    string
	Location string
}

// Schema is the SQL DDL for creating all tables
const Schema = `
-- One row per saved tab set
CREATE TABLE IF NOT EXISTS snapshots (
    id TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL,
    active_index INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at DESC);

-- Tabs belonging to a snapshot, ordered by position
CREATE TABLE IF NOT EXISTS snapshot_tabs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    snapshot_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    label TEXT NOT NULL,
    location TEXT NOT NULL,
    FOREIGN KEY (snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_snapshot_tabs_snapshot ON snapshot_tabs(snapshot_id, position);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at INTEGER NOT NULL
);

INSERT OR IGNORE INTO schema_version (version, applied_at) VALUES (1, unixepoch());
`
