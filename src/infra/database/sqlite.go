package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"dirwatch/src/watch"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteArchive is a SQLite implementation of the watch.Archive interface.
// It is the durable tier behind the in-memory registry: every stored record
// is appended here and survives process restarts.
type SqliteArchive struct {
	db *sql.DB
}

// NewSqliteArchive opens (or creates) the archive at the given path.
func NewSqliteArchive(path string) (*SqliteArchive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SqliteArchive{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			identity TEXT PRIMARY KEY,
			watch_id TEXT NOT NULL,
			firing_id TEXT NOT NULL,
			trigger_kind TEXT NOT NULL,
			fired_at TEXT NOT NULL,
			matched_files TEXT NOT NULL,
			matched_paths TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_records_watch_id ON records(watch_id);
		CREATE INDEX IF NOT EXISTS idx_records_fired_at ON records(fired_at);
	`)
	return err
}

// Append persists one event record.
func (a *SqliteArchive) Append(ctx context.Context, record watch.EventRecord) error {
	files, err := json.Marshal(record.MatchedFiles)
	if err != nil {
		return fmt.Errorf("failed to encode matched files: %w", err)
	}
	paths, err := json.Marshal(record.MatchedPaths)
	if err != nil {
		return fmt.Errorf("failed to encode matched paths: %w", err)
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO records (identity, watch_id, firing_id, trigger_kind, fired_at, matched_files, matched_paths)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.Identity,
		record.WatchID,
		record.FiringID,
		string(record.Trigger),
		record.Timestamp.UTC().Format(time.RFC3339Nano),
		string(files),
		string(paths),
	)
	if err != nil {
		return fmt.Errorf("failed to append record %s: %w", record.Identity, err)
	}
	return nil
}

// Recent returns the newest records, most recent first.
func (a *SqliteArchive) Recent(ctx context.Context, limit int) ([]watch.EventRecord, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT identity, watch_id, firing_id, trigger_kind, fired_at, matched_files, matched_paths
		FROM records ORDER BY fired_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []watch.EventRecord
	for rows.Next() {
		var record watch.EventRecord
		var trigger, firedAt, files, paths string
		if err := rows.Scan(&record.Identity, &record.WatchID, &record.FiringID, &trigger, &firedAt, &files, &paths); err != nil {
			return nil, err
		}
		record.Trigger = watch.TriggerKind(trigger)
		record.Timestamp, err = time.Parse(time.RFC3339Nano, firedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse record timestamp: %w", err)
		}
		if err := json.Unmarshal([]byte(files), &record.MatchedFiles); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(paths), &record.MatchedPaths); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Count reports the number of archived records.
func (a *SqliteArchive) Count(ctx context.Context) (int, error) {
	var count int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&count)
	return count, err
}

// Close closes the underlying database handle.
func (a *SqliteArchive) Close() error {
	return a.db.Close()
}
