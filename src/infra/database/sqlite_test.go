package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"dirwatch/src/watch"
)

func newTestArchive(t *testing.T) *SqliteArchive {
	t.Helper()
	archive, err := NewSqliteArchive(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() { archive.Close() })
	return archive
}

func makeRecord(identity string, firedAt time.Time) watch.EventRecord {
	return watch.EventRecord{
		Identity:     identity,
		WatchID:      "watch-1",
		FiringID:     "firing-" + identity,
		Trigger:      watch.TriggerCreated,
		Timestamp:    firedAt,
		MatchedFiles: []string{"notes.txt"},
		MatchedPaths: []string{"/data/notes.txt"},
	}
}

func TestArchive_AppendAndRecent(t *testing.T) {
	archive := newTestArchive(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i, identity := range []string{"FileIOWatcherFordata", "FileIOWatcherFordata_a", "FileIOWatcherFordata_b"} {
		record := makeRecord(identity, base.Add(time.Duration(i)*time.Minute))
		if err := archive.Append(ctx, record); err != nil {
			t.Fatalf("append %s: %v", identity, err)
		}
	}

	recent, err := archive.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
	if recent[0].Identity != "FileIOWatcherFordata_b" {
		t.Errorf("expected newest first, got %q", recent[0].Identity)
	}
	if recent[1].Identity != "FileIOWatcherFordata_a" {
		t.Errorf("unexpected second record %q", recent[1].Identity)
	}

	got := recent[0]
	if got.WatchID != "watch-1" || got.Trigger != watch.TriggerCreated {
		t.Errorf("record fields lost on the roundtrip: %+v", got)
	}
	if len(got.MatchedFiles) != 1 || got.MatchedFiles[0] != "notes.txt" {
		t.Errorf("unexpected matched files %v", got.MatchedFiles)
	}
	if len(got.MatchedPaths) != 1 || got.MatchedPaths[0] != "/data/notes.txt" {
		t.Errorf("unexpected matched paths %v", got.MatchedPaths)
	}
	if !got.Timestamp.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("unexpected timestamp %v", got.Timestamp)
	}
}

func TestArchive_Count(t *testing.T) {
	archive := newTestArchive(t)
	ctx := context.Background()

	count, err := archive.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty archive, got %d", count)
	}

	if err := archive.Append(ctx, makeRecord("FileIOWatcherFordata", time.Now())); err != nil {
		t.Fatalf("append: %v", err)
	}
	count, err = archive.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}
}

func TestArchive_DuplicateIdentityRejected(t *testing.T) {
	archive := newTestArchive(t)
	ctx := context.Background()

	record := makeRecord("FileIOWatcherFordata", time.Now())
	if err := archive.Append(ctx, record); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := archive.Append(ctx, record); err == nil {
		t.Fatal("identities are unique, the second append must fail")
	}
}

func TestArchive_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.db")
	ctx := context.Background()

	archive, err := NewSqliteArchive(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if err := archive.Append(ctx, makeRecord("FileIOWatcherFordata", time.Now())); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := archive.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSqliteArchive(path)
	if err != nil {
		t.Fatalf("reopen archive: %v", err)
	}
	defer reopened.Close()

	count, err := reopened.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected the record to survive a reopen, got %d", count)
	}
}
