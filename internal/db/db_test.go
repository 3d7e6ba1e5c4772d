package db

import (
	"os"
	"testing"
	"time"

	"livepoll/internal/history"
	"livepoll/internal/poll"
	"livepoll/internal/tally"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	database, err := Connect(dsn)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() {
		database.conn.Exec("DELETE FROM archived_polls")
		database.Close()
	})
	return database
}

func TestConnect(t *testing.T) {
	database := getTestDB(t)
	if err := database.Ping(); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestArchiveAndListRecent(t *testing.T) {
	database := getTestDB(t)

	older := history.Snapshot{
		ID:           "snap-1",
		Question:     "P1",
		TimerSeconds: 30,
		Options:      []poll.Option{{Text: "A"}, {Text: "B", Correct: true}},
		Counts:       tally.Counts{"1": 2, "2": 1},
		CreatedAt:    time.Now().Add(-time.Minute),
	}
	newer := history.Snapshot{
		ID:           "snap-2",
		Question:     "P2",
		TimerSeconds: 60,
		Options:      []poll.Option{{Text: "Yes"}, {Text: "No"}},
		Counts:       tally.Counts{"1": 0, "2": 3},
		CreatedAt:    time.Now(),
	}

	if err := database.ArchivePoll(older); err != nil {
		t.Fatalf("ArchivePoll() error: %v", err)
	}
	if err := database.ArchivePoll(newer); err != nil {
		t.Fatalf("ArchivePoll() error: %v", err)
	}
	// Re-archiving the same snapshot must not error or duplicate.
	if err := database.ArchivePoll(newer); err != nil {
		t.Fatalf("ArchivePoll() repeat error: %v", err)
	}

	snaps, err := database.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("ListRecent() returned %d snapshots, want 2", len(snaps))
	}
	if snaps[0].ID != "snap-2" || snaps[1].ID != "snap-1" {
		t.Errorf("order = [%s %s], want newest first", snaps[0].ID, snaps[1].ID)
	}
	if snaps[0].Counts["2"] != 3 {
		t.Errorf("counts[2] = %d, want 3", snaps[0].Counts["2"])
	}
	if len(snaps[0].Options) != 2 {
		t.Errorf("len(options) = %d, want 2", len(snaps[0].Options))
	}
}
