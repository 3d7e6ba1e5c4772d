package db

import (
	"encoding/json"
	"fmt"

	"livepoll/internal/history"
	"livepoll/internal/poll"
	"livepoll/internal/tally"
)

// ArchivePoll persists a finalized poll snapshot. The live history
// store stays authoritative; this is a durable mirror.
func (d *DB) ArchivePoll(snap history.Snapshot) error {
	options, err := json.Marshal(snap.Options)
	if err != nil {
		return fmt.Errorf("marshaling options: %w", err)
	}
	counts, err := json.Marshal(snap.Counts)
	if err != nil {
		return fmt.Errorf("marshaling counts: %w", err)
	}

	_, err = d.conn.Exec(`
		INSERT INTO archived_polls (id, question, timer_seconds, options, counts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, snap.ID, snap.Question, snap.TimerSeconds, options, counts, snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("archiving poll: %w", err)
	}
	return nil
}

// ListRecent returns up to limit archived polls, newest first.
func (d *DB) ListRecent(limit int) ([]history.Snapshot, error) {
	rows, err := d.conn.Query(`
		SELECT id, question, timer_seconds, options, counts, created_at
		FROM archived_polls
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing archived polls: %w", err)
	}
	defer rows.Close()

	var snaps []history.Snapshot
	for rows.Next() {
		var snap history.Snapshot
		var options, counts []byte
		if err := rows.Scan(&snap.ID, &snap.Question, &snap.TimerSeconds, &options, &counts, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning archived poll: %w", err)
		}
		if err := json.Unmarshal(options, &snap.Options); err != nil {
			snap.Options = []poll.Option{}
		}
		if err := json.Unmarshal(counts, &snap.Counts); err != nil {
			snap.Counts = tally.Counts{}
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
