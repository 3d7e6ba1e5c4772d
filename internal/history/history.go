// Package history archives finalized polls, newest first.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"livepoll/internal/poll"
	"livepoll/internal/tally"
)

// Snapshot is the immutable record of a closed poll. Field names on the
// wire match what clients already render.
type Snapshot struct {
	ID           string        `json:"id"`
	Question     string        `json:"question"`
	TimerSeconds int           `json:"timer"`
	Options      []poll.Option `json:"options"`
	Counts       tally.Counts  `json:"counts"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// NewSnapshot freezes a poll and its final tally into an archive record.
func NewSnapshot(p poll.Poll, counts tally.Counts) Snapshot {
	return Snapshot{
		ID:           uuid.New().String(),
		Question:     p.Question,
		TimerSeconds: p.TimerSeconds,
		Options:      p.Options,
		Counts:       counts,
		CreatedAt:    time.Now(),
	}
}

// Store is an append-only sequence of snapshots, newest first. There
// are no delete or mutate operations.
type Store struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func NewStore() *Store {
	return &Store{}
}

// Append prepends a snapshot so List returns newest first.
func (s *Store) Append(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = append([]Snapshot{snap}, s.snaps...)
}

// List returns all snapshots, newest first. The returned slice is a
// copy; callers cannot alter the archive through it.
func (s *Store) List() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Snapshot, len(s.snaps))
	copy(out, s.snaps)
	return out
}

// Len returns the number of archived polls.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snaps)
}
