// Package session owns the lifecycle of the current poll and the
// answers submitted against it.
package session

import (
	"sync"

	"livepoll/internal/history"
	"livepoll/internal/poll"
	"livepoll/internal/tally"
)

type Status string

const (
	StatusIdle   = Status("idle")   // no poll has ever started
	StatusActive = Status("active") // answers accepted
	StatusClosed = Status("closed") // tally frozen, archived
)

// Session is the single room-wide poll state machine:
// idle -> active -> closed -> active -> ...
//
// Answers are keyed by display name, so two connections sharing a name
// contend for one answer slot. That matches the wire contract clients
// rely on; see the roster package for the same caveat.
//
// All mutating commands are funneled through one engine goroutine; the
// mutex exists so read-only callers outside that path stay safe.
type Session struct {
	mu      sync.Mutex
	status  Status
	active  *poll.Poll
	answers map[string]int // display name -> 1-based option index
	frozen  tally.Counts   // final tally, set on first close
	archive *history.Store
}

func New(archive *history.Store) *Session {
	return &Session{
		status:  StatusIdle,
		answers: make(map[string]int),
		archive: archive,
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Poll returns the current poll definition, if one has ever started.
func (s *Session) Poll() (poll.Poll, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return poll.Poll{}, false
	}
	return *s.active, true
}

// CreatePoll starts a new poll, replacing any previous one and
// discarding its answers. Valid from any state.
func (s *Session) CreatePoll(p poll.Poll) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = &p
	s.answers = make(map[string]int)
	s.frozen = nil
	s.status = StatusActive
}

// SubmitAnswer records a participant's answer and returns the live
// tally. The first answer per name wins; repeats, answers outside the
// option range, and answers while not active are dropped (ok=false, no
// state change).
func (s *Session) SubmitAnswer(name string, option int) (tally.Counts, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive || name == "" {
		return nil, false
	}
	if option < 1 || option > len(s.active.Options) {
		return nil, false
	}
	if _, answered := s.answers[name]; answered {
		return nil, false
	}

	s.answers[name] = option
	return tally.Count(s.answers, len(s.active.Options)), true
}

// ShowResults closes the active poll: the tally is computed once,
// frozen, and archived. Closing an already-closed poll returns the
// frozen tally again without touching the archive, so snap is non-nil
// only on the close that actually froze the poll. ok is false only
// while idle.
func (s *Session) ShowResults() (counts tally.Counts, snap *history.Snapshot, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case StatusIdle:
		return nil, nil, false
	case StatusClosed:
		return s.frozen, nil, true
	}

	s.frozen = tally.Count(s.answers, len(s.active.Options))
	s.status = StatusClosed

	record := history.NewSnapshot(*s.active, s.frozen)
	s.archive.Append(record)
	return s.frozen, &record, true
}

// AnswerCount returns how many names have answered the current poll.
func (s *Session) AnswerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}
