package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livepoll/internal/history"
	"livepoll/internal/poll"
	"livepoll/internal/session"
)

func colorPoll() poll.Poll {
	return poll.Poll{
		Question:     "Color?",
		Options:      []poll.Option{{Text: "Red"}, {Text: "Blue"}},
		TimerSeconds: 30,
	}
}

func TestNew(t *testing.T) {
	s := session.New(history.NewStore())

	assert.Equal(t, session.StatusIdle, s.Status())
	_, ok := s.Poll()
	assert.False(t, ok)
}

func TestCreatePoll(t *testing.T) {
	t.Run("activates from idle", func(t *testing.T) {
		s := session.New(history.NewStore())
		s.CreatePoll(colorPoll())

		assert.Equal(t, session.StatusActive, s.Status())
		p, ok := s.Poll()
		require.True(t, ok)
		assert.Equal(t, "Color?", p.Question)
	})

	t.Run("replaces a closed poll and clears answers", func(t *testing.T) {
		s := session.New(history.NewStore())
		s.CreatePoll(colorPoll())
		_, ok := s.SubmitAnswer("Alice", 1)
		require.True(t, ok)
		_, _, ok = s.ShowResults()
		require.True(t, ok)

		s.CreatePoll(poll.Poll{
			Question: "Pet?",
			Options:  []poll.Option{{Text: "Cat"}, {Text: "Dog"}, {Text: "Fish"}},
		})

		assert.Equal(t, session.StatusActive, s.Status())
		assert.Equal(t, 0, s.AnswerCount())

		counts, _, ok := s.ShowResults()
		require.True(t, ok)
		assert.Equal(t, 0, counts.Total())
		assert.Len(t, counts, 3)
	})
}

func TestSubmitAnswer(t *testing.T) {
	t.Run("rejected while idle", func(t *testing.T) {
		s := session.New(history.NewStore())
		_, ok := s.SubmitAnswer("Alice", 1)
		assert.False(t, ok)
	})

	t.Run("first answer wins", func(t *testing.T) {
		s := session.New(history.NewStore())
		s.CreatePoll(colorPoll())

		counts, ok := s.SubmitAnswer("Alice", 1)
		require.True(t, ok)
		assert.Equal(t, 1, counts["1"])

		_, ok = s.SubmitAnswer("Alice", 2)
		assert.False(t, ok, "second answer for same name must be dropped")

		final, _, ok := s.ShowResults()
		require.True(t, ok)
		assert.Equal(t, 1, final["1"])
		assert.Equal(t, 0, final["2"])
	})

	t.Run("out-of-range index dropped", func(t *testing.T) {
		s := session.New(history.NewStore())
		s.CreatePoll(colorPoll())

		for _, idx := range []int{0, -1, 3, 99} {
			_, ok := s.SubmitAnswer("Alice", idx)
			assert.False(t, ok, "index %d should be rejected", idx)
		}
		assert.Equal(t, 0, s.AnswerCount())

		// The bad attempts must not block a valid one.
		_, ok := s.SubmitAnswer("Alice", 2)
		assert.True(t, ok)
	})

	t.Run("empty name dropped", func(t *testing.T) {
		s := session.New(history.NewStore())
		s.CreatePoll(colorPoll())
		_, ok := s.SubmitAnswer("", 1)
		assert.False(t, ok)
	})

	t.Run("tally conservation", func(t *testing.T) {
		s := session.New(history.NewStore())
		s.CreatePoll(colorPoll())
		s.SubmitAnswer("a", 1)
		s.SubmitAnswer("b", 2)
		counts, ok := s.SubmitAnswer("c", 2)
		require.True(t, ok)
		assert.Equal(t, s.AnswerCount(), counts.Total())
	})
}

func TestShowResults(t *testing.T) {
	t.Run("rejected while idle", func(t *testing.T) {
		s := session.New(history.NewStore())
		_, _, ok := s.ShowResults()
		assert.False(t, ok)
	})

	t.Run("freezes tally and archives once", func(t *testing.T) {
		archive := history.NewStore()
		s := session.New(archive)
		s.CreatePoll(colorPoll())
		s.SubmitAnswer("Alice", 1)
		s.SubmitAnswer("Bob", 2)

		counts, snap, ok := s.ShowResults()
		require.True(t, ok)
		require.NotNil(t, snap, "first close must produce a snapshot")
		assert.Equal(t, 1, counts["1"])
		assert.Equal(t, 1, counts["2"])
		assert.Equal(t, 1, archive.Len())

		// Straggling submissions after close change nothing.
		_, ok = s.SubmitAnswer("Carol", 1)
		assert.False(t, ok)

		again, snap2, ok := s.ShowResults()
		require.True(t, ok)
		assert.Nil(t, snap2, "re-close must not archive again")
		assert.Equal(t, counts, again, "tally frozen at first close")
		assert.Equal(t, 1, archive.Len())
	})

	t.Run("history ordering across polls", func(t *testing.T) {
		archive := history.NewStore()
		s := session.New(archive)

		s.CreatePoll(poll.Poll{Question: "P1", Options: []poll.Option{{Text: "A"}, {Text: "B"}}})
		s.ShowResults()
		s.CreatePoll(poll.Poll{Question: "P2", Options: []poll.Option{{Text: "A"}, {Text: "B"}}})
		s.ShowResults()

		list := archive.List()
		require.Len(t, list, 2)
		assert.Equal(t, "P2", list[0].Question)
		assert.Equal(t, "P1", list[1].Question)
	})
}
