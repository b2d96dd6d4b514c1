package session

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/wordle-duel/game/protocol"
	"github.com/wricardo/wordle-duel/game/wordle"
)

func slot(n int) *wordle.PlayerSlot {
	p := wordle.PlayerSlot(n)
	return &p
}

func boolPtr(b bool) *bool { return &b }

func guess(player int, word, result string) wordle.Guess {
	r, err := wordle.ParseResult(result)
	if err != nil {
		panic(err)
	}
	return wordle.Guess{Player: wordle.PlayerSlot(player), Word: word, Result: r}
}

func guesses(gs ...wordle.Guess) protocol.Frame {
	return protocol.Frame{Guesses: gs, HasGuesses: true}
}

func connected(t *testing.T) *Machine {
	t.Helper()
	m := NewMachine("game-1", nil)
	m.Connecting()
	require.Equal(t, Connecting, m.Status())
	return m
}

func TestMachine_JoinTransition(t *testing.T) {
	m := connected(t)

	ch := m.Apply(protocol.Frame{Player: slot(2), HasGuesses: true, Completed: boolPtr(false)})

	assert.True(t, ch.PlayerAssigned)
	st := m.State()
	assert.Equal(t, Joined, st.Status)
	assert.Equal(t, wordle.PlayerSlot(2), st.Player)
	assert.True(t, st.HasPlayer)
	assert.False(t, st.Completed)
}

func TestMachine_FramesBeforeConnectingAreIgnored(t *testing.T) {
	m := NewMachine("game-1", nil)
	ch := m.Apply(protocol.Frame{Player: slot(1)})
	assert.True(t, ch.Empty())
	assert.Equal(t, Disconnected, m.Status())
}

func TestMachine_PlayerAssignedOnce(t *testing.T) {
	m := connected(t)
	m.Apply(protocol.Frame{Player: slot(1)})

	ch := m.Apply(protocol.Frame{Player: slot(2)})

	assert.False(t, ch.PlayerAssigned)
	assert.Equal(t, wordle.PlayerSlot(1), m.State().Player)
}

func TestMachine_PlayerNeverChanges_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for run := 0; run < 200; run++ {
		m := connected(t)
		var first wordle.PlayerSlot
		for step := 0; step < 20; step++ {
			var f protocol.Frame
			if rng.IntN(2) == 0 {
				f.Player = slot(1 + rng.IntN(4))
			}
			if rng.IntN(4) == 0 {
				f.Completed = boolPtr(rng.IntN(2) == 0)
			}
			m.Apply(f)

			st := m.State()
			if st.HasPlayer && first == 0 {
				first = st.Player
			}
			if first != 0 {
				require.Equal(t, first, st.Player, "run %d step %d", run, step)
			}
		}
	}
}

func TestMachine_AbsentGuessesDoNotClear(t *testing.T) {
	m := connected(t)
	m.Apply(protocol.Frame{Player: slot(1)})
	m.Apply(guesses(guess(1, "SLATE", "XXGXG")))

	ch := m.Apply(protocol.Frame{Completed: boolPtr(false)})

	assert.Equal(t, 0, ch.Appended)
	assert.Len(t, m.State().Guesses, 1)
}

func TestMachine_GuessesAreAppendOnly(t *testing.T) {
	m := connected(t)
	m.Apply(protocol.Frame{Player: slot(1)})

	a := guess(1, "SLATE", "XXGXG")
	b := guess(2, "CRANE", "GXGXG")
	c := guess(1, "TRACE", "XGGXG")

	ch := m.Apply(guesses(a))
	assert.Equal(t, 1, ch.Appended)

	ch = m.Apply(guesses(a, b, c))
	assert.Equal(t, 2, ch.Appended)

	// shorter snapshot is stale
	ch = m.Apply(guesses(a))
	assert.Equal(t, 0, ch.Appended)

	// rewritten prefix is rejected
	ch = m.Apply(guesses(b, a, c, a))
	assert.Equal(t, 0, ch.Appended)

	// explicit empty list never clears
	ch = m.Apply(guesses())
	assert.Equal(t, 0, ch.Appended)

	got := m.State().Guesses
	require.Len(t, got, 3)
	assert.True(t, got[0].Equal(a))
	assert.True(t, got[1].Equal(b))
	assert.True(t, got[2].Equal(c))
}

func TestMachine_CompletedIsSticky(t *testing.T) {
	m := connected(t)
	m.Apply(protocol.Frame{Player: slot(1)})

	ch := m.Apply(protocol.Frame{Completed: boolPtr(true)})
	assert.True(t, ch.Completed)
	assert.Equal(t, Completed, m.Status())

	ch = m.Apply(protocol.Frame{Completed: boolPtr(false)})
	assert.False(t, ch.Completed)
	assert.True(t, m.State().Completed)
	assert.Equal(t, Completed, m.Status())

	// still accepts history updates while completed
	ch = m.Apply(guesses(guess(2, "CRANE", "GGGGG")))
	assert.Equal(t, 1, ch.Appended)
}

func TestMachine_CompletedBeforeJoin(t *testing.T) {
	m := connected(t)

	m.Apply(protocol.Frame{Completed: boolPtr(true)})
	assert.Equal(t, Connecting, m.Status())

	m.Apply(protocol.Frame{Player: slot(2)})
	assert.Equal(t, Completed, m.Status())
}

func TestMachine_JoinAndCompleteInOneFrame(t *testing.T) {
	m := connected(t)

	m.Apply(protocol.Frame{
		Player:     slot(2),
		Guesses:    []wordle.Guess{guess(1, "CRANE", "GGGGG")},
		HasGuesses: true,
		Completed:  boolPtr(true),
	})

	st := m.State()
	assert.Equal(t, Completed, st.Status)
	assert.Len(t, st.Guesses, 1)
}

func TestMachine_CloseBeforeJoinAbandons(t *testing.T) {
	m := connected(t)

	ch := m.Close(errors.New("connection reset"))

	assert.True(t, ch.Closed)
	st := m.State()
	assert.Equal(t, Closed, st.Status)
	assert.ErrorIs(t, st.Err, ErrAbandoned)
}

func TestMachine_TeardownAfterJoin(t *testing.T) {
	m := connected(t)
	m.Apply(protocol.Frame{Player: slot(1)})

	m.Close(nil)

	st := m.State()
	assert.Equal(t, Closed, st.Status)
	assert.NoError(t, st.Err)

	// closed is terminal
	ch := m.Apply(protocol.Frame{Completed: boolPtr(true)})
	assert.True(t, ch.Empty())
	assert.False(t, m.State().Completed)
	assert.True(t, m.Close(nil).Empty())
}

func TestMachine_ErrorFrameCloses(t *testing.T) {
	m := connected(t)

	m.Apply(protocol.Frame{Error: "Game not found"})

	st := m.State()
	assert.Equal(t, Closed, st.Status)
	assert.ErrorIs(t, st.Err, ErrRejected)
	assert.Contains(t, st.Err.Error(), "Game not found")
}

func TestMachine_ListenersSeeEveryChange(t *testing.T) {
	m := connected(t)

	var seen []Change
	var last State
	m.Subscribe(func(st State, ch Change) {
		seen = append(seen, ch)
		last = st
	})

	m.Apply(protocol.Frame{Player: slot(1), HasGuesses: true})
	m.Apply(guesses(guess(1, "SLATE", "XXGXG")))
	m.Apply(protocol.Frame{}) // no-op
	m.Close(nil)

	require.Len(t, seen, 3)
	assert.True(t, seen[0].PlayerAssigned)
	assert.Equal(t, 1, seen[1].Appended)
	assert.True(t, seen[2].Closed)
	assert.Equal(t, Closed, last.Status)
}

func TestMachine_StateIsACopy(t *testing.T) {
	m := connected(t)
	m.Apply(protocol.Frame{Player: slot(1)})
	m.Apply(guesses(guess(1, "SLATE", "XXGXG")))

	st := m.State()
	st.Guesses[0].Word = "XXXXX"

	assert.Equal(t, "SLATE", m.State().Guesses[0].Word)
}

func TestState_Last(t *testing.T) {
	var st State
	_, ok := st.Last()
	assert.False(t, ok)

	st.Guesses = []wordle.Guess{guess(1, "SLATE", "XXGXG"), guess(2, "CRANE", "GGGGG")}
	g, ok := st.Last()
	require.True(t, ok)
	assert.Equal(t, "CRANE", g.Word)
}
