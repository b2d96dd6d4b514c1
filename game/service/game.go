package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/wordle-duel/game/cooldown"
	"github.com/wricardo/wordle-duel/game/entry"
	"github.com/wricardo/wordle-duel/game/history"
	"github.com/wricardo/wordle-duel/game/protocol"
	"github.com/wricardo/wordle-duel/game/session"
	"github.com/wricardo/wordle-duel/game/wordle"
)

// Game wires one session's state machine, cooldown governor and entry
// buffer together. It is not safe for concurrent use; a single owner loop
// feeds it frames, timer expiries and keystrokes.
type Game struct {
	machine  *session.Machine
	governor *cooldown.Governor
	entry    *entry.Controller
	sender   entry.Sender
	logger   *zap.Logger
}

// NewGame creates the client side of session sessionID. Guesses go out
// through sender; cooldown expiries are requested through schedule.
func NewGame(sessionID string, sender entry.Sender, window time.Duration, schedule cooldown.Scheduler, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Game{
		machine:  session.NewMachine(sessionID, logger),
		governor: cooldown.New(window, schedule, logger),
		entry:    entry.New(),
		sender:   sender,
		logger:   logger,
	}
	g.governor.Reset(sessionID)
	g.machine.Subscribe(g.governor.OnChange)
	return g
}

// Subscribe registers l for state changes after the governor has seen them.
func (g *Game) Subscribe(l session.Listener) {
	g.machine.Subscribe(l)
}

// SessionID returns the id of the session this game belongs to.
func (g *Game) SessionID() string {
	return g.machine.State().SessionID
}

// SetSender attaches the channel guesses are sent on once it is open.
func (g *Game) SetSender(sender entry.Sender) {
	g.sender = sender
}

// Connecting marks the channel as being opened.
func (g *Game) Connecting() {
	g.machine.Connecting()
}

// HandleFrame applies one server frame.
func (g *Game) HandleFrame(f protocol.Frame) session.Change {
	return g.machine.Apply(f)
}

// HandleClosed records the end of the channel. A nil err is a local teardown.
func (g *Game) HandleClosed(err error) session.Change {
	return g.machine.Close(err)
}

// HandleExpiry forwards a fired cooldown timer to the governor.
func (g *Game) HandleExpiry(t cooldown.Timer) bool {
	return g.governor.Expire(t)
}

// Type enters r at the focused cell.
func (g *Game) Type(r rune) bool {
	return g.entry.Type(r)
}

// Backspace edits the buffer backwards.
func (g *Game) Backspace() {
	g.entry.Backspace()
}

// SetFocus moves the cursor to cell i.
func (g *Game) SetFocus(i int) {
	g.entry.SetFocus(i)
}

func (g *Game) gate() entry.Gate {
	st := g.machine.State()
	return entry.Gate{
		Status:    st.Status,
		Completed: st.Completed,
		Cooldown:  g.governor.Active(),
	}
}

// Submit sends the buffered word if the gate and the buffer allow it.
func (g *Game) Submit() (string, error) {
	word, err := g.entry.Submit(g.gate(), g.sender)
	if err != nil {
		g.logger.Debug("guess not sent", zap.Error(err))
		return "", err
	}
	g.logger.Info("guess sent", zap.String("word", word))
	return word, nil
}

// SubmitWord replaces the buffer with word and submits it. The buffer is
// left empty whatever the outcome.
func (g *Game) SubmitWord(word string) (string, error) {
	if !wordle.IsWord(word) {
		return "", fmt.Errorf("%w: %q", entry.ErrIncomplete, word)
	}
	g.entry.Clear()
	for _, r := range word {
		g.entry.Type(r)
	}
	sent, err := g.Submit()
	if err != nil {
		g.entry.Clear()
	}
	return sent, err
}

// View returns a snapshot for rendering.
func (g *Game) View() *View {
	st := g.machine.State()
	gate := g.gate()
	return &View{
		State:     st,
		Cooldown:  gate.Cooldown,
		Cells:     g.entry.Cells(),
		Focus:     g.entry.Focus(),
		CanSubmit: g.entry.CanSubmit(gate),
		Rows:      history.Render(st.Guesses),
	}
}
