package session

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/wricardo/wordle-duel/game/protocol"
	"github.com/wricardo/wordle-duel/game/wordle"
)

var (
	ErrAbandoned = errors.New("session abandoned before join")
	ErrRejected  = errors.New("server rejected session")
)

// Status is the connection state of a session.
type Status int

const (
	Disconnected Status = iota
	Connecting
	Joined
	Completed
	Closed
)

func (s Status) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Joined:
		return "joined"
	case Completed:
		return "completed"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is the client view of one session. Only Machine mutates it.
type State struct {
	SessionID string
	Player    wordle.PlayerSlot
	HasPlayer bool
	Guesses   []wordle.Guess
	Completed bool
	Status    Status

	// Err is set when the session reached Closed because of a failure.
	Err error
}

// Last returns the most recent guess, if any.
func (s State) Last() (wordle.Guess, bool) {
	if len(s.Guesses) == 0 {
		return wordle.Guess{}, false
	}
	return s.Guesses[len(s.Guesses)-1], true
}

// Change describes what a single Apply did to the state.
type Change struct {
	PlayerAssigned bool
	Appended       int
	Completed      bool
	Closed         bool
}

// Empty reports whether the change left the state untouched.
func (c Change) Empty() bool {
	return !c.PlayerAssigned && c.Appended == 0 && !c.Completed && !c.Closed
}

// Listener is notified after every state mutation. Listeners run on the
// goroutine that called into the Machine and must not call back into it.
type Listener func(State, Change)

// Machine owns a session State and applies inbound frames to it.
type Machine struct {
	state     State
	listeners []Listener
	logger    *zap.Logger
}

// NewMachine creates a machine for sessionID in the Disconnected state.
func NewMachine(sessionID string, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{
		state:  State{SessionID: sessionID, Status: Disconnected},
		logger: logger.With(zap.String("session_id", sessionID)),
	}
}

// Subscribe registers l for all future changes.
func (m *Machine) Subscribe(l Listener) {
	m.listeners = append(m.listeners, l)
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	s := m.state
	s.Guesses = slices.Clone(m.state.Guesses)
	return s
}

// Status returns the current connection status.
func (m *Machine) Status() Status {
	return m.state.Status
}

// Connecting records that the channel is being opened.
func (m *Machine) Connecting() {
	if m.state.Status != Disconnected {
		return
	}
	m.state.Status = Connecting
	m.logger.Debug("session connecting")
}

// Apply merges one server frame into the state. Only fields present in the
// frame are applied.
func (m *Machine) Apply(f protocol.Frame) Change {
	var ch Change
	if m.state.Status == Closed || m.state.Status == Disconnected {
		m.logger.Debug("frame ignored", zap.Stringer("status", m.state.Status))
		return ch
	}

	if f.Error != "" {
		return m.close(fmt.Errorf("%w: %s", ErrRejected, f.Error))
	}

	if f.Player != nil {
		if !m.state.HasPlayer {
			m.state.Player = *f.Player
			m.state.HasPlayer = true
			ch.PlayerAssigned = true
			m.logger.Info("player assigned", zap.Int("player", int(*f.Player)))
		} else if *f.Player != m.state.Player {
			m.logger.Warn("ignoring second player assignment",
				zap.Int("player", int(m.state.Player)),
				zap.Int("offered", int(*f.Player)))
		}
	}

	if f.HasGuesses {
		ch.Appended = m.appendGuesses(f.Guesses)
	}

	if f.Completed != nil && *f.Completed && !m.state.Completed {
		m.state.Completed = true
		ch.Completed = true
		m.logger.Info("session completed", zap.Int("guesses", len(m.state.Guesses)))
	}

	if m.state.Status == Connecting && m.state.HasPlayer {
		m.state.Status = Joined
	}
	if m.state.Status == Joined && m.state.Completed {
		m.state.Status = Completed
	}

	if !ch.Empty() {
		m.notify(ch)
	}
	return ch
}

// appendGuesses merges a full-list snapshot into the append-only history.
// The snapshot must extend the known history; anything else is ignored.
func (m *Machine) appendGuesses(incoming []wordle.Guess) int {
	known := m.state.Guesses
	if len(incoming) < len(known) {
		m.logger.Warn("ignoring shorter guess list",
			zap.Int("known", len(known)),
			zap.Int("received", len(incoming)))
		return 0
	}
	for i := range known {
		if !known[i].Equal(incoming[i]) {
			m.logger.Warn("ignoring guess list that rewrites history", zap.Int("index", i))
			return 0
		}
	}
	added := incoming[len(known):]
	m.state.Guesses = append(m.state.Guesses, added...)
	return len(added)
}

// Close moves the session to Closed. A nil err means explicit teardown.
// Closing before Joined abandons the session.
func (m *Machine) Close(err error) Change {
	if m.state.Status == Closed {
		return Change{}
	}
	if err == nil && m.state.Status == Connecting {
		err = ErrAbandoned
	} else if err != nil && m.state.Status == Connecting && !errors.Is(err, ErrRejected) {
		err = fmt.Errorf("%w: %w", ErrAbandoned, err)
	}
	return m.close(err)
}

func (m *Machine) close(err error) Change {
	m.state.Status = Closed
	m.state.Err = err
	if err != nil {
		m.logger.Info("session closed", zap.Error(err))
	} else {
		m.logger.Info("session closed")
	}
	ch := Change{Closed: true}
	m.notify(ch)
	return ch
}

func (m *Machine) notify(ch Change) {
	if len(m.listeners) == 0 {
		return
	}
	snapshot := m.State()
	for _, l := range m.listeners {
		l(snapshot, ch)
	}
}
