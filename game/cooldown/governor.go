// Package cooldown enforces the minimum interval between a player's own
// consecutive guesses.
//
// The window opens when the player's guess shows up as the newest entry of
// the authoritative history, not when it is sent. There is one window per
// governor: a new trigger while it is open restarts it. The governor does not
// own a clock. It hands a Timer to the driver's Scheduler and the driver
// reports back through Expire, which drops timers that belong to an earlier
// trigger or another session.
package cooldown

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/wordle-duel/game/session"
)

// DefaultWindow is the suppression window after a player's own guess.
const DefaultWindow = 2000 * time.Millisecond

// Timer identifies one scheduled expiry.
type Timer struct {
	SessionID  string
	Epoch      uint64 // Identifies the governor that issued the timer
	Generation uint64
	Duration   time.Duration
}

// Scheduler arranges for Expire(t) to be called on the owning goroutine once
// t.Duration has elapsed.
type Scheduler func(t Timer)

// epochs numbers governors process-wide. A timer is honored only by the
// governor that issued it, so a rejoin of the same session id starts clean.
var epochs atomic.Uint64

// Governor tracks whether submission is currently suppressed.
type Governor struct {
	epoch      uint64
	window     time.Duration
	schedule   Scheduler
	sessionID  string
	generation uint64
	active     bool
	logger     *zap.Logger
}

// New returns a governor with the given window. A zero window uses
// DefaultWindow.
func New(window time.Duration, schedule Scheduler, logger *zap.Logger) *Governor {
	if window <= 0 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Governor{
		epoch:    epochs.Add(1),
		window:   window,
		schedule: schedule,
		logger:   logger,
	}
}

// Reset binds the governor to a new session and drops any open window.
// Timers issued before the reset are ignored when they fire.
func (g *Governor) Reset(sessionID string) {
	g.sessionID = sessionID
	g.generation++
	g.active = false
}

// Active reports whether submission is suppressed.
func (g *Governor) Active() bool {
	return g.active
}

// Window returns the configured suppression window.
func (g *Governor) Window() time.Duration {
	return g.window
}

// OnChange is a session.Listener. It opens (or restarts) the window when the
// change grew the history or assigned the player and the newest guess
// belongs to the local player.
func (g *Governor) OnChange(st session.State, ch session.Change) {
	if st.SessionID != g.sessionID {
		return
	}
	if ch.Closed {
		g.generation++
		g.active = false
		return
	}
	if ch.Appended == 0 && !ch.PlayerAssigned {
		return
	}
	if !Triggered(st) {
		return
	}

	g.generation++
	g.active = true
	t := Timer{SessionID: g.sessionID, Epoch: g.epoch, Generation: g.generation, Duration: g.window}
	g.logger.Debug("cooldown started",
		zap.String("session_id", t.SessionID),
		zap.Uint64("generation", t.Generation),
		zap.Duration("window", t.Duration))
	if g.schedule != nil {
		g.schedule(t)
	}
}

// Expire closes the window if t is the most recent timer for the current
// session. It reports whether the window was closed.
func (g *Governor) Expire(t Timer) bool {
	if t.Epoch != g.epoch || t.SessionID != g.sessionID || t.Generation != g.generation {
		g.logger.Debug("stale cooldown timer ignored",
			zap.String("session_id", t.SessionID),
			zap.Uint64("epoch", t.Epoch),
			zap.Uint64("generation", t.Generation))
		return false
	}
	if !g.active {
		return false
	}
	g.active = false
	g.logger.Debug("cooldown ended", zap.String("session_id", t.SessionID))
	return true
}

// Triggered reports whether the newest guess in st was made by the local
// player. Both sides are PlayerSlot values normalized at the wire boundary.
func Triggered(st session.State) bool {
	if !st.HasPlayer {
		return false
	}
	last, ok := st.Last()
	if !ok {
		return false
	}
	return last.Player == st.Player
}
