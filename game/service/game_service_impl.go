package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/wordle-duel/api"
	"github.com/wricardo/wordle-duel/game/cooldown"
	"github.com/wricardo/wordle-duel/game/protocol"
	"github.com/wricardo/wordle-duel/game/session"
	"github.com/wricardo/wordle-duel/game/wordle"
	"github.com/wricardo/wordle-duel/transport/websocket"
)

var (
	ErrNoSession = errors.New("no game joined")
	ErrStopped   = errors.New("game service stopped")
)

// Options configures a player service.
type Options struct {
	Cooldown time.Duration
	Dial     Dialer
	Logger   *zap.Logger
}

// Player implements GameService for a single local player. All session
// state is owned by the Run loop; callers hand it work through the inbox and
// wait for the result. Call Run before using it.
type Player struct {
	lobby  Lobby
	dial   Dialer
	window time.Duration
	logger *zap.Logger

	inbox    chan func()
	expiries chan cooldown.Timer
	done     chan struct{}
	stopOnce sync.Once

	// Owned by the Run loop.
	game   *Game
	conn   Conn
	events <-chan protocol.Frame
}

// NewPlayer creates a player that discovers games through lobby.
func NewPlayer(lobby Lobby, opts Options) *Player {
	if opts.Dial == nil {
		opts.Dial = DialWebsocket
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Player{
		lobby:    lobby,
		dial:     opts.Dial,
		window:   opts.Cooldown,
		logger:   opts.Logger,
		inbox:    make(chan func()),
		expiries: make(chan cooldown.Timer, 1),
		done:     make(chan struct{}),
	}
}

// Run owns the session until ctx is cancelled. The open channel, if any, is
// closed on the way out.
func (p *Player) Run(ctx context.Context) error {
	defer p.stopOnce.Do(func() { close(p.done) })
	defer p.teardown(nil)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case fn := <-p.inbox:
			fn()

		case frame, ok := <-p.events:
			if !ok {
				err := p.conn.Err()
				p.conn.Close()
				p.conn, p.events = nil, nil
				if err == nil {
					err = websocket.ErrServerGone
				}
				p.game.HandleClosed(err)
				continue
			}
			p.game.HandleFrame(frame)

		case t := <-p.expiries:
			if p.game != nil {
				p.game.HandleExpiry(t)
			}
		}
	}
}

// do runs fn on the loop and waits for it to finish.
func (p *Player) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	job := func() {
		defer close(finished)
		fn()
	}

	select {
	case p.inbox <- job:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return ErrStopped
	}
}

func (p *Player) schedule(t cooldown.Timer) {
	time.AfterFunc(t.Duration, func() {
		select {
		case p.expiries <- t:
		case <-p.done:
		}
	})
}

// teardown closes the current channel. Runs on the loop.
func (p *Player) teardown(err error) {
	if p.conn != nil {
		p.conn.Close()
		p.conn, p.events = nil, nil
	}
	if p.game != nil {
		p.game.HandleClosed(err)
	}
}

// ListGames returns the open games. It never fails; problems show up as an
// empty list.
func (p *Player) ListGames(ctx context.Context) []wordle.Session {
	return p.lobby.ListOpenSessions(ctx)
}

// CreateGame starts a game on the server and returns its id without
// joining it.
func (p *Player) CreateGame(ctx context.Context, name string) (string, error) {
	return p.lobby.CreateSession(ctx, name)
}

// JoinGame leaves the current game, opens a channel to gameID and waits
// until the server assigns a slot or the channel ends.
func (p *Player) JoinGame(ctx context.Context, gameID string) (*View, error) {
	if err := api.ValidateSessionID(gameID); err != nil {
		return nil, err
	}

	var game *Game
	settled := make(chan struct{})
	var settleOnce sync.Once
	err := p.do(ctx, func() {
		p.teardown(nil)
		game = NewGame(gameID, nil, p.window, p.schedule, p.logger)
		game.Subscribe(func(st session.State, _ session.Change) {
			if st.Status != session.Connecting {
				settleOnce.Do(func() { close(settled) })
			}
		})
		game.Connecting()
		p.game = game
	})
	if err != nil {
		return nil, err
	}

	conn, dialErr := p.dial(ctx, p.lobby.BaseURL(), gameID, p.logger)

	var view *View
	err = p.do(ctx, func() {
		if p.game != game {
			// Superseded by a later join.
			if conn != nil {
				conn.Close()
			}
			dialErr = ErrNoSession
			return
		}
		if dialErr != nil {
			game.HandleClosed(dialErr)
			view = game.View()
			return
		}
		game.SetSender(conn)
		p.conn = conn
		p.events = conn.Events()
	})
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, err
	}
	if dialErr != nil {
		return view, fmt.Errorf("join %s: %w", gameID, dialErr)
	}

	select {
	case <-settled:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.done:
		return nil, ErrStopped
	}

	view, err = p.State(ctx)
	if err != nil {
		return nil, err
	}
	if view.Status == session.Closed {
		return view, fmt.Errorf("join %s: %w", gameID, view.Err)
	}
	return view, nil
}

// Guess submits word in the current game. The returned view is taken right
// after sending, before the server echoes the guess back.
func (p *Player) Guess(ctx context.Context, word string) (*View, error) {
	var view *View
	var sendErr error
	err := p.do(ctx, func() {
		if p.game == nil {
			sendErr = ErrNoSession
			return
		}
		_, sendErr = p.game.SubmitWord(word)
		view = p.game.View()
	})
	if err != nil {
		return nil, err
	}
	return view, sendErr
}

// State returns a snapshot of the current game.
func (p *Player) State(ctx context.Context) (*View, error) {
	var view *View
	err := p.do(ctx, func() {
		if p.game != nil {
			view = p.game.View()
		}
	})
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, ErrNoSession
	}
	return view, nil
}

// Leave closes the current channel. The final state stays readable.
func (p *Player) Leave(ctx context.Context) error {
	var had bool
	err := p.do(ctx, func() {
		had = p.game != nil
		p.teardown(nil)
	})
	if err != nil {
		return err
	}
	if !had {
		return ErrNoSession
	}
	return nil
}
