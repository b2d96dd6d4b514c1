package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wricardo/wordle-duel/game/cooldown"
	"github.com/wricardo/wordle-duel/game/protocol"
	"github.com/wricardo/wordle-duel/game/service"
	"github.com/wricardo/wordle-duel/game/wordle"
)

// --- Messages ---

// gamesLoadedMsg carries the discovery result. Failures arrive as an empty
// list.
type gamesLoadedMsg struct {
	games []wordle.Session
}

// gameCreatedMsg is sent after the create request returns
type gameCreatedMsg struct {
	id  string
	err error
}

// connectedMsg is sent when the join channel is open, or failed to open
type connectedMsg struct {
	sessionID string
	conn      service.Conn
	err       error
}

// frameMsg carries one server frame from conn
type frameMsg struct {
	conn  service.Conn
	frame protocol.Frame
}

// channelClosedMsg is sent when conn's frame stream ends
type channelClosedMsg struct {
	conn service.Conn
	err  error
}

// cooldownExpiredMsg reports a fired cooldown timer
type cooldownExpiredMsg struct {
	timer cooldown.Timer
}

// --- Commands ---

func listGamesCmd(ctx context.Context, lobby service.Lobby) tea.Cmd {
	return func() tea.Msg {
		return gamesLoadedMsg{games: lobby.ListOpenSessions(ctx)}
	}
}

func createGameCmd(ctx context.Context, lobby service.Lobby, name string) tea.Cmd {
	return func() tea.Msg {
		id, err := lobby.CreateSession(ctx, name)
		return gameCreatedMsg{id: id, err: err}
	}
}

func dialCmd(ctx context.Context, dial service.Dialer, baseURL, id string, logger *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		conn, err := dial(ctx, baseURL, id, logger)
		return connectedMsg{sessionID: id, conn: conn, err: err}
	}
}

// waitForFrame blocks on the next frame from conn. It is re-issued after
// every frame so exactly one read is outstanding per connection.
func waitForFrame(conn service.Conn) tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-conn.Events()
		if !ok {
			return channelClosedMsg{conn: conn, err: conn.Err()}
		}
		return frameMsg{conn: conn, frame: frame}
	}
}

func cooldownCmd(t cooldown.Timer) tea.Cmd {
	return tea.Tick(t.Duration, func(time.Time) tea.Msg {
		return cooldownExpiredMsg{timer: t}
	})
}
