package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/wricardo/wordle-duel/game/entry"
	"github.com/wricardo/wordle-duel/game/protocol"
	"github.com/wricardo/wordle-duel/game/wordle"
	"github.com/wricardo/wordle-duel/transport/websocket"
)

// GameService defines the player's operations against a game server
type GameService interface {
	// Discovery and handshake
	ListGames(ctx context.Context) []wordle.Session
	CreateGame(ctx context.Context, name string) (string, error)

	// Session
	JoinGame(ctx context.Context, gameID string) (*View, error)
	Guess(ctx context.Context, word string) (*View, error)
	State(ctx context.Context) (*View, error)
	Leave(ctx context.Context) error
}

// Lobby is the request/response side of the server.
type Lobby interface {
	ListOpenSessions(ctx context.Context) []wordle.Session
	CreateSession(ctx context.Context, name string) (string, error)
	BaseURL() string
}

// Conn is an open session channel.
type Conn interface {
	entry.Sender
	Events() <-chan protocol.Frame
	Err() error
	Close() error
}

// Dialer opens the session channel for gameID and sends the join frame.
type Dialer func(ctx context.Context, baseURL, gameID string, logger *zap.Logger) (Conn, error)

// DialWebsocket is the Dialer backed by package websocket.
func DialWebsocket(ctx context.Context, baseURL, gameID string, logger *zap.Logger) (Conn, error) {
	conn, err := websocket.Dial(ctx, baseURL, gameID, logger)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
