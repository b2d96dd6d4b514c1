package websocket

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wricardo/wordle-duel/game/protocol"
)

var (
	ErrClosed     = errors.New("connection closed")
	ErrSendQueue  = errors.New("send queue full")
	ErrServerGone = errors.New("server closed the connection")
)

// JoinPath is the duplex endpoint relative to the server base URL.
const JoinPath = "/join"

// Conn is the client side of a session channel. Decoded server frames are
// delivered on Events in receipt order; the channel is closed when the
// connection ends, after which Err reports why.
type Conn struct {
	ws     *websocket.Conn
	send   chan []byte
	events chan protocol.Frame
	quit   chan struct{}
	logger *zap.Logger

	closeOnce  sync.Once
	writerDone chan struct{}

	mu      sync.Mutex
	err     error
	closing bool
}

// JoinURL converts the HTTP base URL into the websocket join URL.
func JoinURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid server url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + JoinPath
	return u.String(), nil
}

// Dial opens the join channel for gameID and sends the join frame as the
// first and only handshake message.
func Dial(ctx context.Context, baseURL, gameID string, logger *zap.Logger) (*Conn, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	wsURL, err := JoinURL(baseURL)
	if err != nil {
		return nil, err
	}

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", wsURL, err)
	}

	join, err := protocol.EncodeJoin(gameID)
	if err != nil {
		ws.Close()
		return nil, err
	}
	ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := ws.WriteMessage(websocket.TextMessage, join); err != nil {
		ws.Close()
		return nil, fmt.Errorf("send join frame: %w", err)
	}

	c := &Conn{
		ws:         ws,
		send:       make(chan []byte, sendBufferSize),
		events:     make(chan protocol.Frame, sendBufferSize),
		quit:       make(chan struct{}),
		writerDone: make(chan struct{}),
		logger:     logger.With(zap.String("game_id", gameID)),
	}
	c.logger.Debug("join frame sent", zap.String("url", wsURL))

	go c.writePump()
	go c.readPump()
	return c, nil
}

// Events returns the inbound frame stream.
func (c *Conn) Events() <-chan protocol.Frame {
	return c.events
}

// Err returns the reason the connection ended. It is nil while the
// connection is open and after a local Close.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// SendGuess queues a guess frame.
func (c *Conn) SendGuess(word string) error {
	data, err := protocol.EncodeGuess(word)
	if err != nil {
		return err
	}

	c.mu.Lock()
	closing := c.closing
	c.mu.Unlock()
	if closing {
		return ErrClosed
	}

	select {
	case <-c.quit:
		return ErrClosed
	case c.send <- data:
		return nil
	default:
		return ErrSendQueue
	}
}

// Close sends a close frame and releases the connection. It is safe to call
// more than once and from any goroutine.
func (c *Conn) Close() error {
	c.mu.Lock()
	c.closing = true
	c.mu.Unlock()

	c.shutdown()
	<-c.writerDone
	return nil
}

func (c *Conn) shutdown() {
	c.closeOnce.Do(func() { close(c.quit) })
}

func (c *Conn) fail(err error) {
	c.mu.Lock()
	if !c.closing && c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
}

// readPump decodes server frames and hands them to the owner.
func (c *Conn) readPump() {
	defer func() {
		c.shutdown()
		close(c.events)
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.fail(ErrServerGone)
			} else {
				c.fail(err)
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		frame, err := protocol.DecodeFrame(message)
		switch {
		case errors.Is(err, protocol.ErrMalformedGuess):
			c.logger.Warn("dropping guess list from server frame", zap.Error(err))
		case err != nil:
			c.logger.Warn("dropping server frame", zap.Error(err))
			continue
		}

		select {
		case c.events <- frame:
		case <-c.quit:
			return
		}
	}
}

// writePump owns all writes after the join frame.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
		close(c.writerDone)
	}()

	for {
		select {
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.fail(err)
				c.shutdown()
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.fail(err)
				c.shutdown()
				return
			}

		case <-c.quit:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
