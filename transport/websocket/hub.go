package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wricardo/wordle-duel/game/lobby"
	"github.com/wricardo/wordle-duel/game/protocol"
	"github.com/wricardo/wordle-duel/game/wordle"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Server frames carry the whole
	// guess history.
	maxMessageSize = 64 * 1024

	sendBufferSize = 256

	// Time allowed for a new connection to send its join frame.
	joinWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; the reference server is for local play.
		return true
	},
}

// Games is the registry the hub seats players in and records guesses with.
type Games interface {
	Join(id string) (wordle.PlayerSlot, lobby.Snapshot, error)
	Guess(id string, player wordle.PlayerSlot, word string) (lobby.Snapshot, error)
}

// Client is one player connection on the server side.
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	gameID string
	player wordle.PlayerSlot
}

// Hub maintains the set of connections per game and broadcasts every new
// guess list to all players of that game.
type Hub struct {
	games  Games
	logger *zap.Logger

	// Registered clients by game ID
	rooms map[string]map[*Client]bool

	// Snapshots to fan out to a game's clients
	broadcast chan lobby.Snapshot

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}
}

// NewHub creates a hub backed by games.
func NewHub(games Games, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		games:      games,
		logger:     logger,
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan lobby.Snapshot),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop and returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case snap := <-h.broadcast:
			h.broadcastSnapshot(snap)

		case <-ctx.Done():
			for _, clients := range h.rooms {
				for client := range clients {
					h.unregisterClient(client)
				}
			}
			return
		}
	}
}

// ServeJoin upgrades the request, reads the join frame and seats the player.
func (h *Hub) ServeJoin(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(joinWait))
	var join protocol.JoinFrame
	if err := conn.ReadJSON(&join); err != nil {
		h.logger.Debug("join frame not received", zap.Error(err))
		conn.Close()
		return
	}

	player, snap, err := h.games.Join(join.GameID)
	if err != nil {
		h.logger.Info("join rejected", zap.String("game_id", join.GameID), zap.Error(err))
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteJSON(protocol.ServerMessage{Error: joinErrorMessage(err)})
		conn.Close()
		return
	}

	client := &Client{
		id:     uuid.NewString(),
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		gameID: join.GameID,
		player: player,
	}

	n := int(player)
	welcome, err := encode(snap, &n)
	if err != nil {
		h.logger.Error("failed to encode join reply", zap.Error(err))
		conn.Close()
		return
	}
	client.send <- welcome

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func joinErrorMessage(err error) string {
	switch err {
	case lobby.ErrGameNotFound:
		return "Game not found"
	default:
		return err.Error()
	}
}

func encode(snap lobby.Snapshot, player *int) ([]byte, error) {
	wire := make([]protocol.WireGuess, len(snap.Guesses))
	for i, g := range snap.Guesses {
		wire[i] = protocol.ToWire(g)
	}
	completed := snap.Completed
	return json.Marshal(protocol.ServerMessage{
		PlayerNumber: player,
		Guesses:      &wire,
		Completed:    &completed,
	})
}

// registerClient adds a client to its game room
func (h *Hub) registerClient(client *Client) {
	if h.rooms[client.gameID] == nil {
		h.rooms[client.gameID] = make(map[*Client]bool)
	}
	h.rooms[client.gameID][client] = true

	h.logger.Info("player joined",
		zap.String("game_id", client.gameID),
		zap.String("client_id", client.id),
		zap.Int("player", int(client.player)),
		zap.Int("connections", len(h.rooms[client.gameID])))
}

// unregisterClient removes a client from its game room
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.rooms[client.gameID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			if len(clients) == 0 {
				delete(h.rooms, client.gameID)
			}

			h.logger.Info("player left",
				zap.String("game_id", client.gameID),
				zap.String("client_id", client.id),
				zap.Int("connections", len(clients)))
		}
	}
}

// broadcastSnapshot sends the guess list and completion flag to every
// client in the snapshot's game.
func (h *Hub) broadcastSnapshot(snap lobby.Snapshot) {
	data, err := encode(snap, nil)
	if err != nil {
		h.logger.Error("failed to encode broadcast", zap.Error(err))
		return
	}

	if clients, ok := h.rooms[snap.GameID]; ok {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				h.unregisterClient(client)
			}
		}
	}
}

// readPump turns guess frames into registry updates.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var frame protocol.GuessFrame
		if err := c.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}

		snap, err := c.hub.games.Guess(c.gameID, c.player, frame.Word)
		if err != nil {
			c.hub.logger.Debug("guess rejected",
				zap.String("game_id", c.gameID),
				zap.Int("player", int(c.player)),
				zap.Error(err))
			continue
		}
		select {
		case c.hub.broadcast <- snap:
		case <-c.hub.done:
			return
		}
	}
}

// writePump pumps frames from the hub to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
