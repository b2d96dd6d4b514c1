package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/wordle-duel/game/wordle"
)

var (
	ErrEmptyName      = errors.New("game name is required")
	ErrEmptySessionID = errors.New("session id is required")
	ErrNoGameID       = errors.New("server returned no game id")
)

// Client talks to the request/response side of the game server: discovery
// of open games and creation of new ones.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the server endpoint the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type listGamesResponse struct {
	Games []wordle.Session `json:"games"`
}

type startRequest struct {
	GameName string `json:"game_name"`
}

type startResponse struct {
	GameID   string `json:"game_id"`
	GameName string `json:"game_name,omitempty"`
}

// ListOpenSessions fetches the open games. Failures are logged and reported
// as an empty list; the caller shows the empty state.
func (c *Client) ListOpenSessions(ctx context.Context) []wordle.Session {
	var resp listGamesResponse
	if err := c.apiCall(ctx, http.MethodGet, "/games", nil, &resp); err != nil {
		c.logger.Warn("listing games failed", zap.Error(err))
		return []wordle.Session{}
	}
	if resp.Games == nil {
		return []wordle.Session{}
	}
	return resp.Games
}

// CreateSession asks the server to start a game called name and returns its
// id. Nothing is created locally when it fails.
func (c *Client) CreateSession(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	var resp startResponse
	if err := c.apiCall(ctx, http.MethodPost, "/start", startRequest{GameName: name}, &resp); err != nil {
		c.logger.Warn("starting game failed", zap.String("name", name), zap.Error(err))
		return "", fmt.Errorf("start game: %w", err)
	}
	if resp.GameID == "" {
		return "", ErrNoGameID
	}

	c.logger.Info("game created", zap.String("game_id", resp.GameID), zap.String("name", name))
	return resp.GameID, nil
}

// ValidateSessionID is the only check made before joining: the id must be
// non-empty. Unknown ids are reported by the server on the join channel.
func ValidateSessionID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptySessionID
	}
	return nil
}

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}
