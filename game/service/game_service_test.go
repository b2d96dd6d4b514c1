package service_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/wordle-duel/api"
	"github.com/wricardo/wordle-duel/game/engine"
	"github.com/wricardo/wordle-duel/game/entry"
	"github.com/wricardo/wordle-duel/game/lobby"
	"github.com/wricardo/wordle-duel/game/service"
	"github.com/wricardo/wordle-duel/game/session"
	"github.com/wricardo/wordle-duel/transport/websocket"
)

const testWindow = 150 * time.Millisecond

func startReferenceServer(t *testing.T) *httptest.Server {
	t.Helper()
	manager := lobby.NewManager(engine.FixedPicker("CRANE"))
	hub := websocket.NewHub(manager, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(api.NewServer(manager, hub, "", nil))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return server
}

func startPlayer(t *testing.T, baseURL string) *service.Player {
	t.Helper()
	client := api.NewClient(baseURL, time.Second, nil)
	player := service.NewPlayer(client, service.Options{Cooldown: testWindow, Logger: zap.NewNop()})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		player.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return player
}

// waitFor polls the player's state until cond holds.
func waitFor(t *testing.T, p *service.Player, cond func(*service.View) bool) *service.View {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		view, err := p.State(context.Background())
		if err == nil && cond(view) {
			return view
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Timed out waiting for state")
	return nil
}

func TestPlayer_FullGame(t *testing.T) {
	server := startReferenceServer(t)
	ctx := context.Background()

	alice := startPlayer(t, server.URL)
	bob := startPlayer(t, server.URL)

	if games := alice.ListGames(ctx); len(games) != 0 {
		t.Fatalf("Expected no games, got %v", games)
	}

	id, err := alice.CreateGame(ctx, "duel")
	if err != nil {
		t.Fatalf("CreateGame() error = %v", err)
	}

	view, err := alice.JoinGame(ctx, id)
	if err != nil {
		t.Fatalf("JoinGame() error = %v", err)
	}
	if view.Status != session.Joined || view.Player != 1 {
		t.Fatalf("Expected Joined as player 1, got %v player %d", view.Status, view.Player)
	}

	games := bob.ListGames(ctx)
	if len(games) != 1 || games[0].Players != 1 {
		t.Fatalf("Expected one game with one player, got %v", games)
	}

	view, err = bob.JoinGame(ctx, id)
	if err != nil {
		t.Fatalf("bob JoinGame() error = %v", err)
	}
	if view.Player != 2 {
		t.Errorf("Expected bob to be player 2, got %d", view.Player)
	}

	// Alice guesses; once the echo arrives she is in cooldown and bob is not.
	if _, err := alice.Guess(ctx, "slate"); err != nil {
		t.Fatalf("Guess() error = %v", err)
	}
	waitFor(t, alice, func(v *service.View) bool { return len(v.Guesses) == 1 && v.Cooldown })

	if _, err := alice.Guess(ctx, "trace"); !errors.Is(err, entry.ErrCooldown) {
		t.Errorf("Expected ErrCooldown, got %v", err)
	}

	bobView := waitFor(t, bob, func(v *service.View) bool { return len(v.Guesses) == 1 })
	if bobView.Cooldown {
		t.Error("Opponent's guess must not start bob's cooldown")
	}

	waitFor(t, alice, func(v *service.View) bool { return !v.Cooldown })

	// Bob solves it; both sides complete and nobody can send again.
	if _, err := bob.Guess(ctx, "CRANE"); err != nil {
		t.Fatalf("bob Guess() error = %v", err)
	}
	final := waitFor(t, alice, func(v *service.View) bool { return v.Completed })
	if final.Status != session.Completed {
		t.Errorf("Expected Completed, got %v", final.Status)
	}
	if len(final.Guesses) != 2 || final.Guesses[1].Player != 2 || !final.Guesses[1].Result.Solved() {
		t.Errorf("Unexpected history %+v", final.Guesses)
	}

	if _, err := alice.Guess(ctx, "crane"); !errors.Is(err, entry.ErrCompleted) {
		t.Errorf("Expected ErrCompleted, got %v", err)
	}

	if games := alice.ListGames(ctx); len(games) != 0 {
		t.Errorf("Completed game should not be listed, got %v", games)
	}
}

func TestPlayer_JoinUnknownGame(t *testing.T) {
	server := startReferenceServer(t)
	player := startPlayer(t, server.URL)

	view, err := player.JoinGame(context.Background(), "game-404")
	if !errors.Is(err, session.ErrRejected) {
		t.Fatalf("Expected ErrRejected, got %v", err)
	}
	if view == nil || view.Status != session.Closed {
		t.Errorf("Expected Closed view, got %+v", view)
	}
}

func TestPlayer_JoinEmptyID(t *testing.T) {
	server := startReferenceServer(t)
	player := startPlayer(t, server.URL)

	if _, err := player.JoinGame(context.Background(), " "); !errors.Is(err, api.ErrEmptySessionID) {
		t.Errorf("Expected ErrEmptySessionID, got %v", err)
	}
}

func TestPlayer_DialFailureAbandons(t *testing.T) {
	server := startReferenceServer(t)
	url := server.URL
	server.Close()

	player := startPlayer(t, url)
	view, err := player.JoinGame(context.Background(), "game-1")
	if err == nil {
		t.Fatal("Expected dial error")
	}
	if !errors.Is(view.Err, session.ErrAbandoned) {
		t.Errorf("Expected abandoned session, got %v", view.Err)
	}
}

func TestPlayer_NoSession(t *testing.T) {
	server := startReferenceServer(t)
	player := startPlayer(t, server.URL)
	ctx := context.Background()

	if _, err := player.State(ctx); !errors.Is(err, service.ErrNoSession) {
		t.Errorf("State() error = %v, want ErrNoSession", err)
	}
	if _, err := player.Guess(ctx, "crane"); !errors.Is(err, service.ErrNoSession) {
		t.Errorf("Guess() error = %v, want ErrNoSession", err)
	}
	if err := player.Leave(ctx); !errors.Is(err, service.ErrNoSession) {
		t.Errorf("Leave() error = %v, want ErrNoSession", err)
	}
}

func TestPlayer_Leave(t *testing.T) {
	server := startReferenceServer(t)
	player := startPlayer(t, server.URL)
	ctx := context.Background()

	id, _ := player.CreateGame(ctx, "solo")
	if _, err := player.JoinGame(ctx, id); err != nil {
		t.Fatalf("JoinGame() error = %v", err)
	}

	if err := player.Leave(ctx); err != nil {
		t.Fatalf("Leave() error = %v", err)
	}
	view, err := player.State(ctx)
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if view.Status != session.Closed || view.Err != nil {
		t.Errorf("Expected clean Closed state, got %v err %v", view.Status, view.Err)
	}
	if _, err := player.Guess(ctx, "crane"); !errors.Is(err, entry.ErrNotJoined) {
		t.Errorf("Guess after Leave error = %v, want ErrNotJoined", err)
	}
}

func TestPlayer_Stopped(t *testing.T) {
	client := api.NewClient("http://127.0.0.1:1", time.Second, nil)
	player := service.NewPlayer(client, service.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	player.Run(ctx)

	if _, err := player.State(context.Background()); !errors.Is(err, service.ErrStopped) {
		t.Errorf("Expected ErrStopped, got %v", err)
	}
}

var _ service.GameService = (*service.Player)(nil)
