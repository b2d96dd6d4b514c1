package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/wordle-duel/game/config"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "wordle-duel" {
		t.Errorf("Expected app name wordle-duel, got %s", AppName)
	}
}

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"play", "games", "start", "mcp", "serve", "version"}, names)
	assert.NotNil(t, app.Action, "play runs when no command is given")
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(context.Background(), append([]string{AppName}, args...))
	return out.String(), err
}

func startReference(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{}
	srv := httptest.NewServer(newReferenceHandler(ctx, cfg, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "wordle-duel v"+Version+"\n", out)
}

func TestStartAndListGames(t *testing.T) {
	srv := startReference(t)

	out, err := runApp(t, "--server", srv.URL, "games")
	require.NoError(t, err)
	assert.Equal(t, "No available games.\n", out)

	id, err := runApp(t, "--server", srv.URL, "start", "duel")
	require.NoError(t, err)
	id = strings.TrimSpace(id)
	require.NotEmpty(t, id)

	out, err = runApp(t, "--server", srv.URL, "games")
	require.NoError(t, err)
	assert.Contains(t, out, id+"\tduel\t0 players")
}

func TestStartGame_EmptyName(t *testing.T) {
	srv := startReference(t)

	_, err := runApp(t, "--server", srv.URL, "start")
	assert.Error(t, err)
}

func TestInvalidServerURL(t *testing.T) {
	_, err := runApp(t, "--server", "ftp://example.com", "games")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestApplyFlags(t *testing.T) {
	cfg := &config.Config{
		ServerURL:   "http://localhost:8080",
		HTTPTimeout: 10 * time.Second,
		Cooldown:    2 * time.Second,
		LogLevel:    "info",
	}

	app := newApp()
	app.Action = func(ctx context.Context, cmd *cli.Command) error {
		applyFlags(cfg, cmd)
		return nil
	}
	require.NoError(t, app.Run(context.Background(), []string{AppName, "--server", "https://duel.example", "--cooldown", "500ms"}))

	assert.Equal(t, "https://duel.example", cfg.ServerURL)
	assert.Equal(t, 500*time.Millisecond, cfg.Cooldown)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout, "unset flags keep env values")
	assert.Equal(t, "info", cfg.LogLevel)
}
