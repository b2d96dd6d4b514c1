// Command wordle-duel is a client for two-player word-guessing duels.
//
// It supports these commands:
//  1. "play" (default) – interactive terminal client
//  2. "games" / "start" – one-shot discovery and game creation
//  3. "mcp" – MCP stdio server that plays through tool calls
//  4. "serve" – in-memory reference game server, optionally tunneled with ngrok
//
// Settings come from the environment (and a .env file); flags override them.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/wordle-duel/api"
	"github.com/wricardo/wordle-duel/game/config"
	"github.com/wricardo/wordle-duel/game/engine"
	"github.com/wricardo/wordle-duel/game/lobby"
	"github.com/wricardo/wordle-duel/game/service"
	"github.com/wricardo/wordle-duel/transport/mcp"
	"github.com/wricardo/wordle-duel/transport/websocket"
	"github.com/wricardo/wordle-duel/tui"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "wordle-duel"
)

func main() {
	// A missing .env file is fine; anything else is worth a warning.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "play multiplayer wordle against another player",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server", Aliases: []string{"s"}, Usage: "game server base URL"},
			&cli.DurationFlag{Name: "timeout", Usage: "HTTP request timeout"},
			&cli.DurationFlag{Name: "cooldown", Usage: "wait between your own guesses"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-file", Usage: "write logs to this file"},
		},
		Action: runPlay,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "start the interactive client (default)",
				Action: runPlay,
			},
			{
				Name:   "games",
				Usage:  "list open games",
				Action: runListGames,
			},
			{
				Name:      "start",
				Usage:     "create a new game",
				ArgsUsage: "NAME",
				Action:    runStartGame,
			},
			{
				Name:   "mcp",
				Usage:  "serve the game as MCP tools over stdio",
				Action: runMCP,
			},
			{
				Name:  "serve",
				Usage: "run the in-memory reference game server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "listen", Usage: "listen address"},
					&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel"},
					&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token"},
					&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain"},
				},
				Action: runServe,
			},
			{
				Name:  "version",
				Usage: "show version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Fprintf(cmd.Root().Writer, "%s v%s\n", AppName, Version)
					return nil
				},
			},
		},
	}
}

// loadConfig reads the environment and applies any flags set on cmd.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, cmd)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, cmd *cli.Command) {
	if cmd.IsSet("server") {
		cfg.ServerURL = cmd.String("server")
	}
	if cmd.IsSet("timeout") {
		cfg.HTTPTimeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("cooldown") {
		cfg.Cooldown = cmd.Duration("cooldown")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-file") {
		cfg.LogFile = cmd.String("log-file")
	}
	if cmd.IsSet("listen") {
		cfg.ListenAddr = cmd.String("listen")
	}
	if cmd.IsSet("ngrok") {
		cfg.NgrokEnabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-auth") {
		cfg.NgrokAuthToken = cmd.String("ngrok-auth")
	}
	if cmd.IsSet("ngrok-domain") {
		cfg.NgrokDomain = cmd.String("ngrok-domain")
	}
}

func setup(cmd *cli.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	// Without a log file, logs would draw over the screen.
	if cfg.LogFile == "" {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	client := api.NewClient(cfg.ServerURL, cfg.HTTPTimeout, logger)
	model := tui.New(ctx, client, tui.Options{Cooldown: cfg.Cooldown, Logger: logger})
	defer model.Close()

	logger.Info("starting client", zap.String("server", cfg.ServerURL))
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run client: %w", err)
	}
	return nil
}

func runListGames(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client := api.NewClient(cfg.ServerURL, cfg.HTTPTimeout, logger)
	games := client.ListOpenSessions(ctx)

	out := cmd.Root().Writer
	if len(games) == 0 {
		fmt.Fprintln(out, "No available games.")
		return nil
	}
	for _, g := range games {
		fmt.Fprintf(out, "%s\t%s\t%d players\n", g.ID, g.Name, g.Players)
	}
	return nil
}

func runStartGame(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client := api.NewClient(cfg.ServerURL, cfg.HTTPTimeout, logger)
	id, err := client.CreateSession(ctx, cmd.Args().First())
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	fmt.Fprintln(cmd.Root().Writer, id)
	return nil
}

// runMCP serves the tool surface over stdio. Stdout carries the protocol,
// so logs go to stderr or the log file.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client := api.NewClient(cfg.ServerURL, cfg.HTTPTimeout, logger)
	player := service.NewPlayer(client, service.Options{Cooldown: cfg.Cooldown, Logger: logger})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := player.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("player stopped", zap.Error(err))
		}
	}()

	logger.Info("starting MCP stdio server", zap.String("server", cfg.ServerURL))
	return mcp.NewServer(player, Version, logger).ServeStdio()
}

// runServe starts the reference server. If ngrok is enabled it also
// provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	handler := newReferenceHandler(ctx, cfg, logger)

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info("HTTP server listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("games", fmt.Sprintf("http://%s/games", cfg.ListenAddr)),
			zap.String("join", fmt.Sprintf("ws://%s%s", cfg.ListenAddr, websocket.JoinPath)),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("http server: %w", err)
			cancel()
		}
	}()

	if cfg.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveNgrok(ctx, cfg, handler, logger)
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	wg.Wait()
	logger.Info("server stopped")

	select {
	case err := <-serveErr:
		return err
	default:
		return nil
	}
}

// newReferenceHandler wires the in-memory game registry, the websocket hub
// and the REST routes. The hub runs until ctx is done.
func newReferenceHandler(ctx context.Context, cfg *config.Config, logger *zap.Logger) http.Handler {
	games := lobby.NewManager(engine.RandomPicker(engine.DefaultWords))
	hub := websocket.NewHub(games, logger)
	go hub.Run(ctx)
	return api.NewServer(games, hub, cfg.CORSOrigin, logger)
}

func serveNgrok(ctx context.Context, cfg *config.Config, handler http.Handler, logger *zap.Logger) {
	if cfg.NgrokAuthToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	logger.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
		logger.Info("using custom ngrok domain", zap.String("domain", cfg.NgrokDomain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuthToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	// Serve returns once the tunnel is closed.
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn("failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	logger.Info("ngrok tunnel established", zap.String("url", tun.URL()))
	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		logger.Warn("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}
