// Package service composes the client-side pieces of a duel into something a
// front end can drive.
//
// Game binds one session's state machine, cooldown governor and five-cell
// entry buffer. It has no goroutines of its own: the TUI feeds it from the
// bubbletea Update loop, and Player feeds it from an actor loop.
//
// Player implements GameService for headless front ends such as the MCP
// server. Run owns the websocket connection, inbound frames and cooldown
// timers; every exported method hands a closure to that loop and waits.
//
// Usage:
//
//	client := api.NewClient(cfg.ServerURL, cfg.HTTPTimeout, logger)
//	player := service.NewPlayer(client, service.Options{Cooldown: cfg.Cooldown, Logger: logger})
//	go player.Run(ctx)
//
//	id, err := player.CreateGame(ctx, "friday")
//	view, err := player.JoinGame(ctx, id)
//	view, err = player.Guess(ctx, "crane")
//
// A guess is accepted locally only while the session is joined, not
// completed and outside the cooldown window; the view returned by Guess is
// taken before the server echoes the guess back.
package service
