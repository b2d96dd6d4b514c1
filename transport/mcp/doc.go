// Package mcp exposes one local player's duel as Model Context Protocol
// tools, so an agent can discover, join and play games.
//
// Tools:
//   - list_games: open games, or "No available games."
//   - create_game: start a game by name
//   - join_game: join by id and report the assigned player number
//   - submit_guess: send a five-letter guess
//   - game_state: status, cooldown and the scored guess history
//   - leave_game: close the connection
//   - game_instructions: rules and feedback legend
//
// The tools drive a service.GameService; the connection, cooldown and entry
// rules are enforced there, not here.
//
// Usage:
//
//	player := service.NewPlayer(client, service.Options{Logger: logger})
//	go player.Run(ctx)
//	srv := mcp.NewServer(player, version, logger)
//	srv.ServeStdio()
package mcp
