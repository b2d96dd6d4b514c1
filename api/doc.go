// Package api holds both sides of the request/response half of the game
// protocol.
//
// Client is what the player's program uses:
//   - ListOpenSessions - discovery, GET /games
//   - CreateSession - handshake, POST /start
//   - ValidateSessionID - the only local check before joining
//
// Server is the in-memory reference server used for local play and tests.
//
// Endpoints:
//   - GET /games - {"games":[{"id","name","players"}]}
//   - POST /start - {"game_name"} -> {"game_id","game_name"}
//   - GET /health - liveness
//   - /join - websocket upgrade, see package websocket
//
// Usage:
//
//	manager := lobby.NewManager(nil)
//	hub := websocket.NewHub(manager, logger)
//	go hub.Run(ctx)
//	http.ListenAndServe(":8080", api.NewServer(manager, hub, "", logger))
//
// Errors are returned as JSON with an HTTP status code:
//
//	{"error": "game name is required"}
package api
