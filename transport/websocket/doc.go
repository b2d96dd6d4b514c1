// Package websocket provides both ends of the /join duplex channel.
//
// Client side:
//
// Dial opens the channel and sends the {game_id} join frame before anything
// else. Conn.Events delivers decoded server frames in receipt order and is
// closed when the connection ends; Conn.Err then tells a remote failure from
// a local Close. Conn.SendGuess queues {word} frames. All writes after the
// join frame go through one writer goroutine.
//
//	conn, err := websocket.Dial(ctx, "http://localhost:8080", gameID, logger)
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	for frame := range conn.Events() {
//		machine.Apply(frame)
//	}
//	machine.Close(conn.Err())
//
// Server side:
//
// Hub seats each new connection in a game through the Games registry, sends
// it {player_number, guesses, completed}, and broadcasts {guesses,
// completed} to every player of the game after each accepted guess. An
// unknown game gets {error} and the connection is closed.
//
//	hub := websocket.NewHub(lobby.NewManager(nil), logger)
//	go hub.Run(ctx)
//	router.HandleFunc("/join", hub.ServeJoin)
package websocket
