// Package engine holds the authoritative rules used by the reference server:
// scoring a guess against the hidden word, seating players and completing a
// game when the word is found.
//
// The duel client never imports this package. It exists so the client can be
// played and tested end to end against a real server.
//
// Usage:
//
//	game, err := engine.NewGame("game-1", "friday duel", "CRANE")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	p1, _ := game.Join()
//	guess, err := game.Guess(p1, "slate")
//	fmt.Println(guess.Result) // XXGXG
package engine
