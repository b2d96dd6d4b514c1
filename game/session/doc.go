// Package session implements the client-side state machine for one game
// session.
//
// States:
//
//	Disconnected -> Connecting -> Joined -> Completed
//	      \______________\__________\__________\____> Closed
//
// A Machine is created when a session id is obtained. Connecting is called
// when the /join channel is dialed; every inbound frame is then passed to
// Apply in receipt order. Frames are partial snapshots, so Apply only touches
// fields that are present:
//   - the first player_number moves Connecting to Joined; later ones are ignored
//   - a guess list is merged as an append-only extension of the history
//   - completed=true moves Joined to Completed and never reverts
//   - an error frame closes the session
//
// Listeners registered with Subscribe see a copy of the state and the Change
// that produced it after each mutation. The cooldown governor is wired in
// this way.
//
// A Machine is not safe for concurrent use. Each driver owns it from a single
// goroutine (the TUI update loop or the service actor loop).
package session
