package service

import (
	"github.com/wricardo/wordle-duel/game/history"
	"github.com/wricardo/wordle-duel/game/session"
	"github.com/wricardo/wordle-duel/game/wordle"
)

// View is a read-only snapshot of a Game for rendering.
type View struct {
	session.State

	Cooldown  bool
	Cells     [wordle.WordLength]rune
	Focus     int
	CanSubmit bool
	Rows      []history.Row
}

// PlayerLabel returns "You are Player N", or "" before a slot is assigned.
func (v *View) PlayerLabel() string {
	if !v.HasPlayer {
		return ""
	}
	return "You are " + v.Player.String()
}
