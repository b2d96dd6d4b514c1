package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wricardo/wordle-duel/game/wordle"
)

// MaxPlayers is the number of seats in a duel.
const MaxPlayers = 2

var (
	ErrGameFull      = errors.New("game is full")
	ErrGameCompleted = errors.New("game is completed")
	ErrInvalidWord   = errors.New("guess must be five letters")
	ErrUnknownPlayer = errors.New("player has not joined")
)

// Game is the authoritative state of one duel on the server side.
type Game struct {
	ID        string
	Name      string
	Target    string
	Guesses   []wordle.Guess
	Completed bool
	Players   int
}

// NewGame creates a game with an upper-cased target word.
func NewGame(id, name, target string) (*Game, error) {
	if !wordle.IsWord(target) {
		return nil, fmt.Errorf("%w: target %q", ErrInvalidWord, target)
	}
	return &Game{
		ID:      id,
		Name:    name,
		Target:  strings.ToUpper(target),
		Guesses: []wordle.Guess{},
	}, nil
}

// Join seats a new player and returns its slot.
func (g *Game) Join() (wordle.PlayerSlot, error) {
	if g.Players >= MaxPlayers {
		return 0, ErrGameFull
	}
	g.Players++
	return wordle.PlayerSlot(g.Players), nil
}

// Guess scores word for player and appends it to the history. A solved
// guess completes the game.
func (g *Game) Guess(player wordle.PlayerSlot, word string) (wordle.Guess, error) {
	if g.Completed {
		return wordle.Guess{}, ErrGameCompleted
	}
	if player <= 0 || int(player) > g.Players {
		return wordle.Guess{}, ErrUnknownPlayer
	}
	if !wordle.IsWord(word) {
		return wordle.Guess{}, fmt.Errorf("%w: %q", ErrInvalidWord, word)
	}

	word = strings.ToUpper(word)
	guess := wordle.Guess{
		Player: player,
		Word:   word,
		Result: Score(word, g.Target),
	}
	g.Guesses = append(g.Guesses, guess)
	if word == g.Target {
		g.Completed = true
	}
	return guess, nil
}
