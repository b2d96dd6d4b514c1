// Package history projects the guess list into rows of marked tiles.
package history

import (
	"github.com/wricardo/wordle-duel/game/wordle"
)

// Marker is the visual treatment of one tile.
type Marker int

const (
	MarkerDefault Marker = iota
	MarkerExact
	MarkerPresent
)

// Tile is one letter with its marker.
type Tile struct {
	Letter rune
	Marker Marker
}

// Row is the rendering of one guess.
type Row struct {
	Player wordle.PlayerSlot
	Tiles  []Tile
}

// MarkerFor maps a feedback code to its marker.
func MarkerFor(f wordle.Feedback) Marker {
	switch f {
	case wordle.Exact:
		return MarkerExact
	case wordle.Present:
		return MarkerPresent
	default:
		return MarkerDefault
	}
}

// Render returns one row per guess in arrival order. It keeps no state and
// is meant to be called again on every change.
func Render(guesses []wordle.Guess) []Row {
	rows := make([]Row, 0, len(guesses))
	for _, g := range guesses {
		letters := []rune(g.Word)
		tiles := make([]Tile, len(letters))
		for i, l := range letters {
			tiles[i] = Tile{Letter: l}
			if i < len(g.Result) {
				tiles[i].Marker = MarkerFor(g.Result[i])
			}
		}
		rows = append(rows, Row{Player: g.Player, Tiles: tiles})
	}
	return rows
}
