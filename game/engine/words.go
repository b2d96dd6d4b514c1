package engine

import "math/rand/v2"

// DefaultWords is the target list used by the reference server.
var DefaultWords = []string{
	"CRANE", "SLATE", "TRACE", "GRIME", "PLANK",
	"SHORE", "BLUNT", "CHIRP", "FJORD", "WALTZ",
}

// WordPicker chooses the hidden word for a new game.
type WordPicker func() string

// RandomPicker picks uniformly from words.
func RandomPicker(words []string) WordPicker {
	return func() string {
		return words[rand.IntN(len(words))]
	}
}

// FixedPicker always returns word.
func FixedPicker(word string) WordPicker {
	return func() string { return word }
}
