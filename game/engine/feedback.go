package engine

import (
	"strings"

	"github.com/wricardo/wordle-duel/game/wordle"
)

// Score grades guess against target. Exact matches are assigned first; the
// remaining target letters are then consumed left to right by present
// matches, so a letter is never credited more often than it occurs.
func Score(guess, target string) wordle.Result {
	guess = strings.ToUpper(guess)
	target = strings.ToUpper(target)

	result := make(wordle.Result, len(target))
	remaining := make(map[byte]int)

	for i := 0; i < len(target); i++ {
		if guess[i] == target[i] {
			result[i] = wordle.Exact
		} else {
			remaining[target[i]]++
			result[i] = wordle.Absent
		}
	}

	for i := 0; i < len(target); i++ {
		if result[i] == wordle.Exact {
			continue
		}
		if remaining[guess[i]] > 0 {
			result[i] = wordle.Present
			remaining[guess[i]]--
		}
	}
	return result
}
