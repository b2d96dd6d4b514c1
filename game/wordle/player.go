package wordle

import (
	"fmt"
	"strconv"
	"strings"
)

const playerLabelPrefix = "player"

// ParsePlayerSlot converts any wire form of a player identity into the
// PlayerSlot used locally. The server labels guesses "Player 2" while it
// assigns the slot itself as the bare number 2; both, and the quoted number
// "2", normalize to the same value. This is the only place where identities
// are compared across representations.
func ParsePlayerSlot(label string) (PlayerSlot, error) {
	s := strings.TrimSpace(label)
	if len(s) >= len(playerLabelPrefix) && strings.EqualFold(s[:len(playerLabelPrefix)], playerLabelPrefix) {
		s = strings.TrimSpace(s[len(playerLabelPrefix):])
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadPlayer, label)
	}
	return PlayerSlot(n), nil
}
