// Package wordle holds the value types shared by every part of the duel
// client: feedback codes, guesses, player slots and discovery entries.
//
// Player identities arrive in more than one form on the wire ("Player 2"
// inside the guess list, a bare 2 as the assigned slot). ParsePlayerSlot is
// the single canonical conversion; callers compare PlayerSlot values only.
package wordle
