// Package entry implements the five-cell guess input: focus movement while
// typing, and the gate that decides whether a full buffer may be sent.
package entry

import (
	"errors"
	"strings"
	"unicode"

	"github.com/wricardo/wordle-duel/game/session"
	"github.com/wricardo/wordle-duel/game/wordle"
)

var (
	ErrNotJoined  = errors.New("not joined to a session")
	ErrCompleted  = errors.New("session is completed")
	ErrCooldown   = errors.New("cooldown active")
	ErrIncomplete = errors.New("all five letters are required")
)

// Sender delivers a guess word to the server.
type Sender interface {
	SendGuess(word string) error
}

// Gate is the external state submission depends on.
type Gate struct {
	Status    session.Status
	Completed bool
	Cooldown  bool
}

// Err returns why submission is blocked, or nil when it is allowed.
func (g Gate) Err() error {
	switch {
	case g.Completed || g.Status == session.Completed:
		return ErrCompleted
	case g.Status != session.Joined:
		return ErrNotJoined
	case g.Cooldown:
		return ErrCooldown
	}
	return nil
}

// Controller is the letter buffer with its focused cell.
type Controller struct {
	cells [wordle.WordLength]rune
	focus int
}

// New returns an empty controller focused on cell 0.
func New() *Controller {
	return &Controller{}
}

// Focus returns the index of the focused cell.
func (c *Controller) Focus() int {
	return c.focus
}

// SetFocus moves focus to cell i. Out-of-range indexes are ignored.
func (c *Controller) SetFocus(i int) {
	if i < 0 || i >= wordle.WordLength {
		return
	}
	c.focus = i
}

// Cells returns a copy of the buffer. Empty cells are zero.
func (c *Controller) Cells() [wordle.WordLength]rune {
	return c.cells
}

// Type stores r upper-cased in the focused cell and advances focus unless the
// last cell is focused. It reports whether r was accepted.
func (c *Controller) Type(r rune) bool {
	if !wordle.IsLetter(r) {
		return false
	}
	c.cells[c.focus] = unicode.ToUpper(r)
	if c.focus < wordle.WordLength-1 {
		c.focus++
	}
	return true
}

// Backspace clears the focused cell, or moves focus back one cell when the
// focused cell is already empty.
func (c *Controller) Backspace() {
	if c.cells[c.focus] != 0 {
		c.cells[c.focus] = 0
		return
	}
	if c.focus > 0 {
		c.focus--
	}
}

// Full reports whether every cell holds a letter.
func (c *Controller) Full() bool {
	for _, r := range c.cells {
		if r == 0 {
			return false
		}
	}
	return true
}

// Word returns the buffer joined and lower-cased. Empty cells are skipped.
func (c *Controller) Word() string {
	var b strings.Builder
	for _, r := range c.cells {
		if r != 0 {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Clear empties every cell and focuses cell 0.
func (c *Controller) Clear() {
	c.cells = [wordle.WordLength]rune{}
	c.focus = 0
}

// CanSubmit reports whether Submit would send.
func (c *Controller) CanSubmit(g Gate) bool {
	return g.Err() == nil && c.Full()
}

// Submit sends the buffered word when the gate is open and the buffer is
// full. On success the buffer is cleared. Nothing is sent otherwise.
func (c *Controller) Submit(g Gate, s Sender) (string, error) {
	if err := g.Err(); err != nil {
		return "", err
	}
	if !c.Full() {
		return "", ErrIncomplete
	}
	word := c.Word()
	if err := s.SendGuess(word); err != nil {
		return "", err
	}
	c.Clear()
	return word, nil
}
