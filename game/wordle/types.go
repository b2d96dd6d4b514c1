package wordle

import (
	"errors"
	"fmt"
	"strings"
)

// WordLength is the fixed number of letters in every guess.
const WordLength = 5

var (
	ErrBadWordLength   = errors.New("word must have exactly 5 letters")
	ErrBadResultLength = errors.New("result must have exactly 5 feedback codes")
	ErrBadFeedback     = errors.New("unknown feedback code")
	ErrBadPlayer       = errors.New("invalid player identity")
)

// Feedback classifies a single letter of a guess against the hidden word.
type Feedback int

const (
	Absent Feedback = iota
	Present
	Exact
)

// Wire letters used by the server for each feedback code.
const (
	codeExact   = 'G'
	codePresent = 'Y'
	codeAbsent  = 'X'
)

func (f Feedback) String() string {
	switch f {
	case Exact:
		return "exact"
	case Present:
		return "present"
	case Absent:
		return "absent"
	default:
		return fmt.Sprintf("feedback(%d)", int(f))
	}
}

// Code returns the single-letter wire form of f.
func (f Feedback) Code() byte {
	switch f {
	case Exact:
		return codeExact
	case Present:
		return codePresent
	default:
		return codeAbsent
	}
}

// ParseFeedback converts a wire letter into a Feedback code.
func ParseFeedback(c byte) (Feedback, error) {
	switch c {
	case codeExact, 'g':
		return Exact, nil
	case codePresent, 'y':
		return Present, nil
	case codeAbsent, 'x':
		return Absent, nil
	default:
		return Absent, fmt.Errorf("%w: %q", ErrBadFeedback, c)
	}
}

// Result is the ordered per-letter feedback of one guess.
type Result []Feedback

// ParseResult decodes a compact result string such as "GYXXG".
func ParseResult(s string) (Result, error) {
	if len(s) != WordLength {
		return nil, fmt.Errorf("%w: got %d", ErrBadResultLength, len(s))
	}
	r := make(Result, WordLength)
	for i := 0; i < len(s); i++ {
		f, err := ParseFeedback(s[i])
		if err != nil {
			return nil, err
		}
		r[i] = f
	}
	return r, nil
}

func (r Result) String() string {
	var b strings.Builder
	for _, f := range r {
		b.WriteByte(f.Code())
	}
	return b.String()
}

// Solved reports whether every letter is an exact match.
func (r Result) Solved() bool {
	if len(r) != WordLength {
		return false
	}
	for _, f := range r {
		if f != Exact {
			return false
		}
	}
	return true
}

// PlayerSlot is the seat number the server assigns to a connection.
type PlayerSlot int

func (p PlayerSlot) String() string {
	return fmt.Sprintf("Player %d", int(p))
}

// Guess is one submitted word and its feedback. Guesses are immutable once
// they are part of a session history.
type Guess struct {
	Player PlayerSlot
	Word   string
	Result Result
}

// Validate checks the length and feedback invariants of g.
func (g Guess) Validate() error {
	if len(g.Word) != WordLength {
		return fmt.Errorf("%w: %q", ErrBadWordLength, g.Word)
	}
	if len(g.Result) != WordLength {
		return fmt.Errorf("%w: got %d", ErrBadResultLength, len(g.Result))
	}
	for _, f := range g.Result {
		if f != Exact && f != Present && f != Absent {
			return fmt.Errorf("%w: %d", ErrBadFeedback, int(f))
		}
	}
	if g.Player <= 0 {
		return fmt.Errorf("%w: %d", ErrBadPlayer, int(g.Player))
	}
	return nil
}

// Equal compares two guesses field by field.
func (g Guess) Equal(o Guess) bool {
	if g.Player != o.Player || g.Word != o.Word || len(g.Result) != len(o.Result) {
		return false
	}
	for i := range g.Result {
		if g.Result[i] != o.Result[i] {
			return false
		}
	}
	return true
}

// Session is an open game as reported by discovery. It is a snapshot and is
// re-fetched rather than updated.
type Session struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
}

// IsWord reports whether s is exactly WordLength ASCII letters.
func IsWord(s string) bool {
	if len(s) != WordLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsLetter(rune(s[i])) {
			return false
		}
	}
	return true
}

// IsLetter reports whether r is an ASCII letter.
func IsLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
