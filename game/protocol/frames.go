// Package protocol defines the JSON frames exchanged on the /join channel and
// converts them to and from the wordle value types.
//
// Server frames are partial snapshots: every field is optional and an absent
// field means "unchanged", never "cleared". Decoding keeps that distinction
// through pointer fields.
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wricardo/wordle-duel/game/wordle"
)

var (
	ErrMalformedFrame = errors.New("malformed server frame")
	ErrMalformedGuess = errors.New("malformed guess in server frame")
)

// JoinFrame is the first and only handshake frame a client sends.
type JoinFrame struct {
	GameID string `json:"game_id"`
}

// GuessFrame is the only frame a client sends after joining.
type GuessFrame struct {
	Word string `json:"word"`
}

// WireGuess is a guess as the server serializes it.
type WireGuess struct {
	Player string `json:"player"`
	Word   string `json:"word"`
	Result string `json:"result"`
}

// ServerMessage is the server-side encoding of a push frame.
type ServerMessage struct {
	PlayerNumber *int         `json:"player_number,omitempty"`
	Guesses      *[]WireGuess `json:"guesses,omitempty"`
	Completed    *bool        `json:"completed,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// Frame is a decoded server frame. Nil pointers and HasGuesses == false mark
// fields the server did not send.
type Frame struct {
	Player     *wordle.PlayerSlot
	Guesses    []wordle.Guess
	HasGuesses bool
	Completed  *bool
	Error      string
}

type rawFrame struct {
	PlayerNumber json.RawMessage `json:"player_number"`
	Guesses      *[]rawGuess     `json:"guesses"`
	Completed    *bool           `json:"completed"`
	Error        string          `json:"error"`
}

type rawGuess struct {
	Player json.RawMessage `json:"player"`
	Word   string          `json:"word"`
	Result json.RawMessage `json:"result"`
}

// DecodeFrame parses one server frame. If an entry of the guess list breaks
// the guess invariants, the whole list is left out and the rest of the frame
// is returned with an error wrapping ErrMalformedGuess. Any other error
// returns an empty Frame.
func DecodeFrame(data []byte) (Frame, error) {
	var raw rawFrame
	if err := json.Unmarshal(data, &raw); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	var f Frame
	if len(raw.PlayerNumber) > 0 && !isNull(raw.PlayerNumber) {
		slot, err := parsePlayer(raw.PlayerNumber)
		if err != nil {
			return Frame{}, fmt.Errorf("%w: player_number: %v", ErrMalformedFrame, err)
		}
		f.Player = &slot
	}

	f.Completed = raw.Completed
	f.Error = raw.Error

	if raw.Guesses != nil {
		guesses := make([]wordle.Guess, 0, len(*raw.Guesses))
		for i, rg := range *raw.Guesses {
			g, err := rg.decode()
			if err != nil {
				return f, fmt.Errorf("%w: guesses[%d]: %v", ErrMalformedGuess, i, err)
			}
			guesses = append(guesses, g)
		}
		f.Guesses = guesses
		f.HasGuesses = true
	}
	return f, nil
}

func (rg rawGuess) decode() (wordle.Guess, error) {
	player, err := parsePlayer(rg.Player)
	if err != nil {
		return wordle.Guess{}, err
	}
	result, err := parseResult(rg.Result)
	if err != nil {
		return wordle.Guess{}, err
	}
	g := wordle.Guess{
		Player: player,
		Word:   strings.ToUpper(rg.Word),
		Result: result,
	}
	if err := g.Validate(); err != nil {
		return wordle.Guess{}, err
	}
	return g, nil
}

// parsePlayer accepts a JSON number or string and funnels both through
// wordle.ParsePlayerSlot.
func parsePlayer(raw json.RawMessage) (wordle.PlayerSlot, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return 0, wordle.ErrBadPlayer
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return wordle.ParsePlayerSlot(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	i, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s", wordle.ErrBadPlayer, n)
	}
	return wordle.ParsePlayerSlot(strconv.FormatInt(i, 10))
}

// parseResult accepts "GYXXG" or ["G","Y","X","X","G"].
func parseResult(raw json.RawMessage) (wordle.Result, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return nil, wordle.ErrBadResultLength
	}
	if raw[0] == '[' {
		var codes []string
		if err := json.Unmarshal(raw, &codes); err != nil {
			return nil, err
		}
		for _, c := range codes {
			if len(c) != 1 {
				return nil, fmt.Errorf("%w: %q", wordle.ErrBadFeedback, c)
			}
		}
		return wordle.ParseResult(strings.Join(codes, ""))
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return wordle.ParseResult(s)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// EncodeJoin returns the handshake frame for gameID.
func EncodeJoin(gameID string) ([]byte, error) {
	return json.Marshal(JoinFrame{GameID: gameID})
}

// EncodeGuess returns the guess frame for word, lower-cased.
func EncodeGuess(word string) ([]byte, error) {
	return json.Marshal(GuessFrame{Word: strings.ToLower(word)})
}

// ToWire converts a guess to the server representation.
func ToWire(g wordle.Guess) WireGuess {
	return WireGuess{
		Player: g.Player.String(),
		Word:   g.Word,
		Result: g.Result.String(),
	}
}
