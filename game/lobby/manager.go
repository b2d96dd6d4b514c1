package lobby

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/wricardo/wordle-duel/game/engine"
	"github.com/wricardo/wordle-duel/game/wordle"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrEmptyName    = errors.New("game name is required")
)

// Snapshot is a copy of a game's public state.
type Snapshot struct {
	GameID    string
	Guesses   []wordle.Guess
	Completed bool
}

// Manager is the in-memory registry of games for the reference server.
type Manager struct {
	games  map[string]*engine.Game
	order  []string
	pick   engine.WordPicker
	nextID int
	mu     sync.RWMutex
}

// NewManager creates a registry that draws target words from pick.
func NewManager(pick engine.WordPicker) *Manager {
	if pick == nil {
		pick = engine.RandomPicker(engine.DefaultWords)
	}
	return &Manager{
		games: make(map[string]*engine.Game),
		pick:  pick,
	}
}

// Create starts a new game and returns its id.
func (m *Manager) Create(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := fmt.Sprintf("game-%d", m.nextID)
	game, err := engine.NewGame(id, name, m.pick())
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	m.games[id] = game
	m.order = append(m.order, id)
	return id, nil
}

// List returns the games that still have a free seat and are not completed,
// oldest first.
func (m *Manager) List() []wordle.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]wordle.Session, 0, len(m.order))
	for _, id := range m.order {
		game := m.games[id]
		if game.Completed || game.Players >= engine.MaxPlayers {
			continue
		}
		result = append(result, wordle.Session{
			ID:      game.ID,
			Name:    game.Name,
			Players: game.Players,
		})
	}
	return result
}

// Join seats a player in game id.
func (m *Manager) Join(id string) (wordle.PlayerSlot, Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	game, ok := m.games[id]
	if !ok {
		return 0, Snapshot{}, ErrGameNotFound
	}
	slot, err := game.Join()
	if err != nil {
		return 0, Snapshot{}, err
	}
	return slot, snapshot(game), nil
}

// Guess records a guess by player in game id.
func (m *Manager) Guess(id string, player wordle.PlayerSlot, word string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	game, ok := m.games[id]
	if !ok {
		return Snapshot{}, ErrGameNotFound
	}
	if _, err := game.Guess(player, word); err != nil {
		return Snapshot{}, err
	}
	return snapshot(game), nil
}

// Get returns a snapshot of game id.
func (m *Manager) Get(id string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	game, ok := m.games[id]
	if !ok {
		return Snapshot{}, ErrGameNotFound
	}
	return snapshot(game), nil
}

// Count returns the number of games ever created and still held.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

func snapshot(g *engine.Game) Snapshot {
	return Snapshot{
		GameID:    g.ID,
		Guesses:   slices.Clone(g.Guesses),
		Completed: g.Completed,
	}
}
