package lobby

import (
	"errors"
	"sync"
	"testing"

	"github.com/wricardo/wordle-duel/game/engine"
)

func newTestManager() *Manager {
	return NewManager(engine.FixedPicker("CRANE"))
}

func TestManager_Create(t *testing.T) {
	manager := newTestManager()

	id, err := manager.Create("friday duel")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id != "game-1" {
		t.Errorf("Expected game-1, got %s", id)
	}

	id2, _ := manager.Create("second")
	if id2 != "game-2" {
		t.Errorf("Expected game-2, got %s", id2)
	}

	if manager.Count() != 2 {
		t.Errorf("Expected 2 games, got %d", manager.Count())
	}
}

func TestManager_CreateEmptyName(t *testing.T) {
	manager := newTestManager()

	if _, err := manager.Create("   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Expected ErrEmptyName, got %v", err)
	}
	if manager.Count() != 0 {
		t.Error("No game should be created for an empty name")
	}
}

func TestManager_ListOnlyJoinable(t *testing.T) {
	manager := newTestManager()
	open, _ := manager.Create("open")
	full, _ := manager.Create("full")
	done, _ := manager.Create("done")

	manager.Join(open)
	manager.Join(full)
	manager.Join(full)
	p, _, _ := manager.Join(done)
	if _, err := manager.Guess(done, p, "crane"); err != nil {
		t.Fatalf("Guess failed: %v", err)
	}

	games := manager.List()
	if len(games) != 1 {
		t.Fatalf("Expected 1 joinable game, got %d: %+v", len(games), games)
	}
	if games[0].ID != open || games[0].Name != "open" || games[0].Players != 1 {
		t.Errorf("Unexpected listing %+v", games[0])
	}
}

func TestManager_ListEmpty(t *testing.T) {
	games := newTestManager().List()
	if games == nil || len(games) != 0 {
		t.Errorf("Expected empty non-nil list, got %#v", games)
	}
}

func TestManager_JoinUnknownGame(t *testing.T) {
	manager := newTestManager()

	if _, _, err := manager.Join("game-42"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Expected ErrGameNotFound, got %v", err)
	}
	if _, err := manager.Guess("game-42", 1, "crane"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Expected ErrGameNotFound, got %v", err)
	}
	if _, err := manager.Get("game-42"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Expected ErrGameNotFound, got %v", err)
	}
}

func TestManager_GuessSnapshotsAreCopies(t *testing.T) {
	manager := newTestManager()
	id, _ := manager.Create("duel")
	p, _, _ := manager.Join(id)

	snap, err := manager.Guess(id, p, "slate")
	if err != nil {
		t.Fatalf("Guess failed: %v", err)
	}
	snap.Guesses[0].Word = "XXXXX"

	fresh, _ := manager.Get(id)
	if fresh.Guesses[0].Word != "SLATE" {
		t.Errorf("Snapshot mutation leaked into registry: %s", fresh.Guesses[0].Word)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := newTestManager()
	id, _ := manager.Create("busy")
	p1, _, _ := manager.Join(id)
	p2, _, _ := manager.Join(id)

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := manager.Guess(id, p1, "slate"); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := manager.Guess(id, p2, "trace"); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	snap, _ := manager.Get(id)
	if len(snap.Guesses) != 100 {
		t.Errorf("Expected 100 guesses, got %d", len(snap.Guesses))
	}
}
