package game

import (
	"sort"

	"scrawl/pkg/realtime"
)

// Store is the application-level game registry. It delegates membership and
// loop scheduling to realtime.Registry; the change watchers it forwards are
// how connected clients learn that the game list moved.
type Store struct {
	r *realtime.Registry[*Game]
}

// NewStore creates an empty in-memory game store.
func NewStore() *Store {
	return &Store{r: realtime.NewRegistry[*Game]()}
}

// Add registers the game. Watchers fire synchronously.
func (s *Store) Add(g *Game) {
	s.r.Add(g.ID, g)
}

// Remove deletes the game and stops its round loop. Watchers fire
// synchronously when a game was actually removed.
func (s *Store) Remove(id string) bool {
	return s.r.Remove(id)
}

// Get returns a game by id if it is still registered.
func (s *Store) Get(id string) (*Game, bool) {
	return s.r.Get(id)
}

// All returns a snapshot of every registered game.
func (s *Store) All() []*Game {
	return s.r.All()
}

// Find returns the first registered game matching pred.
func (s *Store) Find(pred func(*Game) bool) (*Game, bool) {
	return s.r.Find(pred)
}

// Watch registers a hook fired synchronously on every add and remove.
func (s *Store) Watch(fn func()) {
	s.r.Watch(fn)
}

// Summaries returns list projections of all games, ordered by name for
// stable game-list payloads.
func (s *Store) Summaries() []GameSummary {
	games := s.r.All()
	out := make([]GameSummary, 0, len(games))
	for _, g := range games {
		out = append(out, g.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// EnsureRoundLoop starts the game's timing loop if not already running.
// The tick receives nil once the game has been removed.
func (s *Store) EnsureRoundLoop(id string, tick realtime.TickFunc[*Game]) {
	getEntry := func() *Game {
		g, ok := s.r.Get(id)
		if !ok {
			return nil
		}
		return g
	}
	s.r.RunLoop(id, getEntry, tick)
}

// WakeRoundLoop unblocks the game's loop so it recomputes immediately.
func (s *Store) WakeRoundLoop(id string) {
	s.r.Wake(id)
}
