package realtime

import (
	"sync"
	"time"
)

// Clock records the wall-clock time the current round of each game began.
// The entry is overwritten whenever a new round starts; no history is kept.
type Clock struct {
	mu     sync.Mutex
	starts map[string]time.Time
}

// NewClock creates an empty clock.
func NewClock() *Clock {
	return &Clock{starts: make(map[string]time.Time)}
}

// Set records the round start time for the given game id.
func (c *Clock) Set(id string, at time.Time) {
	c.mu.Lock()
	c.starts[id] = at
	c.mu.Unlock()
}

// Get returns the recorded round start time, if any.
func (c *Clock) Get(id string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	at, ok := c.starts[id]
	return at, ok
}

// Remove drops the entry for a finished game.
func (c *Clock) Remove(id string) {
	c.mu.Lock()
	delete(c.starts, id)
	c.mu.Unlock()
}
