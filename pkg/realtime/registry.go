package realtime

import (
	"context"
	"sync"
	"time"
)

// Registry is an observable collection of live entries keyed by id.
// Watchers are invoked synchronously whenever an entry is added or removed,
// and each entry may own a timing loop (RunLoop) that wakes at times the
// tick callback chooses.
type Registry[T any] struct {
	mu       sync.RWMutex
	entries  map[string]T
	loops    map[string]context.CancelFunc
	wakes    map[string]chan struct{}
	watchers []func()
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		entries: make(map[string]T),
		loops:   make(map[string]context.CancelFunc),
		wakes:   make(map[string]chan struct{}),
	}
}

// Watch registers a change hook fired synchronously on every add and remove.
func (s *Registry[T]) Watch(fn func()) {
	s.mu.Lock()
	s.watchers = append(s.watchers, fn)
	s.mu.Unlock()
}

// Add stores the entry under id and notifies watchers.
func (s *Registry[T]) Add(id string, entry T) {
	s.mu.Lock()
	s.entries[id] = entry
	watchers := s.watchers
	s.mu.Unlock()
	for _, fn := range watchers {
		fn()
	}
}

// Remove deletes the entry, stops its loop if one is running, and notifies
// watchers. Returns false if no entry existed.
func (s *Registry[T]) Remove(id string) bool {
	s.mu.Lock()
	_, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.entries, id)
	cancel := s.loops[id]
	watchers := s.watchers
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	for _, fn := range watchers {
		fn()
	}
	return true
}

// Get returns the entry by id if it exists.
func (s *Registry[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	return entry, ok
}

// All returns a snapshot of every entry, in no particular order.
func (s *Registry[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	return out
}

// Find returns the first entry matching pred.
func (s *Registry[T]) Find(pred func(T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.entries {
		if pred(entry) {
			return entry, true
		}
	}
	var zero T
	return zero, false
}

// TickFunc is called by RunLoop to advance an entry's state and decide the
// next wake time. stop true means exit the loop.
type TickFunc[T any] func(entry T, now time.Time) (next time.Time, stop bool)

// RunLoop starts a timing loop for the entry. If a loop already exists for
// id, it is not started again. getEntry is called on every iteration so a
// tick fired after removal sees the zero value and can stop cleanly.
func (s *Registry[T]) RunLoop(id string, getEntry func() T, tick TickFunc[T]) {
	s.mu.Lock()
	if _, ok := s.loops[id]; ok {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	wake := make(chan struct{}, 1)
	s.loops[id] = cancel
	s.wakes[id] = wake
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.loops, id)
			delete(s.wakes, id)
			s.mu.Unlock()
		}()

		for {
			entry := getEntry()
			now := time.Now().UTC()
			next, stop := tick(entry, now)
			if stop {
				return
			}
			wait := time.Until(next)
			if wait < 0 {
				wait = 0
			}
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				// Timer fired; loop re-runs tick.
			case <-wake:
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				continue
			}
		}
	}()
}

// Wake unblocks the entry's loop so it recomputes immediately.
func (s *Registry[T]) Wake(id string) {
	s.mu.RLock()
	wake, ok := s.wakes[id]
	s.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case wake <- struct{}{}:
	default:
	}
}
