package game

import (
	"sync"

	"github.com/google/uuid"
)

// Users stores registered users by id. Users are created on registration
// and never removed; the id is the only credential the rest of the system
// compares against.
type Users struct {
	mu   sync.RWMutex
	byID map[string]*User
}

// NewUsers creates an empty user store.
func NewUsers() *Users {
	return &Users{byID: make(map[string]*User)}
}

// Register creates a user with the given display name.
func (s *Users) Register(name string) *User {
	u := &User{ID: uuid.NewString(), Name: name}
	s.mu.Lock()
	s.byID[u.ID] = u
	s.mu.Unlock()
	return u
}

// Get returns the user by id if registered.
func (s *Users) Get(id string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	return u, ok
}
