package store

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore is a map-backed Store for tests and local development.
// All methods are safe for concurrent use.
type InMemoryStore struct {
	mu     sync.RWMutex
	users  map[string]User
	nextID int64
}

// NewInMemoryStore creates an empty in-memory user store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]User), nextID: 1}
}

// AddUser inserts or replaces a user keyed by email, assigning an ID if unset.
func (s *InMemoryStore) AddUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.nextID
		s.nextID++
	}
	s.users[u.Email] = u
}

// FindUserByEmail implements Store.
func (s *InMemoryStore) FindUserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// ListEmails implements Store. Emails are returned sorted for determinism.
func (s *InMemoryStore) ListEmails(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	emails := make([]string, 0, len(s.users))
	for email := range s.users {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	return emails, nil
}
