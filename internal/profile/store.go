// Package profile holds the current customer's editable profile fields.
// The store is in-memory only; it is cleared through the session-ended
// event rather than by a direct call from the session package.
package profile

import (
	"context"
	"sync"
)

// Customer mirrors the editable customer record.
type Customer struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Store owns the profile fields for one visitor.
type Store struct {
	mu sync.Mutex
	c  Customer
}

// NewStore returns an empty profile store.
func NewStore() *Store {
	return &Store{}
}

// Get returns a snapshot of the current profile.
func (s *Store) Get() Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c
}

// Set replaces the profile wholesale.
func (s *Store) Set(c Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c = c
}

// Update applies fn to the current profile under the lock.
func (s *Store) Update(fn func(*Customer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.c)
}

// Clear wipes the profile entirely.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c = Customer{}
}

// SessionEndHook adapts Clear to the session manager's subscription shape.
func (s *Store) SessionEndHook() func(ctx context.Context) {
	return func(ctx context.Context) { s.Clear() }
}
