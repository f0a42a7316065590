// Package vars implements the runtime variable store mutated by Set
// Variable nodes and read by Get Variable nodes. It is the one piece of
// shared state behaviors may touch; the engine resets it at the start of
// every run.
package vars

import (
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// Store holds named runtime values for the duration of a run.
type Store struct {
	mu     sync.RWMutex
	values map[string]cty.Value
}

// NewStore creates an empty variable store.
func NewStore() *Store {
	return &Store{values: make(map[string]cty.Value)}
}

// Get returns the value stored under name.
func (s *Store) Get(name string) (cty.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// Set stores a value under name, replacing any previous value.
func (s *Store) Set(name string, v cty.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = v
}

// Reset discards every stored value.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]cty.Value)
}

// Len reports the number of stored variables.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
