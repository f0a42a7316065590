// Package snapstore keeps named graph snapshots in memory so an editing
// session can checkpoint and roll back without touching disk. Entries are
// keyed by generated uuids; the serialized bytes are stored as-is.
package snapstore

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one stored snapshot.
type Entry struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	Data      []byte
}

// Store is a concurrency-safe in-memory snapshot collection.
type Store struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*Entry
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[uuid.UUID]*Entry)}
}

// Save records a snapshot under a fresh id and returns its entry. The
// data slice is copied; callers may reuse their buffer.
func (s *Store) Save(name string, data []byte) *Entry {
	entry := &Entry{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
		Data:      append([]byte(nil), data...),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = entry
	return entry
}

// Get returns the snapshot bytes stored under id.
func (s *Store) Get(id uuid.UUID) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return entry.Data, true
}

// Delete removes the snapshot with the given id, reporting whether it
// existed.
func (s *Store) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// List returns every entry, oldest first.
func (s *Store) List() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Len reports the number of stored snapshots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
