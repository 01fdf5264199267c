package monitor

import (
	"sort"
	"sync"
)

// MemoryStore is the in-memory implementation of Store. Reads return copies,
// so callers can iterate a snapshot while the monitor loop writes records.
type MemoryStore struct {
	mu        sync.RWMutex
	endpoints map[string]Endpoint
}

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory health record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		endpoints: make(map[string]Endpoint),
	}
}

// Upsert creates or replaces the record for ep.URL.
func (s *MemoryStore) Upsert(ep Endpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.endpoints[ep.URL] = ep
}

// Get returns a copy of the record for the given normalized URL.
func (s *MemoryStore) Get(url string) (Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ep, ok := s.endpoints[url]
	if !ok {
		return Endpoint{}, ErrEndpointNotFound
	}
	return ep, nil
}

// List returns a snapshot of all records, sorted by URL.
func (s *MemoryStore) List() []Endpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Endpoint, 0, len(s.endpoints))
	for _, ep := range s.endpoints {
		out = append(out, ep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

// Remove deletes the record for the given normalized URL.
func (s *MemoryStore) Remove(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.endpoints[url]; !ok {
		return ErrEndpointNotFound
	}
	delete(s.endpoints, url)
	return nil
}

// Len returns the number of registered endpoints.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.endpoints)
}

// Reset removes all records.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.endpoints = make(map[string]Endpoint)
}
