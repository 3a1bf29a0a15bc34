package registry

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	byCanonical map[string]Record
	byID        map[string]string // id -> canonical
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byCanonical: make(map[string]Record),
		byID:        make(map[string]string),
	}
}

func (s *MemoryStore) Register(_ context.Context, rec Record) (Record, bool, error) {
	rec, err := prepare(rec)
	if err != nil {
		return Record{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byCanonical[rec.Canonical]; ok {
		return existing, false, nil
	}
	s.byCanonical[rec.Canonical] = rec
	s.byID[rec.ID] = rec.Canonical
	return rec, true, nil
}

func (s *MemoryStore) Lookup(_ context.Context, canonical string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byCanonical[canonical]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	canonical, ok := s.byID[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return s.byCanonical[canonical], nil
}

// Len returns the number of records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byCanonical)
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
