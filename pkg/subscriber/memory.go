package subscriber

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used in tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Get(_ context.Context, email string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[NormalizeEmail(email)]
	if !ok {
		return nil, ErrSubscriberNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) Upsert(_ context.Context, rec Record) error {
	if err := validate(&rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Email] = rec
	return nil
}

func (s *MemoryStore) Update(_ context.Context, rec Record) error {
	if err := validate(&rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.Email]; !ok {
		return ErrSubscriberNotFound
	}
	s.records[rec.Email] = rec
	return nil
}

// Len reports the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
