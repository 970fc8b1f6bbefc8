package memory

import (
	"context"
	"sync"

	"github.com/aretw0/smolbox/pkg/domain"
)

// Store implements ports.RecordStore and ports.HistoryLog in memory.
// Safe for concurrent use.
type Store struct {
	current domain.Record
	history []domain.Record
	mu      sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Ensure bootstraps an empty Record.
func (s *Store) Ensure(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		s.current = domain.NewRecord()
	}
	return nil
}

// Load returns a copy of the current Record so callers can't mutate the store by reference.
func (s *Store) Load(ctx context.Context) (domain.Record, error) {
	if err := s.Ensure(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone(), nil
}

// Save replaces the current Record with a copy of rec.
func (s *Store) Save(ctx context.Context, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = rec.Clone()
	return nil
}

// Purge drops the Record and the history.
func (s *Store) Purge(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.history = nil
	return nil
}

// Append stores a copy of rec at the end of the history.
func (s *Store) Append(ctx context.Context, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, rec.Clone())
	return nil
}

// Entries returns copies of every history entry in append order.
func (s *Store) Entries(ctx context.Context) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Record, len(s.history))
	for i, rec := range s.history {
		out[i] = rec.Clone()
	}
	return out, nil
}
