package history

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps history in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	opts    Options
	entries []Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts Options) *MemoryStore {
	return &MemoryStore{opts: opts.withDefaults()}
}

// Record appends a calculation.
func (s *MemoryStore) Record(_ context.Context, expression string, result float64) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := newEntry(s.opts, expression, result)
	s.entries = append(s.entries, entry)
	s.pruneLocked()

	s.opts.Logger.Debug("recorded calculation", "id", entry.ID, "expression", expression)
	return &entry, nil
}

// pruneLocked drops expired entries and enforces the size limit.
func (s *MemoryStore) pruneLocked() {
	cutoff := s.opts.cutoff()
	live := s.entries[:0]
	for _, e := range s.entries {
		if !e.CreatedAt.Before(cutoff) {
			live = append(live, e)
		}
	}
	s.entries = live

	if s.opts.Limit > 0 && len(s.entries) > s.opts.Limit {
		s.entries = append([]Entry(nil), s.entries[len(s.entries)-s.opts.Limit:]...)
	}
}

// List returns live entries, most recent last.
func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.opts.cutoff()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if !e.CreatedAt.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Get returns the entry with the given ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.opts.cutoff()
	for _, e := range s.entries {
		if e.ID == id && !e.CreatedAt.Before(cutoff) {
			entry := e
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Clear removes every entry.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
