package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process EntityStore backed by ordered slices.
//
// It is the reference implementation of the store contract: tests for the
// engine run against it, and it serves single-session local use where no
// external backend is configured.
//
// Thread-safety: all methods are safe for concurrent use, although the
// engine itself operates one mutation at a time.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[Kind][]Record
}

// NewMemoryStore creates an empty in-memory entity store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: make(map[Kind][]Record),
	}
}

// ReadAll returns copies of every row of the given kind in insertion order.
func (s *MemoryStore) ReadAll(ctx context.Context, kind Kind) ([]Record, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.rows[kind]))
	for _, rec := range s.rows[kind] {
		out = append(out, rec.Clone())
	}
	return out, nil
}

// Append inserts a new row, rejecting duplicate ids within the kind.
func (s *MemoryStore) Append(ctx context.Context, kind Kind, rec Record) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}
	id := rec.ID()
	if id == "" {
		return ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.rows[kind] {
		if existing.ID() == id {
			return fmt.Errorf("%w: %s %q", ErrDuplicateID, kind, id)
		}
	}
	s.rows[kind] = append(s.rows[kind], rec.Clone())
	return nil
}

// UpdateField updates one field of the row matching id.
func (s *MemoryStore) UpdateField(ctx context.Context, kind Kind, id, field, value string) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.rows[kind] {
		if rec.ID() == id {
			rec[field] = value
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}

// DeleteByID removes the row matching id.
func (s *MemoryStore) DeleteByID(ctx context.Context, kind Kind, id string) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.rows[kind] {
		if rec.ID() == id {
			s.rows[kind] = append(s.rows[kind][:i], s.rows[kind][i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}
