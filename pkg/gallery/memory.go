package gallery

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps entries in a map.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Save stores a copy of e, replacing any entry with the same ID.
func (s *MemoryStore) Save(_ context.Context, e *Entry) error {
	if err := ValidateID(e.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = clone(e)
	return nil
}

// Get returns a copy of the entry.
func (s *MemoryStore) Get(_ context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, notFound(id)
	}
	out := clone(&e)
	return &out, nil
}

// List returns up to limit entries, newest first.
func (s *MemoryStore) List(_ context.Context, limit int) ([]*Entry, error) {
	s.mu.RLock()
	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		c := clone(&e)
		out = append(out, &c)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Entry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if n := listLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Delete removes an entry.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return notFound(id)
	}
	delete(s.entries, id)
	return nil
}

// Close does nothing.
func (s *MemoryStore) Close(context.Context) error { return nil }

func clone(e *Entry) Entry {
	out := *e
	out.Options.Colors = slices.Clone(e.Options.Colors)
	out.Options.Formats = slices.Clone(e.Options.Formats)
	out.Options.Logger = nil
	return out
}

var _ Store = (*MemoryStore)(nil)
