package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps diagrams in a map. Specs are deep-copied on the way in
// and out so callers cannot mutate stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	diagrams map[string]*Diagram
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{diagrams: make(map[string]*Diagram)}
}

// Put upserts a diagram.
func (s *MemoryStore) Put(ctx context.Context, d *Diagram) error {
	prepare(d)

	stored := *d
	if d.Spec != nil {
		stored.Spec = d.Spec.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.diagrams[d.ID]; ok {
		stored.CreatedAt = prev.CreatedAt
		d.CreatedAt = prev.CreatedAt
	}
	s.diagrams[d.ID] = &stored
	return nil
}

// Get returns a copy of the stored diagram.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.diagrams[id]
	if !ok {
		return nil, notFound(id)
	}
	out := *d
	if d.Spec != nil {
		out.Spec = d.Spec.Clone()
	}
	return &out, nil
}

// List returns copies of all diagrams, most recently updated first.
func (s *MemoryStore) List(ctx context.Context) ([]*Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Diagram, 0, len(s.diagrams))
	for _, d := range s.diagrams {
		cp := *d
		if d.Spec != nil {
			cp.Spec = d.Spec.Clone()
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete removes a diagram.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.diagrams[id]; !ok {
		return notFound(id)
	}
	delete(s.diagrams, id)
	return nil
}

// Close does nothing for the memory backend.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
