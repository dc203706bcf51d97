package layoutstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-dashboard-builder/components/builder"
)

// MemoryStore keeps layouts in insertion order behind a mutex.
type MemoryStore struct {
	opts  Options
	mu    sync.RWMutex
	order []string
	data  map[string]builder.Layout
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts Options) *MemoryStore {
	return &MemoryStore{
		opts: opts.normalized(),
		data: make(map[string]builder.Layout),
	}
}

// List returns every layout in creation order.
func (s *MemoryStore) List(_ context.Context) ([]builder.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]builder.Layout, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.data[id].Clone())
	}
	return out, nil
}

// Get returns one layout.
func (s *MemoryStore) Get(_ context.Context, id string) (builder.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.data[id]
	if !ok {
		return builder.Layout{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return l.Clone(), nil
}

// Create stores a new layout under a generated id.
func (s *MemoryStore) Create(_ context.Context, req builder.LayoutRequest) (builder.Layout, error) {
	now := s.opts.Clock()
	l, err := build(s.opts.NewID(), req, now, now)
	if err != nil {
		return builder.Layout{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[l.ID] = l
	s.order = append(s.order, l.ID)
	return l.Clone(), nil
}

// Update replaces the content of an existing layout.
func (s *MemoryStore) Update(_ context.Context, id string, req builder.LayoutRequest) (builder.Layout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.data[id]
	if !ok {
		return builder.Layout{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	l, err := build(id, req, existing.CreatedAt, s.opts.Clock())
	if err != nil {
		return builder.Layout{}, err
	}
	s.data[id] = l
	return l.Clone(), nil
}

// Delete removes a layout.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.data, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
