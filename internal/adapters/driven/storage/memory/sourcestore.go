package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.SourceStore = (*SourceStore)(nil)

// SourceStore keeps source definitions in a mutex-guarded map. Like its
// ConfigStore sibling it backs tests and ephemeral wiring; sources last
// only as long as the process.
type SourceStore struct {
	mu   sync.RWMutex
	byID map[string]domain.Source
}

// NewSourceStore returns an empty in-memory source store.
func NewSourceStore() *SourceStore {
	return &SourceStore{byID: make(map[string]domain.Source)}
}

// Save stores source, replacing any existing source with the same ID.
func (s *SourceStore) Save(_ context.Context, source domain.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[source.ID] = source
	return nil
}

// Get returns the source with the given ID, or domain.ErrNotFound. The
// result is a copy; mutating it does not change the store.
func (s *SourceStore) Get(_ context.Context, id string) (*domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &source, nil
}

// Delete removes the source with the given ID. Unknown IDs are ignored.
func (s *SourceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

// List returns all sources oldest first, breaking ties by ID.
func (s *SourceStore) List(_ context.Context) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := make([]domain.Source, 0, len(s.byID))
	for _, source := range s.byID {
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool {
		a, b := sources[i], sources[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return sources, nil
}
