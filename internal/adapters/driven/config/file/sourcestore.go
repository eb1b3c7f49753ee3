package file

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure SourceStore implements the interface.
var _ driven.SourceStore = (*SourceStore)(nil)

// sourceRecord is the on-disk representation of a source.
type sourceRecord struct {
	ID        string            `toml:"id"`
	Type      string            `toml:"type"`
	Name      string            `toml:"name"`
	Config    map[string]string `toml:"config,omitempty"`
	CreatedAt time.Time         `toml:"created_at"`
	UpdatedAt time.Time         `toml:"updated_at"`
}

// sourcesFile is the top-level TOML document.
type sourcesFile struct {
	Sources []sourceRecord `toml:"sources"`
}

// SourceStore is a file-based implementation of driven.SourceStore using
// TOML. Sources are stored in a sources.toml file within the docqa config
// directory, so configured sources survive across processes. Connector
// config values (which may include token material) are written with
// restricted file permissions.
type SourceStore struct {
	mu       sync.RWMutex
	filePath string
	sources  map[string]domain.Source
}

// NewSourceStore creates a new TOML-based source store.
// If configDir is empty, defaults to ~/.docqa/sources.toml.
func NewSourceStore(configDir string) (*SourceStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".docqa")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &SourceStore{
		filePath: filepath.Join(configDir, "sources.toml"),
		sources:  make(map[string]domain.Source),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Save stores or updates a source and persists immediately.
func (s *SourceStore) Save(_ context.Context, source domain.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sources[source.ID] = source
	return s.save()
}

// Get retrieves a source by ID.
func (s *SourceStore) Get(_ context.Context, id string) (*domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	source, ok := s.sources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &source, nil
}

// Delete removes a source and persists immediately.
func (s *SourceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sources, id)
	return s.save()
}

// List returns all configured sources, oldest first.
func (s *SourceStore) List(_ context.Context) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Source, 0, len(s.sources))
	for _, source := range s.sources {
		result = append(result, source)
	}
	sortSources(result)
	return result, nil
}

// save writes all sources to the TOML file (caller must hold lock).
func (s *SourceStore) save() error {
	records := make([]sourceRecord, 0, len(s.sources))
	ordered := make([]domain.Source, 0, len(s.sources))
	for _, source := range s.sources {
		ordered = append(ordered, source)
	}
	sortSources(ordered)

	for _, source := range ordered {
		records = append(records, sourceRecord{
			ID:        source.ID,
			Type:      source.Type,
			Name:      source.Name,
			Config:    source.Config,
			CreatedAt: source.CreatedAt,
			UpdatedAt: source.UpdatedAt,
		})
	}

	data, err := toml.Marshal(sourcesFile{Sources: records})
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// load reads sources from the TOML file.
func (s *SourceStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No sources file yet - that's fine, start empty
			return nil
		}
		return err
	}

	var loaded sourcesFile
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	for _, record := range loaded.Sources {
		s.sources[record.ID] = domain.Source{
			ID:        record.ID,
			Type:      record.Type,
			Name:      record.Name,
			Config:    record.Config,
			CreatedAt: record.CreatedAt,
			UpdatedAt: record.UpdatedAt,
		}
	}
	return nil
}

// sortSources orders sources oldest first, breaking ties by ID.
func sortSources(sources []domain.Source) {
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].CreatedAt.Equal(sources[j].CreatedAt) {
			return sources[i].ID < sources[j].ID
		}
		return sources[i].CreatedAt.Before(sources[j].CreatedAt)
	})
}
