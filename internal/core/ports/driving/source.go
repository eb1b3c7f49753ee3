package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// SyncStatus reports progress of a running source sync.
type SyncStatus struct {
	// SourceID identifies the source being synced.
	SourceID string

	// Running indicates whether a sync is currently active.
	Running bool

	// DocumentsProcessed counts documents handled so far.
	DocumentsProcessed int

	// ErrorCount counts documents that failed to process.
	ErrorCount int
}

// SourceService manages configured sources and their synchronisation.
type SourceService interface {
	// Add validates and stores a new source configuration.
	Add(ctx context.Context, source domain.Source) (*domain.Source, error)

	// Get retrieves a source by ID.
	Get(ctx context.Context, sourceID string) (*domain.Source, error)

	// List returns all configured sources.
	List(ctx context.Context) ([]domain.Source, error)

	// Remove deletes a source configuration. Documents already ingested
	// from it stay in the store.
	Remove(ctx context.Context, sourceID string) error

	// Sync ingests all documents from a source.
	Sync(ctx context.Context, sourceID string) error

	// SyncAll ingests all documents from every source.
	SyncAll(ctx context.Context) error

	// Watch subscribes to a source's change feed and applies each event
	// to the index as it arrives, blocking until ctx is cancelled. Only
	// sources whose connector supports watching can be watched.
	Watch(ctx context.Context, sourceID string) error

	// Status reports sync progress for a source.
	Status(ctx context.Context, sourceID string) (*SyncStatus, error)
}
