package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// SourceStore persists source configurations: which connectors exist,
// how they are configured, and when they last synchronised.
type SourceStore interface {
	// Save stores a source, replacing any existing source with the same ID.
	Save(ctx context.Context, source domain.Source) error

	// Get retrieves a source by ID. Returns domain.ErrNotFound for
	// unknown IDs.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// Delete removes a source. Deleting an unknown ID is a no-op.
	Delete(ctx context.Context, id string) error

	// List returns all configured sources, oldest first.
	List(ctx context.Context) ([]domain.Source, error)
}
