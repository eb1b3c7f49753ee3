package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// AddOptions configures document ingestion.
type AddOptions struct {
	// Force re-ingests even when a document with the same content hash
	// is already stored (the old copy is replaced).
	Force bool

	// SourceID attributes the document to a configured source.
	SourceID string
}

// IngestService manages the document lifecycle: normalise, chunk, embed,
// store, and the inverse operations.
type IngestService interface {
	// AddPath reads a file, runs the ingestion pipeline, and stores the
	// result. Returns the stored document.
	AddPath(ctx context.Context, path string, opts AddOptions) (*domain.Document, error)

	// AddRaw ingests an already-fetched raw document (connector output).
	AddRaw(ctx context.Context, raw *domain.RawDocument, opts AddOptions) (*domain.Document, error)

	// Remove deletes a document and its embeddings.
	// Returns false when the ID is unknown.
	Remove(ctx context.Context, documentID string) (bool, error)

	// List returns all stored documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Get returns a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, bool, error)

	// Content reconstructs a document's text from its stored chunks.
	Content(ctx context.Context, documentID string) (string, bool, error)

	// Summary computes display statistics for a document.
	Summary(ctx context.Context, documentID string) (*domain.DocumentSummary, bool, error)

	// Stats aggregates store state.
	Stats(ctx context.Context) (domain.StoreStats, error)

	// Clear removes all documents.
	Clear(ctx context.Context) error
}
