package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// VectorStore owns document metadata, chunk records, and the embedding
// matrix. Document chunks occupy a contiguous block of matrix rows, in
// chunk order; row offsets are derived from the ordered document list and
// re-derived after every mutation, never stored independently.
//
// Mutating calls persist the full store state before returning. On any
// failure mid-mutation the store is left in its pre-call state.
//
// Lookups report absence with a boolean, not an error: a missing document
// is an expected outcome, errors are reserved for genuine failures.
type VectorStore interface {
	// AddDocument assigns a fresh document ID, appends the chunk list,
	// stacks the embeddings onto the end of the matrix, and persists.
	// The document's Content field is not retained.
	//
	// Input errors (wrapped domain.ErrInvalidInput, nothing mutated):
	// zero chunks, len(chunks) != len(embeddings), or any embedding whose
	// dimension differs from the store's established dimension.
	AddDocument(ctx context.Context, doc domain.Document, chunks []domain.Chunk, embeddings [][]float32) (string, error)

	// RemoveDocument deletes a document, its chunks, and its embedding
	// rows, then re-derives the row offsets of all remaining documents.
	// Returns false when the ID is unknown.
	RemoveDocument(ctx context.Context, documentID string) (bool, error)

	// Search scores the query against every stored embedding (dot product
	// over L2-normalised vectors) and returns the global top-k results in
	// descending score order; ties break by lowest chunk ID, then lowest
	// document ID. A non-empty documentFilter restricts candidates to that
	// document's rows before selection. An empty store yields an empty
	// result. Input errors: empty query vector, topK <= 0, or a query
	// dimension that differs from the store's.
	Search(ctx context.Context, queryEmbedding []float32, topK int, documentFilter string) ([]domain.SearchResult, error)

	// Get returns a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, bool, error)

	// FindByHash returns the document with the given content hash, if any.
	FindByHash(ctx context.Context, contentHash string) (*domain.Document, bool, error)

	// Chunks returns a document's chunk records in chunk order.
	Chunks(ctx context.Context, documentID string) ([]domain.Chunk, bool, error)

	// List returns all documents in insertion order.
	List(ctx context.Context) ([]domain.Document, error)

	// Stats aggregates store state.
	Stats(ctx context.Context) (domain.StoreStats, error)

	// Clear removes every document and embedding, and persists the
	// empty state.
	Clear(ctx context.Context) error

	// Close flushes and releases resources.
	Close() error
}
