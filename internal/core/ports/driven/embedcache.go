package driven

import "context"

// EmbeddingCache is a persistent content-hash → embedding mapping used to
// avoid recomputing embeddings for text already seen. Entries live
// independently of documents: removing a document never evicts cache
// entries, and identical text across documents shares one entry.
//
// The cache is an optimisation, never a correctness dependency: an
// unreadable or corrupt entry is reported as a miss, and a failed write
// must not fail the embedding operation that triggered it. Concurrent
// writes to the same key are last-writer-wins; the value is a pure
// function of the key so either write is correct.
type EmbeddingCache interface {
	// Get returns the cached embedding for a key and whether it was found.
	// Corrupt entries are treated as absent.
	Get(ctx context.Context, key string) ([]float32, bool)

	// Put stores an embedding under a key, replacing any existing value.
	Put(ctx context.Context, key string, embedding []float32) error

	// Len returns the number of stored entries.
	Len(ctx context.Context) (int, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
