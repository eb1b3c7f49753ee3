package driven

import "context"

// EmbeddingService maps text to dense vectors. It only produces
// vectors; storing and searching them is the VectorStore's job.
//
// Providers: Ollama (local), OpenAI, and Gemini, plus a caching
// decorator that wraps any of them with content-hash lookups.
type EmbeddingService interface {
	// Embed returns the vector for one text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds several texts in one round trip, returning
	// vectors in input order. Ingestion prefers this over per-chunk
	// Embed calls.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector size every Embed call produces.
	// It must match the dimension the vector store was built with.
	Dimensions() int

	// ModelName identifies the embedding model. The embedding cache
	// keys on it, so two models never share cached vectors.
	ModelName() string

	// Ping cheaply verifies the provider is reachable and the
	// credentials work, without running inference.
	Ping(ctx context.Context) error

	// Close releases provider resources.
	Close() error
}
