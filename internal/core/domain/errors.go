package domain

import "errors"

// Sentinel errors for business-level failures. Adapters wrap their
// infrastructure errors into these so services and the CLI can branch
// with errors.Is without knowing the backing technology.
var (
	// ErrNotFound reports that the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists reports a duplicate. Adding a document whose
	// content hash is already stored returns this.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput rejects malformed requests: empty queries,
	// non-positive top-k, chunk/embedding count mismatches, or
	// embedding dimension mismatches. Nothing is mutated.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented marks functionality that is not available yet.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType rejects an unknown connector or normaliser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrIngestInProgress rejects starting a second ingestion run
	// while one is active.
	ErrIngestInProgress = errors.New("ingest in progress")

	// ErrEmbeddingFailed wraps a failure from the embedding provider.
	// Mutating operations return it with the pre-call state intact.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrPersistence wraps a failed flush to the store. In-memory
	// state is rolled back to the pre-call state.
	ErrPersistence = errors.New("persistence failed")

	// ErrLLMUnavailable means no LLM service is configured; answer
	// generation degrades to retrieval-only.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable means no embedding service is
	// configured. Ingestion and search cannot run without one.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// Connector failures.
var (
	// ErrConnectorValidation means the source is misconfigured or its
	// credentials do not work.
	ErrConnectorValidation = errors.New("connector validation failed")

	// ErrConnectorClosed rejects operations on a closed connector.
	ErrConnectorClosed = errors.New("connector closed")

	// ErrRateLimited surfaces an exhausted API quota.
	ErrRateLimited = errors.New("rate limited")
)
