package domain

import "time"

// Document represents an ingested document with metadata.
// Once added to the vector store it is owned by the store and immutable;
// the only mutation is removal.
type Document struct {
	// ID is the unique identifier assigned by the vector store.
	ID string

	// SourceID links to the Source that produced this document.
	// Empty for documents added directly from a path.
	SourceID string

	// URI is the original location (file path, URL, etc).
	URI string

	// Name is the human-readable name, usually the file name or title.
	Name string

	// MIMEType is the content type the document was normalised from.
	MIMEType string

	// ContentHash is the SHA-256 hex digest of the raw bytes.
	// Used for deduplication and identity, never for lookup.
	ContentHash string

	// Content is the full text after normalisation. It is transient:
	// the vector store persists chunk texts, not this field.
	Content string

	// SizeBytes is the size of the raw source bytes.
	SizeBytes int64

	// WordCount is the number of whitespace-separated words in Content.
	WordCount int

	// ChunkCount is the number of chunks produced for this document.
	// Always equals the length of the document's embedding-row span.
	ChunkCount int

	// AddedAt is when the document was added to the store.
	AddedAt time.Time
}

// Chunk is a bounded, overlap-aware segment of a document's text.
// It is the unit of embedding and retrieval. Chunks are created once
// during chunking, never mutated, and destroyed with their document.
type Chunk struct {
	// ID is the zero-based sequence number local to the owning document.
	ID int

	// Text is the trimmed chunk text. Never empty.
	Text string

	// StartPos and EndPos are rune offsets into the source text.
	StartPos int
	EndPos   int

	// Length is the rune length of Text.
	Length int

	// PageNumber is the 1-based page this chunk starts on, resolved from
	// in-band page markers. Zero when the source carries no markers.
	PageNumber int
}

// DocumentSummary holds display statistics for a single document.
type DocumentSummary struct {
	Name           string
	MIMEType       string
	SizeBytes      int64
	WordCount      int
	SentenceCount  int
	ParagraphCount int
	ChunkCount     int

	// Preview is the first few sentences of the document text.
	Preview string

	AddedAt time.Time
}

// StoreStats aggregates vector store state. It is computed on demand
// from in-memory state and never persisted as a separate record.
type StoreStats struct {
	DocumentCount      int
	TotalChunks        int
	TotalWords         int
	TotalSizeBytes     int64
	EmbeddingDimension int

	// CreatedAt is when the store was first initialised.
	CreatedAt time.Time

	// UpdatedAt is when the store last persisted a mutation.
	UpdatedAt time.Time
}
