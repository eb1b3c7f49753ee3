package domain

import "time"

// SearchResult represents a single retrieval hit. Results are ephemeral:
// they are produced by a search and never stored.
type SearchResult struct {
	// DocumentID identifies the owning document.
	DocumentID string

	// DocumentName is the owning document's display name.
	DocumentName string

	// ChunkID is the zero-based chunk number within the document.
	ChunkID int

	// ChunkText is the matched chunk's text.
	ChunkText string

	// Score is the cosine similarity against the query embedding,
	// in [-1, 1] for L2-normalised vectors.
	Score float64

	// PageNumber is the 1-based page the chunk starts on, 0 when unknown.
	PageNumber int
}

// Answer is the output of the answer service: a generated response plus
// the retrieved contexts it was grounded on.
type Answer struct {
	// Question is the question as asked.
	Question string

	// Text is the generated answer. Empty when no LLM is configured
	// and the service degraded to retrieval-only.
	Text string

	// Sources are the retrieval results used as context, ranked by score.
	Sources []SearchResult

	// Model names the LLM that produced Text, empty when degraded.
	Model string

	// CreatedAt is when the answer was produced.
	CreatedAt time.Time
}
