package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// PostProcessor is one stage of the chunk-production pipeline. The
// chunker is the chunk-creating stage: it receives nil chunks and cuts
// the document content into them. Any stage after it receives the
// previous stage's chunks and may rewrite or filter them.
type PostProcessor interface {
	// Name identifies the processor in configuration and error output.
	Name() string

	// Process transforms the chunks for one document.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline runs a fixed sequence of post-processors over
// a normalised document and yields its final chunks.
type PostProcessorPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
