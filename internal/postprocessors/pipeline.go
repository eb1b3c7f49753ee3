// Package postprocessors turns normalised document content into chunks.
// The chunker creates chunks; later processors in a pipeline may
// rewrite or filter them.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline runs post-processors in sequence. The first processor sees
// nil chunks and is expected to create them from the document content;
// each later processor receives the previous one's output.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline builds a pipeline that runs the processors in the order
// given.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Process feeds the document through every processor and returns the
// final chunks. Cancellation is checked between stages.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	for _, proc := range p.processors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := proc.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("post-processor %s: %w", proc.Name(), err)
		}
		chunks = next
	}
	return chunks, nil
}
