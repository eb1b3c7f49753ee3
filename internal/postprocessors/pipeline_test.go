package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

func TestPipeline_RunsProcessorsInOrder(t *testing.T) {
	pipeline := NewPipeline(
		&stubProcessor{name: "first"},
		&stubProcessor{name: "second"},
		&stubProcessor{name: "third"},
	)
	doc := &domain.Document{ID: "doc-1", Content: "irrelevant"}

	chunks, err := pipeline.Process(context.Background(), doc)

	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "first", chunks[0].Text)
	assert.Equal(t, "second", chunks[1].Text)
	assert.Equal(t, "third", chunks[2].Text)
}

func TestPipeline_NilDocument(t *testing.T) {
	pipeline := NewPipeline(&stubProcessor{name: "only"})

	_, err := pipeline.Process(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPipeline_Empty(t *testing.T) {
	pipeline := NewPipeline()
	doc := &domain.Document{ID: "doc-1", Content: "some text"}

	chunks, err := pipeline.Process(context.Background(), doc)

	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestPipeline_ProcessorErrorNamesStage(t *testing.T) {
	stageErr := errors.New("stage exploded")
	pipeline := NewPipeline(
		&stubProcessor{name: "ok"},
		&stubProcessor{name: "broken", err: stageErr},
	)
	doc := &domain.Document{ID: "doc-1", Content: "text"}

	_, err := pipeline.Process(context.Background(), doc)

	require.Error(t, err)
	assert.ErrorIs(t, err, stageErr)
	assert.Contains(t, err.Error(), "broken")
}

func TestPipeline_CancelledContext(t *testing.T) {
	pipeline := NewPipeline(&stubProcessor{name: "never-runs"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Process(ctx, &domain.Document{ID: "doc-1"})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_WithChunker(t *testing.T) {
	pipeline := NewPipeline(chunker.New(chunker.WithChunkSize(40), chunker.WithOverlap(10)))
	doc := &domain.Document{
		ID:      "doc-1",
		Content: "The first sentence sets things up. The second sentence carries on. The third one closes.",
	}

	chunks, err := pipeline.Process(context.Background(), doc)

	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ID)
		assert.NotEmpty(t, chunk.Text)
	}
}
