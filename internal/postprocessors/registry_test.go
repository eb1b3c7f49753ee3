package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

// stubProcessor appends one marker chunk per call so pipeline order is
// observable in tests.
type stubProcessor struct {
	name string
	err  error
}

func (p *stubProcessor) Name() string { return p.name }

func (p *stubProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if p.err != nil {
		return nil, p.err
	}
	return append(chunks, domain.Chunk{ID: len(chunks), Text: p.name}), nil
}

func TestRegistry_BuildChunker(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	proc, err := r.Build("chunker", map[string]any{
		"chunk_size": 500,
		"overlap":    50,
	})

	require.NoError(t, err)
	require.NotNil(t, proc)
	assert.Equal(t, "chunker", proc.Name())

	c, ok := proc.(*chunker.Processor)
	require.True(t, ok)
	assert.Equal(t, 500, c.ChunkSize())
	assert.Equal(t, 50, c.Overlap())
}

func TestRegistry_BuildChunkerDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	proc, err := r.Build("chunker", nil)

	require.NoError(t, err)
	c, ok := proc.(*chunker.Processor)
	require.True(t, ok)
	assert.Equal(t, chunker.DefaultChunkSize, c.ChunkSize())
	assert.Equal(t, chunker.DefaultChunkOverlap, c.Overlap())
}

func TestRegistry_BuildChunkerTOMLValues(t *testing.T) {
	// go-toml hands back int64; the builder must coerce.
	r := NewRegistry()
	RegisterDefaults(r)

	proc, err := r.Build("chunker", map[string]any{
		"chunk_size": int64(800),
		"overlap":    float64(80),
	})

	require.NoError(t, err)
	c, ok := proc.(*chunker.Processor)
	require.True(t, ok)
	assert.Equal(t, 800, c.ChunkSize())
	assert.Equal(t, 80, c.Overlap())
}

func TestRegistry_BuildChunkerExplicitZeroOverlap(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	proc, err := r.Build("chunker", map[string]any{"overlap": 0})

	require.NoError(t, err)
	c, ok := proc.(*chunker.Processor)
	require.True(t, ok)
	assert.Zero(t, c.Overlap(), "explicit zero overlap must not fall back to the default")
}

func TestRegistry_BuildUnknown(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	_, err := r.Build("deduplicator", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "deduplicator")
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register("stage", func(map[string]any) (driven.PostProcessor, error) {
		return &stubProcessor{name: "first"}, nil
	})
	r.Register("stage", func(map[string]any) (driven.PostProcessor, error) {
		return &stubProcessor{name: "second"}, nil
	})

	proc, err := r.Build("stage", nil)

	require.NoError(t, err)
	assert.Equal(t, "second", proc.Name())
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	r.Register("annotator", func(map[string]any) (driven.PostProcessor, error) {
		return &stubProcessor{name: "annotator"}, nil
	})

	assert.Equal(t, []string{"annotator", "chunker"}, r.Names())
}

func TestRegistry_BuilderError(t *testing.T) {
	wantErr := errors.New("bad config")
	r := NewRegistry()
	r.Register("failing", func(map[string]any) (driven.PostProcessor, error) {
		return nil, wantErr
	})

	_, err := r.Build("failing", nil)

	assert.ErrorIs(t, err, wantErr)
}
