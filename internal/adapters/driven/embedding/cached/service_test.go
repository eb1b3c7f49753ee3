package cached

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driven/embedcache/memory"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// stubEmbedder records every batch it is asked to embed and returns a
// deterministic vector per text so splice positions can be asserted.
type stubEmbedder struct {
	model      string
	dims       int
	batchCalls int
	batches    [][]string
	err        error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.batchCalls++
	s.batches = append(s.batches, append([]string(nil), texts...))
	if s.err != nil {
		return nil, s.err
	}
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = vectorFor(text)
	}
	return embeddings, nil
}

func (s *stubEmbedder) Dimensions() int            { return s.dims }
func (s *stubEmbedder) ModelName() string          { return s.model }
func (s *stubEmbedder) Ping(context.Context) error { return nil }
func (s *stubEmbedder) Close() error               { return nil }

// vectorFor maps a text to a distinct two-dimensional vector.
func vectorFor(text string) []float32 {
	return []float32{float32(text[0]), float32(len(text))}
}

// failPutCache delegates reads to a real cache but rejects every write.
type failPutCache struct {
	inner driven.EmbeddingCache
}

func (c *failPutCache) Get(ctx context.Context, key string) ([]float32, bool) {
	return c.inner.Get(ctx, key)
}

func (c *failPutCache) Put(context.Context, string, []float32) error {
	return errors.New("disk full")
}

func (c *failPutCache) Len(ctx context.Context) (int, error) { return c.inner.Len(ctx) }
func (c *failPutCache) Clear(ctx context.Context) error      { return c.inner.Clear(ctx) }
func (c *failPutCache) Close() error                         { return c.inner.Close() }

func newTestService(t *testing.T) (*EmbeddingService, *stubEmbedder, *memory.Cache) {
	t.Helper()
	inner := &stubEmbedder{model: "test-model", dims: 2}
	cache := memory.NewCache(0, 0)
	t.Cleanup(func() { _ = cache.Close() })
	return NewEmbeddingService(inner, cache), inner, cache
}

func TestEmbeddingService_EmbedBatch_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, inner, _ := newTestService(t)
	texts := []string{"alpha", "beta", "gamma"}

	first, err := svc.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, 1, inner.batchCalls)

	// Second call with the same texts must be served entirely from cache.
	second, err := svc.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.batchCalls)
	assert.Equal(t, first, second)
}

func TestEmbeddingService_EmbedBatch_MissesInOneCall(t *testing.T) {
	ctx := context.Background()
	svc, inner, _ := newTestService(t)

	// Warm the cache with one of the three texts.
	_, err := svc.Embed(ctx, "beta")
	require.NoError(t, err)
	require.Equal(t, 1, inner.batchCalls)

	embeddings, err := svc.EmbedBatch(ctx, []string{"alpha", "beta", "gamma"})
	require.NoError(t, err)

	// Both misses travel in a single inner call, hits never leave the cache.
	require.Equal(t, 2, inner.batchCalls)
	assert.Equal(t, []string{"alpha", "gamma"}, inner.batches[1])

	// Results land at their original positions regardless of hit/miss mix.
	require.Len(t, embeddings, 3)
	assert.Equal(t, vectorFor("alpha"), embeddings[0])
	assert.Equal(t, vectorFor("beta"), embeddings[1])
	assert.Equal(t, vectorFor("gamma"), embeddings[2])
}

func TestEmbeddingService_EmbedBatch_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	texts := []string{"zebra", "ant", "moose", "bee"}

	embeddings, err := svc.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, embeddings, len(texts))
	for i, text := range texts {
		assert.Equal(t, vectorFor(text), embeddings[i], "position %d", i)
	}
}

func TestEmbeddingService_EmbedBatch_Empty(t *testing.T) {
	svc, inner, _ := newTestService(t)

	embeddings, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, embeddings)
	assert.Equal(t, 0, inner.batchCalls)
}

func TestEmbeddingService_EmbedBatch_InnerFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	svc, inner, cache := newTestService(t)
	inner.err = errors.New("provider down")

	_, err := svc.EmbedBatch(ctx, []string{"alpha", "beta"})
	require.Error(t, err)

	// Atomicity per call: the failed batch leaves no partial entries.
	n, err := cache.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// A later successful call recomputes everything.
	inner.err = nil
	embeddings, err := svc.EmbedBatch(ctx, []string{"alpha", "beta"})
	require.NoError(t, err)
	assert.Equal(t, vectorFor("alpha"), embeddings[0])
}

func TestEmbeddingService_EmbedBatch_CacheWriteFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	inner := &stubEmbedder{model: "test-model", dims: 2}
	backing := memory.NewCache(0, 0)
	t.Cleanup(func() { _ = backing.Close() })
	svc := NewEmbeddingService(inner, &failPutCache{inner: backing})

	embeddings, err := svc.EmbedBatch(ctx, []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, vectorFor("alpha"), embeddings[0])

	// Nothing cached, so the same texts embed again next time.
	_, err = svc.EmbedBatch(ctx, []string{"alpha", "beta"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.batchCalls)
}

func TestEmbeddingService_Embed_UsesCache(t *testing.T) {
	ctx := context.Background()
	svc, inner, _ := newTestService(t)

	first, err := svc.Embed(ctx, "alpha")
	require.NoError(t, err)

	second, err := svc.Embed(ctx, "alpha")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.batchCalls)
	assert.Equal(t, first, second)
}

func TestEmbeddingService_KeysAreModelScoped(t *testing.T) {
	ctx := context.Background()
	cache := memory.NewCache(0, 0)
	t.Cleanup(func() { _ = cache.Close() })

	small := &stubEmbedder{model: "model-small", dims: 2}
	large := &stubEmbedder{model: "model-large", dims: 2}
	svcSmall := NewEmbeddingService(small, cache)
	svcLarge := NewEmbeddingService(large, cache)

	_, err := svcSmall.Embed(ctx, "alpha")
	require.NoError(t, err)

	// Same text under a different model is a miss, not a stale hit.
	_, err = svcLarge.Embed(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, 1, small.batchCalls)
	assert.Equal(t, 1, large.batchCalls)

	n, err := cache.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEmbeddingService_Delegation(t *testing.T) {
	svc, _, _ := newTestService(t)

	assert.Equal(t, 2, svc.Dimensions())
	assert.Equal(t, "test-model", svc.ModelName())
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}
