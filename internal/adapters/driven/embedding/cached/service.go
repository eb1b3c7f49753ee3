// Package cached provides a caching decorator for embedding services.
// It wraps any EmbeddingService and avoids recomputing embeddings for
// text that has been seen before, keyed by model name and content hash.
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService decorates an inner embedding service with a
// content-hash cache. Identical text embeds at most once per model;
// switching models routes to fresh keys rather than invalidating.
//
// Cache failures never fail an embedding call: an unreadable entry is
// a miss, and a failed write is logged and dropped.
type EmbeddingService struct {
	inner driven.EmbeddingService
	cache driven.EmbeddingCache
}

// NewEmbeddingService wraps inner with cache.
func NewEmbeddingService(inner driven.EmbeddingService, cache driven.EmbeddingCache) *EmbeddingService {
	return &EmbeddingService{
		inner: inner,
		cache: cache,
	}
}

// cacheKey builds the cache key for a text under the current model.
// Keying on the content digest means identical text across documents
// shares one entry.
func (s *EmbeddingService) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embed:" + s.inner.ModelName() + ":" + hex.EncodeToString(sum[:])
}

// Embed generates a vector embedding for the given text, consulting
// the cache first.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("cached: no embedding returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts, preserving input
// order. Cached texts are served locally; all misses go to the inner
// service in a single batch call, and each computed vector is stored
// under its key before being spliced back into position.
//
// If the inner call fails the whole batch fails and nothing is cached.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, len(texts))
	keys := make([]string, len(texts))

	var missTexts []string
	var missIndices []int
	for i, text := range texts {
		keys[i] = s.cacheKey(text)
		if embedding, ok := s.cache.Get(ctx, keys[i]); ok {
			results[i] = embedding
			continue
		}
		missTexts = append(missTexts, text)
		missIndices = append(missIndices, i)
	}

	logger.Debug("Embedding cache: %d hits, %d misses", len(texts)-len(missTexts), len(missTexts))

	if len(missTexts) == 0 {
		return results, nil
	}

	computed, err := s.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(computed) != len(missTexts) {
		return nil, fmt.Errorf("cached: expected %d embeddings, got %d", len(missTexts), len(computed))
	}

	for j, embedding := range computed {
		i := missIndices[j]
		results[i] = embedding
		if err := s.cache.Put(ctx, keys[i], embedding); err != nil {
			logger.Warn("Embedding cache write failed: %v", err)
		}
	}

	return results, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping validates the inner service is reachable.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the inner service's resources. The cache has its own
// lifecycle and is closed by whoever owns it.
func (s *EmbeddingService) Close() error {
	return s.inner.Close()
}
