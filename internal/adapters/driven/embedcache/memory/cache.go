// Package memory provides a bounded in-memory embedding cache.
package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.EmbeddingCache = (*Cache)(nil)

// DefaultMaxEntries bounds the cache when no size is configured.
const DefaultMaxEntries = 4096

// Cache is an in-memory LRU driven.EmbeddingCache. Unlike the persistent
// cache it is bounded and may expire entries; it serves ephemeral stores
// and tests, where re-embedding after eviction is acceptable.
type Cache struct {
	lru *expirable.LRU[string, []float32]
}

// NewCache creates an in-memory cache. A non-positive size falls back to
// DefaultMaxEntries; a non-positive ttl keeps entries until evicted.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultMaxEntries
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{
		lru: expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

// Get returns the cached embedding for a key.
func (c *Cache) Get(_ context.Context, key string) ([]float32, bool) {
	cached, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return cloneEmbedding(cached), true
}

// Put stores an embedding under a key, replacing any existing value.
func (c *Cache) Put(_ context.Context, key string, embedding []float32) error {
	c.lru.Add(key, cloneEmbedding(embedding))
	return nil
}

// Len returns the number of stored entries.
func (c *Cache) Len(_ context.Context) (int, error) {
	return c.lru.Len(), nil
}

// Clear removes all entries.
func (c *Cache) Clear(_ context.Context) error {
	c.lru.Purge()
	return nil
}

// Close releases resources.
func (c *Cache) Close() error {
	return nil
}

// cloneEmbedding copies a vector so cached values and caller slices never
// alias each other.
func cloneEmbedding(values []float32) []float32 {
	if len(values) == 0 {
		return nil
	}
	clone := make([]float32, len(values))
	copy(clone, values)
	return clone
}
