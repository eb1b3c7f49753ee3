package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService turns a query into ranked chunk contexts. It holds no
// state of its own: the query is embedded once per call and ranking is
// delegated to the vector store.
type RetrievalService struct {
	store       driven.VectorStore
	embedding   driven.EmbeddingService
	defaultTopK int
}

// NewRetrievalService creates a retrieval service. The embedding service
// embeds queries directly, outside any ingestion-side cache.
func NewRetrievalService(
	store driven.VectorStore,
	embedding driven.EmbeddingService,
	defaultTopK int,
) *RetrievalService {
	if defaultTopK <= 0 {
		defaultTopK = domain.DefaultAppSettings().Retrieval.TopK
	}
	return &RetrievalService{
		store:       store,
		embedding:   embedding,
		defaultTopK: defaultTopK,
	}
}

// Retrieve embeds the query and returns the topK most similar chunks.
// With documentIDs set, each named document is searched separately and
// the results are merged by a stable sort on score before the top-k cut.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query string, topK int, documentIDs []string,
) ([]domain.SearchResult, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}
	if s.embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	embedding, err := s.embedding.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
	}
	logger.Debug("Query embedding: %d dimensions", len(embedding))

	if len(documentIDs) == 0 {
		results, err := s.store.Search(ctx, embedding, topK, "")
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		logger.Info("Results: %d", len(results))
		return results, nil
	}

	// Search each filtered document separately so topK is filled from
	// each document's own population, then merge.
	merged := make([]domain.SearchResult, 0, topK*len(documentIDs))
	for _, docID := range dedupe(documentIDs) {
		results, err := s.store.Search(ctx, embedding, topK, docID)
		if err != nil {
			return nil, fmt.Errorf("search document %s: %w", docID, err)
		}
		merged = append(merged, results...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > topK {
		merged = merged[:topK]
	}

	logger.Info("Results: %d (filtered to %d documents)", len(merged), len(documentIDs))
	return merged, nil
}

// dedupe removes repeated IDs, preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
