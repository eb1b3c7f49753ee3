package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// RetrievalService turns a query into ranked chunk contexts.
type RetrievalService interface {
	// Retrieve embeds the query and returns the topK most similar chunks,
	// ranked by descending score. With documentIDs set, each named
	// document is searched separately and the results are merged by a
	// stable sort on score before the top-k cut; empty documentIDs
	// searches the whole store.
	Retrieve(ctx context.Context, query string, topK int, documentIDs []string) ([]domain.SearchResult, error)
}
