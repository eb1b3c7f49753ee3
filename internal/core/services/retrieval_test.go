package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

type retrievalSearchCall struct {
	topK   int
	filter string
}

// retrievalMockStore returns canned results per document filter and
// records every search call.
type retrievalMockStore struct {
	results   map[string][]domain.SearchResult
	searchErr error
	calls     []retrievalSearchCall
}

func (m *retrievalMockStore) AddDocument(context.Context, domain.Document, []domain.Chunk, [][]float32) (string, error) {
	return "", nil
}

func (m *retrievalMockStore) RemoveDocument(context.Context, string) (bool, error) {
	return false, nil
}

func (m *retrievalMockStore) Search(_ context.Context, _ []float32, topK int, documentFilter string) ([]domain.SearchResult, error) {
	m.calls = append(m.calls, retrievalSearchCall{topK: topK, filter: documentFilter})
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results[documentFilter], nil
}

func (m *retrievalMockStore) Get(context.Context, string) (*domain.Document, bool, error) {
	return nil, false, nil
}

func (m *retrievalMockStore) FindByHash(context.Context, string) (*domain.Document, bool, error) {
	return nil, false, nil
}

func (m *retrievalMockStore) Chunks(context.Context, string) ([]domain.Chunk, bool, error) {
	return nil, false, nil
}

func (m *retrievalMockStore) List(context.Context) ([]domain.Document, error) {
	return nil, nil
}

func (m *retrievalMockStore) Stats(context.Context) (domain.StoreStats, error) {
	return domain.StoreStats{}, nil
}

func (m *retrievalMockStore) Clear(context.Context) error { return nil }
func (m *retrievalMockStore) Close() error                { return nil }

// retrievalMockEmbedder returns a fixed query vector.
type retrievalMockEmbedder struct {
	embedding []float32
	embedErr  error
}

func (m *retrievalMockEmbedder) Embed(context.Context, string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *retrievalMockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *retrievalMockEmbedder) Dimensions() int            { return len(m.embedding) }
func (m *retrievalMockEmbedder) ModelName() string          { return "mock-embed" }
func (m *retrievalMockEmbedder) Ping(context.Context) error { return nil }
func (m *retrievalMockEmbedder) Close() error               { return nil }

func newRetrievalFixture(defaultTopK int) (*RetrievalService, *retrievalMockStore) {
	store := &retrievalMockStore{results: make(map[string][]domain.SearchResult)}
	embedder := &retrievalMockEmbedder{embedding: []float32{1, 0, 0}}
	return NewRetrievalService(store, embedder, defaultTopK), store
}

func TestNewRetrievalService(t *testing.T) {
	svc, _ := newRetrievalFixture(5)
	require.NotNil(t, svc)
}

func TestRetrievalService_Retrieve_EmptyQuery(t *testing.T) {
	svc, store := newRetrievalFixture(5)

	for _, query := range []string{"", "   ", "\t\n"} {
		results, err := svc.Retrieve(context.Background(), query, 5, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Nil(t, results)
	}
	assert.Empty(t, store.calls)
}

func TestRetrievalService_Retrieve_NoEmbeddingService(t *testing.T) {
	store := &retrievalMockStore{}
	svc := NewRetrievalService(store, nil, 5)

	results, err := svc.Retrieve(context.Background(), "anything", 5, nil)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Nil(t, results)
}

func TestRetrievalService_Retrieve_EmbeddingFailure(t *testing.T) {
	store := &retrievalMockStore{}
	embedder := &retrievalMockEmbedder{embedErr: errors.New("provider down")}
	svc := NewRetrievalService(store, embedder, 5)

	results, err := svc.Retrieve(context.Background(), "anything", 5, nil)
	assert.ErrorIs(t, err, domain.ErrEmbeddingFailed)
	assert.Nil(t, results)
	assert.Empty(t, store.calls)
}

func TestRetrievalService_Retrieve_Unfiltered(t *testing.T) {
	svc, store := newRetrievalFixture(5)
	store.results[""] = []domain.SearchResult{
		{DocumentID: "doc-a", ChunkID: 0, Score: 0.9},
		{DocumentID: "doc-b", ChunkID: 2, Score: 0.8},
		{DocumentID: "doc-a", ChunkID: 1, Score: 0.7},
	}

	results, err := svc.Retrieve(context.Background(), "what is alpha", 3, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 0.9, results[0].Score)
	assert.Equal(t, 0.7, results[2].Score)

	require.Len(t, store.calls, 1)
	assert.Equal(t, retrievalSearchCall{topK: 3, filter: ""}, store.calls[0])
}

func TestRetrievalService_Retrieve_DefaultTopK(t *testing.T) {
	svc, store := newRetrievalFixture(0) // falls back to the built-in default

	_, err := svc.Retrieve(context.Background(), "query", 0, nil)
	require.NoError(t, err)

	require.Len(t, store.calls, 1)
	assert.Equal(t, domain.DefaultAppSettings().Retrieval.TopK, store.calls[0].topK)
}

func TestRetrievalService_Retrieve_SearchError(t *testing.T) {
	svc, store := newRetrievalFixture(5)
	store.searchErr = errors.New("matrix corrupt")

	results, err := svc.Retrieve(context.Background(), "query", 5, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search")
	assert.Nil(t, results)
}

func TestRetrievalService_Retrieve_FilteredMerge(t *testing.T) {
	svc, store := newRetrievalFixture(5)
	store.results["doc-a"] = []domain.SearchResult{
		{DocumentID: "doc-a", ChunkID: 0, Score: 0.9},
		{DocumentID: "doc-a", ChunkID: 1, Score: 0.5},
	}
	store.results["doc-b"] = []domain.SearchResult{
		{DocumentID: "doc-b", ChunkID: 0, Score: 0.8},
		{DocumentID: "doc-b", ChunkID: 1, Score: 0.6},
	}

	results, err := svc.Retrieve(context.Background(), "query", 3, []string{"doc-a", "doc-b"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Merged across documents by descending score, then cut.
	assert.Equal(t, "doc-a", results[0].DocumentID)
	assert.Equal(t, 0.9, results[0].Score)
	assert.Equal(t, "doc-b", results[1].DocumentID)
	assert.Equal(t, 0.8, results[1].Score)
	assert.Equal(t, "doc-b", results[2].DocumentID)
	assert.Equal(t, 0.6, results[2].Score)

	// Each document is searched with the full topK so the merge pool is
	// filled from each document's own population.
	require.Len(t, store.calls, 2)
	assert.Equal(t, retrievalSearchCall{topK: 3, filter: "doc-a"}, store.calls[0])
	assert.Equal(t, retrievalSearchCall{topK: 3, filter: "doc-b"}, store.calls[1])
}

func TestRetrievalService_Retrieve_FilteredMergeIsStable(t *testing.T) {
	svc, store := newRetrievalFixture(5)
	store.results["doc-a"] = []domain.SearchResult{
		{DocumentID: "doc-a", ChunkID: 3, Score: 0.8},
	}
	store.results["doc-b"] = []domain.SearchResult{
		{DocumentID: "doc-b", ChunkID: 1, Score: 0.8},
	}

	results, err := svc.Retrieve(context.Background(), "query", 5, []string{"doc-a", "doc-b"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Equal scores keep filter order.
	assert.Equal(t, "doc-a", results[0].DocumentID)
	assert.Equal(t, "doc-b", results[1].DocumentID)
}

func TestRetrievalService_Retrieve_DuplicateFiltersSearchedOnce(t *testing.T) {
	svc, store := newRetrievalFixture(5)
	store.results["doc-a"] = []domain.SearchResult{
		{DocumentID: "doc-a", ChunkID: 0, Score: 0.9},
	}

	results, err := svc.Retrieve(context.Background(), "query", 5, []string{"doc-a", "doc-a", "doc-a"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Len(t, store.calls, 1)
}

func TestRetrievalService_Retrieve_FilteredSearchError(t *testing.T) {
	svc, store := newRetrievalFixture(5)
	store.searchErr = errors.New("matrix corrupt")

	results, err := svc.Retrieve(context.Background(), "query", 5, []string{"doc-a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doc-a")
	assert.Nil(t, results)
}
