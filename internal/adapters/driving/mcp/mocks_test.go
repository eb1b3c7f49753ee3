package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// mockIngestService implements driving.IngestService with overridable
// behaviour per method.
type mockIngestService struct {
	addPathFunc func(ctx context.Context, path string, opts driving.AddOptions) (*domain.Document, error)
	addRawFunc  func(ctx context.Context, raw *domain.RawDocument, opts driving.AddOptions) (*domain.Document, error)
	removeFunc  func(ctx context.Context, documentID string) (bool, error)
	listFunc    func(ctx context.Context) ([]domain.Document, error)
	contentFunc func(ctx context.Context, documentID string) (string, bool, error)
	statsFunc   func(ctx context.Context) (domain.StoreStats, error)
}

var _ driving.IngestService = (*mockIngestService)(nil)

func (m *mockIngestService) AddPath(ctx context.Context, path string, opts driving.AddOptions) (*domain.Document, error) {
	if m.addPathFunc != nil {
		return m.addPathFunc(ctx, path, opts)
	}
	return &domain.Document{ID: "doc-1", Name: "test.md", ChunkCount: 3, WordCount: 42}, nil
}

func (m *mockIngestService) AddRaw(ctx context.Context, raw *domain.RawDocument, opts driving.AddOptions) (*domain.Document, error) {
	if m.addRawFunc != nil {
		return m.addRawFunc(ctx, raw, opts)
	}
	return &domain.Document{ID: "doc-raw", URI: raw.URI, Name: "inline", ChunkCount: 1, WordCount: 5}, nil
}

func (m *mockIngestService) Remove(ctx context.Context, documentID string) (bool, error) {
	if m.removeFunc != nil {
		return m.removeFunc(ctx, documentID)
	}
	return true, nil
}

func (m *mockIngestService) List(ctx context.Context) ([]domain.Document, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []domain.Document{
		{
			ID:         "doc-1",
			Name:       "guide.md",
			URI:        "/docs/guide.md",
			MIMEType:   "text/markdown",
			ChunkCount: 4,
			WordCount:  120,
			AddedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:         "doc-2",
			Name:       "notes.txt",
			URI:        "/docs/notes.txt",
			MIMEType:   "text/plain",
			ChunkCount: 2,
			WordCount:  80,
			AddedAt:    time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
		},
	}, nil
}

func (m *mockIngestService) Get(ctx context.Context, documentID string) (*domain.Document, bool, error) {
	return &domain.Document{ID: documentID, Name: "guide.md"}, true, nil
}

func (m *mockIngestService) Content(ctx context.Context, documentID string) (string, bool, error) {
	if m.contentFunc != nil {
		return m.contentFunc(ctx, documentID)
	}
	return "The guide begins here. It explains the setup.", true, nil
}

func (m *mockIngestService) Summary(ctx context.Context, documentID string) (*domain.DocumentSummary, bool, error) {
	return &domain.DocumentSummary{Name: "guide.md", WordCount: 120}, true, nil
}

func (m *mockIngestService) Stats(ctx context.Context) (domain.StoreStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return domain.StoreStats{
		DocumentCount:      2,
		TotalChunks:        6,
		TotalWords:         200,
		TotalSizeBytes:     1024,
		EmbeddingDimension: 768,
	}, nil
}

func (m *mockIngestService) Clear(ctx context.Context) error {
	return nil
}

// mockRetrievalService implements driving.RetrievalService.
type mockRetrievalService struct {
	retrieveFunc func(ctx context.Context, query string, topK int, documentIDs []string) ([]domain.SearchResult, error)
}

var _ driving.RetrievalService = (*mockRetrievalService)(nil)

func (m *mockRetrievalService) Retrieve(ctx context.Context, query string, topK int, documentIDs []string) ([]domain.SearchResult, error) {
	if m.retrieveFunc != nil {
		return m.retrieveFunc(ctx, query, topK, documentIDs)
	}
	return []domain.SearchResult{
		{
			DocumentID:   "doc-1",
			DocumentName: "guide.md",
			ChunkID:      0,
			ChunkText:    "Install the tool with the package manager.",
			Score:        0.91,
		},
		{
			DocumentID:   "doc-2",
			DocumentName: "notes.txt",
			ChunkID:      1,
			ChunkText:    "Remember to configure the index directory.",
			Score:        0.74,
			PageNumber:   2,
		},
	}, nil
}

// mockAnswerService implements driving.AnswerService.
type mockAnswerService struct {
	askFunc func(ctx context.Context, question string, opts driving.AskOptions) (*domain.Answer, error)
}

var _ driving.AnswerService = (*mockAnswerService)(nil)

func (m *mockAnswerService) Ask(ctx context.Context, question string, opts driving.AskOptions) (*domain.Answer, error) {
	if m.askFunc != nil {
		return m.askFunc(ctx, question, opts)
	}
	return &domain.Answer{
		Question: question,
		Text:     "Install it with the package manager.",
		Model:    "test-model",
		Sources: []domain.SearchResult{
			{DocumentID: "doc-1", DocumentName: "guide.md", ChunkID: 0, Score: 0.91},
		},
	}, nil
}

func (m *mockAnswerService) History() []domain.Exchange {
	return nil
}

func (m *mockAnswerService) ClearHistory() {}

// newTestServer builds a server over the default mocks.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(Ports{
		Ingest:    &mockIngestService{},
		Retrieval: &mockRetrievalService{},
		Answer:    &mockAnswerService{},
	}, "test")
	require.NoError(t, err)
	return srv
}
