package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/core/services"
)

// execute runs the root command with the given arguments and returns
// everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

// executeWithInput additionally feeds the command's stdin, for commands
// that prompt.
func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	if input != "" {
		rootCmd.SetIn(bytes.NewBufferString(input))
	}
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// mockIngestService implements driving.IngestService for command tests.
type mockIngestService struct {
	AddPathFunc func(ctx context.Context, path string, opts driving.AddOptions) (*domain.Document, error)
	RemoveFunc  func(ctx context.Context, documentID string) (bool, error)
	ListFunc    func(ctx context.Context) ([]domain.Document, error)
	GetFunc     func(ctx context.Context, documentID string) (*domain.Document, bool, error)
	StatsFunc   func(ctx context.Context) (domain.StoreStats, error)
	ClearFunc   func(ctx context.Context) error
}

func (m *mockIngestService) AddPath(ctx context.Context, path string, opts driving.AddOptions) (*domain.Document, error) {
	if m.AddPathFunc != nil {
		return m.AddPathFunc(ctx, path, opts)
	}
	return &domain.Document{ID: "doc-1", Name: "test.md", ChunkCount: 3, WordCount: 42}, nil
}

func (m *mockIngestService) AddRaw(_ context.Context, raw *domain.RawDocument, _ driving.AddOptions) (*domain.Document, error) {
	return &domain.Document{ID: "doc-raw", URI: raw.URI}, nil
}

func (m *mockIngestService) Remove(ctx context.Context, documentID string) (bool, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, documentID)
	}
	return true, nil
}

func (m *mockIngestService) List(ctx context.Context) ([]domain.Document, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.Document{
		{ID: "doc-1", Name: "guide.md", ChunkCount: 4, AddedAt: time.Now()},
		{ID: "doc-2", Name: "notes.txt", ChunkCount: 2, AddedAt: time.Now()},
	}, nil
}

func (m *mockIngestService) Get(ctx context.Context, documentID string) (*domain.Document, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, documentID)
	}
	return &domain.Document{
		ID:       documentID,
		Name:     "guide.md",
		URI:      "file:///tmp/guide.md",
		MIMEType: "text/markdown",
		AddedAt:  time.Now(),
	}, true, nil
}

func (m *mockIngestService) Content(_ context.Context, _ string) (string, bool, error) {
	return "document content", true, nil
}

func (m *mockIngestService) Summary(_ context.Context, _ string) (*domain.DocumentSummary, bool, error) {
	return &domain.DocumentSummary{
		Name:           "guide.md",
		WordCount:      120,
		SentenceCount:  9,
		ParagraphCount: 3,
		ChunkCount:     4,
		Preview:        "The guide begins here.",
	}, true, nil
}

func (m *mockIngestService) Stats(ctx context.Context) (domain.StoreStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return domain.StoreStats{
		DocumentCount:      2,
		TotalChunks:        6,
		TotalWords:         200,
		TotalSizeBytes:     1024,
		EmbeddingDimension: 768,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}, nil
}

func (m *mockIngestService) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return nil
}

// mockRetrievalService implements driving.RetrievalService.
type mockRetrievalService struct {
	RetrieveFunc func(ctx context.Context, query string, topK int, documentIDs []string) ([]domain.SearchResult, error)
}

func (m *mockRetrievalService) Retrieve(ctx context.Context, query string, topK int, documentIDs []string) ([]domain.SearchResult, error) {
	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, query, topK, documentIDs)
	}
	return []domain.SearchResult{
		{DocumentID: "doc-1", DocumentName: "guide.md", ChunkID: 0, ChunkText: "Install with the package manager.", Score: 0.91},
		{DocumentID: "doc-2", DocumentName: "notes.txt", ChunkID: 3, ChunkText: "Notes about installation steps.", Score: 0.74, PageNumber: 2},
	}, nil
}

// mockAnswerService implements driving.AnswerService.
type mockAnswerService struct {
	AskFunc func(ctx context.Context, question string, opts driving.AskOptions) (*domain.Answer, error)
}

func (m *mockAnswerService) Ask(ctx context.Context, question string, opts driving.AskOptions) (*domain.Answer, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question, opts)
	}
	return &domain.Answer{
		Question: question,
		Text:     "Install it with the package manager.",
		Model:    "test-model",
		Sources: []domain.SearchResult{
			{DocumentID: "doc-1", DocumentName: "guide.md", ChunkText: "Install with the package manager.", Score: 0.91},
		},
	}, nil
}

func (m *mockAnswerService) History() []domain.Exchange { return nil }

func (m *mockAnswerService) ClearHistory() {}

// mockSourceService implements driving.SourceService.
type mockSourceService struct {
	AddFunc     func(ctx context.Context, source domain.Source) (*domain.Source, error)
	ListFunc    func(ctx context.Context) ([]domain.Source, error)
	RemoveFunc  func(ctx context.Context, id string) error
	SyncFunc    func(ctx context.Context, id string) error
	SyncAllFunc func(ctx context.Context) error
	WatchFunc   func(ctx context.Context, id string) error
}

func (m *mockSourceService) Add(ctx context.Context, source domain.Source) (*domain.Source, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, source)
	}
	source.ID = "src-1"
	return &source, nil
}

func (m *mockSourceService) Get(_ context.Context, id string) (*domain.Source, error) {
	return &domain.Source{ID: id, Type: "filesystem", Name: "docs"}, nil
}

func (m *mockSourceService) List(ctx context.Context) ([]domain.Source, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.Source{
		{ID: "src-1", Type: "filesystem", Name: "Team docs"},
	}, nil
}

func (m *mockSourceService) Remove(ctx context.Context, id string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	return nil
}

func (m *mockSourceService) Sync(ctx context.Context, id string) error {
	if m.SyncFunc != nil {
		return m.SyncFunc(ctx, id)
	}
	return nil
}

func (m *mockSourceService) SyncAll(ctx context.Context) error {
	if m.SyncAllFunc != nil {
		return m.SyncAllFunc(ctx)
	}
	return nil
}

func (m *mockSourceService) Watch(ctx context.Context, id string) error {
	if m.WatchFunc != nil {
		return m.WatchFunc(ctx, id)
	}
	return nil
}

func (m *mockSourceService) Status(_ context.Context, id string) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{SourceID: id}, nil
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldIngest := ingestService
	oldRetrieval := retrievalService
	oldAnswer := answerService
	oldSource := sourceService
	oldSettings := settingsService

	ingestService = &mockIngestService{}
	retrievalService = &mockRetrievalService{}
	answerService = &mockAnswerService{}
	sourceService = &mockSourceService{}
	settingsService = services.NewSettingsService(memory.NewConfigStore(), ai.NewConfigValidator())

	return func() {
		ingestService = oldIngest
		retrievalService = oldRetrieval
		answerService = oldAnswer
		sourceService = oldSource
		settingsService = oldSettings
	}
}

func TestSetServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	ingest := &mockIngestService{}
	SetServices(&Services{Ingest: ingest})

	assert.Equal(t, driving.IngestService(ingest), ingestService)
	assert.Nil(t, retrievalService, "unset services are cleared")
}

func TestSetServices_Nil(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	before := ingestService
	SetServices(nil)

	assert.Equal(t, before, ingestService, "nil bundle leaves wiring untouched")
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "docqa", rootCmd.Use)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	verboseFlag := rootCmd.PersistentFlags().Lookup("verbose")
	assert.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	jsonFlag := rootCmd.PersistentFlags().Lookup("json")
	assert.NotNil(t, jsonFlag)
}

// mockRetrievalServiceError always fails.
type mockRetrievalServiceError struct{}

func (m *mockRetrievalServiceError) Retrieve(context.Context, string, int, []string) ([]domain.SearchResult, error) {
	return nil, errors.New("index unavailable")
}
