package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure SourceService implements the interface.
var _ driving.SourceService = (*SourceService)(nil)

// SourceService manages source configurations and runs their syncs.
// A sync streams raw documents from the source's connector through the
// ingestion pipeline.
type SourceService struct {
	sourceStore driven.SourceStore
	factory     driven.ConnectorFactory
	ingest      driving.IngestService

	// Status tracking
	mu          sync.RWMutex
	activeSyncs map[string]*driving.SyncStatus
}

// NewSourceService creates a new source service.
func NewSourceService(
	sourceStore driven.SourceStore,
	factory driven.ConnectorFactory,
	ingest driving.IngestService,
) *SourceService {
	return &SourceService{
		sourceStore: sourceStore,
		factory:     factory,
		ingest:      ingest,
		activeSyncs: make(map[string]*driving.SyncStatus),
	}
}

// Add validates and stores a new source configuration. The connector is
// created and validated up front so a bad path or missing credential
// surfaces here rather than on the first sync.
func (s *SourceService) Add(ctx context.Context, source domain.Source) (*domain.Source, error) {
	if source.Type == "" {
		return nil, fmt.Errorf("%w: source type is required", domain.ErrInvalidInput)
	}
	if source.ID == "" {
		source.ID = uuid.New().String()
	}
	if source.Name == "" {
		source.Name = source.Type
	}

	if existing, err := s.sourceStore.Get(ctx, source.ID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: source %s", domain.ErrAlreadyExists, source.ID)
	}

	if s.factory != nil {
		connector, err := s.factory.Create(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("create connector: %w", err)
		}
		caps := connector.Capabilities()
		if caps.SupportsValidation {
			if err := connector.Validate(ctx); err != nil {
				_ = connector.Close()
				return nil, fmt.Errorf("%w: %w", domain.ErrConnectorValidation, err)
			}
		}
		if err := connector.Close(); err != nil {
			logger.Debug("Close connector after validation: %v", err)
		}
	}

	now := time.Now().UTC()
	if source.CreatedAt.IsZero() {
		source.CreatedAt = now
	}
	source.UpdatedAt = now

	if err := s.sourceStore.Save(ctx, source); err != nil {
		return nil, fmt.Errorf("save source: %w", err)
	}

	logger.Info("Added source %q (%s, type %s)", source.Name, source.ID, source.Type)
	return &source, nil
}

// Get retrieves a source by ID.
func (s *SourceService) Get(ctx context.Context, sourceID string) (*domain.Source, error) {
	return s.sourceStore.Get(ctx, sourceID)
}

// List returns all configured sources.
func (s *SourceService) List(ctx context.Context) ([]domain.Source, error) {
	return s.sourceStore.List(ctx)
}

// Remove deletes a source configuration. Documents already ingested from
// it stay in the store.
func (s *SourceService) Remove(ctx context.Context, sourceID string) error {
	if err := s.sourceStore.Delete(ctx, sourceID); err != nil {
		return err
	}
	logger.Info("Removed source %s", sourceID)
	return nil
}

// Sync ingests all documents from a source.
func (s *SourceService) Sync(ctx context.Context, sourceID string) error {
	source, err := s.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}

	if s.factory == nil {
		return fmt.Errorf("create connector: connector factory not configured")
	}
	connector, err := s.factory.Create(ctx, *source)
	if err != nil {
		return fmt.Errorf("create connector: %w", err)
	}
	defer connector.Close()

	caps := connector.Capabilities()
	if caps.SupportsValidation {
		if err := connector.Validate(ctx); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrConnectorValidation, err)
		}
	}

	status := &driving.SyncStatus{
		SourceID: sourceID,
		Running:  true,
	}
	s.setStatus(sourceID, status)
	defer s.clearStatus(sourceID)

	logger.Info("Starting sync for source %s", sourceID)

	// Index current documents by URI so a changed file replaces its
	// stale version instead of accumulating next to it.
	uriIndex, err := s.indexByURI(ctx, sourceID)
	if err != nil {
		return err
	}

	docsCh, errsCh := connector.FullSync(ctx)
	if err := s.processDocuments(ctx, sourceID, docsCh, errsCh, status, uriIndex); err != nil {
		return err
	}

	logger.Info("Sync complete: %d documents, %d errors", status.DocumentsProcessed, status.ErrorCount)
	status.Running = false
	return nil
}

// SyncAll ingests all documents from every source.
func (s *SourceService) SyncAll(ctx context.Context) error {
	sources, err := s.sourceStore.List(ctx)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	var errs []error
	for _, source := range sources {
		if err := s.Sync(ctx, source.ID); err != nil {
			errs = append(errs, fmt.Errorf("sync %s: %w", source.ID, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Watch subscribes to a source's change feed, applying each event to
// the index as it arrives. It blocks until ctx is cancelled or the feed
// closes. Only connectors that report SupportsWatch can be watched.
func (s *SourceService) Watch(ctx context.Context, sourceID string) error {
	source, err := s.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}

	if s.factory == nil {
		return fmt.Errorf("create connector: connector factory not configured")
	}
	connector, err := s.factory.Create(ctx, *source)
	if err != nil {
		return fmt.Errorf("create connector: %w", err)
	}
	defer connector.Close()

	if !connector.Capabilities().SupportsWatch {
		return fmt.Errorf("%w: %s sources cannot be watched", domain.ErrNotImplemented, source.Type)
	}

	changes, err := connector.Watch(ctx)
	if err != nil {
		return fmt.Errorf("start watch: %w", err)
	}

	uriIndex, err := s.indexByURI(ctx, sourceID)
	if err != nil {
		return err
	}

	status := &driving.SyncStatus{SourceID: sourceID, Running: true}
	s.setStatus(sourceID, status)
	defer s.clearStatus(sourceID)

	logger.Info("Watching source %s", sourceID)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case change, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Debug("Watch event: %s %s", change.Type, change.Document.URI)
			s.applyChange(ctx, sourceID, change, status, uriIndex)
		}
	}
}

// applyChange routes one watch event through ingestion. Deletions
// retire the indexed document at that URI; creates and updates
// re-ingest it the same way a sync would.
func (s *SourceService) applyChange(
	ctx context.Context,
	sourceID string,
	change domain.RawDocumentChange,
	status *driving.SyncStatus,
	uriIndex map[string]string,
) {
	if change.Type == domain.ChangeDeleted {
		docID, ok := uriIndex[change.Document.URI]
		if !ok {
			return
		}
		if _, err := s.ingest.Remove(ctx, docID); err != nil {
			status.ErrorCount++
			logger.Debug("Failed to remove %s: %v", change.Document.URI, err)
			return
		}
		delete(uriIndex, change.Document.URI)
		status.DocumentsProcessed++
		return
	}

	raw := change.Document
	s.processOneDocument(ctx, sourceID, &raw, status, uriIndex)
}

// Status reports sync progress for a source.
func (s *SourceService) Status(_ context.Context, sourceID string) (*driving.SyncStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if status, ok := s.activeSyncs[sourceID]; ok {
		// Return a copy to avoid race conditions
		return &driving.SyncStatus{
			SourceID:           status.SourceID,
			Running:            status.Running,
			DocumentsProcessed: status.DocumentsProcessed,
			ErrorCount:         status.ErrorCount,
		}, nil
	}

	// Not running - return idle status
	return &driving.SyncStatus{
		SourceID: sourceID,
		Running:  false,
	}, nil
}

// processDocuments drains the connector's channel pair, feeding each raw
// document through the ingestion pipeline.
func (s *SourceService) processDocuments(
	ctx context.Context,
	sourceID string,
	docsCh <-chan domain.RawDocument,
	errsCh <-chan error,
	status *driving.SyncStatus,
	uriIndex map[string]string,
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			if err != nil {
				return fmt.Errorf("connector error: %w", err)
			}

		case rawDoc, ok := <-docsCh:
			if !ok {
				return nil // Done - channel closed
			}

			logger.Debug("Processing: %s", rawDoc.URI)
			s.processOneDocument(ctx, sourceID, &rawDoc, status, uriIndex)
		}
	}
}

// processOneDocument ingests a single raw document and retires any stale
// version previously ingested from the same URI.
func (s *SourceService) processOneDocument(
	ctx context.Context,
	sourceID string,
	raw *domain.RawDocument,
	status *driving.SyncStatus,
	uriIndex map[string]string,
) {
	raw.SourceID = sourceID

	doc, err := s.ingest.AddRaw(ctx, raw, driving.AddOptions{SourceID: sourceID})
	switch {
	case err == nil:
		if oldID, ok := uriIndex[raw.URI]; ok && oldID != doc.ID {
			if _, err := s.ingest.Remove(ctx, oldID); err != nil {
				logger.Debug("Failed to remove stale version of %s: %v", raw.URI, err)
			} else {
				logger.Debug("Replaced stale version of %s", raw.URI)
			}
		}
		uriIndex[raw.URI] = doc.ID
		status.DocumentsProcessed++

	case errors.Is(err, domain.ErrAlreadyExists):
		logger.Debug("Skipping %s: unchanged", raw.URI)

	case errors.Is(err, domain.ErrUnsupportedType), errors.Is(err, domain.ErrInvalidInput):
		logger.Debug("Skipping %s: %v", raw.URI, err)

	default:
		status.ErrorCount++
		logger.Debug("Failed to process %s: %v", raw.URI, err)
	}
}

// indexByURI maps this source's stored document URIs to document IDs.
func (s *SourceService) indexByURI(ctx context.Context, sourceID string) (map[string]string, error) {
	docs, err := s.ingest.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	index := make(map[string]string)
	for i := range docs {
		if docs[i].SourceID == sourceID {
			index[docs[i].URI] = docs[i].ID
		}
	}
	return index, nil
}

// setStatus sets the sync status for a source.
func (s *SourceService) setStatus(sourceID string, status *driving.SyncStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeSyncs[sourceID] = status
}

// clearStatus removes the sync status for a source.
func (s *SourceService) clearStatus(sourceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.activeSyncs, sourceID)
}
