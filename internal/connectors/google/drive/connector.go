package drive

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/docqa/internal/connectors/google"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

const connectorType = "googledrive"

// listFields selects the file attributes needed to build documents.
const listFields = "nextPageToken, files(id, name, mimeType, size, trashed, parents, webViewLink, modifiedTime)"

var _ driven.Connector = (*Connector)(nil)

// Connector ingests files from Google Drive.
type Connector struct {
	sourceID string
	config   *Config
	limiter  *google.RateLimiter

	mu     sync.Mutex
	svc    *drive.Service
	closed bool
}

// New creates a Google Drive connector.
func New(sourceID string, cfg *Config) *Connector {
	return &Connector{
		sourceID: sourceID,
		config:   cfg,
		limiter:  google.NewRateLimiter(google.DriveRateLimit),
	}
}

// FromSource builds a connector from a source's configuration.
func FromSource(source domain.Source) (driven.Connector, error) {
	cfg, err := ParseConfig(source)
	if err != nil {
		return nil, err
	}
	return New(source.ID, cfg), nil
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return connectorType
}

// SourceID returns the configured source ID.
func (c *Connector) SourceID() string {
	return c.sourceID
}

// Capabilities returns what the Drive connector supports.
func (c *Connector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{
		SupportsWatch:        false, // Changes API needs polling, not wired up
		SupportsValidation:   true,
		RequiresAuth:         true,
		SupportsRateLimiting: true,
	}
}

// service lazily builds the Drive API client.
func (c *Connector) service(ctx context.Context) (*drive.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, domain.ErrConnectorClosed
	}
	if c.svc != nil {
		return c.svc, nil
	}

	ts, err := google.NewTokenSource(ctx, c.config.Credentials)
	if err != nil {
		return nil, err
	}
	svc, err := google.NewDriveService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	c.svc = svc
	return svc, nil
}

// Validate checks Drive API access with the configured credentials.
func (c *Connector) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	svc, err := c.service(ctx)
	if err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if _, err := svc.About.Get().Fields("user").Context(ctx).Do(); err != nil {
		return fmt.Errorf("drive access: %w", google.WrapError(err))
	}
	return nil
}

// FullSync fetches all matching files from Drive.
func (c *Connector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docsCh := make(chan domain.RawDocument)
	errsCh := make(chan error, 1)

	go func() {
		defer close(errsCh)
		defer close(docsCh)

		if err := c.syncFiles(ctx, docsCh); err != nil {
			errsCh <- err
		}
	}()

	return docsCh, errsCh
}

// syncFiles pages through the file listing and streams matching documents.
func (c *Connector) syncFiles(ctx context.Context, docsCh chan<- domain.RawDocument) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}

	pageToken := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		list, err := c.listPage(ctx, svc, pageToken)
		if err != nil {
			if google.IsRateLimited(err) {
				return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
			}
			return fmt.Errorf("list files: %w", err)
		}

		for _, file := range list.Files {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !shouldSyncFile(file, c.config) {
				continue
			}

			if err := c.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limit wait: %w", err)
			}

			doc, err := fileToRawDocument(ctx, svc, file, c.sourceID)
			if err != nil || doc == nil {
				// Unreadable file; skip it, don't abort the stream.
				continue
			}

			select {
			case docsCh <- *doc:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if list.NextPageToken == "" {
			return nil
		}
		pageToken = list.NextPageToken
	}
}

// listPage fetches one listing page, backing off once on rate limits.
func (c *Connector) listPage(ctx context.Context, svc *drive.Service, pageToken string) (*drive.FileList, error) {
	list, err := c.doList(ctx, svc, pageToken)
	if err == nil || !google.IsRateLimited(err) {
		return list, err
	}

	c.limiter.RecordRateLimitError(0)
	return c.doList(ctx, svc, pageToken)
}

func (c *Connector) doList(ctx context.Context, svc *drive.Service, pageToken string) (*drive.FileList, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	call := svc.Files.List().
		Context(ctx).
		PageSize(c.config.MaxResults).
		Fields(listFields).
		Q(c.listQuery())
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	list, err := call.Do()
	if err != nil {
		return nil, google.WrapError(err)
	}
	return list, nil
}

// listQuery builds the Drive search query. Folder scoping uses the
// parents collection; trashed files are excluded server-side.
func (c *Connector) listQuery() string {
	q := "trashed = false"
	if len(c.config.FolderIDs) == 0 {
		return q
	}

	clauses := make([]string, 0, len(c.config.FolderIDs))
	for _, id := range c.config.FolderIDs {
		clauses = append(clauses, fmt.Sprintf("'%s' in parents", id))
	}
	return q + " and (" + strings.Join(clauses, " or ") + ")"
}

// Watch is not supported for Google Drive.
func (c *Connector) Watch(_ context.Context) (<-chan domain.RawDocumentChange, error) {
	return nil, domain.ErrNotImplemented
}

// Close releases resources.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
