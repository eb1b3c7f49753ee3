package github

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

const connectorType = "github"

var _ driven.Connector = (*Connector)(nil)

// Connector ingests files from a single GitHub repository.
type Connector struct {
	sourceID string
	config   *Config
	client   *Client

	mu     sync.Mutex
	closed bool
}

// New creates a GitHub connector for a repository.
func New(sourceID string, cfg *Config, client *Client) *Connector {
	return &Connector{
		sourceID: sourceID,
		config:   cfg,
		client:   client,
	}
}

// FromSource builds a connector from a source's configuration.
func FromSource(source domain.Source) (driven.Connector, error) {
	cfg, err := ParseConfig(source)
	if err != nil {
		return nil, err
	}
	return New(source.ID, cfg, NewClient(cfg.Token)), nil
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return connectorType
}

// SourceID returns the configured source ID.
func (c *Connector) SourceID() string {
	return c.sourceID
}

// Capabilities returns what the GitHub connector supports.
func (c *Connector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{
		SupportsWatch:        false, // No webhooks in CLI
		SupportsValidation:   true,
		RequiresAuth:         true,
		SupportsRateLimiting: true,
	}
}

// Validate checks the configured repository is reachable.
func (c *Connector) Validate(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrConnectorClosed
	}
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.client.GetRepository(ctx, c.config.Owner, c.config.Repo); err != nil {
		return fmt.Errorf("repository %s/%s: %w", c.config.Owner, c.config.Repo, err)
	}
	return nil
}

// FullSync fetches all indexable files from the repository.
func (c *Connector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docsCh := make(chan domain.RawDocument)
	errsCh := make(chan error, 1)

	go func() {
		defer close(errsCh)
		defer close(docsCh)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			errsCh <- domain.ErrConnectorClosed
			return
		}
		c.mu.Unlock()

		if err := c.syncFiles(ctx, docsCh); err != nil {
			errsCh <- err
		}
	}()

	return docsCh, errsCh
}

// syncFiles walks the repository tree and streams matching blobs.
func (c *Connector) syncFiles(ctx context.Context, docsCh chan<- domain.RawDocument) error {
	owner, name := c.config.Owner, c.config.Repo

	repo, err := c.client.GetRepository(ctx, owner, name)
	if err != nil {
		return fmt.Errorf("get repository %s/%s: %w", owner, name, err)
	}

	branch := c.config.Branch
	if branch == "" {
		branch = repo.GetDefaultBranch()
	}

	tree, err := c.client.GetTree(ctx, owner, name, branch)
	if err != nil {
		return fmt.Errorf("get tree %s/%s@%s: %w", owner, name, branch, err)
	}

	for _, entry := range tree.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !indexableEntry(entry, c.config.FilePatterns) {
			continue
		}

		content, err := c.fetchWithRetry(ctx, owner, name, entry.GetSHA())
		if err != nil {
			if IsRateLimited(err) {
				return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
			}
			// Unreadable blob; skip it, don't abort the stream.
			continue
		}

		doc := newFileDocument(c.sourceID, owner, name, branch, entry, content)
		select {
		case docsCh <- doc:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// fetchWithRetry fetches a blob, waiting out one rate limit window if needed.
func (c *Connector) fetchWithRetry(ctx context.Context, owner, repo, sha string) ([]byte, error) {
	content, err := fetchBlobContent(ctx, c.client, owner, repo, sha)
	if !IsRateLimited(err) {
		return content, err
	}

	if waitErr := c.client.RateLimiter().WaitForReset(ctx); waitErr != nil {
		return nil, waitErr
	}
	return fetchBlobContent(ctx, c.client, owner, repo, sha)
}

// Watch is not supported for GitHub (no webhooks in CLI).
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
