package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

const connectorType = "filesystem"

// Connector ingests documents from a local directory tree. Hidden files
// and directories are always skipped; include and exclude globs narrow
// the selection further.
type Connector struct {
	sourceID string
	rootPath string
	include  []string
	exclude  []string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// Option configures a Connector.
type Option func(*Connector)

// WithIncludeGlobs limits the sync to files matching any of the given
// glob patterns. Patterns are matched against the path relative to the
// root and against the bare file name.
func WithIncludeGlobs(patterns []string) Option {
	return func(c *Connector) { c.include = patterns }
}

// WithExcludeGlobs skips files matching any of the given patterns.
// Exclusion wins over inclusion.
func WithExcludeGlobs(patterns []string) Option {
	return func(c *Connector) { c.exclude = patterns }
}

// New creates a filesystem connector rooted at the given path.
func New(sourceID, rootPath string, opts ...Option) *Connector {
	c := &Connector{
		sourceID: sourceID,
		rootPath: rootPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromSource builds a connector from a source configuration.
// Recognised config keys: "path" (required), "include" and "exclude"
// (comma-separated glob lists).
func FromSource(source domain.Source) (*Connector, error) {
	path := source.Config["path"]
	if path == "" {
		return nil, fmt.Errorf("%w: filesystem source requires a path", domain.ErrInvalidInput)
	}
	return New(source.ID, path,
		WithIncludeGlobs(splitGlobs(source.Config["include"])),
		WithExcludeGlobs(splitGlobs(source.Config["exclude"])),
	), nil
}

// Type returns the connector type identifier.
func (c *Connector) Type() string { return connectorType }

// SourceID returns the configured source ID.
func (c *Connector) SourceID() string { return c.sourceID }

// Capabilities returns what this connector supports.
func (c *Connector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{
		SupportsWatch:      true,
		SupportsValidation: true,
	}
}

// Validate checks that the root path exists and is a directory.
func (c *Connector) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.checkRoot()
}

// FullSync walks the directory tree and streams every matching file.
// Unreadable entries are skipped rather than aborting the stream.
func (c *Connector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docsCh := make(chan domain.RawDocument)
	errsCh := make(chan error, 1)

	go func() {
		defer close(errsCh)
		defer close(docsCh)

		if err := c.checkRoot(); err != nil {
			errsCh <- err
			return
		}

		walkErr := filepath.WalkDir(c.rootPath, func(path string, entry fs.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return filepath.SkipAll
			default:
			}
			if err != nil {
				// Unreadable subtree; skip it, don't abort the stream.
				if entry != nil && entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			rel, relErr := filepath.Rel(c.rootPath, path)
			if relErr != nil {
				return nil
			}

			if entry.IsDir() {
				if path != c.rootPath && isHidden(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if isHidden(rel) || !entry.Type().IsRegular() || !c.matches(rel) {
				return nil
			}

			doc, readErr := c.readDocument(path)
			if readErr != nil {
				// File vanished or became unreadable mid-walk.
				return nil
			}

			select {
			case docsCh <- *doc:
			case <-ctx.Done():
				return filepath.SkipAll
			}
			return nil
		})
		if walkErr != nil {
			errsCh <- fmt.Errorf("walk %s: %w", c.rootPath, walkErr)
		}
	}()

	return docsCh, errsCh
}

// Watch streams file change events under the root until the context is
// cancelled. fsnotify does not recurse, so every non-hidden directory
// joins the watch, including ones created while watching.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, domain.ErrConnectorClosed
	}
	c.mu.Unlock()

	if err := c.checkRoot(); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addWatchTree(watcher, c.rootPath); err != nil {
		watcher.Close() //nolint:errcheck
		return nil, fmt.Errorf("watch %s: %w", c.rootPath, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		watcher.Close() //nolint:errcheck
		return nil, domain.ErrConnectorClosed
	}
	c.watcher = watcher
	c.mu.Unlock()

	changesCh := make(chan domain.RawDocumentChange)

	go func() {
		defer close(changesCh)

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op.Has(fsnotify.Create) {
					if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
						rel, relErr := filepath.Rel(c.rootPath, event.Name)
						if relErr == nil && !isHidden(rel) {
							watcher.Add(event.Name) //nolint:errcheck
						}
						continue
					}
				}

				change := c.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changesCh <- *change:
				case <-ctx.Done():
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return changesCh, nil
}

// Close releases the watcher. Safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.watcher != nil {
		err := c.watcher.Close()
		c.watcher = nil
		return err
	}
	return nil
}

// handleFsEvent converts a filesystem event into a document change.
// Returns nil for events that should not trigger re-ingestion: hidden
// or excluded paths, directories, and attribute-only changes.
func (c *Connector) handleFsEvent(event fsnotify.Event) *domain.RawDocumentChange {
	rel, err := filepath.Rel(c.rootPath, event.Name)
	if err != nil {
		return nil
	}
	if isHidden(rel) || !c.matches(rel) {
		return nil
	}

	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		info, statErr := os.Stat(event.Name)
		if statErr != nil || info.IsDir() {
			return nil
		}
		doc, readErr := c.readDocument(event.Name)
		if readErr != nil {
			return nil
		}
		changeType := domain.ChangeUpdated
		if event.Op.Has(fsnotify.Create) {
			changeType = domain.ChangeCreated
		}
		return &domain.RawDocumentChange{Type: changeType, Document: *doc}

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		// Only the URI is known for a gone file.
		return &domain.RawDocumentChange{
			Type: domain.ChangeDeleted,
			Document: domain.RawDocument{
				SourceID: c.sourceID,
				URI:      event.Name,
			},
		}

	default:
		return nil
	}
}

// checkRoot verifies the root path exists and is a directory.
func (c *Connector) checkRoot() error {
	info, err := os.Stat(c.rootPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("path %s does not exist", c.rootPath)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", c.rootPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %s is not a directory", c.rootPath)
	}
	return nil
}

// readDocument reads a file into a raw document.
func (c *Connector) readDocument(path string) (*domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{
		"filename":  filepath.Base(path),
		"extension": strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
	}
	if info, statErr := os.Stat(path); statErr == nil {
		metadata["size"] = info.Size()
		metadata["modified"] = info.ModTime().UTC()
	}

	return &domain.RawDocument{
		SourceID: c.sourceID,
		URI:      path,
		MIMEType: detectMIMEType(path),
		Content:  content,
		Metadata: metadata,
	}, nil
}

// matches reports whether a relative path passes the include and
// exclude globs. Patterns are tried against both the full relative
// path and the bare file name, since filepath.Match does not cross
// path separators.
func (c *Connector) matches(rel string) bool {
	if matchesAny(c.exclude, rel) {
		return false
	}
	if len(c.include) == 0 {
		return true
	}
	return matchesAny(c.include, rel)
}

func matchesAny(patterns []string, rel string) bool {
	base := filepath.Base(rel)
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// addWatchTree registers the root and every non-hidden subdirectory.
func addWatchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if path != root && isHidden(rel) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// isHidden reports whether any path component is a dot-file. The
// special entries "." and ".." do not count.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// splitGlobs parses a comma-separated glob list.
func splitGlobs(raw string) []string {
	if raw == "" {
		return nil
	}
	var patterns []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			patterns = append(patterns, trimmed)
		}
	}
	return patterns
}

// extensionMIMETypes covers extensions the stdlib mime table misses,
// mostly source and config formats.
var extensionMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".go":       "text/x-go",
	".py":       "text/x-python",
	".rs":       "text/x-rust",
	".java":     "text/x-java",
	".c":        "text/x-c",
	".h":        "text/x-c",
	".cpp":      "text/x-c++",
	".rb":       "text/x-ruby",
	".ts":       "text/typescript",
	".tsx":      "text/typescript-jsx",
	".jsx":      "text/javascript-jsx",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
	".sh":       "text/x-shellscript",
	".bash":     "text/x-shellscript",
	".sql":      "text/x-sql",
	".txt":      "text/plain",
	".csv":      "text/csv",
}

// detectMIMEType resolves a file's MIME type from its extension.
// Files without an extension are assumed to be plain text.
func detectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "text/plain"
	}

	if mimeType, ok := extensionMIMETypes[ext]; ok {
		return mimeType
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		// Strip parameters like "; charset=utf-8".
		if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
			return parsed
		}
		return mimeType
	}

	return "application/octet-stream"
}
