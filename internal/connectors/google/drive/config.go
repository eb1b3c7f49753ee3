package drive

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/docqa/internal/connectors/google"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ContentType names a category of Drive content the connector can sync.
type ContentType string

const (
	// ContentFiles covers ordinary uploaded files.
	ContentFiles ContentType = "files"
	// ContentDocs covers Google Docs, exported as plain text.
	ContentDocs ContentType = "docs"
	// ContentSheets covers Google Sheets, exported as CSV.
	ContentSheets ContentType = "sheets"
)

// DefaultContentTypes enables every category; sources narrow this via
// the content_types key.
var DefaultContentTypes = []ContentType{ContentFiles, ContentDocs, ContentSheets}

// defaultPageSize is the Drive API page size when a source sets none.
const defaultPageSize int64 = 100

// Config holds Google Drive connector configuration.
type Config struct {
	// Credentials is the OAuth2 material for Drive API access.
	Credentials google.Credentials
	// ContentTypes lists the categories to sync.
	ContentTypes []ContentType
	// MimeTypeFilter, when set, restricts syncing to these MIME types.
	MimeTypeFilter []string
	// FolderIDs, when set, restricts syncing to these folders.
	FolderIDs []string
	// MaxResults is the page size for Drive list requests.
	MaxResults int64
}

// DefaultConfig returns a configuration that syncs everything.
func DefaultConfig() *Config {
	return &Config{
		ContentTypes: DefaultContentTypes,
		MaxResults:   defaultPageSize,
	}
}

// ParseConfig reads connector configuration out of a source definition.
// Credentials must include a refresh token or an access token; the
// remaining keys are optional and fall back to defaults.
func ParseConfig(source domain.Source) (*Config, error) {
	cfg := DefaultConfig()

	cfg.Credentials = google.Credentials{
		ClientID:     strings.TrimSpace(source.Config["client_id"]),
		ClientSecret: strings.TrimSpace(source.Config["client_secret"]),
		RefreshToken: strings.TrimSpace(source.Config["refresh_token"]),
		AccessToken:  strings.TrimSpace(source.Config["access_token"]),
	}
	if cfg.Credentials.RefreshToken == "" && cfg.Credentials.AccessToken == "" {
		return nil, fmt.Errorf(
			"%w: googledrive source requires a refresh_token or access_token", domain.ErrInvalidInput,
		)
	}

	if val := source.Config["content_types"]; val != "" {
		cfg.ContentTypes = parseContentTypes(val)
	}
	if val := source.Config["mime_types"]; val != "" {
		cfg.MimeTypeFilter = splitTrimmed(val)
	}
	if val := source.Config["folder_ids"]; val != "" {
		cfg.FolderIDs = splitTrimmed(val)
	}
	if val := source.Config["max_results"]; val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil && n > 0 {
			cfg.MaxResults = n
		}
	}

	return cfg, nil
}

// HasContentType reports whether a category is enabled.
func (c *Config) HasContentType(ct ContentType) bool {
	return slices.Contains(c.ContentTypes, ct)
}

// parseContentTypes filters a comma-separated list down to the
// categories the connector recognises.
func parseContentTypes(val string) []ContentType {
	parts := splitTrimmed(val)
	types := make([]ContentType, 0, len(parts))
	for _, p := range parts {
		if ct := ContentType(p); slices.Contains(DefaultContentTypes, ct) {
			types = append(types, ct)
		}
	}
	return types
}

// splitTrimmed splits a comma-separated value, trimming whitespace and
// dropping empty entries.
func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
