package connectors

import (
	"sort"
	"strings"

	"github.com/custodia-labs/docqa/internal/connectors/filesystem"
	"github.com/custodia-labs/docqa/internal/connectors/github"
	"github.com/custodia-labs/docqa/internal/connectors/google/drive"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// RegisterDefaults registers the built-in connector types with a factory.
func RegisterDefaults(f *Factory) {
	f.Register("filesystem", func(source domain.Source) (driven.Connector, error) {
		c, err := filesystem.FromSource(source)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
	f.Register("github", github.FromSource)
	f.Register("googledrive", drive.FromSource)
}

// Catalog returns metadata for all built-in connector types, sorted by ID.
func Catalog() []domain.ConnectorType {
	types := []domain.ConnectorType{
		filesystemType(),
		githubType(),
		googleDriveType(),
	}
	sort.Slice(types, func(i, j int) bool { return types[i].ID < types[j].ID })
	return types
}

// CatalogType returns metadata for one connector type.
func CatalogType(id string) (*domain.ConnectorType, bool) {
	for _, ct := range Catalog() {
		if ct.ID == id {
			return &ct, true
		}
	}
	return nil, false
}

// ResolveLocation converts a stored document URI into something a user
// can open: a web URL for remote connectors, a plain path for local
// files. URIs with no matching connector come back unchanged.
func ResolveLocation(uri string, metadata map[string]any) string {
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	for _, ct := range Catalog() {
		if ct.URIScheme != scheme || ct.WebURLResolver == nil {
			continue
		}
		if resolved := ct.WebURLResolver(uri, metadata); resolved != "" {
			return resolved
		}
	}
	return uri
}

func filesystemType() domain.ConnectorType {
	return domain.ConnectorType{
		ID:          "filesystem",
		Name:        "Local Filesystem",
		Description: "Index files from a local directory",
		URIScheme:   "file",
		ConfigKeys: []domain.ConfigKey{
			{
				Key:         "path",
				Label:       "Directory Path",
				Description: "Path to the directory to index",
				Required:    true,
			},
			{
				Key:         "include",
				Label:       "Include Globs",
				Description: "Glob patterns to include (e.g., *.md,*.txt)",
			},
			{
				Key:         "exclude",
				Label:       "Exclude Globs",
				Description: "Glob patterns to exclude",
			},
		},
		WebURLResolver: filesystem.ResolveWebURL,
	}
}

func githubType() domain.ConnectorType {
	return domain.ConnectorType{
		ID:          "github",
		Name:        "GitHub",
		Description: "Index text files from a GitHub repository",
		URIScheme:   "github",
		ConfigKeys: []domain.ConfigKey{
			{
				Key:         "owner",
				Label:       "Repository Owner",
				Description: "User or organisation owning the repository",
				Required:    true,
			},
			{
				Key:         "repo",
				Label:       "Repository Name",
				Description: "Name of the repository to index",
				Required:    true,
			},
			{
				Key:         "branch",
				Label:       "Branch",
				Description: "Branch to index (default: the repository default)",
			},
			{
				Key:         "token",
				Label:       "Access Token",
				Description: "Personal access token ('repo' scope for private repositories)",
				Secret:      true,
			},
			{
				Key:         "file_patterns",
				Label:       "File Patterns",
				Description: "Glob patterns for files to include",
				Default:     "*",
			},
		},
		WebURLResolver: github.ResolveWebURL,
	}
}

func googleDriveType() domain.ConnectorType {
	return domain.ConnectorType{
		ID:          "googledrive",
		Name:        "Google Drive",
		Description: "Index documents from Google Drive",
		URIScheme:   "gdrive",
		ConfigKeys: []domain.ConfigKey{
			{
				Key:         "refresh_token",
				Label:       "Refresh Token",
				Description: "OAuth2 refresh token (preferred for long-lived sources)",
				Secret:      true,
			},
			{
				Key:         "access_token",
				Label:       "Access Token",
				Description: "OAuth2 access token (used when no refresh token is set)",
				Secret:      true,
			},
			{
				Key:         "client_id",
				Label:       "Client ID",
				Description: "OAuth2 client ID (required with a refresh token)",
			},
			{
				Key:         "client_secret",
				Label:       "Client Secret",
				Description: "OAuth2 client secret (required with a refresh token)",
				Secret:      true,
			},
			{
				Key:         "folder_ids",
				Label:       "Folder IDs",
				Description: "Specific folder IDs to sync (optional)",
			},
			{
				Key:         "content_types",
				Label:       "Content Types",
				Description: "Content to sync: files,docs,sheets",
				Default:     "files,docs,sheets",
			},
			{
				Key:         "mime_types",
				Label:       "MIME Types",
				Description: "Filter by MIME types (optional)",
			},
		},
		WebURLResolver: drive.ResolveWebURL,
	}
}
