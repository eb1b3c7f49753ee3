package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Google Workspace MIME types. Workspace files have no byte content of
// their own and must be exported; everything else downloads directly.
const (
	mimeGoogleDoc    = "application/vnd.google-apps.document"
	mimeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	mimeGoogleSlides = "application/vnd.google-apps.presentation"
	mimeFolder       = "application/vnd.google-apps.folder"
)

// exportFormats maps Workspace types to the format they export as.
// Docs and Slides flatten to plain text, Sheets to CSV.
var exportFormats = map[string]string{
	mimeGoogleDoc:    "text/plain",
	mimeGoogleSheet:  "text/csv",
	mimeGoogleSlides: "text/plain",
}

// maxFetchBytes caps downloaded and exported content at 5MB.
const maxFetchBytes = 5 << 20

// fileToRawDocument converts a Drive file to a RawDocument. Returns nil
// for folders. Files whose content cannot be fetched keep their
// metadata with empty content.
func fileToRawDocument(
	ctx context.Context, svc *drive.Service, file *drive.File, sourceID string,
) (*domain.RawDocument, error) {
	if file.MimeType == mimeFolder {
		return nil, nil
	}

	content, mimeType, err := fetchFileContent(ctx, svc, file)
	if err != nil {
		content = ""
	}

	return &domain.RawDocument{
		SourceID: sourceID,
		URI:      fmt.Sprintf("gdrive://files/%s", file.Id),
		MIMEType: mimeType,
		Content:  []byte(content),
		Metadata: map[string]any{
			"file_id":       file.Id,
			"title":         file.Name,
			"path":          buildFilePath(file),
			"size":          file.Size,
			"web_link":      file.WebViewLink,
			"modified_time": file.ModifiedTime,
		},
	}, nil
}

// fetchFileContent retrieves the text content of a file together with
// the MIME type that content actually has: the export format for
// Workspace files, the file's own type otherwise.
func fetchFileContent(ctx context.Context, svc *drive.Service, file *drive.File) (string, string, error) {
	if exportMime, ok := exportFormats[file.MimeType]; ok {
		resp, err := svc.Files.Export(file.Id, exportMime).Context(ctx).Download()
		if err != nil {
			return "", exportMime, fmt.Errorf("export file: %w", err)
		}
		content, err := readBody(resp)
		if err != nil {
			return "", exportMime, fmt.Errorf("read export: %w", err)
		}
		return content, exportMime, nil
	}

	// Binary or oversized files keep metadata only.
	if !isTextFile(file.MimeType) || file.Size > maxFetchBytes {
		return "", file.MimeType, nil
	}

	resp, err := svc.Files.Get(file.Id).Context(ctx).Download()
	if err != nil {
		return "", file.MimeType, fmt.Errorf("download file: %w", err)
	}
	content, err := readBody(resp)
	if err != nil {
		return "", file.MimeType, fmt.Errorf("read file content: %w", err)
	}
	return content, file.MimeType, nil
}

// readBody drains a Drive response, capped at maxFetchBytes.
func readBody(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// buildFilePath gives the file a path-like identity. Resolving parent
// names would cost an API call per ancestor, so the parent ID stands in.
func buildFilePath(file *drive.File) string {
	if len(file.Parents) == 0 {
		return "/" + file.Name
	}
	return fmt.Sprintf("/%s/%s", file.Parents[0], file.Name)
}

// textLikeTypes are non-text/* types still worth downloading as text.
var textLikeTypes = map[string]bool{
	"application/json":       true,
	"application/xml":        true,
	"application/javascript": true,
	"application/x-yaml":     true,
	"application/x-sh":       true,
	"application/sql":        true,
}

// isTextFile reports whether a MIME type is likely text content.
func isTextFile(mimeType string) bool {
	return strings.HasPrefix(mimeType, "text/") || textLikeTypes[mimeType]
}

// shouldSyncFile applies the source configuration to one listing entry.
func shouldSyncFile(file *drive.File, cfg *Config) bool {
	if file.MimeType == mimeFolder || file.Trashed {
		return false
	}
	if len(cfg.MimeTypeFilter) > 0 && !slices.Contains(cfg.MimeTypeFilter, file.MimeType) {
		return false
	}

	switch file.MimeType {
	case mimeGoogleDoc:
		return cfg.HasContentType(ContentDocs)
	case mimeGoogleSheet:
		return cfg.HasContentType(ContentSheets)
	default:
		return cfg.HasContentType(ContentFiles)
	}
}
