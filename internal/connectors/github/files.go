package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// maxFileSize is the largest blob fetched, matching the GitHub blob API cap.
const maxFileSize = 1024 * 1024

// indexableEntry reports whether a tree entry should be ingested: a blob
// matching the configured patterns, non-binary, and within the size cap.
func indexableEntry(entry *gh.TreeEntry, patterns []string) bool {
	if entry.GetType() != "blob" {
		return false
	}

	path := entry.GetPath()
	if !matchesPatterns(path, patterns) {
		return false
	}
	if isBinaryExtension(path) {
		return false
	}
	return entry.GetSize() <= maxFileSize
}

// fetchBlobContent fetches the content of a blob and decodes it.
func fetchBlobContent(ctx context.Context, client *Client, owner, repo, sha string) ([]byte, error) {
	blob, err := client.GetBlob(ctx, owner, repo, sha)
	if err != nil {
		return nil, err
	}

	content := blob.GetContent()
	if blob.GetEncoding() != "base64" {
		return []byte(content), nil
	}
	// The API wraps base64 content with newlines.
	return base64.StdEncoding.DecodeString(strings.ReplaceAll(content, "\n", ""))
}

// newFileDocument converts a fetched blob into a raw document.
func newFileDocument(
	sourceID, owner, repo, branch string, entry *gh.TreeEntry, content []byte,
) domain.RawDocument {
	path := entry.GetPath()
	htmlURL := fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", owner, repo, branch, path)
	return domain.RawDocument{
		SourceID: sourceID,
		URI:      buildFileURI(owner, repo, branch, path),
		MIMEType: detectFileMIMEType(path),
		Content:  content,
		Metadata: map[string]any{
			"type":     "file",
			"owner":    owner,
			"repo":     repo,
			"branch":   branch,
			"path":     path,
			"sha":      entry.GetSHA(),
			"size":     entry.GetSize(),
			"html_url": htmlURL,
		},
	}
}

// buildFileURI creates a URI for a repository file.
func buildFileURI(owner, repo, branch, path string) string {
	return fmt.Sprintf("github://%s/%s/blob/%s/%s", owner, repo, branch, path)
}

// detectFileMIMEType maps a file extension to a MIME type. Source file
// extensions get explicit mappings because Go's registry guesses badly
// for some of them (.ts comes back as video/mp2t).
func detectFileMIMEType(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return "text/plain"
	}

	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".go":
		return "text/x-go"
	case ".py":
		return "text/x-python"
	case ".rs":
		return "text/x-rust"
	case ".ts":
		return "text/typescript"
	case ".tsx":
		return "text/typescript-jsx"
	case ".jsx":
		return "text/javascript-jsx"
	case ".yaml", ".yml":
		return "text/yaml"
	case ".toml":
		return "text/toml"
	case ".sh", ".bash":
		return "text/x-shellscript"
	case ".sql":
		return "text/x-sql"
	case ".rb":
		return "text/x-ruby"
	case ".java":
		return "text/x-java"
	case ".kt", ".kts":
		return "text/x-kotlin"
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		// Strip charset and other parameters.
		if idx := strings.Index(mimeType, ";"); idx != -1 {
			mimeType = strings.TrimSpace(mimeType[:idx])
		}
		return mimeType
	}
	return "text/plain"
}

// matchesPatterns reports whether the path matches any of the globs.
// Each pattern is tried against the bare file name and then the full
// path; an empty pattern list matches everything.
func matchesPatterns(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	base := filepath.Base(path)
	for _, pattern := range patterns {
		for _, candidate := range []string{base, path} {
			if ok, err := filepath.Match(pattern, candidate); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// binaryExtensions lists extensions that are never worth indexing.
var binaryExtensions = map[string]bool{
	// executables and compiled artifacts
	".exe": true, ".dll": true, ".so": true, ".dylib": true,
	".o": true, ".a": true, ".class": true, ".pyc": true, ".pyo": true,
	// archives
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".7z": true,
	// images, audio, video
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".webp": true, ".mp3": true, ".mp4": true, ".avi": true, ".mov": true,
	// office documents
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	// fonts
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	// opaque data
	".bin": true, ".dat": true, ".db": true, ".sqlite": true,
}

// isBinaryExtension checks if a file extension indicates a binary file.
func isBinaryExtension(path string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(path))]
}
