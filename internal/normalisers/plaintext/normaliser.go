// Package plaintext is the fallback normaliser: any text-like MIME
// type nothing more specific claims lands here.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser passes text content through unchanged, apart from page
// marker rewriting.
type Normaliser struct{}

// New creates a plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes lists everything the connectors report as text.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		// prose and structured data
		"text/plain", "text/csv", "text/yaml", "text/toml",
		"application/json", "application/xml",
		// source code
		"text/x-go", "text/x-python", "text/x-rust", "text/x-java",
		"text/x-c", "text/x-c++", "text/x-ruby", "text/x-shellscript",
		"text/x-sql",
		// web assets
		"text/javascript", "text/javascript-jsx",
		"text/typescript", "text/typescript-jsx", "text/css",
	}
}

// Priority places this normaliser below the format-specific ones, so
// they win whenever both claim a type.
func (n *Normaliser) Priority() int {
	return 5
}

// Normalise converts a raw document to a normalised document.
// Form-feed page breaks are rewritten as page markers so chunking can
// attribute page numbers.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	doc := domain.Document{
		SourceID: raw.SourceID,
		URI:      raw.URI,
		Name:     documentTitle(raw),
		MIMEType: raw.MIMEType,
		Content:  markPages(string(raw.Content)),
	}

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// markPages rewrites form-feed page breaks as page markers. Text without
// form feeds is returned unchanged, carrying no page attribution.
func markPages(content string) string {
	if !strings.ContainsRune(content, '\f') {
		return content
	}

	pages := strings.Split(content, "\f")
	var b strings.Builder
	for i, page := range pages {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(domain.PageMarker(i + 1))
		b.WriteString("\n")
		b.WriteString(page)
	}
	return b.String()
}

// documentTitle prefers the connector-supplied title over one derived
// from the URI. Google Drive sets Metadata["title"] to the real file
// name, which beats parsing a gdrive:// URI.
func documentTitle(raw *domain.RawDocument) string {
	if raw.Metadata != nil {
		if title, ok := raw.Metadata["title"].(string); ok && title != "" {
			return title
		}
	}
	return titleFromURI(raw.URI)
}

// titleFromURI turns the last path element into a readable title:
// extension stripped, underscores and dashes spaced out.
func titleFromURI(uri string) string {
	name := filepath.Base(uri)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ReplaceAll(name, "-", " ")
}
