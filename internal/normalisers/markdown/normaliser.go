// Package markdown provides a normaliser for Markdown documents built on
// goldmark. The AST walk keeps the visible text (headings, paragraphs,
// list items, code) and drops formatting syntax.
package markdown

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct {
	md goldmark.Markdown
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{
		md: goldmark.New(),
	}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific, higher than plaintext
}

// Normalise converts a markdown document to a normalised document.
// The Content field contains the visible text with markdown syntax
// removed; the first H1 heading becomes the document name.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	source := raw.Content
	root := n.md.Parser().Parse(gtext.NewReader(source))

	doc := domain.Document{
		SourceID: raw.SourceID,
		URI:      raw.URI,
		Name:     extractTitle(source, root, raw),
		MIMEType: raw.MIMEType,
		Content:  extractText(source, root),
	}

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// extractTitle prefers the first H1 heading, then connector-supplied
// metadata, then the file name.
func extractTitle(source []byte, root ast.Node, raw *domain.RawDocument) string {
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*ast.Heading); ok && heading.Level == 1 {
			if title := strings.TrimSpace(string(heading.Text(source))); title != "" {
				return title
			}
		}
	}

	if raw.Metadata != nil {
		if title, ok := raw.Metadata["title"].(string); ok && title != "" {
			return title
		}
	}

	filename := filepath.Base(raw.URI)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// extractText collects the visible text of each top-level block,
// separated by blank lines so paragraph structure survives.
func extractText(source []byte, root ast.Node) string {
	var blocks []string
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		if block := blockText(source, node); block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// blockText renders a single block node as plain text.
func blockText(source []byte, node ast.Node) string {
	switch n := node.(type) {
	case *ast.Heading:
		return strings.TrimSpace(string(n.Text(source)))

	case *ast.FencedCodeBlock:
		return codeText(source, n.Lines())

	case *ast.CodeBlock:
		return codeText(source, n.Lines())

	case *ast.Blockquote:
		return childText(source, n)

	case *ast.List:
		var items []string
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			if text := childText(source, item); text != "" {
				items = append(items, text)
			}
		}
		return strings.Join(items, "\n")

	case *ast.ThematicBreak, *ast.HTMLBlock:
		return ""

	default:
		return strings.TrimSpace(string(node.Text(source)))
	}
}

// childText renders a container's child blocks, one per line. List items
// and blockquotes nest, so this recurses through blockText.
func childText(source []byte, container ast.Node) string {
	var parts []string
	for child := container.FirstChild(); child != nil; child = child.NextSibling() {
		if text := blockText(source, child); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// codeText joins a code block's raw lines.
func codeText(source []byte, lines *gtext.Segments) string {
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(source))
	}
	return strings.TrimRight(b.String(), "\n")
}
