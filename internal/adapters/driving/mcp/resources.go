package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriScheme          = "docqa://"
	documentsURI       = uriScheme + "documents"
	documentsURIPrefix = documentsURI + "/"
)

// registerResources exposes the index as MCP resources: a JSON listing
// of every document, and each document's full text behind a URI template.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         documentsURI,
		Name:        "documents",
		Description: "List of all indexed documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: documentsURIPrefix + "{documentId}",
		Name:        "document",
		Description: "Full text of a single indexed document",
		MIMEType:    "text/plain",
	}, s.handleDocumentResource)
}

// handleDocumentsResource serves the document list as JSON.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Ingest.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	entries := make([]DocumentOutput, len(docs))
	for i := range docs {
		entries[i] = documentOutput(docs[i])
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding document list: %w", err)
	}

	return resourceContents(req.Params.URI, "application/json", string(data)), nil
}

// handleDocumentResource serves the full text of one document.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID, err := extractDocumentID(req.Params.URI)
	if err != nil {
		return nil, err
	}

	content, found, err := s.ports.Ingest.Content(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", docID, err)
	}
	if !found {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return resourceContents(req.Params.URI, "text/plain", content), nil
}

// resourceContents wraps text in the single-content result the SDK expects.
func resourceContents(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeType,
			Text:     text,
		}},
	}
}

// extractDocumentID pulls the document ID out of a document resource URI.
func extractDocumentID(uri string) (string, error) {
	id, ok := strings.CutPrefix(uri, documentsURIPrefix)
	if !ok || id == "" {
		return "", fmt.Errorf("invalid document resource URI: %s", uri)
	}
	return id, nil
}
