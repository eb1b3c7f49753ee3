package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query       string   `json:"query" jsonschema:"the search query to match against indexed chunks"`
	TopK        int      `json:"top_k,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	DocumentIDs []string `json:"document_ids,omitempty" jsonschema:"restrict the search to these document IDs"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID   string  `json:"document_id"`
	DocumentName string  `json:"document_name"`
	ChunkID      int     `json:"chunk_id"`
	Page         int     `json:"page,omitempty"`
	Score        float64 `json:"score"`
	Text         string  `json:"text"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question    string   `json:"question" jsonschema:"the question to answer from the indexed documents"`
	TopK        int      `json:"top_k,omitempty" jsonschema:"number of context chunks to retrieve (default 5)"`
	DocumentIDs []string `json:"document_ids,omitempty" jsonschema:"restrict retrieval to these document IDs"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	// Answer is empty when no LLM is configured; Sources still carry
	// the most relevant passages.
	Answer  string               `json:"answer,omitempty"`
	Model   string               `json:"model,omitempty"`
	Sources []SearchResultOutput `json:"sources"`
}

// AddDocumentInput is the input schema for the add_document tool.
// Either path or content must be set.
type AddDocumentInput struct {
	Path    string `json:"path,omitempty" jsonschema:"path of a file on this machine to index"`
	Name    string `json:"name,omitempty" jsonschema:"display name for inline content, required when content is set"`
	Content string `json:"content,omitempty" jsonschema:"inline document text to index instead of a file"`
	Force   bool   `json:"force,omitempty" jsonschema:"replace the stored copy when identical content is already indexed"`
}

// AddDocumentOutput is the output schema for the add_document tool.
type AddDocumentOutput struct {
	DocumentID string `json:"document_id"`
	Name       string `json:"name"`
	ChunkCount int    `json:"chunk_count"`
	WordCount  int    `json:"word_count"`
}

// RemoveDocumentInput is the input schema for the remove_document tool.
type RemoveDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"ID of the document to remove"`
}

// RemoveDocumentOutput is the output schema for the remove_document tool.
type RemoveDocumentOutput struct {
	// Removed is false when no document with the given ID exists.
	Removed bool `json:"removed"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents a single indexed document.
type DocumentOutput struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URI        string    `json:"uri,omitempty"`
	MIMEType   string    `json:"mime_type,omitempty"`
	ChunkCount int       `json:"chunk_count"`
	WordCount  int       `json:"word_count"`
	AddedAt    time.Time `json:"added_at"`
}

// documentOutput converts an indexed document to its wire form, shared
// by the list_documents tool and the documents resource.
func documentOutput(doc domain.Document) DocumentOutput {
	return DocumentOutput{
		ID:         doc.ID,
		Name:       doc.Name,
		URI:        doc.URI,
		MIMEType:   doc.MIMEType,
		ChunkCount: doc.ChunkCount,
		WordCount:  doc.WordCount,
		AddedAt:    doc.AddedAt,
	}
}

// GetStatsInput is the input schema for the get_stats tool.
type GetStatsInput struct{}

// GetStatsOutput is the output schema for the get_stats tool.
type GetStatsOutput struct {
	DocumentCount      int   `json:"document_count"`
	TotalChunks        int   `json:"total_chunks"`
	TotalWords         int   `json:"total_words"`
	TotalSizeBytes     int64 `json:"total_size_bytes"`
	EmbeddingDimension int   `json:"embedding_dimension,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the indexed documents by semantic similarity",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question answered from the indexed documents",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_document",
		Description: "Index a document from a file path or inline content",
	}, s.handleAddDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_document",
		Description: "Remove a document from the index",
	}, s.handleRemoveDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List all indexed documents",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_stats",
		Description: "Get statistics about the document index",
	}, s.handleGetStats)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.Retrieval.Retrieve(ctx, input.Query, input.TopK, input.DocumentIDs)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{
		Results: toResultOutputs(results),
		Count:   len(results),
	}, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.Answer == nil {
		return nil, AskOutput{}, errors.New("mcp: answer service not available")
	}

	opts := driving.AskOptions{
		TopK:        input.TopK,
		DocumentIDs: input.DocumentIDs,
	}
	answer, err := s.ports.Answer.Ask(ctx, input.Question, opts)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:  answer.Text,
		Model:   answer.Model,
		Sources: toResultOutputs(answer.Sources),
	}, nil
}

// handleAddDocument handles the add_document tool invocation.
func (s *Server) handleAddDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddDocumentInput,
) (*mcp.CallToolResult, AddDocumentOutput, error) {
	opts := driving.AddOptions{Force: input.Force}

	var doc *domain.Document
	var err error
	switch {
	case input.Path != "" && input.Content != "":
		return nil, AddDocumentOutput{}, errors.New("mcp: set either path or content, not both")
	case input.Path != "":
		doc, err = s.ports.Ingest.AddPath(ctx, input.Path, opts)
	case input.Content != "":
		if input.Name == "" {
			return nil, AddDocumentOutput{}, errors.New("mcp: name is required with inline content")
		}
		raw := &domain.RawDocument{
			URI:      "mcp://" + input.Name,
			MIMEType: inlineMIMEType(input.Name),
			Content:  []byte(input.Content),
		}
		doc, err = s.ports.Ingest.AddRaw(ctx, raw, opts)
	default:
		return nil, AddDocumentOutput{}, errors.New("mcp: path or content is required")
	}
	if err != nil {
		return nil, AddDocumentOutput{}, err
	}

	return nil, AddDocumentOutput{
		DocumentID: doc.ID,
		Name:       doc.Name,
		ChunkCount: doc.ChunkCount,
		WordCount:  doc.WordCount,
	}, nil
}

// handleRemoveDocument handles the remove_document tool invocation.
func (s *Server) handleRemoveDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RemoveDocumentInput,
) (*mcp.CallToolResult, RemoveDocumentOutput, error) {
	removed, err := s.ports.Ingest.Remove(ctx, input.DocumentID)
	if err != nil {
		return nil, RemoveDocumentOutput{}, err
	}
	return nil, RemoveDocumentOutput{Removed: removed}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Ingest.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = documentOutput(docs[i])
	}
	return nil, output, nil
}

// handleGetStats handles the get_stats tool invocation.
func (s *Server) handleGetStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GetStatsInput,
) (*mcp.CallToolResult, GetStatsOutput, error) {
	stats, err := s.ports.Ingest.Stats(ctx)
	if err != nil {
		return nil, GetStatsOutput{}, err
	}

	return nil, GetStatsOutput{
		DocumentCount:      stats.DocumentCount,
		TotalChunks:        stats.TotalChunks,
		TotalWords:         stats.TotalWords,
		TotalSizeBytes:     stats.TotalSizeBytes,
		EmbeddingDimension: stats.EmbeddingDimension,
	}, nil
}

// toResultOutputs converts domain results to the wire representation.
func toResultOutputs(results []domain.SearchResult) []SearchResultOutput {
	outputs := make([]SearchResultOutput, len(results))
	for i := range results {
		outputs[i] = SearchResultOutput{
			DocumentID:   results[i].DocumentID,
			DocumentName: results[i].DocumentName,
			ChunkID:      results[i].ChunkID,
			Page:         results[i].PageNumber,
			Score:        results[i].Score,
			Text:         results[i].ChunkText,
		}
	}
	return outputs
}

// inlineMIMEType guesses the MIME type of inline content from its name.
func inlineMIMEType(name string) string {
	if strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown") {
		return "text/markdown"
	}
	return "text/plain"
}
