// Package mcp provides an MCP (Model Context Protocol) server adapter
// for docqa. It lets AI assistants like Claude search the local index,
// ask questions against it, and manage indexed documents.
package mcp

import "errors"

// ErrMissingIngestService is returned when the ingest service is not provided.
var ErrMissingIngestService = errors.New("mcp: ingest service is required")

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
