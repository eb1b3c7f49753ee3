package mcp

import (
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ports bundles the driving ports the MCP server is built on. Ingest
// and Retrieval are required; Answer is optional because the ask tool
// degrades gracefully when no LLM is configured.
type Ports struct {
	// Ingest manages the document lifecycle.
	Ingest driving.IngestService

	// Retrieval answers search queries.
	Retrieval driving.RetrievalService

	// Answer generates grounded answers. When nil the ask tool reports
	// that no answer service is available.
	Answer driving.AnswerService
}

// Validate reports which required port is missing, if any.
func (p Ports) Validate() error {
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
