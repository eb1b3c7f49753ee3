// Package tui provides the interactive terminal interface for docqa.
// It drives the same retrieval and answer ports as the CLI commands.
package tui

import (
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI,
// wired in once at startup.
type Ports struct {
	// Retrieval provides similarity search over the index.
	Retrieval driving.RetrievalService

	// Answer provides LLM-backed question answering. Optional: with a
	// nil Answer, ask mode reports that no answer service is configured.
	Answer driving.AnswerService
}

// NewPorts bundles the services the TUI runs against.
func NewPorts(retrieval driving.RetrievalService, answer driving.AnswerService) *Ports {
	return &Ports{
		Retrieval: retrieval,
		Answer:    answer,
	}
}

// Validate checks that every required port is present. Answer may
// stay nil; ask mode then degrades gracefully.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
