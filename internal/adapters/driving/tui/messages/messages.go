// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Mode identifies how submitted queries are executed.
type Mode int

const (
	// ModeSearch runs the query as a similarity search.
	ModeSearch Mode = iota
	// ModeAsk sends the query through the answer service.
	ModeAsk
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeAsk:
		return "ask"
	default:
		return "unknown"
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeSearch {
		return ModeAsk
	}
	return ModeSearch
}

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Results []domain.SearchResult
	Err     error
}

// AnswerCompleted carries a generated answer back to the model.
type AnswerCompleted struct {
	Answer *domain.Answer
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
