package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// AskOptions configures a single ask invocation.
type AskOptions struct {
	// TopK is the number of contexts to retrieve. Zero uses the
	// configured default.
	TopK int

	// DocumentIDs restricts retrieval to the named documents.
	DocumentIDs []string

	// WithHistory includes recent conversation exchanges in the prompt.
	WithHistory bool
}

// AnswerService answers questions grounded on retrieved document chunks.
type AnswerService interface {
	// Ask retrieves contexts for the question and, when an LLM is
	// configured, generates an answer from them. Without an LLM the
	// returned Answer carries sources only.
	Ask(ctx context.Context, question string, opts AskOptions) (*domain.Answer, error)

	// History returns the retained conversation exchanges, oldest first.
	History() []domain.Exchange

	// ClearHistory discards the conversation.
	ClearHistory()
}
