package driven

import "context"

// LLMService turns retrieved passages into conversational answers.
// The service is optional: when no provider is configured the ask flow
// degrades to retrieval-only output.
//
// Providers: Ollama (local), OpenAI, and Gemini.
type LLMService interface {
	// Chat sends a conversation and returns the assistant's reply.
	// Messages arrive oldest-first; a leading "system" message carries
	// the answering instructions.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName identifies the active model, for answer attribution.
	ModelName() string

	// Ping cheaply verifies the provider is reachable and the
	// credentials work, without running inference.
	Ping(ctx context.Context) error

	// Close releases provider resources.
	Close() error
}

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	// Role is "system", "user", or "assistant".
	Role string

	// Content is the text of the turn.
	Content string
}

// ChatOptions tunes a chat request. Zero values keep the provider
// defaults.
type ChatOptions struct {
	// MaxTokens caps the reply length.
	MaxTokens int

	// Temperature controls sampling randomness; 0 is deterministic.
	Temperature float64
}
