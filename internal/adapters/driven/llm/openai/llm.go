// Package openai adapts the OpenAI chat API to the LLMService port.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	// DefaultLLMModel balances answer quality against token cost.
	DefaultLLMModel = "gpt-4o-mini"

	// DefaultLLMTimeout bounds a single chat request.
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig configures the OpenAI LLM adapter. APIKey is required;
// everything else has a sensible default.
type LLMConfig struct {
	APIKey  string
	BaseURL string // any OpenAI-compatible endpoint; empty means the public API
	Model   string
	Timeout time.Duration
}

// LLMService answers questions through the chat completions API.
type LLMService struct {
	cfg    LLMConfig
	client *openai.Client
}

// NewLLMService builds an OpenAI-backed LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &LLMService{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}, nil
}

// Chat sends the conversation and returns the first choice's text.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	turns := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		turns[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	req := openai.ChatCompletionRequest{
		Model:    s.cfg.Model,
		Messages: turns,
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		req.Temperature = float32(opts.Temperature)
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.cfg.Model
}

// Ping lists models, which exercises the API key without inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai: ping: %w", err)
	}
	return nil
}

// Close is a no-op; the underlying HTTP client needs no teardown.
func (s *LLMService) Close() error {
	return nil
}
