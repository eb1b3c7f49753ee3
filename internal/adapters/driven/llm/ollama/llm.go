// Package ollama adapts a local Ollama server to the LLMService port.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	// DefaultBaseURL is where a stock Ollama install listens.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultLLMModel is used when no model is configured.
	DefaultLLMModel = "llama3.2"

	// DefaultLLMTimeout bounds a single chat request. Local inference
	// on modest hardware can be slow, so this is generous.
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig configures the Ollama LLM adapter. Zero values fall back
// to the defaults above.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

func (c LLMConfig) withDefaults() LLMConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultLLMModel
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultLLMTimeout
	}
	return c
}

// LLMService talks to Ollama's /api/chat endpoint with streaming
// disabled, so each call returns one complete reply.
type LLMService struct {
	cfg    LLMConfig
	client *http.Client
}

// NewLLMService builds an Ollama-backed LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
	cfg = cfg.withDefaults()
	return &LLMService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatPayload struct {
	Model    string        `json:"model"`
	Messages []chatTurn    `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *modelOptions `json:"options,omitempty"`
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type modelOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type chatReply struct {
	Message chatTurn `json:"message"`
	Done    bool     `json:"done"`
}

// Chat sends the conversation to Ollama and returns the reply text.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	turns := make([]chatTurn, len(messages))
	for i, msg := range messages {
		turns[i] = chatTurn{Role: msg.Role, Content: msg.Content}
	}

	payload := chatPayload{
		Model:    s.cfg.Model,
		Messages: turns,
		Stream:   false,
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		payload.Options = &modelOptions{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
		}
	}

	var reply chatReply
	if err := s.call(ctx, http.MethodPost, "/api/chat", payload, &reply); err != nil {
		return "", err
	}
	return reply.Message.Content, nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.cfg.Model
}

// Ping lists local models via /api/tags, which confirms the server is
// up without loading a model.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.call(ctx, http.MethodGet, "/api/tags", nil, nil)
}

// Close is a no-op; the adapter holds no connections of its own.
func (s *LLMService) Close() error {
	return nil
}

// call sends one JSON request to the Ollama API and decodes the reply
// into out when out is non-nil.
func (s *LLMService) call(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("ollama: encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("ollama: building request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr != nil {
			return fmt.Errorf("ollama: %s returned status %d", path, resp.StatusCode)
		}
		return fmt.Errorf("ollama: %s returned status %d: %s", path, resp.StatusCode, detail)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ollama: decoding response: %w", err)
	}
	return nil
}
