// Package ollama adapts a local Ollama server to the EmbeddingService
// port.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	// DefaultBaseURL is where a stock Ollama install listens.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is used when no embedding model is configured.
	DefaultModel = "nomic-embed-text"

	// DefaultTimeout bounds a single embed request.
	DefaultTimeout = 60 * time.Second

	// DefaultDimensions matches nomic-embed-text output.
	DefaultDimensions = 768
)

// Config configures the Ollama embedding adapter. Zero values fall
// back to the defaults above.
type Config struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Dimensions int
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Dimensions == 0 {
		c.Dimensions = DefaultDimensions
	}
	return c
}

// EmbeddingService embeds text through Ollama's /api/embed endpoint,
// which takes a list of inputs and returns one vector per input in
// order.
type EmbeddingService struct {
	cfg    Config
	client *http.Client
}

// NewEmbeddingService builds an Ollama-backed embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	cfg = cfg.withDefaults()
	return &EmbeddingService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type embedPayload struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedReply struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// Embed returns the vector for a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.New("ollama: no embedding returned")
	}
	return vectors[0], nil
}

// EmbedBatch embeds all texts in one request, preserving input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var reply embedReply
	err := s.call(ctx, http.MethodPost, "/api/embed", embedPayload{Model: s.cfg.Model, Input: texts}, &reply)
	if err != nil {
		return nil, err
	}
	if len(reply.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama: embedded %d of %d inputs", len(reply.Embeddings), len(texts))
	}

	// The API speaks float64; the store works in float32.
	vectors := make([][]float32, len(reply.Embeddings))
	for i, values := range reply.Embeddings {
		vec := make([]float32, len(values))
		for j, v := range values {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions returns the configured vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.cfg.Dimensions
}

// ModelName returns the configured model.
func (s *EmbeddingService) ModelName() string {
	return s.cfg.Model
}

// Ping lists local models via /api/tags, which confirms the server is
// up without loading a model.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.call(ctx, http.MethodGet, "/api/tags", nil, nil)
}

// Close is a no-op; the adapter holds no connections of its own.
func (s *EmbeddingService) Close() error {
	return nil
}

// call sends one JSON request to the Ollama API and decodes the reply
// into out when out is non-nil.
func (s *EmbeddingService) call(ctx context.Context, method, path string, payload, out any) error {
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
