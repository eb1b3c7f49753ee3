// Package openai adapts the OpenAI embeddings API to the
// EmbeddingService port.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	// DefaultModel is the cheapest current-generation embedding model.
	DefaultModel = "text-embedding-3-small"

	// DefaultTimeout bounds a single embed request.
	DefaultTimeout = 60 * time.Second
)

// nativeDimensions reports the built-in vector size of the known OpenAI
// embedding models, falling back to 1536 for anything unrecognised.
func nativeDimensions(model string) int {
	switch model {
	case "text-embedding-3-large":
		return 3072
	case "text-embedding-3-small", "text-embedding-ada-002":
		return 1536
	default:
		return 1536
	}
}

// Config configures the OpenAI embedding adapter. APIKey is required;
// everything else has a sensible default.
type Config struct {
	APIKey     string
	BaseURL    string // any OpenAI-compatible endpoint; empty means the public API
	Model      string
	Timeout    time.Duration
	Dimensions int // reduced vectors, honoured only by the text-embedding-3-* models
}

// EmbeddingService embeds text through the OpenAI embeddings API.
type EmbeddingService struct {
	cfg    Config
	client *openai.Client
}

// NewEmbeddingService builds an OpenAI-backed embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = nativeDimensions(cfg.Model)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &EmbeddingService{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}, nil
}

// Embed returns the vector for a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.New("openai: no embedding returned")
	}
	return vectors[0], nil
}

// EmbedBatch embeds all texts in one request, preserving input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(s.cfg.Model),
		Input: texts,
	}
	// Dimension reduction is only valid on the v3 models.
	if s.cfg.Dimensions > 0 && strings.HasPrefix(s.cfg.Model, "text-embedding-3-") {
		req.Dimensions = s.cfg.Dimensions
	}

	resp, err := s.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai: create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai: embedded %d of %d inputs", len(resp.Data), len(texts))
	}

	// Place each vector by its index; the API does not guarantee
	// response order.
	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("openai: embedding index %d out of range", item.Index)
		}
		vectors[item.Index] = append([]float32(nil), item.Embedding...)
	}
	return vectors, nil
}

// Dimensions returns the effective vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.cfg.Dimensions
}

// ModelName returns the configured model.
func (s *EmbeddingService) ModelName() string {
	return s.cfg.Model
}

// Ping lists models, which exercises the API key without inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai: ping: %w", err)
	}
	return nil
}

// Close is a no-op; the underlying HTTP client needs no teardown.
func (s *EmbeddingService) Close() error {
	return nil
}
