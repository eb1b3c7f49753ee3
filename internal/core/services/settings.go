package services

import (
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyLLMProvider   = "llm.provider"
	keyLLMModel      = "llm.model"
	keyLLMBaseURL    = "llm.base_url"
	keyLLMAPIKey     = "llm.api_key"
	keyChunkSize     = "chunker.chunk_size"
	keyChunkOverlap  = "chunker.overlap"
	keyTopK          = "retrieval.top_k"
	keyHistoryDepth  = "retrieval.history_depth"
)

// defaultOllamaBaseURL is used when a local provider is selected without
// an explicit endpoint.
const defaultOllamaBaseURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.ProviderSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.ProviderSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Chunker: domain.ChunkerSettings{
			ChunkSize: s.getInt(keyChunkSize, defaults.Chunker.ChunkSize),
			Overlap:   s.getIntAllowZero(keyChunkOverlap, defaults.Chunker.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:         s.getInt(keyTopK, defaults.Retrieval.TopK),
			HistoryDepth: s.getInt(keyHistoryDepth, defaults.Retrieval.HistoryDepth),
		},
	}

	return settings, nil
}

// Save persists application settings. API keys are only written when
// present, so saving a settings struct without one does not blank a
// stored credential.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	type entry struct {
		key   string
		value any
		label string
	}
	entries := []entry{
		{keyEmbedProvider, settings.Embedding.Provider.String(), "embedding provider"},
		{keyEmbedModel, settings.Embedding.Model, "embedding model"},
		{keyEmbedBaseURL, settings.Embedding.BaseURL, "embedding base_url"},
		{keyLLMProvider, settings.LLM.Provider.String(), "llm provider"},
		{keyLLMModel, settings.LLM.Model, "llm model"},
		{keyLLMBaseURL, settings.LLM.BaseURL, "llm base_url"},
		{keyChunkSize, settings.Chunker.ChunkSize, "chunk size"},
		{keyChunkOverlap, settings.Chunker.Overlap, "chunk overlap"},
		{keyTopK, settings.Retrieval.TopK, "top_k"},
		{keyHistoryDepth, settings.Retrieval.HistoryDepth, "history_depth"},
	}
	if settings.Embedding.APIKey != "" {
		entries = append(entries, entry{keyEmbedAPIKey, settings.Embedding.APIKey, "embedding api_key"})
	}
	if settings.LLM.APIKey != "" {
		entries = append(entries, entry{keyLLMAPIKey, settings.LLM.APIKey, "llm api_key"})
	}

	for _, e := range entries {
		if err := s.configStore.Set(e.key, e.value); err != nil {
			return fmt.Errorf("save %s: %w", e.label, err)
		}
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider. An empty
// model selects the provider's default.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if err := checkProviderSelection("embedding", provider, apiKey); err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	previousModel := settings.Embedding.Model
	settings.Embedding.Provider = provider
	settings.Embedding.Model, settings.Embedding.BaseURL = resolveProviderConfig(
		provider, model, settings.Embedding.BaseURL, domain.DefaultEmbeddingModels())
	settings.Embedding.APIKey = apiKey

	// Stored vectors only match queries embedded under the same model.
	if previousModel != "" && previousModel != settings.Embedding.Model {
		logger.Warn("Embedding model changed from %s to %s: stored vectors must be rebuilt (docqa clear, then re-add)",
			previousModel, settings.Embedding.Model)
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider. An empty model selects
// the provider's default.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if err := checkProviderSelection("LLM", provider, apiKey); err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model, settings.LLM.BaseURL = resolveProviderConfig(
		provider, model, settings.LLM.BaseURL, domain.DefaultLLMModels())
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// checkProviderSelection rejects unknown providers and cloud providers
// selected without credentials.
func checkProviderSelection(kind string, provider domain.AIProvider, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid %s provider: %s", kind, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}
	return nil
}

// resolveProviderConfig fills in what a provider switch leaves
// implicit: an omitted model becomes the provider's default, local
// providers keep (or gain) an endpoint, and cloud providers drop it.
func resolveProviderConfig(
	provider domain.AIProvider,
	model, baseURL string,
	defaults map[domain.AIProvider]string,
) (string, string) {
	if model == "" {
		if def, ok := defaults[provider]; ok {
			model = def
		}
	}
	if provider.IsLocal() {
		if baseURL == "" {
			baseURL = defaultOllamaBaseURL
		}
		return model, baseURL
	}
	return model, ""
}

// SetChunker updates the chunking parameters. Takes effect for documents
// added afterwards; existing chunks are not rewritten.
func (s *SettingsService) SetChunker(chunkSize, overlap int) error {
	candidate := domain.ChunkerSettings{ChunkSize: chunkSize, Overlap: overlap}
	if !candidate.IsValid() {
		return fmt.Errorf("%w: chunk size %d must exceed overlap %d, and overlap must not be negative",
			domain.ErrInvalidInput, chunkSize, overlap)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Chunker = candidate
	return s.Save(settings)
}

// SetTopK updates the default result count.
func (s *SettingsService) SetTopK(topK int) error {
	if topK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidInput, topK)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Retrieval.TopK = topK
	return s.Save(settings)
}

// Validate checks current settings for consistency.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Chunker.IsValid() {
		return fmt.Errorf("chunk size %d must exceed overlap %d",
			settings.Chunker.ChunkSize, settings.Chunker.Overlap)
	}
	if settings.Retrieval.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", settings.Retrieval.TopK)
	}
	if settings.Retrieval.HistoryDepth < 0 {
		return fmt.Errorf("history_depth must not be negative, got %d", settings.Retrieval.HistoryDepth)
	}

	// A provider selected without its credentials is a misconfiguration;
	// no provider at all is fine.
	if settings.Embedding.Provider != "" && !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %s requires an API key", settings.Embedding.Provider)
	}
	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %s requires an API key", settings.LLM.Provider)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ConfigPath describes where settings are persisted, for display.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero treats an explicitly stored zero as a value, not an
// absence. Needed for overlap, where zero is a legitimate setting.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
