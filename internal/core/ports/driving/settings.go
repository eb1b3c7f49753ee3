package driving

import "github.com/custodia-labs/docqa/internal/core/domain"

// SettingsService manages application settings. Reads merge stored
// values over defaults; writes persist immediately.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider switches the embedding provider. An empty
	// model selects the provider's default.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider switches the LLM provider. An empty model selects
	// the provider's default.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetChunker updates the chunking parameters.
	SetChunker(chunkSize, overlap int) error

	// SetTopK updates the default result count.
	SetTopK(topK int) error

	// Validate checks current settings for consistency.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ConfigPath describes where settings are persisted, for display.
	ConfigPath() string

	// ValidateEmbeddingConfig checks the embedding configuration by
	// pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig checks the LLM configuration by pinging the
	// provider.
	ValidateLLMConfig() error
}
