package driven

import "github.com/custodia-labs/docqa/internal/core/domain"

// AIConfigValidator checks provider settings by building the matching
// service and probing connectivity before the settings are persisted.
// Unconfigured settings validate clean so partial setups can be saved.
type AIConfigValidator interface {
	// ValidateEmbedding probes the embedding provider the settings name.
	ValidateEmbedding(settings *domain.ProviderSettings) error

	// ValidateLLM probes the LLM provider the settings name.
	ValidateLLM(settings *domain.ProviderSettings) error
}
