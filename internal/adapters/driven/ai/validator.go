package ai

import (
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator adapts the package-level validation functions to the
// driven.AIConfigValidator port so the settings service can probe
// providers without importing this package's construction machinery.
type ConfigValidator struct{}

// NewConfigValidator returns a stateless validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding builds and pings the configured embedding provider.
func (v *ConfigValidator) ValidateEmbedding(settings *domain.ProviderSettings) error {
	return ValidateEmbeddingConfig(settings)
}

// ValidateLLM builds and pings the configured LLM provider.
func (v *ConfigValidator) ValidateLLM(settings *domain.ProviderSettings) error {
	return ValidateLLMConfig(settings)
}
