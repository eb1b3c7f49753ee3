package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		provider AIProvider
		want     bool
	}{
		{AIProviderOllama, true},
		{AIProviderOpenAI, true},
		{AIProviderGemini, true},
		{AIProvider("anthropic"), false},
		{AIProvider(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderGemini.RequiresAPIKey())
	assert.False(t, AIProvider("bogus").RequiresAPIKey())
}

func TestAIProvider_IsLocal(t *testing.T) {
	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Contains(t, AIProviderGemini.Description(), "Gemini")
	assert.Equal(t, "Unknown", AIProvider("bogus").Description())
}

func TestProviderSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings ProviderSettings
		want     bool
	}{
		{"unset", ProviderSettings{}, false},
		{"ollama no key needed", ProviderSettings{Provider: AIProviderOllama}, true},
		{"openai missing key", ProviderSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", ProviderSettings{Provider: AIProviderOpenAI, APIKey: "sk-x"}, true},
		{"gemini missing key", ProviderSettings{Provider: AIProviderGemini}, false},
		{"gemini with key", ProviderSettings{Provider: AIProviderGemini, APIKey: "g-x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsConfigured())
		})
	}
}

func TestDefaultModels_CoverEveryProvider(t *testing.T) {
	embed := DefaultEmbeddingModels()
	llm := DefaultLLMModels()

	for _, p := range []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderGemini} {
		assert.NotEmpty(t, embed[p], "embedding default for %s", p)
		assert.NotEmpty(t, llm[p], "llm default for %s", p)
	}
}

func TestChunkerSettings_IsValid(t *testing.T) {
	assert.True(t, ChunkerSettings{ChunkSize: 1000, Overlap: 200}.IsValid())
	assert.True(t, ChunkerSettings{ChunkSize: 10, Overlap: 0}.IsValid())
	assert.False(t, ChunkerSettings{ChunkSize: 100, Overlap: 100}.IsValid())
	assert.False(t, ChunkerSettings{ChunkSize: 100, Overlap: 150}.IsValid())
	assert.False(t, ChunkerSettings{ChunkSize: 100, Overlap: -1}.IsValid())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.False(t, s.Embedding.IsConfigured())
	assert.False(t, s.LLM.IsConfigured())
	assert.Equal(t, 1000, s.Chunker.ChunkSize)
	assert.Equal(t, 200, s.Chunker.Overlap)
	assert.True(t, s.Chunker.IsValid())
	assert.Equal(t, 5, s.Retrieval.TopK)
	assert.Equal(t, 3, s.Retrieval.HistoryDepth)
}
