package domain

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Providers the application can talk to. Ollama runs on the local
// machine; OpenAI and Gemini are hosted APIs that need an API key.
const (
	AIProviderOllama AIProvider = "ollama"
	AIProviderOpenAI AIProvider = "openai"
	AIProviderGemini AIProvider = "gemini"
)

// providerInfo carries the static facts about one provider: its display
// label, whether it runs locally, and the models used when the user
// does not pick one.
type providerInfo struct {
	label        string
	local        bool
	defaultEmbed string
	defaultLLM   string
}

var providers = map[AIProvider]providerInfo{
	AIProviderOllama: {
		label:        "Ollama (local)",
		local:        true,
		defaultEmbed: "nomic-embed-text",
		defaultLLM:   "llama3.2",
	},
	AIProviderOpenAI: {
		label:        "OpenAI (cloud)",
		defaultEmbed: "text-embedding-3-small",
		defaultLLM:   "gpt-4o-mini",
	},
	AIProviderGemini: {
		label:        "Gemini (cloud)",
		defaultEmbed: "gemini-embedding-001",
		defaultLLM:   "gemini-2.0-flash",
	},
}

// IsValid reports whether the provider is one the application knows.
func (p AIProvider) IsValid() bool {
	_, ok := providers[p]
	return ok
}

// RequiresAPIKey reports whether the provider needs an API key.
// Local providers never do.
func (p AIProvider) RequiresAPIKey() bool {
	info, ok := providers[p]
	return ok && !info.local
}

// IsLocal reports whether the provider runs on the local machine.
func (p AIProvider) IsLocal() bool {
	return providers[p].local
}

func (p AIProvider) String() string {
	return string(p)
}

// Description returns the provider's display label, or "Unknown" for
// unrecognised values.
func (p AIProvider) Description() string {
	info, ok := providers[p]
	if !ok {
		return "Unknown"
	}
	return info.label
}

// ProviderSettings selects and configures one AI provider connection.
// The same shape serves embeddings and answer generation; AppSettings
// carries one of each.
type ProviderSettings struct {
	// Provider names the service to use.
	Provider AIProvider

	// Model is the model identifier to request.
	Model string

	// BaseURL points local providers at a non-standard endpoint.
	BaseURL string

	// APIKey authenticates against hosted providers.
	APIKey string
}

// IsConfigured reports whether the settings are complete enough to
// open a connection: a known provider, plus an API key where the
// provider demands one.
func (s ProviderSettings) IsConfigured() bool {
	if !s.Provider.IsValid() {
		return false
	}
	return !s.Provider.RequiresAPIKey() || s.APIKey != ""
}

// ChunkerSettings holds text chunking configuration.
type ChunkerSettings struct {
	// ChunkSize is the window size in characters.
	ChunkSize int

	// Overlap is the number of characters shared between
	// consecutive chunks. Must stay below ChunkSize.
	Overlap int
}

// IsValid returns true when the chunker constraints hold.
func (c ChunkerSettings) IsValid() bool {
	return c.ChunkSize > c.Overlap && c.Overlap >= 0
}

// RetrievalSettings holds query-time behaviour configuration.
type RetrievalSettings struct {
	// TopK is the default number of results per query.
	TopK int

	// HistoryDepth is how many past exchanges flavour an answer.
	HistoryDepth int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding configures the provider that vectorises text.
	Embedding ProviderSettings

	// LLM configures the provider that generates answers. Optional:
	// without it, ask degrades to retrieval-only.
	LLM ProviderSettings

	// Chunker holds chunking settings.
	Chunker ChunkerSettings

	// Retrieval holds query-time settings.
	Retrieval RetrievalSettings
}

// DefaultAppSettings returns the out-of-the-box configuration. Both
// providers start unset; `docqa config` fills them in.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunker:   ChunkerSettings{ChunkSize: 1000, Overlap: 200},
		Retrieval: RetrievalSettings{TopK: 5, HistoryDepth: 3},
	}
}

// DefaultEmbeddingModels maps each provider to the embedding model
// used when none is chosen explicitly.
func DefaultEmbeddingModels() map[AIProvider]string {
	models := make(map[AIProvider]string, len(providers))
	for p, info := range providers {
		models[p] = info.defaultEmbed
	}
	return models
}

// DefaultLLMModels maps each provider to the answer model used when
// none is chosen explicitly.
func DefaultLLMModels() map[AIProvider]string {
	models := make(map[AIProvider]string, len(providers))
	for p, info := range providers {
		models[p] = info.defaultLLM
	}
	return models
}

// EmbeddingDimensions returns the vector width of each model the
// application recognises. Models absent from the table leave the
// width to the embedding adapter's own default.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini models
		"gemini-embedding-001": 768,
		"text-embedding-004":   768,
	}
}
