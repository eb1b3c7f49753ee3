// Command docqa indexes local documents and answers questions about them
// using embedding-based retrieval. Configuration and index data live under
// ~/.docqa by default; DOCQA_CONFIG_DIR and DOCQA_DATA_DIR override the
// locations.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driven/embedding/cached"
	embsqlite "github.com/custodia-labs/docqa/internal/adapters/driven/embedcache/sqlite"
	"github.com/custodia-labs/docqa/internal/adapters/driven/vectorstore/flat"
	"github.com/custodia-labs/docqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/docqa/internal/connectors"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/normalisers"
	"github.com/custodia-labs/docqa/internal/normalisers/markdown"
	"github.com/custodia-labs/docqa/internal/normalisers/plaintext"
	"github.com/custodia-labs/docqa/internal/postprocessors"
)

// version is injected at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A .env file is optional; absence is not an error.
	_ = godotenv.Load()

	wired, err := buildServices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cli.SetVersion(version)
	cli.SetServices(wired)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildServices is the composition root: it constructs the driven
// adapters, wires the core services over them, and hands the bundle to
// the CLI layer.
func buildServices() (*cli.Services, error) {
	configDir := os.Getenv("DOCQA_CONFIG_DIR")
	dataDir := os.Getenv("DOCQA_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("determine home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docqa", "data")
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config store: %w", err)
	}
	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return nil, fmt.Errorf("open prompt store: %w", err)
	}
	sourceStore, err := file.NewSourceStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open source store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	store, err := flat.New(flat.WithDir(filepath.Join(dataDir, "index")))
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}

	// Ingestion embeds through the content-hash cache; retrieval embeds
	// queries directly. Both stay nil until a provider is configured, in
	// which case the services degrade to read-only / retrieval-only.
	var ingestEmbedder, queryEmbedder driven.EmbeddingService
	if settings.Embedding.IsConfigured() {
		embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
		if err != nil {
			return nil, fmt.Errorf("create embedding service: %w", err)
		}
		cache, err := embsqlite.NewCache(dataDir)
		if err != nil {
			return nil, fmt.Errorf("open embedding cache: %w", err)
		}
		ingestEmbedder = cached.NewEmbeddingService(embedder, cache)
		queryEmbedder = embedder
	}

	var llm driven.LLMService
	if settings.LLM.IsConfigured() {
		llm, err = ai.CreateLLMService(&settings.LLM)
		if err != nil {
			return nil, fmt.Errorf("create LLM service: %w", err)
		}
	}

	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(markdown.New())

	processors := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(processors)
	chunker, err := processors.Build("chunker", map[string]any{
		"chunk_size": settings.Chunker.ChunkSize,
		"overlap":    settings.Chunker.Overlap,
	})
	if err != nil {
		return nil, fmt.Errorf("build chunker: %w", err)
	}
	pipeline := postprocessors.NewPipeline(chunker)

	factory := connectors.NewFactory()
	connectors.RegisterDefaults(factory)

	ingestService := services.NewIngestService(store, registry, pipeline, ingestEmbedder)
	retrievalService := services.NewRetrievalService(store, queryEmbedder, settings.Retrieval.TopK)
	answerService := services.NewAnswerService(retrievalService, llm, settings.Retrieval.HistoryDepth)
	answerService.SetPromptStore(promptStore)
	sourceService := services.NewSourceService(sourceStore, factory, ingestService)

	// The master switch is hand-editable in config.toml ([scheduler]
	// enabled = false); the scheduler itself persists task state there.
	schedulerConfig := domain.DefaultSchedulerConfig()
	if _, ok := configStore.Get("scheduler.enabled"); ok {
		schedulerConfig.Enabled = configStore.GetBool("scheduler.enabled")
	}
	scheduler := services.NewScheduler(schedulerConfig, configStore, sourceService)

	return &cli.Services{
		Ingest:          ingestService,
		Retrieval:       retrievalService,
		Answer:          answerService,
		Source:          sourceService,
		Settings:        settingsService,
		Scheduler:       scheduler,
		SchedulerConfig: schedulerConfig,
	}, nil
}
