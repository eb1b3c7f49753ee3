// Package driven defines the secondary (outbound) ports: interfaces the
// core services need implemented by infrastructure adapters.
//
// # Required Ports
//
//   - VectorStore: chunk metadata + embedding matrix with similarity search
//   - EmbeddingService: text → vector embedding provider
//   - NormaliserRegistry / Normaliser: raw bytes → plain text
//   - PostProcessorPipeline / PostProcessor: text → chunks
//
// # Optional Ports
//
//   - EmbeddingCache: content-hash cache in front of the embedding service
//   - LLMService: answer generation (ask degrades to retrieval-only without it)
//   - PromptStore: customisable prompt templates
//   - Connector / ConnectorFactory: bulk ingestion from configured sources
//   - SourceStore / ConfigStore: configuration persistence
//
// # Import Rules
//
//   - Can Import: domain, standard library
//   - Cannot Import: services, adapters, connectors
package driven
