package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// previewSentences is how many leading sentences Summary uses for the
// preview before falling back to a character cut.
const previewSentences = 3

// previewFallbackRunes bounds the preview when the document has too few
// sentences to build one from.
const previewFallbackRunes = 200

// IngestService runs the document ingestion pipeline and manages the
// stored document lifecycle.
type IngestService struct {
	store     driven.VectorStore
	registry  driven.NormaliserRegistry
	pipeline  driven.PostProcessorPipeline
	embedding driven.EmbeddingService
}

// NewIngestService creates an ingest service. The embedding service may be
// nil, in which case ingestion fails with ErrEmbeddingUnavailable; read
// operations still work.
func NewIngestService(
	store driven.VectorStore,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedding driven.EmbeddingService,
) *IngestService {
	return &IngestService{
		store:     store,
		registry:  registry,
		pipeline:  pipeline,
		embedding: embedding,
	}
}

// AddPath reads a file, runs the ingestion pipeline, and stores the result.
func (s *IngestService) AddPath(ctx context.Context, path string, opts driving.AddOptions) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	uri := path
	if abs, err := filepath.Abs(path); err == nil {
		uri = abs
	}

	raw := &domain.RawDocument{
		SourceID: opts.SourceID,
		URI:      uri,
		MIMEType: detectMIMEType(path),
		Content:  data,
	}
	return s.AddRaw(ctx, raw, opts)
}

// AddRaw ingests an already-fetched raw document.
//
// The pipeline is: content-hash deduplication, normalise, chunk, embed,
// store. Nothing is mutated until the final AddDocument call, so a failure
// at any step leaves the store untouched.
func (s *IngestService) AddRaw(ctx context.Context, raw *domain.RawDocument, opts driving.AddOptions) (*domain.Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	logger.Section("Ingest")
	logger.Info("Adding document: %s", raw.URI)

	// 1. DEDUPLICATE BY CONTENT HASH
	sum := sha256.Sum256(raw.Content)
	contentHash := hex.EncodeToString(sum[:])

	existing, found, err := s.store.FindByHash(ctx, contentHash)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if found {
		if !opts.Force {
			return nil, fmt.Errorf("%w: identical content already stored as %q (%s)",
				domain.ErrAlreadyExists, existing.Name, existing.ID)
		}
		logger.Info("Replacing existing document %q (%s)", existing.Name, existing.ID)
		if _, err := s.store.RemoveDocument(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("replace %s: %w", existing.ID, err)
		}
	}

	// 2. NORMALISE (produces Document with Content)
	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedType) {
			return nil, fmt.Errorf("normalise: %w (supported types: %s)",
				err, strings.Join(s.registry.SupportedMIMETypes(), ", "))
		}
		return nil, fmt.Errorf("normalise: %w", err)
	}

	doc := result.Document
	doc.ContentHash = contentHash
	doc.SizeBytes = int64(len(raw.Content))
	doc.WordCount = len(strings.Fields(doc.Content))

	// 3. RUN POST-PROCESSOR PIPELINE (produces Chunks)
	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("post-process: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: document has no extractable text", domain.ErrInvalidInput)
	}
	logger.Debug("Chunked %s into %d chunks", doc.Name, len(chunks))

	// 4. GENERATE EMBEDDINGS
	if s.embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	embeddings, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
	}

	// 5. STORE
	id, err := s.store.AddDocument(ctx, doc, chunks, embeddings)
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	stored, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get stored document: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("stored document %s disappeared", id)
	}

	logger.Info("Stored %q: %d chunks, %d words", stored.Name, stored.ChunkCount, stored.WordCount)
	return stored, nil
}

// Remove deletes a document and its embeddings.
func (s *IngestService) Remove(ctx context.Context, documentID string) (bool, error) {
	removed, err := s.store.RemoveDocument(ctx, documentID)
	if err != nil {
		return false, fmt.Errorf("remove document: %w", err)
	}
	if removed {
		logger.Info("Removed document %s", documentID)
	}
	return removed, nil
}

// List returns all stored documents.
func (s *IngestService) List(ctx context.Context) ([]domain.Document, error) {
	return s.store.List(ctx)
}

// Get returns a document by ID.
func (s *IngestService) Get(ctx context.Context, documentID string) (*domain.Document, bool, error) {
	return s.store.Get(ctx, documentID)
}

// Content reconstructs a document's text from its stored chunks.
//
// Chunk windows overlap, so each chunk after the first is appended minus
// the longest prefix it shares with the tail of the text so far. Where
// nothing matches (the shared window was whitespace, trimmed from both
// sides) a newline restores the boundary.
func (s *IngestService) Content(ctx context.Context, documentID string) (string, bool, error) {
	chunks, ok, err := s.store.Chunks(ctx, documentID)
	if err != nil {
		return "", false, fmt.Errorf("get chunks: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return joinChunks(chunks), true, nil
}

// Summary computes display statistics for a document.
func (s *IngestService) Summary(ctx context.Context, documentID string) (*domain.DocumentSummary, bool, error) {
	doc, ok, err := s.store.Get(ctx, documentID)
	if err != nil {
		return nil, false, fmt.Errorf("get document: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	content, _, err := s.Content(ctx, documentID)
	if err != nil {
		return nil, false, err
	}

	sentences := splitSentences(content)
	paragraphs := countParagraphs(content)

	return &domain.DocumentSummary{
		Name:           doc.Name,
		MIMEType:       doc.MIMEType,
		SizeBytes:      doc.SizeBytes,
		WordCount:      doc.WordCount,
		SentenceCount:  len(sentences),
		ParagraphCount: paragraphs,
		ChunkCount:     doc.ChunkCount,
		Preview:        buildPreview(content, sentences),
		AddedAt:        doc.AddedAt,
	}, true, nil
}

// Stats aggregates store state.
func (s *IngestService) Stats(ctx context.Context) (domain.StoreStats, error) {
	return s.store.Stats(ctx)
}

// Clear removes all documents.
func (s *IngestService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	logger.Info("Cleared all documents")
	return nil
}

// joinChunks stitches overlapping chunks back into continuous text.
func joinChunks(chunks []domain.Chunk) string {
	if len(chunks) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(chunks[0].Text)
	tail := chunks[0].Text

	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]

		// The raw windows share at most this many runes; trimming can
		// only shrink the shared text.
		maxShared := prev.EndPos - cur.StartPos
		if maxShared < 0 {
			maxShared = 0
		}

		skip := sharedRunes(tail, cur.Text, maxShared)
		curRunes := []rune(cur.Text)
		if skip >= len(curRunes) {
			continue // fully contained in what we already have
		}

		remainder := string(curRunes[skip:])
		if skip == 0 {
			b.WriteString("\n")
		}
		b.WriteString(remainder)
		tail = cur.Text
	}

	return b.String()
}

// sharedRunes returns the length in runes of the longest suffix of tail
// that is also a prefix of next, considering at most maxRunes.
func sharedRunes(tail, next string, maxRunes int) int {
	if maxRunes <= 0 {
		return 0
	}

	tailRunes := []rune(tail)
	nextRunes := []rune(next)

	limit := maxRunes
	if len(tailRunes) < limit {
		limit = len(tailRunes)
	}
	if len(nextRunes) < limit {
		limit = len(nextRunes)
	}

	for k := limit; k > 0; k-- {
		if string(tailRunes[len(tailRunes)-k:]) == string(nextRunes[:k]) {
			return k
		}
	}
	return 0
}

// splitSentences splits on full stops and keeps the non-blank parts.
func splitSentences(content string) []string {
	parts := strings.Split(content, ".")
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// countParagraphs counts blank-line-separated blocks.
func countParagraphs(content string) int {
	count := 0
	for _, p := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(p) != "" {
			count++
		}
	}
	return count
}

// buildPreview returns the first few sentences of the content, or a
// character-bounded cut when there are too few sentences.
func buildPreview(content string, sentences []string) string {
	if content == "" {
		return ""
	}
	if len(sentences) > previewSentences {
		return strings.Join(sentences[:previewSentences], ".") + "."
	}
	runes := []rune(content)
	if len(runes) <= previewFallbackRunes {
		return content
	}
	return string(runes[:previewFallbackRunes]) + "..."
}

// extensionMIMETypes maps extensions the platform MIME database misses, or
// maps inconsistently across platforms, to stable types.
var extensionMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".go":       "text/x-go",
	".py":       "text/x-python",
	".rs":       "text/x-rust",
	".java":     "text/x-java",
	".c":        "text/x-c",
	".h":        "text/x-c",
	".cpp":      "text/x-c++",
	".rb":       "text/x-ruby",
	".ts":       "text/typescript",
	".tsx":      "text/typescript-jsx",
	".jsx":      "text/javascript-jsx",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
	".sh":       "text/x-shellscript",
	".bash":     "text/x-shellscript",
	".sql":      "text/x-sql",
	".txt":      "text/plain",
	".csv":      "text/csv",
}

// detectMIMEType resolves a file's MIME type from its extension.
// Extensionless files are assumed to be plain text.
func detectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "text/plain"
	}
	if mt, ok := extensionMIMETypes[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		if mediaType, _, err := mime.ParseMediaType(mt); err == nil {
			return mediaType
		}
		return mt
	}
	return "application/octet-stream"
}
