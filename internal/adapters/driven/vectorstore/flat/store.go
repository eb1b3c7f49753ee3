// Package flat provides a brute-force vector store over a flat embedding
// matrix. Documents own contiguous row spans; search is an exact scan.
package flat

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

var errClosed = errors.New("flat: store is closed")

// Store implements driven.VectorStore with an in-memory flat matrix.
//
// Each document's embeddings occupy a contiguous block of matrix rows in
// chunk order. The id→row-span index is derived from the ordered document
// list and rebuilt after every mutation, so offsets can never go stale.
// With a snapshot directory configured, every mutation rewrites the full
// store state to disk before returning.
//
// Reads take a shared lock; mutations hold the exclusive lock across both
// the in-memory change and the snapshot flush, so readers only ever see
// fully persisted state.
type Store struct {
	mu  sync.RWMutex
	dir string

	docs      []record
	matrix    [][]float32
	offsets   map[string]span
	dimension int

	createdAt time.Time
	updatedAt time.Time
	closed    bool
}

// record pairs a document with its chunk list, in insertion order.
type record struct {
	doc    domain.Document
	chunks []domain.Chunk
}

// span is a document's contiguous row range in the embedding matrix.
type span struct {
	start int
	count int
}

// Option configures the store.
type Option func(*Store)

// WithDir sets the snapshot directory. Without it the store is purely
// in-memory and nothing survives a restart.
func WithDir(dir string) Option {
	return func(s *Store) {
		s.dir = dir
	}
}

// New creates a flat vector store. When a snapshot directory is
// configured and holds a previous snapshot, the full state is loaded and
// the row-span index re-derived.
func New(opts ...Option) (*Store, error) {
	s := &Store{
		offsets:   make(map[string]span),
		createdAt: time.Now().UTC(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.dir != "" {
		if err := s.load(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// AddDocument assigns a fresh ID, appends the document's chunks, stacks
// its embeddings onto the end of the matrix, and persists. Embeddings are
// L2-normalised on the way in so search reduces to a dot product.
func (s *Store) AddDocument(_ context.Context, doc domain.Document, chunks []domain.Chunk, embeddings [][]float32) (string, error) {
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: document has no chunks", domain.ErrInvalidInput)
	}
	if len(chunks) != len(embeddings) {
		return "", fmt.Errorf("%w: %d chunks with %d embeddings",
			domain.ErrInvalidInput, len(chunks), len(embeddings))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", errClosed
	}

	dim := s.dimension
	if dim == 0 {
		dim = len(embeddings[0])
	}

	rows := make([][]float32, len(embeddings))
	for i, emb := range embeddings {
		if len(emb) == 0 || len(emb) != dim {
			return "", fmt.Errorf("%w: embedding %d has dimension %d, store dimension is %d",
				domain.ErrInvalidInput, i, len(emb), dim)
		}
		rows[i] = normalise(emb)
	}

	doc.ID = uuid.New().String()
	doc.Content = ""
	doc.ChunkCount = len(chunks)
	if doc.AddedAt.IsZero() {
		doc.AddedAt = time.Now().UTC()
	}

	stored := make([]domain.Chunk, len(chunks))
	copy(stored, chunks)

	prevDocs, prevRows := len(s.docs), len(s.matrix)
	prevDim, prevUpdated := s.dimension, s.updatedAt

	s.docs = append(s.docs, record{doc: doc, chunks: stored})
	s.matrix = append(s.matrix, rows...)
	s.dimension = dim
	s.deriveOffsets()

	if err := s.persist(); err != nil {
		s.docs = s.docs[:prevDocs]
		s.matrix = s.matrix[:prevRows]
		s.dimension = prevDim
		s.updatedAt = prevUpdated
		s.deriveOffsets()
		return "", err
	}

	return doc.ID, nil
}

// RemoveDocument deletes a document's record and its span of matrix rows,
// then re-derives the row offsets of everything that remains. Later
// documents' rows shift down to close the gap.
func (s *Store) RemoveDocument(_ context.Context, documentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, errClosed
	}

	idx := -1
	for i, rec := range s.docs {
		if rec.doc.ID == documentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	sp := s.offsets[documentID]
	prevDocs, prevMatrix, prevUpdated := s.docs, s.matrix, s.updatedAt

	docs := make([]record, 0, len(s.docs)-1)
	docs = append(docs, s.docs[:idx]...)
	docs = append(docs, s.docs[idx+1:]...)

	matrix := make([][]float32, 0, len(s.matrix)-sp.count)
	matrix = append(matrix, s.matrix[:sp.start]...)
	matrix = append(matrix, s.matrix[sp.start+sp.count:]...)

	s.docs = docs
	s.matrix = matrix
	s.deriveOffsets()

	if err := s.persist(); err != nil {
		s.docs = prevDocs
		s.matrix = prevMatrix
		s.updatedAt = prevUpdated
		s.deriveOffsets()
		return false, err
	}

	return true, nil
}

// Search scores the query against every candidate row and returns the
// top-k results in descending score order. Ties break by lowest chunk ID,
// then lowest document ID, so repeated searches return identical slices.
// A document filter restricts candidates to that document's row span
// before selection; filtering on an unknown document yields no results.
func (s *Store) Search(_ context.Context, queryEmbedding []float32, topK int, documentFilter string) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", domain.ErrInvalidInput, topK)
	}
	if len(queryEmbedding) == 0 {
		return nil, fmt.Errorf("%w: empty query embedding", domain.ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errClosed
	}
	if len(s.matrix) == 0 {
		return nil, nil
	}
	if len(queryEmbedding) != s.dimension {
		return nil, fmt.Errorf("%w: query dimension %d, store dimension %d",
			domain.ErrInvalidInput, len(queryEmbedding), s.dimension)
	}

	first, last := 0, len(s.matrix)
	if documentFilter != "" {
		sp, ok := s.offsets[documentFilter]
		if !ok {
			return nil, nil
		}
		first, last = sp.start, sp.start+sp.count
	}

	query := normalise(queryEmbedding)
	owners := s.rowOwners()

	type rowScore struct {
		row   int
		score float64
	}
	scores := make([]rowScore, 0, last-first)
	for row := first; row < last; row++ {
		scores = append(scores, rowScore{row: row, score: dot(query, s.matrix[row])})
	}

	sort.Slice(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.score != b.score {
			return a.score > b.score
		}
		oa, ob := owners[a.row], owners[b.row]
		if oa.chunkID != ob.chunkID {
			return oa.chunkID < ob.chunkID
		}
		return oa.docID < ob.docID
	})

	n := topK
	if n > len(scores) {
		n = len(scores)
	}

	results := make([]domain.SearchResult, n)
	for i := 0; i < n; i++ {
		owner := owners[scores[i].row]
		rec := s.docs[owner.docIdx]
		chunk := rec.chunks[owner.chunkIdx]
		results[i] = domain.SearchResult{
			DocumentID:   rec.doc.ID,
			DocumentName: rec.doc.Name,
			ChunkID:      chunk.ID,
			ChunkText:    chunk.Text,
			Score:        scores[i].score,
			PageNumber:   chunk.PageNumber,
		}
	}

	return results, nil
}

// Get returns a document by ID.
func (s *Store) Get(_ context.Context, documentID string) (*domain.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, errClosed
	}
	for _, rec := range s.docs {
		if rec.doc.ID == documentID {
			doc := rec.doc
			return &doc, true, nil
		}
	}
	return nil, false, nil
}

// FindByHash returns the first document with the given content hash.
func (s *Store) FindByHash(_ context.Context, contentHash string) (*domain.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, errClosed
	}
	if contentHash == "" {
		return nil, false, nil
	}
	for _, rec := range s.docs {
		if rec.doc.ContentHash == contentHash {
			doc := rec.doc
			return &doc, true, nil
		}
	}
	return nil, false, nil
}

// Chunks returns a copy of a document's chunk records in chunk order.
func (s *Store) Chunks(_ context.Context, documentID string) ([]domain.Chunk, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, errClosed
	}
	for _, rec := range s.docs {
		if rec.doc.ID == documentID {
			chunks := make([]domain.Chunk, len(rec.chunks))
			copy(chunks, rec.chunks)
			return chunks, true, nil
		}
	}
	return nil, false, nil
}

// List returns all documents in insertion order.
func (s *Store) List(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errClosed
	}
	docs := make([]domain.Document, len(s.docs))
	for i, rec := range s.docs {
		docs[i] = rec.doc
	}
	return docs, nil
}

// Stats aggregates store state from memory.
func (s *Store) Stats(_ context.Context) (domain.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return domain.StoreStats{}, errClosed
	}

	stats := domain.StoreStats{
		DocumentCount:      len(s.docs),
		TotalChunks:        len(s.matrix),
		EmbeddingDimension: s.dimension,
		CreatedAt:          s.createdAt,
		UpdatedAt:          s.updatedAt,
	}
	for _, rec := range s.docs {
		stats.TotalWords += rec.doc.WordCount
		stats.TotalSizeBytes += rec.doc.SizeBytes
	}
	return stats, nil
}

// Clear removes every document and embedding and persists the empty
// state. The store's dimension resets and is re-established by the next
// AddDocument.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed
	}

	prevDocs, prevMatrix := s.docs, s.matrix
	prevDim, prevUpdated := s.dimension, s.updatedAt

	s.docs = nil
	s.matrix = nil
	s.dimension = 0
	s.deriveOffsets()

	if err := s.persist(); err != nil {
		s.docs = prevDocs
		s.matrix = prevMatrix
		s.dimension = prevDim
		s.updatedAt = prevUpdated
		s.deriveOffsets()
		return err
	}
	return nil
}

// Close marks the store closed. All state is already on disk; subsequent
// calls fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// deriveOffsets rebuilds the id→row-span index from the ordered document
// list. Offsets are never stored independently.
func (s *Store) deriveOffsets() {
	offsets := make(map[string]span, len(s.docs))
	row := 0
	for _, rec := range s.docs {
		offsets[rec.doc.ID] = span{start: row, count: len(rec.chunks)}
		row += len(rec.chunks)
	}
	s.offsets = offsets
}

// rowOwner maps a matrix row back to its owning document and local chunk.
type rowOwner struct {
	docIdx   int
	chunkIdx int
	chunkID  int
	docID    string
}

// rowOwners builds the row→owner mapping for the current matrix. Caller
// must hold at least the read lock.
func (s *Store) rowOwners() []rowOwner {
	owners := make([]rowOwner, 0, len(s.matrix))
	for di, rec := range s.docs {
		for ci := range rec.chunks {
			owners = append(owners, rowOwner{
				docIdx:   di,
				chunkIdx: ci,
				chunkID:  rec.chunks[ci].ID,
				docID:    rec.doc.ID,
			})
		}
	}
	return owners
}

// normalise returns an L2-normalised copy of v. A zero vector stays all
// zeros rather than dividing by zero.
func normalise(v []float32) []float32 {
	out := make([]float32, len(v))
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return out
	}
	inv := 1 / math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

// dot accumulates the inner product in float64 for stable scoring.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
