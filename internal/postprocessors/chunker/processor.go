// Package chunker provides a sentence-boundary-aware text chunking processor.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// sentenceScanWindow is how far back from a window's end the chunker
// scans for a sentence boundary. A boundary cut never shortens a window
// by more than this many characters.
const sentenceScanWindow = 100

// Processor splits document content into overlapping chunks, preferring
// to cut at sentence boundaries. It implements the PostProcessor
// interface.
//
// Offsets are rune-based throughout, so multi-byte text never splits
// mid-character. Output is deterministic: the same content and settings
// always produce the same chunk sequence.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured window size in characters.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap in characters.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	return p.Chunk(doc.Content), nil
}

// Chunk splits text into overlapping, sentence-boundary-aligned chunks.
// Empty text yields no chunks.
//
// The text is walked in windows of the configured chunk size. For every
// window that ends before the text does, the chunker scans backward from
// the window end for the last sentence-terminal character and cuts just
// after it, so sentences are not severed mid-thought; the final window is
// taken verbatim to the end of the text. Each next window starts overlap
// characters before the previous end. When a boundary cut pulls the next
// start at or behind the previous one, the start is forced to the cut
// point so the walk always terminates.
//
// Chunks with empty trimmed text are dropped; IDs number the emitted
// chunks from zero. When the text carries page markers, each chunk
// records the page of the nearest marker preceding its start.
func (p *Processor) Chunk(text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)
	marks := domain.PageMarks(text)

	estimated := n/(p.chunkSize-p.overlap) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	start := 0
	chunkID := 0

	for start < n {
		end := start + p.chunkSize
		if end >= n {
			end = n
		} else {
			end = p.sentenceCut(runes, start, end)
		}

		trimmed := strings.TrimSpace(string(runes[start:end]))
		if trimmed != "" {
			chunks = append(chunks, domain.Chunk{
				ID:         chunkID,
				Text:       trimmed,
				StartPos:   start,
				EndPos:     end,
				Length:     utf8.RuneCountInString(trimmed),
				PageNumber: domain.PageAt(marks, start),
			})
			chunkID++
		}

		next := end - p.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// sentenceCut scans backward from the raw window end for the last
// sentence-terminal character and returns the position just after it.
// The scan reaches back at most sentenceScanWindow characters and never
// crosses the window start; without a terminal in that range the raw end
// stands.
func (p *Processor) sentenceCut(runes []rune, start, end int) int {
	floor := end - sentenceScanWindow
	if floor < start {
		floor = start
	}
	for i := end; i > floor; i-- {
		switch runes[i] {
		case '.', '!', '?':
			return i + 1
		}
	}
	return end
}
