package flat

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Snapshot artifacts. All three are rewritten together on every mutation;
// each is written to a temp file first and renamed into place.
const (
	documentsFile  = "documents.json"
	embeddingsFile = "embeddings.bin"
	metadataFile   = "metadata.json"

	schemaVersion = 1
)

// embeddingsMagic identifies the binary matrix format.
var embeddingsMagic = [4]byte{'D', 'Q', 'E', 'M'}

// matrixHeaderSize is magic + dimension + row count.
const matrixHeaderSize = 12

// Serialisation records mirror the domain types field for field so the
// domain stays free of storage tags.

type documentsRecord struct {
	Documents []documentRecord `json:"documents"`
}

type documentRecord struct {
	ID          string        `json:"id"`
	SourceID    string        `json:"source_id,omitempty"`
	URI         string        `json:"uri,omitempty"`
	Name        string        `json:"name"`
	MIMEType    string        `json:"mime_type,omitempty"`
	ContentHash string        `json:"content_hash"`
	SizeBytes   int64         `json:"size_bytes"`
	WordCount   int           `json:"word_count"`
	AddedAt     time.Time     `json:"added_at"`
	Chunks      []chunkRecord `json:"chunks"`
}

type chunkRecord struct {
	ID         int    `json:"id"`
	Text       string `json:"text"`
	StartPos   int    `json:"start_pos"`
	EndPos     int    `json:"end_pos"`
	Length     int    `json:"length"`
	PageNumber int    `json:"page_number,omitempty"`
}

type metadataRecord struct {
	SchemaVersion int       `json:"schema_version"`
	Dimension     int       `json:"dimension"`
	DocumentCount int       `json:"document_count"`
	ChunkCount    int       `json:"chunk_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// persist stamps the mutation time and, with a snapshot directory
// configured, rewrites the full store state. Caller must hold the write
// lock; on error the caller rolls the in-memory state back.
func (s *Store) persist() error {
	s.updatedAt = time.Now().UTC()
	if s.dir == "" {
		return nil
	}
	if err := s.writeSnapshot(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// writeSnapshot serialises documents, matrix, and metadata, then swaps
// each artifact into place atomically.
func (s *Store) writeSnapshot() error {
	docs, err := json.MarshalIndent(s.documentsSnapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding documents: %w", err)
	}

	meta, err := json.MarshalIndent(metadataRecord{
		SchemaVersion: schemaVersion,
		Dimension:     s.dimension,
		DocumentCount: len(s.docs),
		ChunkCount:    len(s.matrix),
		CreatedAt:     s.createdAt,
		UpdatedAt:     s.updatedAt,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	artifacts := []struct {
		name string
		data []byte
	}{
		{documentsFile, docs},
		{embeddingsFile, s.encodeMatrix()},
		{metadataFile, meta},
	}
	for _, a := range artifacts {
		if err := writeAtomic(s.dir, a.name, a.data); err != nil {
			return err
		}
	}
	return nil
}

// load reads a previous snapshot if one exists and re-derives the
// row-span index. A missing snapshot means a fresh store.
func (s *Store) load() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	meta, err := os.ReadFile(filepath.Join(s.dir, metadataFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading store metadata: %w", err)
	}

	var m metadataRecord
	if err := json.Unmarshal(meta, &m); err != nil {
		return fmt.Errorf("parsing store metadata: %w", err)
	}
	if m.SchemaVersion != schemaVersion {
		return fmt.Errorf("unsupported store schema version %d", m.SchemaVersion)
	}

	docsData, err := os.ReadFile(filepath.Join(s.dir, documentsFile))
	if err != nil {
		return fmt.Errorf("reading documents: %w", err)
	}
	var docs documentsRecord
	if err := json.Unmarshal(docsData, &docs); err != nil {
		return fmt.Errorf("parsing documents: %w", err)
	}

	matrixData, err := os.ReadFile(filepath.Join(s.dir, embeddingsFile))
	if err != nil {
		return fmt.Errorf("reading embedding matrix: %w", err)
	}
	dim, matrix, err := decodeMatrix(matrixData)
	if err != nil {
		return err
	}

	records := make([]record, len(docs.Documents))
	chunkTotal := 0
	for i, d := range docs.Documents {
		records[i] = d.toRecord()
		chunkTotal += len(d.Chunks)
	}
	if chunkTotal != len(matrix) {
		return fmt.Errorf("snapshot is inconsistent: %d chunks with %d embedding rows",
			chunkTotal, len(matrix))
	}
	if m.Dimension != dim {
		return fmt.Errorf("snapshot is inconsistent: metadata dimension %d, matrix dimension %d",
			m.Dimension, dim)
	}

	s.docs = records
	s.matrix = matrix
	s.dimension = dim
	s.createdAt = m.CreatedAt
	s.updatedAt = m.UpdatedAt
	s.deriveOffsets()
	return nil
}

func (s *Store) documentsSnapshot() documentsRecord {
	out := documentsRecord{Documents: make([]documentRecord, len(s.docs))}
	for i, rec := range s.docs {
		chunks := make([]chunkRecord, len(rec.chunks))
		for j, c := range rec.chunks {
			chunks[j] = chunkRecord{
				ID:         c.ID,
				Text:       c.Text,
				StartPos:   c.StartPos,
				EndPos:     c.EndPos,
				Length:     c.Length,
				PageNumber: c.PageNumber,
			}
		}
		out.Documents[i] = documentRecord{
			ID:          rec.doc.ID,
			SourceID:    rec.doc.SourceID,
			URI:         rec.doc.URI,
			Name:        rec.doc.Name,
			MIMEType:    rec.doc.MIMEType,
			ContentHash: rec.doc.ContentHash,
			SizeBytes:   rec.doc.SizeBytes,
			WordCount:   rec.doc.WordCount,
			AddedAt:     rec.doc.AddedAt,
			Chunks:      chunks,
		}
	}
	return out
}

func (d documentRecord) toRecord() record {
	chunks := make([]domain.Chunk, len(d.Chunks))
	for i, c := range d.Chunks {
		chunks[i] = domain.Chunk{
			ID:         c.ID,
			Text:       c.Text,
			StartPos:   c.StartPos,
			EndPos:     c.EndPos,
			Length:     c.Length,
			PageNumber: c.PageNumber,
		}
	}
	return record{
		doc: domain.Document{
			ID:          d.ID,
			SourceID:    d.SourceID,
			URI:         d.URI,
			Name:        d.Name,
			MIMEType:    d.MIMEType,
			ContentHash: d.ContentHash,
			SizeBytes:   d.SizeBytes,
			WordCount:   d.WordCount,
			ChunkCount:  len(d.Chunks),
			AddedAt:     d.AddedAt,
		},
		chunks: chunks,
	}
}

// encodeMatrix serialises the matrix as a fixed header followed by
// row-major little-endian float32 data.
func (s *Store) encodeMatrix() []byte {
	buf := make([]byte, matrixHeaderSize+len(s.matrix)*s.dimension*4)
	copy(buf[0:4], embeddingsMagic[:])
	binary.LittleEndian.PutUint32(buf[4:8], uint32(s.dimension))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(s.matrix)))

	off := matrixHeaderSize
	for _, row := range s.matrix {
		for _, f := range row {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
			off += 4
		}
	}
	return buf
}

// decodeMatrix parses an encoded matrix, validating the header against
// the payload length.
func decodeMatrix(data []byte) (int, [][]float32, error) {
	if len(data) < matrixHeaderSize {
		return 0, nil, errors.New("embedding matrix is truncated")
	}
	if !bytes.Equal(data[0:4], embeddingsMagic[:]) {
		return 0, nil, errors.New("embedding matrix has an unknown format")
	}

	dim := int(binary.LittleEndian.Uint32(data[4:8]))
	count := int(binary.LittleEndian.Uint32(data[8:12]))
	want := matrixHeaderSize + count*dim*4
	if len(data) != want {
		return 0, nil, fmt.Errorf("embedding matrix is %d bytes, expected %d", len(data), want)
	}

	matrix := make([][]float32, count)
	off := matrixHeaderSize
	for i := range matrix {
		row := make([]float32, dim)
		for j := range row {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		matrix[i] = row
	}
	return dim, matrix, nil
}

// writeAtomic writes data to a temp file in dir and renames it over name,
// so a crash mid-write never leaves a partial artifact behind.
func writeAtomic(dir, name string, data []byte) error {
	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
