// Package domain holds the entities the rest of docqa is built
// around. It sits at the centre of the hexagonal architecture: every
// other package imports domain, and domain imports nothing but the
// standard library.
//
// The fundamental types:
//
//   - Document: an ingested document with its metadata
//   - Chunk: a bounded segment of document text, the retrieval unit
//   - SearchResult: one retrieval hit with its score
//   - Answer: a generated answer with the chunks that informed it
//   - Source: a configured data source
//   - RawDocument: opaque bytes handed over by a connector
//
// The package also owns the page marker protocol shared by text
// extraction and chunking (see pagemarker.go), and the sentinel
// errors adapters translate their failures into.
package domain
