package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Normaliser turns one format of raw document into plain text. The
// registry picks a normaliser per document by MIME type.
type Normaliser interface {
	// SupportedMIMETypes lists the MIME types this normaliser accepts.
	SupportedMIMETypes() []string

	// Priority breaks ties when several normalisers accept a type;
	// higher wins. Format-specific normalisers sit in the 50-89
	// range, fallbacks in 1-9.
	Priority() int

	// Normalise produces a Document whose Content carries the
	// extracted text. Paged formats weave the page marker protocol
	// (domain.PageMarker) into Content so chunking can attribute
	// page numbers.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult is what normalisation hands to the post-processor
// pipeline: a document with text, not yet chunked.
type NormaliseResult struct {
	Document domain.Document
}
