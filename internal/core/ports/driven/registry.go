package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// NormaliserRegistry routes raw documents to a normaliser by MIME type,
// preferring the highest-priority candidate when several claim a type.
type NormaliserRegistry interface {
	// Normalise transforms a raw document using the best matching
	// normaliser. Returns ErrUnsupportedType when no normaliser claims
	// the document's MIME type.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// Register makes a normaliser available for the types it supports.
	Register(normaliser Normaliser)

	// SupportedMIMETypes lists every type some registered normaliser
	// accepts, for reporting in errors and diagnostics.
	SupportedMIMETypes() []string
}
