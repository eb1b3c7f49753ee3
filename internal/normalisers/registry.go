package normalisers

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to normalisers by MIME type.
// Candidates for each MIME type are kept in descending priority order,
// so a format-specific normaliser wins over a fallback.
type Registry struct {
	byMIME map[string][]driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{
		byMIME: make(map[string][]driven.Normaliser),
	}
}

// Register adds a normaliser for all MIME types it supports.
func (r *Registry) Register(normaliser driven.Normaliser) {
	for _, mime := range normaliser.SupportedMIMETypes() {
		candidates := append(r.byMIME[mime], normaliser)
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Priority() > candidates[j].Priority()
		})
		r.byMIME[mime] = candidates
	}
}

// Normalise transforms a raw document using the highest-priority
// normaliser registered for its MIME type.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	candidates := r.byMIME[raw.MIMEType]
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no normaliser for MIME type %q", domain.ErrUnsupportedType, raw.MIMEType)
	}

	return candidates[0].Normalise(ctx, raw)
}

// SupportedMIMETypes returns all MIME types with a registered normaliser,
// sorted for stable output.
func (r *Registry) SupportedMIMETypes() []string {
	types := make([]string, 0, len(r.byMIME))
	for mime := range r.byMIME {
		types = append(types, mime)
	}
	sort.Strings(types)
	return types
}
