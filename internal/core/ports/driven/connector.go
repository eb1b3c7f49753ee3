package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Connector pulls documents out of one configured source. Filesystem,
// GitHub and Google Drive each provide an implementation; the sync
// service drives them all through this interface.
type Connector interface {
	// Type identifies the connector implementation ("filesystem",
	// "github", "googledrive").
	Type() string

	// SourceID names the source this connector was built for.
	SourceID() string

	// Capabilities reports which optional behaviours the connector
	// implements.
	Capabilities() ConnectorCapabilities

	// Validate verifies the connector could sync right now: API
	// connectors make a test call, filesystem checks the root path
	// is readable. A nil return means ready.
	Validate(ctx context.Context) error

	// FullSync streams every document in the source. Both channels
	// close once the walk finishes or ctx is cancelled.
	FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error)

	// Watch streams change events as they happen. Callers must check
	// SupportsWatch first; connectors without it return an error.
	Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error)

	// Close releases any held connections or watches.
	Close() error
}

// ConnectorCapabilities flags the optional behaviours a connector
// implements.
type ConnectorCapabilities struct {
	// SupportsWatch marks connectors that can push change events.
	SupportsWatch bool

	// SupportsValidation marks connectors whose Validate performs a
	// real probe rather than always succeeding.
	SupportsValidation bool

	// RequiresAuth marks connectors that need credential material in
	// their source config. Local connectors leave it false.
	RequiresAuth bool

	// SupportsRateLimiting marks connectors that throttle their own
	// API usage. Informational only.
	SupportsRateLimiting bool
}
