package domain

// RawDocument is a connector's output before normalisation: the fetched
// bytes plus enough context to route them through the right normaliser.
type RawDocument struct {
	// SourceID identifies the source the connector was syncing for.
	SourceID string

	// URI locates the document within its source. Filesystem sources
	// use plain paths; remote sources use scheme-qualified identifiers
	// such as github://owner/repo/blob/main/README.md.
	URI string

	// MIMEType hints which normaliser should decode Content.
	MIMEType string

	// Content holds the fetched bytes, undecoded.
	Content []byte

	// Metadata carries connector-specific annotations (file size, web
	// links, revision IDs). It is not persisted past normalisation.
	Metadata map[string]any
}

// ChangeType classifies an event on a connector's watch feed.
type ChangeType int

const (
	// ChangeCreated signals a document new to the source.
	ChangeCreated ChangeType = iota

	// ChangeUpdated signals modified content at a known URI.
	ChangeUpdated

	// ChangeDeleted signals the document is gone from the source.
	ChangeDeleted
)

// String renders the change type for log lines.
func (t ChangeType) String() string {
	switch t {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// RawDocumentChange is one event on a watch feed. For deletions only
// the document's URI is populated.
type RawDocumentChange struct {
	Type     ChangeType
	Document RawDocument
}
