package domain

// ConnectorType describes a supported connector kind: the metadata the
// CLI needs to list it, configure a source for it, and turn its stored
// document URIs back into openable locations.
type ConnectorType struct {
	// ID is the unique identifier (e.g., "filesystem", "github", "googledrive").
	ID string

	// Name is the human-readable display name.
	Name string

	// Description is a one-line explanation of what the connector indexes.
	Description string

	// URIScheme is the scheme this connector writes into document URIs
	// (e.g., "file", "github", "gdrive").
	URIScheme string

	// ConfigKeys lists the source configuration fields the connector reads.
	ConfigKeys []ConfigKey

	// WebURLResolver converts document URIs to openable locations.
	// If nil, the URI is used as-is.
	WebURLResolver WebURLResolver
}

// WebURLResolver converts a document URI to an openable URL or path.
// Connector metadata, when available, refines the result. Returns the
// empty string when the URI is not one this resolver understands.
type WebURLResolver func(uri string, metadata map[string]any) string

// ConfigKey describes one configuration field a connector accepts.
type ConfigKey struct {
	// Key is the configuration key name.
	Key string

	// Label is the human-readable label for display.
	Label string

	// Description explains what the field is for.
	Description string

	// Default is used when the field is left unset.
	Default string

	// Required marks fields a source cannot be created without.
	Required bool

	// Secret marks values that should be masked when displayed.
	Secret bool
}
