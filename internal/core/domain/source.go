package domain

import "time"

// Source is a configured place documents come from: a filesystem
// folder, a GitHub repository, or a Google Drive folder. A connector
// built from the source turns it into a stream of raw documents.
type Source struct {
	// ID uniquely names the source; ingested documents refer back
	// to it through their SourceID.
	ID string

	// Type selects the connector implementation ("filesystem",
	// "github", "googledrive").
	Type string

	// Name is the label shown to the user.
	Name string

	// Config carries connector-specific keys: path and glob patterns
	// for filesystem, owner/repo for GitHub, folder ID and token
	// material for Google Drive.
	Config map[string]string

	// CreatedAt records when the source was first saved.
	CreatedAt time.Time

	// UpdatedAt records the most recent modification.
	UpdatedAt time.Time
}
