// Package file persists configuration under the user's config
// directory as hand-editable files.
//
// ConfigStore and SourceStore keep settings and source definitions in
// TOML; PromptStore keeps LLM prompt templates as plain text files the
// user can edit without rebuilding. All three tolerate missing files,
// falling back to defaults.
package file
