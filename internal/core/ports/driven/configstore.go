package driven

// ConfigStore persists application configuration as a flat key/value
// namespace. Keys are dotted paths such as "embedding.provider" or
// "scheduler.source-refresh.last_run".
//
// Typed getters never fail: a missing key or a value of the wrong type
// yields the zero value, so callers layer their own defaults on top.
// Set writes through to the backing store before returning.
type ConfigStore interface {
	// Get returns the raw value stored under key.
	Get(key string) (any, bool)

	// GetString returns the string under key, or "" when the key is
	// absent or holds another type.
	GetString(key string) string

	// GetInt returns the integer under key, or 0 when the key is
	// absent or holds another type. Numeric values decoded as int64
	// or float64 are converted.
	GetInt(key string) int

	// GetBool returns the boolean under key, or false when the key is
	// absent or holds another type.
	GetBool(key string) bool

	// Set stores value under key and persists the change.
	Set(key string, value any) error

	// Path describes where the configuration lives, for status output.
	Path() string
}
