package filesystem

import "strings"

// ResolveWebURL turns a file:// URI back into the plain path it was
// recorded from. Anything else is already openable and passes through.
func ResolveWebURL(uri string, _ map[string]any) string {
	return strings.TrimPrefix(uri, "file://")
}
