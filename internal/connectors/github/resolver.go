package github

import "strings"

// ResolveWebURL maps a github:// URI onto its github.com page. The URI
// layout mirrors the web URL path, so this is a prefix swap.
func ResolveWebURL(uri string, _ map[string]any) string {
	rest, ok := strings.CutPrefix(uri, "github://")
	if !ok {
		return ""
	}
	return "https://github.com/" + rest
}
