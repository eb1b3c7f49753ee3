package drive

import "strings"

// ResolveWebURL turns a gdrive:// URI into a drive.google.com viewer
// link. A web_link recorded from the Drive API wins over the
// constructed link because Docs and Sheets open in their own editors.
func ResolveWebURL(uri string, metadata map[string]any) string {
	if link, ok := metadata["web_link"].(string); ok && link != "" {
		return link
	}
	if id, ok := strings.CutPrefix(uri, "gdrive://files/"); ok {
		return "https://drive.google.com/file/d/" + id + "/view"
	}
	return ""
}
