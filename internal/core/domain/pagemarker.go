package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"
)

// Page markers are the in-band protocol between text extraction and
// chunking. A normaliser that knows page boundaries writes a marker line
// before each page's text; the chunker resolves every chunk to the nearest
// preceding marker. All producers and consumers go through this file so
// the convention is matched consistently everywhere. Text without markers
// is always valid.

// pageMarkerFormat is the canonical marker written by producers.
const pageMarkerFormat = "--- Page %d ---"

// PageMarkerPattern recognises page markers, tolerating extra whitespace.
var PageMarkerPattern = regexp.MustCompile(`---\s*Page\s*(\d+)\s*---`)

// PageMarker renders the marker for a 1-based page number.
func PageMarker(page int) string {
	return fmt.Sprintf(pageMarkerFormat, page)
}

// PageMark is one marker occurrence within a text.
type PageMark struct {
	// Offset is the rune offset of the marker's first character.
	Offset int

	// Page is the 1-based page number the marker carries.
	Page int
}

// PageMarks scans text for page markers in document order.
// Offsets are rune offsets so they compose with rune-based chunking.
// Returns nil when the text carries no markers.
func PageMarks(text string) []PageMark {
	matches := PageMarkerPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	marks := make([]PageMark, 0, len(matches))
	byteOff, runeOff := 0, 0
	for _, m := range matches {
		// Advance the byte→rune offset conversion to the match start.
		// Matches arrive in ascending order, so one forward pass suffices.
		for byteOff < m[0] {
			_, size := utf8.DecodeRuneInString(text[byteOff:])
			byteOff += size
			runeOff++
		}
		page, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || page < 1 {
			continue
		}
		marks = append(marks, PageMark{Offset: runeOff, Page: page})
	}
	if len(marks) == 0 {
		return nil
	}
	return marks
}

// PageAt returns the page number in force at the given rune offset:
// the page of the nearest marker at or before the offset. Returns 0
// when no marker precedes it.
func PageAt(marks []PageMark, offset int) int {
	page := 0
	for _, m := range marks {
		if m.Offset > offset {
			break
		}
		page = m.Page
	}
	return page
}
