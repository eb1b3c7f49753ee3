// Package list renders retrieved chunks as a navigable selection list.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ResultList shows search results or answer sources with a moving
// selection cursor. The parent model drives it directly through MoveUp
// and MoveDown; it is a plain view component, not a tea.Model.
type ResultList struct {
	styles        *styles.Styles
	title         string
	results       []domain.SearchResult
	selected      int
	width, height int
}

// NewResultList creates an empty list titled "Results".
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		title:  "Results",
		width:  80,
		height: 10,
	}
}

// View renders the visible window of the list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	header := r.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", r.title, len(r.results)))

	start, end := r.visibleRange()
	lines := make([]string, 0, (end-start)+2)
	lines = append(lines, header, "")
	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}

	return strings.Join(lines, "\n")
}

// visibleRange picks the window of entries to draw so the selection
// stays on screen. Each entry occupies three lines.
func (r *ResultList) visibleRange() (start, end int) {
	capacity := (r.height - 4) / 3
	if capacity < 1 {
		capacity = 1
	}

	start = r.selected - capacity + 1
	if start < 0 {
		start = 0
	}
	end = start + capacity
	if n := len(r.results); end > n {
		end = n
	}
	return start, end
}

// renderResult draws one entry: document name with score, location
// within the document, then a preview of the chunk text.
func (r *ResultList) renderResult(index int, result *domain.SearchResult) string {
	selected := index == r.selected
	prefix := "  "
	if selected {
		prefix = "> "
	}

	name := result.DocumentName
	if name == "" {
		name = "(untitled)"
	}
	nameWidth := r.width - 20
	if nameWidth < 10 {
		nameWidth = 10
	}
	label := fmt.Sprintf("%s%-*s", prefix, nameWidth, truncate(name, nameWidth))

	var titleLine string
	if selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s  %.2f", label, result.Score))
	} else {
		titleLine = r.styles.Normal.Render(label+"  ") +
			r.styles.Muted.Render(fmt.Sprintf("%.2f", result.Score))
	}

	locationLine := r.styles.Subtitle.Render("    " + r.location(result))

	previewWidth := r.width - 6
	if previewWidth < 20 {
		previewWidth = 20
	}
	previewLine := r.styles.Muted.Render("    " + truncate(result.ChunkText, previewWidth))

	return titleLine + "\n" + locationLine + "\n" + previewLine
}

// location formats the position of a result within its document.
func (r *ResultList) location(result *domain.SearchResult) string {
	if result.PageNumber > 0 {
		return fmt.Sprintf("page %d · chunk %d", result.PageNumber, result.ChunkID)
	}
	return fmt.Sprintf("chunk %d", result.ChunkID)
}

// truncate shortens s to at most max bytes, ending in an ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// SetResults replaces the list contents and resets the selection.
func (r *ResultList) SetResults(results []domain.SearchResult) {
	r.results = results
	r.selected = 0
}

// Results returns the current entries.
func (r *ResultList) Results() []domain.SearchResult {
	return r.results
}

// SetTitle sets the header label ("Results" or "Sources").
func (r *ResultList) SetTitle(title string) {
	r.title = title
}

// Selected returns the index of the highlighted entry.
func (r *ResultList) Selected() int {
	return r.selected
}

// MoveUp moves the selection towards the top.
func (r *ResultList) MoveUp() { r.move(-1) }

// MoveDown moves the selection towards the bottom.
func (r *ResultList) MoveDown() { r.move(1) }

// move shifts the selection by delta, staying inside the list bounds.
func (r *ResultList) move(delta int) {
	next := r.selected + delta
	if next >= 0 && next < len(r.results) {
		r.selected = next
	}
}

// SetDimensions tells the list how much room it has to draw in.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}
