package list

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

func testResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			DocumentID:   "doc-1",
			DocumentName: "guide.md",
			ChunkID:      0,
			ChunkText:    "Install the tool with the package manager.",
			Score:        0.91,
		},
		{
			DocumentID:   "doc-2",
			DocumentName: "notes.txt",
			ChunkID:      3,
			ChunkText:    "Remember to configure the index directory.",
			Score:        0.74,
			PageNumber:   2,
		},
	}
}

func TestNewResultList(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())

	require.NotNil(t, list)
	assert.Equal(t, 0, list.Selected())
	assert.Empty(t, list.Results())
}

func TestNewResultList_NilStyles(t *testing.T) {
	list := NewResultList(nil)

	require.NotNil(t, list)
	assert.NotNil(t, list.styles)
}

func TestResultList_SetResults_ResetsSelection(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(testResults())
	list.MoveDown()
	require.Equal(t, 1, list.Selected())

	list.SetResults(testResults())

	assert.Equal(t, 0, list.Selected())
	assert.Len(t, list.Results(), 2)
}

func TestResultList_View_Empty(t *testing.T) {
	list := NewResultList(nil)

	assert.Contains(t, list.View(), "No results")
}

func TestResultList_View_RendersResults(t *testing.T) {
	list := NewResultList(nil)
	list.SetDimensions(120, 30)
	list.SetResults(testResults())

	view := list.View()

	assert.Contains(t, view, "Results (2)")
	assert.Contains(t, view, "guide.md")
	assert.Contains(t, view, "0.91")
	assert.Contains(t, view, "chunk 0")
	assert.Contains(t, view, "Install the tool")
}

func TestResultList_View_PageLocation(t *testing.T) {
	list := NewResultList(nil)
	list.SetDimensions(120, 30)
	list.SetResults(testResults())

	assert.Contains(t, list.View(), "page 2 · chunk 3")
}

func TestResultList_View_CustomTitle(t *testing.T) {
	list := NewResultList(nil)
	list.SetDimensions(120, 30)
	list.SetResults(testResults())
	list.SetTitle("Sources")

	assert.Contains(t, list.View(), "Sources (2)")
}

func TestResultList_View_UntitledDocument(t *testing.T) {
	list := NewResultList(nil)
	list.SetDimensions(120, 30)
	list.SetResults([]domain.SearchResult{{ChunkText: "text", Score: 0.5}})

	assert.Contains(t, list.View(), "(untitled)")
}

func TestResultList_View_TruncatesLongNames(t *testing.T) {
	list := NewResultList(nil)
	list.SetDimensions(40, 30)
	longName := strings.Repeat("x", 60) + ".md"
	list.SetResults([]domain.SearchResult{{DocumentName: longName, ChunkText: "text", Score: 0.5}})

	view := list.View()

	assert.NotContains(t, view, longName)
	assert.Contains(t, view, "...")
}

func TestResultList_View_WindowFollowsSelection(t *testing.T) {
	list := NewResultList(nil)
	// Height 10 leaves room for two entries at a time.
	list.SetDimensions(120, 10)
	results := make([]domain.SearchResult, 4)
	for i := range results {
		results[i] = domain.SearchResult{
			DocumentName: fmt.Sprintf("doc-%d.md", i),
			ChunkText:    "text",
			Score:        0.5,
		}
	}
	list.SetResults(results)

	assert.Contains(t, list.View(), "doc-0.md")
	assert.NotContains(t, list.View(), "doc-3.md")

	for range results {
		list.MoveDown()
	}

	view := list.View()
	assert.Contains(t, view, "doc-3.md")
	assert.NotContains(t, view, "doc-0.md")
}

func TestResultList_Navigation(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(testResults())

	list.MoveDown()
	assert.Equal(t, 1, list.Selected())

	// Clamped at the end.
	list.MoveDown()
	assert.Equal(t, 1, list.Selected())

	list.MoveUp()
	assert.Equal(t, 0, list.Selected())

	// Clamped at the start.
	list.MoveUp()
	assert.Equal(t, 0, list.Selected())
}
