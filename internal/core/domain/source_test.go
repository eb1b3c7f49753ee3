package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSource_Fields(t *testing.T) {
	now := time.Now()
	src := Source{
		ID:   "src-1",
		Type: "filesystem",
		Name: "My Notes",
		Config: map[string]string{
			"path":    "/home/user/notes",
			"include": "*.md,*.txt",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	assert.Equal(t, "filesystem", src.Type)
	assert.Equal(t, "/home/user/notes", src.Config["path"])
	assert.Equal(t, now, src.CreatedAt)
}

func TestRawDocumentChange_Types(t *testing.T) {
	assert.NotEqual(t, ChangeCreated, ChangeUpdated)
	assert.NotEqual(t, ChangeUpdated, ChangeDeleted)

	change := RawDocumentChange{
		Type:     ChangeDeleted,
		Document: RawDocument{URI: "/gone.txt"},
	}
	assert.Equal(t, ChangeDeleted, change.Type)
	assert.Equal(t, "/gone.txt", change.Document.URI)
}
