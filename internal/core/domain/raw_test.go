package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeType_String(t *testing.T) {
	assert.Equal(t, "created", ChangeCreated.String())
	assert.Equal(t, "updated", ChangeUpdated.String())
	assert.Equal(t, "deleted", ChangeDeleted.String())
	assert.Equal(t, "unknown", ChangeType(42).String())
}

func TestChangeType_FormatsInLogMessages(t *testing.T) {
	change := RawDocumentChange{
		Type:     ChangeUpdated,
		Document: RawDocument{URI: "/srv/docs/setup.md"},
	}
	assert.Equal(t, "updated /srv/docs/setup.md",
		fmt.Sprintf("%s %s", change.Type, change.Document.URI))
}
