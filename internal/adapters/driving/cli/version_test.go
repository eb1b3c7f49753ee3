package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_PrintsVersion(t *testing.T) {
	old := version
	version = "9.9.9-test"
	defer func() { version = old }()

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "docqa version 9.9.9-test")
}

func TestVersionCmd_JSON(t *testing.T) {
	old := version
	version = "9.9.9-test"
	defer func() {
		version = old
		outputJSON = false
	}()

	out, err := execute(t, "version", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"version": "9.9.9-test"`)
}

func TestSetVersion(t *testing.T) {
	old := version
	defer func() { version = old }()

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)

	SetVersion("")
	assert.Equal(t, "1.2.3", version, "empty version keeps the previous value")
}
