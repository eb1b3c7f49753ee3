package drive

import (
	"context"
	"testing"

	drv "google.golang.org/api/drive/v3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/connectors/google"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Credentials = google.Credentials{AccessToken: "test-token"}
	return cfg
}

func TestNew(t *testing.T) {
	t.Run("creates connector with valid parameters", func(t *testing.T) {
		connector := New("test-source", testConfig())

		require.NotNil(t, connector)
		assert.Equal(t, "test-source", connector.SourceID())
		assert.Equal(t, "googledrive", connector.Type())
	})

	t.Run("implements Connector interface", func(t *testing.T) {
		connector := New("test", testConfig())
		var _ driven.Connector = connector
	})
}

func TestFromSource(t *testing.T) {
	t.Run("builds connector from config", func(t *testing.T) {
		source := domain.Source{
			ID:   "src-1",
			Type: "googledrive",
			Config: map[string]string{
				"client_id":     "cid",
				"client_secret": "secret",
				"refresh_token": "refresh",
				"folder_ids":    "folder-a, folder-b",
				"max_results":   "50",
			},
		}

		conn, err := FromSource(source)

		require.NoError(t, err)
		assert.Equal(t, "src-1", conn.SourceID())
		assert.Equal(t, "googledrive", conn.Type())

		c, ok := conn.(*Connector)
		require.True(t, ok)
		assert.Equal(t, "refresh", c.config.Credentials.RefreshToken)
		assert.Equal(t, []string{"folder-a", "folder-b"}, c.config.FolderIDs)
		assert.Equal(t, int64(50), c.config.MaxResults)
	})

	t.Run("missing credentials are rejected", func(t *testing.T) {
		source := domain.Source{
			ID:     "src-1",
			Type:   "googledrive",
			Config: map[string]string{"folder_ids": "folder-a"},
		}

		conn, err := FromSource(source)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Nil(t, conn)
	})
}

func TestConnector_Capabilities(t *testing.T) {
	t.Run("returns expected capabilities", func(t *testing.T) {
		connector := New("test", testConfig())

		caps := connector.Capabilities()

		assert.False(t, caps.SupportsWatch, "should not support watch")
		assert.True(t, caps.SupportsValidation, "should support validation")
		assert.True(t, caps.RequiresAuth, "API access needs credentials")
		assert.True(t, caps.SupportsRateLimiting, "should throttle API usage")
	})
}

func TestConnector_Close(t *testing.T) {
	t.Run("close succeeds", func(t *testing.T) {
		connector := New("test", testConfig())

		assert.NoError(t, connector.Close())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		connector := New("test", testConfig())

		assert.NoError(t, connector.Close())
		assert.NoError(t, connector.Close())
	})
}

func TestConnector_Watch(t *testing.T) {
	t.Run("watch is not supported", func(t *testing.T) {
		connector := New("test", testConfig())

		changes, err := connector.Watch(context.Background())

		assert.Nil(t, changes)
		assert.ErrorIs(t, err, domain.ErrNotImplemented)
	})
}

func TestConnector_Validate(t *testing.T) {
	t.Run("closed connector is rejected", func(t *testing.T) {
		connector := New("test", testConfig())
		require.NoError(t, connector.Close())

		err := connector.Validate(context.Background())

		assert.ErrorIs(t, err, domain.ErrConnectorClosed)
	})

	t.Run("context cancellation", func(t *testing.T) {
		connector := New("test", testConfig())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := connector.Validate(ctx)

		assert.Equal(t, context.Canceled, err)
	})

	t.Run("missing credentials surface from token source", func(t *testing.T) {
		connector := New("test", DefaultConfig())

		err := connector.Validate(context.Background())

		assert.ErrorIs(t, err, google.ErrMissingCredentials)
	})
}

func TestConnector_FullSync_Closed(t *testing.T) {
	t.Run("closed connector reports error", func(t *testing.T) {
		connector := New("test", testConfig())
		require.NoError(t, connector.Close())

		docsCh, errsCh := connector.FullSync(context.Background())

		for range docsCh {
			t.Fatal("expected no documents from a closed connector")
		}
		err := <-errsCh
		assert.ErrorIs(t, err, domain.ErrConnectorClosed)
	})
}

func TestConnector_ListQuery(t *testing.T) {
	t.Run("excludes trashed files by default", func(t *testing.T) {
		connector := New("test", testConfig())

		assert.Equal(t, "trashed = false", connector.listQuery())
	})

	t.Run("scopes to configured folders", func(t *testing.T) {
		cfg := testConfig()
		cfg.FolderIDs = []string{"folder-a"}
		connector := New("test", cfg)

		assert.Equal(t, "trashed = false and ('folder-a' in parents)", connector.listQuery())
	})

	t.Run("joins multiple folders with or", func(t *testing.T) {
		cfg := testConfig()
		cfg.FolderIDs = []string{"a", "b"}
		connector := New("test", cfg)

		assert.Equal(t, "trashed = false and ('a' in parents or 'b' in parents)", connector.listQuery())
	})
}

func TestParseConfig(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		source := domain.Source{
			ID:     "src-1",
			Type:   "googledrive",
			Config: map[string]string{"access_token": "tok"},
		}

		cfg, err := ParseConfig(source)

		require.NoError(t, err)
		assert.Equal(t, DefaultContentTypes, cfg.ContentTypes)
		assert.Equal(t, int64(100), cfg.MaxResults)
		assert.Empty(t, cfg.FolderIDs)
		assert.Empty(t, cfg.MimeTypeFilter)
	})

	t.Run("parses content types", func(t *testing.T) {
		source := domain.Source{
			ID:   "src-1",
			Type: "googledrive",
			Config: map[string]string{
				"access_token":  "tok",
				"content_types": "docs, sheets",
			},
		}

		cfg, err := ParseConfig(source)

		require.NoError(t, err)
		assert.Equal(t, []ContentType{ContentDocs, ContentSheets}, cfg.ContentTypes)
	})

	t.Run("drops invalid content types", func(t *testing.T) {
		source := domain.Source{
			ID:   "src-1",
			Type: "googledrive",
			Config: map[string]string{
				"access_token":  "tok",
				"content_types": "docs, bogus",
			},
		}

		cfg, err := ParseConfig(source)

		require.NoError(t, err)
		assert.Equal(t, []ContentType{ContentDocs}, cfg.ContentTypes)
	})

	t.Run("parses mime type filter", func(t *testing.T) {
		source := domain.Source{
			ID:   "src-1",
			Type: "googledrive",
			Config: map[string]string{
				"access_token": "tok",
				"mime_types":   "text/plain, text/markdown",
			},
		}

		cfg, err := ParseConfig(source)

		require.NoError(t, err)
		assert.Equal(t, []string{"text/plain", "text/markdown"}, cfg.MimeTypeFilter)
	})

	t.Run("ignores invalid max_results", func(t *testing.T) {
		source := domain.Source{
			ID:   "src-1",
			Type: "googledrive",
			Config: map[string]string{
				"access_token": "tok",
				"max_results":  "not-a-number",
			},
		}

		cfg, err := ParseConfig(source)

		require.NoError(t, err)
		assert.Equal(t, int64(100), cfg.MaxResults)
	})

	t.Run("requires credentials", func(t *testing.T) {
		source := domain.Source{
			ID:     "src-1",
			Type:   "googledrive",
			Config: map[string]string{},
		}

		cfg, err := ParseConfig(source)

		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestConfig_HasContentType(t *testing.T) {
	tests := []struct {
		name         string
		contentTypes []ContentType
		check        ContentType
		want         bool
	}{
		{
			name:         "has docs content type",
			contentTypes: []ContentType{ContentDocs, ContentFiles},
			check:        ContentDocs,
			want:         true,
		},
		{
			name:         "does not have sheets content type",
			contentTypes: []ContentType{ContentDocs},
			check:        ContentSheets,
			want:         false,
		},
		{
			name:         "empty content types returns false",
			contentTypes: []ContentType{},
			check:        ContentFiles,
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ContentTypes: tt.contentTypes}
			got := cfg.HasContentType(tt.check)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShouldSyncFile(t *testing.T) {
	tests := []struct {
		name string
		file *drv.File
		cfg  *Config
		want bool
	}{
		{
			name: "regular file is synced",
			file: &drv.File{MimeType: "text/plain"},
			cfg:  DefaultConfig(),
			want: true,
		},
		{
			name: "folder is skipped",
			file: &drv.File{MimeType: mimeFolder},
			cfg:  DefaultConfig(),
			want: false,
		},
		{
			name: "trashed file is skipped",
			file: &drv.File{MimeType: "text/plain", Trashed: true},
			cfg:  DefaultConfig(),
			want: false,
		},
		{
			name: "google doc follows docs content type",
			file: &drv.File{MimeType: mimeGoogleDoc},
			cfg:  &Config{ContentTypes: []ContentType{ContentFiles}},
			want: false,
		},
		{
			name: "google sheet follows sheets content type",
			file: &drv.File{MimeType: mimeGoogleSheet},
			cfg:  &Config{ContentTypes: []ContentType{ContentSheets}},
			want: true,
		},
		{
			name: "mime filter excludes other types",
			file: &drv.File{MimeType: "text/plain"},
			cfg:  &Config{ContentTypes: DefaultContentTypes, MimeTypeFilter: []string{"text/markdown"}},
			want: false,
		},
		{
			name: "mime filter admits matching types",
			file: &drv.File{MimeType: "text/markdown"},
			cfg:  &Config{ContentTypes: DefaultContentTypes, MimeTypeFilter: []string{"text/markdown"}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldSyncFile(tt.file, tt.cfg)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsTextFile(t *testing.T) {
	t.Run("text types are recognised", func(t *testing.T) {
		assert.True(t, isTextFile("text/plain"))
		assert.True(t, isTextFile("text/markdown"))
		assert.True(t, isTextFile("application/json"))
		assert.True(t, isTextFile("application/xml"))
	})

	t.Run("binary types are rejected", func(t *testing.T) {
		assert.False(t, isTextFile("image/png"))
		assert.False(t, isTextFile("application/pdf"))
		assert.False(t, isTextFile("application/octet-stream"))
	})
}

func TestBuildFilePath(t *testing.T) {
	t.Run("root file", func(t *testing.T) {
		file := &drv.File{Name: "notes.txt"}

		assert.Equal(t, "/notes.txt", buildFilePath(file))
	})

	t.Run("file with parent", func(t *testing.T) {
		file := &drv.File{Name: "notes.txt", Parents: []string{"folder-a"}}

		assert.Equal(t, "/folder-a/notes.txt", buildFilePath(file))
	})
}
