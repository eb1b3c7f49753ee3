package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// writeFile creates rel under dir, making parent directories as needed,
// and returns the absolute path.
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// collectDocs drains both sync channels, failing the test on any error.
func collectDocs(t *testing.T, docsCh <-chan domain.RawDocument, errsCh <-chan error) []domain.RawDocument {
	t.Helper()
	var docs []domain.RawDocument
	for doc := range docsCh {
		docs = append(docs, doc)
	}
	for err := range errsCh {
		require.NoError(t, err)
	}
	return docs
}

// relPaths maps synced documents back to slash-separated paths relative
// to the sync root.
func relPaths(t *testing.T, root string, docs []domain.RawDocument) []string {
	t.Helper()
	var rels []string
	for _, doc := range docs {
		rel, err := filepath.Rel(root, doc.URI)
		require.NoError(t, err)
		rels = append(rels, filepath.ToSlash(rel))
	}
	return rels
}

// awaitChange reads one change event, failing the test if none arrives.
// fsnotify delivery is asynchronous, hence the generous window.
func awaitChange(t *testing.T, changes <-chan domain.RawDocumentChange) domain.RawDocumentChange {
	t.Helper()
	select {
	case change := <-changes:
		return change
	case <-time.After(2 * time.Second):
		t.Fatal("no change event arrived")
		return domain.RawDocumentChange{}
	}
}

func TestNew(t *testing.T) {
	connector := New("src-1", "/data/docs",
		WithIncludeGlobs([]string{"*.md", "*.txt"}),
		WithExcludeGlobs([]string{"*.bak"}),
	)

	require.NotNil(t, connector)
	assert.Equal(t, "src-1", connector.sourceID)
	assert.Equal(t, "/data/docs", connector.rootPath)
	assert.Equal(t, []string{"*.md", "*.txt"}, connector.include)
	assert.Equal(t, []string{"*.bak"}, connector.exclude)
}

func TestFromSource(t *testing.T) {
	t.Run("builds connector from config", func(t *testing.T) {
		connector, err := FromSource(domain.Source{
			ID:   "src-1",
			Type: "filesystem",
			Config: map[string]string{
				"path":    "/data/docs",
				"include": "*.md, *.txt",
				"exclude": "*.bak",
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "src-1", connector.SourceID())
		assert.Equal(t, "/data/docs", connector.rootPath)
		assert.Equal(t, []string{"*.md", "*.txt"}, connector.include)
		assert.Equal(t, []string{"*.bak"}, connector.exclude)
	})

	t.Run("missing path is rejected", func(t *testing.T) {
		_, err := FromSource(domain.Source{ID: "src-1", Type: "filesystem"})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "path")
	})
}

func TestConnector_Type(t *testing.T) {
	assert.Equal(t, "filesystem", New("src-1", "/data/docs").Type())
}

func TestConnector_SourceID(t *testing.T) {
	assert.Equal(t, "src-1", New("src-1", "/data/docs").SourceID())
}

func TestConnector_Capabilities(t *testing.T) {
	caps := New("src-1", "/data/docs").Capabilities()

	assert.True(t, caps.SupportsWatch)
	assert.True(t, caps.SupportsValidation)
	assert.False(t, caps.RequiresAuth, "local files need no credentials")
	assert.False(t, caps.SupportsRateLimiting)
}

func TestConnector_FullSync_Selection(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		opts  []Option
		want  []string
	}{
		{
			name:  "every regular file",
			files: []string{"a.txt", "b.md"},
			want:  []string{"a.txt", "b.md"},
		},
		{
			name:  "nested directories are walked",
			files: []string{"root.txt", "dir1/mid.txt", "dir1/dir2/deep.txt"},
			want:  []string{"root.txt", "dir1/mid.txt", "dir1/dir2/deep.txt"},
		},
		{
			name:  "hidden files are skipped",
			files: []string{"visible.txt", ".hidden.txt"},
			want:  []string{"visible.txt"},
		},
		{
			name:  "hidden directories are pruned",
			files: []string{"readme.md", ".git/config", ".cache/data.txt"},
			want:  []string{"readme.md"},
		},
		{
			name:  "include globs narrow the walk",
			files: []string{"notes.md", "data.json", "docs/nested.md"},
			opts:  []Option{WithIncludeGlobs([]string{"*.md"})},
			want:  []string{"notes.md", "docs/nested.md"},
		},
		{
			name:  "exclude wins over include",
			files: []string{"keep.md", "drop.md"},
			opts: []Option{
				WithIncludeGlobs([]string{"*.md"}),
				WithExcludeGlobs([]string{"drop.*"}),
			},
			want: []string{"keep.md"},
		},
		{
			name: "empty directory yields nothing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			for _, rel := range tt.files {
				writeFile(t, tempDir, rel, "content")
			}

			connector := New("src-1", tempDir, tt.opts...)
			docsCh, errsCh := connector.FullSync(context.Background())

			docs := collectDocs(t, docsCh, errsCh)
			assert.ElementsMatch(t, tt.want, relPaths(t, tempDir, docs))
		})
	}
}

func TestConnector_FullSync_BadRoot(t *testing.T) {
	tests := []struct {
		name          string
		root          func(t *testing.T) string
		errorContains string
	}{
		{
			name:          "missing directory",
			root:          func(_ *testing.T) string { return "/no/such/dir" },
			errorContains: "does not exist",
		},
		{
			name: "root is a file",
			root: func(t *testing.T) string {
				return writeFile(t, t.TempDir(), "notadir.txt", "content")
			},
			errorContains: "not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docsCh, errsCh := New("src-1", tt.root(t)).FullSync(context.Background())

			for range docsCh {
			}
			err := <-errsCh
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestConnector_FullSync_CancelledContext(t *testing.T) {
	tempDir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		writeFile(t, tempDir, name, "content")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docsCh, errsCh := New("src-1", tempDir).FullSync(ctx)

	// Both channels close without hanging.
	for range docsCh {
	}
	for range errsCh {
	}
}

func TestConnector_FullSync_DocumentFields(t *testing.T) {
	tempDir := t.TempDir()
	content := "meeting notes"
	writeFile(t, tempDir, "minutes.txt", content)

	docsCh, errsCh := New("src-1", tempDir).FullSync(context.Background())
	docs := collectDocs(t, docsCh, errsCh)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "src-1", doc.SourceID)
	assert.Equal(t, filepath.Join(tempDir, "minutes.txt"), doc.URI)
	assert.Equal(t, "text/plain", doc.MIMEType)
	assert.Equal(t, []byte(content), doc.Content)

	require.NotNil(t, doc.Metadata)
	assert.Equal(t, "minutes.txt", doc.Metadata["filename"])
	assert.Equal(t, "txt", doc.Metadata["extension"])
	assert.Equal(t, int64(len(content)), doc.Metadata["size"])
	assert.Contains(t, doc.Metadata, "modified")
}

func TestConnector_Watch_Events(t *testing.T) {
	tests := []struct {
		name    string
		seed    []string
		mutate  func(dir string)
		want    domain.ChangeType
		wantURI string
	}{
		{
			name: "created file",
			mutate: func(dir string) {
				os.WriteFile(filepath.Join(dir, "notes.md"), []byte("fresh notes"), 0644) //nolint:errcheck
			},
			want:    domain.ChangeCreated,
			wantURI: "notes.md",
		},
		{
			name: "rewritten file",
			seed: []string{"draft.md"},
			mutate: func(dir string) {
				os.WriteFile(filepath.Join(dir, "draft.md"), []byte("second draft"), 0644) //nolint:errcheck
			},
			want:    domain.ChangeUpdated,
			wantURI: "draft.md",
		},
		{
			name: "removed file",
			seed: []string{"outdated.md"},
			mutate: func(dir string) {
				os.Remove(filepath.Join(dir, "outdated.md")) //nolint:errcheck
			},
			want:    domain.ChangeDeleted,
			wantURI: "outdated.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			for _, rel := range tt.seed {
				writeFile(t, tempDir, rel, "seed")
			}

			connector := New("src-1", tempDir)
			defer connector.Close() //nolint:errcheck

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			changes, err := connector.Watch(ctx)
			require.NoError(t, err)

			go func() {
				time.Sleep(50 * time.Millisecond)
				tt.mutate(tempDir)
			}()

			change := awaitChange(t, changes)
			assert.Equal(t, tt.want, change.Type)
			assert.Contains(t, change.Document.URI, tt.wantURI)
			assert.Equal(t, "src-1", change.Document.SourceID)
		})
	}
}

func TestConnector_Watch_MissingRoot(t *testing.T) {
	changes, err := New("src-1", "/no/such/dir").Watch(context.Background())

	require.Error(t, err)
	assert.Nil(t, changes)
	assert.Contains(t, err.Error(), "root path error")
}

func TestConnector_Watch_CancelClosesChannel(t *testing.T) {
	connector := New("src-1", t.TempDir())
	defer connector.Close() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	changes, err := connector.Watch(ctx)
	require.NoError(t, err)

	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("change channel stayed open after cancellation")
		}
	}
}

func TestConnector_Watch_AfterClose(t *testing.T) {
	connector := New("src-1", t.TempDir())
	require.NoError(t, connector.Close())

	changes, err := connector.Watch(context.Background())

	require.ErrorIs(t, err, domain.ErrConnectorClosed)
	assert.Nil(t, changes)
}

func TestConnector_Close(t *testing.T) {
	connector := New("src-1", "/data/docs")

	// Concurrent and repeated closes must all succeed.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, connector.Close())
		}()
	}
	wg.Wait()
	assert.NoError(t, connector.Close())

	// Accessors keep working on a closed connector.
	assert.Equal(t, "filesystem", connector.Type())
	assert.Equal(t, "src-1", connector.SourceID())
}

func TestConnector_Validate(t *testing.T) {
	tests := []struct {
		name          string
		root          func(t *testing.T) string
		errorContains string
	}{
		{
			name: "existing directory",
			root: func(t *testing.T) string { return t.TempDir() },
		},
		{
			name:          "missing path",
			root:          func(_ *testing.T) string { return "/no/such/dir" },
			errorContains: "does not exist",
		},
		{
			name: "file for a root",
			root: func(t *testing.T) string {
				return writeFile(t, t.TempDir(), "file.txt", "content")
			},
			errorContains: "not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New("src-1", tt.root(t)).Validate(context.Background())
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConnector_Validate_CancelledContext(t *testing.T) {
	connector := New("src-1", t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, connector.Validate(ctx), context.Canceled)
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		// Extensions the stdlib table misses resolve through our own.
		{"README.md", "text/markdown"},
		{"CHANGELOG.markdown", "text/markdown"},
		{"main.go", "text/x-go"},
		{"train.py", "text/x-python"},
		{"lib.rs", "text/x-rust"},
		{"Main.java", "text/x-java"},
		{"util.c", "text/x-c"},
		{"util.h", "text/x-c"},
		{"vec.cpp", "text/x-c++"},
		{"app.rb", "text/x-ruby"},
		{"index.ts", "text/typescript"},
		{"App.tsx", "text/typescript-jsx"},
		{"App.jsx", "text/javascript-jsx"},
		{"deploy.yaml", "text/yaml"},
		{"deploy.yml", "text/yaml"},
		{"config.toml", "text/toml"},
		{"setup.sh", "text/x-shellscript"},
		{"setup.bash", "text/x-shellscript"},
		{"schema.sql", "text/x-sql"},
		{"table.csv", "text/csv"},

		// Stdlib-resolved types; exact matches also prove the charset
		// parameter got stripped.
		{"data.json", "application/json"},
		{"page.html", "text/html"},
		{"style.css", "text/css"},
		{"paper.pdf", "application/pdf"},
		{"logo.png", "image/png"},
		{"photo.jpg", "image/jpeg"},

		// Extension casing does not matter.
		{"README.MD", "text/markdown"},
		{"MAIN.GO", "text/x-go"},
		{"Deploy.Yaml", "text/yaml"},

		// No extension is assumed to be text.
		{"Makefile", "text/plain"},
		{"LICENSE", "text/plain"},

		// Anything unrecognised is an opaque blob.
		{"blob.zzzzunknown", "application/octet-stream"},
		{"blob.xyzabc123", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, detectMIMEType(tt.filename))
		})
	}
}

func TestIsHidden(t *testing.T) {
	hidden := []string{
		".hidden",
		"path/to/.hidden",
		".config/file.txt",
		"dir/.git/config",
		".config/.cache/data",
	}
	for _, path := range hidden {
		assert.True(t, isHidden(path), "path %q", path)
	}

	// "." and ".." are path syntax, not hidden names; a dot inside a
	// name is not a prefix.
	visible := []string{
		"file.txt",
		"path/to/file.txt",
		"file.hidden",
		"directory.name/file",
		".",
		"..",
		"path/./file",
		"path/../file",
		"",
	}
	for _, path := range visible {
		assert.False(t, isHidden(path), "path %q", path)
	}
}

func TestHandleFsEvent_Changes(t *testing.T) {
	tests := []struct {
		name string
		op   fsnotify.Op
		gone bool
		want domain.ChangeType
	}{
		{name: "create", op: fsnotify.Create, want: domain.ChangeCreated},
		{name: "write", op: fsnotify.Write, want: domain.ChangeUpdated},
		{name: "write with chmod", op: fsnotify.Write | fsnotify.Chmod, want: domain.ChangeUpdated},
		{name: "remove", op: fsnotify.Remove, gone: true, want: domain.ChangeDeleted},
		{name: "rename away", op: fsnotify.Rename, gone: true, want: domain.ChangeDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			path := filepath.Join(tempDir, "report.txt")
			if !tt.gone {
				writeFile(t, tempDir, "report.txt", "report body")
			}

			connector := New("src-1", tempDir)
			change := connector.handleFsEvent(fsnotify.Event{Name: path, Op: tt.op})

			require.NotNil(t, change)
			assert.Equal(t, tt.want, change.Type)
			assert.Equal(t, path, change.Document.URI)
			assert.Equal(t, "src-1", change.Document.SourceID)
			if !tt.gone {
				assert.Equal(t, []byte("report body"), change.Document.Content)
			}
		})
	}
}

func TestHandleFsEvent_Ignored(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		seed func(t *testing.T, dir string) string
		op   fsnotify.Op
	}{
		{
			name: "attribute-only change",
			seed: func(t *testing.T, dir string) string {
				return writeFile(t, dir, "file.txt", "content")
			},
			op: fsnotify.Chmod,
		},
		{
			name: "directory created",
			seed: func(t *testing.T, dir string) string {
				sub := filepath.Join(dir, "subdir")
				require.NoError(t, os.Mkdir(sub, 0755))
				return sub
			},
			op: fsnotify.Create,
		},
		{
			name: "hidden file created",
			seed: func(t *testing.T, dir string) string {
				return writeFile(t, dir, ".hidden.txt", "hidden")
			},
			op: fsnotify.Create,
		},
		{
			name: "hidden file removed",
			seed: func(_ *testing.T, dir string) string {
				return filepath.Join(dir, ".hidden.txt")
			},
			op: fsnotify.Remove,
		},
		{
			name: "excluded by glob",
			opts: []Option{WithExcludeGlobs([]string{"*.log"})},
			seed: func(t *testing.T, dir string) string {
				return writeFile(t, dir, "debug.log", "log line")
			},
			op: fsnotify.Write,
		},
		{
			name: "outside the include globs",
			opts: []Option{WithIncludeGlobs([]string{"*.md"})},
			seed: func(t *testing.T, dir string) string {
				return writeFile(t, dir, "data.json", "{}")
			},
			op: fsnotify.Create,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			path := tt.seed(t, tempDir)

			connector := New("src-1", tempDir, tt.opts...)
			change := connector.handleFsEvent(fsnotify.Event{Name: path, Op: tt.op})

			assert.Nil(t, change)
		})
	}
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		rel      string
		expected bool
	}{
		{"base name match", []string{"*.md"}, "docs/readme.md", true},
		{"full path match", []string{"docs/*.md"}, "docs/readme.md", true},
		{"no match", []string{"*.txt"}, "docs/readme.md", false},
		{"empty patterns", nil, "readme.md", false},
		{"invalid pattern skipped", []string{"[", "*.md"}, "readme.md", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, matchesAny(tt.patterns, tt.rel))
		})
	}
}

func TestSplitGlobs(t *testing.T) {
	assert.Nil(t, splitGlobs(""))
	assert.Equal(t, []string{"*.md"}, splitGlobs("*.md"))
	assert.Equal(t, []string{"*.md", "*.txt"}, splitGlobs("*.md, *.txt"))
	assert.Equal(t, []string{"*.md"}, splitGlobs(" *.md , , "))
}
