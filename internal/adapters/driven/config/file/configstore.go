package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore persists configuration in a TOML file under the docqa
// config directory. In memory the store holds flat dotted keys such as
// "embedding.provider"; on disk those become TOML tables, so the file
// stays hand-editable:
//
//	[embedding]
//	provider = "ollama"
//
// Every Set writes the whole file back with restricted permissions,
// since API keys may be among the values.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	entries  map[string]any
}

// NewConfigStore opens (or starts) the configuration at
// configDir/config.toml. An empty configDir defaults to ~/.docqa.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(home, ".docqa")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		entries:  make(map[string]any),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the raw value stored under key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok
}

// GetString returns the string under key, or "" for absent or
// non-string values.
func (s *ConfigStore) GetString(key string) string {
	value, _ := s.Get(key)
	str, _ := value.(string)
	return str
}

// GetInt returns the integer under key. go-toml decodes integers as
// int64; anything non-numeric yields 0.
func (s *ConfigStore) GetInt(key string) int {
	value, ok := s.Get(key)
	if !ok {
		return 0
	}
	switch n := value.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

// GetBool returns the boolean under key, or false for absent or
// non-boolean values.
func (s *ConfigStore) GetBool(key string) bool {
	value, _ := s.Get(key)
	b, _ := value.(bool)
	return b
}

// Set stores value under key and writes the file back immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return s.persist()
}

// Path returns the location of the TOML file.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// load reads the TOML file into flat dotted keys. A missing file is
// not an error; the store simply starts empty.
func (s *ConfigStore) load() error {
	raw, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.filePath, err)
	}

	var tables map[string]any
	if err := toml.Unmarshal(raw, &tables); err != nil {
		return fmt.Errorf("parsing %s: %w", s.filePath, err)
	}

	s.entries = make(map[string]any)
	flattenInto(s.entries, "", tables)
	return nil
}

// persist writes the entries back as nested TOML tables. Caller must
// hold the lock.
func (s *ConfigStore) persist() error {
	raw, err := toml.Marshal(nest(s.entries))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.filePath, raw, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", s.filePath, err)
	}
	return nil
}

// flattenInto walks nested TOML tables and records each leaf under its
// dotted key path.
func flattenInto(dst map[string]any, prefix string, tables map[string]any) {
	for key, value := range tables {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if table, ok := value.(map[string]any); ok {
			flattenInto(dst, path, table)
			continue
		}
		dst[path] = value
	}
}

// nest rebuilds nested tables from dotted keys, so "embedding.provider"
// lands in the [embedding] section of the saved file.
func nest(entries map[string]any) map[string]any {
	root := make(map[string]any)
	for key, value := range entries {
		segments := strings.Split(key, ".")
		table := root
		for _, segment := range segments[:len(segments)-1] {
			child, ok := table[segment].(map[string]any)
			if !ok {
				child = make(map[string]any)
				table[segment] = child
			}
			table = child
		}
		table[segments[len(segments)-1]] = value
	}
	return root
}
