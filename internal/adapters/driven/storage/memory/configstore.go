package memory

import (
	"sync"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps configuration in a mutex-guarded map. It backs
// service tests that need a ConfigStore without touching disk; the
// process exit discards everything.
type ConfigStore struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewConfigStore returns an empty in-memory configuration store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{entries: make(map[string]any)}
}

// Seed copies the given values into the store and returns it, so
// fixtures can be built in one expression.
func (s *ConfigStore) Seed(values map[string]any) *ConfigStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range values {
		s.entries[key] = value
	}
	return s
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

// GetInt returns the integer under key. Values stored as int64 or
// float64 are converted; anything else yields 0.
func (s *ConfigStore) GetInt(key string) int {
	value, ok := s.Get(key)
	if !ok {
		return 0
	}
	switch n := value.(type) {
	case int:
		return n
	case int64:
		return int(n)
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

// Set stores value under key. The memory store has nothing further to
// persist, so Set never fails.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Path identifies the store in status output.
func (s *ConfigStore) Path() string {
	return ":memory:"
}
