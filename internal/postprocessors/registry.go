package postprocessors

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Builder constructs a post-processor from its configuration map. The
// map holds whatever the user put under the processor's section of the
// config file, so builders coerce types themselves.
type Builder func(cfg map[string]any) (driven.PostProcessor, error)

// Registry resolves processor names from configuration to builders.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry returns an empty processor registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Register makes a builder available under the given name. Registering
// the same name twice replaces the earlier builder.
func (r *Registry) Register(name string, build Builder) {
	r.builders[name] = build
}

// Build constructs the named processor with the given configuration.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	build, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("no post-processor registered under %q", name)
	}
	return build(cfg)
}

// Names lists the registered processor names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
