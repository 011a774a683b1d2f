package resolver

import "strings"

// Registry is the set of module identities discovered by a scan. It backs
// prefix and top-level lookups during resolution.
type Registry struct {
	modules   map[string]struct{}
	topLevels map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		modules:   make(map[string]struct{}),
		topLevels: make(map[string]struct{}),
	}
}

// Add records a module identity. The first dotted or slashed segment is
// tracked as a local top-level name.
func (r *Registry) Add(id string) {
	if id == "" {
		return
	}
	r.modules[id] = struct{}{}
	top := id
	if idx := strings.IndexAny(id, "./"); idx > 0 {
		top = id[:idx]
	}
	r.topLevels[top] = struct{}{}
}

func (r *Registry) Has(id string) bool {
	_, ok := r.modules[id]
	return ok
}

// HasTopLevel reports whether any discovered module lives under the given
// top-level name. Imports of unknown submodules of a local top level are
// treated as unresolvable rather than third party.
func (r *Registry) HasTopLevel(name string) bool {
	_, ok := r.topLevels[name]
	return ok
}

func (r *Registry) Len() int {
	return len(r.modules)
}
