// Package registry maps graph names to graph templates, the same way
// the executor's Module nodes reuse a *graph.Graph across call sites:
// looking a graph up by name returns a fresh Clone(), so concurrent
// runs of the same named graph never share mutable Node state.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/stevelan1995/taskgrid/pkg/core/graph"
)

// Registry is a concurrency-safe name -> *graph.Graph template map.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*graph.Graph
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{defs: make(map[string]*graph.Graph)}
}

// Register adds g under its own Name. It overwrites any prior
// registration for that name.
func (r *Registry) Register(g *graph.Graph) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[g.Name] = g
}

// Lookup returns a fresh Clone() of the graph registered under name.
func (r *Registry) Lookup(name string) (*graph.Graph, error) {
	r.mu.RLock()
	tmpl, ok := r.defs[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: no graph named %q", name)
	}
	return tmpl.Clone(), nil
}

// Names returns every registered graph name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
