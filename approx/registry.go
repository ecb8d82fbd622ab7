package approx

import (
	"sync"

	"github.com/katalvlaran/colorjac/coloring"
)

// Registry shares colorings across sibling Manager instances declared
// non-per-instance. One registry spans one model setup; it is an explicit
// object, never a package-level singleton, so independent setups cannot
// leak colorings into each other.
//
// Publication is first-wins: the first sibling of a class to activate
// publishes its coloring by reference, and every later Publish for that
// class returns the already-published instance unchanged. Published
// colorings are read-only by contract.
type Registry struct {
	mu     sync.Mutex
	shared map[string]*coloring.Coloring
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{shared: make(map[string]*coloring.Coloring)}
}

// Lookup returns the published coloring for class, or nil.
func (r *Registry) Lookup(class string) *coloring.Coloring {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shared[class]
}

// Publish stores c for class unless a sibling got there first, and returns
// the canonical shared instance either way.
func (r *Registry) Publish(class string, c *coloring.Coloring) *coloring.Coloring {
	r.mu.Lock()
	defer r.mu.Unlock()
	if have, ok := r.shared[class]; ok {
		return have
	}
	r.shared[class] = c
	return c
}
