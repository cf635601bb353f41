// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package route

import (
	"slices"
	"sync"
)

// Registry is the live collection of registered routes. It is safe for
// concurrent use.
//
// Every registration bumps a monotonic version counter which document
// builders compare against the version observed at their last build.
// Note the counter only moves on calls to [Registry.Add]; mutating a
// Route value in place after registering it is not detected.
type Registry struct {
	mu      sync.Mutex
	routes  []Route
	version uint64
}

// NewRegistry initializes an empty [Registry].
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers the given routes, preserving registration order.
func (g *Registry) Add(routes ...Route) *Registry {
	if len(routes) == 0 {
		return g
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.routes = append(g.routes, routes...)
	g.version++
	return g
}

// Snapshot returns the registered routes in registration order.
func (g *Registry) Snapshot() []Route {
	g.mu.Lock()
	defer g.mu.Unlock()

	return slices.Clone(g.routes)
}

// Len returns the number of registered routes.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.routes)
}

// Version returns the current registration version.
func (g *Registry) Version() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.version
}
