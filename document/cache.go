// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"sync"

	"github.com/swaggest/openapi-go/openapi3"
)

// Cache memoizes the last assembled document, keyed on the route
// registry and exclusion policy versions observed when it was built.
// It is safe for concurrent use.
//
// A failed build leaves the cache stale so the next read retries.
type Cache struct {
	mu            sync.Mutex
	doc           *openapi3.Spec
	routeVersion  uint64
	policyVersion uint64
	fresh         bool
}

// GetOr returns the cached document when it is fresh and both versions
// still match, otherwise it invokes build and caches the result.
func (c *Cache) GetOr(routeVersion, policyVersion uint64, build func() (*openapi3.Spec, error)) (*openapi3.Spec, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fresh && c.routeVersion == routeVersion && c.policyVersion == policyVersion {
		return c.doc, nil
	}

	doc, err := build()
	if err != nil {
		c.fresh = false
		return nil, err
	}

	c.doc = doc
	c.routeVersion = routeVersion
	c.policyVersion = policyVersion
	c.fresh = true
	return doc, nil
}

// Invalidate marks the cache stale so the next read rebuilds.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fresh = false
}
