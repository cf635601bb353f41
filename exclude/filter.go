// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package exclude

import (
	"slices"
	"strings"

	"github.com/z5labs/openapidoc/route"
)

// Include reports whether a route should appear in the generated
// document under the given policy.
//
// Exclusions are evaluated in order: reserved path prefixes (the
// generator's own endpoints), the route's hidden flag, then the
// policy's path, tag and method filters. The first match excludes
// the route. A nil policy excludes nothing beyond reserved prefixes
// and hidden routes.
func Include(rt route.Route, p *Policy, reserved ...string) bool {
	for _, prefix := range reserved {
		if prefix != "" && strings.HasPrefix(rt.Pattern, prefix) {
			return false
		}
	}
	if rt.Hidden {
		return false
	}
	if p == nil {
		return true
	}

	for _, m := range p.Paths {
		if m.MatchPath(rt.Pattern) {
			return false
		}
	}
	for _, tag := range rt.Tags {
		if slices.Contains(p.Tags, tag) {
			return false
		}
	}
	for _, method := range p.Methods {
		if strings.EqualFold(method, rt.Method) {
			return false
		}
	}
	return true
}
