// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package route describes HTTP route definitions independently of the
// framework which dispatches them.
package route

import (
	"net/http"
	"slices"
	"strings"

	"github.com/swaggest/openapi-go/openapi3"
)

// MethodAll marks a route as registered for every standard HTTP method.
const MethodAll = "*"

var stdMethods = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
	http.MethodPatch,
	http.MethodTrace,
}

// StandardMethods returns the HTTP methods a [MethodAll] route expands to.
func StandardMethods() []string {
	return slices.Clone(stdMethods)
}

// Body is a value shape descriptor for a request or response body.
// Value is any Go value whose type describes the wire shape; it is
// translated to a JSON schema by reflection at document build time.
type Body struct {
	ContentType string
	Value       any
}

// Param describes a single operation parameter.
//
// Value follows the same shape descriptor convention as [Body]. A nil
// Value is documented as a plain string.
type Param struct {
	Name        string
	In          openapi3.ParameterIn
	Description string
	Required    bool
	Value       any
}

// Route is a registered (method, path pattern, metadata) triple.
//
// The path pattern uses ":name" syntax for named parameters,
// e.g. "/users/:id". Routes are read-only to the document generator;
// mutating a Route after registering it is not supported.
type Route struct {
	Method  string
	Pattern string

	OperationID string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	Security    []map[string][]string

	// Hidden omits the route from the generated document regardless
	// of the active exclusion policy.
	Hidden bool

	Request   *Body
	Params    []Param
	Responses map[int]Body
}

// OASPath translates the route's pattern into the OpenAPI brace
// parameter syntax, e.g. "/users/:id" becomes "/users/{id}".
func (r Route) OASPath() string {
	segments := strings.Split(r.Pattern, "/")
	for i, seg := range segments {
		if len(seg) > 1 && strings.HasPrefix(seg, ":") {
			segments[i] = "{" + seg[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

// PathParams returns the named parameters of a ":name" style pattern
// in the order they appear.
func PathParams(pattern string) []string {
	var names []string
	for _, seg := range strings.Split(pattern, "/") {
		if len(seg) > 1 && strings.HasPrefix(seg, ":") {
			names = append(names, seg[1:])
		}
	}
	return names
}

// WithHeaders returns a copy of the given routes, each augmented with
// the fixed set of header parameters. The originals are left untouched
// so a group of routes can share one header set without aliasing.
func WithHeaders(headers []Param, routes ...Route) []Route {
	hs := make([]Param, len(headers))
	for i, h := range headers {
		h.In = openapi3.ParameterInHeader
		hs[i] = h
	}

	out := make([]Route, len(routes))
	for i, rt := range routes {
		params := make([]Param, 0, len(rt.Params)+len(hs))
		params = append(params, rt.Params...)
		params = append(params, hs...)
		rt.Params = params
		out[i] = rt
	}
	return out
}
