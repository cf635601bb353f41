// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package exclude

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/z5labs/openapidoc/route"

	"github.com/stretchr/testify/require"
)

func TestInclude(t *testing.T) {
	t.Run("will include the route", func(t *testing.T) {
		t.Run("if the policy is nil", func(t *testing.T) {
			rt := route.Route{Method: http.MethodGet, Pattern: "/users"}

			require.True(t, Include(rt, nil))
		})

		t.Run("if the policy is empty", func(t *testing.T) {
			rt := route.Route{Method: http.MethodGet, Pattern: "/users"}

			require.True(t, Include(rt, &Policy{}))
		})

		t.Run("if no filter dimension matches", func(t *testing.T) {
			rt := route.Route{
				Method:  http.MethodGet,
				Pattern: "/users",
				Tags:    []string{"users"},
			}
			p := &Policy{
				Paths:   []Matcher{Path("/internal")},
				Tags:    []string{"admin"},
				Methods: []string{http.MethodDelete},
			}

			require.True(t, Include(rt, p))
		})
	})

	t.Run("will exclude the route", func(t *testing.T) {
		t.Run("if its path falls under a reserved prefix", func(t *testing.T) {
			rt := route.Route{Method: http.MethodGet, Pattern: "/openapi/json"}

			require.False(t, Include(rt, nil, "/openapi"))
		})

		t.Run("if its hide flag is set", func(t *testing.T) {
			rt := route.Route{Method: http.MethodGet, Pattern: "/users", Hidden: true}

			require.False(t, Include(rt, nil))
		})

		t.Run("if a literal path entry matches", func(t *testing.T) {
			rt := route.Route{Method: http.MethodGet, Pattern: "/internal"}
			p := &Policy{Paths: []Matcher{Path("/internal")}}

			require.False(t, Include(rt, p))
		})

		t.Run("if a pattern path entry matches", func(t *testing.T) {
			rt := route.Route{Method: http.MethodGet, Pattern: "/internal/jobs"}
			p := &Policy{Paths: []Matcher{Pattern(regexp.MustCompile(`^/internal/`))}}

			require.False(t, Include(rt, p))
		})

		t.Run("if any entry of a mixed path list matches", func(t *testing.T) {
			p := &Policy{Paths: []Matcher{
				Path("/health"),
				Pattern(regexp.MustCompile(`^/debug/`)),
			}}

			require.False(t, Include(route.Route{Pattern: "/health"}, p))
			require.False(t, Include(route.Route{Pattern: "/debug/pprof"}, p))
			require.True(t, Include(route.Route{Pattern: "/users"}, p))
		})

		t.Run("if any of its tags is excluded", func(t *testing.T) {
			rt := route.Route{
				Method:  http.MethodGet,
				Pattern: "/admin",
				Tags:    []string{"users", "admin"},
			}
			p := &Policy{Tags: []string{"admin"}}

			require.False(t, Include(rt, p))
		})

		t.Run("if its method is excluded regardless of case", func(t *testing.T) {
			rt := route.Route{Method: http.MethodDelete, Pattern: "/users"}
			p := &Policy{Methods: []string{"delete"}}

			require.False(t, Include(rt, p))
		})
	})
}
