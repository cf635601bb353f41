// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/z5labs/openapidoc/exclude"
	"github.com/z5labs/openapidoc/route"

	"github.com/stretchr/testify/require"
	"github.com/swaggest/jsonschema-go"
)

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestConverter_Convert(t *testing.T) {
	t.Run("will only include filtered routes", func(t *testing.T) {
		t.Run("if path and tag exclusions are configured", func(t *testing.T) {
			var c Converter

			routes := []route.Route{
				{Method: http.MethodGet, Pattern: "/"},
				{Method: http.MethodGet, Pattern: "/users", Tags: []string{"users"}},
				{Method: http.MethodGet, Pattern: "/admin", Tags: []string{"admin"}},
				{Method: http.MethodGet, Pattern: "/internal"},
				{Method: http.MethodGet, Pattern: "/health"},
			}
			policy := &exclude.Policy{
				Paths: []exclude.Matcher{exclude.Path("/internal")},
				Tags:  []string{"admin"},
			}

			conv, err := c.Convert(routes, policy)
			require.Nil(t, err)

			require.Len(t, conv.Paths, 3)
			require.Contains(t, conv.Paths, "/")
			require.Contains(t, conv.Paths, "/users")
			require.Contains(t, conv.Paths, "/health")
		})

		t.Run("if a mixed path list of literal and pattern entries is configured", func(t *testing.T) {
			var c Converter

			routes := []route.Route{
				{Method: http.MethodGet, Pattern: "/users"},
				{Method: http.MethodGet, Pattern: "/debug/pprof"},
				{Method: http.MethodGet, Pattern: "/health"},
			}
			policy := &exclude.Policy{
				Paths: []exclude.Matcher{
					exclude.Path("/health"),
					exclude.Pattern(regexp.MustCompile(`^/debug/`)),
				},
			}

			conv, err := c.Convert(routes, policy)
			require.Nil(t, err)

			require.Len(t, conv.Paths, 1)
			require.Contains(t, conv.Paths, "/users")
		})
	})

	t.Run("will exclude the generator's own endpoints", func(t *testing.T) {
		t.Run("if reserved prefixes are configured", func(t *testing.T) {
			c := Converter{
				Reserved: []string{"/openapi", "/openapi/json"},
			}

			conv, err := c.Convert([]route.Route{
				{Method: http.MethodGet, Pattern: "/openapi"},
				{Method: http.MethodGet, Pattern: "/openapi/json"},
				{Method: http.MethodGet, Pattern: "/users"},
			}, nil)
			require.Nil(t, err)

			require.Len(t, conv.Paths, 1)
			require.Contains(t, conv.Paths, "/users")
		})
	})

	t.Run("will merge routes sharing a path", func(t *testing.T) {
		t.Run("if they differ by method", func(t *testing.T) {
			var c Converter

			conv, err := c.Convert([]route.Route{
				{Method: http.MethodGet, Pattern: "/users"},
				{Method: http.MethodPost, Pattern: "/users"},
			}, nil)
			require.Nil(t, err)

			require.Len(t, conv.Paths, 1)

			item := conv.Paths["/users"]
			require.Contains(t, item.MapOfOperationValues, "get")
			require.Contains(t, item.MapOfOperationValues, "post")
		})

		t.Run("if they collide on method the last registered wins", func(t *testing.T) {
			var c Converter

			conv, err := c.Convert([]route.Route{
				{Method: http.MethodGet, Pattern: "/users", Summary: "first"},
				{Method: http.MethodGet, Pattern: "/users", Summary: "second"},
			}, nil)
			require.Nil(t, err)

			item := conv.Paths["/users"]
			require.Len(t, item.MapOfOperationValues, 1)

			op := item.MapOfOperationValues["get"]
			require.NotNil(t, op.Summary)
			require.Equal(t, "second", *op.Summary)
		})
	})

	t.Run("will expand a wildcard method route", func(t *testing.T) {
		t.Run("if the route is registered for all methods", func(t *testing.T) {
			var c Converter

			conv, err := c.Convert([]route.Route{
				{Method: route.MethodAll, Pattern: "/anything"},
			}, nil)
			require.Nil(t, err)

			item := conv.Paths["/anything"]
			require.Len(t, item.MapOfOperationValues, len(route.StandardMethods()))
			require.Contains(t, item.MapOfOperationValues, "get")
			require.Contains(t, item.MapOfOperationValues, "trace")
		})
	})

	t.Run("will translate named parameters", func(t *testing.T) {
		t.Run("if the pattern uses colon syntax", func(t *testing.T) {
			var c Converter

			conv, err := c.Convert([]route.Route{
				{Method: http.MethodGet, Pattern: "/users/:id"},
			}, nil)
			require.Nil(t, err)

			require.Contains(t, conv.Paths, "/users/{id}")

			// undeclared placeholders are synthesized as required string params
			op := conv.Paths["/users/{id}"].MapOfOperationValues["get"]
			require.Len(t, op.Parameters, 1)
			require.Equal(t, "id", op.Parameters[0].Parameter.Name)
			require.NotNil(t, op.Parameters[0].Parameter.Required)
			require.True(t, *op.Parameters[0].Parameter.Required)
		})
	})

	t.Run("will collect named component schemas", func(t *testing.T) {
		t.Run("if request and response bodies reference struct types", func(t *testing.T) {
			var c Converter

			conv, err := c.Convert([]route.Route{
				{
					Method:  http.MethodPost,
					Pattern: "/users",
					Request: &route.Body{Value: createUserRequest{}},
					Responses: map[int]route.Body{
						http.StatusOK: {Value: userResponse{}},
					},
				},
			}, nil)
			require.Nil(t, err)

			require.Contains(t, conv.Schemas, "DocumentCreateUserRequest")
			require.Contains(t, conv.Schemas, "DocumentUserResponse")
		})

		t.Run("if multiple routes share one type it is deduplicated by name", func(t *testing.T) {
			var c Converter

			conv, err := c.Convert([]route.Route{
				{
					Method:    http.MethodGet,
					Pattern:   "/users/:id",
					Responses: map[int]route.Body{http.StatusOK: {Value: userResponse{}}},
				},
				{
					Method:    http.MethodGet,
					Pattern:   "/users",
					Responses: map[int]route.Body{http.StatusOK: {Value: userResponse{}}},
				},
			}, nil)
			require.Nil(t, err)

			require.Len(t, conv.Schemas, 1)
			require.Contains(t, conv.Schemas, "DocumentUserResponse")
		})
	})

	t.Run("will synthesize a default response", func(t *testing.T) {
		t.Run("if the route declares none", func(t *testing.T) {
			var c Converter

			conv, err := c.Convert([]route.Route{
				{Method: http.MethodGet, Pattern: "/ping"},
			}, nil)
			require.Nil(t, err)

			op := conv.Paths["/ping"].MapOfOperationValues["get"]
			require.Contains(t, op.Responses.MapOfResponseOrRefValues, "200")
		})
	})

	t.Run("will apply the schema transform hook", func(t *testing.T) {
		t.Run("if one is configured", func(t *testing.T) {
			var seen []string
			c := Converter{
				TransformSchema: func(name string, schema *jsonschema.Schema) {
					seen = append(seen, name)
					schema.WithDescription("rewritten")
				},
			}

			conv, err := c.Convert([]route.Route{
				{
					Method:  http.MethodPost,
					Pattern: "/users",
					Request: &route.Body{Value: createUserRequest{}},
				},
			}, nil)
			require.Nil(t, err)

			require.Contains(t, seen, "DocumentCreateUserRequest")
			require.Contains(t, seen, "")

			schema := conv.Schemas["DocumentCreateUserRequest"]
			require.NotNil(t, schema.Schema)
			require.NotNil(t, schema.Schema.Description)
			require.Equal(t, "rewritten", *schema.Schema.Description)
		})
	})

	t.Run("will rewrite component names", func(t *testing.T) {
		t.Run("if a reference transform is configured", func(t *testing.T) {
			c := Converter{
				TransformRef: func(name string) string {
					return "Acme" + name
				},
			}

			conv, err := c.Convert([]route.Route{
				{
					Method:  http.MethodPost,
					Pattern: "/users",
					Request: &route.Body{Value: createUserRequest{}},
				},
			}, nil)
			require.Nil(t, err)

			require.Contains(t, conv.Schemas, "AcmeDocumentCreateUserRequest")

			op := conv.Paths["/users"].MapOfOperationValues["post"]
			media := op.RequestBody.RequestBody.Content["application/json"]
			require.NotNil(t, media.Schema.SchemaReference)
			require.Equal(t, "#/components/schemas/AcmeDocumentCreateUserRequest", media.Schema.SchemaReference.Ref)
		})
	})

	t.Run("will document route metadata", func(t *testing.T) {
		t.Run("if the route carries it", func(t *testing.T) {
			var c Converter

			conv, err := c.Convert([]route.Route{
				{
					Method:      http.MethodGet,
					Pattern:     "/users",
					OperationID: "listUsers",
					Summary:     "List users",
					Description: "Lists every known user.",
					Tags:        []string{"users"},
					Deprecated:  true,
					Security:    []map[string][]string{{"bearer": {}}},
				},
			}, nil)
			require.Nil(t, err)

			op := conv.Paths["/users"].MapOfOperationValues["get"]
			require.Equal(t, "listUsers", *op.ID)
			require.Equal(t, "List users", *op.Summary)
			require.Equal(t, []string{"users"}, op.Tags)
			require.True(t, *op.Deprecated)
			require.Equal(t, []map[string][]string{{"bearer": {}}}, op.Security)
		})
	})
}
