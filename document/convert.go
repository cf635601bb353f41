// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package document builds OpenAPI documents from route definitions.
package document

import (
	"fmt"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/z5labs/openapidoc/exclude"
	"github.com/z5labs/openapidoc/route"

	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

const componentsPrefix = "#/components/schemas/"

// SchemaTransform is applied to every generated schema fragment before
// it is inserted into the document. name is the component name for
// collected definitions and empty for inline fragments.
type SchemaTransform func(name string, schema *jsonschema.Schema)

// Conversion is the output of [Converter.Convert]: path items keyed by
// brace-parameter path and the component schemas they reference.
type Conversion struct {
	Paths   map[string]openapi3.PathItem
	Schemas map[string]openapi3.SchemaOrRef
}

// Converter translates route definitions into OpenAPI path items.
// Individual value shapes are delegated to a [jsonschema.Reflector].
type Converter struct {
	// Reflector used for value shape to schema translation. The zero
	// value is used when nil.
	Reflector *jsonschema.Reflector

	// TransformSchema, when set, is applied to every generated schema
	// fragment before insertion.
	TransformSchema SchemaTransform

	// TransformRef, when set, rewrites generated component schema
	// names. References are rewritten consistently with the names.
	TransformRef func(name string) string

	// Reserved path prefixes are excluded from conversion so the
	// generator never documents its own endpoints.
	Reserved []string
}

// Convert turns every included route into per-method operations,
// merging routes that share a path into one path item. When multiple
// routes collide on both path and method the last registered one wins.
func (c *Converter) Convert(routes []route.Route, policy *exclude.Policy) (Conversion, error) {
	conv := Conversion{
		Paths:   make(map[string]openapi3.PathItem),
		Schemas: make(map[string]openapi3.SchemaOrRef),
	}

	for _, rt := range routes {
		if !exclude.Include(rt, policy, c.Reserved...) {
			continue
		}

		op, err := c.operation(rt, conv.Schemas)
		if err != nil {
			return Conversion{}, fmt.Errorf("convert route %s %s: %w", rt.Method, rt.Pattern, err)
		}

		key := rt.OASPath()
		item := conv.Paths[key]
		if item.MapOfOperationValues == nil {
			item.MapOfOperationValues = make(map[string]openapi3.Operation)
		}
		for _, method := range methodsOf(rt.Method) {
			item.MapOfOperationValues[strings.ToLower(method)] = op
		}
		conv.Paths[key] = item
	}

	return conv, nil
}

func methodsOf(method string) []string {
	if method == route.MethodAll {
		return route.StandardMethods()
	}
	return []string{method}
}

func (c *Converter) operation(rt route.Route, schemas map[string]openapi3.SchemaOrRef) (openapi3.Operation, error) {
	var op openapi3.Operation
	if rt.OperationID != "" {
		op.ID = ptr.Ref(rt.OperationID)
	}
	if rt.Summary != "" {
		op.Summary = ptr.Ref(rt.Summary)
	}
	if rt.Description != "" {
		op.Description = ptr.Ref(rt.Description)
	}
	op.Tags = slices.Clone(rt.Tags)
	if rt.Deprecated {
		op.Deprecated = ptr.Ref(true)
	}
	if len(rt.Security) > 0 {
		op.Security = slices.Clone(rt.Security)
	}

	declared := make(map[string]bool)
	for _, p := range rt.Params {
		param, err := c.parameter(p, schemas)
		if err != nil {
			return op, err
		}
		op.Parameters = append(op.Parameters, param)
		if p.In == openapi3.ParameterInPath {
			declared[p.Name] = true
		}
	}
	// path placeholders must always be documented as parameters
	for _, name := range route.PathParams(rt.Pattern) {
		if declared[name] {
			continue
		}
		op.Parameters = append(op.Parameters, stringPathParam(name))
	}

	if rt.Request != nil {
		schema, err := c.schema(rt.Request.Value, schemas)
		if err != nil {
			return op, err
		}

		op.RequestBody = &openapi3.RequestBodyOrRef{
			RequestBody: &openapi3.RequestBody{
				Required: ptr.Ref(true),
				Content: map[string]openapi3.MediaType{
					contentTypeOf(*rt.Request): {
						Schema: &schema,
					},
				},
			},
		}
	}

	responses := make(map[string]openapi3.ResponseOrRef)
	for status, body := range rt.Responses {
		resp := openapi3.Response{
			Description: http.StatusText(status),
		}
		if body.Value != nil {
			schema, err := c.schema(body.Value, schemas)
			if err != nil {
				return op, err
			}
			resp.Content = map[string]openapi3.MediaType{
				contentTypeOf(body): {
					Schema: &schema,
				},
			}
		}
		responses[strconv.Itoa(status)] = openapi3.ResponseOrRef{
			Response: &resp,
		}
	}
	if len(responses) == 0 {
		responses[strconv.Itoa(http.StatusOK)] = openapi3.ResponseOrRef{
			Response: &openapi3.Response{
				Description: http.StatusText(http.StatusOK),
			},
		}
	}
	op.Responses = openapi3.Responses{
		MapOfResponseOrRefValues: responses,
	}

	return op, nil
}

func contentTypeOf(b route.Body) string {
	if b.ContentType != "" {
		return b.ContentType
	}
	return "application/json"
}

func stringPathParam(name string) openapi3.ParameterOrRef {
	schemaType := openapi3.SchemaTypeString
	return openapi3.ParameterOrRef{
		Parameter: &openapi3.Parameter{
			Name:     name,
			In:       openapi3.ParameterInPath,
			Required: ptr.Ref(true),
			Schema: &openapi3.SchemaOrRef{
				Schema: &openapi3.Schema{
					Type: &schemaType,
				},
			},
		},
	}
}

func (c *Converter) parameter(p route.Param, schemas map[string]openapi3.SchemaOrRef) (openapi3.ParameterOrRef, error) {
	def := &openapi3.Parameter{
		Name: p.Name,
		In:   p.In,
	}
	if p.Description != "" {
		def.Description = ptr.Ref(p.Description)
	}
	if p.Required || p.In == openapi3.ParameterInPath {
		def.Required = ptr.Ref(true)
	}

	if p.Value == nil {
		schemaType := openapi3.SchemaTypeString
		def.Schema = &openapi3.SchemaOrRef{
			Schema: &openapi3.Schema{
				Type: &schemaType,
			},
		}
		return openapi3.ParameterOrRef{Parameter: def}, nil
	}

	schema, err := c.schema(p.Value, schemas)
	if err != nil {
		return openapi3.ParameterOrRef{}, err
	}
	def.Schema = &schema
	return openapi3.ParameterOrRef{Parameter: def}, nil
}

// schema reflects a value shape into a schema fragment, collecting any
// named definitions it introduces into the shared components map.
func (c *Converter) schema(v any, schemas map[string]openapi3.SchemaOrRef) (openapi3.SchemaOrRef, error) {
	reflector := c.Reflector
	if reflector == nil {
		reflector = &jsonschema.Reflector{}
	}

	opts := []func(*jsonschema.ReflectContext){
		jsonschema.RootRef,
		jsonschema.DefinitionsPrefix(componentsPrefix),
		jsonschema.CollectDefinitions(func(name string, schema jsonschema.Schema) {
			if c.TransformSchema != nil {
				c.TransformSchema(name, &schema)
			}

			var ref openapi3.SchemaOrRef
			ref.FromJSONSchema(schema.ToSchemaOrBool())
			schemas[name] = ref
		}),
	}
	if c.TransformRef != nil {
		opts = append(opts, jsonschema.InterceptDefName(func(t reflect.Type, defaultDefName string) string {
			return c.TransformRef(defaultDefName)
		}))
	}

	jsonSchema, err := reflector.Reflect(v, opts...)
	if err != nil {
		return openapi3.SchemaOrRef{}, err
	}
	if c.TransformSchema != nil {
		c.TransformSchema("", &jsonSchema)
	}

	var schemaOrRef openapi3.SchemaOrRef
	schemaOrRef.FromJSONSchema(jsonSchema.ToSchemaOrBool())
	return schemaOrRef, nil
}
