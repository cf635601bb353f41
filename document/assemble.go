// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package document

import (
	"maps"
	"slices"

	"github.com/swaggest/openapi-go/openapi3"
)

const (
	defaultTitle   = "API"
	defaultVersion = "0.1.0"
)

// Static holds the user supplied documentation fragments merged into
// every generated document. All fields are optional.
type Static struct {
	// Info fields override the generated defaults. An empty Title or
	// Version falls back to the default value.
	Info openapi3.Info

	Tags            []openapi3.Tag
	Servers         []openapi3.Server
	Security        []map[string][]string
	SecuritySchemes map[string]openapi3.SecuritySchemeOrRef

	// Paths and Schemas take precedence over converter output on
	// key collision.
	Paths   map[string]openapi3.PathItem
	Schemas map[string]openapi3.SchemaOrRef
}

// Assemble merges converter output with the static documentation
// fragments into one document. The static tag list is filtered to drop
// any tag whose name is in excludedTags. Each call produces a fresh
// document value.
func Assemble(conv Conversion, static Static, excludedTags []string) *openapi3.Spec {
	info := static.Info
	if info.Title == "" {
		info.Title = defaultTitle
	}
	if info.Version == "" {
		info.Version = defaultVersion
	}

	spec := &openapi3.Spec{
		Openapi: "3.0.3",
		Info:    info,
	}

	for _, tag := range static.Tags {
		if slices.Contains(excludedTags, tag.Name) {
			continue
		}
		spec.Tags = append(spec.Tags, tag)
	}

	spec.Servers = slices.Clone(static.Servers)
	spec.Security = slices.Clone(static.Security)

	paths := make(map[string]openapi3.PathItem, len(conv.Paths)+len(static.Paths))
	maps.Copy(paths, conv.Paths)
	maps.Copy(paths, static.Paths)
	spec.Paths = openapi3.Paths{
		MapOfPathItemValues: paths,
	}

	schemas := make(map[string]openapi3.SchemaOrRef, len(conv.Schemas)+len(static.Schemas))
	maps.Copy(schemas, conv.Schemas)
	maps.Copy(schemas, static.Schemas)
	for name, schema := range schemas {
		spec.ComponentsEns().SchemasEns().WithMapOfSchemaOrRefValuesItem(name, schema)
	}

	for name, scheme := range static.SecuritySchemes {
		spec.ComponentsEns().SecuritySchemesEns().WithMapOfSecuritySchemeOrRefValuesItem(name, scheme)
	}

	return spec
}
