// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package viewer renders the HTML documentation page.
package viewer

import (
	"embed"
	"html/template"
	"io"
)

//go:embed *.html.tmpl
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "*.html.tmpl"))

// Known viewer names.
const (
	SwaggerUI = "swagger"
	Scalar    = "scalar"
)

// Page carries everything a viewer template needs to render itself.
//
// When SpecJSON is non-empty the document is inlined into the page,
// otherwise the viewer loads it from SpecURL.
type Page struct {
	Title                string
	SpecURL              string
	SpecJSON             template.JS
	Theme                string
	PersistAuthorization bool
}

// Render writes the HTML page for the named viewer. Unknown names fall
// back to Swagger UI.
func Render(w io.Writer, name string, p Page) error {
	tmpl := "swagger_ui.html.tmpl"
	if name == Scalar {
		tmpl = "scalar.html.tmpl"
	}
	return templates.ExecuteTemplate(w, tmpl, p)
}
