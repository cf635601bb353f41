// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package openapidoc

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/z5labs/openapidoc/document"
	"github.com/z5labs/openapidoc/exclude"
	"github.com/z5labs/openapidoc/internal/viewer"
	"github.com/z5labs/openapidoc/route"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/try"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Options holds configuration values used when constructing a [Plugin].
type Options struct {
	registry        *route.Registry
	exclusion       *exclude.Policy
	static          document.Static
	reflector       *jsonschema.Reflector
	transformSchema document.SchemaTransform
	transformRef    func(name string) string
}

// Option sets a value on [Options].
type Option interface {
	ApplyOption(*Options)
}

type optionFunc func(*Options)

func (f optionFunc) ApplyOption(o *Options) {
	f(o)
}

// Registry sets the route registry the document is generated from.
// Use it to share one registry between the serving layer and multiple
// plugin instances. A fresh registry is created when not set.
func Registry(g *route.Registry) Option {
	return optionFunc(func(o *Options) {
		o.registry = g
	})
}

// Exclusion sets the initial exclusion policy. The policy is deep
// copied so later mutation of p does not affect the plugin.
func Exclusion(p *exclude.Policy) Option {
	return optionFunc(func(o *Options) {
		o.exclusion = p
	})
}

// Info sets the static info object. Non-empty fields override the
// generated defaults.
func Info(info openapi3.Info) Option {
	return optionFunc(func(o *Options) {
		o.static.Info = info
	})
}

// Tags sets the static tag list. Tags whose name is excluded by the
// active policy are dropped from the generated document.
func Tags(tags ...openapi3.Tag) Option {
	return optionFunc(func(o *Options) {
		o.static.Tags = append(o.static.Tags, tags...)
	})
}

// Servers sets the static server list.
func Servers(servers ...openapi3.Server) Option {
	return optionFunc(func(o *Options) {
		o.static.Servers = append(o.static.Servers, servers...)
	})
}

// Security sets the document level security requirements.
func Security(requirements ...map[string][]string) Option {
	return optionFunc(func(o *Options) {
		o.static.Security = append(o.static.Security, requirements...)
	})
}

// SecurityScheme declares a named security scheme under components.
func SecurityScheme(name string, scheme openapi3.SecurityScheme) Option {
	return optionFunc(func(o *Options) {
		if o.static.SecuritySchemes == nil {
			o.static.SecuritySchemes = make(map[string]openapi3.SecuritySchemeOrRef)
		}
		o.static.SecuritySchemes[name] = openapi3.SecuritySchemeOrRef{
			SecurityScheme: &scheme,
		}
	})
}

// StaticPath declares an additional path item merged into the
// generated document. Static entries take precedence over generated
// ones on key collision.
func StaticPath(path string, item openapi3.PathItem) Option {
	return optionFunc(func(o *Options) {
		if o.static.Paths == nil {
			o.static.Paths = make(map[string]openapi3.PathItem)
		}
		o.static.Paths[path] = item
	})
}

// StaticSchema declares an additional component schema merged into the
// generated document, overriding a generated schema of the same name.
func StaticSchema(name string, schema openapi3.SchemaOrRef) Option {
	return optionFunc(func(o *Options) {
		if o.static.Schemas == nil {
			o.static.Schemas = make(map[string]openapi3.SchemaOrRef)
		}
		o.static.Schemas[name] = schema
	})
}

// Reflector sets the [jsonschema.Reflector] used for value shape to
// schema translation, e.g. one with custom type mappings registered.
func Reflector(r *jsonschema.Reflector) Option {
	return optionFunc(func(o *Options) {
		o.reflector = r
	})
}

// TransformSchemas registers a hook applied to every generated schema
// fragment before insertion, enabling structural rewriting without
// altering the conversion itself.
func TransformSchemas(f document.SchemaTransform) Option {
	return optionFunc(func(o *Options) {
		o.transformSchema = f
	})
}

// TransformReferences registers a hook which rewrites generated
// component schema names. References are rewritten consistently.
func TransformReferences(f func(name string) string) Option {
	return optionFunc(func(o *Options) {
		o.transformRef = f
	})
}

// Plugin serves an OpenAPI document derived from its route registry,
// along with an HTML page for browsing it.
//
// The exclusion policy backing the document can be changed at any time
// through the Plugin's mutator methods; the next document read always
// reflects the latest policy. Reads with an unchanged route set and
// policy are served from cache.
type Plugin struct {
	log    *slog.Logger
	tracer trace.Tracer

	cfg        Config
	routes     *route.Registry
	exclusions *exclude.Store
	converter  document.Converter
	static     document.Static
	cache      document.Cache
}

// New initializes a [Plugin].
func New(cfg Config, opts ...Option) *Plugin {
	if cfg.Path == "" {
		cfg.Path = "/openapi"
	}
	if cfg.SpecPath == "" {
		cfg.SpecPath = "/openapi/json"
	}

	o := &Options{
		registry: route.NewRegistry(),
	}
	for _, opt := range opts {
		opt.ApplyOption(o)
	}

	return &Plugin{
		log:        Logger("github.com/z5labs/openapidoc"),
		tracer:     otel.Tracer("github.com/z5labs/openapidoc"),
		cfg:        cfg,
		routes:     o.registry,
		exclusions: exclude.NewStore(o.exclusion),
		converter: document.Converter{
			Reflector:       o.reflector,
			TransformSchema: o.transformSchema,
			TransformRef:    o.transformRef,
			Reserved:        []string{cfg.Path, cfg.SpecPath},
		},
		static: o.static,
	}
}

// Routes returns the registry the document is generated from.
func (p *Plugin) Routes() *route.Registry {
	return p.routes
}

// Register adds routes to the underlying registry.
func (p *Plugin) Register(routes ...route.Route) *Plugin {
	p.routes.Add(routes...)
	return p
}

// Mount registers the spec endpoint and the documentation page on the
// given router. It does nothing when the plugin is disabled.
func (p *Plugin) Mount(r chi.Router) {
	if !p.cfg.Enabled {
		return
	}

	r.Method(http.MethodGet, p.cfg.SpecPath, otelhttp.WithRouteTag(p.cfg.SpecPath, http.HandlerFunc(p.serveSpec)))
	r.Method(http.MethodGet, p.cfg.Path, otelhttp.WithRouteTag(p.cfg.Path, http.HandlerFunc(p.servePage)))
}

// Document returns the current OpenAPI document, rebuilding it only
// when the route set or the exclusion policy changed since the last
// build. A failed build leaves the cache stale for the next read.
func (p *Plugin) Document(ctx context.Context) (*openapi3.Spec, error) {
	return p.cache.GetOr(p.routes.Version(), p.exclusions.Version(), func() (doc *openapi3.Spec, err error) {
		_, span := p.tracer.Start(ctx, "plugin.buildDocument")
		defer span.End()
		defer try.Recover(&err)

		policy := p.exclusions.Policy()

		conv, err := p.converter.Convert(p.routes.Snapshot(), policy)
		if err != nil {
			return nil, err
		}

		var excludedTags []string
		if policy != nil {
			excludedTags = policy.Tags
		}
		return document.Assemble(conv, p.static, excludedTags), nil
	})
}

func (p *Plugin) serveSpec(w http.ResponseWriter, r *http.Request) {
	doc, err := p.Document(r.Context())
	if err != nil {
		p.log.ErrorContext(
			r.Context(),
			"failed to build openapi document",
			slog.Any("error", err),
		)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	err = enc.Encode(doc)
	if err == nil {
		return
	}
	p.log.ErrorContext(
		r.Context(),
		"failed to encode openapi document to json",
		slog.Any("error", err),
	)
}

func (p *Plugin) servePage(w http.ResponseWriter, r *http.Request) {
	page := viewer.Page{
		Title:                p.cfg.Viewer.Title,
		SpecURL:              p.cfg.SpecPath,
		Theme:                p.cfg.Viewer.Theme,
		PersistAuthorization: p.cfg.Viewer.PersistAuthorization,
	}
	if page.Title == "" {
		page.Title = "API Documentation"
	}

	if p.cfg.EmbedSpec {
		doc, err := p.Document(r.Context())
		if err != nil {
			p.log.ErrorContext(
				r.Context(),
				"failed to build openapi document",
				slog.Any("error", err),
			)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		raw, err := json.Marshal(doc)
		if err != nil {
			p.log.ErrorContext(
				r.Context(),
				"failed to encode openapi document to json",
				slog.Any("error", err),
			)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		page.SpecJSON = template.JS(raw)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := viewer.Render(w, p.cfg.Viewer.Name, page)
	if err == nil {
		return
	}
	p.log.ErrorContext(
		r.Context(),
		"failed to render documentation page",
		slog.Any("error", err),
	)
}

// SetExclusion replaces the entire exclusion policy with a deep copy
// of the given one, or clears it when nil.
func (p *Plugin) SetExclusion(policy *exclude.Policy) *Plugin {
	p.exclusions.Set(policy)
	return p
}

// AddExcludedPaths appends path matchers to the exclusion policy.
func (p *Plugin) AddExcludedPaths(matchers ...exclude.Matcher) *Plugin {
	p.exclusions.AddPaths(matchers...)
	return p
}

// RemoveExcludedPaths removes structurally equal path matchers from
// the exclusion policy.
func (p *Plugin) RemoveExcludedPaths(matchers ...exclude.Matcher) *Plugin {
	p.exclusions.RemovePaths(matchers...)
	return p
}

// AddExcludedTags adds tags to the exclusion policy.
func (p *Plugin) AddExcludedTags(tags ...string) *Plugin {
	p.exclusions.AddTags(tags...)
	return p
}

// RemoveExcludedTags removes tags from the exclusion policy.
func (p *Plugin) RemoveExcludedTags(tags ...string) *Plugin {
	p.exclusions.RemoveTags(tags...)
	return p
}

// AddExcludedMethods adds methods to the exclusion policy. Methods
// are matched case-insensitively.
func (p *Plugin) AddExcludedMethods(methods ...string) *Plugin {
	p.exclusions.AddMethods(methods...)
	return p
}

// RemoveExcludedMethods removes methods from the exclusion policy.
func (p *Plugin) RemoveExcludedMethods(methods ...string) *Plugin {
	p.exclusions.RemoveMethods(methods...)
	return p
}

// GetExclusion returns a deep copy of the active exclusion policy, or
// nil when none is configured.
func (p *Plugin) GetExclusion() *exclude.Policy {
	return p.exclusions.Policy()
}
