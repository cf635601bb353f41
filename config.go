// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package openapidoc

import (
	"bytes"
	_ "embed"
	"io"
	"os"

	bedrockcfg "github.com/z5labs/bedrock/config"
)

// ConfigSource wraps the given [io.Reader] into a YAML config source
// with support for Go templating. Two template functions are supported:
//   - env - substitute an environment variable into the YAML
//   - default - define a default value in case the original value is nil
func ConfigSource(r io.Reader) bedrockcfg.Source {
	return bedrockcfg.FromYaml(
		bedrockcfg.RenderTextTemplate(
			r,
			bedrockcfg.TemplateFunc("env", func(key string) any {
				v, ok := os.LookupEnv(key)
				if ok {
					return v
				}
				return nil
			}),
			bedrockcfg.TemplateFunc("default", func(def, v any) any {
				if v == nil {
					return def
				}
				return v
			}),
		),
	)
}

//go:embed default_config.yaml
var defaultConfig []byte

// DefaultConfig returns the config source holding the default values
// for [Config].
func DefaultConfig() bedrockcfg.Source {
	return ConfigSource(bytes.NewReader(defaultConfig))
}

// ViewerConfig selects and configures the documentation page viewer.
type ViewerConfig struct {
	// Name of the viewer, either "swagger" or "scalar".
	Name string `config:"name"`

	// Title of the rendered HTML page.
	Title string `config:"title"`

	// Theme name passed through to the viewer. Scalar only.
	Theme string `config:"theme"`

	// PersistAuthorization keeps entered credentials across page
	// reloads. Swagger UI only.
	PersistAuthorization bool `config:"persistAuthorization"`
}

// Config defines the construction time configuration of a [Plugin].
type Config struct {
	// Enabled controls whether [Plugin.Mount] registers any endpoint.
	Enabled bool `config:"enabled"`

	// Path the documentation page is served at.
	Path string `config:"path"`

	// SpecPath the OpenAPI document is served at as JSON.
	SpecPath string `config:"specPath"`

	// EmbedSpec inlines the document into the documentation page at
	// render time instead of referencing SpecPath by URL. Meant for
	// environments without eager static file serving.
	EmbedSpec bool `config:"embedSpec"`

	Viewer ViewerConfig `config:"viewer"`
}

// LoadConfig merges the given sources over [DefaultConfig] and
// unmarshals the "openapi" section into a [Config].
func LoadConfig(srcs ...bedrockcfg.Source) (Config, error) {
	merged := append([]bedrockcfg.Source{DefaultConfig()}, srcs...)

	m, err := bedrockcfg.Read(bedrockcfg.MultiSource(merged...))
	if err != nil {
		return Config{}, err
	}

	var cfg struct {
		OpenApi Config `config:"openapi"`
	}
	err = m.Unmarshal(&cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg.OpenApi, nil
}
