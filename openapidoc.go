// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package openapidoc derives an OpenAPI document from registered route
// definitions and keeps it consistent with an exclusion policy which
// can change at runtime.
package openapidoc

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Logger returns a [slog.Logger] backed by the global OTel logger provider.
func Logger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}
