// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package exclude implements the exclusion policy which controls
// which routes appear in the generated OpenAPI document.
package exclude

import (
	"regexp"
	"slices"
)

// Matcher matches route paths for exclusion. Implementations are
// [Path] for literal paths and [Pattern] for regular expressions.
type Matcher interface {
	MatchPath(path string) bool

	// equalMatcher compares matchers structurally so removal works
	// on equal values, not identical ones.
	equalMatcher(Matcher) bool
}

// Path is a literal path matcher. It matches the registered path
// pattern exactly.
type Path string

// MatchPath implements the [Matcher] interface.
func (p Path) MatchPath(path string) bool {
	return string(p) == path
}

func (p Path) equalMatcher(m Matcher) bool {
	o, ok := m.(Path)
	return ok && o == p
}

type pattern struct {
	re *regexp.Regexp
}

// Pattern wraps a regular expression as a [Matcher]. Two Pattern
// matchers are considered equal when their source expressions are
// equal; flags are part of the source in Go regular expressions.
func Pattern(re *regexp.Regexp) Matcher {
	return pattern{re: re}
}

// MatchPath implements the [Matcher] interface.
func (p pattern) MatchPath(path string) bool {
	return p.re.MatchString(path)
}

func (p pattern) equalMatcher(m Matcher) bool {
	o, ok := m.(pattern)
	return ok && o.re.String() == p.re.String()
}

// Policy holds the three independent exclusion filters. A nil or
// zero Policy excludes nothing. A route is excluded when any entry
// of any filter matches it.
type Policy struct {
	Paths   []Matcher
	Tags    []string
	Methods []string
}

// copyPolicy deep copies p so no slice is shared between a caller
// and the [Store]. Matcher values are immutable, cloning the slice
// is sufficient.
func copyPolicy(p *Policy) *Policy {
	if p == nil {
		return nil
	}
	return &Policy{
		Paths:   slices.Clone(p.Paths),
		Tags:    slices.Clone(p.Tags),
		Methods: slices.Clone(p.Methods),
	}
}
