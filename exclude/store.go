// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package exclude

import (
	"slices"
	"strings"
	"sync"
)

// Store owns the active exclusion [Policy] for the lifetime of the
// process. It is safe for concurrent use.
//
// Every mutation that changes the policy bumps a monotonic version
// counter; document caches compare it against the version observed at
// their last build. Removal operations that find nothing to remove do
// not bump the version, so no-op churn never forces a rebuild.
//
// All mutators return the Store to enable chained calls.
type Store struct {
	mu      sync.Mutex
	policy  *Policy
	version uint64
}

// NewStore initializes a [Store] holding a deep copy of the given
// initial policy. A nil initial policy excludes nothing.
func NewStore(initial *Policy) *Store {
	return &Store{
		policy: copyPolicy(initial),
	}
}

// Set replaces the entire policy with a deep copy of p, or clears it
// when p is nil. Set always bumps the version.
func (s *Store) Set(p *Policy) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.policy = copyPolicy(p)
	s.version++
	return s
}

// AddPaths appends the given matchers to the path filter, creating it
// if absent and preserving prior entries and their order.
func (s *Store) AddPaths(matchers ...Matcher) *Store {
	if len(matchers) == 0 {
		return s
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.policy == nil {
		s.policy = &Policy{}
	}
	s.policy.Paths = append(s.policy.Paths, slices.Clone(matchers)...)
	s.version++
	return s
}

// RemovePaths removes every path filter entry structurally equal to
// any of the given matchers. It is a no-op when no path filter is
// configured or nothing matches.
func (s *Store) RemovePaths(matchers ...Matcher) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.policy == nil || len(s.policy.Paths) == 0 {
		return s
	}

	kept := s.policy.Paths[:0]
	for _, existing := range s.policy.Paths {
		matched := slices.ContainsFunc(matchers, existing.equalMatcher)
		if !matched {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(s.policy.Paths) {
		return s
	}

	s.policy.Paths = kept
	s.version++
	return s
}

// AddTags unions the given tags into the tag filter, preserving
// insertion order and skipping tags already present.
func (s *Store) AddTags(tags ...string) *Store {
	if len(tags) == 0 {
		return s
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.policy == nil {
		s.policy = &Policy{}
	}

	changed := false
	for _, tag := range tags {
		if slices.Contains(s.policy.Tags, tag) {
			continue
		}
		s.policy.Tags = append(s.policy.Tags, tag)
		changed = true
	}
	if changed {
		s.version++
	}
	return s
}

// RemoveTags removes the given tags from the tag filter, preserving
// the insertion order of survivors.
func (s *Store) RemoveTags(tags ...string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.policy == nil || len(s.policy.Tags) == 0 {
		return s
	}

	kept := slices.DeleteFunc(slices.Clone(s.policy.Tags), func(existing string) bool {
		return slices.Contains(tags, existing)
	})
	if len(kept) == len(s.policy.Tags) {
		return s
	}

	s.policy.Tags = kept
	s.version++
	return s
}

// AddMethods unions the given methods into the method filter.
// Method comparison is case-insensitive.
func (s *Store) AddMethods(methods ...string) *Store {
	if len(methods) == 0 {
		return s
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.policy == nil {
		s.policy = &Policy{}
	}

	changed := false
	for _, method := range methods {
		exists := slices.ContainsFunc(s.policy.Methods, func(existing string) bool {
			return strings.EqualFold(existing, method)
		})
		if exists {
			continue
		}
		s.policy.Methods = append(s.policy.Methods, method)
		changed = true
	}
	if changed {
		s.version++
	}
	return s
}

// RemoveMethods removes the given methods from the method filter.
// Method comparison is case-insensitive.
func (s *Store) RemoveMethods(methods ...string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.policy == nil || len(s.policy.Methods) == 0 {
		return s
	}

	kept := slices.DeleteFunc(slices.Clone(s.policy.Methods), func(existing string) bool {
		return slices.ContainsFunc(methods, func(method string) bool {
			return strings.EqualFold(existing, method)
		})
	})
	if len(kept) == len(s.policy.Methods) {
		return s
	}

	s.policy.Methods = kept
	s.version++
	return s
}

// Policy returns a deep copy of the active policy, or nil when none
// is configured. Mutating the returned value does not affect the Store.
func (s *Store) Policy() *Policy {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyPolicy(s.policy)
}

// Version returns the current policy version.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.version
}
