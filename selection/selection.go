// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package selection

import (
	"github.com/arcboundrav/layer-sort/expr"
)

// Unbounded marks Max as "the size of the filtered set", matching the
// source's `sizes=[n, None]` convention (spec §4.2: "max=∞ means |filtered|").
const Unbounded = -1

// SourceSetProvider lazily resolves the set a Selection draws from. It is
// itself deferred (rather than a plain slice) so a selection built against
// a "global-mutable" collection — e.g. "all creatures" — reflects objects
// added or removed after the selection was authored.
type SourceSetProvider[T any] func(ctx expr.Context) ([]T, error)

// Selection pairs a lazily-resolved source set with a predicate and an
// optional cardinality constraint on chosen subsets (spec §4.2).
type Selection[T any] struct {
	Source    SourceSetProvider[T]
	Predicate Predicate[T]
	Min, Max  int
}

// New builds a Selection with no cardinality constraint (the full filtered
// set is always a legal "selection" of itself).
func New[T any](source SourceSetProvider[T], predicate Predicate[T]) *Selection[T] {
	return &Selection[T]{Source: source, Predicate: predicate, Min: 0, Max: Unbounded}
}

// WithSizes builds a Selection constrained to subsets whose cardinality
// falls in the closed interval [min, max] (max == Unbounded means the size
// of the filtered set).
func WithSizes[T any](source SourceSetProvider[T], predicate Predicate[T], min, max int) *Selection[T] {
	return &Selection[T]{Source: source, Predicate: predicate, Min: min, Max: max}
}

// Filter resolves the source set and returns the subset matching Predicate.
func (s *Selection[T]) Filter(ctx expr.Context) ([]T, error) {
	source, err := s.Source(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(source))
	for _, obj := range source {
		ok, err := s.Predicate.Test(ctx, obj)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, obj)
		}
	}
	return out, nil
}

// Cardinality returns the size of the filtered set.
func (s *Selection[T]) Cardinality(ctx expr.Context) (int, error) {
	filtered, err := s.Filter(ctx)
	if err != nil {
		return 0, err
	}
	return len(filtered), nil
}

// Count implements expr.Counter so an ObjectCountOfSelection node can
// count this selection's matches without selection needing to be
// expression-aware itself.
func (s *Selection[T]) Count(ctx expr.Context) (int, error) {
	return s.Cardinality(ctx)
}

// Threshold reports whether op(cardinality, value) holds, e.g. "you
// control 4 or more lands".
func (s *Selection[T]) Threshold(ctx expr.Context, op func(count, value int) bool, value int) (bool, error) {
	count, err := s.Cardinality(ctx)
	if err != nil {
		return false, err
	}
	return op(count, value), nil
}

// Powerset returns every subset of the filtered set whose cardinality
// falls in [s.Min, effectiveMax], where effectiveMax is len(filtered) when
// s.Max is Unbounded.
func (s *Selection[T]) Powerset(ctx expr.Context) ([][]T, error) {
	filtered, err := s.Filter(ctx)
	if err != nil {
		return nil, err
	}
	max := s.Max
	if max == Unbounded || max > len(filtered) {
		max = len(filtered)
	}
	min := s.Min
	if min < 0 {
		min = 0
	}

	var out [][]T
	for size := min; size <= max; size++ {
		out = append(out, combinations(filtered, size)...)
	}
	return out, nil
}

// combinations returns every size-element subset of items, preserving
// relative order within each subset.
func combinations[T any](items []T, size int) [][]T {
	if size == 0 {
		return [][]T{{}}
	}
	if size > len(items) {
		return nil
	}
	var out [][]T
	var pick func(start int, chosen []T)
	pick = func(start int, chosen []T) {
		if len(chosen) == size {
			combo := make([]T, len(chosen))
			copy(combo, chosen)
			out = append(out, combo)
			return
		}
		for i := start; i < len(items); i++ {
			pick(i+1, append(chosen, items[i]))
		}
	}
	pick(0, nil)
	return out
}

// Locking caches the first Filter result for the lifetime of the manager's
// pass; the cache must be explicitly invalidated at the documented moments
// (spec §4.2): the start of a snapshot, and after each layer that may have
// changed type characteristics. Grounds the source's `LockedSelection_`.
type Locking[T any] struct {
	inner *Selection[T]
	cache []T
	valid bool
}

// NewLocking wraps a Selection with a filter-result cache.
func NewLocking[T any](inner *Selection[T]) *Locking[T] {
	return &Locking[T]{inner: inner}
}

// Filter returns the cached filtered set, computing it on the first call
// after construction or after the most recent Invalidate.
func (l *Locking[T]) Filter(ctx expr.Context) ([]T, error) {
	if l.valid {
		return l.cache, nil
	}
	filtered, err := l.inner.Filter(ctx)
	if err != nil {
		return nil, err
	}
	l.cache = filtered
	l.valid = true
	return l.cache, nil
}

// Invalidate drops the cached filter result, forcing the next Filter call
// to re-resolve the source set and re-apply the predicate.
func (l *Locking[T]) Invalidate() {
	l.valid = false
	l.cache = nil
}

// Cardinality returns the size of the (possibly cached) filtered set.
func (l *Locking[T]) Cardinality(ctx expr.Context) (int, error) {
	filtered, err := l.Filter(ctx)
	if err != nil {
		return 0, err
	}
	return len(filtered), nil
}

// Count implements expr.Counter.
func (l *Locking[T]) Count(ctx expr.Context) (int, error) {
	return l.Cardinality(ctx)
}
