// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package expr

// StringSet is the set-valued attribute representation used throughout the
// overlay and expression layers (colors, card types, subtypes, supertypes).
type StringSet map[string]struct{}

// NewStringSet builds a StringSet from the given members.
func NewStringSet(members ...string) StringSet {
	s := make(StringSet, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Clone deep-copies a StringSet so overlay writes never alias the base state.
func (s StringSet) Clone() StringSet {
	if s == nil {
		return nil
	}
	out := make(StringSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Union returns a new StringSet containing members of both sets.
func (s StringSet) Union(other StringSet) StringSet {
	out := s.Clone()
	if out == nil {
		out = StringSet{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Difference returns a new StringSet with other's members removed.
func (s StringSet) Difference(other StringSet) StringSet {
	out := StringSet{}
	for k := range s {
		if _, excluded := other[k]; !excluded {
			out[k] = struct{}{}
		}
	}
	return out
}

// SymmetricDifference returns members present in exactly one of the two sets.
func (s StringSet) SymmetricDifference(other StringSet) StringSet {
	out := StringSet{}
	for k := range s {
		if _, in := other[k]; !in {
			out[k] = struct{}{}
		}
	}
	for k := range other {
		if _, in := s[k]; !in {
			out[k] = struct{}{}
		}
	}
	return out
}

// Equal reports whether both sets contain exactly the same members.
func (s StringSet) Equal(other StringSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if _, ok := other[k]; !ok {
			return false
		}
	}
	return true
}

// Contains reports membership.
func (s StringSet) Contains(member string) bool {
	_, ok := s[member]
	return ok
}

// DeepCopy clones container-valued attributes (sets and slices) so that
// writing a constant into the overlay, or recording a reference snapshot,
// never aliases memory a later component might mutate in place via a
// reduction. Exported for use by the overlay package, which needs the
// same cloning rule when recording reference/current snapshots.
func DeepCopy(value Value) Value {
	return deepCopy(value)
}

// deepCopy clones container-valued attributes (sets and slices) so that
// writing a constant into the overlay, or recording a reference snapshot,
// never aliases memory a later component might mutate in place via a
// reduction.
func deepCopy(value Value) Value {
	switch v := value.(type) {
	case StringSet:
		return v.Clone()
	case []Value:
		out := make([]Value, len(v))
		copy(out, v)
		return out
	default:
		return v
	}
}
