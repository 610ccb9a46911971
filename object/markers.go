// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package object

import "github.com/arcboundrav/layer-sort/core"

// Marker is a counter-like decoration on an object (spec §3): a +1/+1
// counter, a charge counter, etc. Markers of the same type share the
// timestamp of the most recently added one (613.7c; spec §3's invariant,
// made explicit as AddMarker's behavior here per SPEC_FULL's
// SUPPLEMENTED FEATURES).
type Marker struct {
	Type      *core.Ref
	Timestamp int64

	// ComponentFactory, when non-nil, synthesizes the effect component
	// this marker type contributes each pass (e.g. a +1/+1 counter
	// synthesizing a power/toughness delta). Opaque to this package for
	// the same reason Ability.StaticGenerator is: the layers package
	// type-asserts the result, avoiding an object<->layers import cycle.
	ComponentFactory func(host *Object) (any, error)
}

// CanAcceptMarker reports whether markerType may be added to o: the host
// must allow markers at all, and the type must not be prohibited (spec
// §8 boundary behavior; SUPPLEMENTED FEATURES names this operation).
func (o *Object) CanAcceptMarker(markerType *core.Ref) bool {
	if !o.CanHaveMarkers {
		return false
	}
	for _, prohibited := range o.ProhibitedMarkerTypes {
		if prohibited.Equals(markerType) {
			return false
		}
	}
	return true
}

// UpdateMarkerTimestampsByType sets every existing marker of markerType on
// o to newTimestamp, per 613.7c.
func (o *Object) UpdateMarkerTimestampsByType(markerType *core.Ref, newTimestamp int64) {
	for _, m := range o.Markers {
		if m.Type.Equals(markerType) {
			m.Timestamp = newTimestamp
		}
	}
}

// AddMarker adds one marker of markerType at timestamp, synchronizing
// every existing marker of that type on o to the same timestamp per
// 613.7c, and is a silent no-op if CanAcceptMarker would refuse it (spec
// §8: "A marker added to an object whose can_have_markers flag is false,
// or whose prohibited_marker_types contains the type, is not added.").
func (o *Object) AddMarker(markerType *core.Ref, timestamp int64, componentFactory func(host *Object) (any, error)) {
	if !o.CanAcceptMarker(markerType) {
		return
	}
	o.UpdateMarkerTimestampsByType(markerType, timestamp)
	o.Markers = append(o.Markers, &Marker{
		Type:             markerType,
		Timestamp:        timestamp,
		ComponentFactory: componentFactory,
	})
}

// RemoveMarkerByType removes the first marker of markerType found, if any.
func (o *Object) RemoveMarkerByType(markerType *core.Ref) {
	for i, m := range o.Markers {
		if m.Type.Equals(markerType) {
			o.Markers = append(o.Markers[:i], o.Markers[i+1:]...)
			return
		}
	}
}

// CountMarkersByType returns how many markers of markerType o carries.
func (o *Object) CountMarkersByType(markerType *core.Ref) int {
	count := 0
	for _, m := range o.Markers {
		if m.Type.Equals(markerType) {
			count++
		}
	}
	return count
}
