// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package solver

import (
	"github.com/arcboundrav/layer-sort/expr"
	"github.com/arcboundrav/layer-sort/overlay"
)

// State is an attribute-value snapshot of the overlay: object id -> attr
// name -> value. Aliased here rather than re-imported so the rest of this
// package doesn't have to spell out overlay's map type at every call site.
type State = map[string]map[string]expr.Value

// Component is the subset of an effect component's behavior the solver
// needs (spec §4.3, §4.7). The concrete type lives in the layers package;
// this interface exists so solver never imports layers and layers can
// depend on solver instead, matching the one-way dependency the spec's
// gather -> solve -> apply pipeline implies.
type Component interface {
	// ObjectID uniquely identifies this component instance, used both as
	// the probe-data key and as a dependency-graph vertex.
	ObjectID() string

	// Timestamp is the component's authoring timestamp, the primary
	// presort key (spec §4.7, 613.7).
	Timestamp() int64

	// Ordinal breaks presort ties between components sharing a
	// timestamp and originating from the same effect, by their relative
	// order in that effect's component list (613.7's "order specified").
	Ordinal() int

	// IsMarkerComponent reports whether this component was synthesized
	// from a marker rather than a static/resolution ability; marker
	// components have no reference effect whose selectable-object cache
	// needs refreshing (apparent_state_handler.py's refresh_components
	// note).
	IsMarkerComponent() bool

	// RefreshSelectableCache clears this component's reference effect's
	// cached selection results, a no-op for marker components. Called
	// before each probe so an unlockable selection re-resolves against
	// the state being probed.
	RefreshSelectableCache()

	// Valid reports whether this component still has a legal target/host
	// given the apparent state ctx reads through (spec §4.3's validity
	// contract, consulted by the second-order probe and by the
	// topological application step).
	Valid(ctx expr.Context) (bool, error)

	// Enact applies this component's deltas through the overlay in ctx.
	// lock is true only for the final, real application (as opposed to
	// a probe), matching the source's enact(lock=True) calls in
	// solve_sort.
	Enact(ctx expr.Context, lock bool) error
}

// Store is the subset of overlay.Overlay's behavior the solver drives
// directly while probing components against hypothetical states, kept as
// an interface so tests can substitute a fake.
type Store interface {
	Snapshot()
	Restore()
	Load(state State)
	RefreshReference()
	ReturnRAVD() State
	ReturnAVD() State
}

var _ Store = (*overlay.Overlay)(nil)

// Edge is a directed dependency edge: To depends on From, so From must be
// applied before To (apparent_state_handler.py's edge tuples).
type Edge struct {
	From string
	To   string
}
