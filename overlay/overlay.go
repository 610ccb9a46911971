// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package overlay

import (
	"github.com/arcboundrav/layer-sort/expr"
)

// Object is anything the overlay can hold modifications for: a stable id
// plus a way to read its un-modified base attribute values.
type Object = expr.AttributeSource

// Overlay is the apparent-state two-map structure (spec §4.6). `current`
// holds every attribute a component has written during this pass;
// `reference` holds, for each (object, attribute) pair, the value
// immediately before the component currently under evaluation first wrote
// to it. Per the invariants in spec §3: every key present in reference is
// present in current, and at most one entry per (object, attribute) pair
// exists in each map.
type Overlay struct {
	current   map[string]map[string]expr.Value
	reference map[string]map[string]expr.Value
	savepoint map[string]map[string]expr.Value
}

// New builds an empty overlay.
func New() *Overlay {
	return &Overlay{
		current:   map[string]map[string]expr.Value{},
		reference: map[string]map[string]expr.Value{},
	}
}

// Calibrate clears both maps and the savepoint, releasing the deep copies
// taken during the prior snapshot pass (spec §5's resource-lifetime note).
// Called by the effect manager at the start of every Snapshot.
func (o *Overlay) Calibrate() {
	o.current = map[string]map[string]expr.Value{}
	o.reference = map[string]map[string]expr.Value{}
	o.savepoint = nil
}

// RefreshReference clears only the reference map, used before probing a
// component so its reference snapshot reflects only what that component's
// own enactment writes (spec §4.7's first/second-order probes).
func (o *Overlay) RefreshReference() {
	o.reference = map[string]map[string]expr.Value{}
}

// RefreshCurrent clears only the current map. Exposed for completeness and
// test isolation; the solver otherwise manages current via Snapshot/Restore.
func (o *Overlay) RefreshCurrent() {
	o.current = map[string]map[string]expr.Value{}
}

func (o *Overlay) referenceCheck(obj Object, attr string) error {
	byAttr, ok := o.reference[obj.ID()]
	if !ok {
		byAttr = map[string]expr.Value{}
		o.reference[obj.ID()] = byAttr
	}
	if _, ok := byAttr[attr]; ok {
		return nil
	}
	base, err := obj.BaseAttr(attr)
	if err != nil {
		return err
	}
	byAttr[attr] = expr.DeepCopy(base)
	return nil
}

// Modify records obj.attr's pre-modification value into reference (the
// first time this attribute is written for obj during the component
// currently under evaluation) and writes newValue into current.
func (o *Overlay) Modify(obj Object, attr string, newValue expr.Value) error {
	if err := o.referenceCheck(obj, attr); err != nil {
		return err
	}
	byAttr, ok := o.current[obj.ID()]
	if !ok {
		byAttr = map[string]expr.Value{}
		o.current[obj.ID()] = byAttr
	}
	byAttr[attr] = newValue
	return nil
}

// Query returns the apparent value of obj.attr: the overlay's current
// value if one has been written this pass, otherwise the object's base
// attribute value.
func (o *Overlay) Query(obj Object, attr string) (expr.Value, error) {
	if byAttr, ok := o.current[obj.ID()]; ok {
		if v, ok := byAttr[attr]; ok {
			return v, nil
		}
	}
	return obj.BaseAttr(attr)
}

// Snapshot deep-copies current into a savepoint slot, for the solver to
// Restore to before probing the next component against the same baseline.
func (o *Overlay) Snapshot() {
	o.savepoint = deepCloneMap(o.current)
}

// Restore replaces current with a deep copy of the savepoint. The
// reference map is left untouched; callers clear it separately via
// RefreshReference when starting a new probe.
func (o *Overlay) Restore() {
	o.current = deepCloneMap(o.savepoint)
}

// Load replaces current with a deep copy of an arbitrary saved state,
// e.g. a second-order probe loading the first-order result of enacting A
// before probing B against A's resulting state.
func (o *Overlay) Load(state map[string]map[string]expr.Value) {
	o.current = deepCloneMap(state)
}

// ReturnRAVD returns a deep copy of the reference map ("reference
// attribute-value dict" in the source's naming), safe for the caller to
// retain across subsequent overlay mutation.
func (o *Overlay) ReturnRAVD() map[string]map[string]expr.Value {
	return deepCloneMap(o.reference)
}

// ReturnAVD returns a deep copy of the current map ("attribute-value
// dict"), safe for the caller to retain across subsequent overlay mutation.
func (o *Overlay) ReturnAVD() map[string]map[string]expr.Value {
	return deepCloneMap(o.current)
}

func deepCloneMap(src map[string]map[string]expr.Value) map[string]map[string]expr.Value {
	out := make(map[string]map[string]expr.Value, len(src))
	for oid, byAttr := range src {
		cloned := make(map[string]expr.Value, len(byAttr))
		for attr, v := range byAttr {
			cloned[attr] = expr.DeepCopy(v)
		}
		out[oid] = cloned
	}
	return out
}
