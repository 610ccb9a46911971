// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package object

import (
	"github.com/arcboundrav/layer-sort/core"
	"github.com/arcboundrav/layer-sort/expr"
)

// CopiableAttributes is the fixed list of characteristics snapshotted at
// the sublayer-1b/2 boundary (spec §3): copy effects assign from this
// snapshot, never from an object's live apparent state post-1b.
var CopiableAttributes = []string{
	"name", "mana_cost", "card_types", "subtypes", "supertypes",
	"power", "toughness", "loyalty", "color", "abilities",
}

// ManaValueFunc computes a mana value from an opaque mana-cost string and
// the X chosen for that object, if any (spec §1: mana-cost parsing is an
// external black box; 202.3e X handling in SUPPLEMENTED FEATURES is the
// only arithmetic this package performs on top of it).
type ManaValueFunc func(manaCost string, chosenX int) int

// Object is a mutable game object: a permanent, spell, ability on the
// stack, or token (spec §3). Its characteristics are read/written through
// the overlay by the solver; Object itself only ever exposes base values
// via BaseAttr.
type Object struct {
	id             string
	TempID         string
	tempIDHistory  map[string]struct{}
	Timestamp      int64
	ObjectTypes    expr.StringSet

	name       string
	manaCost   string
	color      expr.StringSet
	cardTypes  expr.StringSet
	subtypes   expr.StringSet
	supertypes expr.StringSet
	abilities  []*Ability
	power      int
	toughness  int
	loyalty    int
	controller string

	Markers               []*Marker
	CanHaveMarkers        bool
	ProhibitedMarkerTypes []*core.Ref

	CopiableValues map[string]expr.Value

	CurrentZone      *Zone
	PriorZone        *Zone
	IsFacedown       bool
	CopySourceObject *Object
	ChosenX          *int

	// EnchantedObject and EquippedObject back the "enchanted_object" and
	// "equipped_object" link attributes Aura/Equipment hosts read through
	// EnchantedByHostPredicate/EquippedByHostPredicate. Nil means unattached.
	EnchantedObject *Object
	EquippedObject  *Object

	ManaValue ManaValueFunc
}

// New builds an object with sensible zero-value defaults (spec §3's base
// object): no abilities, empty characteristics, markers allowed.
func New(id string) *Object {
	return &Object{
		id:             id,
		TempID:         id,
		tempIDHistory:  map[string]struct{}{},
		ObjectTypes:    expr.StringSet{},
		color:          expr.StringSet{},
		cardTypes:      expr.StringSet{},
		subtypes:       expr.StringSet{},
		supertypes:     expr.StringSet{},
		CanHaveMarkers: true,
		CopiableValues: map[string]expr.Value{},
	}
}

// ID implements expr.AttributeSource.
func (o *Object) ID() string { return o.id }

// BaseAttr implements expr.AttributeSource, returning the object's
// un-modified base value for a characteristic name. Names follow the
// Python ground truth's attribute names (snake_case) so effect-component
// authoring matches the source's vocabulary (spec §2.5/§3).
func (o *Object) BaseAttr(name string) (expr.Value, error) {
	switch name {
	case "name":
		return o.name, nil
	case "mana_cost":
		return o.manaCost, nil
	case "color":
		return o.color, nil
	case "card_types":
		return o.cardTypes, nil
	case "subtypes":
		return o.subtypes, nil
	case "supertypes":
		return o.supertypes, nil
	case "abilities":
		return abilitiesAsValueSlice(o.abilities), nil
	case "power":
		return o.power, nil
	case "toughness":
		return o.toughness, nil
	case "loyalty":
		return o.loyalty, nil
	case "controller":
		return o.controller, nil
	case "object_types":
		return o.ObjectTypes, nil
	case "timestamp":
		return int(o.Timestamp), nil
	case "enchanted_object":
		if o.EnchantedObject == nil {
			return nil, nil
		}
		return o.EnchantedObject, nil
	case "equipped_object":
		if o.EquippedObject == nil {
			return nil, nil
		}
		return o.EquippedObject, nil
	default:
		return nil, core.NewEntityError("Object.BaseAttr", "attribute", name, core.ErrInvalidEntity)
	}
}

// abilitiesAsValueSlice adapts the typed ability slice to the []expr.Value
// shape Reduction/concat deltas operate on, so "abilities" behaves like
// any other attribute in the overlay instead of needing special casing.
func abilitiesAsValueSlice(abilities []*Ability) []expr.Value {
	out := make([]expr.Value, len(abilities))
	for i, a := range abilities {
		out[i] = a
	}
	return out
}

// AbilitiesFromValueSlice converts an overlay-read []expr.Value back into
// typed abilities, for callers that write an "abilities" delta result back
// onto an object (spec §4.3 step 2's overlay setter) or that need to
// inspect the apparent ability list directly.
func AbilitiesFromValueSlice(values []expr.Value) []*Ability {
	out := make([]*Ability, 0, len(values))
	for _, v := range values {
		if a, ok := v.(*Ability); ok {
			out = append(out, a)
		}
	}
	return out
}

// SetBase assigns an object's base attribute directly, bypassing the
// overlay. Used only by card-side construction code and by zone-move
// collaborators (never by the solver itself, which only ever writes
// through the overlay).
func (o *Object) SetBase(name string, value expr.Value) error {
	switch name {
	case "name":
		o.name, _ = value.(string)
	case "mana_cost":
		o.manaCost, _ = value.(string)
	case "color":
		o.color, _ = value.(expr.StringSet)
	case "card_types":
		o.cardTypes, _ = value.(expr.StringSet)
	case "subtypes":
		o.subtypes, _ = value.(expr.StringSet)
	case "supertypes":
		o.supertypes, _ = value.(expr.StringSet)
	case "abilities":
		if slice, ok := value.([]expr.Value); ok {
			o.abilities = AbilitiesFromValueSlice(slice)
		} else if typed, ok := value.([]*Ability); ok {
			o.abilities = typed
		}
	case "power":
		o.power, _ = value.(int)
	case "toughness":
		o.toughness, _ = value.(int)
	case "loyalty":
		o.loyalty, _ = value.(int)
	case "controller":
		o.controller, _ = value.(string)
	case "object_types":
		o.ObjectTypes, _ = value.(expr.StringSet)
	case "enchanted_object":
		o.EnchantedObject, _ = value.(*Object)
	case "equipped_object":
		o.EquippedObject, _ = value.(*Object)
	default:
		return core.NewEntityError("Object.SetBase", "attribute", name, core.ErrInvalidEntity)
	}
	return nil
}

// InvokeMethod implements expr.MethodInvoker for the derived read-only
// attributes named in SPEC_FULL's SUPPLEMENTED FEATURES: mana value,
// monocolored/multicolored, and the 202.3e X-off-the-stack rule.
func (o *Object) InvokeMethod(name string, _ map[string]expr.Value) (expr.Value, error) {
	switch name {
	case "is_monocolored":
		return len(o.color) == 1, nil
	case "is_multicolored":
		return len(o.color) > 1, nil
	case "mana_value_x":
		return o.ManaValueX(), nil
	case "mana_value":
		return o.ManaValue(o.manaCost, o.ManaValueX()), nil
	default:
		return nil, core.NewEntityError("Object.InvokeMethod", "method", name, core.ErrInvalidEntity)
	}
}

// ManaValueX implements 202.3e: X is 0 while the object is not on the
// stack, and the chosen value for X while it is.
func (o *Object) ManaValueX() int {
	if o.ChosenX == nil {
		return 0
	}
	if !InZoneTypes(o.CurrentZone, ZoneStack) {
		return 0
	}
	return *o.ChosenX
}

// ReissueTransientID implements spec §3's "transient identifier reissued
// on zone change" (modifiables.py update_temp_id): the prior temp id is
// retained in history so an identity predicate authored against the stale
// id reliably misses after the object leaves its zone. Called by the
// zone-lookup collaborator contract, never by the solver itself.
func (o *Object) ReissueTransientID(freshID func() string) {
	o.tempIDHistory[o.TempID] = struct{}{}
	o.TempID = freshID()
}

// HasTempIDInHistory reports whether id was ever one of this object's
// prior transient ids, for "did this effect's selection predicate
// originally match what is now a different object" style guards.
func (o *Object) HasTempIDInHistory(id string) bool {
	_, ok := o.tempIDHistory[id]
	return ok
}

// Abilities returns the live ability slice. Effect-component
// implementations should prefer reading "abilities" through the overlay;
// this accessor is for base-state construction and tests.
func (o *Object) Abilities() []*Ability { return o.abilities }
