// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package layers

import (
	"fmt"

	"github.com/arcboundrav/layer-sort/expr"
	"github.com/arcboundrav/layer-sort/object"
)

// copiableValueRead evaluates to the subject's copy-source object's
// frozen copiable value for attr (spec §4.4): copy effects assign from
// the source's sublayer-1b/2 snapshot, never its live apparent state.
type copiableValueRead struct {
	attr string
}

func (c *copiableValueRead) Evaluate(ctx expr.Context) (expr.Value, error) {
	target, ok := ctx.Subject.(*object.Object)
	if !ok || target == nil {
		return nil, fmt.Errorf("layers: copy-effect delta for %q evaluated with no *object.Object subject", c.attr)
	}
	if target.CopySourceObject == nil {
		return nil, fmt.Errorf("layers: copy-effect delta for %q on %s with no CopySourceObject set", c.attr, target.ID())
	}
	return expr.DeepCopy(target.CopySourceObject.CopiableValues[c.attr]), nil
}

// copiableAbilitiesRead clones each of the source's frozen copiable
// abilities and rebinds the clone's host to the target, tagging origin =
// copiable_effect (spec §4.4). String placeholders for unresolved
// abilities pass through unchanged, grounding abstractions.py's
// AbilitiesK.compute.
type copiableAbilitiesRead struct {
	freshID func() string
}

func (c *copiableAbilitiesRead) Evaluate(ctx expr.Context) (expr.Value, error) {
	target, ok := ctx.Subject.(*object.Object)
	if !ok || target == nil {
		return nil, fmt.Errorf("layers: copy-effect abilities delta evaluated with no *object.Object subject")
	}
	if target.CopySourceObject == nil {
		return nil, fmt.Errorf("layers: copy-effect abilities delta on %s with no CopySourceObject set", target.ID())
	}
	raw, _ := target.CopySourceObject.CopiableValues["abilities"].([]expr.Value)
	out := make([]expr.Value, 0, len(raw))
	for _, v := range raw {
		if placeholder, ok := v.(string); ok {
			out = append(out, placeholder)
			continue
		}
		ability, ok := v.(*object.Ability)
		if !ok {
			continue
		}
		out = append(out, ability.CloneForNewHost(target.ID(), c.freshID))
	}
	return out, nil
}

// CopyEffectConfig configures a copy-effect component (spec §4.4): when
// enacted on a target whose CopySourceObject is set, it assigns every
// copiable attribute from the source's frozen copiable values. Exceptions
// are appended after the base assignment so they overwrite specific
// attributes (e.g. "except it's 7/7"), grounding QuicksilverGargantuan-
// style exception clauses in contfx_config.py.
type CopyEffectConfig struct {
	ID          string
	HostID      string
	Sublayer    Sublayer
	Timestamp   int64
	Ordinal     int
	Targets     func(ctx expr.Context) ([]expr.AttributeSource, error)
	Exceptions  []Delta
	Overlay     Writer
	FreshID     func() string
	ValidFunc   func(ctx expr.Context) (bool, error)
	Invalidator Invalidator
}

// NewCopyEffectComponent builds a copy-effect component (spec §4.4).
func NewCopyEffectComponent(cfg CopyEffectConfig) *Component {
	deltas := make([]Delta, 0, len(object.CopiableAttributes)+len(cfg.Exceptions))
	for _, attr := range object.CopiableAttributes {
		if attr == "abilities" {
			deltas = append(deltas, Delta{Attr: attr, Compute: &copiableAbilitiesRead{freshID: cfg.FreshID}})
			continue
		}
		deltas = append(deltas, Delta{Attr: attr, Compute: &copiableValueRead{attr: attr}})
	}
	deltas = append(deltas, cfg.Exceptions...)

	return NewComponent(ComponentConfig{
		ID:          cfg.ID,
		HostID:      cfg.HostID,
		Sublayer:    cfg.Sublayer,
		Timestamp:   cfg.Timestamp,
		Ordinal:     cfg.Ordinal,
		Targets:     cfg.Targets,
		Deltas:      deltas,
		Overlay:     cfg.Overlay,
		ValidFunc:   cfg.ValidFunc,
		Invalidator: cfg.Invalidator,
	})
}

// faceDownDeltas returns the fixed constant deltas the face-down component
// assigns (spec §4.5), including the empty/singleton type sets.
func faceDownDeltas() []Delta {
	return []Delta{
		{Attr: "name", Compute: expr.NewConst("")},
		{Attr: "mana_cost", Compute: expr.NewConst("")},
		{Attr: "color", Compute: expr.NewConst(expr.StringSet{})},
		{Attr: "card_types", Compute: expr.NewConst(expr.NewStringSet("creature"))},
		{Attr: "subtypes", Compute: expr.NewConst(expr.StringSet{})},
		{Attr: "supertypes", Compute: expr.NewConst(expr.StringSet{})},
		{Attr: "power", Compute: expr.NewConst(2)},
		{Attr: "toughness", Compute: expr.NewConst(2)},
		{Attr: "abilities", Compute: expr.NewConst([]expr.Value{})},
	}
}

// NewCopyEffect wraps a single copy-effect component in a one-component
// Effect, for static abilities whose entire effect is "enter the
// battlefield as a copy" (spec §4.4), grounding CloneStaticAbility's bare
// components=[CopyEffectComponent()] — no separate modification deltas,
// just the copy itself.
func NewCopyEffect(id string, timestamp int64, cfg CopyEffectConfig) *Effect {
	cfg.ID = id
	cfg.Timestamp = timestamp
	e := &Effect{id: id, timestamp: timestamp}
	innerValid := cfg.ValidFunc
	cfg.ValidFunc = func(ctx expr.Context) (bool, error) {
		ok, err := e.Valid()
		if err != nil || !ok {
			return false, err
		}
		if innerValid != nil {
			return innerValid(ctx)
		}
		return true, nil
	}
	e.Components = []*Component{NewCopyEffectComponent(cfg)}
	return e
}

// NewFaceDownComponent builds the face-down copiable-value component
// (spec §4.5): a family of constant deltas against the same selection,
// independent of any copy source (name/cost empty, colorless, a 2/2
// creature, no abilities).
func NewFaceDownComponent(cfg ComponentConfig) *Component {
	cfg.Deltas = faceDownDeltas()
	return NewComponent(cfg)
}
