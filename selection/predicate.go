// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package selection

import (
	"sort"
	"strings"
	"sync"

	"github.com/arcboundrav/layer-sort/expr"
	"github.com/arcboundrav/layer-sort/rpgerr"
)

// Predicate tests whether an object of type T belongs in a selection.
// Name identifies the predicate for the composed-predicate cache below;
// it need not be unique across instances with different parameters, but
// two predicates built from the same parameters should return the same
// Name so the cache can recognize repeated composition.
type Predicate[T any] interface {
	Name() string
	Test(ctx expr.Context, obj T) (bool, error)
}

// PredicateFunc adapts a bare test function into a Predicate with a fixed
// name, for ad hoc one-off predicates that don't need a dedicated type.
type PredicateFunc[T any] struct {
	FuncName string
	Fn       func(ctx expr.Context, obj T) (bool, error)
}

// Name returns the predicate's identifying name.
func (p PredicateFunc[T]) Name() string { return p.FuncName }

// Test invokes the wrapped function.
func (p PredicateFunc[T]) Test(ctx expr.Context, obj T) (bool, error) {
	return p.Fn(ctx, obj)
}

// attributeSource narrows T to whatever AttributeRead-style predicates
// need: an id and a base-attribute reader, matching expr.AttributeSource.
type attributeSource = expr.AttributeSource

// AttrEquals tests obj.Attr (read through the overlay in ctx when present)
// against a (possibly dynamic) reference value using Op. Grounds the
// source's `P` predicate class.
type AttrEquals[T attributeSource] struct {
	Attr  string
	Op    func(attrValue, refValue expr.Value) (expr.Value, error)
	Value expr.Expression
}

// Name identifies this predicate for composed-predicate caching.
func (p *AttrEquals[T]) Name() string { return "AttrEquals:" + p.Attr }

// Test reads the attribute then applies Op against the evaluated reference
// value. Op follows the expr package's binary-operator shape (e.g.
// expr.OpEqual, expr.OpGTE) and must evaluate to a bool.
func (p *AttrEquals[T]) Test(ctx expr.Context, obj T) (bool, error) {
	var attrValue expr.Value
	var err error
	if ctx.Overlay != nil {
		attrValue, err = ctx.Overlay.Query(obj, p.Attr)
	} else {
		attrValue, err = obj.BaseAttr(p.Attr)
	}
	if err != nil {
		return false, err
	}
	refValue, err := p.Value.Evaluate(ctx)
	if err != nil {
		return false, err
	}
	result, err := p.Op(attrValue, refValue)
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, rpgerr.InvalidTarget("AttrEquals operator for " + p.Attr + " did not evaluate to a bool")
	}
	return b, nil
}

// MemberOf tests whether a (possibly dynamic) value is a member of the
// StringSet held in obj.Attr. Grounds the source's `inP`.
type MemberOf[T attributeSource] struct {
	Attr   string
	Member expr.Expression
}

// Name identifies this predicate for composed-predicate caching. When
// Member is a constant string (the common case for fixed type-membership
// checks), its value is folded into the name so that, say, a card_types
// check for "artifact" and one for "creature" don't collide in the
// composed-predicate cache despite sharing Attr.
func (p *MemberOf[T]) Name() string { return "MemberOf:" + p.Attr + ":" + memberNameSuffix(p.Member) }

// memberNameSuffix renders expr a stable cache-key fragment: the literal
// value for a Const, or "dynamic" for anything computed at evaluation
// time (two dynamic members are never known to be equivalent, so they
// must not share a cache entry).
func memberNameSuffix(member expr.Expression) string {
	if c, ok := member.(*expr.Const); ok {
		if s, ok := c.Value.(string); ok {
			return s
		}
	}
	return "dynamic"
}

// Test reports whether the evaluated member value is in obj.Attr.
func (p *MemberOf[T]) Test(ctx expr.Context, obj T) (bool, error) {
	var attrValue expr.Value
	var err error
	if ctx.Overlay != nil {
		attrValue, err = ctx.Overlay.Query(obj, p.Attr)
	} else {
		attrValue, err = obj.BaseAttr(p.Attr)
	}
	if err != nil {
		return false, err
	}
	set, ok := attrValue.(expr.StringSet)
	if !ok {
		return false, rpgerr.InvalidTarget("MemberOf predicate against a non-set attribute " + p.Attr)
	}
	memberValue, err := p.Member.Evaluate(ctx)
	if err != nil {
		return false, err
	}
	member, ok := memberValue.(string)
	if !ok {
		return false, rpgerr.InvalidTarget("MemberOf reference value is not a string")
	}
	return set.Contains(member), nil
}

// NotMemberOf negates MemberOf. Grounds the source's `notinP`.
func NotMemberOf[T attributeSource](attr string, member expr.Expression) Predicate[T] {
	inner := &MemberOf[T]{Attr: attr, Member: member}
	return PredicateFunc[T]{
		FuncName: "NotMemberOf:" + attr + ":" + memberNameSuffix(member),
		Fn: func(ctx expr.Context, obj T) (bool, error) {
			ok, err := inner.Test(ctx, obj)
			if err != nil {
				return false, err
			}
			return !ok, nil
		},
	}
}

// Identity tests that obj is non-nil (in the Go sense: its ID is
// non-empty). Grounds the source's `idP`.
type Identity[T attributeSource] struct{}

// Name identifies this predicate for composed-predicate caching.
func (Identity[T]) Name() string { return "Identity" }

// Test reports whether obj's id is non-empty.
func (Identity[T]) Test(_ expr.Context, obj T) (bool, error) {
	return obj.ID() != "", nil
}

// SameObject tests whether the candidate object is the same object
// identified by a dynamic reference, by comparing stable ids rather than
// attribute values. Grounds the source's `identifyP`.
type SameObject[T attributeSource] struct {
	// Ref resolves to the reference object's id at test time.
	Ref func(ctx expr.Context) (string, error)
}

// Name identifies this predicate for composed-predicate caching.
func (p *SameObject[T]) Name() string { return "SameObject" }

// Test compares obj's id to the dynamically resolved reference id.
func (p *SameObject[T]) Test(ctx expr.Context, obj T) (bool, error) {
	refID, err := p.Ref(ctx)
	if err != nil {
		return false, err
	}
	return obj.ID() == refID, nil
}

// ExcludeObject negates SameObject. Grounds the source's `excludeP`.
func ExcludeObject[T attributeSource](ref func(ctx expr.Context) (string, error)) Predicate[T] {
	inner := &SameObject[T]{Ref: ref}
	return PredicateFunc[T]{
		FuncName: "ExcludeObject",
		Fn: func(ctx expr.Context, obj T) (bool, error) {
			ok, err := inner.Test(ctx, obj)
			if err != nil {
				return false, err
			}
			return !ok, nil
		},
	}
}

// composedCacheEntry holds a previously built Conjunction/Disjunction so
// repeated composition of the same predicate set by sorted-name key
// returns the identical composite instance instead of rebuilding it.
var (
	composedCacheMu sync.Mutex
	composedCache   = map[string]any{}
)

func sortedNameKey[T any](kind string, predicates []Predicate[T]) string {
	names := make([]string, len(predicates))
	for i, p := range predicates {
		names[i] = p.Name()
	}
	sort.Strings(names)
	return kind + "(" + strings.Join(names, ",") + ")"
}

// conjunction is the AND of its member predicates; Test short-circuits on
// the first false. Grounds the source's `Conjunction`.
type conjunction[T any] struct {
	predicates []Predicate[T]
}

func (c *conjunction[T]) Name() string { return sortedNameKey("AND", c.predicates) }

func (c *conjunction[T]) Test(ctx expr.Context, obj T) (bool, error) {
	for _, p := range c.predicates {
		ok, err := p.Test(ctx, obj)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Conjunction builds (or returns the cached instance of) the AND of the
// given predicates. Returns an rpgerr invalid-target error
// (rpgerr.CodeInvalidTarget) if any member is nil, per the source's
// fail-fast authoring-error contract (spec §7).
func Conjunction[T any](predicates ...Predicate[T]) (Predicate[T], error) {
	for _, p := range predicates {
		if p == nil {
			return nil, rpgerr.InvalidTarget("conjunction constructed with a nil predicate")
		}
	}
	key := sortedNameKey("AND", predicates)
	composedCacheMu.Lock()
	defer composedCacheMu.Unlock()
	if cached, ok := composedCache[key]; ok {
		return cached.(Predicate[T]), nil
	}
	c := &conjunction[T]{predicates: predicates}
	composedCache[key] = Predicate[T](c)
	return c, nil
}

// disjunction is the OR of its member predicates; Test short-circuits on
// the first true. Grounds the source's `Disjunction`.
type disjunction[T any] struct {
	predicates []Predicate[T]
}

func (d *disjunction[T]) Name() string { return sortedNameKey("OR", d.predicates) }

func (d *disjunction[T]) Test(ctx expr.Context, obj T) (bool, error) {
	for _, p := range d.predicates {
		ok, err := p.Test(ctx, obj)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Disjunction builds (or returns the cached instance of) the OR of the
// given predicates. Returns an rpgerr invalid-target error
// (rpgerr.CodeInvalidTarget) if any member is nil.
func Disjunction[T any](predicates ...Predicate[T]) (Predicate[T], error) {
	for _, p := range predicates {
		if p == nil {
			return nil, rpgerr.InvalidTarget("disjunction constructed with a nil predicate")
		}
	}
	key := sortedNameKey("OR", predicates)
	composedCacheMu.Lock()
	defer composedCacheMu.Unlock()
	if cached, ok := composedCache[key]; ok {
		return cached.(Predicate[T]), nil
	}
	d := &disjunction[T]{predicates: predicates}
	composedCache[key] = Predicate[T](d)
	return d, nil
}
