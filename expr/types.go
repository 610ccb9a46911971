// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package expr

import "fmt"

// Value is any attribute value flowing through the apparent-state overlay:
// an int, a string, a set of strings, a slice of ability handles, or a
// player/object handle.
type Value = any

// AttributeSource is anything an expression can read a base attribute from.
type AttributeSource interface {
	ID() string
	BaseAttr(name string) (Value, error)
}

// MethodInvoker is an AttributeSource that also supports named method calls,
// for expressions that compute a value by invoking domain behavior (e.g.
// "is_monocolored") rather than reading a stored field.
type MethodInvoker interface {
	InvokeMethod(name string, args map[string]Value) (Value, error)
}

// OverlayReader resolves the apparent (overlay-aware) value of an attribute,
// honoring any writes already performed during the current snapshot pass.
// The overlay package implements this; expr depends only on the interface
// so the two packages don't import each other.
type OverlayReader interface {
	Query(obj AttributeSource, attr string) (Value, error)
}

// Counter is anything whose size can be computed against a Context: the
// selection package's Selection type implements this so ObjectCountOfSelection
// does not need to import selection directly.
type Counter interface {
	Count(ctx Context) (int, error)
}

// Context threads the subject object, the overlay, and the ambient id/clock
// sources through an evaluation instead of relying on process-wide
// singletons. Subject propagation — "the current subject applies to every
// sub-expression before it recurses" — is modeled as explicitly passing ctx
// down the tree rather than mutating node state.
type Context struct {
	Subject AttributeSource
	Overlay OverlayReader
	Now     func() int64
	FreshID func() string
}

// WithSubject returns a copy of ctx with a different subject, used when an
// expression's Target sub-expression resolves to a different object than
// the one the parent expression was evaluated against.
func (ctx Context) WithSubject(subject AttributeSource) Context {
	ctx.Subject = subject
	return ctx
}

// Expression is a node in the deferred-evaluation graph. Every variant
// exposes the same uniform contract so composite nodes (binary ops,
// reductions) can recurse into arbitrary children without a type switch.
type Expression interface {
	Evaluate(ctx Context) (Value, error)
}

// resolveTarget evaluates an optional target sub-expression to an
// AttributeSource, defaulting to ctx.Subject when target is nil.
func resolveTarget(target Expression, ctx Context) (AttributeSource, error) {
	if target == nil {
		if ctx.Subject == nil {
			return nil, fmt.Errorf("expr: no subject in context and no target expression supplied")
		}
		return ctx.Subject, nil
	}
	value, err := target.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	source, ok := value.(AttributeSource)
	if !ok {
		return nil, fmt.Errorf("expr: target expression evaluated to %T, not an AttributeSource", value)
	}
	return source, nil
}
