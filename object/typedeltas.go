// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package object

import "github.com/arcboundrav/layer-sort/expr"

// objectTypeReduction builds a Reduction node over the object_types
// attribute: op is ReduceUnion to gain a type, ReduceDifference to lose
// one. Grounds abstractions.py's UnionReduction/SetFiltration pairing
// behind the "become/lose object type" ReflexiveDelta shortcuts.
func objectTypeReduction(op expr.ReductionOp, objectType string) *expr.Reduction {
	return expr.NewReduction(op, "object_types", expr.NewConst(expr.NewStringSet(objectType)))
}

// BecomePermanentObjectType grounds abstractions.py's
// BecomePermanentObjectType: the object gains the "permanent" object
// type (layer 4's base type-changing effects for spells becoming
// permanents, e.g. a Class becoming an enchantment).
func BecomePermanentObjectType() *expr.Reduction {
	return objectTypeReduction(expr.ReduceUnion, "permanent")
}

// BecomePermanentSpellObjectType grounds abstractions.py's
// BecomePermanentSpellObjectType: the object gains the "permanent spell"
// object type (a permanent that is also, transiently, a spell — e.g. an
// Aura being cast).
func BecomePermanentSpellObjectType() *expr.Reduction {
	return objectTypeReduction(expr.ReduceUnion, "permanent spell")
}

// LosePermanentObjectType grounds abstractions.py's
// LosePermanentObjectType: the object loses the "permanent" object type.
func LosePermanentObjectType() *expr.Reduction {
	return objectTypeReduction(expr.ReduceDifference, "permanent")
}

// LosePermanentSpellObjectType grounds abstractions.py's first
// LosePermanentSpellObjectType class body: the object loses the
// "permanent spell" object type.
//
// abstractions.py defines two distinct classes both named
// LosePermanentSpellObjectType (the second shadows the first at module
// scope and operates on "kopy permanent spell" instead). Rather than
// silently merging them behind one Go name, this package keeps both as
// separately named functions: this one for "permanent spell", and
// LoseCopyPermanentSpellObjectType below for "kopy permanent spell".
func LosePermanentSpellObjectType() *expr.Reduction {
	return objectTypeReduction(expr.ReduceDifference, "permanent spell")
}

// BecomeCopyOfPermanentSpellType grounds abstractions.py's
// BecomeCopyOfPermanentSpellType: the object gains the "kopy permanent
// spell" object type, marking it as a copy-effect-originated permanent
// spell distinct from an originally cast one.
func BecomeCopyOfPermanentSpellType() *expr.Reduction {
	return objectTypeReduction(expr.ReduceUnion, "kopy permanent spell")
}

// LoseCopyPermanentSpellObjectType grounds abstractions.py's second
// LosePermanentSpellObjectType class body (the one shadowing the first):
// the object loses the "kopy permanent spell" object type.
func LoseCopyPermanentSpellObjectType() *expr.Reduction {
	return objectTypeReduction(expr.ReduceDifference, "kopy permanent spell")
}

// BecomeTokenObjectType grounds abstractions.py's BecomeTokenObjectType:
// the object gains the "token" object type.
func BecomeTokenObjectType() *expr.Reduction {
	return objectTypeReduction(expr.ReduceUnion, "token")
}
