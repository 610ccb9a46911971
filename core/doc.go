// Package core provides the identity and error scaffolding shared by every
// other package in the continuous-effects layer solver, without imposing
// any layer-solver-specific behavior of its own.
//
// Purpose:
// This package establishes the namespaced-identifier and structured-error
// types the rest of the solver builds on: ability origin tags, keyword-
// ability class tags, marker type tags, and the error wrapping used when
// an attribute, method, or marker-derived component turns out to be
// malformed. It sits at the base of the dependency hierarchy so every
// other package (expr, selection, overlay, object, solver, layers,
// duration) can depend on it without creating a cycle.
//
// Scope:
//   - Ref: namespaced "module:type:value" identifier (ability origins,
//     keyword-ability classes, marker types)
//   - EntityError / ProbeError: structured, wrappable errors for
//     malformed-attribute and probe-time failures (spec.md §7)
//   - Topic: a typed event-routing-key string, aliased by duration's
//     EpochType
//   - No sublayer semantics, overlay mutation, or dependency-graph logic
//
// Non-Goals:
//   - Expression evaluation: belongs in expr
//   - Selection/predicate algebra: belongs in selection
//   - Apparent-state overlay mutation: belongs in overlay
//   - Object/player/marker data model: belongs in object
//   - Dependency analysis and topological application: belongs in solver
//
// Integration:
// This package has no dependencies on any other package in this module,
// maintaining its position at the base of the dependency hierarchy.
//
// Example:
//
//	origin, err := core.NewRef(core.RefInput{Module: "object", Type: "origin", Value: "rules_text"})
//	if err != nil {
//	    return err
//	}
//
//	if err := attrLookup(obj, "power"); err != nil {
//	    return core.NewEntityError("Object.BaseAttr", "attribute", "power", core.ErrInvalidEntity)
//	}
package core
