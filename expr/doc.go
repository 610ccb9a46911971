// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package expr implements a deferred-evaluation expression graph.
//
// Effect deltas frequently need to reference attribute values that are
// only known at apply time ("the target's current toughness", "the host
// ability's controller"). Expressing those references as plain Go values
// computed once at authoring time would bake in a snapshot of the game
// state that no longer holds when the effect component actually enacts.
// Expression nodes defer that read until Evaluate is called, threading
// the subject object and an overlay reader through an explicit Context
// rather than relying on package-level singletons.
package expr
