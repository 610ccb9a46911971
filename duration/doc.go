// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package duration implements the single boundary-event broadcaster and
// the listener shapes that expire continuous effects (spec §4.9). It is
// written fresh rather than adapted field-for-field from the teacher's
// events package: the teacher's bus is a general-purpose, reflection-
// dispatch pub/sub system sized for a combat engine's typed/chained
// topics; this package's whole surface is "call react on every listener,
// batch deregistrations, expire on an Nth match" (durations.py's
// EventHandler/BoundaryEventListener). The deferred-unsubscribe batching
// is grounded on events/bus.go's publish-then-remove pattern; the
// listener shape is grounded on events/duration.go's Duration interface
// plus durations.py's concrete BoundaryEventListener subclasses.
package duration
