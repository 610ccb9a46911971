// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package duration

import "github.com/arcboundrav/layer-sort/core"

// EpochType names the category of boundary event a listener matches
// against: a phase/step kind, or the distinguished until-end-of-turn
// signal. Aliases core.Topic (the teacher's typed event-routing-key
// idiom) rather than a bare string, so card-side code defines its own
// epoch kinds the same way the rest of the toolkit names routing keys,
// without this package knowing about them.
type EpochType = core.Topic

// UntilEndOfTurnSignal is the distinguished epoch type the end step's
// turn-based action broadcasts to expire "until end of turn" effects
// (durations.py's UntilEndOfTurnSignal).
const UntilEndOfTurnSignal EpochType = "until_end_of_turn_signal"

// BoundaryEvent is the epoch-boundary event matched against by a
// listener's (Start, EpochType, ActivePlayer) triple (spec §4.9;
// durations.py's BoundaryEvent).
type BoundaryEvent struct {
	Start        bool
	EpochType    EpochType
	ActivePlayer string
}

// UntilEndOfTurnEvent builds the special until-end-of-turn boundary event
// the end step's turn-based action broadcasts (durations.py's
// UntilEndOfTurnEvent): Start is always false, and ActivePlayer carries no
// meaning for it since every UntilEndOfTurnDuration matches regardless of
// active player.
func UntilEndOfTurnEvent() BoundaryEvent {
	return BoundaryEvent{Start: false, EpochType: UntilEndOfTurnSignal}
}
