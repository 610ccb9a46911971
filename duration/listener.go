// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package duration

// ExpirableEffect is the narrow capability a listener needs from the
// effect it is the duration for: mark it expired once the listener's
// match threshold is reached. Satisfied by *layers.Effect; kept as an
// interface here so this package never imports layers — duration sits
// below layers in the dependency order, and layers wires a listener to
// its own Effect type by passing it in at Register time.
type ExpirableEffect interface {
	Expire()
}

// Listener is anything a Broadcaster can notify of a BoundaryEvent.
type Listener interface {
	React(event BoundaryEvent)
}

// matchActivePlayerFunc decides whether a listener's resolved active
// player matches an incoming event's active player — the one axis each
// BoundaryEventListener subclass in durations.py varies on (Same/Other/
// Any). Collapsed here into a function field rather than four subclasses.
type matchActivePlayerFunc func(listenerPlayer, eventPlayer string) bool

func matchSameActivePlayer(listenerPlayer, eventPlayer string) bool {
	return listenerPlayer == eventPlayer
}

func matchOtherActivePlayer(listenerPlayer, eventPlayer string) bool {
	return listenerPlayer != eventPlayer
}

func matchAnyActivePlayer(string, string) bool { return true }

// BoundaryEventListener is a duration that expires its reference effect
// once a matching BoundaryEvent has been broadcast NToMatch times (spec
// §4.9; durations.py's BoundaryEventListener).
type BoundaryEventListener struct {
	start        bool
	epochType    EpochType
	matchFunc    matchActivePlayerFunc
	activePlayer string
	nMatches     int
	nToMatch     int
	effect       ExpirableEffect
	broadcaster  *Broadcaster
}

func newBoundaryEventListener(start bool, epochType EpochType, matchFunc matchActivePlayerFunc, nToMatch int) *BoundaryEventListener {
	if nToMatch <= 0 {
		nToMatch = 1
	}
	return &BoundaryEventListener{start: start, epochType: epochType, matchFunc: matchFunc, nToMatch: nToMatch}
}

// NewSameActivePlayer builds a listener matching boundary events sharing
// the resolved active player (durations.py's SameAPDuration).
func NewSameActivePlayer(start bool, epochType EpochType, nToMatch int) *BoundaryEventListener {
	return newBoundaryEventListener(start, epochType, matchSameActivePlayer, nToMatch)
}

// NewOtherActivePlayer builds a listener matching boundary events whose
// active player differs from the resolved one (OtherAPDuration).
func NewOtherActivePlayer(start bool, epochType EpochType, nToMatch int) *BoundaryEventListener {
	return newBoundaryEventListener(start, epochType, matchOtherActivePlayer, nToMatch)
}

// NewAnyActivePlayer builds a listener matching regardless of active
// player (AnyAPDuration).
func NewAnyActivePlayer(start bool, epochType EpochType, nToMatch int) *BoundaryEventListener {
	return newBoundaryEventListener(start, epochType, matchAnyActivePlayer, nToMatch)
}

// NewUntilEndOfTurn builds the common "until end of turn" duration,
// matching only the distinguished UntilEndOfTurnSignal regardless of
// active player (durations.py's UntilEndOfTurnDuration).
func NewUntilEndOfTurn() *BoundaryEventListener {
	return newBoundaryEventListener(false, UntilEndOfTurnSignal, matchAnyActivePlayer, 1)
}

// Register binds the listener to effect and activePlayer — the resolved
// controller of the generating ability's host object (durations.py's
// solve_active_player, performed by the caller before registering since
// this package has no notion of an object graph) — and registers it with
// b so it begins receiving broadcasts. Grounds update_reference_effect.
func (l *BoundaryEventListener) Register(b *Broadcaster, effect ExpirableEffect, activePlayer string) {
	l.effect = effect
	l.activePlayer = activePlayer
	l.broadcaster = b
	b.Register(l)
}

// Match reports whether event matches this listener's (start, epochType,
// activePlayer) triple.
func (l *BoundaryEventListener) Match(event BoundaryEvent) bool {
	if l.start != event.Start {
		return false
	}
	if l.epochType != event.EpochType {
		return false
	}
	return l.matchFunc(l.activePlayer, event.ActivePlayer)
}

// React implements Listener: on a match, increments the match counter and
// expires once the configured threshold is reached.
func (l *BoundaryEventListener) React(event BoundaryEvent) {
	if !l.Match(event) {
		return
	}
	l.nMatches++
	if l.nMatches == l.nToMatch {
		l.Expire()
	}
}

// Expire marks the reference effect expired and deregisters this listener
// from its broadcaster, per durations.py's expire().
func (l *BoundaryEventListener) Expire() {
	if l.effect != nil {
		l.effect.Expire()
	}
	if l.broadcaster != nil {
		l.broadcaster.Deregister(l)
	}
}
