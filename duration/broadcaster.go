// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package duration

// Broadcaster centralizes control over boundary-event listeners (spec
// §4.9): durations, triggered abilities, and replacement effects all
// register here and are notified via Broadcast. Grounds durations.py's
// EventHandler, styled on events/bus.go's deferred-unsubscribe batching
// (a listener that deregisters itself mid-reaction must not mutate the
// slice Broadcast is ranging over).
type Broadcaster struct {
	listeners         []*BoundaryEventListener
	registered        map[*BoundaryEventListener]struct{}
	listenersToRemove map[*BoundaryEventListener]struct{}
}

// NewBroadcaster builds an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		registered:        map[*BoundaryEventListener]struct{}{},
		listenersToRemove: map[*BoundaryEventListener]struct{}{},
	}
}

// Register adds l to the listener set, a no-op if it is already present.
func (b *Broadcaster) Register(l *BoundaryEventListener) {
	if _, ok := b.registered[l]; ok {
		return
	}
	b.registered[l] = struct{}{}
	b.listeners = append(b.listeners, l)
}

// Deregister batches l for removal at the end of the current Broadcast,
// mirroring durations.py's listeners_to_remove deferral.
func (b *Broadcaster) Deregister(l *BoundaryEventListener) {
	if _, ok := b.registered[l]; !ok {
		return
	}
	b.listenersToRemove[l] = struct{}{}
}

// Broadcast notifies every registered listener of event, in registration
// order, then removes whichever listeners deregistered themselves during
// their reaction.
func (b *Broadcaster) Broadcast(event BoundaryEvent) {
	for _, l := range b.listeners {
		l.React(event)
	}
	if len(b.listenersToRemove) == 0 {
		return
	}
	remaining := make([]*BoundaryEventListener, 0, len(b.listeners))
	for _, l := range b.listeners {
		if _, removed := b.listenersToRemove[l]; removed {
			delete(b.registered, l)
			continue
		}
		remaining = append(remaining, l)
	}
	b.listeners = remaining
	b.listenersToRemove = map[*BoundaryEventListener]struct{}{}
}

// ListenerCount reports how many listeners are currently registered, for
// tests asserting deregistration actually happened.
func (b *Broadcaster) ListenerCount() int {
	return len(b.listeners)
}
