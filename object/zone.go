// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package object

// ZoneType names a region of the game (battlefield, stack, hand, ...).
// The solver only ever consults zone membership through the collaborator
// contract (spec §6); this package defines the handful of zone types its
// own validity checks and end-to-end tests reference.
type ZoneType string

// Zone types the solver's own code and tests reference directly. Card
// catalogs may define additional zone types; those are opaque to this
// package (spec §1: zone bookkeeping is an external collaborator).
const (
	ZoneBattlefield ZoneType = "battlefield"
	ZoneStack       ZoneType = "stack"
	ZoneHand        ZoneType = "hand"
	ZoneGraveyard   ZoneType = "graveyard"
	ZoneExile       ZoneType = "exile"
)

// Zone is the minimal collaborator-contract shape the solver needs from
// the surrounding engine's zone bookkeeping (spec §6: "Zone lookups: each
// object's current zone + a 'is in one of these zone types' predicate").
type Zone struct {
	Type ZoneType
}

// InZoneTypes reports whether z is one of the given zone types. A nil
// zone (an object with no current zone, e.g. a freshly constructed
// object not yet placed anywhere) matches no zone type.
func InZoneTypes(z *Zone, types ...ZoneType) bool {
	if z == nil {
		return false
	}
	for _, t := range types {
		if z.Type == t {
			return true
		}
	}
	return false
}
