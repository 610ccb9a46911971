// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package object

import "github.com/arcboundrav/layer-sort/core"

// Ability origin tags (spec §3: "Abilities carry an origin tag with
// values {rules_text, copiable_effect, granted}").
var (
	OriginRulesText      = core.MustNewRef(core.RefInput{Module: "layersort", Type: "ability-origin", Value: "rules_text"})
	OriginCopiableEffect = core.MustNewRef(core.RefInput{Module: "layersort", Type: "ability-origin", Value: "copiable_effect"})
	OriginGranted        = core.MustNewRef(core.RefInput{Module: "layersort", Type: "ability-origin", Value: "granted"})
)

// Ability is an entry in an object's abilities list. A keyword ability is
// identified by KeywordType (a class identity used by grant/ban/lose
// deltas, compared by type tag rather than structural equality per spec
// §9's design note). A static ability is an effect generator: when
// StaticGenerator.IsActive returns true (and any guard predicate holds),
// StaticGenerator.GenerateEffect is called once per solver pass to produce
// a new effect (spec §3, §4.8).
type Ability struct {
	// ID uniquely identifies this ability instance. Non-keyword abilities
	// are compared by this id, not structurally (spec §9 design note).
	ID string

	// Name is a human-readable label (e.g. "flying", "Master of Etherium's
	// anthem"), used only for diagnostics.
	Name string

	// KeywordType, when non-nil, is this ability's keyword-ability class
	// identity: grant/ban/lose operations compare by this tag rather than
	// ability identity.
	KeywordType *core.Ref

	// Origin records how the ability came to be on the host: its own
	// rules text, a copy effect, or a grant from another effect.
	Origin *core.Ref

	// HostID is the id of the object currently hosting this ability.
	HostID string

	// StaticGenerator, when non-nil, marks this ability as a static
	// ability (spec §3, §4.8): an effect generator evaluated once per
	// solver pass while IsActive holds. It returns an opaque effect value —
	// the layers package type-asserts it — so this package need not
	// import layers and create an import cycle.
	StaticGenerator *StaticGenerator
}

// StaticGenerator bundles the three hooks spec §6 requires a static
// ability to implement: is_active, generate_effect, antecedents_verified.
type StaticGenerator struct {
	// IsActive reports whether the ability currently produces an effect:
	// the host is in an eligible zone and any guard predicate holds.
	IsActive func() (bool, error)

	// AntecedentsVerified guards enactment of the generated effect's
	// components (spec §4.3's component validity contract).
	AntecedentsVerified func() (bool, error)

	// GenerateEffect produces a new effect (opaque to this package) each
	// time it is called; the manager calls it at most once per ability per
	// pass (tracked via the ability's ID in a static-id set).
	GenerateEffect func() (any, error)
}

// IsStatic reports whether this ability is a static ability (an effect
// generator) rather than a bare keyword/rules-text ability.
func (a *Ability) IsStatic() bool { return a.StaticGenerator != nil }

// IsKeyword reports whether this ability has keyword-class identity.
func (a *Ability) IsKeyword() bool { return a.KeywordType != nil }

// CloneForNewHost clones the ability and rebinds it to a new host, for use
// by copy-effect components (spec §4.4): the clone's origin becomes
// copiable_effect regardless of the source's origin, and it receives a
// fresh id from freshID so it is distinguishable from the source ability.
func (a *Ability) CloneForNewHost(newHostID string, freshID func() string) *Ability {
	clone := *a
	clone.ID = freshID()
	clone.HostID = newHostID
	clone.Origin = OriginCopiableEffect
	return &clone
}
