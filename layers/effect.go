// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package layers

import "github.com/arcboundrav/layer-sort/expr"

// EffectConfig configures an Effect (mirrors ComponentConfig's
// functional-configuration-struct idiom).
type EffectConfig struct {
	// ID identifies this effect instance.
	ID string

	// Timestamp is shared by every component this effect owns (spec §3:
	// "an ordered list of components sharing a timestamp").
	Timestamp int64

	// HostZoneEligible, when non-nil, gates this effect's validity on its
	// generating ability's host remaining in one of the effect's active
	// zones (spec §3's "active zones gate"). Nil means always eligible.
	HostZoneEligible func() bool

	// AntecedentsVerified, when non-nil, is the static ability's guard
	// predicate (spec §6): the effect is invalid whenever this returns
	// false, independent of expiry or zone eligibility.
	AntecedentsVerified func() (bool, error)

	// Components builds this effect's component list; Timestamp and
	// Ordinal are assigned by NewEffect from the slice index, and
	// ValidFunc is wrapped to also require the effect itself be valid.
	Components []ComponentConfig
}

// Effect is an ordered list of components sharing a timestamp, an
// optional duration listener (registered externally via
// duration.BoundaryEventListener.Register, since Effect implements
// duration.ExpirableEffect), and an "active zones" gate (spec §3).
// Components inherit timestamp and zone eligibility from their effect; a
// component is valid only while its effect is (spec §4.3). Grounds
// layers.py's Effect.
type Effect struct {
	id                  string
	timestamp           int64
	expired             bool
	hostZoneEligible    func() bool
	antecedentsVerified func() (bool, error)

	// Components is this effect's ordered component list, sharing this
	// effect's timestamp; Ordinal on each reflects its position here
	// (613.7's "order specified" presort tiebreak).
	Components []*Component
}

// NewEffect builds an Effect and every component it lists, wiring each
// component's validity to the effect's expired flag, active-zones gate,
// and antecedents guard. Grounds abstractions.py's EffectComponent.valid
// delegating to reference_effect.valid.
func NewEffect(cfg EffectConfig) *Effect {
	e := &Effect{
		id:                  cfg.ID,
		timestamp:           cfg.Timestamp,
		hostZoneEligible:    cfg.HostZoneEligible,
		antecedentsVerified: cfg.AntecedentsVerified,
	}
	e.Components = make([]*Component, len(cfg.Components))
	for i, cc := range cfg.Components {
		cc.Timestamp = cfg.Timestamp
		cc.Ordinal = i
		innerValid := cc.ValidFunc
		cc.ValidFunc = func(ctx expr.Context) (bool, error) {
			ok, err := e.Valid()
			if err != nil || !ok {
				return false, err
			}
			if innerValid != nil {
				return innerValid(ctx)
			}
			return true, nil
		}
		e.Components[i] = NewComponent(cc)
	}
	return e
}

// ID identifies this effect instance.
func (e *Effect) ID() string { return e.id }

// Timestamp is the timestamp shared by every component this effect owns.
func (e *Effect) Timestamp() int64 { return e.timestamp }

// Expired reports whether a duration listener has expired this effect.
func (e *Effect) Expired() bool { return e.expired }

// Expire marks the effect expired. Implements duration.ExpirableEffect so
// a duration.BoundaryEventListener can be registered directly against an
// Effect without this package depending on duration's listener type.
func (e *Effect) Expire() { e.expired = true }

// Valid reports whether this effect's components may still apply: it has
// not expired, its host remains in an eligible zone (if a gate was
// configured), and its antecedents (if any) still hold.
func (e *Effect) Valid() (bool, error) {
	if e.expired {
		return false, nil
	}
	if e.hostZoneEligible != nil && !e.hostZoneEligible() {
		return false, nil
	}
	if e.antecedentsVerified != nil {
		return e.antecedentsVerified()
	}
	return true, nil
}
