// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package layers

import "github.com/arcboundrav/layer-sort/expr"

// Delta is one attribute assignment an effect component performs: the
// evaluated value of Compute is written to Attr on every one of the
// component's targets. Compute is evaluated with the target bound as the
// expression context's subject, so an attribute read inside Compute with
// no explicit target resolves against that target (spec §4.1, §4.3).
// Grounds abstractions.py's Delta/ReflexiveDelta operand hierarchy.
type Delta struct {
	Attr    string
	Compute expr.Expression
}

// Invalidator clears a cached selection result, letting a component's
// target set re-resolve on the next probe or application. Satisfied by
// selection.Locking[T]; kept as a narrow interface here so this package
// doesn't need to import selection generically over every object kind a
// component might target.
type Invalidator interface {
	Invalidate()
}

// Writer is the overlay capability a component needs to apply its
// deltas: writing a new apparent value for an object's attribute.
// Satisfied by *overlay.Overlay; kept as an interface so components and
// their tests don't need a concrete overlay dependency.
type Writer interface {
	Modify(obj expr.AttributeSource, attr string, newValue expr.Value) error
}

// ComponentConfig configures a Component (mirrors the teacher's
// CoreConfig functional-configuration-struct idiom).
type ComponentConfig struct {
	ID          string
	HostID      string
	Sublayer    Sublayer
	IsCDA       bool
	Timestamp   int64
	Ordinal     int
	Marker      bool
	Targets     func(ctx expr.Context) ([]expr.AttributeSource, error)
	Deltas      []Delta
	Overlay     Writer
	ValidFunc   func(ctx expr.Context) (bool, error)
	Invalidator Invalidator
}

// Component is the atomic unit the dependency solver sorts: a
// sublayer-tagged, optionally characteristic-defining set of attribute
// deltas applied to a lazily-resolved target set. Implements
// solver.Component. Grounds layers.py/abstractions.py's EffectComponent.
type Component struct {
	id          string
	hostID      string
	sublayer    Sublayer
	isCDA       bool
	timestamp   int64
	ordinal     int
	marker      bool
	targets     func(ctx expr.Context) ([]expr.AttributeSource, error)
	deltas      []Delta
	overlay     Writer
	validFunc   func(ctx expr.Context) (bool, error)
	invalidator Invalidator
}

// NewComponent builds a Component from cfg.
func NewComponent(cfg ComponentConfig) *Component {
	return &Component{
		id:          cfg.ID,
		hostID:      cfg.HostID,
		sublayer:    cfg.Sublayer,
		isCDA:       cfg.IsCDA,
		timestamp:   cfg.Timestamp,
		ordinal:     cfg.Ordinal,
		marker:      cfg.Marker,
		targets:     cfg.Targets,
		deltas:      cfg.Deltas,
		overlay:     cfg.Overlay,
		validFunc:   cfg.ValidFunc,
		invalidator: cfg.Invalidator,
	}
}

// ObjectID implements solver.Component.
func (c *Component) ObjectID() string { return c.id }

// Timestamp implements solver.Component.
func (c *Component) Timestamp() int64 { return c.timestamp }

// Ordinal implements solver.Component.
func (c *Component) Ordinal() int { return c.ordinal }

// IsMarkerComponent implements solver.Component.
func (c *Component) IsMarkerComponent() bool { return c.marker }

// IsCDA reports whether this is a characteristic-defining component,
// consulted by the effect manager's CDA-first partitioning (spec §4.8).
func (c *Component) IsCDA() bool { return c.isCDA }

// Sublayer reports this component's sublayer tag.
func (c *Component) Sublayer() Sublayer { return c.sublayer }

// HostID reports the id of the object whose ability generated this
// component, used by phi-factory predicates built against the host.
func (c *Component) HostID() string { return c.hostID }

// RefreshSelectableCache implements solver.Component: invalidates the
// target selection's cache, if one was configured, so the next probe or
// application re-resolves the target set.
func (c *Component) RefreshSelectableCache() {
	if c.invalidator != nil {
		c.invalidator.Invalidate()
	}
}

// Valid implements solver.Component. A component with no ValidFunc is
// always valid (e.g. a component whose only precondition is "host is on
// the battlefield", already enforced upstream by the generating static
// ability's is_active check).
func (c *Component) Valid(ctx expr.Context) (bool, error) {
	if c.validFunc == nil {
		return true, nil
	}
	return c.validFunc(ctx)
}

// Enact implements solver.Component: resolves the target set then writes
// every delta's computed value to every target. lock is accepted for
// interface parity with the probe/apply distinction the solver threads
// through (spec §4.7); this package has no separate locked-application
// behavior beyond what the solver already enforces (each component
// enacted at most once per pass via the manager's used-component set).
func (c *Component) Enact(ctx expr.Context, _ bool) error {
	targets, err := c.targets(ctx)
	if err != nil {
		return err
	}
	for _, target := range targets {
		targetCtx := ctx.WithSubject(target)
		for _, delta := range c.deltas {
			value, err := delta.Compute.Evaluate(targetCtx)
			if err != nil {
				return err
			}
			if err := c.overlay.Modify(target, delta.Attr, value); err != nil {
				return err
			}
		}
	}
	return nil
}
