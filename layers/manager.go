// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package layers

import (
	"github.com/arcboundrav/layer-sort/core"
	"github.com/arcboundrav/layer-sort/duration"
	"github.com/arcboundrav/layer-sort/expr"
	"github.com/arcboundrav/layer-sort/object"
	"github.com/arcboundrav/layer-sort/overlay"
	"github.com/arcboundrav/layer-sort/solver"
)

// ManagerConfig configures a Manager (mirrors ComponentConfig/EffectConfig's
// functional-configuration-struct idiom, and mechanics/effects.CoreConfig's
// constructor-option pattern).
type ManagerConfig struct {
	// Objects is the §6 "game object inventory" collaborator contract:
	// every mutable game object the manager should consider each pass.
	Objects func() ([]*object.Object, error)

	// Now is the §6 monotonic timestamp source.
	Now func() int64

	// FreshID is the §6 unique-id source.
	FreshID func() string

	// Broadcaster receives boundary events this manager's callers
	// broadcast (spec §4.9, §6). A fresh one is created if nil.
	Broadcaster *duration.Broadcaster
}

// Manager is the outer snapshot driver (spec §4.8): gathers eligible
// components each pass, partitions by sublayer, freezes copiable values
// after sublayer 1b, and invokes the dependency solver per layer. Grounds
// layers.py's EffectManager.
type Manager struct {
	cfg         ManagerConfig
	overlay     *overlay.Overlay
	broadcaster *duration.Broadcaster

	// resolutionEffects persist across passes until their duration
	// listener expires them (spec §3's "Effects via resolution" lifecycle);
	// unlike static-ability-generated effects, the manager never
	// regenerates these itself.
	resolutionEffects []*Effect

	objects          []*object.Object
	effects          []*Effect
	staticIDs        map[string]struct{}
	markerComponents []*Component
	usedComponents   map[string]struct{}
	solvedCopiable   bool
	inSnapshot       bool
}

// NewManager builds a Manager from cfg.
func NewManager(cfg ManagerConfig) *Manager {
	broadcaster := cfg.Broadcaster
	if broadcaster == nil {
		broadcaster = duration.NewBroadcaster()
	}
	if cfg.FreshID == nil {
		cfg.FreshID = core.NewUUID
	}
	return &Manager{
		cfg:         cfg,
		overlay:     overlay.New(),
		broadcaster: broadcaster,
	}
}

// Overlay exposes the manager's apparent-state overlay, for read-side
// callers and tests that need to inspect it directly.
func (m *Manager) Overlay() *overlay.Overlay { return m.overlay }

// Broadcaster exposes the manager's boundary-event broadcaster so card-side
// duration listeners can register against it.
func (m *Manager) Broadcaster() *duration.Broadcaster { return m.broadcaster }

// ctx builds the expr.Context threaded through a pass: no subject bound yet
// (each component binds its own target via Context.WithSubject at enact
// time), reading through this manager's overlay.
func (m *Manager) ctx() expr.Context {
	return expr.Context{Overlay: m.overlay, Now: m.cfg.Now, FreshID: m.cfg.FreshID}
}

// RegisterEffect adds a resolution-generated effect (spec §6's write-side
// "register_effect"): it persists across passes until its duration
// listener marks it expired.
func (m *Manager) RegisterEffect(e *Effect) {
	m.resolutionEffects = append(m.resolutionEffects, e)
}

// AddMarker adds a marker to host at the manager's current timestamp,
// synchronizing same-type marker timestamps per 613.7c (spec §6's
// write-side "add_marker"); a no-op if host refuses the marker type.
func (m *Manager) AddMarker(host *object.Object, markerType *core.Ref, componentFactory func(*object.Object) (any, error)) {
	host.AddMarker(markerType, m.cfg.Now(), componentFactory)
}

// RemoveMarkerByType removes the first marker of markerType on host, if
// any (spec §6's write-side "remove_marker_by_type").
func (m *Manager) RemoveMarkerByType(host *object.Object, markerType *core.Ref) {
	host.RemoveMarkerByType(markerType)
}

// Broadcast notifies every registered duration listener of event (spec §6:
// "broadcast(event) on the event handler").
func (m *Manager) Broadcast(event duration.BoundaryEvent) {
	m.broadcaster.Broadcast(event)
}

// QueryAttribute returns the apparent value for attr on obj, honoring the
// current overlay (spec §6 read-side "query_attribute").
func (m *Manager) QueryAttribute(obj expr.AttributeSource, attr string) (expr.Value, error) {
	return m.overlay.Query(obj, attr)
}

// ObjectCounter evaluates a selection's cardinality against this manager's
// current context (spec §6 read-side "object_counter").
func (m *Manager) ObjectCounter(counter expr.Counter) (int, error) {
	return counter.Count(m.ctx())
}

// calibrate resets every per-pass cache, reloads the object inventory, and
// carries forward any resolution-generated effects that have not yet
// expired (spec §4.8 step 1; layers.py's calibrate, generalized to also
// prune expired resolution effects out of long-lived storage).
func (m *Manager) calibrate() error {
	m.overlay.Calibrate()
	m.staticIDs = map[string]struct{}{}
	m.usedComponents = map[string]struct{}{}
	m.markerComponents = nil
	m.solvedCopiable = false

	objects, err := m.cfg.Objects()
	if err != nil {
		return err
	}
	m.objects = objects

	m.effects = nil
	remaining := m.resolutionEffects[:0]
	for _, e := range m.resolutionEffects {
		if e.Expired() {
			continue
		}
		remaining = append(remaining, e)
		m.effects = append(m.effects, e)
	}
	m.resolutionEffects = remaining
	return nil
}

// gatherMarkerComponents synthesizes one component per marker that
// declares a ComponentFactory (spec §3: "each marker type may synthesize
// zero or one effect component"). Called only once per pass, on the
// initial gather, mirroring layers.py's gather_marker_effect_components
// being reachable only from gather_components.
func (m *Manager) gatherMarkerComponents() error {
	for _, o := range m.objects {
		for _, marker := range o.Markers {
			if marker.ComponentFactory == nil {
				continue
			}
			raw, err := marker.ComponentFactory(o)
			if err != nil {
				return err
			}
			if raw == nil {
				continue
			}
			component, ok := raw.(*Component)
			if !ok {
				return core.NewEntityError("Manager.gatherMarkerComponents", "marker-component", marker.Type.String(), core.ErrInvalidEntity)
			}
			m.markerComponents = append(m.markerComponents, component)
		}
	}
	return nil
}

// gatherStaticEffects generates one effect per novel active static ability
// across every object (spec §4.8 step 2c): an ability's id, once added to
// staticIDs, is never regenerated again within the same pass, mirroring
// layers.py's static_ids set / novel_active_static_abilities.
func (m *Manager) gatherStaticEffects() error {
	for _, o := range m.objects {
		for _, a := range o.Abilities() {
			if !a.IsStatic() {
				continue
			}
			if _, seen := m.staticIDs[a.ID]; seen {
				continue
			}
			active, err := a.StaticGenerator.IsActive()
			if err != nil {
				return err
			}
			if !active {
				continue
			}
			m.staticIDs[a.ID] = struct{}{}
			raw, err := a.StaticGenerator.GenerateEffect()
			if err != nil {
				return err
			}
			e, ok := raw.(*Effect)
			if !ok {
				return core.NewEntityError("Manager.gatherStaticEffects", "static-ability", a.ID, core.ErrInvalidEntity)
			}
			if e.antecedentsVerified == nil && a.StaticGenerator.AntecedentsVerified != nil {
				e.antecedentsVerified = a.StaticGenerator.AntecedentsVerified
			}
			m.effects = append(m.effects, e)
		}
	}
	return nil
}

// unusedMarkerComponents returns the marker-derived components not yet
// applied this pass (layers.py's unused_marker_effect_components property).
func (m *Manager) unusedMarkerComponents() []*Component {
	out := make([]*Component, 0, len(m.markerComponents))
	for _, c := range m.markerComponents {
		if _, used := m.usedComponents[c.ObjectID()]; !used {
			out = append(out, c)
		}
	}
	return out
}

// gather performs the initial component collection for a pass: markers,
// static abilities, and every component of every accumulated effect
// (nothing has been applied yet, so no used-component filtering is
// needed). Grounds layers.py's gather_components.
func (m *Manager) gather() ([]*Component, error) {
	if err := m.gatherMarkerComponents(); err != nil {
		return nil, err
	}
	if err := m.gatherStaticEffects(); err != nil {
		return nil, err
	}
	components := m.unusedMarkerComponents()
	for _, e := range m.effects {
		components = append(components, e.Components...)
	}
	return components, nil
}

// regather collects newly eligible static abilities plus every
// not-yet-applied component of every accumulated effect (spec §4.8 step 6:
// "static abilities added by layer-1 effects become eligible now").
// Grounds layers.py's regather_components.
func (m *Manager) regather() ([]*Component, error) {
	if err := m.gatherStaticEffects(); err != nil {
		return nil, err
	}
	components := m.unusedMarkerComponents()
	for _, e := range m.effects {
		for _, c := range e.Components {
			if _, used := m.usedComponents[c.ObjectID()]; !used {
				components = append(components, c)
			}
		}
	}
	return components, nil
}

// partitionBySublayer groups components by their sublayer tag, mirroring
// layers.py's partition_by_sublayer.
func partitionBySublayer(components []*Component) map[Sublayer][]*Component {
	out := map[Sublayer][]*Component{}
	for _, c := range components {
		out[c.Sublayer()] = append(out[c.Sublayer()], c)
	}
	return out
}

// toSolverComponents adapts a concrete component slice to the solver
// package's narrower interface.
func toSolverComponents(components []*Component) []solver.Component {
	out := make([]solver.Component, len(components))
	for i, c := range components {
		out[i] = c
	}
	return out
}

// solveSublayer resolves one sublayer's components against the overlay:
// characteristic-defining components apply first, in isolation, then
// non-CDA components apply against the CDA-modified overlay (spec §4.8:
// "CDA components win ties within a layer"), grounding layers.py's
// solve_layer. Every component considered — whether or not the solver
// actually enacted it — is marked used afterward, mirroring the production
// snapshot() driver's layer_sort: an effect component invalidated by an
// earlier effect in the same pass is a normal occurrence (spec §7), not
// something to keep re-offering to later passes.
func (m *Manager) solveSublayer(ctx expr.Context, components []*Component) error {
	if len(components) == 0 {
		return nil
	}

	var cda, nonCDA []*Component
	for _, c := range components {
		if c.IsCDA() {
			cda = append(cda, c)
		} else {
			nonCDA = append(nonCDA, c)
		}
	}

	if len(cda) > 0 {
		if err := solver.Solve(ctx, m.overlay, toSolverComponents(cda)); err != nil {
			return err
		}
	}
	if len(nonCDA) > 0 {
		if err := solver.Solve(ctx, m.overlay, toSolverComponents(nonCDA)); err != nil {
			return err
		}
	}

	for _, c := range components {
		m.usedComponents[c.ObjectID()] = struct{}{}
	}
	return nil
}

// solvePass partitions components by sublayer and solves each of the given
// sublayer tags, in order, skipping any with no components.
func (m *Manager) solvePass(ctx expr.Context, components []*Component, sublayers []Sublayer) error {
	bySublayer := partitionBySublayer(components)
	for _, sl := range sublayers {
		if err := m.solveSublayer(ctx, bySublayer[sl]); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot runs the full solver pass (spec §4.8's entry point): calibrate,
// solve sublayers 1a/1b, freeze copiable values, regather and solve 2-6,
// regather and solve 6/7a-7d/8. Reentrant calls are rejected (spec §5:
// "Reentrancy into snapshot() is not supported").
func (m *Manager) Snapshot() error {
	if m.inSnapshot {
		return core.ErrReentrantSnapshot
	}
	m.inSnapshot = true
	defer func() { m.inSnapshot = false }()

	if err := m.calibrate(); err != nil {
		return err
	}
	ctx := m.ctx()

	components, err := m.gather()
	if err != nil {
		return err
	}
	if err := m.solvePass(ctx, components, firstPassSublayers); err != nil {
		return err
	}

	for _, o := range m.objects {
		if err := o.Recopy(ctx); err != nil {
			return err
		}
	}
	m.solvedCopiable = true

	components, err = m.regather()
	if err != nil {
		return err
	}
	if err := m.solvePass(ctx, components, secondPassSublayers); err != nil {
		return err
	}

	components, err = m.regather()
	if err != nil {
		return err
	}
	if err := m.solvePass(ctx, components, thirdPassSublayers); err != nil {
		return err
	}

	return nil
}
