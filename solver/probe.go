// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package solver

import (
	"reflect"
	"sort"

	"github.com/arcboundrav/layer-sort/expr"
	"github.com/arcboundrav/layer-sort/overlay"
)

// statesEqual reports whether two current-state snapshots are identical,
// used by third-order synthesis to test `cur_AB != cur_BA`
// (apparent_state_handler.py's `XAB != XBA`, spec §4.7).
func statesEqual(a, b State) bool {
	return reflect.DeepEqual(a, b)
}

// firstOrderRecord is the result of enacting a single component against
// the unmodified base state: its reference/current snapshots and the
// impact that application had (apparent_state_handler.py's
// first_order_component_data entry).
type firstOrderRecord struct {
	ravd   State
	avd    State
	impact overlay.Impact
}

// firstOrderData enacts every component once, in isolation, against the
// base state, recording each one's resulting impact. Grounds
// first_order_data/first_order_data_.
func firstOrderData(ctx expr.Context, store Store, components []Component) (map[string]firstOrderRecord, error) {
	store.Snapshot()
	defer store.Restore()

	refreshComponents(components)

	out := make(map[string]firstOrderRecord, len(components))
	for _, c := range components {
		store.Restore()
		store.RefreshReference()
		if err := c.Enact(ctx, false); err != nil {
			return nil, err
		}
		ravd := store.ReturnRAVD()
		avd := store.ReturnAVD()
		impact, err := overlay.Compute(avd, ravd)
		if err != nil {
			return nil, err
		}
		out[c.ObjectID()] = firstOrderRecord{ravd: ravd, avd: avd, impact: impact}
	}
	return out, nil
}

// secondOrderRecord is the result of enacting pair[1] after having loaded
// the state that resulted from enacting pair[0] in isolation
// (apparent_state_handler.py's second_order_component_data entry).
type secondOrderRecord struct {
	ravd               State
	avd                State
	impact             overlay.Impact
	secondDependsOnFirst bool
}

type componentPair struct {
	first  Component
	second Component
}

// secondOrderData enacts the second component of every pair after loading
// the first component's first-order resulting state, recording whether
// the second component was already invalid going in (meaning its absence
// from the resulting state is attributable to the first component, not to
// this probe's own enactment). Grounds second_order_data/second_order_data_.
func secondOrderData(ctx expr.Context, store Store, pairs []componentPair, firstOrder map[string]firstOrderRecord) (map[[2]string]secondOrderRecord, error) {
	defer store.Restore()

	out := make(map[[2]string]secondOrderRecord, len(pairs))
	for _, pair := range pairs {
		firstRecord, ok := firstOrder[pair.first.ObjectID()]
		if !ok {
			continue
		}
		store.Load(firstRecord.avd)
		store.RefreshReference()

		valid, err := pair.second.Valid(ctx)
		if err != nil {
			return nil, err
		}
		secondDependsOnFirst := !valid

		if !pair.second.IsMarkerComponent() {
			pair.second.RefreshSelectableCache()
		}

		if err := pair.second.Enact(ctx, false); err != nil {
			return nil, err
		}
		ravd := store.ReturnRAVD()
		avd := store.ReturnAVD()
		impact, err := overlay.Compute(avd, ravd)
		if err != nil {
			return nil, err
		}
		key := [2]string{pair.first.ObjectID(), pair.second.ObjectID()}
		out[key] = secondOrderRecord{
			ravd:                 ravd,
			avd:                  avd,
			impact:               impact,
			secondDependsOnFirst: secondDependsOnFirst,
		}
	}
	return out, nil
}

// thirdOrderData synthesizes the dependency edge set from the first- and
// second-order probe results, per the five rules documented in
// apparent_state_handler.py's third_order_data:
//
//	b(a(x)) == a(b(x))        => no dependency
//	d(XAB, XA) != d(XB, X)    => B depends on A
//	d(XBA, XB) != d(XA, X)    => A depends on B
//	b stops existing after a  => B depends on A
//	a stops existing after b  => A depends on B
func thirdOrderData(secondOrder map[[2]string]secondOrderRecord, firstOrder map[string]firstOrderRecord) map[Edge]struct{} {
	edges := map[Edge]struct{}{}
	used := map[[2]string]struct{}{}

	for key := range secondOrder {
		skey := sortedPairKey(key)
		if _, done := used[skey]; done {
			continue
		}
		used[skey] = struct{}{}

		reversed := [2]string{key[1], key[0]}
		forward, hasForward := secondOrder[key]
		backward, hasBackward := secondOrder[reversed]
		if !hasForward || !hasBackward {
			continue
		}

		aID, bID := key[0], key[1]

		aOnB := backward.secondDependsOnFirst // a stops existing after b
		bOnA := forward.secondDependsOnFirst  // b stops existing after a

		if !statesEqual(forward.avd, backward.avd) {
			dXABxA := forward.impact
			dXBx := firstOrder[bID].impact
			dXBAxA := backward.impact
			dXAx := firstOrder[aID].impact

			if !dXABxA.Equal(dXBx) && !aOnB {
				bOnA = true
			}
			if !dXBAxA.Equal(dXAx) && !bOnA {
				aOnB = true
			}
		}

		if aOnB {
			// A depends on B: B must apply first, edge B -> A.
			edges[Edge{From: bID, To: aID}] = struct{}{}
		}
		if bOnA {
			// B depends on A: A must apply first, edge A -> B.
			edges[Edge{From: aID, To: bID}] = struct{}{}
		}
	}
	return edges
}

func sortedPairKey(key [2]string) [2]string {
	if key[0] <= key[1] {
		return key
	}
	return [2]string{key[1], key[0]}
}

// refreshComponents clears the selectable-objects cache of every
// non-marker component's reference effect, so a subsequent probe's
// unlockable selections re-resolve against the state being probed.
func refreshComponents(components []Component) {
	for _, c := range components {
		if !c.IsMarkerComponent() {
			c.RefreshSelectableCache()
		}
	}
}

// pairsToConsider returns every ordered pair of distinct indices (i, j)
// with i != j, grounding filters.py/apparent_state_handler.py's
// pairs_to_consider: both directions of every unordered pair are probed
// since second_order_data_ is directional.
func pairsToConsider(n int) [][2]int {
	out := make([][2]int, 0, n*(n-1))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			out = append(out, [2]int{i, j})
		}
	}
	return out
}

// determineRawEdges runs the full first/second/third-order probe pipeline
// over a presorted component list and returns the resulting edges sorted
// by presort position, so a deterministic order is presented to the
// dependency graph regardless of map iteration order (grounds
// determine_raw_edges).
func determineRawEdges(ctx expr.Context, store Store, presorted []Component) ([]Edge, error) {
	index := make(map[string]int, len(presorted))
	for i, c := range presorted {
		index[c.ObjectID()] = i
	}

	firstOrder, err := firstOrderData(ctx, store, presorted)
	if err != nil {
		return nil, err
	}
	refreshComponents(presorted)

	pairIndices := pairsToConsider(len(presorted))
	pairs := make([]componentPair, len(pairIndices))
	for i, p := range pairIndices {
		pairs[i] = componentPair{first: presorted[p[0]], second: presorted[p[1]]}
	}

	secondOrder, err := secondOrderData(ctx, store, pairs, firstOrder)
	if err != nil {
		return nil, err
	}
	refreshComponents(presorted)

	edgeSet := thirdOrderData(secondOrder, firstOrder)
	edges := make([]Edge, 0, len(edgeSet))
	for e := range edgeSet {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if index[edges[i].From] != index[edges[j].From] {
			return index[edges[i].From] < index[edges[j].From]
		}
		return index[edges[i].To] < index[edges[j].To]
	})
	return edges, nil
}
