// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package solver

import (
	"sort"

	"github.com/arcboundrav/layer-sort/expr"
)

// Presort orders components by (timestamp, ordinal): the order they'd
// apply in if dependency were irrelevant (613.7). Ties are broken by
// Ordinal so components sharing a timestamp apply in the order their
// generating effect lists them. Grounds presort.
func Presort(components []Component) []Component {
	out := make([]Component, len(components))
	copy(out, components)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp() != out[j].Timestamp() {
			return out[i].Timestamp() < out[j].Timestamp()
		}
		return out[i].Ordinal() < out[j].Ordinal()
	})
	return out
}

// Solve orders and applies every component in sublayerComponents against
// store, for real (Enact with lock=true), honoring the dependencies
// third-order probing discovers. Invalid components (spec §7: "a normal
// occurrence") are dropped before probing or application ever sees them,
// mirroring layer_sort's `valid_components = [c for c in components if
// c.valid]` prefilter. Grounds solve_sort.
func Solve(ctx expr.Context, store Store, sublayerComponents []Component) error {
	validComponents, err := filterValid(ctx, sublayerComponents)
	if err != nil {
		return err
	}
	if len(validComponents) == 0 {
		return nil
	}
	if len(validComponents) == 1 {
		return validComponents[0].Enact(ctx, true)
	}

	presorted := Presort(validComponents)
	rawEdges, err := determineRawEdges(ctx, store, presorted)
	if err != nil {
		return err
	}
	if len(rawEdges) == 0 {
		return enactInOrder(ctx, presorted)
	}

	ids := make([]string, len(presorted))
	byID := make(map[string]Component, len(presorted))
	for i, c := range presorted {
		ids[i] = c.ObjectID()
		byID[c.ObjectID()] = c
	}

	g := newGraph(ids, rawEdges)
	removeSimpleCycles(g)
	if g.edgeCount() == 0 {
		return enactInOrder(ctx, presorted)
	}

	return topoApply(ctx, g, byID)
}

// filterValid drops every component that is already invalid given ctx,
// before any probing or application sees it (spec §7: invalid components
// are skipped silently, not probed). Grounds layer_sort's valid_components
// list comprehension.
func filterValid(ctx expr.Context, components []Component) ([]Component, error) {
	out := make([]Component, 0, len(components))
	for _, c := range components {
		ok, err := c.Valid(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func enactInOrder(ctx expr.Context, components []Component) error {
	for _, c := range components {
		if err := c.Enact(ctx, true); err != nil {
			return err
		}
	}
	return nil
}

// topoApply walks g in indegree order, enacting each node that becomes
// independent and immediately cascading into any successor that becomes
// independent as a result — in presort order, recursively — before
// returning to the outer loop for the next independent node still
// waiting. This mirrors 613.8b: an effect that stops waiting on another
// because its sole dependency was just applied takes effect immediately,
// not merely whenever the outer sort loop next reaches it. Grounds
// solve_sort's nested get_next_independent_id/add_independent.
func topoApply(ctx expr.Context, g *graph, byID map[string]Component) error {
	indegree := make(map[string]int, len(g.indegree))
	for k, v := range g.indegree {
		indegree[k] = v
	}

	remaining := make([]string, len(g.nodes))
	copy(remaining, g.nodes)

	var applyErr error
	var addIndependent func(id string)

	addIndependent = func(id string) {
		if applyErr != nil {
			return
		}
		remaining = removeID(remaining, id)

		component := byID[id]
		valid, err := component.Valid(ctx)
		if err != nil {
			applyErr = err
			return
		}
		if valid {
			if err := component.Enact(ctx, true); err != nil {
				applyErr = err
				return
			}
		}
		for _, successor := range g.successors[id] {
			indegree[successor]--
			if valid && indegree[successor] == 0 {
				addIndependent(successor)
			}
		}
	}

	for len(remaining) > 0 {
		next := nextIndependent(remaining, indegree)
		if next == "" {
			// Every remaining node has positive indegree: removeSimpleCycles
			// should have made the graph acyclic, so this indicates a bug in
			// edge synthesis rather than a legitimate unsortable state.
			break
		}
		addIndependent(next)
		if applyErr != nil {
			return applyErr
		}
	}
	return applyErr
}

// nextIndependent returns the first remaining id (in presort order) with
// zero indegree, or "" if none remains.
func nextIndependent(remaining []string, indegree map[string]int) string {
	for _, id := range remaining {
		if indegree[id] == 0 {
			return id
		}
	}
	return ""
}

func removeID(ids []string, target string) []string {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
