// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package overlay

import (
	"github.com/arcboundrav/layer-sort/core"
	"github.com/arcboundrav/layer-sort/expr"
)

// SetDifference captures the asymmetric comparison spec §4.6 requires for
// set-valued attributes: the plain difference (for readability) and the
// symmetric difference, which is what makes commutativity tests work —
// two replacements that happen to swap elements compare equal under
// symmetric difference even though their plain differences don't match.
type SetDifference struct {
	Difference          expr.StringSet
	SymmetricDifference expr.StringSet
}

// Impact is the per-(object,attribute) delta produced by comparing a
// current-state map against a reference-state map restricted to the keys
// present in the reference map (spec §4.6). Values are one of: int (for
// integer attributes, via subtraction), SetDifference (for set-valued
// attributes), or bool (equality comparison for everything else).
type Impact map[string]map[string]expr.Value

// Compute builds the impact of applying a component, given the resulting
// current-value-dict (avd) and the reference-value-dict (ravd) recorded
// while that component was enacted. Grounds the source's `delta_dicts`.
func Compute(avd, ravd map[string]map[string]expr.Value) (Impact, error) {
	impact := make(Impact, len(ravd))
	for oid, refAttrs := range ravd {
		curAttrs, ok := avd[oid]
		if !ok {
			return nil, core.NewEntityError("overlay.Compute", "object", oid, core.ErrEntityNotFound)
		}
		out := make(map[string]expr.Value, len(refAttrs))
		for attr, refValue := range refAttrs {
			curValue, ok := curAttrs[attr]
			if !ok {
				return nil, core.NewEntityError("overlay.Compute", "attribute", attr, core.ErrEntityNotFound)
			}
			diff, err := computeDifference(curValue, refValue)
			if err != nil {
				return nil, err
			}
			out[attr] = diff
		}
		impact[oid] = out
	}
	return impact, nil
}

// computeDifference dispatches on operand type per spec §4.6: integer
// subtraction (carries a sign, so A⊕B == B⊕A can be tested by value
// equality), set (difference, symmetric difference) pair, or boolean
// equality for everything else.
func computeDifference(cur, ref expr.Value) (expr.Value, error) {
	switch c := cur.(type) {
	case int:
		r, ok := ref.(int)
		if !ok {
			return nil, core.NewEntityError("overlay.computeDifference", "attribute", "", core.ErrInvalidEntity)
		}
		return c - r, nil
	case expr.StringSet:
		r, ok := ref.(expr.StringSet)
		if !ok {
			return nil, core.NewEntityError("overlay.computeDifference", "attribute", "", core.ErrInvalidEntity)
		}
		return SetDifference{
			Difference:          c.Difference(r),
			SymmetricDifference: c.SymmetricDifference(r),
		}, nil
	default:
		return equalValues(cur, ref), nil
	}
}

func equalValues(a, b expr.Value) bool {
	return deepEqual(a, b)
}
