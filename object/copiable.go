// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package object

import "github.com/arcboundrav/layer-sort/expr"

// Recopy snapshots o's copiable attributes (spec §3) into CopiableValues,
// reading each one through ctx's overlay when present so effects already
// applied earlier in the same pass (sublayers 1a/1b) are reflected in the
// snapshot, matching the source's reliance on `getattr(self, attribute)`
// resolving through its apparent-state property getters. Exposed as an
// independently callable operation (SPEC_FULL's SUPPLEMENTED FEATURES)
// beyond its single call site inside the effect manager's pass, so a
// caller — e.g. a copy effect building a fresh copiable snapshot for a
// newly constructed copy — can force a recompute. Grounds
// modifiables.py's solve_copiable_values.
func (o *Object) Recopy(ctx expr.Context) error {
	values := make(map[string]expr.Value, len(CopiableAttributes))
	for _, attr := range CopiableAttributes {
		var v expr.Value
		var err error
		if ctx.Overlay != nil {
			v, err = ctx.Overlay.Query(o, attr)
		} else {
			v, err = o.BaseAttr(attr)
		}
		if err != nil {
			return err
		}
		values[attr] = expr.DeepCopy(v)
	}
	o.CopiableValues = values
	return nil
}
