// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package solver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcboundrav/layer-sort/expr"
	"github.com/arcboundrav/layer-sort/overlay"
	"github.com/arcboundrav/layer-sort/solver"
)

type fakeObject struct {
	id    string
	attrs map[string]expr.Value
}

func (f *fakeObject) ID() string { return f.id }

func (f *fakeObject) BaseAttr(name string) (expr.Value, error) {
	return f.attrs[name], nil
}

// fakeComponent implements solver.Component with closures, so each test
// can describe its enactment and validity behavior inline.
type fakeComponent struct {
	id        string
	timestamp int64
	ordinal   int
	enact     func(ctx expr.Context, lock bool) error
	valid     func(ctx expr.Context) (bool, error)
}

func (c *fakeComponent) ObjectID() string          { return c.id }
func (c *fakeComponent) Timestamp() int64          { return c.timestamp }
func (c *fakeComponent) Ordinal() int              { return c.ordinal }
func (c *fakeComponent) IsMarkerComponent() bool   { return true }
func (c *fakeComponent) RefreshSelectableCache()   {}
func (c *fakeComponent) Valid(ctx expr.Context) (bool, error) {
	if c.valid != nil {
		return c.valid(ctx)
	}
	return true, nil
}
func (c *fakeComponent) Enact(ctx expr.Context, lock bool) error {
	return c.enact(ctx, lock)
}

func TestPresortOrdersByTimestampThenOrdinal(t *testing.T) {
	components := []solver.Component{
		&fakeComponent{id: "c3", timestamp: 5, ordinal: 0},
		&fakeComponent{id: "c1", timestamp: 1, ordinal: 1},
		&fakeComponent{id: "c2", timestamp: 1, ordinal: 0},
	}

	sorted := solver.Presort(components)

	ids := []string{sorted[0].ObjectID(), sorted[1].ObjectID(), sorted[2].ObjectID()}
	assert.Equal(t, []string{"c2", "c1", "c3"}, ids)
}

func TestSolveAppliesIndependentComponentsInPresortOrder(t *testing.T) {
	ov := overlay.New()
	ctx := expr.Context{Overlay: ov}

	obj1 := &fakeObject{id: "o1", attrs: map[string]expr.Value{"power": 0}}
	obj2 := &fakeObject{id: "o2", attrs: map[string]expr.Value{"toughness": 0}}

	setPower := &fakeComponent{
		id: "set-power", timestamp: 1,
		enact: func(ctx expr.Context, lock bool) error {
			return ov.Modify(obj1, "power", 9)
		},
	}
	setToughness := &fakeComponent{
		id: "set-toughness", timestamp: 2,
		enact: func(ctx expr.Context, lock bool) error {
			return ov.Modify(obj2, "toughness", 4)
		},
	}

	err := solver.Solve(ctx, ov, []solver.Component{setToughness, setPower})
	require.NoError(t, err)

	power, err := ov.Query(obj1, "power")
	require.NoError(t, err)
	toughness, err := ov.Query(obj2, "toughness")
	require.NoError(t, err)

	assert.Equal(t, 9, power)
	assert.Equal(t, 4, toughness)
}

// TestSolveRespectsSynthesizedDependencyOverPresort constructs two
// components whose results are order-dependent (+1 then double produces
// a different final value than double then +1), assigns them timestamps
// that would apply the dependent one FIRST under presort alone, and
// asserts the solver's third-order probing detects the dependency and
// re-orders application so the dependency is honored regardless.
func TestSolveRespectsSynthesizedDependencyOverPresort(t *testing.T) {
	ov := overlay.New()
	ctx := expr.Context{Overlay: ov}
	obj := &fakeObject{id: "o1", attrs: map[string]expr.Value{"power": 0}}

	addOne := &fakeComponent{
		id: "add-one", timestamp: 2, // later by presort than double
		enact: func(ctx expr.Context, lock bool) error {
			cur, err := ov.Query(obj, "power")
			if err != nil {
				return err
			}
			return ov.Modify(obj, "power", cur.(int)+1)
		},
	}
	double := &fakeComponent{
		id: "double", timestamp: 1, // earlier by presort than add-one
		enact: func(ctx expr.Context, lock bool) error {
			cur, err := ov.Query(obj, "power")
			if err != nil {
				return err
			}
			return ov.Modify(obj, "power", cur.(int)*2)
		},
	}

	err := solver.Solve(ctx, ov, []solver.Component{addOne, double})
	require.NoError(t, err)

	power, err := ov.Query(obj, "power")
	require.NoError(t, err)

	// add-one must apply before double ((0+1)*2 == 2), not presort order
	// (double then add-one would give (0*2)+1 == 1).
	assert.Equal(t, 2, power)
}

// TestThirdOrderSynthesisGatesOnCurrentStateNotImpact exercises the case
// where forward/backward impacts happen to agree (both +2 and +4/+2 reduce
// the same) but the resulting current states genuinely differ: cur_AB != cur_BA
// must still gate the impact-direction comparison (spec §4.7), since
// gating on impact equality instead would wrongly skip the dependency
// edge entirely.
func TestThirdOrderSynthesisGatesOnCurrentStateNotImpact(t *testing.T) {
	ov := overlay.New()
	ctx := expr.Context{Overlay: ov}
	obj := &fakeObject{id: "o1", attrs: map[string]expr.Value{"power": 6}}

	addTwo := &fakeComponent{
		id: "add-two", timestamp: 1,
		enact: func(ctx expr.Context, lock bool) error {
			cur, err := ov.Query(obj, "power")
			if err != nil {
				return err
			}
			return ov.Modify(obj, "power", cur.(int)+2)
		},
	}
	setTen := &fakeComponent{
		id: "set-ten", timestamp: 2,
		enact: func(ctx expr.Context, lock bool) error {
			return ov.Modify(obj, "power", 10)
		},
	}

	err := solver.Solve(ctx, ov, []solver.Component{setTen, addTwo})
	require.NoError(t, err)

	power, err := ov.Query(obj, "power")
	require.NoError(t, err)

	// add-two must apply before set-ten (set-ten always wins with 10), not
	// presort order applied blind (set-ten then add-two would give 12).
	assert.Equal(t, 10, power)
}

// TestSolveSkipsInvalidComponentsInFastPaths ensures a component that is
// already invalid before a sublayer's probing begins is silently skipped
// (spec §7), including in the single-component and no-dependency-edge
// fast paths that bypass the topological applier's own Valid check.
func TestSolveSkipsInvalidComponentsInFastPaths(t *testing.T) {
	t.Run("single invalid component", func(t *testing.T) {
		ov := overlay.New()
		ctx := expr.Context{Overlay: ov}
		obj := &fakeObject{id: "o1", attrs: map[string]expr.Value{"power": 0}}

		enacted := false
		invalid := &fakeComponent{
			id: "invalid", timestamp: 1,
			valid: func(ctx expr.Context) (bool, error) { return false, nil },
			enact: func(ctx expr.Context, lock bool) error {
				enacted = true
				return ov.Modify(obj, "power", 99)
			},
		}

		err := solver.Solve(ctx, ov, []solver.Component{invalid})
		require.NoError(t, err)
		assert.False(t, enacted, "invalid component must not be enacted")

		power, err := ov.Query(obj, "power")
		require.NoError(t, err)
		assert.Equal(t, 0, power)
	})

	t.Run("no dependency edges among multiple components, one invalid", func(t *testing.T) {
		ov := overlay.New()
		ctx := expr.Context{Overlay: ov}
		obj1 := &fakeObject{id: "o1", attrs: map[string]expr.Value{"power": 0}}
		obj2 := &fakeObject{id: "o2", attrs: map[string]expr.Value{"toughness": 0}}

		enacted := false
		invalid := &fakeComponent{
			id: "invalid", timestamp: 1,
			valid: func(ctx expr.Context) (bool, error) { return false, nil },
			enact: func(ctx expr.Context, lock bool) error {
				enacted = true
				return ov.Modify(obj1, "power", 99)
			},
		}
		setToughness := &fakeComponent{
			id: "set-toughness", timestamp: 2,
			enact: func(ctx expr.Context, lock bool) error {
				return ov.Modify(obj2, "toughness", 4)
			},
		}

		err := solver.Solve(ctx, ov, []solver.Component{invalid, setToughness})
		require.NoError(t, err)
		assert.False(t, enacted, "invalid component must not be enacted")

		toughness, err := ov.Query(obj2, "toughness")
		require.NoError(t, err)
		assert.Equal(t, 4, toughness)
	})
}
