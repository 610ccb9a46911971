// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package selection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcboundrav/layer-sort/expr"
	"github.com/arcboundrav/layer-sort/selection"
)

type thing struct {
	id    string
	power int
}

func (t *thing) ID() string { return t.id }

func (t *thing) BaseAttr(name string) (expr.Value, error) {
	if name == "power" {
		return t.power, nil
	}
	return nil, nil
}

func sourceOf(items ...*thing) selection.SourceSetProvider[*thing] {
	return func(_ expr.Context) ([]*thing, error) { return items, nil }
}

func TestSelectionFilterAppliesPredicate(t *testing.T) {
	a := &thing{id: "a", power: 1}
	b := &thing{id: "b", power: 3}
	pred := &selection.AttrEquals[*thing]{Attr: "power", Op: expr.OpGTE, Value: expr.NewConst(2)}

	s := selection.New(sourceOf(a, b), pred)
	filtered, err := s.Filter(expr.Context{})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "b", filtered[0].ID())
}

func TestSelectionPowersetRespectsSizeBounds(t *testing.T) {
	a := &thing{id: "a"}
	b := &thing{id: "b"}
	c := &thing{id: "c"}

	s := selection.WithSizes(sourceOf(a, b, c), selection.Identity[*thing]{}, 1, 2)
	subsets, err := s.Powerset(expr.Context{})
	require.NoError(t, err)

	for _, subset := range subsets {
		assert.GreaterOrEqual(t, len(subset), 1)
		assert.LessOrEqual(t, len(subset), 2)
	}
	// C(3,1) + C(3,2) = 3 + 3 = 6
	assert.Len(t, subsets, 6)
}

func TestSelectionPowersetUnboundedMaxIsFullSize(t *testing.T) {
	a := &thing{id: "a"}
	b := &thing{id: "b"}
	s := selection.WithSizes(sourceOf(a, b), selection.Identity[*thing]{}, 0, selection.Unbounded)
	subsets, err := s.Powerset(expr.Context{})
	require.NoError(t, err)
	// 2^2 = 4 subsets total (empty, {a}, {b}, {a,b})
	assert.Len(t, subsets, 4)
}

func TestLockingSelectionCachesUntilInvalidated(t *testing.T) {
	calls := 0
	source := func(_ expr.Context) ([]*thing, error) {
		calls++
		return []*thing{{id: "a"}}, nil
	}
	inner := selection.New[*thing](source, selection.Identity[*thing]{})
	locked := selection.NewLocking(inner)

	_, err := locked.Filter(expr.Context{})
	require.NoError(t, err)
	_, err = locked.Filter(expr.Context{})
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second Filter call should hit the cache")

	locked.Invalidate()
	_, err = locked.Filter(expr.Context{})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "Filter after Invalidate should re-resolve the source")
}

func TestConjunctionShortCircuitsAndIsCached(t *testing.T) {
	p1 := selection.Identity[*thing]{}
	attrPred := &selection.AttrEquals[*thing]{Attr: "power", Op: expr.OpEqual, Value: expr.NewConst(1)}

	c1, err := selection.Conjunction[*thing](p1, attrPred)
	require.NoError(t, err)
	c2, err := selection.Conjunction[*thing](attrPred, p1)
	require.NoError(t, err)
	assert.Same(t, c1, c2, "conjunctions of the same predicate set (any order) should be cached by sorted name")

	obj := &thing{id: "a", power: 1}
	ok, err := c1.Test(expr.Context{}, obj)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConjunctionRejectsNilPredicate(t *testing.T) {
	_, err := selection.Conjunction[*thing](nil)
	assert.Error(t, err)
}
