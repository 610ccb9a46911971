// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcboundrav/layer-sort/expr"
	"github.com/arcboundrav/layer-sort/object"
)

func TestBecomeAndLosePermanentObjectType(t *testing.T) {
	o := object.New("o1")
	o.ObjectTypes = expr.NewStringSet("spell")
	ctx := expr.Context{Subject: o}

	becomePermanent := object.BecomePermanentObjectType()
	v, err := becomePermanent.Evaluate(ctx)
	require.NoError(t, err)
	set := v.(expr.StringSet)
	assert.True(t, set.Contains("spell"))
	assert.True(t, set.Contains("permanent"))

	o.ObjectTypes = set
	losePermanent := object.LosePermanentObjectType()
	v, err = losePermanent.Evaluate(ctx)
	require.NoError(t, err)
	set = v.(expr.StringSet)
	assert.False(t, set.Contains("permanent"))
	assert.True(t, set.Contains("spell"))
}

func TestLosePermanentSpellAndLoseCopyPermanentSpellAreDistinct(t *testing.T) {
	o := object.New("o1")
	o.ObjectTypes = expr.NewStringSet("permanent spell", "kopy permanent spell")
	ctx := expr.Context{Subject: o}

	v, err := object.LosePermanentSpellObjectType().Evaluate(ctx)
	require.NoError(t, err)
	afterFirst := v.(expr.StringSet)
	assert.False(t, afterFirst.Contains("permanent spell"))
	assert.True(t, afterFirst.Contains("kopy permanent spell"))

	o.ObjectTypes = afterFirst
	v, err = object.LoseCopyPermanentSpellObjectType().Evaluate(ctx)
	require.NoError(t, err)
	afterSecond := v.(expr.StringSet)
	assert.False(t, afterSecond.Contains("kopy permanent spell"))
}

func TestBecomeTokenAndCopyPermanentSpellObjectTypes(t *testing.T) {
	o := object.New("o1")
	o.ObjectTypes = expr.StringSet{}
	ctx := expr.Context{Subject: o}

	v, err := object.BecomeTokenObjectType().Evaluate(ctx)
	require.NoError(t, err)
	assert.True(t, v.(expr.StringSet).Contains("token"))

	o.ObjectTypes = expr.StringSet{}
	v, err = object.BecomeCopyOfPermanentSpellType().Evaluate(ctx)
	require.NoError(t, err)
	assert.True(t, v.(expr.StringSet).Contains("kopy permanent spell"))

	v, err = object.BecomePermanentSpellObjectType().Evaluate(ctx)
	require.NoError(t, err)
	assert.True(t, v.(expr.StringSet).Contains("permanent spell"))
}
