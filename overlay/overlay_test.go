// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package overlay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcboundrav/layer-sort/expr"
	"github.com/arcboundrav/layer-sort/overlay"
)

type fakeObject struct {
	id    string
	attrs map[string]expr.Value
}

func (f *fakeObject) ID() string { return f.id }

func (f *fakeObject) BaseAttr(name string) (expr.Value, error) {
	return f.attrs[name], nil
}

func TestQueryFallsBackToBaseWhenUnmodified(t *testing.T) {
	o := overlay.New()
	obj := &fakeObject{id: "o1", attrs: map[string]expr.Value{"power": 2}}

	v, err := o.Query(obj, "power")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestModifyThenQueryReturnsOverlayValue(t *testing.T) {
	o := overlay.New()
	obj := &fakeObject{id: "o1", attrs: map[string]expr.Value{"power": 2}}

	require.NoError(t, o.Modify(obj, "power", 5))
	v, err := o.Query(obj, "power")
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestModifyPurityNeverMutatesBase(t *testing.T) {
	o := overlay.New()
	obj := &fakeObject{id: "o1", attrs: map[string]expr.Value{"color": expr.NewStringSet("red")}}

	require.NoError(t, o.Modify(obj, "color", expr.NewStringSet("blue")))
	base, err := obj.BaseAttr("color")
	require.NoError(t, err)
	assert.True(t, base.(expr.StringSet).Contains("red"), "base attribute must be unaffected by overlay writes")
}

func TestReferenceRecordsOnlyFirstPreModificationValue(t *testing.T) {
	o := overlay.New()
	obj := &fakeObject{id: "o1", attrs: map[string]expr.Value{"power": 2}}

	require.NoError(t, o.Modify(obj, "power", 5))
	require.NoError(t, o.Modify(obj, "power", 9))

	ravd := o.ReturnRAVD()
	assert.Equal(t, 2, ravd["o1"]["power"], "reference should hold the value before the first write, not the second")

	avd := o.ReturnAVD()
	assert.Equal(t, 9, avd["o1"]["power"])
}

func TestSnapshotAndRestoreRoundTrip(t *testing.T) {
	o := overlay.New()
	obj := &fakeObject{id: "o1", attrs: map[string]expr.Value{"power": 2}}

	require.NoError(t, o.Modify(obj, "power", 5))
	o.Snapshot()
	require.NoError(t, o.Modify(obj, "power", 99))

	o.Restore()
	v, err := o.Query(obj, "power")
	require.NoError(t, err)
	assert.Equal(t, 5, v, "restore should revert to the snapshot taken before the second modification")
}

func TestRefreshReferenceClearsOnlyReference(t *testing.T) {
	o := overlay.New()
	obj := &fakeObject{id: "o1", attrs: map[string]expr.Value{"power": 2}}

	require.NoError(t, o.Modify(obj, "power", 5))
	o.RefreshReference()

	assert.Empty(t, o.ReturnRAVD())
	avd := o.ReturnAVD()
	assert.Equal(t, 5, avd["o1"]["power"], "current map persists across a reference refresh")
}

func TestCalibrateClearsEverything(t *testing.T) {
	o := overlay.New()
	obj := &fakeObject{id: "o1", attrs: map[string]expr.Value{"power": 2}}
	require.NoError(t, o.Modify(obj, "power", 5))
	o.Calibrate()

	assert.Empty(t, o.ReturnRAVD())
	assert.Empty(t, o.ReturnAVD())
}

func TestComputeImpactIntegerSubtractionIsSigned(t *testing.T) {
	ravd := map[string]map[string]expr.Value{"o1": {"power": 2}}
	avdA := map[string]map[string]expr.Value{"o1": {"power": 4}}
	avdB := map[string]map[string]expr.Value{"o1": {"power": 0}}

	impactA, err := overlay.Compute(avdA, ravd)
	require.NoError(t, err)
	impactB, err := overlay.Compute(avdB, ravd)
	require.NoError(t, err)

	assert.Equal(t, 2, impactA["o1"]["power"])
	assert.Equal(t, -2, impactB["o1"]["power"])
	assert.False(t, impactA.Equal(impactB))
}

func TestComputeImpactSetUsesSymmetricDifferenceForCommutativity(t *testing.T) {
	ravd := map[string]map[string]expr.Value{"o1": {"color": expr.NewStringSet("red", "white")}}
	// Two replacements that arrive at the same resulting set.
	avdSwap1 := map[string]map[string]expr.Value{"o1": {"color": expr.NewStringSet("white", "blue")}}
	avdSwap2 := map[string]map[string]expr.Value{"o1": {"color": expr.NewStringSet("white", "blue")}}

	impact1, err := overlay.Compute(avdSwap1, ravd)
	require.NoError(t, err)
	impact2, err := overlay.Compute(avdSwap2, ravd)
	require.NoError(t, err)

	assert.True(t, impact1.Equal(impact2))
	sd := impact1["o1"]["color"].(overlay.SetDifference)
	assert.True(t, sd.SymmetricDifference.Equal(expr.NewStringSet("red", "blue")))
}
