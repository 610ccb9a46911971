// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package overlay

import "reflect"

// deepEqual is the fallback comparison for attribute kinds that are
// neither int nor a set (abilities lists, controller handles, strings):
// boolean equality, per spec §4.6.
func deepEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// Equal reports whether two Impact maps are identical, used by the
// dependency solver's third-order synthesis to test `impact_AB != impact_B`.
func (i Impact) Equal(other Impact) bool {
	return reflect.DeepEqual(i, other)
}
