// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package layers implements the effect/effect-component/effect-manager
// layer: gathering eligible effect components each pass, partitioning
// them by sublayer (and, within a sublayer, characteristic-defining
// ability first), invoking the dependency solver per partition, and
// freezing copiable values at the 1b/2 boundary.
//
// Grounded on layers.py's EffectManager.
package layers
