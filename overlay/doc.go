// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package overlay implements the apparent-state two-map overlay (spec
// §4.6): a `current` map of (object id, attribute) to written value, and a
// `reference` map recording the pre-modification value the first time each
// (object id, attribute) pair is written during the component currently
// under evaluation. The reference map is the basis for measuring a
// component's "impact" during dependency analysis (spec §4.7).
package overlay
