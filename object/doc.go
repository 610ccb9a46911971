// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package object implements the base mutable game object and player (spec
// §3): the modifiable characteristics the solver writes through the
// overlay, markers (counters), the ability list, and the copiable-values
// snapshot copy effects read from. Objects and players implement
// expr.AttributeSource (and expr.MethodInvoker for the derived mana-value
// and color-count reads) so expression nodes, predicates, and the overlay
// can all operate on them without importing this package's concrete types.
package object
