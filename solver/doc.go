// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package solver implements the dependency solver that orders and applies
// a sublayer's effect components against the apparent-state overlay:
// pairwise impact probing, dependency-edge synthesis, simple-cycle
// cancellation, and presort-stable topological application with eager
// recursive application of components that become independent mid-sort.
//
// Grounded on apparent_state_handler.py's ApparentStateHandler (the
// first/second/third-order probing methods and solve_sort).
package solver
