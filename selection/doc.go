// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package selection implements the predicate-and-lazily-resolved-source-set
// abstraction effect components use to identify the objects they act on
// (spec §4.2). A Selection pairs a source-set provider with a predicate,
// both of which may themselves be deferred so a selection authored once
// keeps reflecting a mutating "global" set (e.g. "all creatures you
// control") rather than a snapshot frozen at authoring time.
package selection
