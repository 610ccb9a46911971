// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package core

import "github.com/google/uuid"

// NewUUID returns a freshly minted, opaque identifier, the default
// implementation of the §6 "unique-id source" collaborator contract
// (spec.md §6: "fresh opaque identifier per call"). Grounds
// tools/spatial/ids.go's NewRoomID/NewEntityID family.
func NewUUID() string {
	return uuid.New().String()
}
