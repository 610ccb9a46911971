// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package object

import "github.com/arcboundrav/layer-sort/core"

// Player is the subset of characteristics spec §3 says a player carries:
// lifetotal, a player index, and an ability list (player-level static
// abilities, e.g. "players can't gain life").
type Player struct {
	id         string
	Index      int
	lifetotal  int
	abilities  []*Ability
}

// NewPlayer builds a player with the given stable id and starting lifetotal.
func NewPlayer(id string, index, lifetotal int) *Player {
	return &Player{id: id, Index: index, lifetotal: lifetotal}
}

// ID implements expr.AttributeSource.
func (p *Player) ID() string { return p.id }

// BaseAttr implements expr.AttributeSource.
func (p *Player) BaseAttr(name string) (any, error) {
	switch name {
	case "lifetotal":
		return p.lifetotal, nil
	case "abilities":
		return abilitiesAsValueSlice(p.abilities), nil
	case "player_index":
		return p.Index, nil
	default:
		return nil, core.NewEntityError("Player.BaseAttr", "attribute", name, core.ErrInvalidEntity)
	}
}

// SetBase assigns a player's base attribute directly, bypassing the
// overlay (used only by card-side construction and the rules engine's
// life-total bookkeeping collaborator, never by the solver itself).
func (p *Player) SetBase(name string, value any) error {
	switch name {
	case "lifetotal":
		p.lifetotal, _ = value.(int)
	case "abilities":
		if typed, ok := value.([]*Ability); ok {
			p.abilities = typed
		}
	default:
		return core.NewEntityError("Player.SetBase", "attribute", name, core.ErrInvalidEntity)
	}
	return nil
}

// Abilities returns the player's live ability list.
func (p *Player) Abilities() []*Ability { return p.abilities }
