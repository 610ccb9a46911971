// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

package layers

// Sublayer names one of the twelve ordered sublayer tags (spec §2, 613
// et seq.). The tag set and pass order are fixed constants of the core
// contract.
type Sublayer string

// The twelve sublayer tags, in application order.
const (
	Sublayer1a Sublayer = "1a"
	Sublayer1b Sublayer = "1b"
	Sublayer2  Sublayer = "2"
	Sublayer3  Sublayer = "3"
	Sublayer4  Sublayer = "4"
	Sublayer5  Sublayer = "5"
	Sublayer6  Sublayer = "6"
	Sublayer7a Sublayer = "7a"
	Sublayer7b Sublayer = "7b"
	Sublayer7c Sublayer = "7c"
	Sublayer7d Sublayer = "7d"
	Sublayer8  Sublayer = "8"
)

// AllSublayers lists every sublayer tag in pass order, grounding
// top.py's SUBLAYER_LIST.
var AllSublayers = []Sublayer{
	Sublayer1a, Sublayer1b,
	Sublayer2, Sublayer3, Sublayer4, Sublayer5, Sublayer6,
	Sublayer7a, Sublayer7b, Sublayer7c, Sublayer7d, Sublayer8,
}

// firstPassSublayers, secondPassSublayers, and thirdPassSublayers are the
// three groupings the manager solves in sequence around the copiable-value
// freeze, grounding layers.py's snapshot() loop boundaries.
var (
	firstPassSublayers  = []Sublayer{Sublayer1a, Sublayer1b}
	secondPassSublayers = []Sublayer{Sublayer2, Sublayer3, Sublayer4, Sublayer5, Sublayer6}
	thirdPassSublayers  = []Sublayer{Sublayer6, Sublayer7a, Sublayer7b, Sublayer7c, Sublayer7d, Sublayer8}
)
