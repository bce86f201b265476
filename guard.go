// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package radix

// guard detects structural modifications during enumerations.
//
// The generation is bumped for every new or deleted entry. Clear resets
// the generation but bumps the epoch, a clear followed by adds must
// still be detected by a running enumeration.
type guard struct {
	generation uint64
	epoch      uint64
}

type token struct {
	generation uint64
	epoch      uint64
}

func (g *guard) bump() {
	g.generation++
}

func (g *guard) reset() {
	g.generation = 0
	g.epoch++
}

func (g *guard) snapshot() token {
	return token{generation: g.generation, epoch: g.epoch}
}

func (g *guard) check(tok token) error {
	if tok != g.snapshot() {
		return ErrConcurrentModification
	}
	return nil
}
