// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package rooting implements the rooting of gene trees
// using the relative age of the species
// as defined by a species tree.
package rooting

import (
	"errors"
	"fmt"
	"slices"

	"github.com/js-arias/cladenorm/genetree"
)

// ErrTooSmall is returned when a tree
// is too small to be analyzed.
var ErrTooSmall = errors.New("tree too small")

// Ages is the relative age of a set of species
// with respect to a seed species.
// Older species have larger ranks.
type Ages struct {
	seed  string
	rank  map[string]int
	order []string
}

// NewAges returns the relative age of the species
// in a species tree
// with respect to the seed species.
//
// The species are sorted by their distance to the seed,
// the closest species has a rank of 1,
// and the rank is incremented
// each time the distance is larger than the distance
// of the previous species.
// Species at exactly the same distance
// have the same rank.
func NewAges(sp *genetree.Tree, seed string) (*Ages, error) {
	sl := -1
	for _, l := range sp.Leaves(sp.Root()) {
		if sp.Species(l) == seed {
			sl = l
			break
		}
	}
	if sl < 0 {
		return nil, fmt.Errorf("species tree %q: seed species %q: %w", sp.Name(), seed, genetree.ErrNoLeaf)
	}

	type spDist struct {
		sp   string
		dist float64
	}
	var ls []spDist
	seen := map[string]bool{seed: true}
	for _, l := range sp.Leaves(sp.Root()) {
		s := sp.Species(l)
		if seen[s] {
			continue
		}
		seen[s] = true
		ls = append(ls, spDist{sp: s, dist: sp.Distance(sl, l)})
	}
	slices.SortStableFunc(ls, func(a, b spDist) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		}
		return 0
	})

	a := &Ages{
		seed:  seed,
		rank:  make(map[string]int, len(ls)),
		order: make([]string, 0, len(ls)),
	}
	r := 1
	for i, s := range ls {
		if i > 0 && s.dist != ls[i-1].dist {
			r++
		}
		a.rank[s.sp] = r
		a.order = append(a.order, s.sp)
	}
	return a, nil
}

// Seed returns the seed species.
func (a *Ages) Seed() string {
	return a.seed
}

// Rank returns the rank of a species.
// It returns 0 if the species is unknown
// or is the seed.
func (a *Ages) Rank(sp string) int {
	return a.rank[sp]
}

// Max returns the largest rank.
func (a *Ages) Max() int {
	if len(a.order) == 0 {
		return 0
	}
	return a.rank[a.order[len(a.order)-1]]
}

// Species returns the ranked species
// sorted by its distance to the seed.
func (a *Ages) Species() []string {
	return slices.Clone(a.order)
}

// Oldest returns the oldest species
// among a set of species.
// If more than one species have the maximum rank,
// the first one in the rank order is returned.
// It returns false if no species in the set
// is ranked.
func (a *Ages) Oldest(set map[string]bool) (string, bool) {
	var old string
	top := 0
	for _, s := range a.order {
		if !set[s] {
			continue
		}
		if r := a.rank[s]; r > top {
			old, top = s, r
		}
	}
	return old, top > 0
}

// Root roots a gene tree
// using the oldest species in the tree as outgroup
// and returns the ID of the outgroup terminal.
//
// The outgroup is the first terminal (in pre-order)
// of the oldest species.
// If no species of the tree is ranked
// (or ages is nil),
// the terminal farthest from the root is used as outgroup.
func Root(t *genetree.Tree, ages *Ages) (int, error) {
	leaves := t.Leaves(t.Root())
	if len(leaves) < 2 {
		return -1, fmt.Errorf("tree %q: %d terminals: %w", t.Name(), len(leaves), ErrTooSmall)
	}

	og := -1
	if ages != nil {
		if old, ok := ages.Oldest(t.SpeciesSet(t.Root())); ok {
			for _, l := range leaves {
				if t.Species(l) == old {
					og = l
					break
				}
			}
		}
	}
	if og < 0 {
		og, _ = t.Farthest(t.Root())
	}

	if err := t.SetOutgroup(og); err != nil {
		return -1, err
	}
	return og, nil
}
