// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package dist implements raw and normalized distances
// between the terminals of a gene tree.
package dist

import (
	"errors"
	"fmt"
	"math"

	"github.com/js-arias/cladenorm/genetree"
)

// ErrZeroReference is returned when the reference value
// used to normalize a distance
// is zero or not a finite number.
var ErrZeroReference = errors.New("invalid reference value")

// Normalize returns a distance scaled by a reference value.
func Normalize(raw, ref float64) (float64, error) {
	if ref == 0 || math.IsNaN(ref) || math.IsInf(ref, 0) {
		return 0, fmt.Errorf("reference %v: %w", ref, ErrZeroReference)
	}
	return raw / ref, nil
}

// A Pair is the path between two terminals
// of a gene tree.
type Pair struct {
	From, To int

	// Dist is the sum of the branch lengths
	// in the path.
	Dist float64

	// MRCA is the most recent common ancestor
	// of the terminals
	// and Event its evolutionary event.
	MRCA  int
	Event genetree.Event

	// Number of speciation and duplication nodes
	// in the path
	// (including the MRCA).
	S, D int
}

// Between returns the path between two terminals.
// If the events of the tree are not classified,
// they will be classified.
func Between(t *genetree.Tree, from, to int) Pair {
	if !t.Classified() {
		t.ClassifyEvents()
	}

	m := t.MRCA(from, to)
	p := Pair{
		From:  from,
		To:    to,
		Dist:  t.Distance(from, to),
		MRCA:  m,
		Event: t.Event(m),
	}
	for _, n := range t.Path(from, to) {
		switch t.Event(n) {
		case genetree.Speciation:
			p.S++
		case genetree.Duplication:
			p.D++
		}
	}
	return p
}

// Pairs returns the paths between all pairs of terminals
// of a tree.
// Terminals are visited in pre-order.
func Pairs(t *genetree.Tree) []Pair {
	leaves := t.Leaves(t.Root())
	var ps []Pair
	for i, a := range leaves {
		for _, b := range leaves[i+1:] {
			ps = append(ps, Between(t, a, b))
		}
	}
	return ps
}
