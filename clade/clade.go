// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package clade implements the search
// of monophyletic clades of a group of species
// in a gene tree.
package clade

import (
	"errors"
	"fmt"

	"github.com/js-arias/cladenorm/genetree"
	"github.com/js-arias/cladenorm/groups"
)

// Absent is the feature value of a terminal
// whose species is not a member of a group.
const Absent = "nan"

// Errors returned by the clade functions.
var (
	// ErrInsufficientTopology is returned
	// when a clade has less than two descendant partitions.
	ErrInsufficientTopology = errors.New("insufficient topology")

	// ErrNoClade is returned when no clade
	// of a tree fulfills the conditions of a group.
	ErrNoClade = errors.New("no qualifying clade")
)

// Annotate sets a feature for each terminal of a tree
// using the group key as the feature key.
// If the species of the terminal is a member of the group
// the value is the key,
// otherwise the value is Absent.
func Annotate(t *genetree.Tree, key string, members groups.Set) {
	for _, l := range t.Leaves(t.Root()) {
		v := Absent
		if members.Has(t.Species(l)) {
			v = key
		}
		t.SetFeature(l, key, v)
	}
}

// A Split is the first split of a clade,
// defined by the species sets of the first two children
// of the clade root.
type Split struct {
	A, B map[string]bool
}

// FirstSplit returns the first split of the clade
// rooted at the given node.
func FirstSplit(t *genetree.Tree, id int) (Split, error) {
	ch := t.Children(id)
	if len(ch) < 2 {
		return Split{}, fmt.Errorf("tree %q: node %d: %d partitions: %w", t.Name(), id, len(ch), ErrInsufficientTopology)
	}
	return Split{
		A: t.SpeciesSet(ch[0]),
		B: t.SpeciesSet(ch[1]),
	}, nil
}

// Agrees returns true if the split agrees
// with a reference split.
// A split agrees with the reference
// if exactly one of its sides
// is a subset of only the first reference side,
// and exactly one of its sides
// is a subset of only the second reference side.
func (s Split) Agrees(ref Split) bool {
	var inA, inB int
	for _, x := range []map[string]bool{s.A, s.B} {
		if subset(x, ref.A) && !subset(x, ref.B) {
			inA++
		}
		if subset(x, ref.B) && !subset(x, ref.A) {
			inB++
		}
	}
	return inA == 1 && inB == 1
}

func subset(x, y map[string]bool) bool {
	for sp := range x {
		if !y[sp] {
			return false
		}
	}
	return true
}

// Options are the additional conditions
// used to resolve a clade.
type Options struct {
	// Require is the label of a terminal
	// that must be in the clade.
	// If empty,
	// any terminal is accepted.
	Require string

	// Reference is the first split
	// of the group in the species tree.
	// If defined,
	// the first split of the clade must agree with it.
	Reference *Split
}

// A Candidate is a monophyletic clade of a group.
type Candidate struct {
	Tree    *genetree.Tree
	Node    int
	Leaves  int
	Species int
	Group   string
	Event   genetree.Event
}

// Subtree returns a copy of the clade as a new tree.
func (c Candidate) Subtree() *genetree.Tree {
	return c.Tree.Subtree(c.Node)
}

// Resolve returns the largest clade of a tree
// with all of its terminals annotated
// with the given group key.
//
// A valid clade:
//
//   - has more than one terminal
//   - has the key as feature value in all of its terminals
//   - is not the whole tree
//   - has a width greater than zero
//   - is rooted at a speciation event
//   - includes the required terminal (if any)
//   - has a first split that agrees
//     with the reference split (if any)
//
// Clades are visited in pre-order,
// so if two valid clades have the same number of terminals,
// the first one visited is returned.
//
// If the events of the tree are not classified,
// they will be classified.
func Resolve(t *genetree.Tree, key string, opts Options) (Candidate, error) {
	if !t.Classified() {
		t.ClassifyEvents()
	}

	type nodeInfo struct {
		leaves int
		tag    string
		mixed  bool
		width  float64
		hasReq bool
	}
	info := make(map[int]*nodeInfo)
	for _, id := range t.Postorder(t.Root()) {
		ni := &nodeInfo{}
		info[id] = ni
		if t.IsTerm(id) {
			ni.leaves = 1
			ni.tag = Absent
			if v, ok := t.Feature(id, key); ok {
				ni.tag = v
			}
			ni.hasReq = opts.Require == "" || t.Label(id) == opts.Require
			continue
		}
		for i, c := range t.Children(id) {
			ci := info[c]
			ni.leaves += ci.leaves
			ni.width = max(ni.width, ci.width+t.Len(c))
			ni.hasReq = ni.hasReq || ci.hasReq
			if i == 0 {
				ni.tag, ni.mixed = ci.tag, ci.mixed
				continue
			}
			if ci.mixed || ci.tag != ni.tag {
				ni.mixed = true
			}
		}
	}

	total := info[t.Root()].leaves
	best := -1
	for _, id := range t.Nodes() {
		ni := info[id]
		if ni.leaves < 2 || ni.leaves == total {
			continue
		}
		if ni.mixed || ni.tag != key {
			continue
		}
		if ni.width == 0 {
			continue
		}
		if t.Event(id) != genetree.Speciation {
			continue
		}
		if !ni.hasReq {
			continue
		}
		if opts.Reference != nil {
			s, err := FirstSplit(t, id)
			if err != nil || !s.Agrees(*opts.Reference) {
				continue
			}
		}
		if best < 0 || ni.leaves > info[best].leaves {
			best = id
		}
	}
	if best < 0 {
		return Candidate{}, fmt.Errorf("tree %q: group %q: %w", t.Name(), key, ErrNoClade)
	}

	return Candidate{
		Tree:    t,
		Node:    best,
		Leaves:  info[best].leaves,
		Species: len(t.SpeciesSet(best)),
		Group:   key,
		Event:   t.Event(best),
	}, nil
}

// References returns the first split
// of the clade of each group in a species tree.
//
// The seed is the label of a species
// that must be included in each clade.
func References(sp *genetree.Tree, tab *groups.Table, seed string) (map[string]Split, error) {
	sp.ClassifyEvents()

	refs := make(map[string]Split, tab.Len())
	for _, g := range tab.BySize() {
		Annotate(sp, g, tab.Members(g))
		c, err := Resolve(sp, g, Options{Require: seed})
		if err != nil {
			return nil, fmt.Errorf("species tree: %w", err)
		}
		s, err := FirstSplit(sp, c.Node)
		if err != nil {
			return nil, fmt.Errorf("species tree: group %q: %w", g, err)
		}
		refs[g] = s
	}
	return refs, nil
}
