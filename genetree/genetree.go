// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package genetree implements rooted gene trees
// with arbitrary branch lengths.
//
// A tree is stored as an arena of nodes
// identified by integer IDs.
// Node IDs are stable:
// rerooting a tree adds a new root
// and detaches collapsed nodes,
// but it never renumbers the nodes.
package genetree

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/js-arias/cladenorm/species"
)

// ErrNoLeaf is returned when a terminal label
// is not found in a tree.
var ErrNoLeaf = errors.New("leaf not found")

// A Tree is a rooted phylogenetic tree
// of a gene family.
type Tree struct {
	name  string
	root  int
	nodes []*node

	classified bool
	features   map[string]map[int]string
}

type node struct {
	id       int
	parent   int
	children []int

	length  float64
	support float64

	label   string
	species string

	event Event
}

func newTree(name string) *Tree {
	return &Tree{
		name:     name,
		root:     -1,
		features: make(map[string]map[int]string),
	}
}

func (t *Tree) addNode(parent int) *node {
	n := &node{
		id:      len(t.nodes),
		parent:  parent,
		support: 1,
	}
	t.nodes = append(t.nodes, n)
	if parent >= 0 {
		p := t.nodes[parent]
		p.children = append(p.children, n.id)
	}
	return n
}

// Name returns the name of the tree.
func (t *Tree) Name() string {
	return t.name
}

// Root returns the ID of the root node.
func (t *Tree) Root() int {
	return t.root
}

// Nodes returns the IDs of the nodes of the tree
// in pre-order.
func (t *Tree) Nodes() []int {
	return t.Preorder(t.root)
}

// Preorder returns the IDs of the nodes of the subtree
// rooted at a node,
// in pre-order
// (a node is visited before its descendants,
// and children are visited in their stored order).
func (t *Tree) Preorder(id int) []int {
	var ids []int
	stack := []int{id}
	for len(stack) > 0 {
		n := t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		ids = append(ids, n.id)
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return ids
}

// Postorder returns the IDs of the nodes of the subtree
// rooted at a node,
// in post-order.
func (t *Tree) Postorder(id int) []int {
	var post []int

	// a reversed pre-order with reversed children
	// is a valid post-order
	stack := []int{id}
	for len(stack) > 0 {
		n := t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		post = append(post, n.id)
		stack = append(stack, n.children...)
	}
	slices.Reverse(post)
	return post
}

// Children returns the IDs of the children of a node.
func (t *Tree) Children(id int) []int {
	return slices.Clone(t.nodes[id].children)
}

// Parent returns the ID of the parent of a node.
// The parent of the root is -1.
func (t *Tree) Parent(id int) int {
	return t.nodes[id].parent
}

// IsRoot returns true if the node is the root of the tree.
func (t *Tree) IsRoot(id int) bool {
	return t.root == id
}

// IsTerm returns true if the node is a terminal.
func (t *Tree) IsTerm(id int) bool {
	return len(t.nodes[id].children) == 0
}

// IsRooted returns true if the root of the tree
// has exactly two children.
func (t *Tree) IsRooted() bool {
	return len(t.nodes[t.root].children) == 2
}

// Label returns the label of a node.
func (t *Tree) Label(id int) string {
	return t.nodes[id].label
}

// Species returns the species code of a terminal node.
func (t *Tree) Species(id int) string {
	return t.nodes[id].species
}

// Len returns the length of the branch
// that connects a node to its parent.
func (t *Tree) Len(id int) float64 {
	return t.nodes[id].length
}

// Support returns the support value of a node.
func (t *Tree) Support(id int) float64 {
	return t.nodes[id].support
}

// Leaves returns the IDs of the terminals
// descendant of a node,
// in pre-order.
func (t *Tree) Leaves(id int) []int {
	var leaves []int
	for _, n := range t.Preorder(id) {
		if t.IsTerm(n) {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// NumLeaves returns the number of terminals
// of the tree.
func (t *Tree) NumLeaves() int {
	return len(t.Leaves(t.root))
}

// Terms returns the labels of the terminals
// of the tree,
// in pre-order.
func (t *Tree) Terms() []string {
	leaves := t.Leaves(t.root)
	terms := make([]string, 0, len(leaves))
	for _, l := range leaves {
		terms = append(terms, t.nodes[l].label)
	}
	return terms
}

// LeafByLabel returns the ID of the terminal
// with the given label.
func (t *Tree) LeafByLabel(label string) (int, error) {
	for _, l := range t.Leaves(t.root) {
		if t.nodes[l].label == label {
			return l, nil
		}
	}
	return -1, fmt.Errorf("tree %q: terminal %q: %w", t.name, label, ErrNoLeaf)
}

// SpeciesSet returns the species codes
// of the terminals descendant of a node.
func (t *Tree) SpeciesSet(id int) map[string]bool {
	set := make(map[string]bool)
	for _, l := range t.Leaves(id) {
		set[t.nodes[l].species] = true
	}
	return set
}

// NumSpecies returns the number of different species
// in the tree.
func (t *Tree) NumSpecies() int {
	return len(t.SpeciesSet(t.root))
}

// RootDist returns the distance
// from the root to a node.
func (t *Tree) RootDist(id int) float64 {
	var d float64
	for n := t.nodes[id]; n.parent >= 0; n = t.nodes[n.parent] {
		d += n.length
	}
	return d
}

// MRCA returns the most recent common ancestor
// of a set of nodes.
func (t *Tree) MRCA(ids ...int) int {
	if len(ids) == 0 {
		return t.root
	}
	m := ids[0]
	for _, id := range ids[1:] {
		m = t.pairMRCA(m, id)
	}
	return m
}

func (t *Tree) pairMRCA(a, b int) int {
	anc := make(map[int]bool)
	for n := a; n >= 0; n = t.nodes[n].parent {
		anc[n] = true
	}
	for n := b; n >= 0; n = t.nodes[n].parent {
		if anc[n] {
			return n
		}
	}
	return t.root
}

// IsAncestor returns true if a is an ancestor of b
// (a node is an ancestor of itself).
func (t *Tree) IsAncestor(a, b int) bool {
	for n := b; n >= 0; n = t.nodes[n].parent {
		if n == a {
			return true
		}
	}
	return false
}

// Distance returns the sum of branch lengths
// in the path between two nodes.
func (t *Tree) Distance(a, b int) float64 {
	m := t.pairMRCA(a, b)
	var d float64
	for n := a; n != m; n = t.nodes[n].parent {
		d += t.nodes[n].length
	}
	for n := b; n != m; n = t.nodes[n].parent {
		d += t.nodes[n].length
	}
	return d
}

// Path returns the IDs of the nodes in the path
// from a to b,
// including both nodes.
func (t *Tree) Path(a, b int) []int {
	m := t.pairMRCA(a, b)
	var up []int
	for n := a; n != m; n = t.nodes[n].parent {
		up = append(up, n)
	}
	up = append(up, m)
	var down []int
	for n := b; n != m; n = t.nodes[n].parent {
		down = append(down, n)
	}
	slices.Reverse(down)
	return append(up, down...)
}

// Farthest returns the terminal descendant of a node
// farthest from it,
// and its distance to the node.
// On ties the first terminal in pre-order is returned.
func (t *Tree) Farthest(id int) (int, float64) {
	leaf, far := id, math.Inf(-1)
	dist := map[int]float64{id: 0}
	for _, n := range t.Preorder(id) {
		if n != id {
			dist[n] = dist[t.nodes[n].parent] + t.nodes[n].length
		}
		if !t.IsTerm(n) {
			continue
		}
		if dist[n] > far {
			leaf, far = n, dist[n]
		}
	}
	return leaf, far
}

// Width returns the maximum distance
// between a node and any of its descendant terminals.
func (t *Tree) Width(id int) float64 {
	_, w := t.Farthest(id)
	return w
}

// Subtree returns a copy of the clade rooted at a node
// as a new tree.
// The branch of the clade root is kept
// as the length of the new root.
// Features and event tags are copied.
func (t *Tree) Subtree(id int) *Tree {
	nt := newTree(t.name)
	nt.classified = t.classified

	ids := make(map[int]int)
	for _, n := range t.Preorder(id) {
		src := t.nodes[n]
		p := -1
		if n != id {
			p = ids[src.parent]
		}
		dst := nt.addNode(p)
		ids[n] = dst.id
		dst.label = src.label
		dst.species = src.species
		dst.support = src.support
		dst.event = src.event
		dst.length = src.length
	}
	nt.root = ids[id]

	for key, vals := range t.features {
		nv := make(map[int]string)
		for n, v := range vals {
			if nid, ok := ids[n]; ok {
				nv[nid] = v
			}
		}
		nt.features[key] = nv
	}
	return nt
}

// SetSpecies sets the species code of the terminals
// of the tree,
// using a Namer.
func (t *Tree) SetSpecies(namer species.Namer) error {
	for _, l := range t.Leaves(t.root) {
		n := t.nodes[l]
		sp, err := namer(n.label)
		if err != nil {
			return fmt.Errorf("tree %q: %w", t.name, err)
		}
		n.species = sp
	}
	t.clearEvents()
	return nil
}
