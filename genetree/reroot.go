// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package genetree

import (
	"errors"
	"fmt"
	"slices"
)

// ErrOutgroup is returned when a node
// can not be used to root a tree.
var ErrOutgroup = errors.New("invalid outgroup")

// Reroot places the root of the tree
// on the branch that connects a node with its parent,
// at distance x from the node.
// The distance is clamped to the length of the branch.
//
// The new root has two children:
// the node,
// and the rest of the tree.
// If the old root is left with a single child,
// or without children,
// it is removed from the tree.
// Event tags are removed.
func (t *Tree) Reroot(id int, x float64) error {
	if id < 0 || id >= len(t.nodes) {
		return fmt.Errorf("tree %q: node %d: %w", t.name, id, ErrOutgroup)
	}
	if id == t.root {
		return fmt.Errorf("tree %q: node %d is the root: %w", t.name, id, ErrOutgroup)
	}
	c := t.nodes[id]
	if !t.IsAncestor(t.root, id) {
		return fmt.Errorf("tree %q: node %d not in tree: %w", t.name, id, ErrOutgroup)
	}
	x = max(0, min(x, c.length))

	oldRoot := t.root
	r := t.addNode(-1)
	p := c.parent
	t.removeChild(p, id)
	r.children = []int{id, p}

	carryLen := c.length - x
	carrySup := c.support
	c.length = x
	c.parent = r.id

	// reverse the parent links
	// from the old parent of the node
	// up to the old root
	prev := r.id
	for cur := p; cur >= 0; {
		n := t.nodes[cur]
		next := n.parent
		oldLen, oldSup := n.length, n.support
		n.parent = prev
		n.length = carryLen
		n.support = carrySup
		if next >= 0 {
			t.removeChild(next, cur)
			n.children = append(n.children, next)
		}
		carryLen, carrySup = oldLen, oldSup
		prev = cur
		cur = next
	}
	t.root = r.id

	o := t.nodes[oldRoot]
	switch len(o.children) {
	case 0:
		// the old root had a single child,
		// so it is now an empty terminal
		par := o.parent
		t.removeChild(par, oldRoot)
		o.parent = -1
		if par != t.root && len(t.nodes[par].children) == 1 {
			t.collapse(par)
		}
	case 1:
		t.collapse(oldRoot)
	}

	t.clearEvents()
	return nil
}

// collapse removes a node with a single child,
// adding its branch length to the child.
func (t *Tree) collapse(id int) {
	n := t.nodes[id]
	ch := t.nodes[n.children[0]]
	ch.length += n.length
	par := t.nodes[n.parent]
	i := slices.Index(par.children, id)
	par.children[i] = ch.id
	ch.parent = n.parent
	n.children = nil
	n.parent = -1
}

func (t *Tree) removeChild(parent, child int) {
	p := t.nodes[parent]
	i := slices.Index(p.children, child)
	if i < 0 {
		return
	}
	p.children = slices.Delete(p.children, i, i+1)
}

// SetOutgroup roots the tree
// at the middle of the branch
// that connects a node with its parent.
// If the node is already a child
// of a root with two children,
// the tree is not modified.
func (t *Tree) SetOutgroup(id int) error {
	if id < 0 || id >= len(t.nodes) {
		return fmt.Errorf("tree %q: node %d: %w", t.name, id, ErrOutgroup)
	}
	if t.nodes[id].parent == t.root && t.IsRooted() {
		return nil
	}
	return t.Reroot(id, t.nodes[id].length/2)
}

// Diameter returns the two terminals
// at the ends of the longest path of the tree
// and the length of that path.
// The first terminal is the terminal farthest from the root.
func (t *Tree) Diameter() (a, b int, d float64) {
	a, _ = t.Farthest(t.root)
	b, d = a, 0
	for _, l := range t.Leaves(t.root) {
		if ld := t.Distance(a, l); ld > d {
			b, d = l, ld
		}
	}
	return a, b, d
}

// MidpointRoot roots the tree
// at the midpoint of the longest path
// between two terminals.
// Trees with less than two terminals
// are not modified.
func (t *Tree) MidpointRoot() error {
	if t.NumLeaves() < 2 {
		return nil
	}
	a, b, d := t.Diameter()
	half := d / 2

	path := t.Path(b, a)
	var acc float64
	for i := 0; i+1 < len(path); i++ {
		u, v := path[i], path[i+1]

		// c is the child node of the branch
		c := v
		if t.nodes[u].parent == v {
			c = u
		}
		el := t.nodes[c].length
		if acc+el < half && i+2 < len(path) {
			acc += el
			continue
		}
		x := half - acc
		if c == v {
			x = el - x
		}
		return t.Reroot(c, x)
	}
	return nil
}
