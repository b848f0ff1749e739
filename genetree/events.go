// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package genetree

// Event is the evolutionary event
// of an internal node of a gene tree.
type Event int

// Valid evolutionary events.
const (
	// Terminals,
	// or internal nodes of a tree
	// without event classification.
	NoEvent Event = iota

	// A speciation event.
	Speciation

	// A gene duplication event.
	Duplication
)

func (e Event) String() string {
	switch e {
	case Speciation:
		return "S"
	case Duplication:
		return "D"
	}
	return ""
}

// ClassifyEvents tags each internal node of the tree
// as a speciation or a duplication
// using the species overlap algorithm:
// a node is a duplication
// if any species is found in the terminals
// of more than one of its children;
// otherwise it is a speciation.
//
// Any change in the tree topology
// removes the event tags.
func (t *Tree) ClassifyEvents() {
	sets := make(map[int]map[string]bool)
	for _, id := range t.Postorder(t.root) {
		n := t.nodes[id]
		if len(n.children) == 0 {
			sets[id] = map[string]bool{n.species: true}
			n.event = NoEvent
			continue
		}

		set := make(map[string]bool)
		n.event = Speciation
		for _, c := range n.children {
			for sp := range sets[c] {
				if set[sp] {
					n.event = Duplication
				}
				set[sp] = true
			}
			delete(sets, c)
		}
		sets[id] = set
	}
	t.classified = true
}

// Classified returns true if the events
// of the tree are already classified.
func (t *Tree) Classified() bool {
	return t.classified
}

// Event returns the evolutionary event of a node.
// It returns NoEvent for terminals
// and for all nodes
// if the tree is not classified.
func (t *Tree) Event(id int) Event {
	if !t.classified {
		return NoEvent
	}
	return t.nodes[id].event
}

// Events returns the number of speciation
// and duplication events
// in the subtree rooted at a node.
func (t *Tree) Events(id int) (s, d int) {
	if !t.classified {
		return 0, 0
	}
	for _, n := range t.Preorder(id) {
		switch t.nodes[n].event {
		case Speciation:
			s++
		case Duplication:
			d++
		}
	}
	return s, d
}

func (t *Tree) clearEvents() {
	for _, n := range t.nodes {
		n.event = NoEvent
	}
	t.classified = false
}

// SetFeature sets the value of a feature
// for a node.
// Features with different keys are independent.
func (t *Tree) SetFeature(id int, key, value string) {
	f, ok := t.features[key]
	if !ok {
		f = make(map[int]string)
		t.features[key] = f
	}
	f[id] = value
}

// Feature returns the value of a feature
// for a node.
func (t *Tree) Feature(id int, key string) (string, bool) {
	f, ok := t.features[key]
	if !ok {
		return "", false
	}
	v, ok := f[id]
	return v, ok
}
