// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package groups provides a table of biological groups
// defined by their member species.
package groups

import (
	"slices"
	"strings"
)

// Set is a set of species codes.
type Set map[string]bool

// Has returns true if a species is in the set.
func (s Set) Has(sp string) bool {
	return s[sp]
}

// Species returns the species of the set
// in lexicographic order.
func (s Set) Species() []string {
	ls := make([]string, 0, len(s))
	for sp := range s {
		ls = append(ls, sp)
	}
	slices.Sort(ls)
	return ls
}

// Table is a collection of groups.
type Table struct {
	names []string
	group map[string]Set
}

// New creates a new empty table.
func New() *Table {
	return &Table{
		group: make(map[string]Set),
	}
}

// Add adds a species to a group.
// If the group is not in the table,
// it will be added.
// Empty species codes are ignored.
func (t *Table) Add(group, sp string) {
	group = strings.TrimSpace(group)
	if group == "" {
		return
	}
	g, ok := t.group[group]
	if !ok {
		g = make(Set)
		t.group[group] = g
		t.names = append(t.names, group)
	}

	sp = strings.TrimSpace(sp)
	if sp == "" {
		return
	}
	g[sp] = true
}

// Names returns the names of the groups
// in the order in which they were added.
func (t *Table) Names() []string {
	return slices.Clone(t.names)
}

// BySize returns the names of the groups
// sorted by the number of member species,
// from the smallest to the largest group.
// Groups with the same number of members
// keep the order in which they were added.
func (t *Table) BySize() []string {
	names := t.Names()
	slices.SortStableFunc(names, func(a, b string) int {
		return len(t.group[a]) - len(t.group[b])
	})
	return names
}

// Members returns the species of a group.
// It returns nil if the group is not in the table.
func (t *Table) Members(group string) Set {
	return t.group[group]
}

// Len returns the number of groups in the table.
func (t *Table) Len() int {
	return len(t.names)
}
