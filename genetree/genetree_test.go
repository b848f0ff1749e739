// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package genetree_test

import (
	"errors"
	"math"
	"reflect"
	"slices"
	"testing"

	"github.com/js-arias/cladenorm/genetree"
	"github.com/js-arias/cladenorm/species"
)

const geneTree = "((p1_HUMAN:1,p2_MOUSE:2)0.9:0.5,(p3_HUMAN:1,p4_MOUSE:1)0.7:1);"

func parse(t testing.TB, newick string) *genetree.Tree {
	t.Helper()

	tr, err := genetree.Parse("test", newick, species.NewField("_", 1).Namer())
	if err != nil {
		t.Fatalf("unable to parse %q: %v", newick, err)
	}
	return tr
}

func leaf(t testing.TB, tr *genetree.Tree, label string) int {
	t.Helper()

	id, err := tr.LeafByLabel(label)
	if err != nil {
		t.Fatalf("%v", err)
	}
	return id
}

func TestParse(t *testing.T) {
	tr := parse(t, geneTree)

	terms := []string{"p1_HUMAN", "p2_MOUSE", "p3_HUMAN", "p4_MOUSE"}
	if got := tr.Terms(); !reflect.DeepEqual(got, terms) {
		t.Errorf("terms: got %v, want %v", got, terms)
	}
	if n := tr.NumSpecies(); n != 2 {
		t.Errorf("species: got %d, want %d", n, 2)
	}
	if sp := tr.Species(leaf(t, tr, "p2_MOUSE")); sp != "MOUSE" {
		t.Errorf("species of %q: got %q, want %q", "p2_MOUSE", sp, "MOUSE")
	}
	if !tr.IsRooted() {
		t.Errorf("tree %q should be rooted", geneTree)
	}

	p1 := leaf(t, tr, "p1_HUMAN")
	anc := tr.Parent(p1)
	if s := tr.Support(anc); s != 0.9 {
		t.Errorf("support: got %.3f, want %.3f", s, 0.9)
	}
	if l := tr.Len(anc); l != 0.5 {
		t.Errorf("length: got %.3f, want %.3f", l, 0.5)
	}

	if nw := tr.Newick(); nw != geneTree {
		t.Errorf("newick: got %q, want %q", nw, geneTree)
	}
}

func TestParseError(t *testing.T) {
	tests := map[string]string{
		"empty":    "",
		"unclosed": "((A,B),C",
		"length":   "(A:x,B);",
		"negative": "(A:-2,B);",
		"no label": "(A,);",
	}

	for name, nw := range tests {
		_, err := genetree.Parse(name, nw, nil)
		if err == nil {
			t.Errorf("%s: expecting error for %q", name, nw)
			continue
		}
		if !errors.Is(err, genetree.ErrParse) {
			t.Errorf("%s: error %v should be a parse error", name, err)
		}
		var pe *genetree.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%s: error %v should be a *ParseError", name, err)
		}
	}

	// an invalid species code
	namer := species.NewKnown("_", []string{"HUMAN"}).Namer()
	_, err := genetree.Parse("codes", "(a_HUMAN,b_MOUSE);", namer)
	if !errors.Is(err, genetree.ErrParse) || !errors.Is(err, species.ErrNoCode) {
		t.Errorf("codes: got error %v, want parse error with %v", err, species.ErrNoCode)
	}
}

func TestQuotedLabels(t *testing.T) {
	tr, err := genetree.Parse("quoted", "('a b':1,'c d':2)[a comment];", nil)
	if err != nil {
		t.Fatalf("unable to parse: %v", err)
	}
	want := []string{"a b", "c d"}
	if got := tr.Terms(); !reflect.DeepEqual(got, want) {
		t.Errorf("terms: got %q, want %q", got, want)
	}
}

func TestSingleTerminal(t *testing.T) {
	tr := parse(t, "p1_HUMAN;")
	if got := tr.Terms(); !reflect.DeepEqual(got, []string{"p1_HUMAN"}) {
		t.Errorf("terms: got %v, want %v", got, []string{"p1_HUMAN"})
	}
	if sp := tr.Species(tr.Root()); sp != "HUMAN" {
		t.Errorf("species: got %q, want %q", sp, "HUMAN")
	}

	// the final semicolon is optional
	tr = parse(t, "(p1_HUMAN:1,p2_MOUSE:1)")
	if n := tr.NumLeaves(); n != 2 {
		t.Errorf("leaves: got %d, want 2", n)
	}
}

func TestDistances(t *testing.T) {
	tr := parse(t, geneTree)

	p1 := leaf(t, tr, "p1_HUMAN")
	p2 := leaf(t, tr, "p2_MOUSE")
	p3 := leaf(t, tr, "p3_HUMAN")
	p4 := leaf(t, tr, "p4_MOUSE")

	tests := []struct {
		a, b int
		want float64
	}{
		{p1, p2, 3},
		{p1, p3, 3.5},
		{p2, p4, 4.5},
		{p3, p4, 2},
		{p1, p1, 0},
	}
	for _, tt := range tests {
		if d := tr.Distance(tt.a, tt.b); d != tt.want {
			t.Errorf("distance %s-%s: got %.3f, want %.3f", tr.Label(tt.a), tr.Label(tt.b), d, tt.want)
		}
	}

	if d := tr.RootDist(p2); d != 2.5 {
		t.Errorf("root distance: got %.3f, want %.3f", d, 2.5)
	}
	if m := tr.MRCA(p1, p2); m != tr.Parent(p1) {
		t.Errorf("mrca: got %d, want %d", m, tr.Parent(p1))
	}
	if m := tr.MRCA(p1, p2, p4); m != tr.Root() {
		t.Errorf("mrca: got %d, want root %d", m, tr.Root())
	}

	far, w := tr.Farthest(tr.Root())
	if far != p2 || w != 2.5 {
		t.Errorf("farthest: got %s at %.3f, want %s at %.3f", tr.Label(far), w, "p2_MOUSE", 2.5)
	}

	path := tr.Path(p1, p4)
	want := []int{p1, tr.Parent(p1), tr.Root(), tr.Parent(p4), p4}
	if !reflect.DeepEqual(path, want) {
		t.Errorf("path: got %v, want %v", path, want)
	}
}

func TestClassifyEvents(t *testing.T) {
	tr := parse(t, geneTree)
	if tr.Classified() {
		t.Fatalf("tree should not be classified before ClassifyEvents")
	}
	if e := tr.Event(tr.Root()); e != genetree.NoEvent {
		t.Errorf("event before classification: got %v, want no event", e)
	}

	tr.ClassifyEvents()
	if e := tr.Event(tr.Root()); e != genetree.Duplication {
		t.Errorf("root event: got %q, want %q", e, genetree.Duplication)
	}
	for _, c := range tr.Children(tr.Root()) {
		if e := tr.Event(c); e != genetree.Speciation {
			t.Errorf("node %d event: got %q, want %q", c, e, genetree.Speciation)
		}
	}
	if s, d := tr.Events(tr.Root()); s != 2 || d != 1 {
		t.Errorf("events: got %d S %d D, want 2 S 1 D", s, d)
	}

	// rerooting removes the tags
	if err := tr.SetOutgroup(leaf(t, tr, "p4_MOUSE")); err != nil {
		t.Fatalf("set outgroup: %v", err)
	}
	if tr.Classified() {
		t.Errorf("tree should not be classified after rerooting")
	}
}

func TestFeatures(t *testing.T) {
	tr := parse(t, geneTree)
	p1 := leaf(t, tr, "p1_HUMAN")

	tr.SetFeature(p1, "mammals", "mammals")
	tr.SetFeature(p1, "primates", "NA")

	if v, ok := tr.Feature(p1, "mammals"); !ok || v != "mammals" {
		t.Errorf("feature %q: got %q, want %q", "mammals", v, "mammals")
	}
	if v, ok := tr.Feature(p1, "primates"); !ok || v != "NA" {
		t.Errorf("feature %q: got %q, want %q", "primates", v, "NA")
	}
	if _, ok := tr.Feature(leaf(t, tr, "p2_MOUSE"), "mammals"); ok {
		t.Errorf("feature %q should be undefined", "mammals")
	}
}

func TestSetOutgroup(t *testing.T) {
	tr := parse(t, "((A:1,B:1):1,(C:1,D:1):1);")
	before := pairDistances(tr)

	d := leaf(t, tr, "D")
	if err := tr.SetOutgroup(d); err != nil {
		t.Fatalf("set outgroup: %v", err)
	}
	want := "(D:0.5,(C:1,(A:1,B:1)1:2)1:0.5);"
	if nw := tr.Newick(); nw != want {
		t.Errorf("rooted tree: got %q, want %q", nw, want)
	}
	if after := pairDistances(tr); !reflect.DeepEqual(after, before) {
		t.Errorf("distances: got %v, want %v", after, before)
	}

	// rooting again with the same outgroup
	// does not change the tree
	if err := tr.SetOutgroup(d); err != nil {
		t.Fatalf("set outgroup: %v", err)
	}
	if nw := tr.Newick(); nw != want {
		t.Errorf("rooted tree: got %q, want %q", nw, want)
	}

	if err := tr.SetOutgroup(tr.Root()); !errors.Is(err, genetree.ErrOutgroup) {
		t.Errorf("root as outgroup: got error %v, want %v", err, genetree.ErrOutgroup)
	}
}

func TestUnrootedOutgroup(t *testing.T) {
	tr := parse(t, "(A:1,B:2,(C:1,D:1):1);")
	if tr.IsRooted() {
		t.Fatalf("tree with a trichotomy at the root should be unrooted")
	}
	before := pairDistances(tr)

	if err := tr.SetOutgroup(leaf(t, tr, "A")); err != nil {
		t.Fatalf("set outgroup: %v", err)
	}
	if !tr.IsRooted() {
		t.Errorf("tree should be rooted")
	}
	want := "(A:0.5,(B:2,(C:1,D:1)1:1)1:0.5);"
	if nw := tr.Newick(); nw != want {
		t.Errorf("rooted tree: got %q, want %q", nw, want)
	}
	if after := pairDistances(tr); !reflect.DeepEqual(after, before) {
		t.Errorf("distances: got %v, want %v", after, before)
	}
}

func TestUnaryRoot(t *testing.T) {
	tests := map[string]struct {
		nw   string
		want string
	}{
		"trichotomy": {
			nw:   "((a:1,b:2,c:3):1);",
			want: "(a:0.5,(b:2,c:3)1:0.5);",
		},
		"dichotomy": {
			nw:   "((a:1,b:2):1);",
			want: "(a:0.5,b:2.5);",
		},
	}

	for name, test := range tests {
		tr := parse(t, test.nw)
		terms := tr.Terms()
		if err := tr.SetOutgroup(leaf(t, tr, "a")); err != nil {
			t.Fatalf("%s: set outgroup: %v", name, err)
		}
		if got := tr.Terms(); !reflect.DeepEqual(got, terms) {
			t.Errorf("%s: terms: got %q, want %q", name, got, terms)
		}
		if n := tr.NumLeaves(); n != len(terms) {
			t.Errorf("%s: leaves: got %d, want %d", name, n, len(terms))
		}
		if nw := tr.Newick(); nw != test.want {
			t.Errorf("%s: rooted tree: got %q, want %q", name, nw, test.want)
		}
	}
}

func TestMidpointRoot(t *testing.T) {
	tr := parse(t, "(A:1,(B:1,C:5):1);")
	before := pairDistances(tr)

	if err := tr.MidpointRoot(); err != nil {
		t.Fatalf("midpoint root: %v", err)
	}
	if !tr.IsRooted() {
		t.Errorf("tree should be rooted")
	}
	a := leaf(t, tr, "A")
	c := leaf(t, tr, "C")
	if d := tr.RootDist(a); math.Abs(d-3.5) > 1e-12 {
		t.Errorf("root distance of A: got %.6f, want %.6f", d, 3.5)
	}
	if d := tr.RootDist(c); math.Abs(d-3.5) > 1e-12 {
		t.Errorf("root distance of C: got %.6f, want %.6f", d, 3.5)
	}
	if after := pairDistances(tr); !reflect.DeepEqual(after, before) {
		t.Errorf("distances: got %v, want %v", after, before)
	}
}

func TestSubtree(t *testing.T) {
	tr := parse(t, geneTree)
	tr.ClassifyEvents()
	p3 := leaf(t, tr, "p3_HUMAN")
	tr.SetFeature(p3, "key", "value")

	st := tr.Subtree(tr.Parent(p3))
	want := []string{"p3_HUMAN", "p4_MOUSE"}
	if got := st.Terms(); !reflect.DeepEqual(got, want) {
		t.Errorf("subtree terms: got %v, want %v", got, want)
	}
	if e := st.Event(st.Root()); e != genetree.Speciation {
		t.Errorf("subtree root event: got %q, want %q", e, genetree.Speciation)
	}
	if l := st.Len(st.Root()); l != 1 {
		t.Errorf("subtree root length: got %.3f, want 1", l)
	}
	if d := st.RootDist(leaf(t, st, "p3_HUMAN")); d != 1 {
		t.Errorf("subtree root distance: got %.3f, want 1", d)
	}
	if v, ok := st.Feature(leaf(t, st, "p3_HUMAN"), "key"); !ok || v != "value" {
		t.Errorf("subtree feature: got %q, want %q", v, "value")
	}

	// the source tree is not modified
	if n := tr.NumLeaves(); n != 4 {
		t.Errorf("source leaves: got %d, want %d", n, 4)
	}
}

func TestTraversal(t *testing.T) {
	tr := parse(t, "((A,B)X,(C,D)Y)R;")

	var pre []string
	for _, n := range tr.Nodes() {
		pre = append(pre, tr.Label(n))
	}
	want := []string{"R", "X", "A", "B", "Y", "C", "D"}
	if !reflect.DeepEqual(pre, want) {
		t.Errorf("pre-order: got %v, want %v", pre, want)
	}

	var post []string
	for _, n := range tr.Postorder(tr.Root()) {
		post = append(post, tr.Label(n))
	}
	want = []string{"A", "B", "X", "C", "D", "Y", "R"}
	if !reflect.DeepEqual(post, want) {
		t.Errorf("post-order: got %v, want %v", post, want)
	}
}

func pairDistances(tr *genetree.Tree) map[string]float64 {
	leaves := tr.Leaves(tr.Root())
	slices.SortFunc(leaves, func(a, b int) int {
		switch {
		case tr.Label(a) < tr.Label(b):
			return -1
		case tr.Label(a) > tr.Label(b):
			return 1
		}
		return 0
	})

	d := make(map[string]float64)
	for i, a := range leaves {
		for _, b := range leaves[i+1:] {
			d[tr.Label(a)+"-"+tr.Label(b)] = math.Round(tr.Distance(a, b)*1e9) / 1e9
		}
	}
	return d
}
