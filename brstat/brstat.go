// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package brstat implements descriptive statistics
// of the branch lengths of a gene tree.
package brstat

import (
	"errors"
	"math"
	"strconv"

	"github.com/js-arias/cladenorm/genetree"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Populations of branch lengths.
const (
	RootToTip = "r2t"
	All       = "brlens"
	Internal  = "int_brlens"
	Tip       = "tip_brlens"
)

var populations = []string{RootToTip, All, Internal, Tip}

var names = func() []string {
	ns := []string{"leafno", "spno"}
	for _, p := range populations {
		for _, s := range []string{"median", "mean", "var", "kurt", "skew"} {
			ns = append(ns, s+"_"+p)
		}
	}
	return append(ns,
		"mean_bs",
		"width",
		"tree_length",
		"tlen_leafno_ratio",
		"S",
		"D",
		"duprate",
		"treeness",
		"single_copy",
	)
}()

// Names returns the names of the fields
// of a statistics record.
func Names() []string {
	ns := make([]string, len(names))
	copy(ns, names)
	return ns
}

// Fields stored as integers.
var integers = map[string]bool{
	"leafno": true,
	"spno":   true,
	"S":      true,
	"D":      true,
}

// Stats is a statistics record of a tree.
// Fields without a value are absent.
type Stats struct {
	v map[string]float64
}

func newStats() *Stats {
	return &Stats{v: make(map[string]float64, len(names))}
}

// set sets a field,
// NaN values are not stored.
func (s *Stats) set(name string, v float64) {
	if math.IsNaN(v) {
		return
	}
	s.v[name] = v
}

// Value returns the value of a field.
func (s *Stats) Value(name string) (float64, bool) {
	v, ok := s.v[name]
	return v, ok
}

// Format returns the value of a field
// as a string.
// It returns an empty string
// if the field is absent.
func (s *Stats) Format(name string) string {
	v, ok := s.v[name]
	if !ok {
		return ""
	}
	if name == "single_copy" {
		return strconv.FormatBool(v != 0)
	}
	if integers[name] {
		return strconv.Itoa(int(v))
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Len returns the number of defined fields.
func (s *Stats) Len() int {
	return len(s.v)
}

// Compute returns the statistics record of a tree.
//
// If the root of the tree does not have two children,
// the tree will be rooted at its midpoint.
// The events of the tree are always classified.
//
// If the tree has a single terminal,
// only the number of terminals
// and species are defined.
//
// The root node is an internal node:
// its branch (the stem of a clade,
// or a 0 length for a whole tree)
// is included in the branch length populations,
// and its support in the mean support.
func Compute(t *genetree.Tree) (*Stats, error) {
	if !t.IsRooted() {
		if err := t.MidpointRoot(); err != nil {
			return nil, err
		}
	}
	t.ClassifyEvents()

	s := newStats()
	leaves := t.Leaves(t.Root())
	s.set("leafno", float64(len(leaves)))
	s.set("spno", float64(t.NumSpecies()))
	if len(leaves) <= 1 {
		return s, nil
	}

	pop := make(map[string][]float64, len(populations))
	var support []float64
	for _, id := range t.Nodes() {
		l := t.Len(id)
		pop[All] = append(pop[All], l)
		if t.IsTerm(id) {
			pop[Tip] = append(pop[Tip], l)
			pop[RootToTip] = append(pop[RootToTip], t.RootDist(id))
			continue
		}
		pop[Internal] = append(pop[Internal], l)
		support = append(support, t.Support(id))
	}

	for _, p := range populations {
		sum, err := Describe(pop[p])
		if errors.Is(err, ErrUndefined) {
			continue
		}
		s.set("median_"+p, sum.Median)
		s.set("mean_"+p, sum.Mean)
		s.set("var_"+p, sum.Var)
		s.set("kurt_"+p, sum.Kurt)
		s.set("skew_"+p, sum.Skew)
	}

	if len(support) > 0 {
		s.set("mean_bs", stat.Mean(support, nil))
	}
	s.set("width", t.Width(t.Root()))

	total := floats.Sum(pop[All])
	s.set("tree_length", total)
	s.set("tlen_leafno_ratio", total/float64(len(leaves)))

	sp, dup := t.Events(t.Root())
	s.set("S", float64(sp))
	s.set("D", float64(dup))
	if sp+dup > 0 {
		// speciation fraction,
		// the field name is kept for compatibility
		s.set("duprate", float64(sp)/float64(sp+dup))
	}
	if total != 0 {
		s.set("treeness", floats.Sum(pop[Internal])/total)
	}
	sc := 0.0
	if dup == 0 {
		sc = 1
	}
	s.set("single_copy", sc)
	return s, nil
}
