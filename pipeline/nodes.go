// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package pipeline

import (
	"context"

	"github.com/js-arias/cladenorm/batch"
	"github.com/js-arias/cladenorm/brstat"
	"github.com/js-arias/cladenorm/dist"
)

// NodesHeader returns the header
// of a seed-to-node distance table.
func (c *Config) NodesHeader() []string {
	h := []string{"seed", "species"}
	for _, n := range brstat.Names() {
		h = append(h, "tree_"+n)
	}
	for _, n := range brstat.Names() {
		h = append(h, "norm_"+n)
	}
	h = append(h, "wdth_ratio", "root_dist", "root_ndist")
	if c.Groups == nil {
		return h
	}
	for _, g := range c.Groups.BySize() {
		h = append(h, g+"_dist", g+"_ndist")
	}
	return h
}

// Nodes returns the distance
// from the seed of a gene tree
// to the clade of each group,
// as a single row.
//
// Groups are visited from the smallest to the largest,
// and if the clade of a group is the same clade
// of the previous group,
// the distance is not repeated.
// Normalized distances use the median root-to-tip distance
// of the clade of the normalizing group.
func (c *Config) Nodes(ctx context.Context, rec batch.Record) ([]batch.Row, error) {
	t, err := c.tree(rec)
	if err != nil {
		return nil, err
	}
	if err := c.Check(t); err != nil {
		return nil, err
	}

	row := batch.Row{"seed": rec.Seed}
	sl, hasSeed := seed(t)
	if hasSeed {
		row["species"] = t.Species(sl)
	}

	whole, err := brstat.Compute(t)
	if err != nil {
		return nil, err
	}
	addStats(row, "tree_", whole)

	var ref float64
	hasRef := false
	if st := c.norm(ctx, t); st != nil {
		addStats(row, "norm_", st)
		ref, hasRef = st.Value("median_r2t")
		nw, _ := st.Value("width")
		if tw, _ := whole.Value("width"); tw != 0 {
			row["wdth_ratio"] = ftoa(nw / tw)
		}
	}

	if !hasSeed {
		return []batch.Row{row}, nil
	}
	normalize := func(name string, d float64) {
		row[name+"_dist"] = ftoa(d)
		if !hasRef {
			return
		}
		if nd, err := dist.Normalize(d, ref); err == nil {
			row[name+"_ndist"] = ftoa(nd)
		}
	}
	normalize("root", t.RootDist(sl))

	if c.Groups == nil {
		return []batch.Row{row}, nil
	}
	last := -1
	for _, g := range c.Groups.BySize() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cd, err := c.resolve(t, g)
		if err != nil {
			continue
		}
		if cd.Node != last {
			normalize(g, t.Distance(cd.Node, sl))
		}
		last = cd.Node
	}
	return []batch.Row{row}, nil
}
