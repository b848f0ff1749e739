// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"strconv"

	"github.com/js-arias/cladenorm/batch"
	"github.com/js-arias/cladenorm/dist"
)

var pairsHeader = []string{
	"tree",
	"from",
	"from_sp",
	"to",
	"to_sp",
	"mrca_type",
	"sp_count",
	"dup_count",
	"dist",
	"ndist",
	"norm_median",
}

// PairsHeader returns the header
// of a terminal pairs table.
func PairsHeader() []string {
	h := make([]string, len(pairsHeader))
	copy(h, pairsHeader)
	return h
}

// Pairs returns the distance between each pair of terminals
// of a gene tree.
//
// The distances are normalized
// by the median root-to-tip distance
// of the clade of the normalizing group.
// If the clade is not found,
// the normalized distances are not defined.
func (c *Config) Pairs(ctx context.Context, rec batch.Record) ([]batch.Row, error) {
	t, err := c.tree(rec)
	if err != nil {
		return nil, err
	}
	if err := c.Check(t); err != nil {
		return nil, err
	}
	t.ClassifyEvents()

	var ref float64
	hasRef := false
	if st := c.norm(ctx, t); st != nil {
		ref, hasRef = st.Value("median_r2t")
	}

	var rows []batch.Row
	for _, p := range dist.Pairs(t) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := batch.Row{
			"tree":      rec.Seed,
			"from":      t.Label(p.From),
			"from_sp":   t.Species(p.From),
			"to":        t.Label(p.To),
			"to_sp":     t.Species(p.To),
			"mrca_type": p.Event.String(),
			"sp_count":  strconv.Itoa(p.S),
			"dup_count": strconv.Itoa(p.D),
			"dist":      ftoa(p.Dist),
		}
		if hasRef {
			if nd, err := dist.Normalize(p.Dist, ref); err == nil {
				row["ndist"] = ftoa(nd)
				row["norm_median"] = ftoa(ref)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
