// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package pipeline

import (
	"context"

	"github.com/js-arias/cladenorm/batch"
	"github.com/js-arias/cladenorm/brstat"
	"github.com/js-arias/cladenorm/rooting"
)

// StatsHeader returns the header
// of a tree statistics table.
func StatsHeader() []string {
	return append([]string{"seed"}, brstat.Names()...)
}

// Stats returns the statistics of a gene tree
// as a single row.
func (c *Config) Stats(ctx context.Context, rec batch.Record) ([]batch.Row, error) {
	t, err := rec.Tree(c.Namer)
	if err != nil {
		return nil, err
	}
	// without ages,
	// only unrooted trees are rooted
	if c.Ages != nil && t.NumLeaves() > 1 {
		if _, err := rooting.Root(t, c.Ages); err != nil {
			return nil, err
		}
	}

	st, err := brstat.Compute(t)
	if err != nil {
		return nil, err
	}
	row := batch.Row{"seed": rec.Seed}
	addStats(row, "", st)
	return []batch.Row{row}, nil
}
