// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package pipeline implements the analysis of a single gene tree
// for each kind of batch analysis.
package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/js-arias/cladenorm/batch"
	"github.com/js-arias/cladenorm/brstat"
	"github.com/js-arias/cladenorm/clade"
	"github.com/js-arias/cladenorm/genetree"
	"github.com/js-arias/cladenorm/groups"
	"github.com/js-arias/cladenorm/rooting"
	"github.com/js-arias/cladenorm/species"
	"go.uber.org/zap"
)

// Default values of the tree filter.
const (
	DefMinSpecies = 10
	DefMaxRatio   = 3
)

// Config is the configuration of an analysis.
// A Config is shared by all workers,
// so it must not be modified during a run.
type Config struct {
	// Namer sets the species of the terminals.
	// If nil,
	// the terminal label is used as species.
	Namer species.Namer

	// Ages is used to root the trees.
	// If nil,
	// trees are rooted at its midpoint.
	Ages *rooting.Ages

	// Groups is the group table
	// and Norm the name of the group
	// used to normalize the distances.
	Groups *groups.Table
	Norm   string

	// References are the first splits
	// of each group in the species tree.
	// If nil,
	// the topology of the clades is not checked.
	References map[string]clade.Split

	// A tree is analyzed only if it has more species
	// than MinSpecies,
	// and less terminals
	// than MaxRatio times the number of species.
	// If zero,
	// the condition is ignored.
	MinSpecies int
	MaxRatio   float64
}

// Check returns an error
// if a tree does not pass the tree filter.
func (c *Config) Check(t *genetree.Tree) error {
	sp := t.NumSpecies()
	if sp <= c.MinSpecies {
		return fmt.Errorf("tree %q: %d species, want more than %d: %w", t.Name(), sp, c.MinSpecies, rooting.ErrTooSmall)
	}
	if c.MaxRatio <= 0 {
		return nil
	}
	if n := t.NumLeaves(); float64(n) >= c.MaxRatio*float64(sp) {
		return fmt.Errorf("tree %q: %d terminals for %d species: %w", t.Name(), n, sp, rooting.ErrTooSmall)
	}
	return nil
}

// tree returns the rooted tree of a record.
func (c *Config) tree(rec batch.Record) (*genetree.Tree, error) {
	t, err := rec.Tree(c.Namer)
	if err != nil {
		return nil, err
	}
	if c.Ages == nil {
		if t.NumLeaves() < 2 {
			return nil, fmt.Errorf("tree %q: %w", t.Name(), rooting.ErrTooSmall)
		}
		if err := t.MidpointRoot(); err != nil {
			return nil, err
		}
		return t, nil
	}
	if _, err := rooting.Root(t, c.Ages); err != nil {
		return nil, err
	}
	return t, nil
}

// seed returns the terminal of the seed
// and true if the seed is in the tree.
func seed(t *genetree.Tree) (int, bool) {
	l, err := t.LeafByLabel(t.Name())
	if err != nil {
		return -1, false
	}
	return l, true
}

// norm resolves the normalizing clade of a tree
// and returns its statistics.
// If the clade is not resolved
// it is logged in the record logger,
// and the returned statistics are nil.
func (c *Config) norm(ctx context.Context, t *genetree.Tree) *brstat.Stats {
	if c.Norm == "" || c.Groups == nil {
		return nil
	}
	cd, err := c.resolve(t, c.Norm)
	if err == nil {
		var st *brstat.Stats
		st, err = brstat.Compute(cd.Subtree())
		if err == nil {
			return st
		}
	}
	batch.Logger(ctx).Warn("normalizing clade not resolved",
		zap.String("group", c.Norm),
		zap.Error(err),
	)
	return nil
}

// resolve annotates a tree with a group
// and returns its clade.
func (c *Config) resolve(t *genetree.Tree, group string) (clade.Candidate, error) {
	members := c.Groups.Members(group)
	if members == nil {
		return clade.Candidate{}, fmt.Errorf("tree %q: group %q: %w", t.Name(), group, clade.ErrNoClade)
	}
	clade.Annotate(t, group, members)

	var opts clade.Options
	if _, ok := seed(t); ok {
		opts.Require = t.Name()
	}
	if ref, ok := c.References[group]; ok {
		opts.Reference = &ref
	}
	return clade.Resolve(t, group, opts)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// addStats adds the fields of a statistics record
// to a row,
// using a prefix.
func addStats(row batch.Row, prefix string, st *brstat.Stats) {
	for _, n := range brstat.Names() {
		if v := st.Format(n); v != "" {
			row[prefix+n] = v
		}
	}
}
