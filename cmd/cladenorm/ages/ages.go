// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package ages implements a command to print
// the relative age of the species
// with respect to a seed species.
package ages

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/js-arias/cladenorm/clade"
	"github.com/js-arias/cladenorm/project"
	"github.com/js-arias/cladenorm/rooting"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: "ages [--splits] --seed <species> <project-file>",
	Short: "print the relative age of the species",
	Long: `
Command ages reads the species tree of a project and prints the relative age
of each species with respect to a seed species.

The argument of the command is the name of the project file.

The flag --seed is required, and it is the species code of the seed species.

The age of a species is its rank when the species are sorted by their
distance to the seed species in the species tree. Species at the same
distance have the same rank. When rooting the gene trees, the species with
the largest rank found in the gene tree is used as the outgroup.

The output is a tab-delimited table with the following columns:

	species  the species code
	rank     the relative age of the species
	dist     the distance to the seed species

If the flag --splits is defined, the first split of the clade of each group
defined in the project is printed instead. The output is a tab-delimited table
with the columns:

	group    the name of the group
	side     the side of the split (1 or 2)
	species  a species code
	`,
	SetFlags: setFlags,
	Run:      run,
}

var seed string
var splits bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&seed, "seed", "", "")
	c.Flags().BoolVar(&splits, "splits", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if seed == "" {
		return c.UsageError("flag --seed must be defined")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	sp, err := p.SpeciesTree()
	if err != nil {
		return err
	}

	tab := csv.NewWriter(c.Stdout())
	tab.Comma = '\t'
	tab.UseCRLF = true

	if splits {
		gt, err := p.Groups()
		if err != nil {
			return err
		}
		refs, err := clade.References(sp, gt, seed)
		if err != nil {
			return err
		}
		if err := tab.Write([]string{"group", "side", "species"}); err != nil {
			return err
		}
		for _, g := range gt.BySize() {
			s := refs[g]
			for i, side := range []map[string]bool{s.A, s.B} {
				for _, x := range sp.Terms() {
					if !side[x] {
						continue
					}
					if err := tab.Write([]string{g, strconv.Itoa(i + 1), x}); err != nil {
						return err
					}
				}
			}
		}
		tab.Flush()
		return tab.Error()
	}

	ages, err := rooting.NewAges(sp, seed)
	if err != nil {
		return err
	}
	sl, err := sp.LeafByLabel(seed)
	if err != nil {
		return err
	}

	if err := tab.Write([]string{"species", "rank", "dist"}); err != nil {
		return err
	}
	for _, s := range ages.Species() {
		l, err := sp.LeafByLabel(s)
		if err != nil {
			return err
		}
		row := []string{
			s,
			strconv.Itoa(ages.Rank(s)),
			strconv.FormatFloat(sp.Distance(sl, l), 'f', 6, 64),
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("when writing data: %v", err)
		}
	}
	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
