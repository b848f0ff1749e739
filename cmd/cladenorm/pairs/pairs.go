// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package pairs implements a command to calculate
// the normalized distances between terminals
// of gene trees.
package pairs

import (
	"github.com/js-arias/cladenorm/cmd/cladenorm/internal/runcfg"
	"github.com/js-arias/cladenorm/pipeline"
	"github.com/js-arias/cladenorm/project"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: `pairs [--norm <group>] [--seed <species>] [--notopo]
	[--delim <char>] [--field <index>] [--known]
	[--min-species <number>] [--max-ratio <value>]
	[--cpu <number>] [--redo] [--tsv] [-v|--verbose]
	[-o|--output <file>] <project-file>`,
	Short: "calculate distances between terminals",
	Long: `
Command pairs reads the gene trees of a project and calculates the distance
between each pair of terminals of each tree, as well as the distance
normalized by the median root-to-tip distance of the clade of a reference
group.

The argument of the command is the name of the project file.

The flag --norm defines the group used to normalize the distances. The group
must be defined in the groups file of the project (see 'cladenorm help
group-files'). The normalizing clade is the largest clade of the tree that
includes only species of the group, includes the seed terminal of the tree,
is not the whole tree, and its root is a speciation. If the normalizing clade
is not found, or the flag --norm is not defined, the normalized distances are
left empty.

If the flag --seed is defined with the species code of a species in the
species tree of the project, the gene trees will be rooted using the oldest
species in the tree (as measured from the seed species), and the first split
of the normalizing clade must agree with the first split of the group in the
species tree. Use the flag --notopo to ignore the topology of the species
tree. If --seed is not defined, the trees will be rooted at their midpoint.

Only trees with more than 10 species and with less than 3 terminals per
species are analyzed. Use the flags --min-species and --max-ratio to change
these values (a zero value disables the condition).

See 'cladenorm stats' for the flags of species codes and output files. By
default, the output file is named with the project name and the suffix
'-pairs.csv'.

The output is a table with a row per each pair of terminals with the
following columns:

	tree         the identifier of the tree
	from         first terminal
	from_sp      species of the first terminal
	to           second terminal
	to_sp        species of the second terminal
	mrca_type    event of the most recent common ancestor (S or D)
	sp_count     speciation nodes in the path between terminals
	dup_count    duplication nodes in the path between terminals
	dist         distance between terminals
	ndist        normalized distance
	norm_median  median root-to-tip distance of the normalizing clade
	`,
	SetFlags: setFlags,
	Run:      run,
}

var flags runcfg.Flags

func setFlags(c *command.Command) {
	flags.Set(c.Flags(), true)
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	cfg, err := flags.Config(p)
	if err != nil {
		return err
	}

	return flags.Run(c.Stdout(), c.Stderr(), p, "pairs", pipeline.PairsHeader(), cfg.Pairs)
}
