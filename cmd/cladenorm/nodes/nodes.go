// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package nodes implements a command to calculate
// the distance from the seed of a gene tree
// to the clade of each group.
package nodes

import (
	"github.com/js-arias/cladenorm/cmd/cladenorm/internal/runcfg"
	"github.com/js-arias/cladenorm/project"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: `nodes --seed <species> [--norm <group>] [--notopo]
	[--delim <char>] [--field <index>] [--known]
	[--min-species <number>] [--max-ratio <value>]
	[--cpu <number>] [--redo] [--tsv] [-v|--verbose]
	[-o|--output <file>] <project-file>`,
	Short: "calculate distances from the seed to group clades",
	Long: `
Command nodes reads the gene trees of a project and calculates the distance
from the seed terminal of each tree to the root of the clade of each group
defined in the project.

The argument of the command is the name of the project file. The project
must define a species tree and a groups file.

The flag --seed is required, and it is the species code of the seed species
in the species tree. It is used to root the gene trees, and to find the first
split of each group in the species tree. The clade of a group in a gene tree
must include the seed terminal, and its first split must agree with the first
split of the group in the species tree (use the flag --notopo to ignore this
condition).

Groups are visited from the smallest to the largest, and if the clade of a
group is the same clade of the previous group, the distance is left empty.

The flag --norm defines the group used to normalize the distances by the
median root-to-tip distance of its clade. If the normalizing clade is not
found, the normalized distances are left empty.

See 'cladenorm pairs' for the tree filter flags, and 'cladenorm stats' for
the flags of species codes and output files. By default, the output file is
named with the project name and the suffix '-nodes.csv'.

The output is a table with a row per tree with the following columns:

	seed         the identifier of the tree
	species      the species of the seed
	tree_*       statistics of the whole tree (see 'cladenorm stats')
	norm_*       statistics of the normalizing clade
	wdth_ratio   width of the normalizing clade over the tree width
	root_dist    distance from the seed to the root
	root_ndist   normalized distance from the seed to the root
	<group>_dist   distance from the seed to the clade of the group
	<group>_ndist  normalized distance to the clade of the group
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
	if flags.Seed == "" {
		return c.UsageError("flag --seed must be defined")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	if p.Path(project.SpTree) == "" {
		return c.UsageError("species tree not defined in project " + args[0])
	}
	if p.Path(project.Groups) == "" {
		return c.UsageError("groups not defined in project " + args[0])
	}
	cfg, err := flags.Config(p)
	if err != nil {
		return err
	}

	return flags.Run(c.Stdout(), c.Stderr(), p, "nodes", cfg.NodesHeader(), cfg.Nodes)
}
