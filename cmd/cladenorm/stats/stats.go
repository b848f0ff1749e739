// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package stats implements a command to calculate
// the branch length statistics of gene trees.
package stats

import (
	"github.com/js-arias/cladenorm/cmd/cladenorm/internal/runcfg"
	"github.com/js-arias/cladenorm/pipeline"
	"github.com/js-arias/cladenorm/project"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: `stats [--seed <species>] [--delim <char>] [--field <index>]
	[--known] [--cpu <number>] [--redo] [--tsv] [-v|--verbose]
	[-o|--output <file>] <project-file>`,
	Short: "calculate branch length statistics of gene trees",
	Long: `
Command stats reads the gene trees of a project and calculates the statistics
of the branch lengths of each tree.

The argument of the command is the name of the project file.

If the flag --seed is defined with the species code of a species in the
species tree of the project, the gene trees will be rooted using the oldest
species in the tree (as measured from the seed species). Otherwise, unrooted
trees will be rooted at their midpoint.

The species code of each terminal is read from its label. By default the
label is split by the underscore character and the second field is used as
the species code (for example, 'Phy0001ABC_HUMAN'). Use the flag --delim to
define a different delimiter and the flag --field to define a different field
(starting at 0). If --field is negative, the whole label is used as the
species code. If the flag --known is defined, the species codes will be the
terminals of the species tree found in the label. See 'cladenorm help
species-codes' for details.

The output is a table with a row per tree with the following columns:

	seed           the identifier of the tree
	leafno         number of terminals
	spno           number of species
	median_r2t     root-to-tip distances statistics
	mean_r2t
	var_r2t
	kurt_r2t
	skew_r2t
	*_brlens       statistics of all branches
	*_int_brlens   statistics of internal branches
	*_tip_brlens   statistics of terminal branches
	mean_bs        mean support of internal nodes
	width          maximum root-to-tip distance
	tree_length    sum of branch lengths
	tlen_leafno_ratio
	S              number of speciation nodes
	D              number of duplication nodes
	duprate        S/(S+D)
	treeness       internal branch length over tree length
	single_copy    true if there are no duplications

Statistics that are not defined for a tree are left empty.

By default, the output file is named with the project name and the suffix
'-stats.csv'. Use the flag --output, or -o, to define a different file name.
If the flag --tsv is defined, the output will be a tab-delimited file.

If the output file already exists, the analysis is skipped. Use the flag
--redo to force the analysis.

By default, all available CPUs will be used in the calculations. Set the flag
--cpu to use a different number of CPUs. Errors in individual trees are
reported to the standard error; use the flag --verbose, or -v, to report the
progress of each tree.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var flags runcfg.Flags

func setFlags(c *command.Command) {
	flags.Set(c.Flags(), false)
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

	return flags.Run(c.Stdout(), c.Stderr(), p, "stats", pipeline.StatsHeader(), cfg.Stats)
}
