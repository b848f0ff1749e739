// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(groupFilesGuide)
	app.Add(projectsGuide)
	app.Add(speciesCodesGuide)
	app.Add(treeFilesGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
Cladenorm requires several files to read and process gene trees. To reduce the
burden of keeping track of many files, a single project file is used to hold
the reference of all files required in the analysis. This guide explains the
structure of the file, but most of the time, the best and most secure way to
edit or view this file is by using cladenorm commands.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# cladenorm project files
	dataset	path
	genetrees	phylome-0004.nwk
	groups	groups.tab
	sptree	species.nwk

The valid file types are:

- Gene trees. Defined by the dataset keyword "genetrees". This file contains
  one gene tree per line (see 'cladenorm help tree-files'). The recommended
  way to add a gene tree file is by using the command 'cladenorm add'.
- Species tree. Defined by the dataset keyword "sptree". This file contains a
  single tree in newick format, with the species codes as terminal labels.
  It is used to rank the species by their age with respect to a seed species,
  and to define the expected topology of the clades. The recommended way to
  add a species tree is by using the command 'cladenorm add'.
- Groups. Defined by the dataset keyword "groups". This file contains the
  species of each group (see 'cladenorm help group-files'). The recommended
  way to add a group file is by using the command 'cladenorm add'.
	`,
}

var treeFilesGuide = &command.Command{
	Usage: "tree-files",
	Short: "about gene tree files",
	Long: `
A gene tree file contains one gene tree per line. Each line is a
tab-delimited record with the following fields:

	- seed     the label of the seed terminal
	- model    the evolutionary model used to infer the tree
	- loglike  the log-likelihood of the tree
	- newick   the tree in newick format

Here is an example record:

	Phy0001ABC_HUMAN	JTT	-1234.56	((Phy0001ABC_HUMAN:0.1,Phy0002DEF_PANTR:0.1):0.2,Phy0003GHI_MOUSE:0.3);

A line without tabs is read as a tree in newick format, and its name is
"tree.<line>", in which <line> is the line number of the tree in the file.
Empty lines and lines starting with '#' are ignored.

In the newick string, the internal node labels are read as support values.
Labels can be quoted with single quotes.

A record with a wrong number of fields, or a tree that can not be parsed is
reported as malformed, and it is skipped during the analysis.
	`,
}

var groupFilesGuide = &command.Command{
	Usage: "group-files",
	Short: "about group files",
	Long: `
A group file is a table in which each column is a group of species. The first
row contains the name of each group, and the other rows contain the species
codes of each group. Columns can have different lengths.

By default the file is tab-delimited, but if the file extension is ".csv", it
is read as a comma-delimited file. Lines starting with '#' are ignored.

Here is an example file:

	# primate groups
	Hominidae	Catarrhini	Primates
	HUMAN	HUMAN	HUMAN
	PANTR	PANTR	PANTR
	GORGO	GORGO	GORGO
		MACMU	MACMU
			CALJA

When groups are analyzed in sequence, they are sorted by the number of
species, from the smallest to the largest.
	`,
}

var speciesCodesGuide = &command.Command{
	Usage: "species-codes",
	Short: "about species codes in terminal labels",
	Long: `
In cladenorm, the species of a terminal in a gene tree is extracted from the
terminal label. There are three ways to extract the species code from a
label:

- By field. The label is split using a delimiter, and the species code is
  one of the fields. The delimiter is defined with the flag --delim (by
  default "_"), and the field (counted from 0) is defined by the flag --field
  (by default 1). For example, in the label "Phy0001ABC_HUMAN", the species
  code is "HUMAN".
- By identity. If the flag --field is set to a negative value, the whole
  label is used as the species code.
- By known species. If the flag --known is set, the species codes are the
  terminals of the species tree of the project. The label is split using the
  delimiter, and the longest run of fields that is a known species code is
  used as the species code. In case of ties, the leftmost code is used.

If a species code can not be extracted from a terminal label, the tree is
reported as malformed.
	`,
}
