// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prj implements a command to print
// the basic information of a project.
package prj

import (
	"fmt"
	"io"

	"github.com/js-arias/cladenorm/project"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: "prj <project-file>",
	Short: "print information about a project",
	Long: `
Command prj reads a cladenorm project and prints the information of the
different project elements into the standard output.

The argument of the command is the name of the project file.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	if p.Path(project.GeneTrees) != "" {
		if err := geneTrees(c.Stdout(), p); err != nil {
			return err
		}
	}
	if p.Path(project.SpTree) != "" {
		if err := spTree(c.Stdout(), p); err != nil {
			return err
		}
	}
	if p.Path(project.Groups) != "" {
		if err := groupTable(c.Stdout(), p); err != nil {
			return err
		}
	}
	return nil
}

func geneTrees(w io.Writer, p *project.Project) error {
	recs, err := p.GeneTrees()
	if err != nil {
		return err
	}
	var bad int
	for _, r := range recs {
		if r.Err() != nil {
			bad++
		}
	}

	fmt.Fprintf(w, "Gene trees:\n")
	fmt.Fprintf(w, "\tfile: %s\n", p.Path(project.GeneTrees))
	fmt.Fprintf(w, "\ttrees: %d\n", len(recs))
	if bad > 0 {
		fmt.Fprintf(w, "\tmalformed records: %d\n", bad)
	}
	fmt.Fprintf(w, "\n")
	return nil
}

func spTree(w io.Writer, p *project.Project) error {
	t, err := p.SpeciesTree()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Species tree:\n")
	fmt.Fprintf(w, "\tfile: %s\n", p.Path(project.SpTree))
	fmt.Fprintf(w, "\tspecies: %d\n", t.NumSpecies())
	_, _, d := t.Diameter()
	fmt.Fprintf(w, "\tdiameter: %.6f\n", d)
	fmt.Fprintf(w, "\n")
	return nil
}

func groupTable(w io.Writer, p *project.Project) error {
	tab, err := p.Groups()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Groups:\n")
	fmt.Fprintf(w, "\tfile: %s\n", p.Path(project.Groups))
	for _, g := range tab.BySize() {
		fmt.Fprintf(w, "\t%s: %d species\n", g, len(tab.Members(g)))
	}
	fmt.Fprintf(w, "\n")
	return nil
}
