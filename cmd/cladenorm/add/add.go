// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package add implements a command to add data files
// to a cladenorm project.
package add

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/js-arias/cladenorm/project"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: `add [--trees <tree-file>] [--sptree <newick-file>]
	[--groups <group-file>] <project-file>`,
	Short: "add data files to a project",
	Long: `
Command add reads one or more data files and adds them to a cladenorm
project. Each file is read before it is added to the project, so only valid
files are added.

The argument of the command is the name of the project file. If no project
file exists, a new project will be created.

The flag --trees defines the file with the gene trees (see 'cladenorm help
tree-files'). The flag --sptree defines the file with the species tree in
newick format. The flag --groups defines the file with the species of each
group (see 'cladenorm help group-files'). If a file was already defined in
the project, it will be replaced.

After the files are added, the content of the project is printed in the
standard output.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeFile string
var spFile string
var groupFile string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&treeFile, "trees", "", "")
	c.Flags().StringVar(&spFile, "sptree", "", "")
	c.Flags().StringVar(&groupFile, "groups", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if treeFile == "" && spFile == "" && groupFile == "" {
		return c.UsageError("expecting at least one data file")
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}

	files := []struct {
		set  project.Dataset
		name string
	}{
		{project.GeneTrees, treeFile},
		{project.SpTree, spFile},
		{project.Groups, groupFile},
	}
	for _, f := range files {
		if f.name == "" {
			continue
		}
		prev := p.Add(f.set, f.name)
		if err := check(p, f.set); err != nil {
			p.Add(f.set, prev)
			return err
		}
	}

	if err := p.Write(); err != nil {
		return err
	}
	report(c.Stdout(), p)
	return nil
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p := project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open project %q: %v", name, err)
	}
	return p, nil
}

func check(p *project.Project, set project.Dataset) error {
	var err error
	switch set {
	case project.GeneTrees:
		_, err = p.GeneTrees()
	case project.SpTree:
		_, err = p.SpeciesTree()
	case project.Groups:
		_, err = p.Groups()
	}
	return err
}

func report(w io.Writer, p *project.Project) {
	for _, s := range p.Sets() {
		fmt.Fprintf(w, "%s\t%s\n", s, p.Path(s))
	}
}
