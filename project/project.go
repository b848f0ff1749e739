// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package project implements the cladenorm project file.
//
// A project file is a small tab-delimited table
// that maps each input of an analysis
// (the gene trees, the species tree and the group table)
// to the path of the file that contains it,
// so the analysis commands only require the project
// as argument.
package project

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"
)

// Dataset identifies an input file of a project.
type Dataset string

// Project inputs.
const (
	// Gene trees,
	// one record per line.
	GeneTrees Dataset = "genetrees"

	// Species tree in newick format,
	// used to rank the species
	// and to define the topology of the groups.
	SpTree Dataset = "sptree"

	// Group table,
	// with the species codes of each group.
	Groups Dataset = "groups"
)

// Valid returns true if d is a known input.
func (d Dataset) Valid() bool {
	switch d {
	case GeneTrees, SpTree, Groups:
		return true
	}
	return false
}

// A Project is the set of input files
// of a gene tree analysis.
type Project struct {
	name  string
	paths map[Dataset]string
}

// New returns a project without inputs.
func New() *Project {
	return &Project{paths: make(map[Dataset]string)}
}

var header = []string{"dataset", "path"}

// Read reads a project file.
//
// The file is a tab-delimited table
// with the columns dataset and path
// (in any order).
// Lines starting with '#' are ignored.
// Each dataset can be defined only once.
//
// Here is an example file:
//
//	# cladenorm project files
//	dataset	path
//	genetrees	phylome-0004.nwk
//	groups	groups.tab
//	sptree	species.nwk
func Read(name string) (*Project, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.Comment = '#'

	head, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("project %q: header: %v", name, err)
	}
	col := make(map[string]int, len(head))
	for i, h := range head {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, h := range header {
		if _, ok := col[h]; !ok {
			return nil, fmt.Errorf("project %q: header: column %q not found", name, h)
		}
	}

	p := New()
	p.name = name
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := r.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("project %q: line %d: %v", name, ln, err)
		}

		set := Dataset(strings.ToLower(strings.TrimSpace(row[col["dataset"]])))
		if !set.Valid() {
			return nil, fmt.Errorf("project %q: line %d: unknown dataset %q", name, ln, set)
		}
		if _, dup := p.paths[set]; dup {
			return nil, fmt.Errorf("project %q: line %d: dataset %q already defined", name, ln, set)
		}
		p.paths[set] = strings.TrimSpace(row[col["path"]])
	}
	return p, nil
}

// Add sets the path of an input
// and returns the previous path.
// An empty path removes the input.
func (p *Project) Add(set Dataset, path string) string {
	prev := p.paths[set]
	if path == "" {
		delete(p.paths, set)
	} else {
		p.paths[set] = path
	}
	return prev
}

// Path returns the path of an input,
// or an empty string if it is not defined.
func (p *Project) Path(set Dataset) string {
	return p.paths[set]
}

// Sets returns the defined inputs,
// sorted by name.
func (p *Project) Sets() []Dataset {
	return slices.Sorted(maps.Keys(p.paths))
}

// Name returns the name of the project file.
func (p *Project) Name() string {
	return p.name
}

// SetName sets the name of the project file.
func (p *Project) SetName(name string) {
	p.name = name
}

// Write writes the project file.
func (p *Project) Write() (err error) {
	f, err := os.Create(p.name)
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# cladenorm project files\n")
	fmt.Fprintf(bw, "# saved on: %s\n", time.Now().Format(time.RFC3339))
	w := csv.NewWriter(bw)
	w.Comma = '\t'
	w.UseCRLF = true

	if err := w.Write(header); err != nil {
		return fmt.Errorf("project %q: header: %v", p.name, err)
	}
	for _, s := range p.Sets() {
		if err := w.Write([]string{string(s), p.paths[s]}); err != nil {
			return fmt.Errorf("project %q: dataset %q: %v", p.name, s, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("project %q: %v", p.name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("project %q: %v", p.name, err)
	}
	return nil
}
