// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/cladenorm/batch"
	"github.com/js-arias/cladenorm/genetree"
	"github.com/js-arias/cladenorm/groups"
)

// GeneTrees reads the gene tree records
// as defined in a project.
func (p *Project) GeneTrees() ([]batch.Record, error) {
	name := p.Path(GeneTrees)
	if name == "" {
		return nil, fmt.Errorf("gene trees not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	recs, err := batch.ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("on file %q: no trees found", name)
	}
	return recs, nil
}

// SpeciesTree reads the species tree
// as defined in a project.
// The terminal labels of the species tree
// are the species codes.
func (p *Project) SpeciesTree() (*genetree.Tree, error) {
	name := p.Path(SpTree)
	if name == "" {
		return nil, fmt.Errorf("species tree not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := genetree.ReadNewick(f, "species", nil)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return t, nil
}

// Groups reads the group table
// as defined in a project.
// Files with the ".csv" extension
// are read as comma-delimited files.
func (p *Project) Groups() (*groups.Table, error) {
	name := p.Path(Groups)
	if name == "" {
		return nil, fmt.Errorf("groups not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	read := groups.ReadTSV
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		read = groups.ReadCSV
	}
	tab, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return tab, nil
}
