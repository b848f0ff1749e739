// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package runcfg implements the flags
// and configuration
// shared by the batch analysis commands.
package runcfg

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/js-arias/cladenorm/batch"
	"github.com/js-arias/cladenorm/clade"
	"github.com/js-arias/cladenorm/genetree"
	"github.com/js-arias/cladenorm/pipeline"
	"github.com/js-arias/cladenorm/project"
	"github.com/js-arias/cladenorm/rooting"
	"github.com/js-arias/cladenorm/species"
	"go.uber.org/zap"
)

// Flags are the flags of a batch command.
type Flags struct {
	CPU     int
	Redo    bool
	Output  string
	TSV     bool
	Verbose bool

	// species codes
	Delim string
	Field int
	Known bool

	// rooting and clades
	Seed   string
	Norm   string
	NoTopo bool

	// tree filter
	MinSpecies int
	MaxRatio   float64
}

// Set sets the flags into a flag set.
// If filter is true,
// the tree filter flags are also set.
func (f *Flags) Set(fs *flag.FlagSet, filter bool) {
	fs.IntVar(&f.CPU, "cpu", runtime.GOMAXPROCS(0), "")
	fs.BoolVar(&f.Redo, "redo", false, "")
	fs.StringVar(&f.Output, "output", "", "")
	fs.StringVar(&f.Output, "o", "", "")
	fs.BoolVar(&f.TSV, "tsv", false, "")
	fs.BoolVar(&f.Verbose, "verbose", false, "")
	fs.BoolVar(&f.Verbose, "v", false, "")

	fs.StringVar(&f.Delim, "delim", species.DefaultDelim, "")
	fs.IntVar(&f.Field, "field", 1, "")
	fs.BoolVar(&f.Known, "known", false, "")

	fs.StringVar(&f.Seed, "seed", "", "")
	fs.StringVar(&f.Norm, "norm", "", "")
	fs.BoolVar(&f.NoTopo, "notopo", false, "")

	if filter {
		fs.IntVar(&f.MinSpecies, "min-species", pipeline.DefMinSpecies, "")
		fs.Float64Var(&f.MaxRatio, "max-ratio", pipeline.DefMaxRatio, "")
	}
}

// Config returns the analysis configuration
// from the project and the flags.
func (f *Flags) Config(p *project.Project) (*pipeline.Config, error) {
	cfg := &pipeline.Config{
		Norm:       f.Norm,
		MinSpecies: f.MinSpecies,
		MaxRatio:   f.MaxRatio,
	}

	var sp *genetree.Tree
	if p.Path(project.SpTree) != "" {
		t, err := p.SpeciesTree()
		if err != nil {
			return nil, err
		}
		sp = t
	}

	switch {
	case f.Known:
		if sp == nil {
			return nil, fmt.Errorf("flag --known: species tree not defined in project %q", p.Name())
		}
		cfg.Namer = species.NewKnown(f.Delim, sp.Terms()).Namer()
	case f.Field < 0:
		cfg.Namer = species.NewIdentity().Namer()
	default:
		cfg.Namer = species.NewField(f.Delim, f.Field).Namer()
	}

	if p.Path(project.Groups) != "" {
		tab, err := p.Groups()
		if err != nil {
			return nil, err
		}
		cfg.Groups = tab
	}
	if f.Norm != "" {
		if cfg.Groups == nil {
			return nil, fmt.Errorf("flag --norm: groups not defined in project %q", p.Name())
		}
		if cfg.Groups.Members(f.Norm) == nil {
			return nil, fmt.Errorf("flag --norm: group %q not defined", f.Norm)
		}
	}

	if f.Seed == "" || sp == nil {
		return cfg, nil
	}
	ages, err := rooting.NewAges(sp, f.Seed)
	if err != nil {
		return nil, err
	}
	cfg.Ages = ages

	if f.NoTopo || cfg.Groups == nil {
		return cfg, nil
	}
	refs, err := clade.References(sp, cfg.Groups, f.Seed)
	if err != nil {
		return nil, err
	}
	cfg.References = refs
	return cfg, nil
}

// OutputName returns the name of the output file.
// If the output flag is not defined,
// the name is built from the project name
// and a suffix.
func (f *Flags) OutputName(p *project.Project, suffix string) string {
	if f.Output != "" {
		return f.Output
	}
	ext := ".csv"
	if f.TSV {
		ext = ".tab"
	}
	base := strings.TrimSuffix(p.Name(), filepath.Ext(p.Name()))
	return base + "-" + suffix + ext
}

// Run runs a batch analysis
// on the gene trees of a project.
func (f *Flags) Run(stdout, stderr io.Writer, p *project.Project, suffix string, header []string, fn batch.Func) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := batch.NewLogger(stderr, f.Verbose)
	defer log.Sync()

	comma := ','
	if f.TSV {
		comma = '\t'
	}
	out := f.OutputName(p, suffix)
	job := batch.Job{
		Output:  out,
		Redo:    f.Redo,
		Comma:   comma,
		Header:  header,
		Records: p.GeneTrees,
		Func:    fn,
		Options: batch.Options{
			CPU:    f.CPU,
			Logger: log.With(zap.String("project", p.Name())),
		},
	}

	s, err := batch.Execute(ctx, job)
	if err != nil {
		return err
	}
	if s.Skipped {
		fmt.Fprintf(stdout, "output %q already done (use --redo to overwrite)\n", out)
		return nil
	}
	fmt.Fprintf(stdout, "trees: %d\tdone: %d\tfailed: %d\toutput: %s\n", s.Total, s.Done, s.Failed, out)
	return nil
}
