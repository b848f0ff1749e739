// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package runcfg_test

import (
	"flag"
	"testing"

	"github.com/js-arias/cladenorm/cmd/cladenorm/internal/runcfg"
	"github.com/js-arias/cladenorm/pipeline"
	"github.com/js-arias/cladenorm/project"
)

func TestSet(t *testing.T) {
	var f runcfg.Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.Set(fs, true)
	if err := fs.Parse([]string{"-o", "out.csv", "--seed", "HUMAN", "--field", "-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Output != "out.csv" {
		t.Errorf("output: got %q, want %q", f.Output, "out.csv")
	}
	if f.Seed != "HUMAN" {
		t.Errorf("seed: got %q, want %q", f.Seed, "HUMAN")
	}
	if f.MinSpecies != pipeline.DefMinSpecies {
		t.Errorf("min species: got %d, want %d", f.MinSpecies, pipeline.DefMinSpecies)
	}
	if f.MaxRatio != pipeline.DefMaxRatio {
		t.Errorf("max ratio: got %g, want %g", f.MaxRatio, float64(pipeline.DefMaxRatio))
	}

	// without filter flags
	var nf runcfg.Flags
	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	nf.Set(fs, false)
	if fs.Lookup("min-species") != nil {
		t.Errorf("flag %q should not be defined", "min-species")
	}
	if nf.MinSpecies != 0 || nf.MaxRatio != 0 {
		t.Errorf("filter: got %d, %g, want 0, 0", nf.MinSpecies, nf.MaxRatio)
	}
}

func TestOutputName(t *testing.T) {
	p := project.New()
	p.SetName("data/phylome.tab")

	tests := map[string]struct {
		f    runcfg.Flags
		want string
	}{
		"default": {want: "data/phylome-nodes.csv"},
		"tsv":     {f: runcfg.Flags{TSV: true}, want: "data/phylome-nodes.tab"},
		"output":  {f: runcfg.Flags{Output: "out.csv"}, want: "out.csv"},
	}
	for name, test := range tests {
		if got := test.f.OutputName(p, "nodes"); got != test.want {
			t.Errorf("%s: got %q, want %q", name, got, test.want)
		}
	}
}

func TestConfig(t *testing.T) {
	p := project.New()
	p.SetName("empty.tab")

	f := runcfg.Flags{Delim: "_", Field: -1}
	cfg, err := f.Config(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sp, err := cfg.Namer("p1_HUMAN")
	if err != nil {
		t.Fatalf("namer: unexpected error: %v", err)
	}
	if sp != "p1_HUMAN" {
		t.Errorf("identity namer: got %q, want %q", sp, "p1_HUMAN")
	}
	if cfg.Ages != nil {
		t.Errorf("ages should be undefined without species tree")
	}

	f = runcfg.Flags{Delim: "_", Known: true}
	if _, err := f.Config(p); err == nil {
		t.Errorf("known codes without species tree: expecting error")
	}

	f = runcfg.Flags{Delim: "_", Field: 1, Norm: "Primates"}
	if _, err := f.Config(p); err == nil {
		t.Errorf("norm group without groups: expecting error")
	}
}
