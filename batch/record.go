// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package batch implements the analysis
// of a collection of gene trees
// using a bounded number of concurrent workers.
package batch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/js-arias/cladenorm/genetree"
	"github.com/js-arias/cladenorm/species"
)

// A Record is a gene tree
// as read from a tree file.
type Record struct {
	// Seed is the identifier of the gene tree,
	// usually the label of the seed terminal.
	Seed string

	// Model is the substitution model
	// used to infer the tree
	// and LogLike the log likelihood of the tree.
	Model   string
	LogLike float64

	// Newick is the tree in newick format.
	Newick string

	// Line is the line of the record
	// in the tree file.
	Line int

	err error
}

// Err returns the error found when reading the record.
func (r Record) Err() error {
	return r.err
}

// Tree returns the gene tree of the record.
func (r Record) Tree(namer species.Namer) (*genetree.Tree, error) {
	if r.err != nil {
		return nil, r.err
	}
	return genetree.Parse(r.Seed, r.Newick, namer)
}

// ReadRecords reads the records of a tree file.
//
// In a tree file,
// each line is a tab-delimited record
// with the fields:
//
//	seed	model	log-likelihood	tree
//
// Blank lines and lines starting with '#'
// are ignored.
// A line without tabs is a bare tree in newick format,
// and the record is named as "tree.<line number>".
//
// Malformed records are returned with an error
// (see Record.Err)
// so they can be reported without stopping the analysis.
// Only errors reading the file are returned as errors.
func ReadRecords(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)

	var recs []Record
	for ln := 1; ; ln++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("on line %d: %v", ln, err)
		}
		if rec, ok := parseRecord(line, ln); ok {
			recs = append(recs, rec)
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	return recs, nil
}

func parseRecord(line string, ln int) (Record, bool) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
		return Record{}, false
	}

	if !strings.Contains(line, "\t") {
		return Record{
			Seed:   "tree." + strconv.Itoa(ln),
			Newick: strings.TrimSpace(line),
			Line:   ln,
		}, true
	}

	f := strings.Split(line, "\t")
	rec := Record{
		Seed: strings.TrimSpace(f[0]),
		Line: ln,
	}
	if len(f) != 4 {
		rec.err = &genetree.ParseError{
			Tree: rec.Seed,
			Msg:  fmt.Sprintf("line %d: got %d fields, want 4", ln, len(f)),
		}
		return rec, true
	}
	rec.Model = strings.TrimSpace(f[1])
	rec.Newick = strings.TrimSpace(f[3])

	ll, err := strconv.ParseFloat(strings.TrimSpace(f[2]), 64)
	if err != nil {
		rec.err = &genetree.ParseError{
			Tree: rec.Seed,
			Msg:  fmt.Sprintf("line %d: invalid log-likelihood %q", ln, f[2]),
			Err:  err,
		}
		return rec, true
	}
	rec.LogLike = ll
	if rec.Seed == "" {
		rec.err = &genetree.ParseError{
			Msg: fmt.Sprintf("line %d: empty seed", ln),
		}
	}
	return rec, true
}
