// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package species implements the extraction
// of species codes from the labels
// of the terminals of a gene tree.
//
// Labels are split by a delimiter
// (by default an underscore),
// and the species code is always a complete token
// (or a run of complete tokens),
// so a code is never matched
// as an arbitrary substring of a label.
package species

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultDelim is the default delimiter
// between the fields of a terminal label.
const DefaultDelim = "_"

// ErrNoCode is returned when a label
// does not contain a valid species code.
var ErrNoCode = errors.New("no species code")

// A Namer returns the species code of a terminal label.
type Namer func(label string) (string, error)

// Mode is the way in which a Parser
// extracts a species code.
type Mode int

// Valid parser modes.
const (
	// The label is the species code
	// (used for species trees).
	Identity Mode = iota

	// The species code is a field of the label.
	Field

	// The species code is the longest run of tokens
	// found in a set of known codes.
	Known
)

// A Parser extracts species codes from terminal labels.
type Parser struct {
	mode  Mode
	delim string
	field int
	known map[string]bool
}

// NewIdentity returns a parser in which
// each label is its own species code.
func NewIdentity() *Parser {
	return &Parser{mode: Identity}
}

// NewField returns a parser in which
// the species code is the field at index i
// (starting from 0)
// of a label split by delim.
// Labels without the delimiter
// are its own species code.
//
// The PhylomeDB convention
// ('Phy0001ABC_HUMAN')
// is NewField("_", 1).
func NewField(delim string, i int) *Parser {
	if delim == "" {
		delim = DefaultDelim
	}
	return &Parser{
		mode:  Field,
		delim: delim,
		field: i,
	}
}

// NewKnown returns a parser in which
// the species code is searched
// among the runs of consecutive tokens of a label
// split by delim.
// Only runs found in the set of known codes are valid,
// and the longest valid run is the species code.
// If two runs have the same length,
// the leftmost one is used.
func NewKnown(delim string, codes []string) *Parser {
	if delim == "" {
		delim = DefaultDelim
	}
	known := make(map[string]bool, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		known[c] = true
	}
	return &Parser{
		mode:  Known,
		delim: delim,
		known: known,
	}
}

// Mode returns the mode of the parser.
func (p *Parser) Mode() Mode {
	return p.mode
}

// Species returns the species code of a label.
func (p *Parser) Species(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", fmt.Errorf("empty label: %w", ErrNoCode)
	}

	switch p.mode {
	case Identity:
		return label, nil
	case Field:
		if !strings.Contains(label, p.delim) {
			return label, nil
		}
		tk := strings.Split(label, p.delim)
		if p.field < 0 || p.field >= len(tk) {
			return "", fmt.Errorf("label %q: field %d: %w", label, p.field, ErrNoCode)
		}
		code := tk[p.field]
		if code == "" {
			return "", fmt.Errorf("label %q: empty field %d: %w", label, p.field, ErrNoCode)
		}
		return code, nil
	case Known:
		return p.longest(label)
	}
	return "", fmt.Errorf("label %q: unknown parser mode %d", label, p.mode)
}

func (p *Parser) longest(label string) (string, error) {
	tk := strings.Split(label, p.delim)

	var code string
	for i := range tk {
		for j := len(tk); j > i; j-- {
			c := strings.Join(tk[i:j], p.delim)
			if len(c) <= len(code) {
				break
			}
			if p.known[c] {
				code = c
				break
			}
		}
	}
	if code == "" {
		return "", fmt.Errorf("label %q: %w", label, ErrNoCode)
	}
	return code, nil
}

// Namer returns the parser as a Namer function.
func (p *Parser) Namer() Namer {
	return p.Species
}
