// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package genetree

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/evolbioinfo/gotree/io/newick"
	"github.com/evolbioinfo/gotree/tree"
	"github.com/js-arias/cladenorm/species"
)

// ErrParse is the error matched by all parsing errors.
var ErrParse = errors.New("parse error")

// A ParseError is an error found
// when reading a newick tree.
type ParseError struct {
	Tree string // name of the tree
	Msg  string
	Err  error // underlying error, if any
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Tree == "" {
		return "newick: " + msg
	}
	return fmt.Sprintf("newick: tree %q: %s", e.Tree, msg)
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReadNewick reads a single tree in newick format
// from a reader.
func ReadNewick(r io.Reader, name string, namer species.Namer) (*Tree, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(name, string(b), namer)
}

// Parse parses a tree in newick
// (parenthetical)
// format.
//
// Terminal labels are parsed with the namer
// to set the species code of each terminal.
// If namer is nil,
// the label is used as the species code.
//
// Labels of internal nodes
// that can be read as a number
// are interpreted as support values.
// Nodes without a branch length have a length of 0,
// and nodes without support have a support of 1.
// Comments (text between square brackets)
// and quoted labels
// are accepted.
func Parse(name, src string, namer species.Namer) (*Tree, error) {
	if namer == nil {
		namer = species.NewIdentity().Namer()
	}

	src = strings.TrimSpace(src)
	if src == "" || src == ";" {
		return nil, &ParseError{Tree: name, Msg: "empty tree"}
	}
	if !strings.HasSuffix(src, ";") {
		src += ";"
	}

	t := newTree(name)
	if !strings.HasPrefix(src, "(") {
		// a tree with a single terminal
		label, _, _ := strings.Cut(strings.TrimSuffix(src, ";"), ":")
		n := t.addNode(-1)
		n.label = unquote(strings.TrimSpace(label))
		t.root = n.id
	} else {
		gt, err := newick.NewParser(strings.NewReader(src)).Parse()
		if err != nil {
			return nil, &ParseError{Tree: name, Msg: "invalid tree", Err: err}
		}
		if err := t.copyNode(gt.Root(), nil, nil, -1); err != nil {
			return nil, err
		}
	}

	for _, l := range t.Leaves(t.root) {
		n := t.nodes[l]
		if n.label == "" {
			return nil, &ParseError{Tree: name, Msg: fmt.Sprintf("terminal %d without label", l)}
		}
		sp, err := namer(n.label)
		if err != nil {
			return nil, &ParseError{Tree: name, Msg: fmt.Sprintf("terminal %q", n.label), Err: err}
		}
		n.species = sp
	}
	return t, nil
}

// copyNode adds a node of a parsed tree,
// and its descendants,
// to the tree.
// Prev is the parent of the node in the parsed tree,
// and e the branch that connects them.
func (t *Tree) copyNode(src, prev *tree.Node, e *tree.Edge, parent int) error {
	n := t.addNode(parent)
	if parent < 0 {
		t.root = n.id
	}
	if e != nil {
		if l := e.Length(); l != tree.NIL_LENGTH {
			if l < 0 {
				return &ParseError{Tree: t.name, Msg: fmt.Sprintf("negative branch length %v", l)}
			}
			n.length = l
		}
		if s := e.Support(); s != tree.NIL_SUPPORT {
			n.support = s
		}
	}

	edges := src.Edges()
	for i, c := range src.Neigh() {
		if c == prev {
			continue
		}
		if err := t.copyNode(c, src, edges[i], n.id); err != nil {
			return err
		}
	}

	label := unquote(src.Name())
	if len(n.children) > 0 && label != "" {
		if v, err := strconv.ParseFloat(label, 64); err == nil {
			n.support = v
			label = ""
		}
	}
	n.label = label
	return nil
}

func unquote(label string) string {
	if len(label) > 1 && label[0] == '\'' && label[len(label)-1] == '\'' {
		return strings.ReplaceAll(label[1:len(label)-1], "''", "'")
	}
	return label
}

// Newick returns the tree in newick format.
func (t *Tree) Newick() string {
	var b strings.Builder
	t.newick(&b, t.root)
	b.WriteString(";")
	return b.String()
}

func (t *Tree) newick(b *strings.Builder, id int) {
	n := t.nodes[id]
	if len(n.children) > 0 {
		b.WriteString("(")
		for i, c := range n.children {
			if i > 0 {
				b.WriteString(",")
			}
			t.newick(b, c)
		}
		b.WriteString(")")
		if n.label != "" {
			b.WriteString(quote(n.label))
		} else if id != t.root {
			b.WriteString(strconv.FormatFloat(n.support, 'g', -1, 64))
		}
	} else {
		b.WriteString(quote(n.label))
	}
	if id != t.root {
		b.WriteString(":")
		b.WriteString(strconv.FormatFloat(n.length, 'g', -1, 64))
	}
}

func quote(label string) string {
	if !strings.ContainsAny(label, "(),:;[]' \t") {
		return label
	}
	return "'" + strings.ReplaceAll(label, "'", "''") + "'"
}
