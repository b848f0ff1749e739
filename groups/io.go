// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package groups

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmpty is returned when a group table
// does not define any member species.
var ErrEmpty = errors.New("empty group table")

// ReadTSV reads a group table from a TSV file.
//
// Each column of the file is a group,
// and the header is the name of the group.
// Each row has a member species of the group,
// short columns are padded with empty cells,
// which are ignored.
//
// Here is an example file:
//
//	Hominidae	Primates	Mammalia
//	HUMAN	HUMAN	HUMAN
//	PANTR	PANTR	PANTR
//		MACMU	MACMU
//			MOUSE
//			BOVIN
func ReadTSV(r io.Reader) (*Table, error) {
	return read(r, '\t')
}

// ReadCSV reads a group table from a CSV file.
// The format is the same of ReadTSV
// but using commas as field separators.
func ReadCSV(r io.Reader) (*Table, error) {
	return read(r, ',')
}

func read(r io.Reader, comma rune) (*Table, error) {
	tab := csv.NewReader(r)
	tab.Comma = comma
	tab.Comment = '#'
	tab.FieldsPerRecord = -1

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	for i, h := range head {
		head[i] = strings.TrimSpace(h)
		if head[i] == "" {
			return nil, fmt.Errorf("header: column %d without name", i+1)
		}
	}

	t := New()
	for _, h := range head {
		t.Add(h, "")
	}
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}
		if len(row) > len(head) {
			return nil, fmt.Errorf("on row %d: got %d fields, want %d", ln, len(row), len(head))
		}

		for i, sp := range row {
			t.Add(head[i], sp)
		}
	}

	var n int
	for _, g := range t.group {
		n += len(g)
	}
	if n == 0 {
		return nil, ErrEmpty
	}
	return t, nil
}

// TSV writes a group table as a TSV file.
func (t *Table) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	if err := tab.Write(t.names); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	cols := make([][]string, len(t.names))
	var rows int
	for i, g := range t.names {
		cols[i] = t.group[g].Species()
		rows = max(rows, len(cols[i]))
	}
	for r := 0; r < rows; r++ {
		row := make([]string, len(cols))
		for i, c := range cols {
			if r < len(c) {
				row[i] = c[r]
			}
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("when writing data: %v", err)
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
