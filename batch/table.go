// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"sync"
)

// A Row is a result row,
// indexed by column name.
type Row map[string]string

// Table is a collection of result rows
// with a fixed header.
// It is safe to append rows concurrently.
type Table struct {
	header []string

	mu   sync.Mutex
	rows []Row
}

// NewTable returns a new empty table.
func NewTable(header []string) *Table {
	return &Table{
		header: slices.Clone(header),
	}
}

// Header returns the column names of the table.
func (t *Table) Header() []string {
	return slices.Clone(t.header)
}

// Append adds rows to the table.
func (t *Table) Append(rows ...Row) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, rows...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

// Write writes the table
// using the given field separator.
// Columns absent in a row
// are written as empty cells.
func (t *Table) Write(w io.Writer, comma rune) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	tab := csv.NewWriter(w)
	tab.Comma = comma

	if err := tab.Write(t.header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}
	for _, r := range t.rows {
		row := make([]string, len(t.header))
		for i, h := range t.header {
			row[i] = r[h]
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
