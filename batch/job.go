// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Done returns true if a file exists
// and it is not empty.
func Done(path string) bool {
	st, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !st.IsDir() && st.Size() > 0
}

// A Job is a batch run
// that writes its results into a file.
type Job struct {
	// Output is the name of the output file.
	// If empty,
	// the results are written to W.
	Output string
	W      io.Writer

	// If Redo is true
	// the job runs even if the output is already done.
	Redo bool

	// Comma is the field separator of the output.
	// If zero,
	// a comma is used.
	Comma rune

	Header []string

	// Records returns the records to analyze.
	// It is only called if the job is run.
	Records func() ([]Record, error)

	Func Func
	Options
}

// Execute runs a job.
//
// If the output file is already done
// and Redo is false,
// no record is analyzed.
// The output file is only written
// after all records are analyzed,
// so a failed job never leaves a partial output.
func Execute(ctx context.Context, j Job) (Summary, error) {
	if j.Output != "" && !j.Redo && Done(j.Output) {
		if j.Logger != nil {
			j.Logger.Sugar().Infof("output %q already done, skipping", j.Output)
		}
		return Summary{Skipped: true}, nil
	}

	recs, err := j.Records()
	if err != nil {
		return Summary{}, err
	}

	tab := NewTable(j.Header)
	s, err := Run(ctx, recs, tab, j.Options, j.Func)
	if err != nil {
		return s, err
	}

	comma := j.Comma
	if comma == 0 {
		comma = ','
	}
	if j.Output == "" {
		if err := tab.Write(j.W, comma); err != nil {
			return s, err
		}
		return s, nil
	}
	if err := writeFile(j.Output, tab, comma); err != nil {
		return s, err
	}
	return s, nil
}

// writeFile writes the table into a temporary file
// that is renamed to the output name
// once it is complete.
func writeFile(name string, tab *Table, comma rune) (err error) {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(name)+".*")
	if err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	if err := tab.Write(f, comma); err != nil {
		f.Close()
		return fmt.Errorf("on file %q: %v", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	if err := os.Rename(f.Name(), name); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}
