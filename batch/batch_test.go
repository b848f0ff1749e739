// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package batch_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/js-arias/cladenorm/batch"
	"github.com/js-arias/cladenorm/genetree"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const treeFile = `# seed	model	loglike	tree
Phy001_HUMAN	LG	-1234.5	((Phy001_HUMAN:1,Phy002_MOUSE:1):1,Phy003_YEAST:2);

Phy004_HUMAN	JTT	-99	((Phy004_HUMAN:1,Phy005_PANTR:1):1,Phy006_MOUSE:2);
Phy007_HUMAN	LG
((HUMAN:1,MOUSE:1):1,YEAST:2);
Phy008_HUMAN	LG	bad	(a:1,b:1);`

func TestReadRecords(t *testing.T) {
	recs, err := batch.ReadRecords(strings.NewReader(treeFile))
	if err != nil {
		t.Fatalf("unable to read records: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("records: got %d, want %d", len(recs), 5)
	}

	want := []batch.Record{
		{Seed: "Phy001_HUMAN", Model: "LG", LogLike: -1234.5, Newick: "((Phy001_HUMAN:1,Phy002_MOUSE:1):1,Phy003_YEAST:2);", Line: 2},
		{Seed: "Phy004_HUMAN", Model: "JTT", LogLike: -99, Newick: "((Phy004_HUMAN:1,Phy005_PANTR:1):1,Phy006_MOUSE:2);", Line: 4},
	}
	for i, w := range want {
		r := recs[i]
		if r.Err() != nil {
			t.Errorf("record %d: unexpected error: %v", i, r.Err())
		}
		if r.Seed != w.Seed || r.Model != w.Model || r.LogLike != w.LogLike || r.Newick != w.Newick || r.Line != w.Line {
			t.Errorf("record %d: got %+v, want %+v", i, r, w)
		}
	}

	if err := recs[2].Err(); !errors.Is(err, genetree.ErrParse) {
		t.Errorf("short record: got error %v, want %v", err, genetree.ErrParse)
	}
	if recs[3].Seed != "tree.6" {
		t.Errorf("bare tree: got seed %q, want %q", recs[3].Seed, "tree.6")
	}
	if _, err := recs[3].Tree(nil); err != nil {
		t.Errorf("bare tree: unexpected error: %v", err)
	}
	if _, err := recs[4].Tree(nil); !errors.Is(err, genetree.ErrParse) {
		t.Errorf("bad log-likelihood: got error %v, want %v", err, genetree.ErrParse)
	}
}

func TestTable(t *testing.T) {
	tab := batch.NewTable([]string{"tree", "dist", "ndist"})
	tab.Append(batch.Row{"tree": "t1", "dist": "1.5", "ndist": "0.5"})
	tab.Append(batch.Row{"tree": "t2", "dist": "2", "other": "x"})

	var w bytes.Buffer
	if err := tab.Write(&w, '\t'); err != nil {
		t.Fatalf("unable to write table: %v", err)
	}

	want := "tree\tdist\tndist\nt1\t1.5\t0.5\nt2\t2\t\n"
	if got := w.String(); got != want {
		t.Errorf("table: got %q, want %q", got, want)
	}
}

func newRecords(n int) []batch.Record {
	recs := make([]batch.Record, n)
	for i := range recs {
		recs[i] = batch.Record{
			Seed:   fmt.Sprintf("seed%d", i),
			Newick: "(a:1,b:1);",
			Line:   i + 1,
		}
	}
	return recs
}

func TestRun(t *testing.T) {
	recs := newRecords(10)
	tab := batch.NewTable([]string{"seed"})

	var active, top atomic.Int64
	fn := func(ctx context.Context, rec batch.Record) ([]batch.Row, error) {
		n := active.Add(1)
		defer active.Add(-1)
		for {
			old := top.Load()
			if n <= old || top.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)

		if rec.Seed == "seed3" || rec.Seed == "seed7" {
			return nil, errors.New("intentional failure")
		}
		return []batch.Row{{"seed": rec.Seed}}, nil
	}

	s, err := batch.Run(context.Background(), recs, tab, batch.Options{CPU: 3}, fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top.Load() > 3 {
		t.Errorf("concurrent workers: got %d, want at most %d", top.Load(), 3)
	}
	want := batch.Summary{Total: 10, Done: 8, Failed: 2}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("summary: got %+v, want %+v", s, want)
	}
	if tab.Len() != 8 {
		t.Errorf("rows: got %d, want %d", tab.Len(), 8)
	}
}

func TestRunPanic(t *testing.T) {
	recs := newRecords(5)
	tab := batch.NewTable([]string{"seed"})
	core, logs := observer.New(zapcore.DebugLevel)

	fn := func(ctx context.Context, rec batch.Record) ([]batch.Row, error) {
		if rec.Seed == "seed2" {
			panic("invalid node")
		}
		batch.Logger(ctx).Info("analyzing")
		return []batch.Row{{"seed": rec.Seed}}, nil
	}

	s, err := batch.Run(context.Background(), recs, tab, batch.Options{CPU: 2, Logger: zap.New(core)}, fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := batch.Summary{Total: 5, Done: 4, Failed: 1}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("summary: got %+v, want %+v", s, want)
	}
	if tab.Len() != 4 {
		t.Errorf("rows: got %d, want %d", tab.Len(), 4)
	}

	failed := logs.FilterMessage("record failed").All()
	if len(failed) != 1 {
		t.Fatalf("failed records: got %d log entries, want 1", len(failed))
	}
	fields := failed[0].ContextMap()
	if fields["seed"] != "seed2" {
		t.Errorf("failed record: got seed %v, want %q", fields["seed"], "seed2")
	}
	if e, _ := fields["error"].(string); !strings.Contains(e, batch.ErrPanic.Error()) {
		t.Errorf("failed record: got error %q, want %q", e, batch.ErrPanic)
	}

	// the logger of each record carries the record fields
	for _, e := range logs.FilterMessage("analyzing").All() {
		if _, ok := e.ContextMap()["seed"]; !ok {
			t.Errorf("record log entry without seed: %v", e.ContextMap())
		}
	}
	if n := logs.FilterMessage("analyzing").Len(); n != 4 {
		t.Errorf("record log entries: got %d, want 4", n)
	}
}

func TestLogger(t *testing.T) {
	if batch.Logger(context.Background()) == nil {
		t.Errorf("logger of an empty context should not be nil")
	}
	log := zap.NewExample()
	if got := batch.Logger(batch.WithLogger(context.Background(), log)); got != log {
		t.Errorf("logger: got %p, want %p", got, log)
	}
}

func TestExecute(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out", "dist.csv")

	var calls atomic.Int64
	job := batch.Job{
		Output: out,
		Header: []string{"seed"},
		Records: func() ([]batch.Record, error) {
			return newRecords(4), nil
		},
		Func: func(ctx context.Context, rec batch.Record) ([]batch.Row, error) {
			calls.Add(1)
			return []batch.Row{{"seed": rec.Seed}}, nil
		},
		Options: batch.Options{CPU: 2},
	}

	s, err := batch.Execute(context.Background(), job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Skipped || s.Done != 4 {
		t.Errorf("first run: got %+v", s)
	}
	if !batch.Done(out) {
		t.Fatalf("output %q should be done", out)
	}
	testOutput(t, out, 5)

	// the output is done
	s, err = batch.Execute(context.Background(), job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Skipped {
		t.Errorf("second run: should be skipped")
	}
	if c := calls.Load(); c != 4 {
		t.Errorf("second run: got %d calls, want %d", c, 4)
	}

	job.Redo = true
	s, err = batch.Execute(context.Background(), job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Skipped || s.Done != 4 {
		t.Errorf("redo: got %+v", s)
	}
	if c := calls.Load(); c != 8 {
		t.Errorf("redo: got %d calls, want %d", c, 8)
	}
	testOutput(t, out, 5)

	// no temporary files are left
	files, err := os.ReadDir(filepath.Dir(out))
	if err != nil {
		t.Fatalf("unable to read output directory: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("output directory: got %d files, want %d", len(files), 1)
	}
}

func TestDone(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}
	if batch.Done(empty) {
		t.Errorf("empty file should not be done")
	}
	if batch.Done(filepath.Join(dir, "missing.csv")) {
		t.Errorf("missing file should not be done")
	}
	if batch.Done(dir) {
		t.Errorf("directory should not be done")
	}
}

func testOutput(t testing.TB, name string, rows int) {
	t.Helper()

	f, err := os.Open(name)
	if err != nil {
		t.Fatalf("unable to open output: %v", err)
	}
	defer f.Close()

	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("unable to read output: %v", err)
	}
	if len(recs) != rows {
		t.Errorf("output: got %d rows, want %d", len(recs), rows)
	}
}
