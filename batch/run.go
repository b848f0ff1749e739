// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrPanic is returned when the analysis of a record panics.
var ErrPanic = errors.New("record analysis panicked")

type loggerKey struct{}

// WithLogger returns a context
// that carries a logger.
func WithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

// Logger returns the logger of a context.
// During a run,
// it is the logger of the record under analysis.
// If the context has no logger,
// a no-op logger is returned.
func Logger(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// Func is a function that analyzes a single record
// and returns its result rows.
//
// The function must not modify any state
// shared with other records.
type Func func(ctx context.Context, rec Record) ([]Row, error)

// Options are the options of a batch run.
type Options struct {
	// CPU is the maximum number of concurrent workers.
	// If zero,
	// the number of logical CPUs is used.
	CPU int

	// Logger receives the errors of each record.
	// If nil,
	// nothing is logged.
	Logger *zap.Logger
}

// Summary is the result of a batch run.
type Summary struct {
	Total  int
	Done   int
	Failed int

	// Skipped is true if the run was not performed
	// because the output was already done.
	Skipped bool
}

// Run runs a function on each record
// and stores its results in a table.
//
// At most opts.CPU records are analyzed concurrently.
// A record that fails,
// or panics,
// does not stop the run:
// the error is logged
// and no row is added to the table.
// The function receives a context
// with the logger of the record (see Logger).
// Rows are added in the order in which records are finished.
func Run(ctx context.Context, recs []Record, tab *Table, opts Options, fn Func) (Summary, error) {
	cpu := opts.CPU
	if cpu <= 0 {
		cpu = runtime.NumCPU()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	start := time.Now()
	log.Info("batch started",
		zap.Int("records", len(recs)),
		zap.Int("cpu", cpu),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cpu)

	var done, failed atomic.Int64
	for _, rec := range recs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rlog := log.With(
				zap.String("seed", rec.Seed),
				zap.Int("line", rec.Line),
			)
			rows, err := call(WithLogger(gctx, rlog), fn, rec)
			if err != nil {
				failed.Add(1)
				rlog.Warn("record failed", zap.Error(err))
				return nil
			}
			tab.Append(rows...)
			done.Add(1)
			rlog.Debug("record done", zap.Int("rows", len(rows)))
			return nil
		})
	}

	s := Summary{Total: len(recs)}
	err := g.Wait()
	s.Done = int(done.Load())
	s.Failed = int(failed.Load())
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return s, err
	}

	log.Info("batch finished",
		zap.Int("done", s.Done),
		zap.Int("failed", s.Failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return s, nil
}

// call runs the analysis of a record,
// and returns a panic as an error.
func call(ctx context.Context, fn Func, rec Record) (rows []Row, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows = nil
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn(ctx, rec)
}
