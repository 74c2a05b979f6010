package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"sil/internal/observ"
	"sil/internal/sil"
	"sil/internal/trace"
)

// Pass is an extra per-function check run after sil.Check succeeds.
type Pass struct {
	Name string
	Run  func(*sil.Func) error
}

// UnreachablePass rejects functions with blocks no path from the entry reaches.
var UnreachablePass = Pass{
	Name: "unreachable",
	Run: func(f *sil.Func) error {
		dead := sil.Unreachable(f)
		if len(dead) == 0 {
			return nil
		}
		errs := make([]error, len(dead))
		for i, b := range dead {
			errs[i] = fmt.Errorf("%s is unreachable from the entry", b)
		}
		return errors.Join(errs...)
	},
}

// Options configures CheckParallel.
type Options struct {
	// Jobs bounds the worker count; zero or less means GOMAXPROCS.
	Jobs   int
	Sink   ProgressSink
	Passes []Pass
	// Cache, when set, classifies each function's snapshot against it and
	// stores the new snapshot.
	Cache *DiskCache
}

// FuncReport is the outcome for one function.
type FuncReport struct {
	Name    string
	Blocks  int
	Insts   int
	Err     error
	Change  Change
	Elapsed time.Duration
}

// Report collects the per-function outcomes in module order.
type Report struct {
	Funcs  []FuncReport
	Timing observ.Report
}

// Err joins the failures of all functions.
func (r *Report) Err() error {
	var errs []error
	for _, fr := range r.Funcs {
		if fr.Err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", fr.Name, fr.Err))
		}
	}
	return errors.Join(errs...)
}

// Failed counts functions that did not check cleanly.
func (r *Report) Failed() int {
	n := 0
	for _, fr := range r.Funcs {
		if fr.Err != nil {
			n++
		}
	}
	return n
}

// CheckParallel verifies every function of m concurrently. Functions share
// the module's interner and symbol table, which are read-only at this point,
// and each worker touches only its own function. Per-function failures land
// in the report; the returned error is reserved for cancellation.
func CheckParallel(ctx context.Context, m *sil.Module, opts Options) (*Report, error) {
	funcs := m.Funcs()
	timer := observ.NewTimer()
	report := &Report{Funcs: make([]FuncReport, len(funcs))}
	if len(funcs) == 0 {
		return report, nil
	}

	root, ctx := trace.BeginCtx(ctx, trace.ScopePass, "check")
	tracer := trace.FromContext(ctx)
	phase := timer.Begin("check")

	for _, f := range funcs {
		emit(opts.Sink, Event{Func: f.Name, Stage: StageCheck, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(funcs)))

	for i, f := range funcs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// each worker owns report.Funcs[i]
			report.Funcs[i] = checkFunc(tracer, root.ID(), f, opts)
			return nil
		})
	}
	err := g.Wait()

	timer.End(phase, fmt.Sprintf("%d funcs, %d jobs", len(funcs), jobs))
	root.WithExtra("funcs", fmt.Sprint(len(funcs))).
		WithExtra("failed", fmt.Sprint(report.Failed())).
		End("")
	report.Timing = timer.Report()
	if err != nil {
		return report, err
	}
	return report, nil
}

func checkFunc(tracer trace.Tracer, parent uint64, f *sil.Func, opts Options) (fr FuncReport) {
	span := trace.Begin(tracer, trace.ScopeFunc, f.Name, parent)
	start := time.Now()
	fr = FuncReport{Name: f.Name, Blocks: f.NumBlocks()}
	emit(opts.Sink, Event{Func: f.Name, Stage: StageCheck, Status: StatusWorking})

	defer func() {
		if r := recover(); r != nil {
			fr.Err = fmt.Errorf("internal error: %v", r)
		}
		fr.Elapsed = time.Since(start)
		status := StatusDone
		detail := "ok"
		if fr.Err != nil {
			status = StatusError
			detail = "failed"
		}
		span.End(detail)
		emit(opts.Sink, Event{Func: f.Name, Stage: StageCheck, Status: status, Err: fr.Err, Elapsed: fr.Elapsed})
	}()

	if err := sil.Check(f); err != nil {
		fr.Err = err
		return fr
	}
	for b := range f.Blocks() {
		trace.Point(tracer, trace.ScopeBlock, b.String(), fmt.Sprintf("insts=%d preds=%d", b.Len(), b.NumPreds()), span.ID())
	}
	for _, p := range opts.Passes {
		if err := p.Run(f); err != nil {
			fr.Err = fmt.Errorf("%s: %w", p.Name, err)
			return fr
		}
		trace.Point(tracer, trace.ScopeFunc, p.Name, f.Name, span.ID())
	}

	snap := Snapshot(f)
	fr.Insts = snap.NumInsts()
	if opts.Cache != nil {
		emit(opts.Sink, Event{Func: f.Name, Stage: StageSnapshot, Status: StatusWorking})
		change, err := opts.Cache.Compare(snap)
		if err == nil {
			err = opts.Cache.Put(snap)
		}
		if err != nil {
			fr.Err = err
			return fr
		}
		fr.Change = change
	}
	return fr
}
