package driver_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"sil/internal/driver"
	"sil/internal/sil"
	"sil/internal/testkit"
)

func build(t *testing.T, names ...string) *sil.Module {
	t.Helper()
	m, err := driver.Build(names, driver.BuildOptions{Funcs: 3, Blocks: 5})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func TestSamplesCheckClean(t *testing.T) {
	for _, name := range driver.Samples() {
		t.Run(name, func(t *testing.T) {
			m := build(t, name)
			if err := sil.CheckModule(m); err != nil {
				t.Fatalf("CheckModule: %v", err)
			}
			if len(m.Funcs()) == 0 {
				t.Fatalf("sample %s built no functions", name)
			}
		})
	}
}

func TestBuildSyntheticSize(t *testing.T) {
	m := build(t, "synthetic")
	if got := len(m.Funcs()); got != 3 {
		t.Fatalf("funcs = %d, want 3", got)
	}
	for _, f := range m.Funcs() {
		if f.NumBlocks() != 5 {
			t.Fatalf("%s has %d blocks, want 5", f.Name, f.NumBlocks())
		}
	}
}

func TestBuildUnknownSample(t *testing.T) {
	_, err := driver.Build([]string{"nope"}, driver.BuildOptions{})
	if err == nil || !strings.Contains(err.Error(), `unknown sample "nope"`) {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckParallelReportsFailures(t *testing.T) {
	m := build(t, "counter", "diamond")
	broken := m.NewFunc("broken", m.Types.RegisterFn(nil, m.Types.Builtins().Int))
	b := sil.NewBuilder(broken)
	b.SetInsertPoint(broken.NewBlock())
	b.CreateIntegerValue(1, m.Types.Builtins().Int)

	var (
		mu     sync.Mutex
		events []driver.Event
	)
	sink := driver.SinkFunc(func(e driver.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	})
	report, err := driver.CheckParallel(context.Background(), m, driver.Options{Jobs: 2, Sink: sink})
	if err != nil {
		t.Fatalf("CheckParallel: %v", err)
	}
	if len(report.Funcs) != 3 {
		t.Fatalf("reports = %d, want 3", len(report.Funcs))
	}
	if report.Failed() != 1 || report.Funcs[2].Name != "broken" || report.Funcs[2].Err == nil {
		t.Fatalf("unexpected report %+v", report.Funcs)
	}
	if msg := report.Err().Error(); !strings.Contains(msg, "function broken:") || !strings.Contains(msg, "unterminated block") {
		t.Fatalf("Err() = %q", msg)
	}
	if report.Funcs[0].Insts == 0 {
		t.Fatalf("counter reported no instructions")
	}

	final := map[string]driver.Status{}
	for _, e := range events {
		if e.Status != driver.StatusQueued && e.Status != driver.StatusWorking {
			final[e.Func] = e.Status
		}
	}
	want := map[string]driver.Status{"counter": driver.StatusDone, "diamond": driver.StatusDone, "broken": driver.StatusError}
	for name, st := range want {
		if final[name] != st {
			t.Fatalf("%s final status = %q, want %q", name, final[name], st)
		}
	}
	if len(report.Timing.Phases) != 1 || report.Timing.Phases[0].Name != "check" {
		t.Fatalf("timing = %+v", report.Timing)
	}
}

func TestCheckParallelRecoversPanics(t *testing.T) {
	m := build(t, "selfloop")
	boom := driver.Pass{Name: "boom", Run: func(*sil.Func) error { panic("kaboom") }}
	report, err := driver.CheckParallel(context.Background(), m, driver.Options{Passes: []driver.Pass{boom}})
	if err != nil {
		t.Fatalf("CheckParallel: %v", err)
	}
	if got := report.Funcs[0].Err; got == nil || !strings.Contains(got.Error(), "internal error: kaboom") {
		t.Fatalf("err = %v", got)
	}
}

func TestUnreachablePass(t *testing.T) {
	m := build(t, "counter")
	f, ok := m.Lookup("counter")
	if !ok {
		t.Fatalf("counter not built")
	}
	dead := f.NewBlock()
	b := sil.NewBuilder(f)
	b.SetInsertPoint(dead)
	b.CreateUnreachable(sil.Synthetic())

	report, err := driver.CheckParallel(context.Background(), m, driver.Options{Passes: []driver.Pass{driver.UnreachablePass}})
	if err != nil {
		t.Fatalf("CheckParallel: %v", err)
	}
	got := report.Funcs[0].Err
	if got == nil || !strings.Contains(got.Error(), "unreachable: "+dead.String()+" is unreachable") {
		t.Fatalf("err = %v", got)
	}
}

func TestCheckParallelCancelled(t *testing.T) {
	m := build(t, "synthetic")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.CheckParallel(ctx, m, driver.Options{Jobs: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSampleLocationsResolve(t *testing.T) {
	m := build(t)
	if err := testkit.CheckLocations(m); err != nil {
		t.Fatalf("CheckLocations: %v", err)
	}
}
