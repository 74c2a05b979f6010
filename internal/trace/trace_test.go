package trace_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"sil/internal/trace"
)

func TestLevelScopes(t *testing.T) {
	tests := []struct {
		level trace.Level
		scope trace.Scope
		want  bool
	}{
		{trace.LevelOff, trace.ScopeTool, false},
		{trace.LevelError, trace.ScopeTool, false},
		{trace.LevelPhase, trace.ScopePass, true},
		{trace.LevelPhase, trace.ScopeFunc, false},
		{trace.LevelDetail, trace.ScopeFunc, true},
		{trace.LevelDetail, trace.ScopeBlock, false},
		{trace.LevelDebug, trace.ScopeBlock, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
	if _, err := trace.ParseLevel("loud"); err == nil {
		t.Fatalf("ParseLevel accepted an unknown level")
	}
}

func TestParseNames(t *testing.T) {
	if mode, err := trace.ParseMode("ZAP"); err != nil || mode != trace.ModeZap {
		t.Fatalf("ParseMode(ZAP) = %v, %v", mode, err)
	}
	if lvl, err := trace.ParseLevel(""); err != nil || lvl != trace.LevelOff {
		t.Fatalf("ParseLevel(\"\") = %v, %v", lvl, err)
	}
	_, err := trace.ParseMode("tape")
	if err == nil || !strings.Contains(err.Error(), "stream|ring|both|zap") {
		t.Fatalf("ParseMode(tape) error = %v", err)
	}
	if got := trace.StorageMode(0).String(); got != "unknown" {
		t.Fatalf("zero mode = %q", got)
	}
}

func TestNewSelectsSink(t *testing.T) {
	off, err := trace.New(trace.Config{Level: trace.LevelOff, Mode: trace.ModeBoth})
	if err != nil || off != trace.Nop {
		t.Fatalf("LevelOff tracer = %T, %v", off, err)
	}

	ring, err := trace.New(trace.Config{Level: trace.LevelPhase, Mode: trace.ModeRing})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ring.(*trace.RingTracer); !ok {
		t.Fatalf("ring mode built %T", ring)
	}

	var buf bytes.Buffer
	both, err := trace.New(trace.Config{Level: trace.LevelPhase, Mode: trace.ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	multi, ok := both.(*trace.MultiTracer)
	if !ok || multi.Ring() == nil {
		t.Fatalf("both mode built %T", both)
	}
	trace.Begin(both, trace.ScopePass, "dump", 0).End("")
	if !strings.Contains(buf.String(), "pass:dump") || len(multi.Ring().Snapshot()) != 2 {
		t.Fatalf("stream %q, ring %d events", buf.String(), len(multi.Ring().Snapshot()))
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDetail, trace.FormatText)

	outer := trace.Begin(tr, trace.ScopePass, "check", 0)
	inner := trace.Begin(tr, trace.ScopeFunc, "main", outer.ID())
	inner.WithExtra("blocks", "3").WithExtra("insts", "12").End("ok")
	trace.Begin(tr, trace.ScopeBlock, "bb0", inner.ID()).End("")
	outer.End("")

	out := buf.String()
	for _, want := range []string{"→ pass:check", "→ func:main", "← func:main (ok) {blocks=3, insts=12}", "← pass:check"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "bb0") {
		t.Errorf("block scope emitted at detail level:\n%s", out)
	}
}

func TestRingKeepsNewest(t *testing.T) {
	ring := trace.NewRingTracer(2, trace.LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		trace.Point(ring, trace.ScopeFunc, name, "", 0)
	}
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("snapshot = %+v", events)
	}
}

func TestZapTracer(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := trace.NewZapTracer(zap.New(core), trace.LevelDetail)

	ctx := trace.WithTracer(context.Background(), tr)
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFunc, "main", 0)
	span.WithExtra("blocks", "2").End("ok")

	entries := logs.FilterMessage("main").All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want begin+end", len(entries))
	}
	end := entries[1].ContextMap()
	if end["kind"] != "end" || end["detail"] != "ok" || end["blocks"] != "2" {
		t.Fatalf("end fields = %v", end)
	}
	if entries[0].Level != zapcore.DebugLevel {
		t.Fatalf("func scope logged at %s", entries[0].Level)
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := trace.New(trace.Config{Level: trace.LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
	if trace.FromContext(context.Background()) != trace.Nop {
		t.Fatalf("empty context should carry Nop")
	}
}

func TestBeginCtxNests(t *testing.T) {
	ring := trace.NewRingTracer(16, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)

	before := trace.OpenSpans()
	outer, octx := trace.BeginCtx(ctx, trace.ScopePass, "check")
	inner, _ := trace.BeginCtx(octx, trace.ScopeFunc, "main")
	if got := trace.OpenSpans() - before; got != 2 {
		t.Fatalf("open spans = %d, want 2", got)
	}
	inner.End("")
	inner.End("again")
	outer.End("")
	if got := trace.OpenSpans() - before; got != 0 {
		t.Fatalf("open spans after End = %d", got)
	}

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4 (second End must not emit)", len(events))
	}
	if events[1].ParentID != outer.ID() || events[1].Name != "main" {
		t.Fatalf("inner begin = %+v, want parent %d", events[1], outer.ID())
	}

	// filtered scopes keep the parent context
	blk, bctx := trace.BeginCtx(octx, trace.ScopeBlock, "bb0")
	if blk.ID() != 0 || trace.CurrentSpan(bctx).SpanID != outer.ID() {
		t.Fatalf("block span should be disabled and keep parent")
	}
}

func TestHeartbeat(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelPhase)
	hb := trace.StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	hb.Stop()
	hb.Stop()

	events := ring.Snapshot()
	if len(events) == 0 {
		t.Fatalf("no heartbeat within 2s")
	}
	if events[0].Name != "heartbeat" || !strings.HasPrefix(events[0].Detail, "#1 open=") {
		t.Fatalf("first beat = %+v", events[0])
	}
	if trace.StartHeartbeat(trace.Nop, time.Millisecond) != nil {
		t.Fatalf("heartbeat started on a disabled tracer")
	}
}
