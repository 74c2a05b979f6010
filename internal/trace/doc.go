// Package trace provides tracing for the silc tool.
//
// Tracing records which passes ran over which functions and how long each
// took, so a hang or a slow check can be pinned to a function.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	silc check --trace=- --trace-level=detail counter diamond
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer for crash dumps
//   - ZapTracer: forwards events to a zap logger
//   - MultiTracer: combines multiple tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only crash dumps
//   - LevelPhase: tool and pass boundaries
//   - LevelDetail: per-function events
//   - LevelDebug: everything including per-block events
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//
//	span, ctx := trace.BeginCtx(ctx, trace.ScopePass, "check")
//	defer span.End("")
//
// Spans begun from the returned context nest under span. A heartbeat
// (--trace-heartbeat) reports how many spans are still open.
package trace
