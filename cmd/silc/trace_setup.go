package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sil/internal/config"
	"sil/internal/trace"
)

// setupTracing initializes the tracer described by cfg and attaches it to the
// command's context. It returns a cleanup function.
func setupTracing(cmd *cobra.Command, cfg *config.Config) (func(), error) {
	root := cmd.Root()

	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	tc, err := cfg.TracerConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid trace settings: %w", err)
	}
	tc.Heartbeat = heartbeatInterval

	if tc.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	tracer, err := trace.New(tc)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	span, ctx := trace.BeginCtx(trace.WithTracer(cmd.Context(), tracer), trace.ScopeTool, "silc "+cmd.Name())
	cmd.SetContext(ctx)
	root.SetContext(ctx)

	var heartbeat *trace.Heartbeat
	if heartbeatInterval > 0 {
		heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}

	cleanup := func() {
		span.End("")
		if heartbeat != nil {
			heartbeat.Stop()
		}
		// ring-only tracing has no stream; surface what it kept
		if ring, ok := tracer.(*trace.RingTracer); ok {
			if err := ring.Dump(os.Stderr, tc.Format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}
