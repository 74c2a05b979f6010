package trace

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapTracer forwards events to a zap logger. Span begin/end and points are
// logged at debug level for per-function and per-block scopes and at info
// level above that; heartbeats are always debug.
type ZapTracer struct {
	logger *zap.Logger
	level  Level
}

// NewZapTracer wraps logger. A nil logger behaves like zap.NewNop.
func NewZapTracer(logger *zap.Logger, level Level) *ZapTracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapTracer{logger: logger, level: level}
}

// Emit logs one event as a structured entry.
func (t *ZapTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	lvl := zapcore.InfoLevel
	if ev.Kind == KindHeartbeat || ev.Scope >= ScopeFunc {
		lvl = zapcore.DebugLevel
	}
	ce := t.logger.Check(lvl, ev.Name)
	if ce == nil {
		return
	}
	fields := make([]zap.Field, 0, 6+len(ev.Extra))
	fields = append(fields,
		zap.String("kind", ev.Kind.String()),
		zap.String("scope", ev.Scope.String()),
		zap.Uint64("span", ev.SpanID),
	)
	if ev.ParentID != 0 {
		fields = append(fields, zap.Uint64("parent", ev.ParentID))
	}
	if ev.GID != 0 {
		fields = append(fields, zap.Uint64("gid", ev.GID))
	}
	if ev.Detail != "" {
		fields = append(fields, zap.String("detail", ev.Detail))
	}
	for k, v := range ev.Extra {
		fields = append(fields, zap.String(k, v))
	}
	ce.Write(fields...)
}

// Flush syncs the underlying logger.
func (t *ZapTracer) Flush() error {
	return t.logger.Sync()
}

// Close is Flush; the logger's sinks are owned by whoever built it.
func (t *ZapTracer) Close() error {
	return t.Flush()
}

// Level returns the current tracing level.
func (t *ZapTracer) Level() Level {
	return t.level
}

// Enabled returns true if tracing is active.
func (t *ZapTracer) Enabled() bool {
	return t.level > LevelOff
}

// newZapLogger builds a JSON logger writing to cfg.OutputPath.
func newZapLogger(cfg Config) (*zap.Logger, error) {
	out := cfg.OutputPath
	if out == "" || out == "-" {
		out = "stderr"
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	zc.Sampling = nil
	zc.OutputPaths = []string{out}
	zc.ErrorOutputPaths = []string{"stderr"}
	if cfg.Format == FormatText {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return zc.Build()
}
