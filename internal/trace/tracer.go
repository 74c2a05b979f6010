package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Tracer is a sink for events. Implementations are goroutine-safe.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	// Enabled is Level() > LevelOff.
	Enabled() bool
}

// StorageMode selects the sink New builds.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // write each event as it arrives
	ModeRing                          // keep the last RingSize events in memory
	ModeBoth                          // stream and ring
	ModeZap                           // structured zap log
)

var modeNames = [...]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
	ModeZap:    "zap",
}

func (m StorageMode) String() string { return nameOf(modeNames[:], int(m)) }

// ParseMode converts a storage mode name.
func ParseMode(s string) (StorageMode, error) {
	n, err := parseName("storage mode", modeNames[:], s)
	if err != nil {
		return ModeRing, err
	}
	return StorageMode(n), nil
}

// DefaultRingSize is used when Config.RingSize is not positive.
const DefaultRingSize = 4096

// Config describes a tracer. Output wins over OutputPath; an empty path or
// "-" writes to stderr.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format // FormatAuto picks NDJSON for *.ndjson paths
	Output     io.Writer
	OutputPath string
	RingSize   int
	Heartbeat  time.Duration // 0 disables the heartbeat
}

func (c Config) withDefaults() Config {
	if c.RingSize <= 0 {
		c.RingSize = DefaultRingSize
	}
	if c.Format == FormatAuto {
		c.Format = FormatText
		if strings.HasSuffix(c.OutputPath, ".ndjson") {
			c.Format = FormatNDJSON
		}
	}
	return c
}

// New builds the tracer cfg describes. LevelOff yields Nop whatever the mode.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	cfg = cfg.withDefaults()

	switch cfg.Mode {
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case ModeZap:
		logger, err := newZapLogger(cfg)
		if err != nil {
			return nil, err
		}
		return NewZapTracer(logger, cfg.Level), nil
	case ModeStream, ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		stream := NewStreamTracer(w, cfg.Level, cfg.Format)
		if cfg.Mode == ModeStream {
			return stream, nil
		}
		return NewMultiTracer(cfg.Level, stream, NewRingTracer(cfg.RingSize, cfg.Level)), nil
	default:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}
