package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sil/internal/config"
	"sil/internal/driver"
	"sil/internal/observ"
	"sil/internal/sil"
	"sil/internal/trace"
)

// session is the state one command invocation works with.
type session struct {
	cmd     *cobra.Command
	cfg     config.Config
	timer   *observ.Timer
	timings bool
	color   bool
}

// openSession loads sil.toml, applies flag overrides and installs the tracer
// on the command's context. The returned cleanup flushes the tracer.
func openSession(cmd *cobra.Command) (*session, func(), error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, nil, err
	}
	if err = applyFlagOverrides(cmd, &cfg); err != nil {
		return nil, nil, err
	}

	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	s := &session{cmd: cmd, cfg: cfg, timer: observ.NewTimer(), timings: timings}
	s.color = colorEnabled(cfg.Dump.Color, cmd)

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return nil, nil, err
	}
	stopTracing, err := setupTracing(cmd, &cfg)
	if err != nil {
		stopProfiling()
		return nil, nil, err
	}
	return s, func() {
		stopTracing()
		stopProfiling()
	}, nil
}

// applyFlagOverrides copies explicitly set flags over the file settings.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Root().PersistentFlags()
	strs := map[string]*string{
		"color":        &cfg.Dump.Color,
		"trace":        &cfg.Trace.Output,
		"trace-level":  &cfg.Trace.Level,
		"trace-mode":   &cfg.Trace.Mode,
		"trace-format": &cfg.Trace.Format,
	}
	for name, dst := range strs {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = strings.TrimSpace(v)
	}
	if flags.Changed("trace-ring-size") {
		v, err := flags.GetInt("trace-ring-size")
		if err != nil {
			return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
		}
		cfg.Trace.Ring = v
	}
	// a trace path alone turns tracing on
	if flags.Changed("trace") && !flags.Changed("trace-level") && cfg.Trace.Level == "off" {
		cfg.Trace.Level = "phase"
	}
	return cfg.Validate()
}

func colorEnabled(mode string, cmd *cobra.Command) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		f, ok := cmd.OutOrStdout().(*os.File)
		return ok && isTerminal(f)
	}
}

// build constructs the requested samples under a traced phase.
func (s *session) build(names []string) (*sil.Module, error) {
	flags := s.cmd.Root().PersistentFlags()
	funcs, err := flags.GetInt("funcs")
	if err != nil {
		return nil, fmt.Errorf("failed to get funcs flag: %w", err)
	}
	blocks, err := flags.GetInt("blocks")
	if err != nil {
		return nil, fmt.Errorf("failed to get blocks flag: %w", err)
	}

	span, _ := trace.BeginCtx(s.cmd.Context(), trace.ScopePass, "build")
	phase := s.timer.Begin("build")
	m, err := driver.Build(names, driver.BuildOptions{Arena: s.cfg.SILArena(), Funcs: funcs, Blocks: blocks})
	if err != nil {
		span.End("failed")
		s.timer.End(phase, "failed")
		return nil, err
	}
	note := fmt.Sprintf("%d funcs", len(m.Funcs()))
	span.WithExtra("funcs", fmt.Sprint(len(m.Funcs()))).End("")
	s.timer.End(phase, note)
	return m, nil
}

// printTimings writes the phase summary to stderr when --timings is set,
// followed by phases timed elsewhere (the driver keeps its own timer).
func (s *session) printTimings(extra ...observ.Report) {
	if !s.timings {
		return
	}
	out := s.cmd.ErrOrStderr()
	fmt.Fprint(out, s.timer.Summary())
	for _, r := range extra {
		for _, p := range r.Phases {
			fmt.Fprintf(out, "  %-20s %7.2f ms  // %s\n", p.Name, p.DurationMS, p.Note)
		}
	}
}
