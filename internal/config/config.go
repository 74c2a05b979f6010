// Package config loads sil.toml, the optional per-project settings file of
// silc. Command-line flags override whatever it sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"sil/internal/sil"
	"sil/internal/trace"
)

// FileName is the settings file silc looks for.
const FileName = "sil.toml"

// Config is the decoded sil.toml.
type Config struct {
	Arena ArenaConfig `toml:"arena"`
	Check CheckConfig `toml:"check"`
	Trace TraceConfig `toml:"trace"`
	Dump  DumpConfig  `toml:"dump"`

	// Path is the file the config came from; empty for defaults.
	Path string `toml:"-"`
}

type ArenaConfig struct {
	ValueChunk int `toml:"value_chunk"`
	TypeChunk  int `toml:"type_chunk"`
	SubstChunk int `toml:"subst_chunk"`
}

type CheckConfig struct {
	Jobs        int  `toml:"jobs"`
	Unreachable bool `toml:"unreachable"`
	Cache       bool `toml:"cache"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Format string `toml:"format"`
	Output string `toml:"output"`
	Ring   int    `toml:"ring"`
}

type DumpConfig struct {
	Color     string `toml:"color"`
	Locations bool   `toml:"locations"`
}

// Default returns the settings used when no sil.toml exists.
func Default() Config {
	d := sil.DefaultArenaConfig
	return Config{
		Arena: ArenaConfig{ValueChunk: d.ValueChunk, TypeChunk: d.TypeChunk, SubstChunk: d.SubstChunk},
		Trace: TraceConfig{Level: "off", Mode: "stream", Format: "auto", Output: "-", Ring: trace.DefaultRingSize},
		Dump:  DumpConfig{Color: "auto"},
	}
}

// Find walks up from startDir looking for sil.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Discover loads the nearest sil.toml above startDir, or the defaults when
// there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("[arena].%s must be positive, got %d", name, v))
		}
	}
	positive("value_chunk", c.Arena.ValueChunk)
	positive("type_chunk", c.Arena.TypeChunk)
	positive("subst_chunk", c.Arena.SubstChunk)
	if c.Check.Jobs < 0 {
		errs = append(errs, fmt.Errorf("[check].jobs must not be negative, got %d", c.Check.Jobs))
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		errs = append(errs, fmt.Errorf("[trace].level: %w", err))
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		errs = append(errs, fmt.Errorf("[trace].mode: %w", err))
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		errs = append(errs, fmt.Errorf("[trace].format: %w", err))
	}
	if c.Trace.Ring < 0 {
		errs = append(errs, fmt.Errorf("[trace].ring must not be negative, got %d", c.Trace.Ring))
	}
	switch c.Dump.Color {
	case "auto", "on", "off":
	default:
		errs = append(errs, fmt.Errorf("[dump].color must be auto, on or off, got %q", c.Dump.Color))
	}
	return errors.Join(errs...)
}

// SILArena converts the [arena] section for sil.Options.
func (c *Config) SILArena() sil.ArenaConfig {
	return sil.ArenaConfig{
		ValueChunk: c.Arena.ValueChunk,
		TypeChunk:  c.Arena.TypeChunk,
		SubstChunk: c.Arena.SubstChunk,
	}
}

// TracerConfig converts the [trace] section for trace.New.
func (c *Config) TracerConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(c.Trace.Format)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: c.Trace.Output,
		RingSize:   c.Trace.Ring,
	}, nil
}
