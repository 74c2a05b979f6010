package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes silc with a private sil.toml and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "sil.toml")
	if err := os.WriteFile(cfg, []byte("[dump]\ncolor = \"off\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestDumpCommand(t *testing.T) {
	out, err := run(t, "dump", "counter", "--locations")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	for _, want := range []string{"sil @counter : ", "alloc_var [stack]", "counter.swift:", "return"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("color escapes with color = off:\n%s", out)
	}
}

func TestDumpSingleFunc(t *testing.T) {
	out, err := run(t, "dump", "--func", "synthetic_001", "--funcs", "2", "--blocks", "3", "synthetic")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if strings.Count(out, "sil @") != 1 || !strings.Contains(out, "@synthetic_001") {
		t.Fatalf("unexpected dump:\n%s", out)
	}
	if _, err := run(t, "dump", "--func", "nope", "counter"); err == nil {
		t.Fatalf("dumping a missing function succeeded")
	}
}

func TestCFGCommand(t *testing.T) {
	out, err := run(t, "cfg", "selfloop")
	if err != nil {
		t.Fatalf("cfg: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("want title, header and two rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[0], "@selfloop (2 blocks)") {
		t.Fatalf("title = %q", lines[0])
	}
	if f := strings.Fields(lines[3]); len(f) != 6 || f[0] != "bb1" || f[2] != "bb0,bb0,bb1" && f[2] != "bb1,bb0,bb0" || f[4] != "br" {
		t.Fatalf("row = %q", lines[3])
	}
}

func TestCheckCommand(t *testing.T) {
	out, err := run(t, "check", "--ui", "off", "--unreachable", "-j", "2")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	for _, name := range []string{"counter", "diamond", "memory", "selfloop", "synthetic_000"} {
		if !strings.Contains(out, "ok   "+name) {
			t.Errorf("no ok line for %s:\n%s", name, out)
		}
	}
}

func TestCheckCommandCache(t *testing.T) {
	dir := t.TempDir()
	first, err := run(t, "check", "--ui", "off", "--cache-dir", dir, "--cache", "counter")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	second, err := run(t, "check", "--ui", "off", "--cache-dir", dir, "--cache", "counter")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(first, "new") || !strings.Contains(second, "unchanged") {
		t.Fatalf("first:\n%s\nsecond:\n%s", first, second)
	}
}

func TestSnapshotCommand(t *testing.T) {
	outDir := t.TempDir()
	out, err := run(t, "snapshot", "--format", "json", "--out", outDir, "diamond")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	var entries []struct {
		Func   string `json:"func"`
		Digest string `json:"digest"`
	}
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(entries) != 1 || entries[0].Func != "diamond" || len(entries[0].Digest) != 64 {
		t.Fatalf("entries = %+v", entries)
	}
	if _, err := os.Stat(filepath.Join(outDir, "diamond.mp")); err != nil {
		t.Fatalf("snapshot file: %v", err)
	}
}

func TestSamplesAndVersion(t *testing.T) {
	out, err := run(t, "samples")
	if err != nil {
		t.Fatalf("samples: %v", err)
	}
	if got := strings.Fields(out); strings.Join(got, " ") != "counter diamond memory selfloop synthetic" {
		t.Fatalf("samples = %q", got)
	}
	out, err = run(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, `"tool": "silc"`) {
		t.Fatalf("version = %s", out)
	}
}

func TestUnknownSampleFails(t *testing.T) {
	if _, err := run(t, "dump", "bogus"); err == nil || !strings.Contains(err.Error(), "unknown sample") {
		t.Fatalf("err = %v", err)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Errorf("readUIMode accepted garbage")
	}
}

func TestProfileFlags(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	if _, err := run(t, "--cpu-profile", cpu, "--mem-profile", mem, "check", "--ui", "off", "counter"); err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, p := range []string{cpu, mem} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s: %v", p, err)
		}
	}
}

func TestTraceFlagWritesEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.ndjson")
	if _, err := run(t, "--trace", path, "--trace-level", "detail", "check", "--ui", "off", "selfloop"); err != nil {
		t.Fatalf("check: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	for _, want := range []string{`"name":"build"`, `"name":"check"`, `"name":"selfloop"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("trace lacks %s:\n%s", want, data)
		}
	}
}

func TestDumpStats(t *testing.T) {
	out, err := run(t, "dump", "--stats", "--func", "selfloop", "selfloop")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	// integer_value, condbranch, br
	if !strings.Contains(out, "// @selfloop: 3 insts in 1 pages, 2 blocks, 0 values") {
		t.Fatalf("stats missing:\n%s", out)
	}
}
