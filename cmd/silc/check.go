package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"sil/internal/driver"
	"sil/internal/sil"
)

type checkOptions struct {
	jobs        int
	ui          string
	unreachable bool
	cache       bool
	cacheDir    string
	dropCache   bool
}

func newCheckCmd() *cobra.Command {
	var opts checkOptions
	cmd := &cobra.Command{
		Use:   "check [sample...]",
		Short: "Structurally check every function of the samples in parallel",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, &opts)
		},
	}
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", -1, "max parallel workers (0 = GOMAXPROCS; default from [check].jobs)")
	cmd.Flags().StringVar(&opts.ui, "ui", "auto", "progress view (auto|on|off)")
	cmd.Flags().BoolVar(&opts.unreachable, "unreachable", false, "also reject blocks unreachable from the entry")
	cmd.Flags().BoolVar(&opts.cache, "cache", false, "compare function snapshots with the disk cache and update it")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "cache directory (default $XDG_CACHE_HOME/silc)")
	cmd.Flags().BoolVar(&opts.dropCache, "drop-cache", false, "clear the disk cache before checking")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *checkOptions) error {
	mode, err := readUIMode(opts.ui)
	if err != nil {
		return err
	}
	s, cleanup, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	m, err := s.build(args)
	if err != nil {
		return err
	}

	dopts := driver.Options{Jobs: s.cfg.Check.Jobs}
	if opts.jobs >= 0 {
		dopts.Jobs = opts.jobs
	}
	if opts.unreachable || s.cfg.Check.Unreachable {
		dopts.Passes = append(dopts.Passes, driver.UnreachablePass)
	}
	if opts.cache || opts.dropCache || s.cfg.Check.Cache {
		cache, err := openCache(opts.cacheDir)
		if err != nil {
			return err
		}
		if opts.dropCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("drop cache: %w", err)
			}
		}
		dopts.Cache = cache
	}

	names := funcNames(m)
	var report *driver.Report
	if shouldUseTUI(mode) {
		report, err = runCheckWithUI(cmd.Context(), "silc check", names, m, dopts)
	} else {
		report, err = driver.CheckParallel(cmd.Context(), m, dopts)
	}
	if err != nil {
		return err
	}

	printCheckReport(cmd.OutOrStdout(), report)
	s.printTimings(report.Timing)
	if n := report.Failed(); n > 0 {
		return errors.Join(fmt.Errorf("%d of %d functions failed", n, len(report.Funcs)), report.Err())
	}
	return nil
}

func openCache(dir string) (*driver.DiskCache, error) {
	if dir != "" {
		return driver.OpenDiskCacheAt(dir)
	}
	return driver.OpenDiskCache("silc")
}

func funcNames(m *sil.Module) []string {
	funcs := m.Funcs()
	names := make([]string, len(funcs))
	for i, f := range funcs {
		names[i] = f.Name
	}
	return names
}

func printCheckReport(out io.Writer, report *driver.Report) {
	for _, fr := range report.Funcs {
		status := "ok"
		if fr.Err != nil {
			status = "FAIL"
		}
		line := fmt.Sprintf("%-4s %-20s %3d blocks %4d insts %10s", status, fr.Name, fr.Blocks, fr.Insts, fr.Elapsed.Round(time.Microsecond))
		if fr.Change != "" {
			line += "  " + string(fr.Change)
		}
		fmt.Fprintln(out, line)
	}
}
