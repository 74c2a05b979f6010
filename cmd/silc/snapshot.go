package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sil/internal/driver"
)

func newSnapshotCmd() *cobra.Command {
	var (
		format string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "snapshot [sample...]",
		Short: "Fingerprint each function's structure",
		Long: `snapshot prints a SHA-256 digest of every function's structural summary.
With --out, the msgpack-encoded summaries are written as <func>.mp files.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "pretty", "json":
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
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
			if outDir != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return err
				}
			}

			type entry struct {
				Func   string `json:"func"`
				Blocks int    `json:"blocks"`
				Insts  int    `json:"insts"`
				Digest string `json:"digest"`
			}
			entries := make([]entry, 0, len(m.Funcs()))
			for _, f := range m.Funcs() {
				snap := driver.Snapshot(f)
				data, err := snap.Encode()
				if err != nil {
					return err
				}
				digest, err := snap.Digest()
				if err != nil {
					return err
				}
				if outDir != "" {
					if err := os.WriteFile(filepath.Join(outDir, f.Name+".mp"), data, 0o600); err != nil {
						return err
					}
				}
				entries = append(entries, entry{Func: f.Name, Blocks: len(snap.Blocks), Insts: snap.NumInsts(), Digest: digest.String()})
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %-20s %3d blocks %4d insts\n", e.Digest[:16], e.Func, e.Blocks, e.Insts)
			}
			s.printTimings()
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().StringVar(&outDir, "out", "", "directory to write msgpack snapshots into")
	return cmd
}
