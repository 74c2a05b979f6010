// Command silc builds the sample SIL programs and inspects them: it dumps
// their instructions, tabulates their control flow, checks them in parallel
// and fingerprints them against an on-disk cache.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sil/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "silc",
		Short:         "SIL instruction-graph toolkit",
		Long:          `silc builds SIL sample programs and dumps, tabulates, checks and fingerprints them`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "path to sil.toml (default: searched upward from the working directory)")
	flags.String("color", "", "colorize output (auto|on|off); overrides [dump].color")
	flags.Bool("timings", false, "show timing information")
	flags.Int("funcs", 8, "functions in the synthetic sample")
	flags.Int("blocks", 16, "blocks per synthetic function")
	flags.String("trace", "", "trace output path (- for stderr)")
	flags.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "", "trace storage (stream|ring|both|zap)")
	flags.String("trace-format", "", "trace format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 0, "ring buffer capacity")
	flags.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	root.AddCommand(
		newDumpCmd(),
		newCFGCmd(),
		newCheckCmd(),
		newSnapshotCmd(),
		newSamplesCmd(),
		newVersionCmd(),
	)
	return root
}

// main executes the root command and exits with status 1 on failure.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}
