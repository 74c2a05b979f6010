package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sil/internal/sil"
)

func newDumpCmd() *cobra.Command {
	var (
		locations bool
		stats     bool
		funcName  string
	)
	cmd := &cobra.Command{
		Use:   "dump [sample...]",
		Short: "Print the instructions of sample programs",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			m, err := s.build(args)
			if err != nil {
				return err
			}
			opts := sil.DumpOptions{Color: s.color, Locations: locations || s.cfg.Dump.Locations}
			out := cmd.OutOrStdout()
			funcs := m.Funcs()
			if funcName != "" {
				f, ok := m.Lookup(funcName)
				if !ok {
					return fmt.Errorf("no function %q in the selected samples", funcName)
				}
				funcs = []*sil.Func{f}
				err = sil.DumpFunc(out, f, opts)
			} else {
				err = sil.DumpModule(out, m, opts)
			}
			if err != nil {
				return err
			}
			if stats {
				for _, f := range funcs {
					st := f.ArenaStats()
					fmt.Fprintf(out, "// @%s: %d insts in %d pages, %d blocks, %d values in %d chunks, %d type slots, %d substitutions\n",
						f.Name, st.Insts, st.InstPages, st.Blocks, st.Values, st.ValueChunks, st.TypeSlots, st.Substs)
				}
			}
			s.printTimings()
			return nil
		},
	}
	cmd.Flags().BoolVar(&locations, "locations", false, "annotate instructions with source positions")
	cmd.Flags().BoolVar(&stats, "stats", false, "append per-function arena occupancy")
	cmd.Flags().StringVar(&funcName, "func", "", "dump a single function")
	return cmd
}
