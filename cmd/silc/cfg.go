package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"sil/internal/sil"
)

func newCFGCmd() *cobra.Command {
	var rpo bool
	cmd := &cobra.Command{
		Use:   "cfg [sample...]",
		Short: "Tabulate the blocks and edges of each function",
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
			for n, f := range m.Funcs() {
				if n > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				if err := renderCFG(cmd.OutOrStdout(), f, rpo, s.color); err != nil {
					return err
				}
			}
			s.printTimings()
			return nil
		},
	}
	cmd.Flags().BoolVar(&rpo, "rpo", false, "list blocks in reverse post-order instead of layout order")
	return cmd
}

var cfgHeader = []string{"block", "insts", "preds", "succs", "terminator", "reachable"}

func cfgRows(f *sil.Func, rpo bool) [][]string {
	reachable := sil.Reachable(f)
	var blocks []*sil.Block
	if rpo {
		blocks = sil.ReversePostOrder(f)
	} else {
		for b := range f.Blocks() {
			blocks = append(blocks, b)
		}
	}
	rows := make([][]string, 0, len(blocks))
	for _, b := range blocks {
		term := "-"
		if t := b.Terminator(); t != nil {
			term = t.Kind().String()
		}
		rows = append(rows, []string{
			b.String(),
			fmt.Sprint(b.Len()),
			joinBlocks(b.PredBlocks()),
			joinBlocks(succBlocks(b)),
			term,
			yesNo(reachable[b.ID()]),
		})
	}
	return rows
}

func succBlocks(b *sil.Block) []*sil.Block {
	var out []*sil.Block
	for _, s := range b.Succs() {
		if t := s.Target(); t != nil {
			out = append(out, t)
		}
	}
	return out
}

func joinBlocks(blocks []*sil.Block) string {
	if len(blocks) == 0 {
		return "-"
	}
	names := make([]string, len(blocks))
	for i, b := range blocks {
		names[i] = b.String()
	}
	return strings.Join(names, ",")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// renderCFG prints one function as an aligned table. Widths are measured
// with runewidth so styled cells stay in columns.
func renderCFG(w io.Writer, f *sil.Func, rpo, colored bool) error {
	rows := cfgRows(f, rpo)
	widths := make([]int, len(cfgHeader))
	for i, h := range cfgHeader {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	title := lipgloss.NewStyle().Bold(true)
	head := lipgloss.NewStyle().Underline(true)
	dead := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	if !colored {
		title, head, dead = lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()
	}

	var sb strings.Builder
	sb.WriteString(title.Render(fmt.Sprintf("@%s (%d blocks)", f.Name, f.NumBlocks())))
	sb.WriteByte('\n')
	writeRow(&sb, cfgHeader, widths, head)
	for _, row := range rows {
		style := lipgloss.NewStyle()
		if row[len(row)-1] == "no" {
			style = dead
		}
		writeRow(&sb, row, widths, style)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeRow(sb *strings.Builder, cells []string, widths []int, style lipgloss.Style) {
	sb.WriteString(" ")
	for i, cell := range cells {
		pad := widths[i] - runewidth.StringWidth(cell)
		sb.WriteString(" ")
		sb.WriteString(style.Render(cell))
		if i < len(cells)-1 {
			sb.WriteString(strings.Repeat(" ", pad+1))
		}
	}
	sb.WriteByte('\n')
}
