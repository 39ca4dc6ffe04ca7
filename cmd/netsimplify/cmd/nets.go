package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"netsimplify/pkg/board"
	"netsimplify/pkg/boardfile"
	"netsimplify/pkg/geometry"
	"netsimplify/pkg/simplify"
)

var netsAt string

var netsCmd = &cobra.Command{
	Use:   "nets",
	Short: "Show net signal information",
	Long: `Display information about the net signals of a board.

Without --at: Lists all net signals with segment, pad, via and line counts
With --at: Lists the net signals with copper at that position`,
	Args: cobra.NoArgs,
	RunE: runNets,
}

func init() {
	netsCmd.Flags().StringVarP(&boardPath, "board", "b", "", "board file")
	netsCmd.Flags().StringVar(&netsAt, "at", "", "position x,y in nanometers")
	netsCmd.MarkFlagRequired("board")
	rootCmd.AddCommand(netsCmd)
}

func runNets(cmd *cobra.Command, args []string) error {
	b, err := boardfile.LoadFile(boardPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if netsAt != "" {
		pos, err := geometry.ParsePoint(netsAt)
		if err != nil {
			return err
		}
		nets := simplify.FindNetSignals(b, pos)
		if len(nets) == 0 {
			fmt.Fprintf(out, "No net signal at %s\n", pos)
			return nil
		}
		for _, ns := range nets {
			fmt.Fprintln(out, ns.Name)
		}
		return nil
	}

	nets := b.NetSignals()
	board.SortNetSignals(nets)
	fmt.Fprintf(out, "%-20s %8s %6s %6s %6s\n", "NET", "SEGMENTS", "PADS", "VIAS", "LINES")
	for _, ns := range nets {
		var vias, lines int
		segs := b.SegmentsOf(ns)
		for _, s := range segs {
			vias += len(s.Vias())
			lines += len(s.Lines())
		}
		fmt.Fprintf(out, "%-20s %8d %6d %6d %6d\n", ns.Name, len(segs), len(b.PadsOfNetSignal(ns)), vias, lines)
	}
	return nil
}
