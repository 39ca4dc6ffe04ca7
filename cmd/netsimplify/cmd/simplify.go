package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"netsimplify/pkg/boardfile"
	"netsimplify/pkg/geometry"
	"netsimplify/pkg/simplify"
	"netsimplify/pkg/undo"
)

var (
	boardPath   string
	simplifyAt  string
	outPath     string
	dryRun      bool
	showMetrics bool
)

var simplifyCmd = &cobra.Command{
	Use:   "simplify",
	Short: "Simplify the traces of the net signal at a position",
	Long: `Simplify the traces of the net signal found at --at and write the result.

The board is written to --out, or back to --board if --out is not given.
With --dry-run the changes are reported and undone, and nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runSimplify,
}

func init() {
	simplifyCmd.Flags().StringVarP(&boardPath, "board", "b", "", "board file")
	simplifyCmd.Flags().StringVar(&simplifyAt, "at", "", "position x,y in nanometers")
	simplifyCmd.Flags().StringVarP(&outPath, "out", "o", "", "output board file")
	simplifyCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report changes without writing")
	simplifyCmd.Flags().BoolVar(&showMetrics, "metrics", false, "print metrics after the run")
	simplifyCmd.MarkFlagRequired("board")
	simplifyCmd.MarkFlagRequired("at")
	rootCmd.AddCommand(simplifyCmd)
}

func runSimplify(cmd *cobra.Command, args []string) error {
	pos, err := geometry.ParsePoint(simplifyAt)
	if err != nil {
		return err
	}
	b, err := boardfile.LoadFile(boardPath)
	if err != nil {
		return err
	}

	// reg stays nil without metrics; a nil *Registry must not reach
	// NewMetrics as a non-nil Registerer.
	var reg *prometheus.Registry
	var metrics *simplify.Metrics
	if showMetrics || conf.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		metrics = simplify.NewMetrics(reg)
	}
	stack := undo.NewStack(conf.Undo.Limit)
	simp := simplify.New(stack,
		simplify.WithLogger(logger),
		simplify.WithMetrics(metrics))

	res, err := simp.SimplifyAt(b, pos)
	if err != nil {
		return fmt.Errorf("simplify: %w", err)
	}
	out := cmd.OutOrStdout()
	if res.NetSignal == nil {
		fmt.Fprintf(out, "No net signal at %s\n", pos)
		return printMetrics(out, reg)
	}

	st := res.Stats
	fmt.Fprintf(out, "%s\n", simplify.GroupLabel(res.NetSignal))
	fmt.Fprintf(out, "  Segments:                %d\n", res.Segments)
	fmt.Fprintf(out, "  Duplicate lines removed: %d\n", st.DuplicateLinesRemoved)
	fmt.Fprintf(out, "  Net points combined:     %d\n", st.NetPointsCombined)
	fmt.Fprintf(out, "  Lines split:             %d\n", st.LinesSplit)
	fmt.Fprintf(out, "  Chains collapsed:        %d\n", st.ChainsCollapsed)

	switch {
	case dryRun:
		if stack.CanUndo() {
			if err := stack.Undo(); err != nil {
				return fmt.Errorf("undo: %w", err)
			}
		}
		fmt.Fprintln(out, "Dry run, nothing written")
	case st.IsZero() && outPath == "":
		fmt.Fprintln(out, "Already simplified, nothing written")
	default:
		dest := outPath
		if dest == "" {
			dest = boardPath
		}
		if err := boardfile.SaveFile(dest, b); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", dest)
	}
	return printMetrics(out, reg)
}

// printMetrics writes the counters of reg, one per line.
func printMetrics(w io.Writer, reg *prometheus.Registry) error {
	if reg == nil {
		return nil
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), labels(m.GetLabel()), m.GetCounter().GetValue())
		}
	}
	return nil
}

func labels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}
