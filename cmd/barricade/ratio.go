// Ratio command: per-depth and overall barrier ratio reporting.
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/barricade/internal/ratio"
	"github.com/mesh-intelligence/barricade/pkg/types"
)

func newRatioCmd() *cobra.Command {
	depth := types.DepthNone

	cmd := &cobra.Command{
		Use:   "ratio",
		Short: "Print the refined barrier ratio",
		Long: `Print safe moves, checkmates, dead ends, and the refined ratio
safe_moves / (checkmates + dead_ends), per depth or for a single depth.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			run, err := store.LoadRun()
			if err != nil {
				return err
			}
			agg := ratio.New(store)

			if depth != types.DepthNone {
				r, err := agg.AtDepth(run.RunID, depth)
				if err != nil {
					return err
				}
				if flagJSON {
					return printJSON(cmd, r)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "depth %d: safe=%d checkmates=%d dead_ends=%d ratio=%s\n",
					depth, r.SafeMoves, r.Checkmates, r.DeadEnds, r)
				return nil
			}

			depths, err := agg.PerDepth(run.RunID)
			if err != nil {
				return err
			}
			overall, err := agg.Overall(run.RunID)
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(cmd, struct {
					Depths  []types.DepthSummary `json:"depths"`
					Overall types.Ratio          `json:"overall"`
				}{depths, overall})
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DEPTH\tNODES\tSAFE MOVES\tCHECKMATES\tDEAD ENDS\tRATIO")
			for _, d := range depths {
				fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%s\n",
					d.Depth, d.Nodes, d.SafeMoves, d.Checkmates, d.DeadEnds, d.Ratio())
			}
			fmt.Fprintf(w, "all\t\t%d\t%d\t%d\t%s\n",
				overall.SafeMoves, overall.Checkmates, overall.DeadEnds, overall)
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&depth, "depth", types.DepthNone, "restrict to a single depth")

	return cmd
}
