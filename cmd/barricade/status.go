// Status command: checkpoint progress.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/barricade/pkg/types"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print checkpoint progress for the stored run",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			run, err := store.LoadRun()
			if errors.Is(err, types.ErrNoRun) {
				fmt.Fprintln(cmd.OutOrStdout(), "No run stored")
				return nil
			}
			if err != nil {
				return err
			}

			total, err := store.TotalNodes(run.RunID)
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(cmd, struct {
					*types.Run
					TotalNodes int64 `json:"total_nodes"`
				}{run, total})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:             %s\n", run.RunID)
			fmt.Fprintf(out, "Root:            %s\n", run.RootFEN)
			fmt.Fprintf(out, "Target depth:    %d\n", run.MaxDepth)
			fmt.Fprintf(out, "Generated depth: %d\n", run.GeneratedDepth)
			if run.RetroStarted() {
				fmt.Fprintf(out, "Resolved down to depth %d\n", run.RetroDepth)
			} else {
				fmt.Fprintln(out, "Retrograde pass not started")
			}
			fmt.Fprintf(out, "Total nodes:     %d\n", total)
			return nil
		},
	}
}
