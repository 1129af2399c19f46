// Analyze command: retrograde resolution pass.
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/barricade/internal/retrograde"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run the retrograde barrier pass over the stored tree",
		Long: `Process the stored tree from the deepest committed level up to the
root, converting checkmates and derived dead ends into ancestor counter
decrements. Resumable: an interrupted pass continues from its last
resolved level.`,
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

			ctx, stop := interruptContext()
			defer stop()

			engine := retrograde.New(store, log)
			if err := engine.Run(ctx, run); err != nil {
				if errors.Is(err, context.Canceled) {
					fmt.Fprintf(cmd.OutOrStdout(), "Interrupted; resolution committed down to depth %d\n", run.RetroDepth)
					return nil
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Retrograde pass complete")
			return nil
		},
	}
}
