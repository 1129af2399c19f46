// Generate command: breadth-first expansion of the move tree.
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/barricade/internal/generate"
	"github.com/mesh-intelligence/barricade/internal/oracle"
)

func newGenerateCmd() *cobra.Command {
	var (
		fen    string
		depth  int
		resume bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the move tree to a bounded depth",
		Long: `Expand the root position breadth-first, committing one whole depth
level at a time. An interrupted run can be continued with --resume and
loses at most the level that was in flight.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if depth < 0 {
				return fmt.Errorf("depth must not be negative")
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			ctx, stop := interruptContext()
			defer stop()

			gen := generate.New(store, oracle.New(), log, appConfig.Workers)
			run, err := gen.Run(ctx, fen, depth, resume)
			if err != nil {
				if errors.Is(err, context.Canceled) && run != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Interrupted; generation committed through depth %d\n", run.GeneratedDepth)
					return nil
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generated tree to depth %d\n", run.GeneratedDepth)
			return nil
		},
	}

	cmd.Flags().StringVar(&fen, "fen", oracle.StartPosition, "root position in FEN")
	cmd.Flags().IntVar(&depth, "depth", 4, "maximum depth to expand")
	cmd.Flags().BoolVar(&resume, "resume", false, "continue the stored run from its checkpoint")

	return cmd
}
