// Reset command: drop all stored nodes and runs.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove all stored nodes and runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			if err := store.Reset(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Store reset")
			return nil
		},
	}
}
