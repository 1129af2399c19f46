// Version command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/barricade/pkg/barricade"
)

const modulePath = "github.com/mesh-intelligence/barricade"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the barricade version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "barricade v%s\nmodule: %s\n", barricade.Version, modulePath)
			return nil
		},
	}
}
