// Shared helpers for barricade subcommands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/barricade/pkg/sqlite"
	"github.com/mesh-intelligence/barricade/pkg/types"
)

// openStore attaches the configured tree store. The caller must Detach.
// Config was validated before any command runs, so a failure here is a
// storage fault and exits with the system code.
func openStore() (types.TreeStore, error) {
	store := sqlite.NewStore()
	if err := store.Attach(appConfig); err != nil {
		return nil, fmt.Errorf("%w: attach: %w", types.ErrStorage, err)
	}
	return store, nil
}

// interruptContext returns a context cancelled on SIGINT, so long-running
// passes stop cleanly at the next level boundary.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
