// Root command for the barricade CLI.
package main

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/barricade/internal/logx"
	"github.com/mesh-intelligence/barricade/internal/paths"
	"github.com/mesh-intelligence/barricade/pkg/barricade"
	"github.com/mesh-intelligence/barricade/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// appConfig is the resolved configuration, set by PersistentPreRunE so
// all subcommands can use it.
var appConfig types.Config

// log is the process-wide logger, configured from appConfig.
var log zerolog.Logger

// exitCode maps a command error to the process exit status. Storage and
// integrity faults get the system code; everything else, flag misuse and
// run-state conflicts included, is something the caller can correct.
func exitCode(err error) int {
	switch {
	case errors.Is(err, types.ErrStorage),
		errors.Is(err, types.ErrIntegrity),
		errors.Is(err, types.ErrNotAttached),
		errors.Is(err, types.ErrAlreadyAttached):
		return exitSysError
	default:
		return exitUserError
	}
}

var rootCmd = &cobra.Command{
	Use:   "barricade",
	Short: "Barricade measures checkmate barriers by retrograde analysis",
	Long: `Barricade expands a chess position breadth-first into a durable move
tree, runs a retrograde pass that turns checkmates and derived dead ends
into ancestor counter decrements, and reports the ratio of surviving
safe moves to eliminated branches per depth.`,
	Version:      barricade.Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}

		v, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		dataDir, err := paths.ResolveDataDir(flagDataDir, v.GetString(cfgKeyDataDir))
		if err != nil {
			return err
		}

		appConfig = types.Config{
			Backend:  v.GetString(cfgKeyBackend),
			DataDir:  dataDir,
			Workers:  v.GetInt(cfgKeyWorkers),
			LogLevel: v.GetString(cfgKeyLogLevel),
		}
		if err := appConfig.Validate(); err != nil {
			return err
		}

		log = logx.NewLogger(appConfig.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: .barricade-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newRatioCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newVersionCmd())
}
