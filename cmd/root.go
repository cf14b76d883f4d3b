package cmd

import (
	"errors"
	"fmt"
	"os"

	logger "github.com/PolarWolf314/totara/internal/logging"
	"github.com/PolarWolf314/totara/internal/ui"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	rootCmd = &cobra.Command{
		Use:   "totara",
		Short: "Totara - Publish local environment secrets to a remote secret store.",
		Long: `Totara reads a local definition file of NAME=VALUE pairs and publishes
each entry as a repository-scoped secret in a remote secret store.

Supported stores:
  github     GitHub repository secrets via the REST API (values are
             encrypted client-side against the repository's public key)
  gh         GitHub repository secrets via the gh CLI's ambient session
  aws        AWS Secrets Manager

The store, repository, and definition file come from .totara/config.toml
(created with 'totara init') and can be overridden per run with flags.
Credentials are read from the environment or the ambient tool session only.

Run 'totara help <command>' for more details on a specific command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing totara with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

// errSilent signals a non-zero exit for an error whose message has already
// been printed by the command itself.
var errSilent = errors.New("silent error")

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
}

// Execute runs the root command. It returns a non-nil error when the process
// should exit non-zero; the user-facing message has been printed by then.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" "+err.Error())
		}
		return err
	}
	return nil
}

// GetRootCmd returns the root command for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetPushCommandState()
	resetInitCommandState()
	resetDoctorCommandState()
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
