package cmd

import (
	"context"
	"errors"
	"fmt"

	kerrors "github.com/PolarWolf314/totara/internal/errors"
	"github.com/PolarWolf314/totara/internal/ui"
	"github.com/PolarWolf314/totara/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	initName  string
	initStore string
	initRepo  string
	initFile  string
)

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "project name (default: directory name)")
	initCmd.Flags().StringVar(&initStore, "store", "", "secret store pushes should target (github, gh, or aws)")
	initCmd.Flags().StringVar(&initRepo, "repo", "", "target repository as owner/name")
	initCmd.Flags().StringVar(&initFile, "file", "", "definition file to read on push (default .env)")

	rootCmd.AddCommand(initCmd)
}

// resetInitCommandState resets the init command's global state for testing.
func resetInitCommandState() {
	initName = ""
	initStore = ""
	initRepo = ""
	initFile = ""
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .totara/config.toml in the current directory",
	Long: `Init records which secret store, repository, and definition file future
pushes should use, so 'totara push' needs no flags.

The config file never holds credentials; tokens stay in the environment.

Example:
  totara init --store github --repo owner/name`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting init command")
	spinner, cleanup := startSpinner("Initializing project...", verbose)
	defer cleanup()

	result, err := workflows.Init(context.Background(), workflows.InitOptions{
		ProjectName: initName,
		Store:       initStore,
		Repo:        initRepo,
		File:        initFile,
	})
	if err != nil {
		if errors.Is(err, kerrors.ErrProjectAlreadyInitialized) {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Totara has already been initialized here\n" +
				ui.Info.Sprint("→") + " Edit " + ui.Path.Sprint(".totara/config.toml") + " to change settings"
			return errSilent
		}
		spinner.FinalMSG = ui.Error.Sprint("✗") + " Init failed: " + err.Error()
		return errSilent
	}
	cleanup()

	fmt.Println(ui.Success.Sprint("✓") + " Project " + ui.Highlight.Sprint(result.ProjectName) + " initialized")
	fmt.Println(ui.Info.Sprint("→") + " Config written to " + ui.Path.Sprint(result.ConfigPath))
	fmt.Println(ui.Info.Sprint("→") + " Pushes will target the " + ui.Highlight.Sprint(result.Store) + " store")
	if initRepo == "" && result.Store != "aws" {
		fmt.Println(ui.Info.Sprint("→") + " Set the repository with " + ui.Code.Sprint("totara push --repo owner/name") +
			" or add it to the config")
	}
	return nil
}
