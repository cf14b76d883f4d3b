package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/totara/internal/ui"
	"github.com/PolarWolf314/totara/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	doctorStore      string
	doctorRepo       string
	doctorFile       string
	doctorJSONOutput bool

	// doctorExitFunc is the function called to exit with a specific code.
	// Can be overridden for testing.
	doctorExitFunc = os.Exit
)

func init() {
	doctorCmd.Flags().StringVar(&doctorStore, "store", "", "secret store to check (github, gh, or aws)")
	doctorCmd.Flags().StringVar(&doctorRepo, "repo", "", "target repository as owner/name")
	doctorCmd.Flags().StringVar(&doctorFile, "file", "", "definition file to check (default .env)")
	doctorCmd.Flags().BoolVar(&doctorJSONOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(doctorCmd)
}

// resetDoctorCommandState resets the doctor command's global state for testing.
func resetDoctorCommandState() {
	doctorStore = ""
	doctorRepo = ""
	doctorFile = ""
	doctorJSONOutput = false
	doctorExitFunc = os.Exit
}

// SetDoctorExitFunc sets the exit function for testing purposes.
func SetDoctorExitFunc(f func(int)) {
	doctorExitFunc = f
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that a push would succeed without uploading anything",
	Long: `Doctor runs the same preflight checks a push would and reports each one.

It verifies the project config, the store selection, the store's
prerequisites (tool on PATH, token in the environment, cloud credentials),
the definition file, and - for stores that encrypt client-side - that the
repository's public key can be fetched.

Exit codes:
  0 - All checks passed
  1 - Warnings found (non-critical issues)
  2 - Errors found (critical issues)

Use --json for machine-readable output.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting doctor command")
	spinner, cleanup := startSpinner("Checking push prerequisites...", verbose)
	defer cleanup()

	result, err := workflows.Doctor(context.Background(), workflows.DoctorOptions{
		Store:    doctorStore,
		Repo:     doctorRepo,
		File:     doctorFile,
		NewStore: newStoreOverride,
	})
	if err != nil {
		spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to run checks: " + err.Error()
		return errSilent
	}
	cleanup()

	if doctorJSONOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else {
		printDoctorChecks(result)
	}

	switch {
	case result.Summary.Errors > 0:
		doctorExitFunc(2)
	case result.Summary.Warnings > 0:
		doctorExitFunc(1)
	}
	return nil
}

func printDoctorChecks(result *workflows.DoctorResult) {
	for _, check := range result.Checks {
		var marker string
		switch check.Status {
		case workflows.CheckPass:
			marker = ui.Success.Sprint("✓")
		case workflows.CheckWarning:
			marker = ui.Warning.Sprint("⚠")
		default:
			marker = ui.Error.Sprint("✗")
		}
		fmt.Println(marker + " " + check.Name + ": " + check.Message)
		if check.Suggestion != "" && check.Status != workflows.CheckPass {
			fmt.Println("  " + ui.Info.Sprint("→") + " " + check.Suggestion)
		}
	}

	fmt.Println()
	fmt.Printf("%d passed, %d warnings, %d errors\n",
		result.Summary.Passed, result.Summary.Warnings, result.Summary.Errors)
}
