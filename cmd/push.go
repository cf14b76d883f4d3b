package cmd

import (
	"context"
	"errors"
	"fmt"

	kerrors "github.com/PolarWolf314/totara/internal/errors"
	"github.com/PolarWolf314/totara/internal/store"
	"github.com/PolarWolf314/totara/internal/ui"
	"github.com/PolarWolf314/totara/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	pushStore  string
	pushRepo   string
	pushFile   string
	pushStrict bool

	// newStoreOverride replaces store construction in tests.
	newStoreOverride func(kind string, cfg store.Config) (store.Store, error)
)

func init() {
	pushCmd.Flags().StringVar(&pushStore, "store", "", "secret store to push to (github, gh, or aws)")
	pushCmd.Flags().StringVar(&pushRepo, "repo", "", "target repository as owner/name")
	pushCmd.Flags().StringVar(&pushFile, "file", "", "definition file to read (default .env)")
	pushCmd.Flags().BoolVar(&pushStrict, "strict", false, "exit non-zero when any secret fails to upload")

	rootCmd.AddCommand(pushCmd)
}

// resetPushCommandState resets the push command's global state for testing.
func resetPushCommandState() {
	pushStore = ""
	pushRepo = ""
	pushFile = ""
	pushStrict = false
	newStoreOverride = nil
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push every entry of the definition file to the remote secret store",
	Long: `Push reads the definition file line by line and uploads each NAME=VALUE
entry as a repository secret.

Blank lines and #-comments are ignored; lines that don't split cleanly on
their first '=' are skipped. Entries are uploaded one at a time and a failed
entry never stops the run - each outcome is reported as it happens, followed
by a completion notice.

Examples:
  totara push
  totara push --repo owner/name --store gh
  totara push --file .env.production --strict`,
	RunE: runPush,
}

func runPush(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting push command")
	spinner, cleanup := startSpinner("Preparing to push secrets...", verbose)
	defer cleanup()

	entriesStarted := false
	opts := workflows.PushOptions{
		Store:    pushStore,
		Repo:     pushRepo,
		File:     pushFile,
		NewStore: newStoreOverride,
		OnEntry: func(result workflows.EntryResult) {
			// Stop the spinner before the first per-entry notice so the
			// notices don't fight the spinner for the line.
			if !entriesStarted {
				entriesStarted = true
				cleanup()
			}
			printEntryNotice(result)
		},
	}

	result, err := workflows.Push(context.Background(), opts)
	if err != nil {
		spinner.FinalMSG = formatPushError(err)
		return errSilent
	}
	cleanup()

	printPushSummary(result)

	if pushStrict && result.Failed > 0 {
		return errSilent
	}
	return nil
}

func printEntryNotice(result workflows.EntryResult) {
	if result.Err == nil {
		fmt.Println(ui.Success.Sprint("✓") + " Secret " + ui.Highlight.Sprint(result.Name) + " uploaded")
		return
	}

	action := "upload"
	if errors.Is(result.Err, kerrors.ErrEncryptFailed) {
		action = "encrypt"
	}
	fmt.Println(ui.Error.Sprint("✗") + " Failed to " + action + " secret " +
		ui.Highlight.Sprint(result.Name) + ": " + result.Err.Error())
}

func printPushSummary(result *workflows.PushResult) {
	Logger.Debugf("Push processed %d entries (%d malformed lines skipped)", result.Attempted, result.Malformed)

	target := result.Store
	if result.Repo != "" {
		target += " " + ui.Highlight.Sprint(result.Repo)
	}

	if result.Failed > 0 {
		fmt.Println(ui.Warning.Sprint("⚠") + fmt.Sprintf(" Push complete: %d uploaded, %d failed to %s",
			result.Uploaded, result.Failed, target))
		return
	}
	fmt.Println(ui.Success.Sprint("✓") + fmt.Sprintf(" Push complete: %d secrets uploaded to %s",
		result.Uploaded, target))
}

func formatPushError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrToolNotFound):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Install the tool or switch stores with " + ui.Code.Sprint("--store github")

	case errors.Is(err, kerrors.ErrCredentialsNotFound):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Credentials are read from the environment only, never from flags or config"

	case errors.Is(err, kerrors.ErrRepoNotSet):
		return ui.Error.Sprint("✗") + " No target repository configured\n" +
			ui.Info.Sprint("→") + " Pass " + ui.Code.Sprint("--repo owner/name") + " or run " + ui.Code.Sprint("totara init")

	case errors.Is(err, kerrors.ErrEnvFileNotFound):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Create the file or point " + ui.Code.Sprint("--file") + " at it"

	case errors.Is(err, kerrors.ErrPublicKeyFetch):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Check the repository name and your token's access to it"

	case errors.Is(err, kerrors.ErrUnknownStore):
		return ui.Error.Sprint("✗") + " " + err.Error()

	case errors.Is(err, kerrors.ErrInvalidProjectConfig):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Fix or regenerate " + ui.Path.Sprint(".totara/config.toml")

	default:
		return ui.Error.Sprint("✗") + " Push failed: " + err.Error()
	}
}
