package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forktend/forktend/sync"
)

var syncAll bool

var syncCmd = &cobra.Command{
	Use:   "sync [owner/repo]",
	Short: "Open pull requests syncing fork branches from their upstream",
	Long: `
Sync opens one pull request per upstream branch of a fork, proposing that the
upstream branch be merged into the fork branch of the same name. Pass the full
name of one of your forks, or --all to sync every fork.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if syncAll == (len(args) == 1) {
			return fmt.Errorf("provide either a fork full name or --all")
		}

		client, engine, cleanup, err := setupEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		if syncAll {
			reports, err := engine.SyncAll(cmd.Context())
			if err != nil {
				return err
			}

			return failedReportsError(reports)
		}

		forks, err := client.ListForks(cmd.Context())
		if err != nil {
			return err
		}

		for _, fork := range forks {
			if fork.FullName == args[0] {
				report := engine.SyncFork(cmd.Context(), fork)
				return failedReportsError([]sync.ForkReport{report})
			}
		}

		return fmt.Errorf("no fork named %q found for user %s", args[0], appConfig.GitHub.Username)
	},
}

// failedReportsError converts failed fork reports into a single error so the
// process exit code reflects partial failures.
func failedReportsError(reports []sync.ForkReport) error {
	failed := 0
	for _, report := range reports {
		if report.Outcome == sync.OutcomeFailed {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d forks failed to sync", failed, len(reports))
	}

	return nil
}

func init() {
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "sync every fork of the authenticated user")
	root.AddCommand(syncCmd)
}
