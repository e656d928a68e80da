package cmd

import (
	"github.com/spf13/cobra"

	"github.com/forktend/forktend/sync"
)

var forksCmd = &cobra.Command{
	Use:   "forks",
	Short: "List all forks of the authenticated user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, _, cleanup, err := setupEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		forks, err := client.ListForks(cmd.Context())
		if err != nil {
			return err
		}

		reporter := sync.NewReporter(cmd.OutOrStdout())
		if len(forks) == 0 {
			reporter.Error("No forks found.")
			return nil
		}

		for i, fork := range forks {
			reporter.Success("%d. %s", i+1, fork.FullName)
		}

		return nil
	},
}

func init() {
	root.AddCommand(forksCmd)
}
