package cmd

import (
	"github.com/spf13/cobra"

	"github.com/forktend/forktend/sync"
)

var branchesCmd = &cobra.Command{
	Use:   "branches <owner/repo>",
	Short: "List the branches of a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, cleanup, err := setupEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		branches, err := client.ListBranches(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		reporter := sync.NewReporter(cmd.OutOrStdout())
		if len(branches) == 0 {
			reporter.Error("No branches found.")
			return nil
		}

		for _, branch := range branches {
			reporter.Success("- %s", branch.Name)
		}

		return nil
	},
}

func init() {
	root.AddCommand(branchesCmd)
}
