package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "foreman",
	Short: "Drive code-change workflows through the foreman daemon",
	Long: `foreman submits code-change requests to a local daemon that runs them
as task trees: verify the worktree is clean, generate the change, hold until
the tests pass, commit.

Runs pause when the daemon needs an answer. Check pending questions with
'foreman prompt', answer them with 'foreman answer', or keep 'foreman tui'
open to answer them interactively.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(versionCmd)
}
