package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/foremanhq/foreman/internals/cliutil"
	"github.com/foremanhq/foreman/sdk"
)

var statusCmd = &cobra.Command{
	Use:   "status <task-id>",
	Short: "Show a task's status",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := sdk.NewClient()
	if err := cliutil.EnsureDaemonRunning(client); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	response, err := client.Task(ctx, args[0])
	if err != nil {
		return err
	}
	cliutil.PrintTaskSummary(response)
	return nil
}
