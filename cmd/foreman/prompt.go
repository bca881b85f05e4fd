package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/foremanhq/foreman/internals/cliutil"
	"github.com/foremanhq/foreman/sdk"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Show the question the current run is waiting on",
	RunE:  runPrompt,
}

func runPrompt(cmd *cobra.Command, args []string) error {
	client := sdk.NewClient()
	if err := cliutil.EnsureDaemonRunning(client); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	view, err := client.CurrentPrompt(ctx)
	if err != nil {
		return err
	}
	if view == nil {
		fmt.Println("no pending prompt")
		return nil
	}
	cliutil.PrintPrompt(view)
	return nil
}
