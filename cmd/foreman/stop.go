package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/foremanhq/foreman/internals/timeouts"
	"github.com/foremanhq/foreman/sdk"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the foreman daemon",
	RunE:  runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	client := sdk.NewClient()
	if !sdk.IsRunningWithTimeout(client.BaseURL(), timeouts.Probe) {
		fmt.Println("foremand is not running")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Shutdown(ctx); err != nil {
		return err
	}
	fmt.Println("foremand stopping")
	return nil
}
