package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foremanhq/foreman/internals/cliutil"
	"github.com/foremanhq/foreman/internals/timeouts"
	"github.com/foremanhq/foreman/internals/version"
	"github.com/foremanhq/foreman/sdk"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the CLI and daemon versions",
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("foreman version %s\n", version.Version())

	client := sdk.NewClient()
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Probe)
	defer cancel()
	remote, err := client.Version(ctx)
	if err != nil {
		fmt.Println("foremand: not running")
		return
	}
	fmt.Printf("foremand version %s\n", remote)
	cliutil.PrintDaemonAddress(client.BaseURL())
}
