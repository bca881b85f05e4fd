package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/foremanhq/foreman/internals/term"
	"github.com/foremanhq/foreman/sdk"
	"github.com/foremanhq/foreman/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive prompt console",
	Long: `Open a console that watches for prompts and lets you answer them as
runs raise them. Useful alongside 'foreman task --wait' in another terminal.`,
	RunE: runTui,
}

func runTui(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(os.Stdout) {
		return errors.New("foreman tui needs an interactive terminal")
	}
	return tui.Run(sdk.NewClient())
}
