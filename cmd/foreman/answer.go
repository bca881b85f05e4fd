package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/foremanhq/foreman/internals/cliutil"
	"github.com/foremanhq/foreman/sdk"
)

var (
	answerApprove bool
	answerDeny    bool
)

var answerCmd = &cobra.Command{
	Use:   "answer [text...]",
	Short: "Answer the question the current run is waiting on",
	Long: `Answer the pending prompt. Confirmation prompts take --approve or
--deny; input prompts take the answer as arguments.`,
	RunE: runAnswer,
}

func init() {
	answerCmd.Flags().BoolVar(&answerApprove, "approve", false, "Approve a confirmation prompt")
	answerCmd.Flags().BoolVar(&answerDeny, "deny", false, "Decline a confirmation prompt")
}

func runAnswer(cmd *cobra.Command, args []string) error {
	response, err := answerValue(args)
	if err != nil {
		return err
	}

	client := sdk.NewClient()
	if err := cliutil.EnsureDaemonRunning(client); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	resolved, err := client.ResolvePrompt(ctx, response)
	if err != nil {
		if errors.Is(err, sdk.ErrNoPendingPrompt) {
			return errors.New("no pending prompt to answer")
		}
		return err
	}
	if resolved.Message != "" {
		fmt.Println(resolved.Message)
	}
	return nil
}

// answerValue picks the response: --approve/--deny map to a boolean for
// confirmation prompts, text arguments to a string for input prompts.
func answerValue(args []string) (any, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	switch {
	case answerApprove && answerDeny:
		return nil, errors.New("--approve and --deny are mutually exclusive")
	case (answerApprove || answerDeny) && text != "":
		return nil, errors.New("pass either --approve/--deny or answer text, not both")
	case answerApprove:
		return true, nil
	case answerDeny:
		return false, nil
	case text != "":
		return text, nil
	}
	return nil, errors.New("an answer is required: --approve, --deny, or text")
}
