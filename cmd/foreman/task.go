package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	z "github.com/Oudwins/zog"
	"github.com/spf13/cobra"

	"github.com/foremanhq/foreman/internals/cliutil"
	"github.com/foremanhq/foreman/internals/schemas"
	"github.com/foremanhq/foreman/sdk"
)

type taskArgs struct {
	Instruction   string
	Audio         string
	Target        string
	Type          string
	TestCommand   string
	CommitMessage string
	Payload       string
	Wait          bool
	Timeout       string
}

var taskArgsSchema = z.Struct(z.Shape{
	"Instruction":   z.String().Optional().Trim(),
	"Audio":         z.String().Optional().Trim(),
	"Target":        z.String().Optional().Trim(),
	"Type":          z.String().Optional().Trim(),
	"TestCommand":   z.String().Optional().Trim(),
	"CommitMessage": z.String().Optional().Trim(),
	"Payload":       z.String().Optional().Trim(),
	"Timeout":       z.String().Optional().Trim(),
})

var taskFlags = taskArgs{}

var taskCmd = &cobra.Command{
	Use:   "task [instruction...]",
	Short: "Submit a code-change request",
	Long: `Submit a code-change request to the daemon. The instruction describes
the change and --target names the file it lands in. With --wait the command
blocks until the run finishes, printing any prompt the run raises so you know
it is waiting on an answer rather than hung.

For workflows with a different payload shape, pass --payload with raw JSON
instead of the structured flags.`,
	RunE: runTask,
}

func init() {
	taskCmd.Flags().StringVar(&taskFlags.Type, "type", "", "Workflow to run (defaults to the daemon's configured default)")
	taskCmd.Flags().StringVar(&taskFlags.Target, "target", "", "File the change should land in")
	taskCmd.Flags().StringVar(&taskFlags.Audio, "audio", "", "Audio file with a voice capture of the instruction")
	taskCmd.Flags().StringVar(&taskFlags.TestCommand, "test-command", "", "Test command override for this run")
	taskCmd.Flags().StringVar(&taskFlags.CommitMessage, "commit-message", "", "Commit message, skips the commit prompt")
	taskCmd.Flags().StringVar(&taskFlags.Payload, "payload", "", "Raw JSON payload, overrides the structured flags")
	taskCmd.Flags().BoolVar(&taskFlags.Wait, "wait", false, "Block until the run reaches a terminal status")
	taskCmd.Flags().StringVar(&taskFlags.Timeout, "wait-timeout", "", "How long --wait blocks, e.g. 30m")
}

func runTask(cmd *cobra.Command, args []string) error {
	parsed := taskFlags
	parsed.Instruction = strings.Join(args, " ")
	if issues := taskArgsSchema.Validate(&parsed); len(issues) > 0 {
		return fmt.Errorf("invalid arguments:\n%s", z.Issues.Prettify(issues))
	}

	payload, err := buildTaskPayload(parsed)
	if err != nil {
		return err
	}

	client := sdk.NewClient()
	if err := cliutil.EnsureDaemonRunning(client); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	response, err := client.CreateTask(ctx, schemas.TaskCreateRequest{Type: parsed.Type, Payload: payload})
	if err != nil {
		return err
	}
	cliutil.PrintTaskSummary(response)

	if !parsed.Wait {
		return nil
	}
	timeout, err := cliutil.ParseWaitTimeout(parsed.Timeout)
	if err != nil {
		return err
	}
	final, err := cliutil.WaitForTask(client, response.TaskID, timeout)
	if final != nil {
		cliutil.PrintTaskSummary(final)
	}
	return err
}

// buildTaskPayload assembles the request payload. A raw --payload wins;
// otherwise the structured flags build an implement-request payload, with
// --audio read from disk and base64 encoded the way voice frontends send it.
func buildTaskPayload(parsed taskArgs) (json.RawMessage, error) {
	if parsed.Payload != "" {
		if !json.Valid([]byte(parsed.Payload)) {
			return nil, errors.New("--payload is not valid JSON")
		}
		return json.RawMessage(parsed.Payload), nil
	}

	if parsed.Instruction == "" && parsed.Audio == "" {
		return nil, errors.New("an instruction or --audio file is required")
	}
	if parsed.Target == "" {
		return nil, errors.New("--target is required")
	}

	request := schemas.ImplementRequestPayload{
		Instruction:   parsed.Instruction,
		Target:        parsed.Target,
		TestCommand:   parsed.TestCommand,
		CommitMessage: parsed.CommitMessage,
	}
	if parsed.Audio != "" {
		data, err := os.ReadFile(parsed.Audio)
		if err != nil {
			return nil, fmt.Errorf("failed to read audio file: %w", err)
		}
		request.Audio = base64.StdEncoding.EncodeToString(data)
	}
	return json.Marshal(request)
}
