package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	z "github.com/Oudwins/zog"

	"github.com/foremanhq/foreman/internals/runlog"
	"github.com/foremanhq/foreman/internals/schemas"
	"github.com/foremanhq/foreman/internals/task"
	"github.com/foremanhq/foreman/internals/toolbox"
	"github.com/foremanhq/foreman/internals/workspace"
)

// requirePassingTests runs the test command until its stdout no longer
// carries the failure marker. Every failing run raises a Confirm: accepting
// re-runs the tests after the human fixed things, declining aborts. The
// retry policy lives here, not in the executor.
type requirePassingTests struct {
	task.Base
	owner   *task.Context
	command string
	marker  string
	runs    int
}

func newRequirePassingTestsTask(owner *task.Context, parent task.Task, commandOverride string) *requirePassingTests {
	command := strings.TrimSpace(commandOverride)
	if command == "" {
		command = owner.Config.Workflows.TestCommand
	}
	return &requirePassingTests{
		Base:    task.NewBase(TypeRequirePassingTests, parent),
		owner:   owner,
		command: command,
		marker:  owner.Config.Workflows.FailureMarker,
	}
}

func newRequirePassingTests(owner *task.Context, parent task.Task, payload json.RawMessage) (task.Task, error) {
	var p schemas.RequirePassingTestsPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode payload: %w", err)
		}
	}
	if issues := schemas.RequirePassingTestsSchema.Validate(&p); len(issues) > 0 {
		return nil, fmt.Errorf("failed to validate payload: %s", z.Issues.FlattenAndCollect(issues))
	}
	return newRequirePassingTestsTask(owner, parent, p.TestCommand), nil
}

func (t *requirePassingTests) Execute(ctx context.Context) error {
	log := runlog.FromContext(ctx)
	for {
		t.runs++
		result, err := t.owner.Tools.Invoke(ctx, toolbox.ToolConsole, "exec", nil, []any{t.command})
		if err != nil {
			return err
		}
		exec, ok := result.(workspace.ExecResult)
		if !ok {
			return fmt.Errorf("unexpected exec result: %T", result)
		}

		if !strings.Contains(exec.Stdout, t.marker) {
			log.Info("tests passing", slog.Int("runs", t.runs))
			return nil
		}

		log.Warn("tests failing", slog.Int("runs", t.runs), slog.Int("exit_code", exec.ExitCode))
		if err := t.owner.Prompts.Approve("Tests are failing. Fix and retry?"); err != nil {
			return err
		}
	}
}

func (t *requirePassingTests) attempts() int {
	return t.runs
}
