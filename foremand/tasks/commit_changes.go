package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	z "github.com/Oudwins/zog"

	"github.com/foremanhq/foreman/internals/runlog"
	"github.com/foremanhq/foreman/internals/schemas"
	"github.com/foremanhq/foreman/internals/task"
	"github.com/foremanhq/foreman/internals/toolbox"
)

// commitChanges commits everything in the worktree. Without a preset message
// it raises an Input prompt for one.
type commitChanges struct {
	task.Base
	owner  *task.Context
	preset string
	used   string
}

func newCommitChangesTask(owner *task.Context, parent task.Task, presetMessage string) *commitChanges {
	return &commitChanges{
		Base:   task.NewBase(TypeCommitChanges, parent),
		owner:  owner,
		preset: strings.TrimSpace(presetMessage),
	}
}

func newCommitChanges(owner *task.Context, parent task.Task, payload json.RawMessage) (task.Task, error) {
	var p schemas.CommitChangesPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode payload: %w", err)
		}
	}
	if issues := schemas.CommitChangesSchema.Validate(&p); len(issues) > 0 {
		return nil, fmt.Errorf("failed to validate payload: %s", z.Issues.FlattenAndCollect(issues))
	}
	return newCommitChangesTask(owner, parent, p.CommitMessage), nil
}

func (t *commitChanges) Execute(ctx context.Context) error {
	message := t.preset
	if message == "" {
		answer, err := t.owner.Prompts.Ask("Commit message:")
		if err != nil {
			return err
		}
		message = strings.TrimSpace(answer)
	}
	if message == "" {
		return errors.New("commit message is empty")
	}

	if _, err := t.owner.Tools.Invoke(ctx, toolbox.ToolVCS, "commit", nil, []any{message}); err != nil {
		return err
	}
	t.used = message
	runlog.FromContext(ctx).Info("committed changes", slog.String("message", message))
	return nil
}

func (t *commitChanges) message() string {
	return t.used
}
