package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/foremanhq/foreman/internals/runlog"
	"github.com/foremanhq/foreman/internals/task"
	"github.com/foremanhq/foreman/internals/toolbox"
)

// requireCleanWorktree gates the workflow on a clean repository. A dirty
// worktree raises a Confirm; declining aborts the rest of the tree.
type requireCleanWorktree struct {
	task.Base
	owner *task.Context
}

func newRequireCleanWorktreeTask(owner *task.Context, parent task.Task) *requireCleanWorktree {
	return &requireCleanWorktree{Base: task.NewBase(TypeRequireCleanWorktree, parent), owner: owner}
}

func newRequireCleanWorktree(owner *task.Context, parent task.Task, _ json.RawMessage) (task.Task, error) {
	return newRequireCleanWorktreeTask(owner, parent), nil
}

func (t *requireCleanWorktree) Execute(ctx context.Context) error {
	result, err := t.owner.Tools.Invoke(ctx, toolbox.ToolVCS, "isClean", nil, nil)
	if err != nil {
		return err
	}
	clean, ok := result.(bool)
	if !ok {
		return fmt.Errorf("unexpected isClean result: %T", result)
	}

	log := runlog.FromContext(ctx)
	if clean {
		log.Debug("worktree clean")
		return nil
	}
	log.Warn("worktree has uncommitted changes")
	return t.owner.Prompts.Approve("Working tree has uncommitted changes. Continue anyway?")
}
