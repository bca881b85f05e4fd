package tasks

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	z "github.com/Oudwins/zog"

	"github.com/foremanhq/foreman/internals/runlog"
	"github.com/foremanhq/foreman/internals/schemas"
	"github.com/foremanhq/foreman/internals/task"
)

// implementRequest is the default workflow: verify the worktree is clean,
// generate the requested change, hold until tests pass, commit.
type implementRequest struct {
	task.Base
	tests  *requirePassingTests
	commit *commitChanges
}

func newImplementRequest(owner *task.Context, parent task.Task, payload json.RawMessage) (task.Task, error) {
	var p schemas.ImplementRequestPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode payload: %w", err)
		}
	}
	if issues := schemas.ImplementRequestSchema.Validate(&p); len(issues) > 0 {
		return nil, fmt.Errorf("failed to validate payload: %s", z.Issues.FlattenAndCollect(issues))
	}

	instruction, err := resolveInstruction(p)
	if err != nil {
		return nil, err
	}

	t := &implementRequest{Base: task.NewBase(TypeImplementRequest, parent)}
	t.tests = newRequirePassingTestsTask(owner, t, p.TestCommand)
	t.commit = newCommitChangesTask(owner, t, p.CommitMessage)
	t.Adopt(
		newRequireCleanWorktreeTask(owner, t),
		newGenerateChangeTask(owner, t, instruction, p.Target),
		t.tests,
		t.commit,
	)
	return t, nil
}

// resolveInstruction prefers the plain text field; an audio payload carries
// the same text base64-encoded by a voice frontend.
func resolveInstruction(p schemas.ImplementRequestPayload) (string, error) {
	if p.Instruction != "" {
		return p.Instruction, nil
	}
	if p.Audio != "" {
		decoded, err := base64.StdEncoding.DecodeString(p.Audio)
		if err != nil {
			return "", fmt.Errorf("failed to decode audio payload: %w", err)
		}
		if text := strings.TrimSpace(string(decoded)); text != "" {
			return text, nil
		}
	}
	return "", errors.New("payload needs an instruction or audio")
}

func (t *implementRequest) Execute(ctx context.Context) error {
	runlog.FromContext(ctx).Info("workflow complete")
	return nil
}

func (t *implementRequest) Result() *schemas.TaskResult {
	return &schemas.TaskResult{
		Summary:  t.commit.message(),
		Attempts: t.tests.attempts(),
	}
}
