package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	z "github.com/Oudwins/zog"

	"github.com/foremanhq/foreman/internals/generate"
	"github.com/foremanhq/foreman/internals/runlog"
	"github.com/foremanhq/foreman/internals/schemas"
	"github.com/foremanhq/foreman/internals/task"
	"github.com/foremanhq/foreman/internals/toolbox"
)

const generateSystem = "You modify one file in a repository. Reply with the complete new content of the target file and nothing else: no code fences, no commentary."

// generateChange asks the model for the target file's new content and writes
// it. A missing target is fine: the change creates it.
type generateChange struct {
	task.Base
	owner       *task.Context
	instruction string
	target      string
}

func newGenerateChangeTask(owner *task.Context, parent task.Task, instruction, target string) *generateChange {
	return &generateChange{
		Base:        task.NewBase(TypeGenerateChange, parent),
		owner:       owner,
		instruction: instruction,
		target:      target,
	}
}

func newGenerateChange(owner *task.Context, parent task.Task, payload json.RawMessage) (task.Task, error) {
	var p schemas.GenerateChangePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode payload: %w", err)
		}
	}
	if issues := schemas.GenerateChangeSchema.Validate(&p); len(issues) > 0 {
		return nil, fmt.Errorf("failed to validate payload: %s", z.Issues.FlattenAndCollect(issues))
	}
	return newGenerateChangeTask(owner, parent, p.Instruction, p.Target), nil
}

func (t *generateChange) Execute(ctx context.Context) error {
	log := runlog.FromContext(ctx)

	current := ""
	existing, err := t.owner.Tools.Invoke(ctx, toolbox.ToolFiles, "read", nil, []any{t.target})
	switch {
	case err == nil:
		current, _ = existing.(string)
	case errors.Is(err, fs.ErrNotExist):
		log.Debug("target does not exist yet", slog.String("target", t.target))
	default:
		return err
	}

	req := generate.Request{
		System: generateSystem,
		Prompt: buildGeneratePrompt(t.instruction, t.target, current),
	}
	generated, err := t.owner.Tools.Invoke(ctx, toolbox.ToolModel, "generate", nil, []any{req})
	if err != nil {
		return err
	}
	content, ok := generated.(string)
	if !ok {
		return fmt.Errorf("unexpected generate result: %T", generated)
	}

	if _, err := t.owner.Tools.Invoke(ctx, toolbox.ToolFiles, "write", nil, []any{t.target, content}); err != nil {
		return err
	}
	log.Info("wrote generated change", slog.String("target", t.target), slog.Int("bytes", len(content)))
	return nil
}

func buildGeneratePrompt(instruction, target, current string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target file: %s\n\n", target)
	fmt.Fprintf(&b, "Instruction: %s\n", instruction)
	if current != "" {
		fmt.Fprintf(&b, "\nCurrent content:\n%s", current)
	}
	return b.String()
}
