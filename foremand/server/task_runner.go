package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/foremanhq/foreman/foremand/tasks"
	"github.com/foremanhq/foreman/internals/schemas"
	"github.com/foremanhq/foreman/internals/task"
)

// taskRunner mirrors orchestrator lifecycle events into the store so
// GET /task/{id} reflects what actually happened. A store failure here is
// logged, never propagated: record keeping must not fail a run.
type taskRunner struct {
	store  *taskStore
	logger *slog.Logger
}

func newTaskRunner(store *taskStore, logger *slog.Logger) *taskRunner {
	return &taskRunner{store: store, logger: logger}
}

func (r *taskRunner) TaskStarted(t task.Task) {
	update := taskRecord{
		ID:        t.ID(),
		Status:    schemas.TaskStatusRunning,
		StartedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := r.store.update(context.Background(), update); err != nil {
		r.logger.Error("Failed to mark task running", "task_id", t.ID(), "error", err)
	}
}

func (r *taskRunner) TaskFinished(t task.Task, runErr error) {
	update := taskRecord{
		ID:         t.ID(),
		FinishedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if runErr != nil {
		update.Status = schemas.TaskStatusFailed
		update.Error = runErr.Error()
	} else {
		update.Status = schemas.TaskStatusSucceeded
		update.ResultJSON = r.encodeResult(t)
	}
	if err := r.store.update(context.Background(), update); err != nil {
		r.logger.Error("Failed to finalize task", "task_id", t.ID(), "error", err)
	}
}

func (r *taskRunner) encodeResult(t task.Task) string {
	resulter, ok := t.(tasks.Resulter)
	if !ok {
		return ""
	}
	result := resulter.Result()
	if result == nil {
		return ""
	}
	data, err := json.Marshal(result)
	if err != nil {
		r.logger.Error("Failed to encode task result", "task_id", t.ID(), "error", err)
		return ""
	}
	return string(data)
}
